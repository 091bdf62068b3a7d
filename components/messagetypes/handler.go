package messagetypes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

// ErrUnauthenticated may be wrapped by an Authorizer to answer 401 instead of 403.
var ErrUnauthenticated = errors.New("messagetypes: unauthenticated")

// Handler answers suggestion queries with {"data": [{"value", "label"}]}.
// GET and HEAD only; the data array is never null.
type Handler struct {
	settings Settings
}

// NewHandler builds a handler over the default settings plus opts.
func NewHandler(opts ...Option) *Handler {
	return &Handler{settings: NewSettings(opts...)}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.settings.Authorize != nil {
		if err := h.settings.Authorize(r); err != nil {
			status := http.StatusForbidden
			if errors.Is(err, ErrUnauthenticated) {
				status = http.StatusUnauthorized
			}
			http.Error(w, http.StatusText(status), status)
			return
		}
	}

	pool, err := h.settings.pool()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get(h.settings.LimitParam))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	payload := struct {
		Data []Suggestion `json:"data"`
	}{Data: []Suggestion{}}
	for tag := range matches(pool, query.Get(h.settings.QueryParam), limit, h.settings) {
		payload.Data = append(payload.Data, suggestionOf(tag))
	}
	_ = json.NewEncoder(w).Encode(payload)
}
