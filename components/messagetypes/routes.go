package messagetypes

import (
	"errors"
	"net/http"
	"path"
	"strings"
)

// ErrNilMux is returned when registering on a nil router.
var ErrNilMux = errors.New("messagetypes: mux is nil")

// Mux is any router with a net/http Handle method, such as *http.ServeMux
// or a chi router.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath joins basePath and the configured route into a clean absolute path.
func MountPath(basePath string, opts ...Option) string {
	return NewSettings(opts...).mountPath(basePath)
}

// RegisterRoutes mounts a suggestion Handler on mux and returns its pattern.
func RegisterRoutes(mux Mux, basePath string, opts ...Option) (string, error) {
	return register(mux, basePath, NewSettings(opts...))
}

func register(mux Mux, basePath string, s Settings) (string, error) {
	if mux == nil {
		return "", ErrNilMux
	}
	pattern := s.mountPath(basePath)
	mux.Handle(pattern, &Handler{settings: s})
	return pattern, nil
}

func (s Settings) mountPath(basePath string) string {
	return path.Join("/", strings.TrimSpace(basePath), strings.TrimSpace(s.Route))
}
