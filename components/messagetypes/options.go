package messagetypes

import (
	"net/http"

	"github.com/goliatone/go-listfield/pkg/taglist"
)

const (
	defaultRoute      = "/api/message-types"
	defaultQueryParam = "q"
	defaultLimitParam = "limit"
	defaultLimit      = 50
	defaultMaxLimit   = 200
)

// EmptySearchMode decides what an empty query suggests.
type EmptySearchMode uint8

const (
	// EmptySearchAll suggests the whole catalog, like a freshly opened chip input.
	EmptySearchAll EmptySearchMode = iota
	// EmptySearchNone suggests nothing until the user types.
	EmptySearchNone
)

// Authorizer vets a suggestion request. A non-nil error rejects it with 403,
// or 401 when the error wraps ErrUnauthenticated.
type Authorizer func(r *http.Request) error

// Settings configures the suggestion endpoint and the Search helpers.
// Zero fields fall back to the package defaults.
type Settings struct {
	Route        string
	QueryParam   string
	LimitParam   string
	DefaultLimit int
	MaxLimit     int
	EmptySearch  EmptySearchMode
	Authorize    Authorizer

	// Pool replaces the embedded catalog.
	Pool *taglist.Pool
}

// Option mutates Settings.
type Option func(*Settings)

// NewSettings applies opts over the defaults.
func NewSettings(opts ...Option) Settings {
	var s Settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s.withDefaults()
}

func (s Settings) withDefaults() Settings {
	if s.Route == "" {
		s.Route = defaultRoute
	}
	if s.QueryParam == "" {
		s.QueryParam = defaultQueryParam
	}
	if s.LimitParam == "" {
		s.LimitParam = defaultLimitParam
	}
	if s.DefaultLimit <= 0 {
		s.DefaultLimit = defaultLimit
	}
	if s.MaxLimit <= 0 {
		s.MaxLimit = defaultMaxLimit
	}
	return s
}

// limit resolves a requested result count: 0 means the default, negative
// means none, and anything above MaxLimit is capped.
func (s Settings) limit(requested int) int {
	switch {
	case requested < 0:
		return 0
	case requested == 0:
		requested = s.DefaultLimit
	}
	return min(requested, s.MaxLimit)
}

// pool returns the configured pool or the embedded catalog.
func (s Settings) pool() (*taglist.Pool, error) {
	if s.Pool != nil {
		return s.Pool, nil
	}
	return DefaultPool()
}

// WithRoute mounts the endpoint at route below the base path.
func WithRoute(route string) Option {
	return func(s *Settings) { s.Route = route }
}

// WithQueryParam renames the search text parameter ("q").
func WithQueryParam(name string) Option {
	return func(s *Settings) { s.QueryParam = name }
}

// WithLimitParam renames the result count parameter ("limit").
func WithLimitParam(name string) Option {
	return func(s *Settings) { s.LimitParam = name }
}

// WithDefaultLimit sets the result count used when the request names none.
func WithDefaultLimit(limit int) Option {
	return func(s *Settings) { s.DefaultLimit = limit }
}

// WithMaxLimit caps the result count a request may ask for.
func WithMaxLimit(limit int) Option {
	return func(s *Settings) { s.MaxLimit = limit }
}

// WithEmptySearch selects what an empty query returns.
func WithEmptySearch(mode EmptySearchMode) Option {
	return func(s *Settings) { s.EmptySearch = mode }
}

// WithAuthorizer installs a request check run before any lookup.
func WithAuthorizer(fn Authorizer) Option {
	return func(s *Settings) { s.Authorize = fn }
}

// WithPool serves suggestions from pool instead of the embedded catalog.
func WithPool(pool *taglist.Pool) Option {
	return func(s *Settings) { s.Pool = pool }
}
