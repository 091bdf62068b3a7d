package messagetypes

import (
	"net/http"

	"github.com/goliatone/go-listfield/pkg/listcontrol"
	"github.com/goliatone/go-listfield/pkg/taglist"
)

// Component ties one Settings value to the catalog, the tag controls built
// over it and the suggestion endpoint that serves it.
type Component struct {
	settings Settings
}

// New constructs a component over the default settings plus opts.
func New(opts ...Option) *Component {
	return &Component{settings: NewSettings(opts...)}
}

// Settings returns the resolved configuration.
func (c *Component) Settings() Settings {
	return c.settings
}

// Pool returns the configured pool, falling back to the embedded catalog.
func (c *Component) Pool() (*taglist.Pool, error) {
	return c.settings.pool()
}

// NewControl constructs a tag control over the component's pool, so its
// suggestions and the endpoint's agree.
func (c *Component) NewControl(opts ...listcontrol.Option) (*taglist.Control, error) {
	pool, err := c.Pool()
	if err != nil {
		return nil, err
	}
	return taglist.New(pool, opts...), nil
}

// Handler returns the suggestion endpoint.
func (c *Component) Handler() http.Handler {
	return &Handler{settings: c.settings}
}

// RegisterRoutes mounts the endpoint under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return register(mux, basePath, c.settings)
}
