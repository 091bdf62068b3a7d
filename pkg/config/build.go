package config

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-listfield/components/messagetypes"
	"github.com/goliatone/go-listfield/pkg/form"
	"github.com/goliatone/go-listfield/pkg/kvmap"
	"github.com/goliatone/go-listfield/pkg/listcontrol"
	"github.com/goliatone/go-listfield/pkg/taglist"
)

// BuildOption customises control construction.
type BuildOption func(*buildSettings)

type buildSettings struct {
	pool   *taglist.Pool
	logger *slog.Logger
}

// WithDefaultPool sets the pool used by tag fields that declare no inline
// pool. Without it the embedded message type catalog is used.
func WithDefaultPool(pool *taglist.Pool) BuildOption {
	return func(s *buildSettings) {
		s.pool = pool
	}
}

// WithLogger passes logger to every constructed control and form.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(s *buildSettings) {
		s.logger = logger
	}
}

func newBuildSettings(opts []BuildOption) buildSettings {
	var s buildSettings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// Build constructs the control described by field.
func Build(field Field, opts ...BuildOption) (form.FieldControl, error) {
	s := newBuildSettings(opts)
	return build(field, &s)
}

// BuildForm constructs every control in doc and attaches them to a new form
// in document order.
func BuildForm(doc Document, opts ...BuildOption) (*form.Form, error) {
	s := newBuildSettings(opts)
	var formOpts []form.Option
	if s.logger != nil {
		formOpts = append(formOpts, form.WithLogger(s.logger))
	}

	f := form.New(formOpts...)
	for _, field := range doc.Fields {
		control, err := build(field, &s)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Attach(field.Name, control); err != nil {
			control.Close()
			f.Close()
			return nil, fmt.Errorf("config: attach %q: %w", field.Name, err)
		}
	}
	return f, nil
}

func build(field Field, s *buildSettings) (form.FieldControl, error) {
	controlOpts := []listcontrol.Option{
		listcontrol.WithName(field.Name),
		listcontrol.WithRequired(field.Required),
		listcontrol.WithDisabled(field.Disabled),
		listcontrol.WithLabels(field.Labels),
	}
	if s.logger != nil {
		controlOpts = append(controlOpts, listcontrol.WithLogger(s.logger))
	}

	switch field.Kind {
	case KindKeyValue:
		return kvmap.NewWithPolicy(field.DuplicateKeys, controlOpts...), nil
	case KindTags:
		pool, err := s.poolFor(field)
		if err != nil {
			return nil, err
		}
		return taglist.New(pool, controlOpts...), nil
	default:
		return nil, fmt.Errorf("%w: %q (field %q)", ErrUnknownKind, field.Kind, field.Name)
	}
}

func (s *buildSettings) poolFor(field Field) (*taglist.Pool, error) {
	if len(field.Pool) > 0 {
		return taglist.NewPool(field.Pool...), nil
	}
	if s.pool != nil {
		return s.pool, nil
	}
	pool, err := messagetypes.DefaultPool()
	if err != nil {
		return nil, fmt.Errorf("config: default pool: %w", err)
	}
	s.pool = pool
	return pool, nil
}
