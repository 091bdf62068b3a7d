package listcontrol

import (
	"log/slog"
	"maps"
	"strings"
)

// Label keys understood by hosts when mapping validation results to messages.
const (
	LabelRequired       = "requiredText"
	LabelEntriesInvalid = "entriesInvalidText"
	LabelPlaceholder    = "placeholder"
	LabelHint           = "hintText"
)

// Option configures a control at construction. Configuration is static for
// the control's lifetime.
type Option func(*settings)

type settings struct {
	name     string
	required bool
	disabled bool
	labels   map[string]string
	logger   *slog.Logger
}

func newSettings(opts ...Option) settings {
	cfg := settings{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithName sets the identifier used in log records.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = strings.TrimSpace(name)
	}
}

// WithRequired marks the control as required: an empty collection validates
// as EmptyButRequired and encodes to the not-present sentinel.
func WithRequired(required bool) Option {
	return func(s *settings) {
		s.required = required
	}
}

// WithDisabled sets the initial disabled state.
func WithDisabled(disabled bool) Option {
	return func(s *settings) {
		s.disabled = disabled
	}
}

// WithLabels attaches display-only labels and prompts. Keys are trimmed and
// empty keys dropped; later calls merge over earlier ones.
func WithLabels(labels map[string]string) Option {
	return func(s *settings) {
		if len(labels) == 0 {
			return
		}
		if s.labels == nil {
			s.labels = make(map[string]string, len(labels))
		}
		for key, value := range labels {
			if trimmed := strings.TrimSpace(key); trimmed != "" {
				s.labels[trimmed] = value
			}
		}
	}
}

// WithLogger routes debug records to logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func (s settings) cloneLabels() map[string]string {
	if len(s.labels) == 0 {
		return nil
	}
	return maps.Clone(s.labels)
}
