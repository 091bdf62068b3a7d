package tui

import "log/slog"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value onto an OutputFormat, defaulting to
// JSON.
func ParseOutputFormat(raw string) OutputFormat {
	switch OutputFormat(raw) {
	case OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(raw)
	default:
		return OutputFormatJSON
	}
}

// Theme captures optional prefixes the editor applies when printing messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(e *Editor) {
		if format != "" {
			e.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}

// WithSuggestionLimit caps the completions offered while typing a tag.
func WithSuggestionLimit(limit int) Option {
	return func(e *Editor) {
		if limit > 0 {
			e.suggestLimit = limit
		}
	}
}

// WithLogger routes debug records to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.log = logger
		}
	}
}
