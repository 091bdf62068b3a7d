// Package form is a minimal hosting form for list-backed controls. It pushes
// authoritative values into attached controls, records the values they emit,
// and maps their validation results onto user-facing messages built from each
// control's labels.
package form

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-listfield/pkg/listcontrol"
)

var (
	// ErrEmptyName is returned when attaching a control without a name.
	ErrEmptyName = errors.New("form: field name is required")
	// ErrDuplicateField is returned when a name is attached twice.
	ErrDuplicateField = errors.New("form: duplicate field")
	// ErrNilControl is returned when attaching a nil control.
	ErrNilControl = errors.New("form: control is nil")
)

// FieldControl is the contract between the form and a control. Both
// *kvmap.Control and *taglist.Control satisfy it.
type FieldControl interface {
	WriteAny(value any)
	RegisterOnChangeAny(fn func(value any, present bool))
	EncodeAny() (any, bool)
	SetDisabled(disabled bool)
	Validate() listcontrol.ValidationResult
	Label(key, fallback string) string
	Close()
}

// ChangeFunc observes values emitted by any attached control.
type ChangeFunc func(name string, value any, present bool)

type binding struct {
	name    string
	control FieldControl
	value   any
}

// write pushes value into the control and records what the control made of
// it, so Values reports the decoded state rather than the raw input.
func (b *binding) write(value any) {
	b.control.WriteAny(value)
	encoded, present := b.control.EncodeAny()
	if !present {
		encoded = nil
	}
	b.value = encoded
}

// Form hosts named controls in attachment order. Like the controls it hosts,
// a Form is not safe for concurrent use.
type Form struct {
	log       *slog.Logger
	order     []string
	fields    map[string]*binding
	pending   map[string]any
	listeners []ChangeFunc
	disabled  bool
	serverErr ErrorMapping
}

// Option configures a Form.
type Option func(*Form)

// WithLogger routes debug records to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.log = logger
		}
	}
}

// New constructs an empty form.
func New(opts ...Option) *Form {
	f := &Form{
		log:     slog.New(slog.DiscardHandler),
		fields:  make(map[string]*binding),
		pending: make(map[string]any),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Attach binds control under name, installs the change handler and writes the
// form's current value for name (nil when unset).
func (f *Form) Attach(name string, control FieldControl) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if control == nil {
		return ErrNilControl
	}
	if _, exists := f.fields[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateField, name)
	}

	b := &binding{name: name, control: control}
	f.fields[name] = b
	f.order = append(f.order, name)

	control.RegisterOnChangeAny(func(value any, present bool) {
		f.handleChange(b, value, present)
	})
	if f.disabled {
		control.SetDisabled(true)
	}

	value := f.pending[name]
	delete(f.pending, name)
	b.write(value)
	f.log.Debug("form: field attached", "field", name)
	return nil
}

// Names returns the attached field names in attachment order.
func (f *Form) Names() []string {
	return slices.Clone(f.order)
}

// Field returns the control attached under name.
func (f *Form) Field(name string) (FieldControl, bool) {
	b, ok := f.fields[name]
	if !ok {
		return nil, false
	}
	return b.control, true
}

// OnChange registers an observer for control emissions.
func (f *Form) OnChange(fn ChangeFunc) {
	if fn != nil {
		f.listeners = append(f.listeners, fn)
	}
}

// SetValues pushes authoritative values into every attached control. Fields
// missing from values are reset to empty. Values for names not yet attached
// are kept and written on Attach.
func (f *Form) SetValues(values map[string]any) {
	for _, name := range f.order {
		f.fields[name].write(values[name])
	}
	for name, value := range values {
		if _, attached := f.fields[name]; !attached {
			f.pending[name] = value
		}
	}
	f.serverErr = ErrorMapping{}
	f.log.Debug("form: values written", "fields", len(f.order))
}

// Values returns the current value of every attached field: the encoding of
// the last written value, replaced by each later emission. Fields holding
// the not-present sentinel map to nil.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.order))
	for _, name := range f.order {
		out[name] = f.fields[name].value
	}
	return out
}

// Value returns the current value for name.
func (f *Form) Value(name string) (any, bool) {
	b, ok := f.fields[name]
	if !ok {
		return nil, false
	}
	return b.value, true
}

// SetDisabled toggles every attached control.
func (f *Form) SetDisabled(disabled bool) {
	f.disabled = disabled
	for _, name := range f.order {
		f.fields[name].control.SetDisabled(disabled)
	}
}

// Results returns the raw validation result per field.
func (f *Form) Results() map[string]listcontrol.ValidationResult {
	out := make(map[string]listcontrol.ValidationResult, len(f.order))
	for _, name := range f.order {
		out[name] = f.fields[name].control.Validate()
	}
	return out
}

// Validate runs every control's validation and maps failures to messages,
// merged with any server errors applied since the last SetValues.
func (f *Form) Validate() ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	for _, name := range f.order {
		b := f.fields[name]
		if msg := ResultMessage(name, b.control, b.control.Validate()); msg != "" {
			mapping.Fields[name] = append(mapping.Fields[name], msg)
		}
	}
	for name, msgs := range f.serverErr.Fields {
		mapping.Fields[name] = normalizeMessages(append(mapping.Fields[name], msgs...))
	}
	mapping.Form = MergeFormErrors(nil, f.serverErr.Form...)
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	return mapping
}

// Valid reports whether every control validates OK.
func (f *Form) Valid() bool {
	for _, name := range f.order {
		if !f.fields[name].control.Validate().Valid() {
			return false
		}
	}
	return true
}

// ApplyServerErrors maps a server error payload onto the attached fields. The
// messages are reported by Validate until the next SetValues.
func (f *Form) ApplyServerErrors(payload map[string][]string) ErrorMapping {
	mapped := MapErrorPayload(f.order, payload)
	f.serverErr = ErrorMapping{
		Fields: maps.Clone(mapped.Fields),
		Form:   slices.Clone(mapped.Form),
	}
	return mapped
}

// Close disposes every attached control.
func (f *Form) Close() {
	for _, name := range f.order {
		f.fields[name].control.Close()
	}
	f.listeners = nil
}

func (f *Form) handleChange(b *binding, value any, present bool) {
	if present {
		b.value = value
	} else {
		b.value = nil
	}
	f.log.Debug("form: field changed", "field", b.name, "present", present)
	for _, fn := range f.listeners {
		fn(b.name, b.value, present)
	}
}

// Labeler resolves display labels with a fallback.
type Labeler interface {
	Label(key, fallback string) string
}

// ResultMessage maps a failed validation result onto the user-facing message
// configured in labels, falling back to a generic text naming the field. It
// returns "" for OK.
func ResultMessage(name string, labels Labeler, result listcontrol.ValidationResult) string {
	switch result {
	case listcontrol.EmptyButRequired:
		return labels.Label(listcontrol.LabelRequired, fmt.Sprintf("%s is required", name))
	case listcontrol.EntriesInvalid:
		return labels.Label(listcontrol.LabelEntriesInvalid, fmt.Sprintf("%s has incomplete entries", name))
	default:
		return ""
	}
}
