package listcontrol

import (
	"log/slog"
	"slices"
)

// Codec adapts between the external value V and the internal items I. Decode
// must never fail: malformed or missing input degrades to an empty slice or to
// best-effort passthrough items. Encode folds a well-formed collection into V
// and must return an empty (not nil) value for an empty collection. Valid
// reports whether every item is individually well formed.
type Codec[I, V any] interface {
	Decode(external V) []I
	Encode(items []I) V
	Valid(items []I) bool
}

// ChangeFunc receives the freshly encoded value after every accepted
// mutation. present is false when the control emits the not-present sentinel.
type ChangeFunc[V any] func(value V, present bool)

// Subscription detaches an observer registered with Subscribe.
type Subscription struct {
	release func()
}

// Unsubscribe releases the observer. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.release == nil {
		return
	}
	s.release()
	s.release = nil
}

type observer[V any] struct {
	id uint64
	fn ChangeFunc[V]
}

// changeLink connects item mutations to host notification. A WriteValue
// releases the current link and installs a fresh one.
type changeLink struct {
	generation uint64
	active     bool
}

// Control is the generic list-backed form control.
type Control[I, V any] struct {
	codec    Codec[I, V]
	settings settings
	log      *slog.Logger

	items  []I
	link   *changeLink
	gen    uint64
	closed bool

	onChange  ChangeFunc[V]
	observers []observer[V]
	nextID    uint64
}

// New constructs an empty control driven by codec. The control stays inert
// until its first WriteValue installs the change link.
func New[I, V any](codec Codec[I, V], opts ...Option) *Control[I, V] {
	cfg := newSettings(opts...)
	logger := cfg.logger
	if cfg.name != "" {
		logger = logger.With("control", cfg.name)
	}
	return &Control[I, V]{
		codec:    codec,
		settings: cfg,
		log:      logger,
		items:    []I{},
	}
}

// Name returns the configured control name.
func (c *Control[I, V]) Name() string {
	if c == nil {
		return ""
	}
	return c.settings.name
}

// Required reports whether an empty collection is rejected.
func (c *Control[I, V]) Required() bool {
	return c != nil && c.settings.required
}

// Disabled reports whether mutations are currently suppressed.
func (c *Control[I, V]) Disabled() bool {
	return c == nil || c.settings.disabled
}

// Labels returns a copy of the display labels.
func (c *Control[I, V]) Labels() map[string]string {
	if c == nil {
		return nil
	}
	return c.settings.cloneLabels()
}

// Label returns a single display label, or fallback when unset.
func (c *Control[I, V]) Label(key, fallback string) string {
	if c == nil {
		return fallback
	}
	if value, ok := c.settings.labels[key]; ok && value != "" {
		return value
	}
	return fallback
}

// SetDisabled gates every mutation entry point. It never alters items.
func (c *Control[I, V]) SetDisabled(disabled bool) {
	if c == nil {
		return
	}
	c.settings.disabled = disabled
}

// RegisterOnChange installs the host change handler, replacing any previous
// one.
func (c *Control[I, V]) RegisterOnChange(fn ChangeFunc[V]) {
	if c == nil || c.closed {
		return
	}
	c.onChange = fn
}

// Subscribe adds an observer notified after the host handler, in
// registration order.
func (c *Control[I, V]) Subscribe(fn ChangeFunc[V]) *Subscription {
	if c == nil || fn == nil || c.closed {
		return &Subscription{}
	}
	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, observer[V]{id: id, fn: fn})
	return &Subscription{release: func() {
		c.observers = slices.DeleteFunc(c.observers, func(o observer[V]) bool {
			return o.id == id
		})
	}}
}

// WriteValue replaces the items by decoding external. The previous change
// link is released first and a fresh one is installed once the items are
// rebuilt. Writing does not notify the host.
func (c *Control[I, V]) WriteValue(external V) {
	if c == nil || c.closed {
		return
	}
	c.releaseLink()

	var items []I
	if c.codec != nil {
		items = c.codec.Decode(external)
	}
	if items == nil {
		items = []I{}
	}
	c.items = items

	c.gen++
	c.link = &changeLink{generation: c.gen, active: true}
	c.log.Debug("listcontrol: value written", "items", len(items), "generation", c.gen)
}

// Mutate applies fn to the live items. fn returns the new slice and whether
// anything changed; a change triggers re-encode and notification before
// Mutate returns. Disabled or inert controls never invoke fn.
func (c *Control[I, V]) Mutate(fn func(items []I) ([]I, bool)) bool {
	if c == nil || fn == nil {
		return false
	}
	if c.settings.disabled {
		c.log.Debug("listcontrol: mutation suppressed", "reason", "disabled")
		return false
	}
	if c.link == nil || !c.link.active {
		c.log.Debug("listcontrol: mutation suppressed", "reason", "detached")
		return false
	}

	next, changed := fn(c.items)
	if !changed {
		return false
	}
	if next == nil {
		next = []I{}
	}
	c.items = next
	c.notify()
	return true
}

// Update replaces the item at index with fn's result. Out of range indexes
// are ignored.
func (c *Control[I, V]) Update(index int, fn func(item I) I) bool {
	if fn == nil {
		return false
	}
	return c.Mutate(func(items []I) ([]I, bool) {
		if index < 0 || index >= len(items) {
			return items, false
		}
		items[index] = fn(items[index])
		return items, true
	})
}

// RemoveAt deletes the item at index. Out of range indexes are ignored.
func (c *Control[I, V]) RemoveAt(index int) bool {
	return c.Mutate(func(items []I) ([]I, bool) {
		if index < 0 || index >= len(items) {
			return items, false
		}
		return slices.Delete(items, index, index+1), true
	})
}

// Items returns a copy of the current items.
func (c *Control[I, V]) Items() []I {
	if c == nil {
		return nil
	}
	return slices.Clone(c.items)
}

// Len returns the number of items.
func (c *Control[I, V]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Validate is a pure function of the items and the required flag.
func (c *Control[I, V]) Validate() ValidationResult {
	if c == nil {
		return OK
	}
	if c.settings.required && len(c.items) == 0 {
		return EmptyButRequired
	}
	if c.codec != nil && !c.codec.Valid(c.items) {
		return EntriesInvalid
	}
	return OK
}

// Encode projects the items onto V. present is false when the current state
// must not be accepted (required and empty, or malformed items).
func (c *Control[I, V]) Encode() (value V, present bool) {
	if c == nil || c.codec == nil {
		return value, false
	}
	if c.Validate() != OK {
		return value, false
	}
	return c.codec.Encode(c.items), true
}

// Close disposes the control, releasing the change link and every observer.
func (c *Control[I, V]) Close() {
	if c == nil || c.closed {
		return
	}
	c.releaseLink()
	c.link = nil
	c.onChange = nil
	c.observers = nil
	c.closed = true
	c.log.Debug("listcontrol: closed")
}

func (c *Control[I, V]) releaseLink() {
	if c.link == nil {
		return
	}
	c.link.active = false
}

func (c *Control[I, V]) notify() {
	value, present := c.Encode()
	c.log.Debug("listcontrol: change emitted", "items", len(c.items), "present", present, "generation", c.link.generation)
	if c.onChange != nil {
		c.onChange(value, present)
	}
	for _, obs := range slices.Clone(c.observers) {
		obs.fn(value, present)
	}
}
