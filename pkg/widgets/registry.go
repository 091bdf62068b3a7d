// Package widgets decides which list control edits a field, based on explicit
// hints or the shape of the field's schema.
package widgets

import (
	"sort"
	"strings"
	"sync"
)

// Built-in control kinds exposed by the registry.
const (
	WidgetKeyValue = "key-value"
	WidgetTags     = "tags"
)

// Shape is the part of a field schema the matchers look at.
type Shape struct {
	Name string
	// Type is the JSON schema type: "object", "array", "string", ...
	Type string
	// Items describes array elements.
	Items *Shape
	// Values describes object values for free-form maps
	// (additionalProperties).
	Values *Shape
	// Properties counts the fixed properties of an object.
	Properties int
	Enum       []string
	Hints      map[string]string
}

// Matcher decides whether a control kind should handle the supplied shape.
type Matcher func(shape Shape) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects control kinds for fields based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a kind.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher with the provided name and priority.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the control kind for a shape. Explicit hints
// ("admin.widget", "widget") are honoured before matcher evaluation.
func (r *Registry) Resolve(shape Shape) (string, bool) {
	if explicit := explicitWidget(shape); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(shape) {
			return entry.name, true
		}
	}
	return "", false
}

func explicitWidget(shape Shape) string {
	if shape.Hints == nil {
		return ""
	}
	if widget := strings.TrimSpace(shape.Hints["admin.widget"]); widget != "" {
		return widget
	}
	return strings.TrimSpace(shape.Hints["widget"])
}

func isString(shape *Shape) bool {
	return shape != nil && shape.Type == "string"
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetTags, 80, func(shape Shape) bool {
		return shape.Type == "array" && isString(shape.Items)
	})

	r.Register(WidgetKeyValue, 70, func(shape Shape) bool {
		return shape.Type == "object" && shape.Properties == 0 && isString(shape.Values)
	})
}
