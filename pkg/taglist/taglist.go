// Package taglist provides the multi-tag (message type) editor control. It
// keeps an ordered list of unique tags and exchanges the ordered list of tag
// identifiers with the hosting form. Suggestions come from an immutable Pool,
// and free text that matches no known tag becomes a passthrough tag whose name
// equals its value.
//
// Transient input state (the search box text and the current suggestion list)
// lives in ChipInput, outside the control's value.
package taglist

import (
	"iter"
	"slices"
	"strings"

	"github.com/goliatone/go-listfield/pkg/listcontrol"
)

type codec struct {
	pool *Pool
}

// Decode resolves identifiers against the pool. Unknown identifiers become
// passthrough tags and repeated identifiers collapse onto their first
// occurrence.
func (c codec) Decode(external []string) []Tag {
	if len(external) == 0 {
		return nil
	}
	tags := make([]Tag, 0, len(external))
	seen := make(map[string]struct{}, len(external))
	for _, value := range external {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		if known, ok := c.pool.ByValue(value); ok {
			tags = append(tags, known)
			continue
		}
		tags = append(tags, Tag{Name: value, Value: value})
	}
	return tags
}

func (codec) Encode(items []Tag) []string {
	out := make([]string, 0, len(items))
	for _, tag := range items {
		out = append(out, tag.Value)
	}
	return out
}

// Valid holds for any collection; uniqueness is enforced on insertion.
func (codec) Valid([]Tag) bool {
	return true
}

// Control is the tag list editor.
type Control struct {
	*listcontrol.Control[Tag, []string]
	pool *Pool
}

// New constructs a tag control backed by pool. A nil pool behaves as an empty
// catalog.
func New(pool *Pool, opts ...listcontrol.Option) *Control {
	if pool == nil {
		pool = NewPool()
	}
	return &Control{
		Control: listcontrol.New[Tag, []string](codec{pool: pool}, opts...),
		pool:    pool,
	}
}

// Pool returns the candidate pool.
func (c *Control) Pool() *Pool {
	return c.pool
}

// AddMessageType inserts tag unless an item with the same value exists.
func (c *Control) AddMessageType(tag Tag) bool {
	return c.Mutate(func(items []Tag) ([]Tag, bool) {
		if indexOfValue(items, tag.Value) >= 0 {
			return items, false
		}
		return append(items, tag), true
	})
}

// Remove deletes the first item whose value matches tag.Value.
func (c *Control) Remove(tag Tag) bool {
	return c.Mutate(func(items []Tag) ([]Tag, bool) {
		idx := indexOfValue(items, tag.Value)
		if idx < 0 {
			return items, false
		}
		return slices.Delete(items, idx, idx+1), true
	})
}

// TransformFreeText turns committed chip input into a tag. The text is
// trimmed; empty input is ignored. An exact display-name match in the pool
// yields the canonical tag, anything else a passthrough tag.
func (c *Control) TransformFreeText(raw string) bool {
	tag, ok := c.Resolve(raw)
	if !ok {
		return false
	}
	return c.AddMessageType(tag)
}

// Resolve maps free text onto the tag TransformFreeText would insert.
func (c *Control) Resolve(raw string) (Tag, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Tag{}, false
	}
	if known, ok := c.pool.ByName(name); ok {
		return known, true
	}
	return Tag{Name: name, Value: name}, true
}

// FetchSuggestions yields pool entries matching query. See Pool.Search.
func (c *Control) FetchSuggestions(query string) iter.Seq[Tag] {
	return c.pool.Search(query)
}

// Contains reports whether a tag with value is selected.
func (c *Control) Contains(value string) bool {
	return indexOfValue(c.Items(), value) >= 0
}

// WriteAny decodes loosely typed input. Non-string elements are dropped and
// non-list input decodes to an empty list.
func (c *Control) WriteAny(value any) {
	c.WriteValue(toStrings(value))
}

// RegisterOnChangeAny installs a host handler receiving []string.
func (c *Control) RegisterOnChangeAny(fn func(value any, present bool)) {
	if fn == nil {
		c.RegisterOnChange(nil)
		return
	}
	c.RegisterOnChange(func(value []string, present bool) {
		if !present {
			fn(nil, false)
			return
		}
		fn(value, true)
	})
}

// EncodeAny returns the encoded identifiers as an untyped value, or nil and
// false for the not-present sentinel.
func (c *Control) EncodeAny() (any, bool) {
	value, present := c.Encode()
	if !present {
		return nil, false
	}
	return value, true
}

func indexOfValue(items []Tag, value string) int {
	return slices.IndexFunc(items, func(tag Tag) bool {
		return tag.Value == value
	})
}

func toStrings(value any) []string {
	switch typed := value.(type) {
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, raw := range typed {
			if s, ok := raw.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
