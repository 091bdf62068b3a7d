// Package kvmap provides the key/value map editor control. It keeps an
// ordered list of entries internally and exchanges a map[string]string with
// the hosting form.
package kvmap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-listfield/pkg/listcontrol"
)

// Label keys specific to the key/value editor.
const (
	LabelKey           = "keyText"
	LabelKeyRequired   = "keyRequiredText"
	LabelValue         = "valText"
	LabelValueRequired = "valRequiredText"
)

// Entry is one key/value pair. Identity is positional.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DuplicateKeyPolicy decides how entries sharing a key are treated.
type DuplicateKeyPolicy string

const (
	// DuplicateKeysLastWins folds duplicates with map semantics: the later
	// entry overwrites the earlier one on encode.
	DuplicateKeysLastWins DuplicateKeyPolicy = "last-wins"
	// DuplicateKeysInvalid treats any repeated non-empty key as an invalid
	// entry so nothing is silently dropped on encode.
	DuplicateKeysInvalid DuplicateKeyPolicy = "invalid"
)

// ParseDuplicateKeyPolicy maps a configuration string onto a policy. Unknown
// or empty values fall back to DuplicateKeysLastWins.
func ParseDuplicateKeyPolicy(raw string) DuplicateKeyPolicy {
	switch DuplicateKeyPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case DuplicateKeysInvalid:
		return DuplicateKeysInvalid
	default:
		return DuplicateKeysLastWins
	}
}

type codec struct {
	policy DuplicateKeyPolicy
}

// Decode emits one entry per key. Go maps carry no order, so keys are sorted
// to keep decoding deterministic.
func (codec) Decode(external map[string]string) []Entry {
	if len(external) == 0 {
		return nil
	}
	keys := make([]string, 0, len(external))
	for key := range external {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, Entry{Key: key, Value: external[key]})
	}
	return entries
}

func (codec) Encode(items []Entry) map[string]string {
	out := make(map[string]string, len(items))
	for _, entry := range items {
		out[entry.Key] = entry.Value
	}
	return out
}

func (c codec) Valid(items []Entry) bool {
	var seen map[string]struct{}
	if c.policy == DuplicateKeysInvalid {
		seen = make(map[string]struct{}, len(items))
	}
	for _, entry := range items {
		if entry.Key == "" || entry.Value == "" {
			return false
		}
		if seen == nil {
			continue
		}
		if _, dup := seen[entry.Key]; dup {
			return false
		}
		seen[entry.Key] = struct{}{}
	}
	return true
}

// Control is the key/value map editor.
type Control struct {
	*listcontrol.Control[Entry, map[string]string]
	policy DuplicateKeyPolicy
}

// New constructs a key/value control using DuplicateKeysLastWins.
func New(opts ...listcontrol.Option) *Control {
	return NewWithPolicy(DuplicateKeysLastWins, opts...)
}

// NewWithPolicy constructs a key/value control with an explicit duplicate key
// policy.
func NewWithPolicy(policy DuplicateKeyPolicy, opts ...listcontrol.Option) *Control {
	if policy == "" {
		policy = DuplicateKeysLastWins
	}
	return &Control{
		Control: listcontrol.New[Entry, map[string]string](codec{policy: policy}, opts...),
		policy:  policy,
	}
}

// Policy returns the duplicate key policy.
func (c *Control) Policy() DuplicateKeyPolicy {
	return c.policy
}

// AddKeyVal appends an empty entry. It is allowed whenever the control is
// enabled, regardless of current validity.
func (c *Control) AddKeyVal() bool {
	return c.Mutate(func(items []Entry) ([]Entry, bool) {
		return append(items, Entry{}), true
	})
}

// RemoveKeyVal removes the entry at index. Out of range indexes are ignored.
func (c *Control) RemoveKeyVal(index int) bool {
	return c.RemoveAt(index)
}

// SetEntry replaces the entry at index.
func (c *Control) SetEntry(index int, entry Entry) bool {
	return c.Update(index, func(Entry) Entry { return entry })
}

// SetKey edits the key of the entry at index.
func (c *Control) SetKey(index int, key string) bool {
	return c.Update(index, func(entry Entry) Entry {
		entry.Key = key
		return entry
	})
}

// SetValue edits the value of the entry at index.
func (c *Control) SetValue(index int, value string) bool {
	return c.Update(index, func(entry Entry) Entry {
		entry.Value = value
		return entry
	})
}

// InvalidEntries returns the indexes of entries that fail validation, in
// order. Hosts use it to highlight individual rows.
func (c *Control) InvalidEntries() []int {
	items := c.Items()
	var out []int
	seen := make(map[string]struct{}, len(items))
	for idx, entry := range items {
		_, dup := seen[entry.Key]
		if entry.Key == "" || entry.Value == "" || (dup && c.policy == DuplicateKeysInvalid) {
			out = append(out, idx)
		}
		seen[entry.Key] = struct{}{}
	}
	return out
}

// WriteAny decodes loosely typed input (for example JSON-decoded payloads).
// Scalar values are stringified; nested values and non-map input are dropped.
func (c *Control) WriteAny(value any) {
	c.WriteValue(toStringMap(value))
}

// RegisterOnChangeAny installs a host handler receiving map[string]string.
func (c *Control) RegisterOnChangeAny(fn func(value any, present bool)) {
	if fn == nil {
		c.RegisterOnChange(nil)
		return
	}
	c.RegisterOnChange(func(value map[string]string, present bool) {
		if !present {
			fn(nil, false)
			return
		}
		fn(value, true)
	})
}

// EncodeAny returns the encoded map as an untyped value, or nil and false
// when the control currently emits the not-present sentinel.
func (c *Control) EncodeAny() (any, bool) {
	value, present := c.Encode()
	if !present {
		return nil, false
	}
	return value, true
}

func toStringMap(value any) map[string]string {
	switch typed := value.(type) {
	case map[string]string:
		return typed
	case map[string]any:
		out := make(map[string]string, len(typed))
		for key, raw := range typed {
			switch v := raw.(type) {
			case string:
				out[key] = v
			case nil, map[string]any, []any:
				continue
			default:
				out[key] = fmt.Sprint(v)
			}
		}
		return out
	default:
		return nil
	}
}
