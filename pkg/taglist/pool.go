package taglist

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tag is one chip in the tag editor. Identity is Value; Name is the display
// label.
type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Pool is the immutable catalog of known tags used for lookup and
// suggestions. A Pool is safe for concurrent readers.
type Pool struct {
	tags    []Tag
	byValue map[string]int
	byName  map[string]int
}

// NewPool builds a pool preserving the order of tags. Tags without a value are
// skipped, a missing name falls back to the value, and for repeated values or
// names the first occurrence wins.
func NewPool(tags ...Tag) *Pool {
	pool := &Pool{
		tags:    make([]Tag, 0, len(tags)),
		byValue: make(map[string]int, len(tags)),
		byName:  make(map[string]int, len(tags)),
	}
	for _, tag := range tags {
		if tag.Value == "" {
			continue
		}
		if tag.Name == "" {
			tag.Name = tag.Value
		}
		if _, exists := pool.byValue[tag.Value]; exists {
			continue
		}
		idx := len(pool.tags)
		pool.tags = append(pool.tags, tag)
		pool.byValue[tag.Value] = idx
		if _, exists := pool.byName[tag.Name]; !exists {
			pool.byName[tag.Name] = idx
		}
	}
	return pool
}

// Len returns the number of tags in the pool.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.tags)
}

// Tags returns a copy of the catalog in its original order.
func (p *Pool) Tags() []Tag {
	if p == nil {
		return nil
	}
	return slices.Clone(p.tags)
}

// ByValue resolves a tag by identifier.
func (p *Pool) ByValue(value string) (Tag, bool) {
	if p == nil {
		return Tag{}, false
	}
	idx, ok := p.byValue[value]
	if !ok {
		return Tag{}, false
	}
	return p.tags[idx], true
}

// ByName resolves a tag by exact display name.
func (p *Pool) ByName(name string) (Tag, bool) {
	if p == nil {
		return Tag{}, false
	}
	idx, ok := p.byName[name]
	if !ok {
		return Tag{}, false
	}
	return p.tags[idx], true
}

// Search yields the whole pool for an empty query, otherwise the tags whose
// display name contains query ignoring case. Case folding uses the
// language-neutral Unicode upper-case mapping. The sequence is recomputed on
// every iteration and can be ranged over any number of times.
func (p *Pool) Search(query string) iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		if p == nil {
			return
		}
		if query == "" {
			for _, tag := range p.tags {
				if !yield(tag) {
					return
				}
			}
			return
		}
		// Casers are stateful; one per pass keeps the pool shareable.
		upper := cases.Upper(language.Und)
		needle := upper.String(query)
		for _, tag := range p.tags {
			if !strings.Contains(upper.String(tag.Name), needle) {
				continue
			}
			if !yield(tag) {
				return
			}
		}
	}
}
