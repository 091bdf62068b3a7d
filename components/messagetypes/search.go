package messagetypes

import (
	"iter"

	"github.com/goliatone/go-listfield/pkg/taglist"
)

// Suggestion is the JSON shape chip inputs consume.
type Suggestion struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func suggestionOf(tag taglist.Tag) Suggestion {
	return Suggestion{Value: tag.Value, Label: tag.Name}
}

// matches yields at most limit tags of pool matching query, in catalog order.
// limit is resolved through Settings first.
func matches(pool *taglist.Pool, query string, limit int, s Settings) iter.Seq[taglist.Tag] {
	s = s.withDefaults()
	limit = s.limit(limit)
	return func(yield func(taglist.Tag) bool) {
		if limit == 0 || (query == "" && s.EmptySearch == EmptySearchNone) {
			return
		}
		n := 0
		for tag := range pool.Search(query) {
			if !yield(tag) {
				return
			}
			if n++; n == limit {
				return
			}
		}
	}
}

// Search returns up to limit tags from pool matching query, in catalog order.
func Search(pool *taglist.Pool, query string, limit int, s Settings) []taglist.Tag {
	var out []taglist.Tag
	for tag := range matches(pool, query, limit, s) {
		out = append(out, tag)
	}
	return out
}

// Suggest is Search projected onto the suggestion wire shape.
func Suggest(pool *taglist.Pool, query string, limit int, s Settings) []Suggestion {
	var out []Suggestion
	for tag := range matches(pool, query, limit, s) {
		out = append(out, suggestionOf(tag))
	}
	return out
}
