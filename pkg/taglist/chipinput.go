package taglist

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultSeparators are the runes that commit typed text as a chip: enter,
// comma and semicolon.
const DefaultSeparators = "\n\r,;"

// ChipInput holds the transient state of a chip text box bound to a tag
// control: the search text and the suggestions derived from it. Suggestions
// are recomputed from scratch on every text change, starting with the empty
// text at construction.
type ChipInput struct {
	control     *Control
	separators  string
	text        string
	suggestions []Tag
	listeners   []func([]Tag)
}

// ChipOption configures a ChipInput.
type ChipOption func(*ChipInput)

// WithSeparators overrides the commit runes.
func WithSeparators(separators string) ChipOption {
	return func(in *ChipInput) {
		in.separators = separators
	}
}

// NewChipInput binds a chip input to control.
func NewChipInput(control *Control, opts ...ChipOption) *ChipInput {
	in := &ChipInput{
		control:    control,
		separators: DefaultSeparators,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(in)
	}
	in.refresh()
	return in
}

// Text returns the current search text.
func (in *ChipInput) Text() string {
	return in.text
}

// Suggestions returns the suggestions for the current text.
func (in *ChipInput) Suggestions() []Tag {
	return slices.Clone(in.suggestions)
}

// OnSuggestions registers fn and immediately replays the current list.
func (in *ChipInput) OnSuggestions(fn func([]Tag)) {
	if fn == nil {
		return
	}
	in.listeners = append(in.listeners, fn)
	fn(in.Suggestions())
}

// SetText updates the search text. Every segment terminated by a separator is
// committed as a chip; the text after the last separator stays in the box.
func (in *ChipInput) SetText(text string) {
	if in.separators != "" {
		if idx := strings.LastIndexAny(text, in.separators); idx >= 0 {
			segments := strings.FieldsFunc(text[:idx], func(r rune) bool {
				return strings.ContainsRune(in.separators, r)
			})
			for _, segment := range segments {
				in.control.TransformFreeText(segment)
			}
			_, size := utf8.DecodeRuneInString(text[idx:])
			text = text[idx+size:]
		}
	}
	in.text = text
	in.refresh()
}

// Commit turns the current text into a chip. The text box is cleared even
// when nothing was added.
func (in *ChipInput) Commit() bool {
	added := in.control.TransformFreeText(in.text)
	in.Clear()
	return added
}

// Select adds an autocomplete selection and clears the text box.
func (in *ChipInput) Select(tag Tag) bool {
	added := in.control.AddMessageType(tag)
	in.Clear()
	return added
}

// Clear empties the text box, which restores the full suggestion list.
func (in *ChipInput) Clear() {
	in.text = ""
	in.refresh()
}

func (in *ChipInput) refresh() {
	in.suggestions = slices.Collect(in.control.FetchSuggestions(in.text))
	for _, fn := range in.listeners {
		fn(in.Suggestions())
	}
}
