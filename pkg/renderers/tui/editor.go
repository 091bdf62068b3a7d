// Package tui edits list controls interactively in a terminal. Prompts go
// through a PromptDriver; the default driver is backed by survey.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-listfield/pkg/form"
	"github.com/goliatone/go-listfield/pkg/kvmap"
	"github.com/goliatone/go-listfield/pkg/listcontrol"
	"github.com/goliatone/go-listfield/pkg/taglist"
)

const (
	actionAdd    = "Add entry"
	actionEdit   = "Edit entry"
	actionRemove = "Remove entry"
	actionDone   = "Done"

	tagActionMore   = "Add more"
	tagActionRemove = "Remove tags"
	tagActionDone   = "Done"

	defaultSuggestLimit = 10
)

// Editor drives key/value and tag controls through terminal prompts. Every
// edit goes through the control's own operations, so change notifications
// reach the hosting form as they would from any other surface.
type Editor struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	suggestLimit int
	log          *slog.Logger
}

// New constructs an editor with defaults (survey driver, JSON output).
func New(options ...Option) *Editor {
	e := &Editor{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		suggestLimit: defaultSuggestLimit,
		log:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// ContentType reports the serialization format used by EditForm.
func (e *Editor) ContentType() string {
	switch e.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// EditForm edits every field of f in order and serializes the resulting
// values. Server errors already applied to f are shown before editing.
func (e *Editor) EditForm(ctx context.Context, f *form.Form) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if f == nil {
		return nil, errors.New("tui: form is nil")
	}

	pending := f.Validate()
	for _, msg := range pending.Form {
		e.errorf(ctx, "%s", msg)
	}

	for _, name := range f.Names() {
		control, _ := f.Field(name)
		for _, msg := range pending.Fields[name] {
			e.errorf(ctx, "%s: %s", name, msg)
		}
		var err error
		switch typed := control.(type) {
		case *kvmap.Control:
			err = e.EditKeyValue(ctx, typed)
		case *taglist.Control:
			err = e.EditTags(ctx, typed)
		default:
			err = fmt.Errorf("%w: %s (%T)", ErrUnsupportedControl, name, control)
		}
		if err != nil {
			return nil, err
		}
	}

	if !f.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, f.Validate().Fields)
	}
	return e.serialize(f.Values())
}

// EditKeyValue runs the add/edit/remove loop for a key/value control until the
// user picks Done with a valid state.
func (e *Editor) EditKeyValue(ctx context.Context, control *kvmap.Control) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	title := controlTitle(control.Name(), control.Label(listcontrol.LabelPlaceholder, ""))
	if control.Disabled() {
		return e.info(ctx, fmt.Sprintf("%s is read-only", title))
	}

	for {
		if err := e.info(ctx, describeEntries(title, control)); err != nil {
			return err
		}

		actions := []string{actionAdd}
		if control.Len() > 0 {
			actions = append(actions, actionEdit, actionRemove)
		}
		actions = append(actions, actionDone)

		choice, err := e.driver.Select(ctx, SelectConfig{
			Message:      title,
			Options:      actions,
			DefaultIndex: len(actions) - 1,
			Help:         control.Label(listcontrol.LabelHint, ""),
		})
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(actions) {
			continue
		}

		switch actions[choice] {
		case actionAdd:
			if !control.AddKeyVal() {
				continue
			}
			if err := e.promptEntry(ctx, control, control.Len()-1); err != nil {
				return err
			}
		case actionEdit:
			idx, err := e.pickEntry(ctx, control, "Edit which entry?")
			if err != nil {
				return err
			}
			if err := e.promptEntry(ctx, control, idx); err != nil {
				return err
			}
		case actionRemove:
			idx, err := e.pickEntry(ctx, control, "Remove which entry?")
			if err != nil {
				return err
			}
			if err := e.confirmRemoval(ctx, control, idx); err != nil {
				return err
			}
		case actionDone:
			result := control.Validate()
			if result.Valid() {
				e.log.Debug("tui: key/value editing done", "field", control.Name(), "entries", control.Len())
				return nil
			}
			e.errorf(ctx, "%s", form.ResultMessage(control.Name(), control, result))
		}
	}
}

// EditTags prompts for tags until the user submits an empty line and picks
// Done. Input may hold several comma separated tags; tab completes from the
// control's pool.
func (e *Editor) EditTags(ctx context.Context, control *taglist.Control) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	title := controlTitle(control.Name(), control.Label(listcontrol.LabelPlaceholder, ""))
	if control.Disabled() {
		return e.info(ctx, fmt.Sprintf("%s is read-only", title))
	}

	chip := taglist.NewChipInput(control)
	for {
		if err := e.info(ctx, describeTags(title, control.Items())); err != nil {
			return err
		}

		text, err := e.driver.Input(ctx, InputConfig{
			Message: title,
			Help:    tagHelp(control),
			Suggest: e.suggester(control),
		})
		if err != nil {
			return err
		}

		if strings.TrimSpace(text) != "" {
			chip.SetText(text)
			chip.Commit()
			continue
		}

		done, err := e.finishTags(ctx, control, title)
		if err != nil {
			return err
		}
		if done {
			e.log.Debug("tui: tag editing done", "field", control.Name(), "tags", control.Len())
			return nil
		}
	}
}

func (e *Editor) finishTags(ctx context.Context, control *taglist.Control, title string) (bool, error) {
	if control.Len() == 0 {
		result := control.Validate()
		if result.Valid() {
			return true, nil
		}
		e.errorf(ctx, "%s", form.ResultMessage(control.Name(), control, result))
		return false, nil
	}

	actions := []string{tagActionDone, tagActionMore, tagActionRemove}
	choice, err := e.driver.Select(ctx, SelectConfig{
		Message: title,
		Options: actions,
	})
	if err != nil {
		return false, err
	}
	if choice < 0 || choice >= len(actions) {
		return false, nil
	}

	switch actions[choice] {
	case tagActionDone:
		result := control.Validate()
		if result.Valid() {
			return true, nil
		}
		e.errorf(ctx, "%s", form.ResultMessage(control.Name(), control, result))
	case tagActionRemove:
		if err := e.removeTags(ctx, control); err != nil {
			return false, err
		}
	}
	return false, nil
}

// removeTags lets the user tick several chips at once; each ticked tag is
// removed through the control so every removal notifies the host.
func (e *Editor) removeTags(ctx context.Context, control *taglist.Control) error {
	items := control.Items()
	options := make([]string, 0, len(items))
	for _, tag := range items {
		options = append(options, tagLabel(tag))
	}
	picked, err := e.driver.MultiSelect(ctx, SelectConfig{
		Message: "Remove which tags?",
		Options: options,
		Help:    "Space toggles a tag, enter removes the ticked ones.",
	})
	if err != nil {
		return err
	}
	for _, idx := range picked {
		if idx >= 0 && idx < len(items) {
			control.Remove(items[idx])
		}
	}
	return nil
}

func (e *Editor) confirmRemoval(ctx context.Context, control *kvmap.Control, idx int) error {
	items := control.Items()
	if idx < 0 || idx >= len(items) {
		return nil
	}
	ok, err := e.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Remove %q?", entryLabel(items[idx])),
	})
	if err != nil || !ok {
		return err
	}
	control.RemoveKeyVal(idx)
	return nil
}

func (e *Editor) suggester(control *taglist.Control) func(string) []string {
	return func(toComplete string) []string {
		var out []string
		for tag := range control.FetchSuggestions(toComplete) {
			if control.Contains(tag.Value) {
				continue
			}
			out = append(out, tag.Name)
			if len(out) == e.suggestLimit {
				break
			}
		}
		return out
	}
}

func (e *Editor) promptEntry(ctx context.Context, control *kvmap.Control, idx int) error {
	items := control.Items()
	if idx < 0 || idx >= len(items) {
		return nil
	}
	current := items[idx]

	key, err := e.driver.Input(ctx, InputConfig{
		Message:   control.Label(kvmap.LabelKey, "Key"),
		Default:   current.Key,
		Validator: nonEmpty(control.Label(kvmap.LabelKeyRequired, "key is required")),
	})
	if err != nil {
		return err
	}
	value, err := e.driver.Input(ctx, InputConfig{
		Message:   control.Label(kvmap.LabelValue, "Value"),
		Default:   current.Value,
		Validator: nonEmpty(control.Label(kvmap.LabelValueRequired, "value is required")),
	})
	if err != nil {
		return err
	}
	control.SetEntry(idx, kvmap.Entry{Key: key, Value: value})
	return nil
}

func (e *Editor) pickEntry(ctx context.Context, control *kvmap.Control, message string) (int, error) {
	items := control.Items()
	options := make([]string, 0, len(items))
	for _, entry := range items {
		options = append(options, entryLabel(entry))
	}
	idx, err := e.driver.Select(ctx, SelectConfig{
		Message: message,
		Options: options,
	})
	if err != nil {
		return -1, err
	}
	return idx, nil
}

func (e *Editor) info(ctx context.Context, msg string) error {
	return e.driver.Info(ctx, e.theme.InfoPrefix+msg)
}

func (e *Editor) errorf(ctx context.Context, format string, args ...any) {
	_ = e.driver.Info(ctx, e.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func controlTitle(name, placeholder string) string {
	if placeholder != "" {
		return placeholder
	}
	if name != "" {
		return name
	}
	return "Value"
}

func tagHelp(control *taglist.Control) string {
	if hint := control.Label(listcontrol.LabelHint, ""); hint != "" {
		return hint
	}
	return "Separate several tags with commas. Submit an empty line to finish."
}

func describeEntries(title string, control *kvmap.Control) string {
	items := control.Items()
	if len(items) == 0 {
		return title + ": (no entries)"
	}
	invalid := make(map[int]struct{})
	for _, idx := range control.InvalidEntries() {
		invalid[idx] = struct{}{}
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString(":")
	for idx, entry := range items {
		marker := " "
		if _, bad := invalid[idx]; bad {
			marker = "!"
		}
		fmt.Fprintf(&b, "\n %s %d. %s", marker, idx+1, entryLabel(entry))
	}
	return b.String()
}

func describeTags(title string, tags []taglist.Tag) string {
	if len(tags) == 0 {
		return title + ": (none)"
	}
	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		labels = append(labels, tagLabel(tag))
	}
	return title + ": " + strings.Join(labels, ", ")
}

func entryLabel(entry kvmap.Entry) string {
	return fmt.Sprintf("%s = %s", entry.Key, entry.Value)
}

func tagLabel(tag taglist.Tag) string {
	if tag.Name == tag.Value {
		return tag.Name
	}
	return fmt.Sprintf("%s (%s)", tag.Name, tag.Value)
}

func nonEmpty(message string) func(string) error {
	return func(value string) error {
		if value == "" {
			return errors.New(message)
		}
		return nil
	}
}
