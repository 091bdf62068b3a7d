package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-listfield/pkg/form"
	"github.com/goliatone/go-listfield/pkg/kvmap"
	"github.com/goliatone/go-listfield/pkg/listcontrol"
	"github.com/goliatone/go-listfield/pkg/taglist"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	multi        [][]int
	infoMessages []string
	inputConfigs []InputConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	multiPos     int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.inputConfigs = append(s.inputConfigs, cfg)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multi) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multi[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) sawInfo(substr string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func testPool() *taglist.Pool {
	return taglist.NewPool(
		taglist.Tag{Name: "Post telemetry", Value: "POST_TELEMETRY_REQUEST"},
		taglist.Tag{Name: "Alarm Acknowledged", Value: "ALARM_ACK"},
		taglist.Tag{Name: "Alarm Cleared", Value: "ALARM_CLEAR"},
	)
}

func TestEditKeyValue_AddThenDone(t *testing.T) {
	driver := &stubDriver{
		// [Add, Done] -> Add; [Add, Edit, Remove, Done] -> Done
		selectIdx: []int{0, 3},
		inputs:    []string{"site", "north"},
	}
	control := kvmap.New(listcontrol.WithName("metadata"))
	control.WriteValue(nil)

	if err := New(WithPromptDriver(driver)).EditKeyValue(context.Background(), control); err != nil {
		t.Fatalf("edit: %v", err)
	}

	want := []kvmap.Entry{{Key: "site", Value: "north"}}
	if diff := cmp.Diff(want, control.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestEditKeyValue_RequiredBlocksDone(t *testing.T) {
	driver := &stubDriver{
		// Done (refused), Add, Remove entry 0 (confirmed), Add, Done
		selectIdx: []int{1, 0, 2, 0, 0, 3},
		inputs:    []string{"a", "1", "b", "2"},
		confirm:   []bool{true},
	}
	control := kvmap.New(
		listcontrol.WithName("metadata"),
		listcontrol.WithRequired(true),
		listcontrol.WithLabels(map[string]string{listcontrol.LabelRequired: "Add at least one entry"}),
	)
	control.WriteValue(nil)

	editor := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err := editor.EditKeyValue(context.Background(), control); err != nil {
		t.Fatalf("edit: %v", err)
	}

	if !driver.sawInfo("! Add at least one entry") {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}
	want := []kvmap.Entry{{Key: "b", Value: "2"}}
	if diff := cmp.Diff(want, control.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestEditKeyValue_EditPrefillsDefaults(t *testing.T) {
	driver := &stubDriver{
		// [Add, Edit, Remove, Done] -> Edit, pick entry 0, then Done
		selectIdx: []int{1, 0, 3},
		inputs:    []string{"site", "south"},
	}
	control := kvmap.New(listcontrol.WithLabels(map[string]string{kvmap.LabelKey: "Attribute"}))
	control.WriteValue(map[string]string{"site": "north"})

	if err := New(WithPromptDriver(driver)).EditKeyValue(context.Background(), control); err != nil {
		t.Fatalf("edit: %v", err)
	}

	if got := driver.inputConfigs[0]; got.Message != "Attribute" || got.Default != "site" {
		t.Fatalf("unexpected key prompt %+v", got)
	}
	if got := driver.inputConfigs[1]; got.Message != "Value" || got.Default != "north" {
		t.Fatalf("unexpected value prompt %+v", got)
	}
	if diff := cmp.Diff([]kvmap.Entry{{Key: "site", Value: "south"}}, control.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestEditKeyValue_RemoveDeclinedKeepsEntry(t *testing.T) {
	driver := &stubDriver{
		// Remove, pick entry 0 (declined), Done
		selectIdx: []int{2, 0, 3},
		confirm:   []bool{false},
	}
	control := kvmap.New()
	control.WriteValue(map[string]string{"site": "north"})

	if err := New(WithPromptDriver(driver)).EditKeyValue(context.Background(), control); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if diff := cmp.Diff([]kvmap.Entry{{Key: "site", Value: "north"}}, control.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if driver.confirmPos != 1 {
		t.Fatalf("expected one confirmation prompt, got %d", driver.confirmPos)
	}
}

func TestEditKeyValue_Disabled(t *testing.T) {
	driver := &stubDriver{}
	control := kvmap.New(listcontrol.WithName("metadata"), listcontrol.WithDisabled(true))
	control.WriteValue(nil)

	if err := New(WithPromptDriver(driver)).EditKeyValue(context.Background(), control); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !driver.sawInfo("metadata is read-only") {
		t.Fatalf("expected read-only notice, got %v", driver.infoMessages)
	}
}

func TestEditTags_SeparatedInput(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Alarm Acknowledged, custom", ""},
		selectIdx: []int{0},
	}
	control := taglist.New(testPool(), listcontrol.WithName("messageTypes"))
	control.WriteValue(nil)

	if err := New(WithPromptDriver(driver)).EditTags(context.Background(), control); err != nil {
		t.Fatalf("edit: %v", err)
	}

	want := []taglist.Tag{
		{Name: "Alarm Acknowledged", Value: "ALARM_ACK"},
		{Name: "custom", Value: "custom"},
	}
	if diff := cmp.Diff(want, control.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestEditTags_RemoveAndRequired(t *testing.T) {
	driver := &stubDriver{
		// empty input with no tags -> required message; then add, remove it,
		// add again and finish.
		inputs:    []string{"", "ALARM_ACK", "", "Post telemetry", ""},
		selectIdx: []int{2, 0},
		multi:     [][]int{{0}},
	}
	control := taglist.New(testPool(), listcontrol.WithName("messageTypes"), listcontrol.WithRequired(true))
	control.WriteValue(nil)

	if err := New(WithPromptDriver(driver)).EditTags(context.Background(), control); err != nil {
		t.Fatalf("edit: %v", err)
	}

	if !driver.sawInfo("messageTypes is required") {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}
	want := []taglist.Tag{{Name: "Post telemetry", Value: "POST_TELEMETRY_REQUEST"}}
	if diff := cmp.Diff(want, control.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestEditTags_RemoveSeveral(t *testing.T) {
	driver := &stubDriver{
		// Remove tags, then Done
		inputs:    []string{"", ""},
		selectIdx: []int{2, 0},
		multi:     [][]int{{0, 2}},
	}
	control := taglist.New(testPool(), listcontrol.WithName("messageTypes"))
	control.WriteValue([]string{"POST_TELEMETRY_REQUEST", "ALARM_ACK", "ALARM_CLEAR"})

	var emitted [][]string
	control.RegisterOnChange(func(value []string, _ bool) {
		emitted = append(emitted, value)
	})

	if err := New(WithPromptDriver(driver)).EditTags(context.Background(), control); err != nil {
		t.Fatalf("edit: %v", err)
	}

	want := []taglist.Tag{{Name: "Alarm Acknowledged", Value: "ALARM_ACK"}}
	if diff := cmp.Diff(want, control.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	wantEmitted := [][]string{{"ALARM_ACK", "ALARM_CLEAR"}, {"ALARM_ACK"}}
	if diff := cmp.Diff(wantEmitted, emitted); diff != "" {
		t.Fatalf("emissions mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggester_SkipsSelectedAndLimits(t *testing.T) {
	control := taglist.New(testPool())
	control.WriteValue([]string{"ALARM_ACK"})

	suggest := New(WithSuggestionLimit(1)).suggester(control)
	if diff := cmp.Diff([]string{"Alarm Cleared"}, suggest("ala")); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}

	all := New().suggester(control)
	if diff := cmp.Diff([]string{"Post telemetry", "Alarm Cleared"}, all("")); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestEditForm_SerializesValues(t *testing.T) {
	driver := &stubDriver{
		// metadata: Add, Done; messageTypes: input, empty, Done
		selectIdx: []int{0, 3, 0},
		inputs:    []string{"site", "north", "Alarm Cleared", ""},
	}

	f := form.New()
	if err := f.Attach("metadata", kvmap.New(listcontrol.WithName("metadata"))); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := f.Attach("messageTypes", taglist.New(testPool(), listcontrol.WithName("messageTypes"))); err != nil {
		t.Fatalf("attach: %v", err)
	}

	out, err := New(WithPromptDriver(driver)).EditForm(context.Background(), f)
	if err != nil {
		t.Fatalf("edit form: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"metadata":     map[string]any{"site": "north"},
		"messageTypes": []any{"ALARM_CLEAR"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEditForm_UnsupportedControl(t *testing.T) {
	f := form.New()
	if err := f.Attach("other", fakeControl{}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	_, err := New(WithPromptDriver(&stubDriver{})).EditForm(context.Background(), f)
	if !errors.Is(err, ErrUnsupportedControl) {
		t.Fatalf("expected ErrUnsupportedControl, got %v", err)
	}
}

func TestSerialize_Formats(t *testing.T) {
	values := map[string]any{
		"metadata":     map[string]string{"b": "2", "a": "1"},
		"messageTypes": []string{"ALARM_ACK"},
		"missing":      nil,
	}

	pretty, err := New(WithOutputFormat(OutputFormatPrettyText)).serialize(values)
	if err != nil {
		t.Fatalf("pretty: %v", err)
	}
	wantPretty := "messageTypes[0]=ALARM_ACK\nmetadata.a=1\nmetadata.b=2\nmissing=null\n"
	if diff := cmp.Diff(wantPretty, string(pretty)); diff != "" {
		t.Fatalf("pretty mismatch (-want +got):\n%s", diff)
	}

	encoded, err := New(WithOutputFormat(OutputFormatFormURLEncoded)).serialize(values)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	wantForm := "messageTypes%5B%5D=ALARM_ACK&metadata.a=1&metadata.b=2&missing="
	if diff := cmp.Diff(wantForm, string(encoded)); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}

	if got := ParseOutputFormat("bogus"); got != OutputFormatJSON {
		t.Fatalf("expected json fallback, got %q", got)
	}
}

type fakeControl struct{}

func (fakeControl) WriteAny(any) {}
func (fakeControl) RegisterOnChangeAny(func(any, bool)) {}
func (fakeControl) EncodeAny() (any, bool) { return nil, false }
func (fakeControl) SetDisabled(bool) {}
func (fakeControl) Validate() listcontrol.ValidationResult { return listcontrol.OK }
func (fakeControl) Label(_, fallback string) string { return fallback }
func (fakeControl) Close() {}
