package taglist_test

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-listfield/pkg/taglist"
)

func TestChipInput_InitialSuggestionsAreFullPool(t *testing.T) {
	pool := taglist.NewPool(postTelemetry, alarm)
	in := taglist.NewChipInput(taglist.New(pool))

	var replayed [][]taglist.Tag
	in.OnSuggestions(func(tags []taglist.Tag) {
		replayed = append(replayed, tags)
	})

	if diff := cmp.Diff([][]taglist.Tag{pool.Tags()}, replayed); diff != "" {
		t.Fatalf("initial replay mismatch (-want +got):\n%s", diff)
	}

	in.SetText("tele")
	if diff := cmp.Diff([]taglist.Tag{postTelemetry}, in.Suggestions()); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if len(replayed) != 2 {
		t.Fatalf("expected listener to observe the text change, got %d calls", len(replayed))
	}
}

func TestChipInput_CommitAlwaysClears(t *testing.T) {
	ctrl := taglist.New(taglist.NewPool(postTelemetry, alarm))
	ctrl.WriteValue(nil)
	in := taglist.NewChipInput(ctrl)

	in.SetText("  ")
	if in.Commit() {
		t.Fatalf("expected blank commit to be a no-op")
	}
	if in.Text() != "" {
		t.Fatalf("expected text to be cleared, got %q", in.Text())
	}

	in.SetText("Alarm")
	if !in.Commit() {
		t.Fatalf("expected commit to add a chip")
	}
	in.SetText("Alarm")
	if in.Commit() {
		t.Fatalf("expected duplicate commit to be a no-op")
	}
	if in.Text() != "" || len(in.Suggestions()) != 2 {
		t.Fatalf("expected cleared text and full suggestions, got %q / %d", in.Text(), len(in.Suggestions()))
	}
	if diff := cmp.Diff([]taglist.Tag{alarm}, ctrl.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestChipInput_SeparatorsCommitSegments(t *testing.T) {
	ctrl := taglist.New(taglist.NewPool(postTelemetry, alarm))
	ctrl.WriteValue(nil)
	in := taglist.NewChipInput(ctrl)

	in.SetText("Alarm, Custom;;Post telemetry\nrest")

	want := []taglist.Tag{alarm, {Name: "Custom", Value: "Custom"}, postTelemetry}
	if diff := cmp.Diff(want, ctrl.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if in.Text() != "rest" {
		t.Fatalf("expected trailing text to remain, got %q", in.Text())
	}
}

func TestChipInput_SelectAddsAndClears(t *testing.T) {
	ctrl := taglist.New(taglist.NewPool(postTelemetry, alarm))
	ctrl.WriteValue(nil)
	in := taglist.NewChipInput(ctrl, taglist.WithSeparators(""))

	in.SetText("ala,rm")
	if ctrl.Len() != 0 || in.Text() != "ala,rm" {
		t.Fatalf("separators disabled: expected no commit, got %d items, text %q", ctrl.Len(), in.Text())
	}

	if !in.Select(alarm) {
		t.Fatalf("expected selection to add the tag")
	}
	if in.Text() != "" {
		t.Fatalf("expected text to be cleared, got %q", in.Text())
	}
}

func TestChipInput_MultibyteSeparators(t *testing.T) {
	ctrl := taglist.New(taglist.NewPool(postTelemetry, alarm))
	ctrl.WriteValue(nil)
	in := taglist.NewChipInput(ctrl, taglist.WithSeparators("；、"))

	in.SetText("Alarm；abc、de")

	want := []taglist.Tag{alarm, {Name: "abc", Value: "abc"}}
	if diff := cmp.Diff(want, ctrl.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if in.Text() != "de" {
		t.Fatalf("expected trailing text %q, got %q", "de", in.Text())
	}
	if !utf8.ValidString(in.Text()) {
		t.Fatalf("search text is not valid UTF-8: %q", in.Text())
	}
	if len(in.Suggestions()) != 0 {
		t.Fatalf("expected no suggestions for %q, got %v", in.Text(), in.Suggestions())
	}

	// Default separators no longer apply once overridden.
	in.SetText("a,b")
	if in.Text() != "a,b" || ctrl.Len() != 2 {
		t.Fatalf("expected comma to stay in the text, got %q with %d items", in.Text(), ctrl.Len())
	}
}
