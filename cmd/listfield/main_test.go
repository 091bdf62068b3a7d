package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-listfield/components/messagetypes"
	"github.com/goliatone/go-listfield/pkg/config"
	"github.com/goliatone/go-listfield/pkg/form"
	"github.com/goliatone/go-listfield/pkg/taglist"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSuggestCommand(t *testing.T) {
	out, err := runRoot(t, "suggest", "alarm", "--limit", "2")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 suggestions, got %q", out)
	}
	for _, line := range lines {
		if !strings.Contains(strings.ToUpper(line), "ALARM") {
			t.Fatalf("unexpected suggestion %q", line)
		}
	}
}

func TestSuggestCommand_Catalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	catalog := "types:\n  - value: A\n    name: Alpha\n  - value: B\n    name: Beta\n"
	if err := os.WriteFile(path, []byte(catalog), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	out, err := runRoot(t, "suggest", "--catalog", path)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if diff := cmp.Diff("A\tAlpha\nB\tBeta\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestOperationsCommand(t *testing.T) {
	doc := `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /nodes:
    post:
      operationId: createNode
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                metadata:
                  type: object
                  additionalProperties: {type: string}
                messageTypes:
                  type: array
                  items: {type: string}
`
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}

	out, err := runRoot(t, "operations", path)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	want := "createNode\tmessageTypes\ttags\ncreateNode\tmetadata\tkey-value\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestReadServerErrors_MapsOntoForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.json")
	payload := `{"/body/metadata/0/key": "Key already taken", "messageTypes": ["Unknown type", "Unknown type"], "__all__": "Try again"}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write errors: %v", err)
	}

	errs, err := readServerErrors(path)
	if err != nil {
		t.Fatalf("read errors: %v", err)
	}
	doc, err := loadDocument("")
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	f, err := config.BuildForm(doc)
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	defer f.Close()
	f.SetValues(map[string]any{"messageTypes": []any{"ALARM_ACK"}})

	f.ApplyServerErrors(errs)
	want := form.ErrorMapping{
		Fields: map[string][]string{
			"metadata":     {"Key already taken"},
			"messageTypes": {"Unknown type"},
		},
		Form: []string{"Try again"},
	}
	if diff := cmp.Diff(want, f.Validate()); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestReadServerErrors_RejectsNonStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.json")
	if err := os.WriteFile(path, []byte(`{"metadata": 3}`), 0o600); err != nil {
		t.Fatalf("write errors: %v", err)
	}
	if _, err := readServerErrors(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEditCommand_RequiresOperation(t *testing.T) {
	if _, err := runRoot(t, "edit", "--openapi", "api.yaml"); err == nil {
		t.Fatal("expected error without --operation")
	}
}

func TestNewRouter_ServesSuggestions(t *testing.T) {
	pool := taglist.NewPool(
		taglist.Tag{Name: "Alarm Acknowledged", Value: "ALARM_ACK"},
		taglist.Tag{Name: "Post telemetry", Value: "POST_TELEMETRY_REQUEST"},
	)
	router, pattern, err := newRouter("/v1", messagetypes.WithPool(pool))
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	if pattern != "/v1/api/message-types" {
		t.Fatalf("unexpected pattern %q", pattern)
	}

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + pattern + "?q=tele")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Data []messagetypes.Suggestion `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []messagetypes.Suggestion{{Value: "POST_TELEMETRY_REQUEST", Label: "Post telemetry"}}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	health, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected health status %d", health.StatusCode)
	}
}
