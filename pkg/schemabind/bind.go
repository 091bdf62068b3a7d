// Package schemabind derives list field configuration from the request body
// of an OpenAPI 3 operation. Free-form string maps become key/value fields and
// string arrays become tag fields; other properties are ignored.
package schemabind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-listfield/pkg/config"
	"github.com/goliatone/go-listfield/pkg/kvmap"
	"github.com/goliatone/go-listfield/pkg/listcontrol"
	"github.com/goliatone/go-listfield/pkg/taglist"
	"github.com/goliatone/go-listfield/pkg/widgets"
)

const (
	extensionWidget        = "x-listfield-widget"
	extensionLabels        = "x-listfield-labels"
	extensionDuplicateKeys = "x-listfield-duplicate-keys"
	extensionEnumNames     = "x-enum-names"
)

var (
	// ErrEmptyDocument is returned for an empty payload.
	ErrEmptyDocument = errors.New("schemabind: document payload is empty")
	// ErrOperationNotFound is returned when no operation matches the id.
	ErrOperationNotFound = errors.New("schemabind: operation not found")
	// ErrNoRequestBody is returned when the operation has no JSON object body.
	ErrNoRequestBody = errors.New("schemabind: operation has no object request body")
)

// Option configures Bind.
type Option func(*binder)

type binder struct {
	registry *widgets.Registry
	log      *slog.Logger
}

// WithRegistry overrides the registry used to resolve control kinds.
func WithRegistry(reg *widgets.Registry) Option {
	return func(b *binder) {
		if reg != nil {
			b.registry = reg
		}
	}
}

// WithLogger routes debug records to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *binder) {
		if logger != nil {
			b.log = logger
		}
	}
}

// Operations lists the operation ids in data, sorted. Operations without an
// operationId are reported as "method:path".
func Operations(ctx context.Context, data []byte) ([]string, error) {
	spec, err := load(ctx, data)
	if err != nil {
		return nil, err
	}
	var ids []string
	for path, item := range spec.Paths.Map() {
		for method, op := range item.Operations() {
			ids = append(ids, operationID(method, path, op))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Bind loads the OpenAPI document in data and converts the request body of
// operationID into a config.Document. Properties are emitted sorted by name.
func Bind(ctx context.Context, data []byte, operationID string, opts ...Option) (config.Document, error) {
	b := &binder{
		registry: widgets.NewRegistry(),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	spec, err := load(ctx, data)
	if err != nil {
		return config.Document{}, err
	}
	op := findOperation(spec, strings.TrimSpace(operationID))
	if op == nil {
		return config.Document{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(op)
	if body == nil || !body.Type.Is(openapi3.TypeObject) {
		return config.Document{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	source := "openapi:" + operationID
	var doc config.Document
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := b.bindProperty(name, ref.Value, slices.Contains(body.Required, name))
		if !ok {
			b.log.Debug("schemabind: property skipped", "operation", operationID, "property", name)
			continue
		}
		field.Source = source
		doc.Fields = append(doc.Fields, field)
	}
	return doc, nil
}

func load(ctx context.Context, data []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schemabind: load document: %w", err)
	}
	if spec.Paths == nil {
		spec.Paths = openapi3.NewPaths()
	}
	return spec, nil
}

func operationID(method, path string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

func findOperation(spec *openapi3.T, id string) *openapi3.Operation {
	for path, item := range spec.Paths.Map() {
		for method, op := range item.Operations() {
			if operationID(method, path, op) == id {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	mt := content.Get("application/json")
	if mt == nil {
		for _, candidate := range content {
			mt = candidate
			break
		}
	}
	if mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

func (b *binder) bindProperty(name string, schema *openapi3.Schema, required bool) (config.Field, bool) {
	kind, ok := b.registry.Resolve(shapeOf(name, schema))
	if !ok {
		return config.Field{}, false
	}
	parsed, err := config.ParseKind(kind)
	if err != nil {
		return config.Field{}, false
	}

	field := config.Field{
		Name:     name,
		Kind:     parsed,
		Required: required,
		Disabled: schema.ReadOnly,
		Labels:   config.CleanLabels(labelsOf(schema)),
	}
	switch parsed {
	case config.KindKeyValue:
		field.DuplicateKeys = kvmap.ParseDuplicateKeyPolicy(stringExtension(schema.Extensions, extensionDuplicateKeys))
	case config.KindTags:
		field.Pool = poolOf(schema)
	}
	return field, true
}

func shapeOf(name string, schema *openapi3.Schema) widgets.Shape {
	shape := widgets.Shape{
		Name:       name,
		Type:       firstSchemaType(schema.Type),
		Properties: len(schema.Properties),
	}
	if schema.Items != nil && schema.Items.Value != nil {
		shape.Items = &widgets.Shape{Type: firstSchemaType(schema.Items.Value.Type)}
	}
	if extra := schema.AdditionalProperties.Schema; extra != nil && extra.Value != nil {
		shape.Values = &widgets.Shape{Type: firstSchemaType(extra.Value.Type)}
	}
	if widget := stringExtension(schema.Extensions, extensionWidget); widget != "" {
		shape.Hints = map[string]string{"widget": widget}
	}
	return shape
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func labelsOf(schema *openapi3.Schema) map[string]string {
	labels := make(map[string]string)
	if schema.Description != "" {
		labels[listcontrol.LabelHint] = schema.Description
	}
	if schema.Title != "" {
		labels[listcontrol.LabelPlaceholder] = schema.Title
	}
	if raw, ok := schema.Extensions[extensionLabels].(map[string]any); ok {
		for key, value := range raw {
			if text, ok := value.(string); ok {
				labels[key] = text
			}
		}
	}
	return labels
}

// poolOf builds the candidate pool from items.enum. Display names come from
// x-enum-names on the items schema or the property, matched by position.
func poolOf(schema *openapi3.Schema) []taglist.Tag {
	if schema.Items == nil || schema.Items.Value == nil {
		return nil
	}
	items := schema.Items.Value
	names := stringSlice(items.Extensions[extensionEnumNames])
	if len(names) == 0 {
		names = stringSlice(schema.Extensions[extensionEnumNames])
	}

	var tags []taglist.Tag
	for idx, raw := range items.Enum {
		value, ok := raw.(string)
		if !ok || value == "" {
			continue
		}
		tag := taglist.Tag{Name: value, Value: value}
		if idx < len(names) && strings.TrimSpace(names[idx]) != "" {
			tag.Name = strings.TrimSpace(names[idx])
		}
		tags = append(tags, tag)
	}
	return tags
}

func stringExtension(ext map[string]any, key string) string {
	value, _ := ext[key].(string)
	return strings.TrimSpace(value)
}

func stringSlice(raw any) []string {
	values, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		text, _ := value.(string)
		out = append(out, text)
	}
	return out
}
