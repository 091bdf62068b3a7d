package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-listfield/pkg/kvmap"
	"github.com/goliatone/go-listfield/pkg/taglist"
)

var (
	// ErrUnknownKind is returned for a field kind that names no control.
	ErrUnknownKind = errors.New("config: unknown field kind")
	// ErrDuplicateField is returned when two documents declare the same field.
	ErrDuplicateField = errors.New("config: duplicate field")
)

// Load walks fsys and merges every JSON/YAML document into one Document.
// Files are visited in lexical order. A nil fsys yields an empty document.
func Load(fsys fs.FS) (Document, error) {
	var doc Document
	if fsys == nil {
		return doc, nil
	}

	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		parsed, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, field := range parsed.Fields {
			if prev, exists := seen[field.Name]; exists {
				return fmt.Errorf("%w: %q (files %s and %s)", ErrDuplicateField, field.Name, prev, path)
			}
			seen[field.Name] = path
			doc.Fields = append(doc.Fields, field)
		}
		return nil
	})
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Parse decodes a single document, trying JSON first and YAML second. Fields
// listed under `order` come first, in that order; the rest follow sorted by
// name.
func Parse(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("config: file %s is empty", source)
	}

	var raw documentFile
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = documentFile{}
		if yerr := yaml.Unmarshal(data, &raw); yerr != nil {
			return Document{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
		}
	}

	names, err := orderedNames(raw, source)
	if err != nil {
		return Document{}, err
	}

	doc := Document{Fields: make([]Field, 0, len(names))}
	for _, name := range names {
		field, err := normaliseField(name, raw.Fields[name], source)
		if err != nil {
			return Document{}, err
		}
		doc.Fields = append(doc.Fields, field)
	}
	return doc, nil
}

func orderedNames(raw documentFile, source string) ([]string, error) {
	names := make([]string, 0, len(raw.Fields))
	for name := range raw.Fields {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("config: file %s defines a field with an empty name", source)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]string, 0, len(names))
	for _, name := range raw.Order {
		name = strings.TrimSpace(name)
		if _, ok := raw.Fields[name]; !ok {
			return nil, fmt.Errorf("config: file %s orders unknown field %q", source, name)
		}
		if slices.Contains(ordered, name) {
			continue
		}
		ordered = append(ordered, name)
	}
	for _, name := range names {
		if !slices.Contains(ordered, name) {
			ordered = append(ordered, name)
		}
	}
	return ordered, nil
}

func normaliseField(name string, raw fieldFile, source string) (Field, error) {
	kind, err := ParseKind(raw.Kind)
	if err != nil {
		return Field{}, fmt.Errorf("config: field %q (file %s): %w", name, source, err)
	}

	field := Field{
		Name:     strings.TrimSpace(name),
		Kind:     kind,
		Required: raw.Required,
		Disabled: raw.Disabled,
		Source:   source,
	}

	field.Labels = CleanLabels(raw.Labels)

	switch kind {
	case KindTags:
		if raw.DuplicateKeys != "" {
			return Field{}, fmt.Errorf("config: field %q (file %s): duplicateKeys applies to key-value fields only", name, source)
		}
		for _, tag := range raw.Pool {
			field.Pool = append(field.Pool, taglist.Tag{
				Name:  sanitizeLabel(tag.Name),
				Value: strings.TrimSpace(tag.Value),
			})
		}
	case KindKeyValue:
		if len(raw.Pool) > 0 {
			return Field{}, fmt.Errorf("config: field %q (file %s): pool applies to tag fields only", name, source)
		}
		field.DuplicateKeys = kvmap.ParseDuplicateKeyPolicy(raw.DuplicateKeys)
	}
	return field, nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
