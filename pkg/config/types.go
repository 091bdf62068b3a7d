package config

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-listfield/pkg/kvmap"
	"github.com/goliatone/go-listfield/pkg/taglist"
)

// Kind names the control that edits a field.
type Kind string

const (
	KindKeyValue Kind = "key-value"
	KindTags     Kind = "tags"
)

// ParseKind normalises a kind name. Common aliases are accepted.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "key-value", "keyvalue", "key_value", "kv", "map":
		return KindKeyValue, nil
	case "tags", "tag", "chips", "message-types":
		return KindTags, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
}

// Field is the normalised configuration of one control.
type Field struct {
	Name          string
	Kind          Kind
	Required      bool
	Disabled      bool
	Labels        map[string]string
	Pool          []taglist.Tag
	DuplicateKeys kvmap.DuplicateKeyPolicy
	Source        string
}

// Document holds fields in declaration order.
type Document struct {
	Fields []Field
}

// Field returns the configuration registered under name.
func (d Document) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the field names in order.
func (d Document) Names() []string {
	out := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		out = append(out, field.Name)
	}
	return out
}

// Empty reports whether the document declares any field.
func (d Document) Empty() bool {
	return len(d.Fields) == 0
}

type documentFile struct {
	Order  []string             `json:"order" yaml:"order"`
	Fields map[string]fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Kind          string            `json:"kind" yaml:"kind"`
	Required      bool              `json:"required" yaml:"required"`
	Disabled      bool              `json:"disabled" yaml:"disabled"`
	Labels        map[string]string `json:"labels" yaml:"labels"`
	Pool          []taglist.Tag     `json:"pool" yaml:"pool"`
	DuplicateKeys string            `json:"duplicateKeys" yaml:"duplicateKeys"`
}
