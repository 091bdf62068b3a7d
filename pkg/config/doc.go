// Package config loads list field configuration from JSON or YAML documents
// and builds the matching controls. A document describes each field's control
// kind, its required and disabled flags, display labels and, for tag fields,
// an optional inline candidate pool.
package config
