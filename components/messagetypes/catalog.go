package messagetypes

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-listfield/pkg/taglist"
)

//go:embed data/message_types.yaml
var dataFS embed.FS

const defaultCatalogPath = "data/message_types.yaml"

var (
	defaultOnce sync.Once
	defaultPool *taglist.Pool
	defaultErr  error
)

type catalogFile struct {
	Types []taglist.Tag `yaml:"types"`
}

// DefaultPool returns the embedded catalog. The pool is built once and shared;
// it is immutable and safe for concurrent readers.
func DefaultPool() (*taglist.Pool, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultCatalogPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		pool, err := LoadPool(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultPool = pool
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultPool, nil
}

// LoadPool reads a YAML catalog of the form `types: [{value, name}]`. Entries
// are trimmed, entries without a value are skipped and repeated values keep
// their first occurrence.
func LoadPool(r io.Reader) (*taglist.Pool, error) {
	if r == nil {
		return nil, errors.New("messagetypes: missing reader")
	}

	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return taglist.NewPool(), nil
		}
		return nil, fmt.Errorf("messagetypes: decode catalog: %w", err)
	}

	tags := make([]taglist.Tag, 0, len(doc.Types))
	for _, tag := range doc.Types {
		tags = append(tags, taglist.Tag{
			Name:  strings.TrimSpace(tag.Name),
			Value: strings.TrimSpace(tag.Value),
		})
	}
	return taglist.NewPool(tags...), nil
}
