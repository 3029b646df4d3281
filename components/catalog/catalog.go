package catalog

import (
	"embed"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/options"
)

//go:embed data/profile.yaml
var dataFS embed.FS

const defaultCatalogPath = "data/profile.yaml"

// Catalog maps collection names to their options, in display order.
type Catalog map[string][]options.Option

var (
	defaultOnce    sync.Once
	defaultCatalog Catalog
	defaultErr     error
)

// DefaultCatalog returns a copy of the embedded demo collections.
func DefaultCatalog() (Catalog, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultCatalogPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		defaultCatalog, defaultErr = LoadCatalog(f)
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultCatalog.Clone(), nil
}

// LoadCatalog decodes a YAML mapping of collection name to option list. Every
// list is checked the same way a form checks a resolved collection.
func LoadCatalog(r io.Reader) (Catalog, error) {
	if r == nil {
		return nil, fmt.Errorf("catalog: missing reader")
	}
	var raw map[string][]options.Option
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	out := make(Catalog, len(raw))
	for name, items := range raw {
		if err := options.NewSet(name).Resolve(name, items); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		out[name] = items
	}
	return out, nil
}

// Names returns the collection names, sorted.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	out := make(Catalog, len(c))
	for name, items := range c {
		out[name] = append([]options.Option{}, items...)
	}
	return out
}
