package fieldschema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a schema declaration.
type Document struct {
	Fields []Field `yaml:"fields" json:"fields"`
}

// LoadYAML decodes a `fields:` document and builds the schema.
func LoadYAML(r io.Reader) (*Schema, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("fieldschema: decode yaml: %w", err)
	}
	return NewSchema(doc.Fields...)
}

// LoadFile reads a YAML schema from path.
func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fieldschema: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadYAML(f)
}
