package options

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// wireOption accepts both "label" and "name" for the display text; backends
// in the wild use either.
type wireOption struct {
	ID    *int   `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Name  string `json:"name" yaml:"name"`
}

func (w wireOption) option(idx int) (Option, error) {
	if w.ID == nil {
		return Option{}, fmt.Errorf("options: item %d is missing an id", idx)
	}
	label := strings.TrimSpace(w.Label)
	if label == "" {
		label = strings.TrimSpace(w.Name)
	}
	return Option{ID: *w.ID, Label: label}, nil
}

func convertWire(items []wireOption) ([]Option, error) {
	out := make([]Option, 0, len(items))
	for i, item := range items {
		opt, err := item.option(i)
		if err != nil {
			return nil, err
		}
		out = append(out, opt)
	}
	return out, nil
}

// DecodeJSON parses a JSON array of {id, label|name} objects.
func DecodeJSON(data []byte) ([]Option, error) {
	var items []wireOption
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("options: decode json: %w", err)
	}
	return convertWire(items)
}

// DecodeYAML parses a YAML sequence of {id, label|name} mappings.
func DecodeYAML(data []byte) ([]Option, error) {
	var items []wireOption
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("options: decode yaml: %w", err)
	}
	return convertWire(items)
}

// decodeAuto sniffs JSON arrays and falls back to YAML.
func decodeAuto(data []byte) ([]Option, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return DecodeJSON(trimmed)
	}
	return DecodeYAML(data)
}
