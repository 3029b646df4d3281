// Package config loads a form definition and its option sources from YAML,
// with environment overrides for deployment-specific settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/options"
)

// SourceKind selects how an option collection is loaded.
type SourceKind string

const (
	SourceStatic  SourceKind = "static"
	SourceDelayed SourceKind = "delayed"
	SourceFile    SourceKind = "file"
	SourceHTTP    SourceKind = "http"
	SourceRedis   SourceKind = "redis"
)

// Source describes where one collection's options come from. Only the
// members relevant to Kind are read.
type Source struct {
	Kind    SourceKind        `yaml:"kind"`
	Items   []options.Option  `yaml:"items,omitempty"`
	Delay   time.Duration     `yaml:"delay,omitempty"`
	Path    string            `yaml:"path,omitempty"`
	URL     string            `yaml:"url,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	// Addr and KeyPrefix configure redis sources; empty values fall back to
	// REDIS_ADDR and FORMSTATE_OPTIONS_PREFIX.
	Addr      string `yaml:"addr,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

// Config is the on-disk form configuration.
type Config struct {
	Fields         []fieldschema.Field `yaml:"fields"`
	Options        map[string]Source   `yaml:"options,omitempty"`
	OptionsTimeout time.Duration       `yaml:"optionsTimeout,omitempty"`
	Disabled       bool                `yaml:"disabled,omitempty"`
}

// Load decodes a configuration document. Unknown keys are rejected.
func Load(r io.Reader) (*Config, error) {
	if r == nil {
		return nil, errors.New("config: reader is nil")
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("config: document is empty")
		}
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads and decodes the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Load(bytes.NewReader(data))
}

// Validate checks source definitions. Field definitions are checked when the
// schema is built.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: config is nil")
	}
	if len(c.Fields) == 0 {
		return errors.New("config: at least one field is required")
	}
	if c.OptionsTimeout < 0 {
		return errors.New("config: optionsTimeout must not be negative")
	}
	for name, src := range c.Options {
		if err := src.validate(); err != nil {
			return fmt.Errorf("config: options %q: %w", name, err)
		}
	}
	return nil
}

func (s Source) validate() error {
	switch s.Kind {
	case SourceStatic:
	case SourceDelayed:
		if s.Delay < 0 {
			return errors.New("delay must not be negative")
		}
	case SourceFile:
		if s.Path == "" {
			return errors.New("file source requires path")
		}
	case SourceHTTP:
		if s.URL == "" {
			return errors.New("http source requires url")
		}
	case SourceRedis:
	case "":
		return errors.New("kind is required")
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	return nil
}

// Schema builds the field schema.
func (c *Config) Schema() (*fieldschema.Schema, error) {
	schema, err := fieldschema.NewSchema(c.Fields...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return schema, nil
}
