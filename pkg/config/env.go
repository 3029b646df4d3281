package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Env holds the environment overrides. Empty values leave the file setting
// untouched.
type Env struct {
	// ENV: FORMSTATE_OPTIONS_TIMEOUT, a Go duration such as "5s"
	OptionsTimeout string `env:"FORMSTATE_OPTIONS_TIMEOUT"`
	// ENV: FORMSTATE_DISABLED
	Disabled string `env:"FORMSTATE_DISABLED"`
}

// LoadEnv reads the overrides from the process environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Env{}, fmt.Errorf("config: env: %w", err)
	}
	return env, nil
}

// Apply overlays env onto c.
func (env Env) Apply(c *Config) error {
	if c == nil {
		return errors.New("config: config is nil")
	}
	if raw := strings.TrimSpace(env.OptionsTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("config: FORMSTATE_OPTIONS_TIMEOUT: %w", err)
		}
		if d < 0 {
			return errors.New("config: FORMSTATE_OPTIONS_TIMEOUT must not be negative")
		}
		c.OptionsTimeout = d
	}
	if raw := strings.TrimSpace(env.Disabled); raw != "" {
		disabled, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: FORMSTATE_DISABLED: %w", err)
		}
		c.Disabled = disabled
	}
	return nil
}

// ApplyEnv loads the process environment and overlays it onto c.
func (c *Config) ApplyEnv() error {
	env, err := LoadEnv()
	if err != nil {
		return err
	}
	return env.Apply(c)
}
