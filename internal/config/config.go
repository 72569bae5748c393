package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "AMS_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (AMS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: AMS_SOLVER_BASE_URL -> solver.base_url.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.Solver.BaseURL = strings.TrimRight(cfg.Solver.BaseURL, "/")
	return cfg, nil
}

// envKey maps AMS_SECTION_FIELD_NAME to section.field_name. Section names
// never contain underscores, so only the first one is a separator.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Solver.BaseURL == "" {
		return fmt.Errorf("solver.base_url is required")
	}
	u, err := url.Parse(c.Solver.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid solver.base_url %q: %w", c.Solver.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid solver.base_url %q: scheme must be http or https", c.Solver.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid solver.base_url %q: host is required", c.Solver.BaseURL)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}

	if c.Panels.OpenDelay < 0 || c.Panels.CloseDelay < 0 {
		return fmt.Errorf("panel delays must be non-negative")
	}

	if c.Auth.Username == "" || c.Auth.Password == "" {
		return fmt.Errorf("auth.username and auth.password are required")
	}
	if c.Auth.LoginCloseDelay < 0 || c.Auth.SignupSwitchDelay < 0 {
		return fmt.Errorf("auth delays must be non-negative")
	}

	if c.Feedback.Database == "" {
		return fmt.Errorf("feedback.database is required")
	}

	return nil
}

// SolveURL returns the full address of the solve endpoint.
func (c *Config) SolveURL() string {
	return strings.TrimRight(c.Solver.BaseURL, "/") + "/solve"
}
