// Package config loads vellum.Config from defaults, an optional YAML file
// and VELLUM_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/vellum"
)

// EnvPrefix is the prefix of environment overrides, e.g. VELLUM_MAX_ZOOM.
const EnvPrefix = "VELLUM"

// Load returns the built-in defaults overlaid with the YAML file at path
// (skipped when path is empty or the file does not exist) and then with
// environment variables. The result is validated.
func Load(path string) (vellum.Config, error) {
	cfg := vellum.DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
