package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// envPrefix prefixes every environment override, e.g. MESHKIT_NMESH.
const envPrefix = "MESHKIT_"

// Load reads configuration from an optional YAML file, applies environment
// overrides, and validates the result. An empty filename loads defaults plus
// environment only.
func Load(filename string) (*Config, error) {
	cfg := DefaultConfig()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, filename)
			}

			return nil, fmt.Errorf("config: read %s: %w", filename, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, filename, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides config fields from MESHKIT_-prefixed environment
// variables. Environment wins over file values.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(envPrefix + "NMESH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: NMESH=%q", ErrEnvParse, v)
		}

		cfg.Nmesh = n
	}

	if v := os.Getenv(envPrefix + "BOXSIZE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: BOXSIZE=%q", ErrEnvParse, v)
		}

		cfg.BoxSize = f
	}

	if v := os.Getenv(envPrefix + "WINDOW"); v != "" {
		cfg.Window = v
	}

	if v := os.Getenv(envPrefix + "WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: WORKERS=%q", ErrEnvParse, v)
		}

		cfg.Workers = n
	}

	if v := os.Getenv(envPrefix + "SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SEED=%q", ErrEnvParse, v)
		}

		cfg.Seed = n
	}

	if v := os.Getenv(envPrefix + "CATALOG_KIND"); v != "" {
		cfg.Catalog.Kind = v
	}

	if v := os.Getenv(envPrefix + "CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}

	if v := os.Getenv(envPrefix + "CATALOG_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CATALOG_COUNT=%q", ErrEnvParse, v)
		}

		cfg.Catalog.Count = n
	}

	return nil
}
