package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the environment variable that points at the YAML file.
const PathEnv = "STOREWATCH_CONFIG"

// searchPaths are tried in order when PathEnv is unset.
var searchPaths = []string{
	"./storewatch.yaml",
	"./config/storewatch.yaml",
	"/etc/storewatch/storewatch.yaml",
}

// Load reads the storewatch configuration. Environment variables override
// the YAML file, which overrides env-default tags. An explicit PathEnv must
// exist; otherwise the first existing search path is used, and with none
// found the config comes from the environment alone.
func Load() (*Config, error) {
	var cfg Config

	path, err := resolvePath()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// resolvePath returns the YAML file to read, or "" for environment only.
func resolvePath() (string, error) {
	if path := os.Getenv(PathEnv); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config: %s=%s: %w", PathEnv, path, err)
		}
		return path, nil
	}

	for _, path := range searchPaths {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return path, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("config: stat %s: %w", path, err)
		}
	}
	return "", nil
}
