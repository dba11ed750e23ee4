// Package config loads the client configuration file. Flags in main take
// precedence over file values, which take precedence over defaults.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configFile = "config.yaml"

	// DefaultAPIURL is the backend REST base URL.
	DefaultAPIURL = "http://127.0.0.1:8080/api"
	// DefaultWSURL is the backend event-stream URL.
	DefaultWSURL = "ws://127.0.0.1:8080/ws"
)

// Config is the on-disk client configuration.
type Config struct {
	APIURL string `yaml:"api_url"`
	WSURL  string `yaml:"ws_url"`
}

// Dir returns the per-user config directory for the console.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "blastline"), nil
}

// Load reads the config file from dir, filling defaults for missing values.
// A missing file yields the defaults without error.
func Load(dir string) (Config, error) {
	cfg := Config{APIURL: DefaultAPIURL, WSURL: DefaultWSURL}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.WSURL == "" {
		cfg.WSURL = DefaultWSURL
	}
	return cfg, nil
}
