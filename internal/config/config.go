// Package config handles configuration loading and shared defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the service configuration file structure.
type Config struct {
	Listen       string `yaml:"listen,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	MaxBodyBytes int64  `yaml:"max_body_bytes,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen:       "0.0.0.0",
		Port:         8080,
		MaxBodyBytes: 32 << 20,
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
