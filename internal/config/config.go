// Package config reads the driver's optional YAML configuration file,
// which sets presentation preferences (REPL prompt, colorized output,
// JSON error reports). Nothing in it affects elaboration semantics.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the schema of a pie.yaml file.
type Config struct {
	Prompt string `yaml:"prompt"` // REPL prompt text
	Color  bool   `yaml:"color"`  // colorize CLI/REPL output
	JSON   bool   `yaml:"json"`   // emit errors as JSON reports
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Prompt: "pie> ", Color: true}
}

// Load reads and parses a YAML config file, filling unset fields from
// Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Prompt == "" {
		cfg.Prompt = Default().Prompt
	}
	return cfg, nil
}
