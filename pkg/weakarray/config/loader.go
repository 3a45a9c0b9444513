package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// decoders maps a file extension to the parser for that format.
var decoders = map[string]func([]byte) (Config, error){
	".yaml": FromYAML,
	".yml":  FromYAML,
	".json": FromJSON,
}

// LoadSettings reads a weakarray config file and decodes its Settings.
// Errors name the file they came from.
func LoadSettings(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	s, err := cfg.Settings()
	if err != nil {
		return Settings{}, fmt.Errorf("weakarray config %s: %w", path, err)
	}
	return s, nil
}

// FromFile loads a config file, picking the format by extension:
// .yaml, .yml, or .json.
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return Config{}, fmt.Errorf("weakarray config %s: unsupported extension %q", path, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("weakarray config: %w", err)
	}

	cfg, err := decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("weakarray config %s: %w", path, err)
	}
	return cfg, nil
}

// FromYAML parses a YAML document. An empty document yields an empty Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses a JSON object.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}
