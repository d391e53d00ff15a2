package core

import (
	"bytes"
	"fmt"
	"os"

	manifest "github.com/joeydtaylor/steeze-codec/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
)

// LoadConfig reads and validates a TOML manifest. Families, transformers and
// inproc handlers must be registered before it is called.
func LoadConfig(path string) (manifest.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return manifest.Config{}, err
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return manifest.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig is LoadConfig for in-memory manifests. Unknown keys are errors.
func ParseConfig(b []byte) (manifest.Config, error) {
	var cfg manifest.Config
	dec := toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return manifest.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, err
	}
	if err := cfg.ValidateRefs(Refs()); err != nil {
		return manifest.Config{}, err
	}
	return cfg, nil
}
