package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the top-level manifest.
type Config struct {
	Codec  CodecSettings `toml:"codec"`
	Routes []Route       `toml:"route"`
}

// CodecSettings controls how responses are rendered.
type CodecSettings struct {
	// Output is compact (default), pretty or canonical.
	Output string `toml:"output"`
}

// Validate normalizes routes and checks everything that does not depend on
// registered families or handlers.
func (c *Config) Validate() error {
	out, err := normalizeOutput(c.Codec.Output)
	if err != nil {
		return fmt.Errorf("codec.output: %w", err)
	}
	c.Codec.Output = out

	if len(c.Routes) == 0 {
		return errors.New("no routes defined")
	}
	return c.validateRoutes()
}

func normalizeOutput(s string) (string, error) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "":
		return OutputCompact, nil
	case OutputCompact, OutputPretty, OutputCanonical:
		return s, nil
	default:
		return "", fmt.Errorf("unknown output %q (want %s, %s or %s)", s, OutputCompact, OutputPretty, OutputCanonical)
	}
}
