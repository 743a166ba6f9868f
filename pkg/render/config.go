package render

import (
	"context"
	"strings"

	"github.com/vango-dev/loom/internal/errors"
)

// Config controls output formatting. It is an immutable value: presets
// return fresh copies and nothing in the package mutates a Config after a
// render has started.
type Config struct {
	// Indentation is written once per depth level in front of block elements.
	// Empty means no indentation.
	Indentation string

	// Newline separates block elements. Empty means minified output.
	Newline string

	// ForceImportant appends !important to every extracted style declaration.
	// Email clients need this to override their own stylesheets.
	ForceImportant bool

	// ReservedCapacity is the initial output buffer capacity in bytes.
	ReservedCapacity int
}

// DefaultConfig returns the minified configuration.
func DefaultConfig() Config {
	return Config{ReservedCapacity: 1024}
}

// PrettyConfig returns an indented, newline-separated configuration.
// Should only be used in development as it increases output size.
func PrettyConfig() Config {
	return Config{
		Indentation:      "  ",
		Newline:          "\n",
		ReservedCapacity: 4096,
	}
}

// EmailConfig returns the configuration for HTML email: single-space
// indentation and !important on every declaration.
func EmailConfig() Config {
	return Config{
		Indentation:      " ",
		Newline:          "\n",
		ForceImportant:   true,
		ReservedCapacity: 4096,
	}
}

// OptimizedConfig returns a minified configuration with a large reserved
// buffer for throughput on known-large documents.
func OptimizedConfig() Config {
	return Config{ReservedCapacity: 64 << 10}
}

// ConfigByName resolves a preset name: "default" (or ""), "pretty",
// "email" or "optimized".
func ConfigByName(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "minified":
		return DefaultConfig(), nil
	case "pretty":
		return PrettyConfig(), nil
	case "email":
		return EmailConfig(), nil
	case "optimized":
		return OptimizedConfig(), nil
	default:
		return Config{}, errors.Newf(errors.CategoryConfig, "unknown render preset %q", name)
	}
}

// Pretty reports whether the configuration inserts formatting whitespace.
func (c Config) Pretty() bool {
	return c.Indentation != "" || c.Newline != ""
}

type configKey struct{}

// WithConfig returns a context that overrides the renderer's configuration
// for any render call made with it.
func WithConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFrom returns the configuration bound to ctx, if any.
func ConfigFrom(ctx context.Context) (Config, bool) {
	if ctx == nil {
		return Config{}, false
	}
	cfg, ok := ctx.Value(configKey{}).(Config)
	return cfg, ok
}
