package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/render"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "loom.yaml"

	// EnvPrefix prefixes environment overrides, e.g. LOOM_SERVE_ADDR.
	EnvPrefix = "LOOM"

	// DefaultAddr is the default serve address.
	DefaultAddr = "localhost:8080"

	// DefaultPages is the default page directory.
	DefaultPages = "pages"

	// DefaultPreset is the default render preset.
	DefaultPreset = "default"

	// DefaultMode is the default render mode.
	DefaultMode = "sync"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents the complete loom.yaml configuration.
type Config struct {
	// Render contains rendering defaults for the render command.
	Render RenderConfig `mapstructure:"render"`

	// Serve contains page server configuration.
	Serve ServeConfig `mapstructure:"serve"`

	// Publish contains bucket publishing configuration.
	Publish PublishConfig `mapstructure:"publish"`

	// Log contains logging configuration.
	Log LogConfig `mapstructure:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig contains rendering settings.
type RenderConfig struct {
	// Preset names a render configuration: default, pretty, email or optimized.
	Preset string `mapstructure:"preset"`

	// Mode is the render mode: sync, async, batch, progressive or backpressure.
	Mode string `mapstructure:"mode"`

	// ChunkSize is the stream chunk size in bytes.
	ChunkSize int `mapstructure:"chunk_size"`
}

// ServeConfig contains page server settings.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// Pages is the page directory, relative to the config file.
	Pages string `mapstructure:"pages"`

	// Watch reloads pages when their files change.
	Watch bool `mapstructure:"watch"`

	// Metrics mounts the /metrics route.
	Metrics bool `mapstructure:"metrics"`
}

// PublishConfig contains bucket publishing settings.
type PublishConfig struct {
	Bucket       string `mapstructure:"bucket"`
	Prefix       string `mapstructure:"prefix"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	PathStyle    bool   `mapstructure:"path_style"`
	CacheControl string `mapstructure:"cache_control"`
	Concurrency  int    `mapstructure:"concurrency"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// defaults are registered with viper so every key is known to
// AutomaticEnv and Unmarshal.
var defaults = map[string]any{
	"render.preset":         DefaultPreset,
	"render.mode":           DefaultMode,
	"render.chunk_size":     render.DefaultChunkSize,
	"serve.addr":            DefaultAddr,
	"serve.pages":           DefaultPages,
	"serve.watch":           false,
	"serve.metrics":         true,
	"publish.bucket":        "",
	"publish.prefix":        "",
	"publish.region":        "",
	"publish.endpoint":      "",
	"publish.path_style":    false,
	"publish.cache_control": "",
	"publish.concurrency":   4,
	"log.level":             DefaultLogLevel,
	"log.format":            "text",
}

// New creates a new Config with default values.
func New() *Config {
	cfg, _ := NewLoader().decode()
	return cfg
}

// Loader reads configuration from loom.yaml, LOOM_* environment variables
// and bound command-line flags, in increasing order of precedence.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	return &Loader{v: v}
}

// Viper returns the underlying viper instance, for binding flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads configuration from path. An empty path searches the working
// directory and its parents for loom.yaml and falls back to defaults when
// there is none; an explicit path must exist.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.New("C002").Wrap(err)
		}
		if root, err := FindProjectRoot(wd); err == nil {
			path = filepath.Join(root, ConfigFileName)
		}
	} else if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C001").
				WithDetail("No config file at " + path).
				WithSuggestion("Create " + ConfigFileName + " or omit --config to use defaults")
		}
		return nil, errors.New("C002").Wrap(err)
	}

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, errors.New("C002").
				WithDetail("Failed to parse " + path + ": " + err.Error()).
				WithSuggestion("Check that " + ConfigFileName + " is valid YAML")
		}
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("C002").Wrap(err)
	}
	return &cfg, nil
}

// Load reads loom.yaml from dir.
func Load(dir string) (*Config, error) {
	return NewLoader().Load(filepath.Join(dir, ConfigFileName))
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := render.ConfigByName(c.Render.Preset); err != nil {
		return errors.New("C002").WithDetailf("unknown render preset %q", c.Render.Preset)
	}
	if _, err := render.ParseMode(c.Render.Mode); err != nil {
		return errors.New("C002").WithDetailf("unknown render mode %q", c.Render.Mode)
	}
	if c.Render.ChunkSize <= 0 {
		return errors.New("C002").WithDetail("render.chunk_size must be positive")
	}
	if c.Publish.Concurrency < 0 {
		return errors.New("C002").WithDetail("publish.concurrency must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("C002").WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// RenderConfig resolves the render preset.
func (c *Config) RenderConfig() (render.Config, error) {
	return render.ConfigByName(c.Render.Preset)
}

// RenderMode parses the render mode.
func (c *Config) RenderMode() (render.Mode, error) {
	return render.ParseMode(c.Render.Mode)
}

// LogLevel parses the log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("C002").WithDetailf("unknown log level %q", c.Log.Level)
	}
	return level, nil
}

// PagesPath returns the page directory, resolved against the config
// file's directory when relative.
func (c *Config) PagesPath() string {
	if filepath.IsAbs(c.Serve.Pages) || c.configPath == "" {
		return c.Serve.Pages
	}
	return filepath.Join(c.Dir(), c.Serve.Pages)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing loom.yaml, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("C001").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
