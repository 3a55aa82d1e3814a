package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/live"
	"github.com/vango-dev/vtree/pkg/vdom"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "vtree.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "vtree.yaml"

	// DefaultAddress is the default live server address.
	DefaultAddress = ":8080"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log handler format.
	DefaultLogFormat = "text"
)

// FileNames lists the configuration file names in lookup order.
var FileNames = []string{JSONFileName, YAMLFileName, "vtree.yml"}

// Config represents a vtree.json or vtree.yaml file.
type Config struct {
	// Engine tunes the reconciliation engine.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Live configures the live server.
	Live LiveConfig `json:"live" yaml:"live"`

	// Log configures the process logger.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// EngineConfig contains engine settings.
type EngineConfig struct {
	// Debug validates every child list before it is rendered.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	// KeyIndexThreshold is the window length from which the keyed
	// differ builds a key index.
	KeyIndexThreshold int `json:"keyIndexThreshold,omitempty" yaml:"keyIndexThreshold,omitempty"`

	// KeyIndexMinNew is the new window length below which the keyed
	// differ always scans.
	KeyIndexMinNew int `json:"keyIndexMinNew,omitempty" yaml:"keyIndexMinNew,omitempty"`
}

// LiveConfig contains live server settings. Durations are Go duration
// strings such as "30s".
type LiveConfig struct {
	// Address is the address to listen on.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// ReadTimeout is the maximum wait for a client message.
	ReadTimeout string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`

	// WriteTimeout is the maximum wait when sending a frame.
	WriteTimeout string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`

	// HeartbeatInterval is the time between server pings.
	HeartbeatInterval string `json:"heartbeatInterval,omitempty" yaml:"heartbeatInterval,omitempty"`

	// PendingTimeout is how long a page session waits for its socket.
	PendingTimeout string `json:"pendingTimeout,omitempty" yaml:"pendingTimeout,omitempty"`

	// MaxMessageSize is the largest client message accepted, in bytes.
	MaxMessageSize int64 `json:"maxMessageSize,omitempty" yaml:"maxMessageSize,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	engine := vdom.DefaultConfig()
	lc := live.DefaultConfig()
	return &Config{
		Engine: EngineConfig{
			KeyIndexThreshold: engine.KeyIndexThreshold,
			KeyIndexMinNew:    engine.KeyIndexMinNew,
		},
		Live: LiveConfig{
			Address:           DefaultAddress,
			Title:             lc.Title,
			ReadTimeout:       lc.ReadTimeout.String(),
			WriteTimeout:      lc.WriteTimeout.String(),
			HeartbeatInterval: lc.HeartbeatInterval.String(),
			PendingTimeout:    lc.PendingTimeout.String(),
			MaxMessageSize:    lc.MaxMessageSize,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// vtree.json, then vtree.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigNotFound).
		WithDetail("No vtree.json or vtree.yaml found in " + dir).
		WithSuggestion("Create vtree.json, or run without a config to use the defaults")
}

// LoadFile reads configuration from the specified file path. The format
// follows the file extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No config file at " + path)
		}
		return nil, errors.New(errors.CodeConfigParse).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path in the format
// its extension names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()

	// Engine
	if c.Engine.KeyIndexThreshold == 0 {
		c.Engine.KeyIndexThreshold = d.Engine.KeyIndexThreshold
	}
	if c.Engine.KeyIndexMinNew == 0 {
		c.Engine.KeyIndexMinNew = d.Engine.KeyIndexMinNew
	}

	// Live
	if c.Live.Address == "" {
		c.Live.Address = d.Live.Address
	}
	if c.Live.Title == "" {
		c.Live.Title = d.Live.Title
	}
	if c.Live.ReadTimeout == "" {
		c.Live.ReadTimeout = d.Live.ReadTimeout
	}
	if c.Live.WriteTimeout == "" {
		c.Live.WriteTimeout = d.Live.WriteTimeout
	}
	if c.Live.HeartbeatInterval == "" {
		c.Live.HeartbeatInterval = d.Live.HeartbeatInterval
	}
	if c.Live.PendingTimeout == "" {
		c.Live.PendingTimeout = d.Live.PendingTimeout
	}
	if c.Live.MaxMessageSize == 0 {
		c.Live.MaxMessageSize = d.Live.MaxMessageSize
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Engine.KeyIndexThreshold < 0 || c.Engine.KeyIndexMinNew < 0 {
		return invalid("engine", "Key index thresholds must not be negative")
	}

	durations := []struct{ name, value string }{
		{"readTimeout", c.Live.ReadTimeout},
		{"writeTimeout", c.Live.WriteTimeout},
		{"heartbeatInterval", c.Live.HeartbeatInterval},
		{"pendingTimeout", c.Live.PendingTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return invalid("live."+d.name, "Not a duration: "+d.value).Wrap(err)
		}
		if v <= 0 {
			return invalid("live."+d.name, "Duration must be positive")
		}
	}
	if c.Live.MaxMessageSize <= 0 {
		return invalid("live.maxMessageSize", "Max message size must be positive")
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format", "Log format must be text or json, got "+c.Log.Format)
	}
	return nil
}

// EngineConfig returns the engine settings as a vdom.Config.
func (c *Config) EngineConfig() vdom.Config {
	return vdom.Config{
		Debug:             c.Engine.Debug,
		KeyIndexThreshold: c.Engine.KeyIndexThreshold,
		KeyIndexMinNew:    c.Engine.KeyIndexMinNew,
	}
}

// LiveConfig returns the live settings as a live.Config. Call it on a
// validated config.
func (c *Config) LiveConfig(logger *slog.Logger) live.Config {
	return live.Config{
		Address:           c.Live.Address,
		Title:             c.Live.Title,
		Engine:            c.EngineConfig(),
		ReadTimeout:       mustDuration(c.Live.ReadTimeout),
		WriteTimeout:      mustDuration(c.Live.WriteTimeout),
		HeartbeatInterval: mustDuration(c.Live.HeartbeatInterval),
		PendingTimeout:    mustDuration(c.Live.PendingTimeout),
		MaxMessageSize:    c.Live.MaxMessageSize,
		Logger:            logger,
	}
}

// Logger builds the process logger described by the log section.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the directory holding a
// config file.
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
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No vtree config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or its nearest parent holding a config file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, invalid("log.level", "Log level must be debug, info, warn or error, got "+s)
	}
	return level, nil
}

func invalid(path, detail string) *errors.Error {
	return errors.New(errors.CodeConfigInvalid).WithPath(path).WithDetail(detail)
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}
