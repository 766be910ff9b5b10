package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mgenviz/mgenviz/internal/utils/logger"
	"github.com/mgenviz/mgenviz/pkg/errors"
)

// DefaultConfigPath is consulted when no --config flag is given. A missing
// file there is not an error; built-in defaults apply.
const DefaultConfigPath = "/etc/mgenviz/config.yaml"

// DefaultConfigTemplate documents every setting and is written by
// `mgenviz init`.
const DefaultConfigTemplate = `# mgenviz configuration file

# Diagnostic logging. Skipped records are always reported to stderr;
# enabling the file sink duplicates them into a rotating log.
logging:
  enabled: true
  level: "info"
  path: "/var/log/mgenviz/mgenviz.log"
  max_size: 10      # MB before rotation
  max_backups: 3
  max_age: 28       # days
  compress: false

# Conversion pipeline defaults. The filter is an expression over RECV
# records, e.g. 'Proto() == "UDP"'; empty accumulates every valid record.
engine:
  filter: ""
  flush_interval: "2s"        # watch mode: snapshot rewrite cadence
  tail_position: "start"      # watch mode: start | end | offset
  checkpoint_path: "/var/lib/mgenviz/offsets.json"

# Prometheus exposition (watch mode only).
metrics:
  enabled: false
  listen: ":9341"
`

// EngineConfig holds conversion pipeline settings.
type EngineConfig struct {
	// Filter is the default record filter expression.
	Filter string `yaml:"filter"`
	// FlushInterval is how often watch mode rewrites the JSON snapshot.
	FlushInterval string `yaml:"flush_interval"`
	// TailPosition is the watch-mode start policy: start, end or offset.
	TailPosition string `yaml:"tail_position"`
	// CheckpointPath stores watch-mode read offsets between runs.
	CheckpointPath string `yaml:"checkpoint_path"`
}

// MetricsConfig holds prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Config is the root configuration document.
type Config struct {
	Logging logger.LoggingConfig `yaml:"logging"`
	Engine  EngineConfig         `yaml:"engine"`
	Metrics MetricsConfig        `yaml:"metrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: logger.LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Path:       "/var/log/mgenviz/mgenviz.log",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   false,
		},
		Engine: EngineConfig{
			Filter:         "",
			FlushInterval:  "2s",
			TailPosition:   "start",
			CheckpointPath: "/var/lib/mgenviz/offsets.json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9341",
		},
	}
}

// Load reads a config file, layering it over the defaults, and validates
// the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("yaml", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that later stages cannot recover from.
func (c *Config) Validate() error {
	if _, err := c.ParseFlushInterval(); err != nil {
		return err
	}
	if err := ValidatePosition(c.Engine.TailPosition); err != nil {
		return err
	}
	return nil
}

// ValidatePosition checks a watch-mode start policy, whether it came
// from the config file or a command-line flag.
func ValidatePosition(position string) error {
	switch position {
	case "start", "end", "offset":
		return nil
	default:
		return errors.NewConfigError("engine.tail_position", position)
	}
}

// ParseFlushInterval returns the watch-mode flush interval as a duration.
func (c *Config) ParseFlushInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Engine.FlushInterval)
	if err != nil || d <= 0 {
		return 0, errors.NewConfigError("engine.flush_interval", c.Engine.FlushInterval)
	}
	return d, nil
}

// WriteTemplate writes the documented default config to path, refusing to
// overwrite an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.NewConfigError("path", path+" already exists")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(DefaultConfigTemplate), 0644)
}
