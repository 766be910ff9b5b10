package logger

// LoggingConfig defines the configuration for the diagnostic log.
type LoggingConfig struct {
	// Enabled controls whether skipped-record diagnostics are persisted to a file.
	// When false (or Path is empty) diagnostics go to stderr only.
	Enabled bool `yaml:"enabled"`
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Path is the diagnostic log file location.
	Path string `yaml:"path"`
	// MaxSize is the maximum size in MB before rotation.
	MaxSize int `yaml:"max_size"`
	// MaxBackups is the maximum number of rotated files to keep.
	MaxBackups int `yaml:"max_backups"`
	// MaxAge is the maximum age in days of a rotated file.
	MaxAge int `yaml:"max_age"`
	// Compress controls gzip compression of rotated files.
	Compress bool `yaml:"compress"`
}
