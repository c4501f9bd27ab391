package logging

import (
	"os"

	smerrors "github.com/Station-Manager/errors"
	"gopkg.in/yaml.v3"
)

// Config describes how Service.Initialize sets up logging. DefaultConfig
// returns the harness defaults; tests mostly override FilePath.
type Config struct {
	// FilePath is the active log file. Its directory must exist.
	FilePath string `yaml:"file_path" validate:"required"`
	// When is the rotation unit: S, M, H, D or MIDNIGHT.
	When string `yaml:"when" validate:"required"`
	// Interval is the number of units per file.
	Interval int `yaml:"interval" validate:"gte=1"`
	// UTC computes rotation boundaries and backup suffixes in UTC.
	UTC bool `yaml:"utc"`
	// Encoding of the log file. Only utf-8 is supported.
	Encoding string `yaml:"encoding" validate:"required"`
	// BackupCount is how many rolled-over files to keep; 0 keeps all.
	BackupCount int `yaml:"backup_count" validate:"gte=0"`
	// MaxSizeMB caps the active file within a period (lumberjack default 100 when 0).
	MaxSizeMB int `yaml:"max_size_mb" validate:"gte=0"`

	// RootLevel is the root logger threshold.
	RootLevel string `yaml:"root_level" validate:"required"`
	// Suppress lists loggers raised to SuppressLevel.
	Suppress []string `yaml:"suppress" validate:"dive,required"`
	// SuppressLevel is the threshold given to each Suppress entry.
	SuppressLevel string `yaml:"suppress_level" validate:"required"`

	// Console also writes the line format to stderr.
	Console bool `yaml:"console"`
	// ConsoleLevel is the stderr sink threshold.
	ConsoleLevel string `yaml:"console_level"`

	ShutdownTimeoutMS      int  `yaml:"shutdown_timeout_ms" validate:"gte=0"`
	ShutdownTimeoutWarning bool `yaml:"shutdown_timeout_warning"`
}

// DefaultConfig returns the harness logging defaults: a daily file rotated
// at UTC midnight, DEBUG at the root and the connection pool at WARNING.
func DefaultConfig() *Config {
	return &Config{
		FilePath:               DefaultFilePath,
		When:                   WhenMidnight,
		Interval:               1,
		UTC:                    true,
		Encoding:               "utf-8",
		RootLevel:              "DEBUG",
		Suppress:               []string{ConnectionPoolLogger},
		SuppressLevel:          "WARNING",
		ConsoleLevel:           "INFO",
		ShutdownTimeoutMS:      2000,
		ShutdownTimeoutWarning: true,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	const op smerrors.Op = "logging.LoadConfig"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, smerrors.New(op).Errorf("%s %s: %v", errMsgReadConfig, path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, smerrors.New(op).Errorf("%s %s: %v", errMsgParseConfig, path, err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// policy extracts the rotation settings.
func (c *Config) policy() RotationPolicy {
	return RotationPolicy{
		When:        c.When,
		Interval:    c.Interval,
		UTC:         c.UTC,
		BackupCount: c.BackupCount,
		MaxSizeMB:   c.MaxSizeMB,
	}
}
