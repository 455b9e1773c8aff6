package logger

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config describes how the process logs.
type Config struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	// Output is a list of zap sinks; defaults to stderr so that command output stays clean.
	Output []string `json:"output,omitempty" yaml:"output,omitempty"`
}

// DefaultConfig returns an info level console logger config.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatConsole, Output: []string{"stderr"}}
}

// Validate checks the level and format.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.level()); err != nil {
		return errors.Wrapf(err, "invalid log level %q", c.Level)
	}
	switch c.format() {
	case FormatConsole, FormatJSON:
	default:
		return errors.Newf("invalid log format %q", c.Format)
	}
	return nil
}

func (c *Config) level() string {
	if c.Level == "" {
		return "info"
	}
	return strings.ToLower(c.Level)
}

func (c *Config) format() string {
	if c.Format == "" {
		return FormatConsole
	}
	return strings.ToLower(c.Format)
}

// New builds a zap logger for config.
func New(config Config) (*zap.Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	level, _ := zapcore.ParseLevel(config.level())
	var zapConfig zap.Config
	if config.format() == FormatJSON {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.DisableStacktrace = true
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stderr"}
	if len(config.Output) > 0 {
		zapConfig.OutputPaths = config.Output
	}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	ret, err := zapConfig.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return ret, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
