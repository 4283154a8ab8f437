package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	di "github.com/reoring/defaultinput"
)

// defaultConfigFile is read from the working directory when -config is not given.
const defaultConfigFile = "defaultinput.toml"

// Config holds the CLI settings read from defaultinput.toml.
type Config struct {
	Language   string `toml:"language"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
	Indent     int    `toml:"indent"`
	MaxDepth   int    `toml:"max_depth"`
	NumberMode string `toml:"number_mode"`
}

func defaultConfig() Config {
	return Config{
		Language:   "en",
		LogLevel:   "info",
		LogFormat:  "text",
		Indent:     2,
		NumberMode: "json",
	}
}

// loadConfig overlays the TOML file at path on the defaults. A missing
// implicit config file is not an error; a missing explicit one is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("load config %s: unknown keys %v", path, undecoded)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.NumberMode {
	case "json", "float64":
	default:
		return fmt.Errorf("number_mode must be json or float64, got %q", c.NumberMode)
	}
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	return nil
}

// ParseOpt converts the decoding settings for scheme and input documents.
func (c Config) ParseOpt() di.ParseOpt {
	opt := di.ParseOpt{
		Strictness: di.Strictness{OnDuplicateKey: di.Error},
		MaxDepth:   c.MaxDepth,
	}
	if c.NumberMode == "float64" {
		opt.NumberMode = di.NumberFloat64
	}
	return opt
}

// newLogger builds the CLI logger. Logs go to w (stderr) so stdout stays
// machine readable.
func newLogger(w io.Writer, c Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:     parseLogLevel(c.LogLevel),
		Formatter: parseLogFormatter(c.LogFormat),
		Prefix:    "defaultinput",
	})
}

func parseLogLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func parseLogFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

func (c Config) indent() string { return strings.Repeat(" ", c.Indent) }
