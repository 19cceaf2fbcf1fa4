package driver

import (
	"errors"
	"fmt"
	"os"

	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"metaobj/pkg/vm"
)

// Log formats understood by NewLogger.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the runtime settings. Every field is nullable so that the
// sources can be layered: defaults < config file < environment < flags.
type Config struct {
	LogLevel     null.String `json:"logLevel" envconfig:"METAOBJ_LOG_LEVEL"`
	LogFormat    null.String `json:"logFormat" envconfig:"METAOBJ_LOG_FORMAT"`
	MaxCallDepth null.Int    `json:"maxCallDepth" envconfig:"METAOBJ_MAX_CALL_DEPTH"`
	TraceTraps   null.Bool   `json:"traceTraps" envconfig:"METAOBJ_TRACE_TRAPS"`
}

// NewConfig returns the defaults. They are not marked valid, so any other
// source overrides them.
func NewConfig() Config {
	return Config{
		LogLevel:     null.NewString(logrus.InfoLevel.String(), false),
		LogFormat:    null.NewString(LogFormatText, false),
		MaxCallDepth: null.NewInt(vm.DefaultMaxCallDepth, false),
		TraceTraps:   null.NewBool(false, false),
	}
}

// Apply returns c with every valid field of cfg copied over it.
func (c Config) Apply(cfg Config) Config {
	if cfg.LogLevel.Valid {
		c.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat.Valid {
		c.LogFormat = cfg.LogFormat
	}
	if cfg.MaxCallDepth.Valid {
		c.MaxCallDepth = cfg.MaxCallDepth
	}
	if cfg.TraceTraps.Valid {
		c.TraceTraps = cfg.TraceTraps
	}
	return c
}

// Validate checks the values that have no safe fallback.
func (c Config) Validate() error {
	var errs []error
	if _, err := logrus.ParseLevel(c.LogLevel.String); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel.String))
	}
	switch c.LogFormat.String {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q, expected %s or %s", c.LogFormat.String, LogFormatText, LogFormatJSON))
	}
	if c.MaxCallDepth.Int64 < 1 {
		errs = append(errs, fmt.Errorf("max call depth must be positive, got %d", c.MaxCallDepth.Int64))
	}
	return errors.Join(errs...)
}

// RealmOptions converts the config into what vm.NewRealm consumes.
func (c Config) RealmOptions(logger logrus.FieldLogger) vm.Options {
	return vm.Options{
		MaxCallDepth: int(c.MaxCallDepth.Int64),
		Logger:       logger,
		TraceTraps:   c.TraceTraps.Bool,
	}
}

// fileConfig is the YAML shape of the config file.
type fileConfig struct {
	LogLevel     *string `yaml:"logLevel"`
	LogFormat    *string `yaml:"logFormat"`
	MaxCallDepth *int64  `yaml:"maxCallDepth"`
	TraceTraps   *bool   `yaml:"traceTraps"`
}

// ReadConfigFile loads a YAML config file. A missing file yields an empty
// config.
func ReadConfigFile(fs afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return Config{
		LogLevel:     null.StringFromPtr(fc.LogLevel),
		LogFormat:    null.StringFromPtr(fc.LogFormat),
		MaxCallDepth: null.IntFromPtr(fc.MaxCallDepth),
		TraceTraps:   null.BoolFromPtr(fc.TraceTraps),
	}, nil
}

// ReadEnvConfig reads the METAOBJ_* variables from env.
func ReadEnvConfig(env map[string]string) (Config, error) {
	var conf Config
	err := envconfig.Process("", &conf, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	return conf, nil
}

// GetConsolidatedConfig layers defaults, the config file at path (if
// any), the environment and the command line, and validates the result.
func GetConsolidatedConfig(fs afero.Fs, path string, env map[string]string, cli Config) (Config, error) {
	conf := NewConfig()
	if path != "" {
		fileConf, err := ReadConfigFile(fs, path)
		if err != nil {
			return conf, err
		}
		conf = conf.Apply(fileConf)
	}
	envConf, err := ReadEnvConfig(env)
	if err != nil {
		return conf, err
	}
	conf = conf.Apply(envConf).Apply(cli)
	return conf, conf.Validate()
}
