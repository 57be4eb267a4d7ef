// Package config merges command-line flags, REGJSON_* environment
// variables and an optional YAML config file into one Config.
//
// Precedence, highest first: flags set on the command line, environment,
// config file, flag defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/joshuapare/regjson/internal/watch"
	"github.com/joshuapare/regjson/pkg/export"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. REGJSON_OUTPUT.
	EnvPrefix = "regjson"

	// ConfigFileName is searched for in the working directory when no
	// explicit --config is given.
	ConfigFileName = "regjson"
)

// Keys shared by flags, env and config file.
const (
	KeyRegistry = "registry"
	KeyOutput   = "output"
	KeyWatch    = "watch"
	KeyInterval = "interval"
	KeyFormat   = "format"
	KeyFromReg  = "from-reg"
	KeyDebug    = "debug"
	KeyQuiet    = "quiet"
	KeyLogFile  = "log-file"
)

// Config is the resolved run configuration.
type Config struct {
	RegistryPath string        `mapstructure:"registry"`
	OutputPath   string        `mapstructure:"output"`
	Watch        bool          `mapstructure:"watch"`
	Interval     time.Duration `mapstructure:"interval"`
	Format       string        `mapstructure:"format"`
	FromReg      string        `mapstructure:"from-reg"`
	Debug        bool          `mapstructure:"debug"`
	Quiet        bool          `mapstructure:"quiet"`
	LogFile      string        `mapstructure:"log-file"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// ErrMissingRegistry and ErrMissingOutput report required settings that
// were never given.
var (
	ErrMissingRegistry = errors.New("Please specify the registry path using the -r option.")  //nolint:staticcheck // user-facing message
	ErrMissingOutput   = errors.New("Please specify the output file path using the -o option.") //nolint:staticcheck // user-facing message
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Interval: watch.DefaultInterval,
		Format:   string(export.FormatJSON),
	}
}

// Load resolves the configuration. flags may be nil. When configFile is
// empty, ./regjson.yaml is read if present; a named file that cannot be
// read is an error.
func Load(fs afero.Fs, flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	if fs != nil {
		v.SetFs(fs)
	}

	def := Default()
	v.SetDefault(KeyInterval, def.Interval)
	v.SetDefault(KeyFormat, def.Format)
	v.SetDefault(KeyRegistry, "")
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyWatch, false)
	v.SetDefault(KeyFromReg, "")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

// Validate checks the required settings, in the order -r then -o, and the
// optional ones. Missing required settings return ErrMissingRegistry or
// ErrMissingOutput unwrapped so the caller can print them as-is.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RegistryPath) == "" {
		return ErrMissingRegistry
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return ErrMissingOutput
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	return nil
}

// EncodeOptions returns the document encoding for c. Call Validate first.
func (c *Config) EncodeOptions() export.EncodeOptions {
	opts := export.DefaultEncodeOptions()
	if f, err := export.ParseFormat(c.Format); err == nil {
		opts.Format = f
	}
	return opts
}
