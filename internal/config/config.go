// Package config provides shared configuration constants and the runtime
// configuration for the filament tracker
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultDatabaseFile is the default SQLite database filename
	// used by every command when no --db flag is provided
	DefaultDatabaseFile = "3d_print.db"

	// DatabaseFileDescription is the help text description for the database file flag
	DatabaseFileDescription = "Path to SQLite database file"

	// WeightDescription is the help text description for the weight flag
	WeightDescription = "Weight in grams"

	// LengthDescription is the help text description for the length flag
	LengthDescription = "Length in meters"

	// EnvPrefix prefixes environment overrides, e.g. REMAINDER_DATABASE_PATH
	EnvPrefix = "REMAINDER"

	// DefaultLogLevel is used when nothing else sets logger.level
	DefaultLogLevel = "warn"
)

// Flag names bound to configuration keys
const (
	FlagDatabase = "db"
	FlagLogLevel = "log-level"
)

// Config is the runtime configuration shared by all commands
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// DatabaseConfig locates the SQLite file
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggerConfig controls diagnostic output
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`      // console or json
	OutputPath string `mapstructure:"output_path"` // stderr, stdout or a file path
}

// Load builds the configuration. Precedence, highest first: flags in flags
// that were explicitly set, REMAINDER_* environment variables, the config
// file, defaults. configFile may be empty, in which case remainder.yaml is
// looked up in the working directory and its absence is not an error.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		if err := bindFlag(v, "database.path", flags, FlagDatabase); err != nil {
			return nil, err
		}
		if err := bindFlag(v, "logger.level", flags, FlagLogLevel); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("remainder")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// bindFlag binds a flag to a key when the flag set defines it
func bindFlag(v *viper.Viper, key string, flags *pflag.FlagSet, name string) error {
	flag := flags.Lookup(name)
	if flag == nil {
		return nil
	}
	if err := v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("failed to bind --%s: %w", name, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabaseFile)

	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stderr")
}
