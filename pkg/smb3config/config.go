// Package smb3config loads this client's runtime configuration: target
// host/share, credentials, logging, and connection timeouts. Configuration
// sources, highest precedence first: environment variables (SMB3_*
// prefix), an optional YAML config file, then defaults — mirroring the
// precedence order the wider example's configuration loader uses.
package smb3config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the client's runtime configuration.
type Config struct {
	Host     string        `mapstructure:"host" validate:"required" yaml:"host"`
	Share    string        `mapstructure:"share" validate:"required" yaml:"share"`
	Port     int           `mapstructure:"port" validate:"required,min=1,max=65535" yaml:"port"`
	Domain   string        `mapstructure:"domain" yaml:"domain"`
	Username string        `mapstructure:"username" validate:"required" yaml:"username"`
	Password string        `mapstructure:"password" validate:"required" yaml:"password"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"required,gt=0" yaml:"timeout"`
	Logging  LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// LoggingConfig controls internal/clientlog's package-level logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		Port:    445,
		Timeout: 30 * time.Second,
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads configuration from configPath (if non-empty and present),
// then applies SMB3_-prefixed environment variable overrides, then
// validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SMB3")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("host", def.Host)
	v.SetDefault("share", def.Share)
	v.SetDefault("port", def.Port)
	v.SetDefault("domain", def.Domain)
	v.SetDefault("username", def.Username)
	v.SetDefault("password", def.Password)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output", def.Logging.Output)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %q: %w", configPath, err)
			}
		}
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags using go-playground/validator.
func Validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}
