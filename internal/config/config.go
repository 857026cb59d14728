// Package config loads switchboard's configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"strconv"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// LokiConfig describes an optional Loki log shipping target.
type LokiConfig struct {
	Address string            `mapstructure:"address"`
	Labels  map[string]string `mapstructure:"labels"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level     string     `mapstructure:"level"`
	Formatter string     `mapstructure:"formatter"`
	Loki      LokiConfig `mapstructure:"loki"`
}

// BindConfig describes the broker's listen endpoint.
type BindConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// TaskConfig describes task in-flight deadlines.
type TaskConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the broker's full configuration tree.
type Config struct {
	Bind BindConfig `mapstructure:"bind"`
	Task TaskConfig `mapstructure:"task"`
	Log  LogConfig  `mapstructure:"log"`
}

const (
	defaultEndpoint = "tcp://0.0.0.0:3000"
	defaultTimeout  = 60 * time.Second
	defaultLogLevel = "info"
)

// Default returns a Config populated with switchboard's defaults.
func Default() Config {
	return Config{
		Bind: BindConfig{Endpoint: defaultEndpoint},
		Task: TaskConfig{Timeout: defaultTimeout},
		Log:  LogConfig{Level: defaultLogLevel, Formatter: "text"},
	}
}

// Load reads configuration from cfgFile (if non-empty) and
// $HOME/.config/switchboard/broker.yaml otherwise, then applies the
// TASK_TIMEOUT environment override (invalid or unset values keep
// whatever the file/default already set).
func Load(cfgFile string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return cfg, fmt.Errorf("resolving home directory: %w", err)
		}
		v.AddConfigPath(home + "/.config/switchboard")
		v.SetConfigName("broker")
	}

	v.SetDefault("bind.endpoint", cfg.Bind.Endpoint)
	v.SetDefault("task.timeout", cfg.Task.Timeout)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.formatter", cfg.Log.Formatter)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Task.Timeout = taskTimeoutFromEnv(cfg.Task.Timeout)

	return cfg, nil
}

// taskTimeoutFromEnv applies the TASK_TIMEOUT environment variable
// (seconds) over fallback. A missing, non-numeric, or non-positive value
// falls back rather than failing startup.
func taskTimeoutFromEnv(fallback time.Duration) time.Duration {
	value, ok := lookupEnv("TASK_TIMEOUT")
	if !ok {
		return fallback
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
