package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/lostinentropy/zeppelin/params"
)

// cliConfig holds the defaults a user can pin in
// ~/.config/zep/config.yaml, overridden by explicit flags on any given
// invocation.
type cliConfig struct {
	SCost         uint32 `mapstructure:"s_cost"`
	TCost         uint32 `mapstructure:"t_cost"`
	StepDelta     uint32 `mapstructure:"step_delta"`
	ResourceLimit uint64 `mapstructure:"resource_limit"`
	LogLevel      string `mapstructure:"log_level"`
}

func defaultConfig() cliConfig {
	return cliConfig{
		SCost:     1 << 16,
		TCost:     3,
		StepDelta: 4,
		LogLevel:  "info",
	}
}

// loadConfig reads ~/.config/zep/config.yaml if present, layering it
// over the built-in defaults. A missing config file is not an error.
func loadConfig() (cliConfig, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	home, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "zep"))
	}
	v.AddConfigPath(".")

	v.SetDefault("s_cost", cfg.SCost)
	v.SetDefault("t_cost", cfg.TCost)
	v.SetDefault("step_delta", cfg.StepDelta)
	v.SetDefault("resource_limit", cfg.ResourceLimit)
	v.SetDefault("log_level", cfg.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cliConfig{}, fmt.Errorf("zep: reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cliConfig{}, fmt.Errorf("zep: parsing config: %w", err)
	}
	return cfg, nil
}

func (c cliConfig) settings() (params.Settings, error) {
	return params.New(c.SCost, c.TCost, c.StepDelta, params.CurrentVersion, c.ResourceLimit)
}
