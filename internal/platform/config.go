package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the CLI-level configuration, read from <home>/config.yaml and
// the STRATA_* environment. Library callers configure trackers directly;
// this layer only exists for cmd/strata.
type Config struct {
	// StorageRoot is where snapshot stores live. Empty means the home
	// directory itself.
	StorageRoot string `mapstructure:"storageRoot"`

	Checkpoints CheckpointsConfig `mapstructure:"checkpoints"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// CheckpointsConfig toggles the checkpoint feature as a whole.
type CheckpointsConfig struct {
	// Enabled gates tracker construction. When false, no tracker is ever
	// created and every checkpoint command reports the feature as off.
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig controls CLI log output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads the config file from the application home, applying
// defaults and environment overrides. A missing file is not an error.
func LoadConfig() (Config, error) {
	home, err := Home()
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve application home: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)

	v.SetDefault("storageRoot", home)
	v.SetDefault("checkpoints.enabled", true)
	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("STRATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
