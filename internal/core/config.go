// Package core wires the correlation pipeline together and loads the
// repository-local configuration.
package core

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

// ConfigFileName is the repository-local configuration file, read from the
// repo root.
const ConfigFileName = ".commit-story"

// ConfigurationManager loads the engine configuration for a repository.
type ConfigurationManager interface {
	Load(repoPath string) (models.EngineConfig, error)
}

// viperConfigManager implements ConfigurationManager using Viper to read the
// YAML config file.
type viperConfigManager struct{}

// NewConfigurationManager creates a ConfigurationManager.
func NewConfigurationManager() ConfigurationManager {
	return &viperConfigManager{}
}

// Load reads .commit-story.yaml from repoPath. A missing file returns the
// defaults; a malformed one is an error.
func (cm *viperConfigManager) Load(repoPath string) (models.EngineConfig, error) {
	cfg := models.DefaultEngineConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(repoPath)

	v.SetDefault("token_budget", cfg.TokenBudget)
	v.SetDefault("clock_skew_buffer", cfg.ClockSkewBuffer.String())
	v.SetDefault("min_signal_len", cfg.MinSignalLen)
	v.SetDefault("diff_head_lines", cfg.DiffHeadLines)
	v.SetDefault("tier_two_min_len", cfg.TierTwoMinLen)
	v.SetDefault("record_cap", cfg.RecordCap)
	v.SetDefault("journal_dir", cfg.JournalDir)
	v.SetDefault("debug", cfg.Debug)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s.yaml: %w", ConfigFileName, err)
	}

	cfg.TokenBudget = v.GetInt("token_budget")
	cfg.MinSignalLen = v.GetInt("min_signal_len")
	cfg.DiffHeadLines = v.GetInt("diff_head_lines")
	cfg.TierTwoMinLen = v.GetInt("tier_two_min_len")
	cfg.RecordCap = v.GetInt("record_cap")
	cfg.JournalDir = v.GetString("journal_dir")
	cfg.Debug = v.GetBool("debug")
	cfg.ExcludePatterns = v.GetStringSlice("exclude_patterns")

	if raw := v.GetString("clock_skew_buffer"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("parsing clock_skew_buffer %q: %w", raw, err)
		}
		cfg.ClockSkewBuffer = d
	}

	if cfg.TokenBudget <= 0 {
		return cfg, fmt.Errorf("token_budget must be positive, got %d", cfg.TokenBudget)
	}

	return cfg, nil
}
