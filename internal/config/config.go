package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/rules"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/scoring"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultDebounceMS  = 500
	DefaultMailboxSize = 128
	DefaultFlushEvery  = 16
	DefaultJournalDir  = "journal"
	DefaultGRPCAddr    = ":50051"
)

var configValidate = validator.New()

type ConfigImpl struct{}

// LoadYAML reads, defaults and validates the configuration at path.
func (c *ConfigImpl) LoadYAML(path string) (YAMLConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return YAMLConfig{}, err
	}
	defer file.Close()
	var cfg YAMLConfig
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return YAMLConfig{}, fmt.Errorf("%w: %s: %v", types.ErrInvalidConfiguration, path, err)
	}
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}

// LoadRules reads a YAML (or JSON) list of combination rules.
func (c *ConfigImpl) LoadRules(path string) ([]types.CombinationRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rs []types.CombinationRule
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidConfiguration, path, err)
	}
	return rs, rules.ValidateAll(rs)
}

// Default returns a configuration with every default applied.
func Default() YAMLConfig {
	var cfg YAMLConfig
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field.
func (cfg *YAMLConfig) ApplyDefaults() {
	if cfg.WorkingDir == "" {
		cfg.WorkingDir = "."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Session.DebounceMS == 0 {
		cfg.Session.DebounceMS = DefaultDebounceMS
	}
	if cfg.Session.MailboxSize == 0 {
		cfg.Session.MailboxSize = DefaultMailboxSize
	}
	if cfg.Options == nil {
		opts := rules.DefaultOptions()
		cfg.Options = &opts
	}
	if cfg.Options.MaxCombinations == 0 {
		cfg.Options.MaxCombinations = rules.DefaultMaxCombinations
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = rules.DefaultRules()
	}
	if cfg.Scoring == nil {
		w := scoring.DefaultWeights
		cfg.Scoring = &w
	}
	if cfg.Journal.FlushEvery == 0 {
		cfg.Journal.FlushEvery = DefaultFlushEvery
	}
	if cfg.Journal.Dir == "" {
		cfg.Journal.Dir = DefaultJournalDir
	}
	if cfg.GRPC.Addr == "" {
		cfg.GRPC.Addr = DefaultGRPCAddr
	}
}

// Validate checks the whole configuration; failures wrap
// types.ErrInvalidConfiguration.
func (cfg *YAMLConfig) Validate() error {
	if err := configValidate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidConfiguration, err)
	}
	if err := rules.ValidateAll(cfg.Rules); err != nil {
		return err
	}
	if cfg.Options != nil {
		if err := rules.ValidateOptions(cfg.Options); err != nil {
			return err
		}
	}
	return nil
}

// JournalDir resolves the journal directory against WorkingDir.
func (cfg *YAMLConfig) JournalDir() string {
	if filepath.IsAbs(cfg.Journal.Dir) {
		return cfg.Journal.Dir
	}
	return filepath.Join(cfg.WorkingDir, cfg.Journal.Dir)
}
