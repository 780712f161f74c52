package config

import (
	"time"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/scoring"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// YAMLConfig represents the application's configuration.
type YAMLConfig struct {
	WorkingDir string                   `yaml:"working_dir"`
	LogLevel   string                   `yaml:"log_level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Catalog    string                   `yaml:"catalog"`
	Session    YAMLConfigSession        `yaml:"session"`
	Options    *types.GenerationOptions `yaml:"options"`
	Rules      []types.CombinationRule  `yaml:"rules"`
	Scoring    *scoring.Weights         `yaml:"scoring"`
	Journal    YAMLConfigJournal        `yaml:"journal"`
	GRPC       YAMLConfigGRPC           `yaml:"grpc"`
}

// YAMLConfigSession tunes the session actor.
type YAMLConfigSession struct {
	DebounceMS  int `yaml:"debounce_ms" validate:"gte=0"`
	MailboxSize int `yaml:"mailbox_size" validate:"gte=0"`
}

// Debounce returns the debounce window as a duration.
func (s YAMLConfigSession) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// YAMLConfigJournal represents the configuration for the selection journal.
type YAMLConfigJournal struct {
	Enabled         bool `yaml:"enabled"`
	journal.Options `yaml:",inline"`
	// FlushEvery flushes after this many buffered entries.
	FlushEvery int `yaml:"flush_every" validate:"gte=0"`
	// Dir holds segments and the snapshot, relative to WorkingDir.
	Dir string `yaml:"dir"`
}

// YAMLConfigGRPC configures the gRPC listener.
type YAMLConfigGRPC struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}
