package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/config"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/metrics"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/recovery"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/session"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/utils"
)

// openSession builds a session from cfg. With the journal enabled the
// selections are recovered from the journal directory first and every later
// mutation is journaled to a new segment.
// tweak, when set, adjusts the session options before the session starts.
func openSession(cfg config.YAMLConfig, logWriter io.Writer, reg prometheus.Registerer, tweak func(*session.SessionOptional, types.Utils)) (*session.Session, types.Utils, error) {
	level, err := utils.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var dir string
	if cfg.Journal.Enabled {
		dir = cfg.JournalDir()
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, err
		}
	}
	u := utils.NewDefaultUtils(dir, dir, level, logWriter)

	opt := &session.SessionOptional{
		Rules:       cfg.Rules,
		Options:     cfg.Options,
		Weights:     cfg.Scoring,
		Debounce:    cfg.Session.Debounce(),
		MailboxSize: cfg.Session.MailboxSize,
		FlushEvery:  cfg.Journal.FlushEvery,
	}
	if tweak != nil {
		tweak(opt, u)
	}
	if reg != nil {
		opt.Metrics = metrics.New(reg)
	}

	if !cfg.Journal.Enabled {
		s, err := session.NewSession(&types.Context{Utils: u}, opt)
		return s, u, err
	}

	format, err := journal.NewFormatter(cfg.Journal.Formatter)
	if err != nil {
		return nil, nil, err
	}
	var activeRule *types.CombinationRule
	if len(cfg.Rules) > 0 {
		activeRule = &cfg.Rules[0]
	}
	recovered, err := recovery.RecoverSelections(*u.GenSnapshotPath(), activeRule, format, u)
	if err != nil {
		return nil, nil, fmt.Errorf("recovery failed: %w", err)
	}
	opt.Selections = recovered.Set

	j, err := journal.Open(cfg.Journal.Options, u)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	s, err := session.NewSession(&types.Context{Journal: j, Utils: u}, opt)
	return s, u, err
}

func loadCatalog(cfg config.YAMLConfig) (*catalog.MemoryCatalog, error) {
	if cfg.Catalog == "" {
		return catalog.NewMemoryCatalog(), nil
	}
	return catalog.LoadFile(cfg.Catalog)
}
