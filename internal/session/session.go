// Package session runs the generation lifecycle of one outfit session: it
// owns the selection set, regenerates combinations after a debounce window
// and keeps the browsing cursor over the ranked results.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/combinator"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/eventstream"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/metrics"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/rules"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/scoring"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/utils"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/wardrobe"
)

const (
	DefaultDebounce    = 500 * time.Millisecond
	DefaultMailboxSize = 128
	DefaultFlushEvery  = 16
)

// Session manages the lifecycle of a session actor and provides the
// client-facing API. All methods are safe for concurrent use.
type Session struct {
	actor          *sessionActor
	streamingActor *streamingActor
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	stopOnce       sync.Once
}

// SessionOptional provides optional parameters for creating a new Session.
type SessionOptional struct {
	// ID names the session, a random UUID when empty.
	ID string
	// Rules defaults to rules.DefaultRules() when nil. An empty non-nil slice
	// starts without rules.
	Rules   []types.CombinationRule
	Options *types.GenerationOptions
	Weights *scoring.Weights
	// Debounce is the quiet period after the last mutation before an automatic
	// generation. Zero uses DefaultDebounce, negative turns automatic
	// generation off.
	Debounce    time.Duration
	MailboxSize int
	// FlushEvery flushes the journal after that many entries.
	FlushEvery int
	// Selections seeds the session, typically with a recovered set.
	Selections *wardrobe.SelectionSet
	Metrics    *metrics.Metrics
	// Enumerate replaces the default combinator.Enumerate pipeline.
	Enumerate EnumerateFunc
	// Streamer receives session events. Events are dropped while its
	// mailbox is full.
	Streamer eventstream.Streamer
}

type resolved struct {
	rules       []types.CombinationRule
	options     types.GenerationOptions
	enumerate   EnumerateFunc
	metrics     *metrics.Metrics
	debounce    time.Duration
	mailboxSize int
	flushEvery  int
}

func resolve(opt *SessionOptional) (resolved, error) {
	if opt == nil {
		opt = &SessionOptional{}
	}
	cfg := resolved{
		rules:       rules.DefaultRules(),
		options:     rules.DefaultOptions(),
		metrics:     opt.Metrics,
		debounce:    DefaultDebounce,
		mailboxSize: DefaultMailboxSize,
		flushEvery:  DefaultFlushEvery,
	}
	if opt.Rules != nil {
		cfg.rules = rules.CloneAll(opt.Rules)
	}
	if err := rules.ValidateAll(cfg.rules); err != nil {
		return cfg, err
	}
	if opt.Options != nil {
		cfg.options = *opt.Options
	}
	if err := rules.ValidateOptions(&cfg.options); err != nil {
		return cfg, err
	}
	if opt.Debounce != 0 {
		cfg.debounce = opt.Debounce
	}
	if opt.MailboxSize > 0 {
		cfg.mailboxSize = opt.MailboxSize
	}
	if opt.FlushEvery > 0 {
		cfg.flushEvery = opt.FlushEvery
	}

	cfg.enumerate = opt.Enumerate
	if cfg.enumerate == nil {
		weights := scoring.DefaultWeights
		if opt.Weights != nil {
			weights = *opt.Weights
		}
		cfg.enumerate = func(ctx context.Context, sels []types.Selection, rs []types.CombinationRule, opts types.GenerationOptions) ([]types.CandidateCombination, error) {
			return combinator.Enumerate(ctx, sels, rs, opts, weights.Score)
		}
	}
	return cfg, nil
}

// NewSession creates, starts, and returns a new session. Invalid rules or
// options fail with types.ErrInvalidConfiguration.
func NewSession(ctx *types.Context, opt *SessionOptional) (*Session, error) {
	cfg, err := resolve(opt)
	if err != nil {
		return nil, err
	}

	if ctx == nil {
		ctx = &types.Context{}
	}
	if ctx.Journal == nil {
		ctx.Journal = journal.NoopJournal{}
	}
	if ctx.Utils == nil {
		ctx.Utils = utils.NewDefaultUtils("", "", slog.LevelInfo, io.Discard)
	}

	var (
		id  string
		set *wardrobe.SelectionSet
	)
	if opt != nil {
		id, set = opt.ID, opt.Selections
	}
	if id == "" {
		id = uuid.NewString()
	}
	if set == nil {
		set = wardrobe.NewSelectionSet(nil)
	}

	actor := newSessionActor(ctx, id, set, cfg)
	if err := actor.Init(); err != nil {
		// If init fails, we must ensure the journal is closed if it was opened.
		actor.ctx.Journal.Close()
		return nil, fmt.Errorf("session initialization failed: %w", err)
	}

	var streaming *streamingActor
	if opt != nil && opt.Streamer != nil {
		streaming = newStreamingActor(opt.Streamer, cfg.mailboxSize)
		actor.events = streaming.mailbox
	}

	actorCtx, cancel := context.WithCancel(context.Background())
	s := &Session{actor: actor, streamingActor: streaming, cancel: cancel}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.actor.Receive(actorCtx)
	}()
	if streaming != nil {
		// stopped closes once the session actor is done emitting
		streamCtx, streamCancel := context.WithCancel(context.Background())
		go func() {
			<-actor.stopped
			streamCancel()
		}()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			streaming.Receive(streamCtx)
		}()
	}

	if logger := ctx.Logger(); logger != nil {
		logger.Info("[Session] started", "session", id, "rules", len(cfg.rules), "selected", set.TotalCount())
	}
	return s, nil
}

// call sends msg and waits for the reply on resp. It fails with
// types.ErrSessionStopped once the session is stopped.
func call[T any](s *Session, msg any, resp chan T) (T, error) {
	if err := s.send(msg); err != nil {
		var zero T
		return zero, err
	}
	return await(s, resp)
}

func (s *Session) send(msg any) error {
	select {
	case <-s.actor.stopped:
		return types.ErrSessionStopped
	default:
	}
	select {
	case s.actor.mailbox <- msg:
		return nil
	case <-s.actor.stopped:
		return types.ErrSessionStopped
	}
}

// await waits for the reply to a sent message. A message that reached the
// mailbox after the actor stopped is never answered, so stopped wins unless a
// reply is already there.
func await[T any](s *Session, resp chan T) (T, error) {
	select {
	case r := <-resp:
		return r, nil
	case <-s.actor.stopped:
		select {
		case r := <-resp:
			return r, nil
		default:
		}
		var zero T
		return zero, types.ErrSessionStopped
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.actor.id
}

// Add selects g. When its category is already at capacity the oldest selection
// of that category is evicted and returned.
func (s *Session) Add(g types.Garment) (*types.Selection, error) {
	ch := make(chan AddResponse, 1)
	res, err := call(s, AddMessage{Garment: g, ResponseChan: ch}, ch)
	if err != nil {
		return nil, err
	}
	return res.Evicted, res.Err
}

// Remove deselects the garment. It reports whether it was selected.
func (s *Session) Remove(garmentID string) bool {
	ch := make(chan bool, 1)
	removed, _ := call(s, RemoveMessage{GarmentID: garmentID, ResponseChan: ch}, ch)
	return removed
}

// AddToCategory selects g only when it belongs to category c. added is false,
// with a nil error, on a category mismatch.
func (s *Session) AddToCategory(c types.Category, g types.Garment) (added bool, evicted *types.Selection, err error) {
	ch := make(chan AddResponse, 1)
	res, err := call(s, AddMessage{Garment: g, Category: c, ResponseChan: ch}, ch)
	if err != nil {
		return false, nil, err
	}
	return res.Added, res.Evicted, res.Err
}

// RemoveFromCategory deselects the garment only when it is selected under
// category c.
func (s *Session) RemoveFromCategory(c types.Category, garmentID string) bool {
	ch := make(chan bool, 1)
	removed, _ := call(s, RemoveMessage{GarmentID: garmentID, Category: c, ResponseChan: ch}, ch)
	return removed
}

// Clear empties the selection set.
func (s *Session) Clear() {
	ch := make(chan struct{})
	call(s, ClearMessage{ResponseChan: ch}, ch)
}

// ImportItems replaces the selection set with the garments of items, for
// example a saved outfit.
func (s *Session) ImportItems(items []types.CombinationItem) error {
	garments := make([]types.Garment, 0, len(items))
	for _, item := range items {
		g := item.Garment
		if g.ID == "" {
			g.ID = item.GarmentID
		}
		garments = append(garments, g)
	}
	return s.replace(garments)
}

// SyncFromIDs replaces the selection set with the garments catalog resolves
// for ids. Unknown IDs are skipped and returned; any other lookup error aborts
// without touching the selections.
func (s *Session) SyncFromIDs(ctx context.Context, ids []string, catalog types.Catalog) (missing []string, err error) {
	garments := make([]types.Garment, 0, len(ids))
	for _, id := range ids {
		g, err := catalog.GetGarment(ctx, id)
		if errors.Is(err, types.ErrGarmentNotFound) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve garment %s: %w", id, err)
		}
		garments = append(garments, g)
	}
	return missing, s.replace(garments)
}

func (s *Session) replace(garments []types.Garment) error {
	ch := make(chan error, 1)
	res, err := call(s, ReplaceMessage{Garments: garments, ResponseChan: ch}, ch)
	if err != nil {
		return err
	}
	return res
}

// Selections returns the selected garments, oldest first.
func (s *Session) Selections() []types.Selection {
	ch := make(chan []types.Selection, 1)
	sels, _ := call(s, SelectionsMessage{ResponseChan: ch}, ch)
	return sels
}

// SelectedIDs returns the selected garment IDs, oldest first.
func (s *Session) SelectedIDs() []string {
	sels := s.Selections()
	ids := make([]string, len(sels))
	for i, sel := range sels {
		ids[i] = sel.GarmentID
	}
	return ids
}

// Generate starts a generation now, without waiting for the debounce window.
// The result is Skipped when the selections cannot produce a combination.
func (s *Session) Generate() <-chan GenerateResult {
	out := make(chan GenerateResult, 1)
	resp := make(chan GenerateResult, 1)
	if err := s.send(GenerateMessage{ResponseChan: resp}); err != nil {
		out <- GenerateResult{Err: err}
		return out
	}
	go func() {
		res, err := await(s, resp)
		if err != nil {
			res = GenerateResult{Err: err}
		}
		out <- res
	}()
	return out
}

func (s *Session) navigate(op navOp, index int) Navigation {
	ch := make(chan Navigation, 1)
	nav, _ := call(s, NavigateMessage{Op: op, Index: index, ResponseChan: ch}, ch)
	return nav
}

// Next moves to the next combination, wrapping to the first.
func (s *Session) Next() Navigation { return s.navigate(navNext, 0) }

// Previous moves to the previous combination, wrapping to the last.
func (s *Session) Previous() Navigation { return s.navigate(navPrevious, 0) }

// GoTo jumps to index. Out of range indexes leave the cursor where it is.
func (s *Session) GoTo(index int) Navigation { return s.navigate(navGoTo, index) }

// Navigation returns the cursor without moving it.
func (s *Session) Navigation() Navigation { return s.navigate(navCurrent, 0) }

// Combinations returns the committed result list.
func (s *Session) Combinations() []types.CandidateCombination {
	ch := make(chan []types.CandidateCombination, 1)
	combos, _ := call(s, CombinationsMessage{ResponseChan: ch}, ch)
	return combos
}

// ExportCurrent returns the items of the current combination, nil without one.
func (s *Session) ExportCurrent() []types.CombinationItem {
	ch := make(chan []types.CombinationItem, 1)
	items, _ := call(s, ExportMessage{ResponseChan: ch}, ch)
	return items
}

// Status returns a point-in-time view of the session.
func (s *Session) Status() Status {
	ch := make(chan Status, 1)
	st, err := call(s, StatusMessage{ResponseChan: ch}, ch)
	if err != nil {
		st.ID = s.actor.id
		st.LastError = err
	}
	return st
}

func (s *Session) SelectedCount() int { return s.Status().Selected }
func (s *Session) CanGenerate() bool  { return s.Status().CanGenerate }
func (s *Session) IsGenerating() bool { return s.Status().Generating }

// LastError returns the error of the last failed generation. It is cleared by
// the next committed generation.
func (s *Session) LastError() error { return s.Status().LastError }

// UpdateOptions applies p and returns the options now in effect. An invalid
// result is rejected and the previous options are kept.
func (s *Session) UpdateOptions(p OptionsPatch) (types.GenerationOptions, error) {
	ch := make(chan OptionsResponse, 1)
	res, err := call(s, UpdateOptionsMessage{Patch: p, ResponseChan: ch}, ch)
	if err != nil {
		return res.Options, err
	}
	return res.Options, res.Err
}

// Options returns the generation options in effect.
func (s *Session) Options() types.GenerationOptions {
	opts, _ := s.UpdateOptions(OptionsPatch{})
	return opts
}

// AddRule registers rule after validating it.
func (s *Session) AddRule(rule types.CombinationRule) error {
	ch := make(chan error, 1)
	res, err := call(s, AddRuleMessage{Rule: rule, ResponseChan: ch}, ch)
	if err != nil {
		return err
	}
	return res
}

// RemoveRule unregisters the rule with id and reports whether it existed.
func (s *Session) RemoveRule(id string) bool {
	ch := make(chan bool, 1)
	removed, _ := call(s, RemoveRuleMessage{RuleID: id, ResponseChan: ch}, ch)
	return removed
}

// Rules returns a copy of the registered rules.
func (s *Session) Rules() []types.CombinationRule {
	ch := make(chan []types.CombinationRule, 1)
	rs, _ := call(s, RulesMessage{ResponseChan: ch}, ch)
	return rs
}

// Snapshot captures the session state in memory.
func (s *Session) Snapshot() SessionSnapshot {
	ch := make(chan SessionSnapshot, 1)
	snap, _ := call(s, SnapshotMessage{ResponseChan: ch}, ch)
	return snap
}

// Restore replaces the session state with snap.
func (s *Session) Restore(snap SessionSnapshot) error {
	ch := make(chan error, 1)
	res, err := call(s, RestoreMessage{Snapshot: snap, ResponseChan: ch}, ch)
	if err != nil {
		return err
	}
	return res
}

// Flush manually triggers a journal flush.
func (s *Session) Flush() error {
	ch := make(chan error, 1)
	res, err := call(s, FlushMessage{ResponseChan: ch}, ch)
	if err != nil {
		return err
	}
	return res
}

// Stop gracefully shuts down the session. It flushes and closes the journal.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()  // Signal the actor to stop
		s.wg.Wait() // Wait for the actor's goroutine to finish
	})
}
