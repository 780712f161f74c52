package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/eventstream"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/metrics"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/rules"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/wardrobe"
)

// sessionActor owns every piece of mutable session state. It runs in a single
// goroutine and processes messages from its mailbox; generation runs on a
// worker goroutine and reports back through the same mailbox.
type sessionActor struct {
	ctx        *types.Context
	id         string
	set        *wardrobe.SelectionSet
	rules      []types.CombinationRule
	options    types.GenerationOptions
	enumerate  EnumerateFunc
	metrics    *metrics.Metrics
	debounce   time.Duration
	flushEvery int

	mailbox chan any
	stopped chan struct{}
	workCtx context.Context

	timer      *time.Timer
	timerSeq   uint64
	timerArmed bool

	state           State
	combinations    []types.CandidateCombination
	cursor          int
	generating      bool
	waiters         []chan GenerateResult
	lastError       error
	lastGeneratedAt time.Time

	pendingEntries []types.JournalEntry

	// events is nil unless a Streamer was configured.
	events chan<- eventstream.Event
}

func newSessionActor(ctx *types.Context, id string, set *wardrobe.SelectionSet, cfg resolved) *sessionActor {
	a := &sessionActor{
		ctx:            ctx,
		id:             id,
		set:            set,
		rules:          cfg.rules,
		options:        cfg.options,
		enumerate:      cfg.enumerate,
		metrics:        cfg.metrics,
		debounce:       cfg.debounce,
		flushEvery:     cfg.flushEvery,
		mailbox:        make(chan any, cfg.mailboxSize),
		stopped:        make(chan struct{}),
		state:          StateIdle,
		pendingEntries: make([]types.JournalEntry, 0, cfg.flushEvery*2),
	}
	a.set.SetActiveRule(a.activeRule())
	return a
}

// Init writes the initial snapshot when the journal segment is empty. It's
// called once before the actor starts.
func (a *sessionActor) Init() error {
	size, err := a.ctx.Journal.Size()
	if err != nil {
		return fmt.Errorf("could not determine journal size: %w", err)
	}
	if size > 0 {
		return nil
	}

	written, err := a.snapshot()
	if err != nil {
		return fmt.Errorf("failed to create initial snapshot: %w", err)
	}
	if !written {
		return nil
	}
	return a.ctx.Journal.Flush()
}

// Receive starts the message loop. It is expected to run in its own goroutine.
func (a *sessionActor) Receive(ctx context.Context) {
	a.workCtx = ctx
	if a.set.TotalCount() > 0 {
		a.scheduleDebounce()
	}
	for {
		select {
		case msg := <-a.mailbox:
			a.handleMessage(msg)
		case <-ctx.Done():
			a.shutdown()
			return
		}
	}
}

func (a *sessionActor) handleMessage(msg any) {
	switch m := msg.(type) {
	case AddMessage:
		a.handleAdd(m)
	case RemoveMessage:
		a.handleRemove(m)
	case ClearMessage:
		a.set.Clear()
		a.record(types.NewClearEntry())
		a.selectionChanged(metrics.OpClear)
		close(m.ResponseChan)
	case ReplaceMessage:
		m.ResponseChan <- a.replace(m.Garments)
	case GenerateMessage:
		a.handleGenerate(m)
	case NavigateMessage:
		m.ResponseChan <- a.navigate(m.Op, m.Index)
	case StatusMessage:
		m.ResponseChan <- a.status()
	case CombinationsMessage:
		m.ResponseChan <- slices.Clone(a.combinations)
	case SelectionsMessage:
		m.ResponseChan <- a.set.Snapshot()
	case ExportMessage:
		m.ResponseChan <- a.exportCurrent()
	case UpdateOptionsMessage:
		m.ResponseChan <- a.updateOptions(m.Patch)
	case AddRuleMessage:
		m.ResponseChan <- a.addRule(m.Rule)
	case RemoveRuleMessage:
		m.ResponseChan <- a.removeRule(m.RuleID)
	case RulesMessage:
		m.ResponseChan <- rules.CloneAll(a.rules)
	case SnapshotMessage:
		m.ResponseChan <- a.sessionSnapshot()
	case RestoreMessage:
		m.ResponseChan <- a.restore(m.Snapshot)
	case FlushMessage:
		m.ResponseChan <- a.flush()
	case debounceMessage:
		a.handleDebounce(m)
	case generationDoneMessage:
		a.handleGenerationDone(m)
	}
}

func (a *sessionActor) handleAdd(m AddMessage) {
	var (
		added   = true
		evicted *types.Selection
		err     error
	)
	if m.Category != types.CategoryUnknown {
		added, evicted, err = a.set.AddToCategory(m.Category, m.Garment)
	} else {
		evicted, err = a.set.Add(m.Garment)
	}
	if err != nil || !added {
		m.ResponseChan <- AddResponse{Err: err}
		return
	}
	a.record(types.NewAddEntry(m.Garment))
	a.selectionChanged(metrics.OpAdd)
	m.ResponseChan <- AddResponse{Added: true, Evicted: evicted}
}

func (a *sessionActor) handleRemove(m RemoveMessage) {
	if m.Category != types.CategoryUnknown {
		// a category mismatch leaves the set and the results untouched
		if !a.set.RemoveFromCategory(m.Category, m.GarmentID) {
			m.ResponseChan <- false
			return
		}
		a.record(types.NewRemoveEntry(m.GarmentID))
		a.selectionChanged(metrics.OpRemove)
		m.ResponseChan <- true
		return
	}

	removed := a.set.Remove(m.GarmentID)
	if removed {
		a.record(types.NewRemoveEntry(m.GarmentID))
	}
	a.selectionChanged(metrics.OpRemove)
	m.ResponseChan <- removed
}

// replace swaps the selection set for garments. Nothing changes when one of
// them has an unknown category.
func (a *sessionActor) replace(garments []types.Garment) error {
	for _, g := range garments {
		if !g.Category.Valid() {
			return fmt.Errorf("%w: garment %s", types.ErrUnknownCategory, g.ID)
		}
	}
	a.set.Clear()
	a.record(types.NewClearEntry())
	for _, g := range garments {
		if _, err := a.set.Add(g); err != nil {
			return err
		}
		a.record(types.NewAddEntry(g))
	}
	a.selectionChanged(metrics.OpReplace)
	return nil
}

// selectionChanged drops the results and restarts the debounce window.
func (a *sessionActor) selectionChanged(op string) {
	a.combinations = nil
	a.cursor = 0
	if !a.generating {
		a.state = StateIdle
	}
	a.metrics.Mutation(op, a.set.TotalCount())
	a.emit(eventstream.Event{Type: eventstream.EventSelectionChanged, Op: op})
	a.scheduleDebounce()
}

func (a *sessionActor) emit(ev eventstream.Event) {
	if a.events == nil {
		return
	}
	ev.SessionID = a.id
	ev.Version = a.set.Version()
	ev.Selected = a.set.TotalCount()
	ev.At = time.Now()
	select {
	case a.events <- ev:
	default:
	}
}

func (a *sessionActor) canGenerate() bool {
	least, ok := rules.MinItems(a.rules)
	total := a.set.TotalCount()
	return ok && total > 0 && total >= least
}

func (a *sessionActor) activeRule() *types.CombinationRule {
	if len(a.rules) == 0 {
		return nil
	}
	return &a.rules[0]
}

// --- generation ---

func (a *sessionActor) scheduleDebounce() {
	a.stopTimer()
	if a.debounce < 0 {
		return
	}
	seq := a.timerSeq
	a.timerArmed = true
	a.timer = time.AfterFunc(a.debounce, func() {
		a.post(debounceMessage{seq: seq})
	})
}

// stopTimer disarms the debounce timer. A fire already sitting in the mailbox
// is ignored because its seq no longer matches.
func (a *sessionActor) stopTimer() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timerArmed = false
	a.timerSeq++
}

func (a *sessionActor) handleDebounce(m debounceMessage) {
	if m.seq != a.timerSeq {
		return
	}
	a.timerArmed = false
	if a.generating || len(a.combinations) > 0 || !a.canGenerate() {
		return
	}
	a.startGeneration()
}

func (a *sessionActor) handleGenerate(m GenerateMessage) {
	if !a.canGenerate() {
		a.metrics.Generation(metrics.OutcomeSkipped, 0, 0)
		m.ResponseChan <- GenerateResult{Skipped: true, Token: a.set.Version()}
		return
	}
	a.waiters = append(a.waiters, m.ResponseChan)
	a.stopTimer()
	if !a.generating {
		a.startGeneration()
	}
}

// startGeneration hands a snapshot of the selections, rules and options to a
// worker. The selection version is the token checked at commit.
func (a *sessionActor) startGeneration() {
	selections, token := a.set.SnapshotWithVersion()
	rs := rules.CloneAll(a.rules)
	opts := a.options
	enumerate := a.enumerate
	ctx := a.workCtx

	a.generating = true
	a.state = StatePending

	if logger := a.ctx.Logger(); logger != nil {
		logger.Debug("[Session] generation started", "session", a.id, "token", token, "selected", len(selections))
	}

	go func() {
		started := time.Now()
		combos, err := runEnumerate(ctx, enumerate, selections, rs, opts)
		a.post(generationDoneMessage{token: token, combinations: combos, err: err, took: time.Since(started)})
	}()
}

func runEnumerate(
	ctx context.Context,
	enumerate EnumerateFunc,
	selections []types.Selection,
	rs []types.CombinationRule,
	opts types.GenerationOptions,
) (combos []types.CandidateCombination, err error) {
	defer func() {
		if r := recover(); r != nil {
			combos = nil
			err = fmt.Errorf("%w: panic: %v", types.ErrGenerationFailure, r)
		}
	}()
	combos, err = enumerate(ctx, selections, rs, opts)
	if err != nil && !errors.Is(err, types.ErrGenerationFailure) {
		err = fmt.Errorf("%w: %w", types.ErrGenerationFailure, err)
	}
	return combos, err
}

func (a *sessionActor) handleGenerationDone(m generationDoneMessage) {
	a.generating = false
	logger := a.ctx.Logger()

	if m.token != a.set.Version() {
		a.metrics.Generation(metrics.OutcomeDiscarded, m.took, 0)
		if logger != nil {
			logger.Debug("[Session] stale generation discarded", "session", a.id, "token", m.token, "version", a.set.Version())
		}
		a.state = a.restingState()
		a.regenerate()
		return
	}

	if m.err != nil {
		a.lastError = m.err
		a.state = a.restingState()
		a.metrics.Generation(metrics.OutcomeFailed, m.took, 0)
		a.emit(eventstream.Event{Type: eventstream.EventGenerationFailed, Total: len(a.combinations), Error: m.err.Error()})
		if logger != nil {
			logger.Error("[Session] generation failed, keeping previous results", "session", a.id, "error", m.err)
		}
		a.reply(GenerateResult{Token: m.token, Err: m.err})
		return
	}

	a.combinations = m.combinations
	a.cursor = 0
	a.lastError = nil
	a.lastGeneratedAt = time.Now()
	a.state = StateGenerated
	a.metrics.Generation(metrics.OutcomeCommitted, m.took, len(m.combinations))
	a.emit(eventstream.Event{Type: eventstream.EventGenerated, Total: len(m.combinations)})
	if logger != nil {
		logger.Info("[Session] combinations generated", "session", a.id, "total", len(m.combinations), "took", m.took)
	}
	a.reply(GenerateResult{Combinations: slices.Clone(m.combinations), Token: m.token})
}

// regenerate follows up a discarded generation. Results loaded by a restore
// are kept and handed to waiting callers. Otherwise waiting callers get a
// fresh run, or the debounce timer, if armed, starts the next one.
func (a *sessionActor) regenerate() {
	if len(a.combinations) > 0 {
		// a restore brought its own results
		a.reply(GenerateResult{Combinations: slices.Clone(a.combinations), Token: a.set.Version()})
		return
	}
	if !a.canGenerate() {
		a.reply(GenerateResult{Skipped: true, Token: a.set.Version()})
		return
	}
	if len(a.waiters) == 0 && (a.timerArmed || a.debounce < 0) {
		return
	}
	a.stopTimer()
	a.startGeneration()
}

func (a *sessionActor) reply(res GenerateResult) {
	for _, ch := range a.waiters {
		ch <- res
	}
	a.waiters = a.waiters[:0]
}

func (a *sessionActor) restingState() State {
	switch {
	case len(a.combinations) == 0:
		return StateIdle
	case a.cursor > 0:
		return StateNavigating
	}
	return StateGenerated
}

// --- navigation and queries ---

func (a *sessionActor) navigate(op navOp, index int) Navigation {
	n := len(a.combinations)
	if n > 0 {
		switch op {
		case navNext:
			a.cursor = (a.cursor + 1) % n
			a.state = StateNavigating
		case navPrevious:
			if a.cursor == 0 {
				a.cursor = n - 1
			} else {
				a.cursor--
			}
			a.state = StateNavigating
		case navGoTo:
			if index >= 0 && index < n {
				a.cursor = index
				a.state = StateNavigating
			}
		}
	}
	return a.navigation()
}

func (a *sessionActor) navigation() Navigation {
	n := len(a.combinations)
	if n == 0 {
		return Navigation{}
	}
	current := a.combinations[a.cursor]
	return Navigation{
		Current:     &current,
		Index:       a.cursor,
		Total:       n,
		HasNext:     a.cursor < n-1,
		HasPrevious: a.cursor > 0,
	}
}

func (a *sessionActor) status() Status {
	return Status{
		ID:              a.id,
		State:           a.state,
		Selected:        a.set.TotalCount(),
		CanGenerate:     a.canGenerate(),
		Generating:      a.generating,
		Version:         a.set.Version(),
		Navigation:      a.navigation(),
		LastGeneratedAt: a.lastGeneratedAt,
		LastError:       a.lastError,
	}
}

func (a *sessionActor) exportCurrent() []types.CombinationItem {
	if len(a.combinations) == 0 {
		return nil
	}
	return slices.Clone(a.combinations[a.cursor].Items)
}

// --- settings ---

func (a *sessionActor) updateOptions(p OptionsPatch) OptionsResponse {
	next := p.apply(a.options)
	if err := rules.ValidateOptions(&next); err != nil {
		return OptionsResponse{Options: a.options, Err: err}
	}
	a.options = next
	return OptionsResponse{Options: a.options}
}

func (a *sessionActor) addRule(rule types.CombinationRule) error {
	rule = rules.Clone(rule)
	if err := rules.Validate(&rule); err != nil {
		return err
	}
	for _, r := range a.rules {
		if r.ID == rule.ID {
			return fmt.Errorf("%w: duplicate rule id %q", types.ErrInvalidConfiguration, rule.ID)
		}
	}
	a.rules = append(a.rules, rule)
	a.set.SetActiveRule(a.activeRule())
	return nil
}

func (a *sessionActor) removeRule(id string) bool {
	i := slices.IndexFunc(a.rules, func(r types.CombinationRule) bool { return r.ID == id })
	if i < 0 {
		return false
	}
	a.rules = slices.Delete(a.rules, i, i+1)
	a.set.SetActiveRule(a.activeRule())
	return true
}

func (a *sessionActor) sessionSnapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:              a.id,
		Selections:      a.set.State(),
		Rules:           rules.CloneAll(a.rules),
		Options:         a.options,
		Combinations:    slices.Clone(a.combinations),
		Cursor:          a.cursor,
		LastGeneratedAt: a.lastGeneratedAt,
	}
}

// restore replaces rules, options, selections and results. The journal gets a
// clear followed by one add per restored selection.
func (a *sessionActor) restore(snap SessionSnapshot) error {
	rs := rules.CloneAll(snap.Rules)
	if err := rules.ValidateAll(rs); err != nil {
		return err
	}
	opts := snap.Options
	if err := rules.ValidateOptions(&opts); err != nil {
		return err
	}
	for _, sel := range snap.Selections.Selections {
		if !sel.Category.Valid() {
			return fmt.Errorf("%w: selection %s", types.ErrUnknownCategory, sel.GarmentID)
		}
	}

	a.rules = rs
	a.options = opts
	a.set.SetActiveRule(a.activeRule())
	a.set.LoadState(snap.Selections)

	a.record(types.NewClearEntry())
	for _, sel := range a.set.Snapshot() {
		a.record(types.NewAddEntry(sel.Garment))
	}
	a.metrics.Mutation(metrics.OpReplace, a.set.TotalCount())
	a.emit(eventstream.Event{Type: eventstream.EventSelectionChanged, Op: metrics.OpReplace, Total: len(snap.Combinations)})

	a.combinations = slices.Clone(snap.Combinations)
	a.cursor = 0
	if snap.Cursor >= 0 && snap.Cursor < len(a.combinations) {
		a.cursor = snap.Cursor
	}
	a.lastGeneratedAt = snap.LastGeneratedAt
	if !a.generating {
		a.state = a.restingState()
	}
	if len(a.combinations) == 0 {
		a.scheduleDebounce()
	} else {
		a.stopTimer()
	}
	return nil
}

// --- journal ---

func (a *sessionActor) record(entry types.JournalEntry) {
	if err := a.ctx.Journal.Append(entry); err != nil {
		if logger := a.ctx.Logger(); logger != nil {
			logger.Error("[Session] journal append failed", "session", a.id, "error", err)
		}
		return
	}
	a.pendingEntries = append(a.pendingEntries, entry)
	if len(a.pendingEntries) >= a.flushEvery {
		a.flush()
	}
}

func (a *sessionActor) flush() error {
	if len(a.pendingEntries) == 0 {
		return nil
	}

	err := a.ctx.Journal.Flush()
	if errors.Is(err, types.ErrJournalFull) {
		return a.handleJournalFull()
	}
	if err != nil {
		a.ctx.Journal.Reset()
		a.pendingEntries = a.pendingEntries[:0]
		if logger := a.ctx.Logger(); logger != nil {
			logger.Error("[Session] journal flush failed, entries dropped", "session", a.id, "error", err)
		}
		return err
	}

	if logger := a.ctx.Logger(); logger != nil {
		logger.Debug(fmt.Sprintf("[Session] journal flushed - %d entries", len(a.pendingEntries)))
	}
	a.pendingEntries = a.pendingEntries[:0]
	return nil
}

// handleJournalFull rotates to a new segment. The segment starts with a
// snapshot of the current set, which already holds the pending entries; without
// snapshots the pending entries are written again instead.
func (a *sessionActor) handleJournalFull() error {
	logger := a.ctx.Logger()
	if logger != nil {
		logger.Info("[Session] journal segment full, rotating", "session", a.id)
	}

	pending := slices.Clone(a.pendingEntries)
	a.ctx.Journal.Reset()
	a.pendingEntries = a.pendingEntries[:0]

	path, err := journal.NextPath(a.ctx.Utils)
	if err == nil {
		err = a.ctx.Journal.Rotate(path)
	}
	if err != nil {
		if logger != nil {
			logger.Error("[Session] journal rotation failed", "session", a.id, "error", err)
		}
		return err
	}

	written, err := a.snapshot()
	if err != nil {
		return err
	}
	if !written {
		for _, e := range pending {
			a.ctx.Journal.Append(e)
		}
	}

	if err := a.ctx.Journal.Flush(); err != nil {
		a.ctx.Journal.Reset()
		if logger != nil {
			logger.Error("[Session] flush failed after rotation, entries dropped", "session", a.id, "error", err)
		}
		return err
	}
	return nil
}

// snapshot writes the selection set to the snapshot path and stages a
// snapshot entry. It reports false when snapshots are disabled.
func (a *sessionActor) snapshot() (bool, error) {
	path := a.ctx.Utils.GenSnapshotPath()
	if path == nil {
		return false, nil
	}

	if logger := a.ctx.Logger(); logger != nil {
		logger.Info("[Session] writing snapshot", "session", a.id, "path", *path)
	}
	if err := a.set.SaveSnapshot(*path); err != nil {
		return false, err
	}
	if err := a.ctx.Journal.Append(types.NewSnapshotEntry(*path)); err != nil {
		return false, err
	}
	return true, nil
}

// --- lifecycle ---

// post delivers a message from a timer or worker goroutine unless the actor
// has stopped.
func (a *sessionActor) post(msg any) {
	select {
	case a.mailbox <- msg:
	case <-a.stopped:
	}
}

func (a *sessionActor) shutdown() {
	if logger := a.ctx.Logger(); logger != nil {
		logger.Debug("[Session] Shutdown", "session", a.id)
	}

	a.stopTimer()
	close(a.stopped)

	// Drain mailbox and cancel pending generate requests
drain:
	for {
		select {
		case msg := <-a.mailbox:
			if m, ok := msg.(GenerateMessage); ok {
				m.ResponseChan <- GenerateResult{Err: types.ErrSessionStopped}
			}
		default:
			break drain
		}
	}
	a.reply(GenerateResult{Err: types.ErrSessionStopped})

	a.flush()
	if err := a.ctx.Journal.Close(); err != nil {
		if logger := a.ctx.Logger(); logger != nil {
			logger.Error("[Session] journal close failed", "session", a.id, "error", err)
		}
	}
}
