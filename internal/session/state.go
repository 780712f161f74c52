package session

import (
	"context"
	"time"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/wardrobe"
)

// State is the lifecycle phase of a session.
type State byte

const (
	// StateIdle has no results: nothing selected yet, or selections changed
	// since the last generation.
	StateIdle State = iota + 1
	// StatePending has a generation in flight.
	StatePending
	// StateGenerated holds a fresh result list with the cursor at 0.
	StateGenerated
	// StateNavigating holds a result list the caller has moved through.
	StateNavigating
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StatePending:    "pending",
	StateGenerated:  "generated",
	StateNavigating: "navigating",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EnumerateFunc produces ranked candidates from a snapshot of the session.
// It must not retain or mutate its arguments.
type EnumerateFunc func(
	ctx context.Context,
	selections []types.Selection,
	rules []types.CombinationRule,
	opts types.GenerationOptions,
) ([]types.CandidateCombination, error)

// Navigation is the browsing view over the committed results.
type Navigation struct {
	Current     *types.CandidateCombination `json:"current,omitempty"`
	Index       int                         `json:"index"`
	Total       int                         `json:"total"`
	HasNext     bool                        `json:"has_next"`
	HasPrevious bool                        `json:"has_previous"`
}

// GenerateResult answers an explicit Generate call.
type GenerateResult struct {
	// Skipped is set when the selections cannot produce a combination yet.
	Skipped      bool
	Combinations []types.CandidateCombination
	// Token is the selection version the results were computed for.
	Token uint64
	Err   error
}

// Status is a point-in-time view of the session.
type Status struct {
	ID              string     `json:"id"`
	State           State      `json:"state"`
	Selected        int        `json:"selected"`
	CanGenerate     bool       `json:"can_generate"`
	Generating      bool       `json:"generating"`
	Version         uint64     `json:"version"`
	Navigation      Navigation `json:"navigation"`
	LastGeneratedAt time.Time  `json:"last_generated_at,omitzero"`
	LastError       error      `json:"-"`
}

// OptionsPatch updates the generation options field by field. Nil fields are
// left unchanged.
type OptionsPatch struct {
	IncludeOptionalCategories *bool
	PrioritizeFavorites       *bool
	RespectSeasonality        *bool
	StylePreference           *types.StyleLabel
	// ClearStylePreference drops the preference, StylePreference is ignored.
	ClearStylePreference bool
	MaxCombinations      *int
}

func (p OptionsPatch) apply(opts types.GenerationOptions) types.GenerationOptions {
	if p.IncludeOptionalCategories != nil {
		opts.IncludeOptionalCategories = *p.IncludeOptionalCategories
	}
	if p.PrioritizeFavorites != nil {
		opts.PrioritizeFavorites = *p.PrioritizeFavorites
	}
	if p.RespectSeasonality != nil {
		opts.RespectSeasonality = *p.RespectSeasonality
	}
	switch {
	case p.ClearStylePreference:
		opts.StylePreference = nil
	case p.StylePreference != nil:
		style := *p.StylePreference
		opts.StylePreference = &style
	}
	if p.MaxCombinations != nil {
		opts.MaxCombinations = *p.MaxCombinations
	}
	return opts
}

// SessionSnapshot is the in-memory form of a session used by Snapshot and
// Restore.
type SessionSnapshot struct {
	ID              string                       `json:"id"`
	Selections      wardrobe.SelectionState      `json:"selections"`
	Rules           []types.CombinationRule      `json:"rules"`
	Options         types.GenerationOptions      `json:"options"`
	Combinations    []types.CandidateCombination `json:"combinations,omitempty"`
	Cursor          int                          `json:"cursor"`
	LastGeneratedAt time.Time                    `json:"last_generated_at,omitzero"`
}
