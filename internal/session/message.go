package session

import (
	"time"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// AddMessage adds a garment to the selection set. A non-zero Category only
// adds the garment when it belongs to that category.
type AddMessage struct {
	Garment      types.Garment
	Category     types.Category
	ResponseChan chan AddResponse
}

// AddResponse carries the evicted selection, if any.
type AddResponse struct {
	Added   bool
	Evicted *types.Selection
	Err     error
}

// RemoveMessage removes a garment from the selection set. A non-zero
// Category only removes it when it is selected under that category.
type RemoveMessage struct {
	GarmentID    string
	Category     types.Category
	ResponseChan chan bool
}

// ClearMessage empties the selection set.
type ClearMessage struct {
	ResponseChan chan struct{}
}

// ReplaceMessage swaps the whole selection set for garments.
type ReplaceMessage struct {
	Garments     []types.Garment
	ResponseChan chan error
}

// GenerateMessage requests an explicit generation.
type GenerateMessage struct {
	ResponseChan chan GenerateResult
}

type navOp byte

const (
	navCurrent navOp = iota
	navNext
	navPrevious
	navGoTo
)

// NavigateMessage moves the result cursor.
type NavigateMessage struct {
	Op           navOp
	Index        int
	ResponseChan chan Navigation
}

// StatusMessage requests a Status.
type StatusMessage struct {
	ResponseChan chan Status
}

// CombinationsMessage requests the committed result list.
type CombinationsMessage struct {
	ResponseChan chan []types.CandidateCombination
}

// SelectionsMessage requests the current selections ordered by priority.
type SelectionsMessage struct {
	ResponseChan chan []types.Selection
}

// ExportMessage requests the items of the current combination.
type ExportMessage struct {
	ResponseChan chan []types.CombinationItem
}

// UpdateOptionsMessage patches the generation options.
type UpdateOptionsMessage struct {
	Patch        OptionsPatch
	ResponseChan chan OptionsResponse
}

// OptionsResponse carries the options in effect after a request.
type OptionsResponse struct {
	Options types.GenerationOptions
	Err     error
}

// AddRuleMessage registers a rule.
type AddRuleMessage struct {
	Rule         types.CombinationRule
	ResponseChan chan error
}

// RemoveRuleMessage unregisters a rule by ID.
type RemoveRuleMessage struct {
	RuleID       string
	ResponseChan chan bool
}

// RulesMessage requests the registered rules.
type RulesMessage struct {
	ResponseChan chan []types.CombinationRule
}

// SnapshotMessage requests an in-memory SessionSnapshot.
type SnapshotMessage struct {
	ResponseChan chan SessionSnapshot
}

// RestoreMessage replaces the session state with a snapshot.
type RestoreMessage struct {
	Snapshot     SessionSnapshot
	ResponseChan chan error
}

// FlushMessage manually triggers a journal flush.
type FlushMessage struct {
	ResponseChan chan error
}

// debounceMessage is posted by the debounce timer. Only the latest seq counts.
type debounceMessage struct {
	seq uint64
}

// generationDoneMessage is posted by the generation worker.
type generationDoneMessage struct {
	token        uint64
	combinations []types.CandidateCombination
	err          error
	took         time.Duration
}
