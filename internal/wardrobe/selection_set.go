// Package wardrobe owns the working set of selected garments and enforces the
// per-category capacity of the active combination rule.
package wardrobe

import (
	"encoding/json"
	"os"
	"slices"
	"sync"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// SelectionSet is the authoritative set of selected garments.
//
// Adding to a category that is already at capacity evicts the oldest
// selection of that category. Every mutation bumps Version, which the
// session uses as its generation token.
type SelectionSet struct {
	mu           sync.RWMutex
	items        map[string]types.Selection
	activeRule   *types.CombinationRule
	nextPriority uint64
	version      uint64
}

// SelectionState is the serializable form of a SelectionSet.
type SelectionState struct {
	Selections   []types.Selection `json:"selections"`
	NextPriority uint64            `json:"next_priority"`
}

// NewSelectionSet creates an empty set whose capacity follows activeRule.
// A nil rule caps every category at one garment.
func NewSelectionSet(activeRule *types.CombinationRule) *SelectionSet {
	s := &SelectionSet{items: make(map[string]types.Selection)}
	s.SetActiveRule(activeRule)
	return s
}

// SetActiveRule changes the rule used for capacity checks. Existing
// selections are kept even if they now exceed the cap.
func (s *SelectionSet) SetActiveRule(rule *types.CombinationRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rule == nil {
		s.activeRule = nil
		return
	}
	r := *rule
	s.activeRule = &r
}

// Capacity returns the number of garments category c may hold.
func (s *SelectionSet) Capacity(c types.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capacity(c)
}

func (s *SelectionSet) capacity(c types.Category) int {
	if s.activeRule == nil {
		return 1
	}
	return s.activeRule.MaxFor(c)
}

// Add inserts g and returns the selection it evicted, if any.
// Adding an ID that is already selected refreshes its priority.
func (s *SelectionSet) Add(g types.Garment) (*types.Selection, error) {
	if !g.Category.Valid() {
		return nil, types.ErrUnknownCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, g.ID)

	var evicted *types.Selection
	inCategory := s.byCategory(g.Category)
	if len(inCategory) >= s.capacity(g.Category) {
		oldest := inCategory[0]
		delete(s.items, oldest.GarmentID)
		evicted = &oldest
	}

	s.nextPriority++
	s.items[g.ID] = types.Selection{
		GarmentID: g.ID,
		Garment:   g,
		Category:  g.Category,
		Position:  g.Category.Position(),
		Priority:  s.nextPriority,
	}
	s.version++
	return evicted, nil
}

// AddToCategory adds g only when it belongs to category c.
func (s *SelectionSet) AddToCategory(c types.Category, g types.Garment) (bool, *types.Selection, error) {
	if g.Category != c {
		return false, nil, nil
	}
	evicted, err := s.Add(g)
	return err == nil, evicted, err
}

// Remove deletes the selection for id. Missing ids are ignored, but the
// version is bumped either way so cached results are invalidated.
func (s *SelectionSet) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	s.version++
	return ok
}

// RemoveFromCategory removes id only when it is selected under category c.
func (s *SelectionSet) RemoveFromCategory(c types.Category, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.items[id]
	if !ok || sel.Category != c {
		return false
	}
	delete(s.items, id)
	s.version++
	return true
}

// Clear empties the set.
func (s *SelectionSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]types.Selection)
	s.version++
}

// Has reports whether id is selected.
func (s *SelectionSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// SelectedByCategory returns the selections of c, oldest first.
func (s *SelectionSet) SelectedByCategory(c types.Category) []types.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byCategory(c)
}

func (s *SelectionSet) byCategory(c types.Category) []types.Selection {
	var out []types.Selection
	for _, sel := range s.items {
		if sel.Category == c {
			out = append(out, sel)
		}
	}
	sortByPriority(out)
	return out
}

// TotalCount returns the number of selected garments.
func (s *SelectionSet) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Version changes on every mutation.
func (s *SelectionSet) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a copy of every selection ordered by priority.
func (s *SelectionSet) Snapshot() []types.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *SelectionSet) snapshot() []types.Selection {
	out := make([]types.Selection, 0, len(s.items))
	for _, sel := range s.items {
		out = append(out, sel)
	}
	sortByPriority(out)
	return out
}

// SnapshotWithVersion returns the selections together with the version they
// were read at.
func (s *SelectionSet) SnapshotWithVersion() ([]types.Selection, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), s.version
}

// IDs returns the selected garment IDs ordered by priority.
func (s *SelectionSet) IDs() []string {
	snap := s.Snapshot()
	ids := make([]string, len(snap))
	for i, sel := range snap {
		ids[i] = sel.GarmentID
	}
	return ids
}

// State returns the serializable state of the set.
func (s *SelectionSet) State() SelectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SelectionState{Selections: s.snapshot(), NextPriority: s.nextPriority}
}

// LoadState replaces the set content with state.
func (s *SelectionSet) LoadState(state SelectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]types.Selection, len(state.Selections))
	next := state.NextPriority
	for _, sel := range state.Selections {
		s.items[sel.GarmentID] = sel
		if sel.Priority > next {
			next = sel.Priority
		}
	}
	s.nextPriority = next
	s.version++
}

// SaveSnapshot writes the state as JSON to path.
func (s *SelectionSet) SaveSnapshot(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(s.State())
}

// LoadSnapshot restores the state from a JSON file written by SaveSnapshot.
func (s *SelectionSet) LoadSnapshot(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	var state SelectionState
	if err := json.NewDecoder(file).Decode(&state); err != nil {
		return err
	}
	s.LoadState(state)
	return nil
}

func sortByPriority(sels []types.Selection) {
	slices.SortFunc(sels, func(a, b types.Selection) int {
		switch {
		case a.Priority < b.Priority:
			return -1
		case a.Priority > b.Priority:
			return 1
		}
		return 0
	})
}
