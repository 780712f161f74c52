package replay

import (
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// Target is the state journal entries are applied to.
type Target interface {
	Add(g types.Garment) (*types.Selection, error)
	Remove(id string) bool
	Clear()
}

// ApplyEntry applies a single journal entry to the target.
func ApplyEntry(target Target, entry types.JournalEntry) error {
	switch v := entry.(type) {
	case *types.JournalAddEntry:
		_, err := target.Add(v.Garment)
		return err
	case *types.JournalRemoveEntry:
		target.Remove(v.GarmentID)
	case *types.JournalClearEntry:
		target.Clear()
		// Snapshot and rotate entries carry no selection change.
	}
	return nil
}

// ReplayEntries applies entries in order and stops at the first failure.
func ReplayEntries(target Target, entries []types.JournalEntry) error {
	for _, entry := range entries {
		if err := ApplyEntry(target, entry); err != nil {
			return err
		}
	}
	return nil
}
