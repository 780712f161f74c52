package recovery

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/replay"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/wardrobe"
)

// Result is what RecoverSelections rebuilt.
type Result struct {
	Set *wardrobe.SelectionSet
	// LastJournalPath is the newest segment found, empty without journals.
	LastJournalPath string
	// Replayed is the number of entries applied after the snapshot.
	Replayed int
}

// RecoverSelections loads the selection set from the last snapshot and replays
// the journal entries written after it.
//
// The snapshot named by the newest snapshot entry in the journal wins. Without
// one, snapshotPath is used and the whole journal is replayed. A missing
// snapshot file starts from an empty set.
func RecoverSelections(snapshotPath string, activeRule *types.CombinationRule, format types.LogFormatter, u types.Utils) (*Result, error) {
	// 1. Get all journal files, sorted by sequence number.
	files, err := u.GetJournalFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to get journal files: %w", err)
	}

	// 2. Parse all journal files to get all entries.
	var all []types.JournalEntry
	for _, file := range files {
		entries, err := journal.Parse(file, format)
		if err != nil {
			return nil, fmt.Errorf("error parsing journal file %s: %w", file, err)
		}
		all = append(all, entries...)
	}

	// 3. Determine the starting point for recovery.
	snapshotToLoad := snapshotPath
	toReplay := all
	for i := len(all) - 1; i >= 0; i-- {
		if s, ok := all[i].(*types.JournalSnapshotEntry); ok {
			snapshotToLoad = s.Path
			toReplay = all[i+1:]
			break
		}
	}

	// 4. Load the initial state from the chosen snapshot.
	set := wardrobe.NewSelectionSet(activeRule)
	if snapshotToLoad != "" {
		err := set.LoadSnapshot(snapshotToLoad)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load snapshot %s: %w", snapshotToLoad, err)
		}
	}

	// 5. Replay entries to bring the set to its most recent state.
	if err := replay.ReplayEntries(set, toReplay); err != nil {
		return nil, fmt.Errorf("failed to replay journal: %w", err)
	}

	if logger := u.GetLogger(); logger != nil {
		logger.Info("selections recovered",
			"snapshot", snapshotToLoad,
			"journal_files", len(files),
			"replayed", len(toReplay),
			"selected", set.TotalCount())
	}

	res := &Result{Set: set, Replayed: len(toReplay)}
	if len(files) > 0 {
		res.LastJournalPath = files[len(files)-1]
	}
	return res, nil
}
