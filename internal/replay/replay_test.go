package replay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/replay"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/wardrobe"
)

func TestReplayEntriesWithRealSet(t *testing.T) {
	set := wardrobe.NewSelectionSet(nil)

	entries := []types.JournalEntry{
		types.NewAddEntry(types.Garment{ID: "t1", Category: types.CategoryTop}),
		types.NewAddEntry(types.Garment{ID: "b1", Category: types.CategoryBottom}),
		// evicts t1 under the default cap of one
		types.NewAddEntry(types.Garment{ID: "t2", Category: types.CategoryTop}),
		types.NewSnapshotEntry("/some/path"),
		types.NewRemoveEntry("b1"),
		types.NewRemoveEntry("missing"),
	}
	require.NoError(t, replay.ReplayEntries(set, entries))
	assert.Equal(t, []string{"t2"}, set.IDs())

	require.NoError(t, replay.ApplyEntry(set, types.NewClearEntry()))
	assert.Equal(t, 0, set.TotalCount())
}

func TestReplayStopsOnInvalidGarment(t *testing.T) {
	set := wardrobe.NewSelectionSet(nil)
	entries := []types.JournalEntry{
		types.NewAddEntry(types.Garment{ID: "x"}),
		types.NewAddEntry(types.Garment{ID: "t1", Category: types.CategoryTop}),
	}
	err := replay.ReplayEntries(set, entries)
	assert.ErrorIs(t, err, types.ErrUnknownCategory)
	assert.Equal(t, 0, set.TotalCount())
}
