package journal_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal/formatter"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal/storage"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/utils"
)

var linen = types.Garment{
	ID:       "t1",
	Name:     "Linen shirt, white",
	Category: types.CategoryTop,
	Color:    "white",
	Favorite: true,
	Tags:     []string{"summer", "work"},
	Seasons:  []string{"summer"},
}

func writeEntries(t *testing.T, j *journal.Journal) {
	t.Helper()
	require.NoError(t, j.Append(types.NewAddEntry(linen)))
	require.NoError(t, j.Append(types.NewRemoveEntry("t1")))
	require.NoError(t, j.Append(types.NewClearEntry()))
	require.NoError(t, j.Append(types.NewSnapshotEntry("/tmp/selections.json")))
	require.NoError(t, j.Flush())
}

func assertEntries(t *testing.T, entries []types.JournalEntry) {
	t.Helper()
	require.Len(t, entries, 4)

	add, ok := entries[0].(*types.JournalAddEntry)
	require.True(t, ok)
	assert.Equal(t, linen, add.Garment)

	remove, ok := entries[1].(*types.JournalRemoveEntry)
	require.True(t, ok)
	assert.Equal(t, "t1", remove.GarmentID)

	assert.Equal(t, types.EntryTypeClear, entries[2].GetType())

	snap, ok := entries[3].(*types.JournalSnapshotEntry)
	require.True(t, ok)
	assert.Equal(t, "/tmp/selections.json", snap.Path)
}

func TestJournalFormats(t *testing.T) {
	tests := []struct {
		name   string
		format types.LogFormatter
	}{
		{name: "json", format: formatter.NewJSONFormatter()},
		{name: "string", format: formatter.NewStringLineFormatter()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "journal.000")
			j, err := journal.New(path, tt.format, nil)
			require.NoError(t, err)
			writeEntries(t, j)
			require.NoError(t, j.Close())

			entries, err := journal.Parse(path, tt.format)
			require.NoError(t, err)
			assertEntries(t, entries)
		})
	}
}

func TestJournalMMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.000")
	store, err := storage.NewFileMMapStorage(path, 0, storage.FileMMapStorageOps{MMapFileSizeInBytes: 4096})
	require.NoError(t, err)

	j, err := journal.New(path, formatter.NewJSONFormatter(), store)
	require.NoError(t, err)
	writeEntries(t, j)

	// readable before close because Flush records the data length
	entries, err := journal.Parse(path, formatter.NewJSONFormatter())
	require.NoError(t, err)
	assertEntries(t, entries)

	require.NoError(t, j.Close())
	entries, err = journal.Parse(path, formatter.NewJSONFormatter())
	require.NoError(t, err)
	assertEntries(t, entries)
}

func TestJournalFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.000")
	store, err := storage.NewFileStorage(path, storage.FileStorageOpt{SizeFileInBytes: 10})
	require.NoError(t, err)

	j, err := journal.New(path, formatter.NewJSONFormatter(), store)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Append(types.NewAddEntry(linen)))
	assert.Equal(t, types.ErrJournalFull, j.Flush())

	// buffer survives so a rotation can retry it
	assert.Equal(t, types.ErrJournalBufferNotEmpty, j.Rotate(filepath.Join(t.TempDir(), "journal.001")))
	j.Reset()
	require.NoError(t, j.Flush())
}

func TestJournalRotate(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "journal.000")
	second := filepath.Join(dir, "journal.001")

	j, err := journal.New(first, nil, nil)
	require.NoError(t, err)
	require.NoError(t, j.Append(types.NewRemoveEntry("a")))
	require.NoError(t, j.Flush())
	require.NoError(t, j.Rotate(second))
	assert.Equal(t, second, j.Path())

	require.NoError(t, j.Append(types.NewRemoveEntry("b")))
	require.NoError(t, j.Flush())
	require.NoError(t, j.Close())

	entries, err := journal.Parse(first, formatter.NewJSONFormatter())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	link, ok := entries[1].(*types.JournalRotateEntry)
	require.True(t, ok)
	assert.Equal(t, first, link.OldPath)
	assert.Equal(t, second, link.NewPath)

	entries, err = journal.Parse(second, formatter.NewJSONFormatter())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].(*types.JournalRemoveEntry).GarmentID)
}

func TestOpenUsesNextSegment(t *testing.T) {
	dir := t.TempDir()
	u := utils.NewDefaultUtils(dir, dir, slog.LevelInfo, &bytes.Buffer{})

	for _, storageName := range []string{"file", "mmap"} {
		j, err := journal.Open(journal.Options{Formatter: "string", Storage: storageName, MaxFileSize: 4096}, u)
		require.NoError(t, err)
		require.NoError(t, j.Append(types.NewClearEntry()))
		require.NoError(t, j.Flush())
		require.NoError(t, j.Close())
	}

	files, err := u.GetJournalFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "journal.000"), filepath.Join(dir, "journal.001")}, files)

	for _, f := range files {
		entries, err := journal.Parse(f, formatter.NewStringLineFormatter())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, types.EntryTypeClear, entries[0].GetType())
	}
}

func TestOpenRejectsUnknownNames(t *testing.T) {
	u := utils.NewDefaultUtils(t.TempDir(), "", slog.LevelInfo, &bytes.Buffer{})
	_, err := journal.Open(journal.Options{Formatter: "xml"}, u)
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
	_, err = journal.Open(journal.Options{Storage: "s3"}, u)
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
}

func TestNoopJournal(t *testing.T) {
	var j types.Journal = journal.NoopJournal{}
	assert.NoError(t, j.Append(types.NewClearEntry()))
	assert.NoError(t, j.Flush())
	size, err := j.Size()
	assert.NoError(t, err)
	assert.Zero(t, size)
}
