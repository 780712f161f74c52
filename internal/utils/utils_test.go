package utils_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/utils"
)

func TestJournalFilesSortedBySequence(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"journal.010", "journal.002", "journal.000", "other.txt", "journal.bak", "journal.002.tmp", "journal.1x"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "journal.999"), 0755))

	u := utils.NewDefaultUtils(dir, "", slog.LevelInfo, &bytes.Buffer{})
	files, err := u.GetJournalFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "journal.000"),
		filepath.Join(dir, "journal.002"),
		filepath.Join(dir, "journal.010"),
	}, files)

	path, seq, err := u.GenNextJournalPath()
	require.NoError(t, err)
	assert.Equal(t, uint64(11), seq)
	assert.Equal(t, filepath.Join(dir, "journal.011"), path)
}

func TestGenNextJournalPathEmptyDir(t *testing.T) {
	dir := t.TempDir()
	u := utils.NewDefaultUtils(dir, dir, slog.LevelInfo, &bytes.Buffer{})

	path, seq, err := u.GenNextJournalPath()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), seq)
	assert.Equal(t, filepath.Join(dir, "journal.000"), path)

	snap := u.GenSnapshotPath()
	require.NotNil(t, snap)
	assert.Equal(t, filepath.Join(dir, "selections.json"), *snap)
}

func TestDisabledDirectories(t *testing.T) {
	u := utils.NewDefaultUtils("", "", slog.LevelInfo, nil)
	assert.Nil(t, u.GenSnapshotPath())
	files, err := u.GetJournalFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	u := utils.NewDefaultUtils("", "", slog.LevelWarn, &buf)
	u.GetLogger().Info("hidden")
	u.GetLogger().Warn("shown", "garment_id", "t1")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "garment_id=t1")
}

func TestParseLogLevel(t *testing.T) {
	level, err := utils.ParseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = utils.ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	_, err = utils.ParseLogLevel("loud")
	assert.Error(t, err)
}

func TestTrimPadding(t *testing.T) {
	data := append([]byte("line\n"), make([]byte, 32)...)
	assert.Equal(t, "line\n", string(utils.TrimPadding(data)))
	assert.Empty(t, utils.TrimPadding(make([]byte, 4)))
}
