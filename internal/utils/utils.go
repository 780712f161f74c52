package utils

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// DefaultUtils provides a default implementation for the types.Utils interface.
// It includes a standard logger and generates paths for journals and snapshots.
type DefaultUtils struct {
	logger      *slog.Logger
	journalDir  string
	snapshotDir string
}

var _ types.Utils = (*DefaultUtils)(nil)

// NewDefaultUtils creates a new DefaultUtils.
// It takes the base directories for journal and snapshot files as arguments.
func NewDefaultUtils(journalDir, snapshotDir string, logLevel slog.Level, writer io.Writer) *DefaultUtils {
	if writer == nil {
		writer = os.Stdout
	}
	return &DefaultUtils{
		logger:      slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})),
		journalDir:  journalDir,
		snapshotDir: snapshotDir,
	}
}

// GetLogger returns the logger instance.
func (u *DefaultUtils) GetLogger() *slog.Logger {
	return u.logger
}

// GenSnapshotPath returns the fixed "selections.json" path inside the
// snapshot directory, or nil if snapshots are disabled.
func (u *DefaultUtils) GenSnapshotPath() *string {
	if u.snapshotDir == "" {
		return nil
	}
	path := filepath.Join(u.snapshotDir, "selections.json")
	return &path
}

// GetJournalFiles returns the journal segments of the journal directory,
// oldest first.
func (u *DefaultUtils) GetJournalFiles() ([]string, error) {
	segments, err := u.segments()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(segments))
	for i, seg := range segments {
		paths[i] = seg.path
	}
	return paths, nil
}

// GenNextJournalPath returns the segment that follows the newest one.
func (u *DefaultUtils) GenNextJournalPath() (string, uint64, error) {
	segments, err := u.segments()
	if err != nil {
		return "", 0, err
	}
	var next uint64
	if len(segments) > 0 {
		next = segments[len(segments)-1].seq + 1
	}
	return u.journalPath(next), next, nil
}

type segment struct {
	path string
	seq  uint64
}

// segments lists files named journal.<seq> sorted by seq. Other files,
// directories and names without a numeric suffix are skipped.
func (u *DefaultUtils) segments() ([]segment, error) {
	if u.journalDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(u.journalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	var out []segment
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		seq, ok := parseSequence(e.Name())
		if !ok {
			continue
		}
		out = append(out, segment{path: filepath.Join(u.journalDir, e.Name()), seq: seq})
	}
	slices.SortFunc(out, func(a, b segment) int { return cmp.Compare(a.seq, b.seq) })
	return out, nil
}

func (u *DefaultUtils) journalPath(seq uint64) string {
	return filepath.Join(u.journalDir, fmt.Sprintf("%s.%03d", types.JournalBaseName, seq))
}

func parseSequence(name string) (uint64, bool) {
	suffix, ok := strings.CutPrefix(name, types.JournalBaseName+".")
	if !ok {
		return 0, false
	}
	seq, err := strconv.ParseUint(suffix, 10, 64)
	return seq, err == nil
}

// ParseLogLevel maps debug, info, warn and error to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// TrimPadding drops the zero padding mmap storage leaves after the payload.
func TrimPadding(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}
