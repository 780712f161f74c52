// Package journal records selection mutations so a session can be rebuilt
// after a restart.
package journal

import (
	"fmt"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal/formatter"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal/storage"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

type rotator interface {
	Rotate(path string) error
}

// Journal buffers entries in memory and writes them on Flush.
type Journal struct {
	formatter types.LogFormatter
	storage   types.Storage
	buffer    []types.JournalEntry
	path      string
}

var _ types.Journal = (*Journal)(nil)

// New opens a journal at path. A nil formatter defaults to JSON lines and a
// nil storage to an unbounded plain file.
func New(path string, format types.LogFormatter, store types.Storage) (*Journal, error) {
	if format == nil {
		format = formatter.NewJSONFormatter()
	}
	if store == nil {
		var err error
		store, err = storage.NewFileStorage(path)
		if err != nil {
			return nil, err
		}
	}

	return &Journal{formatter: format, storage: store, buffer: make([]types.JournalEntry, 0, 64), path: path}, nil
}

func (j *Journal) Append(entry types.JournalEntry) error {
	j.buffer = append(j.buffer, entry)
	return nil
}

// Flush writes the buffer. When the segment cannot hold it, ErrJournalFull is
// returned and the buffer is kept so the caller can rotate and retry.
func (j *Journal) Flush() error {
	if len(j.buffer) == 0 {
		return nil
	}

	data, err := j.formatter.Encode(j.buffer)
	if err != nil {
		return err
	}

	if !j.storage.CanWrite(len(data)) {
		return types.ErrJournalFull
	}

	if err := j.storage.Write(data); err != nil {
		return err
	}

	j.buffer = j.buffer[:0]
	return j.storage.Flush()
}

func (j *Journal) Reset() {
	j.buffer = j.buffer[:0]
}

// Rotate writes a rotate entry pointing at path to the current segment and
// continues in path. The buffer must be flushed first.
func (j *Journal) Rotate(path string) error {
	if len(j.buffer) > 0 {
		return types.ErrJournalBufferNotEmpty
	}
	r, ok := j.storage.(rotator)
	if !ok {
		return fmt.Errorf("storage %T cannot rotate", j.storage)
	}

	link := &types.JournalRotateEntry{
		JournalEntryBase: types.JournalEntryBase{Type: types.EntryTypeRotate},
		OldPath:          j.path,
		NewPath:          path,
	}
	if data, err := j.formatter.Encode([]types.JournalEntry{link}); err == nil && j.storage.CanWrite(len(data)) {
		if err := j.storage.Write(data); err != nil {
			return err
		}
	}

	if err := r.Rotate(path); err != nil {
		return err
	}
	j.path = path
	return nil
}

func (j *Journal) Size() (int64, error) {
	return j.storage.Size()
}

// Path is the segment currently written to.
func (j *Journal) Path() string {
	return j.path
}

func (j *Journal) Close() error {
	return j.storage.Close()
}

// Parse reads every entry of the segment at path.
func Parse(path string, format types.LogFormatter) ([]types.JournalEntry, error) {
	data, _, err := storage.ReadSegment(path)
	if err != nil {
		return nil, err
	}
	return format.Decode(data)
}

// NoopJournal drops every entry. Sessions use it when journaling is off.
type NoopJournal struct{}

var _ types.Journal = NoopJournal{}

func (NoopJournal) Append(types.JournalEntry) error { return nil }
func (NoopJournal) Flush() error                    { return nil }
func (NoopJournal) Reset()                          {}
func (NoopJournal) Rotate(string) error             { return nil }
func (NoopJournal) Size() (int64, error)            { return 0, nil }
func (NoopJournal) Close() error                    { return nil }
