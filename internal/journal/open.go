package journal

import (
	"fmt"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal/formatter"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal/storage"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// Options selects the encoding and the backing storage of a journal.
type Options struct {
	// Formatter is "json" (default) or "string".
	Formatter string `yaml:"formatter" validate:"omitempty,oneof=json string"`
	// Storage is "file" (default) or "mmap".
	Storage string `yaml:"storage" validate:"omitempty,oneof=file mmap"`
	// MaxFileSize caps a segment in bytes. For mmap it is the mapping size.
	MaxFileSize int64 `yaml:"max_file_size" validate:"gte=0"`
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (types.LogFormatter, error) {
	switch name {
	case "", "json":
		return formatter.NewJSONFormatter(), nil
	case "string":
		return formatter.NewStringLineFormatter(), nil
	}
	return nil, fmt.Errorf("%w: unknown journal formatter %q", types.ErrInvalidConfiguration, name)
}

// Open starts a new segment at the next journal path handed out by u.
func Open(opts Options, u types.Utils) (*Journal, error) {
	format, err := NewFormatter(opts.Formatter)
	if err != nil {
		return nil, err
	}

	path, seq, err := u.GenNextJournalPath()
	if err != nil {
		return nil, err
	}

	var store types.Storage
	switch opts.Storage {
	case "", "file":
		store, err = storage.NewFileStorage(path, storage.FileStorageOpt{SizeFileInBytes: opts.MaxFileSize})
	case "mmap":
		store, err = storage.NewFileMMapStorage(path, seq, storage.FileMMapStorageOps{MMapFileSizeInBytes: opts.MaxFileSize})
	default:
		return nil, fmt.Errorf("%w: unknown journal storage %q", types.ErrInvalidConfiguration, opts.Storage)
	}
	if err != nil {
		return nil, err
	}
	return New(path, format, store)
}

// NextPath returns the path the next rotation should use.
func NextPath(u types.Utils) (string, error) {
	path, _, err := u.GenNextJournalPath()
	return path, err
}
