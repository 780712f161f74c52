package storage

import (
	"os"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// FileStorageOpt caps the segment size. Zero means unbounded.
type FileStorageOpt struct {
	SizeFileInBytes int64
}

// FileStorage appends raw journal bytes to a plain file.
type FileStorage struct {
	file  *os.File
	size  int64
	limit int64
}

var _ types.Storage = (*FileStorage)(nil)

func NewFileStorage(path string, opts ...FileStorageOpt) (*FileStorage, error) {
	s := &FileStorage{}
	for _, o := range opts {
		if o.SizeFileInBytes > 0 {
			s.limit = o.SizeFileInBytes
		}
	}
	if err := s.open(path); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStorage) open(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	s.file = f
	s.size = info.Size()
	return nil
}

func (s *FileStorage) Write(data []byte) error {
	n, err := s.file.Write(data)
	s.size += int64(n)
	return err
}

func (s *FileStorage) CanWrite(size int) bool {
	return s.limit == 0 || s.size+int64(size) <= s.limit
}

func (s *FileStorage) Size() (int64, error) {
	return s.size, nil
}

func (s *FileStorage) Flush() error {
	return s.file.Sync()
}

func (s *FileStorage) Close() error {
	return s.file.Close()
}

// Rotate closes the current file and continues appending to newPath.
func (s *FileStorage) Rotate(newPath string) error {
	old := s.file
	if err := s.open(newPath); err != nil {
		return err
	}
	return old.Close()
}
