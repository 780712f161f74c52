package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/utils"
)

const ( // Constants for mmap file operations
	defaultMmapFileSize int64 = 1024 * 1024 * 10 // 10 MB
)

// Segment header written at the start of every mmap segment.
const (
	SegmentMagic    uint32 = 0x4F554A4C // "OUJL"
	SegmentVersion1 uint16 = 1

	SegmentStatusOpen   uint16 = 1
	SegmentStatusClosed uint16 = 2
)

// SegmentHeader is stored little endian in the first HeaderSize bytes.
type SegmentHeader struct {
	Magic      uint32
	Version    uint16
	Status     uint16
	SeqNo      uint64
	DataLength uint64
}

// HeaderSize is the encoded size of SegmentHeader.
var HeaderSize = int64(binary.Size(SegmentHeader{}))

type FileMMapStorage struct {
	file   *os.File
	mmap   mmap.MMap
	path   string
	seqNo  uint64
	offset int64

	sizeMapInBytes int64
}

var _ types.Storage = (*FileMMapStorage)(nil)

type FileMMapStorageOps struct {
	MMapFileSizeInBytes int64
}

func NewFileMMapStorage(path string, seqNo uint64, opts ...FileMMapStorageOps) (*FileMMapStorage, error) {
	s := &FileMMapStorage{sizeMapInBytes: defaultMmapFileSize}
	for _, val := range opts {
		if val.MMapFileSizeInBytes > 0 {
			s.sizeMapInBytes = val.MMapFileSizeInBytes
		}
	}
	if err := s.open(path, seqNo); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileMMapStorage) open(path string, seqNo uint64) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	isNewFile := info.Size() == 0
	if isNewFile {
		if err := f.Truncate(s.sizeMapInBytes); err != nil {
			f.Close()
			return fmt.Errorf("failed to truncate file: %w", err)
		}
	}

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to mmap file: %w", err)
	}

	s.file, s.mmap, s.path = f, m, path

	if isNewFile {
		s.seqNo = seqNo
		s.offset = HeaderSize
		return s.writeHeader(SegmentStatusOpen)
	}

	// Existing file, read header to restore offset
	hdr, err := decodeHeader(m)
	if err != nil {
		s.unmap()
		return fmt.Errorf("failed to read journal header from existing file: %w", err)
	}
	s.seqNo = hdr.SeqNo
	s.offset = HeaderSize + int64(hdr.DataLength)
	return nil
}

func (s *FileMMapStorage) Write(data []byte) error {
	if !s.CanWrite(len(data)) {
		return types.ErrJournalFull
	}
	copy(s.mmap[s.offset:], data)
	s.offset += int64(len(data))
	return nil
}

func (s *FileMMapStorage) CanWrite(size int) bool {
	// For mmap, the capacity is the total length of the map.
	return s.offset+int64(size) <= int64(len(s.mmap))
}

func (s *FileMMapStorage) Size() (int64, error) {
	return s.offset, nil
}

// Flush records the data length in the header and syncs the mapping, so a
// reopened segment resumes after the last flushed byte.
func (s *FileMMapStorage) Flush() error {
	if err := s.writeHeader(SegmentStatusOpen); err != nil {
		return err
	}
	return s.mmap.Flush()
}

func (s *FileMMapStorage) FinalizeAndClose() error {
	if s.mmap == nil {
		return nil
	}
	if err := s.writeHeader(SegmentStatusClosed); err != nil {
		return err
	}
	if err := s.mmap.Flush(); err != nil {
		return err
	}
	return s.unmap()
}

func (s *FileMMapStorage) Close() error {
	return s.FinalizeAndClose()
}

// Rotate finalizes the current segment and maps newPath with the next
// sequence number.
func (s *FileMMapStorage) Rotate(newPath string) error {
	next := s.seqNo + 1
	if err := s.FinalizeAndClose(); err != nil {
		return err
	}
	return s.open(newPath, next)
}

func (s *FileMMapStorage) writeHeader(status uint16) error {
	hdr := SegmentHeader{
		Magic:      SegmentMagic,
		Version:    SegmentVersion1,
		Status:     status,
		SeqNo:      s.seqNo,
		DataLength: uint64(s.offset - HeaderSize),
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	copy(s.mmap, buf.Bytes())
	return nil
}

func (s *FileMMapStorage) unmap() error {
	err := s.mmap.Unmap()
	s.mmap = nil
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func decodeHeader(data []byte) (SegmentHeader, error) {
	var hdr SegmentHeader
	if int64(len(data)) < HeaderSize {
		return hdr, fmt.Errorf("segment shorter than header")
	}
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return hdr, err
	}
	if hdr.Magic != SegmentMagic {
		return hdr, fmt.Errorf("bad segment magic %#x", hdr.Magic)
	}
	return hdr, nil
}

// ReadSegment returns the journal payload stored at path. Segments written
// by FileMMapStorage are recognized by their header; anything else is read
// as a plain file.
func ReadSegment(path string) ([]byte, *SegmentHeader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	hdr, err := decodeHeader(data)
	if err != nil {
		return utils.TrimPadding(data), nil, nil
	}
	end := HeaderSize + int64(hdr.DataLength)
	if end > int64(len(data)) {
		return nil, nil, fmt.Errorf("segment %s: data length %d exceeds file size", path, hdr.DataLength)
	}
	return data[HeaderSize:end], &hdr, nil
}
