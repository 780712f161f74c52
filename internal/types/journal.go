package types

// EntryType defines the type of a journal entry.
type EntryType byte

const (
	EntryTypeAdd EntryType = iota + 1
	EntryTypeRemove
	EntryTypeClear
	EntryTypeSnapshot
	EntryTypeRotate
)

// JournalBaseName is the file prefix of journal segments (journal.000, journal.001, ...).
const JournalBaseName = "journal"

// JournalEntry is one recorded selection mutation.
type JournalEntry interface {
	GetType() EntryType
}

// JournalEntryBase carries the discriminator shared by all entries.
type JournalEntryBase struct {
	Type EntryType `json:"type"`
}

func (b JournalEntryBase) GetType() EntryType {
	return b.Type
}

// JournalAddEntry records a garment added to the selection set.
type JournalAddEntry struct {
	JournalEntryBase
	Garment Garment `json:"garment"`
}

// JournalRemoveEntry records a garment removed from the selection set.
type JournalRemoveEntry struct {
	JournalEntryBase
	GarmentID string `json:"garment_id"`
}

// JournalClearEntry records that the selection set was emptied.
type JournalClearEntry struct {
	JournalEntryBase
}

// JournalSnapshotEntry points at a snapshot file holding the full state
// at this position of the journal.
type JournalSnapshotEntry struct {
	JournalEntryBase
	Path string `json:"path"`
}

// JournalRotateEntry links a segment to its successor.
type JournalRotateEntry struct {
	JournalEntryBase
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// NewAddEntry builds an add entry.
func NewAddEntry(g Garment) *JournalAddEntry {
	return &JournalAddEntry{JournalEntryBase: JournalEntryBase{Type: EntryTypeAdd}, Garment: g}
}

// NewRemoveEntry builds a remove entry.
func NewRemoveEntry(id string) *JournalRemoveEntry {
	return &JournalRemoveEntry{JournalEntryBase: JournalEntryBase{Type: EntryTypeRemove}, GarmentID: id}
}

// NewClearEntry builds a clear entry.
func NewClearEntry() *JournalClearEntry {
	return &JournalClearEntry{JournalEntryBase: JournalEntryBase{Type: EntryTypeClear}}
}

// NewSnapshotEntry builds a snapshot entry.
func NewSnapshotEntry(path string) *JournalSnapshotEntry {
	return &JournalSnapshotEntry{JournalEntryBase: JournalEntryBase{Type: EntryTypeSnapshot}, Path: path}
}
