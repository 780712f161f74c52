package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// JSONFormatter writes one JSON object per line.
type JSONFormatter struct{}

var _ types.LogFormatter = (*JSONFormatter)(nil)

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Encode(entries []types.JournalEntry) ([]byte, error) {
	var encoded []byte
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, data...)
		encoded = append(encoded, '\n') // Add newline for JSONL format
	}
	return encoded, nil
}

// entryWrapper is a helper struct to unmarshal polymorphic JournalEntry types.
type entryWrapper struct {
	types.JournalEntry
}

func (w *entryWrapper) UnmarshalJSON(data []byte) error {
	type typeFinder struct {
		Type types.EntryType `json:"type"`
	}
	var tf typeFinder
	if err := json.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("failed to find type: %w", err)
	}

	var entry types.JournalEntry
	switch tf.Type {
	case types.EntryTypeAdd:
		entry = &types.JournalAddEntry{}
	case types.EntryTypeRemove:
		entry = &types.JournalRemoveEntry{}
	case types.EntryTypeClear:
		entry = &types.JournalClearEntry{}
	case types.EntryTypeSnapshot:
		entry = &types.JournalSnapshotEntry{}
	case types.EntryTypeRotate:
		entry = &types.JournalRotateEntry{}
	default:
		return fmt.Errorf("unknown entry type: %d", tf.Type)
	}

	if err := json.Unmarshal(data, entry); err != nil {
		return err
	}
	w.JournalEntry = entry
	return nil
}

func (f *JSONFormatter) Decode(data []byte) ([]types.JournalEntry, error) {
	var entries []types.JournalEntry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			continue
		}

		var wrapper entryWrapper
		if err := json.Unmarshal(line, &wrapper); err != nil {
			return nil, err
		}
		entries = append(entries, wrapper.JournalEntry)
	}
	return entries, nil
}
