package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// StringLineFormatter writes one comma separated record per entry. Fields
// are CSV quoted since garment names may contain commas.
//
//	1,<id>,<name>,<category>,<color>,<favorite>,<tags|...>,<seasons|...>
//	2,<id>
//	3
//	4,<snapshot path>
//	5,<old path>,<new path>
type StringLineFormatter struct{}

var _ types.LogFormatter = (*StringLineFormatter)(nil)

const listSep = "|"

func NewStringLineFormatter() *StringLineFormatter {
	return &StringLineFormatter{}
}

func (f *StringLineFormatter) Encode(entries []types.JournalEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, entry := range entries {
		typ := strconv.Itoa(int(entry.GetType()))
		var record []string
		switch v := entry.(type) {
		case *types.JournalAddEntry:
			g := v.Garment
			record = []string{typ, g.ID, g.Name, g.Category.String(), g.Color,
				strconv.FormatBool(g.Favorite), strings.Join(g.Tags, listSep), strings.Join(g.Seasons, listSep)}
		case *types.JournalRemoveEntry:
			record = []string{typ, v.GarmentID}
		case *types.JournalClearEntry:
			record = []string{typ}
		case *types.JournalSnapshotEntry:
			record = []string{typ, v.Path}
		case *types.JournalRotateEntry:
			record = []string{typ, v.OldPath, v.NewPath}
		default:
			return nil, fmt.Errorf("unsupported journal entry %T", entry)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (f *StringLineFormatter) Decode(data []byte) ([]types.JournalEntry, error) {
	var entries []types.JournalEntry
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	for {
		parts, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid journal line: %w", err)
		}

		typeVal, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid type in journal: %s", parts[0])
		}
		entryType := types.EntryType(typeVal)
		base := types.JournalEntryBase{Type: entryType}

		switch entryType {
		case types.EntryTypeAdd:
			if len(parts) != 8 {
				return nil, fmt.Errorf("invalid journal format for add: %v", parts)
			}
			category, err := types.ParseCategory(parts[3])
			if err != nil {
				return nil, err
			}
			favorite, err := strconv.ParseBool(parts[5])
			if err != nil {
				return nil, fmt.Errorf("invalid favorite in journal: %s", parts[5])
			}
			entries = append(entries, &types.JournalAddEntry{
				JournalEntryBase: base,
				Garment: types.Garment{
					ID:       parts[1],
					Name:     parts[2],
					Category: category,
					Color:    parts[4],
					Favorite: favorite,
					Tags:     splitList(parts[6]),
					Seasons:  splitList(parts[7]),
				},
			})
		case types.EntryTypeRemove:
			if len(parts) != 2 {
				return nil, fmt.Errorf("invalid journal format for remove: %v", parts)
			}
			entries = append(entries, &types.JournalRemoveEntry{JournalEntryBase: base, GarmentID: parts[1]})
		case types.EntryTypeClear:
			entries = append(entries, &types.JournalClearEntry{JournalEntryBase: base})
		case types.EntryTypeSnapshot:
			if len(parts) != 2 {
				return nil, fmt.Errorf("invalid journal format for snapshot: %v", parts)
			}
			entries = append(entries, &types.JournalSnapshotEntry{JournalEntryBase: base, Path: parts[1]})
		case types.EntryTypeRotate:
			if len(parts) != 3 {
				return nil, fmt.Errorf("invalid journal format for rotate: %v", parts)
			}
			entries = append(entries, &types.JournalRotateEntry{JournalEntryBase: base, OldPath: parts[1], NewPath: parts[2]})
		default:
			return nil, fmt.Errorf("unknown entry type: %d", typeVal)
		}
	}
	return entries, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
}
