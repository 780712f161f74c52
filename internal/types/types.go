package types

import (
	"context"
	"log/slog"
	"time"
)

// Garment is a wardrobe item as handed over by the catalog. The engine only
// holds references to it and never mutates it.
type Garment struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	Color    string   `json:"color" yaml:"color"`
	Favorite bool     `json:"favorite,omitempty" yaml:"favorite,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Seasons  []string `json:"seasons,omitempty" yaml:"seasons,omitempty"`
}

// Selection is a garment in the working set.
type Selection struct {
	GarmentID string   `json:"garment_id"`
	Garment   Garment  `json:"garment"`
	Category  Category `json:"category"`
	Position  Position `json:"position"`
	// Priority is the insertion counter; the lowest value in a category is
	// evicted first.
	Priority uint64 `json:"priority"`
}

// CombinationRule describes which categories make up a look and how many
// garments each may contribute.
type CombinationRule struct {
	ID                 string           `json:"id" yaml:"id" validate:"required"`
	Name               string           `json:"name" yaml:"name" validate:"required"`
	RequiredCategories []Category       `json:"required_categories" yaml:"required_categories" validate:"required,min=1,dive,category"`
	OptionalCategories []Category       `json:"optional_categories,omitempty" yaml:"optional_categories,omitempty" validate:"dive,category"`
	ConflictGroups     [][]Category     `json:"conflict_groups,omitempty" yaml:"conflict_groups,omitempty" validate:"dive,min=2,dive,category"`
	MaxPerCategory     map[Category]int `json:"max_per_category,omitempty" yaml:"max_per_category,omitempty" validate:"dive,keys,category,endkeys,gte=1"`
	MinItems           int              `json:"min_items" yaml:"min_items" validate:"gte=0"`
	MaxItems           int              `json:"max_items" yaml:"max_items" validate:"gte=1,gtefield=MinItems"`
}

// MaxFor returns the per-category cap, 1 when the rule does not name it.
func (r *CombinationRule) MaxFor(c Category) int {
	if n, ok := r.MaxPerCategory[c]; ok && n > 0 {
		return n
	}
	return 1
}

// GenerationOptions is the session scoped generation configuration.
type GenerationOptions struct {
	IncludeOptionalCategories bool        `json:"include_optional_categories" yaml:"include_optional_categories"`
	PrioritizeFavorites       bool        `json:"prioritize_favorites" yaml:"prioritize_favorites"`
	RespectSeasonality        bool        `json:"respect_seasonality" yaml:"respect_seasonality"`
	StylePreference           *StyleLabel `json:"style_preference,omitempty" yaml:"style_preference,omitempty"`
	MaxCombinations           int         `json:"max_combinations" yaml:"max_combinations" validate:"gte=0"`
}

// CombinationItem is one garment placed inside a candidate.
type CombinationItem struct {
	GarmentID string   `json:"garment_id"`
	Garment   Garment  `json:"garment"`
	Layer     int      `json:"layer"`
	Position  Position `json:"position"`
}

// CandidateCombination is a validated and scored look. It is never mutated
// after the enumerator returns it.
type CandidateCombination struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	RuleID    string            `json:"rule_id"`
	Items     []CombinationItem `json:"items"`
	Score     float64           `json:"score"`
	Style     StyleLabel        `json:"style"`
	Season    string            `json:"season,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Categories returns the distinct categories present in the candidate.
func (c *CandidateCombination) Categories() map[Category]int {
	counts := make(map[Category]int, len(c.Items))
	for _, item := range c.Items {
		counts[item.Garment.Category]++
	}
	return counts
}

// Catalog resolves garment IDs coming from outside the engine.
type Catalog interface {
	GetGarment(ctx context.Context, id string) (Garment, error)
}

// Journal is the optional durable log of selection mutations.
// Entries are buffered until Flush.
type Journal interface {
	// Append stages an entry in the buffer (does not write to disk immediately)
	Append(entry JournalEntry) error
	// Flush writes all buffered entries to storage
	Flush() error
	// Reset drops the unflushed buffer
	Reset()
	// Rotate closes the current file and continues in path
	Rotate(path string) error
	// Size reports the bytes currently written
	Size() (int64, error)
	Close() error
}

// LogFormatter encodes and decodes journal entries.
type LogFormatter interface {
	Encode(entries []JournalEntry) ([]byte, error)
	Decode(data []byte) ([]JournalEntry, error)
}

// Storage is the byte sink under a journal.
type Storage interface {
	Write(data []byte) error
	CanWrite(size int) bool
	Flush() error
	Size() (int64, error)
	Close() error
}

// Utils bundles ambient helpers injected into long lived components.
type Utils interface {
	GetLogger() *slog.Logger
	// GenSnapshotPath returns where to write a session snapshot, nil disables snapshots.
	GenSnapshotPath() *string
	// GetJournalFiles lists journal files ordered by sequence number.
	GetJournalFiles() ([]string, error)
	// GenNextJournalPath returns the path and sequence number of the next journal file.
	GenNextJournalPath() (string, uint64, error)
}

// Context for dependency injection
type Context struct {
	Journal Journal
	Utils   Utils
}

// Logger returns the injected logger or nil.
func (c *Context) Logger() *slog.Logger {
	if c == nil || c.Utils == nil {
		return nil
	}
	return c.Utils.GetLogger()
}
