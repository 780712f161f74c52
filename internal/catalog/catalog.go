// Package catalog resolves garment IDs to garments.
package catalog

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// MemoryCatalog is an in-memory types.Catalog.
type MemoryCatalog struct {
	mu       sync.RWMutex
	garments map[string]types.Garment
	order    []string
}

var _ types.Catalog = (*MemoryCatalog)(nil)

func NewMemoryCatalog(garments ...types.Garment) *MemoryCatalog {
	c := &MemoryCatalog{garments: make(map[string]types.Garment, len(garments))}
	for _, g := range garments {
		c.Put(g)
	}
	return c
}

// LoadFile reads a JSON catalog file, see Parse for the accepted shapes.
func LoadFile(path string) (*MemoryCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	garments, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return NewMemoryCatalog(garments...), nil
}

// Put inserts or replaces a garment.
func (c *MemoryCatalog) Put(g types.Garment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.garments[g.ID]; !ok {
		c.order = append(c.order, g.ID)
	}
	c.garments[g.ID] = g
}

func (c *MemoryCatalog) GetGarment(_ context.Context, id string) (types.Garment, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.garments[id]
	if !ok {
		return types.Garment{}, fmt.Errorf("%w: %s", types.ErrGarmentNotFound, id)
	}
	return g, nil
}

// List returns the garments in insertion order.
func (c *MemoryCatalog) List() []types.Garment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Garment, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.garments[id])
	}
	return out
}

// Parse reads garments from JSON. The document is either an array of
// garments or an object holding one under "garments" or "items". Field names
// follow the wardrobe app export: favorite may be "isFavorite" or "favorite";
// tags and seasons may be a string or an array; color falls back to
// "primaryColor".
func Parse(data []byte) ([]types.Garment, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	list := doc
	if !doc.IsArray() {
		list = doc.Get("garments")
		if !list.Exists() {
			list = doc.Get("items")
		}
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("no garment list found")
	}

	var (
		out []types.Garment
		err error
	)
	list.ForEach(func(_, v gjson.Result) bool {
		var g types.Garment
		if g, err = parseGarment(v); err != nil {
			return false
		}
		out = append(out, g)
		return true
	})
	return out, err
}

// ParseGarment reads a single garment object with the same field rules as
// Parse.
func ParseGarment(data []byte) (types.Garment, error) {
	if !gjson.ValidBytes(data) {
		return types.Garment{}, fmt.Errorf("invalid JSON")
	}
	return parseGarment(gjson.ParseBytes(data))
}

func parseGarment(v gjson.Result) (types.Garment, error) {
	id := v.Get("id").String()
	if id == "" {
		return types.Garment{}, fmt.Errorf("garment without id: %s", v.Raw)
	}
	category, err := types.ParseCategory(v.Get("category").String())
	if err != nil {
		return types.Garment{}, fmt.Errorf("garment %s: %w", id, err)
	}

	color := v.Get("color").String()
	if color == "" {
		color = v.Get("primaryColor").String()
	}
	favorite := v.Get("isFavorite")
	if !favorite.Exists() {
		favorite = v.Get("favorite")
	}

	return types.Garment{
		ID:       id,
		Name:     v.Get("name").String(),
		Category: category,
		Color:    color,
		Favorite: favorite.Bool(),
		Tags:     stringList(v.Get("tags")),
		Seasons:  stringList(firstExisting(v, "seasons", "season")),
	}, nil
}

func firstExisting(v gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func stringList(r gjson.Result) []string {
	var out []string
	switch {
	case r.IsArray():
		r.ForEach(func(_, item gjson.Result) bool {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
			return true
		})
	case r.Type == gjson.String:
		for _, s := range strings.Split(r.String(), ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return slices.Compact(out)
}
