package types

import (
	"fmt"
	"strings"
)

// Category is the closed classification of a garment.
type Category byte

const (
	CategoryUnknown Category = iota
	CategoryTop
	CategoryBottom
	CategoryDress
	CategoryShoes
	CategoryOuterwear
	CategoryAccessory
)

// AllCategories lists every valid category in declaration order.
var AllCategories = []Category{
	CategoryTop,
	CategoryBottom,
	CategoryDress,
	CategoryShoes,
	CategoryOuterwear,
	CategoryAccessory,
}

var categoryNames = map[Category]string{
	CategoryTop:       "top",
	CategoryBottom:    "bottom",
	CategoryDress:     "dress",
	CategoryShoes:     "shoes",
	CategoryOuterwear: "outerwear",
	CategoryAccessory: "accessory",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether c is one of the closed set of categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory converts a category name (case-insensitive) into a Category.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, byte(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Position is the placement tag used when layering a look.
type Position byte

const (
	PositionTop Position = iota + 1
	PositionBottom
	PositionFeet
	PositionOuterwear
	PositionAccessories
)

var positionNames = map[Position]string{
	PositionTop:         "top",
	PositionBottom:      "bottom",
	PositionFeet:        "feet",
	PositionOuterwear:   "outerwear",
	PositionAccessories: "accessories",
}

func (p Position) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for pos, n := range positionNames {
		if n == name {
			*p = pos
			return nil
		}
	}
	return fmt.Errorf("unknown position: %q", string(text))
}

// Position returns where a garment of this category sits on the body.
func (c Category) Position() Position {
	switch c {
	case CategoryTop, CategoryDress:
		return PositionTop
	case CategoryBottom:
		return PositionBottom
	case CategoryShoes:
		return PositionFeet
	case CategoryOuterwear:
		return PositionOuterwear
	default:
		return PositionAccessories
	}
}

// BaseLayer is the stacking order of the category before the
// within-category index is added.
func (c Category) BaseLayer() int {
	switch c {
	case CategoryDress, CategoryShoes:
		return 0
	case CategoryBottom:
		return 1
	case CategoryTop:
		return 2
	case CategoryOuterwear:
		return 4
	case CategoryAccessory:
		return 5
	default:
		return 0
	}
}
