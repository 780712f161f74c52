// Package scoring rates candidate combinations and labels their style.
package scoring

import (
	"strings"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// Weights holds the score constants. They are product heuristics and may be
// tuned per session.
type Weights struct {
	Base         float64 `json:"base" yaml:"base"`
	Favorites    float64 `json:"favorites" yaml:"favorites"`
	ColorHarmony float64 `json:"color_harmony" yaml:"color_harmony"`
	Completeness float64 `json:"completeness" yaml:"completeness"`
	// MaxColors is the largest number of distinct colors that still earns
	// the color harmony bonus.
	MaxColors int `json:"max_colors" yaml:"max_colors"`
}

// DefaultWeights reproduces the stock scoring.
var DefaultWeights = Weights{
	Base:         0.8,
	Favorites:    0.2,
	ColorHarmony: 0.1,
	Completeness: 0.1,
	MaxColors:    3,
}

var formalKeywords = []string{"formal", "business", "dress", "suit"}

// Score rates items with DefaultWeights.
func Score(items []types.CombinationItem, opts types.GenerationOptions) (float64, types.StyleLabel) {
	return DefaultWeights.Score(items, opts)
}

// Score returns the compatibility score in [0, 1] and the style label.
func (w Weights) Score(items []types.CombinationItem, opts types.GenerationOptions) (float64, types.StyleLabel) {
	return w.Compatibility(items, opts), Classify(items, opts)
}

// Compatibility computes the score alone.
func (w Weights) Compatibility(items []types.CombinationItem, opts types.GenerationOptions) float64 {
	score := w.Base

	if opts.PrioritizeFavorites && len(items) > 0 {
		fav := 0
		for _, item := range items {
			if item.Garment.Favorite {
				fav++
			}
		}
		score += float64(fav) / float64(len(items)) * w.Favorites
	}

	if DistinctColors(items) <= w.MaxColors {
		score += w.ColorHarmony
	}

	if isComplete(items) {
		score += w.Completeness
	}

	return clamp(score)
}

// Classify picks the style label. A preference in opts wins; otherwise formal
// keywords, then a dress, then outerwear decide, falling back to casual.
func Classify(items []types.CombinationItem, opts types.GenerationOptions) types.StyleLabel {
	if opts.StylePreference != nil {
		return *opts.StylePreference
	}

	var hasDress, hasOuterwear, formal bool
	for _, item := range items {
		switch item.Garment.Category {
		case types.CategoryDress:
			hasDress = true
		case types.CategoryOuterwear:
			hasOuterwear = true
		}
		if isFormal(item.Garment) {
			formal = true
		}
	}

	switch {
	case formal:
		return types.StyleFormal
	case hasDress:
		return types.StyleParty
	case hasOuterwear:
		return types.StyleBusiness
	}
	return types.StyleCasual
}

// DistinctColors counts colors case-insensitively.
func DistinctColors(items []types.CombinationItem) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[strings.ToLower(item.Garment.Color)] = struct{}{}
	}
	return len(seen)
}

func isFormal(g types.Garment) bool {
	name := strings.ToLower(g.Name)
	for _, kw := range formalKeywords {
		if strings.Contains(name, kw) {
			return true
		}
		for _, tag := range g.Tags {
			if strings.Contains(strings.ToLower(tag), kw) {
				return true
			}
		}
	}
	return false
}

func isComplete(items []types.CombinationItem) bool {
	var top, bottom, shoes bool
	for _, item := range items {
		switch item.Garment.Category {
		case types.CategoryTop:
			top = true
		case types.CategoryBottom:
			bottom = true
		case types.CategoryShoes:
			shoes = true
		}
	}
	return top && bottom && shoes
}

func clamp(v float64) float64 {
	return max(0, min(1, v))
}
