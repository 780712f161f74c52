package scoring

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// SortOrder selects how SortCombinations orders a list.
type SortOrder string

const (
	SortByCompatibility SortOrder = "compatibility"
	SortByStyle         SortOrder = "style"
	SortByRecent        SortOrder = "recent"
	SortByCategoryCount SortOrder = "category_count"
)

// ParseSortOrder accepts the names of the SortBy constants.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByCompatibility, SortByStyle, SortByRecent, SortByCategoryCount:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// SimilarityThreshold is the Jaccard index above which two combinations are
// treated as the same look.
const SimilarityThreshold = 0.7

// StyleScore blends compatibility with category diversity and color economy.
func StyleScore(c *types.CandidateCombination) float64 {
	categories := len(c.Categories())
	colors := DistinctColors(c.Items)

	score := c.Score * 0.6
	score += min(float64(categories)/4, 1) * 0.2
	score += max(0, float64(4-colors)/4) * 0.2
	return clamp(score)
}

// Similar reports whether two combinations share most of their garments.
func Similar(a, b *types.CandidateCombination) bool {
	ids := make(map[string]int, len(a.Items)+len(b.Items))
	for _, item := range a.Items {
		ids[item.GarmentID] |= 1
	}
	for _, item := range b.Items {
		ids[item.GarmentID] |= 2
	}
	if len(ids) == 0 {
		return false
	}
	shared := 0
	for _, mask := range ids {
		if mask == 3 {
			shared++
		}
	}
	return float64(shared)/float64(len(ids)) > SimilarityThreshold
}

// CategoryDistribution counts items per category name.
func CategoryDistribution(c *types.CandidateCombination) map[string]int {
	out := make(map[string]int)
	for cat, n := range c.Categories() {
		out[cat.String()] = n
	}
	return out
}

// FilterByStyle keeps combinations labelled style.
func FilterByStyle(combos []types.CandidateCombination, style types.StyleLabel) []types.CandidateCombination {
	var out []types.CandidateCombination
	for _, c := range combos {
		if c.Style == style {
			out = append(out, c)
		}
	}
	return out
}

// SortCombinations returns a sorted copy; equal elements keep their order.
// Unknown orders return an unsorted copy.
func SortCombinations(combos []types.CandidateCombination, by SortOrder) []types.CandidateCombination {
	out := slices.Clone(combos)

	var key func(c *types.CandidateCombination) float64
	switch by {
	case SortByCompatibility:
		key = func(c *types.CandidateCombination) float64 { return c.Score }
	case SortByStyle:
		key = StyleScore
	case SortByRecent:
		key = func(c *types.CandidateCombination) float64 { return float64(c.CreatedAt.UnixNano()) }
	case SortByCategoryCount:
		key = func(c *types.CandidateCombination) float64 { return float64(len(c.Categories())) }
	default:
		return out
	}

	slices.SortStableFunc(out, func(a, b types.CandidateCombination) int {
		ka, kb := key(&a), key(&b)
		switch {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		}
		return 0
	})
	return out
}
