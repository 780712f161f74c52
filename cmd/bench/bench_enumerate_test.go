package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/combinator"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/rules"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/scoring"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/wardrobe"
)

var colors = []string{"white", "black", "navy", "grey", "beige", "red"}

// wideRule lets every category hold perCategory garments.
func wideRule(perCategory int) types.CombinationRule {
	caps := make(map[types.Category]int, len(types.AllCategories))
	for _, c := range types.AllCategories {
		caps[c] = perCategory
	}
	return types.CombinationRule{
		ID:                 "wide",
		Name:               "Wide",
		RequiredCategories: []types.Category{types.CategoryTop, types.CategoryBottom, types.CategoryShoes},
		OptionalCategories: []types.Category{types.CategoryOuterwear, types.CategoryAccessory},
		MaxPerCategory:     caps,
		MinItems:           3,
		MaxItems:           8,
	}
}

// wardrobeOf fills every category of rule with perCategory garments.
func wardrobeOf(rule *types.CombinationRule, perCategory int) []types.Selection {
	set := wardrobe.NewSelectionSet(rule)
	n := 0
	for _, c := range types.AllCategories {
		if c == types.CategoryDress {
			continue
		}
		for i := 0; i < perCategory; i++ {
			g := types.Garment{
				ID:       fmt.Sprintf("%s-%d", c, i),
				Name:     fmt.Sprintf("%s %d", c, i),
				Category: c,
				Color:    colors[n%len(colors)],
				Favorite: i == 0,
				Seasons:  []string{"summer"},
			}
			if _, err := set.Add(g); err != nil {
				panic(err)
			}
			n++
		}
	}
	return set.Snapshot()
}

func BenchmarkEnumerate(b *testing.B) {
	for _, perCategory := range []int{1, 2, 3, 4} {
		b.Run(fmt.Sprintf("per_category_%d", perCategory), func(b *testing.B) {
			rule := wideRule(perCategory)
			sels := wardrobeOf(&rule, perCategory)
			rs := []types.CombinationRule{rule}
			opts := rules.DefaultOptions()
			opts.MaxCombinations = 1000

			ctx := context.Background()
			total := 0
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				combos, err := combinator.Enumerate(ctx, sels, rs, opts, scoring.Score)
				if err != nil {
					b.Fatal(err)
				}
				total += len(combos)
			}
			b.ReportMetric(float64(total)/float64(b.N), "combos/op")
		})
	}
}

func BenchmarkEnumerateDefaultRules(b *testing.B) {
	rs := rules.DefaultRules()
	sels := wardrobeOf(&rs[0], 2)
	opts := rules.DefaultOptions()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := combinator.Enumerate(ctx, sels, rs, opts, scoring.Score); err != nil {
			b.Fatal(err)
		}
	}
}
