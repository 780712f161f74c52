package scoring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/scoring"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

func item(id string, c types.Category, color string, fav bool) types.CombinationItem {
	return types.CombinationItem{
		GarmentID: id,
		Garment:   types.Garment{ID: id, Name: id, Category: c, Color: color, Favorite: fav},
		Position:  c.Position(),
	}
}

func TestScore(t *testing.T) {
	complete := []types.CombinationItem{
		item("a", types.CategoryTop, "white", true),
		item("c", types.CategoryBottom, "blue", false),
		item("d", types.CategoryShoes, "black", false),
	}
	noShoes := complete[:2]
	rainbow := []types.CombinationItem{
		item("a", types.CategoryTop, "red", false),
		item("b", types.CategoryTop, "green", false),
		item("c", types.CategoryBottom, "blue", false),
		item("d", types.CategoryAccessory, "gold", false),
	}

	tests := []struct {
		name  string
		items []types.CombinationItem
		opts  types.GenerationOptions
		want  float64
	}{
		{name: "complete and coordinated", items: complete, want: 1.0},
		{name: "without shoes", items: noShoes, want: 0.9},
		{name: "too many colors", items: rainbow, want: 0.8},
		{name: "favorites bonus", items: rainbow, opts: types.GenerationOptions{PrioritizeFavorites: true}, want: 0.8},
		{name: "favorites bonus clamped", items: complete, opts: types.GenerationOptions{PrioritizeFavorites: true}, want: 1.0},
		{name: "favorites partial", items: noShoes, opts: types.GenerationOptions{PrioritizeFavorites: true}, want: 1.0},
		{name: "empty", items: nil, want: 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := scoring.Score(tt.items, tt.opts)
			assert.InDelta(t, tt.want, score, 1e-9)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestColorsAreCaseInsensitive(t *testing.T) {
	items := []types.CombinationItem{
		item("a", types.CategoryTop, "Black", false),
		item("b", types.CategoryTop, "black", false),
		item("c", types.CategoryBottom, "BLACK", false),
		item("d", types.CategoryAccessory, "red", false),
		item("e", types.CategoryAccessory, "blue", false),
	}
	assert.Equal(t, 3, scoring.DistinctColors(items))
}

func TestCustomWeightsStayClamped(t *testing.T) {
	w := scoring.Weights{Base: -2, MaxColors: 3}
	assert.Equal(t, 0.0, w.Compatibility([]types.CombinationItem{item("a", types.CategoryTop, "red", false)}, types.GenerationOptions{}))

	w = scoring.Weights{Base: 5, MaxColors: 3}
	assert.Equal(t, 1.0, w.Compatibility(nil, types.GenerationOptions{}))
}

func TestClassify(t *testing.T) {
	formalTag := item("f", types.CategoryTop, "white", false)
	formalTag.Garment.Tags = []string{"Work", "Business-casual"}

	suit := item("s", types.CategoryOuterwear, "grey", false)
	suit.Garment.Name = "Grey Suit Jacket"

	party := item("p", types.CategoryDress, "red", false)
	party.Garment.Name = "Red Gown"

	coat := item("o", types.CategoryOuterwear, "camel", false)
	coat.Garment.Name = "Camel Coat"

	tee := item("t", types.CategoryTop, "white", false)
	tee.Garment.Name = "Tee"

	sporty := types.StyleSporty

	tests := []struct {
		name  string
		items []types.CombinationItem
		opts  types.GenerationOptions
		want  types.StyleLabel
	}{
		{name: "preference wins", items: []types.CombinationItem{suit}, opts: types.GenerationOptions{StylePreference: &sporty}, want: types.StyleSporty},
		{name: "formal tag", items: []types.CombinationItem{tee, formalTag}, want: types.StyleFormal},
		{name: "formal name beats dress", items: []types.CombinationItem{party, suit}, want: types.StyleFormal},
		{name: "dress", items: []types.CombinationItem{party, coat}, want: types.StyleParty},
		{name: "outerwear", items: []types.CombinationItem{tee, coat}, want: types.StyleBusiness},
		{name: "default", items: []types.CombinationItem{tee}, want: types.StyleCasual},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoring.Classify(tt.items, tt.opts))
		})
	}
}

func TestDressNameCountsAsFormal(t *testing.T) {
	shirt := item("x", types.CategoryTop, "white", false)
	shirt.Garment.Name = "Dress Shirt"
	_, style := scoring.Score([]types.CombinationItem{shirt}, types.GenerationOptions{})
	assert.Equal(t, types.StyleFormal, style)
}

func combo(id string, score float64, created time.Time, items ...types.CombinationItem) types.CandidateCombination {
	return types.CandidateCombination{ID: id, Score: score, Items: items, CreatedAt: created}
}

func TestSortCombinations(t *testing.T) {
	now := time.Now()
	a := combo("a", 0.9, now.Add(-time.Minute), item("1", types.CategoryTop, "red", false))
	b := combo("b", 1.0, now.Add(-time.Hour),
		item("1", types.CategoryTop, "red", false),
		item("2", types.CategoryBottom, "red", false),
	)
	c := combo("c", 0.9, now, item("3", types.CategoryShoes, "red", false))
	list := []types.CandidateCombination{a, b, c}

	ids := func(cs []types.CandidateCombination) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.ID
		}
		return out
	}

	assert.Equal(t, []string{"b", "a", "c"}, ids(scoring.SortCombinations(list, scoring.SortByCompatibility)))
	assert.Equal(t, []string{"c", "a", "b"}, ids(scoring.SortCombinations(list, scoring.SortByRecent)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(scoring.SortCombinations(list, scoring.SortByCategoryCount)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(scoring.SortCombinations(list, scoring.SortByStyle)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(scoring.SortCombinations(list, "bogus")))
	// input untouched
	assert.Equal(t, []string{"a", "b", "c"}, ids(list))
}

func TestParseSortOrder(t *testing.T) {
	o, err := scoring.ParseSortOrder(" Category_Count ")
	require.NoError(t, err)
	assert.Equal(t, scoring.SortByCategoryCount, o)

	_, err = scoring.ParseSortOrder("random")
	assert.Error(t, err)
}

func TestStyleScore(t *testing.T) {
	c := combo("x", 1.0, time.Time{},
		item("1", types.CategoryTop, "black", false),
		item("2", types.CategoryBottom, "black", false),
		item("3", types.CategoryShoes, "white", false),
		item("4", types.CategoryOuterwear, "white", false),
	)
	// 0.6 + 4/4*0.2 + (4-2)/4*0.2
	assert.InDelta(t, 0.9, scoring.StyleScore(&c), 1e-9)
}

func TestSimilar(t *testing.T) {
	base := combo("a", 1, time.Time{},
		item("1", types.CategoryTop, "x", false),
		item("2", types.CategoryBottom, "x", false),
		item("3", types.CategoryShoes, "x", false),
		item("4", types.CategoryAccessory, "x", false),
	)
	almost := combo("b", 1, time.Time{}, base.Items[0], base.Items[1], base.Items[2], base.Items[3],
		item("5", types.CategoryAccessory, "x", false))
	half := combo("c", 1, time.Time{}, base.Items[0], base.Items[1])

	assert.True(t, scoring.Similar(&base, &almost)) // 4/5
	assert.False(t, scoring.Similar(&base, &half))  // 2/4
	empty := types.CandidateCombination{}
	assert.False(t, scoring.Similar(&empty, &empty))
}

func TestCategoryDistributionAndFilter(t *testing.T) {
	c := combo("a", 1, time.Time{},
		item("1", types.CategoryTop, "x", false),
		item("2", types.CategoryTop, "x", false),
		item("3", types.CategoryShoes, "x", false),
	)
	assert.Equal(t, map[string]int{"top": 2, "shoes": 1}, scoring.CategoryDistribution(&c))

	c.Style = types.StyleParty
	other := combo("b", 1, time.Time{})
	other.Style = types.StyleCasual
	got := scoring.FilterByStyle([]types.CandidateCombination{c, other}, types.StyleParty)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}
