package combinator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

func sels(ids ...string) []types.Selection {
	out := make([]types.Selection, len(ids))
	for i, id := range ids {
		out[i] = types.Selection{GarmentID: id}
	}
	return out
}

func join(s []types.Selection) string {
	parts := make([]string, len(s))
	for i, sel := range s {
		parts[i] = sel.GarmentID
	}
	return strings.Join(parts, "")
}

func TestSubsetsOrder(t *testing.T) {
	var got []string
	for sub := range subsets(sels("a", "b", "c"), 2) {
		got = append(got, join(sub))
	}
	assert.Equal(t, []string{"", "a", "b", "c", "ab", "ac", "bc"}, got)
}

func TestSubsetsCapAboveLength(t *testing.T) {
	var got []string
	for sub := range subsets(sels("a", "b"), 5) {
		got = append(got, join(sub))
	}
	assert.Equal(t, []string{"", "a", "b", "ab"}, got)

	got = got[:0]
	for sub := range subsets(nil, 3) {
		got = append(got, join(sub))
	}
	assert.Equal(t, []string{""}, got)
}

func TestCrossProductOrder(t *testing.T) {
	pools := []pool{
		{items: sels("a", "b"), maxK: 1},
		{items: sels("x"), maxK: 1},
	}
	var got []string
	for combo := range crossProduct(pools) {
		got = append(got, join(combo))
	}
	assert.Equal(t, []string{"", "x", "a", "ax", "b", "bx"}, got)
}

func TestCrossProductStopsEarly(t *testing.T) {
	pools := []pool{
		{items: sels("a", "b", "c", "d"), maxK: 4},
		{items: sels("w", "x", "y", "z"), maxK: 4},
	}
	n := 0
	for range crossProduct(pools) {
		n++
		if n == 7 {
			break
		}
	}
	assert.Equal(t, 7, n)

	var got []string
	for combo := range crossProduct(nil) {
		got = append(got, join(combo))
	}
	assert.Equal(t, []string{""}, got)
}
