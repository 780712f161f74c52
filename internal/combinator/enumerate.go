// Package combinator enumerates the candidate combinations a selection set
// allows under a list of combination rules.
package combinator

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/rules"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/scoring"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// SeasonAll marks a candidate whose garments carry no season restriction.
const SeasonAll = "all"

// ctxCheckEvery is how many visited subsets pass between context checks.
const ctxCheckEvery = 1024

// ScoreFunc rates a candidate. scoring.Score is the default.
type ScoreFunc func(items []types.CombinationItem, opts types.GenerationOptions) (float64, types.StyleLabel)

// Enumerate returns the ranked candidates that selections allow under rs.
//
// Rules are visited in order and enumeration stops as soon as
// opts.MaxCombinations candidates were accepted. The result is sorted by
// score, highest first, with ties kept in enumeration order. No satisfiable
// rule gives an empty result and a nil error.
func Enumerate(
	ctx context.Context,
	selections []types.Selection,
	rs []types.CombinationRule,
	opts types.GenerationOptions,
	score ScoreFunc,
) ([]types.CandidateCombination, error) {
	if err := rules.ValidateOptions(&opts); err != nil {
		return nil, err
	}
	for i := range rs {
		if err := rules.Validate(&rs[i]); err != nil {
			return nil, err
		}
	}
	if score == nil {
		score = scoring.Score
	}

	e := &enumerator{
		ctx:        ctx,
		byCategory: partition(selections),
		opts:       opts,
		limit:      rules.MaxCombinations(opts),
		score:      score,
		now:        time.Now(),
	}

	for i := range rs {
		if e.full() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.rule(&rs[i]); err != nil {
			return nil, err
		}
	}

	out := e.accepted
	slices.SortStableFunc(out, func(a, b types.CandidateCombination) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(out) > e.limit {
		out = out[:e.limit]
	}
	return out, nil
}

type enumerator struct {
	ctx        context.Context
	byCategory map[types.Category][]types.Selection
	opts       types.GenerationOptions
	limit      int
	score      ScoreFunc
	now        time.Time

	accepted []types.CandidateCombination
	visited  int
}

func (e *enumerator) full() bool {
	return len(e.accepted) >= e.limit
}

func (e *enumerator) rule(rule *types.CombinationRule) error {
	for _, c := range rule.RequiredCategories {
		if len(e.byCategory[c]) == 0 {
			return nil
		}
	}

	required := e.pools(rule, rule.RequiredCategories)
	var optional []pool
	if e.opts.IncludeOptionalCategories {
		optional = e.pools(rule, rule.OptionalCategories)
	}

	combined := make([]types.Selection, 0, 16)
	for req := range crossProduct(required) {
		for opt := range crossProduct(optional) {
			if err := e.tick(); err != nil {
				return err
			}
			combined = append(append(combined[:0], req...), opt...)
			if cand, ok := e.build(rule, combined); ok {
				e.accepted = append(e.accepted, cand)
				if e.full() {
					return nil
				}
			}
		}
	}
	return nil
}

func (e *enumerator) tick() error {
	e.visited++
	if e.visited%ctxCheckEvery == 0 {
		if err := e.ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (e *enumerator) pools(rule *types.CombinationRule, cats []types.Category) []pool {
	out := make([]pool, len(cats))
	for i, c := range cats {
		out[i] = pool{items: e.byCategory[c], maxK: rule.MaxFor(c)}
	}
	return out
}

// build validates sels against rule and turns them into a scored candidate.
func (e *enumerator) build(rule *types.CombinationRule, sels []types.Selection) (types.CandidateCombination, bool) {
	if !Valid(rule, sels) {
		return types.CandidateCombination{}, false
	}

	var season string
	if e.opts.RespectSeasonality {
		var ok bool
		if season, ok = SharedSeason(sels); !ok {
			return types.CandidateCombination{}, false
		}
	}

	items := Layer(sels)
	score, style := e.score(items, e.opts)
	return types.CandidateCombination{
		ID:        CombinationID(items),
		Name:      fmt.Sprintf("%s %d items", rule.Name, len(items)),
		RuleID:    rule.ID,
		Items:     items,
		Score:     score,
		Style:     style,
		Season:    season,
		CreatedAt: e.now,
	}, true
}

// Valid checks the size bounds, the conflict groups and the per-category caps
// of rule, in that order.
func Valid(rule *types.CombinationRule, sels []types.Selection) bool {
	if len(sels) < rule.MinItems || len(sels) > rule.MaxItems {
		return false
	}

	counts := make(map[types.Category]int, len(sels))
	for _, s := range sels {
		counts[s.Category]++
	}

	for _, group := range rule.ConflictGroups {
		represented := 0
		for _, c := range group {
			if counts[c] > 0 {
				represented++
			}
		}
		if represented > 1 {
			return false
		}
	}

	for c, n := range counts {
		if n > rule.MaxFor(c) {
			return false
		}
	}
	return true
}

// Layer places every selection: base layer of its category plus its index
// among the candidate's garments of that category. Items come back sorted by
// layer; equal layers keep their input order.
func Layer(sels []types.Selection) []types.CombinationItem {
	seen := make(map[types.Category]int, len(sels))
	items := make([]types.CombinationItem, len(sels))
	for i, s := range sels {
		items[i] = types.CombinationItem{
			GarmentID: s.GarmentID,
			Garment:   s.Garment,
			Layer:     s.Category.BaseLayer() + seen[s.Category],
			Position:  s.Position,
		}
		seen[s.Category]++
	}
	slices.SortStableFunc(items, func(a, b types.CombinationItem) int {
		return a.Layer - b.Layer
	})
	return items
}

// CombinationID is derived from the sorted garment IDs so that the same set of
// garments always gets the same ID.
func CombinationID(items []types.CombinationItem) string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.GarmentID
	}
	slices.Sort(ids)
	return "combo-" + strings.Join(ids, "-")
}

// SharedSeason returns a season every garment can be worn in. Garments without
// seasons fit any season; when none declares one the result is SeasonAll.
func SharedSeason(sels []types.Selection) (string, bool) {
	var common []string
	restricted := false
	for _, s := range sels {
		seasons := normalizeSeasons(s.Garment.Seasons)
		if len(seasons) == 0 {
			continue
		}
		if !restricted {
			common = seasons
			restricted = true
			continue
		}
		common = slices.DeleteFunc(common, func(season string) bool {
			return !slices.Contains(seasons, season)
		})
		if len(common) == 0 {
			return "", false
		}
	}
	if !restricted {
		return SeasonAll, true
	}
	if len(common) == 0 {
		return "", false
	}
	return common[0], true
}

func normalizeSeasons(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// partition groups selections by category, each group ordered by priority.
func partition(selections []types.Selection) map[types.Category][]types.Selection {
	sorted := slices.Clone(selections)
	slices.SortStableFunc(sorted, func(a, b types.Selection) int {
		switch {
		case a.Priority < b.Priority:
			return -1
		case a.Priority > b.Priority:
			return 1
		}
		return 0
	})
	out := make(map[types.Category][]types.Selection)
	for _, s := range sorted {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}
