// Package rules holds the combination rules shipped with the engine and the
// validation applied to caller supplied rules and options.
package rules

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// DefaultMaxCombinations is used when options ask for zero or fewer results.
const DefaultMaxCombinations = 20

var ruleValidate *validator.Validate

func init() {
	ruleValidate = validator.New()
	_ = ruleValidate.RegisterValidation("category", validateCategory)
}

func validateCategory(fl validator.FieldLevel) bool {
	return types.Category(fl.Field().Uint()).Valid()
}

// DefaultRules returns a fresh copy of the three built-in rules.
func DefaultRules() []types.CombinationRule {
	dressConflicts := func() [][]types.Category {
		return [][]types.Category{
			{types.CategoryDress, types.CategoryTop},
			{types.CategoryDress, types.CategoryBottom},
		}
	}
	return []types.CombinationRule{
		{
			ID:                 "casual-complete",
			Name:               "Casual Complete",
			RequiredCategories: []types.Category{types.CategoryTop, types.CategoryBottom, types.CategoryShoes},
			OptionalCategories: []types.Category{types.CategoryOuterwear, types.CategoryAccessory},
			ConflictGroups:     dressConflicts(),
			MaxPerCategory: map[types.Category]int{
				types.CategoryTop:       2,
				types.CategoryBottom:    1,
				types.CategoryDress:     1,
				types.CategoryShoes:     1,
				types.CategoryOuterwear: 1,
				types.CategoryAccessory: 3,
			},
			MinItems: 3,
			MaxItems: 8,
		},
		{
			ID:                 "dress-outfit",
			Name:               "Dress Outfit",
			RequiredCategories: []types.Category{types.CategoryDress, types.CategoryShoes},
			OptionalCategories: []types.Category{types.CategoryOuterwear, types.CategoryAccessory},
			ConflictGroups:     dressConflicts(),
			MaxPerCategory: map[types.Category]int{
				types.CategoryDress:     1,
				types.CategoryShoes:     1,
				types.CategoryOuterwear: 1,
				types.CategoryAccessory: 3,
			},
			MinItems: 2,
			MaxItems: 6,
		},
		{
			ID:                 "layered-look",
			Name:               "Layered Look",
			RequiredCategories: []types.Category{types.CategoryTop, types.CategoryBottom, types.CategoryOuterwear, types.CategoryShoes},
			OptionalCategories: []types.Category{types.CategoryAccessory},
			ConflictGroups:     dressConflicts(),
			MaxPerCategory: map[types.Category]int{
				types.CategoryTop:       2,
				types.CategoryBottom:    1,
				types.CategoryOuterwear: 1,
				types.CategoryShoes:     1,
				types.CategoryAccessory: 2,
			},
			MinItems: 4,
			MaxItems: 7,
		},
	}
}

// DefaultOptions returns the generation options a new session starts with.
func DefaultOptions() types.GenerationOptions {
	return types.GenerationOptions{
		IncludeOptionalCategories: true,
		PrioritizeFavorites:       false,
		RespectSeasonality:        false,
		MaxCombinations:           DefaultMaxCombinations,
	}
}

// Validate checks a rule before it is registered. Failures wrap
// types.ErrInvalidConfiguration.
func Validate(rule *types.CombinationRule) error {
	if err := ruleValidate.Struct(rule); err != nil {
		return fmt.Errorf("%w: rule %q: %v", types.ErrInvalidConfiguration, rule.ID, err)
	}
	for _, c := range rule.RequiredCategories {
		if slices.Contains(rule.OptionalCategories, c) {
			return fmt.Errorf("%w: rule %q: category %s is both required and optional", types.ErrInvalidConfiguration, rule.ID, c)
		}
	}
	for _, group := range rule.ConflictGroups {
		if conflictsWithin(rule.RequiredCategories, group) {
			return fmt.Errorf("%w: rule %q: required categories conflict in group %v", types.ErrInvalidConfiguration, rule.ID, group)
		}
	}
	return nil
}

// ValidateAll validates every rule and rejects duplicate IDs.
func ValidateAll(rs []types.CombinationRule) error {
	seen := make(map[string]struct{}, len(rs))
	for i := range rs {
		if err := Validate(&rs[i]); err != nil {
			return err
		}
		if _, dup := seen[rs[i].ID]; dup {
			return fmt.Errorf("%w: duplicate rule id %q", types.ErrInvalidConfiguration, rs[i].ID)
		}
		seen[rs[i].ID] = struct{}{}
	}
	return nil
}

// ValidateOptions checks generation options.
func ValidateOptions(opts *types.GenerationOptions) error {
	if err := ruleValidate.Struct(opts); err != nil {
		return fmt.Errorf("%w: options: %v", types.ErrInvalidConfiguration, err)
	}
	if opts.StylePreference != nil && !opts.StylePreference.Valid() {
		return fmt.Errorf("%w: options: unknown style preference", types.ErrInvalidConfiguration)
	}
	return nil
}

// MaxCombinations resolves the result cap for opts.
func MaxCombinations(opts types.GenerationOptions) int {
	if opts.MaxCombinations <= 0 {
		return DefaultMaxCombinations
	}
	return opts.MaxCombinations
}

// MinItems is the smallest MinItems across rules; ok is false without rules.
func MinItems(rs []types.CombinationRule) (least int, ok bool) {
	for i, r := range rs {
		if i == 0 || r.MinItems < least {
			least = r.MinItems
		}
	}
	return least, len(rs) > 0
}

// Clone deep-copies a rule so callers can't alias its slices and map.
func Clone(r types.CombinationRule) types.CombinationRule {
	out := r
	out.RequiredCategories = slices.Clone(r.RequiredCategories)
	out.OptionalCategories = slices.Clone(r.OptionalCategories)
	if r.ConflictGroups != nil {
		out.ConflictGroups = make([][]types.Category, len(r.ConflictGroups))
		for i, g := range r.ConflictGroups {
			out.ConflictGroups[i] = slices.Clone(g)
		}
	}
	if r.MaxPerCategory != nil {
		out.MaxPerCategory = make(map[types.Category]int, len(r.MaxPerCategory))
		for k, v := range r.MaxPerCategory {
			out.MaxPerCategory[k] = v
		}
	}
	return out
}

// CloneAll deep-copies a rule list.
func CloneAll(rs []types.CombinationRule) []types.CombinationRule {
	if rs == nil {
		return nil
	}
	out := make([]types.CombinationRule, len(rs))
	for i := range rs {
		out[i] = Clone(rs[i])
	}
	return out
}

func conflictsWithin(required, group []types.Category) bool {
	n := 0
	for _, c := range group {
		if slices.Contains(required, c) {
			n++
		}
	}
	return n > 1
}
