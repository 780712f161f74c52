package main

import (
	"fmt"
	"testing"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/session"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/utils"
)

func BenchmarkSessionAdd(b *testing.B) {
	ctx := &types.Context{Journal: journal.NoopJournal{}, Utils: &utils.MockUtils{}}
	s, err := session.NewSession(ctx, &session.SessionOptional{Debounce: -1, MailboxSize: 1024})
	if err != nil {
		b.Fatal(err)
	}
	defer s.Stop()

	garments := make([]types.Garment, 64)
	for i := range garments {
		garments[i] = types.Garment{ID: fmt.Sprintf("acc-%d", i), Category: types.CategoryAccessory}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Add(garments[i%len(garments)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSessionGenerate(b *testing.B) {
	ctx := &types.Context{Journal: journal.NoopJournal{}, Utils: &utils.MockUtils{}}
	rule := wideRule(3)
	opts := types.GenerationOptions{IncludeOptionalCategories: true, MaxCombinations: 200}
	s, err := session.NewSession(ctx, &session.SessionOptional{
		Debounce: -1,
		Rules:    []types.CombinationRule{rule},
		Options:  &opts,
	})
	if err != nil {
		b.Fatal(err)
	}
	defer s.Stop()

	for _, sel := range wardrobeOf(&rule, 3) {
		if _, err := s.Add(sel.Garment); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := <-s.Generate()
		if res.Err != nil {
			b.Fatal(res.Err)
		}
	}
}
