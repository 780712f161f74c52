package main

import (
	"fmt"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/session"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/utils"
)

func BenchmarkSessionAddWithJournal(b *testing.B) {
	for _, tc := range []struct {
		formatter, storage string
	}{
		{"json", "file"},
		{"string", "file"},
		{"json", "mmap"},
		{"string", "mmap"},
	} {
		b.Run(tc.formatter+"_"+tc.storage, func(b *testing.B) {
			benchJournal(b, journal.Options{
				Formatter:   tc.formatter,
				Storage:     tc.storage,
				MaxFileSize: 64 * 1024 * 1024,
			})
		})
	}
}

func benchJournal(b *testing.B, opts journal.Options) {
	dir := b.TempDir()
	u := utils.NewDefaultUtils(dir, dir, slog.LevelError, nil)
	j, err := journal.Open(opts, u)
	if err != nil {
		b.Fatalf("open journal: %v", err)
	}

	s, err := session.NewSession(&types.Context{Journal: j, Utils: u}, &session.SessionOptional{
		Debounce:    -1,
		MailboxSize: 1024,
		FlushEvery:  64,
	})
	if err != nil {
		b.Fatal(err)
	}

	garments := make([]types.Garment, 16)
	for i := range garments {
		garments[i] = types.Garment{ID: fmt.Sprintf("top-%d", i), Name: "Shirt", Category: types.CategoryTop, Color: "white"}
	}

	var memStatsStart, memStatsEnd runtime.MemStats
	runtime.ReadMemStats(&memStatsStart)
	b.ResetTimer()
	start := time.Now()

	for i := 0; i < b.N; i++ {
		if _, err := s.Add(garments[i%len(garments)]); err != nil {
			b.Fatal(err)
		}
	}
	if err := s.Flush(); err != nil {
		b.Fatal(err)
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&memStatsEnd)
	b.StopTimer()
	s.Stop()

	b.ReportMetric(float64(b.N)/elapsed.Seconds(), "adds/sec")
	b.ReportMetric(float64(memStatsEnd.TotalAlloc-memStatsStart.TotalAlloc)/float64(b.N), "bytes/add")
	b.ReportMetric(float64(memStatsEnd.NumGC-memStatsStart.NumGC), "gc_count")
}
