package engine

import (
	"slices"
	"testing"
	"time"

	"garden/internal/storage"
)

func TestPalettesHaveEightSymbols(t *testing.T) {
	for _, c := range Categories {
		if n := len(Palette(c)); n != 8 {
			t.Fatalf("%s palette has %d symbols, want 8", c, n)
		}
	}
}

func TestGrowPlantUsesRandIndex(t *testing.T) {
	task := storage.Task{ID: 7, Text: "Sketch", Category: string(CategoryCreative), Priority: string(PriorityLow)}
	now := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 8; i++ {
		p := growPlant(fixedRand{n: i}, task, now)
		if p.Emoji != Palette(CategoryCreative)[i] {
			t.Fatalf("index %d: emoji=%q", i, p.Emoji)
		}
		if p.Size != string(SizeSmall) || p.TaskID != 7 || p.TaskText != "Sketch" || !p.GrownAt.Equal(now) {
			t.Fatalf("unexpected plant %+v", p)
		}
		if p.ID == "" {
			t.Fatalf("plant id missing")
		}
	}
}

func TestSeededRandIsDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 20; i++ {
		if x, y := a.IntN(8), b.IntN(8); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestSeededServicesGrowTheSameGarden(t *testing.T) {
	grow := func() []string {
		svc, _, _ := newTestService(t, WithRand(NewRand(7)))
		var out []string
		for i := 0; i < 6; i++ {
			task := mustCreate(t, svc, "t", Categories[i%len(Categories)], PriorityMedium)
			out = append(out, mustComplete(t, svc, task.ID).Plant.Emoji)
		}
		return out
	}
	first, second := grow(), grow()
	if !slices.Equal(first, second) {
		t.Fatalf("seeded gardens differ: %v vs %v", first, second)
	}
	for i, emoji := range first {
		if !slices.Contains(Palette(Categories[i%len(Categories)]), emoji) {
			t.Fatalf("emoji %q not in palette of %s", emoji, Categories[i%len(Categories)])
		}
	}
}
