package model

import (
	"testing"
	"time"
)

func entry(pc, dir, iv string, correct bool) ScoreEntry {
	return ScoreEntry{Pitch: pc, Direction: dir, Interval: iv, Correct: correct}
}

func TestAggregateMerge(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	s1 := Score{
		Game:      "drill",
		StartedAt: t0,
		EndedAt:   t0.Add(5 * time.Minute),
		Entries: []ScoreEntry{
			entry("C", "+", "P5", true),
			entry("C", "+", "P5", false),
			entry("E", "-", "m3", true),
		},
	}
	s2 := Score{
		Game:      "drill",
		StartedAt: t0.Add(time.Hour),
		EndedAt:   t0.Add(time.Hour + 4*time.Minute),
		Entries: []ScoreEntry{
			entry("C", "+", "P5", true),
		},
	}

	agg := NewAggregate("drill")
	agg.Merge(s1)
	agg.Merge(s2)

	if agg.Sessions != 2 {
		t.Fatalf("sessions = %d, want 2", agg.Sessions)
	}
	if !agg.StartedAt.Equal(t0) || !agg.EndedAt.Equal(t0.Add(time.Hour+4*time.Minute)) {
		t.Fatalf("time range %v --> %v", agg.StartedAt, agg.EndedAt)
	}
	total := agg.Total()
	if total.Correct != 3 || total.Total != 4 {
		t.Fatalf("total = %+v, want 3/4", total)
	}
	p5 := agg.Tallies[Key{Pitch: "C", Direction: "+", Interval: "P5"}]
	if p5.Correct != 2 || p5.Total != 3 {
		t.Fatalf("C+P5 tally = %+v, want 2/3", p5)
	}
}

func TestAggregateSelectFilter(t *testing.T) {
	agg := NewAggregate("drill")
	agg.Add(entry("C", "+", "P5", true))
	agg.Add(entry("C", "-", "P5", false))
	agg.Add(entry("E", "+", "m3", true))

	if got := agg.Select(Filter{Intervals: []string{"P5"}}); got.Total != 2 || got.Correct != 1 {
		t.Fatalf("P5 selection = %+v, want 1/2", got)
	}
	if got := agg.Select(Filter{Intervals: []string{"P5"}, Directions: []string{"+"}}); got.Total != 1 || got.Correct != 1 {
		t.Fatalf("+P5 selection = %+v, want 1/1", got)
	}
	if got := agg.Select(Filter{Pitches: []string{"G"}}); got.Total != 0 {
		t.Fatalf("G selection = %+v, want empty", got)
	}
	if got := agg.Select(Filter{}); got.Total != 3 {
		t.Fatalf("unfiltered selection = %+v, want 3 total", got)
	}
}

func TestAggregateKeysOrder(t *testing.T) {
	agg := NewAggregate("drill")
	agg.Add(entry("C", "+", "P5", true))
	agg.Add(entry("C", "+", "m3", true))
	agg.Add(entry("C", "-", "m3", true))
	agg.Add(entry("D", "+", "m3", true))

	keys := agg.Keys()
	want := []Key{
		{Pitch: "C", Direction: "-", Interval: "m3"},
		{Pitch: "C", Direction: "+", Interval: "m3"},
		{Pitch: "D", Direction: "+", Interval: "m3"},
		{Pitch: "C", Direction: "+", Interval: "P5"},
	}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d] = %v, want %v", i, keys[i], want[i])
		}
	}
}

func TestDirectionModeExpansion(t *testing.T) {
	if got := DirectionMode("+").Directions(); len(got) != 1 {
		t.Fatalf("mode + = %v", got)
	}
	if got := DirectionMode("").Directions(); len(got) != 2 {
		t.Fatalf("empty mode = %v, want ascending and descending", got)
	}
	if got := DirectionMode("adh").Directions(); len(got) != 3 {
		t.Fatalf("mode adh = %v", got)
	}
}

func TestGameConfigValidate(t *testing.T) {
	cfg := GameConfig{Name: "drill", Variant: VariantTranspose}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("config without intervals should fail")
	}
	cfg.Intervals = mustIntervals(t, "m3", "P5")
	if err := cfg.Validate(); err == nil {
		t.Fatalf("transpose config without pitches should fail")
	}
	cfg.Pitches = mustPitches(t, "C", "E", "G")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	cfg.Directions = "h"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("harmonic transpose config should fail")
	}
}
