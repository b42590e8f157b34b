package model

import (
	"testing"

	"github.com/quartal/tritone/internal/pitch"
)

func mustIntervals(t *testing.T, names ...string) []pitch.Interval {
	t.Helper()
	out := make([]pitch.Interval, 0, len(names))
	for _, name := range names {
		iv, err := pitch.ParseInterval(name)
		if err != nil {
			t.Fatalf("parse interval %q: %v", name, err)
		}
		out = append(out, iv)
	}
	return out
}

func mustPitches(t *testing.T, names ...string) []pitch.PitchClass {
	t.Helper()
	out := make([]pitch.PitchClass, 0, len(names))
	for _, name := range names {
		pc, err := pitch.ParsePitchClass(name)
		if err != nil {
			t.Fatalf("parse pitch %q: %v", name, err)
		}
		out = append(out, pc)
	}
	return out
}
