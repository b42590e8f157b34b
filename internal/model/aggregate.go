package model

import (
	"sort"
	"time"

	"github.com/quartal/tritone/internal/pitch"
)

// Tally is a correct/total answer count.
type Tally struct {
	Correct int
	Total   int
}

// Accuracy returns the correct ratio in [0,1]; an empty tally counts as 0.
func (t Tally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

// Add merges another tally.
func (t *Tally) Add(o Tally) {
	t.Correct += o.Correct
	t.Total += o.Total
}

// Key identifies one question shape inside an aggregate: pitch label,
// direction marker, interval label.
type Key struct {
	Pitch     string
	Direction string
	Interval  string
}

// Filter selects aggregate keys by label subsets; an empty slice matches
// everything on that axis.
type Filter struct {
	Pitches    []string
	Directions []string
	Intervals  []string
}

// Match reports whether the key passes the filter.
func (f Filter) Match(k Key) bool {
	return matchAxis(f.Pitches, k.Pitch) &&
		matchAxis(f.Directions, k.Direction) &&
		matchAxis(f.Intervals, k.Interval)
}

func matchAxis(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// Aggregate merges ScoreEntries from one or more sessions into per-question
// tallies over a time range.
type Aggregate struct {
	Game      string
	StartedAt time.Time
	EndedAt   time.Time
	Sessions  int
	Tallies   map[Key]Tally
}

// NewAggregate returns an empty aggregate for a game.
func NewAggregate(game string) Aggregate {
	return Aggregate{Game: game, Tallies: map[Key]Tally{}}
}

// Merge folds a whole session into the aggregate, widening the covered time
// range.
func (a *Aggregate) Merge(s Score) {
	if a.Tallies == nil {
		a.Tallies = map[Key]Tally{}
	}
	a.Sessions++
	if a.StartedAt.IsZero() || s.StartedAt.Before(a.StartedAt) {
		a.StartedAt = s.StartedAt
	}
	if s.EndedAt.After(a.EndedAt) {
		a.EndedAt = s.EndedAt
	}
	for _, e := range s.Entries {
		a.Add(e)
	}
}

// Add folds a single entry into the aggregate.
func (a *Aggregate) Add(e ScoreEntry) {
	if a.Tallies == nil {
		a.Tallies = map[Key]Tally{}
	}
	t := a.Tallies[e.Key()]
	t.Total++
	if e.Correct {
		t.Correct++
	}
	a.Tallies[e.Key()] = t
}

// Total sums every tally.
func (a Aggregate) Total() Tally {
	var t Tally
	for _, v := range a.Tallies {
		t.Add(v)
	}
	return t
}

// Select sums the tallies of keys passing the filter.
func (a Aggregate) Select(f Filter) Tally {
	var t Tally
	for k, v := range a.Tallies {
		if f.Match(k) {
			t.Add(v)
		}
	}
	return t
}

// Keys returns the aggregate keys in a stable musical order: interval class,
// then direction, then pitch residue; unparseable labels sort last,
// lexically.
func (a Aggregate) Keys() []Key {
	keys := make([]Key, 0, len(a.Tallies))
	for k := range a.Tallies {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := keyRank(keys[i]), keyRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] != keys[j] && keyLabel(keys[i]) < keyLabel(keys[j])
	})
	return keys
}

func keyRank(k Key) int {
	rank := 1 << 20
	if iv, err := pitch.ParseInterval(k.Interval); err == nil {
		rank = iv.Class() << 8
	}
	switch k.Direction {
	case "-":
		rank += 0 << 6
	case "+":
		rank += 1 << 6
	case "h":
		rank += 2 << 6
	}
	if pc, err := pitch.ParsePitchClass(k.Pitch); err == nil {
		rank += pc.Semitone()
	}
	return rank
}

func keyLabel(k Key) string {
	return k.Pitch + k.Direction + k.Interval
}
