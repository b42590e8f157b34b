// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"

	"github.com/quartal/tritone/internal/pitch"
)

// Variant selects the game type.
type Variant string

// Game variants: transposition drills and ear-training interval drills.
const (
	VariantTranspose Variant = "transpose"
	VariantIntervals Variant = "intervals"
)

// DirectionMode is the configured direction set as a marker string:
// any combination of "+" (ascending), "-" (descending), and, for the
// intervals variant, "h" (harmonic). An empty mode means "+-".
type DirectionMode string

// Directions expands the mode into the drawable direction list.
func (m DirectionMode) Directions() []pitch.Direction {
	var out []pitch.Direction
	for _, r := range m {
		switch r {
		case '-', 'd':
			out = append(out, pitch.Descending)
		case 'h':
			out = append(out, pitch.Harmonic)
		case '+', 'a':
			out = append(out, pitch.Ascending)
		}
	}
	if len(out) == 0 {
		out = []pitch.Direction{pitch.Descending, pitch.Ascending}
	}
	return out
}

// GameConfig holds the settings of one named game. It is only changed
// between sessions, never while a session is in progress.
type GameConfig struct {
	Name       string
	Variant    Variant
	Intervals  []pitch.Interval
	Pitches    []pitch.PitchClass
	Directions DirectionMode
	Questions  int
	Autosave   bool

	// Intervals-variant settings: the first note of each played interval
	// is drawn from Center +- Spread semitones.
	Center pitch.Note
	Spread int
}

// Validate checks that the configuration can generate questions.
func (c GameConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("game name must not be empty")
	}
	if len(c.Intervals) == 0 {
		return fmt.Errorf("at least one interval is required")
	}
	switch c.Variant {
	case VariantTranspose:
		if len(c.Pitches) == 0 {
			return fmt.Errorf("at least one pitch class is required")
		}
		for _, d := range c.Directions.Directions() {
			if d == pitch.Harmonic {
				return fmt.Errorf("harmonic direction is only valid for the intervals game")
			}
		}
	case VariantIntervals:
		if c.Spread < 0 {
			return fmt.Errorf("spread must be >= 0")
		}
	default:
		return fmt.Errorf("unknown game variant %q", c.Variant)
	}
	return nil
}

// Question is one generated exercise together with its canonical answer set.
// Judging an answer is residue equality against AnswerClass; Answers holds
// the equivalent correct spellings for display.
type Question struct {
	Pitch     pitch.PitchClass
	Interval  pitch.Interval
	Direction pitch.Direction

	// Intervals variant: the two notes to sound.
	First  pitch.Note
	Second pitch.Note

	Answers     []string
	AnswerClass int
	Prompt      string
}

// ScoreEntry records one answered question. Immutable once recorded.
type ScoreEntry struct {
	At        time.Time
	Pitch     string
	Interval  string
	Direction string
	Submitted string
	Correct   bool
	LatencyMs int64
}

// Key identifies equal questions for aggregation.
func (e ScoreEntry) Key() Key {
	return Key{Pitch: e.Pitch, Direction: e.Direction, Interval: e.Interval}
}

// Score summarizes one completed session: an ordered entry sequence keyed
// by game name and session start time. Never mutated after finalization.
type Score struct {
	ID        string
	Game      string
	Session   string
	StartedAt time.Time
	EndedAt   time.Time
	Entries   []ScoreEntry
}

// Tally sums the score's entries.
func (s Score) Tally() Tally {
	var t Tally
	for _, e := range s.Entries {
		t.Total++
		if e.Correct {
			t.Correct++
		}
	}
	return t
}

// GameState is the durable unit: one game's configuration plus its full
// session history.
type GameState struct {
	Config  GameConfig
	History []Score
}

// StatsConfig filters history for reporting.
type StatsConfig struct {
	Game  string
	Since *time.Time
	Until *time.Time
	Last  int
}
