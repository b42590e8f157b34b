// Package generator draws quiz questions from a game configuration.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/quartal/tritone/internal/model"
	"github.com/quartal/tritone/internal/pitch"
)

// Generator produces randomized questions. One Generator drives one session;
// it is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed. Given the same seed and
// configuration the question sequence is reproducible.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next draws one question uniformly from the cross-product of the config's
// pitches, intervals, and directions, and computes the canonical answer set
// eagerly so judging is a residue comparison.
func (g *Generator) Next(cfg model.GameConfig) (model.Question, error) {
	if err := cfg.Validate(); err != nil {
		return model.Question{}, fmt.Errorf("cannot generate question: %w", err)
	}
	switch cfg.Variant {
	case model.VariantIntervals:
		return g.nextInterval(cfg), nil
	default:
		return g.nextTranspose(cfg), nil
	}
}

func (g *Generator) nextTranspose(cfg model.GameConfig) model.Question {
	// Draw order is fixed (pitch, interval, direction) so seeded runs are
	// reproducible.
	pc := cfg.Pitches[g.rnd.Intn(len(cfg.Pitches))]
	iv := cfg.Intervals[g.rnd.Intn(len(cfg.Intervals))]
	dirs := cfg.Directions.Directions()
	dir := dirs[g.rnd.Intn(len(dirs))]

	target := pc.Transpose(iv, dir)
	return model.Question{
		Pitch:       pc,
		Interval:    iv,
		Direction:   dir,
		Answers:     pitch.Spellings(target.Semitone()),
		AnswerClass: target.Semitone(),
		Prompt:      fmt.Sprintf("%s %s %s = ?", pc, dir, iv),
	}
}

func (g *Generator) nextInterval(cfg model.GameConfig) model.Question {
	first := pitch.NewNote(int(cfg.Center) + g.rnd.Intn(2*cfg.Spread+1) - cfg.Spread)
	iv := cfg.Intervals[g.rnd.Intn(len(cfg.Intervals))]
	dirs := cfg.Directions.Directions()
	dir := dirs[g.rnd.Intn(len(dirs))]

	if dir == pitch.Harmonic && g.rnd.Intn(2) == 0 {
		// Keep the drawn note's register: randomly make it the top voice
		// instead of the bottom one.
		first = first.Transpose(iv, pitch.Descending)
	}
	second := first.Transpose(iv, dir)
	return model.Question{
		Pitch:       first.PitchClass(),
		Interval:    iv,
		Direction:   dir,
		First:       first,
		Second:      second,
		Answers:     pitch.IntervalSpellings(iv.Class()),
		AnswerClass: iv.Class(),
		Prompt:      fmt.Sprintf("%s %s %s = ?", first, dir, second),
	}
}
