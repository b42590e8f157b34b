package generator

import (
	"testing"

	"github.com/quartal/tritone/internal/model"
	"github.com/quartal/tritone/internal/pitch"
)

func drillConfig(t *testing.T) model.GameConfig {
	t.Helper()
	var ivs []pitch.Interval
	for _, label := range []string{"m3", "P4", "P5"} {
		iv, err := pitch.ParseInterval(label)
		if err != nil {
			t.Fatalf("ParseInterval(%q): %v", label, err)
		}
		ivs = append(ivs, iv)
	}
	var pcs []pitch.PitchClass
	for _, label := range []string{"C", "E", "Ab"} {
		pc, err := pitch.ParsePitchClass(label)
		if err != nil {
			t.Fatalf("ParsePitchClass(%q): %v", label, err)
		}
		pcs = append(pcs, pc)
	}
	return model.GameConfig{
		Name:       "drill",
		Variant:    model.VariantTranspose,
		Intervals:  ivs,
		Pitches:    pcs,
		Directions: "+-",
	}
}

func TestSeededSequenceIsReproducible(t *testing.T) {
	cfg := drillConfig(t)
	a := NewWithSeed(42)
	b := NewWithSeed(42)
	for i := 0; i < 20; i++ {
		qa, err := a.Next(cfg)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		qb, err := b.Next(cfg)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if qa.Prompt != qb.Prompt {
			t.Fatalf("question %d diverged: %q vs %q", i, qa.Prompt, qb.Prompt)
		}
	}
}

func TestTransposeQuestionIsConsistent(t *testing.T) {
	cfg := drillConfig(t)
	g := NewWithSeed(7)
	for i := 0; i < 50; i++ {
		q, err := g.Next(cfg)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		want := q.Pitch.Transpose(q.Interval, q.Direction).Semitone()
		if q.AnswerClass != want {
			t.Fatalf("question %d: AnswerClass = %d, want %d", i, q.AnswerClass, want)
		}
		if len(q.Answers) == 0 {
			t.Fatalf("question %d: no answer spellings", i)
		}
		for _, label := range q.Answers {
			pc, err := pitch.ParsePitchClass(label)
			if err != nil {
				t.Fatalf("question %d: bad spelling %q: %v", i, label, err)
			}
			if pc.Semitone() != q.AnswerClass {
				t.Fatalf("question %d: spelling %q has class %d, want %d", i, label, pc.Semitone(), q.AnswerClass)
			}
		}
	}
}

func TestIntervalQuestionStaysNearCenter(t *testing.T) {
	iv, err := pitch.ParseInterval("P5")
	if err != nil {
		t.Fatalf("ParseInterval: %v", err)
	}
	cfg := model.GameConfig{
		Name:       "ear",
		Variant:    model.VariantIntervals,
		Intervals:  []pitch.Interval{iv},
		Directions: "+-h",
		Center:     pitch.NewNote(60),
		Spread:     5,
	}
	g := NewWithSeed(7)
	for i := 0; i < 100; i++ {
		q, err := g.Next(cfg)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		gap := int(q.Second) - int(q.First)
		if gap < 0 {
			gap = -gap
		}
		if q.Direction == pitch.Harmonic || q.Direction == pitch.Ascending || q.Direction == pitch.Descending {
			if gap != 7 {
				t.Fatalf("question %d: gap = %d, want 7", i, gap)
			}
		}
		if q.AnswerClass != 7 {
			t.Fatalf("question %d: AnswerClass = %d", i, q.AnswerClass)
		}
		// First note is within spread of the center, unless the harmonic
		// shuffle moved it down by the interval.
		low, high := 60-5-7, 60+5
		if int(q.First) < low || int(q.First) > high {
			t.Fatalf("question %d: first note %d out of range", i, q.First)
		}
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	g := NewWithSeed(1)
	if _, err := g.Next(model.GameConfig{Name: "x"}); err == nil {
		t.Fatalf("want error for config without intervals")
	}
}
