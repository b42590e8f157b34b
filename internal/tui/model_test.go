package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quartal/tritone/internal/generator"
	"github.com/quartal/tritone/internal/model"
	"github.com/quartal/tritone/internal/pitch"
	"github.com/quartal/tritone/internal/session"
)

func startedModel(t *testing.T, questions int) *Model {
	t.Helper()
	iv, err := pitch.ParseInterval("P5")
	if err != nil {
		t.Fatalf("ParseInterval: %v", err)
	}
	pc, err := pitch.ParsePitchClass("C")
	if err != nil {
		t.Fatalf("ParsePitchClass: %v", err)
	}
	cfg := model.GameConfig{
		Name:       "fifths",
		Variant:    model.VariantTranspose,
		Intervals:  []pitch.Interval{iv},
		Pitches:    []pitch.PitchClass{pc},
		Directions: "+",
	}
	engine, err := session.New(cfg, generator.NewWithSeed(1), nil, nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	first, err := engine.Start(questions)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return NewModel(engine, first)
}

func (m *Model) submit(t *testing.T, raw string) *Model {
	t.Helper()
	m.input.SetValue(raw)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(*Model)
}

func TestTranscriptFlow(t *testing.T) {
	m := startedModel(t, 2)
	if got := m.Transcript(); len(got) != 1 || !strings.Contains(got[0], "C + P5 = ?") {
		t.Fatalf("initial transcript = %v", got)
	}

	m = m.submit(t, "G")
	out := strings.Join(m.Transcript(), "\n")
	if !strings.Contains(out, "ok (+1)") {
		t.Fatalf("correct answer not acknowledged: %q", out)
	}

	m = m.submit(t, "F#")
	out = strings.Join(m.Transcript(), "\n")
	if !strings.Contains(out, "no! correct: G") {
		t.Fatalf("wrong answer feedback missing: %q", out)
	}
	if !m.Done() {
		t.Fatalf("session should be done after 2 answers")
	}
	if !strings.Contains(out, ":: fifths ::") {
		t.Fatalf("summary missing: %q", out)
	}
}

func TestInvalidInputKeepsQuestion(t *testing.T) {
	m := startedModel(t, 1)
	m = m.submit(t, "banana")
	out := strings.Join(m.Transcript(), "\n")
	if !strings.Contains(out, "banana") {
		t.Fatalf("echo missing: %q", out)
	}
	if m.Done() {
		t.Fatalf("parse failure ended the session")
	}
	if answered, _ := m.engine.Progress(); answered != 0 {
		t.Fatalf("parse failure consumed an attempt")
	}
}

func TestFooter(t *testing.T) {
	m := startedModel(t, 3)
	if got := m.footer(); got != "Question 1/3 · accuracy 0%" {
		t.Fatalf("footer = %q", got)
	}
	m = m.submit(t, "G")
	if got := m.footer(); got != "Question 2/3 · accuracy 100%" {
		t.Fatalf("footer = %q", got)
	}
}
