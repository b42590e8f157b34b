// Package session drives one play session from first question to final
// score.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quartal/tritone/internal/generator"
	"github.com/quartal/tritone/internal/model"
	"github.com/quartal/tritone/internal/parse"
	"github.com/quartal/tritone/internal/pitch"
	"github.com/quartal/tritone/internal/playback"
	"github.com/quartal/tritone/internal/store"
)

// Phase is the session state: AwaitingStart -> InProgress -> Completed.
type Phase int

// Session phases.
const (
	AwaitingStart Phase = iota
	InProgress
	Completed
)

func (p Phase) String() string {
	switch p {
	case AwaitingStart:
		return "awaiting start"
	case InProgress:
		return "in progress"
	default:
		return "completed"
	}
}

// ResponseKind discriminates what a Submit call produced.
type ResponseKind int

// Response kinds.
const (
	// ResponseQuestion poses a question (from Start or ?again).
	ResponseQuestion ResponseKind = iota
	// ResponseCorrect and ResponseIncorrect judge an answer and carry the
	// next question unless the session completed.
	ResponseCorrect
	ResponseIncorrect
	// ResponseCommand carries command output; no attempt was consumed.
	ResponseCommand
	// ResponseInvalid re-poses the current question after a parse failure;
	// no attempt was consumed.
	ResponseInvalid
	// ResponseCompleted carries the finalized score.
	ResponseCompleted
)

// Response is the discriminated result of Start and Submit.
type Response struct {
	Kind     ResponseKind
	Question *model.Question
	Correct  bool
	Expected []string
	Output   string
	Score    *model.Score
}

// Engine is the state machine of one session. It owns its GameState
// exclusively; a second session over the same game name is undefined.
type Engine struct {
	cfg      model.GameConfig
	gen      *generator.Generator
	store    *store.Store
	player   playback.Player
	commands *CommandSet

	phase    Phase
	target   int
	answered int
	session  string

	current model.Question
	posedAt time.Time

	startedAt time.Time
	entries   []model.ScoreEntry
	final     *model.Score

	quitRequested bool
}

// New builds an engine for one session over the given game. The default
// command set is registered; the config is installed into the store so
// commands like ?save operate on it.
func New(cfg model.GameConfig, gen *generator.Generator, st *store.Store, player playback.Player) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if player == nil {
		player = playback.Null{}
	}
	e := &Engine{
		cfg:      cfg,
		gen:      gen,
		store:    st,
		player:   player,
		commands: NewCommandSet(),
	}
	if st != nil {
		st.SetConfig(cfg)
	}
	if err := RegisterDefaults(e.commands); err != nil {
		return nil, err
	}
	return e, nil
}

// Phase returns the current session phase.
func (e *Engine) Phase() Phase { return e.phase }

// Question returns the currently posed question.
func (e *Engine) Question() model.Question { return e.current }

// Config returns the session's (immutable for its lifetime) game config.
func (e *Engine) Config() model.GameConfig { return e.cfg }

// Progress returns answered and target question counts.
func (e *Engine) Progress() (answered, target int) { return e.answered, e.target }

// Tally sums the entries recorded so far.
func (e *Engine) Tally() model.Tally {
	var t model.Tally
	for _, en := range e.entries {
		t.Total++
		if en.Correct {
			t.Correct++
		}
	}
	return t
}

// Score returns the finalized score, or nil before completion.
func (e *Engine) Score() *model.Score { return e.final }

// Start begins a session of n questions and poses the first one. Fails with
// *StateError unless the session is in AwaitingStart.
func (e *Engine) Start(n int) (Response, error) {
	if e.phase != AwaitingStart {
		return Response{}, &StateError{Op: "start", Phase: e.phase}
	}
	if n <= 0 {
		return Response{}, fmt.Errorf("question count must be > 0")
	}
	e.phase = InProgress
	e.target = n
	e.startedAt = time.Now()
	e.session = fmt.Sprintf("%s %s", e.cfg.Name, e.startedAt.Format("02.01.2006 15:04"))
	return e.pose()
}

// Submit feeds one line of input to the session. Parse failures are returned
// as a *parse.Error alongside a ResponseInvalid that re-poses the current
// question unchanged; they never consume an attempt or count as a wrong
// answer. Commands execute without consuming an attempt. Domain values are
// judged, tallied, and followed by the next question or completion.
func (e *Engine) Submit(raw string) (Response, error) {
	if e.phase != InProgress {
		return Response{}, &StateError{Op: "submit", Phase: e.phase}
	}
	res, err := parse.Parse(raw, e.expectedKind())
	if err != nil {
		q := e.current
		return Response{Kind: ResponseInvalid, Question: &q}, err
	}
	if res.Type == parse.ResultCommand {
		return e.runCommand(res.Command)
	}
	return e.judge(raw, res)
}

func (e *Engine) expectedKind() parse.Kind {
	if e.cfg.Variant == model.VariantIntervals {
		return parse.KindInterval
	}
	return parse.KindPitch
}

func (e *Engine) judge(raw string, res parse.Result) (Response, error) {
	var submittedClass int
	switch res.Kind {
	case parse.KindInterval:
		submittedClass = res.Interval.Class()
	default:
		submittedClass = res.Pitch.Semitone()
	}
	correct := submittedClass == e.current.AnswerClass

	entry := model.ScoreEntry{
		At:        time.Now(),
		Interval:  e.current.Interval.String(),
		Direction: e.current.Direction.String(),
		Submitted: raw,
		Correct:   correct,
	}
	if e.cfg.Variant == model.VariantIntervals {
		entry.Pitch = e.current.First.String()
	} else {
		entry.Pitch = e.current.Pitch.String()
	}
	if !e.posedAt.IsZero() {
		entry.LatencyMs = time.Since(e.posedAt).Milliseconds()
	}
	e.entries = append(e.entries, entry)
	e.answered++

	kind := ResponseIncorrect
	expected := append([]string(nil), e.current.Answers...)
	if correct {
		kind = ResponseCorrect
		expected = nil
	}

	if e.answered >= e.target {
		resp, err := e.finalize()
		resp.Kind = ResponseCompleted
		resp.Correct = correct
		resp.Expected = expected
		return resp, err
	}

	next, err := e.pose()
	next.Kind = kind
	next.Correct = correct
	next.Expected = expected
	return next, err
}

// pose generates and presents the next question. For the intervals game the
// playback collaborator sounds it; an unavailable device degrades to the
// text prompt and is reported, never fatal.
func (e *Engine) pose() (Response, error) {
	q, err := e.gen.Next(e.cfg)
	if err != nil {
		return Response{}, err
	}
	e.current = q
	e.posedAt = time.Now()
	return e.present()
}

func (e *Engine) present() (Response, error) {
	resp := Response{Kind: ResponseQuestion}
	if e.cfg.Variant == model.VariantIntervals {
		err := e.player.Play(e.current.First, e.current.Second, e.current.Direction == pitch.Harmonic)
		if err != nil {
			if !errors.Is(err, playback.ErrUnavailable) {
				return Response{}, fmt.Errorf("playback: %w", err)
			}
			resp.Output = "playback unavailable; showing notes as text"
		}
	}
	q := e.current
	resp.Question = &q
	return resp, nil
}

func (e *Engine) runCommand(cmd parse.Command) (Response, error) {
	out, err := e.commands.Run(e, cmd)
	if err != nil {
		if errors.Is(err, errUnknownCommand) {
			q := e.current
			return Response{
				Kind:     ResponseCommand,
				Question: &q,
				Output:   fmt.Sprintf("unknown command %q (try %shelp)", cmd.Name, parse.CommandMarker),
			}, nil
		}
		// Command failures (e.g. a failed ?save) are surfaced; the session
		// phase and the current question are unaffected.
		q := e.current
		return Response{Kind: ResponseCommand, Question: &q}, err
	}
	if e.quitRequested {
		e.quitRequested = false
		resp, ferr := e.finalize()
		resp.Kind = ResponseCompleted
		resp.Output = out
		return resp, ferr
	}
	q := e.current
	return Response{Kind: ResponseCommand, Question: &q, Output: out}, nil
}

// finalize freezes the score, appends it to the store, and auto-saves when
// configured. A failed auto-save leaves the completed state intact and is
// surfaced to the caller.
func (e *Engine) finalize() (Response, error) {
	e.phase = Completed
	score := model.Score{
		ID:        uuid.NewString(),
		Game:      e.cfg.Name,
		Session:   e.session,
		StartedAt: e.startedAt,
		EndedAt:   time.Now(),
		Entries:   append([]model.ScoreEntry(nil), e.entries...),
	}
	e.final = &score
	if e.store != nil {
		e.store.Append(score)
		if e.cfg.Autosave {
			if err := e.store.Save(context.Background(), e.cfg.Name); err != nil {
				return Response{Score: &score}, fmt.Errorf("autosave: %w", err)
			}
		}
	}
	return Response{Score: &score}, nil
}
