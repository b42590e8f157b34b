// Package parse converts one line of free-form answer text into a domain
// value, a reserved command, or a typed parse error.
package parse

import (
	"fmt"
	"strings"

	"github.com/quartal/tritone/internal/pitch"
)

// CommandMarker introduces an in-prompt command; it always takes precedence
// over domain-value parsing.
const CommandMarker = "?"

// Kind selects which domain value the caller expects.
type Kind int

// Expected answer kinds.
const (
	KindPitch Kind = iota
	KindInterval
)

// Reason classifies a parse failure.
type Reason int

// Parse failure reasons. EmptyInput covers blank lines and a bare command
// marker; AmbiguousToken covers tokens with more than one reading (a bare
// interval number); everything else is Unrecognized.
const (
	ReasonEmptyInput Reason = iota
	ReasonUnrecognized
	ReasonAmbiguousToken
)

func (r Reason) String() string {
	switch r {
	case ReasonEmptyInput:
		return "empty input"
	case ReasonAmbiguousToken:
		return "ambiguous token"
	default:
		return "unrecognized input"
	}
}

// Error is a recoverable parse failure; the caller should re-prompt.
type Error struct {
	Input  string
	Reason Reason
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Input) == "" {
		return e.Reason.String()
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Input)
}

// ResultType discriminates the parse result union.
type ResultType int

// Result union tags.
const (
	ResultValue ResultType = iota
	ResultCommand
)

// Command is an in-prompt command: lowercase name plus raw arguments.
type Command struct {
	Name string
	Args []string
}

// Result is the tagged union produced by Parse: either a domain value of the
// expected Kind or a Command.
type Result struct {
	Type     ResultType
	Kind     Kind
	Pitch    pitch.PitchClass
	Interval pitch.Interval
	Command  Command
}

// Named interval aliases accepted in addition to the quality+number grammar.
// Many-to-one: several spellings map to one semitone class.
var intervalAliases = map[string]int{
	"unison":   0,
	"semitone": 1,
	"halftone": 1,
	"tone":     2,
	"tritone":  6,
	"tt":       6,
	"octave":   12,
}

// Unicode accidentals tolerated in pitch names.
var accidentalReplacer = strings.NewReplacer("♯", "#", "♭", "b")

// Parse tokenizes one input line. Surrounding whitespace is ignored and
// matching is case-insensitive, with one exception: the interval qualities
// m (minor) and M (major) are distinguished only by case, so they are
// matched exactly and a bare interval number is rejected as ambiguous.
func Parse(text string, kind Kind) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}, &Error{Input: text, Reason: ReasonEmptyInput}
	}
	if strings.HasPrefix(trimmed, CommandMarker) {
		return parseCommand(text, strings.TrimPrefix(trimmed, CommandMarker))
	}
	switch kind {
	case KindInterval:
		return parseInterval(trimmed)
	default:
		return parsePitch(trimmed)
	}
}

func parseCommand(raw, rest string) (Result, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Result{}, &Error{Input: raw, Reason: ReasonEmptyInput}
	}
	return Result{
		Type: ResultCommand,
		Command: Command{
			Name: strings.ToLower(fields[0]),
			Args: fields[1:],
		},
	}, nil
}

func parsePitch(token string) (Result, error) {
	token = accidentalReplacer.Replace(token)
	pc, err := pitch.ParsePitchClass(token)
	if err != nil {
		return Result{}, &Error{Input: token, Reason: ReasonUnrecognized}
	}
	return Result{Type: ResultValue, Kind: KindPitch, Pitch: pc}, nil
}

func parseInterval(token string) (Result, error) {
	if isDigits(token) {
		// "5" could be P5, d5, or A5; refuse to guess.
		return Result{}, &Error{Input: token, Reason: ReasonAmbiguousToken}
	}
	if class, ok := intervalAliases[strings.ToLower(token)]; ok {
		return Result{Type: ResultValue, Kind: KindInterval, Interval: pitch.NewInterval(class)}, nil
	}
	iv, err := pitch.ParseInterval(token)
	if err != nil {
		return Result{}, &Error{Input: token, Reason: ReasonUnrecognized}
	}
	return Result{Type: ResultValue, Kind: KindInterval, Interval: iv}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
