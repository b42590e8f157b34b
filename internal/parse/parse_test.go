package parse

import (
	"errors"
	"testing"
)

func TestParsePitchValues(t *testing.T) {
	cases := []struct {
		in       string
		semitone int
	}{
		{"G", 7},
		{"g", 7},
		{"  f# ", 6},
		{"gb", 6},
		{"E♭", 3},
		{"c♯", 1},
		{"bb", 10},
	}
	for _, tc := range cases {
		res, err := Parse(tc.in, KindPitch)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if res.Type != ResultValue || res.Kind != KindPitch {
			t.Fatalf("parse %q: unexpected result %+v", tc.in, res)
		}
		if res.Pitch.Semitone() != tc.semitone {
			t.Fatalf("parse %q = %d, want %d", tc.in, res.Pitch.Semitone(), tc.semitone)
		}
	}
}

func TestParseIntervalValues(t *testing.T) {
	cases := []struct {
		in    string
		class int
	}{
		{"P5", 7},
		{" m3", 3},
		{"tritone", 6},
		{"TT", 6},
		{"octave", 0},
		{"A4", 6},
	}
	for _, tc := range cases {
		res, err := Parse(tc.in, KindInterval)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if res.Type != ResultValue || res.Kind != KindInterval {
			t.Fatalf("parse %q: unexpected result %+v", tc.in, res)
		}
		if res.Interval.Class() != tc.class {
			t.Fatalf("parse %q class = %d, want %d", tc.in, res.Interval.Class(), tc.class)
		}
	}
}

func TestCommandsWinOverValues(t *testing.T) {
	// "?help" must be a command under every expected kind.
	for _, kind := range []Kind{KindPitch, KindInterval} {
		res, err := Parse("  ?help now  ", kind)
		if err != nil {
			t.Fatalf("parse command under kind %d: %v", kind, err)
		}
		if res.Type != ResultCommand {
			t.Fatalf("expected command result, got %+v", res)
		}
		if res.Command.Name != "help" {
			t.Fatalf("command name = %q, want help", res.Command.Name)
		}
		if len(res.Command.Args) != 1 || res.Command.Args[0] != "now" {
			t.Fatalf("command args = %v", res.Command.Args)
		}
	}
}

func TestCommandNameIsLowercased(t *testing.T) {
	res, err := Parse("?Summary", KindPitch)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Command.Name != "summary" {
		t.Fatalf("command name = %q, want summary", res.Command.Name)
	}
}

func TestParseFailures(t *testing.T) {
	cases := []struct {
		in     string
		kind   Kind
		reason Reason
	}{
		{"", KindPitch, ReasonEmptyInput},
		{"   ", KindInterval, ReasonEmptyInput},
		{"?", KindPitch, ReasonEmptyInput},
		{"? ", KindInterval, ReasonEmptyInput},
		{"H", KindPitch, ReasonUnrecognized},
		{"5", KindInterval, ReasonAmbiguousToken},
		{"12", KindInterval, ReasonAmbiguousToken},
		{"x3", KindInterval, ReasonUnrecognized},
		{"P5", KindPitch, ReasonUnrecognized},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in, tc.kind)
		if err == nil {
			t.Fatalf("parse %q should fail", tc.in)
		}
		var perr *Error
		if !errors.As(err, &perr) {
			t.Fatalf("parse %q: error %v is not a *parse.Error", tc.in, err)
		}
		if perr.Reason != tc.reason {
			t.Fatalf("parse %q reason = %v, want %v", tc.in, perr.Reason, tc.reason)
		}
	}
}

func TestRoundTripCanonicalSpellings(t *testing.T) {
	for _, name := range []string{"C", "C#", "Db", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"} {
		res, err := Parse(name, KindPitch)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if res.Pitch.String() != name {
			t.Fatalf("round trip %q -> %q", name, res.Pitch.String())
		}
	}
}
