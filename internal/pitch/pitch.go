// Package pitch models pitch classes, intervals, and MIDI notes with
// enharmonic-aware equality.
package pitch

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction marks whether an interval is applied upward, downward, or
// sounded harmonically (both notes at once, ear training only).
type Direction int

// Direction values. The integer values participate in transposition
// arithmetic: the semitone offset is multiplied by the direction.
const (
	Descending Direction = -1
	Harmonic   Direction = 0
	Ascending  Direction = 1
)

// String returns the one-character direction marker used in prompts,
// reports, and the persistence schema.
func (d Direction) String() string {
	switch d {
	case Descending:
		return "-"
	case Harmonic:
		return "h"
	default:
		return "+"
	}
}

// Semitone residue to the natural letter at or below it.
var baseNames = [12]string{"C", "C", "D", "D", "E", "F", "F", "G", "G", "A", "A", "B"}

// Residues that have no natural letter of their own (the black keys).
var blackKeys = [12]bool{1: true, 3: true, 6: true, 8: true, 10: true}

var letterSemitones = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// PitchClass is a note identity modulo octave: a semitone residue in [0,12)
// plus the accidental count of its preferred spelling (sharps positive,
// flats negative). Two PitchClasses are equal iff their residues match; the
// spelling only affects display.
type PitchClass struct {
	pc  int
	acc int
}

// New returns the PitchClass for a semitone count, normalized mod 12, with a
// neutral spelling (black keys display as sharps).
func New(semitone int) PitchClass {
	return PitchClass{pc: mod12(semitone)}
}

// NewSpelled returns a PitchClass with an explicit preferred spelling, e.g.
// NewSpelled(1, -1) is Db while New(1) is C#.
func NewSpelled(semitone, accidentals int) PitchClass {
	return PitchClass{pc: mod12(semitone), acc: accidentals}
}

// Semitone returns the residue in [0,12).
func (p PitchClass) Semitone() int { return p.pc }

// Accidentals returns the signed accidental count of the preferred spelling.
func (p PitchClass) Accidentals() int { return p.acc }

// Equal reports enharmonic equality: residues match regardless of spelling
// (Fs.Equal(Gb) is true).
func (p PitchClass) Equal(o PitchClass) bool { return p.pc == o.pc }

// Transpose moves the pitch class by the interval in the given direction.
// The preferred spelling's accidental count is carried along, so C## up a
// major third displays as E##. Total: never fails.
func (p PitchClass) Transpose(iv Interval, dir Direction) PitchClass {
	sgn := 1
	if dir == Descending {
		sgn = -1
	}
	return PitchClass{pc: mod12(p.pc + sgn*iv.semis), acc: p.acc}
}

// Measure returns the ascending interval from p to o as a residue in [0,12).
// The six-semitone result carries the canonical tritone label (see Interval).
func Measure(from, to PitchClass) Interval {
	return Interval{semis: mod12(to.pc - from.pc)}
}

// String renders the preferred spelling: the natural letter obtained by
// removing the accidentals, then the accidental marks. A black-key residue
// with a neutral spelling renders sharp-wise (1 -> "C#").
func (p PitchClass) String() string {
	natural := mod12(p.pc - p.acc)
	count := p.acc
	if blackKeys[natural] {
		count++
	}
	marks := strings.Repeat("#", max(count, 0)) + strings.Repeat("b", max(-count, 0))
	return baseNames[natural] + marks
}

// ParsePitchClass reads a note name: a letter A-G followed by any number of
// accidentals ('#' or 's' for sharp, 'b' for flat), case-insensitive.
// "C##bb" is C natural; "Es" is E#.
func ParsePitchClass(name string) (PitchClass, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return PitchClass{}, fmt.Errorf("empty pitch name")
	}
	shift := 0
	for len(s) > 1 {
		switch s[len(s)-1] {
		case '#', 's':
			shift++
		case 'b':
			shift--
		default:
			return PitchClass{}, fmt.Errorf("invalid accidental in %q", name)
		}
		s = s[:len(s)-1]
	}
	base, ok := letterSemitones[s[0]]
	if !ok {
		return PitchClass{}, fmt.Errorf("unknown pitch letter in %q", name)
	}
	return PitchClass{pc: mod12(base + shift), acc: shift}, nil
}

// Spellings returns the common note names for a semitone residue, preferred
// spelling first. Used to build canonical answer sets for display; judging
// itself is residue equality, so any enharmonic input is accepted.
func Spellings(semitone int) []string {
	s := spellingTable[mod12(semitone)]
	out := make([]string, len(s))
	copy(out, s)
	return out
}

var spellingTable = [12][]string{
	{"C"},
	{"C#", "Db"},
	{"D"},
	{"D#", "Eb"},
	{"E"},
	{"F"},
	{"F#", "Gb"},
	{"G"},
	{"G#", "Ab"},
	{"A"},
	{"A#", "Bb"},
	{"B"},
}

func mod12(n int) int {
	n %= 12
	if n < 0 {
		n += 12
	}
	return n
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Note is a MIDI note number clamped to [0,127]; 69 is concert A4 (440 Hz).
type Note int

// NewNote clamps n into the MIDI range.
func NewNote(n int) Note {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return Note(n)
}

// PitchClass returns the pitch class of the note.
func (n Note) PitchClass() PitchClass {
	return New(int(n) - 60)
}

// Transpose moves the note by the interval in the given direction, clamped
// to the MIDI range. Harmonic counts as ascending for the second voice.
func (n Note) Transpose(iv Interval, dir Direction) Note {
	sgn := 1
	if dir == Descending {
		sgn = -1
	}
	return NewNote(int(n) + sgn*iv.semis)
}

// String renders the note as pitch class plus octave number, C4 = 60.
func (n Note) String() string {
	octave := 4 + floorDiv(int(n)-60, 12)
	return n.PitchClass().String() + strconv.Itoa(octave)
}

// ParseNote reads a note name of the form pitch class plus octave number,
// e.g. "C4" is 60, "Eb3" is 51, "Gs-1" is 8. Negative octaves are allowed.
func ParseNote(name string) (Note, error) {
	s := strings.TrimSpace(name)
	split := len(s)
	for split > 0 && (s[split-1] >= '0' && s[split-1] <= '9') {
		split--
	}
	if split == len(s) || split == 0 {
		return 0, fmt.Errorf("invalid note name %q", name)
	}
	if s[split-1] == '-' {
		split--
	}
	pc, err := ParsePitchClass(s[:split])
	if err != nil {
		return 0, fmt.Errorf("invalid note name %q: %w", name, err)
	}
	octave, err := strconv.Atoi(s[split:])
	if err != nil {
		return 0, fmt.Errorf("invalid octave in %q", name)
	}
	// The named octave belongs to the written letter, not the sounding
	// residue: Cb4 sounds as B3, B#3 sounds as C4.
	octave -= floorDiv(pc.Semitone()-pc.Accidentals(), 12)
	nn := 60 + pc.Semitone() + (octave-4)*12
	if nn < 0 || nn > 127 {
		return 0, fmt.Errorf("note %q out of MIDI range", name)
	}
	return Note(nn), nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
