package pitch

import (
	"fmt"
	"strconv"
	"strings"
)

// The six-semitone interval has two valid names: augmented fourth and
// diminished fifth. The diminished-fifth convention is canonical here; both
// spellings parse and judge equal. Switch these to "A"/4 for the
// augmented-fourth convention.
const (
	tritoneQuality = "d"
	tritoneNumber  = 5
)

// Semitone class to diatonic interval number (unison=1 ... seventh=7).
var intervalNumber = [12]int{1, 2, 2, 3, 3, 4, tritoneNumber, 5, 6, 6, 7, 7}

// Semitone class to interval quality. Index 6 encodes the tritone
// convention declared above.
var intervalQuality = [12]string{"P", "m", "M", "m", "M", "P", tritoneQuality, "P", "m", "M", "m", "M"}

// Interval is an undirected distance between pitch classes, counted in
// semitones. Counts beyond an octave are kept for compound labels (P12);
// equality and judging use the residue class.
type Interval struct {
	semis int
}

// NewInterval returns an interval of n semitones. Negative counts are
// normalized into [0,12): direction is carried separately.
func NewInterval(n int) Interval {
	if n < 0 {
		n = mod12(n)
	}
	return Interval{semis: n}
}

// Semitones returns the full semitone count, which may exceed an octave.
func (iv Interval) Semitones() int { return iv.semis }

// Class returns the semitone residue in [0,12).
func (iv Interval) Class() int { return mod12(iv.semis) }

// Equal reports enharmonic interval-class equality: m10 equals m3, and the
// augmented fourth equals the diminished fifth.
func (iv Interval) Equal(o Interval) bool { return iv.Class() == o.Class() }

// Invert returns the inversion within one octave: P4 <-> P5, m3 <-> M6.
func (iv Interval) Invert() Interval {
	return Interval{semis: mod12(-iv.semis)}
}

// String renders the conventional label: quality letter plus diatonic
// number, compound above the octave ("m3", "P5", "d5", "P12"). Zero
// semitones is "P1".
func (iv Interval) String() string {
	octaves, class := iv.semis/12, iv.semis%12
	return intervalQuality[class] + strconv.Itoa(intervalNumber[class]+7*octaves)
}

// ParseInterval reads an interval name: a quality letter followed by a
// positive diatonic number. Qualities: P/p perfect, d/D diminished, A/a
// augmented, m minor, M major, u/U unison. Minor vs major is the one place
// case matters. Compound numbers are accepted ("p12" is an octave and a
// fifth).
func ParseInterval(name string) (Interval, error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return Interval{}, fmt.Errorf("invalid interval name %q", name)
	}
	quality := s[:1]
	number, err := strconv.Atoi(s[1:])
	if err != nil || number <= 0 {
		return Interval{}, fmt.Errorf("invalid interval number in %q", name)
	}
	if number == 1 {
		switch strings.ToLower(quality) {
		case "p", "u":
			return Interval{semis: 0}, nil
		case "a":
			return Interval{semis: 1}, nil
		}
		return Interval{}, fmt.Errorf("invalid unison quality in %q", name)
	}
	octaves, step := (number-1)/7, (number-1)%7
	if perfectBase, ok := map[int]int{0: 0, 3: 5, 4: 7}[step]; ok {
		shift, ok := map[string]int{"p": 0, "d": -1, "a": 1}[strings.ToLower(quality)]
		if !ok {
			return Interval{}, fmt.Errorf("quality %q is invalid for a perfect-class interval", quality)
		}
		return Interval{semis: perfectBase + shift + 12*octaves}, nil
	}
	majorBase := map[int]int{1: 2, 2: 4, 5: 9, 6: 11}[step]
	var shift int
	switch quality {
	case "m":
		shift = -1
	case "M":
		shift = 0
	default:
		switch strings.ToLower(quality) {
		case "d":
			shift = -2
		case "a":
			shift = 1
		default:
			return Interval{}, fmt.Errorf("quality %q is invalid for a major-class interval", quality)
		}
	}
	semis := majorBase + shift + 12*octaves
	if semis < 0 {
		semis = 0
	}
	return Interval{semis: semis}, nil
}

// IntervalSpellings returns the accepted names for a semitone class,
// canonical label first. The tritone class lists both conventional names.
func IntervalSpellings(class int) []string {
	class = mod12(class)
	iv := Interval{semis: class}
	if class == 6 {
		return []string{iv.String(), "A4"}
	}
	return []string{iv.String()}
}
