package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/term"

	"github.com/quartal/tritone/internal/model"
)

const sparkChars = " .:-=+*#%@"

// AccuracySeries extracts per-session accuracy percentages in history order.
func AccuracySeries(scores []model.Score) []float64 {
	out := make([]float64, len(scores))
	for i, sc := range scores {
		out[i] = sc.Tally().Accuracy() * 100
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderTrend prints the session accuracy trend as a sparkline with a rolling
// mean. Series longer than width keep the most recent sessions.
func RenderTrend(w io.Writer, r Report, window, width int) error {
	if len(r.Scores) < 2 {
		return nil
	}
	values := MovingAverage(AccuracySeries(r.Scores), window)
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	_, err := fmt.Fprintf(w, "Accuracy trend: %s (%.0f%% latest)\n", Sparkline(values), values[len(values)-1])
	return err
}

// TerminalWidth returns the width of the terminal on fd, or a conservative
// default when fd is not a terminal.
func TerminalWidth(fd int) int {
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
