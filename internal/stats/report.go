// Package stats renders score history reports.
package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/quartal/tritone/internal/model"
	"github.com/quartal/tritone/internal/store"
)

const (
	timeLayout = "02.01.2006 15:04"
	barWidth   = 24
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Game   string
	Scores []model.Score
	Total  model.Aggregate
}

// BuildReport filters a game's history per the stats configuration and
// aggregates it. Since and Until bound the session start time inclusively;
// Last keeps only the most recent n sessions after the time filter.
func BuildReport(st *store.Store, cfg model.StatsConfig) Report {
	var scores []model.Score
	for _, sc := range st.History(cfg.Game) {
		if cfg.Since != nil && sc.StartedAt.Before(*cfg.Since) {
			continue
		}
		if cfg.Until != nil && sc.StartedAt.After(*cfg.Until) {
			continue
		}
		scores = append(scores, sc)
	}
	if cfg.Last > 0 && len(scores) > cfg.Last {
		scores = scores[len(scores)-cfg.Last:]
	}

	agg := model.NewAggregate(cfg.Game)
	for _, sc := range scores {
		agg.Merge(sc)
	}
	return Report{Game: cfg.Game, Scores: scores, Total: agg}
}

// SummaryLine formats one session (or range) header with its tally.
func SummaryLine(name string, started, ended time.Time, tally model.Tally) string {
	return fmt.Sprintf(":: %s :: %s --> %s :: %d/%d ::",
		name, started.Format(timeLayout), ended.Format(timeLayout), tally.Correct, tally.Total)
}

// Bar renders a fixed-width accuracy bar.
func Bar(t model.Tally) string {
	filled := 0
	if t.Total > 0 {
		filled = t.Correct * barWidth / t.Total
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", barWidth-filled) + "]"
}

// RenderSummary prints one line per session plus a range total.
func RenderSummary(w io.Writer, r Report) error {
	if len(r.Scores) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Session", "Score", "", "Accuracy"}
	rows := make([][]string, 0, len(r.Scores)+1)
	for _, sc := range r.Scores {
		t := sc.Tally()
		rows = append(rows, []string{
			sc.Session,
			fmt.Sprintf("%d/%d", t.Correct, t.Total),
			Bar(t),
			fmt.Sprintf("%.0f%%", t.Accuracy()*100),
		})
	}
	total := r.Total.Total()
	rows = append(rows, []string{
		fmt.Sprintf("total (%d sessions)", r.Total.Sessions),
		fmt.Sprintf("%d/%d", total.Correct, total.Total),
		Bar(total),
		fmt.Sprintf("%.0f%%", total.Accuracy()*100),
	})

	if _, err := fmt.Fprintln(w, SummaryLine(r.Game, r.Total.StartedAt, r.Total.EndedAt, total)); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderDetails prints per-question tallies in musical order, optionally
// grouped along one axis ("pitch", "direction", or "interval").
func RenderDetails(w io.Writer, agg model.Aggregate, by string) error {
	labels, tallies, err := Breakdown(agg, by)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		_, err := fmt.Fprintln(w, "No answers recorded.")
		return err
	}
	headers := []string{"Question", "Score", "", "Accuracy"}
	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		t := tallies[label]
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%d/%d", t.Correct, t.Total),
			Bar(t),
			fmt.Sprintf("%.0f%%", t.Accuracy()*100),
		})
	}
	rightAlign := map[int]bool{1: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Breakdown groups an aggregate's tallies along one axis. An empty axis (or
// "question") keeps the full key, labelled "C +P5" style. The returned labels
// are ordered; grouped tallies keep first-appearance order of the sorted keys.
func Breakdown(agg model.Aggregate, by string) ([]string, map[string]model.Tally, error) {
	label := func(k model.Key) string {
		return fmt.Sprintf("%s %s%s", k.Pitch, k.Direction, k.Interval)
	}
	switch by {
	case "", "question":
	case "pitch":
		label = func(k model.Key) string { return k.Pitch }
	case "direction":
		label = func(k model.Key) string { return k.Direction }
	case "interval":
		label = func(k model.Key) string { return k.Interval }
	default:
		return nil, nil, fmt.Errorf("unknown breakdown axis %q", by)
	}

	tallies := map[string]model.Tally{}
	var labels []string
	for _, k := range agg.Keys() {
		l := label(k)
		t, seen := tallies[l]
		if !seen {
			labels = append(labels, l)
		}
		t.Add(agg.Tallies[k])
		tallies[l] = t
	}
	return labels, tallies, nil
}
