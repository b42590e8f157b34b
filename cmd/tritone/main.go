// Package main provides the CLI entrypoint for tritone.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/quartal/tritone/internal/config"
	"github.com/quartal/tritone/internal/generator"
	"github.com/quartal/tritone/internal/model"
	"github.com/quartal/tritone/internal/pitch"
	"github.com/quartal/tritone/internal/session"
	"github.com/quartal/tritone/internal/stats"
	"github.com/quartal/tritone/internal/store"
	"github.com/quartal/tritone/internal/tui"
)

const (
	defaultGame      = "default"
	defaultVariant   = string(model.VariantTranspose)
	defaultQuestions = 20
	defaultIntervals = "m2,M2,m3,M3,P4,d5,P5,m6,M6,m7,M7"
	defaultPitches   = "C,Db,D,Eb,E,F,F#,G,Ab,A,Bb,B"
	defaultDirection = ""
	defaultCenter    = "C4"
	defaultSpread    = 12
	defaultWindow    = 10
)

var (
	playGame      string
	playVariant   string
	playQuestions int
	playIntervals string
	playPitches   string
	playDirection string
	playCenter    string
	playSpread    int
	playAutosave  bool
	playSeed      int64

	statsGame  string
	statsSince string
	statsUntil string
	statsLast  int
	statsBy    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tritone",
		Short:         "Music theory drill: transposition and ear training",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playGame, "game", defaultGame, "game name (scores are grouped per game)")
	rootCmd.Flags().StringVar(&playVariant, "variant", defaultVariant, "game variant: transpose or intervals")
	rootCmd.Flags().IntVar(&playQuestions, "questions", defaultQuestions, "questions per session")
	rootCmd.Flags().StringVar(&playIntervals, "intervals", defaultIntervals, "comma-separated interval labels to drill")
	rootCmd.Flags().StringVar(&playPitches, "pitches", defaultPitches, "comma-separated pitch classes to drill (transpose variant)")
	rootCmd.Flags().StringVar(&playDirection, "direction", defaultDirection, "direction markers: any of '+', '-', 'h' (default: '+-')")
	rootCmd.Flags().StringVar(&playCenter, "center", defaultCenter, "center note for the intervals variant")
	rootCmd.Flags().IntVar(&playSpread, "spread", defaultSpread, "semitone spread around the center note")
	rootCmd.Flags().BoolVar(&playAutosave, "autosave", false, "save the game automatically when a session completes")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed (0: time-based)")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newInitCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "game", &playGame, fileCfg.Game.Name)
	applyStringConfig(cmd, "variant", &playVariant, fileCfg.Game.Variant)
	applyIntConfig(cmd, "questions", &playQuestions, fileCfg.Game.Questions)
	applyListConfig(cmd, "intervals", &playIntervals, fileCfg.Game.Intervals)
	applyListConfig(cmd, "pitches", &playPitches, fileCfg.Game.Pitches)
	applyStringConfig(cmd, "direction", &playDirection, fileCfg.Game.Direction)
	applyStringConfig(cmd, "center", &playCenter, fileCfg.Game.Center)
	applyIntConfig(cmd, "spread", &playSpread, fileCfg.Game.Spread)
	applyBoolConfig(cmd, "autosave", &playAutosave, fileCfg.Game.Autosave)

	gameCfg, err := buildGameConfig()
	if err != nil {
		return err
	}
	if playQuestions <= 0 {
		return fmt.Errorf("--questions must be > 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return storageError(err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	// Seed the in-memory history from a previous save, if any. The current
	// flags win over the saved configuration.
	if _, err := st.Load(context.Background(), gameCfg.Name); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to load game %q: %w", gameCfg.Name, err)
	}

	gen := generator.New()
	if playSeed != 0 {
		gen = generator.NewWithSeed(playSeed)
	}
	engine, err := session.New(gameCfg, gen, st, nil)
	if err != nil {
		return err
	}
	first, err := engine.Start(playQuestions)
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewModel(engine, first))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildGameConfig() (model.GameConfig, error) {
	intervals, err := parseIntervalList(playIntervals)
	if err != nil {
		return model.GameConfig{}, fmt.Errorf("invalid --intervals: %w", err)
	}
	pitches, err := parsePitchList(playPitches)
	if err != nil {
		return model.GameConfig{}, fmt.Errorf("invalid --pitches: %w", err)
	}
	center, err := pitch.ParseNote(playCenter)
	if err != nil {
		return model.GameConfig{}, fmt.Errorf("invalid --center: %w", err)
	}
	cfg := model.GameConfig{
		Name:       playGame,
		Variant:    model.Variant(playVariant),
		Intervals:  intervals,
		Pitches:    pitches,
		Directions: model.DirectionMode(playDirection),
		Questions:  playQuestions,
		Autosave:   playAutosave,
		Center:     center,
		Spread:     playSpread,
	}
	if err := cfg.Validate(); err != nil {
		return model.GameConfig{}, err
	}
	return cfg, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show score history for a game",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsGame, "game", defaultGame, "game name")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&statsUntil, "until", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().StringVar(&statsBy, "by", "", "breakdown axis: question, pitch, direction, or interval")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	since, err := parseDateFlag("--since", statsSince)
	if err != nil {
		return err
	}
	until, err := parseDateFlag("--until", statsUntil)
	if err != nil {
		return err
	}
	if until != nil {
		// Make the bound cover the whole day.
		end := until.Add(24*time.Hour - time.Nanosecond)
		until = &end
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return storageError(err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if _, err := st.Load(context.Background(), statsGame); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no saved game %q (list with: tritone games)", statsGame)
		}
		return err
	}

	report := stats.BuildReport(st, model.StatsConfig{
		Game:  statsGame,
		Since: since,
		Until: until,
		Last:  statsLast,
	})
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	if err := stats.RenderDetails(out, report.Total, statsBy); err != nil {
		return err
	}
	width := stats.TerminalWidth(int(os.Stdout.Fd()))
	return stats.RenderTrend(out, report, defaultWindow, width-20)
}

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List saved games",
		Args:  cobra.NoArgs,
		RunE:  runGamesCmd,
	}
}

func runGamesCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return storageError(err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	names, err := st.SavedGames(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list games: %w", err)
	}
	if len(names) == 0 {
		logErrln("No saved games yet. Play with autosave or use ?save in a session.")
		return nil
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Provision the data directory",
		Args:  cobra.NoArgs,
		RunE:  runInitCmd,
	}
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultDataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return err
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("failed to close db: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", dir); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parseIntervalList(s string) ([]pitch.Interval, error) {
	parts := splitList(s)
	out := make([]pitch.Interval, 0, len(parts))
	for _, part := range parts {
		iv, err := pitch.ParseInterval(part)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

func parsePitchList(s string) ([]pitch.PitchClass, error) {
	parts := splitList(s)
	out := make([]pitch.PitchClass, 0, len(parts))
	for _, part := range parts {
		pc, err := pitch.ParsePitchClass(part)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", name, err)
	}
	return &parsed, nil
}

func storageError(err error) error {
	if errors.Is(err, store.ErrStorageUnavailable) {
		return fmt.Errorf("%w\nProvision it with: tritone init", err)
	}
	return fmt.Errorf("failed to open db: %w", err)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyListConfig(cmd *cobra.Command, name string, target *string, value []string) {
	if len(value) == 0 {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = strings.Join(value, ",")
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tritone configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# name = %q                # Game name (default %q)
# variant = %q       # Game variant: transpose or intervals
# questions = %d           # Questions per session
# intervals = ["m3", "P5"] # Interval labels to drill
# pitches = ["C", "F#"]    # Pitch classes to drill (transpose variant)
# direction = "+-"         # Direction markers: '+', '-', 'h'
# autosave = false         # Save automatically when a session completes
# center = %q              # Center note for the intervals variant
# spread = %d              # Semitone spread around the center note
`,
		defaultGame,
		defaultGame,
		defaultVariant,
		defaultQuestions,
		defaultCenter,
		defaultSpread,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
