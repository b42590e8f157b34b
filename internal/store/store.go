// Package store keeps per-game score history in memory and persists whole
// game states to SQLite on explicit save/load.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quartal/tritone/internal/model"
	"github.com/quartal/tritone/internal/pitch"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store holds the in-memory GameStates and the SQLite handle. A GameState is
// exclusively owned by the session driving it; concurrent sessions over the
// same game name are undefined.
type Store struct {
	db    *sql.DB
	games map[string]*model.GameState
}

// Open opens or creates the SQLite database and applies migrations. The
// containing directory must already exist; Open fails with
// ErrStorageUnavailable instead of creating it.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %s (run: tritone init)", ErrStorageUnavailable, dir)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	store := &Store{db: db, games: map[string]*model.GameState{}}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			name TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			intervals TEXT NOT NULL,
			pitches TEXT NOT NULL,
			directions TEXT NOT NULL,
			questions INTEGER NOT NULL,
			autosave INTEGER NOT NULL,
			center INTEGER NOT NULL,
			spread INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scores (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL,
			session TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS score_entries (
			score_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			at TEXT NOT NULL,
			pitch TEXT NOT NULL,
			interval TEXT NOT NULL,
			direction TEXT NOT NULL,
			submitted TEXT NOT NULL,
			correct INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			PRIMARY KEY (score_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_game_started ON scores(game, started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SetConfig installs or replaces the in-memory configuration for a game.
// Configs change only between sessions.
func (s *Store) SetConfig(cfg model.GameConfig) {
	state := s.state(cfg.Name)
	state.Config = cfg
}

// Config returns the in-memory configuration of a game.
func (s *Store) Config(game string) (model.GameConfig, bool) {
	state, ok := s.games[game]
	if !ok {
		return model.GameConfig{}, false
	}
	return state.Config, true
}

func (s *Store) state(game string) *model.GameState {
	state, ok := s.games[game]
	if !ok {
		state = &model.GameState{}
		s.games[game] = state
	}
	return state
}

// Append adds a finalized score to the named game's in-memory history. It
// does not touch durable storage; call Save explicitly.
func (s *Store) Append(score model.Score) {
	state := s.state(score.Game)
	state.History = append(state.History, score)
}

// History returns the ordered in-memory score sequence of a game.
func (s *Store) History(game string) []model.Score {
	state, ok := s.games[game]
	if !ok {
		return nil
	}
	return state.History
}

// Latest returns the most recent score of a game.
func (s *Store) Latest(game string) (model.Score, bool) {
	history := s.History(game)
	if len(history) == 0 {
		return model.Score{}, false
	}
	return history[len(history)-1], true
}

// FirstAfter returns the earliest score started strictly after ts.
func (s *Store) FirstAfter(game string, ts time.Time) (model.Score, bool) {
	for _, sc := range s.History(game) {
		if sc.StartedAt.After(ts) {
			return sc, true
		}
	}
	return model.Score{}, false
}

// LastBefore returns the latest score started strictly before ts.
func (s *Store) LastBefore(game string, ts time.Time) (model.Score, bool) {
	history := s.History(game)
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].StartedAt.Before(ts) {
			return history[i], true
		}
	}
	return model.Score{}, false
}

// SelectTotal merges every entry of the scores whose start time lies in
// [from, to] into one aggregate. Nil bounds are unbounded.
func (s *Store) SelectTotal(game string, from, to *time.Time) model.Aggregate {
	agg := model.NewAggregate(game)
	for _, sc := range s.History(game) {
		if from != nil && sc.StartedAt.Before(*from) {
			continue
		}
		if to != nil && sc.StartedAt.After(*to) {
			continue
		}
		agg.Merge(sc)
	}
	return agg
}

// Save persists the named game's full state (config + history) wholesale,
// replacing any previously saved state for that name.
func (s *Store) Save(ctx context.Context, game string) error {
	state, ok := s.games[game]
	if !ok {
		return fmt.Errorf("save %q: %w", game, ErrNotFound)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %q: %w", game, err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if err = s.deleteGameTx(ctx, tx, game); err != nil {
		return fmt.Errorf("save %q: %w", game, err)
	}

	cfg := state.Config
	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (name, variant, intervals, pitches, directions, questions, autosave, center, spread)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		game,
		string(cfg.Variant),
		joinIntervals(cfg.Intervals),
		joinPitches(cfg.Pitches),
		string(cfg.Directions),
		cfg.Questions,
		boolToInt(cfg.Autosave),
		int(cfg.Center),
		cfg.Spread,
	)
	if err != nil {
		return fmt.Errorf("save %q: %w", game, err)
	}

	for _, sc := range state.History {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scores (id, game, session, started_at, ended_at) VALUES (?, ?, ?, ?, ?)`,
			sc.ID, game, sc.Session,
			sc.StartedAt.Format(time.RFC3339Nano),
			sc.EndedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("save %q: %w", game, err)
		}
		for seq, e := range sc.Entries {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO score_entries (score_id, seq, at, pitch, interval, direction, submitted, correct, latency_ms)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				sc.ID, seq,
				e.At.Format(time.RFC3339Nano),
				e.Pitch, e.Interval, e.Direction, e.Submitted,
				boolToInt(e.Correct), e.LatencyMs,
			)
			if err != nil {
				return fmt.Errorf("save %q: %w", game, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save %q: %w", game, err)
	}
	return nil
}

func (s *Store) deleteGameTx(ctx context.Context, tx *sql.Tx, game string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM score_entries WHERE score_id IN (SELECT id FROM scores WHERE game = ?)`, game); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE game = ?`, game); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE name = ?`, game); err != nil {
		return err
	}
	return nil
}

// Load reads the named game's persisted state wholesale and replaces the
// in-memory state on success. Fails with ErrNotFound when never saved and
// *SchemaError when the stored shape is incompatible; in-memory state is
// untouched on any failure.
func (s *Store) Load(ctx context.Context, game string) (model.GameState, error) {
	cfg, err := s.loadConfig(ctx, game)
	if err != nil {
		return model.GameState{}, err
	}
	history, err := s.loadHistory(ctx, game)
	if err != nil {
		return model.GameState{}, err
	}
	state := model.GameState{Config: cfg, History: history}
	s.games[game] = &model.GameState{Config: cfg, History: history}
	return state, nil
}

func (s *Store) loadConfig(ctx context.Context, game string) (model.GameConfig, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT variant, intervals, pitches, directions, questions, autosave, center, spread
		 FROM games WHERE name = ?`, game)
	var (
		variant, intervals, pitches, directions string
		questions, autosave, center, spread     int
	)
	if err := row.Scan(&variant, &intervals, &pitches, &directions, &questions, &autosave, &center, &spread); err != nil {
		if err == sql.ErrNoRows {
			return model.GameConfig{}, fmt.Errorf("load %q: %w", game, ErrNotFound)
		}
		return model.GameConfig{}, fmt.Errorf("load %q: %w", game, err)
	}
	cfg := model.GameConfig{
		Name:       game,
		Variant:    model.Variant(variant),
		Directions: model.DirectionMode(directions),
		Questions:  questions,
		Autosave:   autosave != 0,
		Center:     pitch.NewNote(center),
		Spread:     spread,
	}
	var err error
	if cfg.Intervals, err = splitIntervals(intervals); err != nil {
		return model.GameConfig{}, &SchemaError{Game: game, Detail: "intervals", Err: err}
	}
	if cfg.Pitches, err = splitPitches(pitches); err != nil {
		return model.GameConfig{}, &SchemaError{Game: game, Detail: "pitches", Err: err}
	}
	if err = cfg.Validate(); err != nil {
		return model.GameConfig{}, &SchemaError{Game: game, Detail: "config", Err: err}
	}
	return cfg, nil
}

func (s *Store) loadHistory(ctx context.Context, game string) ([]model.Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session, started_at, ended_at FROM scores WHERE game = ? ORDER BY started_at ASC`, game)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", game, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var history []model.Score
	for rows.Next() {
		var sc model.Score
		var started, ended string
		if err := rows.Scan(&sc.ID, &sc.Session, &started, &ended); err != nil {
			return nil, fmt.Errorf("load %q: %w", game, err)
		}
		sc.Game = game
		if sc.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, &SchemaError{Game: game, Detail: "started_at", Err: err}
		}
		if sc.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, &SchemaError{Game: game, Detail: "ended_at", Err: err}
		}
		history = append(history, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %q: %w", game, err)
	}

	for i := range history {
		if history[i].Entries, err = s.loadEntries(ctx, game, history[i].ID); err != nil {
			return nil, err
		}
	}
	return history, nil
}

func (s *Store) loadEntries(ctx context.Context, game, scoreID string) ([]model.ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT at, pitch, interval, direction, submitted, correct, latency_ms
		 FROM score_entries WHERE score_id = ? ORDER BY seq ASC`, scoreID)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", game, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.ScoreEntry
	for rows.Next() {
		var e model.ScoreEntry
		var at string
		var correct int
		if err := rows.Scan(&at, &e.Pitch, &e.Interval, &e.Direction, &e.Submitted, &correct, &e.LatencyMs); err != nil {
			return nil, fmt.Errorf("load %q: %w", game, err)
		}
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, &SchemaError{Game: game, Detail: "entry timestamp", Err: err}
		}
		e.Correct = correct != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %q: %w", game, err)
	}
	return entries, nil
}

// SavedGames lists the game names present in durable storage.
func (s *Store) SavedGames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM games ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func joinIntervals(ivs []pitch.Interval) string {
	labels := make([]string, len(ivs))
	for i, iv := range ivs {
		labels[i] = iv.String()
	}
	return strings.Join(labels, ",")
}

func splitIntervals(s string) ([]pitch.Interval, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
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

func joinPitches(pcs []pitch.PitchClass) string {
	labels := make([]string, len(pcs))
	for i, pc := range pcs {
		labels[i] = pc.String()
	}
	return strings.Join(labels, ",")
}

func splitPitches(s string) ([]pitch.PitchClass, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
