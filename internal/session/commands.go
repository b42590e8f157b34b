package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quartal/tritone/internal/parse"
	"github.com/quartal/tritone/internal/stats"
)

var errUnknownCommand = errors.New("unknown command")

// CommandFunc executes one in-prompt command against the running session.
// Commands never consume a question attempt.
type CommandFunc func(e *Engine, args []string) (string, error)

type command struct {
	name string
	help string
	fn   CommandFunc
}

// CommandSet is the registry of in-prompt commands. Every command documents
// its effect at registration time.
type CommandSet struct {
	cmds map[string]command
}

// NewCommandSet returns an empty registry.
func NewCommandSet() *CommandSet {
	return &CommandSet{cmds: map[string]command{}}
}

// Register adds a command under a lowercase name with its help text.
// Duplicate names are rejected.
func (c *CommandSet) Register(name, help string, fn CommandFunc) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("command name must not be empty")
	}
	if _, ok := c.cmds[name]; ok {
		return fmt.Errorf("command %q already registered", name)
	}
	c.cmds[name] = command{name: name, help: help, fn: fn}
	return nil
}

// Run dispatches a parsed command; errUnknownCommand when unregistered.
func (c *CommandSet) Run(e *Engine, cmd parse.Command) (string, error) {
	entry, ok := c.cmds[cmd.Name]
	if !ok {
		return "", errUnknownCommand
	}
	return entry.fn(e, cmd.Args)
}

// Help lists every registered command with its documented effect.
func (c *CommandSet) Help() string {
	names := make([]string, 0, len(c.cmds))
	for name := range c.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s%s: %s\n", parse.CommandMarker, name, c.cmds[name].help)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RegisterDefaults installs the standard command surface.
func RegisterDefaults(c *CommandSet) error {
	defaults := []struct {
		name string
		help string
		fn   CommandFunc
	}{
		{"help", "list available commands", cmdHelp},
		{"where", "show the current question number", cmdWhere},
		{"summary", "show the running session tally", cmdSummary},
		{"again", "repeat the current question", cmdAgain},
		{"save", "persist this game's configuration and history", cmdSave},
		{"load", "reload this game's saved history into the store", cmdLoad},
		{"quit", "end the session early and finalize the score", cmdQuit},
	}
	for _, d := range defaults {
		if err := c.Register(d.name, d.help, d.fn); err != nil {
			return err
		}
	}
	return nil
}

func cmdHelp(e *Engine, _ []string) (string, error) {
	return e.commands.Help(), nil
}

func cmdWhere(e *Engine, _ []string) (string, error) {
	answered, target := e.Progress()
	return fmt.Sprintf("question %d of %d", answered+1, target), nil
}

func cmdSummary(e *Engine, _ []string) (string, error) {
	return stats.SummaryLine(e.cfg.Name, e.startedAt, time.Now(), e.Tally()), nil
}

func cmdAgain(e *Engine, _ []string) (string, error) {
	// Re-present without regenerating: the question stays the same and the
	// attempt is not consumed. For the ear game this replays the notes.
	resp, err := e.present()
	if err != nil {
		return "", err
	}
	out := e.current.Prompt
	if resp.Output != "" {
		out = resp.Output + "\n" + out
	}
	return out, nil
}

func cmdSave(e *Engine, _ []string) (string, error) {
	if e.store == nil {
		return "", fmt.Errorf("no store attached")
	}
	if err := e.store.Save(context.Background(), e.cfg.Name); err != nil {
		return "", err
	}
	return fmt.Sprintf("saved game %q", e.cfg.Name), nil
}

func cmdLoad(e *Engine, _ []string) (string, error) {
	if e.store == nil {
		return "", fmt.Errorf("no store attached")
	}
	// Replaces the store's state for this game; the running session keeps
	// its own config copy, which never changes mid-session.
	state, err := e.store.Load(context.Background(), e.cfg.Name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("loaded game %q (%d sessions)", e.cfg.Name, len(state.History)), nil
}

func cmdQuit(e *Engine, _ []string) (string, error) {
	e.quitRequested = true
	return "session ended early", nil
}
