package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestConfigValuesYieldToChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var game string
	var questions int
	cmd.Flags().StringVar(&game, "game", "default", "")
	cmd.Flags().IntVar(&questions, "questions", 20, "")

	fromFile := "saved"
	n := 7
	applyStringConfig(cmd, "game", &game, &fromFile)
	applyIntConfig(cmd, "questions", &questions, &n)
	if game != "saved" || questions != 7 {
		t.Fatalf("config values not applied: game=%q questions=%d", game, questions)
	}

	if err := cmd.Flags().Set("game", "cli"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	applyStringConfig(cmd, "game", &game, &fromFile)
	if game != "cli" {
		t.Fatalf("changed flag overridden by config: %q", game)
	}

	applyStringConfig(cmd, "game", &game, nil)
	if game != "cli" {
		t.Fatalf("nil config value mutated target: %q", game)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" m3, P5 ,,")
	if len(got) != 2 || got[0] != "m3" || got[1] != "P5" {
		t.Fatalf("splitList = %v", got)
	}
}

func TestBuildGameConfigValidates(t *testing.T) {
	playGame = "g"
	playVariant = "transpose"
	playQuestions = 5
	playIntervals = "P5"
	playPitches = "C"
	playDirection = "+h"
	playCenter = "C4"
	playSpread = 0
	if _, err := buildGameConfig(); err == nil {
		t.Fatalf("harmonic direction accepted for transpose variant")
	}
	playDirection = "+"
	cfg, err := buildGameConfig()
	if err != nil {
		t.Fatalf("buildGameConfig: %v", err)
	}
	if cfg.Name != "g" || len(cfg.Intervals) != 1 || cfg.Intervals[0].String() != "P5" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
