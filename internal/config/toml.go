// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game GameSection `toml:"game"`
}

// GameSection maps game-related settings. Pointer fields distinguish
// "unset" from a zero value so flags can override selectively.
type GameSection struct {
	Name      *string  `toml:"name"`
	Variant   *string  `toml:"variant"`
	Intervals []string `toml:"intervals"`
	Pitches   []string `toml:"pitches"`
	Direction *string  `toml:"direction"`
	Questions *int     `toml:"questions"`
	Autosave  *bool    `toml:"autosave"`
	Center    *string  `toml:"center"`
	Spread    *int     `toml:"spread"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
