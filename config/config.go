// Package config loads bitty's on-disk JSON configuration and can watch
// it for edits, replacing the source's process-wide config singleton
// (original_source's global font/config service) with a value the owner
// explicitly threads through instead.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds the user-tunable settings a renderer and PTY transport
// need: font selection, background opacity, and which shell to spawn.
type Config struct {
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	Opacity    float64 `json:"opacity"`
	ShellPath  string  `json:"shell_path"`
}

// Default returns the configuration Load falls back to when no config
// file exists.
func Default() Config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return Config{
		FontFamily: "monospace",
		FontSize:   13,
		Opacity:    1,
		ShellPath:  shell,
	}
}

// Path returns the config file Load reads and Watch watches:
// $XDG_CONFIG_HOME/bitty.json, falling back to $HOME/.config/bitty.json.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "bitty.json")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "bitty.json")
}

// Load reads and parses the config file at Path. A missing file is not
// an error: Load returns Default() unchanged. Any present field
// overrides Default()'s value for that field; fields the file omits
// keep their default.
func Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
