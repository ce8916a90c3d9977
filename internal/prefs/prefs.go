package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PrefsPath is the path to the tool preferences file, relative to the process working directory.
const PrefsPath = "config/quickdock.json"

// Prefs holds viewer preferences persisted across runs. Scene data is
// separate and handled by the scene files.
type Prefs struct {
	GridVisible bool `json:"grid_visible"`
	ShowOverlay bool `json:"show_overlay"`
	AutoPlay    bool `json:"auto_play"`
}

// Default returns default preferences (grid and overlay on, playback paused).
func Default() Prefs {
	return Prefs{
		GridVisible: true,
		ShowOverlay: true,
		AutoPlay:    false,
	}
}

// Load reads preferences from config/quickdock.json. If the file is missing
// or invalid, returns Default() and does not create a file.
func Load() (Prefs, error) {
	data, err := os.ReadFile(PrefsPath)
	if err != nil {
		return Default(), nil
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p, nil
}

// Save writes preferences to config/quickdock.json, creating the config directory if needed.
func Save(p Prefs) error {
	dir := filepath.Dir(PrefsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(PrefsPath, data, 0644)
}
