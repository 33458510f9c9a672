// ============================================================================
// ff - plain-English media command translator
// ============================================================================
//
// Package:     repl
// Description: Input history persistence for the interactive session
// Author:      msto63
// Created:     2025-12-07
// Modified:    2026-10-19
// License:     MIT
// ============================================================================

package repl

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/msto63/ff/foundation/utils/filex"
)

// maxInputHistory bounds the number of remembered phrases
const maxInputHistory = 100

// Settings holds state kept between interactive sessions
type Settings struct {
	InputHistory []string `json:"input_history,omitempty"`
}

// settingsFile returns the path of the settings file in dataDir
func settingsFile(dataDir string) string {
	return filepath.Join(dataDir, "interactive.json")
}

// LoadSettings reads the settings from dataDir. A missing or unreadable file
// yields empty settings.
func LoadSettings(dataDir string) *Settings {
	data, err := os.ReadFile(settingsFile(dataDir))
	if err != nil {
		return &Settings{}
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return &Settings{}
	}
	return &settings
}

// SaveSettings writes the settings to dataDir
func SaveSettings(dataDir string, settings *Settings) error {
	if err := filex.EnsureDir(dataDir); err != nil {
		return err
	}
	if len(settings.InputHistory) > maxInputHistory {
		settings.InputHistory = settings.InputHistory[len(settings.InputHistory)-maxInputHistory:]
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(settingsFile(dataDir), data, 0644)
}
