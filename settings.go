package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

type Settings struct {
	Capturing       bool   `json:"capturing"`
	Interface       string `json:"interface"`
	Port            int    `json:"port"`
	AutosaveSeconds int    `json:"autosaveSeconds"`
	SummarySeconds  int    `json:"summarySeconds"`
	DiscordPresence bool   `json:"discordPresence"`
	DiscordAppID    string `json:"discordAppId"`
	LastZone        string `json:"lastZone"`
}

// gs is the active settings. Capturing gates whether incoming packets are
// processed at all; profiles already accumulated stay in memory either way.
var gs = Settings{
	Capturing:       true,
	Port:            54230,
	AutosaveSeconds: 300,
	SummarySeconds:  60,
}

func settingsPath() string {
	return filepath.Join(baseDir, "settings.json")
}

func loadSettings() bool {
	data, err := os.ReadFile(settingsPath())
	if err != nil {
		return false
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return false
	}
	gs = s
	if gs.Port == 0 {
		gs.Port = 54230
	}
	if gs.AutosaveSeconds <= 0 {
		gs.AutosaveSeconds = 300
	}
	if gs.SummarySeconds <= 0 {
		gs.SummarySeconds = 60
	}
	return true
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		log.Printf("save settings: %v", err)
		return
	}
	if err := os.WriteFile(settingsPath(), data, 0644); err != nil {
		log.Printf("save settings: %v", err)
	}
}
