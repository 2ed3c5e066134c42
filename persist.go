package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/remeh/sizedwaitgroup"
)

// Snapshots are write-only: nothing here is ever loaded back. Profiles and
// spawn tables exist for the session; the files are the export surface.

const saveWorkers = 4

func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '\'':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}

func profileFileName(s ProfileSnapshot) string {
	if s.Zone != "" {
		return sanitizeFileName(s.Zone) + "__" + sanitizeFileName(s.Name) + ".json"
	}
	return sanitizeFileName(s.Name) + ".json"
}

func writeJSONFile(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logError("marshal %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logError("write %s: %v", path, err)
	}
}

// saveSnapshots writes one JSON file per profile and one per zone spawn
// table, fanning the writes out over a bounded worker group.
func saveSnapshots(t *tracker) {
	profileDir := filepath.Join(dataDir, "profiles")
	spawnDir := filepath.Join(dataDir, "spawns")
	for _, dir := range []string{profileDir, spawnDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logError("create %s: %v", dir, err)
			return
		}
	}

	swg := sizedwaitgroup.New(saveWorkers)
	for _, snap := range t.agg.Snapshot() {
		swg.Add()
		go func(s ProfileSnapshot) {
			defer swg.Done()
			writeJSONFile(filepath.Join(profileDir, profileFileName(s)), s)
		}(snap)
	}
	for _, zone := range t.spawns.Zones() {
		swg.Add()
		go func(zone string) {
			defer swg.Done()
			writeJSONFile(filepath.Join(spawnDir, sanitizeFileName(zone)+".json"), t.spawns.ZoneTable(zone))
		}(zone)
	}
	swg.Wait()
}

// saveConsoleLog dumps the session's console history next to the snapshots.
func saveConsoleLog() {
	lines := getConsoleMessages()
	if len(lines) == 0 {
		return
	}
	path := filepath.Join(dataDir, "console.log")
	data := []byte(strings.Join(lines, "\n") + "\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		logError("write %s: %v", path, err)
	}
}
