package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resources holds the hand-maintained id-to-name tables. Each YAML file in
// the resources directory is a flat id: name map; the file stem (lowercased
// category tag) selects the table. zones.yaml names zones. Missing files and
// missing entries are fine: lookups fall back to deterministic placeholders
// so aggregation never fails on an unknown id.
type Resources struct {
	tables map[string]map[uint16]string
	zones  map[uint16]string
}

func loadResources(dir string) *Resources {
	r := &Resources{
		tables: make(map[string]map[uint16]string),
		zones:  make(map[uint16]string),
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return r
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logError("read resource %s: %v", path, err)
			continue
		}
		table := make(map[uint16]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			logError("parse resource %s: %v", path, err)
			continue
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), ".yaml"))
		if stem == "zones" {
			r.zones = table
		} else {
			r.tables[stem] = table
		}
	}
	return r
}

// ResolveName maps a bucket entry id to a display name, or a deterministic
// placeholder when no table entry exists.
func (r *Resources) ResolveName(kind ActionKind, id uint16) string {
	tag := kind.Tag()
	if r != nil {
		if table := r.tables[strings.ToLower(tag)]; table != nil {
			if name, ok := table[id]; ok && name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("Unknown_%s_%d", tag, id)
}

// ZoneName maps a zone id to its name, or a deterministic placeholder.
func (r *Resources) ZoneName(id uint16) string {
	if r != nil {
		if name, ok := r.zones[id]; ok && name != "" {
			return name
		}
	}
	return fmt.Sprintf("Zone_%d", id)
}
