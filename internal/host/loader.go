package host

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EmbeddedFS is set by the main package to provide the built-in event maps.
// This avoids go:embed constraints on internal packages.
var EmbeddedFS fs.FS

// LoadEmbedded loads all embedded YAML event maps.
func LoadEmbedded() ([]EventMap, error) {
	if EmbeddedFS == nil {
		return nil, nil
	}

	// Try "events" subdir first (when embedded from root), then "." (flat)
	dir := "events"
	entries, err := fs.ReadDir(EmbeddedFS, dir)
	if err != nil {
		dir = "."
		entries, err = fs.ReadDir(EmbeddedFS, dir)
		if err != nil {
			return nil, nil
		}
	}

	var maps []EventMap
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := entry.Name()
		if dir != "." {
			path = dir + "/" + entry.Name()
		}
		data, err := fs.ReadFile(EmbeddedFS, path)
		if err != nil {
			return nil, fmt.Errorf("read embedded event map %s: %w", entry.Name(), err)
		}
		m, err := ParseEventMap(data)
		if err != nil {
			return nil, fmt.Errorf("parse embedded event map %s: %w", entry.Name(), err)
		}
		maps = append(maps, *m)
	}
	return maps, nil
}

// LoadUserMaps loads all YAML files from a directory. Invalid files are
// reported through warnf and skipped.
func LoadUserMaps(dir string, warnf func(format string, args ...any)) ([]EventMap, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read events dir: %w", err)
	}

	var maps []EventMap
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read user event map %s: %w", entry.Name(), err)
		}
		m, err := ParseEventMap(data)
		if err != nil {
			if warnf != nil {
				warnf("skipping invalid event map %s: %v", entry.Name(), err)
			}
			continue
		}
		maps = append(maps, *m)
	}
	return maps, nil
}

// LoadAll loads user maps (priority) and embedded maps, merging by name.
func LoadAll(userDir string, warnf func(format string, args ...any)) ([]EventMap, error) {
	user, err := LoadUserMaps(userDir, warnf)
	if err != nil {
		return nil, err
	}

	embedded, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]bool)
	var result []EventMap
	for _, m := range user {
		byName[m.Name] = true
		result = append(result, m)
	}
	for _, m := range embedded {
		if !byName[m.Name] {
			result = append(result, m)
		}
	}
	return result, nil
}
