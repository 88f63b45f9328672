// Package initcmd performs first-run setup: config file, data directory and
// the directory for user event maps.
package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/edouard-claude/printmeter/internal/config"
	"github.com/edouard-claude/printmeter/internal/utils"
)

// Run installs the printmeter config and directories.
func Run(args []string) error {
	for _, arg := range args {
		if arg == "--uninstall" {
			return Uninstall()
		}
	}

	cfg := config.DefaultConfig()
	if dir := os.Getenv("PRINTMETER_DATA_DIR"); dir != "" {
		cfg.Tracking.DataDir = dir
	}

	// 1. Create data directory
	if err := os.MkdirAll(cfg.Tracking.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// 2. Create event map directory
	if err := os.MkdirAll(cfg.Host.EventsDir, 0755); err != nil {
		return fmt.Errorf("create events dir: %w", err)
	}

	// 3. Write or merge config
	configPath := config.Path()
	if err := patchConfig(configPath, cfg); err != nil {
		return fmt.Errorf("patch config: %w", err)
	}

	fmt.Println("printmeter init complete:")
	fmt.Printf("  config: %s\n", configPath)
	fmt.Printf("  data: %s\n", cfg.Tracking.DataDir)
	fmt.Printf("  events: %s\n", cfg.Host.EventsDir)
	return nil
}

// Uninstall removes the config file. Tracked data is left in place.
func Uninstall() error {
	configPath := config.Path()
	if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove config: %w", err)
	}
	fmt.Println("printmeter config removed (data kept)")
	return nil
}

// patchConfig writes defaults to path, or adds missing sections and keys to
// an existing file without touching values the user set.
func patchConfig(path string, defaults *config.Config) error {
	var want map[string]any
	raw, err := toml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	if err := toml.Unmarshal(raw, &want); err != nil {
		return fmt.Errorf("decode defaults: %w", err)
	}

	var current map[string]any
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
		current = make(map[string]any)
	} else {
		// Backup
		os.WriteFile(path+".bak", data, 0644)

		if err := toml.Unmarshal(data, &current); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		if current == nil {
			current = make(map[string]any)
		}
	}

	for section, value := range want {
		keys, ok := value.(map[string]any)
		if !ok {
			continue
		}
		existing, _ := current[section].(map[string]any)
		if existing == nil {
			current[section] = keys
			continue
		}
		for key, v := range keys {
			if _, ok := existing[key]; !ok {
				existing[key] = v
			}
		}
	}

	out, err := toml.Marshal(current)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return utils.AtomicWriteFile(path, out, 0644)
}
