// Package tee keeps the tail of the command stream and saves it to disk when
// a print ends badly.
package tee

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Config for tee behavior.
type Config struct {
	Enabled  bool
	Mode     string // "failures", "always", "never"
	MaxFiles int
	MaxLines int
	Dir      string
}

// DefaultConfig returns tee defaults rooted in dataDir.
func DefaultConfig(dataDir string) Config {
	return Config{
		Enabled:  true,
		Mode:     "failures",
		MaxFiles: 20,
		MaxLines: 200,
		Dir:      filepath.Join(dataDir, "tee"),
	}
}

// Tail is a bounded ring of the most recent lines. Safe for concurrent use.
type Tail struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

// NewTail returns a ring holding at most n lines (minimum 1).
func NewTail(n int) *Tail {
	if n < 1 {
		n = 1
	}
	return &Tail{lines: make([]string, n)}
}

// Add appends a line, evicting the oldest when full.
func (t *Tail) Add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines[t.next] = line
	t.next++
	if t.next == len(t.lines) {
		t.next = 0
		t.full = true
	}
}

// Lines returns the buffered lines, oldest first.
func (t *Tail) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		out := make([]string, t.next)
		copy(out, t.lines[:t.next])
		return out
	}
	out := make([]string, 0, len(t.lines))
	out = append(out, t.lines[t.next:]...)
	out = append(out, t.lines[:t.next]...)
	return out
}

// Reset drops every buffered line.
func (t *Tail) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next = 0
	t.full = false
}

// MaybeSave writes lines for a cycle that ended with outcome if the mode asks
// for it. Returns the written path, or "" when nothing was saved.
func MaybeSave(lines []string, outcome string, cfg Config) (string, error) {
	if !cfg.Enabled || cfg.Mode == "never" {
		return "", nil
	}
	if os.Getenv("PRINTMETER_TEE") == "0" {
		return "", nil
	}

	shouldSave := cfg.Mode == "always" || (cfg.Mode == "failures" && isFailure(outcome))
	if !shouldSave || len(lines) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return "", fmt.Errorf("tee dir: %w", err)
	}

	// Sanitize outcome for filename
	safeName := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, outcome)

	filename := fmt.Sprintf("%d-%s.gcode", time.Now().Unix(), safeName)
	path := filepath.Join(cfg.Dir, filename)

	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return "", fmt.Errorf("tee write: %w", err)
	}

	rotateFiles(cfg.Dir, cfg.MaxFiles)
	return path, nil
}

func isFailure(outcome string) bool {
	return outcome == "failed" || outcome == "cancelled"
}

func rotateFiles(dir string, maxFiles int) {
	if maxFiles < 1 {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var saved []os.DirEntry
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".gcode") {
			saved = append(saved, e)
		}
	}

	if len(saved) <= maxFiles {
		return
	}

	// Sort by name (timestamp prefix = chronological)
	sort.Slice(saved, func(i, j int) bool {
		return saved[i].Name() < saved[j].Name()
	})

	toRemove := len(saved) - maxFiles
	for i := 0; i < toRemove; i++ {
		os.Remove(filepath.Join(dir, saved[i].Name()))
	}
}
