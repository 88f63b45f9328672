package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edouard-claude/printmeter/internal/host"
	"github.com/edouard-claude/printmeter/internal/tracking"
)

// setupEnv isolates config, data and history paths and exposes the
// repository's event maps as the embedded set.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("PRINTMETER_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("PRINTMETER_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("PRINTMETER_DB_PATH", filepath.Join(dir, "history.db"))
	t.Setenv("PRINTMETER_TEE", "")

	old := host.EmbeddedFS
	host.EmbeddedFS = os.DirFS(filepath.Join("..", ".."))
	t.Cleanup(func() { host.EmbeddedFS = old })
	return dir
}

func writeStream(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "stream.gcode")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunVersionAndHelp(t *testing.T) {
	for _, args := range [][]string{
		{"printmeter"},
		{"printmeter", "--version"},
		{"printmeter", "--help"},
	} {
		if code := Run(args); code != 0 {
			t.Errorf("Run(%v) = %d, want 0", args, code)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	setupEnv(t)
	if code := Run([]string{"printmeter", "frobnicate"}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	dir := setupEnv(t)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[tee]\nmode = \"sometimes\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if code := Run([]string{"printmeter", "report"}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunFeedPersistsTotals(t *testing.T) {
	dir := setupEnv(t)
	stream := writeStream(t, dir,
		"@PrintStarted",
		"G28",
		"G90",
		"M83",
		"G1 X20 Y10 E4",
		"G1 X0",
		"@PrintFailed",
	)

	if code := Run([]string{"printmeter", "--no-color", "feed", stream}); code != 0 {
		t.Fatalf("feed exit code = %d", code)
	}

	snap, found, err := tracking.NewStore(filepath.Join(dir, "data")).Load()
	if err != nil || !found {
		t.Fatalf("load snapshot: found=%v err=%v", found, err)
	}
	if snap.AxisTraveling.X != 40 || snap.AxisTraveling.Y != 10 {
		t.Errorf("axis = %v", snap.AxisTraveling)
	}
	if len(snap.ExtrusionTraveling) != 1 || snap.ExtrusionTraveling[0] != 4 {
		t.Errorf("extrusion = %v", snap.ExtrusionTraveling)
	}
	if snap.TrackingStartedAt.IsZero() {
		t.Error("tracking start not stamped")
	}

	// The failed print leaves its tail behind.
	entries, err := os.ReadDir(filepath.Join(dir, "data", "tee"))
	if err != nil || len(entries) != 1 {
		t.Errorf("tee entries = %v, err = %v", entries, err)
	}

	// A second feed continues from the snapshot.
	stream = writeStream(t, dir, "G1 X5")
	if code := Run([]string{"printmeter", "feed", stream}); code != 0 {
		t.Fatalf("second feed exit code = %d", code)
	}
	snap, _, _ = tracking.NewStore(filepath.Join(dir, "data")).Load()
	if snap.AxisTraveling.X != 45 {
		t.Errorf("x after second feed = %v, want 45", snap.AxisTraveling.X)
	}
}

func TestRunFeedRecordsHistory(t *testing.T) {
	dir := setupEnv(t)
	stream := writeStream(t, dir, "@PrintStarted", "G1 X10", "@PrintDone")

	if code := Run([]string{"printmeter", "feed", stream}); code != 0 {
		t.Fatalf("feed exit code = %d", code)
	}
	if !tracking.DriverAvailable {
		return
	}

	tracker, err := tracking.NewTracker(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer tracker.Close()
	summary, err := tracker.GetSummary()
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalCycles != 1 || summary.Completed != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRunFeedMissingFile(t *testing.T) {
	dir := setupEnv(t)
	if code := Run([]string{"printmeter", "feed", filepath.Join(dir, "missing.gcode")}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunFeedUnknownEventMap(t *testing.T) {
	dir := setupEnv(t)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[host]\nevent_map = \"marlin\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	stream := writeStream(t, dir, "G1 X1")
	if code := Run([]string{"printmeter", "feed", stream}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunFeedCorruptSnapshot(t *testing.T) {
	dir := setupEnv(t)
	data := filepath.Join(dir, "data")
	if err := os.MkdirAll(data, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(data, tracking.SnapshotFilename), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	stream := writeStream(t, dir, "G1 X1")
	if code := Run([]string{"printmeter", "feed", stream}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunReportAndConfig(t *testing.T) {
	setupEnv(t)
	for _, args := range [][]string{
		{"printmeter", "report"},
		{"printmeter", "report", "--json"},
		{"printmeter", "config"},
		{"printmeter", "history"},
	} {
		if code := Run(args); code != 0 && args[1] != "history" {
			t.Errorf("Run(%v) = %d, want 0", args, code)
		}
	}
}

func TestRunInit(t *testing.T) {
	dir := setupEnv(t)
	if code := Run([]string{"printmeter", "init"}); code != 0 {
		t.Fatalf("init exit code = %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("config not written: %v", err)
	}
}
