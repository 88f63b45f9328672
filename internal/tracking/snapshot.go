package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/edouard-claude/printmeter/internal/odometer"
	"github.com/edouard-claude/printmeter/internal/utils"
)

// SnapshotFilename is the file written inside the storage directory.
const SnapshotFilename = "trackingValues.json"

// startedLayout is the on-disk timestamp format. Parsing with the layout
// minus the fraction also accepts values written without microseconds.
const (
	startedLayout      = "2006-01-02 15:04:05.000000"
	startedParseLayout = "2006-01-02 15:04:05"
)

// Snapshot is the durable record of cumulative tracking state.
type Snapshot struct {
	TrackingStartedAt  time.Time // zero before the first session
	TotalDuration      time.Duration
	AxisTraveling      odometer.Vector3
	ExtrusionTraveling []float64
}

type snapshotFile struct {
	TrackingStartedDateTime *string   `json:"trackingStartedDateTime"`
	TotalDuration           int64     `json:"totalDuration"`
	AxisX                   *float64  `json:"axisTraveling.x,omitempty"`
	AxisY                   *float64  `json:"axisTraveling.y,omitempty"`
	AxisZ                   *float64  `json:"axisTraveling.z,omitempty"`
	ExtrusionTraveling      []float64 `json:"extrusionTraveling"`
}

// Store reads and writes the snapshot file. Writes replace the whole file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store for SnapshotFilename inside dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, SnapshotFilename)}
}

// Path returns the snapshot file location.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot. found is false when the file does not exist yet,
// which is not an error. Any other failure wraps ErrSnapshotLoad.
func (s *Store) Load() (snap Snapshot, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("%w: %w", ErrSnapshotLoad, err)
	}

	snap, err = decodeSnapshot(data)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("%w: %s: %w", ErrSnapshotLoad, s.path, err)
	}
	return snap, true, nil
}

// Save overwrites the snapshot file atomically.
func (s *Store) Save(snap Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := utils.AtomicWriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func encodeSnapshot(snap Snapshot) ([]byte, error) {
	x, y, z := snap.AxisTraveling.X, snap.AxisTraveling.Y, snap.AxisTraveling.Z
	f := snapshotFile{
		TotalDuration:      int64(snap.TotalDuration / time.Second),
		AxisX:              &x,
		AxisY:              &y,
		AxisZ:              &z,
		ExtrusionTraveling: snap.ExtrusionTraveling,
	}
	if f.ExtrusionTraveling == nil {
		f.ExtrusionTraveling = []float64{0}
	}
	if !snap.TrackingStartedAt.IsZero() {
		ts := snap.TrackingStartedAt.Format(startedLayout)
		f.TrackingStartedDateTime = &ts
	}

	data, err := json.MarshalIndent(f, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}

	var snap Snapshot
	if f.TrackingStartedDateTime != nil {
		ts, err := time.ParseInLocation(startedParseLayout, *f.TrackingStartedDateTime, time.Local)
		if err != nil {
			return Snapshot{}, fmt.Errorf("trackingStartedDateTime: %w", err)
		}
		snap.TrackingStartedAt = ts
	}
	if f.TotalDuration < 0 {
		return Snapshot{}, fmt.Errorf("totalDuration: negative value %d", f.TotalDuration)
	}
	snap.TotalDuration = time.Duration(f.TotalDuration) * time.Second
	if f.AxisX != nil {
		snap.AxisTraveling.X = *f.AxisX
	}
	if f.AxisY != nil {
		snap.AxisTraveling.Y = *f.AxisY
	}
	if f.AxisZ != nil {
		snap.AxisTraveling.Z = *f.AxisZ
	}
	snap.ExtrusionTraveling = f.ExtrusionTraveling
	return snap, nil
}
