package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const runsDir = "runs"

var ErrRunNotFound = errors.New("storage: run not found")

// Store resolves array files and run records against a base directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	if baseDir == "" {
		baseDir = "."
	}
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(filepath.Join(s.baseDir, runsDir), 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

// Path returns name unchanged when absolute, otherwise joined to the base
// directory.
func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.baseDir, name)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Command   string             `json:"command"`
	Timestamp time.Time          `json:"timestamp"`
	J         float64            `json:"j"`
	H         float64            `json:"h"`
	Beta      float64            `json:"beta"`
	TimeLen   int                `json:"time_len"`
	SpaceLen  int                `json:"space_len"`
	Seed      uint64             `json:"seed"`
	Outputs   []string           `json:"outputs"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Record writes meta to runs/<command>_<unix>.json and returns the run id.
// ID and Timestamp are filled in when empty.
func (s *Store) Record(meta RunMetadata) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	dir := filepath.Join(s.baseDir, runsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	base := meta.ID
	if base == "" {
		base = fmt.Sprintf("%s_%d", meta.Command, meta.Timestamp.Unix())
	}

	for n := 0; ; n++ {
		id := base
		if n > 0 {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		f, err := os.OpenFile(filepath.Join(dir, id+".json"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}

		meta.ID = id
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(meta); err != nil {
			f.Close()
			return "", err
		}
		return id, f.Close()
	}
}

// List returns every readable run record, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, runsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		meta, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runsDir, runID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	return &meta, nil
}
