package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/lab"
	"github.com/san-kum/riverlab/internal/metrics"
	"github.com/san-kum/riverlab/internal/terrain"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	snapshotFile = "final.csv"
)

var (
	// ErrRunNotFound indicates a run ID with no metadata on disk.
	ErrRunNotFound = errors.New("storage: run not found")
	// ErrInvalidRunID indicates an ID that would escape the data directory.
	ErrInvalidRunID = errors.New("storage: invalid run id")
	// ErrCorruptRun indicates unreadable run files.
	ErrCorruptRun = errors.New("storage: corrupt run data")
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Rain      float64            `json:"rain"`
	Ticks     int                `json:"ticks"`
	Size      int                `json:"size"`
	Params    erosion.Params     `json:"params"`
	Totals    erosion.StepStats  `json:"totals"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run is everything written for one headless run.
type Run struct {
	Name   string
	Preset string
	Seed   int64
	Rain   float64
	Params erosion.Params
	Result *lab.Result
	Series *metrics.Series
}

// Save writes the run under a fresh ID and returns it.
func (s *Store) Save(run Run) (string, error) {
	if run.Result == nil || run.Result.Final == nil {
		return "", errors.New("storage: run has no result")
	}
	name := run.Name
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", sanitize(name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Preset:    run.Preset,
		Timestamp: now,
		Seed:      run.Seed,
		Rain:      run.Rain,
		Ticks:     run.Result.TicksTaken,
		Size:      run.Result.Final.Size(),
		Params:    run.Params,
		Totals:    run.Result.Totals,
		Metrics:   run.Result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if run.Series != nil {
		if err := writeSeries(filepath.Join(runDir, seriesFile), run.Series); err != nil {
			return "", err
		}
	}
	if err := writeSnapshot(filepath.Join(runDir, snapshotFile), run.Result.Final); err != nil {
		return "", err
	}
	return runID, nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '-'
	}, name)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeSeries(path string, series *metrics.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSeriesCSV(f, series)
}

// WriteSeriesCSV writes series with a metrics.Columns header.
func WriteSeriesCSV(out io.Writer, series *metrics.Series) error {
	w := csv.NewWriter(out)
	if err := w.Write(metrics.Columns); err != nil {
		return err
	}
	for _, sm := range series.Samples() {
		row := []string{strconv.Itoa(sm.Tick)}
		for _, v := range sm.Values() {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSnapshot(path string, t *terrain.Terrain) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "height", "water", "sediment"}); err != nil {
		return err
	}
	var werr error
	t.Each(func(x, y int, c terrain.Cell) {
		if werr != nil {
			return
		}
		werr = w.Write([]string{
			strconv.Itoa(x), strconv.Itoa(y),
			formatFloat(c.Height), formatFloat(c.Water), formatFloat(c.Sediment),
		})
	})
	if werr != nil {
		return werr
	}
	w.Flush()
	return w.Error()
}

// List returns all readable runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) runPath(runID, file string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return filepath.Join(s.baseDir, runID, file), nil
}

func (s *Store) open(runID, file string) (*os.File, error) {
	path, err := s.runPath(runID, file)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return f, err
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	f, err := s.open(runID, metadataFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var meta RunMetadata
	if err := json.NewDecoder(f).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRun, runID, err)
	}
	return &meta, nil
}

// LoadSeries reads the per-tick series of a run.
func (s *Store) LoadSeries(runID string) (*metrics.Series, error) {
	f, err := s.open(runID, seriesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRun, runID, err)
	}

	series := metrics.NewSeries(0)
	for i := 1; i < len(records); i++ {
		vals, err := parseFloats(records[i])
		if err != nil || len(vals) != len(metrics.Columns) {
			return nil, fmt.Errorf("%w: %s line %d", ErrCorruptRun, seriesFile, i+1)
		}
		series.Append(metrics.Sample{
			Tick:        int(vals[0]),
			Water:       vals[1],
			Sediment:    vals[2],
			Height:      vals[3],
			Outflow:     vals[4],
			Eroded:      vals[5],
			Deposited:   vals[6],
			Infiltrated: vals[7],
		})
	}
	return series, nil
}

// LoadSnapshot rebuilds the final terrain of a run.
func (s *Store) LoadSnapshot(runID string) (*terrain.Terrain, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	f, err := s.open(runID, snapshotFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRun, runID, err)
	}

	b, err := terrain.NewBuilder(meta.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRun, err)
	}
	if len(records)-1 != meta.Size*meta.Size {
		return nil, fmt.Errorf("%w: %s has %d cells, want %d", ErrCorruptRun, snapshotFile, len(records)-1, meta.Size*meta.Size)
	}
	for i := 1; i < len(records); i++ {
		vals, err := parseFloats(records[i])
		if err != nil || len(vals) != 5 {
			return nil, fmt.Errorf("%w: %s line %d", ErrCorruptRun, snapshotFile, i+1)
		}
		b.Set(int(vals[0]), int(vals[1]), terrain.Cell{Height: vals[2], Water: vals[3], Sediment: vals[4]})
	}
	return b.Build(), nil
}

func parseFloats(record []string) ([]float64, error) {
	out := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
