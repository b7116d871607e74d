package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/riverlab/internal/metrics"
)

// ExportData is the JSON document produced by ExportJSON.
type ExportData struct {
	Metadata *RunMetadata     `json:"metadata"`
	Columns  []string         `json:"columns"`
	Samples  []metrics.Sample `json:"samples"`
}

// ExportJSON writes a run's metadata and series to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Metadata: meta,
		Columns:  metrics.Columns,
		Samples:  series.Samples(),
	})
}

// ExportCSV writes a run's series to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	return WriteSeriesCSV(w, series)
}
