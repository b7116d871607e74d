package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/lab"
	"github.com/san-kum/riverlab/internal/metrics"
)

func runFixture(t *testing.T) Run {
	t.Helper()
	p := erosion.DefaultParams()
	p.Size = 12
	st, err := erosion.NewStepper(p)
	require.NoError(t, err)
	t0, err := erosion.NewTerrain(p, erosion.NewSource(42))
	require.NoError(t, err)

	series := metrics.NewSeries(0)
	r := lab.NewRunner(st)
	r.AddObserver(series)
	r.AddMetric(metrics.NewTotalWater())
	res, err := r.Run(context.Background(), t0, lab.RunConfig{Ticks: 5, Rain: 0.01})
	require.NoError(t, err)

	return Run{Name: "test run", Preset: "default", Seed: 42, Rain: 0.01, Params: p, Result: res, Series: series}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	run := runFixture(t)
	runID, err := st.Save(run)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "test-run_"), "unexpected id %q", runID)

	for _, f := range []string{metadataFile, seriesFile, snapshotFile} {
		_, err := os.Stat(filepath.Join(st.Dir(), runID, f))
		assert.NoError(t, err, f)
	}

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "test run", meta.Name)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 5, meta.Ticks)
	assert.Equal(t, 12, meta.Size)
	assert.Equal(t, run.Params, meta.Params)
	assert.InDelta(t, run.Result.Metrics["total_water"], meta.Metrics["total_water"], 1e-12)

	series, err := st.LoadSeries(runID)
	require.NoError(t, err)
	assert.Equal(t, run.Series.Samples(), series.Samples())

	snap, err := st.LoadSnapshot(runID)
	require.NoError(t, err)
	assert.True(t, snap.Equal(run.Result.Final), "snapshot did not round-trip")
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save(runFixture(t))
	require.NoError(t, err)
	second, err := st.Save(runFixture(t))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreErrors(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	for _, id := range []string{"", "..", "a/b", `a\b`} {
		_, err := st.Load(id)
		assert.ErrorIs(t, err, ErrInvalidRunID, id)
	}

	dir := filepath.Join(st.Dir(), "broken")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, metadataFile), []byte("{"), 0644))
	_, err = st.Load("broken")
	assert.ErrorIs(t, err, ErrCorruptRun)

	_, err = st.Save(Run{})
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(runFixture(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, runID))
	var doc ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, runID, doc.Metadata.ID)
	assert.Equal(t, metrics.Columns, doc.Columns)
	assert.Len(t, doc.Samples, 6)

	buf.Reset()
	require.NoError(t, st.ExportCSV(&buf, runID))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 7)
	assert.Equal(t, strings.Join(metrics.Columns, ","), lines[0])
}
