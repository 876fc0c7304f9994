package history

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluidlab/godaq/pkg/daq"
	"github.com/fluidlab/godaq/pkg/stream"
)

func TestCSVLogger(t *testing.T) {
	dir := t.TempDir()
	names := []string{"PT1 (bar)", "FM (slm)"}

	logger, err := NewCSVLogger(dir, names)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(logger.Path()))

	require.NoError(t, logger.Append(stream.Record{
		Received: time.Now(),
		Sample:   daq.Sample{Millis: 1234, Values: []float32{12.5, 100}},
	}))
	require.NoError(t, logger.Append(stream.Record{
		Received: time.Now(),
		Sample:   daq.Sample{Millis: 1244, Values: []float32{12.75, 101.5}},
	}))
	require.NoError(t, logger.Close())

	f, err := os.Open(logger.Path())
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"time (ms)", "PT1 (bar)", "FM (slm)"}, rows[0])
	assert.Equal(t, []string{"1234", "12.5", "100"}, rows[1])
	assert.Equal(t, []string{"1244", "12.75", "101.5"}, rows[2])
}

func TestCSVLogger_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	logger, err := NewCSVLogger(dir, []string{"ch0"})
	require.NoError(t, err)
	defer logger.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
