package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fluidlab/godaq/pkg/stream"
)

// CSVLogger appends decoded records to a timestamped CSV file, one session
// per file. The first column is the device millisecond timestamp, followed
// by one column per channel in wire order.
type CSVLogger struct {
	path string
	file *os.File
	w    *csv.Writer
}

// NewCSVLogger creates the session file under dir (created if missing) with
// a header row naming every channel.
func NewCSVLogger(dir string, channelNames []string) (*CSVLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := time.Now().Format("data_2006-01-02,15-04-05") + ".csv"
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	w := csv.NewWriter(file)
	header := append([]string{"time (ms)"}, channelNames...)
	if err := w.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	w.Flush()

	return &CSVLogger{path: path, file: file, w: w}, nil
}

// Path returns the session file path.
func (l *CSVLogger) Path() string {
	return l.path
}

// Append writes one record as a CSV row.
func (l *CSVLogger) Append(rec stream.Record) error {
	row := make([]string, 0, len(rec.Sample.Values)+1)
	row = append(row, strconv.FormatUint(uint64(rec.Sample.Millis), 10))
	for _, v := range rec.Sample.Values {
		row = append(row, strconv.FormatFloat(float64(v), 'f', -1, 32))
	}

	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	l.w.Flush()
	return l.w.Error()
}

// Close flushes and closes the session file.
func (l *CSVLogger) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
