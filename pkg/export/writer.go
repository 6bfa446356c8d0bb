package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rclogs/pkg/ringcentral"
)

// Writer appends call-log records as JSON Lines, one record per line.
// On open it indexes the record ids already present in the file, so
// resumed and repeated runs never export a record twice.
type Writer struct {
	path    string
	file    *os.File
	written map[string]bool
	mu      sync.Mutex
}

// NewWriter opens the export file for appending, creating it and its
// directory if needed
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	w := &Writer{
		path:    path,
		written: make(map[string]bool),
	}
	if err := w.scanExisting(); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	w.file = file

	return w, nil
}

// scanExisting indexes the ids of records already in the file.
// Unparseable lines never match an id, so they are simply kept.
func (w *Writer) scanExisting() error {
	file, err := os.Open(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read existing export: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Detailed records with legs can produce long lines
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			continue
		}
		if probe.ID != "" {
			w.written[probe.ID] = true
		}
	}
	return scanner.Err()
}

// Write appends one record unless its id was already exported. It
// reports whether the record was written.
func (w *Writer) Write(record ringcentral.CallLogRecord) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if record.ID != "" && w.written[record.ID] {
		return false, nil
	}

	line, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to encode record %s: %w", record.ID, err)
	}
	line = append(line, '\n')

	if _, err := w.file.Write(line); err != nil {
		return false, fmt.Errorf("failed to write record %s: %w", record.ID, err)
	}

	if record.ID != "" {
		w.written[record.ID] = true
	}
	return true, nil
}

// Count returns how many distinct record ids the file holds
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.written)
}

// Path returns the export file's location
func (w *Writer) Path() string {
	return w.path
}

// Close releases the underlying file
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
