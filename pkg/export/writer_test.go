package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rclogs/pkg/ringcentral"
)

func exportRecord(id string) ringcentral.CallLogRecord {
	return ringcentral.CallLogRecord{
		ID:        id,
		StartTime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Direction: "Inbound",
		From:      ringcentral.CallParty{PhoneNumber: "+15551234567"},
		To:        ringcentral.CallParty{PhoneNumber: "+15557654321"},
	}
}

func TestWriterAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)
	defer w.Close()

	written, err := w.Write(exportRecord("r1"))
	require.NoError(t, err)
	assert.True(t, written)

	written, err = w.Write(exportRecord("r2"))
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	var decoded ringcentral.CallLogRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, "r1", decoded.ID)
	assert.Equal(t, "Inbound", decoded.Direction)
}

func TestWriterSuppressesDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)

	written, err := w.Write(exportRecord("r1"))
	require.NoError(t, err)
	assert.True(t, written)

	written, err = w.Write(exportRecord("r1"))
	require.NoError(t, err)
	assert.False(t, written, "the same id must not be exported twice")
	assert.Equal(t, 1, w.Count())

	require.NoError(t, w.Close())

	// A new writer over the same file must index the existing ids.
	w, err = NewWriter(path)
	require.NoError(t, err)
	defer w.Close()

	written, err = w.Write(exportRecord("r1"))
	require.NoError(t, err)
	assert.False(t, written, "duplicates must be suppressed across reopens")

	written, err = w.Write(exportRecord("r2"))
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestWriterToleratesForeignLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n\n"), 0644))

	w, err := NewWriter(path)
	require.NoError(t, err)
	defer w.Close()

	written, err := w.Write(exportRecord("r1"))
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "not json\n"), "existing content must be preserved")
	assert.Contains(t, string(data), `"id":"r1"`)
}

func TestWriterCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "calls.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)
	defer w.Close()

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}
