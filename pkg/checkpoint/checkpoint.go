package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"rclogs/pkg/logger"
)

const checkpointVersion = 1

// Checkpoint records where a fetch run stopped so it can resume
// without re-fetching completed pages
type Checkpoint struct {
	Fingerprint  string    `json:"fingerprint"`
	NextPageURI  string    `json:"next_page_uri"`
	PagesFetched int       `json:"pages_fetched"`
	Exported     int       `json:"exported"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// Fingerprint condenses the parts that identify a query (filters,
// destination) so a checkpoint is never resumed against different
// parameters
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		io.WriteString(h, part)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Manager handles checkpoint persistence for one named run
type Manager struct {
	checkpointPath string
	logger         logger.Logger
}

// NewManager creates a checkpoint manager. name scopes the checkpoint
// file, so independent queries keep independent checkpoints.
func NewManager(name string) (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	checkpointsDir := filepath.Join(dataDir, "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &Manager{
		checkpointPath: filepath.Join(checkpointsDir, fmt.Sprintf("%s.checkpoint.json", name)),
		logger:         logger.GetLogger(),
	}, nil
}

// Create starts a fresh checkpoint for the given query fingerprint
func (m *Manager) Create(fingerprint string) (*Checkpoint, error) {
	checkpoint := &Checkpoint{
		Fingerprint: fingerprint,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Version:     checkpointVersion,
	}

	if err := m.Save(checkpoint); err != nil {
		return nil, fmt.Errorf("failed to save initial checkpoint: %w", err)
	}

	m.logger.InfoWithFields("Checkpoint created", map[string]interface{}{
		"fingerprint": fingerprint,
		"path":        m.checkpointPath,
	})

	return checkpoint, nil
}

// Load reads the checkpoint, returning nil when none exists
func (m *Manager) Load() (*Checkpoint, error) {
	file, err := os.Open(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	var checkpoint Checkpoint
	if err := json.NewDecoder(file).Decode(&checkpoint); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if checkpoint.Version > checkpointVersion {
		return nil, fmt.Errorf("checkpoint %s was written by a newer version", m.checkpointPath)
	}

	m.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"fingerprint":   checkpoint.Fingerprint,
		"pages_fetched": checkpoint.PagesFetched,
		"exported":      checkpoint.Exported,
		"updated_at":    checkpoint.UpdatedAt,
	})

	return &checkpoint, nil
}

// LoadMatching loads the checkpoint only when it belongs to the given
// query fingerprint. A mismatch is an error, never a silent restart:
// resuming a different query would skip or duplicate records.
func (m *Manager) LoadMatching(fingerprint string) (*Checkpoint, error) {
	checkpoint, err := m.Load()
	if err != nil || checkpoint == nil {
		return checkpoint, err
	}

	if checkpoint.Fingerprint != fingerprint {
		return nil, fmt.Errorf("checkpoint %s belongs to a different query (saved %s); delete it or repeat the original parameters",
			m.checkpointPath, checkpoint.UpdatedAt.Format(time.RFC3339))
	}
	return checkpoint, nil
}

// Save writes the checkpoint to disk atomically
func (m *Manager) Save(checkpoint *Checkpoint) error {
	checkpoint.UpdatedAt = time.Now()

	tempPath := m.checkpointPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(checkpoint); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, m.checkpointPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"fingerprint":   checkpoint.Fingerprint,
		"pages_fetched": checkpoint.PagesFetched,
		"next_page":     checkpoint.NextPageURI,
	})

	return nil
}

// UpdateProgress records the cursor to resume at after a completed
// page. An empty nextPageURI marks the final page.
func (m *Manager) UpdateProgress(checkpoint *Checkpoint, nextPageURI string, exported int) error {
	checkpoint.NextPageURI = nextPageURI
	checkpoint.PagesFetched++
	checkpoint.Exported = exported
	return m.Save(checkpoint)
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	m.logger.Info("Checkpoint deleted")
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// getDataDirectory returns the appropriate data directory for the
// current OS
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "rclogs")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "rclogs")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "rclogs")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "rclogs")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}
