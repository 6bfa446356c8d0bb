package checkpoint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	tempDir := t.TempDir()
	os.Setenv("XDG_DATA_HOME", tempDir)
	t.Cleanup(func() { os.Unsetenv("XDG_DATA_HOME") })

	manager, err := NewManager("test-run")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	return manager
}

func TestFingerprint(t *testing.T) {
	t.Run("StableForSameParts", func(t *testing.T) {
		a := Fingerprint("+15551234567", "2025-06-01", "out.jsonl")
		b := Fingerprint("+15551234567", "2025-06-01", "out.jsonl")
		if a != b {
			t.Errorf("Expected identical fingerprints, got %s and %s", a, b)
		}
		if len(a) != 16 {
			t.Errorf("Expected 16 character fingerprint, got %d", len(a))
		}
	})

	t.Run("DistinguishesParts", func(t *testing.T) {
		a := Fingerprint("+15551234567", "2025-06-01")
		b := Fingerprint("+15551234567", "2025-06-02")
		if a == b {
			t.Error("Different parts produced the same fingerprint")
		}
	})

	t.Run("PartBoundariesMatter", func(t *testing.T) {
		a := Fingerprint("ab", "c")
		b := Fingerprint("a", "bc")
		if a == b {
			t.Error("Shifted part boundary produced the same fingerprint")
		}
	})
}

func TestCheckpointLifecycle(t *testing.T) {
	manager := newTestManager(t)
	fingerprint := Fingerprint("+15551234567", "2025-06-01T00:00:00Z", "2025-07-01T00:00:00Z")

	t.Run("LoadMissingReturnsNil", func(t *testing.T) {
		checkpoint, err := manager.Load()
		if err != nil {
			t.Fatalf("Failed to load missing checkpoint: %v", err)
		}
		if checkpoint != nil {
			t.Error("Expected nil for missing checkpoint")
		}
	})

	t.Run("CreateAndLoad", func(t *testing.T) {
		created, err := manager.Create(fingerprint)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}
		if created.Fingerprint != fingerprint {
			t.Errorf("Expected fingerprint %s, got %s", fingerprint, created.Fingerprint)
		}
		if created.Version != checkpointVersion {
			t.Errorf("Expected version %d, got %d", checkpointVersion, created.Version)
		}

		loaded, err := manager.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if loaded == nil {
			t.Fatal("Expected checkpoint, got nil")
		}
		if loaded.Fingerprint != fingerprint {
			t.Errorf("Expected fingerprint %s, got %s", fingerprint, loaded.Fingerprint)
		}
	})

	t.Run("UpdateProgress", func(t *testing.T) {
		checkpoint, err := manager.Load()
		if err != nil || checkpoint == nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}

		nextURI := "/restapi/v1.0/account/~/call-log?page=2&perPage=100"
		if err := manager.UpdateProgress(checkpoint, nextURI, 100); err != nil {
			t.Fatalf("Failed to update progress: %v", err)
		}
		if err := manager.UpdateProgress(checkpoint, "", 187); err != nil {
			t.Fatalf("Failed to update progress: %v", err)
		}

		loaded, err := manager.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if loaded.PagesFetched != 2 {
			t.Errorf("Expected 2 pages fetched, got %d", loaded.PagesFetched)
		}
		if loaded.Exported != 187 {
			t.Errorf("Expected 187 exported, got %d", loaded.Exported)
		}
		if loaded.NextPageURI != "" {
			t.Errorf("Expected empty next page URI, got %s", loaded.NextPageURI)
		}
		if !loaded.UpdatedAt.After(loaded.CreatedAt) {
			t.Error("Expected UpdatedAt to advance past CreatedAt")
		}
	})

	t.Run("DeleteCheckpoint", func(t *testing.T) {
		if !manager.Exists() {
			t.Fatal("Expected checkpoint to exist before delete")
		}
		if err := manager.Delete(); err != nil {
			t.Fatalf("Failed to delete checkpoint: %v", err)
		}
		if manager.Exists() {
			t.Error("Expected checkpoint to be gone after delete")
		}
		// Deleting again should not error
		if err := manager.Delete(); err != nil {
			t.Errorf("Second delete failed: %v", err)
		}
	})
}

func TestLoadMatching(t *testing.T) {
	manager := newTestManager(t)
	fingerprint := Fingerprint("+15551234567", "detailed")

	if _, err := manager.Create(fingerprint); err != nil {
		t.Fatalf("Failed to create checkpoint: %v", err)
	}

	t.Run("MatchingFingerprintResumes", func(t *testing.T) {
		checkpoint, err := manager.LoadMatching(fingerprint)
		if err != nil {
			t.Fatalf("Failed to load matching checkpoint: %v", err)
		}
		if checkpoint == nil {
			t.Fatal("Expected checkpoint, got nil")
		}
	})

	t.Run("MismatchedFingerprintRefuses", func(t *testing.T) {
		other := Fingerprint("+15559999999", "detailed")
		checkpoint, err := manager.LoadMatching(other)
		if err == nil {
			t.Fatal("Expected error for mismatched fingerprint")
		}
		if checkpoint != nil {
			t.Error("Expected nil checkpoint on mismatch")
		}
		if !strings.Contains(err.Error(), "different query") {
			t.Errorf("Expected mismatch explanation, got: %v", err)
		}
	})

	t.Run("MissingCheckpointIsNotAnError", func(t *testing.T) {
		if err := manager.Delete(); err != nil {
			t.Fatalf("Failed to delete checkpoint: %v", err)
		}
		checkpoint, err := manager.LoadMatching(fingerprint)
		if err != nil {
			t.Fatalf("Expected nil error for missing checkpoint, got: %v", err)
		}
		if checkpoint != nil {
			t.Error("Expected nil checkpoint when none exists")
		}
	})
}

func TestSaveIsAtomic(t *testing.T) {
	manager := newTestManager(t)

	checkpoint, err := manager.Create(Fingerprint("query"))
	if err != nil {
		t.Fatalf("Failed to create checkpoint: %v", err)
	}

	// Repeated saves must never leave a temp file behind
	for i := 0; i < 5; i++ {
		checkpoint.PagesFetched = i
		if err := manager.Save(checkpoint); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	if _, err := os.Stat(manager.checkpointPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary checkpoint file left behind after save")
	}

	loaded, err := manager.Load()
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	if loaded.PagesFetched != 4 {
		t.Errorf("Expected last save to win, got %d pages", loaded.PagesFetched)
	}
}

func TestSeparateRunsKeepSeparateCheckpoints(t *testing.T) {
	tempDir := t.TempDir()
	os.Setenv("XDG_DATA_HOME", tempDir)
	defer os.Unsetenv("XDG_DATA_HOME")

	first, err := NewManager("fetch-a")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	second, err := NewManager("fetch-b")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if _, err := first.Create(Fingerprint("a")); err != nil {
		t.Fatalf("Failed to create checkpoint: %v", err)
	}

	if second.Exists() {
		t.Error("Second run sees the first run's checkpoint")
	}

	checkpointsDir := filepath.Join(tempDir, "rclogs", "checkpoints")
	entries, err := os.ReadDir(checkpointsDir)
	if err != nil {
		t.Fatalf("Failed to read checkpoints directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 checkpoint file, got %d", len(entries))
	}
}
