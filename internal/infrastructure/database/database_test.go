package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/config"
)

func testConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Enabled:     true,
		Path:        filepath.Join(t.TempDir(), "cardscan.db"),
		WALMode:     true,
		BusyTimeout: 5,
	}
}

// openTestDB opens a journal database in a temp directory.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	return db
}

func TestOpen(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		cfg := testConfig(t)
		db, err := Open(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(cfg.Path); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != cfg.Path {
			t.Errorf("Path() = %v, want %v", db.Path(), cfg.Path)
		}
	})

	t.Run("creates directory if not exists", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Path = filepath.Join(t.TempDir(), "data", "nested", "cardscan.db")

		db, err := Open(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(filepath.Dir(cfg.Path)); os.IsNotExist(err) {
			t.Error("database directory was not created")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Enabled = false

		_, err := Open(context.Background(), cfg)
		if !errors.Is(err, ErrDisabled) {
			t.Errorf("Open() error = %v, want ErrDisabled", err)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose(t *testing.T) {
	db, err := Open(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := db.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() after Close() should fail")
	}

	var nilDB *DB
	if err := nilDB.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}
