package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

// journalConfig writes a config with the scan journal enabled in a temp dir.
func journalConfig(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "journal", "scans.db")
	return writeConfig(t, `
database:
  enabled: true
  path: "`+dbPath+`"
`)
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateCmd(t *testing.T) {
	t.Setenv("CARDSCAN_DATABASE_PATH", "")
	path := journalConfig(t)

	out, err := execute(t, "migrate", "status", "--config", path)
	if err != nil {
		t.Fatalf("migrate status error = %v", err)
	}
	if !strings.Contains(out, "pending  20260301_090000  create_scans") || !strings.Contains(out, "0 applied, 1 pending") {
		t.Errorf("status before migrate:\n%s", out)
	}

	out, err = execute(t, "migrate", "--config", path)
	if err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if !strings.Contains(out, "applied  20260301_090000") || !strings.Contains(out, "1 applied, 0 pending") {
		t.Errorf("status after migrate:\n%s", out)
	}

	out, err = execute(t, "migrate", "down", "--config", path)
	if err != nil {
		t.Fatalf("migrate down error = %v", err)
	}
	if !strings.Contains(out, "rolled back 20260301_090000") {
		t.Errorf("migrate down output:\n%s", out)
	}

	out, err = execute(t, "migrate", "down", "--config", path)
	if err != nil {
		t.Fatalf("second migrate down error = %v", err)
	}
	if !strings.Contains(out, "nothing to roll back") {
		t.Errorf("second migrate down output:\n%s", out)
	}

	out, err = execute(t, "migrate", "status", "--config", path)
	if err != nil {
		t.Fatalf("migrate status error = %v", err)
	}
	if !strings.Contains(out, "0 applied, 1 pending") {
		t.Errorf("status after rollback:\n%s", out)
	}
}

func TestMigrateCmd_JournalDisabled(t *testing.T) {
	t.Setenv(configEnvVar, "")

	_, err := execute(t, "migrate", "status")
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Errorf("migrate status error = %v, want journal disabled", err)
	}
}
