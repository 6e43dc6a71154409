package repository

import (
	"os"
	"path/filepath"
	"testing"

	"volumectl/internal/domain"
)

func TestFileRepository_DefaultsWhenMissing(t *testing.T) {
	t.Parallel()
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "nested", "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != domain.DefaultSettings() {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestFileRepository_SaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	want := domain.Settings{
		Backend:        "memory",
		Stream:         "input",
		Addr:           "0.0.0.0:8080",
		LogLevel:       "debug",
		MemoryMaxLevel: 25,
	}
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestFileRepository_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"backend":"osascript"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	repo, _ := NewFileRepository(path)
	got, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := domain.DefaultSettings()
	want.Backend = "osascript"
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestFileRepository_Errors(t *testing.T) {
	t.Parallel()
	if _, err := NewFileRepository(""); err == nil {
		t.Error("empty path must be rejected")
	}

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{broken`), 0o644); err != nil {
		t.Fatal(err)
	}
	repo, _ := NewFileRepository(path)
	if _, err := repo.Load(); err == nil {
		t.Error("corrupt file must fail to load")
	}
}
