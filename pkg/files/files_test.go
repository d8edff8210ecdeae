package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteNewRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "PRD_20260216.md")

	if err := WriteNew(path, "first"); err != nil {
		t.Fatalf("WriteNew failed: %v", err)
	}
	err := WriteNew(path, "second")
	if !errors.Is(err, ErrFileAlreadyExists) {
		t.Fatalf("Expected ErrFileAlreadyExists, got %v", err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if got != "first" {
		t.Errorf("Expected content to stay 'first', got '%s'", got)
	}
}

func TestEnsureDirIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "260216")

	created, err := EnsureDir(dir)
	if err != nil || !created {
		t.Fatalf("Expected first EnsureDir to create, got created=%v err=%v", created, err)
	}
	created, err = EnsureDir(dir)
	if err != nil || created {
		t.Errorf("Expected second EnsureDir to reuse, got created=%v err=%v", created, err)
	}
}

func TestReadTextMissing(t *testing.T) {
	_, err := ReadText(filepath.Join(t.TempDir(), "missing.md"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestListSkipsHiddenAndDirs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.md", "a.md", ".DS_Store"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	list, err := List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(list))
	}
	for _, md := range list {
		if md.Size != 1 {
			t.Errorf("Expected size 1 for %s, got %d", md.Name, md.Size)
		}
		if md.Created.IsZero() {
			t.Errorf("Expected a creation time for %s", md.Name)
		}
		if !md.CreatedIsBirth && !md.Created.Equal(md.Modified) {
			t.Errorf("Expected fallback creation time to equal modification time for %s", md.Name)
		}
	}
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := Expand("~/prd"); got != filepath.Join(home, "prd") {
		t.Errorf("Expected %s, got %s", filepath.Join(home, "prd"), got)
	}
	if got := Expand("/tmp/prd"); got != "/tmp/prd" {
		t.Errorf("Expected /tmp/prd, got %s", got)
	}
}
