package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStem(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"data/acme.stackexchange.com.7z", "data/acme.stackexchange.com"},
		{"acme.7z", "acme"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := Stem(tt.path); got != filepath.FromSlash(tt.want) {
			t.Errorf("Stem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEntryPath(t *testing.T) {
	dest := filepath.Join("data", "acme")

	got, err := entryPath(dest, "Posts.xml")
	if err != nil {
		t.Fatalf("entryPath: %v", err)
	}
	if want := filepath.Join(dest, "Posts.xml"); got != want {
		t.Errorf("entryPath = %q, want %q", got, want)
	}

	if _, err := entryPath(dest, "../outside.xml"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if _, err := entryPath(dest, "sub/../../outside.xml"); err == nil {
		t.Error("expected nested traversal to be rejected")
	}
}

func TestSkipEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Posts.xml")
	if err := os.WriteFile(path, []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !skipEntry(path, 5) {
		t.Error("complete file should be skipped")
	}
	if skipEntry(path, 10) {
		t.Error("short file should not be skipped")
	}
	if skipEntry(filepath.Join(dir, "missing"), 5) {
		t.Error("missing file should not be skipped")
	}
	if skipEntry(dir, 5) {
		t.Error("directory should not be skipped")
	}
}

func TestExtract_MissingArchive(t *testing.T) {
	err := Extract(context.Background(), filepath.Join(t.TempDir(), "nope.7z"), t.TempDir(), nil)
	if err == nil {
		t.Error("expected error for missing archive")
	}
}
