package enumerator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ati1707/renpy-img-prune/internal"
)

var testExtensions = []string{"png", "jpg", "jpeg", "avif", "webp", "svg"}

func writeFiles(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		fullPath := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte("img"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
}

func TestEnumerate_ExtensionFilter(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, []string{
		"a.png",
		"b.JPG",
		"c.jpeg",
		"d.webp",
		"e.svg",
		"f.avif",
		"notes.txt",
		"README",
		"g.png.bak",
	})

	enum := New(testExtensions, internal.KeyModeFlat)
	result, err := enum.Enumerate(tempDir)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	if result.Count != 6 {
		t.Errorf("Expected 6 images, got %d", result.Count)
	}

	if _, ok := result.Keys["notes"]; ok {
		t.Error("Non-image extension .txt must never be included")
	}
	if _, ok := result.Keys["README"]; ok {
		t.Error("Files without extension must be excluded")
	}
	if _, ok := result.Keys["b"]; !ok {
		t.Error("Extension matching must be case-insensitive, b.JPG missing")
	}
}

func TestEnumerate_FlatKeyCollapse(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, []string{
		"logo.png",
		"sub/logo.png",
	})

	enum := New(testExtensions, internal.KeyModeFlat)
	result, err := enum.Enumerate(tempDir)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	paths, ok := result.Keys["logo"]
	if !ok {
		t.Fatal("Expected key 'logo'")
	}
	if len(paths) != 2 {
		t.Errorf("Expected flat mode to collapse both files under one key, got %d paths", len(paths))
	}
	if len(result.Keys) != 1 {
		t.Errorf("Expected 1 key, got %d", len(result.Keys))
	}
}

func TestEnumerate_RelativeKeys(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, []string{
		"logo.png",
		"sub/logo.png",
		"gui/button.webp",
	})

	enum := New(testExtensions, internal.KeyModeRelative)
	result, err := enum.Enumerate(tempDir)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	for _, expected := range []string{"logo", "sub/logo", "gui/button"} {
		if _, ok := result.Keys[expected]; !ok {
			t.Errorf("Expected key %q, got keys %v", expected, result.Keys)
		}
	}
	if len(result.Keys) != 3 {
		t.Errorf("Expected 3 keys, got %d", len(result.Keys))
	}
}

func TestEnumerate_AbsolutePaths(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, []string{"a.png"})

	enum := New(testExtensions, internal.KeyModeFlat)
	result, err := enum.Enumerate(tempDir)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	paths := result.Keys["a"]
	if len(paths) != 1 {
		t.Fatalf("Expected 1 path, got %d", len(paths))
	}
	if !filepath.IsAbs(paths[0]) {
		t.Errorf("Expected absolute path, got %s", paths[0])
	}
}

func TestEnumerate_MissingRoot(t *testing.T) {
	enum := New(testExtensions, internal.KeyModeFlat)
	result, err := enum.Enumerate("/non/existent/images")

	if err != nil {
		t.Fatalf("Missing root must not be a fatal error, got %v", err)
	}
	if result.Count != 0 || len(result.Keys) != 0 {
		t.Errorf("Expected empty result for missing root, got %d files", result.Count)
	}
}

func TestEnumerate_RootIsFile(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "a.png")
	if err := os.WriteFile(filePath, []byte("img"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	enum := New(testExtensions, internal.KeyModeFlat)
	result, err := enum.Enumerate(filePath)

	if err != nil {
		t.Fatalf("Non-directory root must not be a fatal error, got %v", err)
	}
	if result.Count != 0 {
		t.Errorf("Expected empty result for non-directory root, got %d files", result.Count)
	}
}

func TestEnumerate_Idempotent(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, []string{"a.png", "b.jpg", "c/sub.png"})

	enum := New(testExtensions, internal.KeyModeRelative)

	first, err := enum.Enumerate(tempDir)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	second, err := enum.Enumerate(tempDir)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	if first.Count != second.Count || len(first.Keys) != len(second.Keys) {
		t.Errorf("Enumeration is not idempotent: %d/%d vs %d/%d",
			first.Count, len(first.Keys), second.Count, len(second.Keys))
	}
	for key := range first.Keys {
		if _, ok := second.Keys[key]; !ok {
			t.Errorf("Key %q missing from second enumeration", key)
		}
	}
}
