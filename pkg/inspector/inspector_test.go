package inspector

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	defer file.Close()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
}

func TestInspect_PNG(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "sample.png")
	writePNG(t, path, 3, 2)

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if info.DetectedType != "png" {
		t.Errorf("Expected detected type png, got %q", info.DetectedType)
	}
	if info.ExtMismatch {
		t.Error("Matching extension must not be flagged as mismatch")
	}
	if !info.Measured || info.Width != 3 || info.Height != 2 {
		t.Errorf("Expected 3x2 dimensions, got %+v", info)
	}
	if info.Size == 0 {
		t.Error("Expected non-zero size")
	}
}

func TestInspect_ExtMismatch(t *testing.T) {
	tempDir := t.TempDir()
	// PNG 内容但扩展名是 .jpg
	path := filepath.Join(tempDir, "fake.jpg")
	writePNG(t, path, 1, 1)

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if info.DetectedType != "png" {
		t.Errorf("Expected detected type png, got %q", info.DetectedType)
	}
	if !info.ExtMismatch {
		t.Error("PNG content with .jpg extension must be flagged as mismatch")
	}
}

func TestInspect_UnknownContent(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "plain.svg")
	if err := os.WriteFile(path, []byte("<svg></svg>"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if info.Measured {
		t.Error("SVG dimensions are not measurable")
	}
}

func TestInspect_MissingFile(t *testing.T) {
	if _, err := Inspect("/non/existent/file.png"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCanMeasure(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{"png", true},
		{".png", true},
		{"JPG", true},
		{"jpeg", true},
		{"webp", true},
		{"svg", false},
		{"avif", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := CanMeasure(tt.ext); got != tt.want {
			t.Errorf("CanMeasure(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}
