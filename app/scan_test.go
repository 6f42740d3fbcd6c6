package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ati1707/renpy-img-prune/config"
	"github.com/Ati1707/renpy-img-prune/internal"
	"github.com/Ati1707/renpy-img-prune/pkg/enumerator"
	"github.com/Ati1707/renpy-img-prune/pkg/reconciler"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scanner.ScriptDirNames = internal.DefaultScriptDirNames
	return cfg
}

func TestResolveRoots_Explicit(t *testing.T) {
	imagesDir := t.TempDir()
	scriptsDir := t.TempDir()

	images, scripts, err := resolveRoots(&ScanOptions{
		ImagesRoot:  imagesDir,
		ScriptsRoot: scriptsDir,
	}, testConfig())
	if err != nil {
		t.Fatalf("resolveRoots() error = %v", err)
	}

	if !filepath.IsAbs(images) || !filepath.IsAbs(scripts) {
		t.Errorf("Expected absolute roots, got %s, %s", images, scripts)
	}
}

func TestResolveRoots_ProjectConvention(t *testing.T) {
	projectDir := t.TempDir()
	for _, d := range []string{"images", "script"} {
		if err := os.MkdirAll(filepath.Join(projectDir, d), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
	}

	images, scripts, err := resolveRoots(&ScanOptions{ProjectDir: projectDir}, testConfig())
	if err != nil {
		t.Fatalf("resolveRoots() error = %v", err)
	}

	if images != filepath.Join(projectDir, "images") {
		t.Errorf("Expected project images dir, got %s", images)
	}
	if scripts != filepath.Join(projectDir, "script") {
		t.Errorf("Expected project script dir, got %s", scripts)
	}
}

func TestResolveRoots_ProjectFallsBackToItself(t *testing.T) {
	projectDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(projectDir, "images"), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// 没有任何候选脚本目录时，项目目录本身就是脚本目录
	_, scripts, err := resolveRoots(&ScanOptions{ProjectDir: projectDir}, testConfig())
	if err != nil {
		t.Fatalf("resolveRoots() error = %v", err)
	}

	if scripts != projectDir {
		t.Errorf("Expected fallback to project dir, got %s", scripts)
	}
}

func TestResolveRoots_MissingRootIsConfigError(t *testing.T) {
	scriptsDir := t.TempDir()

	_, _, err := resolveRoots(&ScanOptions{
		ImagesRoot:  "/non/existent/images",
		ScriptsRoot: scriptsDir,
	}, testConfig())
	if err == nil {
		t.Error("Missing images root must abort before scanning")
	}

	_, _, err = resolveRoots(&ScanOptions{}, testConfig())
	if err == nil {
		t.Error("Missing both roots must abort before scanning")
	}
}

func TestFindScriptDir_Priority(t *testing.T) {
	projectDir := t.TempDir()
	for _, d := range []string{"script", "scripts"} {
		if err := os.MkdirAll(filepath.Join(projectDir, d), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
	}

	got := findScriptDir(projectDir, []string{"game", "script", "scripts"})
	if got != filepath.Join(projectDir, "script") {
		t.Errorf("Expected first existing candidate, got %s", got)
	}
}

func TestKeyForPath(t *testing.T) {
	result := &ScanResult{
		Images: &enumerator.Result{
			Keys: map[string][]string{
				"b":     {"/img/b.png"},
				"c/sub": {"/img/c/sub.png"},
			},
		},
		Report: &reconciler.Report{
			Unused: []string{"b", "c/sub"},
		},
	}

	if got := result.KeyForPath("/img/c/sub.png"); got != "c/sub" {
		t.Errorf("Expected key c/sub, got %q", got)
	}
	if got := result.KeyForPath("/img/unknown.png"); got != "" {
		t.Errorf("Expected empty key for unknown path, got %q", got)
	}
}
