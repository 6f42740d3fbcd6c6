package reconciler

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/Ati1707/renpy-img-prune/internal"
	"github.com/Ati1707/renpy-img-prune/pkg/enumerator"
	"github.com/Ati1707/renpy-img-prune/pkg/extractor"
)

func TestReconcile_Difference(t *testing.T) {
	images := map[string][]string{
		"a":     {"/img/a.png"},
		"b":     {"/img/b.png"},
		"c/sub": {"/img/c/sub.png"},
	}
	refs := map[string]struct{}{
		"a":     {},
		"c/sub": {},
		"ghost": {}, // 引用了不存在的图片，不影响结果
	}

	report := Reconcile(images, refs)

	if !reflect.DeepEqual(report.Unused, []string{"b"}) {
		t.Errorf("Expected unused [b], got %v", report.Unused)
	}
	if report.ImageCount != 3 || report.ReferenceCount != 3 || report.UnusedCount != 1 {
		t.Errorf("Unexpected counts: %+v", report)
	}
}

func TestReconcile_StemFallback(t *testing.T) {
	images := map[string][]string{
		"c/sub":   {"/img/c/sub.png"},
		"d/other": {"/img/d/other.png"},
	}
	refs := map[string]struct{}{
		"sub": {}, // 裸名引用命中相对键 c/sub
	}

	report := Reconcile(images, refs)

	if !reflect.DeepEqual(report.Unused, []string{"d/other"}) {
		t.Errorf("Expected unused [d/other], got %v", report.Unused)
	}
}

func TestReconcile_SortedOutput(t *testing.T) {
	images := map[string][]string{
		"zeta":  {"/img/zeta.png"},
		"alpha": {"/img/alpha.png"},
		"mid":   {"/img/mid.png"},
	}
	refs := map[string]struct{}{}

	report := Reconcile(images, refs)

	if !sort.StringsAreSorted(report.Unused) {
		t.Errorf("Unused keys must be sorted, got %v", report.Unused)
	}
	if len(report.Unused) != 3 {
		t.Errorf("Expected 3 unused keys, got %v", report.Unused)
	}
}

func TestReconcile_PureFunction(t *testing.T) {
	images := map[string][]string{"a": {"/img/a.png"}}
	refs := map[string]struct{}{"b": {}}

	Reconcile(images, refs)

	if len(images) != 1 || len(refs) != 1 {
		t.Error("Reconcile must not mutate its inputs")
	}
}

func TestReconcile_EmptyInputs(t *testing.T) {
	report := Reconcile(map[string][]string{}, map[string]struct{}{})

	if report.UnusedCount != 0 || len(report.Unused) != 0 {
		t.Errorf("Expected empty report, got %+v", report)
	}
}

func TestUnusedPaths(t *testing.T) {
	images := map[string][]string{
		"b":    {"/img/z/b.png", "/img/a/b.png"},
		"used": {"/img/used.png"},
	}
	refs := map[string]struct{}{"used": {}}

	report := Reconcile(images, refs)
	paths := report.UnusedPaths(images)

	want := []string{"/img/a/b.png", "/img/z/b.png"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Expected %v, got %v", want, paths)
	}
}

// 端到端场景: 枚举 + 提取 + 对账在真实文件系统上协同工作
func TestReconcile_EndToEnd(t *testing.T) {
	extensions := []string{"png", "jpg", "jpeg", "avif", "webp", "svg"}

	setup := func(t *testing.T, script string) (string, string) {
		imagesDir := t.TempDir()
		scriptsDir := t.TempDir()

		for _, f := range []string{"a.png", "b.png", "c/sub.png"} {
			fullPath := filepath.Join(imagesDir, f)
			if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory: %v", err)
			}
			if err := os.WriteFile(fullPath, []byte("img"), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}
		}

		if err := os.WriteFile(filepath.Join(scriptsDir, "script.rpy"), []byte(script), 0644); err != nil {
			t.Fatalf("Failed to create script file: %v", err)
		}

		return imagesDir, scriptsDir
	}

	run := func(t *testing.T, imagesDir, scriptsDir string, mode internal.KeyMode) []string {
		enum := enumerator.New(extensions, mode)
		images, err := enum.Enumerate(imagesDir)
		if err != nil {
			t.Fatalf("Enumerate() error = %v", err)
		}

		x := extractor.New(extractor.DefaultPatterns())
		refs, err := x.Extract(scriptsDir)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}

		return Reconcile(images.Keys, refs).Unused
	}

	script := "show a\nimage sub = \"c/sub.png\"\n"

	t.Run("flat mode", func(t *testing.T) {
		imagesDir, scriptsDir := setup(t, script)
		unused := run(t, imagesDir, scriptsDir, internal.KeyModeFlat)
		if !reflect.DeepEqual(unused, []string{"b"}) {
			t.Errorf("Expected unused [b], got %v", unused)
		}
	})

	t.Run("relative mode", func(t *testing.T) {
		imagesDir, scriptsDir := setup(t, script)
		unused := run(t, imagesDir, scriptsDir, internal.KeyModeRelative)
		// c/sub 通过自身的 image 定义（裸名 sub）解析为已使用
		if !reflect.DeepEqual(unused, []string{"b"}) {
			t.Errorf("Expected unused [b], got %v", unused)
		}
	})

	t.Run("no references", func(t *testing.T) {
		imagesDir, scriptsDir := setup(t, "# empty script\n")
		unused := run(t, imagesDir, scriptsDir, internal.KeyModeFlat)
		want := []string{"a", "b", "sub"}
		if !reflect.DeepEqual(unused, want) {
			t.Errorf("Expected unused %v, got %v", want, unused)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		imagesDir, scriptsDir := setup(t, script)
		first := run(t, imagesDir, scriptsDir, internal.KeyModeRelative)
		second := run(t, imagesDir, scriptsDir, internal.KeyModeRelative)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Reconciliation is not idempotent: %v vs %v", first, second)
		}
	})
}
