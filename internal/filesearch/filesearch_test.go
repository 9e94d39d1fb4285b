package filesearch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("pass\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func isPython(path string) bool { return strings.HasSuffix(path, ".py") }

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestCollect_Directory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"main.py",
		"pkg/util.py",
		"pkg/README.md",
		"pkg/__pycache__/util.py",
		".venv/lib/site.py",
		".git/hooks/hook.py",
		"ignored/skip.py",
		"gen_out.py",
	)
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("ignored/\ngen_*.py\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Collect(context.Background(), []string{root}, Options{Include: isPython, RespectGitignore: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"main.py", "pkg/util.py"}
	if !reflect.DeepEqual(rel(t, root, got), want) {
		t.Errorf("got %v, want %v", rel(t, root, got), want)
	}

	got, err = Collect(context.Background(), []string{root}, Options{Include: isPython})
	if err != nil {
		t.Fatal(err)
	}
	want = []string{"gen_out.py", "ignored/skip.py", "main.py", "pkg/util.py"}
	if !reflect.DeepEqual(rel(t, root, got), want) {
		t.Errorf("without gitignore: got %v, want %v", rel(t, root, got), want)
	}
}

func TestCollect_ExplicitFilesAndDedup(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.py", "notes.txt")

	a := filepath.Join(root, "a.py")
	notes := filepath.Join(root, "notes.txt")
	got, err := Collect(context.Background(), []string{a, notes, root}, Options{Include: isPython})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.py", "notes.txt"}
	if !reflect.DeepEqual(rel(t, root, got), want) {
		t.Errorf("got %v, want %v", rel(t, root, got), want)
	}
}

func TestCollect_Missing(t *testing.T) {
	_, err := Collect(context.Background(), []string{filepath.Join(t.TempDir(), "nope.py")}, Options{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestCollect_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.py", "b/c.py")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Collect(ctx, []string{root}, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
