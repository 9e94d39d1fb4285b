package filesearch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGitignorePatterns(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"*.log", "test.log", false, true},
		{"*.log", "logs/test.log", false, true},
		{"*.log", "test.txt", false, false},

		{"node_modules/", "node_modules", true, true},
		{"node_modules/", "node_modules/package.json", false, true},
		{"node_modules/", "src/node_modules", true, true},
		{"node_modules/", "node_modules", false, false},

		{"build/*", "build/output.txt", false, true},
		{"build/*", "build", true, false},
		{"build/*", "src/build/output.txt", false, false},

		{"**/temp", "temp", true, true},
		{"**/temp", "src/temp", true, true},
		{"**/temp", "src/lib/temp", true, true},

		{"/root.txt", "root.txt", false, true},
		{"/root.txt", "src/root.txt", false, false},

		{"generated", "pkg/generated/models.py", false, true},
		{"test_?.py", "tests/test_a.py", false, true},
		{"test_?.py", "tests/test_ab.py", false, false},
		{"*.py[co]", "mod.pyc", false, true},
	}

	for _, tt := range tests {
		rule, ok := parseRule(tt.pattern)
		if !ok {
			t.Fatalf("pattern %q did not compile", tt.pattern)
		}
		m := &GitignoreMatcher{rules: []ignoreRule{rule}}
		if got := m.Matches(tt.path, tt.isDir); got != tt.want {
			t.Errorf("pattern %q, path %q (isDir=%v): got %v, want %v",
				tt.pattern, tt.path, tt.isDir, got, tt.want)
		}
	}
}

func TestGitignoreNegation(t *testing.T) {
	m, err := ParseGitignore(strings.NewReader("# logs\n*.log\n\n!important.log\n"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"test.log", true},
		{"important.log", false},
		{"other.txt", false},
	}
	for _, tt := range tests {
		if got := m.Matches(tt.path, false); got != tt.want {
			t.Errorf("path %q: got %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewGitignoreMatcher_Missing(t *testing.T) {
	m, err := NewGitignoreMatcher(filepath.Join(t.TempDir(), ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Matches("anything.py", false) {
		t.Error("missing .gitignore should ignore nothing")
	}
}

func TestNewGitignoreMatcher_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	if err := os.WriteFile(path, []byte("secret.py\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := NewGitignoreMatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Matches("pkg/secret.py", false) {
		t.Error("expected pkg/secret.py to be ignored")
	}
}
