package filesearch

import (
	"bufio"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// GitignoreMatcher matches slash-separated relative paths against the
// rules of one .gitignore file. The last matching rule wins.
type GitignoreMatcher struct {
	rules []ignoreRule
}

type ignoreRule struct {
	re      *regexp.Regexp
	negate  bool
	dirOnly bool
}

// NewGitignoreMatcher loads rules from a .gitignore file. An empty path or
// a missing file yields a matcher that ignores nothing.
func NewGitignoreMatcher(gitignorePath string) (*GitignoreMatcher, error) {
	if gitignorePath == "" {
		return &GitignoreMatcher{}, nil
	}
	f, err := os.Open(gitignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &GitignoreMatcher{}, nil
		}
		return nil, err
	}
	defer f.Close()
	return ParseGitignore(f)
}

// ParseGitignore reads rules from r. Blank lines and comments are skipped,
// as are patterns that cannot be compiled.
func ParseGitignore(r io.Reader) (*GitignoreMatcher, error) {
	m := &GitignoreMatcher{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rule, ok := parseRule(line); ok {
			m.rules = append(m.rules, rule)
		}
	}
	return m, sc.Err()
}

// Matches reports whether relPath is ignored.
func (m *GitignoreMatcher) Matches(relPath string, isDir bool) bool {
	if m == nil || len(m.rules) == 0 {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	ignored := false
	for _, r := range m.rules {
		target := relPath
		if r.dirOnly && !isDir {
			// A file is covered by a directory rule through its parent.
			target = path.Dir(relPath)
			if target == "." {
				continue
			}
		}
		if r.re.MatchString(target) {
			ignored = !r.negate
		}
	}
	return ignored
}

// parseRule compiles one pattern. A pattern with a slash anywhere but at
// the end is relative to the .gitignore location; others match at any depth.
func parseRule(pattern string) (ignoreRule, bool) {
	var rule ignoreRule
	if strings.HasPrefix(pattern, "!") {
		rule.negate = true
		pattern = pattern[1:]
	}
	if strings.HasSuffix(pattern, "/") {
		rule.dirOnly = true
		pattern = strings.TrimRight(pattern, "/")
	}
	anchored := strings.Contains(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")
	if pattern == "" {
		return rule, false
	}

	var b strings.Builder
	if anchored {
		b.WriteString("^")
	} else {
		b.WriteString("(^|/)")
	}
	b.WriteString(globToRegex(pattern))
	b.WriteString("(/.*)?$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return rule, false
	}
	rule.re = re
	return rule, true
}

// globToRegex translates gitignore glob syntax: "*" stays within a path
// segment, "**/" spans any number of directories, "?" is one character.
func globToRegex(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); i++ {
		switch c := glob[i]; c {
		case '*':
			switch {
			case strings.HasPrefix(glob[i:], "**/"):
				b.WriteString("(.*/)?")
				i += 2
			case strings.HasPrefix(glob[i:], "**"):
				b.WriteString(".*")
				i++
			default:
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '[':
			if end := strings.IndexByte(glob[i+1:], ']'); end >= 0 {
				b.WriteString(glob[i : i+end+2])
				i += end + 1
			} else {
				b.WriteString(`\[`)
			}
		case '\\':
			if i+1 < len(glob) {
				i++
				b.WriteString(regexp.QuoteMeta(string(glob[i])))
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}
