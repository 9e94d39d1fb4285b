package treesitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrOverlap is returned by Replace when an edit intersects a pending one.
var ErrOverlap = errors.New("edit overlaps a pending edit")

// ParseError reports source that tree-sitter could not parse cleanly.
type ParseError struct {
	Path   string
	Line   int // 1-indexed
	Column int // 1-indexed
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: invalid Python syntax", e.Path, e.Line, e.Column)
}

// Edit replaces src[Start:End] with Text. Start == End is an insertion.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Tree owns one file's bytes, its parse tree and the edits pending on it.
type Tree struct {
	path  string
	src   []byte
	tree  *sitter.Tree
	edits []Edit
}

// Supported returns true if the path looks like a Python source file.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw", ".pyi":
		return true
	}
	return false
}

// Load reads and parses a Python file.
func Load(path string) (*Tree, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(path, src)
}

// Parse parses Python source. The returned Tree must be closed.
func Parse(path string, src []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}

	root := tree.RootNode()
	if root.HasError() {
		perr := &ParseError{Path: path, Line: 1, Column: 1}
		if bad := firstError(root); bad != nil {
			perr.Line = int(bad.StartPoint().Row) + 1
			perr.Column = int(bad.StartPoint().Column) + 1
		}
		tree.Close()
		return nil, perr
	}

	return &Tree{path: path, src: src, tree: tree}, nil
}

// firstError finds the first ERROR or MISSING node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

// Close releases the parse tree. Definitions from this tree become invalid.
func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
	t.tree = nil
}

// Path returns the path the tree was loaded from.
func (t *Tree) Path() string { return t.path }

// Source returns the original, unedited bytes.
func (t *Tree) Source() []byte { return t.src }

// Modified reports whether any edit is pending.
func (t *Tree) Modified() bool { return len(t.edits) > 0 }

// Newline returns the line terminator used by the source ("\r\n" or "\n").
func (t *Tree) Newline() string {
	if i := bytes.IndexByte(t.src, '\n'); i > 0 && t.src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Text returns the original source text of a node.
func (t *Tree) Text(n *sitter.Node) string {
	return n.Content(t.src)
}

// Replace records an edit against the original bytes. Offsets always refer
// to the source as loaded, never to the result of earlier edits.
func (t *Tree) Replace(start, end int, text string) error {
	if start < 0 || end < start || end > len(t.src) {
		return fmt.Errorf("edit [%d,%d) out of range (size %d)", start, end, len(t.src))
	}
	for _, e := range t.edits {
		if start == e.Start || (start < e.End && e.Start < end) {
			return fmt.Errorf("edit [%d,%d): %w", start, end, ErrOverlap)
		}
	}
	t.edits = append(t.edits, Edit{Start: start, End: end, Text: text})
	return nil
}

// Bytes serializes the tree: the original bytes with pending edits applied.
// With no edits the result is byte-identical to the input.
func (t *Tree) Bytes() []byte {
	if len(t.edits) == 0 {
		return bytes.Clone(t.src)
	}
	edits := make([]Edit, len(t.edits))
	copy(edits, t.edits)
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start < edits[j].Start })

	var out bytes.Buffer
	out.Grow(len(t.src))
	pos := 0
	for _, e := range edits {
		out.Write(t.src[pos:e.Start])
		out.WriteString(e.Text)
		pos = e.End
	}
	out.Write(t.src[pos:])
	return out.Bytes()
}
