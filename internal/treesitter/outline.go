package treesitter

import (
	"fmt"
	"sort"
	"strings"
)

// OutlineEntry is one row of a file outline.
type OutlineEntry struct {
	Kind       Kind
	Name       string
	Line       int
	Depth      int // nesting level, 0 for module scope
	Documented bool
}

// Outline collects the definitions of a tree for display.
func (t *Tree) Outline() []OutlineEntry {
	var entries []OutlineEntry
	for d := range t.Definitions() {
		entries = append(entries, OutlineEntry{
			Kind:       d.Kind,
			Name:       d.Name,
			Line:       d.Line,
			Depth:      depth(d),
			Documented: d.HasDocstring(),
		})
	}
	return entries
}

func depth(d Definition) int {
	n := 0
	for p := d.Node.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "function_definition", "async_function_definition", "class_definition":
			n++
		}
	}
	return n
}

// FormatOutline renders outlines keyed by path, files sorted.
//
// Example output:
//
//	sample.py: 2/3 documented
//	  1  def function  [doc]
//	  9  class Handler
//	  10    def run  [doc]
func FormatOutline(files map[string][]OutlineEntry) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		entries := files[path]
		documented := 0
		for _, e := range entries {
			if e.Documented {
				documented++
			}
		}
		fmt.Fprintf(&b, "%s: %d/%d documented\n", path, documented, len(entries))
		for _, e := range entries {
			fmt.Fprintf(&b, "  %d  %s%s %s", e.Line, strings.Repeat("  ", e.Depth), e.Kind, e.Name)
			if e.Documented {
				b.WriteString("  [doc]")
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
