// Package docstring inserts, replaces and removes docstrings of Python
// definitions without disturbing anything else in the file.
package docstring

import (
	"strings"

	"github.com/xonecas/docsync/internal/docmap"
	"github.com/xonecas/docsync/internal/treesitter"
)

// placeholder keeps a body valid once its only statement is removed.
const placeholder = "pass"

// NameFilter selects definitions by name when removal is not driven by a
// mapping. An empty filter matches every name.
type NameFilter map[string]struct{}

// NewNameFilter builds a filter from names.
func NewNameFilter(names ...string) NameFilter {
	f := make(NameFilter, len(names))
	for _, n := range names {
		f[n] = struct{}{}
	}
	return f
}

// Match reports whether name is selected.
func (f NameFilter) Match(name string) bool {
	if len(f) == 0 {
		return true
	}
	_, ok := f[name]
	return ok
}

// Remove deletes docstrings from tree. With a mapping, exactly the
// definitions named in it (under the matching section) lose their
// docstring, and the filter is ignored. Without one, the filter decides.
func Remove(tree *treesitter.Tree, m *docmap.Mapping, filter NameFilter, r Reporter) ([]Change, error) {
	var changes []Change
	for d := range tree.Definitions() {
		if !d.HasDocstring() {
			continue
		}
		if m != nil {
			if !m.Has(d.Kind.Section(), d.Name) {
				continue
			}
		} else if !filter.Match(d.Name) {
			continue
		}
		if err := deleteDocstring(tree, d); err != nil {
			return nil, err
		}
		changes = append(changes, newChange(tree, ActionRemoved, d))
	}
	report(r, changes)
	return changes, nil
}

// Add gives every definition named in m the mapped docstring. It behaves
// as a removal pass with m followed by an insertion pass, so existing
// docstrings are replaced rather than duplicated and running it twice
// yields the same bytes. Names mapped to blank text only lose their
// docstring.
func Add(tree *treesitter.Tree, m *docmap.Mapping, r Reporter) ([]Change, error) {
	var removed, added []Change
	for d := range tree.Definitions() {
		text, ok := m.Lookup(d.Kind.Section(), d.Name)
		if !ok {
			continue
		}
		insert := strings.TrimSpace(text) != ""

		var err error
		switch {
		case d.HasDocstring() && insert:
			err = replaceDocstring(tree, d, text)
		case d.HasDocstring():
			err = deleteDocstring(tree, d)
		case insert:
			err = insertDocstring(tree, d, text)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}

		if d.HasDocstring() {
			removed = append(removed, newChange(tree, ActionRemoved, d))
		}
		if insert {
			added = append(added, newChange(tree, ActionAdded, d))
		}
	}
	changes := append(removed, added...)
	report(r, changes)
	return changes, nil
}

// deleteDocstring removes the docstring statement. A docstring that owns
// its lines takes them with it; one sharing a line with other code only
// loses the literal and its separator. A docstring that is the whole body
// becomes a placeholder.
func deleteDocstring(tree *treesitter.Tree, d treesitter.Definition) error {
	start, end := int(d.Docstring.StartByte()), int(d.Docstring.EndByte())
	if d.Sole {
		return tree.Replace(start, end, placeholder)
	}

	after := tree.SkipBlanks(end)
	if tree.Byte(after) == ';' {
		after = tree.SkipBlanks(after + 1)
	}

	lineStart := tree.LineStart(start)
	if tree.SkipBlanks(lineStart) == start && atLineEnd(tree, after) {
		return tree.Replace(lineStart, tree.TerminatorEnd(after), "")
	}
	return tree.Replace(start, after, "")
}

// replaceDocstring swaps the existing literal for the new one in place.
func replaceDocstring(tree *treesitter.Tree, d treesitter.Definition, text string) error {
	start, end := int(d.Docstring.StartByte()), int(d.Docstring.EndByte())
	return tree.Replace(start, end, Literal(text, d.Indent, tree.Newline()))
}

// insertDocstring puts a new literal before the first statement. Bodies on
// the header line are moved onto their own line first.
func insertDocstring(tree *treesitter.Tree, d treesitter.Definition, text string) error {
	if d.First == nil {
		return nil
	}
	nl := tree.Newline()
	lit := Literal(text, d.Indent, nl)
	start := int(d.First.StartByte())

	if d.Inline {
		gap := start
		for gap > 0 && (tree.Byte(gap-1) == ' ' || tree.Byte(gap-1) == '\t') {
			gap--
		}
		return tree.Replace(gap, start, nl+d.Indent+lit+nl+d.Indent)
	}

	lineStart := tree.LineStart(start)
	return tree.Replace(lineStart, lineStart, d.Indent+lit+nl)
}

func atLineEnd(tree *treesitter.Tree, off int) bool {
	switch tree.Byte(off) {
	case 0, '\n', '\r':
		return true
	}
	return false
}

func newChange(tree *treesitter.Tree, action Action, d treesitter.Definition) Change {
	return Change{
		Action: action,
		Kind:   d.Kind,
		Name:   d.Name,
		Line:   d.Line,
		Path:   tree.Path(),
	}
}

func report(r Reporter, changes []Change) {
	if r == nil {
		return
	}
	for _, c := range changes {
		r.Report(c)
	}
}
