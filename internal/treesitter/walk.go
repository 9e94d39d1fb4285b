package treesitter

import (
	"iter"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// indentUnit is used when a body shares its header line and therefore has
// no indentation of its own to copy.
const indentUnit = "    "

// Definitions walks the tree depth-first in source order and yields every
// function and class definition, nested ones included. Each call starts a
// fresh walk.
func (t *Tree) Definitions() iter.Seq[Definition] {
	return func(yield func(Definition) bool) {
		if t.tree == nil {
			return
		}
		t.walk(t.tree.RootNode(), yield)
	}
}

func (t *Tree) walk(node *sitter.Node, yield func(Definition) bool) bool {
	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition", "async_function_definition":
			if !yield(t.definition(child, KindFunction)) {
				return false
			}
		case "class_definition":
			if !yield(t.definition(child, KindClass)) {
				return false
			}
		}
		if !t.walk(child, yield) {
			return false
		}
	}
	return true
}

func (t *Tree) definition(node *sitter.Node, kind Kind) Definition {
	d := Definition{
		Kind: kind,
		Line: int(node.StartPoint().Row) + 1,
		Node: node,
		Body: node.ChildByFieldName("body"),
	}
	if name := node.ChildByFieldName("name"); name != nil {
		d.Name = t.Text(name)
	}
	if d.Body == nil {
		return d
	}

	statements := 0
	for i := 0; i < int(d.Body.NamedChildCount()); i++ {
		stmt := d.Body.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		if d.First == nil {
			d.First = stmt
		}
		statements++
	}
	if d.First == nil {
		return d
	}
	d.Sole = statements == 1
	if t.isDocstring(d.First) {
		d.Docstring = d.First
	}

	start := int(d.First.StartByte())
	if prefix := string(t.src[t.LineStart(start):start]); isBlank(prefix) {
		d.Indent = prefix
	} else {
		d.Inline = true
		header := t.leadingWhitespace(int(node.StartByte()))
		if strings.Contains(header, "\t") {
			d.Indent = header + "\t"
		} else {
			d.Indent = header + indentUnit
		}
	}
	return d
}

// isDocstring reports whether stmt is a bare string literal expression.
// f-strings and bytes literals never become a docstring.
func (t *Tree) isDocstring(stmt *sitter.Node) bool {
	if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
		return false
	}
	lit := stmt.NamedChild(0)
	switch lit.Type() {
	case "string", "concatenated_string":
	default:
		return false
	}
	text := t.Text(lit)
	quote := strings.IndexAny(text, `"'`)
	if quote < 0 {
		return false
	}
	return !strings.ContainsAny(text[:quote], "fFbB")
}

// LineStart returns the offset of the first byte of the line holding off.
func (t *Tree) LineStart(off int) int {
	for off > 0 && t.src[off-1] != '\n' {
		off--
	}
	return off
}

// LineEnd returns the offset of the line terminator after off, or the
// source length on the last line. A "\r\n" terminator starts at the '\r'.
func (t *Tree) LineEnd(off int) int {
	for off < len(t.src) && t.src[off] != '\n' {
		off++
	}
	if off > 0 && off < len(t.src) && t.src[off-1] == '\r' {
		off--
	}
	return off
}

// SkipBlanks advances off past spaces and tabs.
func (t *Tree) SkipBlanks(off int) int {
	for off < len(t.src) && (t.src[off] == ' ' || t.src[off] == '\t') {
		off++
	}
	return off
}

// TerminatorEnd returns the offset just past the line terminator that
// starts at off, or off itself at end of input.
func (t *Tree) TerminatorEnd(off int) int {
	switch {
	case off+1 < len(t.src) && t.src[off] == '\r' && t.src[off+1] == '\n':
		return off + 2
	case off < len(t.src) && t.src[off] == '\n':
		return off + 1
	}
	return off
}

// Byte returns the source byte at off, or 0 past the end.
func (t *Tree) Byte(off int) byte {
	if off < 0 || off >= len(t.src) {
		return 0
	}
	return t.src[off]
}

func (t *Tree) leadingWhitespace(off int) string {
	start := t.LineStart(off)
	end := start
	for end < len(t.src) && (t.src[end] == ' ' || t.src[end] == '\t') {
		end++
	}
	return string(t.src[start:end])
}

func isBlank(s string) bool {
	return strings.Trim(s, " \t") == ""
}
