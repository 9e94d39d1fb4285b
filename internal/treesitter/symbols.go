// Package treesitter provides a lossless, tree-sitter backed view of Python
// source files. The parse tree is used only to locate definitions; the
// original bytes are the source of truth and edits are spliced into them,
// so anything not explicitly edited survives serialization untouched.
package treesitter

import sitter "github.com/smacker/go-tree-sitter"

// Kind classifies a definition.
type Kind int

const (
	KindFunction Kind = iota
	KindClass
)

// String returns the Python keyword introducing the definition.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "def"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// Section returns the mapping file key that holds texts for this kind.
func (k Kind) Section() string {
	switch k {
	case KindFunction:
		return "functions"
	case KindClass:
		return "classes"
	default:
		return ""
	}
}

// Definition is one function or class definition inside a Tree.
// Node pointers are only valid until the owning Tree is closed.
type Definition struct {
	Kind Kind
	Name string
	Line int // 1-indexed line of the def/class keyword

	Node      *sitter.Node // function_definition or class_definition
	Body      *sitter.Node // block
	First     *sitter.Node // first statement of the body, comments skipped
	Docstring *sitter.Node // First when it is a bare string literal, else nil

	Indent string // prefix for statements in the body
	Inline bool   // body starts on the header line ("def f(): pass")
	Sole   bool   // First is the only statement in the body
}

// HasDocstring reports whether the body opens with a docstring.
func (d Definition) HasDocstring() bool {
	return d.Docstring != nil
}
