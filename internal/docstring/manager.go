package docstring

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/xonecas/docsync/internal/docmap"
	"github.com/xonecas/docsync/internal/highlight"
	"github.com/xonecas/docsync/internal/treesitter"
)

// Journal records a file's content before it is overwritten so the change
// can be undone later.
type Journal interface {
	RecordModify(filePath string, oldContent []byte)
}

// Result is the outcome of one file operation.
type Result struct {
	Path    string
	Changes []Change
	Before  []byte
	After   []byte
}

// Changed reports whether the operation altered the file content.
func (r *Result) Changed() bool {
	return !bytes.Equal(r.Before, r.After)
}

// Manager runs docstring operations against files on disk. Each call
// reads the file, mutates it in memory and writes it back only when the
// content changed, so a failure never leaves a half-edited file.
type Manager struct {
	reporter Reporter
	journal  Journal
	dryRun   bool
	diff     io.Writer
	theme    string
}

// Option configures a Manager.
type Option func(*Manager)

// WithReporter sets where mutations are reported. Defaults to Discard.
func WithReporter(r Reporter) Option {
	return func(m *Manager) { m.reporter = r }
}

// WithJournal records original contents before every write.
func WithJournal(j Journal) Option {
	return func(m *Manager) { m.journal = j }
}

// WithDryRun computes results without writing files.
func WithDryRun(dryRun bool) Option {
	return func(m *Manager) { m.dryRun = dryRun }
}

// WithDiff writes a unified diff of every changed file to w. A non-empty
// theme colors the diff with that Chroma style.
func WithDiff(w io.Writer, theme string) Option {
	return func(m *Manager) {
		m.diff = w
		m.theme = theme
	}
}

// NewManager creates a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{reporter: Discard}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddFromYAML adds or refreshes the docstring of every definition named in
// the mapping file.
func (m *Manager) AddFromYAML(scriptPath, mappingPath string) (*Result, error) {
	mapping, err := docmap.Load(mappingPath)
	if err != nil {
		return nil, err
	}
	return m.AddMapping(scriptPath, mapping)
}

// AddMapping is AddFromYAML with an already loaded mapping.
func (m *Manager) AddMapping(scriptPath string, mapping *docmap.Mapping) (*Result, error) {
	return m.apply(scriptPath, func(tree *treesitter.Tree) ([]Change, error) {
		return Add(tree, mapping, m.reporter)
	})
}

// Remove deletes docstrings. With a mapping path, exactly the definitions
// named in it lose their docstring; otherwise targetNames selects them and
// an empty list selects all.
func (m *Manager) Remove(scriptPath, mappingPath string, targetNames []string) (*Result, error) {
	var mapping *docmap.Mapping
	if mappingPath != "" {
		var err error
		if mapping, err = docmap.Load(mappingPath); err != nil {
			return nil, err
		}
	}
	return m.RemoveMatching(scriptPath, mapping, NewNameFilter(targetNames...))
}

// RemoveMatching is Remove with an already loaded mapping, which may be nil.
func (m *Manager) RemoveMatching(scriptPath string, mapping *docmap.Mapping, filter NameFilter) (*Result, error) {
	return m.apply(scriptPath, func(tree *treesitter.Tree) ([]Change, error) {
		return Remove(tree, mapping, filter, m.reporter)
	})
}

// Extract builds a mapping from the docstrings already present in a file.
// When a name occurs more than once, the first definition wins.
func Extract(scriptPath string) (*docmap.Mapping, error) {
	tree, err := treesitter.Load(scriptPath)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	mapping := docmap.New()
	for d := range tree.Definitions() {
		if !d.HasDocstring() || mapping.Has(d.Kind.Section(), d.Name) {
			continue
		}
		text := Clean(tree.Text(d.Docstring.NamedChild(0)))
		if err := mapping.Set(d.Kind.Section(), d.Name, text); err != nil {
			return nil, err
		}
	}
	return mapping, nil
}

func (m *Manager) apply(scriptPath string, mutate func(*treesitter.Tree) ([]Change, error)) (*Result, error) {
	tree, err := treesitter.Load(scriptPath)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	changes, err := mutate(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", scriptPath, err)
	}

	res := &Result{
		Path:    scriptPath,
		Changes: changes,
		Before:  tree.Source(),
		After:   tree.Bytes(),
	}
	if !res.Changed() {
		return res, nil
	}

	if m.diff != nil {
		diff := highlight.Unified(scriptPath, string(res.Before), string(res.After))
		if m.theme != "" {
			diff = highlight.Highlight(diff, "diff", m.theme)
		}
		fmt.Fprintln(m.diff, diff)
	}
	if m.dryRun {
		return res, nil
	}

	if m.journal != nil {
		abs, err := filepath.Abs(scriptPath)
		if err != nil {
			abs = scriptPath
		}
		m.journal.RecordModify(abs, res.Before)
	}
	if err := writeFileAtomic(scriptPath, res.After); err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}
	return res, nil
}
