// Package docmap loads and writes the YAML mapping of definition names to
// docstring texts:
//
//	functions:
//	  load_config: |
//	    Reads the configuration file.
//	classes:
//	  Handler: Handles requests.
package docmap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping file sections.
const (
	SectionFunctions = "functions"
	SectionClasses   = "classes"
)

// FormatError reports a mapping file that is not well-formed.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mapping %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Mapping holds docstring texts keyed by definition name.
// A Mapping is read-only once loaded.
type Mapping struct {
	Functions map[string]string
	Classes   map[string]string
}

// document mirrors the file layout. Pointer values let null entries be
// told apart from empty strings.
type document struct {
	Functions map[string]*string `yaml:"functions"`
	Classes   map[string]*string `yaml:"classes"`
}

// New returns an empty mapping.
func New() *Mapping {
	return &Mapping{
		Functions: make(map[string]string),
		Classes:   make(map[string]string),
	}
}

// Load reads a mapping file.
func Load(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes mapping data. Missing sections are empty and entries with a
// null value are treated as absent.
func Parse(path string, data []byte) (*Mapping, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	m := New()
	for name, text := range doc.Functions {
		if text != nil {
			m.Functions[name] = *text
		}
	}
	for name, text := range doc.Classes {
		if text != nil {
			m.Classes[name] = *text
		}
	}
	return m, nil
}

// Lookup returns the text mapped to name in section and whether the name
// is present at all. Present-but-empty is reported as ("", true).
func (m *Mapping) Lookup(section, name string) (string, bool) {
	if m == nil {
		return "", false
	}
	var texts map[string]string
	switch section {
	case SectionFunctions:
		texts = m.Functions
	case SectionClasses:
		texts = m.Classes
	}
	text, ok := texts[name]
	return text, ok
}

// Has reports whether name appears in section.
func (m *Mapping) Has(section, name string) bool {
	_, ok := m.Lookup(section, name)
	return ok
}

// Set stores text for name in section.
func (m *Mapping) Set(section, name, text string) error {
	switch section {
	case SectionFunctions:
		m.Functions[name] = text
	case SectionClasses:
		m.Classes[name] = text
	default:
		return fmt.Errorf("unknown mapping section %q", section)
	}
	return nil
}

// Len returns the number of entries across both sections.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Functions) + len(m.Classes)
}

// Encode writes m as YAML. Keys are sorted and multi-line texts use the
// literal block style so they stay readable.
func Encode(w io.Writer, m *Mapping) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range []struct {
		key   string
		texts map[string]string
	}{
		{SectionFunctions, m.Functions},
		{SectionClasses, m.Classes},
	} {
		if len(section.texts) == 0 {
			continue
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: section.key},
			sectionNode(section.texts),
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if len(root.Content) == 0 {
		// An empty mapping still round-trips through Parse.
		root.Style = yaml.FlowStyle
	}
	if err := enc.Encode(root); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func sectionNode(texts map[string]string) *yaml.Node {
	names := make([]string, 0, len(texts))
	for name := range texts {
		names = append(names, name)
	}
	sort.Strings(names)

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range names {
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: texts[name]}
		if strings.Contains(texts[name], "\n") {
			value.Style = yaml.LiteralStyle
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			value,
		)
	}
	return node
}

// IsFormatError reports whether err is, or wraps, a *FormatError.
func IsFormatError(err error) bool {
	var ferr *FormatError
	return errors.As(err, &ferr)
}
