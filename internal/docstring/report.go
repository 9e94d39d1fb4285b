package docstring

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xonecas/docsync/internal/treesitter"
)

// Action is the kind of mutation applied to a definition. The values are
// the words used in the log lines.
type Action string

const (
	ActionAdded   Action = "Adicionada"
	ActionRemoved Action = "Removida"
)

// Change describes one docstring mutation.
type Change struct {
	Action Action
	Kind   treesitter.Kind
	Name   string
	Line   int
	Path   string
}

// Message renders the change the way the log sink expects it:
// Adicionada docstring para def "name".
func (c Change) Message() string {
	return fmt.Sprintf("%s docstring para %s %q", c.Action, c.Kind, c.Name)
}

// Reporter receives one call per mutation. Implementations must not fail
// the operation; delivery problems are theirs to swallow.
type Reporter interface {
	Report(Change)
}

// LogReporter writes changes to a zerolog logger at info level.
type LogReporter struct {
	Logger zerolog.Logger
}

// Report implements Reporter.
func (r LogReporter) Report(c Change) {
	r.Logger.Info().
		Str("action", string(c.Action)).
		Str("kind", c.Kind.String()).
		Str("name", c.Name).
		Int("line", c.Line).
		Str("file", c.Path).
		Msg(c.Message())
}

// Recorder keeps every reported change in memory.
type Recorder struct {
	Changes []Change
}

// Report implements Reporter.
func (r *Recorder) Report(c Change) {
	r.Changes = append(r.Changes, c)
}

type discard struct{}

func (discard) Report(Change) {}

// Discard drops every change.
var Discard Reporter = discard{}
