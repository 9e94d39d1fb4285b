package highlight

import (
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff between before and after for path, or ""
// when they are equal.
func Unified(path, before, after string) string {
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(path), before, after)
	diff := fmt.Sprint(gotextdiff.ToUnified("a/"+path, "b/"+path, before, edits))
	return strings.TrimRight(diff, "\n")
}
