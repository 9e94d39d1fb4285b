package docstring

import (
	"strings"
)

const tripleQuote = `"""`

// Literal builds the triple-quoted docstring for text. The quotes sit on
// their own lines and every non-blank line of the trimmed text is prefixed
// with indent. The opening quotes carry no indent: callers place the
// literal where the indentation already is.
func Literal(text, indent, nl string) string {
	body := strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	body = strings.ReplaceAll(body, tripleQuote, `\"\"\"`)

	var b strings.Builder
	b.WriteString(tripleQuote)
	b.WriteString(nl)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, " \t")
		if line != "" {
			b.WriteString(indent)
			b.WriteString(line)
		}
		b.WriteString(nl)
	}
	b.WriteString(indent)
	b.WriteString(tripleQuote)
	return b.String()
}

// Clean turns the source text of a string literal into the docstring text
// it denotes: prefix and quotes removed, common indentation stripped and
// blank edge lines dropped, the way Python's inspect.cleandoc does.
func Clean(literal string) string {
	prefix := strings.IndexAny(literal, `"'`)
	if prefix < 0 {
		return strings.TrimSpace(literal)
	}
	raw := strings.ContainsAny(literal[:prefix], "rR")
	s := literal[prefix:]

	for _, q := range []string{tripleQuote, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = s[len(q) : len(s)-len(q)]
			break
		}
	}
	if !raw {
		s = strings.ReplaceAll(s, `\"\"\"`, tripleQuote)
	}
	return cleandoc(s)
}

func cleandoc(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.ReplaceAll(line, "\t", "        ")
	}

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		if indent := len(line) - len(content); margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimSpace(lines[0])
	for i := 1; i < len(lines); i++ {
		if margin > 0 && len(lines[i]) >= margin {
			lines[i] = lines[i][margin:]
		} else {
			lines[i] = strings.TrimLeft(lines[i], " ")
		}
		lines[i] = strings.TrimRight(lines[i], " ")
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
