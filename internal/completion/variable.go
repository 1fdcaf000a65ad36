package completion

import (
	"strings"

	"github.com/reef-shell/reef/internal/parser"
)

// maxVariableValueWidth caps the value preview shown in a variable
// candidate description.
const maxVariableValueWidth = 16

// completeVariable completes $name inside the current token. It
// reports whether any candidate was produced; a dollar prefix that
// matches no variable falls through to the other completion paths.
func (c *completer) completeVariable(tok string) bool {
	start := variableStart(tok)
	if start < 0 {
		return false
	}
	head := tok[:start+1]
	prefix := tok[start+1:]
	limit := c.maxMatchKind()

	matched := false
	for _, name := range c.eng.vars.Names() {
		m := FuzzyMatch(prefix, name, limit)
		if m.Kind == MatchNone {
			continue
		}
		desc := ""
		if value, ok := c.eng.vars.Get(name); ok {
			desc = "Variable: " + parser.Escape(truncateValue(value))
		}
		var flags Flags
		text := name
		if m.Kind.RequiresFullReplacement() {
			flags.ReplacesToken = true
			if m.Kind == MatchPrefixCI {
				flags.NoCase = true
			}
			text = head + name
		} else {
			text = name[len(prefix):]
		}
		c.add(NewCandidate(text, desc, m, flags))
		matched = true
	}
	return matched
}

// variableStart returns the index of the '$' opening the variable
// under completion, or -1. Dollars inside single quotes do not
// expand, and the characters after the dollar must all be variable
// name characters.
func variableStart(tok string) int {
	start := -1
	quote := byte(0)
	escaped := false
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			} else if c == '$' && quote == '"' {
				start = i
			}
		case c == '\'' || c == '"':
			quote = c
			if c == '\'' {
				start = -1
			}
		case c == '$' && quote != '\'':
			start = i
		}
	}
	if start < 0 || quote == '\'' {
		return -1
	}
	for _, r := range tok[start+1:] {
		if !parser.IsVarChar(r) {
			return -1
		}
	}
	return start
}

func truncateValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	runes := []rune(value)
	if len(runes) <= maxVariableValueWidth {
		return value
	}
	return string(runes[:maxVariableValueWidth-1]) + "…"
}
