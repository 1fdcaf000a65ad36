package completion

import (
	"context"
	"sort"
	"strings"

	"github.com/reef-shell/reef/internal/parser"
)

// completer carries the state of one completion request. Condition
// results are cached for the request's lifetime so a condition script
// runs at most once per request.
type completer struct {
	eng         *Engine
	flags       RequestFlags
	conditions  map[string]bool
	completions []Candidate
}

func (c *completer) maxMatchKind() MatchKind {
	if c.flags.Fuzzy {
		return MatchSubsequence
	}
	return MatchPrefixCI
}

func (c *completer) add(cand Candidate) {
	c.completions = append(c.completions, cand)
}

// conditionOK evaluates a rule condition, caching the result. An
// empty condition always holds. Autosuggest requests never run
// subshells, so every non-empty condition is treated as failed.
func (c *completer) conditionOK(ctx context.Context, cond string) bool {
	if cond == "" {
		return true
	}
	if c.flags.Autosuggest {
		return false
	}
	if v, ok := c.conditions[cond]; ok {
		return v
	}
	runCtx, cancel := context.WithTimeout(ctx, c.eng.conditionTimeout())
	defer cancel()
	status, _, err := c.eng.runner.Run(runCtx, cond)
	ok := err == nil && status == 0
	c.conditions[cond] = ok
	return ok
}

// complete is the request entry point. It narrows the line to the
// innermost command substitution, locates the current token, and
// dispatches to the variable, user, command or parameter paths.
func (c *completer) complete(ctx context.Context, cmdline string, cursor int) {
	if cursor > len(cmdline) {
		cursor = len(cmdline)
	}
	begin, end := parser.CmdsubstExtent(cmdline, cursor)
	line := cmdline[begin:end]
	pos := cursor - begin

	tok, prevRaw := parser.CurrentToken(line, pos)

	if c.completeVariable(tok.Text) {
		c.finish()
		return
	}
	if c.completeUser(ctx, tok.Text) {
		c.finish()
		return
	}

	st := parser.FindStatement(line, pos)
	if st.InCommandPosition {
		c.completeCmd(ctx, parser.Unescape(tok.Text), st.Decoration)
		c.finish()
		return
	}

	cur := parser.Unescape(tok.Text)
	prev := parser.Unescape(prevRaw)

	useFiles := c.completeParam(ctx, st.Command, prev, cur)

	// When nothing matched, fall back to file completion even if the
	// matched rules suppressed it.
	if len(c.completions) == 0 {
		useFiles = true
	}
	// An empty token would suggest every file in the directory, which
	// is useless as a background suggestion.
	if c.flags.Autosuggest && cur == "" {
		useFiles = false
	}
	if useFiles {
		c.completeParamExpand(cur)
	}
	c.finish()
}

// completeParamExpand runs file expansion for the current argument.
// For an option token the part after the last '=' is completed, and
// fuzzy matching is disabled so a leading dash never subsequences
// into unrelated paths.
func (c *completer) completeParamExpand(tok string) {
	fuzzy := c.flags.Fuzzy
	target := tok
	var head string
	if strings.HasPrefix(tok, "-") {
		fuzzy = false
		if eq := strings.LastIndexByte(tok, '='); eq >= 0 {
			head = tok[:eq+1]
			target = tok[eq+1:]
		}
	}

	cands, err := c.eng.expander.Expand(target, ExpandOptions{
		SkipWildcards: c.flags.Autosuggest,
		Fuzzy:         fuzzy,
	})
	if err != nil {
		c.eng.log.Debug().Str("token", target).Err(err).Msg("file expansion failed")
		return
	}
	for _, cand := range cands {
		if head != "" && cand.Flags.ReplacesToken {
			cand.Text = head + cand.Text
		}
		c.add(cand)
	}
}

// finish sorts the candidate list by match quality, preserving
// generator order for candidates that ask for it.
func (c *completer) finish() {
	sort.SliceStable(c.completions, func(i, j int) bool {
		a, b := c.completions[i], c.completions[j]
		if a.Flags.DontSort || b.Flags.DontSort {
			return false
		}
		if a.Match.Kind != b.Match.Kind {
			return a.Match.Kind < b.Match.Kind
		}
		if a.Match.Score != b.Match.Score {
			return a.Match.Score < b.Match.Score
		}
		return a.Text < b.Text
	})
}
