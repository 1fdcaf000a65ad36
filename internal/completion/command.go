package completion

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reef-shell/reef/internal/parser"
)

// completeCmd completes the command position: executables on $PATH or
// at an explicit path, directories for implicit cd, functions and
// builtins. The statement decoration narrows the sources: "command"
// and "exec" allow only external commands and implicit cd, "builtin"
// only builtins.
// A description lookup pass runs at the end.
func (c *completer) completeCmd(ctx context.Context, tok, decoration string) {
	useCommands := decoration != "builtin"
	useFunctions := decoration == ""
	useBuiltins := decoration == "" || decoration == "builtin"

	if strings.ContainsRune(tok, '/') || strings.HasPrefix(tok, "~") {
		if useCommands {
			cands, err := c.eng.expander.Expand(tok, ExpandOptions{
				ExecutablesOnly: true,
				SkipWildcards:   c.flags.Autosuggest,
				Fuzzy:           c.flags.Fuzzy,
			})
			if err == nil {
				for _, cand := range cands {
					c.add(cand)
				}
			}
		}
	} else {
		if useCommands {
			c.completePathCommands(tok)
			c.completeImplicitCd(tok)
		}
		if useFunctions {
			c.completeFunctions(tok)
		}
		if useBuiltins {
			c.completeBuiltins(tok)
		}
	}
	c.patchDescriptions(ctx, tok)
}

// completePathCommands searches every $PATH directory for executables
// matching the token.
func (c *completer) completePathCommands(tok string) {
	path, _ := c.eng.vars.Get("PATH")
	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			continue
		}
		prefix := strings.TrimSuffix(dir, "/") + "/"
		cands, err := c.eng.expander.Expand(prefix+tok, ExpandOptions{
			ExecutablesOnly: true,
			SkipWildcards:   c.flags.Autosuggest,
			Fuzzy:           c.flags.Fuzzy,
		})
		if err != nil {
			continue
		}
		for _, cand := range cands {
			// Expansion saw the full path; the caller typed only the
			// command name, so replacements must drop the directory.
			if cand.Flags.ReplacesToken {
				cand.Text = strings.TrimPrefix(cand.Text, prefix)
			}
			c.add(cand)
		}
	}
}

// completeImplicitCd offers directories reachable through $CDPATH for
// commands that name a directory.
func (c *completer) completeImplicitCd(tok string) {
	cdpath, ok := c.eng.vars.Get("CDPATH")
	if !ok || cdpath == "" {
		cdpath = "."
	}
	for _, dir := range strings.Split(cdpath, ":") {
		if dir == "" {
			dir = "."
		}
		opts := ExpandOptions{
			DirectoriesOnly: true,
			SkipWildcards:   c.flags.Autosuggest,
			Fuzzy:           c.flags.Fuzzy,
		}
		var prefix string
		if dir != "." {
			prefix = strings.TrimSuffix(dir, "/") + "/"
		}
		cands, err := c.eng.expander.Expand(prefix+tok, opts)
		if err != nil {
			continue
		}
		for _, cand := range cands {
			if prefix != "" && cand.Flags.ReplacesToken {
				cand.Text = strings.TrimPrefix(cand.Text, prefix)
			}
			c.add(cand)
		}
	}
}

// completeFunctions offers shell functions. Helper functions with a
// leading underscore only appear once the token starts with one.
func (c *completer) completeFunctions(tok string) {
	if c.eng.funcs == nil {
		return
	}
	includeHidden := strings.HasPrefix(tok, "_")
	limit := c.maxMatchKind()
	for _, name := range c.eng.funcs.Names(includeHidden) {
		m := FuzzyMatch(tok, name, limit)
		if m.Kind == MatchNone {
			continue
		}
		c.addNamed(tok, name, c.eng.funcs.Description(name), m)
	}
}

func (c *completer) completeBuiltins(tok string) {
	if c.eng.builtins == nil {
		return
	}
	limit := c.maxMatchKind()
	for _, name := range c.eng.builtins.Names() {
		m := FuzzyMatch(tok, name, limit)
		if m.Kind == MatchNone {
			continue
		}
		c.addNamed(tok, name, c.eng.builtins.Description(name), m)
	}
}

func (c *completer) addNamed(tok, name, desc string, m Match) {
	var flags Flags
	text := name
	if m.Kind.RequiresFullReplacement() {
		flags.ReplacesToken = true
		if m.Kind == MatchPrefixCI {
			flags.NoCase = true
		}
	} else {
		text = name[len(tok):]
	}
	c.add(NewCandidate(text, desc, m, flags))
}

// patchDescriptions fills in missing candidate descriptions through
// the configured lookup command. The pass is skipped for very short
// tokens, wildcard tokens, and when every candidate is a directory.
func (c *completer) patchDescriptions(ctx context.Context, tok string) {
	if !c.flags.Descriptions || c.flags.Autosuggest {
		return
	}
	if c.eng.cfg.DescribeCommand == "" || len(c.completions) == 0 {
		return
	}
	if utf8.RuneCountInString(tok) < 2 || strings.ContainsAny(tok, "*?[") {
		return
	}
	allDirs := true
	for _, cand := range c.completions {
		if !strings.HasSuffix(cand.Text, "/") {
			allDirs = false
			break
		}
	}
	if allDirs {
		return
	}

	descs, ok := c.eng.descCache.Get(tok)
	if !ok {
		script := c.eng.cfg.DescribeCommand + " " + parser.Escape(tok)
		runCtx, cancel := context.WithTimeout(ctx, c.eng.conditionTimeout())
		defer cancel()
		_, lines, err := c.eng.runner.Run(runCtx, script)
		if err != nil {
			return
		}
		descs = make(map[string]string, len(lines))
		for _, line := range lines {
			name, desc, found := strings.Cut(line, "\t")
			if found && name != "" {
				descs[name] = upperFirst(desc)
			}
		}
		c.eng.descCache.Add(tok, descs)
	}

	for i := range c.completions {
		cand := &c.completions[i]
		if cand.Description != "" {
			continue
		}
		name := cand.Text
		if !cand.Flags.ReplacesToken {
			name = tok + cand.Text
		}
		if desc, found := descs[name]; found {
			cand.Description = desc
		}
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
