package completion

import (
	"context"
	"strings"

	"github.com/google/shlex"
)

// completeParam applies the registered rules of cmd to the current
// token, with prev being the token before it. It reports whether file
// completion should still run for the token.
func (c *completer) completeParam(ctx context.Context, cmd, prev, tok string) bool {
	useFiles := true
	useCommon := true

	c.eng.autoload.LoadForCommand(ctx, cmd)
	cmdPath := ""
	if c.eng.resolver != nil {
		cmdPath = c.eng.resolver.Resolve(cmd)
	}
	entries := c.eng.reg.Snapshot(cmd, cmdPath)

	for _, entry := range entries {
		if strings.HasPrefix(tok, "-") {
			// Combined option and argument, "-Xvalue" or "--foo=bar".
			for _, r := range entry.Rules {
				arg, ok := attachedArg(r, tok)
				if !ok || !c.conditionOK(ctx, r.Condition) {
					continue
				}
				if r.Mode.noCommon() {
					useCommon = false
				}
				if r.Mode.noFiles() {
					useFiles = false
				}
				if arg == "" && r.Args == "" {
					c.add(NewCandidate("", r.Description, exactMatch(), r.Flags))
					continue
				}
				c.completeFromArgs(ctx, arg, r)
			}
		} else if strings.HasPrefix(prev, "-") {
			// The previous token is an option waiting for its
			// argument. Old style options win over everything else.
			oldMatched := false
			for _, r := range entry.Rules {
				if !matchOldStyle(r, prev) || !c.conditionOK(ctx, r.Condition) {
					continue
				}
				oldMatched = true
				if r.Mode.noCommon() {
					useCommon = false
				}
				if r.Mode.noFiles() {
					useFiles = false
				}
				c.completeFromArgs(ctx, tok, r)
			}
			if !oldMatched {
				for _, r := range entry.Rules {
					// A GNU option with an optional argument only
					// accepts it glued on with '='.
					if !r.Option.OldStyle && r.Option.Long != "" && !r.Mode.noCommon() {
						continue
					}
					if !matchShortOrGNU(r, prev) || !c.conditionOK(ctx, r.Condition) {
						continue
					}
					if r.Mode.noCommon() {
						useCommon = false
					}
					if r.Mode.noFiles() {
						useFiles = false
					}
					c.completeFromArgs(ctx, tok, r)
				}
			}
		}

		if !useCommon {
			continue
		}
		for _, r := range entry.Rules {
			if r.Option.IsArgument() {
				if !c.conditionOK(ctx, r.Condition) {
					continue
				}
				if r.Mode.noFiles() {
					useFiles = false
				}
				c.completeFromArgs(ctx, tok, r)
			} else if strings.HasPrefix(tok, "-") {
				if !c.conditionOK(ctx, r.Condition) {
					continue
				}
				c.completeOptionName(entry, r, tok)
			}
		}
	}

	return useFiles
}

// completeOptionName offers the rule's own option names against the
// typed token.
func (c *completer) completeOptionName(entry EntrySnapshot, r Rule, tok string) {
	limit := c.maxMatchKind()

	if r.Option.Short != 0 && !strings.HasPrefix(tok, "--") &&
		shortBundleOK(tok, entry.ShortOpts) &&
		!strings.ContainsRune(tok[1:], r.Option.Short) {
		c.add(NewCandidate(string(r.Option.Short), r.Description, exactMatch(), r.Flags))
	}

	if r.Option.Long == "" {
		return
	}

	if r.Option.OldStyle {
		full := "-" + r.Option.Long
		if m := FuzzyMatch(tok, full, limit); m.Kind != MatchNone {
			c.addOptionCandidate(tok, full, r.Description, m, r.Flags)
		}
		return
	}

	full := "--" + r.Option.Long
	if m := FuzzyMatch(tok, full, limit); m.Kind != MatchNone {
		c.addOptionCandidate(tok, full, r.Description, m, r.Flags)
	}
	if r.Args != "" {
		if m := FuzzyMatch(tok, full+"=", limit); m.Kind != MatchNone {
			flags := r.Flags
			flags.NoSpace = true
			c.addOptionCandidate(tok, full+"=", r.Description, m, flags)
		}
	}
}

func (c *completer) addOptionCandidate(tok, full, desc string, m Match, flags Flags) {
	text := full
	if m.Kind.RequiresFullReplacement() {
		flags = flags.merge(Flags{ReplacesToken: true, NoCase: m.Kind == MatchPrefixCI})
	} else {
		text = full[len(tok):]
	}
	c.add(NewCandidate(text, desc, m, flags))
}

// completeFromArgs expands the rule's argument script and matches its
// output lines against tok. Each line may carry a tab-separated
// description. Autosuggest requests expand only literal word lists.
func (c *completer) completeFromArgs(ctx context.Context, tok string, r Rule) {
	if r.Args == "" {
		return
	}
	if c.flags.Autosuggest && needsSubshell(r.Args) {
		return
	}

	var lines []string
	if c.flags.Autosuggest || !needsSubshell(r.Args) {
		words, err := shlex.Split(r.Args)
		if err != nil {
			return
		}
		lines = words
	} else {
		runCtx, cancel := context.WithTimeout(ctx, c.eng.conditionTimeout())
		defer cancel()
		_, out, err := c.eng.runner.Run(runCtx, r.Args)
		if err != nil {
			c.eng.log.Debug().Str("script", r.Args).Err(err).Msg("argument expansion failed")
			return
		}
		lines = out
	}

	limit := c.maxMatchKind()
	for _, line := range lines {
		text, desc, _ := strings.Cut(line, "\t")
		if text == "" {
			continue
		}
		if desc == "" {
			desc = r.Description
		}
		m := FuzzyMatch(tok, text, limit)
		if m.Kind == MatchNone {
			continue
		}
		flags := r.Flags
		if m.Kind.RequiresFullReplacement() {
			flags = flags.merge(Flags{ReplacesToken: true, NoCase: m.Kind == MatchPrefixCI})
			c.add(NewCandidate(text, desc, m, flags))
		} else {
			c.add(NewCandidate(text[len(tok):], desc, m, flags))
		}
	}
}

// needsSubshell reports whether an argument script does more than
// list literal words.
func needsSubshell(script string) bool {
	return strings.ContainsAny(script, "$`()|;&<>*?~{}")
}
