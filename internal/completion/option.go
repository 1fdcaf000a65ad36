package completion

import (
	"strings"
)

// OptionSpec identifies what a rule completes after: a short option, a
// GNU long option, an old-style long option, or a positional argument
// when all fields are zero.
type OptionSpec struct {
	// Short is the single-character option, 0 when absent.
	Short rune
	// Long is the long option name without dashes, "" when absent.
	Long string
	// OldStyle marks a single-dash long option (-foo style).
	OldStyle bool
}

// IsArgument reports whether the spec describes a positional argument
// rather than an option.
func (o OptionSpec) IsArgument() bool {
	return o.Short == 0 && o.Long == ""
}

// ResultMode controls how a rule's candidates combine with file
// completion and with candidates from other rules.
type ResultMode int

const (
	// ModeShared offers the rule's candidates alongside files and
	// other rules.
	ModeShared ResultMode = 0
	// ModeNoFiles suppresses file completion when the rule applies.
	ModeNoFiles ResultMode = 1
	// ModeNoCommon suppresses candidates from other rules.
	ModeNoCommon ResultMode = 2
	// ModeExclusive suppresses both.
	ModeExclusive ResultMode = 3
)

func (m ResultMode) noFiles() bool  { return m&ModeNoFiles != 0 }
func (m ResultMode) noCommon() bool { return m&ModeNoCommon != 0 }

// Rule is one completion rule attached to a command entry.
type Rule struct {
	Option OptionSpec
	Mode   ResultMode
	// Condition is a shell script that must exit zero for the rule to
	// apply; "" always applies.
	Condition string
	// Args is a shell script whose output lines become candidates;
	// "" means the rule offers no generated arguments.
	Args string
	// Description is attached to every candidate the rule emits.
	Description string
	// Flags are merged into every candidate the rule emits.
	Flags Flags
}

// matchOldStyle reports whether tok, an old-style option token like
// "-foo", matches the rule's long name.
func matchOldStyle(r Rule, tok string) bool {
	if r.Option.Long == "" || !r.Option.OldStyle {
		return false
	}
	if !strings.HasPrefix(tok, "-") || strings.HasPrefix(tok, "--") {
		return false
	}
	return tok[1:] == r.Option.Long
}

// matchShortOrGNU reports whether tok matches the rule as a short
// option in a bundle or as a GNU long option, possibly with an
// attached =value.
func matchShortOrGNU(r Rule, tok string) bool {
	if r.Option.Short != 0 && len(tok) >= 2 &&
		strings.HasPrefix(tok, "-") && !strings.HasPrefix(tok, "--") {
		if strings.ContainsRune(tok[1:], r.Option.Short) {
			return true
		}
	}
	if r.Option.Long != "" && !r.Option.OldStyle && strings.HasPrefix(tok, "--") {
		body := tok[2:]
		if eq := strings.IndexByte(body, '='); eq >= 0 {
			body = body[:eq]
		}
		if body == r.Option.Long {
			return true
		}
	}
	return false
}

// attachedArg extracts the argument glued onto an option token. For a
// short option the rest of the token counts as the argument only when
// the rule suppresses candidates from other rules; a bare "-X" yields
// "". For a GNU long option the part after "=" is the argument.
// The second result reports whether tok carries an attached argument
// position at all.
func attachedArg(r Rule, tok string) (string, bool) {
	if r.Option.Short != 0 && len(tok) >= 2 &&
		strings.HasPrefix(tok, "-") && !strings.HasPrefix(tok, "--") {
		if idx := strings.IndexRune(tok[1:], r.Option.Short); idx >= 0 {
			rest := tok[1+idx+len(string(r.Option.Short)):]
			if rest == "" {
				return "", true
			}
			if r.Mode.noCommon() {
				return rest, true
			}
			return "", false
		}
	}
	if r.Option.Long != "" && !r.Option.OldStyle && strings.HasPrefix(tok, "--") {
		body := tok[2:]
		if eq := strings.IndexByte(body, '='); eq >= 0 && body[:eq] == r.Option.Long {
			return body[eq+1:], true
		}
	}
	return "", false
}

// shortBundleOK checks a short-option bundle like "-xvf" against the
// entry's short option string, where a trailing ':' after a character
// marks an option that consumes the rest of the token as its argument.
func shortBundleOK(tok string, shortOpts string) bool {
	if len(tok) < 2 || !strings.HasPrefix(tok, "-") || strings.HasPrefix(tok, "--") {
		return true
	}
	for _, r := range tok[1:] {
		idx := strings.IndexRune(shortOpts, r)
		if idx < 0 {
			return false
		}
		if idx+1 < len(shortOpts) && shortOpts[idx+1] == ':' {
			// The option consumes the rest of the token as its
			// argument, so nothing after it needs checking.
			return true
		}
	}
	return true
}
