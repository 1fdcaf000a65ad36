package completion

import (
	"fmt"
	"strings"

	"github.com/reef-shell/reef/internal/rerrors"
)

// IsValidArgument checks an argument attached to a short option.
// Argument validation is delegated to the rule's generator at
// completion time, so any attached value passes here.
func IsValidArgument(Rule, string) bool {
	return true
}

// IsValidOption checks the option token tok against the entries for a
// command. Unknown options on an authoritative command yield an
// OptionError. Tokens that are not options, and commands with no
// authoritative entry, always validate.
func IsValidOption(entries []EntrySnapshot, tok string) (bool, error) {
	if tok == "" || tok == "-" || tok == "--" || !strings.HasPrefix(tok, "-") {
		return true, nil
	}

	authoritative := false
	for _, e := range entries {
		authoritative = authoritative || e.Authoritative
	}

	if strings.HasPrefix(tok, "--") {
		return validateGNU(entries, authoritative, tok)
	}
	return validateShortOrOld(entries, authoritative, tok)
}

// validateGNU matches "--name" or "--name=value" against the long
// options of every entry. The typed name may be an unambiguous prefix
// of a registered long option.
func validateGNU(entries []EntrySnapshot, authoritative bool, tok string) (bool, error) {
	body := tok[2:]
	if eq := strings.IndexByte(body, '='); eq >= 0 {
		body = body[:eq]
	}

	exact := false
	var prefixes []string
	for _, e := range entries {
		for _, r := range e.Rules {
			if r.Option.Long == "" || r.Option.OldStyle {
				continue
			}
			if r.Option.Long == body {
				exact = true
			} else if strings.HasPrefix(r.Option.Long, body) {
				prefixes = append(prefixes, r.Option.Long)
			}
		}
		if !e.Authoritative && (exact || len(prefixes) > 0) {
			return true, nil
		}
	}

	if exact || len(prefixes) == 1 {
		return true, nil
	}
	if len(prefixes) > 1 {
		return false, rerrors.NewOptionError(tok,
			fmt.Sprintf("Multiple matches for option: '%s'", tok))
	}
	if authoritative {
		return false, rerrors.NewOptionError(tok,
			fmt.Sprintf("Unknown option: '%s'", tok))
	}
	return true, nil
}

// validateShortOrOld matches "-x", "-xvf" bundles and old-style
// "-foo" options.
func validateShortOrOld(entries []EntrySnapshot, authoritative bool, tok string) (bool, error) {
	body := tok[1:]

	for _, e := range entries {
		for _, r := range e.Rules {
			if matchOldStyle(r, tok) {
				return true, nil
			}
		}
	}

	for _, e := range entries {
		if bundleValid(e, body) {
			return true, nil
		}
	}

	if authoritative {
		return false, rerrors.NewOptionError(tok,
			fmt.Sprintf("Unknown option: '%s'", tok))
	}
	return true, nil
}

// bundleValid checks every character of a short option bundle against
// one entry. A colon-marked option consumes the rest of the bundle as
// its attached argument.
func bundleValid(e EntrySnapshot, body string) bool {
	for i, c := range body {
		idx := strings.IndexRune(e.ShortOpts, c)
		if idx < 0 {
			return false
		}
		if idx+1 < len(e.ShortOpts) && e.ShortOpts[idx+1] == ':' {
			arg := body[i+len(string(c)):]
			if arg == "" {
				return true
			}
			for _, r := range e.Rules {
				if r.Option.Short == c {
					return IsValidArgument(r, arg)
				}
			}
			return true
		}
	}
	return true
}
