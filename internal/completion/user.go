package completion

import (
	"context"
	"strings"

	"github.com/reef-shell/reef/internal/timing"
)

// completeUser completes ~name tokens from the system user database.
// It reports whether the token is a tilde prefix without a path
// component. Enumeration stops once the scan budget is spent so a
// huge user database cannot stall the request.
func (c *completer) completeUser(ctx context.Context, tok string) bool {
	if !strings.HasPrefix(tok, "~") || strings.ContainsRune(tok, '/') {
		return false
	}
	if c.eng.users == nil {
		return true
	}

	prefix := tok[1:]
	limit := c.maxMatchKind()
	budget := timing.NewBudget(c.eng.userScanBudget())

	err := c.eng.users.Each(func(name string) bool {
		if budget.Exceeded() || ctx.Err() != nil {
			return false
		}
		m := FuzzyMatch(prefix, name, limit)
		if m.Kind == MatchNone {
			return true
		}
		desc := "Home for " + name
		flags := Flags{NoSpace: true}
		text := name
		if m.Kind.RequiresFullReplacement() {
			flags.ReplacesToken = true
			if m.Kind == MatchPrefixCI {
				flags.NoCase = true
			}
			text = "~" + text
		} else {
			text = text[len(prefix):]
		}
		c.add(NewCandidate(text, desc, m, flags))
		return true
	})
	if err != nil {
		c.eng.log.Debug().Err(err).Msg("user enumeration failed")
	}
	return true
}
