// Package completion implements the completion engine of the Reef
// shell: the registry of per-command completion rules, the option
// matching state machine, and the per-request orchestrator that fuses
// command, option, argument, variable, user and file completions.
package completion

import (
	"strings"
)

// Flags describe how a candidate behaves when accepted or displayed.
// AutoSpace is an input-only hint: NewCandidate clears it and sets
// NoSpace when the text ends with a character that usually continues
// the token.
type Flags struct {
	// ReplacesToken means Text replaces the whole current token
	// rather than appending a suffix to it.
	ReplacesToken bool
	// NoSpace suppresses the trailing space on acceptance.
	NoSpace bool
	// AutoSpace requests NoSpace resolution at construction time.
	AutoSpace bool
	// NoCase marks a match obtained through case correction.
	NoCase bool
	// DontEscape disables escaping when the candidate is inserted.
	DontEscape bool
	// DontSort asks UI consumers to keep generator order.
	DontSort bool
}

func (f Flags) merge(other Flags) Flags {
	return Flags{
		ReplacesToken: f.ReplacesToken || other.ReplacesToken,
		NoSpace:       f.NoSpace || other.NoSpace,
		AutoSpace:     f.AutoSpace || other.AutoSpace,
		NoCase:        f.NoCase || other.NoCase,
		DontEscape:    f.DontEscape || other.DontEscape,
		DontSort:      f.DontSort || other.DontSort,
	}
}

// Candidate is one completion offered to the caller. Candidates are
// value types and immutable after construction; only the description
// may be patched by the command description pass before the request
// returns.
type Candidate struct {
	// Text is the token replacement or suffix.
	Text string
	// Description is display-only and possibly empty.
	Description string
	// Match records how the candidate matched the current token.
	Match Match
	// Flags carry behavior and display hints.
	Flags Flags
}

// autoSpaceSuffixes are the characters after which a trailing space
// would split an unfinished token.
const autoSpaceSuffixes = "/=@:"

// NewCandidate builds a candidate, resolving the AutoSpace hint.
func NewCandidate(text, description string, match Match, flags Flags) Candidate {
	if flags.AutoSpace {
		flags.AutoSpace = false
		if text != "" && strings.ContainsRune(autoSpaceSuffixes, rune(text[len(text)-1])) {
			flags.NoSpace = true
		}
	}
	return Candidate{
		Text:        text,
		Description: description,
		Match:       match,
		Flags:       flags,
	}
}
