package cli

import (
	"context"
	"fmt"

	"github.com/reef-shell/reef/internal/completion"
)

// CompleteParams carries the inputs of one completion request.
type CompleteParams struct {
	// Line is the command line being completed.
	Line string
	// Cursor is the byte offset of the cursor; negative means end of
	// line.
	Cursor int
	// Fuzzy enables matching beyond case-insensitive prefixes.
	Fuzzy bool
	// Descriptions enables the command description lookup pass.
	Descriptions bool
	// Autosuggest marks a background request.
	Autosuggest bool
	// LogLevel overrides the configured level when non-empty.
	LogLevel string
}

// Complete runs one completion request and prints one candidate per
// line. The shell integration reads the tab-separated fields: text, a
// marker column, and the description.
func Complete(ctx context.Context, p CompleteParams) error {
	comp, err := initializeComponents(p.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = comp.engine.Autoloader().Close() }()

	cursor := p.Cursor
	if cursor < 0 || cursor > len(p.Line) {
		cursor = len(p.Line)
	}

	candidates := comp.engine.Complete(ctx, p.Line, cursor, completion.RequestFlags{
		Autosuggest:  p.Autosuggest,
		Descriptions: p.Descriptions,
		Fuzzy:        p.Fuzzy,
	})

	for _, cand := range candidates {
		fmt.Printf("%s\t%s\t%s\n", cand.Text, markers(cand), cand.Description)
	}
	return nil
}

// markers encodes candidate flags as a compact letter column.
func markers(cand completion.Candidate) string {
	var m []byte
	if cand.Flags.ReplacesToken {
		m = append(m, 'R')
	}
	if cand.Flags.NoSpace {
		m = append(m, 'n')
	}
	if cand.Flags.NoCase {
		m = append(m, 'c')
	}
	if cand.Flags.DontEscape {
		m = append(m, 'e')
	}
	if cand.Flags.DontSort {
		m = append(m, 'k')
	}
	return string(m)
}
