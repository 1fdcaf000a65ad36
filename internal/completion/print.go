package completion

import (
	"strings"

	"github.com/reef-shell/reef/internal/parser"
)

// FormatEntries renders registry entries back into `complete` command
// lines, printing rules in their stored (newest-first) order. Feeding
// the lines to the builtin reproduces the same rules, but since each
// added rule is prepended, the order within a command comes back
// reversed.
func FormatEntries(entries []EntrySnapshot) []string {
	var lines []string
	for _, entry := range entries {
		if entry.Authoritative {
			lines = append(lines, formatAuthoritative(entry))
		}
		for _, r := range entry.Rules {
			lines = append(lines, formatRule(entry, r))
		}
	}
	return lines
}

func cmdFlag(entry EntrySnapshot) string {
	flag := "--command"
	if entry.IsPath {
		flag = "--path"
	}
	return flag + " " + parser.Escape(entry.Cmd)
}

func formatAuthoritative(entry EntrySnapshot) string {
	return "complete " + cmdFlag(entry) + " --authoritative"
}

func formatRule(entry EntrySnapshot, r Rule) string {
	var b strings.Builder
	b.WriteString("complete ")
	b.WriteString(cmdFlag(entry))

	if r.Option.Short != 0 {
		b.WriteString(" --short-option ")
		b.WriteString(parser.Escape(string(r.Option.Short)))
	}
	if r.Option.Long != "" {
		if r.Option.OldStyle {
			b.WriteString(" --old-option ")
		} else {
			b.WriteString(" --long-option ")
		}
		b.WriteString(parser.Escape(r.Option.Long))
	}

	switch r.Mode {
	case ModeExclusive:
		b.WriteString(" --exclusive")
	case ModeNoFiles:
		b.WriteString(" --no-files")
	case ModeNoCommon:
		b.WriteString(" --require-parameter")
	}

	if r.Condition != "" {
		b.WriteString(" --condition ")
		b.WriteString(parser.Escape(r.Condition))
	}
	if r.Args != "" {
		b.WriteString(" --arguments ")
		b.WriteString(parser.Escape(r.Args))
	}
	if r.Description != "" {
		b.WriteString(" --description ")
		b.WriteString(parser.Escape(r.Description))
	}
	if r.Flags.DontSort {
		b.WriteString(" --keep-order")
	}
	return b.String()
}
