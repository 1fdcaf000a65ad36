// Package expand turns partial path tokens into completion
// candidates: tilde expansion, wildcard globbing and per-component
// matching against directory listings.
package expand

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/reef-shell/reef/internal/completion"
	"github.com/reef-shell/reef/internal/shellenv"
)

// Expander implements file name completion over the local filesystem.
type Expander struct{}

// New returns a filesystem-backed expander.
func New() *Expander {
	return &Expander{}
}

// HasWildcard reports whether token contains an unescaped glob
// character.
func HasWildcard(token string) bool {
	escaped := false
	for _, r := range token {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '*', '?', '[':
			return true
		}
	}
	return false
}

// Expand completes the last path component of token. The returned
// candidates carry suffix text for prefix matches and whole-token
// replacements otherwise.
func (x *Expander) Expand(token string, opts completion.ExpandOptions) ([]completion.Candidate, error) {
	if HasWildcard(token) {
		if opts.SkipWildcards {
			return nil, nil
		}
		return x.glob(token, opts)
	}

	dirPart, last := splitToken(token)
	dir, err := resolveDir(dirPart, opts.WorkingDir)
	if err != nil {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}

	limit := completion.MatchPrefixCI
	if opts.Fuzzy {
		limit = completion.MatchSubsequence
	}

	var out []completion.Candidate
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(last, ".") {
			continue
		}
		isDir := entryIsDir(entry, dir)
		if opts.DirectoriesOnly && !isDir {
			continue
		}
		if opts.ExecutablesOnly && !isDir && !isExecutable(filepath.Join(dir, name)) {
			continue
		}
		m := completion.FuzzyMatch(last, name, limit)
		if m.Kind == completion.MatchNone {
			continue
		}
		out = append(out, makeCandidate(dirPart, last, name, isDir, m))
	}
	return out, nil
}

func makeCandidate(dirPart, last, name string, isDir bool, m completion.Match) completion.Candidate {
	display := name
	if isDir {
		display += "/"
	}
	flags := completion.Flags{AutoSpace: true}
	var text string
	if m.Kind.RequiresFullReplacement() {
		flags.ReplacesToken = true
		if m.Kind == completion.MatchPrefixCI {
			flags.NoCase = true
		}
		text = dirPart + display
	} else {
		text = display[len(last):]
	}
	return completion.NewCandidate(text, "", m, flags)
}

// glob expands a wildcard token; every match is a whole-token
// replacement.
func (x *Expander) glob(token string, opts completion.ExpandOptions) ([]completion.Candidate, error) {
	pattern := expandTilde(token)
	base := opts.WorkingDir
	if base == "" {
		base, _ = os.Getwd()
	}
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(base, pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, nil
	}

	var out []completion.Candidate
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		isDir := info.IsDir()
		if opts.DirectoriesOnly && !isDir {
			continue
		}
		if opts.ExecutablesOnly && !isDir && info.Mode()&0o111 == 0 {
			continue
		}
		text := match
		if isDir {
			text += "/"
		}
		out = append(out, completion.NewCandidate(text, "",
			completion.Match{Kind: completion.MatchExact},
			completion.Flags{ReplacesToken: true, AutoSpace: true}))
	}
	return out, nil
}

// splitToken separates the directory part, kept verbatim for
// reassembly, from the component being completed.
func splitToken(token string) (dirPart, last string) {
	idx := strings.LastIndexByte(token, '/')
	if idx < 0 {
		return "", token
	}
	return token[:idx+1], token[idx+1:]
}

// resolveDir maps the typed directory part onto a filesystem path.
func resolveDir(dirPart, workingDir string) (string, error) {
	dir := expandTilde(dirPart)
	if dir == "" {
		dir = "."
	}
	if !filepath.IsAbs(dir) {
		base := workingDir
		if base == "" {
			var err error
			base, err = os.Getwd()
			if err != nil {
				return "", err
			}
		}
		dir = filepath.Join(base, dir)
	}
	return dir, nil
}

// expandTilde rewrites a leading ~ or ~user to the home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	rest := path[1:]
	var name string
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		name, rest = rest[:idx], rest[idx:]
	} else {
		name, rest = rest, ""
	}
	var home string
	if name == "" {
		home, _ = os.UserHomeDir()
	} else {
		home = shellenv.HomeDir(name)
	}
	if home == "" {
		return path
	}
	return home + rest
}

func entryIsDir(entry os.DirEntry, dir string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		return err == nil && info.IsDir()
	}
	return false
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode()&0o111 != 0
}
