package completion

import (
	"strings"
	"unicode"
)

// MatchKind classifies how well a candidate matched the current token.
// The ordinal runs from best to worst; UI consumers sort candidates by
// (kind, text).
type MatchKind int

const (
	// MatchExact is a full case-sensitive match.
	MatchExact MatchKind = iota
	// MatchPrefix is a case-sensitive prefix match.
	MatchPrefix
	// MatchPrefixCI is a case-insensitive prefix match.
	MatchPrefixCI
	// MatchSubstring is a case-sensitive substring match.
	MatchSubstring
	// MatchSubstringCI is a case-insensitive substring match.
	MatchSubstringCI
	// MatchSubsequence matches the token characters in order but not
	// necessarily adjacent.
	MatchSubsequence
	// MatchNone means no acceptable match.
	MatchNone
)

// RequiresFullReplacement reports whether accepting a candidate with
// this kind must rewrite the whole token: anything beyond a
// case-sensitive prefix cannot be expressed as a suffix.
func (k MatchKind) RequiresFullReplacement() bool {
	return k != MatchExact && k != MatchPrefix
}

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchPrefixCI:
		return "prefix-ci"
	case MatchSubstring:
		return "substring"
	case MatchSubstringCI:
		return "substring-ci"
	case MatchSubsequence:
		return "subsequence"
	default:
		return "none"
	}
}

// Match is the quality tag carried by every candidate: the kind plus a
// score used to break ties inside one kind (lower is better).
type Match struct {
	Kind  MatchKind
	Score int
}

func exactMatch() Match {
	return Match{Kind: MatchExact}
}

// FuzzyMatch classifies how token matches against candidate. Kinds
// worse than limit are rejected, so callers can cap the request at
// case-insensitive prefix matching when fuzzy mode is off.
func FuzzyMatch(token, candidate string, limit MatchKind) Match {
	check := func(kind MatchKind, score int) Match {
		if kind > limit {
			return Match{Kind: MatchNone}
		}
		return Match{Kind: kind, Score: score}
	}

	if token == candidate {
		return check(MatchExact, 0)
	}
	if strings.HasPrefix(candidate, token) {
		return check(MatchPrefix, len(candidate)-len(token))
	}

	lowerToken := strings.ToLower(token)
	lowerCand := strings.ToLower(candidate)
	if strings.HasPrefix(lowerCand, lowerToken) {
		return check(MatchPrefixCI, len(candidate)-len(token))
	}
	if idx := strings.Index(candidate, token); idx >= 0 {
		return check(MatchSubstring, idx)
	}
	if idx := strings.Index(lowerCand, lowerToken); idx >= 0 {
		return check(MatchSubstringCI, idx)
	}
	if isSubsequence(lowerToken, lowerCand) {
		return check(MatchSubsequence, len(candidate))
	}
	return Match{Kind: MatchNone}
}

func isSubsequence(needle, haystack string) bool {
	if needle == "" {
		return true
	}
	pos := 0
	runes := []rune(needle)
	for _, r := range haystack {
		if unicode.ToLower(r) == runes[pos] {
			pos++
			if pos == len(runes) {
				return true
			}
		}
	}
	return false
}
