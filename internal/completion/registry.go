package completion

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// entryKey identifies one command entry. A path entry matches against
// the resolved command path instead of the bare name.
type entryKey struct {
	cmd    string
	isPath bool
}

// commandEntry holds the rules registered for one command. Rules are
// kept newest first so later registrations shadow earlier ones.
type commandEntry struct {
	cmd           string
	isPath        bool
	authoritative bool
	order         uint64
	// shortOpts is the projection of every short option in the entry,
	// with ':' after options that require a parameter.
	shortOpts string
	rules     []Rule
}

func (e *commandEntry) addRule(r Rule) {
	// Replace an existing rule for the same option in place.
	for i := range e.rules {
		if e.rules[i].Option == r.Option {
			e.rules[i] = r
			e.rebuildShortOpts()
			return
		}
	}
	e.rules = append([]Rule{r}, e.rules...)
	if r.Option.Short != 0 {
		s := string(r.Option.Short)
		if r.Mode.noCommon() {
			s += ":"
		}
		e.shortOpts = s + e.shortOpts
	}
}

func (e *commandEntry) rebuildShortOpts() {
	var b strings.Builder
	for _, r := range e.rules {
		if r.Option.Short == 0 {
			continue
		}
		b.WriteRune(r.Option.Short)
		if r.Mode.noCommon() {
			b.WriteByte(':')
		}
	}
	e.shortOpts = b.String()
}

// removeRule deletes every rule whose short or long option matches.
func (e *commandEntry) removeRule(opt OptionSpec) {
	kept := e.rules[:0]
	for _, r := range e.rules {
		match := (opt.Short != 0 && r.Option.Short == opt.Short) ||
			(opt.Long != "" && r.Option.Long == opt.Long && r.Option.OldStyle == opt.OldStyle)
		if !match {
			kept = append(kept, r)
			continue
		}
		if r.Option.Short != 0 {
			e.eraseShort(r.Option.Short)
		}
	}
	e.rules = kept
}

// eraseShort removes the first occurrence of the character from the
// short option string together with any colons that follow it.
func (e *commandEntry) eraseShort(short rune) {
	idx := strings.IndexRune(e.shortOpts, short)
	if idx < 0 {
		return
	}
	end := idx + len(string(short))
	for end < len(e.shortOpts) && e.shortOpts[end] == ':' {
		end++
	}
	e.shortOpts = e.shortOpts[:idx] + e.shortOpts[end:]
}

// Registry stores completion entries for all commands. Lock order is
// mu before entriesMu; mu serializes writers while entriesMu guards
// the map structure for snapshot readers.
type Registry struct {
	mu        sync.Mutex
	entriesMu sync.RWMutex
	entries   *orderedmap.OrderedMap[entryKey, *commandEntry]
	nextOrder uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: orderedmap.New[entryKey, *commandEntry](),
	}
}

// Add registers a rule for cmd, creating the entry when needed. A rule
// for an option that already has one replaces it; otherwise the rule
// is prepended so it shadows earlier registrations.
func (reg *Registry) Add(cmd string, isPath bool, r Rule) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.entriesMu.Lock()
	defer reg.entriesMu.Unlock()

	key := entryKey{cmd: cmd, isPath: isPath}
	entry, ok := reg.entries.Get(key)
	if !ok {
		reg.nextOrder++
		entry = &commandEntry{cmd: cmd, isPath: isPath, order: reg.nextOrder}
		reg.entries.Set(key, entry)
	}
	entry.addRule(r)
}

// Remove deletes every rule of cmd's entry whose short or long option
// matches opt. An entry left with no rules is removed unless it is
// marked authoritative. Removing from an absent entry is a no-op.
func (reg *Registry) Remove(cmd string, isPath bool, opt OptionSpec) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.entriesMu.Lock()
	defer reg.entriesMu.Unlock()

	key := entryKey{cmd: cmd, isPath: isPath}
	entry, ok := reg.entries.Get(key)
	if !ok {
		return
	}
	entry.removeRule(opt)
	if len(entry.rules) == 0 && !entry.authoritative {
		reg.entries.Delete(key)
	}
}

// RemoveAll drops cmd's entry with every rule in it.
func (reg *Registry) RemoveAll(cmd string, isPath bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.entriesMu.Lock()
	defer reg.entriesMu.Unlock()

	reg.entries.Delete(entryKey{cmd: cmd, isPath: isPath})
}

// SetAuthoritative marks cmd's entry as (non-)authoritative, creating
// the entry when needed so the flag survives without rules.
func (reg *Registry) SetAuthoritative(cmd string, isPath bool, v bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.entriesMu.Lock()
	defer reg.entriesMu.Unlock()

	key := entryKey{cmd: cmd, isPath: isPath}
	entry, ok := reg.entries.Get(key)
	if !ok {
		reg.nextOrder++
		entry = &commandEntry{cmd: cmd, isPath: isPath, order: reg.nextOrder}
		reg.entries.Set(key, entry)
	}
	entry.authoritative = v
}

// EntrySnapshot is an immutable copy of one command entry handed to
// request processing so user callouts run without registry locks held.
type EntrySnapshot struct {
	Cmd           string
	IsPath        bool
	Authoritative bool
	Order         uint64
	ShortOpts     string
	Rules         []Rule
}

func (e *commandEntry) snapshot() EntrySnapshot {
	rules := make([]Rule, len(e.rules))
	copy(rules, e.rules)
	return EntrySnapshot{
		Cmd:           e.cmd,
		IsPath:        e.isPath,
		Authoritative: e.authoritative,
		Order:         e.order,
		ShortOpts:     e.shortOpts,
		Rules:         rules,
	}
}

// Snapshot returns copies of every entry matching the command, given
// both its typed name and its resolved path. Name entries match the
// basename, path entries match the full path; both sides support
// glob patterns.
func (reg *Registry) Snapshot(cmdName, cmdPath string) []EntrySnapshot {
	reg.entriesMu.RLock()
	defer reg.entriesMu.RUnlock()

	base := filepath.Base(cmdName)
	var out []EntrySnapshot
	for pair := reg.entries.Oldest(); pair != nil; pair = pair.Next() {
		entry := pair.Value
		target := base
		if entry.isPath {
			target = cmdPath
		}
		if target == "" {
			continue
		}
		if entry.cmd == target {
			out = append(out, entry.snapshot())
			continue
		}
		if ok, err := doublestar.Match(entry.cmd, target); err == nil && ok {
			out = append(out, entry.snapshot())
		}
	}
	return out
}

// All returns a snapshot of every entry in registration order.
func (reg *Registry) All() []EntrySnapshot {
	reg.entriesMu.RLock()
	defer reg.entriesMu.RUnlock()

	out := make([]EntrySnapshot, 0, reg.entries.Len())
	for pair := reg.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.snapshot())
	}
	return out
}
