package completion

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/reef-shell/reef/internal/config"
	"github.com/reef-shell/reef/internal/logger"
)

// VariableSource exposes shell variables for $name completion and for
// the engine's own lookups (PATH, CDPATH).
type VariableSource interface {
	// Names lists every visible variable name.
	Names() []string
	// Get returns the variable's value and whether it is set.
	Get(name string) (string, bool)
}

// FunctionSource exposes shell functions for command completion.
type FunctionSource interface {
	// Names lists function names; hidden functions start with '_' and
	// are included only when asked for.
	Names(includeHidden bool) []string
	// Description returns the function's description, "" when none.
	Description(name string) string
}

// BuiltinSource exposes shell builtins for command completion.
type BuiltinSource interface {
	Names() []string
	Description(name string) string
}

// UserSource enumerates system users for ~name completion. Each calls
// fn for every user until fn returns false.
type UserSource interface {
	Each(fn func(name string) bool) error
}

// Runner executes condition and argument scripts in a subshell.
type Runner interface {
	// Run executes script and returns its exit status and output
	// lines. A non-zero status is not an error.
	Run(ctx context.Context, script string) (int, []string, error)
}

// ExpandOptions steer one path expansion request.
type ExpandOptions struct {
	// ExecutablesOnly keeps only executable files and directories.
	ExecutablesOnly bool
	// DirectoriesOnly keeps only directories.
	DirectoriesOnly bool
	// SkipWildcards rejects tokens containing unescaped wildcards
	// instead of expanding them.
	SkipWildcards bool
	// Fuzzy enables non-prefix matching on the last path component.
	Fuzzy bool
	// WorkingDir resolves relative tokens; "" means the process CWD.
	WorkingDir string
}

// PathExpander turns a partial path token into candidates.
type PathExpander interface {
	Expand(token string, opts ExpandOptions) ([]Candidate, error)
}

// CommandResolver maps a command name to its path on $PATH.
type CommandResolver interface {
	// Resolve returns the full path for name, "" when not found.
	Resolve(name string) string
}

// RequestFlags select per-request behavior.
type RequestFlags struct {
	// Autosuggest marks a background request: conditions are assumed
	// false, no subshell runs, and an empty argument token gets no
	// file candidates.
	Autosuggest bool
	// Descriptions enables the command description lookup pass.
	Descriptions bool
	// Fuzzy extends matching beyond case-insensitive prefixes.
	Fuzzy bool
}

// Engine owns the registry and the collaborator sources and serves
// completion requests.
type Engine struct {
	reg      *Registry
	autoload *Autoloader
	vars     VariableSource
	funcs    FunctionSource
	builtins BuiltinSource
	users    UserSource
	runner   Runner
	expander PathExpander
	resolver CommandResolver
	cfg      *config.Config
	log      *logger.Logger
	// descCache remembers command description lookups per token.
	descCache *lru.Cache[string, map[string]string]
}

// Sources bundles the engine's collaborators.
type Sources struct {
	Vars     VariableSource
	Funcs    FunctionSource
	Builtins BuiltinSource
	Users    UserSource
	Runner   Runner
	Expander PathExpander
	Resolver CommandResolver
}

// NewEngine builds an engine around an empty registry.
func NewEngine(cfg *config.Config, src Sources, log *logger.Logger) *Engine {
	eng := &Engine{
		reg:      NewRegistry(),
		vars:     src.Vars,
		funcs:    src.Funcs,
		builtins: src.Builtins,
		users:    src.Users,
		runner:   src.Runner,
		expander: src.Expander,
		resolver: src.Resolver,
		cfg:      cfg,
		log:      log,
	}
	eng.descCache, _ = lru.New[string, map[string]string](128)
	eng.autoload = NewAutoloader(eng, cfg.CompletionPath, log)
	return eng
}

// Registry exposes the engine's rule store.
func (eng *Engine) Registry() *Registry {
	return eng.reg
}

// Autoloader exposes the definition loader.
func (eng *Engine) Autoloader() *Autoloader {
	return eng.autoload
}

func (eng *Engine) userScanBudget() time.Duration {
	return time.Duration(eng.cfg.UserScanBudgetMs) * time.Millisecond
}

func (eng *Engine) conditionTimeout() time.Duration {
	return time.Duration(eng.cfg.ConditionTimeoutMs) * time.Millisecond
}

// Complete runs one completion request over the command line cmdline
// with the cursor at cursor (a byte offset). It returns the candidate
// list sorted by the caller's conventions.
func (eng *Engine) Complete(ctx context.Context, cmdline string, cursor int, flags RequestFlags) []Candidate {
	c := &completer{
		eng:        eng,
		flags:      flags,
		conditions: make(map[string]bool),
	}
	c.complete(ctx, cmdline, cursor)
	return c.completions
}
