package completion

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/reef-shell/reef/internal/rerrors"
)

// BuiltinRequest is the parsed form of one `complete` invocation.
type BuiltinRequest struct {
	Commands    []string
	Paths       []string
	Shorts      []rune
	Longs       []string
	Olds        []string
	Mode        ResultMode
	Condition   string
	Args        string
	Description string
	KeepOrder   bool
	NoSpace     bool
	Erase       bool
	// Authoritative is nil when neither -A nor -u was given.
	Authoritative *bool
	// DoComplete holds the -C payload; DoCompleteSet distinguishes
	// -C with an empty string from no -C at all.
	DoComplete    string
	DoCompleteSet bool
}

// ParseBuiltinArgs parses the argument vector of a `complete` call.
func ParseBuiltinArgs(argv []string) (*BuiltinRequest, error) {
	fs := pflag.NewFlagSet("complete", pflag.ContinueOnError)
	fs.SortFlags = false

	commands := fs.StringArrayP("command", "c", nil, "command to add the completion to")
	paths := fs.StringArrayP("path", "p", nil, "absolute command path to add the completion to")
	shorts := fs.StringArrayP("short-option", "s", nil, "short option")
	longs := fs.StringArrayP("long-option", "l", nil, "GNU style long option")
	olds := fs.StringArrayP("old-option", "o", nil, "old style long option")
	noFiles := fs.BoolP("no-files", "f", false, "don't suggest files")
	requireParam := fs.BoolP("require-parameter", "r", false, "option requires an argument")
	exclusive := fs.BoolP("exclusive", "x", false, "require a parameter and don't suggest files")
	condition := fs.StringP("condition", "n", "", "completion only applies when this script succeeds")
	args := fs.StringP("arguments", "a", "", "space-separated list of possible arguments")
	description := fs.StringP("description", "d", "", "description of the completion")
	keepOrder := fs.BoolP("keep-order", "k", false, "keep argument order instead of sorting")
	erase := fs.BoolP("erase", "e", false, "remove the completion")
	unauth := fs.BoolP("unauthoritative", "u", false, "the list of options is incomplete")
	auth := fs.BoolP("authoritative", "A", false, "the list of options is complete")
	doComplete := fs.StringP("do-complete", "C", "", "print completions for the given command line")

	if err := fs.Parse(argv); err != nil {
		return nil, rerrors.NewOptionError("complete", err.Error())
	}
	if rest := fs.Args(); len(rest) > 0 {
		return nil, rerrors.NewOptionError(rest[0], "unexpected argument")
	}

	req := &BuiltinRequest{
		Commands:    *commands,
		Paths:       *paths,
		Longs:       *longs,
		Olds:        *olds,
		Condition:   *condition,
		Args:        *args,
		Description: *description,
		KeepOrder:   *keepOrder,
		Erase:       *erase,
	}
	for _, s := range *shorts {
		runes := []rune(s)
		if len(runes) != 1 {
			return nil, rerrors.NewOptionError(s, "short options must be a single character")
		}
		req.Shorts = append(req.Shorts, runes[0])
	}
	if *noFiles {
		req.Mode |= ModeNoFiles
	}
	if *requireParam {
		req.Mode |= ModeNoCommon
	}
	if *exclusive {
		req.Mode = ModeExclusive
	}
	switch {
	case *auth && *unauth:
		return nil, rerrors.NewOptionError("complete", "authoritative and unauthoritative are mutually exclusive")
	case *auth:
		v := true
		req.Authoritative = &v
	case *unauth:
		v := false
		req.Authoritative = &v
	}
	if fs.Changed("do-complete") {
		req.DoComplete = *doComplete
		req.DoCompleteSet = true
	}
	return req, nil
}

// optionSpecs expands the request into one OptionSpec per mentioned
// option, or the positional argument spec when none was given.
func (req *BuiltinRequest) optionSpecs() []OptionSpec {
	var specs []OptionSpec
	for _, s := range req.Shorts {
		specs = append(specs, OptionSpec{Short: s})
	}
	for _, l := range req.Longs {
		specs = append(specs, OptionSpec{Long: l})
	}
	for _, o := range req.Olds {
		specs = append(specs, OptionSpec{Long: o, OldStyle: true})
	}
	if len(specs) == 0 {
		specs = append(specs, OptionSpec{})
	}
	return specs
}

type target struct {
	cmd    string
	isPath bool
}

func (req *BuiltinRequest) targets() []target {
	var out []target
	for _, cmd := range req.Commands {
		out = append(out, target{cmd: cmd})
	}
	for _, p := range req.Paths {
		out = append(out, target{cmd: p, isPath: true})
	}
	return out
}

// ApplyBuiltin mutates the registry according to a parsed `complete`
// call. Calls carrying -C are completion queries, not edits, and must
// be dispatched by the caller instead.
func (eng *Engine) ApplyBuiltin(req *BuiltinRequest) error {
	if req.DoCompleteSet {
		return fmt.Errorf("do-complete requests are not registry edits")
	}
	targets := req.targets()
	if len(targets) == 0 {
		return rerrors.NewOptionError("complete", "no command or path given")
	}

	for _, t := range targets {
		if req.Authoritative != nil {
			eng.reg.SetAuthoritative(t.cmd, t.isPath, *req.Authoritative)
		}
		if req.Erase {
			if len(req.Shorts) == 0 && len(req.Longs) == 0 && len(req.Olds) == 0 {
				eng.reg.RemoveAll(t.cmd, t.isPath)
				continue
			}
			for _, spec := range req.optionSpecs() {
				eng.reg.Remove(t.cmd, t.isPath, spec)
			}
			continue
		}
		if req.Authoritative != nil && req.onlyAuthoritative() {
			continue
		}
		for _, spec := range req.optionSpecs() {
			eng.reg.Add(t.cmd, t.isPath, Rule{
				Option:      spec,
				Mode:        req.Mode,
				Condition:   req.Condition,
				Args:        req.Args,
				Description: req.Description,
				Flags: Flags{
					DontSort: req.KeepOrder,
					NoSpace:  req.NoSpace,
				},
			})
		}
	}
	return nil
}

// onlyAuthoritative reports whether the call changes the
// authoritative flag without defining a rule.
func (req *BuiltinRequest) onlyAuthoritative() bool {
	return len(req.Shorts) == 0 && len(req.Longs) == 0 && len(req.Olds) == 0 &&
		req.Condition == "" && req.Args == "" && req.Description == "" &&
		req.Mode == ModeShared
}
