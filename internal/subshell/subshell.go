// Package subshell runs condition and argument scripts for the
// completion engine in a child shell process.
package subshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/reef-shell/reef/internal/logger"
)

// Runner executes shell fragments with a per-call timeout supplied by
// the caller's context.
type Runner struct {
	// Shell is the interpreter invoked with -c; $SHELL or /bin/sh
	// when empty.
	Shell string
	// Env is the child environment; the process environment when nil.
	Env []string
	log *logger.Logger
}

// New returns a runner that logs through log.
func New(shell string, log *logger.Logger) *Runner {
	return &Runner{Shell: shell, log: log}
}

func (r *Runner) shell() string {
	if r.Shell != "" {
		return r.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// Run executes script and returns its exit status together with the
// lines it printed. A non-zero exit is reported through the status,
// not the error. The error is non-nil only when the child could not
// run or the context expired.
func (r *Runner) Run(ctx context.Context, script string) (int, []string, error) {
	cmd := exec.CommandContext(ctx, r.shell(), "-c", script)
	if r.Env != nil {
		cmd.Env = r.Env
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	status := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			status = exitErr.ExitCode()
			err = nil
		} else {
			if r.log != nil {
				r.log.Debug().Str("script", script).Err(err).Msg("subshell failed")
			}
			return -1, nil, err
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, nil, ctxErr
	}

	out := stdout.String()
	if out == "" {
		return status, nil, nil
	}
	out = strings.TrimSuffix(out, "\n")
	return status, strings.Split(out, "\n"), nil
}
