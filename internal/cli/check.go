package cli

import (
	"context"
	"fmt"

	"github.com/reef-shell/reef/internal/completion"
)

// Check validates option tokens against the loaded rules for command.
func Check(ctx context.Context, command string, options []string, logLevel string) error {
	if len(options) == 0 {
		return fmt.Errorf("no options given")
	}
	comp, err := initializeComponents(logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = comp.engine.Autoloader().Close() }()

	comp.engine.Autoloader().LoadForCommand(ctx, command)
	entries := comp.engine.Registry().Snapshot(command, "")

	failures := 0
	for _, opt := range options {
		ok, err := completion.IsValidOption(entries, opt)
		if ok {
			fmt.Println(successStyle.Render("✓ ") + opt)
			continue
		}
		failures++
		fmt.Println(errorStyle.Render("✗ ") + opt)
		if err != nil {
			fmt.Println(subtleStyle.Render("  " + err.Error()))
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d option(s) rejected", failures, len(options))
	}
	return nil
}
