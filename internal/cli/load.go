package cli

import (
	"fmt"

	"github.com/reef-shell/reef/internal/completion"
)

// Load evaluates script files of `complete` lines against a fresh
// registry and prints the resulting rules back out, so a definition
// script can be checked for drift against its normalized form.
func Load(paths []string, logLevel string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no script files given")
	}
	comp, err := initializeComponents(logLevel)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := comp.engine.Autoloader().LoadScriptFile(path); err != nil {
			return err
		}
	}

	for _, line := range completion.FormatEntries(comp.engine.Registry().All()) {
		fmt.Println(line)
	}
	return nil
}
