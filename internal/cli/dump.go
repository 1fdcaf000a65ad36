package cli

import (
	"fmt"

	"github.com/reef-shell/reef/internal/completion"
)

// Dump loads every definition from the completion directories and
// prints the resulting rules as `complete` command lines.
func Dump(logLevel string) error {
	comp, err := initializeComponents(logLevel)
	if err != nil {
		return err
	}

	if err := comp.engine.Autoloader().LoadAll(); err != nil {
		comp.log.Warn().Err(err).Msg("some definitions failed to load")
	}

	for _, line := range completion.FormatEntries(comp.engine.Registry().All()) {
		fmt.Println(line)
	}
	return nil
}
