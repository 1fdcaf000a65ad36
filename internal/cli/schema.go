package cli

import (
	"fmt"

	"github.com/reef-shell/reef/internal/completion"
	"github.com/reef-shell/reef/internal/config"
)

// Schema prints the JSON Schema for config files or completion
// definitions.
func Schema(kind string) error {
	switch kind {
	case "", "config":
		fmt.Println(config.GetSchemaJSON())
	case "definition":
		fmt.Println(completion.DefinitionSchemaJSON())
	default:
		return fmt.Errorf("unknown schema %q (want config or definition)", kind)
	}
	return nil
}
