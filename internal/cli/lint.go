package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reef-shell/reef/internal/completion"
)

// Lint validates completion definition files. With no paths it checks
// every definition in the configured completion directories.
func Lint(paths []string, logLevel string) error {
	comp, err := initializeComponents(logLevel)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		for _, dir := range comp.cfg.CompletionPath {
			files, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, f := range files {
				if f.IsDir() {
					continue
				}
				paths = append(paths, filepath.Join(dir, f.Name()))
			}
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no definition files found")
	}

	failures := 0
	for _, path := range paths {
		if err := lintFile(comp, path); err != nil {
			failures++
			fmt.Println(errorStyle.Render("✗ ") + path)
			fmt.Println(subtleStyle.Render("  " + err.Error()))
		} else {
			fmt.Println(successStyle.Render("✓ ") + path)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d definition file(s) failed validation", failures, len(paths))
	}
	return nil
}

func lintFile(comp *components, path string) error {
	if strings.HasSuffix(path, ".reef") {
		return comp.engine.Autoloader().LoadScriptFile(path)
	}
	_, err := completion.LoadDefinition(path)
	return err
}
