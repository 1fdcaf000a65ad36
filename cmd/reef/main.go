// Package main is the entry point for the Reef completion engine CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	reefcli "github.com/reef-shell/reef/internal/cli"
	"github.com/reef-shell/reef/internal/trace"
	"github.com/reef-shell/reef/pkg/version"
)

func main() {
	stopTrace := trace.Init()
	defer stopTrace()

	app := &cli.Command{
		Name:    "reef",
		Usage:   "Completion engine for the Reef shell",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("REEF_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "complete",
				Usage: "Print completions for a command line",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "line",
						Aliases:  []string{"l"},
						Usage:    "Command line to complete",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "cursor",
						Aliases: []string{"C"},
						Value:   -1,
						Usage:   "Cursor position as a byte offset (default: end of line)",
					},
					&cli.BoolFlag{
						Name:  "fuzzy",
						Usage: "Enable fuzzy matching",
					},
					&cli.BoolFlag{
						Name:  "descriptions",
						Usage: "Look up command descriptions",
					},
					&cli.BoolFlag{
						Name:  "autosuggest",
						Usage: "Background request: never run user code",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return reefcli.Complete(ctx, reefcli.CompleteParams{
						Line:         cmd.String("line"),
						Cursor:       int(cmd.Int("cursor")),
						Fuzzy:        cmd.Bool("fuzzy"),
						Descriptions: cmd.Bool("descriptions"),
						Autosuggest:  cmd.Bool("autosuggest"),
						LogLevel:     cmd.String("log-level"),
					})
				},
			},
			{
				Name:      "lint",
				Usage:     "Validate completion definition files",
				ArgsUsage: "[file ...]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return reefcli.Lint(cmd.Args().Slice(), cmd.String("log-level"))
				},
			},
			{
				Name:      "check",
				Usage:     "Validate option tokens against a command's completion rules",
				ArgsUsage: "command option ...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					args := cmd.Args().Slice()
					if len(args) == 0 {
						return fmt.Errorf("no command given")
					}
					return reefcli.Check(ctx, args[0], args[1:], cmd.String("log-level"))
				},
			},
			{
				Name:  "dump",
				Usage: "Print every loaded completion rule as complete commands",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return reefcli.Dump(cmd.String("log-level"))
				},
			},
			{
				Name:      "load",
				Usage:     "Evaluate complete scripts and print the normalized rules",
				ArgsUsage: "file ...",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return reefcli.Load(cmd.Args().Slice(), cmd.String("log-level"))
				},
			},
			{
				Name:      "schema",
				Usage:     "Print the JSON Schema for config or definition files",
				ArgsUsage: "[config|definition]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return reefcli.Schema(cmd.Args().First())
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
