package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/winterarc/internal/config"
	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/ops"
	"github.com/hpungsan/winterarc/internal/tracker"
	"github.com/hpungsan/winterarc/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(tr *tracker.Tracker, cfg *config.Config, logger *slog.Logger) *cli.App {
	app := &cli.App{
		Name:    "winterarc",
		Usage:   "Daily food log and calorie tracker",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(tr),
			deleteCmd(tr),
			listCmd(tr),
			totalsCmd(tr),
			reportCmd(tr),
			exportCmd(tr, cfg),
			serveCmd(tr, cfg, logger),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(tr *tracker.Tracker) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Log a food entry",
		ArgsUsage: "<name> <calories>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("usage: winterarc add <name> <calories>"))
			}

			output, err := ops.Add(c.Context, tr, ops.AddInput{
				Name:     c.Args().Get(0),
				Calories: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(tr *tracker.Tracker) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Remove an entry by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("usage: winterarc delete <id>"))
			}

			output, err := ops.Delete(c.Context, tr, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(tr *tracker.Tracker) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List entries, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			return outputJSON(ops.List(tr, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			}))
		},
	}
}

// totalsCmd creates the totals command.
func totalsCmd(tr *tracker.Tracker) *cli.Command {
	return &cli.Command{
		Name:  "totals",
		Usage: "Show calories consumed against the daily goal",
		Action: func(_ *cli.Context) error {
			return outputJSON(ops.Summary(tr))
		},
	}
}

// reportCmd creates the report command.
func reportCmd(tr *tracker.Tracker) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print the food log as markdown",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the report wrapped in JSON"},
		},
		Action: func(c *cli.Context) error {
			output := ops.Report(tr, ops.ReportInput{})
			if c.Bool("json") {
				return outputJSON(output)
			}
			_, err := fmt.Fprint(os.Stdout, output.Markdown)
			return err
		},
	}
}

// exportCmd creates the export command.
func exportCmd(tr *tracker.Tracker, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the food log to JSONL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output file path (default: ~/.winterarc/exports/)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, tr, cfg, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(tr *tracker.Tracker, cfg *config.Config, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Address to bind (overrides config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			if logger == nil {
				logger = slog.Default()
			}
			serveCfg := *cfg
			if bind := c.String("bind"); bind != "" {
				serveCfg.WebBind = bind
			}
			if port := c.Int("port"); port != 0 {
				serveCfg.WebPort = port
			}
			if serveCfg.WebPort < 1 || serveCfg.WebPort > 65535 {
				return outputError(errors.NewInvalidField("port", "port must be between 1 and 65535"))
			}

			srv, err := web.NewServer(tr, &serveCfg, logger, Version)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv, logger); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// outputJSON prints JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var aErr *errors.ArcError
	if stderrors.As(err, &aErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", aErr.Code, aErr.Message), 1)
	}
	if stderrors.Is(err, context.Canceled) {
		return cli.Exit(fmt.Sprintf("[%s] %s", errors.ErrCancelled, "operation cancelled"), 1)
	}
	return cli.Exit(err.Error(), 1)
}
