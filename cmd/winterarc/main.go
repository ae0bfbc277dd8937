package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/winterarc/internal/config"
	"github.com/hpungsan/winterarc/internal/mcp"
	"github.com/hpungsan/winterarc/internal/store"
	"github.com/hpungsan/winterarc/internal/tracker"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "delete": true, "list": true,
	"totals": true, "report": true, "export": true,
	"serve": true, "help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	return isHelpOrVersionFlag(arg)
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	return isHelpOrVersionFlag(args[1]) || args[1] == "help"
}

func isHelpOrVersionFlag(arg string) bool {
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  __      __ _        _               _
  \ \    / /(_) _ _  | |_  ___  _ _  /_\   _ _  __
   \ \/\/ / | || ' \ |  _|/ -_)| '_|/ _ \ | '_|/ _|
    \_/\_/  |_||_||_| \__|\___||_| /_/ \_\|_|  \__|

  Daily food log and calorie tracker

  Usage: winterarc <command> [options]
         winterarc --help

  MCP server mode requires piped input.`)
}

// parseLogLevel maps a config log level to slog. Unknown values are info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger logs to stderr so stdout stays clean for JSON and MCP.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

// openTracker opens the configured backend and rehydrates the food log.
// The returned close func releases the backend.
func openTracker(ctx context.Context, cfg *config.Config, baseDir string, logger *slog.Logger) (*tracker.Tracker, func(), error) {
	backend, err := store.Open(ctx, cfg, baseDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("store opened", "backend", backend.Name(), "key", cfg.StoreKey)

	tr, err := tracker.Open(ctx, tracker.Options{
		Persister: store.NewLogStore(backend, cfg.StoreKey),
		Goal:      cfg.DailyGoal,
		Logger:    logger,
	})
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}

	return tr, func() {
		if err := backend.Close(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}, nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before opening the store
	if isHelpOrVersion(os.Args) {
		app := newCLIApp(nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cliMode := isCLIMode(os.Args)

	// Unknown argument + terminal → show error (don't start MCP server)
	if !cliMode && len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'winterarc --help' for usage.\n")
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	baseDir := filepath.Join(homeDir, ".winterarc")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logger.Warn("ignoring unknown disabled tools", "tools", unknown, "valid", mcp.AllToolNames())
	}

	tr, closeStore, err := openTracker(context.Background(), cfg, baseDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open store: %v\n", err)
		os.Exit(1)
	}

	if cliMode {
		app := newCLIApp(tr, cfg, logger)
		err = app.Run(os.Args)
	} else {
		// MCP server mode (default)
		err = mcp.Run(tr, cfg, Version)
	}
	closeStore()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
