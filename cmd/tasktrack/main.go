package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/tasktrack/internal/config"
	"github.com/tgienger/tasktrack/internal/db"
	"github.com/tgienger/tasktrack/internal/logic"
	"github.com/tgienger/tasktrack/internal/snapshot"
	"github.com/tgienger/tasktrack/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `usage:
  tasktrack                  start the task tracker
  tasktrack export <file.db> copy users, tasks and logs into a new SQLite database
  tasktrack --version        print version information`

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main without os.Exit, so deferred cleanup runs before the process ends.
func run(args []string) int {
	// Handle version flag
	if len(args) > 0 && (args[0] == "--version" || args[0] == "-v") {
		fmt.Printf("tasktrack %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}
	if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
		fmt.Println(usage)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	logFile, err := os.OpenFile(cfg.Path(config.LogFile), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		return 1
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// Open record files
	database, err := db.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing data files: %v\n", err)
		return 1
	}

	if len(args) > 0 {
		return runCommand(args, database)
	}

	taskLogic := logic.New(database.Users, database.Tasks, database.Logs, logger.With("component", "logic"))

	// Create and run the application
	app := ui.NewApp(taskLogic)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		return 1
	}
	return 0
}

func runCommand(args []string, database *db.DB) int {
	switch args[0] {
	case "export":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, usage)
			return 2
		}
		counts, err := snapshot.Export(snapshot.FromDB(database), args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			return 1
		}
		fmt.Printf("exported %d users, %d tasks, %d logs to %s\n", counts.Users, counts.Tasks, counts.Logs, args[1])
		return 0
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n%s\n", args[0], usage)
	return 2
}
