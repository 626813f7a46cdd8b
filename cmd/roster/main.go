// cmd/roster/main.go
//
// This is the entry point for the employee roster.
// When you run `roster` from any directory, this is what executes.
//
// Flow:
// 1. Make sure .roster/ exists in the current directory
// 2. Load the config and open the session log
// 3. Run the TUI until the user quits; records are discarded on exit

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/employee-roster/internal/config"
	"github.com/kingrea/employee-roster/internal/tui"
)

func main() {
	// Get the current working directory - this is the "project" we're working in
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitRosterDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .roster directory: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading roster: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)

	// Run blocks until the user quits
	_, runErr := p.Run()
	if err := app.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing session log: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", runErr)
		os.Exit(1)
	}
}
