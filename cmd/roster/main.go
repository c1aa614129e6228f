package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/roster/cmd/roster/commands"
	"github.com/five82/roster/internal/printer"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	commands.SetVersionInfo(version, commit, date)

	if err := commands.Execute(ctx); err != nil {
		// Errors from printer.Error are already on stderr.
		if !printer.Reported(err) {
			fmt.Fprintf(os.Stderr, "roster: %v\n", err)
		}
		return 1
	}
	return 0
}
