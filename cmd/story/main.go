package main

import (
	"fmt"
	"os"

	"story/internal/cli"
	"story/internal/cli/commands"
	"story/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "story",
		Short:   "Readable test reports from go test -json",
		Long:    `Turns go test -json output into a Markdown or HTML test story, keeps a snapshot of the last run and optionally exports metrics and run history.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Populated by command flags
	var flags cli.Flags

	cmds := commands.NewCommands(cfg, os.Stdout)
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
