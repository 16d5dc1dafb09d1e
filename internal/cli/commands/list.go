package commands

import (
	"story/internal/config"
	"story/internal/filter"
	"story/internal/storage"
	"story/internal/ui"

	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, st storage.Storage, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{
		config:    cfg,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	run, err := lc.storage.Load()
	if err != nil {
		return err
	}

	suites := filter.New(lc.config.Flags.NameFilter, lc.config.Flags.OnlyFailed).Apply(*run)
	if len(suites) == 0 {
		lc.formatter.Warn("No tests found")
		return nil
	}

	lc.formatter.PrintTestList(suites)
	return nil
}
