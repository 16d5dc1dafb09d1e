package commands

import (
	"io"

	"story/internal/cli"
	"story/internal/config"
	"story/internal/parser"
	"story/internal/storage"
	"story/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Report *ReportCommand
	List   *ListCommand
	View   *ViewCommand
}

// NewCommands creates all commands with dependencies. Console output goes to out.
func NewCommands(cfg *config.Config, out io.Writer) *Commands {
	goTestParser := parser.NewGoTestParser()
	jsonStorage := storage.NewJSONStorage(cfg)
	fileWriter := storage.NewFileWriter()
	formatter := ui.NewFormatter(out)
	errorViewer := ui.NewErrorViewer(formatter)

	return &Commands{
		Report: NewReportCommand(cfg, goTestParser, jsonStorage, fileWriter, formatter),
		List:   NewListCommand(cfg, jsonStorage, formatter),
		View:   NewViewCommand(jsonStorage, errorViewer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	resolve := func(cmd *cobra.Command, args []string) error {
		// Update config with flags after parsing
		return cfg.Resolve(flags.ToConfigFlags())
	}

	rootCmd.PersistentFlags().StringVar(&flags.Snapshot, "snapshot", "", "Path of the last-run snapshot (default .story/last-run.json)")

	// Report command
	reportCmd := &cobra.Command{
		Use:     "report [file|-]",
		Short:   "Render a test story from go test -json output",
		Long:    "Read go test -json events from a file or stdin, write a Markdown or HTML report and record the run",
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.Report.Execute,
		PreRunE: resolve,
	}
	reportCmd.Flags().StringVarP(&flags.Destination, "destination", "o", "", "Report file to write (default story.md)")
	reportCmd.Flags().StringVar(&flags.Title, "title", "", "Report title")
	reportCmd.Flags().StringVar(&flags.Mode, "mode", "", "Report dialect: markdown or html")
	reportCmd.Flags().StringVar(&flags.Literals, "literals", "", "YAML file overriding report labels")
	reportCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	reportCmd.Flags().StringVar(&flags.HistoryDSN, "history-dsn", "", "MySQL DSN for recording run history")
	reportCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Disable the progress spinner")
	reportCmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Do not print the console summary")
	rootCmd.AddCommand(reportCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List tests from the last run",
		Long:    "Print the suites and tests recorded in the last-run snapshot",
		Args:    cobra.NoArgs,
		RunE:    c.List.Execute,
		PreRunE: resolve,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'TestUser*' or '*Payment*')")
	listCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "List only tests that failed in the last run")
	rootCmd.AddCommand(listCmd)

	// View command
	viewCmd := &cobra.Command{
		Use:     "view",
		Short:   "View test failures interactively",
		Long:    "Display failed tests from the last run in an interactive viewer",
		Args:    cobra.NoArgs,
		RunE:    c.View.Execute,
		PreRunE: resolve,
	}
	rootCmd.AddCommand(viewCmd)
}
