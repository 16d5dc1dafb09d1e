package commands

import (
	"fmt"
	"os"

	"story/internal/config"
	"story/internal/history"
	"story/internal/literals"
	"story/internal/metrics"
	"story/internal/parser"
	"story/internal/render"
	"story/internal/reporter"
	"story/internal/storage"
	"story/internal/ui"

	"github.com/spf13/cobra"
)

// ReportCommand handles the report command
type ReportCommand struct {
	config    *config.Config
	parser    *parser.GoTestParser
	storage   *storage.JSONStorage
	writer    storage.DocumentWriter
	formatter *ui.Formatter
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(
	cfg *config.Config,
	p *parser.GoTestParser,
	st *storage.JSONStorage,
	writer storage.DocumentWriter,
	formatter *ui.Formatter,
) *ReportCommand {
	return &ReportCommand{
		config:    cfg,
		parser:    p,
		storage:   st,
		writer:    writer,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	input := cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open test output: %w", err)
		}
		defer file.Close()
		input = file
	}

	renderer, err := rc.renderer()
	if err != nil {
		return err
	}

	sinks, err := rc.sinks()
	if err != nil {
		return err
	}

	if rc.config.Flags.NoProgress || rc.config.Flags.Quiet {
		rc.parser.SetProgress(nil)
	} else {
		rc.parser.SetProgress(ui.NewProgressBar())
	}

	stream, err := rc.parser.Parse(input)
	if err != nil {
		return err
	}

	rep := reporter.New(rc.config.GetDestination(), renderer, rc.writer, reporter.WithSinks(sinks...))
	stream.Replay(rep)

	run, ok := rep.Last()
	if !ok || rc.config.Flags.Quiet {
		return nil
	}
	rc.formatter.PrintSummary(run, rep.Destination())
	return nil
}

func (rc *ReportCommand) renderer() (*render.Renderer, error) {
	table := literals.Default()
	if path := rc.config.GetLiteralsPath(); path != "" {
		loaded, err := literals.Load(path)
		if err != nil {
			return nil, err
		}
		table = loaded
	}
	return render.New(render.DialectFor(rc.config.Mode), rc.config.Title, table), nil
}

// sinks returns the post-render steps enabled by the config. The snapshot is
// always written so list and view can read it.
func (rc *ReportCommand) sinks() ([]reporter.Sink, error) {
	sinks := []reporter.Sink{rc.storage}

	if path := rc.config.GetMetricsFile(); path != "" {
		sinks = append(sinks, metrics.NewTextfileSink(path))
	}

	if rc.config.HistoryDSN != "" {
		sink, err := history.New(rc.config.HistoryDSN)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

