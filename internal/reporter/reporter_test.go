package reporter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"story/internal/aggregator"
	"story/internal/domain"
	"story/internal/literals"
	"story/internal/render"
	"story/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	runs []domain.Run
	err  error
}

func (s *recordingSink) Complete(run domain.Run) error {
	s.runs = append(s.runs, run)
	return s.err
}

type panickingSink struct{}

func (panickingSink) Complete(domain.Run) error {
	panic("sink exploded")
}

func playMath(l domain.Listener) {
	l.RunStarted(domain.RunStarted{TotalPlanned: 2, Seed: "x"})
	l.SuiteStarted(domain.SuiteStarted{ID: "1", Description: "Math"})
	l.SpecDone(domain.SpecDone{ID: "1", Description: "adds", Duration: 5 * time.Millisecond, Status: domain.StatusPassed})
	l.SpecDone(domain.SpecDone{
		ID: "2", Description: "subtracts", Duration: 7 * time.Millisecond, Status: domain.StatusFailed,
		Failures: []domain.Failure{{Message: "expected 1 to be 2"}},
	})
	l.SuiteDone(domain.SuiteDone{ID: "1", Duration: 12 * time.Millisecond, Status: domain.StatusFailed})
	l.RunDone(domain.RunDone{TotalTime: 12 * time.Millisecond, Status: domain.StatusFailed})
}

func TestReporter_WritesReport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "story.md")
	sink := &recordingSink{}
	var diagnostics []error

	r := New(dest, render.New(render.Markdown, "", literals.Default()), storage.NewFileWriter(),
		WithSinks(sink),
		WithErrorHandler(func(err error) { diagnostics = append(diagnostics, err) }),
		WithAggregatorOptions(aggregator.WithRunID("fixed")),
	)
	var _ domain.Listener = r

	_, ok := r.Last()
	assert.False(t, ok)

	playMath(r)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "# Test Story\n"))
	assert.Contains(t, doc, "## Math (0.012s)")
	assert.Contains(t, doc, "### What Failed?")

	assert.Empty(t, diagnostics)
	require.Len(t, sink.runs, 1)
	assert.Equal(t, "fixed", sink.runs[0].ID)

	run, ok := r.Last()
	require.True(t, ok)
	assert.Len(t, run.FailedTests(), 1)
	assert.Equal(t, dest, r.Destination())
}

func TestReporter_WriteFailureIsSwallowed(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "story.md")
	sink := &recordingSink{}
	var diagnostics []error

	r := New(dest, render.New(render.HTML, "", nil), storage.NewFileWriter(),
		WithSinks(sink),
		WithErrorHandler(func(err error) { diagnostics = append(diagnostics, err) }),
	)

	assert.NotPanics(t, func() { playMath(r) })

	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0].Error(), "persist report")
	assert.Len(t, sink.runs, 1, "sinks still run after a write failure")
}

func TestReporter_SinkFailuresAreSwallowed(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "story.md")
	failing := &recordingSink{err: errors.New("disk full")}
	after := &recordingSink{}
	var diagnostics []error

	r := New(dest, render.New(render.Markdown, "", nil), storage.NewFileWriter(),
		WithSinks(failing, panickingSink{}, after),
		WithErrorHandler(func(err error) { diagnostics = append(diagnostics, err) }),
	)

	assert.NotPanics(t, func() { playMath(r) })
	require.Len(t, diagnostics, 2)
	assert.Contains(t, diagnostics[0].Error(), "disk full")
	assert.Contains(t, diagnostics[1].Error(), "sink exploded")
	assert.Len(t, after.runs, 1)
}

func TestReporter_ProtocolViolationsReachDiagnostics(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "story.md")
	var diagnostics []error

	r := New(dest, render.New(render.Markdown, "", nil), storage.NewFileWriter(),
		WithErrorHandler(func(err error) { diagnostics = append(diagnostics, err) }),
	)

	r.RunStarted(domain.RunStarted{TotalPlanned: 1})
	r.SpecDone(domain.SpecDone{Description: "lonely", Status: domain.StatusPassed})
	r.RunDone(domain.RunDone{Status: domain.StatusPassed})

	require.Len(t, diagnostics, 1)
	assert.True(t, errors.Is(diagnostics[0], aggregator.ErrNoOpenSuite))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1. lonely (0ms)")
}

func TestReporter_PanickingErrorHandler(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nope", "story.md")
	r := New(dest, render.New(render.Markdown, "", nil), storage.NewFileWriter(),
		WithErrorHandler(func(err error) { panic(err) }),
	)
	assert.NotPanics(t, func() { playMath(r) })
}
