// Package reporter listens to a test run and writes the rendered report when it
// finishes. Nothing in here can fail the run being reported on.
package reporter

import (
	"fmt"
	"os"

	"story/internal/aggregator"
	"story/internal/domain"
	"story/internal/render"
	"story/internal/storage"

	"github.com/fatih/color"
)

// Sink consumes the finished run after the report has been written
type Sink interface {
	Complete(run domain.Run) error
}

// Reporter implements domain.Listener
type Reporter struct {
	destination string
	aggregator  *aggregator.Aggregator
	renderer    *render.Renderer
	writer      storage.DocumentWriter
	sinks       []Sink
	onError     func(error)

	last *domain.Run
}

// Option configures a Reporter
type Option func(*Reporter)

// WithSinks adds post-run sinks, called in order
func WithSinks(sinks ...Sink) Option {
	return func(r *Reporter) {
		r.sinks = append(r.sinks, sinks...)
	}
}

// WithErrorHandler replaces the diagnostic channel
func WithErrorHandler(fn func(error)) Option {
	return func(r *Reporter) {
		r.onError = fn
	}
}

// WithAggregatorOptions passes options through to the underlying aggregator
func WithAggregatorOptions(opts ...aggregator.Option) Option {
	return func(r *Reporter) {
		r.aggregator = aggregator.New(append(opts, aggregator.WithViolationHandler(r.diagnose))...)
	}
}

// New creates a Reporter writing the document rendered by renderer to destination
func New(destination string, renderer *render.Renderer, writer storage.DocumentWriter, opts ...Option) *Reporter {
	r := &Reporter{
		destination: destination,
		renderer:    renderer,
		writer:      writer,
		onError:     PrintError,
	}
	r.aggregator = aggregator.New(aggregator.WithViolationHandler(r.diagnose))
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunStarted implements domain.Listener
func (r *Reporter) RunStarted(e domain.RunStarted) {
	r.aggregator.RunStarted(e)
}

// SuiteStarted implements domain.Listener
func (r *Reporter) SuiteStarted(e domain.SuiteStarted) {
	r.aggregator.SuiteStarted(e)
}

// SpecDone implements domain.Listener
func (r *Reporter) SpecDone(e domain.SpecDone) {
	r.aggregator.SpecDone(e)
}

// SuiteDone implements domain.Listener
func (r *Reporter) SuiteDone(e domain.SuiteDone) {
	r.aggregator.SuiteDone(e)
}

// RunDone finalizes the run, renders it and blocks until the document is written
// and every sink has completed. Failures are reported and swallowed.
func (r *Reporter) RunDone(e domain.RunDone) {
	run := r.aggregator.Finish(e)
	r.last = &run

	document := r.renderer.Document(run)
	if err := r.writer.WriteDocument(r.destination, document); err != nil {
		r.diagnose(fmt.Errorf("persist report to %s: %w", r.destination, err))
	}

	for _, sink := range r.sinks {
		if err := complete(sink, run); err != nil {
			r.diagnose(fmt.Errorf("complete %T: %w", sink, err))
		}
	}
}

// Last returns the finished run, or false before RunDone
func (r *Reporter) Last() (domain.Run, bool) {
	if r.last == nil {
		return domain.Run{}, false
	}
	return *r.last, true
}

// Destination returns the report path
func (r *Reporter) Destination() string {
	return r.destination
}

func (r *Reporter) diagnose(err error) {
	if r.onError == nil {
		return
	}
	// Diagnostics never propagate to the runner
	defer func() { _ = recover() }()
	r.onError(err)
}

func complete(sink Sink, run domain.Run) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return sink.Complete(run)
}

// PrintError is the default diagnostic channel: red text on stderr
func PrintError(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "story: %v\n", err)
}
