// Package aggregator builds a run tree from an ordered stream of lifecycle events.
package aggregator

import (
	"errors"
	"fmt"

	"story/internal/domain"

	"github.com/google/uuid"
)

const (
	// UngroupedSuiteID is the id of the synthetic suite holding specs reported
	// while no suite was open
	UngroupedSuiteID = "ungrouped"
	// UngroupedSuiteDescription is the synthetic suite's display name
	UngroupedSuiteDescription = "(ungrouped)"
)

var (
	// ErrNoOpenSuite is reported when a spec finishes outside of any suite
	ErrNoOpenSuite = errors.New("spec done with no open suite")
	// ErrUnknownSuite is reported when a suite finishes that never started
	ErrUnknownSuite = errors.New("suite done for unknown suite")
	// ErrFinished is reported for events arriving after the run was finished
	ErrFinished = errors.New("event after run done")
)

// Option configures an Aggregator
type Option func(*Aggregator)

// WithViolationHandler sets the function called for out-of-order events
func WithViolationHandler(fn func(error)) Option {
	return func(a *Aggregator) {
		a.onViolation = fn
	}
}

// WithRunID fixes the id given to the finished run instead of a random uuid
func WithRunID(id string) Option {
	return func(a *Aggregator) {
		a.runID = id
	}
}

// Aggregator accumulates lifecycle events into suites and tests.
// It is not safe for concurrent use; events are expected from one goroutine.
type Aggregator struct {
	runID        string
	totalPlanned int
	seed         string
	random       bool

	suites []*domain.Suite
	byID   map[string]*domain.Suite
	// open holds the ids of started, not yet done suites; the last is innermost
	open []string

	finished    bool
	onViolation func(error)
}

// New creates an empty Aggregator
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		byID: make(map[string]*domain.Suite),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunStarted records the planned test count and ordering seed
func (a *Aggregator) RunStarted(e domain.RunStarted) {
	if a.finished {
		a.violation(ErrFinished)
		return
	}
	a.totalPlanned = e.TotalPlanned
	a.seed = e.Seed
	a.random = e.Random
}

// SuiteStarted appends a new suite and makes it the innermost open suite
func (a *Aggregator) SuiteStarted(e domain.SuiteStarted) {
	if a.finished {
		a.violation(ErrFinished)
		return
	}
	suite := a.addSuite(e.ID, e.Description)
	a.open = append(a.open, suite.ID)
}

// SuiteDone fills in the result of a previously started suite
func (a *Aggregator) SuiteDone(e domain.SuiteDone) {
	if a.finished {
		a.violation(ErrFinished)
		return
	}
	suite, ok := a.byID[e.ID]
	if !ok {
		a.violation(fmt.Errorf("%w: %q", ErrUnknownSuite, e.ID))
		return
	}
	suite.Duration = e.Duration
	suite.Status = e.Status
	suite.Failures = copyFailures(e.Failures)

	for i := len(a.open) - 1; i >= 0; i-- {
		if a.open[i] == e.ID {
			a.open = append(a.open[:i], a.open[i+1:]...)
			break
		}
	}
}

// SpecDone appends a test to the innermost open suite
func (a *Aggregator) SpecDone(e domain.SpecDone) {
	if a.finished {
		a.violation(ErrFinished)
		return
	}

	var suite *domain.Suite
	if len(a.open) > 0 {
		suite = a.byID[a.open[len(a.open)-1]]
	} else {
		a.violation(fmt.Errorf("%w: %q", ErrNoOpenSuite, e.Description))
		suite = a.byID[UngroupedSuiteID]
		if suite == nil {
			suite = a.addSuite(UngroupedSuiteID, UngroupedSuiteDescription)
		}
	}

	suite.Tests = append(suite.Tests, domain.Test{
		ID:                 e.ID,
		Description:        e.Description,
		Suite:              suite.Description,
		Duration:           e.Duration,
		Status:             e.Status,
		PendingReason:      e.PendingReason,
		Failures:           copyFailures(e.Failures),
		PassedExpectations: append([]string(nil), e.PassedExpectations...),
		Properties:         copyProperties(e.Properties),
	})
}

// Finish freezes the collected suites together with the run totals. The returned
// Run shares no memory with the Aggregator.
func (a *Aggregator) Finish(e domain.RunDone) domain.Run {
	if a.finished {
		a.violation(ErrFinished)
	}
	a.finished = true

	id := a.runID
	if id == "" {
		id = uuid.NewString()
	}

	run := domain.Run{
		ID:                  id,
		TotalPlanned:        a.totalPlanned,
		Seed:                a.seed,
		Random:              a.random,
		TotalTime:           e.TotalTime,
		Status:              e.Status,
		IncompleteReason:    e.IncompleteReason,
		Failures:            copyFailures(e.Failures),
		DeprecationWarnings: copyFailures(e.DeprecationWarnings),
		Suites:              make([]domain.Suite, 0, len(a.suites)),
	}

	for _, s := range a.suites {
		suite := *s
		suite.Failures = copyFailures(s.Failures)
		suite.Tests = make([]domain.Test, len(s.Tests))
		copy(suite.Tests, s.Tests)
		run.Suites = append(run.Suites, suite)
	}

	return run
}

func (a *Aggregator) addSuite(id, description string) *domain.Suite {
	suite := &domain.Suite{
		ID:          id,
		Description: description,
		Status:      domain.StatusUnknown,
		Tests:       []domain.Test{},
	}
	a.suites = append(a.suites, suite)
	a.byID[id] = suite
	return suite
}

func (a *Aggregator) violation(err error) {
	if a.onViolation != nil {
		a.onViolation(err)
	}
}

func copyFailures(in []domain.Failure) []domain.Failure {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Failure, len(in))
	copy(out, in)
	return out
}

func copyProperties(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
