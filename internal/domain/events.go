package domain

import "time"

// RunStarted is fired once before any suite event
type RunStarted struct {
	TotalPlanned int
	Seed         string
	Random       bool
}

// SuiteStarted opens a suite
type SuiteStarted struct {
	ID          string
	Description string
}

// SuiteDone closes a suite
type SuiteDone struct {
	ID       string
	Duration time.Duration
	Status   Status
	Failures []Failure
}

// SpecDone carries a fully executed test
type SpecDone struct {
	ID                 string
	Description        string
	Duration           time.Duration
	Status             Status
	PendingReason      string
	Failures           []Failure
	PassedExpectations []string
	Properties         map[string]any
}

// RunDone is fired once when the runner has finished
type RunDone struct {
	TotalTime           time.Duration
	IncompleteReason    string
	Status              Status
	Failures            []Failure
	DeprecationWarnings []Failure
}

// Listener receives lifecycle events in the order
// RunStarted, (SuiteStarted, SpecDone*, SuiteDone)*, RunDone.
// Implementations are called from a single goroutine.
type Listener interface {
	RunStarted(e RunStarted)
	SuiteStarted(e SuiteStarted)
	SpecDone(e SpecDone)
	SuiteDone(e SuiteDone)
	RunDone(e RunDone)
}
