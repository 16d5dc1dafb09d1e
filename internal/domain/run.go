package domain

import "time"

// Status is the outcome of a run, suite or test as reported by the runner
type Status string

const (
	StatusPassed     Status = "passed"
	StatusFailed     Status = "failed"
	StatusPending    Status = "pending"
	StatusIncomplete Status = "incomplete"
	// StatusUnknown is the status of a suite that has started but not finished
	StatusUnknown Status = "Unknown"
)

// Run is one finished test-execution session
type Run struct {
	ID                  string        `json:"id"`
	TotalPlanned        int           `json:"total_planned"`
	Seed                string        `json:"seed,omitempty"`
	Random              bool          `json:"random,omitempty"`
	TotalTime           time.Duration `json:"total_time"`
	Status              Status        `json:"status"`
	IncompleteReason    string        `json:"incomplete_reason,omitempty"`
	Failures            []Failure     `json:"failures,omitempty"`
	DeprecationWarnings []Failure     `json:"deprecation_warnings,omitempty"`
	Suites              []Suite       `json:"suites"`
}

// Suite is a named group of tests
type Suite struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Duration    time.Duration `json:"duration"`
	Status      Status        `json:"status"`
	Failures    []Failure     `json:"failures,omitempty"`
	Tests       []Test        `json:"tests"`
}

// Test is one executed test case. Suite holds the owning suite's description
// captured when the test was recorded.
type Test struct {
	ID                 string         `json:"id"`
	Description        string         `json:"description"`
	Suite              string         `json:"suite"`
	Duration           time.Duration  `json:"duration"`
	Status             Status         `json:"status"`
	PendingReason      string         `json:"pending_reason,omitempty"`
	Failures           []Failure      `json:"failures,omitempty"`
	PassedExpectations []string       `json:"passed_expectations,omitempty"`
	Properties         map[string]any `json:"properties,omitempty"`
}

// Failure is one failed expectation
type Failure struct {
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// Failed reports whether the test has at least one failure record
func (t Test) Failed() bool {
	return len(t.Failures) > 0
}

// Passed reports whether the test passed
func (t Test) Passed() bool {
	return t.Status == StatusPassed
}

// FailedTests returns every test across all suites that carries a failure record,
// in suite order then test order. Suite status is not consulted.
func (r Run) FailedTests() []Test {
	var failed []Test
	for _, suite := range r.Suites {
		for _, test := range suite.Tests {
			if test.Failed() {
				failed = append(failed, test)
			}
		}
	}
	return failed
}

// TestCount returns the number of tests actually recorded
func (r Run) TestCount() int {
	var count int
	for _, suite := range r.Suites {
		count += len(suite.Tests)
	}
	return count
}
