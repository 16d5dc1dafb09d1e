package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"time"

	"story/internal/domain"

	"github.com/acarl005/stripansi"
)

const maxLineSize = 16 * 1024 * 1024

var (
	// Lines go test prints around results; they carry no failure detail
	framingLine = regexp.MustCompile(`^\s*(=== (RUN|PAUSE|CONT|NAME)\s|--- (PASS|FAIL|SKIP): )|^(PASS|FAIL)$|^(ok|FAIL|\?)\s+\S+\s|^exit status \d+$|^-test\.shuffle \d+$`)
	shuffleSeed = regexp.MustCompile(`-test\.shuffle (\d+)`)
)

// TestEvent is one line of `go test -json` output
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Output  string    `json:"Output"`
	Elapsed float64   `json:"Elapsed"`
}

// GoTestParser parses `go test -json` output
type GoTestParser struct {
	progress Progress
}

var _ Parser = (*GoTestParser)(nil)

// NewGoTestParser creates a new GoTestParser
func NewGoTestParser() *GoTestParser {
	return &GoTestParser{}
}

// SetProgress sets the progress reporter notified while decoding
func (p *GoTestParser) SetProgress(progress Progress) {
	p.progress = progress
}

// Parse reads events until EOF. Lines that are not JSON events are kept as
// run-level output.
func (p *GoTestParser) Parse(r io.Reader) (*Stream, error) {
	stream := newStream()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var passed, failed int
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var event TestEvent
		if line[0] != '{' || json.Unmarshal(line, &event) != nil {
			stream.stray = append(stream.stray, stripansi.Strip(string(line)))
			continue
		}

		test := stream.apply(event)
		if test == nil || p.progress == nil {
			continue
		}
		if test.action == "fail" {
			failed++
		} else {
			passed++
		}
		p.progress.Update(passed, failed)
	}

	if p.progress != nil {
		p.progress.Finish()
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read test events: %w", err)
	}
	return stream, nil
}

// Stream is a decoded go test run. Packages become suites and tests become specs.
type Stream struct {
	packages []*packageRun
	byName   map[string]*packageRun
	done     []*packageRun

	first, last time.Time
	seed        string
	stray       []string
}

type packageRun struct {
	name      string
	tests     map[string]*testRun
	completed []*testRun
	output    []string
	action    string
	elapsed   float64
}

type testRun struct {
	name    string
	output  []string
	action  string
	elapsed float64
}

func newStream() *Stream {
	return &Stream{byName: make(map[string]*packageRun)}
}

// apply records one event and returns the test it finished, if any
func (s *Stream) apply(e TestEvent) *testRun {
	if !e.Time.IsZero() {
		if s.first.IsZero() {
			s.first = e.Time
		}
		s.last = e.Time
	}

	if e.Package == "" {
		if out := strings.TrimSpace(e.Output); out != "" {
			s.stray = append(s.stray, stripansi.Strip(out))
		}
		return nil
	}

	pkg := s.pkg(e.Package)
	if e.Action == "output" {
		if m := shuffleSeed.FindStringSubmatch(e.Output); len(m) == 2 {
			s.seed = m[1]
		}
	}

	if e.Test == "" {
		switch e.Action {
		case "output":
			pkg.output = append(pkg.output, e.Output)
		case "pass", "fail", "skip":
			if pkg.action == "" {
				pkg.action, pkg.elapsed = e.Action, e.Elapsed
				s.done = append(s.done, pkg)
			}
		}
		return nil
	}

	test, ok := pkg.tests[e.Test]
	if !ok {
		test = &testRun{name: e.Test}
		pkg.tests[e.Test] = test
	}

	switch e.Action {
	case "output":
		test.output = append(test.output, e.Output)
	case "pass", "fail", "skip":
		if test.action != "" {
			return nil
		}
		test.action, test.elapsed = e.Action, e.Elapsed
		pkg.completed = append(pkg.completed, test)
		return test
	}
	return nil
}

func (s *Stream) pkg(name string) *packageRun {
	pkg, ok := s.byName[name]
	if !ok {
		pkg = &packageRun{name: name, tests: make(map[string]*testRun)}
		s.byName[name] = pkg
		s.packages = append(s.packages, pkg)
	}
	return pkg
}

// suites returns the packages to report: finished ones in completion order, then
// unfinished ones in first-seen order. Packages that finished without tests and
// without failing are left out.
func (s *Stream) suites() []*packageRun {
	var out []*packageRun
	for _, pkg := range s.done {
		if len(pkg.completed) == 0 && pkg.action != "fail" {
			continue
		}
		out = append(out, pkg)
	}
	for _, pkg := range s.packages {
		if pkg.action == "" {
			out = append(out, pkg)
		}
	}
	return out
}

// Planned returns the number of tests that reached a result
func (s *Stream) Planned() int {
	var n int
	for _, pkg := range s.suites() {
		n += len(pkg.completed)
	}
	return n
}

// Replay feeds the stream to l as a well-formed event sequence
func (s *Stream) Replay(l domain.Listener) {
	suites := s.suites()

	l.RunStarted(domain.RunStarted{
		TotalPlanned: s.Planned(),
		Seed:         s.seed,
		Random:       s.seed != "",
	})

	for _, pkg := range suites {
		l.SuiteStarted(domain.SuiteStarted{ID: pkg.name, Description: pkg.name})
		for _, test := range pkg.completed {
			l.SpecDone(test.spec(pkg.name))
		}
		l.SuiteDone(pkg.suiteDone())
	}

	l.RunDone(s.runDone(suites))
}

func (s *Stream) runDone(suites []*packageRun) domain.RunDone {
	done := domain.RunDone{Status: domain.StatusPassed}

	if !s.first.IsZero() {
		done.TotalTime = s.last.Sub(s.first)
	} else {
		for _, pkg := range suites {
			done.TotalTime += seconds(pkg.elapsed)
		}
	}

	if len(s.stray) > 0 {
		done.Failures = []domain.Failure{{Message: strings.Join(s.stray, "\n")}}
	}

	var unfinished []string
	failed := false
	for _, pkg := range suites {
		switch pkg.action {
		case "":
			unfinished = append(unfinished, pkg.name)
		case "fail":
			failed = true
		}
		for _, test := range pkg.completed {
			if test.action == "fail" {
				failed = true
			}
		}
	}

	switch {
	case len(suites) == 0:
		done.Status = domain.StatusIncomplete
		done.IncompleteReason = "no test results found"
	case len(unfinished) > 0:
		done.IncompleteReason = "packages did not finish: " + strings.Join(unfinished, ", ")
		done.Status = domain.StatusIncomplete
	}
	if failed {
		done.Status = domain.StatusFailed
	}
	return done
}

func (p *packageRun) suiteDone() domain.SuiteDone {
	done := domain.SuiteDone{
		ID:       p.name,
		Duration: seconds(p.elapsed),
		Status:   status(p.action),
	}

	if p.action == "fail" {
		hasFailedTest := false
		for _, test := range p.completed {
			if test.action == "fail" {
				hasFailedTest = true
				break
			}
		}
		if out := cleanOutput(p.output); !hasFailedTest && out != "" {
			done.Failures = []domain.Failure{{Message: out}}
		}
	}
	return done
}

func (t *testRun) spec(pkg string) domain.SpecDone {
	spec := domain.SpecDone{
		ID:          t.name,
		Description: t.name,
		Duration:    seconds(t.elapsed),
		Status:      status(t.action),
		Properties:  map[string]any{"package": pkg},
	}

	out := cleanOutput(t.output)
	switch t.action {
	case "fail":
		if out == "" {
			out = "FAIL: " + t.name
		}
		spec.Failures = []domain.Failure{{Message: out}}
	case "skip":
		spec.PendingReason = out
	}
	return spec
}

func status(action string) domain.Status {
	switch action {
	case "pass":
		return domain.StatusPassed
	case "fail":
		return domain.StatusFailed
	case "skip":
		return domain.StatusPending
	default:
		return domain.StatusIncomplete
	}
}

// cleanOutput drops framing lines and ANSI codes and removes go test's
// four-space indentation
func cleanOutput(chunks []string) string {
	var lines []string
	for _, line := range strings.Split(strings.Join(chunks, ""), "\n") {
		line = strings.TrimRight(stripansi.Strip(line), " \t\r")
		if line == "" || framingLine.MatchString(line) {
			continue
		}
		lines = append(lines, strings.TrimPrefix(line, "    "))
	}
	return strings.Join(lines, "\n")
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
