package render

import (
	"strings"
	"testing"
	"time"

	"story/internal/domain"
	"story/internal/literals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mathRun() domain.Run {
	return domain.Run{
		TotalPlanned: 2,
		Seed:         "x",
		TotalTime:    12 * time.Millisecond,
		Status:       domain.StatusFailed,
		Suites: []domain.Suite{{
			ID:          "1",
			Description: "Math",
			Duration:    12 * time.Millisecond,
			Status:      domain.StatusFailed,
			Tests: []domain.Test{
				{ID: "1", Description: "adds", Suite: "Math", Duration: 5 * time.Millisecond, Status: domain.StatusPassed},
				{
					ID:          "2",
					Description: "subtracts",
					Suite:       "Math",
					Duration:    7 * time.Millisecond,
					Status:      domain.StatusFailed,
					Failures:    []domain.Failure{{Message: "expected 1 to be 2"}},
				},
			},
		}},
	}
}

func row(key, value string) string {
	return "\t<tr>\n\t\t<td>\n\t\t\t<strong>" + key + "</strong>\n\t\t</td>\n\t\t<td>\n\t\t\t" + value + "\n\t\t</td>\n\t</tr>"
}

func TestRenderer_MarkdownMathScenario(t *testing.T) {
	r := New(Markdown, "", literals.Default())

	passed := "![Passed](" + passedImageURL + ")"
	failed := "![Failed](" + failedImageURL + ")"
	failedImg := `<img alt="Failed" src="` + failedImageURL + `" style="max-width:100%;">`

	expected := strings.Join([]string{
		"# Test Story",
		"",
		"## Math (0.012s)",
		"",
		"- " + passed + " 1. adds (5ms)",
		"- " + failed + " 2. subtracts (7ms)",
		"",
		"```",
		"expected 1 to be 2",
		"```",
		"",
		"",
		"## Summary",
		"",
		"<table>",
		row("Suites", "1"),
		row("Specs", "2"),
		row("Duration", "0.012s"),
		row("Status", failedImg+" 1 failed"),
		"</table>",
		"",
		"### What Failed?",
		"",
		"- " + failed + " 1. subtracts (7ms)",
		"**Suite: Math**",
		"",
		"```",
		"expected 1 to be 2",
		"```",
		"",
	}, "\n")

	assert.Equal(t, expected, r.Document(mathRun()))
}

func TestRenderer_HTMLMathScenario(t *testing.T) {
	r := New(HTML, "Nightly", literals.Default())
	doc := r.Document(mathRun())

	assert.True(t, strings.HasPrefix(doc, "<h1>Nightly</h1>\n\n<h2>Math (0.012s)</h2>\n\n<ul>\n\t<li>\n\t\t<img alt=\"Passed\""))
	assert.Contains(t, doc, "1. adds (5ms)\n\t</li>")
	assert.Contains(t, doc, "<h2>Summary</h2>")
	assert.Contains(t, doc, "<h3>What Failed?</h3>")
	assert.Contains(t, doc, "<strong>Suite: Math</strong>")
	assert.Contains(t, doc, "```\nexpected 1 to be 2\n```")
	assert.Equal(t, 2, strings.Count(doc, "<ul>"))
	assert.Equal(t, 2, strings.Count(doc, "</ul>"))
	assert.NotContains(t, doc, "![")
}

func TestRenderer_EmptyRun(t *testing.T) {
	for _, dialect := range []Dialect{Markdown, HTML} {
		t.Run(dialect.Name, func(t *testing.T) {
			doc := New(dialect, "", nil).Document(domain.Run{})

			assert.Contains(t, doc, dialect.Heading("Test Story", 1))
			assert.Contains(t, doc, row("Suites", "0"))
			assert.Contains(t, doc, row("Specs", "0"))
			assert.Contains(t, doc, row("Duration", "0s"))
			assert.Contains(t, doc, row("Status", ""))
			assert.NotContains(t, doc, "What Failed")
			assert.NotContains(t, doc, "```")
		})
	}
}

func TestRenderer_PassedRunHasNoWhatFailed(t *testing.T) {
	run := mathRun()
	run.Status = domain.StatusPassed
	run.Suites[0].Tests = run.Suites[0].Tests[:1]

	doc := New(Markdown, "", nil).Document(run)
	assert.Contains(t, doc, row("Status", "passed"))
	assert.NotContains(t, doc, "What Failed")
}

func TestRenderer_FailedCountIgnoresSuiteStatus(t *testing.T) {
	run := mathRun()
	// A suite marked passed still contributes its failed tests
	run.Suites[0].Status = domain.StatusPassed
	run.Suites = append(run.Suites, domain.Suite{
		ID:          "2",
		Description: "Hooks",
		Status:      domain.StatusFailed,
		Failures:    []domain.Failure{{Message: "afterAll failed"}},
		Tests: []domain.Test{{
			ID: "3", Description: "divides", Suite: "Hooks", Status: domain.StatusFailed,
			Failures: []domain.Failure{{Message: "m1", Stack: "s1"}, {Stack: "s2"}, {}},
		}},
	})

	doc := New(Markdown, "", nil).Document(run)

	assert.Contains(t, doc, " 2 failed")
	assert.Contains(t, doc, "1. subtracts (7ms)\n**Suite: Math**")
	assert.Contains(t, doc, "2. divides (0ms)\n**Suite: Hooks**")
	assert.Contains(t, doc, "```\nm1\ns1\ns2\n```")
	assert.NotContains(t, doc, "afterAll failed")
}

func TestRenderer_IndexRestartsPerSuite(t *testing.T) {
	run := domain.Run{Status: domain.StatusPassed}
	for _, name := range []string{"A", "B"} {
		suite := domain.Suite{ID: name, Description: name}
		for i := 0; i < 3; i++ {
			suite.Tests = append(suite.Tests, domain.Test{Description: name + "-t", Suite: name, Status: domain.StatusPassed})
		}
		run.Suites = append(run.Suites, suite)
	}

	lines := New(Markdown, "", nil).Lines(run)

	var items []string
	for _, line := range lines {
		if strings.HasPrefix(line, "- ") {
			items = append(items, line)
		}
	}
	require.Len(t, items, 6)
	assert.Contains(t, items[0], " 1. A-t")
	assert.Contains(t, items[2], " 3. A-t")
	assert.Contains(t, items[3], " 1. B-t")

	doc := strings.Join(lines, "\n")
	assert.Less(t, strings.Index(doc, "## A (0s)"), strings.Index(doc, "## B (0s)"))
}

func TestRenderer_Idempotent(t *testing.T) {
	run := mathRun()
	for _, dialect := range []Dialect{Markdown, HTML} {
		r := New(dialect, "", nil)
		assert.Equal(t, r.Document(run), r.Document(run))
	}
}

func TestRenderer_PendingUsesFailedGlyph(t *testing.T) {
	run := domain.Run{Suites: []domain.Suite{{
		Description: "S",
		Tests:       []domain.Test{{Description: "later", Status: domain.StatusPending, PendingReason: "not ready"}},
	}}}

	doc := New(Markdown, "", nil).Document(run)
	assert.Contains(t, doc, "- ![Failed]("+failedImageURL+") 1. later (0ms)")
	assert.NotContains(t, doc, "```")
}

func TestRenderer_HTMLEscapesDescriptions(t *testing.T) {
	run := domain.Run{Suites: []domain.Suite{{
		Description: "a < b",
		Tests:       []domain.Test{{Description: "x & y", Status: domain.StatusPassed}},
	}}}

	doc := New(HTML, "", nil).Document(run)
	assert.Contains(t, doc, "<h2>a &lt; b (0s)</h2>")
	assert.Contains(t, doc, "1. x &amp; y (0ms)")
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "zero", duration: 0, expected: "0s"},
		{name: "milliseconds", duration: 12 * time.Millisecond, expected: "0.012s"},
		{name: "mixed", duration: 1234 * time.Millisecond, expected: "1.234s"},
		{name: "whole seconds", duration: 2 * time.Second, expected: "2s"},
		{name: "sub millisecond truncated", duration: 1500 * time.Microsecond, expected: "0.001s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, seconds(tt.duration))
		})
	}
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, "html", DialectFor("html").Name)
	assert.Equal(t, "html", DialectFor(" HTML ").Name)
	assert.Equal(t, "markdown", DialectFor("").Name)
	assert.Equal(t, "markdown", DialectFor("markdown").Name)
	assert.Equal(t, "markdown", DialectFor("pdf").Name)
}
