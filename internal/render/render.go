// Package render turns a finished run into a Markdown or HTML report.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"story/internal/domain"
	"story/internal/literals"
)

// LineSeparator joins rendered lines into a document
const LineSeparator = "\n"

// Renderer renders runs in one dialect. Rendering has no side effects, so the
// same run always produces the same document.
type Renderer struct {
	dialect  Dialect
	title    string
	literals literals.Table
}

// New creates a Renderer. An empty title falls back to the table's title entry.
func New(dialect Dialect, title string, table literals.Table) *Renderer {
	if table == nil {
		table = literals.Default()
	}
	if title == "" {
		title = table.Get(literals.Title)
	}
	return &Renderer{
		dialect:  dialect,
		title:    title,
		literals: table,
	}
}

// Dialect returns the dialect this renderer writes
func (r *Renderer) Dialect() Dialect {
	return r.dialect
}

// Document renders run as a single string
func (r *Renderer) Document(run domain.Run) string {
	return strings.Join(r.Lines(run), LineSeparator)
}

// Lines renders run line by line
func (r *Renderer) Lines(run domain.Run) []string {
	var out []string
	out = append(out, r.heading(r.title, 1)...)

	for _, suite := range run.Suites {
		out = append(out, r.suite(suite)...)
	}

	return append(out, r.summary(run)...)
}

func (r *Renderer) suite(suite domain.Suite) []string {
	title := fmt.Sprintf("%s (%s)", r.dialect.Text(suite.Description), seconds(suite.Duration))
	out := r.heading(title, 2)

	out = appendIf(out, r.dialect.OpenList)
	for i, test := range suite.Tests {
		out = append(out, r.test(i+1, test, false)...)
	}
	return appendIf(out, r.dialect.CloseList)
}

func (r *Renderer) test(index int, test domain.Test, showSuite bool) []string {
	flag := r.dialect.Image(r.glyphAlt(test.Passed()), test.Passed())
	item := fmt.Sprintf("%s %d. %s (%dms)", flag, index, r.dialect.Text(test.Description), test.Duration.Milliseconds())
	out := r.dialect.ListItem(item)

	if showSuite {
		label := fmt.Sprintf("%s: %s", r.literals.Get(literals.Suite), r.dialect.Text(test.Suite))
		out = append(out, r.dialect.Bold(label))
	}

	if test.Failed() {
		out = append(out, r.dialect.CodeFence(failureText(test.Failures))...)
	}
	return out
}

func (r *Renderer) summary(run domain.Run) []string {
	out := r.heading(r.literals.Get(literals.Summary), 2)

	failed := run.FailedTests()
	status := string(run.Status)
	if run.Status == domain.StatusFailed {
		status = fmt.Sprintf("%s %d failed", htmlImage(r.literals.Get(literals.Failed), false), len(failed))
	}

	out = append(out, "<table>")
	out = append(out, tableRow(r.literals.Get(literals.Suites), strconv.Itoa(len(run.Suites)))...)
	out = append(out, tableRow(r.literals.Get(literals.Specs), strconv.Itoa(run.TotalPlanned))...)
	out = append(out, tableRow(r.literals.Get(literals.Duration), seconds(run.TotalTime))...)
	out = append(out, tableRow(r.literals.Get(literals.Status), status)...)
	out = append(out, "</table>", "")

	if len(failed) == 0 {
		return out
	}

	out = append(out, r.heading(r.literals.Get(literals.WhatFailed), 3)...)
	out = appendIf(out, r.dialect.OpenList)
	for i, test := range failed {
		out = append(out, r.test(i+1, test, true)...)
	}
	return appendIf(out, r.dialect.CloseList)
}

// heading pads headings with blank lines: none around the title, both sides for
// sections, after only for subsections
func (r *Renderer) heading(text string, level int) []string {
	h := r.dialect.Heading(text, level)
	switch level {
	case 1:
		return []string{h}
	case 2:
		return []string{"", h, ""}
	default:
		return []string{h, ""}
	}
}

func (r *Renderer) glyphAlt(passed bool) string {
	if passed {
		return r.literals.Get(literals.Passed)
	}
	return r.literals.Get(literals.Failed)
}

func tableRow(key, value string) []string {
	return []string{
		"\t<tr>",
		"\t\t<td>",
		"\t\t\t<strong>" + key + "</strong>",
		"\t\t</td>",
		"\t\t<td>",
		"\t\t\t" + value,
		"\t\t</td>",
		"\t</tr>",
	}
}

// failureText joins message and stack of every failure, skipping empty fields
func failureText(failures []domain.Failure) string {
	var info []string
	for _, f := range failures {
		if f.Message != "" {
			info = append(info, f.Message)
		}
		if f.Stack != "" {
			info = append(info, f.Stack)
		}
	}
	return strings.Join(info, "\n")
}

// seconds formats d as whole milliseconds divided by 1000, e.g. 1234ms is "1.234s"
func seconds(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Milliseconds())/1000, 'f', -1, 64) + "s"
}

func appendIf(lines []string, line string) []string {
	if line == "" {
		return lines
	}
	return append(lines, line)
}
