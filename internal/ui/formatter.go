package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"story/internal/domain"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// PrintSummary prints run statistics and the tree of failed tests
func (f *Formatter) PrintSummary(run domain.Run, destination string) {
	failed := run.FailedTests()

	var passed, pending int
	for _, suite := range run.Suites {
		for _, test := range suite.Tests {
			switch {
			case test.Failed():
			case test.Status == domain.StatusPending:
				pending++
			default:
				passed++
			}
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Test Story")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Value", Align: text.AlignRight},
	})

	t.AppendRows([]table.Row{
		{"Suites", len(run.Suites)},
		{"Specs", fmt.Sprintf("%d/%d", run.TestCount(), run.TotalPlanned)},
		{"Passed", passed},
		{"Failed", len(failed)},
		{"Pending", pending},
		{"Duration", fmt.Sprintf("%.2fs", run.TotalTime.Seconds())},
		{"Status", string(run.Status)},
	})
	if run.Seed != "" {
		t.AppendRow(table.Row{"Seed", run.Seed})
	}
	t.AppendRow(table.Row{"Report", destination})
	t.Render()

	fmt.Fprintln(f.out)
	switch {
	case run.Status == domain.StatusIncomplete:
		yellow.Fprintf(f.out, "! Run incomplete: %s\n", run.IncompleteReason)
	case len(failed) == 0 && run.Status == domain.StatusPassed:
		green.Fprintln(f.out, "✓ All tests passed!")
	}

	if len(failed) > 0 {
		red.Fprintf(f.out, "✗ %d test(s) failed\n", len(failed))
		fmt.Fprintln(f.out)
		f.printFailedTestsTree(failed)
	}
}

// TreeNode represents a node in the package tree structure
type TreeNode struct {
	Name      string
	Children  map[string]*TreeNode
	Failures  []domain.Test
	IsPackage bool
}

// printFailedTestsTree prints failed tests grouped under their package path
func (f *Formatter) printFailedTestsTree(failed []domain.Test) {
	if len(failed) == 0 {
		return
	}

	bySuite := make(map[string][]domain.Test)
	for _, test := range failed {
		bySuite[test.Suite] = append(bySuite[test.Suite], test)
	}

	root := &TreeNode{Children: make(map[string]*TreeNode)}

	for suite, tests := range bySuite {
		parts := strings.Split(strings.TrimPrefix(suite, "./"), "/")
		current := root

		for i, part := range parts {
			if part == "" && i != len(parts)-1 {
				continue
			}

			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
				}
			}

			current = current.Children[part]

			if i == len(parts)-1 {
				current.IsPackage = true
				current.Failures = tests
			}
		}
	}

	f.printTreeNode(root, "", true)
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string, isRoot bool) {
	var keys []string
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		isLastChild := i == len(keys)-1

		var connector, childPrefix string
		switch {
		case isRoot:
			connector, childPrefix = "", ""
		case isLastChild:
			connector, childPrefix = prefix+"└── ", prefix+"    "
		default:
			connector, childPrefix = prefix+"├── ", prefix+"│   "
		}

		name := child.Name
		if name == "" {
			name = "(ungrouped)"
		}
		if child.IsPackage {
			yellow.Fprintf(f.out, "%s%s\n", connector, name)
		} else {
			cyan.Fprintf(f.out, "%s%s\n", connector, name)
		}

		hasChildren := len(child.Children) > 0
		for j, test := range child.Failures {
			marker := "├── "
			if j == len(child.Failures)-1 && !hasChildren {
				marker = "└── "
			}
			red.Fprintf(f.out, "%s%s%s\n", childPrefix, marker, test.Description)
		}

		f.printTreeNode(child, childPrefix, false)
	}
}

// PrintTestList prints suites and their tests as a tree. Failed tests are
// marked with [F] and pending ones with [S].
func (f *Formatter) PrintTestList(suites []domain.Suite) {
	var count int
	for _, suite := range suites {
		count += len(suite.Tests)
	}
	green.Fprintf(f.out, "Found %d test(s) in %d suite(s):\n\n", count, len(suites))

	for i, suite := range suites {
		isLastSuite := i == len(suites)-1

		marker := ""
		if len(suite.Failures) > 0 {
			marker = " " + red.Sprint("[F]")
		}
		if isLastSuite {
			cyan.Fprintf(f.out, "└── %s", suite.Description)
		} else {
			cyan.Fprintf(f.out, "├── %s", suite.Description)
		}
		fmt.Fprintf(f.out, "%s\n", marker)

		for j, test := range suite.Tests {
			isLastCase := j == len(suite.Tests)-1

			var prefix string
			switch {
			case isLastSuite && isLastCase:
				prefix = "    └── "
			case isLastSuite:
				prefix = "    ├── "
			case isLastCase:
				prefix = "│   └── "
			default:
				prefix = "│   ├── "
			}

			switch {
			case test.Failed():
				fmt.Fprintf(f.out, "%s%s %s\n", prefix, red.Sprint("[F]"), test.Description)
			case test.Status == domain.StatusPending:
				fmt.Fprintf(f.out, "%s%s %s\n", prefix, yellow.Sprint("[S]"), test.Description)
			default:
				fmt.Fprintf(f.out, "%s%s\n", prefix, test.Description)
			}
		}
	}
}

// Warn prints a yellow notice line
func (f *Formatter) Warn(format string, args ...any) {
	yellow.Fprintf(f.out, format+"\n", args...)
}
