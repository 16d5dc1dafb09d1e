package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"story/internal/domain"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const maxStackLines = 10

// ErrorViewer displays failed tests in an interactive TUI
type ErrorViewer struct {
	formatter *Formatter
}

// NewErrorViewer creates a new ErrorViewer. The formatter receives the
// message printed when nothing failed.
func NewErrorViewer(formatter *Formatter) *ErrorViewer {
	return &ErrorViewer{formatter: formatter}
}

// View displays failed tests of run in an interactive TUI
func (ev *ErrorViewer) View(run domain.Run) error {
	failed := run.FailedTests()
	if len(failed) == 0 {
		green.Fprintln(ev.formatter.out, "✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i, test := range failed {
		list.AddItem(listItemText(test, i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// list on the left (1/3), details on the right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Failed Tests (%d of %d) | Use ↑↓ to navigate, → to view details, ← to go back, Ctrl+C to exit ", len(failed), run.TestCount()))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(failed) {
			statsView.SetText(formatFailureStats(failed[index], index+1))
			detailsView.SetText(formatFailureDetails(failed[index])).ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

func listItemText(test domain.Test, index int) string {
	name := test.Description
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(name))
}

// formatFailureDetails formats a failed test using tview color tags
func formatFailureDetails(test domain.Test) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ Test: %s[white]\n\n", tview.Escape(test.Description))
	fmt.Fprintf(w, "[cyan]Suite: %s[white]\n", tview.Escape(test.Suite))
	fmt.Fprintf(w, "[cyan]Duration: %dms[white]\n\n", test.Duration.Milliseconds())

	for i, failure := range test.Failures {
		if len(test.Failures) > 1 {
			fmt.Fprintf(w, "[gray]Failure %d of %d[white]\n", i+1, len(test.Failures))
		}
		if failure.Message != "" {
			fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
		}

		if strings.TrimSpace(failure.Stack) == "" {
			continue
		}
		stack := strings.Split(strings.TrimSpace(failure.Stack), "\n")
		fmt.Fprintf(w, "[yellow]Stack Trace:[white]\n")
		for j, line := range stack {
			if j >= maxStackLines {
				break
			}
			fmt.Fprintf(w, "  %s\n", tview.Escape(line))
		}
		if len(stack) > maxStackLines {
			fmt.Fprintf(w, "  [gray]... and %d more lines[white]\n", len(stack)-maxStackLines)
		}
		fmt.Fprintf(w, "\n")
	}

	w.Flush()
	return builder.String()
}

// formatFailureStats formats the header line for a failed test
func formatFailureStats(test domain.Test, number int) string {
	suite := test.Suite
	if suite == "" {
		suite = "Unknown suite"
	}

	name := test.Description
	if name == "" {
		name = fmt.Sprintf("Test %d", number)
	}

	return fmt.Sprintf("[cyan]suite:[white] [yellow]%s[white] :: [yellow]%s[white]\n", tview.Escape(suite), tview.Escape(name))
}
