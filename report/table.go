package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/branchtools/sweep/sweeper"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	rowStyle      = lipgloss.NewStyle().Padding(0, 1)
	retainedStyle = rowStyle.Foreground(lipgloss.Color("2"))
	removedStyle  = rowStyle.Foreground(lipgloss.Color("1"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const fallbackWidth = 100

// terminalWidth returns the width available for table rendering.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallbackWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// colorEnabled reports whether the writer is an interactive terminal.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteTable renders a repository summary as a bordered table.
func WriteTable(w io.Writer, summary *sweeper.Summary) {
	color := colorEnabled(w)

	tbl := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Width(min(terminalWidth(w), fallbackWidth)).
		Headers("BRANCH", "LAST COMMIT", "INACTIVE (days)", "STATUS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			if !color || col != 3 {
				return rowStyle
			}
			if summary.Records[row].Status == sweeper.StatusRetained {
				return retainedStyle
			}
			return removedStyle
		})

	for _, record := range summary.Records {
		tbl.Row(record.Branch, record.LatestCommit,
			fmt.Sprint(record.InactiveDays), record.Status)
	}

	total, retained, removed := summary.Totals()
	fmt.Fprintf(w, "%s\n", summary.Repository)
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintf(w, "%d branches: %d retained, %d marked or deleted\n", total, retained, removed)
}
