package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const maxHelpWidth = 80
const minHelpWidth = 40

var (
	helpTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	helpCommandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	helpFlagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	helpDimStyle     = lipgloss.NewStyle().Faint(true)
)

// helpWidth returns the terminal width capped at maxHelpWidth.
func helpWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minHelpWidth {
		return maxHelpWidth
	}
	if width > maxHelpWidth {
		return maxHelpWidth
	}
	return width
}

// wrapText wraps text to the given width, preserving existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxHelpWidth
	}

	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}

		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp installs the styled help renderer on a command and its
// future subcommands.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

func styledHelpFunc(cmd *cobra.Command, args []string) {
	styled := isatty.IsTerminal(os.Stdout.Fd())
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	width := helpWidth()
	w := cmd.OutOrStdout()

	long := cmd.Long
	if long == "" {
		long = cmd.Short
	}
	if long != "" {
		fmt.Fprintln(w, wrapText(long, width))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, render(helpTitleStyle, "Usage:"))
	fmt.Fprintf(w, "  %s\n", cmd.UseLine())
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s [command]\n", cmd.CommandPath())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, render(helpTitleStyle, "Commands:"))
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() {
				continue
			}
			fmt.Fprintf(w, "  %s  %s\n",
				render(helpCommandStyle, fmt.Sprintf("%-12s", sub.Name())),
				sub.Short)
		}
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailableInheritedFlags() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, render(helpTitleStyle, "Flags:"))
		printFlags := func(fs *pflag.FlagSet) {
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Hidden {
					return
				}
				fmt.Fprintf(w, "  %s  %s\n",
					render(helpFlagStyle, fmt.Sprintf("%-20s", formatFlagName(f))),
					f.Usage)
			})
		}
		printFlags(cmd.LocalFlags())
		printFlags(cmd.InheritedFlags())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, render(helpDimStyle,
			fmt.Sprintf("Use \"%s [command] --help\" for more information about a command.", cmd.CommandPath())))
	}
}

// formatFlagName renders "-s, --long" or "    --long" for a flag
func formatFlagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return fmt.Sprintf("    --%s", f.Name)
}
