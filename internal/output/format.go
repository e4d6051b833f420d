// Package output provides terminal output formatting utilities for the
// gitweekly CLI. This package is designed to have minimal dependencies to
// avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSuccess prints a green checkmark followed by the message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), message)
}

// PrintWarning prints a yellow warning marker followed by the message.
func PrintWarning(out io.Writer, message string) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("!"), message)
}

// PrintError prints a red error marker followed by the message.
func PrintError(out io.Writer, message string) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", red("✗"), message)
}

// PrintInfo prints a dim informational line.
func PrintInfo(out io.Writer, message string) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s\n", dim(message))
}

// PrintKeyValue prints a labeled configuration value, cyan label.
func PrintKeyValue(out io.Writer, key, value string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan(key+":"), value)
}

// PrintRule prints a dim horizontal rule sized to the terminal, with an
// optional centered label. Used to frame dry-run previews.
func PrintRule(out io.Writer, label string) {
	width := GetTerminalWidth()
	dim := color.New(color.Faint).SprintFunc()

	if label == "" {
		fmt.Fprintln(out, dim(strings.Repeat("─", width)))
		return
	}

	label = " " + label + " "
	lineLen := (width - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}
	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "%s%s%s\n", dim(line), dim(label), dim(line))
}

// StartSpinner starts a cyan spinner with the given suffix text. The
// caller must Stop it. Spinner output goes to stderr so piped stdout
// stays clean.
func StartSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Color("cyan")
	s.Start()
	return s
}
