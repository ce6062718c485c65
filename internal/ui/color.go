package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pathStyle  = lipgloss.NewStyle().Faint(true)
)

// ErrorLine prints a diagnostic such as a parse error.
func ErrorLine(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error")+"  "+err.Error())
}

// WarnLine prints a generator warning.
func WarnLine(w io.Writer, msg string) {
	fmt.Fprintln(w, warnStyle.Render("warn")+"   "+msg)
}

// GenLine reports a written output file and the number of tests in it.
func GenLine(w io.Writer, path string, cases int) {
	fmt.Fprintf(w, "%s    %s %s\n", okStyle.Render("gen"), path, pathStyle.Render("("+english.Plural(cases, "test", "")+")"))
}

// OkLine reports a file that parsed cleanly.
func OkLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("ok")+"     "+path)
}

// CaseLine prints one test path.
func CaseLine(w io.Writer, name string) {
	fmt.Fprintln(w, name)
}
