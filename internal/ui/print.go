package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	genStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

func GenLine(w io.Writer, kind, path string) {
	fmt.Fprintln(w, genStyle.Render("gen")+"  "+dimStyle.Render(kind)+"  "+path)
}

func WarnLine(w io.Writer, msg string) {
	fmt.Fprintln(w, warnStyle.Render("warn")+" "+msg)
}

func StepLine(w io.Writer, line int, stmt, target string) {
	fmt.Fprintf(w, "%s %4d  %s %s\n", dimStyle.Render("step"), line, stmt, target)
}

func StatusLine(w io.Writer, line int, status, errMsg string) {
	style := genStyle
	if status != "passed" {
		style = failStyle
	}
	suffix := ""
	if errMsg != "" {
		suffix = "  " + errMsg
	}
	fmt.Fprintf(w, "%s %4d  %s%s\n", style.Render(status), line, dimStyle.Render("done"), suffix)
}

func PausedLine(w io.Writer, line int) {
	fmt.Fprintf(w, "%s at line %d\n", warnStyle.Render("paused"), line)
}

func VariableLine(w io.Writer, name string, value any) {
	fmt.Fprintf(w, "%s %s = %v\n", dimStyle.Render("var"), name, value)
}

func SummaryLine(w io.Writer, programs, files, warnings int) {
	fmt.Fprintf(w, "generated %d files from %d programs (%d warnings)\n", files, programs, warnings)
}
