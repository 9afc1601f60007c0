package output

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/jeduden/lintstack/internal/lint"
)

// TextFormatter outputs diagnostics in human-readable text format.
// When Color is true, locations are faint, errors red, warnings yellow and
// rule IDs faint, using the color profile the terminal advertises.
type TextFormatter struct {
	Color bool
}

// Format writes each diagnostic as a single line in the pattern
//
//	file:line:col severity message rule
//
// followed by a summary line when anything was reported.
func (f *TextFormatter) Format(w io.Writer, diagnostics []lint.Diagnostic) error {
	profile := termenv.Ascii
	if f.Color {
		profile = termenv.EnvColorProfile()
	}
	out := termenv.NewOutput(w, termenv.WithProfile(profile))

	for _, d := range diagnostics {
		loc := fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
		sev := out.String(string(d.Severity))
		switch d.Severity {
		case lint.Error:
			sev = sev.Foreground(out.Color("1"))
		case lint.Warn:
			sev = sev.Foreground(out.Color("3"))
		}
		line := fmt.Sprintf("%s %s %s", out.String(loc).Faint(), sev, d.Message)
		if d.RuleID != "" {
			line += " " + out.String(d.RuleID).Faint().String()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(diagnostics) == 0 {
		return nil
	}
	errors, warnings := lint.Count(diagnostics)
	summary := fmt.Sprintf("\n%d %s (%d %s, %d %s)",
		len(diagnostics), plural(len(diagnostics), "problem"),
		errors, plural(errors, "error"),
		warnings, plural(warnings, "warning"))
	style := out.String(summary).Bold()
	if errors > 0 {
		style = style.Foreground(out.Color("1"))
	} else {
		style = style.Foreground(out.Color("3"))
	}
	_, err := fmt.Fprintln(w, style)
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
