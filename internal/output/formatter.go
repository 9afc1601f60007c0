// Package output renders diagnostics for people and for tools.
package output

import (
	"fmt"
	"io"

	"github.com/jeduden/lintstack/internal/lint"
)

// Formatter defines the interface for outputting diagnostics.
type Formatter interface {
	Format(w io.Writer, diagnostics []lint.Diagnostic) error
}

// Formats lists the names accepted by New.
var Formats = []string{"text", "json"}

// New returns the formatter called name. color only affects text output.
func New(name string, color bool) (Formatter, error) {
	switch name {
	case "", "text", "stylish":
		return &TextFormatter{Color: color}, nil
	case "json":
		return &JSONFormatter{}, nil
	}
	return nil, fmt.Errorf("unknown format %q (valid: text, json)", name)
}

// ErrorsOnly drops every diagnostic below error severity.
func ErrorsOnly(diagnostics []lint.Diagnostic) []lint.Diagnostic {
	out := make([]lint.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if d.Severity == lint.Error {
			out = append(out, d)
		}
	}
	return out
}
