// Package log builds the structured logger shared by the CLI and the
// resolver, runner and engine.
package log

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// Name is the logger name that prefixes every line.
const Name = "lintstack"

// New returns a logger writing to w. It logs warnings and errors, plus
// debug detail when verbose is set.
func New(w io.Writer, verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   Name,
		Level:  level,
		Output: w,
	})
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
