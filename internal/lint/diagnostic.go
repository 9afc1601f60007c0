package lint

import (
	"fmt"
	"strings"
)

// Severity indicates the severity level of a rule or diagnostic.
type Severity string

// Severity levels.
const (
	Off   Severity = "off"
	Warn  Severity = "warn"
	Error Severity = "error"
)

// ParseSeverity accepts the textual forms off/warn/warning/error and the
// numeric forms 0/1/2.
func ParseSeverity(v any) (Severity, error) {
	switch s := v.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "off", "0":
			return Off, nil
		case "warn", "warning", "1":
			return Warn, nil
		case "error", "2":
			return Error, nil
		}
		return "", fmt.Errorf("invalid severity %q (valid: off, warn, error, 0, 1, 2)", s)
	case int:
		return severityFromInt(s)
	case int64:
		return severityFromInt(int(s))
	case float64:
		if s == float64(int(s)) {
			return severityFromInt(int(s))
		}
	case Severity:
		return ParseSeverity(string(s))
	}
	return "", fmt.Errorf("invalid severity %v (%T)", v, v)
}

func severityFromInt(n int) (Severity, error) {
	switch n {
	case 0:
		return Off, nil
	case 1:
		return Warn, nil
	case 2:
		return Error, nil
	}
	return "", fmt.Errorf("invalid severity %d (valid: 0, 1, 2)", n)
}

// Level returns the numeric form used by ESLint-compatible output.
func (s Severity) Level() int {
	switch s {
	case Warn:
		return 1
	case Error:
		return 2
	}
	return 0
}

// Kind distinguishes rule findings from failures contained by the engine.
type Kind string

// Diagnostic kinds.
const (
	KindFinding           Kind = "finding"
	KindInternalRuleError Kind = "internal-rule-error"
	KindParseError        Kind = "parse-error"
)

// Diagnostic represents a single lint finding.
type Diagnostic struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	RuleID    string
	Severity  Severity
	Message   string
	Kind      Kind
}

// Fatal reports whether the diagnostic records a failure rather than a
// rule finding.
func (d Diagnostic) Fatal() bool {
	return d.Kind == KindParseError || d.Kind == KindInternalRuleError
}

// Count returns the number of error and warning diagnostics.
func Count(diags []Diagnostic) (errors, warnings int) {
	for _, d := range diags {
		switch d.Severity {
		case Error:
			errors++
		case Warn:
			warnings++
		}
	}
	return errors, warnings
}
