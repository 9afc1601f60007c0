package config

import (
	"fmt"
	"strings"
)

// MalformedConfigError reports a document that does not have the expected
// structure.
type MalformedConfigError struct {
	Source string
	Err    error
}

func (e *MalformedConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Source, e.Err)
}

func (e *MalformedConfigError) Unwrap() error { return e.Err }

// MissingConfigError reports an extends reference, or a discovery, that
// found no document.
type MissingConfigError struct {
	Ref  string
	From string
	Err  error
}

func (e *MissingConfigError) Error() string {
	msg := fmt.Sprintf("config %q not found", e.Ref)
	if e.From != "" {
		msg += fmt.Sprintf(" (referenced from %s)", e.From)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MissingConfigError) Unwrap() error { return e.Err }

// CyclicConfigError reports an extends chain that revisits a source.
// Cycle starts and ends with the same source ID.
type CyclicConfigError struct {
	Cycle []string
}

func (e *CyclicConfigError) Error() string {
	return "circular extends: " + strings.Join(e.Cycle, " -> ")
}

// UnknownRuleError reports a rule ID no loaded source registered.
type UnknownRuleError struct {
	ID     string
	Source string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("%s: definition for rule %q was not found", e.Source, e.ID)
}

// UnknownParserError reports a parser name with no registered adapter.
type UnknownParserError struct {
	Name   string
	Source string
}

func (e *UnknownParserError) Error() string {
	return fmt.Sprintf("%s: unknown parser %q", e.Source, e.Name)
}

// UnknownPluginError reports a plugin name absent from the plugin catalog.
type UnknownPluginError struct {
	Name   string
	Source string
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("%s: plugin %q not found", e.Source, e.Name)
}
