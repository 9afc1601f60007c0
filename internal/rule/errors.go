package rule

import (
	"errors"
	"fmt"
)

// ErrSealed is returned when registering into a sealed Registry.
var ErrSealed = errors.New("rule registry is sealed")

// DuplicateRuleError reports two sources registering the same rule ID.
type DuplicateRuleError struct {
	ID       string
	Existing string
	Incoming string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule %q is registered by both %q and %q", e.ID, e.Existing, e.Incoming)
}

// UnknownRuleError reports a rule ID that nothing registered.
type UnknownRuleError struct {
	ID string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule %q", e.ID)
}

// SchemaError reports options that do not match a rule's schema.
type SchemaError struct {
	RuleID string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("rule %q: invalid options: %v", e.RuleID, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
