package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   any
		want Severity
	}{
		{"off", Off},
		{"warn", Warn},
		{"warning", Warn},
		{"error", Error},
		{"ERROR", Error},
		{"2", Error},
		{0, Off},
		{1, Warn},
		{2, Error},
		{int64(1), Warn},
		{float64(2), Error},
		{Warn, Warn},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		require.NoError(t, err, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

func TestParseSeverity_Invalid(t *testing.T) {
	for _, in := range []any{"fatal", 3, -1, 1.5, true, nil} {
		_, err := ParseSeverity(in)
		assert.Error(t, err, "input %v", in)
	}
}

func TestSeverityLevel(t *testing.T) {
	assert.Equal(t, 0, Off.Level())
	assert.Equal(t, 1, Warn.Level())
	assert.Equal(t, 2, Error.Level())
}

func TestCount(t *testing.T) {
	diags := []Diagnostic{
		{Severity: Error},
		{Severity: Warn},
		{Severity: Warn},
		{Severity: Error, Kind: KindParseError},
	}
	errs, warns := Count(diags)
	assert.Equal(t, 2, errs)
	assert.Equal(t, 2, warns)
}

func TestFatal(t *testing.T) {
	assert.False(t, Diagnostic{Kind: KindFinding}.Fatal())
	assert.True(t, Diagnostic{Kind: KindParseError}.Fatal())
	assert.True(t, Diagnostic{Kind: KindInternalRuleError}.Fatal())
}
