package output

import (
	"encoding/json"
	"io"

	"github.com/jeduden/lintstack/internal/lint"
)

// JSONFormatter outputs one result object per file, in the shape ESLint's
// json formatter uses so existing tooling can read it.
type JSONFormatter struct{}

type jsonResult struct {
	FilePath        string        `json:"filePath"`
	Messages        []jsonMessage `json:"messages"`
	ErrorCount      int           `json:"errorCount"`
	WarningCount    int           `json:"warningCount"`
	FatalErrorCount int           `json:"fatalErrorCount"`
}

type jsonMessage struct {
	RuleID    *string `json:"ruleId"`
	Severity  int     `json:"severity"`
	Message   string  `json:"message"`
	Line      int     `json:"line"`
	Column    int     `json:"column"`
	EndLine   int     `json:"endLine,omitempty"`
	EndColumn int     `json:"endColumn,omitempty"`
	Fatal     bool    `json:"fatal,omitempty"`
}

// Format writes diagnostics grouped by file as a pretty-printed JSON array,
// files in order of first appearance. An empty slice produces [].
func (f *JSONFormatter) Format(w io.Writer, diagnostics []lint.Diagnostic) error {
	results := make([]*jsonResult, 0)
	byFile := make(map[string]*jsonResult)
	for _, d := range diagnostics {
		r, ok := byFile[d.File]
		if !ok {
			r = &jsonResult{FilePath: d.File, Messages: []jsonMessage{}}
			byFile[d.File] = r
			results = append(results, r)
		}

		m := jsonMessage{
			Severity:  d.Severity.Level(),
			Message:   d.Message,
			Line:      d.Line,
			Column:    d.Column,
			EndLine:   d.EndLine,
			EndColumn: d.EndColumn,
			Fatal:     d.Kind == lint.KindParseError,
		}
		if d.RuleID != "" {
			id := d.RuleID
			m.RuleID = &id
		}
		r.Messages = append(r.Messages, m)

		switch d.Severity {
		case lint.Error:
			r.ErrorCount++
			if m.Fatal {
				r.FatalErrorCount++
			}
		case lint.Warn:
			r.WarningCount++
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
