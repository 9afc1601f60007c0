package nocontinue

import (
	"testing"

	"github.com/jeduden/lintstack/internal/ruletest"
)

func TestNoContinue(t *testing.T) {
	ruletest.Run(t, &Rule{},
		[]ruletest.Case{
			{Code: "for (const card of hand) {\n  if (card.clued) break;\n}\n"},
		},
		[]ruletest.Case{
			{
				Code:   "for (const card of hand) {\n  if (card.clued) {\n    continue;\n  }\n  play(card);\n}\n",
				Errors: []ruletest.Error{{Line: 3, Column: 5, Message: "Unexpected use of continue statement."}},
			},
			{
				Name:   "labeled",
				Code:   "outer: while (a) {\n  while (b) { continue outer; }\n}\n",
				Errors: []ruletest.Error{{Line: 2, Column: 15}},
			},
		},
	)
}
