package frontend

import (
	"errors"
	"strings"

	"github.com/msto63/ccp/internal/lexer"
	"github.com/msto63/ccp/internal/parser"
)

// Outcome classifies the result of a check run.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeLexical
	OutcomeSyntax
	OutcomeName
	// OutcomeRejected covers runs that never reached the lexer: oversized
	// input or a cancelled context.
	OutcomeRejected
)

var outcomeNames = [...]string{
	OutcomeOK:       "ok",
	OutcomeLexical:  "lexical",
	OutcomeSyntax:   "syntax",
	OutcomeName:     "name",
	OutcomeRejected: "rejected",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, bool) {
	for i, name := range outcomeNames {
		if strings.EqualFold(s, name) {
			return Outcome(i), true
		}
	}
	return OutcomeRejected, false
}

// Classify maps an error returned by the lexer or parser to its outcome.
// Any other non-nil error is OutcomeRejected.
func Classify(err error) Outcome {
	var (
		lexErr  *lexer.LexicalError
		synErr  *parser.SyntaxError
		nameErr *parser.NameError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &lexErr):
		return OutcomeLexical
	case errors.As(err, &synErr):
		return OutcomeSyntax
	case errors.As(err, &nameErr):
		return OutcomeName
	default:
		return OutcomeRejected
	}
}
