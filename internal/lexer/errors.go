package lexer

import (
	"fmt"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
)

// Reason tells why the lexer rejected its input.
type Reason int

const (
	// ReasonUnexpectedChar: the character matches no token category.
	ReasonUnexpectedChar Reason = iota
	// ReasonNumberRange: a numeric literal does not fit in an int64.
	ReasonNumberRange
)

func (r Reason) String() string {
	switch r {
	case ReasonUnexpectedChar:
		return "unexpected character"
	case ReasonNumberRange:
		return "number out of range"
	default:
		return "unknown"
	}
}

// LexicalError reports the first piece of input the lexer could not
// classify.
type LexicalError struct {
	// Char is the offending character (the first digit for range errors).
	Char rune
	// Text is the offending source text.
	Text   string
	Line   int
	Column int
	Reason Reason
}

func (e *LexicalError) Error() string {
	if e.Reason == ReasonNumberRange {
		return fmt.Sprintf("number %s out of range on line %d", e.Text, e.Line)
	}
	return fmt.Sprintf("%q unexpected on line %d", e.Char, e.Line)
}

// Code classifies the error for reporting.
func (e *LexicalError) Code() mdwerror.Code {
	return mdwerror.CodeLexical
}
