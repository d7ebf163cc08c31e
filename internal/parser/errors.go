package parser

import (
	"fmt"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	"github.com/msto63/ccp/internal/lexer"
)

// Names of the nonterminals a SyntaxError can expect.
const (
	ExpectStatement = "statement"
	ExpectFactor    = "factor"
)

// SyntaxError reports a token whose category does not fit the grammar.
type SyntaxError struct {
	// Token is the offending token. Its Kind is KindEOF when the input
	// ended early.
	Token lexer.Token
	// Expected names the wanted category or nonterminal, e.g. "END",
	// "RPAREN" or "factor".
	Expected string
	// ExpectedKind is the wanted token kind, or KindEOF when Expected
	// names a nonterminal.
	ExpectedKind lexer.Kind
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Expected %s at %s", e.Expected, e.Token)
}

// Code classifies the error for reporting.
func (e *SyntaxError) Code() mdwerror.Code {
	return mdwerror.CodeSyntax
}

// NameError reports an identifier used before its declaration.
type NameError struct {
	Identifier string
	Token      lexer.Token
}

func (e *NameError) Error() string {
	return fmt.Sprintf("Variable %s not declared", e.Identifier)
}

// Code classifies the error for reporting.
func (e *NameError) Code() mdwerror.Code {
	return mdwerror.CodeName
}
