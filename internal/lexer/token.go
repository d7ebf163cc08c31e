package lexer

import (
	"fmt"
)

// Kind classifies a token.
type Kind int

const (
	// KindEOF marks the end of input. Tokenize never emits it; the parser
	// uses it for the synthetic token reported when input runs out.
	KindEOF Kind = iota

	KindNumber     // 42
	KindIdentifier // x, total_1
	KindInt        // int (declaration keyword)
	KindAssign     // =
	KindEnd        // ;
	KindPlus       // +
	KindMinus      // -
	KindTimes      // *
	KindDivide     // /
	KindLParen     // (
	KindRParen     // )
)

var kindNames = [...]string{
	KindEOF:        "EOF",
	KindNumber:     "NUMBER",
	KindIdentifier: "IDENTIFIER",
	KindInt:        "INT",
	KindAssign:     "ASSIGN",
	KindEnd:        "END",
	KindPlus:       "PLUS",
	KindMinus:      "MINUS",
	KindTimes:      "TIMES",
	KindDivide:     "DIVIDE",
	KindLParen:     "LPAREN",
	KindRParen:     "RPAREN",
}

var kindSymbols = [...]string{
	KindInt:    "int",
	KindAssign: "=",
	KindEnd:    ";",
	KindPlus:   "+",
	KindMinus:  "-",
	KindTimes:  "*",
	KindDivide: "/",
	KindLParen: "(",
	KindRParen: ")",
}

// String returns the category name, e.g. "IDENTIFIER".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// Symbol returns the fixed spelling of punctuation and keyword kinds, or
// "" for kinds whose text varies.
func (k Kind) Symbol() string {
	if k < 0 || int(k) >= len(kindSymbols) {
		return ""
	}
	return kindSymbols[k]
}

// Token is a classified piece of source text. Tokens are values and are
// never modified after the lexer creates them.
type Token struct {
	Kind Kind
	// Text is the matched source text, e.g. "007" for the number 7.
	Text string
	// Number holds the value of a KindNumber token.
	Number int64
	// Line is 1-based.
	Line int
	// Column is the 0-based byte offset from the start of Line.
	Column int
	// Offset is the byte offset of the token in the source.
	Offset int
}

// Value returns the number for numeric tokens and the raw text otherwise.
func (t Token) Value() interface{} {
	if t.Kind == KindNumber {
		return t.Number
	}
	return t.Text
}

// String renders the token as (KIND, value, line, column), quoting text values.
func (t Token) String() string {
	if t.Kind == KindNumber {
		return fmt.Sprintf("('%s', %d, %d, %d)", t.Kind, t.Number, t.Line, t.Column)
	}
	return fmt.Sprintf("('%s', '%s', %d, %d)", t.Kind, t.Text, t.Line, t.Column)
}

// Is reports whether the token has one of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}
