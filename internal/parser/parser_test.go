package parser

import (
	"errors"
	"testing"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	"github.com/msto63/ccp/internal/lexer"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error = %v", src, err)
	}
	return tokens
}

func TestParser_Accepts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		symbols []string
	}{
		{"Empty program", "", nil},
		{"Declaration and assignment", "int x;\nx = 5;\n", []string{"x"}},
		{"Left-associative sums", "1+2+3+4;", nil},
		{"Left-associative products", "2*3/4*5;", nil},
		{"Nested parentheses", "((1));", nil},
		{"Mixed expression", "(1+2)*(3-4)/5;", nil},
		{"Identifiers in expressions", "int a; int b; a = 1; b = (a + 2) * a - 7 / a;", []string{"a", "b"}},
		{"Redeclaration is a no-op", "int x; int x; x = 1;", []string{"x"}},
		{"Multiline", "int total;\n\ttotal = 10\n  * 3;\n", []string{"total"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tokenize(t, tt.input))
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got := p.Symbols().Names()
			if len(got) != len(tt.symbols) {
				t.Fatalf("Symbols() = %v, want %v", got, tt.symbols)
			}
			for i := range got {
				if got[i] != tt.symbols[i] {
					t.Errorf("Symbols()[%d] = %q, want %q", i, got[i], tt.symbols[i])
				}
			}
		})
	}
}

func TestParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expected     string
		expectedKind lexer.Kind
		at           lexer.Token
		message      string
	}{
		{
			name:     "Missing factor after plus",
			input:    "int x; x = 1 + ;",
			expected: ExpectFactor,
			at:       lexer.Token{Kind: lexer.KindEnd, Text: ";", Line: 1, Column: 15, Offset: 15},
			message:  "Expected factor at ('END', ';', 1, 15)",
		},
		{
			name:         "Unbalanced parenthesis",
			input:        "(1+2;",
			expected:     "RPAREN",
			expectedKind: lexer.KindRParen,
			at:           lexer.Token{Kind: lexer.KindEnd, Text: ";", Line: 1, Column: 4, Offset: 4},
			message:      "Expected RPAREN at ('END', ';', 1, 4)",
		},
		{
			name:     "Statement starting with an operator",
			input:    "+ 1;",
			expected: ExpectStatement,
			at:       lexer.Token{Kind: lexer.KindPlus, Text: "+", Line: 1, Column: 0, Offset: 0},
		},
		{
			name:     "Stray close parenthesis",
			input:    "1;\n)",
			expected: ExpectStatement,
			at:       lexer.Token{Kind: lexer.KindRParen, Text: ")", Line: 2, Column: 0, Offset: 3},
		},
		{
			name:         "Declaration of a number",
			input:        "int 5;",
			expected:     "IDENTIFIER",
			expectedKind: lexer.KindIdentifier,
			at:           lexer.Token{Kind: lexer.KindNumber, Text: "5", Number: 5, Line: 1, Column: 4, Offset: 4},
		},
		{
			name:         "Keyword as a name",
			input:        "int int;",
			expected:     "IDENTIFIER",
			expectedKind: lexer.KindIdentifier,
			at:           lexer.Token{Kind: lexer.KindInt, Text: "int", Line: 1, Column: 4, Offset: 4},
		},
		{
			name:         "Declared name without assignment",
			input:        "int x; x;",
			expected:     "ASSIGN",
			expectedKind: lexer.KindAssign,
			at:           lexer.Token{Kind: lexer.KindEnd, Text: ";", Line: 1, Column: 8, Offset: 8},
		},
		{
			name:         "Two numbers",
			input:        "1 2;",
			expected:     "END",
			expectedKind: lexer.KindEnd,
			at:           lexer.Token{Kind: lexer.KindNumber, Text: "2", Number: 2, Line: 1, Column: 2, Offset: 2},
		},
		{
			name:         "Input ends inside a declaration",
			input:        "int x",
			expected:     "END",
			expectedKind: lexer.KindEnd,
			at:           lexer.Token{Kind: lexer.KindEOF, Line: 1, Column: 5, Offset: 5},
			message:      "Expected END at ('EOF', '', 1, 5)",
		},
		{
			name:     "Input ends after an operator",
			input:    "int x;\nx = 1 *",
			expected: ExpectFactor,
			at:       lexer.Token{Kind: lexer.KindEOF, Line: 2, Column: 7, Offset: 14},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Parse(tokenize(t, tt.input))
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("Parse() error = %v (%T), want *SyntaxError", err, err)
			}
			if synErr.Expected != tt.expected {
				t.Errorf("Expected = %q, want %q", synErr.Expected, tt.expected)
			}
			if synErr.ExpectedKind != tt.expectedKind {
				t.Errorf("ExpectedKind = %v, want %v", synErr.ExpectedKind, tt.expectedKind)
			}
			if synErr.Token != tt.at {
				t.Errorf("Token = %+v, want %+v", synErr.Token, tt.at)
			}
			if tt.message != "" && err.Error() != tt.message {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.message)
			}
			if mdwerror.GetCode(err) != mdwerror.CodeSyntax {
				t.Errorf("GetCode() = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeSyntax)
			}
		})
	}
}

func TestParser_NameErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		identifier string
		line       int
		column     int
		consumed   int
	}{
		{"Assignment without declaration", "y = 3;\n", "y", 1, 0, 0},
		{"Use before declaration", "x = 1; int x;", "x", 1, 0, 0},
		{"Undeclared name in expression", "int x; x = y + 1;", "y", 1, 11, 5},
		{"Undeclared name in expression statement", "int x;\n(x + z);", "z", 2, 5, 6},
		{"Declaration comes too late", "int a;\na = b;\nint b;", "b", 2, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tokenize(t, tt.input))
			err := p.Parse()
			var nameErr *NameError
			if !errors.As(err, &nameErr) {
				t.Fatalf("Parse() error = %v (%T), want *NameError", err, err)
			}
			if nameErr.Identifier != tt.identifier {
				t.Errorf("Identifier = %q, want %q", nameErr.Identifier, tt.identifier)
			}
			if nameErr.Token.Line != tt.line || nameErr.Token.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", nameErr.Token.Line, nameErr.Token.Column, tt.line, tt.column)
			}
			if want := "Variable " + tt.identifier + " not declared"; err.Error() != want {
				t.Errorf("Error() = %q, want %q", err.Error(), want)
			}
			if p.Consumed() != tt.consumed {
				t.Errorf("Consumed() = %d, want %d", p.Consumed(), tt.consumed)
			}
			if mdwerror.GetCode(err) != mdwerror.CodeName {
				t.Errorf("GetCode() = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeName)
			}
		})
	}
}

func TestParser_ConsumesEverythingOnSuccess(t *testing.T) {
	tokens := tokenize(t, "int a;\na = 1 + 2 - 3 * 4 / (5 + a);\n")
	p := New(tokens)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Consumed() != len(tokens) {
		t.Errorf("Consumed() = %d, want %d", p.Consumed(), len(tokens))
	}
}

func TestParser_DoesNotModifyTokens(t *testing.T) {
	tokens := tokenize(t, "int x; x = (1 + 2;")
	before := make([]lexer.Token, len(tokens))
	copy(before, tokens)

	_ = Parse(tokens)

	for i := range tokens {
		if tokens[i] != before[i] {
			t.Errorf("token %d changed from %v to %v", i, before[i], tokens[i])
		}
	}
}

func TestCursor(t *testing.T) {
	c := newCursor(nil)
	if !c.atEnd() {
		t.Error("empty cursor should be at end")
	}
	if tok := c.peek(); tok.Kind != lexer.KindEOF || tok.Line != 1 || tok.Column != 0 {
		t.Errorf("peek() on empty input = %+v, want EOF at 1:0", tok)
	}

	tokens := tokenize(t, "ab\n  cd")
	c = newCursor(tokens)
	if got := c.advance(); got.Text != "ab" {
		t.Errorf("advance() = %v, want ab", got)
	}
	if got := c.advance(); got.Text != "cd" {
		t.Errorf("advance() = %v, want cd", got)
	}
	eof := c.advance()
	if eof.Kind != lexer.KindEOF || eof.Line != 2 || eof.Column != 4 {
		t.Errorf("advance() past end = %+v, want EOF at 2:4", eof)
	}
	if c.pos != len(tokens) {
		t.Errorf("pos = %d, want %d", c.pos, len(tokens))
	}
}
