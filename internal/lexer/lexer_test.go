package lexer

import (
	"errors"
	"strings"
	"testing"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "Declaration and assignment",
			input: "int x;\nx = 5;\n",
			expected: []Token{
				{Kind: KindInt, Text: "int", Line: 1, Column: 0, Offset: 0},
				{Kind: KindIdentifier, Text: "x", Line: 1, Column: 4, Offset: 4},
				{Kind: KindEnd, Text: ";", Line: 1, Column: 5, Offset: 5},
				{Kind: KindIdentifier, Text: "x", Line: 2, Column: 0, Offset: 7},
				{Kind: KindAssign, Text: "=", Line: 2, Column: 2, Offset: 9},
				{Kind: KindNumber, Text: "5", Number: 5, Line: 2, Column: 4, Offset: 11},
				{Kind: KindEnd, Text: ";", Line: 2, Column: 5, Offset: 12},
			},
		},
		{
			name:  "All operators",
			input: "(a+b)-c*d/e",
			expected: []Token{
				{Kind: KindLParen, Text: "(", Line: 1, Column: 0, Offset: 0},
				{Kind: KindIdentifier, Text: "a", Line: 1, Column: 1, Offset: 1},
				{Kind: KindPlus, Text: "+", Line: 1, Column: 2, Offset: 2},
				{Kind: KindIdentifier, Text: "b", Line: 1, Column: 3, Offset: 3},
				{Kind: KindRParen, Text: ")", Line: 1, Column: 4, Offset: 4},
				{Kind: KindMinus, Text: "-", Line: 1, Column: 5, Offset: 5},
				{Kind: KindIdentifier, Text: "c", Line: 1, Column: 6, Offset: 6},
				{Kind: KindTimes, Text: "*", Line: 1, Column: 7, Offset: 7},
				{Kind: KindIdentifier, Text: "d", Line: 1, Column: 8, Offset: 8},
				{Kind: KindDivide, Text: "/", Line: 1, Column: 9, Offset: 9},
				{Kind: KindIdentifier, Text: "e", Line: 1, Column: 10, Offset: 10},
			},
		},
		{
			name:  "Keyword needs a whole word",
			input: "integer int_x int",
			expected: []Token{
				{Kind: KindIdentifier, Text: "integer", Line: 1, Column: 0, Offset: 0},
				{Kind: KindIdentifier, Text: "int_x", Line: 1, Column: 8, Offset: 8},
				{Kind: KindInt, Text: "int", Line: 1, Column: 14, Offset: 14},
			},
		},
		{
			name:  "Number before identifier",
			input: "12abc 007",
			expected: []Token{
				{Kind: KindNumber, Text: "12", Number: 12, Line: 1, Column: 0, Offset: 0},
				{Kind: KindIdentifier, Text: "abc", Line: 1, Column: 2, Offset: 2},
				{Kind: KindNumber, Text: "007", Number: 7, Line: 1, Column: 6, Offset: 6},
			},
		},
		{
			name:  "Tabs and CRLF",
			input: "\ta\r\n  b",
			expected: []Token{
				{Kind: KindIdentifier, Text: "a", Line: 1, Column: 1, Offset: 1},
				{Kind: KindIdentifier, Text: "b", Line: 2, Column: 2, Offset: 6},
			},
		},
		{
			name:  "Largest int64",
			input: "9223372036854775807",
			expected: []Token{
				{Kind: KindNumber, Text: "9223372036854775807", Number: 9223372036854775807, Line: 1, Column: 0, Offset: 0},
			},
		},
		{
			name:     "Blank lines only",
			input:    "\n\n  \t\n",
			expected: nil,
		},
		{
			name:     "Empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if len(tokens) != len(tt.expected) {
				t.Fatalf("Tokenize() returned %d tokens, want %d: %v", len(tokens), len(tt.expected), tokens)
			}
			for i, want := range tt.expected {
				if tokens[i] != want {
					t.Errorf("token %d = %+v, want %+v", i, tokens[i], want)
				}
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantChar   rune
		wantLine   int
		wantColumn int
		wantReason Reason
		wantMsg    string
	}{
		{
			name:       "Ampersand",
			input:      "x = 5 & 3;",
			wantChar:   '&',
			wantLine:   1,
			wantColumn: 6,
			wantReason: ReasonUnexpectedChar,
			wantMsg:    "'&' unexpected on line 1",
		},
		{
			name:       "Second line",
			input:      "int x;\nx = @;",
			wantChar:   '@',
			wantLine:   2,
			wantColumn: 4,
			wantReason: ReasonUnexpectedChar,
			wantMsg:    "'@' unexpected on line 2",
		},
		{
			name:       "Non-ASCII character",
			input:      "x = é;",
			wantChar:   'é',
			wantLine:   1,
			wantColumn: 4,
			wantReason: ReasonUnexpectedChar,
			wantMsg:    "'é' unexpected on line 1",
		},
		{
			name:       "Lone carriage return",
			input:      "a\rb",
			wantChar:   '\r',
			wantLine:   1,
			wantColumn: 1,
			wantReason: ReasonUnexpectedChar,
		},
		{
			name:       "Number overflow",
			input:      "y = 9223372036854775808;",
			wantChar:   '9',
			wantLine:   1,
			wantColumn: 4,
			wantReason: ReasonNumberRange,
			wantMsg:    "number 9223372036854775808 out of range on line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("Tokenize() = %v, want error", tokens)
			}
			if tokens != nil {
				t.Errorf("Tokenize() should return no tokens on error, got %v", tokens)
			}

			var lexErr *LexicalError
			if !errors.As(err, &lexErr) {
				t.Fatalf("error type = %T, want *LexicalError", err)
			}
			if lexErr.Char != tt.wantChar {
				t.Errorf("Char = %q, want %q", lexErr.Char, tt.wantChar)
			}
			if lexErr.Line != tt.wantLine || lexErr.Column != tt.wantColumn {
				t.Errorf("position = %d:%d, want %d:%d", lexErr.Line, lexErr.Column, tt.wantLine, tt.wantColumn)
			}
			if lexErr.Reason != tt.wantReason {
				t.Errorf("Reason = %v, want %v", lexErr.Reason, tt.wantReason)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
			if mdwerror.GetCode(err) != mdwerror.CodeLexical {
				t.Errorf("GetCode() = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeLexical)
			}
		})
	}
}

func TestLexerStopsAtFirstError(t *testing.T) {
	l := New("a b $ c # d")

	var kinds []string
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		kinds = append(kinds, tok.Text)
	}

	if got := strings.Join(kinds, ","); got != "a,b" {
		t.Errorf("tokens before error = %q, want a,b", got)
	}
	var lexErr *LexicalError
	if !errors.As(l.Err(), &lexErr) || lexErr.Char != '$' {
		t.Fatalf("Err() = %v, want error on '$'", l.Err())
	}
	if _, ok := l.Next(); ok {
		t.Error("Next() after an error should keep returning false")
	}
}

func TestTokenOrderAndCoverage(t *testing.T) {
	sources := []string{
		"int x;\nx = 5;\n",
		"int a; int b;\n a = (1 + 2) * 3;\n\tb = a / 4 - 1;",
		"1+2+3+4;",
		"  int   total_1 ;\r\n\r\ntotal_1=total_1*10;  \n",
	}

	strip := func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}

	for _, src := range sources {
		tokens, err := Tokenize(src)
		if err != nil {
			t.Fatalf("Tokenize(%q) error = %v", src, err)
		}

		var joined strings.Builder
		for i, tok := range tokens {
			joined.WriteString(tok.Text)
			if src[tok.Offset:tok.Offset+len(tok.Text)] != tok.Text {
				t.Errorf("%q: token %d text %q does not match source at offset %d", src, i, tok.Text, tok.Offset)
			}
			if i == 0 {
				continue
			}
			prev := tokens[i-1]
			if tok.Line < prev.Line || (tok.Line == prev.Line && tok.Column <= prev.Column) {
				t.Errorf("%q: token %d %v not after %v", src, i, tok, prev)
			}
		}

		if want := strings.Map(strip, src); joined.String() != want {
			t.Errorf("joined tokens = %q, want %q", joined.String(), want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind   Kind
		name   string
		symbol string
	}{
		{KindEOF, "EOF", ""},
		{KindNumber, "NUMBER", ""},
		{KindIdentifier, "IDENTIFIER", ""},
		{KindInt, "INT", "int"},
		{KindAssign, "ASSIGN", "="},
		{KindEnd, "END", ";"},
		{KindPlus, "PLUS", "+"},
		{KindMinus, "MINUS", "-"},
		{KindTimes, "TIMES", "*"},
		{KindDivide, "DIVIDE", "/"},
		{KindLParen, "LPAREN", "("},
		{KindRParen, "RPAREN", ")"},
		{Kind(42), "UNKNOWN", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.kind.Symbol(); got != tt.symbol {
				t.Errorf("Symbol() = %q, want %q", got, tt.symbol)
			}
		})
	}
}

func TestToken_String(t *testing.T) {
	tests := []struct {
		token Token
		want  string
	}{
		{Token{Kind: KindNumber, Text: "5", Number: 5, Line: 2, Column: 4}, "('NUMBER', 5, 2, 4)"},
		{Token{Kind: KindIdentifier, Text: "x", Line: 1, Column: 4}, "('IDENTIFIER', 'x', 1, 4)"},
		{Token{Kind: KindEnd, Text: ";", Line: 1, Column: 15}, "('END', ';', 1, 15)"},
	}

	for _, tt := range tests {
		if got := tt.token.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	num := Token{Kind: KindNumber, Text: "007", Number: 7}
	if v, ok := num.Value().(int64); !ok || v != 7 {
		t.Errorf("Value() = %v, want int64 7", num.Value())
	}
	if v := (Token{Kind: KindIdentifier, Text: "x"}).Value(); v != "x" {
		t.Errorf("Value() = %v, want x", v)
	}
}

func TestIsKeyword(t *testing.T) {
	if !IsKeyword("int") {
		t.Error("int should be a keyword")
	}
	for _, s := range []string{"INT", "integer", "x", ""} {
		if IsKeyword(s) {
			t.Errorf("%q should not be a keyword", s)
		}
	}
}
