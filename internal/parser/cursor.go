package parser

import "github.com/msto63/ccp/internal/lexer"

// cursor is a read-only view over a token slice with a single forward-only
// position.
type cursor struct {
	tokens []lexer.Token
	pos    int
}

func newCursor(tokens []lexer.Token) *cursor {
	return &cursor{tokens: tokens}
}

// atEnd reports whether every token has been consumed.
func (c *cursor) atEnd() bool {
	return c.pos >= len(c.tokens)
}

// peek returns the current token, or a synthetic EOF token placed just
// after the last real token once the input is exhausted.
func (c *cursor) peek() lexer.Token {
	if c.atEnd() {
		return c.eof()
	}
	return c.tokens[c.pos]
}

// advance consumes the current token. It is a no-op at the end.
func (c *cursor) advance() lexer.Token {
	tok := c.peek()
	if !c.atEnd() {
		c.pos++
	}
	return tok
}

func (c *cursor) eof() lexer.Token {
	if len(c.tokens) == 0 {
		return lexer.Token{Kind: lexer.KindEOF, Line: 1}
	}
	last := c.tokens[len(c.tokens)-1]
	return lexer.Token{
		Kind:   lexer.KindEOF,
		Line:   last.Line,
		Column: last.Column + len(last.Text),
		Offset: last.Offset + len(last.Text),
	}
}
