// Package parser checks a token sequence against the statement grammar
// and enforces declare-before-use.
//
//	program     = { statement } .
//	statement   = declaration | assignment | expression ";" .
//	declaration = "int" identifier ";" .
//	assignment  = identifier "=" expression ";" .
//	expression  = term { ("+" | "-") term } .
//	term        = factor { ("*" | "/") factor } .
//	factor      = number | identifier | "(" expression ")" .
//
// The parser stops at the first failure and builds no tree; acceptance is
// its only result.
package parser

import (
	"github.com/msto63/ccp/internal/lexer"
)

// Parser runs one parse over one token sequence. It is not reusable and
// not safe for concurrent use.
type Parser struct {
	cur     *cursor
	symbols *SymbolSet
}

// New creates a parser over tokens with an empty symbol set.
func New(tokens []lexer.Token) *Parser {
	return &Parser{
		cur:     newCursor(tokens),
		symbols: NewSymbolSet(),
	}
}

// Parse is a convenience function that parses tokens with a fresh parser.
func Parse(tokens []lexer.Token) error {
	return New(tokens).Parse()
}

// Parse consumes statements until the tokens run out. It returns nil on
// acceptance, or a *SyntaxError or *NameError for the first failure.
func (p *Parser) Parse() error {
	for !p.cur.atEnd() {
		if err := p.statement(); err != nil {
			return err
		}
	}
	return nil
}

// Symbols returns the names declared so far.
func (p *Parser) Symbols() *SymbolSet {
	return p.symbols
}

// Consumed returns how many tokens the parser has read.
func (p *Parser) Consumed() int {
	return p.cur.pos
}

func (p *Parser) statement() error {
	switch p.cur.peek().Kind {
	case lexer.KindInt:
		return p.declaration()
	case lexer.KindIdentifier:
		return p.assignment()
	case lexer.KindNumber, lexer.KindLParen:
		if err := p.expression(); err != nil {
			return err
		}
		return p.expect(lexer.KindEnd)
	default:
		return p.expectedRule(ExpectStatement)
	}
}

func (p *Parser) declaration() error {
	if err := p.expect(lexer.KindInt); err != nil {
		return err
	}
	tok := p.cur.peek()
	if tok.Kind != lexer.KindIdentifier {
		return p.expected(lexer.KindIdentifier)
	}
	p.symbols.Declare(tok.Text)
	p.cur.advance()
	return p.expect(lexer.KindEnd)
}

func (p *Parser) assignment() error {
	if err := p.use(p.cur.peek()); err != nil {
		return err
	}
	p.cur.advance()
	if err := p.expect(lexer.KindAssign); err != nil {
		return err
	}
	if err := p.expression(); err != nil {
		return err
	}
	return p.expect(lexer.KindEnd)
}

func (p *Parser) expression() error {
	if err := p.term(); err != nil {
		return err
	}
	for p.cur.peek().Is(lexer.KindPlus, lexer.KindMinus) {
		p.cur.advance()
		if err := p.term(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) term() error {
	if err := p.factor(); err != nil {
		return err
	}
	for p.cur.peek().Is(lexer.KindTimes, lexer.KindDivide) {
		p.cur.advance()
		if err := p.factor(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) factor() error {
	tok := p.cur.peek()
	switch tok.Kind {
	case lexer.KindNumber:
		p.cur.advance()
		return nil
	case lexer.KindIdentifier:
		if err := p.use(tok); err != nil {
			return err
		}
		p.cur.advance()
		return nil
	case lexer.KindLParen:
		p.cur.advance()
		if err := p.expression(); err != nil {
			return err
		}
		return p.expect(lexer.KindRParen)
	default:
		return p.expectedRule(ExpectFactor)
	}
}

// use checks that an identifier token refers to a declared name.
func (p *Parser) use(tok lexer.Token) error {
	if !p.symbols.Declared(tok.Text) {
		return &NameError{Identifier: tok.Text, Token: tok}
	}
	return nil
}

// expect consumes the current token if it has kind k.
func (p *Parser) expect(k lexer.Kind) error {
	if p.cur.peek().Kind != k {
		return p.expected(k)
	}
	p.cur.advance()
	return nil
}

func (p *Parser) expected(k lexer.Kind) error {
	return &SyntaxError{Token: p.cur.peek(), Expected: k.String(), ExpectedKind: k}
}

func (p *Parser) expectedRule(nonterminal string) error {
	return &SyntaxError{Token: p.cur.peek(), Expected: nonterminal, ExpectedKind: lexer.KindEOF}
}
