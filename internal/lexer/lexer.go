// Package lexer turns source text into an ordered sequence of tokens.
//
// Whitespace and line breaks separate tokens and are dropped. Any character
// outside the token categories stops the scan with a *LexicalError.
package lexer

import (
	"strconv"
	"unicode/utf8"
)

// Lexer scans one source text. It is not safe for concurrent use; create
// one per source.
type Lexer struct {
	src       string
	pos       int
	line      int
	lineStart int
	err       error
}

// New creates a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Next returns the next token. ok is false at the end of input or after
// an error; Err reports which.
func (l *Lexer) Next() (tok Token, ok bool) {
	for l.err == nil && l.pos < len(l.src) {
		loc := matcher.FindStringSubmatchIndex(l.src[l.pos:])
		if loc == nil {
			// Unreachable while MISMATCH is the last rule.
			r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
			l.err = l.errorAt(l.pos, r, string(r), ReasonUnexpectedChar)
			return Token{}, false
		}

		idx := matchedRule(loc)
		start, end := l.pos+loc[0], l.pos+loc[1]
		text := l.src[start:end]
		column := start - l.lineStart
		l.pos = end

		switch r := rules[idx]; r.action {
		case skip:
			continue
		case newline:
			l.line++
			l.lineStart = end
			continue
		case mismatch:
			ch, _ := utf8.DecodeRuneInString(text)
			l.err = l.errorAt(start, ch, text, ReasonUnexpectedChar)
			return Token{}, false
		default:
			tok = Token{
				Kind:   r.kind,
				Text:   text,
				Line:   l.line,
				Column: column,
				Offset: start,
			}
			switch r.kind {
			case KindIdentifier:
				tok.Kind = lookupIdent(text)
			case KindNumber:
				n, err := strconv.ParseInt(text, 10, 64)
				if err != nil {
					ch, _ := utf8.DecodeRuneInString(text)
					l.err = l.errorAt(start, ch, text, ReasonNumberRange)
					return Token{}, false
				}
				tok.Number = n
			}
			return tok, true
		}
	}
	return Token{}, false
}

// Err returns the error that stopped the scan, if any.
func (l *Lexer) Err() error {
	return l.err
}

// Line returns the current line number.
func (l *Lexer) Line() int {
	return l.line
}

// Tokenize returns all tokens of the input, or the first lexical error.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	if l.err != nil {
		return nil, l.err
	}
	return tokens, nil
}

// Tokenize is a convenience function that scans src in one go.
func Tokenize(src string) ([]Token, error) {
	return New(src).Tokenize()
}

func (l *Lexer) errorAt(offset int, ch rune, text string, reason Reason) *LexicalError {
	return &LexicalError{
		Char:   ch,
		Text:   text,
		Line:   l.line,
		Column: offset - l.lineStart,
		Reason: reason,
	}
}

// matchedRule returns the index of the rule whose group took part in the
// match described by loc.
func matchedRule(loc []int) int {
	for i := range rules {
		if loc[2*(i+1)] >= 0 {
			return i
		}
	}
	return len(rules) - 1
}
