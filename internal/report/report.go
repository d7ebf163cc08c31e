// Package report renders check results for people and programs.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/lexer"
	"github.com/msto63/ccp/internal/parser"
)

// Report is the serializable form of a check result
type Report struct {
	RunID     string      `json:"run_id" yaml:"run_id"`
	OK        bool        `json:"ok" yaml:"ok"`
	Outcome   string      `json:"outcome" yaml:"outcome"`
	Tokens    []Token     `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Symbols   []string    `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Error     *Diagnostic `json:"error,omitempty" yaml:"error,omitempty"`
	Durations Durations   `json:"durations" yaml:"durations"`
}

// Token is one token of the listing
type Token struct {
	Kind   string      `json:"kind" yaml:"kind"`
	Value  interface{} `json:"value" yaml:"value"`
	Line   int         `json:"line" yaml:"line"`
	Column int         `json:"column" yaml:"column"`
}

// Diagnostic describes why a source was not accepted
type Diagnostic struct {
	Kind       string `json:"kind" yaml:"kind"`
	Code       string `json:"code" yaml:"code"`
	Message    string `json:"message" yaml:"message"`
	Line       int    `json:"line" yaml:"line"`
	Column     int    `json:"column" yaml:"column"`
	Expected   string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Character  string `json:"character,omitempty" yaml:"character,omitempty"`
}

// Durations holds stage timings in milliseconds
type Durations struct {
	TokenizeMS float64 `json:"tokenize_ms" yaml:"tokenize_ms"`
	ParseMS    float64 `json:"parse_ms" yaml:"parse_ms"`
}

// New builds the report for res. Tokens are listed only if showTokens is set.
func New(res *frontend.Result, showTokens bool) *Report {
	r := &Report{
		RunID:   res.RunID,
		OK:      res.OK(),
		Outcome: res.Outcome.String(),
		Symbols: res.Symbols,
		Error:   Diagnose(res.Err),
		Durations: Durations{
			TokenizeMS: millis(res.Durations.Tokenize),
			ParseMS:    millis(res.Durations.Parse),
		},
	}
	if showTokens {
		r.Tokens = Tokens(res.Tokens)
	}
	return r
}

// Tokens converts lexer tokens to their listing form
func Tokens(tokens []lexer.Token) []Token {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		out[i] = Token{
			Kind:   tok.Kind.String(),
			Value:  tok.Value(),
			Line:   tok.Line,
			Column: tok.Column,
		}
	}
	return out
}

// Diagnose returns the diagnostic for err, or nil for a nil error
func Diagnose(err error) *Diagnostic {
	if err == nil {
		return nil
	}

	d := &Diagnostic{
		Kind:    frontend.Classify(err).String(),
		Code:    mdwerror.GetCode(err).String(),
		Message: Message(err),
	}

	var (
		lexErr  *lexer.LexicalError
		synErr  *parser.SyntaxError
		nameErr *parser.NameError
	)
	switch {
	case errors.As(err, &lexErr):
		d.Line, d.Column = lexErr.Line, lexErr.Column
		d.Character = string(lexErr.Char)
	case errors.As(err, &synErr):
		d.Line, d.Column = synErr.Token.Line, synErr.Token.Column
		d.Expected = synErr.Expected
	case errors.As(err, &nameErr):
		d.Line, d.Column = nameErr.Token.Line, nameErr.Token.Column
		d.Identifier = nameErr.Identifier
	}
	return d
}

// Message returns the user-facing text of err
func Message(err error) string {
	var coded *mdwerror.Error
	if errors.As(err, &coded) && !coded.Code().IsDiagnostic() {
		return coded.Message()
	}
	return err.Error()
}

// position returns the line and column a diagnostic points at, and whether
// it points anywhere.
func (d *Diagnostic) position() (line, column int, ok bool) {
	if d == nil || d.Line == 0 {
		return 0, 0, false
	}
	return d.Line, d.Column, true
}

// excerpt returns the given 1-based line of source, or "" if out of range.
func excerpt(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// Format names an output format
type Format string

const (
	FormatText   Format = "text"
	FormatStyled Format = "styled"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatStyled, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", mdwerror.New(fmt.Sprintf("unknown output format: %s", s)).
			WithCode(mdwerror.CodeInvalidInput)
	}
}
