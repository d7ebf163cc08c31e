package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/lexer"
	"github.com/msto63/ccp/internal/tui"
)

// SuccessMessage is printed when a source is accepted
const SuccessMessage = "Parsing completed successfully."

// Options controls Write
type Options struct {
	Format     Format
	ShowTokens bool
	Color      tui.ColorMode
}

// Write renders res to w in the requested format
func Write(w io.Writer, res *frontend.Result, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(New(res, opts.ShowTokens))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(New(res, opts.ShowTokens)); err != nil {
			return err
		}
		return enc.Close()
	case FormatStyled:
		r := lipgloss.NewRenderer(w)
		tui.ApplyColorMode(r, opts.Color)
		_, err := io.WriteString(w, Styled(res, opts.ShowTokens, tui.NewStyles(r)))
		return err
	default:
		_, err := io.WriteString(w, Text(res, opts.ShowTokens))
		return err
	}
}

// Text renders res in the plain line format: the token listing, a blank
// line and the verdict. A lexical failure prints only the error.
func Text(res *frontend.Result, showTokens bool) string {
	var b strings.Builder
	if showTokens && res.Outcome != frontend.OutcomeLexical && res.Outcome != frontend.OutcomeRejected {
		b.WriteString("Tokens:\n")
		for _, tok := range res.Tokens {
			b.WriteString(tok.String())
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	b.WriteString(Verdict(res))
	b.WriteByte('\n')
	return b.String()
}

// Verdict is the single-line summary of res
func Verdict(res *frontend.Result) string {
	if res.Err == nil {
		return SuccessMessage
	}
	return "Error: " + Message(res.Err)
}

// Styled renders res with the given styles, adding a source excerpt that
// points at the failing position.
func Styled(res *frontend.Result, showTokens bool, s tui.Styles) string {
	var b strings.Builder

	if showTokens && len(res.Tokens) > 0 {
		b.WriteString(s.Title.Render(fmt.Sprintf("Tokens (%d)", len(res.Tokens))))
		b.WriteByte('\n')
		for _, tok := range res.Tokens {
			b.WriteString(s.TokenKind.Render(tok.Kind.String()))
			b.WriteString(styleValue(tok, s))
			b.WriteString("  ")
			b.WriteString(s.Position.Render(fmt.Sprintf("%d:%d", tok.Line, tok.Column)))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	if res.Err == nil {
		b.WriteString(s.StatusOK.Render("✓ " + SuccessMessage))
		if len(res.Symbols) > 0 {
			b.WriteByte('\n')
			b.WriteString(s.Subtitle.Render("declared: " + strings.Join(res.Symbols, ", ")))
		}
		b.WriteByte('\n')
		return b.String()
	}

	b.WriteString(s.StatusError.Render("✗ Error: " + Message(res.Err)))
	b.WriteByte('\n')
	if line, column, ok := Diagnose(res.Err).position(); ok {
		if text := excerpt(res.Source, line); text != "" {
			gutter := fmt.Sprintf("%4d | ", line)
			b.WriteString(s.Position.Render(gutter))
			b.WriteString(text)
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", len(gutter)))
			b.WriteString(indent(text, column))
			b.WriteString(s.Pointer.Render("^"))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func styleValue(tok lexer.Token, s tui.Styles) string {
	text := fmt.Sprint(tok.Value())
	switch tok.Kind {
	case lexer.KindInt:
		return s.TokenKeyword.Render(text)
	case lexer.KindNumber, lexer.KindIdentifier:
		return s.TokenLiteral.Render(text)
	default:
		return s.TokenOperator.Render(text)
	}
}

// indent returns blanks covering the first column bytes of text, keeping
// tabs so the pointer lines up.
func indent(text string, column int) string {
	if column > len(text) {
		column = len(text)
	}
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, text[:column])
}
