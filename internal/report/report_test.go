package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	mdwlog "github.com/msto63/ccp/foundation/core/log"
	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/tui"
)

func check(t *testing.T, source string) *frontend.Result {
	t.Helper()
	return frontend.New(frontend.Options{Logger: mdwlog.Discard()}).Check(context.Background(), source)
}

func TestText(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		showTokens bool
		expected   string
	}{
		{
			name:       "Accepted with tokens",
			source:     "int x;\nx = 5;\n",
			showTokens: true,
			expected: "Tokens:\n" +
				"('INT', 'int', 1, 0)\n" +
				"('IDENTIFIER', 'x', 1, 4)\n" +
				"('END', ';', 1, 5)\n" +
				"('IDENTIFIER', 'x', 2, 0)\n" +
				"('ASSIGN', '=', 2, 2)\n" +
				"('NUMBER', 5, 2, 4)\n" +
				"('END', ';', 2, 5)\n" +
				"\n" +
				"Parsing completed successfully.\n",
		},
		{
			name:     "Accepted without tokens",
			source:   "int x;",
			expected: "Parsing completed successfully.\n",
		},
		{
			name:     "Name error",
			source:   "y = 3;\n",
			expected: "Error: Variable y not declared\n",
		},
		{
			name:       "Syntax error keeps the token listing",
			source:     "(1+2;",
			showTokens: true,
			expected: "Tokens:\n" +
				"('LPAREN', '(', 1, 0)\n" +
				"('NUMBER', 1, 1, 1)\n" +
				"('PLUS', '+', 1, 2)\n" +
				"('NUMBER', 2, 1, 3)\n" +
				"('END', ';', 1, 4)\n" +
				"\n" +
				"Error: Expected RPAREN at ('END', ';', 1, 4)\n",
		},
		{
			name:       "Lexical error prints only the error",
			source:     "x = 5 & 3;",
			showTokens: true,
			expected:   "Error: '&' unexpected on line 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(check(t, tt.source), tt.showTokens); got != tt.expected {
				t.Errorf("Text() =\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

func TestStyled(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	tui.ApplyColorMode(r, tui.ColorNever)
	styles := tui.NewStyles(r)

	out := Styled(check(t, "int x;\n\tx = 1 + ;"), true, styles)

	for _, want := range []string{"Tokens (8)", "INT", "1:4", "✗ Error: Expected factor at ('END', ';', 2, 9)", "   2 | \tx = 1 + ;"} {
		if !strings.Contains(out, want) {
			t.Errorf("Styled() missing %q in:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "\n       \t        ^\n") {
		t.Errorf("Styled() pointer misplaced:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Styled() with ColorNever should not emit ANSI sequences")
	}

	ok := Styled(check(t, "int a; int b;"), false, styles)
	if !strings.Contains(ok, "✓ "+SuccessMessage) || !strings.Contains(ok, "declared: a, b") {
		t.Errorf("Styled() success output = %q", ok)
	}
}

func TestWrite_JSON(t *testing.T) {
	res := check(t, "int x; x = y;")

	var buf bytes.Buffer
	if err := Write(&buf, res, Options{Format: FormatJSON, ShowTokens: true}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.RunID != res.RunID || got.OK || got.Outcome != "name" {
		t.Errorf("report = %+v", got)
	}
	if len(got.Tokens) != 7 || got.Tokens[1].Kind != "IDENTIFIER" {
		t.Errorf("Tokens = %+v", got.Tokens)
	}
	if got.Error == nil || got.Error.Identifier != "y" || got.Error.Code != "NAME" || got.Error.Column != 11 {
		t.Errorf("Error = %+v", got.Error)
	}
	if got.Error.Message != "Variable y not declared" {
		t.Errorf("Error.Message = %q", got.Error.Message)
	}
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, check(t, "1 + @;"), Options{Format: FormatYAML}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got Report
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if got.Outcome != "lexical" || got.Error == nil || got.Error.Character != "@" || got.Error.Column != 4 {
		t.Errorf("report = %+v, error = %+v", got, got.Error)
	}
	if got.Tokens != nil {
		t.Error("tokens should be omitted without ShowTokens")
	}
}

func TestWrite_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, check(t, ""), Options{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.String() != SuccessMessage+"\n" {
		t.Errorf("Write() = %q", buf.String())
	}
}

func TestDiagnose(t *testing.T) {
	if Diagnose(nil) != nil {
		t.Error("Diagnose(nil) should be nil")
	}

	d := Diagnose(check(t, "int x; x = 1 + ;").Err)
	if d.Kind != "syntax" || d.Expected != "factor" || d.Line != 1 || d.Column != 15 {
		t.Errorf("Diagnose() = %+v", d)
	}

	rejected := frontend.New(frontend.Options{Logger: mdwlog.Discard(), MaxSourceBytes: 2}).
		Check(context.Background(), "int x;")
	d = Diagnose(rejected.Err)
	if d.Kind != "rejected" || d.Code != "INVALID_INPUT" {
		t.Errorf("Diagnose() = %+v", d)
	}
	if !strings.HasPrefix(d.Message, "source exceeds maximum length") {
		t.Errorf("Message = %q", d.Message)
	}
	if _, _, ok := d.position(); ok {
		t.Error("rejected diagnostic should have no position")
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "styled", "JSON", " yaml "} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("html"); err == nil {
		t.Error("ParseFormat(html) expected error")
	}
}
