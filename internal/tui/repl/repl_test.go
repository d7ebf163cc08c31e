package repl

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	mdwlog "github.com/msto63/ccp/foundation/core/log"
	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/report"
)

func TestReadProgram(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		programs []string
	}{
		{"Single program", "int x;\nx = 5;\n\n", []string{"int x;\nx = 5;"}},
		{"Two programs", "int x;\n\ny = 1;\n\n", []string{"int x;", "y = 1;"}},
		{"No trailing blank line", "int x;\nx = 1;", []string{"int x;\nx = 1;"}},
		{"CRLF input", "int x;\r\nx = 2;\r\n\r\n", []string{"int x;\nx = 2;"}},
		{"Leading blank line is an empty program", "\nint a;\n", []string{"", "int a;"}},
		{"Whitespace line is content", "int a;\n  \n\n", []string{"int a;\n  "}},
		{"Empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReader(strings.NewReader(tt.input))
			var got []string
			for {
				src, err := ReadProgram(br)
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("ReadProgram() error = %v", err)
				}
				got = append(got, src)
			}
			if len(got) != len(tt.programs) {
				t.Fatalf("programs = %q, want %q", got, tt.programs)
			}
			for i := range got {
				if got[i] != tt.programs[i] {
					t.Errorf("program %d = %q, want %q", i, got[i], tt.programs[i])
				}
			}
		})
	}
}

func testConfig(results *[]*frontend.Result) Config {
	return Config{
		Checker: frontend.New(frontend.Options{Logger: mdwlog.Discard()}),
		Report:  report.Options{Format: report.FormatText, ShowTokens: true},
		OnResult: func(res *frontend.Result) {
			*results = append(*results, res)
		},
	}
}

func TestRunLines(t *testing.T) {
	var results []*frontend.Result
	cfg := testConfig(&results)
	cfg.ShowPrompt = true

	var out bytes.Buffer
	in := strings.NewReader("int x;\nx = 5;\n\ny = 3;\n\n")
	if err := RunLines(context.Background(), in, &out, cfg); err != nil {
		t.Fatalf("RunLines() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].OK() || results[1].Outcome != frontend.OutcomeName {
		t.Errorf("outcomes = %v, %v", results[0].Outcome, results[1].Outcome)
	}

	text := out.String()
	for _, want := range []string{Prompt, "Tokens:\n('INT', 'int', 1, 0)", report.SuccessMessage, "Error: Variable y not declared"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, Prompt) != 3 {
		t.Errorf("prompt printed %d times, want 3", strings.Count(text, Prompt))
	}
}

func TestRunLines_Canceled(t *testing.T) {
	var results []*frontend.Result
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunLines(ctx, strings.NewReader("int x;\n\n"), io.Discard, testConfig(&results))
	if err != context.Canceled {
		t.Errorf("RunLines() error = %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Error("no program should be checked after cancellation")
	}
}

func typeText(m tea.Model, s string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func pressEnter(m tea.Model) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestModel_SubmitOnEmptyLine(t *testing.T) {
	var results []*frontend.Result
	var m tea.Model = New(testConfig(&results))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m = typeText(m, "int x;")
	m, _ = pressEnter(m)
	if m.(Model).busy {
		t.Fatal("Enter after a non-empty line should not submit")
	}
	if got := m.(Model).textarea.Value(); got != "int x;\n" {
		t.Fatalf("textarea value = %q, want newline inserted", got)
	}

	m = typeText(m, "x = 5;")
	m, _ = pressEnter(m)
	m, cmd := pressEnter(m)
	if cmd == nil {
		t.Fatal("Enter on an empty line should submit the program")
	}
	msg, ok := cmd().(resultMsg)
	if !ok {
		t.Fatalf("command returned %T, want resultMsg", msg)
	}
	if msg.entry.source != "int x;\nx = 5;" {
		t.Errorf("submitted source = %q", msg.entry.source)
	}
	if !msg.entry.result.OK() {
		t.Errorf("result = %v", msg.entry.result.Err)
	}
	if len(results) != 1 {
		t.Errorf("OnResult called %d times, want 1", len(results))
	}

	m, _ = m.Update(msg)
	model := m.(Model)
	if model.busy {
		t.Error("model should not be busy after the result arrived")
	}
	if len(model.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(model.entries))
	}
	if model.textarea.Value() != "" {
		t.Errorf("textarea should be cleared, got %q", model.textarea.Value())
	}
	if !strings.Contains(model.View(), report.SuccessMessage) {
		t.Error("view should show the verdict")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(m.(Model).entries) != 0 {
		t.Error("Ctrl+L should clear the history")
	}
}

func TestModel_EmptySubmitIgnored(t *testing.T) {
	var results []*frontend.Result
	var m tea.Model = New(testConfig(&results))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	m, cmd := pressEnter(m)
	if cmd != nil {
		t.Error("Enter on empty input should do nothing")
	}
	if m.(Model).busy {
		t.Error("model should not be busy")
	}
}

func TestModel_Quit(t *testing.T) {
	var results []*frontend.Result
	m := New(testConfig(&results))

	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("%v should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v returned %T, want tea.QuitMsg", key, cmd())
		}
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	var results []*frontend.Result
	if got := New(testConfig(&results)).View(); got != "Loading..." {
		t.Errorf("View() = %q", got)
	}
}
