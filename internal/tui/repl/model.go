package repl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/report"
	"github.com/msto63/ccp/internal/tui"
)

// entry is one submitted program and its rendered result
type entry struct {
	source    string
	result    *frontend.Result
	timestamp time.Time
}

// resultMsg carries a finished check back into Update
type resultMsg struct {
	entry entry
}

// Model is the Bubbletea model of the interactive front end
type Model struct {
	// State
	width  int
	height int
	ready  bool
	busy   bool

	// Components
	textarea textarea.Model
	viewport viewport.Model
	styles   tui.Styles

	entries []entry
	cfg     Config
}

// New creates the model
func New(cfg Config) Model {
	styles := tui.DefaultStyles

	ta := textarea.New()
	ta.Placeholder = "int x;  (Enter on an empty line checks the program)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(6)
	ta.ShowLineNumbers = true
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = styles.FocusedInput
	ta.BlurredStyle.Base = styles.Input

	return Model{
		textarea: ta,
		styles:   styles,
		cfg:      cfg,
	}
}

// Init starts the cursor blink
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles input and finished checks
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := m.textarea.Height() + 4
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = viewportHeight
		}
		m.textarea.SetWidth(msg.Width - 4)
		m.updateViewportContent()
		return m, nil

	case resultMsg:
		m.busy = false
		m.entries = append(m.entries, msg.entry)
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.entries = nil
		m.updateViewportContent()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil

	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		value := m.textarea.Value()
		if onEmptyLine(value) {
			src := strings.TrimRight(value, "\n")
			if strings.TrimSpace(src) == "" {
				m.textarea.Reset()
				return m, nil
			}
			m.textarea.Reset()
			m.busy = true
			return m, m.check(src)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// check runs the pipeline outside of Update
func (m Model) check(src string) tea.Cmd {
	checker, onResult := m.cfg.Checker, m.cfg.OnResult
	return func() tea.Msg {
		res := checker.Check(context.Background(), src)
		if onResult != nil {
			onResult(res)
		}
		return resultMsg{entry: entry{source: src, result: res, timestamp: time.Now()}}
	}
}

// onEmptyLine reports whether the last line of value is empty, which is
// where Enter submits the program.
func onEmptyLine(value string) bool {
	i := strings.LastIndexByte(value, '\n')
	return strings.TrimSpace(value[i+1:]) == ""
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	var content strings.Builder
	for i, e := range m.entries {
		content.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("#%d  %s", i+1, e.timestamp.Format("15:04:05"))))
		content.WriteString("\n")
		content.WriteString(e.source)
		content.WriteString("\n\n")
		content.WriteString(report.Styled(e.result, m.cfg.Report.ShowTokens, m.styles))
		content.WriteString("\n")
	}
	m.viewport.SetContent(content.String())
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("ccp"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHelpBar() string {
	items := []string{
		"Enter on empty line: check",
		"PgUp/PgDn: scroll",
		"Ctrl+L: clear",
		"Esc: quit",
	}
	return m.styles.Help.Render(strings.Join(items, "  "))
}

// Run starts the full-screen front end and blocks until the user quits
func Run(cfg Config) error {
	_, err := tea.NewProgram(New(cfg), tea.WithAltScreen()).Run()
	return err
}
