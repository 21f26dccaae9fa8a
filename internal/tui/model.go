package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finn-mini/internal/models"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Chat(ctx context.Context, message string) (*models.ChatResponse, error)
}

type turn struct {
	user   bool
	text   string
	cites  []models.Citation
	safety models.SafetyFlags
	failed bool
}

type chatResultMsg struct {
	resp *models.ChatResponse
	err  error
}

// Model is the Bubble Tea model for the local chat client.
type Model struct {
	service  ChatPort
	timeout  time.Duration
	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	summary  string
	status   string
	pending  bool
	ready    bool
}

func New(service ChatPort, summary string, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about sleep, stress or hydration"
	ti.Focus()
	ti.CharLimit = 500
	return Model{
		service:  service,
		timeout:  timeout,
		input:    ti,
		viewport: viewport.New(0, 0),
		summary:  summary,
		status:   "Ready. Enter sends, Ctrl+C quits.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header+summary, status, input box, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil

	case chatResultMsg:
		m.pending = false
		if msg.err != nil {
			m.turns = append(m.turns, turn{text: "Error: " + msg.err.Error(), failed: true})
			m.status = "Request failed"
		} else {
			m.turns = append(m.turns, turn{
				text:   msg.resp.Reply,
				cites:  msg.resp.Citations,
				safety: msg.resp.Safety,
			})
			m.status = fmt.Sprintf("%d citation(s)", len(msg.resp.Citations))
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending {
				return m, nil
			}
			m.input.Reset()
			m.pending = true
			m.status = "Thinking..."
			m.turns = append(m.turns, turn{user: true, text: q})
			m.refresh()
			return m, m.ask(q)
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(q string) tea.Cmd {
	svc, timeout := m.service, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		resp, err := svc.Chat(ctx, q)
		return chatResultMsg{resp: resp, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Finn-mini")
	summary := dimStyle.Render(m.summary)
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return dimStyle.Render("No messages yet.")
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch {
		case t.user:
			b.WriteString(userStyle.Render("you: ") + t.text)
		case t.failed:
			b.WriteString(errorStyle.Render(t.text))
		case t.safety.Crisis || t.safety.OutOfScope:
			b.WriteString(safetyStyle.Render("finn: ") + t.text)
		default:
			b.WriteString(botStyle.Render("finn: ") + t.text)
		}
		for _, c := range t.cites {
			b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("  [%s] %s", c.ChunkID, c.Title)))
		}
	}
	return b.String()
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	safetyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
