package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finn-mini/internal/models"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeChat struct {
	resp *models.ChatResponse
	err  error
	got  []string
}

func (f *fakeChat) Chat(ctx context.Context, message string) (*models.ChatResponse, error) {
	f.got = append(f.got, message)
	return f.resp, f.err
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func send(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestModel_ChatRoundTrip(t *testing.T) {
	svc := &fakeChat{resp: &models.ChatResponse{
		Reply:     "Here are a few things to try:\n\n1. Keep a consistent sleep schedule",
		Citations: []models.Citation{{Title: "Sleep", ChunkID: "sleep.md#0"}},
	}}
	m := sized(t, New(svc, "1 chunk", time.Second))

	m, cmd := send(t, m, "  how can I sleep better ")
	if cmd == nil {
		t.Fatal("expected a chat command")
	}
	if !m.pending || m.input.Value() != "" {
		t.Errorf("expected pending state with cleared input")
	}

	next, _ := m.Update(cmd())
	m = next.(Model)

	if len(svc.got) != 1 || svc.got[0] != "how can I sleep better" {
		t.Errorf("service got %q", svc.got)
	}
	if m.pending {
		t.Error("pending should clear after reply")
	}
	out := m.renderTranscript()
	for _, want := range []string{"how can I sleep better", "Keep a consistent sleep schedule", "sleep.md#0"} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q:\n%s", want, out)
		}
	}
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	svc := &fakeChat{}
	m := sized(t, New(svc, "", 0))

	m, cmd := send(t, m, "   ")
	if cmd != nil || m.pending {
		t.Error("blank input should not send")
	}
}

func TestModel_Error(t *testing.T) {
	svc := &fakeChat{err: errors.New("embedder down")}
	m := sized(t, New(svc, "", 0))

	m, cmd := send(t, m, "sleep")
	next, _ := m.Update(cmd())
	m = next.(Model)

	if !strings.Contains(m.renderTranscript(), "embedder down") {
		t.Errorf("error not shown:\n%s", m.renderTranscript())
	}
	if m.status != "Request failed" {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_Quit(t *testing.T) {
	m := sized(t, New(&fakeChat{}, "", 0))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_ViewBeforeSize(t *testing.T) {
	if got := New(&fakeChat{}, "", 0).View(); got != "Loading..." {
		t.Errorf("View() = %q", got)
	}
}
