package login

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blastline/console/internal/api"
)

func typeInto(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestSubmitValidation(t *testing.T) {
	m := New(nil)
	m.Width, m.Height = 80, 24

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("empty form must not submit")
	}
	if !strings.Contains(m.View(), "Email and password are required.") {
		t.Error("validation error not rendered")
	}

	m = typeInto(m, "jane@acme.io")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "s3cret")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("complete form must submit")
	}
}

func TestResultHandling(t *testing.T) {
	m := New(nil)
	m.Width, m.Height = 80, 24

	m, cmd := m.Update(resultMsg{err: &api.Error{StatusCode: 401, Message: "Invalid credentials"}})
	if cmd != nil {
		t.Fatal("failure must not emit AuthenticatedMsg")
	}
	if !strings.Contains(m.View(), "Invalid credentials") {
		t.Error("backend message not shown")
	}

	// Transport errors fall back to the generic banner.
	m, _ = m.Update(resultMsg{err: errors.New("dial tcp: connection refused")})
	if !strings.Contains(m.View(), "Invalid credentials. Please try again.") {
		t.Error("fallback message not shown")
	}

	m, cmd = m.Update(resultMsg{resp: &api.AuthResponse{
		Token: "tok",
		User:  api.User{ID: 5, Email: "jane@acme.io"},
	}})
	if cmd == nil {
		t.Fatal("success must notify the app")
	}
	auth, ok := cmd().(AuthenticatedMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want AuthenticatedMsg", cmd())
	}
	if auth.Token != "tok" || auth.User.ID != 5 {
		t.Errorf("unexpected payload: %+v", auth)
	}
}

func TestSwitchToRegister(t *testing.T) {
	m := New(nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil {
		t.Fatal("ctrl+r must emit a switch message")
	}
	if _, ok := cmd().(SwitchToRegisterMsg); !ok {
		t.Fatalf("cmd produced %T, want SwitchToRegisterMsg", cmd())
	}
}
