package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harrisonrobin/clockit/pkg/session"
)

func (a *App) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if a.email.Focused() {
			return a, a.focusAuth(1)
		}
		return a, a.focusAuth(0)
	case "ctrl+r":
		a.authMode = a.authMode.Toggle()
		return a, nil
	case "enter":
		return a, a.submitAuth()
	}
	return a.updateAuthInputs(msg)
}

func (a *App) focusAuth(i int) tea.Cmd {
	if i == 0 {
		a.password.Blur()
		return a.email.Focus()
	}
	a.email.Blur()
	return a.password.Focus()
}

func (a *App) updateAuthInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var emailCmd, passwordCmd tea.Cmd
	a.email, emailCmd = a.email.Update(msg)
	a.password, passwordCmd = a.password.Update(msg)
	return a, tea.Batch(emailCmd, passwordCmd)
}

// submitAuth runs the workflow off the update loop. Nothing stops a second
// submission while one is in flight; each result is applied as it arrives.
func (a *App) submitAuth() tea.Cmd {
	mode, email, password := a.authMode, a.email.Value(), a.password.Value()
	workflow := a.deps.Workflow
	a.authBusy = true
	return func() tea.Msg {
		return authResultMsg{outcome: workflow.Submit(context.Background(), mode, email, password)}
	}
}

func (a *App) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	out := msg.outcome
	a.authBusy = false
	a.notice = out.Notice
	a.authMode = out.Mode
	if a.Route() != session.RouteAuth {
		return a, nil
	}
	out.Apply(a.history)
	if a.Route() != session.RouteAuth {
		a.password.Reset()
	}
	return a, nil
}

func (a *App) authView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ClockIt"))
	b.WriteString("\n\n")
	b.WriteString(taskTitleStyle.Render(a.authMode.String()))
	b.WriteString("\n\n")
	b.WriteString(a.email.View())
	b.WriteString("\n")
	b.WriteString(a.password.View())
	b.WriteString("\n\n")
	if a.authBusy {
		b.WriteString(dimStyle.Render("Working..."))
		b.WriteString("\n")
	}
	switch a.authMode {
	case session.ModeRegister:
		b.WriteString(dimStyle.Render("enter register • ctrl+r already have an account? Login"))
	default:
		b.WriteString(dimStyle.Render("enter login • ctrl+r don't have an account? Register"))
	}
	return b.String()
}
