package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) handleActiveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "k", "up":
		if a.activeCursor > 0 {
			a.activeCursor--
		}
	case "j", "down":
		if a.activeCursor < a.deps.Store.Len()-1 {
			a.activeCursor++
		}
	case "d":
		tasks := a.deps.Store.All()
		if a.activeCursor < len(tasks) {
			return a, a.removeTask(tasks[a.activeCursor])
		}
	}
	return a, nil
}

func (a *App) activeView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Active"))
	b.WriteString("\n\n")
	tasks := a.deps.Store.All()
	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("No tasks"))
		b.WriteString("\n")
	}
	b.WriteString(taskList(tasks, a.activeCursor))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("j/k move • d delete • q quit"))
	return b.String()
}

func (a *App) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "o" {
		return a, nil
	}
	workflow := a.deps.Workflow
	return a, func() tea.Msg {
		return loggedOutMsg{err: workflow.Logout()}
	}
}

func (a *App) profileView() string {
	email := "Unknown User"
	if s := a.deps.Provider.CurrentUser(); s != nil && s.Email != "" {
		email = s.Email
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Your Profile"))
	b.WriteString("\n\n")
	b.WriteString(cardStyle.Render("Logged in as\n" + taskTitleStyle.Render(email)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("o logout • q quit"))
	return b.String()
}
