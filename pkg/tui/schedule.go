package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/clockit/pkg/calendar"
	"github.com/harrisonrobin/clockit/pkg/task"
)

func (a *App) handleScheduleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "[":
		a.month = calendar.PreviousMonth(a.month)
	case "]":
		a.month = calendar.NextMonth(a.month)
	case "H":
		a.weekStart = calendar.PreviousWeek(a.weekStart)
	case "L":
		a.weekStart = calendar.NextWeek(a.weekStart)
	case "h", "left":
		a.selectInStrip(-1)
	case "l", "right":
		a.selectInStrip(1)
	case "k", "up":
		if a.taskCursor > 0 {
			a.taskCursor--
		}
	case "j", "down":
		if a.taskCursor < len(a.deps.Store.On(a.selected))-1 {
			a.taskCursor++
		}
	case "a":
		a.form = newTaskForm(a.selected)
		return a, a.form.focus(0)
	case "d":
		tasks := a.deps.Store.On(a.selected)
		if a.taskCursor < len(tasks) {
			return a, a.removeTask(tasks[a.taskCursor])
		}
	case "p":
		return a, a.publish(a.deps.Store.On(a.selected))
	}
	return a, nil
}

// selectInStrip moves the selected date within the visible week. It never
// moves the week itself. When the selection is outside the strip it lands on
// the strip's first or last day.
func (a *App) selectInStrip(delta int) {
	strip := calendar.WeekStrip(a.weekStart, a.deps.Locale)
	idx := -1
	for i, d := range strip {
		if d.Date == a.selected {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(strip) - 1
	default:
		idx = min(max(idx+delta, 0), len(strip)-1)
	}
	a.selected = strip[idx].Date
	a.taskCursor = 0
}

func (a *App) publish(tasks []task.Task) tea.Cmd {
	if a.deps.Publisher == nil {
		a.notice = "Calendar not connected. Run: clockit calendar-auth"
		return nil
	}
	if len(tasks) == 0 {
		a.notice = "Nothing to publish"
		return nil
	}
	publisher := a.deps.Publisher
	return func() tea.Msg {
		n, err := publisher.PublishAll(context.Background(), tasks)
		return publishedMsg{count: n, err: err}
	}
}

func (a *App) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.form = nil
		return a, nil
	case "tab", "down":
		return a, a.form.focus(a.form.focused + 1)
	case "shift+tab", "up":
		return a, a.form.focus(a.form.focused - 1)
	case "enter", "ctrl+s":
		if msg.String() == "enter" && a.form.focused < len(a.form.inputs)-1 {
			return a, a.form.focus(a.form.focused + 1)
		}
		t, err := a.form.task()
		if err != nil {
			a.notice = err.Error()
			return a, nil
		}
		a.deps.Store.Add(t)
		a.form = nil
		return a, nil
	}
	return a, a.form.update(msg)
}

func (a *App) scheduleView() string {
	var b strings.Builder

	b.WriteString(monthStyle.Render(calendar.DisplayLabel(a.month, a.deps.Locale)))
	b.WriteString("\n\n")

	strip := calendar.WeekStrip(a.weekStart, a.deps.Locale)
	cells := make([]string, 0, len(strip))
	for _, d := range strip {
		cell := fmt.Sprintf("%s\n%d", d.Label, d.DayOfMonth)
		if d.Date == a.selected {
			cells = append(cells, selectedDayStyle.Render(cell))
		} else {
			cells = append(cells, dayStyle.Render(cell))
		}
	}
	b.WriteString("◀ ")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	b.WriteString(" ▶\n\n")

	if a.form != nil {
		b.WriteString(a.form.view())
		return b.String()
	}

	tasks := a.deps.Store.On(a.selected)
	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("No tasks on " + a.selected.String()))
		b.WriteString("\n")
	}
	b.WriteString(taskList(tasks, a.taskCursor))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[/] month • H/L week • h/l day • j/k move • a add • d delete • p publish • q quit"))
	return b.String()
}

func taskList(tasks []task.Task, cursor int) string {
	cards := make([]string, 0, len(tasks))
	for i, t := range tasks {
		style := cardStyle
		if i == cursor {
			style = selectedCardStyle
		}
		body := taskTitleStyle.Render(t.Title) + "\n" +
			dimStyle.Render(t.Location) + "\n" +
			fmt.Sprintf("%s – %s", t.StartTime, t.EndTime)
		cards = append(cards, style.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
