package tui

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harrisonrobin/clockit/pkg/session"
	"github.com/harrisonrobin/clockit/pkg/task"
)

var errEmptyFields = errors.New(session.NoticeEmptyFields)

// taskForm is the add-task dialog. The date is the one selected when the
// dialog opened.
type taskForm struct {
	date    civil.Date
	inputs  []textinput.Model
	focused int
}

func newTaskForm(date civil.Date) *taskForm {
	fields := []struct{ prompt, placeholder string }{
		{"Title:    ", "CSC 430"},
		{"Location: ", "Room 1N 118"},
		{"Start:    ", "HH:MM"},
		{"End:      ", "HH:MM"},
	}
	f := &taskForm{date: date}
	for _, field := range fields {
		in := textinput.New()
		in.Prompt = field.prompt
		in.Placeholder = field.placeholder
		in.CharLimit = 120
		f.inputs = append(f.inputs, in)
	}
	return f
}

func (f *taskForm) focus(i int) tea.Cmd {
	n := len(f.inputs)
	f.focused = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focused {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

// task builds the task, rejecting the form when any field is blank.
func (f *taskForm) task() (task.Task, error) {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = strings.TrimSpace(in.Value())
		if values[i] == "" {
			return task.Task{}, errEmptyFields
		}
	}
	return task.New(values[0], values[1], values[2], values[3], f.date), nil
}

func (f *taskForm) view() string {
	var b strings.Builder
	b.WriteString(taskTitleStyle.Render("Add New Task · " + f.date.String()))
	b.WriteString("\n\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab next • enter save • esc cancel"))
	return b.String()
}
