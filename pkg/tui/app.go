// Package tui is the terminal front end: auth, schedule, active and profile
// screens over the task store.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harrisonrobin/clockit/pkg/calendar"
	"github.com/harrisonrobin/clockit/pkg/identity"
	"github.com/harrisonrobin/clockit/pkg/session"
	"github.com/harrisonrobin/clockit/pkg/store"
	"github.com/harrisonrobin/clockit/pkg/task"
)

// Publisher pushes tasks to an external calendar.
type Publisher interface {
	PublishAll(ctx context.Context, tasks []task.Task) (int, error)
	UnpublishTask(ctx context.Context, t task.Task) error
}

// Deps are the collaborators shared by every screen.
type Deps struct {
	Store    *store.Store
	Provider identity.Provider
	Workflow *session.Workflow
	// Publisher is nil until the calendar has been authorized.
	Publisher Publisher
	Locale    calendar.Locale
	Today     civil.Date
	Logger    *slog.Logger
}

// App is the Bubble Tea model.
type App struct {
	deps    Deps
	logger  *slog.Logger
	history *session.History
	changes chan store.Change
	done    chan struct{}
	unsub   func()
	closing sync.Once

	// auth screen
	authMode session.Mode
	email    textinput.Model
	password textinput.Model
	authBusy bool

	// schedule cursors; each moves on its own
	month      calendar.Month
	weekStart  civil.Date
	selected   civil.Date
	taskCursor int
	form       *taskForm

	activeCursor int

	notice string
	width  int
}

// New builds the app. The entry screen comes from the session gate.
func New(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	email := textinput.New()
	email.Placeholder = "Email"
	email.Prompt = "Email:    "
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword

	a := &App{
		deps:      deps,
		logger:    logger,
		history:   session.NewHistory(session.InitialRoute(deps.Provider)),
		changes:   make(chan store.Change, 64),
		done:      make(chan struct{}),
		email:     email,
		password:  password,
		month:     calendar.MonthOf(deps.Today),
		weekStart: calendar.WeekStartOf(deps.Today),
		selected:  deps.Today,
	}
	a.unsub = deps.Store.Subscribe(func(c store.Change) {
		select {
		case a.changes <- c:
		default:
			// views re-read the store on every render
		}
	})
	return a
}

// Close detaches the app from the store and releases the command waiting
// for store changes. It may be called more than once.
func (a *App) Close() {
	a.closing.Do(func() {
		if a.unsub != nil {
			a.unsub()
		}
		close(a.done)
	})
}

// Route returns the screen currently shown.
func (a *App) Route() session.Route {
	return a.history.Current()
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.waitForChange())
}

func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case c := <-a.changes:
			return storeChangedMsg{change: c}
		case <-a.done:
			return nil
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case storeChangedMsg:
		a.logger.Debug("task store changed", "kind", msg.change.Kind, "title", msg.change.Task.Title, "date", msg.change.Task.Date)
		a.clampCursors()
		return a, a.waitForChange()

	case authResultMsg:
		return a.handleAuthResult(msg)

	case publishedMsg:
		if msg.err != nil {
			a.logger.Warn("publish failed", "error", msg.err)
			a.notice = "Publish failed"
		} else {
			a.notice = pluralize(msg.count, "task") + " published"
		}
		return a, nil

	case unpublishedMsg:
		if msg.err != nil {
			a.logger.Warn("unpublish failed", "title", msg.task.Title, "date", msg.task.Date, "error", msg.err)
			a.notice = "Could not remove the calendar event"
		}
		return a, nil

	case loggedOutMsg:
		if msg.err != nil {
			a.logger.Warn("logout failed", "error", msg.err)
			a.notice = "Logout failed"
			return a, nil
		}
		a.history.Navigate(session.RouteAuth, session.RouteProfile, true)
		a.authMode = session.ModeLogin
		a.password.Reset()
		return a, a.focusAuth(0)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.notice = ""
		return a.handleKey(msg)
	}

	if a.Route() == session.RouteAuth {
		return a.updateAuthInputs(msg)
	}
	if a.form != nil {
		return a, a.form.update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.Route() == session.RouteAuth {
		return a.handleAuthKeys(msg)
	}
	if a.form != nil {
		return a.handleFormKeys(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "1":
		a.history.Navigate(session.RouteCalendar, session.RouteCalendar, false)
		return a, nil
	case "2":
		a.history.Navigate(session.RouteActive, session.RouteCalendar, false)
		return a, nil
	case "3":
		a.history.Navigate(session.RouteProfile, session.RouteCalendar, false)
		return a, nil
	case "esc", "backspace":
		a.history.Back()
		return a, nil
	}

	switch a.Route() {
	case session.RouteCalendar:
		return a.handleScheduleKeys(msg)
	case session.RouteActive:
		return a.handleActiveKeys(msg)
	case session.RouteProfile:
		return a.handleProfileKeys(msg)
	}
	return a, nil
}

// removeTask deletes t from the store and, when the calendar is connected,
// its published event. The event stays while an equal task remains, since
// equal tasks share one event.
func (a *App) removeTask(t task.Task) tea.Cmd {
	a.deps.Store.Remove(t)
	a.clampCursors()
	if a.deps.Publisher == nil || slices.Contains(a.deps.Store.All(), t) {
		return nil
	}
	publisher := a.deps.Publisher
	return func() tea.Msg {
		return unpublishedMsg{task: t, err: publisher.UnpublishTask(context.Background(), t)}
	}
}

func (a *App) clampCursors() {
	if n := len(a.deps.Store.On(a.selected)); a.taskCursor >= n {
		a.taskCursor = max(n-1, 0)
	}
	if n := a.deps.Store.Len(); a.activeCursor >= n {
		a.activeCursor = max(n-1, 0)
	}
}

func (a *App) View() string {
	var b strings.Builder
	switch a.Route() {
	case session.RouteAuth:
		b.WriteString(a.authView())
	default:
		b.WriteString(a.tabsView())
		b.WriteString("\n\n")
		switch a.Route() {
		case session.RouteCalendar:
			b.WriteString(a.scheduleView())
		case session.RouteActive:
			b.WriteString(a.activeView())
		case session.RouteProfile:
			b.WriteString(a.profileView())
		}
	}
	if a.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(a.notice))
	}
	b.WriteString("\n")
	return b.String()
}

func (a *App) tabsView() string {
	tabs := []struct {
		key   string
		label string
		route session.Route
	}{
		{"1", "Calendar", session.RouteCalendar},
		{"2", "Active", session.RouteActive},
		{"3", "Profile", session.RouteProfile},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := t.key + " " + t.label
		if t.route == a.Route() {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return titleStyle.Render("ClockIt") + "  " + strings.Join(parts, "  ")
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
