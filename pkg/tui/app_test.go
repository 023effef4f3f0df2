package tui

import (
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harrisonrobin/clockit/pkg/calendar"
	"github.com/harrisonrobin/clockit/pkg/identity"
	"github.com/harrisonrobin/clockit/pkg/session"
	"github.com/harrisonrobin/clockit/pkg/store"
	"github.com/harrisonrobin/clockit/pkg/task"
)

var today = civil.Date{Year: 2025, Month: 3, Day: 12}

type fakePublisher struct {
	got     []task.Task
	removed []task.Task
}

func (f *fakePublisher) PublishAll(_ context.Context, tasks []task.Task) (int, error) {
	f.got = append(f.got, tasks...)
	return len(tasks), nil
}

func (f *fakePublisher) UnpublishTask(_ context.Context, t task.Task) error {
	f.removed = append(f.removed, t)
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T, signedIn bool) (*App, *identity.Memory, *store.Store) {
	t.Helper()
	provider := identity.NewMemory()
	ctx := context.Background()
	if _, err := provider.SignUp(ctx, "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	if signedIn {
		if _, err := provider.SignIn(ctx, "ada@example.com", "secret"); err != nil {
			t.Fatal(err)
		}
	}
	s := store.New(store.WithSeed(today))
	app := New(Deps{
		Store:    s,
		Provider: provider,
		Workflow: session.NewWorkflow(provider, nil),
		Locale:   calendar.DefaultLocale,
		Today:    today,
	})
	t.Cleanup(app.Close)
	return app, provider, s
}

// press sends a key and feeds back the message of a returned plain command.
func press(a *App, s string) {
	_, cmd := a.Update(key(s))
	if cmd == nil {
		return
	}
	switch s {
	case "enter", "o":
		a.Update(cmd())
	}
}

func TestStartsOnAuthWithoutSession(t *testing.T) {
	a, _, _ := newTestApp(t, false)
	if a.Route() != session.RouteAuth {
		t.Fatalf("Route() = %s, want auth", a.Route())
	}
	if !strings.Contains(a.View(), "Login") {
		t.Error("auth view does not show the login form")
	}
}

func TestStartsOnCalendarWithSession(t *testing.T) {
	a, _, _ := newTestApp(t, true)
	if a.Route() != session.RouteCalendar {
		t.Fatalf("Route() = %s, want calendar", a.Route())
	}
}

func TestLoginNavigatesAndDropsAuth(t *testing.T) {
	a, _, _ := newTestApp(t, false)
	a.email.SetValue("ada@example.com")
	a.password.SetValue("secret")

	press(a, "enter")

	if a.Route() != session.RouteCalendar {
		t.Fatalf("Route() = %s, want calendar", a.Route())
	}
	if a.password.Value() != "" {
		t.Error("password kept after login")
	}
	press(a, "esc")
	if a.Route() != session.RouteCalendar {
		t.Errorf("esc after login went to %s", a.Route())
	}
}

func TestLoginFailures(t *testing.T) {
	a, _, _ := newTestApp(t, false)

	press(a, "enter")
	if a.notice != session.NoticeEmptyFields {
		t.Errorf("notice = %q, want %q", a.notice, session.NoticeEmptyFields)
	}

	a.email.SetValue("ada@example.com")
	a.password.SetValue("wrong")
	press(a, "enter")
	if a.notice != session.NoticeLoginFailed || a.Route() != session.RouteAuth {
		t.Errorf("notice = %q route = %s", a.notice, a.Route())
	}
}

func TestRegisterSwitchesToLogin(t *testing.T) {
	a, provider, _ := newTestApp(t, false)
	press(a, "ctrl+r")
	if a.authMode != session.ModeRegister {
		t.Fatal("ctrl+r did not switch to register")
	}
	a.email.SetValue("new@example.com")
	a.password.SetValue("pw")

	press(a, "enter")

	if a.notice != session.NoticeRegistered || a.authMode != session.ModeLogin || a.Route() != session.RouteAuth {
		t.Errorf("notice = %q mode = %s route = %s", a.notice, a.authMode, a.Route())
	}
	if provider.CurrentUser() != nil {
		t.Error("registration signed the user in")
	}
}

func TestScheduleShowsSelectedDay(t *testing.T) {
	a, _, _ := newTestApp(t, true)
	view := a.View()
	for _, want := range []string{"March 2025", "CSC 430", "CSC 330", "Wed"} {
		if !strings.Contains(view, want) {
			t.Errorf("schedule view missing %q", want)
		}
	}

	press(a, "l")
	if a.selected != today.AddDays(1) {
		t.Fatalf("selected = %s, want %s", a.selected, today.AddDays(1))
	}
	if strings.Contains(a.View(), "CSC 430") {
		t.Error("tomorrow shows today's tasks")
	}
}

func TestCursorsMoveIndependently(t *testing.T) {
	a, _, _ := newTestApp(t, true)
	weekStart, month := a.weekStart, a.month

	press(a, "L")
	if a.weekStart != calendar.NextWeek(weekStart) || a.month != month || a.selected != today {
		t.Errorf("after L: week %s month %s selected %s", a.weekStart, a.month, a.selected)
	}

	press(a, "]")
	press(a, "]")
	if a.month != calendar.NextMonth(calendar.NextMonth(month)) || a.weekStart != calendar.NextWeek(weekStart) {
		t.Errorf("after ]]: week %s month %s", a.weekStart, a.month)
	}

	// The selection is outside the new strip; l lands on its first day.
	press(a, "l")
	if a.selected != a.weekStart {
		t.Errorf("selected = %s, want %s", a.selected, a.weekStart)
	}
}

func TestAddTask(t *testing.T) {
	a, _, s := newTestApp(t, true)
	press(a, "a")
	if a.form == nil {
		t.Fatal("a did not open the form")
	}

	press(a, "ctrl+s")
	if a.notice != session.NoticeEmptyFields || s.Len() != 2 {
		t.Errorf("empty form: notice %q, %d tasks", a.notice, s.Len())
	}

	values := []string{"Gym", "Campus", "18:00", "19:00"}
	for i, v := range values {
		a.form.inputs[i].SetValue(v)
	}
	press(a, "ctrl+s")

	if a.form != nil {
		t.Error("form still open after save")
	}
	want := task.New("Gym", "Campus", "18:00", "19:00", today)
	got := s.On(today)
	if len(got) != 3 || got[2] != want {
		t.Errorf("On(today) = %v, want %v last", got, want)
	}
}

func TestDeleteTask(t *testing.T) {
	a, _, s := newTestApp(t, true)
	press(a, "j")
	press(a, "d")

	got := s.On(today)
	if len(got) != 1 || got[0].Title != "CSC 430" {
		t.Errorf("On(today) = %v, want only CSC 430", got)
	}
	if a.taskCursor != 0 {
		t.Errorf("taskCursor = %d, want 0", a.taskCursor)
	}
}

func TestActiveScreenListsAll(t *testing.T) {
	a, _, s := newTestApp(t, true)
	s.Add(task.New("Later", "", "", "", today.AddDays(30)))

	press(a, "2")
	if a.Route() != session.RouteActive {
		t.Fatalf("Route() = %s, want active", a.Route())
	}
	if !strings.Contains(a.View(), "Later") {
		t.Error("active view misses a task on another day")
	}
	press(a, "d")
	if s.Len() != 2 || s.All()[0].Title != "CSC 330" {
		t.Errorf("All() = %v", s.All())
	}
}

func TestStoreChangesReachTheApp(t *testing.T) {
	a, _, s := newTestApp(t, true)
	added := task.New("Gym", "", "", "", today)
	s.Add(added)

	msg := a.waitForChange()()
	changed, ok := msg.(storeChangedMsg)
	if !ok || changed.change.Kind != store.Added || changed.change.Task != added {
		t.Errorf("unexpected message %#v", msg)
	}
}

func TestPublish(t *testing.T) {
	a, _, _ := newTestApp(t, true)
	press(a, "p")
	if !strings.Contains(a.notice, "calendar-auth") {
		t.Errorf("notice = %q, want a hint to connect the calendar", a.notice)
	}

	pub := &fakePublisher{}
	a.deps.Publisher = pub
	_, cmd := a.Update(key("p"))
	if cmd == nil {
		t.Fatal("p returned no command")
	}
	a.Update(cmd())

	if len(pub.got) != 2 {
		t.Errorf("published %d tasks, want 2", len(pub.got))
	}
	if a.notice != "2 tasks published" {
		t.Errorf("notice = %q", a.notice)
	}
}

func TestDeleteUnpublishes(t *testing.T) {
	a, _, s := newTestApp(t, true)
	pub := &fakePublisher{}
	a.deps.Publisher = pub

	first := s.On(today)[0]
	_, cmd := a.Update(key("d"))
	if cmd == nil {
		t.Fatal("d returned no command with a connected calendar")
	}
	a.Update(cmd())
	if len(pub.removed) != 1 || pub.removed[0] != first {
		t.Errorf("unpublished %v, want [%v]", pub.removed, first)
	}

	// Equal tasks share one event; it stays until the last copy goes.
	dup := task.New("Gym", "", "18:00", "19:00", today)
	s.Add(dup)
	s.Add(dup)
	press(a, "2")
	for a.activeCursor < s.Len()-1 {
		press(a, "j")
	}
	if _, cmd := a.Update(key("d")); cmd != nil {
		t.Error("deleting one of two equal tasks unpublished their shared event")
	}
	press(a, "j")
	_, cmd = a.Update(key("d"))
	if cmd == nil {
		t.Fatal("deleting the last copy did not unpublish")
	}
	a.Update(cmd())
	if len(pub.removed) != 2 || pub.removed[1] != dup {
		t.Errorf("unpublished %v", pub.removed)
	}
}

func TestCloseReleasesChangeWaiter(t *testing.T) {
	a, _, _ := newTestApp(t, true)
	wait := a.waitForChange()
	a.Close()
	a.Close()
	if msg := wait(); msg != nil {
		t.Errorf("waiter returned %#v after Close, want nil", msg)
	}
}

func TestLogout(t *testing.T) {
	a, provider, _ := newTestApp(t, true)
	press(a, "3")
	if !strings.Contains(a.View(), "ada@example.com") {
		t.Error("profile does not show the signed-in email")
	}

	press(a, "o")

	if a.Route() != session.RouteAuth {
		t.Errorf("Route() = %s, want auth", a.Route())
	}
	if provider.CurrentUser() != nil {
		t.Error("still signed in after logout")
	}
}
