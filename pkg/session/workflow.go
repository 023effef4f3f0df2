package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/harrisonrobin/clockit/pkg/identity"
)

// Mode is the auth screen's current form.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "Register"
	}
	return "Login"
}

// Toggle flips between login and register.
func (m Mode) Toggle() Mode {
	if m == ModeRegister {
		return ModeLogin
	}
	return ModeRegister
}

const (
	NoticeEmptyFields        = "Fields cannot be empty"
	NoticeLoginFailed        = "Login failed"
	NoticeRegistered         = "Registered successfully"
	NoticeRegistrationFailed = "Registration failed"
)

// Outcome tells the auth screen what to do after a submission.
type Outcome struct {
	Notice string
	// Mode is the form the auth screen shows next.
	Mode Mode
	// Navigate is empty when the user stays on the auth screen.
	Navigate Route
	// ClearAuth drops the auth screen from history.
	ClearAuth bool
	Session   *identity.Session
}

// Workflow runs login, registration and logout against a provider.
type Workflow struct {
	provider identity.Provider
	logger   *slog.Logger
}

// NewWorkflow creates a workflow. A nil logger uses slog.Default().
func NewWorkflow(p identity.Provider, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{provider: p, logger: logger}
}

// Submit handles the auth form. Every provider failure yields the same notice
// for its mode; the cause is only logged.
func (w *Workflow) Submit(ctx context.Context, mode Mode, email, password string) Outcome {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return Outcome{Notice: NoticeEmptyFields, Mode: mode}
	}

	if mode == ModeRegister {
		if _, err := w.provider.SignUp(ctx, email, password); err != nil {
			w.logger.Debug("registration failed", "email", email, "error", err)
			return Outcome{Notice: NoticeRegistrationFailed, Mode: ModeRegister}
		}
		w.logger.Info("registered", "email", email)
		return Outcome{Notice: NoticeRegistered, Mode: ModeLogin}
	}

	s, err := w.provider.SignIn(ctx, email, password)
	if err != nil {
		w.logger.Debug("login failed", "email", email, "error", err)
		return Outcome{Notice: NoticeLoginFailed, Mode: ModeLogin}
	}
	w.logger.Info("logged in", "email", s.Email)
	return Outcome{Mode: ModeLogin, Navigate: RouteCalendar, ClearAuth: true, Session: s}
}

// Logout signs out. The caller navigates to RouteAuth, popping the profile
// screen.
func (w *Workflow) Logout() error {
	if err := w.provider.SignOut(); err != nil {
		return err
	}
	w.logger.Info("logged out")
	return nil
}

// Apply moves h according to o.
func (o Outcome) Apply(h *History) {
	if o.Navigate == "" {
		return
	}
	if o.ClearAuth {
		h.Navigate(o.Navigate, RouteAuth, true)
		return
	}
	h.Navigate(o.Navigate, "", false)
}
