package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/harrisonrobin/clockit/pkg/auth"
	"github.com/harrisonrobin/clockit/pkg/calendar"
	"github.com/harrisonrobin/clockit/pkg/config"
	"github.com/harrisonrobin/clockit/pkg/google"
	"github.com/harrisonrobin/clockit/pkg/session"
	"github.com/harrisonrobin/clockit/pkg/tui"
)

func newRootCommand() *cli.Command {
	defaultConfig, _ := config.GetConfigPath()
	return &cli.Command{
		Name:  "clockit",
		Usage: "Plan your week from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config.json",
				Value: defaultConfig,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:  "import",
				Usage: "load tasks at startup from a JSON task stream or an Org agenda (.org)",
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:   "tui",
				Usage:  "Open the interactive planner",
				Action: runTUI,
			},
			{
				Name:  "week",
				Usage: "Print the week strip and its tasks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "date",
						Usage: "any day of the week to print (YYYY-MM-DD)",
					},
				},
				Action: runWeek,
			},
			{
				Name:   "login",
				Usage:  "Sign in with email and password",
				Flags:  credentialFlags(),
				Action: runLogin,
			},
			{
				Name:   "register",
				Usage:  "Create an account",
				Flags:  credentialFlags(),
				Action: runRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out",
				Action: runLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed in user",
				Action: runWhoami,
			},
			{
				Name:   "calendar-auth",
				Usage:  "Authorize publishing to Google Calendar",
				Action: runCalendarAuth,
			},
			{
				Name:      "set-calendar",
				Usage:     "Choose the Google Calendar tasks are published to",
				ArgsUsage: "NAME",
				Action:    runSetCalendar,
			},
		},
	}
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "email", Usage: "account email"},
		&cli.StringFlag{Name: "password", Usage: "account password (prompted when omitted)"},
	}
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	logf, err := os.OpenFile(filepath.Join(a.dir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logf.Close()
	logger := setupLogging(logf, cmd.Bool("debug"))

	provider, err := a.provider(ctx, true)
	if err != nil {
		return err
	}
	st, err := a.store(cmd.String("import"))
	if err != nil {
		return err
	}

	deps := tui.Deps{
		Store:    st,
		Provider: provider,
		Workflow: session.NewWorkflow(provider, logger),
		Locale:   a.locale,
		Today:    a.today,
		Logger:   logger,
	}
	if pub := a.publisher(ctx); pub != nil {
		deps.Publisher = pub
	}

	model := tui.New(deps)
	defer model.Close()
	logger.Info("starting", "route", model.Route(), "tasks", st.Len())
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func runWeek(ctx context.Context, cmd *cli.Command) error {
	setupLogging(os.Stderr, cmd.Bool("debug"))
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	day := a.today
	if s := cmd.String("date"); s != "" {
		day, err = civil.ParseDate(s)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}
	st, err := a.store(cmd.String("import"))
	if err != nil {
		return err
	}

	fmt.Println(calendar.DisplayLabel(calendar.MonthOf(day), a.locale))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, d := range calendar.WeekStrip(calendar.WeekStartOf(day), a.locale) {
		marker := " "
		if d.Date == day {
			marker = "*"
		}
		tasks := st.On(d.Date)
		if len(tasks) == 0 {
			fmt.Fprintf(w, "%s %s\t%d\t-\t\n", marker, d.Label, d.DayOfMonth)
			continue
		}
		for i, t := range tasks {
			label, dom := d.Label, fmt.Sprint(d.DayOfMonth)
			if i > 0 {
				marker, label, dom = " ", "", ""
			}
			fmt.Fprintf(w, "%s %s\t%s\t%s-%s\t%s\t%s\n", marker, label, dom, t.StartTime, t.EndTime, t.Title, t.Location)
		}
	}
	return w.Flush()
}

func runLogin(ctx context.Context, cmd *cli.Command) error {
	return submitCredentials(ctx, cmd, session.ModeLogin)
}

func runRegister(ctx context.Context, cmd *cli.Command) error {
	return submitCredentials(ctx, cmd, session.ModeRegister)
}

func submitCredentials(ctx context.Context, cmd *cli.Command, mode session.Mode) error {
	logger := setupLogging(os.Stderr, cmd.Bool("debug"))
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	provider, err := a.provider(ctx, true)
	if err != nil {
		return err
	}
	email, password, err := readCredentials(cmd)
	if err != nil {
		return err
	}

	out := session.NewWorkflow(provider, logger).Submit(ctx, mode, email, password)
	switch {
	case out.Session != nil:
		fmt.Printf("Signed in as %s\n", out.Session.Email)
		return nil
	case out.Notice == session.NoticeRegistered:
		fmt.Println(out.Notice)
		return nil
	default:
		return errors.New(out.Notice)
	}
}

// readCredentials takes the email and password from flags, prompting on the
// terminal for whatever is missing.
func readCredentials(cmd *cli.Command) (string, string, error) {
	email, password := cmd.String("email"), cmd.String("password")
	if email == "" {
		fmt.Fprint(os.Stderr, "Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", "", errors.New("--password is required when stdin is not a terminal")
		}
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	}
	return email, password, nil
}

func runLogout(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogging(os.Stderr, cmd.Bool("debug"))
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	provider, err := a.provider(ctx, false)
	if err != nil {
		return err
	}
	if err := session.NewWorkflow(provider, logger).Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func runWhoami(ctx context.Context, cmd *cli.Command) error {
	setupLogging(os.Stderr, cmd.Bool("debug"))
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	provider, err := a.provider(ctx, false)
	if err != nil {
		return err
	}
	if session.InitialRoute(provider) == session.RouteAuth {
		return errors.New("not signed in")
	}
	u := provider.CurrentUser()
	fmt.Printf("%s (%s)\n", u.Email, u.UserID)
	return nil
}

func runCalendarAuth(ctx context.Context, cmd *cli.Command) error {
	setupLogging(os.Stderr, cmd.Bool("debug"))
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := auth.ResetToken(a.dir); err != nil {
		return err
	}
	srv, err := auth.GetCalendarService(ctx, a.dir)
	if err != nil {
		return err
	}
	id, err := google.FindCalendar(ctx, srv, a.cfg.Calendar)
	if err != nil {
		return fmt.Errorf("authorized, but %w; use set-calendar to pick another", err)
	}
	fmt.Printf("Publishing to %q (%s)\n", a.cfg.Calendar, id)
	return nil
}

func runSetCalendar(ctx context.Context, cmd *cli.Command) error {
	setupLogging(os.Stderr, cmd.Bool("debug"))
	name := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if name == "" {
		return errors.New("usage: clockit set-calendar NAME")
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	a.cfg.Calendar = name
	if err := config.Save(a.configPath, a.cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Printf("Tasks will be published to %q\n", name)
	return nil
}
