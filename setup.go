package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/urfave/cli/v3"

	"github.com/harrisonrobin/clockit/pkg/auth"
	"github.com/harrisonrobin/clockit/pkg/calendar"
	"github.com/harrisonrobin/clockit/pkg/colors"
	"github.com/harrisonrobin/clockit/pkg/config"
	"github.com/harrisonrobin/clockit/pkg/google"
	"github.com/harrisonrobin/clockit/pkg/identity"
	"github.com/harrisonrobin/clockit/pkg/index"
	"github.com/harrisonrobin/clockit/pkg/orgmode"
	"github.com/harrisonrobin/clockit/pkg/store"
	"github.com/harrisonrobin/clockit/pkg/task"
)

const logFile = "clockit.log"

// app is the composition root shared by every command.
type app struct {
	cfg        *config.Config
	configPath string
	dir        string
	today      civil.Date
	locale     calendar.Locale
}

func newApp(cmd *cli.Command) (*app, error) {
	configPath := cmd.String("config")
	if configPath == "" {
		return nil, errors.New("no config path: pass --config")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	locale := cfg.Locale
	if locale == "" {
		locale = os.Getenv("LANG")
	}
	return &app{
		cfg:        cfg,
		configPath: configPath,
		dir:        filepath.Dir(configPath),
		today:      civil.DateOf(time.Now()),
		locale:     calendar.ParseLocale(locale),
	}, nil
}

// setupLogging installs the default slog logger writing to w.
func setupLogging(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// provider builds the configured identity provider. signIn is false for
// commands that only read or drop the cached session, which works without
// an api key.
func (a *app) provider(ctx context.Context, signIn bool) (identity.Provider, error) {
	switch a.cfg.Provider {
	case config.ProviderMemory:
		return identity.NewMemory(), nil
	default:
		if signIn && a.cfg.APIKey == "" {
			return nil, fmt.Errorf("no api key: set api_key in %s or %s", a.configPath, config.APIKeyEnv)
		}
		return identity.NewToolkit(ctx, a.cfg.APIKey, a.dir)
	}
}

// store builds the session's task store: demo tasks first when enabled, then
// any imported file.
func (a *app) store(importPath string) (*store.Store, error) {
	var opts []store.Option
	if a.cfg.ShouldSeed() {
		opts = append(opts, store.WithSeed(a.today))
	}
	if importPath != "" {
		tasks, err := importTasks(importPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, store.WithTasks(tasks...))
	}
	return store.New(opts...), nil
}

// importTasks reads a JSON task stream, or an Org agenda when the file ends
// in .org.
func importTasks(path string) ([]task.Task, error) {
	if strings.EqualFold(filepath.Ext(path), ".org") {
		tasks, err := orgmode.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		slog.Debug("imported org tasks", "path", path, "count", len(tasks))
		return tasks, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	tasks, err := task.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	slog.Debug("imported tasks", "path", path, "count", len(tasks))
	return tasks, nil
}

// publisher connects to the configured Google Calendar, but only once
// calendar-auth has cached a token; the browser flow cannot run under the TUI.
func (a *app) publisher(ctx context.Context) *google.CalendarClient {
	if _, err := os.Stat(filepath.Join(a.dir, auth.TokenFile)); err != nil {
		return nil
	}
	idx, err := index.NewEventIndex(a.dir)
	if err != nil {
		slog.Warn("failed to initialize event index", "error", err)
	}
	cache, err := colors.NewColorCache(a.dir)
	if err != nil {
		slog.Warn("failed to initialize color cache", "error", err)
	}
	client, err := google.NewClient(ctx, a.cfg.Calendar, a.dir, idx, cache)
	if err != nil {
		slog.Warn("calendar publishing disabled", "calendar", a.cfg.Calendar, "error", err)
		return nil
	}
	return client
}
