package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/urfave/cli/v3"

	"github.com/harrisonrobin/clockit/pkg/config"
)

func TestImportTasksByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "tasks.json")
	jsonData := `{"title":"Gym","location":"","start":"18:00","end":"19:00","date":"2025-03-12"}
{"title":"Read","location":"Home","start":"","end":"","date":"2025-03-13"}`
	if err := os.WriteFile(jsonPath, []byte(jsonData), 0600); err != nil {
		t.Fatal(err)
	}
	orgPath := filepath.Join(dir, "agenda.org")
	orgData := "* TODO Gym\n  SCHEDULED: <2025-03-12 Wed 18:00-19:00>\n"
	if err := os.WriteFile(orgPath, []byte(orgData), 0600); err != nil {
		t.Fatal(err)
	}

	fromJSON, err := importTasks(jsonPath)
	if err != nil {
		t.Fatalf("json import failed: %v", err)
	}
	if len(fromJSON) != 2 {
		t.Fatalf("got %d json tasks, want 2", len(fromJSON))
	}

	fromOrg, err := importTasks(orgPath)
	if err != nil {
		t.Fatalf("org import failed: %v", err)
	}
	if len(fromOrg) != 1 || fromOrg[0] != fromJSON[0] {
		t.Errorf("org import = %+v, want %+v", fromOrg, fromJSON[:1])
	}

	if _, err := importTasks(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestAppStore(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 3, Day: 12}
	seed := false
	a := &app{cfg: config.Default(), today: today}

	st, err := a.store("")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(st.On(today)); got != 2 {
		t.Errorf("seeded store has %d tasks today, want 2", got)
	}

	a.cfg.SeedDemo = &seed
	st, err = a.store("")
	if err != nil {
		t.Fatal(err)
	}
	if st.Len() != 0 {
		t.Errorf("unseeded store has %d tasks, want 0", st.Len())
	}
}

func TestProviderSelection(t *testing.T) {
	t.Setenv(config.APIKeyEnv, "")
	a := &app{cfg: config.Default(), configPath: "config.json", dir: t.TempDir()}

	if _, err := a.provider(context.Background(), true); err == nil {
		t.Error("expected error for toolkit sign in without an api key")
	}
	p, err := a.provider(context.Background(), false)
	if err != nil {
		t.Fatalf("toolkit provider for session commands: %v", err)
	}
	if p.CurrentUser() != nil {
		t.Error("empty config dir should have no cached session")
	}
	if err := p.SignOut(); err != nil {
		t.Errorf("SignOut without a session: %v", err)
	}

	a.cfg.Provider = config.ProviderMemory
	p, err = a.provider(context.Background(), true)
	if err != nil {
		t.Fatalf("memory provider: %v", err)
	}
	if p.CurrentUser() != nil {
		t.Error("fresh memory provider should have no user")
	}
}

func TestImportFlagMentionsOrg(t *testing.T) {
	for _, f := range newRootCommand().Flags {
		sf, ok := f.(*cli.StringFlag)
		if !ok || sf.Name != "import" {
			continue
		}
		if !strings.Contains(sf.Usage, ".org") || !strings.Contains(sf.Usage, "JSON") {
			t.Errorf("--import usage %q should name both formats", sf.Usage)
		}
		return
	}
	t.Fatal("root command has no --import flag")
}
