package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

func newToolkitServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/verifyPassword"):
			if req.Password != "secret" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":{"code":400,"message":"INVALID_PASSWORD"}}`))
				return
			}
			w.Write([]byte(`{"email":"` + req.Email + `","localId":"u1","idToken":"id-token","refreshToken":"refresh","expiresIn":"3600","registered":true}`))
		case strings.HasSuffix(r.URL.Path, "/signupNewUser"):
			w.Write([]byte(`{"email":"` + req.Email + `","localId":"u2"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestToolkit(t *testing.T, srv *httptest.Server, dir string) *Toolkit {
	t.Helper()
	tk, err := NewToolkit(context.Background(), "test-key", dir,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewToolkit failed: %v", err)
	}
	return tk
}

func TestToolkitSignInPersistsSession(t *testing.T) {
	srv := newToolkitServer(t)
	dir := t.TempDir()
	tk := newTestToolkit(t, srv, dir)

	if tk.CurrentUser() != nil {
		t.Fatal("Expected no current user before sign in")
	}

	s, err := tk.SignIn(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if s.UserID != "u1" || s.Token == nil || s.Token.AccessToken != "id-token" {
		t.Errorf("Unexpected session %+v", s)
	}

	// A fresh provider over the same directory sees the cached session.
	again := newTestToolkit(t, srv, dir)
	cur := again.CurrentUser()
	if cur == nil || cur.Email != "ada@example.com" {
		t.Fatalf("CurrentUser() = %+v, want ada@example.com", cur)
	}

	if err := again.SignOut(); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, SessionFile)); !os.IsNotExist(err) {
		t.Errorf("Expected session file to be removed, stat err = %v", err)
	}
	if again.CurrentUser() != nil {
		t.Error("Expected no current user after SignOut")
	}
}

func TestToolkitSignInFailure(t *testing.T) {
	srv := newToolkitServer(t)
	tk := newTestToolkit(t, srv, t.TempDir())

	if _, err := tk.SignIn(context.Background(), "ada@example.com", "wrong"); err == nil {
		t.Fatal("Expected an error for a wrong password")
	}
	if tk.CurrentUser() != nil {
		t.Error("Expected no current user after a failed sign in")
	}
}

func TestToolkitSignUpDoesNotSignIn(t *testing.T) {
	srv := newToolkitServer(t)
	tk := newTestToolkit(t, srv, t.TempDir())

	s, err := tk.SignUp(context.Background(), "new@example.com", "pw")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if s.UserID != "u2" {
		t.Errorf("UserID = %q, want u2", s.UserID)
	}
	if tk.CurrentUser() != nil {
		t.Error("SignUp must not sign the user in")
	}
}

func TestToolkitWithoutKey(t *testing.T) {
	srv := newToolkitServer(t)
	dir := t.TempDir()
	signedIn := newTestToolkit(t, srv, dir)
	if _, err := signedIn.SignIn(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	keyless, err := NewToolkit(context.Background(), "", dir)
	if err != nil {
		t.Fatalf("NewToolkit without key failed: %v", err)
	}
	if cur := keyless.CurrentUser(); cur == nil || cur.Email != "ada@example.com" {
		t.Errorf("CurrentUser() = %+v, want the cached session", cur)
	}
	if _, err := keyless.SignIn(context.Background(), "ada@example.com", "secret"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("SignIn err = %v, want ErrNoAPIKey", err)
	}
	if _, err := keyless.SignUp(context.Background(), "new@example.com", "pw"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("SignUp err = %v, want ErrNoAPIKey", err)
	}
	if err := keyless.SignOut(); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, SessionFile)); !os.IsNotExist(err) {
		t.Errorf("Expected session file to be removed, stat err = %v", err)
	}
}
