package identity

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// Toolkit signs users in with the Google Identity Toolkit API, the service
// behind Firebase email/password auth. The signed-in session is cached in the
// config directory so CurrentUser survives restarts.
type Toolkit struct {
	srv    *identitytoolkit.Service
	path   string
	hasKey bool

	mu      sync.Mutex
	current *Session
	loaded  bool
}

// NewToolkit creates a provider for the project identified by apiKey. Extra
// client options are appended after the key. Without a key the provider can
// still report and forget the cached session, but SignIn and SignUp fail
// with ErrNoAPIKey.
func NewToolkit(ctx context.Context, apiKey, dir string, opts ...option.ClientOption) (*Toolkit, error) {
	auth := option.WithAPIKey(apiKey)
	if apiKey == "" {
		auth = option.WithoutAuthentication()
	}
	opts = append([]option.ClientOption{auth}, opts...)
	srv, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create identity toolkit service: %w", err)
	}
	return &Toolkit{srv: srv, path: filepath.Join(dir, SessionFile), hasKey: apiKey != ""}, nil
}

func (t *Toolkit) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if !t.hasKey {
		return nil, ErrNoAPIKey
	}
	resp, err := t.srv.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	s := &Session{
		Email:  resp.Email,
		UserID: resp.LocalId,
		Token: &oauth2.Token{
			AccessToken:  resp.IdToken,
			RefreshToken: resp.RefreshToken,
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		},
	}
	if err := saveSession(t.path, s); err != nil {
		slog.Warn("could not cache session", "path", t.path, "error", err)
	}

	t.mu.Lock()
	t.current = s
	t.loaded = true
	t.mu.Unlock()
	return s, nil
}

// SignUp registers the account without keeping a session for it.
func (t *Toolkit) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if !t.hasKey {
		return nil, ErrNoAPIKey
	}
	resp, err := t.srv.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	return &Session{Email: resp.Email, UserID: resp.LocalId}, nil
}

func (t *Toolkit) SignOut() error {
	t.mu.Lock()
	t.current = nil
	t.loaded = true
	t.mu.Unlock()
	return removeSession(t.path)
}

// CurrentUser returns the cached session, if any. An expired id token still
// counts as signed in.
func (t *Toolkit) CurrentUser() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		s, err := sessionFromFile(t.path)
		if err == nil {
			t.current = s
		}
		t.loaded = true
	}
	return t.current
}
