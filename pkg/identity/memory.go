package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process provider. Accounts and the current session live
// only as long as the process.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]account
	current  *Session
}

type account struct {
	password string
	userID   string
}

// NewMemory returns an empty Memory provider.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]account)}
}

func (m *Memory) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[email]
	if !ok || acc.password != password {
		return nil, ErrInvalidCredentials
	}
	m.current = &Session{Email: email, UserID: acc.userID}
	return m.current, nil
}

// SignUp creates the account. It does not sign the new user in.
func (m *Memory) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[email]; ok {
		return nil, ErrEmailExists
	}
	acc := account{password: password, userID: uuid.NewString()}
	m.accounts[email] = acc
	return &Session{Email: email, UserID: acc.userID}, nil
}

func (m *Memory) SignOut() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return nil
}

func (m *Memory) CurrentUser() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}
