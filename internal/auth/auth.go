// Package auth exposes the capability interface a real identity provider
// would implement, together with the static demo double the site ships
// with. The double is swappable without touching callers.
package auth

import (
	"context"
	"errors"
	"strings"
)

// Credentials are what the login form collects.
type Credentials struct {
	Email    string
	Password string
}

// User is the authenticated identity.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrInvalidCredentials is returned for any failed authentication attempt.
// Callers get no detail about which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies credentials and returns the matching user.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (User, error)
}

type account struct {
	user     User
	password string
}

// Static is a prototype stand-in with a fixed credential list. It is not a
// real identity system.
type Static struct {
	accounts map[string]account
}

// NewStatic builds the demo authenticator with the site's test accounts.
func NewStatic() *Static {
	s := &Static{accounts: make(map[string]account)}
	for _, a := range []struct {
		email, password, name string
	}{
		{"admin@bastianfluegel.de", "admin123", "Admin"},
		{"demo@example.com", "demo123", "Demo User"},
		{"test@test.com", "test123", "Test User"},
	} {
		s.accounts[a.email] = account{
			user:     User{Name: a.name, Email: a.email},
			password: a.password,
		}
	}
	return s
}

func (s *Static) Authenticate(_ context.Context, creds Credentials) (User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	acc, ok := s.accounts[email]
	if !ok || acc.password != creds.Password {
		return User{}, ErrInvalidCredentials
	}
	return acc.user, nil
}
