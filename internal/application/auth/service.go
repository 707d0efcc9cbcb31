package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrNotConfigured         = errors.New("Admin credential is not configured")
	ErrInvalidCredentials    = errors.New("Invalid email or password")
	ErrNotAuthenticated      = errors.New("Not authenticated")
)

// Service checks the single shared admin credential. There are no user
// accounts; email and bcrypt hash come from config.
type Service struct {
	AdminEmail        string
	AdminPasswordHash string
}

// Login verifies the shared credential. Returns nil on success.
func (s *Service) Login(email, password string) error {
	if email == "" || password == "" {
		return ErrEmailPasswordRequired
	}
	if s.AdminEmail == "" || s.AdminPasswordHash == "" {
		return ErrNotConfigured
	}
	if email != s.AdminEmail {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.AdminPasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Verify validates the session admin object from Locals and returns its email.
func Verify(sessionAdmin interface{}) (string, error) {
	if sessionAdmin == nil {
		return "", ErrNotAuthenticated
	}
	m, ok := sessionAdmin.(map[string]interface{})
	if !ok {
		return "", ErrNotAuthenticated
	}
	email, _ := m["email"].(string)
	if email == "" {
		return "", ErrNotAuthenticated
	}
	return email, nil
}
