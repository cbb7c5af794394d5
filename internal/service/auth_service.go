package service

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Session holds the authorized flag of one identity.
type Session interface {
	IsAuthorized(ctx context.Context) (bool, error)
	SetAuthorized(ctx context.Context, authorized bool) error
}

// KeyChecker is the identity collaborator.
type KeyChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// KeyStore can persist a configured access key.
type KeyStore interface {
	KeyChecker
	Ensure(ctx context.Context, key string) error
}

// AuthService validates access keys.
type AuthService struct {
	keys   KeyStore
	logger *log.Logger
}

func NewAuthService(keys KeyStore, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.Default()
	}
	return &AuthService{keys: keys, logger: logger}
}

// Seed stores key in the access-key table when one is configured.
func (s *AuthService) Seed(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if err := s.keys.Ensure(ctx, key); err != nil {
		return fmt.Errorf("seed access key: %w", err)
	}
	return nil
}

// Login marks session authorized when key matches a stored access key. A
// wrong key returns false with a nil error and may be retried.
func (s *AuthService) Login(ctx context.Context, session Session, key string) (bool, error) {
	ok, err := s.keys.Exists(ctx, strings.TrimSpace(key))
	if err != nil {
		return false, fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.logger.Printf("[info] login rejected")
		return false, nil
	}
	if err := session.SetAuthorized(ctx, true); err != nil {
		return false, fmt.Errorf("login: %w", err)
	}
	return true, nil
}

func (s *AuthService) Logout(ctx context.Context, session Session) error {
	if err := session.SetAuthorized(ctx, false); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authorized reports the session flag, treating lookup errors as logged out.
func (s *AuthService) Authorized(ctx context.Context, session Session) bool {
	ok, err := session.IsAuthorized(ctx)
	if err != nil {
		s.logger.Printf("[error] check session: %v", err)
		return false
	}
	return ok
}
