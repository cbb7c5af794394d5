package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
)

type memKeys struct {
	keys map[string]bool
	err  error
}

func (m *memKeys) Exists(ctx context.Context, key string) (bool, error) {
	return m.keys[key], m.err
}

func (m *memKeys) Ensure(ctx context.Context, key string) error {
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	m.keys[key] = true
	return nil
}

type memSession struct {
	authorized bool
}

func (m *memSession) IsAuthorized(ctx context.Context) (bool, error) { return m.authorized, nil }

func (m *memSession) SetAuthorized(ctx context.Context, v bool) error {
	m.authorized = v
	return nil
}

func TestAuthLoginLogout(t *testing.T) {
	ctx := context.Background()
	keys := &memKeys{}
	auth := NewAuthService(keys, log.New(&bytes.Buffer{}, "", 0))
	if err := auth.Seed(ctx, " chave "); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	session := &memSession{}
	ok, err := auth.Login(ctx, session, "errada")
	if err != nil || ok {
		t.Fatalf("Expected wrong key to be rejected, got %v %v", ok, err)
	}
	if auth.Authorized(ctx, session) {
		t.Error("Expected session to stay unauthorized")
	}

	ok, err = auth.Login(ctx, session, "chave")
	if err != nil || !ok {
		t.Fatalf("Expected login to succeed, got %v %v", ok, err)
	}
	if !auth.Authorized(ctx, session) {
		t.Error("Expected session to be authorized")
	}

	if err := auth.Logout(ctx, session); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if auth.Authorized(ctx, session) {
		t.Error("Expected session to be logged out")
	}
}

func TestAuthLoginLookupError(t *testing.T) {
	auth := NewAuthService(&memKeys{err: errors.New("db down")}, log.New(&bytes.Buffer{}, "", 0))
	session := &memSession{}
	if _, err := auth.Login(context.Background(), session, "x"); err == nil {
		t.Error("Expected lookup error")
	}
	if session.authorized {
		t.Error("Expected session to stay unauthorized")
	}
}
