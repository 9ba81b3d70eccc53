package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/taller-erp/taller-erp/internal/shared"
)

type stubRepo struct {
	user *User
	err  error
}

func (s stubRepo) FindByEmail(context.Context, string) (*User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func newTestService(t *testing.T, repo Repository) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, client, "clave-de-prueba", time.Hour), mr
}

func activeUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &User{ID: 7, Email: "admin@taller.local", PasswordHash: hash, IsActive: true}
}

func TestLoginAndResolve(t *testing.T) {
	svc, _ := newTestService(t, stubRepo{user: activeUser(t, "secreto")})

	session, err := svc.Login(context.Background(), LoginRequest{Email: "admin@taller.local", Password: "secreto"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a session token")
	}

	userID, err := svc.Resolve(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != 7 {
		t.Fatalf("expected user 7, got %d", userID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService(t, stubRepo{user: activeUser(t, "secreto")})

	if _, err := svc.Login(context.Background(), LoginRequest{Email: "admin@taller.local", Password: "otra"}); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	user := activeUser(t, "secreto")
	user.IsActive = false
	svc, _ := newTestService(t, stubRepo{user: user})

	if _, err := svc.Login(context.Background(), LoginRequest{Email: "admin@taller.local", Password: "secreto"}); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSessionStoreNeverHoldsRawTokens(t *testing.T) {
	svc, mr := newTestService(t, stubRepo{user: activeUser(t, "secreto")})

	session, err := svc.Login(context.Background(), LoginRequest{Email: "admin@taller.local", Password: "secreto"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected 1 session key, got %v", keys)
	}
	if strings.Contains(keys[0], session.Token) {
		t.Fatalf("bearer token leaked into redis key %q", keys[0])
	}
	if !strings.HasPrefix(keys[0], "session:") {
		t.Fatalf("unexpected session key %q", keys[0])
	}
}

func TestLogoutExpiresSession(t *testing.T) {
	svc, _ := newTestService(t, stubRepo{user: activeUser(t, "secreto")})

	session, err := svc.Login(context.Background(), LoginRequest{Email: "admin@taller.local", Password: "secreto"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), session.Token); !errors.Is(err, shared.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
