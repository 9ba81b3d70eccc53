package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/taller-erp/taller-erp/internal/shared"
)

const sessionKeyPrefix = "session:"

// Service wraps authentication business rules. Sessions live in Redis keyed
// by an HMAC of the opaque bearer token, so a Redis dump never exposes
// usable tokens.
type Service struct {
	repo     Repository
	sessions *redis.Client
	secret   []byte
	ttl      time.Duration
}

// NewService constructs a new Service.
func NewService(repo Repository, sessions *redis.Client, secret string, ttl time.Duration) *Service {
	return &Service{repo: repo, sessions: sessions, secret: []byte(secret), ttl: ttl}
}

func (s *Service) sessionKey(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return sessionKeyPrefix + hex.EncodeToString(mac.Sum(nil))
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and opens a session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	session := &Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessions.Set(ctx, s.sessionKey(session.Token),
		strconv.FormatInt(user.ID, 10), s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("auth: store session: %w", err)
	}
	return session, nil
}

// Resolve maps a bearer token to a user ID.
func (s *Service) Resolve(ctx context.Context, token string) (int64, error) {
	value, err := s.sessions.Get(ctx, s.sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, shared.ErrSessionExpired
	}
	if err != nil {
		return 0, fmt.Errorf("auth: load session: %w", err)
	}
	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, shared.ErrSessionExpired
	}
	return userID, nil
}

// Logout closes a session.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Del(ctx, s.sessionKey(token)).Err()
}

// HashPassword produces a bcrypt hash for seeding and user creation.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
