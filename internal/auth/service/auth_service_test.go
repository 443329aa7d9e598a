package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/places-directory/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/places-directory/internal/common/crypto"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "jti-1", nil
}

func newTestService(c clock.Clock, ids commoncrypto.IDGenerator) *AuthService {
	issuer := NewTokenIssuer(testSecret, ids, time.Hour, c)
	return NewAuthService(issuer, commoncrypto.NewBcryptHasher(4), logger.Discard())
}

func TestAuthService_IssueAndVerify(t *testing.T) {
	mockClock := clock.NewMockClock(time.Now())
	svc := newTestService(mockClock, &mockIDGenerator{})

	token, err := svc.IssueToken("user-123", "a@x.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "a@x.com" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestAuthService_VerifyExpiredToken(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestService(mockClock, &mockIDGenerator{})

	token, err := svc.IssueToken("user-123", "a@x.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	mockClock.Advance(time.Hour + time.Second)

	_, err = svc.VerifyToken(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected cause to be expiry, got %v", err)
	}
}

func TestAuthService_VerifyMalformedToken(t *testing.T) {
	svc := newTestService(clock.NewRealClock(), &mockIDGenerator{})

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestAuthService_IssueToken_IDGenerationError(t *testing.T) {
	svc := newTestService(clock.NewRealClock(), &mockIDGenerator{
		newIDFunc: func() (string, error) {
			return "", errors.New("id generation failed")
		},
	})

	_, err := svc.IssueToken("user-123", "a@x.com")
	if !errors.Is(err, ErrTokenIssue) {
		t.Fatalf("expected ErrTokenIssue, got %v", err)
	}
}

func TestAuthService_Passwords(t *testing.T) {
	svc := newTestService(clock.NewRealClock(), &mockIDGenerator{})

	hash, err := svc.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "Secret123" {
		t.Fatal("hash must not equal the plain password")
	}

	ok, err := svc.VerifyPassword("Secret123", hash)
	if err != nil || !ok {
		t.Errorf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = svc.VerifyPassword("Wrong123", hash)
	if err != nil || ok {
		t.Errorf("expected mismatch without error, got ok=%v err=%v", ok, err)
	}

	if _, err := svc.VerifyPassword("Secret123", "not-a-hash"); err == nil {
		t.Error("expected error for corrupt hash")
	}
}
