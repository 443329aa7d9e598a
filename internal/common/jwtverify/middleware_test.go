package jwtverify

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/places-directory/internal/common/logger"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type verifierFunc func(token string) (Claims, error)

func (f verifierFunc) VerifyToken(token string) (Claims, error) {
	return f(token)
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims TokenClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(now time.Time) TokenClaims {
	return TokenClaims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestParseToken_Valid(t *testing.T) {
	now := time.Now()
	token := sign(t, jwt.SigningMethodHS256, testSecret, validClaims(now))

	claims, err := ParseToken(token, testSecret, nil)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "user-1", Email: "a@x.com"}, claims)
}

func TestParseToken_Expired(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	token := sign(t, jwt.SigningMethodHS256, testSecret, validClaims(issued))

	_, err := ParseToken(token, testSecret, func() time.Time { return issued.Add(2 * time.Hour) })
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), validClaims(time.Now()))

	_, err := ParseToken(token, testSecret, nil)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS512, testSecret, validClaims(time.Now()))

	_, err := ParseToken(token, testSecret, nil)
	assert.Error(t, err)
}

func TestParseToken_MissingEmail(t *testing.T) {
	c := validClaims(time.Now())
	c.Email = ""
	token := sign(t, jwt.SigningMethodHS256, testSecret, c)

	_, err := ParseToken(token, testSecret, nil)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestMiddleware(t *testing.T) {
	verifier := verifierFunc(func(token string) (Claims, error) {
		if token == "good" {
			return Claims{UserID: "u1", Email: "a@x.com"}, nil
		}
		return Claims{}, errors.New("bad token")
	})

	var seen Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Middleware(verifier, logger.Discard())(next)

	cases := []struct {
		name     string
		method   string
		header   string
		status   int
		wantUser string
	}{
		{"valid token", http.MethodPost, "Bearer good", http.StatusNoContent, "u1"},
		{"missing header", http.MethodPost, "", http.StatusUnauthorized, ""},
		{"wrong scheme", http.MethodPost, "Basic good", http.StatusUnauthorized, ""},
		{"empty bearer", http.MethodPost, "Bearer ", http.StatusUnauthorized, ""},
		{"invalid token", http.MethodDelete, "Bearer bad", http.StatusUnauthorized, ""},
		{"preflight bypass", http.MethodOptions, "", http.StatusNoContent, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = Claims{}
			req := httptest.NewRequest(tc.method, "/api/places", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.wantUser, seen.UserID)
			if tc.status == http.StatusUnauthorized {
				var body struct {
					Message string `json:"message"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "Authentication failed!", body.Message)
			}
		})
	}
}
