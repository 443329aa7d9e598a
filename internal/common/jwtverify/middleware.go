package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
	commonhttp "github.com/AlibekovAA/places-directory/internal/common/http"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/observability/metrics"
)

var (
	ErrMissingToken  = errors.New("missing or invalid authorization header")
	ErrInvalidClaims = errors.New("missing sub or email claims")
)

type Claims struct {
	UserID string
	Email  string
}

// TokenClaims is the signed payload of a session token.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Verifier interface {
	VerifyToken(token string) (Claims, error)
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

// Middleware rejects requests without a valid bearer token. Preflight
// requests pass through untouched.
func Middleware(verifier Verifier, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := bearerToken(r)
			if err == nil {
				var claims Claims
				claims, err = verifier.VerifyToken(tokenString)
				if err == nil {
					ctx := WithClaims(r.Context(), claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			log.WithFields(r.Context(), logger.Fields{
				"path":   r.URL.Path,
				"action": "jwt_auth_failed",
			}).Warnf("jwt auth failed: %v", err)
			commonhttp.HandleError(w, r, commonerrors.ErrAuthenticationFailed.WithCause(err), log)
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	raw := r.Header.Get("Authorization")
	if !strings.HasPrefix(raw, "Bearer ") {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	val := ctx.Value(claimsKey)
	claims, ok := val.(Claims)
	return claims, ok
}

// ParseToken accepts only HS256 tokens signed with secret. now drives
// expiry checks; nil means wall clock.
func ParseToken(tokenString string, secret []byte, now func() time.Time) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}

	var tc TokenClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &tc, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, err
	}

	if tc.Subject == "" || tc.Email == "" {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, ErrInvalidClaims
	}

	return Claims{
		UserID: tc.Subject,
		Email:  tc.Email,
	}, nil
}
