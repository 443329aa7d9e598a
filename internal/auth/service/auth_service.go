package service

import (
	"errors"

	commoncrypto "github.com/AlibekovAA/places-directory/internal/common/crypto"
	"github.com/AlibekovAA/places-directory/internal/common/jwtverify"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
)

// AuthService owns session tokens and password hashes. It keeps no state
// beyond its signing key.
type AuthService struct {
	issuer *TokenIssuer
	hasher commoncrypto.PasswordHasher
	log    *logger.Logger
}

func NewAuthService(issuer *TokenIssuer, hasher commoncrypto.PasswordHasher, log *logger.Logger) *AuthService {
	return &AuthService{
		issuer: issuer,
		hasher: hasher,
		log:    log,
	}
}

func (s *AuthService) IssueToken(userID, email string) (string, error) {
	token, err := s.issuer.IssueToken(userID, email)
	if err != nil {
		s.log.Errorf("token issue failed user_id=%s: %v", userID, err)
		return "", ErrTokenIssue.WithCause(err)
	}
	return token, nil
}

func (s *AuthService) VerifyToken(token string) (jwtverify.Claims, error) {
	if token == "" {
		return jwtverify.Claims{}, ErrInvalidToken.WithCause(jwtverify.ErrMissingToken)
	}

	claims, err := s.issuer.ParseToken(token)
	if err != nil {
		return jwtverify.Claims{}, ErrInvalidToken.WithCause(err)
	}
	return claims, nil
}

func (s *AuthService) HashPassword(plain string) (string, error) {
	return s.hasher.Hash(plain)
}

// VerifyPassword reports a mismatch as false with no error; any other
// failure (such as a corrupt hash) is returned.
func (s *AuthService) VerifyPassword(plain, hash string) (bool, error) {
	err := s.hasher.Compare(hash, plain)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, commoncrypto.ErrPasswordMismatch) {
		return false, nil
	}
	return false, err
}
