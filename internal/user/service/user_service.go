package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AlibekovAA/places-directory/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/places-directory/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/common/validation"
	"github.com/AlibekovAA/places-directory/internal/observability/metrics"
	"github.com/AlibekovAA/places-directory/internal/user/domain"
	userrepo "github.com/AlibekovAA/places-directory/internal/user/repository"
)

type Authenticator interface {
	IssueToken(userID, email string) (string, error)
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) (bool, error)
}

type Deps struct {
	Repo        userrepo.Repository
	Auth        Authenticator
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type UserService struct {
	repo        userrepo.Repository
	auth        Authenticator
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewUserService(deps Deps) *UserService {
	c := deps.Clock
	if c == nil {
		c = clock.NewRealClock()
	}

	return &UserService{
		repo:        deps.Repo,
		auth:        deps.Auth,
		idGenerator: deps.IDGenerator,
		clock:       c,
		log:         deps.Log,
	}
}

type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6,max=72,password"`
	Image    string `json:"image" validate:"required"`
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	UserID domain.ID
	Email  string
	Token  string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.Summary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "users_list_failed",
		}).Errorf("list users failed: %v", err)
		return nil, commonerrors.ErrStore.WithMessage("Fetching users failed, please try again later.").WithCause(err)
	}
	return users, nil
}

func (s *UserService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = NormalizeEmail(input.Email)

	logFields := logger.Fields{
		"email":  input.Email,
		"action": "signup",
	}
	s.log.WithFields(ctx, logFields).Debug("signup attempt")

	if err := validation.Struct(input); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"fields": strings.Join(validation.FailedFields(err), ","),
			"action": "signup_validation_failed",
		}).Warn("signup validation failed")
		return AuthResult{}, err
	}

	_, err := s.repo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		return AuthResult{}, ErrEmailTaken
	case !errors.Is(err, userrepo.ErrUserNotFound):
		s.log.WithFields(ctx, logFields).Errorf("signup lookup failed: %v", err)
		return AuthResult{}, commonerrors.ErrStore.WithMessage("Signing up failed, please try again later.").WithCause(err)
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logFields).Errorf("signup failed: password hash error: %v", err)
		return AuthResult{}, commonerrors.ErrStore.WithMessage("Could not create user, please try again.").WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logFields).Errorf("signup failed: id generation error: %v", err)
		return AuthResult{}, commonerrors.ErrStore.WithMessage("Could not create user, please try again.").WithCause(err)
	}

	user := domain.User{
		ID:           domain.ID(id),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Image:        input.Image,
		Places:       []string{},
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return AuthResult{}, ErrEmailTaken
		}
		s.log.WithFields(ctx, logFields).Errorf("signup failed: %v", err)
		return AuthResult{}, commonerrors.ErrStore.WithMessage("Signing up failed, please try again later.").WithCause(err)
	}

	token, err := s.auth.IssueToken(string(user.ID), user.Email)
	if err != nil {
		return AuthResult{}, err
	}

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": user.ID,
		"action":  "signup_success",
	}).Info("user signed up")

	return AuthResult{UserID: user.ID, Email: user.Email, Token: token}, nil
}

// Login fails with the same error whether the email is unknown or the
// password is wrong.
func (s *UserService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := NormalizeEmail(input.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_failed",
			}).Warn("login failed: invalid credentials")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_lookup_failed",
		}).Errorf("login lookup failed: %v", err)
		return AuthResult{}, commonerrors.ErrStore.WithMessage("Logging in failed, please try again later.").WithCause(err)
	}

	ok, err := s.auth.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "login_verify_failed",
		}).Errorf("password verification failed: %v", err)
		return AuthResult{}, commonerrors.ErrStore.WithMessage("Could not log you in, please check your credentials and try again.").WithCause(err)
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_failed",
		}).Warn("login failed: invalid credentials")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(string(user.ID), user.Email)
	if err != nil {
		return AuthResult{}, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": user.ID,
		"action":  "login_success",
	}).Info("user logged in")

	return AuthResult{UserID: user.ID, Email: user.Email, Token: token}, nil
}
