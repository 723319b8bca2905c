// Package auth registers accounts, checks passwords and issues the bearer
// tokens that identify a user to the HTTP API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/snipbox/internal/store"
)

// Config configures the Service.
type Config struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

// RegisterInput is the registration request.
type RegisterInput struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginInput is the login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service implements account registration and authentication.
type Service struct {
	users    store.UserRepo
	tokens   *Tokens
	cost     int
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService creates an auth service.
func NewService(users store.UserRepo, cfg Config, logger *slog.Logger) (*Service, error) {
	tokens, err := NewTokens(cfg.Secret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		cost:     cfg.BcryptCost,
		validate: validator.New(),
		logger:   logger,
	}, nil
}

// TokenTTL returns the lifetime of issued tokens.
func (s *Service) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Register creates an account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*store.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validate.Struct(in); err != nil {
		return nil, "", registerError(err)
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, "", &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes),
			Err:     bcrypt.ErrPasswordTooLong,
		}
	}

	hash, err := HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, "", err
	}

	u := &store.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user registered", "user_id", u.ID)
	return u, token, nil
}

// Login checks credentials and returns the user with a signed token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*store.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, "", &ValidationError{Message: "email and password are required", Err: err}
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	if !CheckPassword(u.PasswordHash, in.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate verifies token and loads its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return u, nil
}

// registerMessages orders the checks the way they are reported: a missing
// field beats a mismatch, which beats a short password.
var registerMessages = []struct {
	tag, field, message string
}{
	{"required", "", "all fields are required"},
	{"eqfield", "ConfirmPassword", "passwords do not match"},
	{"min", "Password", "password must be at least 6 characters"},
	{"email", "Email", "invalid email address"},
	{"max", "Name", "name must be at most 100 characters"},
}

func registerError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Message: "invalid input", Err: err}
	}
	for _, m := range registerMessages {
		for _, fe := range verrs {
			if fe.Tag() == m.tag && (m.field == "" || fe.StructField() == m.field) {
				return &ValidationError{Field: fe.Field(), Message: m.message, Err: err}
			}
		}
	}
	return &ValidationError{Field: verrs[0].Field(), Message: "invalid input", Err: err}
}
