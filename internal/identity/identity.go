// Package identity registers accounts, checks credentials and resolves bearer
// tokens back to users.
package identity

import (
	"context"
	"errors"
	"strings"

	"palettefolio/internal/apperror"
	applog "palettefolio/internal/log"
	"palettefolio/internal/store"
	"palettefolio/internal/validate"
	"palettefolio/models"
)

// Errors returned by Register, Login and Authenticate. The messages are the
// public text rendered to clients.
var (
	ErrFieldsRequired     = apperror.Validation("All fields are required")
	ErrInvalidName        = apperror.Validation("Name must be between 2 and 50 characters")
	ErrInvalidEmail       = apperror.Validation("Please provide a valid email address")
	ErrWeakPassword       = apperror.Validation("Password must be at least 8 characters and contain uppercase, lowercase, numbers, and special characters")
	ErrEmailTaken         = apperror.Conflict("Email already registered")
	ErrInvalidCredentials = apperror.Auth("Invalid credentials")
	ErrUnknownUser        = apperror.Auth("not authorized, user not found")
)

// UserRepository is the persistence the service needs.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

// PasswordHasher hashes and checks plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, storedHash string) bool
}

// TokenIssuer signs and verifies bearer tokens carrying a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(raw string) (string, error)
}

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Result is returned by a successful register or login. The user fields are
// promoted so the JSON body is flat: {"_id","name","email","token"}.
type Result struct {
	models.PublicUser
	Token string `json:"token"`
}

// Service holds no per-user state; every call is self contained.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewService builds the account service from its storage, hashing and token
// collaborators.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Register validates input, creates the account and issues a token. Checks run
// in a fixed order and the first failure wins.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return Result{}, ErrFieldsRequired
	}
	if !validate.IsValidName(in.Name) {
		return Result{}, ErrInvalidName
	}
	if !validate.IsValidEmail(in.Email) {
		return Result{}, ErrInvalidEmail
	}
	if !validate.IsStrongPassword(in.Password) {
		return Result{}, ErrWeakPassword
	}

	email := models.NormalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Result{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return Result{}, apperror.Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Result{}, apperror.Internal(err)
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// A concurrent registration can pass the lookup above; the unique
		// index decides.
		if errors.Is(err, store.ErrDuplicate) {
			return Result{}, ErrEmailTaken
		}
		return Result{}, apperror.Internal(err)
	}

	applog.Info(ctx, "user registered", "userID", user.ID)
	return s.issue(user)
}

// Login checks credentials. Unknown emails and wrong passwords are reported
// identically.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			applog.Debug(ctx, "login for unknown email")
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, apperror.Internal(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		applog.Debug(ctx, "login with wrong password", "userID", user.ID)
		return Result{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, raw string) (models.User, error) {
	userID, err := s.tokens.Verify(raw)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrUnknownUser
		}
		return models.User{}, apperror.Internal(err)
	}
	return user, nil
}

func (s *Service) issue(user models.User) (Result, error) {
	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Result{}, apperror.Internal(err)
	}
	return Result{PublicUser: user.PublicView(), Token: signed}, nil
}
