package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taskman-io/taskman/internal/domain/entity"
	repo "github.com/taskman-io/taskman/internal/domain/repository"
	"github.com/taskman-io/taskman/pkg/helpers"
)

var (
	// ErrInvalidCredentials covers every login failure so callers cannot tell
	// an unknown username apart from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService implements registration, login and token issuance.
type AuthService struct {
	Users      repo.UserRepository
	JWT        *helpers.JWTManager
	Logger     *logrus.Logger
	BcryptCost int
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, bcryptCost int) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger, BcryptCost: bcryptCost}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user with a hashed password. Username and email are
// checked up front to produce specific conflict errors; the database unique
// constraints still backstop concurrent registrations.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if existing, err := s.Users.GetByUsername(ctx, in.Username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if existing, err := s.Users.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPasswordWithCost(in.Password, s.BcryptCost)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Error("password hashing failed")
		}
		return nil, err
	}

	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login validates the credentials and issues a bearer token whose subject is
// the username. Unknown users and wrong passwords yield the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil || u == nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Issue(u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", username).Error("token issuance failed")
		}
		return "", time.Time{}, err
	}
	return token, exp, nil
}
