package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/repository"
)

var ( // Define custom errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService interface {
	Register(email, password string) (*models.User, error)
	Login(email, password string) (string, error) // Returns a signed bearer token
	GetUser(id int64) (*models.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService, logger *zap.Logger) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

func (s *authService) Register(email, password string) (*models.User, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: passwordHash,
	}

	err = s.users.CreateUser(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return user, nil
}

func (s *authService) Login(email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		// Same failure as a bad password so login does not reveal which
		// emails are registered.
		s.logger.Debug("Login attempt for unknown email")
		return "", ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.Password) {
		s.logger.Debug("Login attempt with wrong password", zap.Int64("user_id", user.ID))
		return "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return tokenString, nil
}

func (s *authService) GetUser(id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		s.logger.Error("Failed to get user by id", zap.Int64("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
