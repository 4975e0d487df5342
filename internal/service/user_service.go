package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"surveydesk/internal/auth"
	apperrors "surveydesk/internal/errors"
	"surveydesk/internal/model"
	"surveydesk/internal/repository"
)

// DefaultUser is an account created at bootstrap when absent.
type DefaultUser struct {
	Username string
	Password string
	Role     model.Role
}

// DefaultUsers are seeded on every start; existing usernames are left untouched.
var DefaultUsers = []DefaultUser{
	{Username: "admin", Password: "admin123", Role: model.RoleAdministrator},
	{Username: "gestor", Password: "gestor123", Role: model.RoleManager},
}

// UserService manages the credential store.
type UserService interface {
	// Add creates an account; created is false when the username already exists.
	Add(ctx context.Context, username, password string, role model.Role) (created bool, err error)
	List(ctx context.Context) ([]model.User, error)
	Remove(ctx context.Context, id uint) error
	EnsureDefaultUsers(ctx context.Context) error
}

type userService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Add(ctx context.Context, username, password string, role model.Role) (bool, error) {
	// Usernames are stored exactly as given; Verify matches them byte for byte.
	if strings.TrimSpace(username) == "" || password == "" {
		return false, fmt.Errorf("%w: username and password are required", apperrors.ErrValidation)
	}
	if !role.Valid() {
		return false, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: auth.HashPassword(password),
		Role:         role,
	}
	created, err := s.repo.CreateIfAbsent(ctx, user)
	if err != nil {
		s.logger.Error("add user failed", zap.String("username", username), zap.Error(err))
		return false, fmt.Errorf("add user: %w", apperrors.ErrPersistence)
	}
	if !created {
		s.logger.Info("username already exists", zap.String("username", username))
	}
	return created, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", apperrors.ErrPersistence)
	}
	return users, nil
}

func (s *userService) Remove(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("remove user failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("remove user: %w", apperrors.ErrPersistence)
	}
	return nil
}

func (s *userService) EnsureDefaultUsers(ctx context.Context) error {
	for _, du := range DefaultUsers {
		created, err := s.Add(ctx, du.Username, du.Password, du.Role)
		if err != nil {
			return err
		}
		if created {
			s.logger.Info("seeded default account", zap.String("username", du.Username), zap.String("role", string(du.Role)))
		}
	}
	return nil
}
