package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applog "github.com/kendall-kelly/car-rent-api/logger"
	"github.com/kendall-kelly/car-rent-api/models"
	"github.com/kendall-kelly/car-rent-api/repository"
	"go.uber.org/zap"
)

// ErrUserInfoUnavailable wraps failures of the Auth0 userinfo call
var ErrUserInfoUnavailable = errors.New("auth0 userinfo unavailable")

// UserRepository stores local profiles keyed by Auth0 subject
type UserRepository interface {
	GetByAuth0ID(ctx context.Context, auth0ID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
}

// UpdateProfileInput holds the profile fields a user may change
type UpdateProfileInput struct {
	Name  string
	Email string
}

// UserService provisions and reads local user profiles
type UserService struct {
	users    UserRepository
	userInfo UserInfoProvider
	logger   *zap.Logger
}

// NewUserService creates a user service
func NewUserService(users UserRepository, userInfo UserInfoProvider, logger *zap.Logger) *UserService {
	return &UserService{users: users, userInfo: userInfo, logger: applog.OrNop(logger)}
}

// Provision creates the caller's profile from their Auth0 userinfo.
// Unknown roles fall back to a private person.
func (s *UserService) Provision(ctx context.Context, auth0ID, accessToken string, role models.Role) (*models.User, error) {
	info, err := s.userInfo.GetUserInfo(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfoUnavailable, err)
	}
	if strings.TrimSpace(info.Email) == "" {
		return nil, validationError("MISSING_EMAIL", "Email not provided by Auth0", nil)
	}
	if strings.TrimSpace(info.Name) == "" {
		return nil, validationError("MISSING_NAME", "Name not provided by Auth0", nil)
	}
	if !role.Valid() {
		role = models.RolePerson
	}

	user := &models.User{
		Auth0ID: auth0ID,
		Name:    info.Name,
		Email:   info.Email,
		Role:    role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, conflictError("USER_EXISTS", "A user with this Auth0 ID or email already exists")
		}
		return nil, err
	}

	s.logger.Info("user provisioned", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Profile returns the profile bound to auth0ID
func (s *UserService) Profile(ctx context.Context, auth0ID string) (*models.User, error) {
	user, err := s.users.GetByAuth0ID(ctx, auth0ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFoundError("USER_NOT_FOUND", "User profile not found. Please create a profile first.")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the name and/or email of the caller's profile
func (s *UserService) UpdateProfile(ctx context.Context, auth0ID string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, auth0ID)
	if err != nil {
		return nil, err
	}
	if in.Name == "" && in.Email == "" {
		return user, nil
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUser):
			return nil, conflictError("EMAIL_EXISTS", "A user with this email already exists")
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, notFoundError("USER_NOT_FOUND", "User profile not found")
		}
		return nil, err
	}
	return user, nil
}
