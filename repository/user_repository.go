package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/car-rent-api/models"
	"gorm.io/gorm"
)

// UserRepository maps Auth0 identities to local user profiles
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository on top of db
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByAuth0ID finds the profile bound to an Auth0 subject
func (r *UserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Create inserts a profile; a taken Auth0 ID or email yields ErrDuplicateUser
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateProfile writes the name and email of an existing profile
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	res := conn(ctx, r.db).Model(user).Select("name", "email").Updates(user)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
