package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SraaaamX/realestate-api/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("repository: create user: %w", translate(err))
	}
	return nil
}

// GetUserByEmail returns nil, nil when no user has the address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: get user by email: %w", err)
	}

	return &user, nil
}

// GetUserByID returns nil, nil when the user does not exist.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: get user by id: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("repository: list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies a column map to one user and reports whether it existed.
func (r *UserRepository) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("repository: update user: %w", translate(result.Error))
	}
	return result.RowsAffected > 0, nil
}

// DeleteUser removes a user permanently and reports whether it existed.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return false, fmt.Errorf("repository: delete user: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
