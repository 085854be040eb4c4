package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SraaaamX/realestate-api/internal/models"
	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) CreateProperty(ctx context.Context, property *models.Property) error {
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		return fmt.Errorf("repository: create property: %w", translate(err))
	}
	return nil
}

// GetPropertyByID returns nil, nil when the property does not exist.
func (r *PropertyRepository) GetPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: get property: %w", err)
	}

	return &property, nil
}

func (r *PropertyRepository) GetAllProperties(ctx context.Context) ([]*models.Property, error) {
	return r.SearchProperties(ctx, PropertyFilter{})
}

// SearchProperties returns every property matching all criteria of filter.
func (r *PropertyRepository) SearchProperties(ctx context.Context, filter PropertyFilter) ([]*models.Property, error) {
	var properties []*models.Property
	err := r.db.WithContext(ctx).
		Scopes(filter.Scopes()...).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("repository: search properties: %w", err)
	}
	return properties, nil
}

// UpdateProperty applies a column map to one property and reports whether it existed.
func (r *PropertyRepository) UpdateProperty(ctx context.Context, id string, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("repository: update property: %w", translate(result.Error))
	}
	return result.RowsAffected > 0, nil
}

// ToggleFeatured flips the featured flag in a single statement so concurrent
// toggles cannot read the same stale value.
func (r *PropertyRepository) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		Update("featured", gorm.Expr("NOT featured"))
	if result.Error != nil {
		return false, fmt.Errorf("repository: toggle featured: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PropertyRepository) DeleteProperty(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Property{})
	if result.Error != nil {
		return false, fmt.Errorf("repository: delete property: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
