package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SraaaamX/realestate-api/internal/models"
	"gorm.io/gorm"
)

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	if err := r.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return fmt.Errorf("repository: create inquiry: %w", err)
	}
	return nil
}

// GetInquiryByID returns nil, nil when the inquiry does not exist.
func (r *InquiryRepository) GetInquiryByID(ctx context.Context, id string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inquiry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: get inquiry: %w", err)
	}

	return &inquiry, nil
}

func (r *InquiryRepository) GetAllInquiries(ctx context.Context) ([]*models.Inquiry, error) {
	return r.find(ctx, "")
}

func (r *InquiryRepository) GetInquiriesByUser(ctx context.Context, userID string) ([]*models.Inquiry, error) {
	return r.find(ctx, "user_id = ?", userID)
}

func (r *InquiryRepository) GetInquiriesByProperty(ctx context.Context, propertyID string) ([]*models.Inquiry, error) {
	return r.find(ctx, "property_id = ?", propertyID)
}

func (r *InquiryRepository) find(ctx context.Context, query string, args ...interface{}) ([]*models.Inquiry, error) {
	var inquiries []*models.Inquiry

	tx := r.db.WithContext(ctx)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return nil, fmt.Errorf("repository: list inquiries: %w", err)
	}
	return inquiries, nil
}

// UpdateInquiry applies a column map to one inquiry and reports whether it existed.
func (r *InquiryRepository) UpdateInquiry(ctx context.Context, id string, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Inquiry{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("repository: update inquiry: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *InquiryRepository) DeleteInquiry(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Inquiry{})
	if result.Error != nil {
		return false, fmt.Errorf("repository: delete inquiry: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
