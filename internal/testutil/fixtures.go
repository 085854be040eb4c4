package testutil

import (
	"testing"

	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user with a hashed password and returns it.
func CreateTestUser(t *testing.T, db *gorm.DB, nickname, email, password string, role models.Role) *models.User {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         nickname + " Test",
		Nickname:     nickname,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// DefaultTestUser inserts a regular user
func DefaultTestUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "testuser", "test@example.com", "Test123456", models.RoleUser)
}

// DefaultAgentUser inserts an agent
func DefaultAgentUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "agent", "agent@example.com", "Agent123456", models.RoleAgent)
}

// DefaultAdminUser inserts an admin
func DefaultAdminUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "admin", "admin@example.com", "Admin123456", models.RoleAdmin)
}

// CreateTestProperty inserts a property in the given city at the given price.
func CreateTestProperty(t *testing.T, db *gorm.DB, title, city string, price int64) *models.Property {
	property := &models.Property{
		Title:           title,
		Price:           decimal.NewFromInt(price),
		PropertyType:    models.PropertyTypeApartment,
		TransactionType: models.TransactionSale,
		Address:         "1 Test Street",
		City:            city,
		Status:          models.PropertyAvailable,
	}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("Failed to create test property: %v", err)
	}
	return property
}

// CreateTestInquiry inserts a pending visit request.
func CreateTestInquiry(t *testing.T, db *gorm.DB, userID, propertyID string) *models.Inquiry {
	inquiry := &models.Inquiry{
		UserID:      userID,
		PropertyID:  propertyID,
		InquiryType: models.InquiryVisitRequest,
		Status:      models.InquiryPending,
	}
	if err := db.Create(inquiry).Error; err != nil {
		t.Fatalf("Failed to create test inquiry: %v", err)
	}
	return inquiry
}
