package testutil

import (
	"testing"
	"time"

	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/policy"
	"github.com/SraaaamX/realestate-api/internal/utils"
)

// TestJWTSecret signs every token issued in tests
const TestJWTSecret = "test-secret-key"

// NewTestTokenManager returns a token manager bound to TestJWTSecret
func NewTestTokenManager() *utils.TokenManager {
	return utils.NewTokenManager(TestJWTSecret, time.Hour)
}

// ActorFor builds the acting identity a verified token for user would yield
func ActorFor(user *models.User) *policy.Actor {
	return &policy.Actor{SubjectID: user.ID, Role: user.Role}
}

// BearerFor issues a token for user and formats it as an Authorization header value
func BearerFor(t *testing.T, tm *utils.TokenManager, user *models.User) string {
	token, err := tm.Issue(user)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return "Bearer " + token
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string {
	return &s
}
