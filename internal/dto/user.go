package dto

import (
	"strings"
	"time"

	"github.com/SraaaamX/realestate-api/internal/models"
)

// UserDTO is the public projection of a user. It never carries the password hash.
type UserDTO struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Nickname   string      `json:"nickname"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	ProfilePic *string     `json:"profilepic"`
	Phone      *string     `json:"phone"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// CreateUserRequest is accepted as JSON or as multipart form fields.
type CreateUserRequest struct {
	Name     string  `json:"name" form:"name"`
	Nickname string  `json:"nickname" form:"nickname"`
	Email    string  `json:"email" form:"email"`
	Password string  `json:"password" form:"password"`
	Role     string  `json:"role" form:"role"`
	Phone    *string `json:"phone" form:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UpdateUserRequest holds a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" form:"name"`
	Nickname *string `json:"nickname" form:"nickname"`
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
	Role     *string `json:"role" form:"role"`
	Phone    *string `json:"phone" form:"phone"`
}

// ToUpdates builds the column map for a partial update. The password must
// already be hashed by the caller and is passed separately.
func (r *UpdateUserRequest) ToUpdates(passwordHash string) map[string]interface{} {
	updates := map[string]interface{}{}

	if r.Name != nil {
		updates["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Nickname != nil {
		updates["nickname"] = strings.TrimSpace(*r.Nickname)
	}
	if r.Email != nil {
		updates["email"] = NormalizeEmail(*r.Email)
	}
	if passwordHash != "" {
		updates["password_hash"] = passwordHash
	}
	if r.Role != nil {
		updates["role"] = models.Role(*r.Role)
	}
	if r.Phone != nil {
		updates["phone"] = optionalString(r.Phone)
	}

	return updates
}

func ToUserDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}

	return &UserDTO{
		ID:         user.ID,
		Name:       user.Name,
		Nickname:   user.Nickname,
		Email:      user.Email,
		Role:       user.Role,
		ProfilePic: user.ProfilePic,
		Phone:      user.Phone,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func ToUserDTOList(users []*models.User) []*UserDTO {
	result := make([]*UserDTO, 0, len(users))
	for _, user := range users {
		result = append(result, ToUserDTO(user))
	}
	return result
}

// NormalizeEmail lowercases and trims an address so uniqueness checks are
// not defeated by casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
