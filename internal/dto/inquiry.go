package dto

import (
	"strings"
	"time"

	"github.com/SraaaamX/realestate-api/internal/models"
)

type InquiryDTO struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	PropertyID    string               `json:"property_id"`
	InquiryType   models.InquiryType   `json:"inquiry_type"`
	Message       *string              `json:"message"`
	PreferredDate *time.Time           `json:"preferred_date"`
	PreferredTime *string              `json:"preferred_time"`
	Status        models.InquiryStatus `json:"status"`
	AgentResponse *string              `json:"agent_response"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type CreateInquiryRequest struct {
	UserID        string  `json:"user_id" form:"user_id"`
	PropertyID    string  `json:"property_id" form:"property_id"`
	InquiryType   string  `json:"inquiry_type" form:"inquiry_type"`
	Message       *string `json:"message" form:"message"`
	PreferredDate *string `json:"preferred_date" form:"preferred_date"`
	PreferredTime *string `json:"preferred_time" form:"preferred_time"`
	Status        *string `json:"status" form:"status"`
	AgentResponse *string `json:"agent_response" form:"agent_response"`
}

func (r *CreateInquiryRequest) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.UserID) == "" {
		missing = append(missing, "user_id")
	}
	if strings.TrimSpace(r.PropertyID) == "" {
		missing = append(missing, "property_id")
	}
	if strings.TrimSpace(r.InquiryType) == "" {
		missing = append(missing, "inquiry_type")
	}
	return missing
}

func (r *CreateInquiryRequest) ToModel() (*models.Inquiry, error) {
	preferred, err := ParseDate(r.PreferredDate)
	if err != nil {
		return nil, err
	}

	inquiry := &models.Inquiry{
		UserID:        strings.TrimSpace(r.UserID),
		PropertyID:    strings.TrimSpace(r.PropertyID),
		InquiryType:   models.InquiryType(strings.TrimSpace(r.InquiryType)),
		Message:       optionalString(r.Message),
		PreferredDate: preferred,
		PreferredTime: optionalString(r.PreferredTime),
		Status:        models.InquiryPending,
		AgentResponse: optionalString(r.AgentResponse),
	}
	if !blank(r.Status) {
		inquiry.Status = models.InquiryStatus(strings.TrimSpace(*r.Status))
	}

	return inquiry, nil
}

// UpdateInquiryRequest holds a partial update; nil fields are left untouched.
// The owning user and property of an inquiry cannot be reassigned.
type UpdateInquiryRequest struct {
	InquiryType   *string `json:"inquiry_type" form:"inquiry_type"`
	Message       *string `json:"message" form:"message"`
	PreferredDate *string `json:"preferred_date" form:"preferred_date"`
	PreferredTime *string `json:"preferred_time" form:"preferred_time"`
	Status        *string `json:"status" form:"status"`
	AgentResponse *string `json:"agent_response" form:"agent_response"`
}

func (r *UpdateInquiryRequest) ToUpdates() (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if !blank(r.InquiryType) {
		updates["inquiry_type"] = strings.TrimSpace(*r.InquiryType)
	}
	if !blank(r.Status) {
		updates["status"] = strings.TrimSpace(*r.Status)
	}
	if r.Message != nil {
		updates["message"] = optionalString(r.Message)
	}
	if r.PreferredDate != nil {
		date, err := ParseDate(r.PreferredDate)
		if err != nil {
			return nil, err
		}
		updates["preferred_date"] = date
	}
	if r.PreferredTime != nil {
		updates["preferred_time"] = optionalString(r.PreferredTime)
	}
	if r.AgentResponse != nil {
		updates["agent_response"] = optionalString(r.AgentResponse)
	}

	return updates, nil
}

type UpdateInquiryStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// AgentResponseRequest accepts the reply under either "agent_response" or "response".
type AgentResponseRequest struct {
	AgentResponse string `json:"agent_response" form:"agent_response"`
	Response      string `json:"response" form:"response"`
}

func (r *AgentResponseRequest) Text() string {
	if text := strings.TrimSpace(r.AgentResponse); text != "" {
		return text
	}
	return strings.TrimSpace(r.Response)
}

func ToInquiryDTO(i *models.Inquiry) *InquiryDTO {
	if i == nil {
		return nil
	}

	return &InquiryDTO{
		ID:            i.ID,
		UserID:        i.UserID,
		PropertyID:    i.PropertyID,
		InquiryType:   i.InquiryType,
		Message:       i.Message,
		PreferredDate: i.PreferredDate,
		PreferredTime: i.PreferredTime,
		Status:        i.Status,
		AgentResponse: i.AgentResponse,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func ToInquiryDTOList(inquiries []*models.Inquiry) []*InquiryDTO {
	result := make([]*InquiryDTO, 0, len(inquiries))
	for _, i := range inquiries {
		result = append(result, ToInquiryDTO(i))
	}
	return result
}
