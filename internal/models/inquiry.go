package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InquiryType string

const (
	InquiryVisitRequest InquiryType = "visit_request"
	InquiryInfoRequest  InquiryType = "info_request"
	InquiryOffer        InquiryType = "offer"
)

func (t InquiryType) Valid() bool {
	switch t {
	case InquiryVisitRequest, InquiryInfoRequest, InquiryOffer:
		return true
	}
	return false
}

// InquiryStatus values may replace each other freely; there is no transition graph.
type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "pending"
	InquiryConfirmed InquiryStatus = "confirmed"
	InquiryCompleted InquiryStatus = "completed"
	InquiryCancelled InquiryStatus = "cancelled"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryPending, InquiryConfirmed, InquiryCompleted, InquiryCancelled:
		return true
	}
	return false
}

type Inquiry struct {
	ID            string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PropertyID    string        `gorm:"type:varchar(36);not null;index" json:"property_id"`
	InquiryType   InquiryType   `gorm:"type:varchar(20);not null" json:"inquiry_type"`
	Message       *string       `gorm:"type:text" json:"message,omitempty"`
	PreferredDate *time.Time    `json:"preferred_date,omitempty"`
	PreferredTime *string       `gorm:"type:varchar(20)" json:"preferred_time,omitempty"`
	Status        InquiryStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AgentResponse *string       `gorm:"type:text" json:"agent_response,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = InquiryPending
	}
	return nil
}
