package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeOffice    PropertyType = "office"
	PropertyTypeLand      PropertyType = "land"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeVilla,
		PropertyTypeStudio, PropertyTypeOffice, PropertyTypeLand:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionSale TransactionType = "sale"
	TransactionRent TransactionType = "rent"
)

func (t TransactionType) Valid() bool {
	return t == TransactionSale || t == TransactionRent
}

// PropertyStatus values may replace each other freely; there is no transition graph.
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertySold      PropertyStatus = "sold"
	PropertyRented    PropertyStatus = "rented"
	PropertyPending   PropertyStatus = "pending"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertySold, PropertyRented, PropertyPending:
		return true
	}
	return false
}

type Property struct {
	ID               string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title            string          `gorm:"type:varchar(200);not null" json:"title"`
	Description      *string         `gorm:"type:text" json:"description,omitempty"`
	Price            decimal.Decimal `gorm:"type:numeric(14,2);not null;index" json:"price"`
	PropertyType     PropertyType    `gorm:"type:varchar(20);not null;index" json:"property_type"`
	TransactionType  TransactionType `gorm:"type:varchar(10);not null;index" json:"transaction_type"`
	Address          string          `gorm:"type:varchar(255);not null" json:"address"`
	City             string          `gorm:"type:varchar(100);not null;index" json:"city"`
	PostalCode       *string         `gorm:"type:varchar(20)" json:"postal_code,omitempty"`
	SurfaceArea      *float64        `json:"surface_area,omitempty"`
	Rooms            *int            `json:"rooms,omitempty"`
	Bedrooms         *int            `json:"bedrooms,omitempty"`
	Bathrooms        *int            `json:"bathrooms,omitempty"`
	Parking          bool            `gorm:"not null;default:false" json:"parking"`
	Garden           bool            `gorm:"not null;default:false" json:"garden"`
	Balcony          bool            `gorm:"not null;default:false" json:"balcony"`
	Elevator         bool            `gorm:"not null;default:false" json:"elevator"`
	ConstructionYear *int            `json:"construction_year,omitempty"`
	AvailabilityDate *time.Time      `json:"availability_date,omitempty"`
	Featured         bool            `gorm:"not null;default:false" json:"featured"`
	Status           PropertyStatus  `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	AgentID          *string         `gorm:"type:varchar(36);index" json:"agent_id,omitempty"`
	Image            *string         `gorm:"type:varchar(255)" json:"image,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PropertyAvailable
	}
	return nil
}
