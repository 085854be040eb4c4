package dto

import (
	"strings"
	"time"

	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/shopspring/decimal"
)

type PropertyDTO struct {
	ID               string                 `json:"id"`
	Title            string                 `json:"title"`
	Description      *string                `json:"description"`
	Price            decimal.Decimal        `json:"price"`
	PropertyType     models.PropertyType    `json:"property_type"`
	TransactionType  models.TransactionType `json:"transaction_type"`
	Address          string                 `json:"address"`
	City             string                 `json:"city"`
	PostalCode       *string                `json:"postal_code"`
	SurfaceArea      *float64               `json:"surface_area"`
	Rooms            *int                   `json:"rooms"`
	Bedrooms         *int                   `json:"bedrooms"`
	Bathrooms        *int                   `json:"bathrooms"`
	Parking          bool                   `json:"parking"`
	Garden           bool                   `json:"garden"`
	Balcony          bool                   `json:"balcony"`
	Elevator         bool                   `json:"elevator"`
	ConstructionYear *int                   `json:"construction_year"`
	AvailabilityDate *time.Time             `json:"availability_date"`
	Featured         bool                   `json:"featured"`
	Status           models.PropertyStatus  `json:"status"`
	AgentID          *string                `json:"agent_id"`
	Image            *string                `json:"image"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// CreatePropertyRequest is accepted as JSON or as multipart form fields.
// Required fields are pointers so that absence can be told apart from zero.
type CreatePropertyRequest struct {
	Title            *string  `json:"title" form:"title"`
	Description      *string  `json:"description" form:"description"`
	Price            *float64 `json:"price" form:"price"`
	PropertyType     *string  `json:"property_type" form:"property_type"`
	TransactionType  *string  `json:"transaction_type" form:"transaction_type"`
	Address          *string  `json:"address" form:"address"`
	City             *string  `json:"city" form:"city"`
	PostalCode       *string  `json:"postal_code" form:"postal_code"`
	SurfaceArea      *float64 `json:"surface_area" form:"surface_area"`
	Rooms            *int     `json:"rooms" form:"rooms"`
	Bedrooms         *int     `json:"bedrooms" form:"bedrooms"`
	Bathrooms        *int     `json:"bathrooms" form:"bathrooms"`
	Parking          *bool    `json:"parking" form:"parking"`
	Garden           *bool    `json:"garden" form:"garden"`
	Balcony          *bool    `json:"balcony" form:"balcony"`
	Elevator         *bool    `json:"elevator" form:"elevator"`
	ConstructionYear *int     `json:"construction_year" form:"construction_year"`
	AvailabilityDate *string  `json:"availability_date" form:"availability_date"`
	Featured         *bool    `json:"featured" form:"featured"`
	Status           *string  `json:"status" form:"status"`
	AgentID          *string  `json:"agent_id" form:"agent_id"`
}

// MissingFields lists the mandatory fields absent from the request.
func (r *CreatePropertyRequest) MissingFields() []string {
	var missing []string
	if blank(r.Title) {
		missing = append(missing, "title")
	}
	if r.Price == nil {
		missing = append(missing, "price")
	}
	if blank(r.PropertyType) {
		missing = append(missing, "property_type")
	}
	if blank(r.TransactionType) {
		missing = append(missing, "transaction_type")
	}
	if blank(r.Address) {
		missing = append(missing, "address")
	}
	if blank(r.City) {
		missing = append(missing, "city")
	}
	return missing
}

// ToModel maps the request onto a new record. It assumes MissingFields
// returned nothing.
func (r *CreatePropertyRequest) ToModel() (*models.Property, error) {
	if err := CheckFinite("price", r.Price); err != nil {
		return nil, err
	}
	if err := CheckFinite("surface_area", r.SurfaceArea); err != nil {
		return nil, err
	}

	availability, err := ParseDate(r.AvailabilityDate)
	if err != nil {
		return nil, err
	}

	property := &models.Property{
		Title:            strings.TrimSpace(*r.Title),
		Description:      optionalString(r.Description),
		Price:            decimal.NewFromFloat(*r.Price),
		PropertyType:     models.PropertyType(strings.TrimSpace(*r.PropertyType)),
		TransactionType:  models.TransactionType(strings.TrimSpace(*r.TransactionType)),
		Address:          strings.TrimSpace(*r.Address),
		City:             strings.TrimSpace(*r.City),
		PostalCode:       optionalString(r.PostalCode),
		SurfaceArea:      r.SurfaceArea,
		Rooms:            r.Rooms,
		Bedrooms:         r.Bedrooms,
		Bathrooms:        r.Bathrooms,
		Parking:          boolValue(r.Parking),
		Garden:           boolValue(r.Garden),
		Balcony:          boolValue(r.Balcony),
		Elevator:         boolValue(r.Elevator),
		ConstructionYear: r.ConstructionYear,
		AvailabilityDate: availability,
		Featured:         boolValue(r.Featured),
		Status:           models.PropertyAvailable,
		AgentID:          optionalString(r.AgentID),
	}
	if !blank(r.Status) {
		property.Status = models.PropertyStatus(strings.TrimSpace(*r.Status))
	}

	return property, nil
}

// UpdatePropertyRequest holds a partial update; nil fields are left untouched.
type UpdatePropertyRequest struct {
	Title            *string  `json:"title" form:"title"`
	Description      *string  `json:"description" form:"description"`
	Price            *float64 `json:"price" form:"price"`
	PropertyType     *string  `json:"property_type" form:"property_type"`
	TransactionType  *string  `json:"transaction_type" form:"transaction_type"`
	Address          *string  `json:"address" form:"address"`
	City             *string  `json:"city" form:"city"`
	PostalCode       *string  `json:"postal_code" form:"postal_code"`
	SurfaceArea      *float64 `json:"surface_area" form:"surface_area"`
	Rooms            *int     `json:"rooms" form:"rooms"`
	Bedrooms         *int     `json:"bedrooms" form:"bedrooms"`
	Bathrooms        *int     `json:"bathrooms" form:"bathrooms"`
	Parking          *bool    `json:"parking" form:"parking"`
	Garden           *bool    `json:"garden" form:"garden"`
	Balcony          *bool    `json:"balcony" form:"balcony"`
	Elevator         *bool    `json:"elevator" form:"elevator"`
	ConstructionYear *int     `json:"construction_year" form:"construction_year"`
	AvailabilityDate *string  `json:"availability_date" form:"availability_date"`
	Featured         *bool    `json:"featured" form:"featured"`
	Status           *string  `json:"status" form:"status"`
	AgentID          *string  `json:"agent_id" form:"agent_id"`
}

// ToUpdates builds the column map for a partial update. Mandatory text
// columns cannot be blanked; a blank value for them is ignored.
func (r *UpdatePropertyRequest) ToUpdates() (map[string]interface{}, error) {
	if err := CheckFinite("price", r.Price); err != nil {
		return nil, err
	}
	if err := CheckFinite("surface_area", r.SurfaceArea); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	setText := func(column string, v *string) {
		if !blank(v) {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	setText("title", r.Title)
	setText("property_type", r.PropertyType)
	setText("transaction_type", r.TransactionType)
	setText("address", r.Address)
	setText("city", r.City)
	setText("status", r.Status)

	if r.Description != nil {
		updates["description"] = optionalString(r.Description)
	}
	if r.Price != nil {
		updates["price"] = decimal.NewFromFloat(*r.Price)
	}
	if r.PostalCode != nil {
		updates["postal_code"] = optionalString(r.PostalCode)
	}
	if r.SurfaceArea != nil {
		updates["surface_area"] = *r.SurfaceArea
	}
	if r.Rooms != nil {
		updates["rooms"] = *r.Rooms
	}
	if r.Bedrooms != nil {
		updates["bedrooms"] = *r.Bedrooms
	}
	if r.Bathrooms != nil {
		updates["bathrooms"] = *r.Bathrooms
	}
	if r.Parking != nil {
		updates["parking"] = *r.Parking
	}
	if r.Garden != nil {
		updates["garden"] = *r.Garden
	}
	if r.Balcony != nil {
		updates["balcony"] = *r.Balcony
	}
	if r.Elevator != nil {
		updates["elevator"] = *r.Elevator
	}
	if r.ConstructionYear != nil {
		updates["construction_year"] = *r.ConstructionYear
	}
	if r.AvailabilityDate != nil {
		date, err := ParseDate(r.AvailabilityDate)
		if err != nil {
			return nil, err
		}
		updates["availability_date"] = date
	}
	if r.Featured != nil {
		updates["featured"] = *r.Featured
	}
	if r.AgentID != nil {
		updates["agent_id"] = optionalString(r.AgentID)
	}

	return updates, nil
}

// PropertySearchQuery is bound from the query string of the search endpoint.
// Numeric bounds stay strings so a malformed value can be reported precisely.
type PropertySearchQuery struct {
	PropertyType    string `form:"property_type"`
	TransactionType string `form:"transaction_type"`
	City            string `form:"city"`
	MinPrice        string `form:"min_price"`
	MaxPrice        string `form:"max_price"`
	MinSurface      string `form:"min_surface"`
	MaxSurface      string `form:"max_surface"`
	Rooms           string `form:"rooms"`
	Status          string `form:"status"`
}

type UpdatePropertyStatusRequest struct {
	Status string `json:"status" form:"status"`
}

func ToPropertyDTO(p *models.Property) *PropertyDTO {
	if p == nil {
		return nil
	}

	return &PropertyDTO{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		Price:            p.Price,
		PropertyType:     p.PropertyType,
		TransactionType:  p.TransactionType,
		Address:          p.Address,
		City:             p.City,
		PostalCode:       p.PostalCode,
		SurfaceArea:      p.SurfaceArea,
		Rooms:            p.Rooms,
		Bedrooms:         p.Bedrooms,
		Bathrooms:        p.Bathrooms,
		Parking:          p.Parking,
		Garden:           p.Garden,
		Balcony:          p.Balcony,
		Elevator:         p.Elevator,
		ConstructionYear: p.ConstructionYear,
		AvailabilityDate: p.AvailabilityDate,
		Featured:         p.Featured,
		Status:           p.Status,
		AgentID:          p.AgentID,
		Image:            p.Image,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ToPropertyDTOList(properties []*models.Property) []*PropertyDTO {
	result := make([]*PropertyDTO, 0, len(properties))
	for _, p := range properties {
		result = append(result, ToPropertyDTO(p))
	}
	return result
}
