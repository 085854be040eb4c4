package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PropertyFilter is a flat set of search criteria. Every non-nil criterion
// narrows the result; nil criteria impose no constraint.
type PropertyFilter struct {
	PropertyType    *models.PropertyType
	TransactionType *models.TransactionType
	Status          *models.PropertyStatus
	City            *string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	MinSurface      *float64
	MaxSurface      *float64
	Rooms           *int
}

// InvalidCriterionError reports a search parameter that could not be parsed.
type InvalidCriterionError struct {
	Field string
	Value string
}

func (e *InvalidCriterionError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Field)
}

// ParsePropertyFilter converts raw query parameters into a filter.
func ParsePropertyFilter(q dto.PropertySearchQuery) (PropertyFilter, error) {
	var f PropertyFilter

	if v := strings.TrimSpace(q.PropertyType); v != "" {
		t := models.PropertyType(v)
		f.PropertyType = &t
	}
	if v := strings.TrimSpace(q.TransactionType); v != "" {
		t := models.TransactionType(v)
		f.TransactionType = &t
	}
	if v := strings.TrimSpace(q.Status); v != "" {
		s := models.PropertyStatus(v)
		f.Status = &s
	}
	if v := strings.TrimSpace(q.City); v != "" {
		f.City = &v
	}

	var err error
	if f.MinPrice, err = parseDecimal("min_price", q.MinPrice); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseDecimal("max_price", q.MaxPrice); err != nil {
		return f, err
	}
	if f.MinSurface, err = parseFloat("min_surface", q.MinSurface); err != nil {
		return f, err
	}
	if f.MaxSurface, err = parseFloat("max_surface", q.MaxSurface); err != nil {
		return f, err
	}
	if v := strings.TrimSpace(q.Rooms); v != "" {
		rooms, convErr := strconv.Atoi(v)
		if convErr != nil {
			return f, &InvalidCriterionError{Field: "rooms", Value: v}
		}
		f.Rooms = &rooms
	}

	return f, nil
}

// Scopes renders the filter as gorm scopes combined with AND.
// Range bounds are inclusive; city matches case-insensitively as a substring.
func (f PropertyFilter) Scopes() []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB

	where := func(query string, arg interface{}) {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(query, arg)
		})
	}

	if f.PropertyType != nil {
		where("property_type = ?", string(*f.PropertyType))
	}
	if f.TransactionType != nil {
		where("transaction_type = ?", string(*f.TransactionType))
	}
	if f.Status != nil {
		where("status = ?", string(*f.Status))
	}
	if f.City != nil {
		where(`LOWER(city) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(*f.City))+"%")
	}
	if f.MinPrice != nil {
		where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where("price <= ?", *f.MaxPrice)
	}
	if f.MinSurface != nil {
		where("surface_area >= ?", *f.MinSurface)
	}
	if f.MaxSurface != nil {
		where("surface_area <= ?", *f.MaxSurface)
	}
	if f.Rooms != nil {
		where("rooms = ?", *f.Rooms)
	}

	return scopes
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func parseDecimal(field, raw string) (*decimal.Decimal, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, &InvalidCriterionError{Field: field, Value: v}
	}
	return &d, nil
}

func parseFloat(field, raw string) (*float64, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &InvalidCriterionError{Field: field, Value: v}
	}
	return &f, nil
}
