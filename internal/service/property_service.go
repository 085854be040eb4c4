package service

import (
	"context"
	"strings"
	"time"

	"github.com/SraaaamX/realestate-api/internal/apperr"
	"github.com/SraaaamX/realestate-api/internal/broker"
	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/policy"
	"github.com/SraaaamX/realestate-api/internal/repository"
	"github.com/SraaaamX/realestate-api/internal/storage"
	"github.com/SraaaamX/realestate-api/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrPropertyNotFound = apperr.New(apperr.NotFound, "property not found")
	ErrNoProperties     = apperr.New(apperr.NotFound, "no properties found")
)

type PropertyService struct {
	propertyRepo *repository.PropertyRepository
	files        storage.FileStore
	events       broker.EventPublisher
}

func NewPropertyService(propertyRepo *repository.PropertyRepository, files storage.FileStore, events broker.EventPublisher) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		files:        files,
		events:       events,
	}
}

func (s *PropertyService) List(ctx context.Context) ([]*models.Property, error) {
	properties, err := s.propertyRepo.GetAllProperties(ctx)
	if err != nil {
		logger.Log.Error("Failed to fetch properties",
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if len(properties) == 0 {
		return nil, ErrNoProperties
	}
	return properties, nil
}

func (s *PropertyService) GetByID(ctx context.Context, id string) (*models.Property, error) {
	return s.load(ctx, id)
}

// Search narrows the listing by every criterion present in query.
func (s *PropertyService) Search(ctx context.Context, query dto.PropertySearchQuery) ([]*models.Property, error) {
	start := time.Now()

	filter, err := repository.ParsePropertyFilter(query)
	if err != nil {
		logger.Log.Warn("Invalid search criterion",
			zap.Error(err),
		)
		return nil, apperr.Wrap(apperr.InvalidInput, err.Error(), err)
	}

	properties, err := s.propertyRepo.SearchProperties(ctx, filter)
	if err != nil {
		logger.Log.Error("Failed to search properties",
			zap.Error(err),
		)
		return nil, internalError(err)
	}

	logger.Log.Debug("Property search completed",
		zap.Int("count", len(properties)),
		zap.Duration("duration", time.Since(start)),
	)

	if len(properties) == 0 {
		return nil, ErrNoProperties
	}
	return properties, nil
}

// Create inserts a listing. image is the reference of an already stored
// upload, or empty; it is released on any failure.
func (s *PropertyService) Create(ctx context.Context, req *dto.CreatePropertyRequest, image string, actor *policy.Actor) (property *models.Property, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			releaseFile(s.files, image)
		}
	}()

	// 1. Validate input
	if missing := req.MissingFields(); len(missing) > 0 {
		logger.Log.Warn("Property creation missing fields",
			zap.Strings("fields", missing),
		)
		return nil, missingFields(missing)
	}

	property, err = req.ToModel()
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, err.Error(), err)
	}
	if err := validateProperty(property); err != nil {
		logger.Log.Warn("Property creation validation failed",
			zap.Error(err),
		)
		return nil, err
	}

	// 2. Policy
	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		logger.Log.Warn("Property creation denied",
			zap.String("actor_id", actorID(actor)),
		)
		return nil, err
	}

	if property.AgentID == nil {
		agentID := actor.SubjectID
		property.AgentID = &agentID
	}
	if image != "" {
		property.Image = &image
	}

	// 3. Persist
	if err := s.propertyRepo.CreateProperty(ctx, property); err != nil {
		logger.Log.Error("Failed to create property",
			zap.Error(err),
		)
		return nil, internalError(err)
	}

	publish(ctx, s.events, broker.PropertyCreated, property.ID, dto.ToPropertyDTO(property))

	logger.Log.Info("Property created successfully",
		zap.String("property_id", property.ID),
		zap.String("agent_id", strValue(property.AgentID)),
		zap.Duration("total_duration", time.Since(start)),
	)

	return property, nil
}

// Update applies a partial update. When image replaces an existing picture
// the old one is released after the write; when the property does not exist
// only the new upload is discarded.
func (s *PropertyService) Update(ctx context.Context, id string, req *dto.UpdatePropertyRequest, image string, actor *policy.Actor) (property *models.Property, err error) {
	persisted := false
	defer func() {
		if err != nil && !persisted {
			releaseFile(s.files, image)
		}
	}()

	// 1. Validate input
	if err := validatePropertyUpdate(req); err != nil {
		logger.Log.Warn("Property update validation failed",
			zap.String("property_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	updates, err := req.ToUpdates()
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, err.Error(), err)
	}

	// 2. Policy
	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		logger.Log.Warn("Property update denied",
			zap.String("property_id", id),
			zap.String("actor_id", actorID(actor)),
		)
		return nil, err
	}

	// 3. Load current record
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if image != "" {
		updates["image"] = image
	}
	if len(updates) == 0 {
		return current, nil
	}

	// 4. Persist
	found, err := s.propertyRepo.UpdateProperty(ctx, id, updates)
	if err != nil {
		logger.Log.Error("Failed to update property",
			zap.String("property_id", id),
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if !found {
		return nil, ErrPropertyNotFound
	}
	persisted = true

	property, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// 5. Release the replaced image
	if image != "" && current.Image != nil && *current.Image != image {
		releaseFile(s.files, *current.Image)
	}
	if property.Status != current.Status {
		publish(ctx, s.events, broker.PropertyStatusChanged, property.ID, statusChange(current.Status, property))
	}

	logger.Log.Info("Property updated successfully",
		zap.String("property_id", id),
		zap.Int("fields", len(updates)),
	)

	return property, nil
}

func (s *PropertyService) Delete(ctx context.Context, id string, actor *policy.Actor) error {
	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return err
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	found, err := s.propertyRepo.DeleteProperty(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to delete property",
			zap.String("property_id", id),
			zap.Error(err),
		)
		return internalError(err)
	}
	if !found {
		return ErrPropertyNotFound
	}

	if current.Image != nil {
		releaseFile(s.files, *current.Image)
	}

	logger.Log.Info("Property deleted successfully",
		zap.String("property_id", id),
		zap.String("actor_id", actorID(actor)),
	)

	return nil
}

// ToggleFeatured flips the featured flag in a single statement, so
// concurrent toggles never lose an update.
func (s *PropertyService) ToggleFeatured(ctx context.Context, id string, actor *policy.Actor) (*models.Property, error) {
	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return nil, err
	}

	found, err := s.propertyRepo.ToggleFeatured(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to toggle featured flag",
			zap.String("property_id", id),
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if !found {
		return nil, ErrPropertyNotFound
	}

	property, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Property featured flag toggled",
		zap.String("property_id", id),
		zap.Bool("featured", property.Featured),
	)

	return property, nil
}

// UpdateStatus sets the listing status. Any valid status may replace any other.
func (s *PropertyService) UpdateStatus(ctx context.Context, id, status string, actor *policy.Actor) (*models.Property, error) {
	next := models.PropertyStatus(strings.TrimSpace(status))
	if next == "" {
		return nil, apperr.New(apperr.MissingField, "status is required")
	}
	if !next.Valid() {
		return nil, invalidInput("invalid status: %s", status)
	}

	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return nil, err
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	found, err := s.propertyRepo.UpdateProperty(ctx, id, map[string]interface{}{"status": next})
	if err != nil {
		logger.Log.Error("Failed to update property status",
			zap.String("property_id", id),
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if !found {
		return nil, ErrPropertyNotFound
	}

	property, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, broker.PropertyStatusChanged, property.ID, statusChange(current.Status, property))

	logger.Log.Info("Property status updated",
		zap.String("property_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(property.Status)),
	)

	return property, nil
}

func (s *PropertyService) load(ctx context.Context, id string) (*models.Property, error) {
	property, err := s.propertyRepo.GetPropertyByID(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to get property by id",
			zap.String("property_id", id),
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	return property, nil
}

type propertyStatusChange struct {
	PropertyID string                `json:"property_id"`
	From       models.PropertyStatus `json:"from"`
	To         models.PropertyStatus `json:"to"`
}

func statusChange(from models.PropertyStatus, p *models.Property) propertyStatusChange {
	return propertyStatusChange{PropertyID: p.ID, From: from, To: p.Status}
}

func validateProperty(p *models.Property) error {
	if !p.PropertyType.Valid() {
		return invalidInput("invalid property_type: %s", p.PropertyType)
	}
	if !p.TransactionType.Valid() {
		return invalidInput("invalid transaction_type: %s", p.TransactionType)
	}
	if !p.Status.Valid() {
		return invalidInput("invalid status: %s", p.Status)
	}
	if p.Price.IsNegative() {
		return invalidInput("price must not be negative")
	}
	return nil
}

func validatePropertyUpdate(req *dto.UpdatePropertyRequest) error {
	// A present enum field must hold a known value; blank is not a no-op
	if req.PropertyType != nil && !models.PropertyType(trimmed(req.PropertyType)).Valid() {
		return invalidInput("invalid property_type: %q", trimmed(req.PropertyType))
	}
	if req.TransactionType != nil && !models.TransactionType(trimmed(req.TransactionType)).Valid() {
		return invalidInput("invalid transaction_type: %q", trimmed(req.TransactionType))
	}
	if req.Status != nil && !models.PropertyStatus(trimmed(req.Status)).Valid() {
		return invalidInput("invalid status: %q", trimmed(req.Status))
	}
	if err := dto.CheckFinite("price", req.Price); err != nil {
		return apperr.Wrap(apperr.InvalidInput, err.Error(), err)
	}
	if err := dto.CheckFinite("surface_area", req.SurfaceArea); err != nil {
		return apperr.Wrap(apperr.InvalidInput, err.Error(), err)
	}
	if req.Price != nil && *req.Price < 0 {
		return invalidInput("price must not be negative")
	}
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

