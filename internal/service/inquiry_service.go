package service

import (
	"context"
	"strings"

	"github.com/SraaaamX/realestate-api/internal/apperr"
	"github.com/SraaaamX/realestate-api/internal/broker"
	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/policy"
	"github.com/SraaaamX/realestate-api/internal/repository"
	"github.com/SraaaamX/realestate-api/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrInquiryNotFound = apperr.New(apperr.NotFound, "inquiry not found")
	ErrNoInquiries     = apperr.New(apperr.NotFound, "no inquiries found")
)

type InquiryService struct {
	inquiryRepo *repository.InquiryRepository
	events      broker.EventPublisher
}

func NewInquiryService(inquiryRepo *repository.InquiryRepository, events broker.EventPublisher) *InquiryService {
	return &InquiryService{
		inquiryRepo: inquiryRepo,
		events:      events,
	}
}

// Create records a new inquiry. Any authenticated caller may file one.
func (s *InquiryService) Create(ctx context.Context, req *dto.CreateInquiryRequest, actor *policy.Actor) (*models.Inquiry, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		logger.Log.Warn("Inquiry creation missing fields",
			zap.Strings("fields", missing),
		)
		return nil, missingFields(missing)
	}

	inquiry, err := req.ToModel()
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, err.Error(), err)
	}
	if !inquiry.InquiryType.Valid() {
		return nil, invalidInput("invalid inquiry_type: %s", inquiry.InquiryType)
	}
	if !inquiry.Status.Valid() {
		return nil, invalidInput("invalid status: %s", inquiry.Status)
	}

	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	if err := s.inquiryRepo.CreateInquiry(ctx, inquiry); err != nil {
		logger.Log.Error("Failed to create inquiry",
			zap.String("property_id", inquiry.PropertyID),
			zap.Error(err),
		)
		return nil, internalError(err)
	}

	publish(ctx, s.events, broker.InquiryCreated, inquiry.ID, dto.ToInquiryDTO(inquiry))

	logger.Log.Info("Inquiry created successfully",
		zap.String("inquiry_id", inquiry.ID),
		zap.String("property_id", inquiry.PropertyID),
		zap.String("user_id", inquiry.UserID),
	)

	return inquiry, nil
}

func (s *InquiryService) List(ctx context.Context, actor *policy.Actor) ([]*models.Inquiry, error) {
	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return nil, err
	}
	return s.nonEmpty(s.inquiryRepo.GetAllInquiries(ctx))
}

func (s *InquiryService) GetByID(ctx context.Context, id string, actor *policy.Actor) (*models.Inquiry, error) {
	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// ListByUser returns the inquiries of userID. A caller may only list their
// own unless they are staff.
func (s *InquiryService) ListByUser(ctx context.Context, userID string, actor *policy.Actor) ([]*models.Inquiry, error) {
	if err := policy.RequireOwnerOrStaff(actor, userID); err != nil {
		logger.Log.Warn("Inquiry listing denied",
			zap.String("user_id", userID),
			zap.String("actor_id", actorID(actor)),
		)
		return nil, err
	}
	return s.nonEmpty(s.inquiryRepo.GetInquiriesByUser(ctx, userID))
}

func (s *InquiryService) ListByProperty(ctx context.Context, propertyID string, actor *policy.Actor) ([]*models.Inquiry, error) {
	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return nil, err
	}
	return s.nonEmpty(s.inquiryRepo.GetInquiriesByProperty(ctx, propertyID))
}

func (s *InquiryService) Update(ctx context.Context, id string, req *dto.UpdateInquiryRequest, actor *policy.Actor) (*models.Inquiry, error) {
	updates, err := req.ToUpdates()
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, err.Error(), err)
	}
	if req.InquiryType != nil && !models.InquiryType(trimmed(req.InquiryType)).Valid() {
		return nil, invalidInput("invalid inquiry_type: %q", trimmed(req.InquiryType))
	}
	if req.Status != nil && !models.InquiryStatus(trimmed(req.Status)).Valid() {
		return nil, invalidInput("invalid status: %q", trimmed(req.Status))
	}

	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return s.load(ctx, id)
	}
	return s.apply(ctx, id, updates)
}

func (s *InquiryService) Delete(ctx context.Context, id string, actor *policy.Actor) error {
	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return err
	}

	found, err := s.inquiryRepo.DeleteInquiry(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to delete inquiry",
			zap.String("inquiry_id", id),
			zap.Error(err),
		)
		return internalError(err)
	}
	if !found {
		return ErrInquiryNotFound
	}

	logger.Log.Info("Inquiry deleted successfully",
		zap.String("inquiry_id", id),
		zap.String("actor_id", actorID(actor)),
	)

	return nil
}

// UpdateStatus sets the inquiry status. Any valid status may replace any other.
func (s *InquiryService) UpdateStatus(ctx context.Context, id, status string, actor *policy.Actor) (*models.Inquiry, error) {
	next := models.InquiryStatus(strings.TrimSpace(status))
	if next == "" {
		return nil, apperr.New(apperr.MissingField, "status is required")
	}
	if !next.Valid() {
		return nil, invalidInput("invalid status: %s", status)
	}

	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return nil, err
	}

	inquiry, err := s.apply(ctx, id, map[string]interface{}{"status": next})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, broker.InquiryStatusChanged, inquiry.ID, dto.ToInquiryDTO(inquiry))

	return inquiry, nil
}

// AddAgentResponse stores the staff reply to an inquiry.
func (s *InquiryService) AddAgentResponse(ctx context.Context, id, response string, actor *policy.Actor) (*models.Inquiry, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, apperr.New(apperr.MissingField, "agent response is required")
	}

	if err := policy.RequireAgentOrAdmin(actor); err != nil {
		return nil, err
	}

	inquiry, err := s.apply(ctx, id, map[string]interface{}{"agent_response": response})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, broker.InquiryResponded, inquiry.ID, dto.ToInquiryDTO(inquiry))

	return inquiry, nil
}

func (s *InquiryService) apply(ctx context.Context, id string, updates map[string]interface{}) (*models.Inquiry, error) {
	found, err := s.inquiryRepo.UpdateInquiry(ctx, id, updates)
	if err != nil {
		logger.Log.Error("Failed to update inquiry",
			zap.String("inquiry_id", id),
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if !found {
		return nil, ErrInquiryNotFound
	}

	inquiry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Inquiry updated successfully",
		zap.String("inquiry_id", id),
		zap.Int("fields", len(updates)),
	)

	return inquiry, nil
}

func (s *InquiryService) load(ctx context.Context, id string) (*models.Inquiry, error) {
	inquiry, err := s.inquiryRepo.GetInquiryByID(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to get inquiry by id",
			zap.String("inquiry_id", id),
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if inquiry == nil {
		return nil, ErrInquiryNotFound
	}
	return inquiry, nil
}

func (s *InquiryService) nonEmpty(inquiries []*models.Inquiry, err error) ([]*models.Inquiry, error) {
	if err != nil {
		logger.Log.Error("Failed to fetch inquiries",
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if len(inquiries) == 0 {
		return nil, ErrNoInquiries
	}
	return inquiries, nil
}
