package service_test

import (
	"context"

	"github.com/SraaaamX/realestate-api/internal/apperr"
	"github.com/SraaaamX/realestate-api/internal/broker"
	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/testutil"
)

func (s *ServiceTestSuite) TestCreateInquiry() {
	ctx := context.Background()
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)

	req := &dto.CreateInquiryRequest{
		UserID:        s.user.ID,
		PropertyID:    property.ID,
		InquiryType:   "visit_request",
		Message:       testutil.StrPtr("Can I visit on Saturday?"),
		PreferredDate: testutil.StrPtr("2026-11-07"),
	}
	inquiry, err := s.inquiries.Create(ctx, req, testutil.ActorFor(s.user))
	s.Require().NoError(err)

	s.Equal(models.InquiryPending, inquiry.Status)
	s.Require().NotNil(inquiry.PreferredDate)
	s.Equal(7, inquiry.PreferredDate.Day())
	s.Equal([]string{broker.InquiryCreated}, s.events.Types())
}

func (s *ServiceTestSuite) TestCreateInquiry_Validation() {
	ctx := context.Background()
	actor := testutil.ActorFor(s.user)

	_, err := s.inquiries.Create(ctx, &dto.CreateInquiryRequest{UserID: s.user.ID}, actor)
	s.True(apperr.Is(err, apperr.MissingField))
	s.Contains(apperr.Message(err), "property_id")

	_, err = s.inquiries.Create(ctx, &dto.CreateInquiryRequest{UserID: s.user.ID, PropertyID: "p", InquiryType: "complaint"}, actor)
	s.True(apperr.Is(err, apperr.InvalidInput))

	_, err = s.inquiries.Create(ctx, &dto.CreateInquiryRequest{UserID: s.user.ID, PropertyID: "p", InquiryType: "offer"}, nil)
	s.True(apperr.Is(err, apperr.Unauthenticated))

	s.Equal(int64(0), s.countRows(&models.Inquiry{}))
}

func (s *ServiceTestSuite) TestListInquiriesByUser_OwnerOrStaff() {
	ctx := context.Background()
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)
	testutil.CreateTestInquiry(s.T(), s.testDB.DB, s.user.ID, property.ID)

	inquiries, err := s.inquiries.ListByUser(ctx, s.user.ID, testutil.ActorFor(s.user))
	s.Require().NoError(err)
	s.Len(inquiries, 1)

	_, err = s.inquiries.ListByUser(ctx, s.user.ID, testutil.ActorFor(s.agent))
	s.NoError(err)

	other := testutil.CreateTestUser(s.T(), s.testDB.DB, "other", "other@example.com", "Other123456", models.RoleUser)
	_, err = s.inquiries.ListByUser(ctx, s.user.ID, testutil.ActorFor(other))
	s.True(apperr.Is(err, apperr.Forbidden))

	_, err = s.inquiries.ListByUser(ctx, other.ID, testutil.ActorFor(other))
	s.True(apperr.Is(err, apperr.NotFound))
}

func (s *ServiceTestSuite) TestInquiryStaffOperations() {
	ctx := context.Background()
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)
	inquiry := testutil.CreateTestInquiry(s.T(), s.testDB.DB, s.user.ID, property.ID)
	staff := testutil.ActorFor(s.agent)
	user := testutil.ActorFor(s.user)

	_, err := s.inquiries.List(ctx, user)
	s.True(apperr.Is(err, apperr.Forbidden))

	all, err := s.inquiries.List(ctx, staff)
	s.Require().NoError(err)
	s.Len(all, 1)

	_, err = s.inquiries.GetByID(ctx, inquiry.ID, user)
	s.True(apperr.Is(err, apperr.Forbidden))

	got, err := s.inquiries.GetByID(ctx, inquiry.ID, staff)
	s.Require().NoError(err)
	s.Equal(inquiry.ID, got.ID)

	byProperty, err := s.inquiries.ListByProperty(ctx, property.ID, staff)
	s.Require().NoError(err)
	s.Len(byProperty, 1)

	_, err = s.inquiries.ListByProperty(ctx, "missing", staff)
	s.True(apperr.Is(err, apperr.NotFound))
}

func (s *ServiceTestSuite) TestUpdateInquiry() {
	ctx := context.Background()
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)
	inquiry := testutil.CreateTestInquiry(s.T(), s.testDB.DB, s.user.ID, property.ID)
	staff := testutil.ActorFor(s.agent)

	updated, err := s.inquiries.Update(ctx, inquiry.ID, &dto.UpdateInquiryRequest{
		InquiryType:   testutil.StrPtr("offer"),
		PreferredTime: testutil.StrPtr("14:00"),
	}, staff)
	s.Require().NoError(err)
	s.Equal(models.InquiryOffer, updated.InquiryType)
	s.Equal("14:00", *updated.PreferredTime)

	_, err = s.inquiries.Update(ctx, inquiry.ID, &dto.UpdateInquiryRequest{Status: testutil.StrPtr("lost")}, staff)
	s.True(apperr.Is(err, apperr.InvalidInput))

	_, err = s.inquiries.Update(ctx, "missing", &dto.UpdateInquiryRequest{Message: testutil.StrPtr("x")}, staff)
	s.True(apperr.Is(err, apperr.NotFound))

	_, err = s.inquiries.Update(ctx, "missing", &dto.UpdateInquiryRequest{}, staff)
	s.True(apperr.Is(err, apperr.NotFound))

	_, err = s.inquiries.Update(ctx, inquiry.ID, &dto.UpdateInquiryRequest{Message: testutil.StrPtr("x")}, testutil.ActorFor(s.user))
	s.True(apperr.Is(err, apperr.Forbidden))
}

func (s *ServiceTestSuite) TestUpdateInquiry_BlankEnumAppliesNothing() {
	ctx := context.Background()
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)
	inquiry := testutil.CreateTestInquiry(s.T(), s.testDB.DB, s.user.ID, property.ID)
	staff := testutil.ActorFor(s.agent)

	for _, req := range []*dto.UpdateInquiryRequest{
		{Message: testutil.StrPtr("changed"), Status: testutil.StrPtr("")},
		{Message: testutil.StrPtr("changed"), InquiryType: testutil.StrPtr(" ")},
	} {
		_, err := s.inquiries.Update(ctx, inquiry.ID, req, staff)
		s.True(apperr.Is(err, apperr.InvalidInput), "%v", err)
	}

	current, err := s.inquiries.GetByID(ctx, inquiry.ID, staff)
	s.Require().NoError(err)
	s.Nil(current.Message)
	s.Equal(models.InquiryPending, current.Status)
	s.Equal(models.InquiryVisitRequest, current.InquiryType)
}

func (s *ServiceTestSuite) TestUpdateInquiryStatus() {
	ctx := context.Background()
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)
	inquiry := testutil.CreateTestInquiry(s.T(), s.testDB.DB, s.user.ID, property.ID)
	staff := testutil.ActorFor(s.agent)

	_, err := s.inquiries.UpdateStatus(ctx, inquiry.ID, "lost", staff)
	s.True(apperr.Is(err, apperr.InvalidInput))

	current, err := s.inquiries.GetByID(ctx, inquiry.ID, staff)
	s.Require().NoError(err)
	s.Equal(models.InquiryPending, current.Status)

	updated, err := s.inquiries.UpdateStatus(ctx, inquiry.ID, "confirmed", staff)
	s.Require().NoError(err)
	s.Equal(models.InquiryConfirmed, updated.Status)
	s.Equal([]string{broker.InquiryStatusChanged}, s.events.Types())

	_, err = s.inquiries.UpdateStatus(ctx, "missing", "confirmed", staff)
	s.True(apperr.Is(err, apperr.NotFound))
}

func (s *ServiceTestSuite) TestAddAgentResponse() {
	ctx := context.Background()
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)
	inquiry := testutil.CreateTestInquiry(s.T(), s.testDB.DB, s.user.ID, property.ID)
	staff := testutil.ActorFor(s.agent)

	_, err := s.inquiries.AddAgentResponse(ctx, inquiry.ID, "   ", staff)
	s.True(apperr.Is(err, apperr.MissingField))

	_, err = s.inquiries.AddAgentResponse(ctx, inquiry.ID, "Saturday works", testutil.ActorFor(s.user))
	s.True(apperr.Is(err, apperr.Forbidden))

	updated, err := s.inquiries.AddAgentResponse(ctx, inquiry.ID, "Saturday works", staff)
	s.Require().NoError(err)
	s.Equal("Saturday works", *updated.AgentResponse)
	s.Equal([]string{broker.InquiryResponded}, s.events.Types())
}

func (s *ServiceTestSuite) TestDeleteInquiry() {
	ctx := context.Background()
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)
	inquiry := testutil.CreateTestInquiry(s.T(), s.testDB.DB, s.user.ID, property.ID)

	err := s.inquiries.Delete(ctx, inquiry.ID, testutil.ActorFor(s.user))
	s.True(apperr.Is(err, apperr.Forbidden))

	s.Require().NoError(s.inquiries.Delete(ctx, inquiry.ID, testutil.ActorFor(s.admin)))

	err = s.inquiries.Delete(ctx, inquiry.ID, testutil.ActorFor(s.admin))
	s.True(apperr.Is(err, apperr.NotFound))
}
