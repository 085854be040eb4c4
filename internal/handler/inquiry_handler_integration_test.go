package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/SraaaamX/realestate-api/internal/testutil"
)

func (s *HandlerIntegrationTestSuite) TestCreateInquiryAsUser() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "Canal flat", "Amsterdam", 300000)

	w := s.doJSON(http.MethodPost, "/api/inquiries", map[string]string{
		"user_id":        user.ID,
		"property_id":    property.ID,
		"inquiry_type":   "visit_request",
		"message":        "Is Saturday possible?",
		"preferred_date": "2026-11-07",
	}, testutil.BearerFor(s.T(), s.tokens, user))

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	inquiry := s.decode(w)
	s.Equal("pending", inquiry["status"])
	s.Equal(property.ID, inquiry["property_id"])
	s.Nil(inquiry["agent_response"])
}

func (s *HandlerIntegrationTestSuite) TestCreateInquiryValidation() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	bearer := testutil.BearerFor(s.T(), s.tokens, user)

	w := s.doJSON(http.MethodPost, "/api/inquiries", map[string]string{"user_id": user.ID}, bearer)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.doJSON(http.MethodPost, "/api/inquiries", map[string]string{
		"user_id":      user.ID,
		"property_id":  "p1",
		"inquiry_type": "haggle",
	}, bearer)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.doJSON(http.MethodPost, "/api/inquiries", map[string]string{
		"user_id":        user.ID,
		"property_id":    "p1",
		"inquiry_type":   "offer",
		"preferred_date": "next week",
	}, bearer)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerIntegrationTestSuite) TestCreateInquiryRequiresToken() {
	w := s.doJSON(http.MethodPost, "/api/inquiries", map[string]string{
		"user_id":      "u1",
		"property_id":  "p1",
		"inquiry_type": "offer",
	}, "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerIntegrationTestSuite) TestListInquiriesByUser() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	other := testutil.CreateTestUser(s.T(), s.testDB.DB, "other", "other@example.com", "Other123456", "user")
	agent := testutil.DefaultAgentUser(s.T(), s.testDB.DB)
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "Canal flat", "Amsterdam", 300000)
	testutil.CreateTestInquiry(s.T(), s.testDB.DB, user.ID, property.ID)

	// Own inquiries
	w := s.doJSON(http.MethodGet, "/api/inquiries/user/"+user.ID, nil, testutil.BearerFor(s.T(), s.tokens, user))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Len(s.decodeList(w), 1)

	// Someone else's
	w = s.doJSON(http.MethodGet, "/api/inquiries/user/"+user.ID, nil, testutil.BearerFor(s.T(), s.tokens, other))
	s.Equal(http.StatusForbidden, w.Code)

	// Staff sees everyone's
	w = s.doJSON(http.MethodGet, "/api/inquiries/user/"+user.ID, nil, testutil.BearerFor(s.T(), s.tokens, agent))
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerIntegrationTestSuite) TestListAllInquiriesIsStaffOnly() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "Canal flat", "Amsterdam", 300000)
	testutil.CreateTestInquiry(s.T(), s.testDB.DB, user.ID, property.ID)

	w := s.doJSON(http.MethodGet, "/api/inquiries", nil, testutil.BearerFor(s.T(), s.tokens, user))
	s.Equal(http.StatusForbidden, w.Code)

	w = s.doJSON(http.MethodGet, "/api/inquiries", nil, testutil.BearerFor(s.T(), s.tokens, admin))
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(s.decodeList(w), 1)

	w = s.doJSON(http.MethodGet, "/api/inquiries/property/"+property.ID, nil, testutil.BearerFor(s.T(), s.tokens, admin))
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(s.decodeList(w), 1)
}

func (s *HandlerIntegrationTestSuite) TestAgentRespondsToInquiry() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	agent := testutil.DefaultAgentUser(s.T(), s.testDB.DB)
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "Canal flat", "Amsterdam", 300000)
	inquiry := testutil.CreateTestInquiry(s.T(), s.testDB.DB, user.ID, property.ID)
	bearer := testutil.BearerFor(s.T(), s.tokens, agent)

	// The short key is accepted as well
	w := s.doJSON(http.MethodPatch, "/api/inquiries/"+inquiry.ID+"/response", map[string]string{
		"response": "Saturday at 10 works",
	}, bearer)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("Saturday at 10 works", s.decode(w)["agent_response"])

	w = s.doJSON(http.MethodPatch, "/api/inquiries/"+inquiry.ID+"/response", map[string]string{}, bearer)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.doJSON(http.MethodPatch, "/api/inquiries/"+inquiry.ID+"/status", map[string]string{"status": "confirmed"}, bearer)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("confirmed", s.decode(w)["status"])

	// Users cannot answer
	w = s.doJSON(http.MethodPatch, "/api/inquiries/"+inquiry.ID+"/response", map[string]string{
		"agent_response": "self-service",
	}, testutil.BearerFor(s.T(), s.tokens, user))
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerIntegrationTestSuite) TestDeleteUnknownInquiry() {
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)

	w := s.doJSON(http.MethodDelete, "/api/inquiries/missing", nil, testutil.BearerFor(s.T(), s.tokens, admin))
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("inquiry not found", s.decode(w)["error"])
}

func (s *HandlerIntegrationTestSuite) TestCreateInquiryFormEncoded() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	property := testutil.CreateTestProperty(s.T(), s.testDB.DB, "Canal flat", "Amsterdam", 300000)

	form := url.Values{
		"user_id":      {user.ID},
		"property_id":  {property.ID},
		"inquiry_type": {"info_request"},
		"message":      {"Pets allowed?"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/inquiries", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", testutil.BearerFor(s.T(), s.tokens, user))

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	inquiry := s.decode(w)
	s.Equal("info_request", inquiry["inquiry_type"])
	s.Equal("Pets allowed?", inquiry["message"])
}
