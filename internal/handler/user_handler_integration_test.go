package handler_test

import (
	"net/http"

	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/testutil"
)

func (s *HandlerIntegrationTestSuite) TestListUsersAccess() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)

	w := s.doJSON(http.MethodGet, "/api/users", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.doJSON(http.MethodGet, "/api/users", nil, "Bearer not-a-token")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.doJSON(http.MethodGet, "/api/users", nil, testutil.BearerFor(s.T(), s.tokens, user))
	s.Equal(http.StatusForbidden, w.Code)

	w = s.doJSON(http.MethodGet, "/api/users", nil, testutil.BearerFor(s.T(), s.tokens, admin))
	s.Require().Equal(http.StatusOK, w.Code)
	users := s.decodeList(w)
	s.Len(users, 2)
	for _, u := range users {
		s.NotContains(u, "password")
	}
}

func (s *HandlerIntegrationTestSuite) TestUpdateOwnProfile() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)

	w := s.doJSON(http.MethodPatch, "/api/users/"+user.ID, map[string]string{
		"name": "Renamed",
		"role": "admin",
	}, testutil.BearerFor(s.T(), s.tokens, user))

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	response := s.decode(w)
	s.Equal("Renamed", response["name"])
	s.Equal("user", response["role"])
}

func (s *HandlerIntegrationTestSuite) TestUpdateOtherUserForbidden() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	other := testutil.CreateTestUser(s.T(), s.testDB.DB, "other", "other@example.com", "Other123456", models.RoleUser)

	w := s.doJSON(http.MethodPatch, "/api/users/"+other.ID, map[string]string{
		"name": "Hijacked",
	}, testutil.BearerFor(s.T(), s.tokens, user))

	s.Equal(http.StatusForbidden, w.Code)

	var stored models.User
	s.Require().NoError(s.testDB.DB.First(&stored, "id = ?", other.ID).Error)
	s.NotEqual("Hijacked", stored.Name)
}

func (s *HandlerIntegrationTestSuite) TestAdminPromotesUser() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)

	w := s.doJSON(http.MethodPatch, "/api/users/"+user.ID, map[string]string{
		"role": "agent",
	}, testutil.BearerFor(s.T(), s.tokens, admin))

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("agent", s.decode(w)["role"])
}

func (s *HandlerIntegrationTestSuite) TestDeleteUser() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)

	w := s.doJSON(http.MethodDelete, "/api/users/"+user.ID, nil, testutil.BearerFor(s.T(), s.tokens, admin))
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.doJSON(http.MethodGet, "/api/users/"+user.ID, nil, testutil.BearerFor(s.T(), s.tokens, admin))
	s.Equal(http.StatusNotFound, w.Code)
}
