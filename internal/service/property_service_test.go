package service_test

import (
	"context"
	"math"
	"sync"

	"github.com/SraaaamX/realestate-api/internal/apperr"
	"github.com/SraaaamX/realestate-api/internal/broker"
	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/testutil"
	"github.com/shopspring/decimal"
)

func floatPtr(f float64) *float64 { return &f }

func boolPtr(b bool) *bool { return &b }

func validPropertyRequest() *dto.CreatePropertyRequest {
	return &dto.CreatePropertyRequest{
		Title:           testutil.StrPtr("Sunny flat"),
		Price:           floatPtr(250000),
		PropertyType:    testutil.StrPtr("apartment"),
		TransactionType: testutil.StrPtr("sale"),
		Address:         testutil.StrPtr("12 Rue de la Paix"),
		City:            testutil.StrPtr("Paris"),
		Parking:         boolPtr(true),
	}
}

func (s *ServiceTestSuite) TestCreateProperty_Success() {
	property, err := s.properties.Create(context.Background(), validPropertyRequest(), "/uploads/properties/p.png", testutil.ActorFor(s.agent))
	s.Require().NoError(err)

	s.NotEmpty(property.ID)
	s.Equal(models.PropertyAvailable, property.Status)
	s.True(property.Parking)
	s.False(property.Featured)
	s.True(decimal.NewFromInt(250000).Equal(property.Price))
	s.Require().NotNil(property.AgentID)
	s.Equal(s.agent.ID, *property.AgentID)
	s.Require().NotNil(property.Image)
	s.Equal("/uploads/properties/p.png", *property.Image)

	s.Equal([]string{broker.PropertyCreated}, s.events.Types())
	s.Empty(s.files.Removed())
}

func (s *ServiceTestSuite) TestCreateProperty_ExplicitAgentKept() {
	req := validPropertyRequest()
	req.AgentID = testutil.StrPtr(s.agent.ID)

	property, err := s.properties.Create(context.Background(), req, "", testutil.ActorFor(s.admin))
	s.Require().NoError(err)
	s.Equal(s.agent.ID, *property.AgentID)
}

func (s *ServiceTestSuite) TestCreateProperty_MissingFieldWritesNothing() {
	req := validPropertyRequest()
	req.City = nil
	req.Price = nil

	_, err := s.properties.Create(context.Background(), req, "/uploads/properties/orphan.png", testutil.ActorFor(s.agent))

	s.True(apperr.Is(err, apperr.MissingField))
	s.Contains(apperr.Message(err), "price")
	s.Contains(apperr.Message(err), "city")
	s.Equal(int64(0), s.countRows(&models.Property{}))
	s.Equal([]string{"/uploads/properties/orphan.png"}, s.files.Removed())
	s.Empty(s.events.Types())
}

func (s *ServiceTestSuite) TestCreateProperty_InvalidInput() {
	ctx := context.Background()
	actor := testutil.ActorFor(s.agent)

	req := validPropertyRequest()
	req.PropertyType = testutil.StrPtr("castle")
	_, err := s.properties.Create(ctx, req, "", actor)
	s.True(apperr.Is(err, apperr.InvalidInput))

	req = validPropertyRequest()
	req.Price = floatPtr(-1)
	_, err = s.properties.Create(ctx, req, "", actor)
	s.True(apperr.Is(err, apperr.InvalidInput))

	req = validPropertyRequest()
	req.AvailabilityDate = testutil.StrPtr("next tuesday")
	_, err = s.properties.Create(ctx, req, "", actor)
	s.True(apperr.Is(err, apperr.InvalidInput))

	s.Equal(int64(0), s.countRows(&models.Property{}))
}

func (s *ServiceTestSuite) TestCreateProperty_ForbiddenForUser() {
	_, err := s.properties.Create(context.Background(), validPropertyRequest(), "/uploads/properties/nope.png", testutil.ActorFor(s.user))

	s.True(apperr.Is(err, apperr.Forbidden))
	s.Equal([]string{"/uploads/properties/nope.png"}, s.files.Removed())
	s.Equal(int64(0), s.countRows(&models.Property{}))
}

func (s *ServiceTestSuite) TestListProperties() {
	ctx := context.Background()

	_, err := s.properties.List(ctx)
	s.True(apperr.Is(err, apperr.NotFound))

	testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)
	testutil.CreateTestProperty(s.T(), s.testDB.DB, "Two", "Lyon", 200000)

	properties, err := s.properties.List(ctx)
	s.Require().NoError(err)
	s.Len(properties, 2)
}

func (s *ServiceTestSuite) TestGetPropertyByID() {
	created := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)

	property, err := s.properties.GetByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal("One", property.Title)

	_, err = s.properties.GetByID(context.Background(), "missing")
	s.True(apperr.Is(err, apperr.NotFound))
}

func (s *ServiceTestSuite) TestSearch_RangeAndCity() {
	ctx := context.Background()
	db := s.testDB.DB

	testutil.CreateTestProperty(s.T(), db, "Cheap Paris", "Paris", 100000)
	mid := testutil.CreateTestProperty(s.T(), db, "Mid Paris", "paris", 200000)
	top := testutil.CreateTestProperty(s.T(), db, "Top Paris", "PARIS", 300000)
	testutil.CreateTestProperty(s.T(), db, "Lyon", "Lyon", 250000)

	results, err := s.properties.Search(ctx, dto.PropertySearchQuery{
		City:     "Par",
		MinPrice: "200000",
		MaxPrice: "300000",
	})
	s.Require().NoError(err)

	ids := make([]string, 0, len(results))
	for _, p := range results {
		ids = append(ids, p.ID)
		s.True(p.Price.GreaterThanOrEqual(decimal.NewFromInt(200000)))
		s.True(p.Price.LessThanOrEqual(decimal.NewFromInt(300000)))
	}
	s.ElementsMatch([]string{mid.ID, top.ID}, ids)

	// Bounds are inclusive
	results, err = s.properties.Search(ctx, dto.PropertySearchQuery{MinPrice: "250000", MaxPrice: "250000"})
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal("Lyon", results[0].Title)

	// No criteria returns everything
	results, err = s.properties.Search(ctx, dto.PropertySearchQuery{})
	s.Require().NoError(err)
	s.Len(results, 4)
}

func (s *ServiceTestSuite) TestSearch_WildcardsAreLiteral() {
	testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)

	_, err := s.properties.Search(context.Background(), dto.PropertySearchQuery{City: "%"})
	s.True(apperr.Is(err, apperr.NotFound))
}

func (s *ServiceTestSuite) TestSearch_InvalidBoundAndNoMatch() {
	ctx := context.Background()
	testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)

	_, err := s.properties.Search(ctx, dto.PropertySearchQuery{MinPrice: "cheap"})
	s.True(apperr.Is(err, apperr.InvalidInput))

	_, err = s.properties.Search(ctx, dto.PropertySearchQuery{City: "Berlin"})
	s.True(apperr.Is(err, apperr.NotFound))
}

func (s *ServiceTestSuite) TestUpdateProperty_PartialAndImageReplacement() {
	ctx := context.Background()
	actor := testutil.ActorFor(s.agent)

	created, err := s.properties.Create(ctx, validPropertyRequest(), "/uploads/properties/old.png", actor)
	s.Require().NoError(err)

	req := &dto.UpdatePropertyRequest{
		Title:   testutil.StrPtr("Renovated flat"),
		Parking: boolPtr(false),
	}
	updated, err := s.properties.Update(ctx, created.ID, req, "/uploads/properties/new.png", actor)
	s.Require().NoError(err)

	s.Equal("Renovated flat", updated.Title)
	s.False(updated.Parking)
	s.Equal("Paris", updated.City)
	s.Equal("/uploads/properties/new.png", *updated.Image)
	s.Equal([]string{"/uploads/properties/old.png"}, s.files.Removed())
}

func (s *ServiceTestSuite) TestUpdateProperty_NotFoundKeepsExistingImage() {
	_, err := s.properties.Update(context.Background(), "missing", &dto.UpdatePropertyRequest{Title: testutil.StrPtr("x")}, "/uploads/properties/new.png", testutil.ActorFor(s.agent))

	s.True(apperr.Is(err, apperr.NotFound))
	s.Equal([]string{"/uploads/properties/new.png"}, s.files.Removed())
}

func (s *ServiceTestSuite) TestUpdateProperty_InvalidEnumAppliesNothing() {
	created := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)

	req := &dto.UpdatePropertyRequest{
		Title:  testutil.StrPtr("Changed"),
		Status: testutil.StrPtr("demolished"),
	}
	_, err := s.properties.Update(context.Background(), created.ID, req, "", testutil.ActorFor(s.agent))
	s.True(apperr.Is(err, apperr.InvalidInput))

	current, err := s.properties.GetByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal("One", current.Title)
	s.Equal(models.PropertyAvailable, current.Status)
}

func (s *ServiceTestSuite) TestCreateProperty_NonFinitePriceRejected() {
	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		req := validPropertyRequest()
		req.Price = floatPtr(price)

		_, err := s.properties.Create(context.Background(), req, "/uploads/properties/nan.png", testutil.ActorFor(s.agent))
		s.True(apperr.Is(err, apperr.InvalidInput), "price %v: %v", price, err)
	}

	req := validPropertyRequest()
	req.SurfaceArea = floatPtr(math.NaN())
	_, err := s.properties.Create(context.Background(), req, "", testutil.ActorFor(s.agent))
	s.True(apperr.Is(err, apperr.InvalidInput))

	var count int64
	s.testDB.DB.Model(&models.Property{}).Count(&count)
	s.Equal(int64(0), count)
	s.Len(s.files.Removed(), 3)
}

func (s *ServiceTestSuite) TestUpdateProperty_NonFinitePriceRejected() {
	created := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)

	req := &dto.UpdatePropertyRequest{Price: floatPtr(math.Inf(1))}
	_, err := s.properties.Update(context.Background(), created.ID, req, "/uploads/properties/inf.png", testutil.ActorFor(s.agent))

	s.True(apperr.Is(err, apperr.InvalidInput))
	s.Equal([]string{"/uploads/properties/inf.png"}, s.files.Removed())
}

func (s *ServiceTestSuite) TestUpdateProperty_BlankEnumAppliesNothing() {
	created := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)

	for _, req := range []*dto.UpdatePropertyRequest{
		{Title: testutil.StrPtr("Renamed"), Status: testutil.StrPtr("")},
		{Title: testutil.StrPtr("Renamed"), PropertyType: testutil.StrPtr("  ")},
		{Title: testutil.StrPtr("Renamed"), TransactionType: testutil.StrPtr("")},
	} {
		_, err := s.properties.Update(context.Background(), created.ID, req, "", testutil.ActorFor(s.agent))
		s.True(apperr.Is(err, apperr.InvalidInput), "%v", err)
	}

	current, err := s.properties.GetByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal("One", current.Title)
	s.Equal(models.PropertyAvailable, current.Status)
}

func (s *ServiceTestSuite) TestUpdateStatus() {
	ctx := context.Background()
	created := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)

	_, err := s.properties.UpdateStatus(ctx, created.ID, "demolished", testutil.ActorFor(s.agent))
	s.True(apperr.Is(err, apperr.InvalidInput))

	current, err := s.properties.GetByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(models.PropertyAvailable, current.Status)
	s.Empty(s.events.Types())

	_, err = s.properties.UpdateStatus(ctx, created.ID, "sold", testutil.ActorFor(s.user))
	s.True(apperr.Is(err, apperr.Forbidden))

	updated, err := s.properties.UpdateStatus(ctx, created.ID, "sold", testutil.ActorFor(s.agent))
	s.Require().NoError(err)
	s.Equal(models.PropertySold, updated.Status)
	s.Equal([]string{broker.PropertyStatusChanged}, s.events.Types())

	// No transition graph: sold may go back to available
	updated, err = s.properties.UpdateStatus(ctx, created.ID, "available", testutil.ActorFor(s.admin))
	s.Require().NoError(err)
	s.Equal(models.PropertyAvailable, updated.Status)

	_, err = s.properties.UpdateStatus(ctx, "missing", "sold", testutil.ActorFor(s.agent))
	s.True(apperr.Is(err, apperr.NotFound))
}

func (s *ServiceTestSuite) TestToggleFeatured() {
	ctx := context.Background()
	created := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)

	toggled, err := s.properties.ToggleFeatured(ctx, created.ID, testutil.ActorFor(s.agent))
	s.Require().NoError(err)
	s.True(toggled.Featured)

	toggled, err = s.properties.ToggleFeatured(ctx, created.ID, testutil.ActorFor(s.admin))
	s.Require().NoError(err)
	s.False(toggled.Featured)

	_, err = s.properties.ToggleFeatured(ctx, created.ID, testutil.ActorFor(s.user))
	s.True(apperr.Is(err, apperr.Forbidden))

	_, err = s.properties.ToggleFeatured(ctx, "missing", testutil.ActorFor(s.agent))
	s.True(apperr.Is(err, apperr.NotFound))
}

func (s *ServiceTestSuite) TestToggleFeatured_ConcurrentTogglesNeverLoseUpdates() {
	created := testutil.CreateTestProperty(s.T(), s.testDB.DB, "One", "Paris", 100000)
	actor := testutil.ActorFor(s.agent)

	const toggles = 20
	var wg sync.WaitGroup
	errs := make(chan error, toggles)

	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.properties.ToggleFeatured(context.Background(), created.ID, actor); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}

	// An even number of flips lands back on the starting value
	current, err := s.properties.GetByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.False(current.Featured)
}

func (s *ServiceTestSuite) TestDeleteProperty() {
	ctx := context.Background()
	created, err := s.properties.Create(ctx, validPropertyRequest(), "/uploads/properties/gone.png", testutil.ActorFor(s.agent))
	s.Require().NoError(err)

	err = s.properties.Delete(ctx, created.ID, testutil.ActorFor(s.user))
	s.True(apperr.Is(err, apperr.Forbidden))

	s.Require().NoError(s.properties.Delete(ctx, created.ID, testutil.ActorFor(s.agent)))
	s.Equal([]string{"/uploads/properties/gone.png"}, s.files.Removed())

	err = s.properties.Delete(ctx, created.ID, testutil.ActorFor(s.agent))
	s.True(apperr.Is(err, apperr.NotFound))
}

func (s *ServiceTestSuite) TestPropertyDTO_RoundTrip() {
	created, err := s.properties.Create(context.Background(), validPropertyRequest(), "", testutil.ActorFor(s.agent))
	s.Require().NoError(err)

	loaded, err := s.properties.GetByID(context.Background(), created.ID)
	s.Require().NoError(err)

	view := dto.ToPropertyDTO(loaded)
	s.Equal(created.ID, view.ID)
	s.Equal("Sunny flat", view.Title)
	s.True(view.Parking)
	s.Equal(models.PropertyTypeApartment, view.PropertyType)
}
