package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	appLogger "github.com/voyaiger/voyaiger-server/app/logger"
	appMiddleware "github.com/voyaiger/voyaiger-server/app/middleware"
	"github.com/voyaiger/voyaiger-server/config"
	"github.com/voyaiger/voyaiger-server/internal/api"
	"github.com/voyaiger/voyaiger-server/internal/api/itinerary"
	"github.com/voyaiger/voyaiger-server/internal/api/weather"
	"github.com/voyaiger/voyaiger-server/internal/planner"
	"github.com/voyaiger/voyaiger-server/internal/router"
	"github.com/voyaiger/voyaiger-server/internal/types"
)

// The stub agents stand in for the travel upstreams so the suite exercises
// the real router, middleware chain, service, planner and token layer without
// network access. Two city names carry special behavior: "Atlantis" simulates
// an upstream outage and "Remoteville" a market where every hotel quote busts
// the nightly cap.

type stubHotels struct{}

func (stubHotels) FindHotels(_ context.Context, city string, dates types.DateRange, _ float64) ([]types.Candidate, error) {
	switch city {
	case "Atlantis":
		return nil, fmt.Errorf("hotel quote service returned status 502")
	case "Remoteville":
		return []types.Candidate{stubHotel("Cliffside Resort", 5000, 4.9, dates.Nights())}, nil
	}
	return []types.Candidate{
		stubHotel("Hotel Carmo", 80, 4.2, dates.Nights()),
		stubHotel("Alfa Lodge", 95, 4.5, dates.Nights()),
		stubHotel("Bravo Palace", 120, 4.7, dates.Nights()),
		stubHotel("Delta Grand", 140, 4.8, dates.Nights()),
	}, nil
}

func stubHotel(name string, nightly, rating float64, nights int) types.Candidate {
	return types.Candidate{
		Category:   types.CategoryHotel,
		Name:       name,
		Price:      nightly,
		Rating:     rating,
		StayNights: nights,
	}
}

type stubAttractions struct{}

func (stubAttractions) FindAttractions(_ context.Context, _ string, _ int, _ float64) ([]types.Candidate, error) {
	return []types.Candidate{
		{Category: types.CategoryAttraction, Name: "Maritime Museum", Price: 15, Rating: 4.6, Kind: "museum"},
		{Category: types.CategoryAttraction, Name: "Castle Walk", Price: 12, Rating: 4.4, Kind: "landmark"},
		{Category: types.CategoryAttraction, Name: "Botanical Garden", Price: 8, Rating: 4.3, Kind: "park"},
		{Category: types.CategoryAttraction, Name: "River Cruise", Price: 30, Rating: 4.5, Kind: "tour"},
		{Category: types.CategoryAttraction, Name: "Modern Art Gallery", Price: 14, Rating: 4.1, Kind: "museum"},
	}, nil
}

type stubRestaurants struct{}

func (stubRestaurants) FindRestaurants(_ context.Context, _ string, _ int, _ float64) ([]types.Candidate, error) {
	return []types.Candidate{
		{Category: types.CategoryFood, Name: "Corner Tasca", Price: 18, Rating: 4.5, Cuisine: "portuguese"},
		{Category: types.CategoryFood, Name: "Noodle Bar", Price: 22, Rating: 4.2, Cuisine: "asian"},
		{Category: types.CategoryFood, Name: "Brasserie Nove", Price: 35, Rating: 4.4, Cuisine: "french"},
		{Category: types.CategoryFood, Name: "Mercado Grill", Price: 28, Rating: 4.3, Cuisine: "grill"},
		{Category: types.CategoryFood, Name: "Gilded Room", Price: 60, Rating: 4.7, Cuisine: "fine dining"},
	}, nil
}

type stubWeather struct{}

func (stubWeather) DailyForecast(_ context.Context, _ string, start, end types.Date) ([]weather.Forecast, error) {
	out := make([]weather.Forecast, 0, start.DaysUntil(end))
	for i := 0; i < start.DaysUntil(end); i++ {
		out = append(out, weather.Forecast{
			Date:                start.AddDays(i),
			Description:         "Sunny",
			TemperatureMax:      75,
			TemperatureMin:      58,
			PrecipitationChance: 10,
		})
	}
	return out, nil
}

// memoryRepo is an in-process Repository with the same error contract as the
// Postgres implementation, so handler status mapping behaves identically.
type memoryRepo struct {
	mu          sync.Mutex
	itineraries map[uuid.UUID]types.SavedItinerary
	byUser      map[uuid.UUID][]uuid.UUID
	invites     map[uuid.UUID]types.Invite
	byItinerary map[uuid.UUID][]uuid.UUID
	inviteKeys  map[string]struct{}
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		itineraries: make(map[uuid.UUID]types.SavedItinerary),
		byUser:      make(map[uuid.UUID][]uuid.UUID),
		invites:     make(map[uuid.UUID]types.Invite),
		byItinerary: make(map[uuid.UUID][]uuid.UUID),
		inviteKeys:  make(map[string]struct{}),
	}
}

func (m *memoryRepo) SaveItinerary(_ context.Context, req types.SaveItineraryRequest) (*types.SavedItinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	it := types.SavedItinerary{
		ID:          uuid.New(),
		UserID:      req.UserID,
		City:        req.City,
		StartDate:   req.Dates.Start,
		EndDate:     req.Dates.End,
		TotalBudget: req.TotalBudget,
		Data:        append(json.RawMessage(nil), req.Data...),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.itineraries[it.ID] = it
	m.byUser[req.UserID] = append(m.byUser[req.UserID], it.ID)
	out := it
	return &out, nil
}

func (m *memoryRepo) GetItinerary(_ context.Context, id uuid.UUID) (*types.SavedItinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.itineraries[id]
	if !ok {
		return nil, fmt.Errorf("itinerary %s: %w", id, api.ErrNotFound)
	}
	out := it
	return &out, nil
}

func (m *memoryRepo) ListItineraries(_ context.Context, userID uuid.UUID, page, pageSize int) ([]types.SavedItinerary, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.byUser[userID]
	total := len(ids)
	newest := make([]types.SavedItinerary, 0, total)
	for i := len(ids) - 1; i >= 0; i-- {
		newest = append(newest, m.itineraries[ids[i]])
	}
	offset := (page - 1) * pageSize
	if offset >= total {
		return []types.SavedItinerary{}, total, nil
	}
	end := offset + pageSize
	if end > total {
		end = total
	}
	return newest[offset:end], total, nil
}

func (m *memoryRepo) UpdateItinerary(_ context.Context, id uuid.UUID, req types.UpdateItineraryRequest) (*types.SavedItinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.itineraries[id]
	if !ok {
		return nil, fmt.Errorf("itinerary %s: %w", id, api.ErrNotFound)
	}
	if it.Version != req.Version {
		return nil, fmt.Errorf("itinerary version is %d, not %d: %w", it.Version, req.Version, api.ErrConflict)
	}
	it.Data = append(json.RawMessage(nil), req.Data...)
	it.Version++
	it.UpdatedAt = time.Now().UTC()
	m.itineraries[id] = it
	out := it
	return &out, nil
}

func (m *memoryRepo) CreateInvite(_ context.Context, itineraryID uuid.UUID, email string) (*types.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.itineraries[itineraryID]; !ok {
		return nil, fmt.Errorf("itinerary %s: %w", itineraryID, api.ErrNotFound)
	}
	key := itineraryID.String() + "|" + email
	if _, ok := m.inviteKeys[key]; ok {
		return nil, fmt.Errorf("invite for %s already exists: %w", email, api.ErrConflict)
	}
	invite := types.Invite{
		ID:           uuid.New(),
		ItineraryID:  itineraryID,
		InviteeEmail: email,
		Status:       types.InvitePending,
		CreatedAt:    time.Now().UTC(),
	}
	m.invites[invite.ID] = invite
	m.byItinerary[itineraryID] = append(m.byItinerary[itineraryID], invite.ID)
	m.inviteKeys[key] = struct{}{}
	out := invite
	return &out, nil
}

func (m *memoryRepo) ListInvites(_ context.Context, itineraryID uuid.UUID) ([]types.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.byItinerary[itineraryID]
	out := make([]types.Invite, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.invites[id])
	}
	return out, nil
}

func (m *memoryRepo) GetInvite(_ context.Context, id uuid.UUID) (*types.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	invite, ok := m.invites[id]
	if !ok {
		return nil, fmt.Errorf("invite %s: %w", id, api.ErrNotFound)
	}
	out := invite
	return &out, nil
}

func (m *memoryRepo) RespondInvite(_ context.Context, id uuid.UUID, status types.InviteStatus) (*types.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	invite, ok := m.invites[id]
	if !ok {
		return nil, fmt.Errorf("invite %s: %w", id, api.ErrNotFound)
	}
	if invite.Status != types.InvitePending {
		return nil, fmt.Errorf("invite already %s: %w", invite.Status, api.ErrConflict)
	}
	now := time.Now().UTC()
	invite.Status = status
	invite.RespondedAt = &now
	m.invites[id] = invite
	out := invite
	return &out, nil
}

// E2ETestSuite boots the full HTTP stack once per run and drives it over real
// HTTP: the production router and middleware chain in front of the real
// service, planner and invite token layer.
type E2ETestSuite struct {
	suite.Suite
	server *httptest.Server
	client *http.Client
	dates  types.DateRange
}

func (s *E2ETestSuite) SetupSuite() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := itinerary.NewInviteTokens(config.JWTConfig{
		SecretKey: "e2e-test-secret",
		Issuer:    "voyaiger-test",
		Audience:  "voyaiger-invites",
		InviteTTL: time.Hour,
	})
	s.Require().NoError(err)

	svc := itinerary.NewServiceImpl(
		stubHotels{},
		stubAttractions{},
		stubRestaurants{},
		stubWeather{},
		planner.New(planner.DefaultConfig()),
		newMemoryRepo(),
		tokens,
		logger,
	)
	handler := itinerary.NewHandlerImpl(svc, logger)

	apiRouter := router.SetupRouter(&router.Config{ItineraryHandler: handler})

	// Same chain as main.go, so the suite covers the middleware stack too.
	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(60 * time.Second))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Use(appMiddleware.SecurityHeaders)
	mux.Mount("/", apiRouter)

	s.server = httptest.NewServer(mux)
	s.client = s.server.Client()

	start := types.Today(time.Now()).AddDays(30)
	s.dates = types.DateRange{Start: start, End: start.AddDays(3)}
}

func (s *E2ETestSuite) TearDownSuite() {
	s.server.Close()
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *E2ETestSuite) decodeJSON(resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (s *E2ETestSuite) saveItinerary(userID uuid.UUID, city string) types.SavedItinerary {
	resp := s.makeRequest(http.MethodPost, "/api/v1/itineraries", types.SaveItineraryRequest{
		UserID:      userID,
		City:        city,
		Dates:       s.dates,
		TotalBudget: 1800,
		Data:        json.RawMessage(`{"note":"hand-built plan"}`),
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var saved types.SavedItinerary
	s.decodeJSON(resp, &saved)
	return saved
}

func (s *E2ETestSuite) TestGenerateItineraryWorkflow() {
	req := types.GenerateItineraryRequest{City: "Lisbon", Budget: 2000, Dates: s.dates}

	resp := s.makeRequest(http.MethodPost, "/api/v1/itineraries/generate", req)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Type"), "application/json")

	var got types.GenerateItineraryResponse
	s.decodeJSON(resp, &got)

	s.Equal("Lisbon", got.City)
	s.InDelta(900, got.Allocation.Hotel, 0.01)
	s.InDelta(444.44, got.Allocation.Attractions, 0.01)
	s.InDelta(555.56, got.Allocation.Food, 0.01)
	s.InDelta(100, got.Allocation.Contingency, 0.01)

	s.Require().Len(got.Options, 3)
	signatures := make(map[string]bool, len(got.Options))
	for _, option := range got.Options {
		s.LessOrEqual(option.TotalCost, req.Budget)
		s.InDelta(req.Budget-option.TotalCost, option.RemainingBudget, 0.01)
		s.False(signatures[option.Signature], "options must be pairwise distinct")
		signatures[option.Signature] = true

		s.Require().Len(option.Days, 3)
		for i, day := range option.Days {
			s.Equal(s.dates.Start.AddDays(i).String(), day.Date.String())
			s.Require().NotNil(day.Attraction)
			s.Require().NotNil(day.Food)
			s.Contains(day.Weather, "Sunny")
		}
	}

	// Identical parameters are answered from cache with the same options.
	again := s.makeRequest(http.MethodPost, "/api/v1/itineraries/generate", req)
	s.Require().Equal(http.StatusOK, again.StatusCode)
	var cached types.GenerateItineraryResponse
	s.decodeJSON(again, &cached)
	s.Equal(got, cached)

	// A non-positive budget never reaches the planner.
	bad := s.makeRequest(http.MethodPost, "/api/v1/itineraries/generate",
		types.GenerateItineraryRequest{City: "Lisbon", Budget: -50, Dates: s.dates})
	s.Equal(http.StatusBadRequest, bad.StatusCode)
	bad.Body.Close()

	// A budget below the nightly floors cannot fund any trip.
	low := s.makeRequest(http.MethodPost, "/api/v1/itineraries/generate",
		types.GenerateItineraryRequest{City: "Lisbon", Budget: 90, Dates: s.dates})
	s.Equal(http.StatusBadRequest, low.StatusCode)
	low.Body.Close()

	// An upstream outage maps to 503 with a stable message.
	outage := s.makeRequest(http.MethodPost, "/api/v1/itineraries/generate",
		types.GenerateItineraryRequest{City: "Atlantis", Budget: 2000, Dates: s.dates})
	s.Require().Equal(http.StatusServiceUnavailable, outage.StatusCode)
	var outageBody api.Response
	s.decodeJSON(outage, &outageBody)
	s.Equal("Upstream travel data services are unavailable", outageBody.Error)

	// Quotes above the nightly cap leave no viable hotel.
	remote := s.makeRequest(http.MethodPost, "/api/v1/itineraries/generate",
		types.GenerateItineraryRequest{City: "Remoteville", Budget: 2000, Dates: s.dates})
	s.Equal(http.StatusUnprocessableEntity, remote.StatusCode)
	remote.Body.Close()
}

func (s *E2ETestSuite) TestInviteWorkflow() {
	owner := uuid.New()
	saved := s.saveItinerary(owner, "Porto")

	created := s.makeRequest(http.MethodPost, "/api/v1/itineraries/"+saved.ID.String()+"/invites",
		types.CreateInviteRequest{Email: "Friend@Example.com"})
	s.Require().Equal(http.StatusCreated, created.StatusCode)
	var first types.CreateInviteResponse
	s.decodeJSON(created, &first)
	s.Equal("friend@example.com", first.Invite.InviteeEmail)
	s.Equal(types.InvitePending, first.Invite.Status)
	s.NotEmpty(first.Token)

	// One invite per itinerary and email.
	dup := s.makeRequest(http.MethodPost, "/api/v1/itineraries/"+saved.ID.String()+"/invites",
		types.CreateInviteRequest{Email: "friend@example.com"})
	s.Equal(http.StatusConflict, dup.StatusCode)
	dup.Body.Close()

	second := s.makeRequest(http.MethodPost, "/api/v1/itineraries/"+saved.ID.String()+"/invites",
		types.CreateInviteRequest{Email: "other@example.com"})
	s.Require().Equal(http.StatusCreated, second.StatusCode)
	var secondInvite types.CreateInviteResponse
	s.decodeJSON(second, &secondInvite)

	listResp := s.makeRequest(http.MethodGet, "/api/v1/itineraries/"+saved.ID.String()+"/invites", nil)
	s.Require().Equal(http.StatusOK, listResp.StatusCode)
	var invites []types.Invite
	s.decodeJSON(listResp, &invites)
	s.Require().Len(invites, 2)
	s.Equal("friend@example.com", invites[0].InviteeEmail)

	// The invitee resolves the invite with the signed token from the link.
	respond := s.makeRequest(http.MethodPost, "/api/v1/invites/respond",
		types.RespondInviteRequest{Token: first.Token, Action: "accept"})
	s.Require().Equal(http.StatusOK, respond.StatusCode)
	var resolved types.Invite
	s.decodeJSON(respond, &resolved)
	s.Equal(types.InviteAccepted, resolved.Status)
	s.NotNil(resolved.RespondedAt)

	// Resolution is final.
	twice := s.makeRequest(http.MethodPost, "/api/v1/invites/respond",
		types.RespondInviteRequest{Token: first.Token, Action: "reject"})
	s.Equal(http.StatusConflict, twice.StatusCode)
	twice.Body.Close()

	// A tampered token never reaches the invite.
	forged := s.makeRequest(http.MethodPost, "/api/v1/invites/respond",
		types.RespondInviteRequest{Token: first.Token + "x", Action: "accept"})
	s.Equal(http.StatusBadRequest, forged.StatusCode)
	forged.Body.Close()

	unknownAction := s.makeRequest(http.MethodPost, "/api/v1/invites/respond",
		types.RespondInviteRequest{Token: secondInvite.Token, Action: "maybe"})
	s.Equal(http.StatusBadRequest, unknownAction.StatusCode)
	unknownAction.Body.Close()

	// Invites on a missing itinerary read as 404, not as an empty list.
	ghost := s.makeRequest(http.MethodGet, "/api/v1/itineraries/"+uuid.NewString()+"/invites", nil)
	s.Equal(http.StatusNotFound, ghost.StatusCode)
	ghost.Body.Close()
}

func (s *E2ETestSuite) TestOperationalEndpoints() {
	ping := s.makeRequest(http.MethodGet, "/ping", nil)
	s.Require().Equal(http.StatusOK, ping.StatusCode)
	body, err := io.ReadAll(ping.Body)
	s.Require().NoError(err)
	ping.Body.Close()
	s.Equal("pong", string(body))

	// The hardening headers ride on every response.
	s.Equal("nosniff", ping.Header.Get("X-Content-Type-Options"))
	s.Equal("DENY", ping.Header.Get("X-Frame-Options"))
	s.NotEmpty(ping.Header.Get("Content-Security-Policy"))

	doc := s.makeRequest(http.MethodGet, "/swagger/doc.json", nil)
	s.Require().Equal(http.StatusOK, doc.StatusCode)
	docBody, err := io.ReadAll(doc.Body)
	s.Require().NoError(err)
	doc.Body.Close()
	s.Contains(string(docBody), "Voyaiger API")

	// CORS preflight for the dev frontend origin.
	preflightReq, err := http.NewRequest(http.MethodOptions, s.server.URL+"/api/v1/itineraries", nil)
	s.Require().NoError(err)
	preflightReq.Header.Set("Origin", "http://localhost:5173")
	preflightReq.Header.Set("Access-Control-Request-Method", "POST")
	preflight, err := s.client.Do(preflightReq)
	s.Require().NoError(err)
	preflight.Body.Close()
	s.Equal("http://localhost:5173", preflight.Header.Get("Access-Control-Allow-Origin"))

	missing := s.makeRequest(http.MethodGet, "/api/v1/nope", nil)
	s.Equal(http.StatusNotFound, missing.StatusCode)
	missing.Body.Close()
}

func (s *E2ETestSuite) TestRateLimiting() {
	req := types.GenerateItineraryRequest{City: "Lisbon", Budget: 2000, Dates: s.dates}

	// The per-IP window spans the whole suite run, so a 12-request burst must
	// trip the limiter no matter how much quota earlier tests consumed.
	var limited bool
	for i := 0; i < 12; i++ {
		resp := s.makeRequest(http.MethodPost, "/api/v1/itineraries/generate", req)
		if resp.StatusCode == http.StatusTooManyRequests {
			var body api.Response
			s.decodeJSON(resp, &body)
			s.Contains(body.Error, "Rate limit exceeded")
			limited = true
			continue
		}
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	s.True(limited, "burst should exhaust the generation rate limit")

	// Only generation is throttled.
	list := s.makeRequest(http.MethodGet, "/api/v1/itineraries?user_id="+uuid.NewString(), nil)
	s.Equal(http.StatusOK, list.StatusCode)
	list.Body.Close()
}

func (s *E2ETestSuite) TestSaveAndUpdateWorkflow() {
	userID := uuid.New()
	saved := s.saveItinerary(userID, "Lisbon")
	s.Equal(1, saved.Version)
	s.NotEqual(uuid.Nil, saved.ID)
	s.Equal(userID, saved.UserID)
	s.JSONEq(`{"note":"hand-built plan"}`, string(saved.Data))

	got := s.makeRequest(http.MethodGet, "/api/v1/itineraries/"+saved.ID.String(), nil)
	s.Require().Equal(http.StatusOK, got.StatusCode)
	var fetched types.SavedItinerary
	s.decodeJSON(got, &fetched)
	s.Equal(saved.ID, fetched.ID)
	s.Equal(saved.Version, fetched.Version)

	// First writer wins.
	update := s.makeRequest(http.MethodPut, "/api/v1/itineraries/"+saved.ID.String(),
		types.UpdateItineraryRequest{Version: 1, Data: json.RawMessage(`{"note":"swapped the museum day"}`)})
	s.Require().Equal(http.StatusOK, update.StatusCode)
	var updated types.SavedItinerary
	s.decodeJSON(update, &updated)
	s.Equal(2, updated.Version)

	stale := s.makeRequest(http.MethodPut, "/api/v1/itineraries/"+saved.ID.String(),
		types.UpdateItineraryRequest{Version: 1, Data: json.RawMessage(`{"note":"from a stale tab"}`)})
	s.Equal(http.StatusConflict, stale.StatusCode)
	stale.Body.Close()

	ghost := s.makeRequest(http.MethodPut, "/api/v1/itineraries/"+uuid.NewString(),
		types.UpdateItineraryRequest{Version: 2, Data: json.RawMessage(`{}`)})
	s.Equal(http.StatusNotFound, ghost.StatusCode)
	ghost.Body.Close()

	badID := s.makeRequest(http.MethodGet, "/api/v1/itineraries/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, badID.StatusCode)
	badID.Body.Close()

	missing := s.makeRequest(http.MethodGet, "/api/v1/itineraries/"+uuid.NewString(), nil)
	s.Equal(http.StatusNotFound, missing.StatusCode)
	missing.Body.Close()

	invalid := s.makeRequest(http.MethodPost, "/api/v1/itineraries", types.SaveItineraryRequest{
		UserID:      userID,
		City:        "",
		Dates:       s.dates,
		TotalBudget: 1800,
		Data:        json.RawMessage(`{}`),
	})
	s.Equal(http.StatusBadRequest, invalid.StatusCode)
	invalid.Body.Close()

	// Pagination, newest first.
	for _, city := range []string{"Madrid", "Seville", "Valencia"} {
		s.saveItinerary(userID, city)
	}

	page1Resp := s.makeRequest(http.MethodGet,
		"/api/v1/itineraries?user_id="+userID.String()+"&page=1&page_size=2", nil)
	s.Require().Equal(http.StatusOK, page1Resp.StatusCode)
	var page1 types.PaginatedItinerariesResponse
	s.decodeJSON(page1Resp, &page1)
	s.Equal(4, page1.TotalRecords)
	s.Require().Len(page1.Itineraries, 2)
	s.Equal("Valencia", page1.Itineraries[0].City)
	s.Equal("Seville", page1.Itineraries[1].City)

	page2Resp := s.makeRequest(http.MethodGet,
		"/api/v1/itineraries?user_id="+userID.String()+"&page=2&page_size=2", nil)
	s.Require().Equal(http.StatusOK, page2Resp.StatusCode)
	var page2 types.PaginatedItinerariesResponse
	s.decodeJSON(page2Resp, &page2)
	s.Require().Len(page2.Itineraries, 2)
	s.Equal("Madrid", page2.Itineraries[0].City)
	s.Equal("Lisbon", page2.Itineraries[1].City)
}

// TestE2E drives the assembled server over real HTTP. Skipped in short mode.
func TestE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
