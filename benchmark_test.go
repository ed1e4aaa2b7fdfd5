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
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	appLogger "github.com/voyaiger/voyaiger-server/app/logger"
	appMiddleware "github.com/voyaiger/voyaiger-server/app/middleware"
	"github.com/voyaiger/voyaiger-server/config"
	"github.com/voyaiger/voyaiger-server/internal/api/itinerary"
	"github.com/voyaiger/voyaiger-server/internal/planner"
	"github.com/voyaiger/voyaiger-server/internal/router"
	"github.com/voyaiger/voyaiger-server/internal/types"
)

// benchStack assembles the production stack in process, with the e2e stubs in
// place of the travel upstreams and Postgres. Router benchmarks go through
// handler, so they include the full middleware chain.
type benchStack struct {
	handler http.Handler
	service *itinerary.ServiceImpl
	tokens  *itinerary.InviteTokens
	dates   types.DateRange
}

func setupBenchStack(b *testing.B) *benchStack {
	b.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := itinerary.NewInviteTokens(config.JWTConfig{
		SecretKey: "bench-secret",
		Issuer:    "voyaiger-bench",
		Audience:  "voyaiger-invites",
		InviteTTL: time.Hour,
	})
	if err != nil {
		b.Fatalf("failed to build invite tokens: %v", err)
	}

	svc := itinerary.NewServiceImpl(
		stubHotels{},
		stubAttractions{},
		stubRestaurants{},
		nil,
		planner.New(planner.DefaultConfig()),
		newMemoryRepo(),
		tokens,
		logger,
	)
	handler := itinerary.NewHandlerImpl(svc, logger)

	apiRouter := router.SetupRouter(&router.Config{ItineraryHandler: handler})

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

	start := types.Today(time.Now()).AddDays(30)
	return &benchStack{
		handler: mux,
		service: svc,
		tokens:  tokens,
		dates:   types.DateRange{Start: start, End: start.AddDays(3)},
	}
}

func (bs *benchStack) do(method, path string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	bs.handler.ServeHTTP(rec, req)
	return rec
}

func (bs *benchStack) mustSave(b *testing.B, userID uuid.UUID, city string) types.SavedItinerary {
	b.Helper()
	payload, err := json.Marshal(types.SaveItineraryRequest{
		UserID:      userID,
		City:        city,
		Dates:       bs.dates,
		TotalBudget: 1800,
		Data:        json.RawMessage(`{"note":"benchmark seed"}`),
	})
	if err != nil {
		b.Fatalf("failed to marshal save request: %v", err)
	}
	rec := bs.do(http.MethodPost, "/api/v1/itineraries", payload)
	if rec.Code != http.StatusCreated {
		b.Fatalf("seed save returned status %d", rec.Code)
	}
	var saved types.SavedItinerary
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		b.Fatalf("failed to decode saved itinerary: %v", err)
	}
	return saved
}

// benchPools builds candidate pools of the given size for planner-only
// benchmarks.
func benchPools(nights, size int) (hotels, attractions, food []types.Candidate) {
	hotels = make([]types.Candidate, 0, size)
	attractions = make([]types.Candidate, 0, size)
	food = make([]types.Candidate, 0, size)
	for i := 0; i < size; i++ {
		hotels = append(hotels, types.Candidate{
			Category:   types.CategoryHotel,
			Name:       fmt.Sprintf("Hotel %d", i),
			Price:      60 + float64(i%80),
			Rating:     3.5 + float64(i%15)/10,
			StayNights: nights,
		})
		attractions = append(attractions, types.Candidate{
			Category: types.CategoryAttraction,
			Name:     fmt.Sprintf("Attraction %d", i),
			Price:    5 + float64(i%30),
			Rating:   3.8 + float64(i%12)/10,
		})
		food = append(food, types.Candidate{
			Category: types.CategoryFood,
			Name:     fmt.Sprintf("Restaurant %d", i),
			Price:    15 + float64(i%45),
			Rating:   3.6 + float64(i%14)/10,
		})
	}
	return hotels, attractions, food
}

// BenchmarkAllocate measures the budget split alone.
func BenchmarkAllocate(b *testing.B) {
	p := planner.New(planner.DefaultConfig())

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Allocate(2000, 3); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPlan measures full option assembly over a realistic pool size.
func BenchmarkPlan(b *testing.B) {
	p := planner.New(planner.DefaultConfig())
	start := types.Today(time.Now()).AddDays(30)
	trip, err := planner.NewTrip(types.DateRange{Start: start, End: start.AddDays(3)})
	if err != nil {
		b.Fatal(err)
	}
	hotels, attractions, food := benchPools(trip.Nights(), 10)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := p.Plan(trip, 2000, hotels, attractions, food); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPlanLargePools stresses assembly with big candidate sets.
func BenchmarkPlanLargePools(b *testing.B) {
	p := planner.New(planner.DefaultConfig())
	start := types.Today(time.Now()).AddDays(30)
	trip, err := planner.NewTrip(types.DateRange{Start: start, End: start.AddDays(7)})
	if err != nil {
		b.Fatal(err)
	}
	hotels, attractions, food := benchPools(trip.Nights(), 50)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := p.Plan(trip, 5000, hotels, attractions, food); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGenerateItinerary runs the whole service pipeline. The budget
// varies per iteration so every request misses the response cache.
func BenchmarkGenerateItinerary(b *testing.B) {
	bs := setupBenchStack(b)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		req := types.GenerateItineraryRequest{
			City:   "Lisbon",
			Budget: 1200 + float64(i%400),
			Dates:  bs.dates,
		}
		if _, err := bs.service.GenerateItinerary(ctx, req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGenerateItineraryCached measures the cache-hit fast path.
func BenchmarkGenerateItineraryCached(b *testing.B) {
	bs := setupBenchStack(b)
	ctx := context.Background()
	req := types.GenerateItineraryRequest{City: "Lisbon", Budget: 2000, Dates: bs.dates}
	if _, err := bs.service.GenerateItinerary(ctx, req); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := bs.service.GenerateItinerary(ctx, req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRouterPing isolates routing and middleware overhead.
func BenchmarkRouterPing(b *testing.B) {
	bs := setupBenchStack(b)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rec := bs.do(http.MethodGet, "/ping", nil)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

// BenchmarkSaveItinerary measures the save endpoint through the full chain.
func BenchmarkSaveItinerary(b *testing.B) {
	bs := setupBenchStack(b)
	payload, err := json.Marshal(types.SaveItineraryRequest{
		UserID:      uuid.New(),
		City:        "Lisbon",
		Dates:       bs.dates,
		TotalBudget: 1800,
		Data:        json.RawMessage(`{"note":"benchmark"}`),
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rec := bs.do(http.MethodPost, "/api/v1/itineraries", payload)
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

// BenchmarkGetItinerary measures a single-row read through the full chain.
func BenchmarkGetItinerary(b *testing.B) {
	bs := setupBenchStack(b)
	saved := bs.mustSave(b, uuid.New(), "Lisbon")
	path := "/api/v1/itineraries/" + saved.ID.String()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rec := bs.do(http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

// BenchmarkListItineraries measures a paginated listing over 50 rows.
func BenchmarkListItineraries(b *testing.B) {
	bs := setupBenchStack(b)
	userID := uuid.New()
	for i := 0; i < 50; i++ {
		bs.mustSave(b, userID, fmt.Sprintf("City %d", i))
	}
	path := "/api/v1/itineraries?user_id=" + userID.String() + "&page=1&page_size=10"

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rec := bs.do(http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

// BenchmarkConcurrentReads drives parallel reads the way a burst of clients
// would.
func BenchmarkConcurrentReads(b *testing.B) {
	bs := setupBenchStack(b)
	saved := bs.mustSave(b, uuid.New(), "Lisbon")
	path := "/api/v1/itineraries/" + saved.ID.String()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			rec := bs.do(http.MethodGet, path, nil)
			if rec.Code != http.StatusOK {
				b.Fatalf("unexpected status %d", rec.Code)
			}
		}
	})
}

// BenchmarkInviteTokenMint measures signing an invite token.
func BenchmarkInviteTokenMint(b *testing.B) {
	bs := setupBenchStack(b)
	invite := &types.Invite{
		ID:          uuid.New(),
		ItineraryID: uuid.New(),
		Status:      types.InvitePending,
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := bs.tokens.Mint(invite); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkInviteTokenParse measures verifying an invite token.
func BenchmarkInviteTokenParse(b *testing.B) {
	bs := setupBenchStack(b)
	token, err := bs.tokens.Mint(&types.Invite{
		ID:          uuid.New(),
		ItineraryID: uuid.New(),
		Status:      types.InvitePending,
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := bs.tokens.Parse(token); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGenerateResponseSerialization measures encoding the largest wire
// type.
func BenchmarkGenerateResponseSerialization(b *testing.B) {
	bs := setupBenchStack(b)
	resp, err := bs.service.GenerateItinerary(context.Background(),
		types.GenerateItineraryRequest{City: "Lisbon", Budget: 2000, Dates: bs.dates})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(resp); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkUUIDGeneration tracks ID generation cost on the save path.
func BenchmarkUUIDGeneration(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = uuid.New()
	}
}
