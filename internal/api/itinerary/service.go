// Package itinerary assembles trip plans end to end: it fans out to the
// category agents, runs the deterministic planner over their candidates and
// persists the results users choose to keep. Invites let a saved itinerary be
// shared by signed link.
package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/voyaiger/voyaiger-server/app/observability/metrics"
	"github.com/voyaiger/voyaiger-server/internal/api/attractions"
	"github.com/voyaiger/voyaiger-server/internal/api/hotels"
	"github.com/voyaiger/voyaiger-server/internal/api/restaurants"
	"github.com/voyaiger/voyaiger-server/internal/api/weather"
	"github.com/voyaiger/voyaiger-server/internal/planner"
	"github.com/voyaiger/voyaiger-server/internal/types"
)

// ErrUpstream marks failures of the external candidate APIs. Handlers map it
// to 503 so clients can tell a degraded upstream from a bad request.
var ErrUpstream = fmt.Errorf("upstream service unavailable")

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GenerateItinerary(ctx context.Context, req types.GenerateItineraryRequest) (*types.GenerateItineraryResponse, error)

	SaveItinerary(ctx context.Context, req types.SaveItineraryRequest) (*types.SavedItinerary, error)
	GetItinerary(ctx context.Context, id uuid.UUID) (*types.SavedItinerary, error)
	ListItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedItinerariesResponse, error)
	UpdateItinerary(ctx context.Context, id uuid.UUID, req types.UpdateItineraryRequest) (*types.SavedItinerary, error)

	CreateInvite(ctx context.Context, itineraryID uuid.UUID, req types.CreateInviteRequest) (*types.CreateInviteResponse, error)
	ListInvites(ctx context.Context, itineraryID uuid.UUID) ([]types.Invite, error)
	RespondInvite(ctx context.Context, req types.RespondInviteRequest) (*types.Invite, error)
}

// WeatherService is the forecast surface the orchestrator consumes. A nil
// WeatherService disables weather decoration; generation never depends on it.
type WeatherService interface {
	DailyForecast(ctx context.Context, city string, start, end types.Date) ([]weather.Forecast, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	hotels      hotels.Service
	attractions attractions.Service
	restaurants restaurants.Service
	weather     WeatherService
	planner     *planner.Planner
	repo        Repository
	tokens      *InviteTokens
	// cache keys generated responses by city, window and budget. Upstream
	// prices drift, so entries live shorter than the agent caches.
	cache *cache.Cache
}

func NewServiceImpl(
	hotelSvc hotels.Service,
	attractionSvc attractions.Service,
	restaurantSvc restaurants.Service,
	weatherSvc WeatherService,
	p *planner.Planner,
	repo Repository,
	tokens *InviteTokens,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		hotels:      hotelSvc,
		attractions: attractionSvc,
		restaurants: restaurantSvc,
		weather:     weatherSvc,
		planner:     p,
		repo:        repo,
		tokens:      tokens,
		cache:       cache.New(1*time.Hour, 10*time.Minute),
	}
}

// GenerateItinerary runs the full pipeline for one request: validate, allocate
// the budget, fetch the three candidate pools concurrently, plan, then attach
// weather. Identical requests inside the cache window return the cached
// response byte for byte.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.GenerateItineraryRequest) (*types.GenerateItineraryResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("itinerary.city", req.City),
		attribute.Float64("itinerary.budget", req.Budget),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateItinerary"), slog.String("city", req.City))

	m := metrics.Get()
	started := time.Now()
	outcome := "error"
	defer func() {
		m.GenerationRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		m.GenerationDurationSeconds.Record(ctx, time.Since(started).Seconds())
	}()

	if err := req.Validate(time.Now()); err != nil {
		outcome = "invalid"
		span.SetStatus(codes.Error, "Request validation failed")
		return nil, err
	}

	cacheKey := fmt.Sprintf("itinerary:%s:%s:%s:%.2f", req.City, req.Dates.Start, req.Dates.End, req.Budget)
	if cached, found := s.cache.Get(cacheKey); found {
		if resp, ok := cached.(*types.GenerateItineraryResponse); ok {
			l.DebugContext(ctx, "Returning cached itinerary options")
			outcome = "cache_hit"
			span.SetStatus(codes.Ok, "Cache hit")
			return resp, nil
		}
	}

	trip, err := planner.NewTrip(req.Dates)
	if err != nil {
		outcome = "invalid"
		span.SetStatus(codes.Error, "Invalid trip window")
		return nil, err
	}

	// The split is needed before planning so each agent fetches against its
	// own sub-budget; Plan recomputes the identical allocation.
	alloc, err := s.planner.Allocate(req.Budget, trip.Nights())
	if err != nil {
		outcome = "invalid"
		span.SetStatus(codes.Error, "Budget allocation failed")
		return nil, err
	}

	pools, err := s.fetchCandidates(ctx, req.City, req.Dates, trip.Nights(), alloc)
	if err != nil {
		l.ErrorContext(ctx, "Candidate fetch failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Candidate fetch failed")
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	result, rejections, err := s.planner.Plan(trip, req.Budget, pools.hotels, pools.attractions, pools.food)
	for _, rejection := range rejections {
		l.DebugContext(ctx, "Candidate rejected",
			slog.String("candidate", rejection.Candidate.Name),
			slog.String("reason", string(rejection.Reason)),
			slog.String("detail", rejection.Detail))
	}
	if len(rejections) > 0 {
		m.CandidateRejectionsTotal.Add(ctx, int64(len(rejections)))
	}
	if err != nil {
		outcome = "no_itinerary"
		l.WarnContext(ctx, "Planning produced no itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Planning failed")
		return nil, err
	}

	resp := &types.GenerateItineraryResponse{
		City:       req.City,
		Dates:      req.Dates,
		Allocation: result.Allocation,
		Options:    result.Options,
		Message:    fmt.Sprintf("Found %d itinerary options for %s", len(result.Options), req.City),
	}
	s.decorateWeather(ctx, resp)

	s.cache.Set(cacheKey, resp, cache.DefaultExpiration)
	outcome = "ok"
	m.BundlesReturnedTotal.Add(ctx, int64(len(resp.Options)))
	span.SetAttributes(attribute.Int("itinerary.options", len(resp.Options)))
	span.SetStatus(codes.Ok, "Itinerary options generated")
	return resp, nil
}

type candidatePools struct {
	hotels      []types.Candidate
	attractions []types.Candidate
	food        []types.Candidate
}

// fetchCandidates queries the three category agents concurrently. The first
// failure cancels the rest; each goroutine writes a distinct field, so no
// further synchronization is needed.
func (s *ServiceImpl) fetchCandidates(ctx context.Context, city string, dates types.DateRange, days int, alloc types.BudgetAllocation) (candidatePools, error) {
	var pools candidatePools

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.hotels.FindHotels(gctx, city, dates, alloc.Hotel)
		if err != nil {
			return fmt.Errorf("hotel search failed: %w", err)
		}
		pools.hotels = found
		return nil
	})
	g.Go(func() error {
		found, err := s.attractions.FindAttractions(gctx, city, days, alloc.Attractions)
		if err != nil {
			return fmt.Errorf("attraction search failed: %w", err)
		}
		pools.attractions = found
		return nil
	})
	g.Go(func() error {
		found, err := s.restaurants.FindRestaurants(gctx, city, days, alloc.Food)
		if err != nil {
			return fmt.Errorf("restaurant search failed: %w", err)
		}
		pools.food = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return candidatePools{}, err
	}
	return pools, nil
}

// decorateWeather annotates each day plan with its forecast. Forecast
// failures only log; bundles are complete without weather.
func (s *ServiceImpl) decorateWeather(ctx context.Context, resp *types.GenerateItineraryResponse) {
	if s.weather == nil {
		return
	}
	forecasts, err := s.weather.DailyForecast(ctx, resp.City, resp.Dates.Start, resp.Dates.End)
	if err != nil {
		s.logger.WarnContext(ctx, "Weather decoration skipped", slog.Any("error", err))
		return
	}
	byDate := make(map[string]weather.Forecast, len(forecasts))
	for _, forecast := range forecasts {
		byDate[forecast.Date.String()] = forecast
	}
	for i := range resp.Options {
		for j := range resp.Options[i].Days {
			if forecast, ok := byDate[resp.Options[i].Days[j].Date.String()]; ok {
				resp.Options[i].Days[j].Weather = forecast.Summary()
			}
		}
	}
}

func (s *ServiceImpl) SaveItinerary(ctx context.Context, req types.SaveItineraryRequest) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "SaveItinerary", trace.WithAttributes(
		attribute.String("itinerary.city", req.City),
	))
	defer span.End()

	if err := validateSaveRequest(req); err != nil {
		span.SetStatus(codes.Error, "Request validation failed")
		return nil, err
	}

	saved, err := s.repo.SaveItinerary(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Itinerary saved")
	return saved, nil
}

func validateSaveRequest(req types.SaveItineraryRequest) error {
	if req.UserID == uuid.Nil {
		return &types.ValidationError{Field: "user_id", Message: "is required"}
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		return &types.ValidationError{Field: "city", Message: "must not be empty"}
	}
	if len(city) > types.MaxCityLength {
		return &types.ValidationError{Field: "city", Message: fmt.Sprintf("must be at most %d characters", types.MaxCityLength)}
	}
	if req.Dates.Start.IsZero() || req.Dates.End.IsZero() || req.Dates.Nights() < 1 {
		return &types.ValidationError{Field: "dates", Message: "end must be after start"}
	}
	if req.TotalBudget <= 0 {
		return &types.ValidationError{Field: "total_budget", Message: "must be positive"}
	}
	if len(req.Data) == 0 || !json.Valid(req.Data) {
		return &types.ValidationError{Field: "itinerary_data", Message: "must be valid JSON"}
	}
	return nil
}

func (s *ServiceImpl) GetItinerary(ctx context.Context, id uuid.UUID) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetItinerary", trace.WithAttributes(
		attribute.String("itinerary.id", id.String()),
	))
	defer span.End()

	it, err := s.repo.GetItinerary(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Fetch failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Itinerary fetched")
	return it, nil
}

func (s *ServiceImpl) ListItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedItinerariesResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "ListItineraries", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if userID == uuid.Nil {
		span.SetStatus(codes.Error, "Request validation failed")
		return nil, &types.ValidationError{Field: "user_id", Message: "is required"}
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	itineraries, total, err := s.repo.ListItineraries(ctx, userID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Itineraries listed")
	return &types.PaginatedItinerariesResponse{
		Itineraries:  itineraries,
		TotalRecords: total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

func (s *ServiceImpl) UpdateItinerary(ctx context.Context, id uuid.UUID, req types.UpdateItineraryRequest) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "UpdateItinerary", trace.WithAttributes(
		attribute.String("itinerary.id", id.String()),
		attribute.Int("itinerary.version", req.Version),
	))
	defer span.End()

	if req.Version < 1 {
		span.SetStatus(codes.Error, "Request validation failed")
		return nil, &types.ValidationError{Field: "version", Message: "must be at least 1"}
	}
	if len(req.Data) == 0 || !json.Valid(req.Data) {
		span.SetStatus(codes.Error, "Request validation failed")
		return nil, &types.ValidationError{Field: "itinerary_data", Message: "must be valid JSON"}
	}

	updated, err := s.repo.UpdateItinerary(ctx, id, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Itinerary updated")
	return updated, nil
}

func (s *ServiceImpl) CreateInvite(ctx context.Context, itineraryID uuid.UUID, req types.CreateInviteRequest) (*types.CreateInviteResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "CreateInvite", trace.WithAttributes(
		attribute.String("itinerary.id", itineraryID.String()),
	))
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		span.SetStatus(codes.Error, "Request validation failed")
		return nil, &types.ValidationError{Field: "email", Message: "must be a valid email address"}
	}

	invite, err := s.repo.CreateInvite(ctx, itineraryID, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invite creation failed")
		return nil, err
	}

	token, err := s.tokens.Mint(invite)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to mint invite token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token minting failed")
		return nil, fmt.Errorf("failed to mint invite token: %w", err)
	}

	span.SetStatus(codes.Ok, "Invite created")
	return &types.CreateInviteResponse{Invite: *invite, Token: token}, nil
}

func (s *ServiceImpl) ListInvites(ctx context.Context, itineraryID uuid.UUID) ([]types.Invite, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "ListInvites", trace.WithAttributes(
		attribute.String("itinerary.id", itineraryID.String()),
	))
	defer span.End()

	// A missing itinerary should read as 404, not as an empty invite list.
	if _, err := s.repo.GetItinerary(ctx, itineraryID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary lookup failed")
		return nil, err
	}

	invites, err := s.repo.ListInvites(ctx, itineraryID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Invites listed")
	return invites, nil
}

// RespondInvite verifies the signed token from the invite link and resolves
// the invite it names. The invite ID in the URL-free flow comes from the
// token itself, so a bare ID is never enough to respond.
func (s *ServiceImpl) RespondInvite(ctx context.Context, req types.RespondInviteRequest) (*types.Invite, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "RespondInvite")
	defer span.End()

	l := s.logger.With(slog.String("method", "RespondInvite"))

	var status types.InviteStatus
	switch req.Action {
	case "accept":
		status = types.InviteAccepted
	case "reject":
		status = types.InviteRejected
	default:
		span.SetStatus(codes.Error, "Request validation failed")
		return nil, &types.ValidationError{Field: "action", Message: "must be accept or reject"}
	}

	claims, err := s.tokens.Parse(req.Token)
	if err != nil {
		l.WarnContext(ctx, "Invite token rejected", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid invite token")
		return nil, &types.ValidationError{Field: "token", Message: "invalid or expired invite token"}
	}
	inviteID, err := claims.InviteUUID()
	if err != nil {
		l.WarnContext(ctx, "Invite token rejected", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid invite token")
		return nil, &types.ValidationError{Field: "token", Message: "invalid or expired invite token"}
	}

	invite, err := s.repo.RespondInvite(ctx, inviteID, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Respond failed")
		return nil, err
	}

	l.InfoContext(ctx, "Invite resolved",
		slog.String("inviteID", invite.ID.String()),
		slog.String("status", string(invite.Status)))
	span.SetStatus(codes.Ok, "Invite resolved")
	return invite, nil
}
