package attractions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	generativeAI "github.com/voyaiger/voyaiger-server/internal/api/generative_ai"
	"github.com/voyaiger/voyaiger-server/internal/api/places"
	"github.com/voyaiger/voyaiger-server/internal/types"
)

const (
	candidateLimit = 10
	maxPicks       = 6
	minPicks       = 3

	// searchRadiusMeters covers the city proper around its geocoded center.
	searchRadiusMeters = 10000.0
)

// defaultTypes is the nearby-search type set. It intentionally spans the
// whole entry-price range, from parks up to amusement parks.
var defaultTypes = []string{"tourist_attraction", "museum", "park", "amusement_park"}

var _ Service = (*ServiceImpl)(nil)

// Service finds attraction candidates in a city. Prices are per visit.
type Service interface {
	FindAttractions(ctx context.Context, city string, days int, budget float64) ([]types.Candidate, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	client *places.Client
	ai     generativeAI.Generator
	cache  *cache.Cache
}

func NewServiceImpl(client *places.Client, ai generativeAI.Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		client: client,
		ai:     ai,
		cache:  cache.New(24*time.Hour, 1*time.Hour),
	}
}

// FindAttractions resolves the city, searches nearby attractions and
// shortlists a diverse set. The Places API carries no entry prices, so each
// candidate gets a nominal per-visit estimate from its place types. budget is
// the total attractions allocation for the trip and only steers the
// shortlist; enforcement happens downstream.
func (s *ServiceImpl) FindAttractions(ctx context.Context, city string, days int, budget float64) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("AttractionService").Start(ctx, "FindAttractions", trace.WithAttributes(
		attribute.String("city", city),
		attribute.Float64("budget", budget),
	))
	defer span.End()

	cacheKey := fmt.Sprintf("attractions:%s:%d:%.2f", city, days, budget)
	if cached, found := s.cache.Get(cacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]types.Candidate), nil
	}

	location, err := s.client.SearchCity(ctx, city)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to resolve city", slog.String("city", city), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "city lookup failed")
		return nil, fmt.Errorf("failed to resolve city: %w", err)
	}
	if location == nil {
		return nil, fmt.Errorf("%q: %w", city, places.ErrCityNotFound)
	}

	found, err := s.client.SearchNearby(ctx, location.Latitude, location.Longitude, defaultTypes, searchRadiusMeters, candidateLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search attractions", slog.String("city", city), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "attraction search failed")
		return nil, fmt.Errorf("failed to search attractions: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(found))
	for _, place := range found {
		price, kind := estimateEntry(place.Types)
		candidates = append(candidates, types.Candidate{
			Category: types.CategoryAttraction,
			Name:     place.Name,
			Address:  place.Address,
			Price:    price,
			Rating:   place.Rating,
			Kind:     kind,
		})
	}

	candidates = s.shortlist(ctx, candidates, days, budget)

	s.cache.Set(cacheKey, candidates, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("attractions.count", len(candidates)))
	span.SetStatus(codes.Ok, "Attractions found")
	return candidates, nil
}

// estimateEntry maps place types to a nominal per-visit price and a
// subcategory label. Free-entry places still get a small nominal price so
// every candidate carries a positive cost.
func estimateEntry(placeTypes []string) (float64, string) {
	has := func(names ...string) bool {
		for _, t := range placeTypes {
			for _, name := range names {
				if t == name {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has("museum"):
		return 15, "museum"
	case has("amusement_park", "zoo"):
		return 30, "amusement_park"
	case has("park"):
		return 5, "park"
	case has("church", "place_of_worship"):
		return 5, "landmark"
	}
	return 10, "tourist_attraction"
}

func (s *ServiceImpl) shortlist(ctx context.Context, candidates []types.Candidate, days int, budget float64) []types.Candidate {
	if s.ai == nil || len(candidates) <= minPicks {
		return candidates
	}

	picks, err := generativeAI.PickIndices(ctx, s.ai, s.shortlistPrompt(candidates, days, budget), len(candidates))
	if err != nil || len(picks) < minPicks {
		s.logger.WarnContext(ctx, "AI attraction shortlist unavailable, keeping full list",
			slog.Int("picks", len(picks)), slog.Any("error", err))
		return candidates
	}
	if len(picks) > maxPicks {
		picks = picks[:maxPicks]
	}

	selected := make([]types.Candidate, 0, len(picks))
	for _, idx := range picks {
		selected = append(selected, candidates[idx])
	}
	return selected
}

func (s *ServiceImpl) shortlistPrompt(candidates []types.Candidate, days int, budget float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a travel attractions expert. From the numbered list below, choose up to %d diverse attractions for a %d-day trip with a total attractions budget of $%.2f. Mix cheap and paid entries, different types, and highly rated places.

`, maxPicks, days, budget)
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s (%s), about $%.0f entry, rated %.1f\n", i, c.Name, c.Kind, c.Price, c.Rating)
	}
	b.WriteString("\nRespond with JSON only, no prose: {\"picks\": [numbers]}")
	return b.String()
}
