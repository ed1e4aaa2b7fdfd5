package restaurants

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
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

	// searchRadiusMeters keeps restaurants within walking or short transit
	// distance of the city center.
	searchRadiusMeters = 5000.0

	// mealsPerDay is the estimate used to quote a per-meal budget in prompts.
	mealsPerDay = 3

	// moderatePriceLevel stands in when the API omits a price level.
	moderatePriceLevel = 2
)

// mealCosts estimates a per-meal price in dollars from the API's 0 (free) to
// 4 (very expensive) price level. The Places API never quotes real prices.
var mealCosts = [5]float64{10, 15, 30, 60, 100}

var _ Service = (*ServiceImpl)(nil)

// Service finds restaurant candidates in a city. Prices are per meal.
type Service interface {
	FindRestaurants(ctx context.Context, city string, days int, budget float64) ([]types.Candidate, error)
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

// FindRestaurants resolves the city, searches nearby restaurants and
// shortlists a varied set. Results are ordered cheapest price level first so
// a truncated list still spans the price range. budget is the total food
// allocation for the trip and only steers the shortlist.
func (s *ServiceImpl) FindRestaurants(ctx context.Context, city string, days int, budget float64) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("RestaurantService").Start(ctx, "FindRestaurants", trace.WithAttributes(
		attribute.String("city", city),
		attribute.Float64("budget", budget),
	))
	defer span.End()

	cacheKey := fmt.Sprintf("restaurants:%s:%d:%.2f", city, days, budget)
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

	found, err := s.client.SearchNearby(ctx, location.Latitude, location.Longitude, []string{"restaurant"}, searchRadiusMeters, candidateLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search restaurants", slog.String("city", city), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "restaurant search failed")
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}

	// Cheapest price level first gives the shortlist a spread of price
	// points even when it is cut off.
	sort.SliceStable(found, func(i, j int) bool {
		return effectivePriceLevel(found[i].PriceLevel) < effectivePriceLevel(found[j].PriceLevel)
	})

	candidates := make([]types.Candidate, 0, len(found))
	for _, place := range found {
		kind := "restaurant"
		if len(place.Types) > 0 {
			kind = place.Types[0]
		}
		candidates = append(candidates, types.Candidate{
			Category: types.CategoryFood,
			Name:     place.Name,
			Address:  place.Address,
			Price:    mealCosts[effectivePriceLevel(place.PriceLevel)],
			Rating:   place.Rating,
			Cuisine:  inferCuisine(place.Types),
			Kind:     kind,
		})
	}

	candidates = s.shortlist(ctx, candidates, days, budget)

	s.cache.Set(cacheKey, candidates, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("restaurants.count", len(candidates)))
	span.SetStatus(codes.Ok, "Restaurants found")
	return candidates, nil
}

func effectivePriceLevel(level *int) int {
	if level == nil {
		return moderatePriceLevel
	}
	return *level
}

// inferCuisine derives a cuisine label from place types such as
// "italian_restaurant".
func inferCuisine(placeTypes []string) string {
	cuisines := []string{"italian", "chinese", "japanese", "mexican", "indian", "french"}
	for _, t := range placeTypes {
		lowered := strings.ToLower(t)
		for _, cuisine := range cuisines {
			if strings.Contains(lowered, cuisine) {
				return strings.ToUpper(cuisine[:1]) + cuisine[1:]
			}
		}
	}
	return "International"
}

func (s *ServiceImpl) shortlist(ctx context.Context, candidates []types.Candidate, days int, budget float64) []types.Candidate {
	if s.ai == nil || len(candidates) <= minPicks {
		return candidates
	}

	picks, err := generativeAI.PickIndices(ctx, s.ai, s.shortlistPrompt(candidates, days, budget), len(candidates))
	if err != nil || len(picks) < minPicks {
		s.logger.WarnContext(ctx, "AI restaurant shortlist unavailable, keeping full list",
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
	perMeal := budget / float64(days*mealsPerDay)
	var b strings.Builder
	fmt.Fprintf(&b, `You are a restaurant recommendation expert. From the numbered list below, choose up to %d restaurants for a %d-day trip. The total food budget is $%.2f, roughly $%.2f per meal. Include variety in price and cuisine.

`, maxPicks, days, budget, perMeal)
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s (%s), about $%.0f per meal, rated %.1f\n", i, c.Name, c.Cuisine, c.Price, c.Rating)
	}
	b.WriteString("\nRespond with JSON only, no prose: {\"picks\": [numbers]}")
	return b.String()
}
