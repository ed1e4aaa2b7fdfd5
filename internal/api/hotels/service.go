package hotels

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
	"github.com/voyaiger/voyaiger-server/internal/api/xotelo"
	"github.com/voyaiger/voyaiger-server/internal/types"
)

const (
	// candidateLimit caps how many priced quotes we pull per search.
	candidateLimit = 10
	// maxPicks is how many options the model is asked to keep.
	maxPicks = 6
	// minPicks is the floor under which an AI shortlist is discarded in
	// favour of the full candidate list.
	minPicks = 3
)

var _ Service = (*ServiceImpl)(nil)

// Service finds hotel candidates for a stay. Prices are per night and every
// candidate covers the whole stay.
type Service interface {
	FindHotels(ctx context.Context, city string, dates types.DateRange, budget float64) ([]types.Candidate, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	client *xotelo.Client
	ai     generativeAI.Generator
	cache  *cache.Cache
}

func NewServiceImpl(client *xotelo.Client, ai generativeAI.Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		client: client,
		ai:     ai,
		cache:  cache.New(24*time.Hour, 1*time.Hour),
	}
}

// FindHotels quotes hotels for the stay and shortlists a diverse set. budget
// is the amount allocated to lodging for the whole trip; quotes above
// budget/nights per night are filtered at the source.
func (s *ServiceImpl) FindHotels(ctx context.Context, city string, dates types.DateRange, budget float64) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("HotelService").Start(ctx, "FindHotels", trace.WithAttributes(
		attribute.String("city", city),
		attribute.Float64("budget", budget),
	))
	defer span.End()

	nights := dates.Nights()
	if nights < 1 {
		return nil, fmt.Errorf("invalid stay: %s to %s", dates.Start, dates.End)
	}

	cacheKey := fmt.Sprintf("hotels:%s:%s:%s:%.2f", city, dates.Start, dates.End, budget)
	if cached, found := s.cache.Get(cacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]types.Candidate), nil
	}

	maxNightly := budget / float64(nights)
	quotes, err := s.client.SearchHotels(ctx, city, dates.Start, dates.End, maxNightly, candidateLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search hotels", slog.String("city", city), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "hotel search failed")
		return nil, fmt.Errorf("failed to search hotels: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(quotes))
	for _, q := range quotes {
		candidates = append(candidates, types.Candidate{
			Category:   types.CategoryHotel,
			Name:       q.Name,
			Address:    q.Address,
			Price:      q.PricePerNight,
			StayNights: q.Nights,
		})
	}

	candidates = s.shortlist(ctx, candidates, nights, budget)

	s.cache.Set(cacheKey, candidates, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("hotels.count", len(candidates)))
	span.SetStatus(codes.Ok, "Hotels found")
	return candidates, nil
}

// shortlist asks the model for a diverse subset of the quotes. Any failure
// keeps the full list; the planner can cope with more options, not fewer.
func (s *ServiceImpl) shortlist(ctx context.Context, candidates []types.Candidate, nights int, budget float64) []types.Candidate {
	if s.ai == nil || len(candidates) <= minPicks {
		return candidates
	}

	picks, err := generativeAI.PickIndices(ctx, s.ai, s.shortlistPrompt(candidates, nights, budget), len(candidates))
	if err != nil || len(picks) < minPicks {
		s.logger.WarnContext(ctx, "AI hotel shortlist unavailable, keeping full list",
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

func (s *ServiceImpl) shortlistPrompt(candidates []types.Candidate, nights int, budget float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a hotel recommendation expert. From the numbered list below, choose up to %d hotels that offer diverse price points and good value for a %d-night stay with a total lodging budget of $%.2f.

`, maxPicks, nights, budget)
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s, $%.2f per night, %s\n", i, c.Name, c.Price, c.Address)
	}
	b.WriteString("\nRespond with JSON only, no prose: {\"picks\": [numbers]}")
	return b.String()
}
