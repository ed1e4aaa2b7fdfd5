// Package places wraps the Google Places API (New): text search for city
// lookups and nearby search for attractions and restaurants. Both calls are
// POSTs with a field mask header so only the paid-for fields come back.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultBaseURL = "https://places.googleapis.com/v1"

	cityFieldMask   = "places.id,places.displayName,places.formattedAddress,places.location"
	nearbyFieldMask = "places.id,places.displayName,places.formattedAddress,places.rating,places.priceLevel,places.types"

	// The nearby endpoint caps a single page at 20 results.
	maxNearbyResults = 20
)

// ErrCityNotFound reports a city query that matched nothing. Callers wrap it
// so errors.Is works across service boundaries.
var ErrCityNotFound = errors.New("city not found")

type Config struct {
	BaseURL string
	APIKey  string
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
	// cities caches text-search lookups; the same city is resolved once per
	// day, not once per category fetch.
	cities *cache.Cache
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
		cities:  cache.New(24*time.Hour, 1*time.Hour),
	}
}

// City is a resolved city lookup.
type City struct {
	PlaceID   string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
}

// Place is one nearby search hit. PriceLevel is the API's 0 (free) to 4
// (very expensive) scale, nil when the API omits it.
type Place struct {
	PlaceID    string
	Name       string
	Address    string
	Rating     float64
	PriceLevel *int
	Types      []string
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type placePayload struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string   `json:"formattedAddress"`
	Rating           float64  `json:"rating"`
	PriceLevel       string   `json:"priceLevel"`
	Types            []string `json:"types"`
	Location         *latLng  `json:"location"`
}

type placesResponse struct {
	Places []placePayload `json:"places"`
}

var priceLevels = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// SearchCity resolves a city by free-text query. A miss returns (nil, nil).
func (c *Client) SearchCity(ctx context.Context, name string) (*City, error) {
	if cached, found := c.cities.Get(name); found {
		c.logger.DebugContext(ctx, "City lookup cache hit", slog.String("city", name))
		city := cached.(City)
		return &city, nil
	}

	body := map[string]string{"textQuery": name}
	var result placesResponse
	if err := c.postJSON(ctx, "/places:searchText", cityFieldMask, body, &result); err != nil {
		return nil, fmt.Errorf("city lookup failed: %w", err)
	}
	if len(result.Places) == 0 {
		return nil, nil
	}

	place := result.Places[0]
	city := City{
		PlaceID: place.ID,
		Name:    place.DisplayName.Text,
		Address: place.FormattedAddress,
	}
	if city.Name == "" {
		city.Name = name
	}
	if place.Location != nil {
		city.Latitude = place.Location.Latitude
		city.Longitude = place.Location.Longitude
	}
	c.cities.Set(name, city, cache.DefaultExpiration)
	return &city, nil
}

type nearbyRequest struct {
	IncludedTypes       []string            `json:"includedTypes"`
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

// SearchNearby returns up to limit places of the included types within
// radiusMeters of the coordinates.
func (c *Client) SearchNearby(ctx context.Context, lat, lon float64, includedTypes []string, radiusMeters float64, limit int) ([]Place, error) {
	body := nearbyRequest{
		IncludedTypes:  includedTypes,
		MaxResultCount: min(limit, maxNearbyResults),
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: latLng{Latitude: lat, Longitude: lon},
				Radius: radiusMeters,
			},
		},
	}
	var result placesResponse
	if err := c.postJSON(ctx, "/places:searchNearby", nearbyFieldMask, body, &result); err != nil {
		return nil, fmt.Errorf("nearby search failed: %w", err)
	}

	hits := result.Places
	if len(hits) > limit {
		hits = hits[:limit]
	}
	places := make([]Place, 0, len(hits))
	for _, payload := range hits {
		place := Place{
			PlaceID: payload.ID,
			Name:    payload.DisplayName.Text,
			Address: payload.FormattedAddress,
			Rating:  payload.Rating,
			Types:   payload.Types,
		}
		if place.Name == "" {
			place.Name = "Unknown"
		}
		if level, ok := priceLevels[payload.PriceLevel]; ok {
			place.PriceLevel = &level
		}
		places = append(places, place)
	}
	return places, nil
}

func (c *Client) postJSON(ctx context.Context, path, fieldMask string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
