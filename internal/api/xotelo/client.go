// Package xotelo wraps the Xotelo hotel prices API on RapidAPI. Pricing a
// stay is a two-step dance: /api/search finds hotels for a city, /api/rates
// quotes one hotel for concrete dates.
package xotelo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

const (
	defaultBaseURL = "https://xotelo-hotel-prices.p.rapidapi.com"
	rapidAPIHost   = "xotelo-hotel-prices.p.rapidapi.com"
)

type Config struct {
	BaseURL string
	APIKey  string
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
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
	}
}

// Quote is one hotel priced for the whole requested stay.
type Quote struct {
	HotelKey      string
	Name          string
	Address       string
	PricePerNight float64
	Nights        int
}

type searchResponse struct {
	Error  *string `json:"error"`
	Result struct {
		List []struct {
			HotelKey       string `json:"hotel_key"`
			Name           string `json:"name"`
			StreetAddress  string `json:"street_address"`
			ShortPlaceName string `json:"short_place_name"`
		} `json:"list"`
	} `json:"result"`
}

type ratesResponse struct {
	Error  *string `json:"error"`
	Result struct {
		Price float64 `json:"price"`
	} `json:"result"`
}

// SearchHotels finds hotels in the city and rates each one for the stay,
// keeping quotes priced above zero and at or under maxNightly. Hotels whose
// rate lookup fails are skipped, not fatal; up to limit quotes are returned.
func (c *Client) SearchHotels(ctx context.Context, city string, checkIn, checkOut types.Date, maxNightly float64, limit int) ([]Quote, error) {
	nights := checkIn.DaysUntil(checkOut)
	if nights < 1 {
		return nil, fmt.Errorf("invalid stay: %s to %s", checkIn, checkOut)
	}

	var search searchResponse
	params := url.Values{
		"query":         {city},
		"location_type": {"accommodation"},
	}
	if err := c.getJSON(ctx, "/api/search", params, &search); err != nil {
		return nil, fmt.Errorf("xotelo search failed: %w", err)
	}
	if search.Error != nil {
		return nil, fmt.Errorf("xotelo search failed: %s", *search.Error)
	}

	// Rate more hotels than asked for so budget filtering still fills the
	// limit.
	hotels := search.Result.List
	if len(hotels) > limit*2 {
		hotels = hotels[:limit*2]
	}

	quotes := make([]Quote, 0, limit)
	for _, hotel := range hotels {
		if hotel.HotelKey == "" {
			continue
		}
		var rates ratesResponse
		params := url.Values{
			"hotel_key": {hotel.HotelKey},
			"chk_in":    {checkIn.String()},
			"chk_out":   {checkOut.String()},
		}
		if err := c.getJSON(ctx, "/api/rates", params, &rates); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.DebugContext(ctx, "Skipping hotel with failed rate lookup", slog.String("hotel", hotel.Name), slog.Any("error", err))
			continue
		}
		if rates.Error != nil {
			continue
		}

		nightly := rates.Result.Price
		if nightly <= 0 || nightly > maxNightly {
			continue
		}

		address := hotel.StreetAddress
		if address == "" {
			address = hotel.ShortPlaceName
		}
		quotes = append(quotes, Quote{
			HotelKey:      hotel.HotelKey,
			Name:          hotel.Name,
			Address:       address,
			PricePerNight: nightly,
			Nights:        nights,
		})
		if len(quotes) >= limit {
			break
		}
	}
	return quotes, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", rapidAPIHost)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
