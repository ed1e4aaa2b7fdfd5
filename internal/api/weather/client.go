// Package weather fetches daily forecasts from Open-Meteo, which is free and
// keyless. Forecasts only decorate day plans; planning never depends on them.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

const (
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
)

type Config struct {
	ForecastURL string
	GeocodeURL  string
}

type Client struct {
	forecastURL string
	geocodeURL  string
	http        *http.Client
	logger      *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	forecastURL := cfg.ForecastURL
	if forecastURL == "" {
		forecastURL = defaultForecastURL
	}
	geocodeURL := cfg.GeocodeURL
	if geocodeURL == "" {
		geocodeURL = defaultGeocodeURL
	}
	return &Client{
		forecastURL: forecastURL,
		geocodeURL:  geocodeURL,
		http:        &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
	Country   string
}

// Forecast is one day's outlook. Temperatures are Fahrenheit, rounded.
type Forecast struct {
	Date                types.Date
	Description         string
	TemperatureMax      int
	TemperatureMin      int
	PrecipitationChance int
}

// Summary renders the forecast for a day plan, mentioning rain only when it
// is likely.
func (f Forecast) Summary() string {
	s := fmt.Sprintf("%s, %d to %d F", f.Description, f.TemperatureMin, f.TemperatureMax)
	if f.PrecipitationChance > 30 {
		s += fmt.Sprintf(", %d%% chance of rain", f.PrecipitationChance)
	}
	return s
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// GeocodeCity resolves a city name to coordinates.
func (c *Client) GeocodeCity(ctx context.Context, city string) (*Location, error) {
	params := url.Values{
		"name":     {city},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}
	var result geocodeResponse
	if err := c.getJSON(ctx, c.geocodeURL, params, &result); err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(result.Results) == 0 {
		return nil, fmt.Errorf("city %q not found", city)
	}
	hit := result.Results[0]
	return &Location{
		Latitude:  hit.Latitude,
		Longitude: hit.Longitude,
		Name:      hit.Name,
		Country:   hit.Country,
	}, nil
}

type forecastResponse struct {
	Daily struct {
		Time                     []string  `json:"time"`
		Weathercode              []int     `json:"weathercode"`
		TemperatureMax           []float64 `json:"temperature_2m_max"`
		TemperatureMin           []float64 `json:"temperature_2m_min"`
		PrecipitationProbability []int     `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// DailyForecast geocodes the city and returns one forecast per planned day in
// [start, end), checkout day excluded.
func (c *Client) DailyForecast(ctx context.Context, city string, start, end types.Date) ([]Forecast, error) {
	location, err := c.GeocodeCity(ctx, city)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"latitude":         {strconv.FormatFloat(location.Latitude, 'f', -1, 64)},
		"longitude":        {strconv.FormatFloat(location.Longitude, 'f', -1, 64)},
		"daily":            {"weathercode,temperature_2m_max,temperature_2m_min,precipitation_probability_max"},
		"temperature_unit": {"fahrenheit"},
		"timezone":         {"auto"},
		"start_date":       {start.String()},
		"end_date":         {end.AddDays(-1).String()},
	}
	var result forecastResponse
	if err := c.getJSON(ctx, c.forecastURL, params, &result); err != nil {
		return nil, fmt.Errorf("forecast failed: %w", err)
	}

	daily := result.Daily
	forecasts := make([]Forecast, 0, len(daily.Time))
	for i, day := range daily.Time {
		date, err := types.ParseDate(day)
		if err != nil {
			c.logger.DebugContext(ctx, "Skipping malformed forecast day", slog.String("day", day))
			continue
		}
		forecast := Forecast{Date: date, Description: "Unknown"}
		if i < len(daily.Weathercode) {
			forecast.Description = describeWeathercode(daily.Weathercode[i])
		}
		if i < len(daily.TemperatureMax) {
			forecast.TemperatureMax = int(math.Round(daily.TemperatureMax[i]))
		}
		if i < len(daily.TemperatureMin) {
			forecast.TemperatureMin = int(math.Round(daily.TemperatureMin[i]))
		}
		if i < len(daily.PrecipitationProbability) {
			forecast.PrecipitationChance = daily.PrecipitationProbability[i]
		}
		forecasts = append(forecasts, forecast)
	}
	return forecasts, nil
}

// describeWeathercode maps WMO weather codes to readable text.
func describeWeathercode(code int) string {
	descriptions := map[int]string{
		0:  "Clear sky",
		1:  "Mainly clear",
		2:  "Partly cloudy",
		3:  "Overcast",
		45: "Foggy",
		48: "Foggy",
		51: "Light drizzle",
		53: "Moderate drizzle",
		55: "Dense drizzle",
		61: "Light rain",
		63: "Moderate rain",
		65: "Heavy rain",
		71: "Light snow",
		73: "Moderate snow",
		75: "Heavy snow",
		77: "Snow grains",
		80: "Light rain showers",
		81: "Moderate rain showers",
		82: "Violent rain showers",
		85: "Light snow showers",
		86: "Heavy snow showers",
		95: "Thunderstorm",
		96: "Thunderstorm with light hail",
		99: "Thunderstorm with heavy hail",
	}
	if description, ok := descriptions[code]; ok {
		return description
	}
	return "Unknown"
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
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
