package container

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/voyaiger/voyaiger-server/app/db"
	"github.com/voyaiger/voyaiger-server/config"
	"github.com/voyaiger/voyaiger-server/internal/api/attractions"
	generativeAI "github.com/voyaiger/voyaiger-server/internal/api/generative_ai"
	"github.com/voyaiger/voyaiger-server/internal/api/hotels"
	"github.com/voyaiger/voyaiger-server/internal/api/itinerary"
	"github.com/voyaiger/voyaiger-server/internal/api/places"
	"github.com/voyaiger/voyaiger-server/internal/api/restaurants"
	"github.com/voyaiger/voyaiger-server/internal/api/weather"
	"github.com/voyaiger/voyaiger-server/internal/api/xotelo"
	"github.com/voyaiger/voyaiger-server/internal/planner"
	"github.com/voyaiger/voyaiger-server/internal/types"
)

// Container holds all application dependencies.
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	DatabaseURL      string
	ItineraryHandler *itinerary.HandlerImpl
}

// NewContainer wires the full dependency graph: database pool, upstream API
// clients, category agents, planner, and the itinerary feature stack.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	repo := itinerary.NewRepository(pool, logger)

	xoteloClient := xotelo.NewClient(xotelo.Config{
		BaseURL: cfg.Upstreams.Xotelo.BaseURL,
		APIKey:  os.Getenv("RAPIDAPI_KEY"),
	}, logger)
	placesClient := places.NewClient(places.Config{
		BaseURL: cfg.Upstreams.Places.BaseURL,
		APIKey:  os.Getenv("GOOGLE_PLACES_API_KEY"),
	}, logger)
	weatherClient := weather.NewClient(weather.Config{
		ForecastURL: cfg.Upstreams.Weather.ForecastURL,
		GeocodeURL:  cfg.Upstreams.Weather.GeocodeURL,
	}, logger)

	// The agents run without AI shortlisting when no Gemini key is present;
	// they fall back to their full ranked candidate lists.
	var generator generativeAI.Generator
	if aiClient, aiErr := generativeAI.NewAIClient(ctx); aiErr != nil {
		logger.Warn("AI shortlisting disabled", slog.Any("error", aiErr))
	} else {
		generator = aiClient
	}

	hotelService := hotels.NewServiceImpl(xoteloClient, generator, logger)
	attractionService := attractions.NewServiceImpl(placesClient, generator, logger)
	restaurantService := restaurants.NewServiceImpl(placesClient, generator, logger)

	jwtCfg := cfg.JWT
	if key := os.Getenv("JWT_SECRET_KEY"); key != "" {
		jwtCfg.SecretKey = key
	}
	tokens, err := itinerary.NewInviteTokens(jwtCfg)
	if err != nil {
		logger.Error("Failed to initialize invite tokens", slog.Any("error", err))
		pool.Close()
		return nil, err
	}

	itineraryService := itinerary.NewServiceImpl(
		hotelService,
		attractionService,
		restaurantService,
		weatherClient,
		planner.New(plannerConfig(cfg.Planner)),
		repo,
		tokens,
		logger,
	)
	itineraryHandler := itinerary.NewHandlerImpl(itineraryService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		DatabaseURL:      dbConfig.ConnectionURL,
		ItineraryHandler: itineraryHandler,
	}, nil
}

// plannerConfig overlays the configured allocation table onto the planner
// defaults. Zero-valued settings keep their defaults, so a trimmed config file
// still yields a working planner.
func plannerConfig(t config.PlannerConfig) planner.Config {
	pc := planner.DefaultConfig()

	setCategory := func(cat types.Category, ratio, floor float64) {
		c := pc.Categories[cat]
		if ratio > 0 {
			c.Ratio = ratio
		}
		if floor > 0 {
			c.FloorPerDay = floor
		}
		pc.Categories[cat] = c
	}
	setCategory(types.CategoryHotel, t.HotelRatio, t.HotelFloorPerNight)
	setCategory(types.CategoryAttraction, t.AttractionsRatio, 0)
	setCategory(types.CategoryFood, t.FoodRatio, t.FoodFloorPerDay)

	if t.HotelNightlyShare > 0 {
		pc.HotelNightlyShare = t.HotelNightlyShare
	}
	if t.MealsPerDay > 0 {
		pc.MealsPerDay = t.MealsPerDay
	}
	return pc
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB blocks until the database answers pings or the configured wait
// budget runs out.
func (c *Container) WaitForDB(ctx context.Context) bool {
	maxWait := time.Duration(c.Config.Repositories.Postgres.MAXCONWAITINGTIME) * time.Second
	return database.WaitForDB(ctx, c.Pool, maxWait, c.Logger)
}

// RunMigrations applies pending database migrations.
func (c *Container) RunMigrations() error {
	return database.RunMigrations(c.DatabaseURL, c.Logger)
}
