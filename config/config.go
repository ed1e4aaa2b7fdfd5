package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// JWTConfig drives invite-token minting and verification.
type JWTConfig struct {
	SecretKey string        `mapstructure:"secretKey"`
	Issuer    string        `mapstructure:"issuer"`
	Audience  string        `mapstructure:"audience"`
	InviteTTL time.Duration `mapstructure:"inviteTTL"`
}

// UpstreamsConfig holds base URL overrides for the external travel APIs.
// Empty values mean the clients talk to the real endpoints; tests point them
// at local fakes.
type UpstreamsConfig struct {
	Xotelo struct {
		BaseURL string `mapstructure:"baseURL"`
	} `mapstructure:"xotelo"`
	Places struct {
		BaseURL string `mapstructure:"baseURL"`
	} `mapstructure:"places"`
	Weather struct {
		ForecastURL string `mapstructure:"forecastURL"`
		GeocodeURL  string `mapstructure:"geocodeURL"`
	} `mapstructure:"weather"`
}

// PlannerConfig exposes the budget allocation table for tuning without a
// rebuild. Zero-valued fields keep the planner's built-in defaults.
type PlannerConfig struct {
	HotelRatio         float64 `mapstructure:"hotelRatio"`
	AttractionsRatio   float64 `mapstructure:"attractionsRatio"`
	FoodRatio          float64 `mapstructure:"foodRatio"`
	HotelNightlyShare  float64 `mapstructure:"hotelNightlyShare"`
	MealsPerDay        int     `mapstructure:"mealsPerDay"`
	HotelFloorPerNight float64 `mapstructure:"hotelFloorPerNight"`
	FoodFloorPerDay    float64 `mapstructure:"foodFloorPerDay"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		ExternalAPI struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		} `mapstructure:"externalAPI"`
		Pprof struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		}
		Prometheus struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		}
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Upstreams UpstreamsConfig `mapstructure:"upstreams"`
	Planner   PlannerConfig   `mapstructure:"planner"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
