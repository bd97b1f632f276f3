package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	AppName    = "lookingcom-backend"
	AppVersion = "0.1.0"
)

// Config captures environment driven configuration for the gateway service.
type Config struct {
	HTTPPort int

	// CapCorn backend credentials and endpoint.
	CapCornBaseURL  string
	CapCornSystem   string
	CapCornUser     string
	CapCornPassword string
	CapCornHotelID  string
	CapCornPIN      string

	BackendTimeout time.Duration
	ComputeTimeout time.Duration
	CacheTTL       time.Duration

	RateLimit       int
	RateLimitWindow time.Duration

	MaxAnalyticsEvents int

	CORSOrigins []string
}

// Load parses configuration from the process environment, applying defaults
// for optional fields and reporting all missing or invalid entries at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:           8080,
		CapCornBaseURL:     "https://mainframe.capcorn.net/RestService",
		BackendTimeout:     30 * time.Second,
		ComputeTimeout:     45 * time.Second,
		CacheTTL:           30 * time.Second,
		RateLimit:          10,
		RateLimitWindow:    time.Minute,
		MaxAnalyticsEvents: 10000,
		CORSOrigins:        []string{"*"},
	}

	var missing, invalid []string

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if v := strings.TrimSpace(os.Getenv("CAPCORN_BASE_URL")); v != "" {
		cfg.CapCornBaseURL = v
	}

	required := []struct {
		name string
		dst  *string
	}{
		{"CAPCORN_SYSTEM", &cfg.CapCornSystem},
		{"CAPCORN_USER", &cfg.CapCornUser},
		{"CAPCORN_PASSWORD", &cfg.CapCornPassword},
		{"CAPCORN_HOTEL_ID", &cfg.CapCornHotelID},
		{"CAPCORN_PIN", &cfg.CapCornPIN},
	}
	for _, r := range required {
		if v := strings.TrimSpace(os.Getenv(r.name)); v == "" {
			missing = append(missing, r.name)
		} else {
			*r.dst = v
		}
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"CAPCORN_TIMEOUT", &cfg.BackendTimeout},
		{"SEARCH_COMPUTE_TIMEOUT", &cfg.ComputeTimeout},
		{"SEARCH_CACHE_TTL", &cfg.CacheTTL},
		{"RATE_LIMIT_WINDOW", &cfg.RateLimitWindow},
	}
	for _, d := range durations {
		if v := strings.TrimSpace(os.Getenv(d.name)); v != "" {
			dur, err := time.ParseDuration(v)
			if err != nil || dur <= 0 {
				invalid = append(invalid, d.name)
			} else {
				*d.dst = dur
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			invalid = append(invalid, "RATE_LIMIT")
		} else {
			cfg.RateLimit = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" && v != "*" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSOrigins = origins
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
