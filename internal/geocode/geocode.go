// Package geocode names the place at a point using the Google Geocoding API.
// Failures never propagate: the place is display-only.
package geocode

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/remote"
)

// DefaultBaseURL is the Google Maps API root
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

// Address component types, most preferred first
var preferredTypes = []string{"administrative_area_level_2", "administrative_area_level_1"}

type component struct {
	LongName *string  `json:"long_name" validate:"required"`
	Types    []string `json:"types"`
}

type result struct {
	FormattedAddress  *string     `json:"formatted_address" validate:"required"`
	AddressComponents []component `json:"address_components" validate:"dive"`
	Types             []string    `json:"types"`
}

type response struct {
	Status  *string  `json:"status" validate:"required"`
	Results []result `json:"results" validate:"dive"`
}

// Config holds configuration for the geocoder
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client reverse-geocodes points
type Client struct {
	api    *remote.Client
	apiKey string
	logger *slog.Logger
}

// New creates a geocoding client
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	api, err := remote.New(remote.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Resilience: remote.ResilienceConfig{
			MaxRetries:   1,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     500 * time.Millisecond,
		},
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Client{api: api, apiKey: cfg.APIKey, logger: cfg.Logger}, nil
}

// ReverseGeocode returns the district or region name at g, or "" when it
// cannot be determined.
func (c *Client) ReverseGeocode(ctx context.Context, g domain.Geo) string {
	if c.apiKey == "" {
		return ""
	}

	query := url.Values{}
	query.Set("latlng", strconv.FormatFloat(g.Lat, 'f', -1, 64)+","+strconv.FormatFloat(g.Lng, 'f', -1, 64))
	query.Set("key", c.apiKey)

	var resp response
	if err := c.api.Do(ctx, remote.Request{
		Method: http.MethodGet,
		Path:   "geocode/json",
		Query:  query,
	}, &resp); err != nil {
		c.logger.Warn("reverse geocode failed", "lat", g.Lat, "lng", g.Lng, "error", err)
		return ""
	}
	if *resp.Status != "OK" {
		c.logger.Warn("reverse geocode returned no result", "status", *resp.Status)
		return ""
	}
	return pickPlace(resp.Results)
}

// Close releases the underlying client
func (c *Client) Close() error {
	return c.api.Close()
}

func pickPlace(results []result) string {
	for _, want := range preferredTypes {
		for _, r := range results {
			for _, comp := range r.AddressComponents {
				if hasType(comp.Types, want) {
					return *comp.LongName
				}
			}
		}
	}
	if len(results) > 0 {
		return *results[0].FormattedAddress
	}
	return ""
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
