package clock

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// Reading is one observation of the current time. Degraded is true when the
// authoritative source was unreachable and the local clock was used instead;
// every security- or business-rule decision made from a degraded reading
// must log that fact.
type Reading struct {
	Time     time.Time
	Degraded bool
}

// Epoch returns the reading as a Unix timestamp.
func (r Reading) Epoch() int64 { return r.Time.Unix() }

// Year returns the reading's calendar year.
func (r Reading) Year() int { return r.Time.UTC().Year() }

// Clock yields authoritative time. Local time must never be the primary
// source for security-relevant comparisons (contract expiry, last-login
// stamps, event windows).
type Clock interface {
	Now(ctx context.Context) Reading
}

// DefaultEndpoint is the default time API endpoint.
const DefaultEndpoint = "https://worldtimeapi.org/api/timezone/Etc/UTC"

// Config holds configuration for the time API client.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// LoadConfigFromEnv loads clock configuration from environment variables.
//
// Environment variables:
//   - TIME_API_URL: time API endpoint (default: worldtimeapi UTC)
//   - TIME_API_TIMEOUT: request timeout (default: 5s)
func LoadConfigFromEnv() Config {
	cfg := Config{
		Endpoint: os.Getenv("TIME_API_URL"),
		Timeout:  5 * time.Second,
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if v := os.Getenv("TIME_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// HTTPClock fetches current time from a JSON time API.
type HTTPClock struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClock(cfg Config) *HTTPClock {
	return &HTTPClock{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// timeResponse matches the worldtimeapi payload. Only unixtime is needed.
type timeResponse struct {
	UnixTime int64  `json:"unixtime"`
	DateTime string `json:"datetime"`
}

// Now fetches authoritative time. On any failure it falls back to the local
// clock, marks the reading degraded, and logs the cause — the fallback is
// never silently equivalent to the authoritative path.
func (c *HTTPClock) Now(ctx context.Context) Reading {
	t, err := c.fetch(ctx)
	if err != nil {
		log.Printf("degraded-clock: time API unavailable, using local time: %v", err)
		return Reading{Time: time.Now().UTC(), Degraded: true}
	}
	return Reading{Time: t}
}

func (c *HTTPClock) fetch(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return time.Time{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("time API returned status %d", resp.StatusCode)
	}

	var body timeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return time.Time{}, fmt.Errorf("decoding time API response: %w", err)
	}
	if body.UnixTime == 0 {
		return time.Time{}, fmt.Errorf("time API response missing unixtime")
	}
	return time.Unix(body.UnixTime, 0).UTC(), nil
}
