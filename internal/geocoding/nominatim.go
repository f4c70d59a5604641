// Package geocoding resolves addresses to coordinates through a Nominatim
// compatible search API.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rbar/internal/geo"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "rbar/1.0"
	// Nominatim's usage policy allows one request per second.
	DefaultRate = 1.0
)

var ErrEmptyQuery = errors.New("geocoding query is empty")

// Place is the first match for a query.
type Place struct {
	Point       geo.Point `json:"point"`
	DisplayName string    `json:"display_name"`
}

// Geocoder is what handlers and the seeder depend on. found is false when the
// provider has no match, which is not an error.
type Geocoder interface {
	Lookup(ctx context.Context, query string) (Place, bool, error)
	LookupAddress(ctx context.Context, street, city, state string) (Place, bool, error)
}

type Observer interface {
	ObserveGeocode(outcome string)
}

type Config struct {
	BaseURL       string
	UserAgent     string
	RatePerSecond float64
	Timeout       time.Duration
	HTTPClient    *http.Client
	Observer      Observer
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	observer  Observer
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultRate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		observer:  cfg.Observer,
	}
}

// Lookup geocodes free text, restricted to the United States.
func (c *Client) Lookup(ctx context.Context, query string) (Place, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, false, ErrEmptyQuery
	}
	v := url.Values{}
	v.Set("q", query)
	v.Set("countrycodes", "us")
	return c.search(ctx, v)
}

// LookupAddress geocodes a street address.
func (c *Client) LookupAddress(ctx context.Context, street, city, state string) (Place, bool, error) {
	parts := make([]string, 0, 4)
	for _, p := range []string{street, city, state} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return Place{}, false, ErrEmptyQuery
	}
	parts = append(parts, "USA")

	v := url.Values{}
	v.Set("q", strings.Join(parts, ", "))
	return c.search(ctx, v)
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *Client) search(ctx context.Context, v url.Values) (Place, bool, error) {
	place, found, err := c.doSearch(ctx, v)
	switch {
	case err != nil:
		c.observe("error")
	case !found:
		c.observe("not_found")
	default:
		c.observe("ok")
	}
	return place, found, err
}

func (c *Client) doSearch(ctx context.Context, v url.Values) (Place, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Place{}, false, fmt.Errorf("geocode rate limit wait: %w", err)
	}

	v.Set("format", "json")
	v.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+v.Encode(), nil)
	if err != nil {
		return Place{}, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return Place{}, false, fmt.Errorf("geocode request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, res.Body)
		return Place{}, false, nil
	}

	var results []searchResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return Place{}, false, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return Place{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Place{}, false, fmt.Errorf("geocode lat %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Place{}, false, fmt.Errorf("geocode lon %q: %w", results[0].Lon, err)
	}

	p := geo.Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return Place{}, false, fmt.Errorf("geocode result: %w", err)
	}
	return Place{Point: p, DisplayName: results[0].DisplayName}, true, nil
}

func (c *Client) observe(outcome string) {
	if c.observer != nil {
		c.observer.ObserveGeocode(outcome)
	}
}
