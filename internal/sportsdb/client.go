// Package sportsdb pulls team and fixture data from TheSportsDB and applies
// it to the local teams and games tables.
package sportsdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.thesportsdb.com/api/v1/json"
	DefaultAPIKey  = "123" // public test key
)

var ErrUpstream = errors.New("sportsdb request failed")

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient paces calls at five per second.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

func (c *Client) TeamsByLeague(ctx context.Context, searchName, searchSport string) ([]Team, error) {
	v := url.Values{}
	v.Set("l", searchName)
	if searchSport != "" {
		v.Set("s", searchSport)
	}

	var out teamsResponse
	if err := c.get(ctx, "search_all_teams.php", v, &out); err != nil {
		return nil, err
	}
	return out.Teams, nil
}

func (c *Client) EventsBySeason(ctx context.Context, leagueID, season string) ([]Event, error) {
	v := url.Values{}
	v.Set("id", leagueID)
	v.Set("s", season)

	var out eventsResponse
	if err := c.get(ctx, "eventsseason.php", v, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) get(ctx context.Context, endpoint string, v url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, url.PathEscape(c.apiKey), endpoint, v.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, res.Body)
		return fmt.Errorf("%w: %s: status %d", ErrUpstream, endpoint, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %s: decode: %v", ErrUpstream, endpoint, err)
	}
	return nil
}
