// Package postal resolves a postal code to its city and state through the
// zippopotam.us lookup service.
package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.zippopotam.us"
	DefaultCountry = "in"
)

// ErrNoPlace is returned when the lookup knows the code but lists no place,
// or does not know the code at all.
var ErrNoPlace = errors.New("postal code has no known place")

// Place is the part of a lookup result the billing form uses.
type Place struct {
	Name  string `json:"place name"`
	State string `json:"state abbreviation"`
}

type lookupResponse struct {
	PostCode string  `json:"post code"`
	Country  string  `json:"country"`
	Places   []Place `json:"places"`
}

// Client looks up postal codes for one country.
type Client struct {
	httpClient *http.Client
	baseURL    string
	country    string
	debug      bool
}

// NewClient returns a client for country (e.g. "in").
func NewClient(baseURL, country string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if country == "" {
		country = DefaultCountry
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		country:    country,
		debug:      os.Getenv("ENV") == "development",
	}
}

// Lookup returns the first place registered for zipcode.
func (c *Client) Lookup(ctx context.Context, zipcode string) (*Place, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.country, url.PathEscape(zipcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if c.debug {
		log.Debug().Str("endpoint", endpoint).Int("status_code", resp.StatusCode).Msg("[POSTAL] Lookup response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoPlace
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postal lookup: unexpected status %d", resp.StatusCode)
	}

	var out lookupResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Places) == 0 {
		return nil, ErrNoPlace
	}
	return &out.Places[0], nil
}
