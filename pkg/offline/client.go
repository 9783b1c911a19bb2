package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is where the offline API listens in a local setup.
	DefaultBaseURL = "http://localhost:3000"

	apiPrefix       = "/offline/v1"
	maxResponseSize = 10 << 20
)

// ErrNotFound is returned when a detail endpoint answers with an empty array.
var ErrNotFound = errors.New("record not found")

// APIError is returned when the API answers with a status the call does not
// accept as success.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("offline api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("offline api: unexpected status %d: %s", e.StatusCode, e.Message)
}

// Client is a minimal HTTP client for the offline inventory and billing API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient constructs a client for baseURL. A zero timeout means 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		debug:      os.Getenv("ENV") == "development",
	}
}

// doRequest sends body (if any) as JSON and decodes the response into result.
// The response is accepted when its status is listed in expected, or is any
// 2xx when expected is empty. It returns the message the API attached, if any.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any, expected []int) (string, error) {
	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := c.baseURL + apiPrefix + path
	if c.debug {
		ev := log.Debug().Str("method", method).Str("endpoint", url)
		if payload != nil {
			ev = ev.RawJSON("request", payload)
		}
		ev.Msg("[OFFLINE] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", url).
			Int("status_code", resp.StatusCode).
			Str("response", string(respBody)).
			Msg("[OFFLINE] Incoming response")
	}

	message := messageOf(respBody)
	if !accepted(resp.StatusCode, expected) {
		return message, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return message, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return message, nil
}

func accepted(status int, expected []int) bool {
	if len(expected) == 0 {
		return status >= 200 && status < 300
	}
	return slices.Contains(expected, status)
}

// messageOf extracts {"message": "..."} from a response body, if present.
func messageOf(body []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	return m.Message
}

// first returns the single record of a detail response.
func first[T any](items []T) (*T, error) {
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}
