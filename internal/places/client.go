package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL  = "https://maps.googleapis.com/maps/api/place"
	DefaultLanguage = "fr"
	DefaultTimeout  = 10 * time.Second
)

// detailFields is the field mask sent with every details request.
var detailFields = []string{
	"place_id", "name", "formatted_phone_number", "international_phone_number",
	"website", "url", "formatted_address", "address_components", "geometry", "types",
	"editorial_summary", "reviews", "photos", "opening_hours", "rating",
	"user_ratings_total", "business_status", "icon", "icon_background_color",
	"dine_in", "takeout", "delivery", "reservable", "curbside_pickup",
	"serves_breakfast", "serves_lunch", "serves_dinner", "serves_beer", "serves_wine",
	"serves_vegetarian_food", "wheelchair_accessible_entrance",
}

// Config holds the settings of a Google Places client.
type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// Client talks to the Google Places web service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
}

// NewClient creates a Google Places client, filling unset settings with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Details fetches a single place. Identifiers made only of digits are sent as
// a customer id (cid), everything else as a place id.
func (c *Client) Details(ctx context.Context, id string) (*Place, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	params := url.Values{}
	if isDigits(id) {
		params.Set("cid", id)
	} else {
		params.Set("place_id", id)
	}
	params.Set("fields", strings.Join(detailFields, ","))

	var body detailsResponse
	if err := c.get(ctx, "details", params, &body); err != nil {
		return nil, err
	}
	if err := checkStatus("details", body.Status, body.ErrorMessage); err != nil {
		return nil, err
	}
	if body.Result == nil || body.Result.PlaceID == "" {
		return nil, ErrNotFound
	}
	return body.Result, nil
}

// TextSearch runs a free-text search and returns matches in provider order.
// Search results only carry summary fields; use Details for the full record.
func (c *Client) TextSearch(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	params := url.Values{}
	params.Set("query", query)

	var body searchResponse
	if err := c.get(ctx, "textsearch", params, &body); err != nil {
		return nil, err
	}
	if err := checkStatus("text search", body.Status, body.ErrorMessage); err != nil {
		return nil, err
	}
	if len(body.Results) == 0 {
		return nil, ErrNotFound
	}
	return body.Results, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return &UpstreamError{
			Kind:      KindConfiguration,
			Operation: endpoint,
			Message:   "GOOGLE_PLACES_API_KEY is not set",
		}
	}

	params.Set("key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	reqURL := fmt.Sprintf("%s/%s/json?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &UpstreamError{Kind: KindConfiguration, Operation: endpoint, Cause: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Kind: KindNetwork, Operation: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &UpstreamError{
			Kind:       KindNetwork,
			Operation:  endpoint,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Kind: KindNetwork, Operation: endpoint, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func checkStatus(operation, status, message string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND", "INVALID_REQUEST":
		return ErrNotFound
	case "REQUEST_DENIED":
		return &UpstreamError{Kind: KindConfiguration, Operation: operation, ProviderStatus: status, Message: message}
	default:
		return &UpstreamError{Kind: KindNetwork, Operation: operation, ProviderStatus: status, Message: message}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
