// Package placedata wraps the external business-data provider API.
// Every search against it is billed, so callers gate requests through
// the fetch ledger before reaching for this client.
package placedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/openlistings/directory/pkg/config"
)

// Client is the interface consumed by the ingestion service
type Client interface {
	SearchBusinesses(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// HTTPClient implements Client against the provider's HTTP API
type HTTPClient struct {
	baseURL    string
	apiKey     string
	limit      int
	httpClient *http.Client
}

// SearchRequest describes one keyword search
type SearchRequest struct {
	Keyword string
	Limit   int
}

// SearchResponse is the provider's normalized search payload
type SearchResponse struct {
	Data []PlaceRecord `json:"data"`
}

// PlaceRecord is one raw business record as returned by the provider.
// Optional fields are pointers; absent values stay nil.
type PlaceRecord struct {
	ID            string                  `json:"id"`
	DisplayName   string                  `json:"displayName"`
	Street        string                  `json:"street"`
	City          string                  `json:"city"`
	Region        string                  `json:"region"`
	Zip           string                  `json:"zip"`
	CountryCode   string                  `json:"countryCode"`
	Latitude      *float64                `json:"latitude"`
	Longitude     *float64                `json:"longitude"`
	Phone         string                  `json:"phone,omitempty"`
	Website       string                  `json:"website,omitempty"`
	Rating        *float64                `json:"rating"`
	ReviewCount   int                     `json:"reviewCount"`
	Claimed       bool                    `json:"claimed"`
	Category      string                  `json:"category,omitempty"`
	SubCategories []string                `json:"subCategories,omitempty"`
	Hours         map[string][]HoursEntry `json:"hours,omitempty"`
}

// HoursEntry is one open/close interval in the provider's hours payload
type HoursEntry struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// NewHTTPClient creates a provider client. A missing API key is a fatal
// configuration error surfaced at startup, never per request.
func NewHTTPClient(cfg *config.PlaceDataConfig) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("placedata: PLACEDATA_API_KEY is required")
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limit:   cfg.SearchLimit,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}, nil
}

// SearchBusinesses runs a keyword search against the provider
func (c *HTTPClient) SearchBusinesses(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	parsed, err := url.Parse(fmt.Sprintf("%s/businesses/search", c.baseURL))
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = c.limit
	}

	query := parsed.Query()
	query.Set("keyword", req.Keyword)
	if limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", limit))
	}
	parsed.RawQuery = query.Encode()

	out := &SearchResponse{}
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("placedata api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}

	return nil
}
