package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free geocoding service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client   HTTPClient    // HTTP client for making requests
	baseURL  string        // Base URL for the Nominatim API
	language string        // Accept-Language sent with every request
	log      *slog.Logger  // Logger for logging operations
	limiter  *rate.Limiter // Keeps the request rate within the usage policy
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents the JSON response from Nominatim API.
type nominatimResponse struct {
	Address map[string]string `json:"address"` // Address breakdown, present with addressdetails=1
}

const (
	nominatimBaseURL   = "https://nominatim.openstreetmap.org/search"
	nominatimUserAgent = "Themis-Court-Matcher/1.0 (https://github.com/UnknownOlympus/themis)"
)

// Address keys that carry a district in Nominatim answers, most specific first.
var nominatimDistrictKeys = []string{"city_district", "district", "county", "suburb"}

// ErrNominatimEmptyResponse is returned when Nominatim found nothing for the address.
var ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")

// NewNominatimProvider creates a new Nominatim geocoding provider.
// Uses the public Nominatim API endpoint by default.
func NewNominatimProvider(rateLimit int, language string, log *slog.Logger) *NominatimProvider {
	const timeout = 10
	client := &http.Client{Timeout: timeout * time.Second}

	return NewNominatimProviderWithClient(client, rate.NewLimiter(rate.Limit(rateLimit), 1), language, log)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(
	client HTTPClient,
	limiter *rate.Limiter,
	language string,
	log *slog.Logger,
) *NominatimProvider {
	if language == "" {
		language = "zh-CN"
	}

	return &NominatimProvider{
		client:    client,
		baseURL:   nominatimBaseURL,
		language:  language,
		log:       log,
		limiter:   limiter,
		userAgent: nominatimUserAgent,
	}
}

// District asks Nominatim for the best match of address and returns its
// district-level address component.
func (np *NominatimProvider) District(ctx context.Context, address string) (string, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit exceeded: %w", err)
	}

	np.log.DebugContext(ctx, "Looking up district using Nominatim", "address", address)

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("addressdetails", "1")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Set required headers per Nominatim usage policy
	req.Header.Set("User-Agent", np.userAgent)
	req.Header.Set("Accept-Language", np.language)

	resp, err := np.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		return "", fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if len(results) == 0 {
		return "", ErrNominatimEmptyResponse
	}

	for _, key := range nominatimDistrictKeys {
		if district := results[0].Address[key]; district != "" {
			np.log.DebugContext(ctx, "Nominatim found district", "address", address, "district", district)
			return district, nil
		}
	}

	return "", ErrNoDistrict
}
