package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/themis/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(_ *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	}
}

func newNominatim(doFunc func(*http.Request) (*http.Response, error)) *geocoding.NominatimProvider {
	return geocoding.NewNominatimProviderWithClient(
		&mockHTTPClient{doFunc: doFunc}, rate.NewLimiter(rate.Inf, 1), "", slog.Default(),
	)
}

func TestNominatimProvider_District(t *testing.T) {
	ctx := context.Background()

	t.Run("successful lookup", func(t *testing.T) {
		provider := newNominatim(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Contains(t, req.URL.String(), "nominatim.openstreetmap.org")
			assert.Equal(t, "北京市中关村大街1号", req.URL.Query().Get("q"))
			assert.Equal(t, "1", req.URL.Query().Get("addressdetails"))
			assert.Equal(t, "zh-CN", req.Header.Get("Accept-Language"))
			assert.Contains(t, req.Header.Get("User-Agent"), "Themis-Court-Matcher")

			return respond(http.StatusOK,
				`[{"address":{"suburb":"中关村","city_district":"海淀区","city":"北京市"}}]`)(req)
		})

		district, err := provider.District(ctx, "北京市中关村大街1号")

		require.NoError(t, err)
		assert.Equal(t, "海淀区", district)
	})

	t.Run("falls back to less specific keys", func(t *testing.T) {
		provider := newNominatim(respond(http.StatusOK, `[{"address":{"county":"密云区"}}]`))

		district, err := provider.District(ctx, "密云水库")

		require.NoError(t, err)
		assert.Equal(t, "密云区", district)
	})

	t.Run("empty response from API", func(t *testing.T) {
		provider := newNominatim(respond(http.StatusOK, `[]`))

		_, err := provider.District(ctx, "invalid address")

		require.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
	})

	t.Run("no district in answer", func(t *testing.T) {
		provider := newNominatim(respond(http.StatusOK, `[{"address":{"country":"中国"}}]`))

		_, err := provider.District(ctx, "中国")

		require.ErrorIs(t, err, geocoding.ErrNoDistrict)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		provider := newNominatim(respond(http.StatusTooManyRequests, `{"error":"Rate limit exceeded"}`))

		_, err := provider.District(ctx, "some address")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		provider := newNominatim(respond(http.StatusOK, `invalid json`))

		_, err := provider.District(ctx, "some address")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		provider := newNominatim(func(_ *http.Request) (*http.Response, error) {
			return nil, assert.AnError
		})

		_, err := provider.District(ctx, "some address")

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to execute geocoding request")
	})

	t.Run("context cancellation", func(t *testing.T) {
		newCtx, cancel := context.WithCancel(context.Background())
		cancel()

		provider := geocoding.NewNominatimProviderWithClient(
			&mockHTTPClient{doFunc: respond(http.StatusOK, `[]`)},
			rate.NewLimiter(rate.Limit(1), 1),
			"",
			slog.Default(),
		)

		_, err := provider.District(newCtx, "some address")

		require.Error(t, err)
	})
}
