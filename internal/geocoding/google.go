package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes.
type GoogleProvider struct {
	client   GoogleAPIClient // client is the Google Maps API client
	language string          // language requested for component names
	log      *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// Component types that name a Chinese district, most specific first.
var googleDistrictTypes = []string{"sublocality_level_1", "administrative_area_level_3", "sublocality"}

// NewGoogleProvider wraps an initialized Google Maps client.
func NewGoogleProvider(client GoogleAPIClient, language string, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, language: language, log: log}
}

// District geocodes address with the Google Maps Geocoding API and returns the
// long name of its district component.
func (gp *GoogleProvider) District(ctx context.Context, address string) (string, error) {
	gp.log.DebugContext(ctx, "Looking up district using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address, Language: gp.language}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return "", fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return "", ErrEmptyResponse
	}

	for _, kind := range googleDistrictTypes {
		for _, component := range geocodeResponse[0].AddressComponents {
			if slices.Contains(component.Types, kind) && component.LongName != "" {
				return component.LongName, nil
			}
		}
	}

	return "", ErrNoDistrict
}
