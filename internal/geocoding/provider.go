package geocoding

import (
	"context"
	"errors"
)

// Provider is an interface that defines a method for finding the district an
// address lies in. The District method takes a context and a free-text
// address and returns the district name as the provider spells it.
type Provider interface {
	District(ctx context.Context, address string) (string, error)
}

// ErrNoDistrict is returned when the provider located the address but its
// answer carries no district-level component.
var ErrNoDistrict = errors.New("geocoding result has no district component")
