package domain

import "errors"

var (
	// ErrLocationNotFound: geocoding produced no match. The one hard upstream
	// failure; surfaced to the caller as a 404.
	ErrLocationNotFound = errors.New("location not found")

	// ErrGeneration: the reasoning model was unreachable or its output could
	// not be parsed even after markup stripping.
	ErrGeneration = errors.New("itinerary generation failed")

	// ErrItineraryNotFound: no persisted itinerary with the requested id.
	ErrItineraryNotFound = errors.New("itinerary not found")
)
