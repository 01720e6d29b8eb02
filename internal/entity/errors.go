package entity

import "errors"

// Domain-specific sentinel errors for the scheduling core.
var (
	ErrEmptyCatalog       = errors.New("no providers or facilities remain after filtering")
	ErrMissingTravelTable = errors.New("travel-time matrix is missing or empty")
	ErrUnknownProvider    = errors.New("unknown provider id")
	ErrUnknownFacility    = errors.New("unknown facility id")
	ErrNotAssigned        = errors.New("provider is not assigned to facility")
	ErrNonHorizonDate     = errors.New("date does not fall on a horizon weekday")
	ErrMalformedDate      = errors.New("malformed date")
)
