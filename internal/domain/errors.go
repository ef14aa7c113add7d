package domain

import "errors"

var (
	// ErrResponseParse is returned when the model response contains no
	// recoverable structured data.
	ErrResponseParse = errors.New("no structured data found in model response")

	// ErrInvalidPrice is returned for a single unparseable or non-positive
	// price; the offer carrying it is discarded, never surfaced.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrNoOffersFound is returned when no raw offer survives validation.
	ErrNoOffersFound = errors.New("no valid offers found")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrGenerativeAPIFailure is returned when the generative API call fails.
	ErrGenerativeAPIFailure = errors.New("generative API request failed")

	// ErrFavoritesUnavailable is returned when the favorites store cannot be
	// written.
	ErrFavoritesUnavailable = errors.New("favorites store unavailable")
)
