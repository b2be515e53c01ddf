package marine

import "errors"

var (
	// ErrUpstreamFetch is returned when a remote feed is unreachable or answers with a non-success status.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrMalformedFeed is returned when a feed body has no parseable header and data rows.
	ErrMalformedFeed = errors.New("malformed feed")

	ErrInvalidLimit   = errors.New("limit must be a positive integer")
	ErrInvalidStation = errors.New("station id is required")
	ErrInvalidSpot    = errors.New("spot has no id or station")
	ErrSpotNotFound   = errors.New("spot not found")
)
