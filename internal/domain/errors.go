package domain

import "errors"

var (
	// ErrNotConnected is returned by a Snapshotter before the upstream page
	// has been loaded, or after it has gone away.
	ErrNotConnected = errors.New("rendering surface not connected")

	// ErrMarketNotFound is returned when a clock lookup matches no market.
	ErrMarketNotFound = errors.New("market not found")
)
