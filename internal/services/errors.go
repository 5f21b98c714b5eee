package services

import "errors"

// Sentinel errors returned by the stats service. The transport layer maps
// them to problem responses.
var (
	// ErrInvalidDateRange means the filter's from date is after its to date.
	ErrInvalidDateRange = errors.New("date_from must not be after date_to")

	// ErrUnknownFile means a requested file name is not in the data directory.
	ErrUnknownFile = errors.New("requested file is not available")

	// ErrNoFiles means the data directory holds no loadable files.
	ErrNoFiles = errors.New("no data files available")
)
