package models

import "errors"

// Normalizer, cache and query errors.
var (
	ErrMissingSourceFile    = errors.New("source file not found")
	ErrDataIntegrity        = errors.New("data integrity error")
	ErrCacheArtifactMissing = errors.New("cache artifact not found, run the normalizer first")
	ErrInvalidRange         = errors.New("invalid year range")
	ErrUnknownCountry       = errors.New("unknown country")
	ErrUnknownIndicator     = errors.New("unknown indicator")
	ErrUnknownYear          = errors.New("unknown year")
	ErrEmptyPanel           = errors.New("panel has no year axis")
	ErrSeriesLength         = errors.New("series length does not match year axis")
)
