package services

import "errors"

var (
	// ErrFetchFailed wraps any failure to pull country data from the
	// external provider (transport error or non-success status).
	ErrFetchFailed = errors.New("country provider fetch failed")

	// ErrCacheNotReady means the country cache was never populated, so
	// there is no data to build questions from.
	ErrCacheNotReady = errors.New("country cache not ready")

	// ErrInsufficientPool means the eligible pool is too small to build a
	// multiple-choice question at all (no wrong answers available).
	ErrInsufficientPool = errors.New("not enough countries to build answer choices")
)
