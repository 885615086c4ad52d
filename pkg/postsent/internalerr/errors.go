// Package internalerr holds the sentinel errors shared by the sentiment core
// and the collection layer. Callers wrap them with fmt.Errorf and %w.
package internalerr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited means the remote API refused the request until its
	// rate window resets.
	ErrRateLimited      = errors.New("rate limited")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
