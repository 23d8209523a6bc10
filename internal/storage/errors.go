// ABOUTME: Common storage errors
// ABOUTME: Enables consistent error handling across blob store implementations

package storage

import "errors"

// ErrNotFound is returned when a requested key does not exist.
var ErrNotFound = errors.New("not found")

// ErrClosed is returned when a store is used after Close.
var ErrClosed = errors.New("storage is closed")
