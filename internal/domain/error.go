package domain

import "errors"

var (
	// Common domain errors
	ErrZoneNotFound   = errors.New("zone not found")
	ErrAuthentication = errors.New("authentication rejected")
	ErrEmptyResponse  = errors.New("assistant returned no text")
	ErrNotFound       = errors.New("entity not found")
)
