package config

import "errors"

var (
	// ErrMissingNodeURL indicates node.url is empty.
	ErrMissingNodeURL = errors.New("config: node url is required")

	// ErrInvalidCapacity indicates cache.capacity is not positive.
	ErrInvalidCapacity = errors.New("config: cache capacity must be positive")

	// ErrInvalidDispatch indicates a negative dispatch limit.
	ErrInvalidDispatch = errors.New("config: invalid dispatch settings")

	// ErrInvalidHealth indicates a negative health threshold.
	ErrInvalidHealth = errors.New("config: invalid health settings")
)
