package config

import "errors"

var (
	// ErrLoadConfig wraps file, env and decode failures in Load.
	ErrLoadConfig = errors.New("config: load failed")
	// ErrInvalidConfig is returned by Validate.
	ErrInvalidConfig = errors.New("config: invalid")
)
