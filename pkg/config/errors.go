package config

import "errors"

var (
	ErrParsingConfig  = errors.New("config: cannot parse environment")
	ErrLoadingEnvFile = errors.New("config: cannot read env file")
	ErrNilPointer     = errors.New("config: nil target")
)
