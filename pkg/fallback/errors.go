package fallback

import "errors"

var (
	ErrInvalidConfig  = errors.New("fallback: invalid configuration")
	ErrUnknownBackend = errors.New("fallback: unknown journal backend")
	ErrStoreFailed    = errors.New("fallback: failed to store record")
	ErrReadFailed     = errors.New("fallback: failed to read journal")
	ErrExportFailed   = errors.New("fallback: export failed")
	ErrUnknownFormat  = errors.New("fallback: unknown export format")
)
