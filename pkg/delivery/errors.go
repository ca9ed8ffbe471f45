package delivery

import "errors"

var ErrInvalidConfig = errors.New("delivery: invalid configuration")
