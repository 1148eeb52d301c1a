package gate

import "errors"

// Sentinel errors returned by Gate.Authorize.
var (
	ErrUnauthorized    = errors.New("gate: unauthorized")
	ErrNoPolicyDefined = errors.New("gate: no policy defined for resource")
)
