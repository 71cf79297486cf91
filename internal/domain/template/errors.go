package template

import "errors"

// Sentinel errors for template handling.
var (
	ErrUnknownRole    = errors.New("unknown role")
	ErrWeightSum      = errors.New("category weights must total 100")
	ErrInvalidCatalog = errors.New("invalid template catalog")
)
