package entity

import "errors"

var (
	ErrMissingInput        = errors.New("Data not provided")
	ErrUnsupportedPipeline = errors.New("Unsupported pipeline type")
	ErrRouteNotFound       = errors.New("route not found")
)
