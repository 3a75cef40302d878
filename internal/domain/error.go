package domain

import "errors"

var (
	// Common domain errors
	ErrUnavailable     = errors.New("database unavailable")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownFeature  = errors.New("unknown feature tag")
	ErrInvalidRange    = errors.New("start date is after end date")
)
