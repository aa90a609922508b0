package repository

import "errors"

var (
	ErrInvalidEventData  = errors.New("invalid event data")
	ErrInvalidPolicyData = errors.New("invalid policy data")
)
