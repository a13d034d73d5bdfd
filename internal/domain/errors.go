package domain

import "errors"

var (
	// ErrEmptyTarget is returned when the input contains no host at all
	ErrEmptyTarget = errors.New("empty target")
	// ErrInvalidTarget is returned when the input cannot be parsed into a registrable domain
	ErrInvalidTarget = errors.New("invalid target")
)
