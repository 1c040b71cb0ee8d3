package tracker

import "errors"

var (
	ErrInvalidStatus = errors.New("invalid duty status")
	ErrSameStatus    = errors.New("status already active")
	ErrNoOpenStatus  = errors.New("no open status")
	ErrBackdated     = errors.New("time is before the last recorded change")
	ErrEventIndex    = errors.New("no event at that position")
)
