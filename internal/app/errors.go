package service

import "errors"

// Sentinel kinds for scoreboard errors.
var (
	ErrInvalidCapacity = errors.New("invalid scoreboard capacity")
	ErrClosed          = errors.New("scoreboard closed")
)
