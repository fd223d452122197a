package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrSchema           = errors.New("store schema failed")
	ErrQuery            = errors.New("store query failed")
	ErrCorruptRecord    = errors.New("corrupt store record")
	ErrWrite            = errors.New("store write failed")
	ErrInvalidLimit     = errors.New("invalid limit")
)
