package router

import "errors"

var (
	// ErrInvalidSignature is returned when an action's signature does
	// not verify against the current key and nonce
	ErrInvalidSignature = errors.New("invalid action signature")

	// ErrEscaped is returned for any authorized action once the escape
	// hatch has been invoked
	ErrEscaped = errors.New("escape hatch invoked")

	// ErrNotEscaped is returned for a sweep before the escape hatch has
	// been invoked
	ErrNotEscaped = errors.New("escape hatch not invoked")

	// ErrInvalidEscapeTarget is returned for a null escape target
	ErrInvalidEscapeTarget = errors.New("invalid escape target")

	// ErrReentrantCall is returned when batch execution is entered
	// while a batch is already executing
	ErrReentrantCall = errors.New("reentrant batch execution")

	// ErrAmountMismatch is returned when a native in-instruction's
	// declared amount differs from the attached value
	ErrAmountMismatch = errors.New("amount does not match attached value")

	// ErrTokenPull is returned when pulling an in-instruction's token
	// amount from the caller fails
	ErrTokenPull = errors.New("token pull failed")

	// ErrEscapeFailed is returned when the sweep transfer itself fails
	ErrEscapeFailed = errors.New("escape transfer failed")
)
