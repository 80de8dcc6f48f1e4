package domain

import "errors"

// ErrDuplicateReference is returned by repositories when a generated unique
// reference collides with an existing row. Callers regenerate and retry.
var ErrDuplicateReference = errors.New("duplicate reference")

// ErrDuplicateIdempotencyKey is returned when an idempotency key was already
// claimed by a committed transaction.
var ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
