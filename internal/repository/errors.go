// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver-specific error strings themselves.
package repository

import "errors"

// ErrEmailExists is returned when inserting a user whose email address is
// already taken. The users.email UNIQUE index makes this check atomic: even
// if two signups race past the handler's pre-check, only one insert
// succeeds and the other receives this error.
var ErrEmailExists = errors.New("email already exists")
