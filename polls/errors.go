// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "errors"

// ErrAuthRequired is returned before any mutation when the coordinator has
// no signed-in user.
var ErrAuthRequired = errors.New("sign-in required")

// FetchError wraps a failed projection refresh. The previous snapshot stays
// in place when one occurs.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "failed to load polls: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// CreationError wraps a failed poll creation. Rows inserted before the
// failure are not rolled back.
type CreationError struct {
	Title string
	Err   error
}

func (e *CreationError) Error() string {
	return "failed to create poll " + e.Title + ": " + e.Err.Error()
}

func (e *CreationError) Unwrap() error { return e.Err }

// WriteError wraps a failed remote update or delete.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error { return e.Err }
