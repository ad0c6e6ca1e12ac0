// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

// Error categories. Handlers branch on these with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid request")
)

var (
	ErrMeetingNotFound  = fmt.Errorf("meeting %w", ErrNotFound)
	ErrEmptyDateOptions = fmt.Errorf("%w: at least one date option is required", ErrValidation)
	ErrInvalidOption    = fmt.Errorf("%w: date option does not belong to this meeting", ErrValidation)
	ErrInvalidPassword  = errors.New("invalid meeting password")
	ErrPasswordMismatch = errors.New("password does not match this nickname")
	ErrMeetingExpired   = errors.New("voting deadline has passed")
)
