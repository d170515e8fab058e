/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package timetrace

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is matched by every *ArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a precondition violation on a named parameter.
type ArgumentError struct {
	// Param is the name of the offending parameter.
	Param string
	// Reason describes what was wrong with it.
	Reason string
}

// Error returns the error message
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Param, e.Reason)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func validateName(param, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ArgumentError{Param: param, Reason: "cannot be empty or whitespace"}
	}
	return nil
}
