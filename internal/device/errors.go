// Package device holds the error type shared by the hardware-facing
// collaborators (geolocation, audio capture).
package device

import (
	"errors"
	"fmt"
)

// Error indicates a device operation failed: permission denied, the API is
// unsupported, or the provider did not answer. It is recoverable; callers
// surface the message and reset the owning control.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IsError reports whether err (or any error in its chain) is a device Error.
func IsError(err error) bool {
	var de *Error
	return errors.As(err, &de)
}
