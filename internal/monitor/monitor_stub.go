//go:build !windows

// Package monitor describes display geometry and the normalized
// coordinate mapping used for absolute cursor moves.
package monitor

import (
	"fmt"

	"github.com/frudas24/inputsim/internal/wininput"
)

// ListMonitors returns an error on non-Windows platforms.
func ListMonitors() ([]Monitor, error) {
	return nil, fmt.Errorf("list monitors: %w", wininput.ErrUnsupported)
}
