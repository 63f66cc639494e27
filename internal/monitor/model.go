// Package monitor describes display geometry and the normalized
// coordinate mapping used for absolute cursor moves.
package monitor

import (
	"errors"

	"github.com/frudas24/inputsim/internal/wininput"
)

// ErrNoMonitors is returned when the display list is empty.
var ErrNoMonitors = errors.New("no monitors")

// Monitor describes a display and its bounds in virtual-desktop pixels.
type Monitor struct {
	Index   int  `json:"index"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	W       int  `json:"w"`
	H       int  `json:"h"`
	Primary bool `json:"primary"`
}

// Rect returns the monitor bounds.
func (m Monitor) Rect() wininput.Rect {
	return wininput.Rect{X: m.X, Y: m.Y, W: m.W, H: m.H}
}

// PrimaryMonitor returns the primary display, falling back to the first one.
func PrimaryMonitor(list []Monitor) (Monitor, error) {
	if len(list) == 0 {
		return Monitor{}, ErrNoMonitors
	}
	for _, m := range list {
		if m.Primary {
			return m, nil
		}
	}
	return list[0], nil
}

// VirtualBounds returns the bounding box of every display.
func VirtualBounds(list []Monitor) (wininput.Rect, error) {
	rects := make([]wininput.Rect, 0, len(list))
	for _, m := range list {
		rects = append(rects, m.Rect())
	}
	bounds, ok := wininput.UnionRect(rects)
	if !ok {
		return wininput.Rect{}, ErrNoMonitors
	}
	return bounds, nil
}

// Normalize returns the [0, 65535] coordinates of a pixel inside bounds,
// the inverse of the mapping absolute moves use.
func Normalize(px, py int, bounds wininput.Rect) (float64, float64) {
	return wininput.Normalize(px, py, bounds)
}
