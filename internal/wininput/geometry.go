package wininput

import "math"

// Rect is a display area in virtual-desktop pixels.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// UnionRect returns the bounding box of rects. ok is false when rects is
// empty or covers no area.
func UnionRect(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].X+rects[0].W, rects[0].Y+rects[0].H
	for _, r := range rects[1:] {
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.X+r.W)
		maxY = max(maxY, r.Y+r.H)
	}
	u := Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	return u, u.W > 0 && u.H > 0
}

// Denormalize maps an absolute point in [0, AbsoluteMax] onto pixels of r.
// 0 is the left or top edge and AbsoluteMax the right or bottom pixel.
// Out-of-range values are clamped.
func Denormalize(x, y int, r Rect) (int, int) {
	return r.X + toPixels(x, r.W), r.Y + toPixels(y, r.H)
}

// Normalize is the inverse of Denormalize for a pixel inside r.
func Normalize(px, py int, r Rect) (float64, float64) {
	return toNorm(px-r.X, r.W), toNorm(py-r.Y, r.H)
}

func toPixels(v, span int) int {
	if span <= 1 {
		return 0
	}
	v = min(max(v, 0), AbsoluteMax)
	return int(math.Round(float64(v) * float64(span-1) / AbsoluteMax))
}

func toNorm(offset, span int) float64 {
	if span <= 1 {
		return 0
	}
	v := float64(offset) * AbsoluteMax / float64(span-1)
	return math.Min(math.Max(v, 0), AbsoluteMax)
}
