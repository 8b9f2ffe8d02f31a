// Package geometry holds the pure positioning math shared by every rendering
// surface: contain-fit content rectangle resolution and percent-space to
// pixel-space mapping. All functions are stateless and safe for concurrent
// callers.
package geometry

import (
	"math"
)

// Point is a position in container-relative pixels, or a percent pair when
// used as mapper input.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle in container-relative pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// ClampPercent clamps a percent coordinate into [0, 100].
func ClampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// ClampPoint clamps both components of a percent point into [0, 100].
func ClampPoint(p Point) Point {
	return Point{X: ClampPercent(p.X), Y: ClampPercent(p.Y)}
}

// ResolveContentRect computes the visible content rectangle inside a container
// under "contain" fitting: the content is scaled by the smaller axis ratio and
// centered. Returns nil when either size is unknown or degenerate; callers
// must treat nil as "cannot position yet", never as the origin.
func ResolveContentRect(natural, container Size) *Rect {
	if natural.W <= 0 || natural.H <= 0 || container.W <= 0 || container.H <= 0 {
		return nil
	}
	scale := math.Min(container.W/natural.W, container.H/natural.H)
	w := natural.W * scale
	h := natural.H * scale
	return &Rect{
		X: (container.W - w) / 2,
		Y: (container.H - h) / 2,
		W: w,
		H: h,
	}
}

// ToPixel maps a percent-space point onto a content rectangle. Inputs are
// clamped to [0, 100] first. Pure and total given a non-nil rect; this single
// formula places hotspots, spotlight centers and pan-zoom targets so the
// surfaces agree by construction.
func ToPixel(percent Point, rect Rect) Point {
	p := ClampPoint(percent)
	return Point{
		X: rect.X + (p.X/100)*rect.W,
		Y: rect.Y + (p.Y/100)*rect.H,
	}
}
