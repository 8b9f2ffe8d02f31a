package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Placed is an annotation already resolved to its final on-screen position.
// ZOrder breaks ties when hit discs overlap; higher wins.
type Placed struct {
	ID     string
	Pixel  Point
	Radius float64
	ZOrder int
}

// HitTest returns the id of the topmost placed annotation whose hit disc
// contains the click, or "" when the click lands on none. Among overlapping
// discs the higher z-order wins, then the smaller distance.
func HitTest(click Point, placed []Placed) string {
	c := orb.Point{click.X, click.Y}
	bestID := ""
	bestZ := 0
	bestDist := 0.0
	for _, p := range placed {
		if p.Radius <= 0 {
			continue
		}
		d := planar.Distance(c, orb.Point{p.Pixel.X, p.Pixel.Y})
		if d > p.Radius {
			continue
		}
		if bestID == "" || p.ZOrder > bestZ || (p.ZOrder == bestZ && d < bestDist) {
			bestID = p.ID
			bestZ = p.ZOrder
			bestDist = d
		}
	}
	return bestID
}
