// Package bounds classifies chart bounding boxes and derives the rectangles
// the rest of the system works with: a renderer-safe box (absent for charts
// crossing the antimeridian, since the rendering surface cannot express a
// crossing constraint) and a navigable zoom-to box that is always derivable.
//
// Classification relies on the literal sign pattern of the raw west/east
// longitudes. A chart that legitimately spans more than 180° of longitude
// without crossing the antimeridian is indistinguishable from a narrow
// crossing chart under this heuristic and will be misclassified. This is a
// known limitation of the source metadata format, kept intentionally.
package bounds

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Rect is an axis-aligned geographic rectangle in WGS84 degrees.
type Rect struct {
	West  float64 // Western edge (degrees)
	South float64 // Southern edge (degrees)
	East  float64 // Eastern edge (degrees)
	North float64 // Northern edge (degrees)
}

// IsFinite reports whether all four edges are finite numbers.
func (r Rect) IsFinite() bool {
	for _, v := range []float64{r.West, r.South, r.East, r.North} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Bound converts the rectangle to an orb.Bound.
func (r Rect) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.West, r.South},
		Max: orb.Point{r.East, r.North},
	}
}

// String returns a human-readable representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("rect(%.6f,%.6f,%.6f,%.6f)", r.West, r.South, r.East, r.North)
}
