package bounds

import "math"

// maxZoomHalfSpan caps the half-span of a derived zoom-to box. Very wide
// antimeridian charts would otherwise produce a degenerate whole-world box.
const maxZoomHalfSpan = 90

// ZoomBounds returns a box suitable for "fly/zoom to this chart" navigation.
//
// For normal and inverted cases this is just the canonical rectangle. For the
// two antimeridian cases the true angular center and span of the coverage are
// computed from the two sides of the ±180° line, and a symmetric box is
// derived around the center. The result frames the coverage well enough to
// navigate to it; for very wide spans the approximation is coarse. It is
// never used as a hard rendering constraint.
func (a Analysis) ZoomBounds() Rect {
	if !a.Case.CrossesAntimeridian() {
		return a.Rect
	}

	var center, totalSpan float64
	switch a.Case {
	case CaseAntimeridianEastToWest:
		// West is positive, east is negative.
		eastSideSpan := 180 - a.Rect.West
		westSideSpan := 180 + a.Rect.East
		totalSpan = eastSideSpan + westSideSpan
		center = 180 - westSideSpan/2 + eastSideSpan/2
		if center > 180 {
			center -= 360
		}

	case CaseAntimeridianWestToEast:
		// West is negative, east is positive, literal span > 180.
		westSideSpan := 180 + a.Rect.West
		eastSideSpan := 180 - a.Rect.East
		totalSpan = westSideSpan + eastSideSpan
		center = -180 + westSideSpan/2 - eastSideSpan/2
		if center < -180 {
			center += 360
		}
	}

	halfSpan := math.Min(totalSpan/2, maxZoomHalfSpan)

	zoomWest := center - halfSpan
	if zoomWest < -180 {
		zoomWest += 360
	}
	zoomEast := center + halfSpan
	if zoomEast > 180 {
		zoomEast -= 360
	}

	return Rect{
		West:  math.Min(zoomWest, zoomEast),
		South: a.Rect.South,
		East:  math.Max(zoomWest, zoomEast),
		North: a.Rect.North,
	}
}
