package bounds

// Case classifies the longitude ordering of a chart's raw bounds.
type Case int

const (
	// CaseNormal is a well-formed box with minLon <= maxLon.
	CaseNormal Case = iota

	// CaseInverted has minLon > maxLon with both edges on the same side of
	// the antimeridian; the edges were simply swapped at the source.
	CaseInverted

	// CaseAntimeridianEastToWest covers charts running eastward from a
	// positive longitude through ±180 to a negative longitude.
	CaseAntimeridianEastToWest

	// CaseAntimeridianWestToEast covers charts whose literal span exceeds
	// 180°, which is only geometrically sound if the coverage actually
	// wraps the other way around.
	CaseAntimeridianWestToEast
)

// String returns the case name.
func (c Case) String() string {
	switch c {
	case CaseNormal:
		return "normal"
	case CaseInverted:
		return "inverted"
	case CaseAntimeridianEastToWest:
		return "antimeridian-east-to-west"
	case CaseAntimeridianWestToEast:
		return "antimeridian-west-to-east"
	default:
		return "unknown"
	}
}

// CrossesAntimeridian reports whether the case describes coverage crossing
// the ±180° line.
func (c Case) CrossesAntimeridian() bool {
	return c == CaseAntimeridianEastToWest || c == CaseAntimeridianWestToEast
}

// Analysis is a canonical, case-tagged rectangle. For the two antimeridian
// cases West/East retain their original (crossing) values, since the crossing
// semantics depend on their literal sign pattern.
type Analysis struct {
	Case Case
	Rect Rect
}

// Analyze classifies raw bounds into exactly one of the four cases.
//
// Classification order matters: the east-to-west sign pattern is checked
// first, then the wide-span west-to-east heuristic, then the inverted
// (swapped edges) case. Everything else is normal.
func Analyze(raw RawBounds) Analysis {
	rect := Rect{
		West:  raw.MinLon,
		South: raw.MinLat,
		East:  raw.MaxLon,
		North: raw.MaxLat,
	}

	switch {
	case raw.MinLon > 0 && raw.MaxLon < 0:
		return Analysis{Case: CaseAntimeridianEastToWest, Rect: rect}

	case raw.MinLon < 0 && raw.MaxLon > 0 && raw.MaxLon-raw.MinLon > 180:
		return Analysis{Case: CaseAntimeridianWestToEast, Rect: rect}

	case raw.MinLon > raw.MaxLon:
		rect.West, rect.East = rect.East, rect.West
		return Analysis{Case: CaseInverted, Rect: rect}

	default:
		return Analysis{Case: CaseNormal, Rect: rect}
	}
}

// RenderBounds returns the rectangle that may be handed to the rendering
// layer as a hard constraint. The renderer's bounding-box primitive assumes
// west < east with no wraparound, so for either antimeridian case no
// constraint is returned at all; supplying a crossing box would throw or
// silently clamp.
func (a Analysis) RenderBounds() (Rect, bool) {
	if a.Case.CrossesAntimeridian() {
		return Rect{}, false
	}
	return a.Rect, true
}
