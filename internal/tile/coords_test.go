package tile

import (
	"math"
	"testing"

	"github.com/paulmach/orb/maptile"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestBound_ConsistentWithMaptile(t *testing.T) {
	tests := []Coords{
		{Z: 0, X: 0, Y: 0},
		{Z: 13, X: 4317, Y: 2692},
		{Z: 8, X: 134, Y: 84},
	}

	const eps = 1e-6

	for _, tc := range tests {
		t.Run(tc.String(), func(t *testing.T) {
			got := tc.Bound()

			mt := maptile.New(tc.X, tc.Y, maptile.Zoom(tc.Z))
			b := mt.Bound()

			if !almostEqual(got.West, b.Min.Lon(), eps) ||
				!almostEqual(got.South, b.Min.Lat(), eps) ||
				!almostEqual(got.East, b.Max.Lon(), eps) ||
				!almostEqual(got.North, b.Max.Lat(), eps) {
				t.Fatalf("Bound mismatch: got %+v, want [%v,%v,%v,%v]",
					got, b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat())
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		coords Coords
		want   bool
	}{
		{Coords{Z: 0, X: 0, Y: 0}, true},
		{Coords{Z: 0, X: 1, Y: 0}, false},
		{Coords{Z: 3, X: 7, Y: 7}, true},
		{Coords{Z: 3, X: 8, Y: 7}, false},
	}

	for _, tc := range tests {
		if got := tc.coords.Valid(); got != tc.want {
			t.Errorf("Valid(%s) = %v, want %v", tc.coords, got, tc.want)
		}
	}
}

func TestParseCoords(t *testing.T) {
	c, err := ParseCoords("z13_x4317_y2692")
	if err != nil {
		t.Fatalf("ParseCoords failed: %v", err)
	}
	if c != (Coords{Z: 13, X: 4317, Y: 2692}) {
		t.Errorf("ParseCoords = %+v", c)
	}

	if _, err := ParseCoords("13/4317/2692"); err == nil {
		t.Error("Expected error for malformed coordinate string")
	}
}
