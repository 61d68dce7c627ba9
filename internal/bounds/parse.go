package bounds

import (
	"math"
	"strconv"
	"strings"
)

// RawBounds holds the four raw degree values of a chart bounds string,
// in the order they appear: minLon, minLat, maxLon, maxLat.
type RawBounds struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Parse parses a "minLon,minLat,maxLon,maxLat" bounds string.
//
// The string must contain exactly four comma-separated tokens, each a finite
// floating-point number. Anything else (wrong token count, non-numeric token,
// NaN, infinity, empty string) returns ok=false. Absent bounds are a normal
// outcome for charts without declared coverage, not an error.
func Parse(s string) (RawBounds, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return RawBounds{}, false
	}

	var vals [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return RawBounds{}, false
		}
		vals[i] = f
	}

	return RawBounds{
		MinLon: vals[0],
		MinLat: vals[1],
		MaxLon: vals[2],
		MaxLat: vals[3],
	}, true
}
