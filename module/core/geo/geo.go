// Package geo holds the pure geometry used for zone membership.
//
// Coordinates are treated as planar (longitude as x, latitude as y) for the
// membership test. Zones are small enough that projection error is irrelevant,
// but rings crossing the antimeridian are not supported.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/nandanugg/geotoll/module/core/domain"
)

const earthRadiusMeters = 6371000

// MinRingVertices is the smallest vertex count that can enclose an area.
const MinRingVertices = 3

// PointInPolygon reports whether p lies inside ring using ray casting.
//
// The ring is implicitly closed. Each edge is half-open in y, so a point on a
// shared vertex is counted once. For an axis-aligned rectangle this puts the
// west and south edges inside and the east and north edges outside; of the four
// corners only the south-west one is inside.
// Results for self-intersecting or zero-area rings are undefined;
// such rings are rejected by ValidateRing when a zone is created.
func PointInPolygon(p domain.Coordinate, ring []domain.Coordinate) bool {
	x, y := p.Lon, p.Lat
	inside := false

	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// DistanceMeters is the haversine great-circle distance between a and b.
func DistanceMeters(a, b domain.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// IsValidCoordinate is a range check only.
func IsValidCoordinate(lon, lat float64) bool {
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}

// Centroid returns the vertex average of ring.
func Centroid(ring []domain.Coordinate) domain.Coordinate {
	var c domain.Coordinate
	if len(ring) == 0 {
		return c
	}
	for _, p := range ring {
		c.Lon += p.Lon
		c.Lat += p.Lat
	}
	n := float64(len(ring))
	return domain.Coordinate{Lon: c.Lon / n, Lat: c.Lat / n}
}

var (
	ErrTooFewVertices = errors.New("a zone boundary needs at least 3 coordinate points")
	ErrZeroArea       = errors.New("zone boundary encloses no area")
)

// ValidateRing rejects rings PointInPolygon cannot evaluate meaningfully.
// Self-intersection is not detected.
func ValidateRing(ring []domain.Coordinate) error {
	if len(ring) < MinRingVertices {
		return ErrTooFewVertices
	}
	for i, p := range ring {
		if !IsValidCoordinate(p.Lon, p.Lat) {
			return fmt.Errorf("vertex %d (%v, %v) is out of range", i, p.Lon, p.Lat)
		}
	}
	if signedArea(ring) == 0 {
		return ErrZeroArea
	}
	return nil
}

// signedArea is the shoelace sum; its sign gives the winding order.
func signedArea(ring []domain.Coordinate) float64 {
	var sum float64
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		sum += ring[j].Lon*ring[i].Lat - ring[i].Lon*ring[j].Lat
	}
	return sum / 2
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
