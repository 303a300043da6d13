package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/nandanugg/geotoll/module/core/domain"
)

func pt(lon, lat float64) domain.Coordinate {
	return domain.Coordinate{Lon: lon, Lat: lat}
}

var unitSquare = []domain.Coordinate{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}

// L-shaped, non-convex: the notch around (2, 2) is outside.
var lShape = []domain.Coordinate{pt(0, 0), pt(4, 0), pt(4, 1), pt(1, 1), pt(1, 4), pt(0, 4)}

func TestPointInPolygon(t *testing.T) {
	tests := []struct {
		name string
		p    domain.Coordinate
		ring []domain.Coordinate
		want bool
	}{
		{"square center", pt(0.5, 0.5), unitSquare, true},
		{"square far east", pt(2, 0.5), unitSquare, false},
		{"square far west", pt(-1, 0.5), unitSquare, false},
		{"square above", pt(0.5, 2), unitSquare, false},
		{"L lower arm", pt(3, 0.5), lShape, true},
		{"L upper arm", pt(0.5, 3), lShape, true},
		{"L corner", pt(0.5, 0.5), lShape, true},
		{"L notch", pt(2, 2), lShape, false},
		{"L notch far", pt(3.5, 3.5), lShape, false},
		{"empty ring", pt(0, 0), nil, false},
		{
			"toll plaza",
			pt(76.2673, 9.9312),
			[]domain.Coordinate{pt(76.2668, 9.9307), pt(76.2678, 9.9307), pt(76.2678, 9.9317), pt(76.2668, 9.9317)},
			true,
		},
		{
			"explicitly closed ring",
			pt(0.5, 0.5),
			[]domain.Coordinate{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1), pt(0, 0)},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, tt.ring); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

// Edge convention: west and south edges are inside, east and north are
// outside, and only the south-west corner is inside.
func TestPointInPolygon_BoundaryConvention(t *testing.T) {
	tests := []struct {
		name string
		p    domain.Coordinate
		want bool
	}{
		{"west edge", pt(0, 0.5), true},
		{"south edge", pt(0.5, 0), true},
		{"east edge", pt(1, 0.5), false},
		{"north edge", pt(0.5, 1), false},
		{"south-west corner", pt(0, 0), true},
		{"south-east corner", pt(1, 0), false},
		{"north-east corner", pt(1, 1), false},
		{"north-west corner", pt(0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, unitSquare); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointInPolygon_WindingIndependent(t *testing.T) {
	reversed := make([]domain.Coordinate, len(lShape))
	for i, p := range lShape {
		reversed[len(lShape)-1-i] = p
	}
	for _, p := range []domain.Coordinate{pt(3, 0.5), pt(0.5, 3), pt(2, 2), pt(5, 5)} {
		if PointInPolygon(p, lShape) != PointInPolygon(p, reversed) {
			t.Errorf("winding changed result for %v", p)
		}
	}
}

func transform(p domain.Coordinate, theta, tx, ty float64) domain.Coordinate {
	sin, cos := math.Sincos(theta)
	return pt(p.Lon*cos-p.Lat*sin+tx, p.Lon*sin+p.Lat*cos+ty)
}

func TestPointInPolygon_RotationTranslationInvariant(t *testing.T) {
	inside := []domain.Coordinate{pt(0.5, 0.5), pt(3, 0.5), pt(0.5, 3), pt(3.9, 0.1)}
	outside := []domain.Coordinate{pt(2, 2), pt(3, 3), pt(-1, 0.5), pt(5, 0.5), pt(0.5, 5), pt(1.5, 1.5)}

	angles := []float64{0, math.Pi / 7, math.Pi / 4, math.Pi / 2, 2, math.Pi, 4.5}
	shifts := [][2]float64{{0, 0}, {76.2673, 9.9312}, {-120.5, -33.2}, {0.001, -0.002}}

	for _, theta := range angles {
		for _, s := range shifts {
			ring := make([]domain.Coordinate, len(lShape))
			for i, v := range lShape {
				ring[i] = transform(v, theta, s[0], s[1])
			}
			for _, p := range inside {
				if !PointInPolygon(transform(p, theta, s[0], s[1]), ring) {
					t.Errorf("theta=%v shift=%v: %v expected inside", theta, s, p)
				}
			}
			for _, p := range outside {
				if PointInPolygon(transform(p, theta, s[0], s[1]), ring) {
					t.Errorf("theta=%v shift=%v: %v expected outside", theta, s, p)
				}
			}
		}
	}
}

func TestDistanceMeters(t *testing.T) {
	// same point should be 0
	if d := DistanceMeters(pt(106.8456, -6.2088), pt(106.8456, -6.2088)); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}

	// 0.0012 degrees of latitude is roughly 133m
	d := DistanceMeters(pt(106.8456, -6.2088), pt(106.8456, -6.2100))
	if d < 130 || d > 137 {
		t.Errorf("expected ~133m, got %f", d)
	}

	// one degree of longitude on the equator
	d = DistanceMeters(pt(0, 0), pt(1, 0))
	if math.Abs(d-111195) > 5 {
		t.Errorf("expected ~111195m, got %f", d)
	}

	if DistanceMeters(pt(1, 2), pt(3, 4)) != DistanceMeters(pt(3, 4), pt(1, 2)) {
		t.Error("distance should be symmetric")
	}
}

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		want     bool
	}{
		{"origin", 0, 0, true},
		{"kochi", 76.2673, 9.9312, true},
		{"bounds", 180, -90, true},
		{"lon too high", 200, 9.93, false},
		{"lon too low", -180.0001, 0, false},
		{"lat too high", 0, 90.5, false},
		{"lat too low", 0, -91, false},
		{"nan", math.NaN(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidCoordinate(tt.lon, tt.lat); got != tt.want {
				t.Errorf("IsValidCoordinate(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

func TestValidateRing(t *testing.T) {
	if err := ValidateRing(unitSquare); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateRing(unitSquare[:2]); !errors.Is(err, ErrTooFewVertices) {
		t.Errorf("expected ErrTooFewVertices, got %v", err)
	}
	if err := ValidateRing([]domain.Coordinate{pt(0, 0), pt(1, 1), pt(2, 2)}); !errors.Is(err, ErrZeroArea) {
		t.Errorf("expected ErrZeroArea for collinear ring, got %v", err)
	}
	if err := ValidateRing([]domain.Coordinate{pt(0, 0), pt(190, 0), pt(0, 1)}); err == nil {
		t.Error("expected error for out of range vertex")
	}
}

func TestCentroid(t *testing.T) {
	c := Centroid(unitSquare)
	if c.Lon != 0.5 || c.Lat != 0.5 {
		t.Errorf("expected (0.5, 0.5), got %v", c)
	}
	if c := Centroid(nil); c != (domain.Coordinate{}) {
		t.Errorf("expected zero value, got %v", c)
	}
}
