package geo

import (
	"math"
	"testing"

	"strollpath/internal/types"
)

// northOf returns the point miles due north of c (distance along a meridian).
func northOf(c types.Coordinate, miles float64) types.Coordinate {
	rad := miles / milesPerKm / earthRadiusKm
	return types.Coordinate{Lat: c.Lat + rad*180/math.Pi, Lng: c.Lng}
}

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 42.3732, lng1: -72.5199,
			lat2: 42.3732, lng2: -72.5199,
			wantKm:    0,
			tolerance: 0.000001,
		},
		{
			name: "Amherst to Northampton (~11km)",
			lat1: 42.3732, lng1: -72.5199,
			lat2: 42.3251, lng2: -72.6412,
			wantKm:    11.2,
			tolerance: 1.0,
		},
		{
			name: "New York to Los Angeles (~3944km)",
			lat1: 40.7128, lng1: -74.0060,
			lat2: 34.0522, lng2: -118.2437,
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("haversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineMiles_Symmetry(t *testing.T) {
	a := types.Coordinate{Lat: 42.40, Lng: -72.50}
	b := types.Coordinate{Lat: 42.37, Lng: -72.52}
	if d1, d2 := HaversineMiles(a, b), HaversineMiles(b, a); math.Abs(d1-d2) > 1e-12 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestHaversineMiles_HalfMileByConstruction(t *testing.T) {
	start := types.Coordinate{Lat: 42.3732, Lng: -72.5199}
	end := northOf(start, 0.5)
	if got := HaversineMiles(start, end); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("HaversineMiles() = %.12f, want 0.5", got)
	}
}

func TestPathDistanceMiles(t *testing.T) {
	p0 := types.Coordinate{Lat: 42.0, Lng: -72.0}
	p1 := northOf(p0, 0.25)
	p2 := northOf(p1, 0.75)

	got := PathDistanceMiles([]types.Coordinate{p0, p1, p1, p2})
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("PathDistanceMiles() = %f, want 1.0", got)
	}
	if PathDistanceMiles(nil) != 0 || PathDistanceMiles([]types.Coordinate{p0}) != 0 {
		t.Error("expected zero distance for paths shorter than two points")
	}
}

func TestCreditedSteps(t *testing.T) {
	tests := []struct {
		miles float64
		want  int
	}{
		{0, 0},
		{0.5, 1100},
		{1.6, 3520},
		{0.00025, 1}, // 0.55 steps rounds up
		{0.0002, 0},  // 0.44 steps rounds down
	}
	for _, tt := range tests {
		if got := CreditedSteps(tt.miles); got != tt.want {
			t.Errorf("CreditedSteps(%v) = %d, want %d", tt.miles, got, tt.want)
		}
	}
	if StepsForMiles(0.5) != 1100 {
		t.Errorf("StepsForMiles(0.5) = %f", StepsForMiles(0.5))
	}
}
