package geo

import (
	"math"
	"testing"

	"strollpath/internal/types"
)

func TestPolylineRoundTrip(t *testing.T) {
	path := []types.Coordinate{
		{Lat: 42.4005, Lng: -72.5023},
		{Lat: 42.4018, Lng: -72.5035},
		{Lat: 42.4031, Lng: -72.5019},
	}
	encoded := EncodePolyline(path)
	if encoded == "" {
		t.Fatal("expected non-empty polyline")
	}
	decoded, err := DecodePolyline(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(path) {
		t.Fatalf("got %d points, want %d", len(decoded), len(path))
	}
	for i := range path {
		if math.Abs(decoded[i].Lat-path[i].Lat) > 1e-5 || math.Abs(decoded[i].Lng-path[i].Lng) > 1e-5 {
			t.Errorf("point %d: got %v, want %v", i, decoded[i], path[i])
		}
	}
}

func TestPolylineEmpty(t *testing.T) {
	if EncodePolyline(nil) != "" {
		t.Error("expected empty encoding")
	}
	got, err := DecodePolyline("")
	if err != nil || got != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}
}
