package geo

import (
	"fmt"

	"googlemaps.github.io/maps"

	"strollpath/internal/types"
)

// EncodePolyline renders a path in Google's encoded polyline format.
func EncodePolyline(path []types.Coordinate) string {
	if len(path) == 0 {
		return ""
	}
	latlngs := make([]maps.LatLng, len(path))
	for i, c := range path {
		latlngs[i] = maps.LatLng{Lat: c.Lat, Lng: c.Lng}
	}
	return maps.Encode(latlngs)
}

// DecodePolyline parses an encoded polyline back into coordinates.
// Precision is limited to five decimal places.
func DecodePolyline(encoded string) ([]types.Coordinate, error) {
	if encoded == "" {
		return nil, nil
	}
	latlngs, err := maps.DecodePolyline(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	out := make([]types.Coordinate, len(latlngs))
	for i, ll := range latlngs {
		out[i] = types.Coordinate{Lat: ll.Lat, Lng: ll.Lng}
	}
	return out, nil
}
