// Package geo contains pure geographic computation helpers for walking routes.
package geo

import (
	"math"

	"strollpath/internal/types"
)

const (
	earthRadiusKm = 6371.0
	milesPerKm    = 0.621371

	// StepsPerMile converts walked miles into steps, both live and at activity credit.
	StepsPerMile = 2200
	// MilesToFeet is used for display only.
	MilesToFeet = 5280
)

// HaversineMiles returns the great-circle distance in miles between two points.
func HaversineMiles(a, b types.Coordinate) float64 {
	return haversineKm(a.Lat, a.Lng, b.Lat, b.Lng) * milesPerKm
}

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(rLat1)*math.Cos(rLat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// PathDistanceMiles sums the distance between consecutive points of a path.
func PathDistanceMiles(path []types.Coordinate) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += HaversineMiles(path[i-1], path[i])
	}
	return total
}

// StepsForMiles converts a distance into a fractional step count.
func StepsForMiles(miles float64) float64 {
	return miles * StepsPerMile
}

// CreditedSteps is the whole number of steps credited to a day's activity for a walk.
func CreditedSteps(miles float64) int {
	return int(math.Round(miles * StepsPerMile))
}
