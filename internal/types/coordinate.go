// README: Common coordinate value object shared by the recorder, routes and stores.
package types

// Coordinate is one immutable latitude/longitude sample in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" firestore:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" firestore:"lng" validate:"gte=-180,lte=180"`
}
