// README: Track recorder state, location source contract and recorder errors.
package track

import (
	"context"
	"errors"
	"time"

	"strollpath/internal/types"
)

var (
	ErrUnsupported = errors.New("geolocation is not supported")
	ErrNotWatching = errors.New("no active location watch")
)

// UnsupportedMessage is surfaced to the user when no location capability exists.
const UnsupportedMessage = "Geolocation is not supported by your device."

// Fix is one reported device location sample.
type Fix struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

func (f Fix) Coordinate() types.Coordinate {
	return types.Coordinate{Lat: f.Lat, Lng: f.Lng}
}

// WatchOptions mirrors the knobs of a platform location watch.
type WatchOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// DefaultWatchOptions asks for high-accuracy, uncached fixes with a bounded wait.
var DefaultWatchOptions = WatchOptions{
	HighAccuracy: true,
	Timeout:      10 * time.Second,
	MaximumAge:   0,
}

// Watch is an active subscription to location fixes. Fixes are delivered in order.
type Watch interface {
	Fixes() <-chan Fix
	Errors() <-chan error
	Cancel()
}

// LocationSource is the device location capability.
type LocationSource interface {
	Watch(ctx context.Context, opts WatchOptions) (Watch, error)
}

// Track is a point-in-time copy of a recording session.
type Track struct {
	Path           []types.Coordinate `json:"path"`
	DistanceMiles  float64            `json:"distanceMiles"`
	ElapsedSeconds int                `json:"elapsedSeconds"`
	Steps          float64            `json:"steps"`
	Recording      bool               `json:"isRecording"`
	Error          string             `json:"error,omitempty"`
}

// Usable reports whether the track has enough points to be saved as a route.
func (t Track) Usable() bool {
	return len(t.Path) >= 2
}

// EstimatedMinutes rounds the elapsed time to whole minutes.
func (t Track) EstimatedMinutes() int {
	return (t.ElapsedSeconds + 30) / 60
}
