package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strollpath/internal/geo"
	"strollpath/internal/modules/route"
)

type recordingBody struct {
	Path          []struct{ Lat, Lng float64 } `json:"path"`
	DistanceMiles float64                      `json:"distanceMiles"`
	DistanceFeet  float64                      `json:"distanceFeet"`
	Steps         float64                      `json:"steps"`
	Recording     bool                         `json:"isRecording"`
	Error         string                       `json:"error"`
	Usable        bool                         `json:"usable"`
}

func (a *testAPI) recording(t *testing.T, uid string) recordingBody {
	t.Helper()
	w := a.do(t, http.MethodGet, "/api/recording", uid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return decode[recordingBody](t, w)
}

func TestRecording_FixesBecomeARoute(t *testing.T) {
	a := newTestAPI(t)
	a.login(t, "u1")

	w := a.do(t, http.MethodPost, "/api/recording/start", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[recordingBody](t, w).Recording)

	fixes := map[string]any{"fixes": []map[string]float64{
		{"lat": 42.3700, "lng": -72.52},
		{"lat": 42.3710, "lng": -72.52},
		{"lat": 42.3720, "lng": -72.52},
	}}
	require.Equal(t, http.StatusAccepted, a.do(t, http.MethodPost, "/api/recording/fixes", "u1", fixes).Code)

	require.Eventually(t, func() bool {
		return len(a.recording(t, "u1").Path) == 3
	}, 2*time.Second, 10*time.Millisecond)

	snap := a.recording(t, "u1")
	assert.True(t, snap.Usable)
	assert.InDelta(t, snap.DistanceMiles*2200, snap.Steps, 1e-9)
	assert.InDelta(t, snap.DistanceMiles*5280, snap.DistanceFeet, 1e-9)

	w = a.do(t, http.MethodPost, "/api/routes", "u1", map[string]any{"name": "Recorded", "fromRecording": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.False(t, a.recording(t, "u1").Recording)
}

func TestRecording_Validation(t *testing.T) {
	a := newTestAPI(t)
	a.login(t, "u1")

	w := a.do(t, http.MethodPost, "/api/recording/fixes", "u1", map[string]any{"fixes": []map[string]float64{{"lat": 1, "lng": 1}}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodPost, "/api/recording/fixes", "u1", map[string]any{"fixes": []map[string]float64{{"lat": 91, "lng": 1}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPost, "/api/recording/fixes", "u1", map[string]any{"fixes": []any{}}).Code)

	// An idle recorder still answers stop.
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/recording/stop", "u1", nil).Code)

	w = a.do(t, http.MethodPost, "/api/routes", "u1", map[string]any{"name": "Nothing", "fromRecording": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecording_StreamErrorStopsRecording(t *testing.T) {
	a := newTestAPI(t)
	a.login(t, "u1")
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/recording/start", "u1", nil).Code)

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPost, "/api/recording/error", "u1", map[string]any{}).Code)
	require.Equal(t, http.StatusAccepted, a.do(t, http.MethodPost, "/api/recording/error", "u1", map[string]any{"message": "signal lost"}).Code)

	require.Eventually(t, func() bool {
		return !a.recording(t, "u1").Recording
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Geolocation error: signal lost", a.recording(t, "u1").Error)
}

func TestRecording_SaveImmediatelyAfterPush(t *testing.T) {
	a := newTestAPI(t)
	a.login(t, "u1")
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/recording/start", "u1", nil).Code)

	batch := make([]map[string]float64, 50)
	for i := range batch {
		batch[i] = map[string]float64{"lat": 42.37 + float64(i)*0.0005, "lng": -72.52}
	}
	require.Equal(t, http.StatusAccepted, a.do(t, http.MethodPost, "/api/recording/fixes", "u1", map[string]any{"fixes": batch[:25]}).Code)
	require.Equal(t, http.StatusAccepted, a.do(t, http.MethodPost, "/api/recording/fixes", "u1", map[string]any{"fixes": batch[25:]}).Code)

	w := a.do(t, http.MethodPost, "/api/routes", "u1", map[string]any{"name": "Quick save", "fromRecording": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	saved := decode[struct {
		Route route.Route `json:"route"`
	}](t, w).Route
	assert.Len(t, saved.Path, 50)
	assert.InDelta(t, geo.PathDistanceMiles(saved.Path), saved.DistanceMiles, 1e-9)
}
