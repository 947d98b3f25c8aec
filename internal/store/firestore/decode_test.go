package firestore

import (
	"errors"
	"testing"
	"time"

	fs "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strollpath/internal/geo"
	"strollpath/internal/modules/route"
	"strollpath/internal/modules/user"
	"strollpath/internal/types"
)

func TestDecodeUser(t *testing.T) {
	u, err := decodeUser("u1", map[string]any{
		"name":          "Ann",
		"following":     []any{"b"},
		"followers":     []any{},
		"likedRoutes":   []any{"r1", 7},
		"isSearchable":  false,
		"dailyStepGoal": int64(8000),
		"activity": map[string]any{
			"2024-05-17": map[string]any{"steps": int64(1100), "routeId": "r1"},
			"2024-05-18": map[string]any{"steps": 12.0},
			"garbage":    "x",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, []string{"b"}, u.Following)
	assert.Equal(t, []string{}, u.Followers)
	assert.Equal(t, []string{"r1"}, u.LikedRoutes)
	assert.False(t, u.IsSearchable)
	assert.Equal(t, 8000, u.DailyStepGoal)
	assert.Equal(t, map[string]user.ActivityDay{
		"2024-05-17": {Steps: 1100, RouteID: "r1"},
		"2024-05-18": {Steps: 12},
	}, u.Activity)
}

func TestDecodeUser_DefaultsForLegacyProfiles(t *testing.T) {
	u, err := decodeUser("u1", map[string]any{"name": "Ann", "following": []any{}, "followers": []any{}})
	require.NoError(t, err)
	assert.Equal(t, user.DefaultDailyStepGoal, u.DailyStepGoal)
	assert.True(t, u.IsSearchable)
	assert.NotNil(t, u.Activity)
}

func TestDecodeUser_Malformed(t *testing.T) {
	tests := map[string]map[string]any{
		"no name":        {"following": []any{}, "followers": []any{}},
		"name not text":  {"name": 3, "following": []any{}, "followers": []any{}},
		"no following":   {"name": "x", "followers": []any{}},
		"followers text": {"name": "x", "following": []any{}, "followers": "all"},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := decodeUser("u1", data)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestDecodeRoute(t *testing.T) {
	created := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	r, err := decodeRoute("r1", map[string]any{
		"name":          "Pond",
		"description":   "water",
		"distance":      int64(2),
		"estimatedTime": int64(40),
		"tags":          []any{"nature"},
		"authorId":      "u1",
		"isPublic":      true,
		"likes":         int64(3),
		"createdAt":     created,
		"path":          []any{map[string]any{"lat": 42.1, "lng": -72.5}, map[string]any{"lat": int64(42), "lng": -72.6}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, r.DistanceMiles)
	assert.Equal(t, 40, r.EstimatedTimeMinutes)
	assert.Equal(t, 3, r.Likes)
	assert.True(t, r.IsPublic)
	assert.Equal(t, created, r.CreatedAt)
	assert.Equal(t, []types.Coordinate{{Lat: 42.1, Lng: -72.5}, {Lat: 42, Lng: -72.6}}, r.Path)
}

func TestDecodeRoute_PolylineFallback(t *testing.T) {
	path := []types.Coordinate{{Lat: 42.4005, Lng: -72.5023}, {Lat: 42.4018, Lng: -72.5035}}
	r, err := decodeRoute("r1", map[string]any{
		"name": "Pond", "distance": 1.6, "tags": []any{}, "authorId": "bot",
		"polyline": geo.EncodePolyline(path),
	})
	require.NoError(t, err)
	require.Len(t, r.Path, 2)
	assert.InDelta(t, 42.4005, r.Path[0].Lat, 1e-5)
	assert.InDelta(t, -72.5035, r.Path[1].Lng, 1e-5)
}

func TestDecodeRoute_Malformed(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{"name": "Pond", "distance": 1.6, "tags": []any{}, "authorId": "bot"}
	}
	for _, field := range []string{"name", "distance", "tags", "authorId"} {
		t.Run(field, func(t *testing.T) {
			data := base()
			delete(data, field)
			_, err := decodeRoute("r1", data)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	data := base()
	data["distance"] = "far"
	_, err := decodeRoute("r1", data)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEncodeRoute(t *testing.T) {
	doc := encodeRoute(route.Route{
		ID: "r1", Name: "Pond", DistanceMiles: 1.6, Likes: 9, AuthorID: "u1",
		Path: []types.Coordinate{{Lat: 1, Lng: 2}, {Lat: 1.5, Lng: 2.5}},
	})
	assert.Equal(t, 0, doc["likes"])
	assert.Equal(t, fs.ServerTimestamp, doc["createdAt"])
	assert.Equal(t, []string{}, doc["tags"])
	assert.NotEmpty(t, doc["polyline"])
	assert.Len(t, doc["path"], 2)
	_, hasLiked := doc["isLiked"]
	assert.False(t, hasLiked)
}

func TestUserUpdates(t *testing.T) {
	name := "Ann"
	ups := userUpdates(user.Update{
		Name:     &name,
		Activity: map[string]user.ActivityDay{"2024-05-17": {Steps: 10, RouteID: "r1"}},
	})
	require.Len(t, ups, 2)
	assert.Equal(t, "name", ups[0].Path)
	assert.Equal(t, fs.FieldPath{"activity", "2024-05-17"}, ups[1].FieldPath)
	assert.Equal(t, map[string]any{"steps": 10, "routeId": "r1"}, ups[1].Value)

	assert.Empty(t, userUpdates(user.Update{}))
}

func TestRouteUpdates(t *testing.T) {
	public := false
	ups := routeUpdates(route.Edit{IsPublic: &public})
	require.Len(t, ups, 1)
	assert.Equal(t, fs.Update{Path: "isPublic", Value: false}, ups[0])
}
