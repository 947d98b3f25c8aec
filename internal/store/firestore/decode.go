package firestore

import (
	"errors"
	"fmt"
	"time"

	fs "cloud.google.com/go/firestore"

	"strollpath/internal/geo"
	"strollpath/internal/modules/route"
	"strollpath/internal/modules/user"
	"strollpath/internal/types"
)

// ErrMalformed marks a stored document missing required fields.
var ErrMalformed = errors.New("malformed document")

func malformed(kind, id, field string) error {
	return fmt.Errorf("%w: %s %s: %s", ErrMalformed, kind, id, field)
}

// decodeUser requires name, following and followers. Other fields fall back to profile defaults.
func decodeUser(id string, data map[string]any) (user.User, error) {
	name, ok := data["name"].(string)
	if !ok {
		return user.User{}, malformed("user", id, "name")
	}
	following, ok := stringSlice(data["following"])
	if !ok {
		return user.User{}, malformed("user", id, "following")
	}
	followers, ok := stringSlice(data["followers"])
	if !ok {
		return user.User{}, malformed("user", id, "followers")
	}

	u := user.NewProfile(id, name, "")
	u.Following = following
	u.Followers = followers
	u.ImageURL, _ = data["imageUrl"].(string)
	if liked, ok := stringSlice(data["likedRoutes"]); ok {
		u.LikedRoutes = liked
	}
	if searchable, ok := data["isSearchable"].(bool); ok {
		u.IsSearchable = searchable
	}
	if goal, ok := number(data["dailyStepGoal"]); ok && goal > 0 {
		u.DailyStepGoal = int(goal)
	}
	if activity, ok := data["activity"].(map[string]any); ok {
		for key, raw := range activity {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			steps, _ := number(entry["steps"])
			routeID, _ := entry["routeId"].(string)
			u.Activity[key] = user.ActivityDay{Steps: int(steps), RouteID: routeID}
		}
	}
	return u, nil
}

// decodeRoute requires name, distance, tags and authorId.
func decodeRoute(id string, data map[string]any) (route.Route, error) {
	name, ok := data["name"].(string)
	if !ok {
		return route.Route{}, malformed("route", id, "name")
	}
	distance, ok := number(data["distance"])
	if !ok {
		return route.Route{}, malformed("route", id, "distance")
	}
	tags, ok := stringSlice(data["tags"])
	if !ok {
		return route.Route{}, malformed("route", id, "tags")
	}
	author, ok := data["authorId"].(string)
	if !ok {
		return route.Route{}, malformed("route", id, "authorId")
	}

	r := route.Route{
		ID:            id,
		Name:          name,
		DistanceMiles: distance,
		Tags:          tags,
		AuthorID:      author,
	}
	r.Description, _ = data["description"].(string)
	r.ImageURL, _ = data["imageUrl"].(string)
	r.IsPublic, _ = data["isPublic"].(bool)
	if minutes, ok := number(data["estimatedTime"]); ok {
		r.EstimatedTimeMinutes = int(minutes)
	}
	if likes, ok := number(data["likes"]); ok && likes > 0 {
		r.Likes = int(likes)
	}
	if created, ok := data["createdAt"].(time.Time); ok {
		r.CreatedAt = created
	}
	r.Path = decodePath(data)
	return r, nil
}

func decodePath(data map[string]any) []types.Coordinate {
	if raw, ok := data["path"].([]any); ok && len(raw) > 0 {
		path := make([]types.Coordinate, 0, len(raw))
		for _, p := range raw {
			m, ok := p.(map[string]any)
			if !ok {
				continue
			}
			lat, okLat := number(m["lat"])
			lng, okLng := number(m["lng"])
			if okLat && okLng {
				path = append(path, types.Coordinate{Lat: lat, Lng: lng})
			}
		}
		return path
	}
	if encoded, ok := data["polyline"].(string); ok && encoded != "" {
		if path, err := geo.DecodePolyline(encoded); err == nil {
			return path
		}
	}
	return []types.Coordinate{}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return append([]string{}, s...), true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func encodeUser(u user.User) map[string]any {
	activity := make(map[string]any, len(u.Activity))
	for key, day := range u.Activity {
		activity[key] = encodeDay(day)
	}
	return map[string]any{
		"id":            u.ID,
		"name":          u.Name,
		"imageUrl":      u.ImageURL,
		"following":     nonNil(u.Following),
		"followers":     nonNil(u.Followers),
		"likedRoutes":   nonNil(u.LikedRoutes),
		"isSearchable":  u.IsSearchable,
		"dailyStepGoal": u.DailyStepGoal,
		"activity":      activity,
	}
}

func encodeDay(day user.ActivityDay) map[string]any {
	m := map[string]any{"steps": day.Steps}
	if day.RouteID != "" {
		m["routeId"] = day.RouteID
	}
	return m
}

// encodeRoute builds a new route document. likes starts at zero and createdAt is server-assigned.
func encodeRoute(r route.Route) map[string]any {
	path := make([]map[string]any, len(r.Path))
	for i, c := range r.Path {
		path[i] = map[string]any{"lat": c.Lat, "lng": c.Lng}
	}
	return map[string]any{
		"id":            r.ID,
		"name":          r.Name,
		"description":   r.Description,
		"distance":      r.DistanceMiles,
		"estimatedTime": r.EstimatedTimeMinutes,
		"path":          path,
		"polyline":      geo.EncodePolyline(r.Path),
		"isPublic":      r.IsPublic,
		"tags":          nonNil(r.Tags),
		"likes":         0,
		"authorId":      r.AuthorID,
		"imageUrl":      r.ImageURL,
		"createdAt":     fs.ServerTimestamp,
	}
}

func routeUpdates(edit route.Edit) []fs.Update {
	var ups []fs.Update
	if edit.Name != nil {
		ups = append(ups, fs.Update{Path: "name", Value: *edit.Name})
	}
	if edit.Description != nil {
		ups = append(ups, fs.Update{Path: "description", Value: *edit.Description})
	}
	if edit.Tags != nil {
		ups = append(ups, fs.Update{Path: "tags", Value: nonNil(*edit.Tags)})
	}
	if edit.IsPublic != nil {
		ups = append(ups, fs.Update{Path: "isPublic", Value: *edit.IsPublic})
	}
	if edit.ImageURL != nil {
		ups = append(ups, fs.Update{Path: "imageUrl", Value: *edit.ImageURL})
	}
	return ups
}

// userUpdates writes activity entries through field paths so other days are left alone.
func userUpdates(up user.Update) []fs.Update {
	var ups []fs.Update
	if up.Name != nil {
		ups = append(ups, fs.Update{Path: "name", Value: *up.Name})
	}
	if up.ImageURL != nil {
		ups = append(ups, fs.Update{Path: "imageUrl", Value: *up.ImageURL})
	}
	if up.IsSearchable != nil {
		ups = append(ups, fs.Update{Path: "isSearchable", Value: *up.IsSearchable})
	}
	if up.DailyStepGoal != nil {
		ups = append(ups, fs.Update{Path: "dailyStepGoal", Value: *up.DailyStepGoal})
	}
	for key, day := range up.Activity {
		ups = append(ups, fs.Update{FieldPath: fs.FieldPath{"activity", key}, Value: encodeDay(day)})
	}
	return ups
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
