package route

import (
	"sort"
	"strings"
)

type DistanceFilter string

const (
	DistanceAny    DistanceFilter = "any"
	DistanceShort  DistanceFilter = "short"
	DistanceMedium DistanceFilter = "medium"
	DistanceLong   DistanceFilter = "long"
)

type VisibilityFilter string

const (
	VisibilityAll     VisibilityFilter = "all"
	VisibilityPublic  VisibilityFilter = "public"
	VisibilityPrivate VisibilityFilter = "private"
)

// Params selects routes for a listing. AIRouteIDs, when non-nil, replaces every other filter.
type Params struct {
	ViewerID      string
	Query         string
	Tags          []string
	Distance      DistanceFilter
	Visibility    VisibilityFilter
	FavoritesOnly bool
	AIRouteIDs    []string
}

// Filter returns the routes matching p, preserving input order.
func Filter(routes []Route, p Params) []Route {
	if p.AIRouteIDs != nil {
		ids := make(map[string]struct{}, len(p.AIRouteIDs))
		for _, id := range p.AIRouteIDs {
			ids[id] = struct{}{}
		}
		return keep(routes, func(r Route) bool {
			_, ok := ids[r.ID]
			return ok
		})
	}

	var results []Route
	if p.FavoritesOnly {
		results = keep(routes, func(r Route) bool { return r.IsLiked })
	} else {
		results = keep(routes, func(r Route) bool { return r.Discoverable(p.ViewerID) })
	}

	if q := strings.ToLower(strings.TrimSpace(p.Query)); q != "" {
		results = keep(results, func(r Route) bool {
			return strings.Contains(strings.ToLower(r.Name), q) ||
				strings.Contains(strings.ToLower(r.Description), q)
		})
	}

	if p.FavoritesOnly {
		return results
	}

	if len(p.Tags) > 0 {
		results = keep(results, func(r Route) bool { return hasAllTags(r.Tags, p.Tags) })
	}
	if p.Distance != "" && p.Distance != DistanceAny {
		results = keep(results, func(r Route) bool { return inDistanceBucket(r.DistanceMiles, p.Distance) })
	}
	switch p.Visibility {
	case VisibilityPublic:
		results = keep(results, func(r Route) bool { return r.IsPublic })
	case VisibilityPrivate:
		results = keep(results, func(r Route) bool { return !r.IsPublic })
	}
	return results
}

// AllTags lists the distinct tags of routes discoverable by viewerID, sorted.
func AllTags(routes []Route, viewerID string) []string {
	set := map[string]struct{}{}
	for _, r := range routes {
		if !r.Discoverable(viewerID) {
			continue
		}
		for _, t := range r.Tags {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Candidates picks the routes a recommendation query may choose from.
func Candidates(routes []Route, viewerID string, favoritesOnly bool) []Route {
	if favoritesOnly {
		return keep(routes, func(r Route) bool { return r.IsLiked })
	}
	return keep(routes, func(r Route) bool { return r.Discoverable(viewerID) })
}

func inDistanceBucket(miles float64, f DistanceFilter) bool {
	switch f {
	case DistanceShort:
		return miles < 2
	case DistanceMedium:
		return miles >= 2 && miles <= 5
	case DistanceLong:
		return miles > 5
	default:
		return true
	}
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func keep(routes []Route, pred func(Route) bool) []Route {
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
