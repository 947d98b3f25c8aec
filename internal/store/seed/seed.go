// README: Starter content written into an empty store: a bot author and three Amherst walks.
package seed

import (
	"time"

	"strollpath/internal/modules/route"
	"strollpath/internal/modules/user"
	"strollpath/internal/types"
)

const BotUserID = "stroll-bot-user"

// Bot is the author of the seeded routes. It is hidden from user search.
func Bot() user.User {
	u := user.NewProfile(BotUserID, "Stroll Bot", "")
	u.IsSearchable = false
	return u
}

// Routes returns the seeded routes, stamped with now in listing order.
func Routes(now time.Time) []route.Route {
	routes := []route.Route{
		{
			ID:                   "seed-puffers-pond",
			Name:                 "Puffer's Pond Nature Trail",
			Description:          "A serene walk around the beautiful Puffer's Pond. Perfect for nature lovers, with opportunities for swimming in the summer. Mostly flat and family-friendly.",
			DistanceMiles:        1.6,
			EstimatedTimeMinutes: 32,
			Path:                 []types.Coordinate{{Lat: 42.4005, Lng: -72.5023}, {Lat: 42.4018, Lng: -72.5035}, {Lat: 42.4031, Lng: -72.5019}, {Lat: 42.4015, Lng: -72.4998}},
			IsPublic:             true,
			Tags:                 []string{"nature", "pond", "easy", "family-friendly"},
			ImageURL:             "https://images.unsplash.com/photo-1552318965-6e6b74820b33?w=400&h=400&fit=crop&q=80&auto=format",
		},
		{
			ID:                   "seed-amherst-college",
			Name:                 "Amherst College Campus Stroll",
			Description:          "Explore the historic and beautiful Amherst College campus. Walk past stunning architecture, the bird sanctuary, and the sprawling main quad.",
			DistanceMiles:        1.9,
			EstimatedTimeMinutes: 38,
			Path:                 []types.Coordinate{{Lat: 42.371, Lng: -72.518}, {Lat: 42.373, Lng: -72.519}, {Lat: 42.374, Lng: -72.516}, {Lat: 42.372, Lng: -72.515}},
			IsPublic:             true,
			Tags:                 []string{"historic", "architecture", "easy", "campus"},
			ImageURL:             "https://images.unsplash.com/photo-1470770841072-f978cf4d019e?w=400&h=400&fit=crop&q=80&auto=format",
		},
		{
			ID:                   "seed-norwottuck-rail-trail",
			Name:                 "Norwottuck Rail Trail Adventure",
			Description:          "A long, flat, paved path perfect for walking, jogging, or biking. This section takes you through peaceful woodlands towards the Connecticut River.",
			DistanceMiles:        5,
			EstimatedTimeMinutes: 100,
			Path:                 []types.Coordinate{{Lat: 42.348, Lng: -72.55}, {Lat: 42.348, Lng: -72.56}, {Lat: 42.349, Lng: -72.57}, {Lat: 42.349, Lng: -72.58}},
			IsPublic:             true,
			Tags:                 []string{"flat", "paved", "scenic", "long"},
			ImageURL:             "https://images.unsplash.com/photo-1447752875215-b2761acb3c5d?w=400&h=400&fit=crop&q=80&auto=format",
		},
	}
	for i := range routes {
		routes[i].AuthorID = BotUserID
		routes[i].CreatedAt = now.Add(-time.Duration(i) * time.Second)
	}
	return routes
}
