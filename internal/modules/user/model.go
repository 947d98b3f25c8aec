// README: User profile aggregate plus the pure helpers for follow sets, search and activity credit.
package user

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	DefaultDailyStepGoal = 10000
	DefaultName          = "Stroller"
	dateLayout           = "2006-01-02"
)

var ErrNotFound = errors.New("user not found")

// ActivityDay is one calendar day of walking. RouteID names the featured route of the day.
type ActivityDay struct {
	Steps   int    `json:"steps" firestore:"steps"`
	RouteID string `json:"routeId,omitempty" firestore:"routeId,omitempty"`
}

type User struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	ImageURL      string                 `json:"imageUrl,omitempty"`
	Following     []string               `json:"following"`
	Followers     []string               `json:"followers"`
	LikedRoutes   []string               `json:"likedRoutes"`
	IsSearchable  bool                   `json:"isSearchable"`
	DailyStepGoal int                    `json:"dailyStepGoal"`
	Activity      map[string]ActivityDay `json:"activity"`
}

// NewProfile builds the profile written on first login.
func NewProfile(id, name, imageURL string) User {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	return User{
		ID:            id,
		Name:          name,
		ImageURL:      imageURL,
		Following:     []string{},
		Followers:     []string{},
		LikedRoutes:   []string{},
		IsSearchable:  true,
		DailyStepGoal: DefaultDailyStepGoal,
		Activity:      map[string]ActivityDay{},
	}
}

func (u User) Clone() User {
	out := u
	out.Following = append([]string{}, u.Following...)
	out.Followers = append([]string{}, u.Followers...)
	out.LikedRoutes = append([]string{}, u.LikedRoutes...)
	out.Activity = make(map[string]ActivityDay, len(u.Activity))
	for k, v := range u.Activity {
		out.Activity[k] = v
	}
	return out
}

func (u User) Likes(routeID string) bool  { return Contains(u.LikedRoutes, routeID) }
func (u User) Follows(userID string) bool { return Contains(u.Following, userID) }
func (u User) Day(key string) ActivityDay { return u.Activity[key] }

// DateKey formats t as the local calendar day used for activity entries.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// CreditActivity adds steps to the entry for key and makes routeID the featured route.
// It returns the updated entry.
func CreditActivity(u *User, key string, steps int, routeID string) ActivityDay {
	if u.Activity == nil {
		u.Activity = map[string]ActivityDay{}
	}
	day := u.Activity[key]
	if steps > 0 {
		day.Steps += steps
	}
	day.RouteID = routeID
	u.Activity[key] = day
	return day
}

// Contains reports whether id is in set.
func Contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

// AddUnique appends id unless already present. The input slice is not modified.
func AddUnique(set []string, id string) []string {
	if Contains(set, id) {
		return append([]string{}, set...)
	}
	out := make([]string, 0, len(set)+1)
	out = append(out, set...)
	return append(out, id)
}

// Remove drops every occurrence of id. The input slice is not modified.
func Remove(set []string, id string) []string {
	out := make([]string, 0, len(set))
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Search returns searchable users other than viewerID whose name starts with query, ignoring case.
// A blank query matches nobody.
func Search(users []User, viewerID, query string) []User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []User{}
	}
	out := make([]User, 0)
	for _, u := range users {
		if u.ID == viewerID || !u.IsSearchable {
			continue
		}
		if strings.HasPrefix(strings.ToLower(u.Name), q) {
			out = append(out, u)
		}
	}
	return out
}

// ProgressPercent is steps as a percentage of goal, capped at 100.
func ProgressPercent(steps, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(float64(steps)/float64(goal)*100, 100)
}

// Update is a partial profile write. Activity entries are keyed by date.
type Update struct {
	Name          *string
	ImageURL      *string
	IsSearchable  *bool
	DailyStepGoal *int
	Activity      map[string]ActivityDay
}

func (u Update) Empty() bool {
	return u.Name == nil && u.ImageURL == nil && u.IsSearchable == nil && u.DailyStepGoal == nil && len(u.Activity) == 0
}

// Apply writes the set fields onto dst.
func (u Update) Apply(dst *User) {
	if u.Name != nil {
		dst.Name = *u.Name
	}
	if u.ImageURL != nil {
		dst.ImageURL = *u.ImageURL
	}
	if u.IsSearchable != nil {
		dst.IsSearchable = *u.IsSearchable
	}
	if u.DailyStepGoal != nil {
		dst.DailyStepGoal = *u.DailyStepGoal
	}
	if len(u.Activity) > 0 && dst.Activity == nil {
		dst.Activity = map[string]ActivityDay{}
	}
	for k, v := range u.Activity {
		dst.Activity[k] = v
	}
}
