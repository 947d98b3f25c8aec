package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewProfileDefaults(t *testing.T) {
	u := NewProfile("u1", "  ", "")
	assert.Equal(t, "Stroller", u.Name)
	assert.True(t, u.IsSearchable)
	assert.Equal(t, 10000, u.DailyStepGoal)
	assert.NotNil(t, u.Activity)
	assert.Empty(t, u.Following)
	assert.NotNil(t, u.LikedRoutes)
}

func TestSetHelpers(t *testing.T) {
	in := []string{"a", "b"}
	assert.Equal(t, []string{"a", "b", "c"}, AddUnique(in, "c"))
	assert.Equal(t, []string{"a", "b"}, AddUnique(in, "a"))
	assert.Equal(t, []string{"b"}, Remove(in, "a"))
	assert.Equal(t, []string{"a", "b"}, Remove(in, "zz"))
	assert.Equal(t, []string{"a", "b"}, in)
}

func TestClone_IsDeep(t *testing.T) {
	u := NewProfile("u1", "Ann", "")
	u.Following = []string{"x"}
	u.Activity["2024-05-01"] = ActivityDay{Steps: 10}

	c := u.Clone()
	c.Following[0] = "y"
	c.Activity["2024-05-01"] = ActivityDay{Steps: 99}

	assert.Equal(t, "x", u.Following[0])
	assert.Equal(t, 10, u.Activity["2024-05-01"].Steps)
}

func TestCreditActivity(t *testing.T) {
	u := User{ID: "u1"}
	day := CreditActivity(&u, "2024-05-01", 1100, "r1")
	assert.Equal(t, ActivityDay{Steps: 1100, RouteID: "r1"}, day)

	day = CreditActivity(&u, "2024-05-01", 500, "r2")
	assert.Equal(t, ActivityDay{Steps: 1600, RouteID: "r2"}, day)
	assert.Equal(t, day, u.Activity["2024-05-01"])
}

func TestDateKey(t *testing.T) {
	ts := time.Date(2024, 3, 9, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "2024-03-09", DateKey(ts))

	assert.Equal(t, "2024-03-10", DateKey(ts.Add(time.Minute)))
	assert.Equal(t, "2024-12-01", DateKey(time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local)))
}

func TestSearch(t *testing.T) {
	users := []User{
		{ID: "me", Name: "Alice Me", IsSearchable: true},
		{ID: "a", Name: "alice walker", IsSearchable: true},
		{ID: "b", Name: "Alicia", IsSearchable: false},
		{ID: "c", Name: "Bob Alice", IsSearchable: true},
	}
	tests := []struct {
		query string
		want  []string
	}{
		{"ALI", []string{"a"}},
		{"  bob ", []string{"c"}},
		{"", []string{}},
		{"zed", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Search(users, "me", tt.query)
			ids := make([]string, 0, len(got))
			for _, u := range got {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestProgressPercent(t *testing.T) {
	assert.InDelta(t, 50.0, ProgressPercent(5000, 10000), 1e-9)
	assert.Equal(t, 100.0, ProgressPercent(25000, 10000))
	assert.Equal(t, 0.0, ProgressPercent(100, 0))
}

func TestUpdateApply(t *testing.T) {
	u := NewProfile("u1", "Ann", "")
	name, goal := "Annie", 8000
	up := Update{Name: &name, DailyStepGoal: &goal, Activity: map[string]ActivityDay{"2024-05-01": {Steps: 3}}}
	assert.False(t, up.Empty())
	up.Apply(&u)

	assert.Equal(t, "Annie", u.Name)
	assert.Equal(t, 8000, u.DailyStepGoal)
	assert.True(t, u.IsSearchable)
	assert.Equal(t, 3, u.Activity["2024-05-01"].Steps)
	assert.True(t, Update{}.Empty())
}
