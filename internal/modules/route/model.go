// README: Route aggregate and the edit/create commands accepted by the synchronizer.
package route

import (
	"errors"
	"strings"
	"time"

	"strollpath/internal/types"
)

var ErrNotFound = errors.New("route not found")

// Route is a persisted, named walking path. IsLiked is derived per viewing user.
type Route struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Description          string             `json:"description"`
	DistanceMiles        float64            `json:"distance"`
	EstimatedTimeMinutes int                `json:"estimatedTime"`
	Path                 []types.Coordinate `json:"path"`
	IsPublic             bool               `json:"isPublic"`
	Tags                 []string           `json:"tags"`
	Likes                int                `json:"likes"`
	AuthorID             string             `json:"authorId"`
	IsLiked              bool               `json:"isLiked"`
	ImageURL             string             `json:"imageUrl,omitempty"`
	CreatedAt            time.Time          `json:"createdAt,omitempty"`
}

// Clone returns a deep copy safe to hand out of the local mirror.
func (r Route) Clone() Route {
	out := r
	out.Path = append([]types.Coordinate(nil), r.Path...)
	out.Tags = append([]string(nil), r.Tags...)
	return out
}

// Discoverable reports whether viewerID may see the route outside of favorites.
func (r Route) Discoverable(viewerID string) bool {
	return r.IsPublic || r.AuthorID == viewerID
}

// Edit carries the author-editable content fields. Nil fields are left unchanged.
type Edit struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Tags        *[]string `json:"tags,omitempty"`
	IsPublic    *bool     `json:"isPublic,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
}

// Empty reports whether the edit touches no field.
func (e Edit) Empty() bool {
	return e.Name == nil && e.Description == nil && e.Tags == nil && e.IsPublic == nil && e.ImageURL == nil
}

// Apply writes the set fields onto r.
func (e Edit) Apply(r *Route) {
	if e.Name != nil {
		r.Name = *e.Name
	}
	if e.Description != nil {
		r.Description = *e.Description
	}
	if e.Tags != nil {
		r.Tags = append([]string(nil), (*e.Tags)...)
	}
	if e.IsPublic != nil {
		r.IsPublic = *e.IsPublic
	}
	if e.ImageURL != nil {
		r.ImageURL = *e.ImageURL
	}
}

// Summary is the reduced route view sent to the recommendation service.
type Summary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	DistanceMiles float64  `json:"distance"`
	Tags          []string `json:"tags"`
}

func (r Route) Summary() Summary {
	return Summary{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		DistanceMiles: r.DistanceMiles,
		Tags:          append([]string(nil), r.Tags...),
	}
}

// NormalizeTags trims tags, dropping empty entries.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
