// README: Errors, commands and collaborator contracts of the route/activity synchronizer.
package synchronizer

import (
	"context"
	"errors"

	"strollpath/internal/ai"
	"strollpath/internal/modules/route"
	"strollpath/internal/modules/user"
	"strollpath/internal/types"
)

var (
	ErrSyncFailed          = errors.New("remote write failed, local change reverted")
	ErrActivityNotCredited = errors.New("route saved but today's activity was not credited")
	ErrNoUsableRoute       = errors.New("a route needs at least two recorded points")
	ErrNotLoggedIn         = errors.New("no user session")
	ErrForbidden           = errors.New("only the author may edit this route")
	ErrSelfFollow          = errors.New("users cannot follow themselves")
	ErrBadRequest          = errors.New("invalid request")
)

// SyncError reports a remote write that failed after its local effects were rolled back.
// It matches both ErrSyncFailed and the underlying cause with errors.Is.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return "sync " + e.Op + ": " + e.Err.Error()
}

func (e *SyncError) Unwrap() []error {
	return []error{ErrSyncFailed, e.Err}
}

// Remote is the document store acting as source of truth.
type Remote interface {
	// LoadProfile returns the stored profile, creating it from fallback when absent.
	LoadProfile(ctx context.Context, fallback user.User) (user.User, error)
	// FetchAll returns every well-formed user and route, routes newest first.
	FetchAll(ctx context.Context) ([]user.User, []route.Route, error)
	CreateRoute(ctx context.Context, r route.Route) error
	UpdateRoute(ctx context.Context, id string, edit route.Edit) error
	UpdateUser(ctx context.Context, id string, up user.Update) error
	// ToggleLike atomically updates the user's liked set and the route's like counter.
	ToggleLike(ctx context.Context, userID, routeID string, like bool) error
	// ToggleFollow atomically updates both sides of a follow edge.
	ToggleFollow(ctx context.Context, actorID, targetID string, follow bool) error
}

// ImageEncoder turns an attached image into the stored representation.
type ImageEncoder interface {
	Encode(ctx context.Context, raw string) (string, error)
}

// PassThroughImages stores images as given.
type PassThroughImages struct{}

func (PassThroughImages) Encode(_ context.Context, raw string) (string, error) { return raw, nil }

// Assistant is the per-user view of the recommendation service.
type Assistant interface {
	Recommend(ctx context.Context, userID, query string, candidates []route.Summary) ([]string, error)
	Describe(ctx context.Context, userID string, req ai.DescriptionRequest) (string, error)
}

// Profile identifies the authenticated caller at login.
type Profile struct {
	ID       string
	Name     string
	ImageURL string
}

// NewRoute is a route about to be saved from a finished recording.
type NewRoute struct {
	Name           string             `json:"name" validate:"required,max=120"`
	Description    string             `json:"description" validate:"max=2000"`
	Tags           []string           `json:"tags"`
	IsPublic       bool               `json:"isPublic"`
	Path           []types.Coordinate `json:"path" validate:"dive"`
	DistanceMiles  float64            `json:"distance" validate:"gte=0"`
	ElapsedSeconds int                `json:"elapsedSeconds" validate:"gte=0"`
	Image          string             `json:"image,omitempty"`
}
