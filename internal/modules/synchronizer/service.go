package synchronizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"strollpath/internal/ai"
	"strollpath/internal/geo"
	"strollpath/internal/modules/route"
	"strollpath/internal/modules/user"
	"strollpath/internal/pkg/validator"
)

// Service keeps an optimistic local mirror of one user's view of the remote store.
// Every mutation is applied locally first, then written remotely, and reverted if
// the remote write fails.
type Service struct {
	remote    Remote
	images    ImageEncoder
	assistant Assistant
	log       *zap.Logger
	now       func() time.Time
	newID     func() string

	mu sync.RWMutex
	m  mirror
}

type Option func(*Service)

func WithImageEncoder(e ImageEncoder) Option { return func(s *Service) { s.images = e } }

func WithAssistant(a Assistant) Option { return func(s *Service) { s.assistant = a } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock overrides the clock used for activity date keys.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDGenerator overrides client-side route ID assignment.
func WithIDGenerator(fn func() string) Option { return func(s *Service) { s.newID = fn } }

func NewService(remote Remote, opts ...Option) *Service {
	s := &Service{
		remote: remote,
		images: PassThroughImages{},
		log:    zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// run applies stage to the mirror, writes remotely with commit, and rolls the
// mirror back if either step fails. The lock is not held during commit.
func (s *Service) run(ctx context.Context, op string, stage func(m *mirror, mut *Mutation) error, commit func(ctx context.Context) error) error {
	mut := &Mutation{}

	s.mu.Lock()
	if !s.m.loggedIn() {
		s.mu.Unlock()
		return ErrNotLoggedIn
	}
	if err := stage(&s.m, mut); err != nil {
		mut.rollback(&s.m)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if err := commit(ctx); err != nil {
		s.mu.Lock()
		mut.rollback(&s.m)
		s.mu.Unlock()
		s.log.Warn("remote write failed, rolled back", zap.String("op", op), zap.Error(err))
		return &SyncError{Op: op, Err: err}
	}
	return nil
}

// Login loads (or creates) the caller's profile and replaces the mirror with a fresh remote read.
func (s *Service) Login(ctx context.Context, p Profile) (user.User, error) {
	if strings.TrimSpace(p.ID) == "" {
		return user.User{}, fmt.Errorf("%w: missing user id", ErrBadRequest)
	}
	me, err := s.remote.LoadProfile(ctx, user.NewProfile(p.ID, p.Name, p.ImageURL))
	if err != nil {
		return user.User{}, fmt.Errorf("load profile: %w", err)
	}
	users, routes, err := s.remote.FetchAll(ctx)
	if err != nil {
		return user.User{}, fmt.Errorf("fetch data: %w", err)
	}

	found := false
	for i := range users {
		if users[i].ID == me.ID {
			users[i] = me
			found = true
		}
	}
	if !found {
		users = append(users, me)
	}
	for i := range routes {
		routes[i].IsLiked = me.Likes(routes[i].ID)
	}

	s.mu.Lock()
	s.m = mirror{userID: me.ID, users: users, routes: routes}
	s.mu.Unlock()

	s.log.Info("session loaded", zap.String("user_id", me.ID), zap.Int("users", len(users)), zap.Int("routes", len(routes)))
	return me.Clone(), nil
}

// ToggleLike flips the caller's like on a route and returns the new liked state.
func (s *Service) ToggleLike(ctx context.Context, routeID string) (bool, error) {
	var liked bool
	var me string
	err := s.run(ctx, "toggle like", func(m *mirror, mut *Mutation) error {
		r := m.route(routeID)
		if r == nil {
			return route.ErrNotFound
		}
		u := m.current()
		me = u.ID

		prevLiked, prevLikes, prevSet := r.IsLiked, r.Likes, u.LikedRoutes
		mut.capture(withRoute(routeID, func(r *route.Route) { r.IsLiked, r.Likes = prevLiked, prevLikes }))
		mut.capture(withUser(me, func(u *user.User) { u.LikedRoutes = prevSet }))

		liked = !r.IsLiked
		r.IsLiked = liked
		if liked {
			r.Likes++
			u.LikedRoutes = user.AddUnique(u.LikedRoutes, routeID)
		} else {
			r.Likes = max(r.Likes-1, 0)
			u.LikedRoutes = user.Remove(u.LikedRoutes, routeID)
		}
		return nil
	}, func(ctx context.Context) error {
		return s.remote.ToggleLike(ctx, me, routeID, liked)
	})
	return liked, err
}

// ToggleFollow flips the caller's follow edge to targetID and returns whether it now follows.
func (s *Service) ToggleFollow(ctx context.Context, targetID string) (bool, error) {
	var follow bool
	var me string
	err := s.run(ctx, "toggle follow", func(m *mirror, mut *Mutation) error {
		actor := m.current()
		me = actor.ID
		if targetID == me {
			return ErrSelfFollow
		}
		target := m.user(targetID)
		if target == nil {
			return user.ErrNotFound
		}

		prevFollowing, prevFollowers := actor.Following, target.Followers
		mut.capture(withUser(me, func(u *user.User) { u.Following = prevFollowing }))
		mut.capture(withUser(targetID, func(u *user.User) { u.Followers = prevFollowers }))

		follow = !actor.Follows(targetID)
		if follow {
			actor.Following = user.AddUnique(actor.Following, targetID)
			target.Followers = user.AddUnique(target.Followers, me)
		} else {
			actor.Following = user.Remove(actor.Following, targetID)
			target.Followers = user.Remove(target.Followers, me)
		}
		return nil
	}, func(ctx context.Context) error {
		return s.remote.ToggleFollow(ctx, me, targetID, follow)
	})
	return follow, err
}

func (s *Service) SetName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := validator.Var(name, "required,max=80"); err != nil {
		return fmt.Errorf("%w: name: %v", ErrBadRequest, err)
	}
	return s.updateProfile(ctx, "set name", user.Update{Name: &name})
}

func (s *Service) SetSearchable(ctx context.Context, searchable bool) error {
	return s.updateProfile(ctx, "set searchable", user.Update{IsSearchable: &searchable})
}

func (s *Service) SetDailyStepGoal(ctx context.Context, goal int) error {
	if goal <= 0 {
		return fmt.Errorf("%w: step goal must be positive", ErrBadRequest)
	}
	return s.updateProfile(ctx, "set step goal", user.Update{DailyStepGoal: &goal})
}

func (s *Service) SetProfileImage(ctx context.Context, image string) error {
	url, err := s.images.Encode(ctx, image)
	if err != nil {
		return fmt.Errorf("%w: image: %v", ErrBadRequest, err)
	}
	return s.updateProfile(ctx, "set profile image", user.Update{ImageURL: &url})
}

func (s *Service) updateProfile(ctx context.Context, op string, up user.Update) error {
	var me string
	return s.run(ctx, op, func(m *mirror, mut *Mutation) error {
		me = m.userID
		return mut.updateUser(m, me, up)
	}, func(ctx context.Context) error {
		return s.remote.UpdateUser(ctx, me, up)
	})
}

// CreateRoute saves a recorded walk as a new route and credits its steps to today's activity.
// When the route is stored but the activity write fails, the created route is returned
// together with ErrActivityNotCredited.
func (s *Service) CreateRoute(ctx context.Context, cmd NewRoute) (route.Route, error) {
	if len(cmd.Path) < 2 {
		return route.Route{}, ErrNoUsableRoute
	}
	cmd.Name = strings.TrimSpace(cmd.Name)
	if err := validator.Validate(cmd); err != nil {
		return route.Route{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	imageURL := ""
	if cmd.Image != "" {
		var err error
		if imageURL, err = s.images.Encode(ctx, cmd.Image); err != nil {
			return route.Route{}, fmt.Errorf("%w: image: %v", ErrBadRequest, err)
		}
	}

	distance := cmd.DistanceMiles
	if distance <= 0 {
		distance = geo.PathDistanceMiles(cmd.Path)
	}

	r := route.Route{
		ID:                   s.newID(),
		Name:                 cmd.Name,
		Description:          cmd.Description,
		DistanceMiles:        distance,
		EstimatedTimeMinutes: (cmd.ElapsedSeconds + 30) / 60,
		Path:                 geo.Simplify(cmd.Path, geo.MaxPathPoints),
		IsPublic:             cmd.IsPublic,
		Tags:                 route.NormalizeTags(cmd.Tags),
		ImageURL:             imageURL,
		CreatedAt:            s.now(),
	}

	err := s.run(ctx, "create route", func(m *mirror, mut *Mutation) error {
		r.AuthorID = m.userID
		m.prependRoute(r.Clone())
		mut.capture(func(m *mirror) { m.dropRoute(r.ID) })
		return nil
	}, func(ctx context.Context) error {
		return s.remote.CreateRoute(ctx, r)
	})
	if err != nil {
		return route.Route{}, err
	}

	if err := s.creditActivity(ctx, r); err != nil {
		s.log.Error("activity credit failed after route write",
			zap.String("route_id", r.ID), zap.String("user_id", r.AuthorID), zap.Error(err))
		return r.Clone(), fmt.Errorf("%w: %w", ErrActivityNotCredited, err)
	}
	return r.Clone(), nil
}

func (s *Service) creditActivity(ctx context.Context, r route.Route) error {
	key := user.DateKey(s.now())
	steps := geo.CreditedSteps(r.DistanceMiles)

	var up user.Update
	var me string
	return s.run(ctx, "credit activity", func(m *mirror, mut *Mutation) error {
		u := m.current().Clone()
		me = u.ID
		day := user.CreditActivity(&u, key, steps, r.ID)
		up = user.Update{Activity: map[string]user.ActivityDay{key: day}}
		return mut.updateUser(m, me, up)
	}, func(ctx context.Context) error {
		return s.remote.UpdateUser(ctx, me, up)
	})
}

// UpdateRoute edits a route authored by the caller.
func (s *Service) UpdateRoute(ctx context.Context, id string, edit route.Edit) (route.Route, error) {
	if edit.Empty() {
		return route.Route{}, fmt.Errorf("%w: nothing to update", ErrBadRequest)
	}
	if err := validator.Validate(edit); err != nil {
		return route.Route{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if edit.Tags != nil {
		tags := route.NormalizeTags(*edit.Tags)
		edit.Tags = &tags
	}
	if edit.ImageURL != nil && *edit.ImageURL != "" {
		url, err := s.images.Encode(ctx, *edit.ImageURL)
		if err != nil {
			return route.Route{}, fmt.Errorf("%w: image: %v", ErrBadRequest, err)
		}
		edit.ImageURL = &url
	}

	err := s.run(ctx, "update route", func(m *mirror, mut *Mutation) error {
		r := m.route(id)
		if r == nil {
			return route.ErrNotFound
		}
		if r.AuthorID != m.userID {
			return ErrForbidden
		}
		return mut.updateRoute(m, id, edit)
	}, func(ctx context.Context) error {
		return s.remote.UpdateRoute(ctx, id, edit)
	})
	if err != nil {
		return route.Route{}, err
	}
	return s.Route(id)
}

// RecommendRoutes asks the assistant to pick routes for query among the routes the caller can browse.
func (s *Service) RecommendRoutes(ctx context.Context, query string, favoritesOnly bool) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrBadRequest)
	}
	if s.assistant == nil {
		return nil, ai.ErrUnavailable
	}

	s.mu.RLock()
	if !s.m.loggedIn() {
		s.mu.RUnlock()
		return nil, ErrNotLoggedIn
	}
	me := s.m.userID
	candidates := route.Candidates(s.m.routes, me, favoritesOnly)
	summaries := make([]route.Summary, len(candidates))
	for i, r := range candidates {
		summaries[i] = r.Summary()
	}
	s.mu.RUnlock()

	if len(summaries) == 0 {
		return []string{}, nil
	}
	ids, err := s.assistant.Recommend(ctx, me, query, summaries)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GenerateDescription drafts a description for a route about to be saved.
func (s *Service) GenerateDescription(ctx context.Context, req ai.DescriptionRequest) (string, error) {
	if err := validator.Validate(req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if s.assistant == nil {
		return ai.DescriptionUnavailable, nil
	}
	me, err := s.userID()
	if err != nil {
		return "", err
	}
	return s.assistant.Describe(ctx, me, req)
}

func (s *Service) userID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.m.loggedIn() {
		return "", ErrNotLoggedIn
	}
	return s.m.userID, nil
}

// Routes returns a copy of the mirrored routes, newest first.
func (s *Service) Routes() []route.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]route.Route, len(s.m.routes))
	for i, r := range s.m.routes {
		out[i] = r.Clone()
	}
	return out
}

func (s *Service) Users() []user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]user.User, len(s.m.users))
	for i, u := range s.m.users {
		out[i] = u.Clone()
	}
	return out
}

func (s *Service) CurrentUser() (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.m.loggedIn() {
		return user.User{}, ErrNotLoggedIn
	}
	return s.m.current().Clone(), nil
}

func (s *Service) Route(id string) (route.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.m.route(id)
	if r == nil {
		return route.Route{}, route.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *Service) User(id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.m.user(id)
	if u == nil {
		return user.User{}, user.ErrNotFound
	}
	return u.Clone(), nil
}

// FilterRoutes applies p to the mirrored routes on behalf of the caller.
func (s *Service) FilterRoutes(p route.Params) []route.Route {
	s.mu.RLock()
	p.ViewerID = s.m.userID
	s.mu.RUnlock()
	return route.Filter(s.Routes(), p)
}

// Tags lists the tags of routes the caller can browse.
func (s *Service) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return route.AllTags(s.m.routes, s.m.userID)
}

// SearchUsers finds other searchable users by name prefix.
func (s *Service) SearchUsers(query string) []user.User {
	me, _ := s.userID()
	return user.Search(s.Users(), me, query)
}
