// README: In-process remote store. Used for local development and tests; supports injected write failures.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"strollpath/internal/modules/route"
	"strollpath/internal/modules/user"
	"strollpath/internal/store/seed"
)

// Operation names accepted by FailOn.
const (
	OpLoadProfile  = "load_profile"
	OpFetchAll     = "fetch_all"
	OpCreateRoute  = "create_route"
	OpUpdateRoute  = "update_route"
	OpUpdateUser   = "update_user"
	OpToggleLike   = "toggle_like"
	OpToggleFollow = "toggle_follow"
)

type Store struct {
	mu     sync.Mutex
	users  map[string]user.User
	routes map[string]route.Route
	fail   map[string]error
	now    func() time.Time
	log    *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		users:  map[string]user.User{},
		routes: map[string]route.Route{},
		fail:   map[string]error{},
		now:    time.Now,
		log:    log,
	}
}

// FailOn makes every later call of op return err. A nil err clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *Store) injected(op string) error {
	if err := s.fail[op]; err != nil {
		s.log.Debug("injected store failure", zap.String("op", op), zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) LoadProfile(_ context.Context, fallback user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(OpLoadProfile); err != nil {
		return user.User{}, err
	}
	if u, ok := s.users[fallback.ID]; ok {
		return u.Clone(), nil
	}
	s.users[fallback.ID] = fallback.Clone()
	return fallback.Clone(), nil
}

// FetchAll returns users by ID and routes newest first.
func (s *Store) FetchAll(context.Context) ([]user.User, []route.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(OpFetchAll); err != nil {
		return nil, nil, err
	}

	users := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	routes := make([]route.Route, 0, len(s.routes))
	for _, r := range s.routes {
		routes = append(routes, r.Clone())
	}
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].CreatedAt.Equal(routes[j].CreatedAt) {
			return routes[i].ID < routes[j].ID
		}
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})
	return users, routes, nil
}

func (s *Store) CreateRoute(_ context.Context, r route.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(OpCreateRoute); err != nil {
		return err
	}
	stored := r.Clone()
	stored.Likes = 0
	stored.IsLiked = false
	stored.CreatedAt = s.now()
	s.routes[r.ID] = stored
	return nil
}

func (s *Store) UpdateRoute(_ context.Context, id string, edit route.Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(OpUpdateRoute); err != nil {
		return err
	}
	r, ok := s.routes[id]
	if !ok {
		return route.ErrNotFound
	}
	edit.Apply(&r)
	s.routes[id] = r
	return nil
}

func (s *Store) UpdateUser(_ context.Context, id string, up user.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(OpUpdateUser); err != nil {
		return err
	}
	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u = u.Clone()
	up.Apply(&u)
	s.users[id] = u
	return nil
}

func (s *Store) ToggleLike(_ context.Context, userID, routeID string, like bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(OpToggleLike); err != nil {
		return err
	}
	r, ok := s.routes[routeID]
	if !ok {
		return route.ErrNotFound
	}
	u, ok := s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	if like == u.Likes(routeID) {
		return nil
	}
	if like {
		u.LikedRoutes = user.AddUnique(u.LikedRoutes, routeID)
		r.Likes++
	} else {
		u.LikedRoutes = user.Remove(u.LikedRoutes, routeID)
		r.Likes = max(r.Likes-1, 0)
	}
	s.users[userID] = u
	s.routes[routeID] = r
	return nil
}

func (s *Store) ToggleFollow(_ context.Context, actorID, targetID string, follow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(OpToggleFollow); err != nil {
		return err
	}
	actor, ok := s.users[actorID]
	if !ok {
		return user.ErrNotFound
	}
	target, ok := s.users[targetID]
	if !ok {
		return user.ErrNotFound
	}
	if follow {
		actor.Following = user.AddUnique(actor.Following, targetID)
		target.Followers = user.AddUnique(target.Followers, actorID)
	} else {
		actor.Following = user.Remove(actor.Following, targetID)
		target.Followers = user.Remove(target.Followers, actorID)
	}
	s.users[actorID] = actor
	s.users[targetID] = target
	return nil
}

// Seed loads the bot user and starter routes when no route exists.
func (s *Store) Seed(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.routes) > 0 {
		return nil
	}
	bot := seed.Bot()
	s.users[bot.ID] = bot
	for _, r := range seed.Routes(s.now()) {
		s.routes[r.ID] = r
	}
	s.log.Info("memory store seeded", zap.Int("routes", len(s.routes)))
	return nil
}
