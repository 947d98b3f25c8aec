// README: Firestore-backed remote store for users and routes.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	fs "cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"strollpath/internal/modules/route"
	"strollpath/internal/modules/user"
	"strollpath/internal/store/seed"
)

const (
	usersCollection  = "users"
	routesCollection = "routes"
)

type Store struct {
	client *fs.Client
	log    *zap.Logger
}

func NewStore(client *fs.Client, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{client: client, log: log}
}

func (s *Store) users() *fs.CollectionRef  { return s.client.Collection(usersCollection) }
func (s *Store) routes() *fs.CollectionRef { return s.client.Collection(routesCollection) }

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// LoadProfile returns the stored profile, creating it from fallback on first login.
// Profiles written before step goals existed get the missing fields backfilled.
func (s *Store) LoadProfile(ctx context.Context, fallback user.User) (user.User, error) {
	ref := s.users().Doc(fallback.ID)
	snap, err := ref.Get(ctx)
	if isNotFound(err) {
		if _, err := ref.Set(ctx, encodeUser(fallback)); err != nil {
			return user.User{}, fmt.Errorf("create profile: %w", err)
		}
		s.log.Info("profile created", zap.String("user_id", fallback.ID))
		return fallback, nil
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get profile: %w", err)
	}

	data := snap.Data()
	u, err := decodeUser(snap.Ref.ID, data)
	if err != nil {
		return user.User{}, err
	}

	var backfill []fs.Update
	if _, ok := data["dailyStepGoal"]; !ok {
		backfill = append(backfill, fs.Update{Path: "dailyStepGoal", Value: user.DefaultDailyStepGoal})
	}
	if _, ok := data["activity"]; !ok {
		backfill = append(backfill, fs.Update{Path: "activity", Value: map[string]any{}})
	}
	if len(backfill) > 0 {
		if _, err := ref.Update(ctx, backfill); err != nil {
			return user.User{}, fmt.Errorf("backfill profile: %w", err)
		}
	}
	return u, nil
}

// FetchAll reads every user and every route, newest route first. Malformed documents are skipped.
func (s *Store) FetchAll(ctx context.Context) ([]user.User, []route.Route, error) {
	userDocs, err := s.users().Documents(ctx).GetAll()
	if err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}
	routeDocs, err := s.routes().OrderBy("createdAt", fs.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, nil, fmt.Errorf("list routes: %w", err)
	}

	users := make([]user.User, 0, len(userDocs))
	for _, doc := range userDocs {
		u, err := decodeUser(doc.Ref.ID, doc.Data())
		if err != nil {
			s.log.Warn("skipping user document", zap.Error(err))
			continue
		}
		users = append(users, u)
	}

	routes := make([]route.Route, 0, len(routeDocs))
	for _, doc := range routeDocs {
		r, err := decodeRoute(doc.Ref.ID, doc.Data())
		if err != nil {
			s.log.Warn("skipping route document", zap.Error(err))
			continue
		}
		routes = append(routes, r)
	}
	return users, routes, nil
}

func (s *Store) CreateRoute(ctx context.Context, r route.Route) error {
	_, err := s.routes().Doc(r.ID).Create(ctx, encodeRoute(r))
	return err
}

func (s *Store) UpdateRoute(ctx context.Context, id string, edit route.Edit) error {
	ups := routeUpdates(edit)
	if len(ups) == 0 {
		return nil
	}
	_, err := s.routes().Doc(id).Update(ctx, ups)
	if isNotFound(err) {
		return route.ErrNotFound
	}
	return err
}

func (s *Store) UpdateUser(ctx context.Context, id string, up user.Update) error {
	ups := userUpdates(up)
	if len(ups) == 0 {
		return nil
	}
	_, err := s.users().Doc(id).Update(ctx, ups)
	if isNotFound(err) {
		return user.ErrNotFound
	}
	return err
}

// ToggleLike updates the liked set and the route counter in one transaction.
// Liking an already liked route (or unliking one that is not) changes nothing.
// The counter is not decremented below zero.
func (s *Store) ToggleLike(ctx context.Context, userID, routeID string, like bool) error {
	userRef := s.users().Doc(userID)
	routeRef := s.routes().Doc(routeID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(routeRef)
		if isNotFound(err) {
			return route.ErrNotFound
		}
		if err != nil {
			return err
		}
		userSnap, err := tx.Get(userRef)
		if isNotFound(err) {
			return user.ErrNotFound
		}
		if err != nil {
			return err
		}
		liked, _ := stringSlice(userSnap.Data()["likedRoutes"])
		if like == user.Contains(liked, routeID) {
			return nil
		}

		if like {
			if err := tx.Update(userRef, []fs.Update{{Path: "likedRoutes", Value: fs.ArrayUnion(routeID)}}); err != nil {
				return err
			}
			return tx.Update(routeRef, []fs.Update{{Path: "likes", Value: fs.Increment(1)}})
		}

		if err := tx.Update(userRef, []fs.Update{{Path: "likedRoutes", Value: fs.ArrayRemove(routeID)}}); err != nil {
			return err
		}
		if likes, _ := number(snap.Data()["likes"]); likes <= 0 {
			return nil
		}
		return tx.Update(routeRef, []fs.Update{{Path: "likes", Value: fs.Increment(-1)}})
	})
}

// ToggleFollow updates both sides of the follow edge in one transaction.
func (s *Store) ToggleFollow(ctx context.Context, actorID, targetID string, follow bool) error {
	actorRef := s.users().Doc(actorID)
	targetRef := s.users().Doc(targetID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		if _, err := tx.Get(targetRef); err != nil {
			if isNotFound(err) {
				return user.ErrNotFound
			}
			return err
		}

		var following, followers interface{} = fs.ArrayUnion(targetID), fs.ArrayUnion(actorID)
		if !follow {
			following, followers = fs.ArrayRemove(targetID), fs.ArrayRemove(actorID)
		}
		if err := tx.Update(actorRef, []fs.Update{{Path: "following", Value: following}}); err != nil {
			return err
		}
		return tx.Update(targetRef, []fs.Update{{Path: "followers", Value: followers}})
	})
}

// Seed writes the bot user and starter routes when the routes collection is empty.
func (s *Store) Seed(ctx context.Context) error {
	existing, err := s.routes().Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("check routes: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	s.log.Info("routes collection is empty, seeding initial data")
	bot := seed.Bot()
	if _, err := s.users().Doc(bot.ID).Set(ctx, encodeUser(bot)); err != nil {
		return fmt.Errorf("seed bot user: %w", err)
	}
	var errs []error
	for _, r := range seed.Routes(time.Now()) {
		if err := s.CreateRoute(ctx, r); err != nil {
			s.log.Error("seed route failed", zap.String("route_id", r.ID), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
