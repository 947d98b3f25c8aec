package synchronizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strollpath/internal/store/memory"
	"strollpath/internal/store/seed"
)

func TestAgainstMemoryStore_RemoteMatchesMirror(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(nil)
	require.NoError(t, store.Seed(ctx))

	s := NewService(store, WithIDGenerator(func() string { return "walk-1" }))
	_, err := s.Login(ctx, Profile{ID: "me", Name: "Me"})
	require.NoError(t, err)

	_, err = s.ToggleLike(ctx, "seed-puffers-pond")
	require.NoError(t, err)
	_, err = s.ToggleFollow(ctx, seed.BotUserID)
	require.NoError(t, err)
	_, err = s.CreateRoute(ctx, NewRoute{Name: "Lunch loop", Path: straightPath(20), DistanceMiles: 0.5})
	require.NoError(t, err)

	store.FailOn(memory.OpToggleLike, assert.AnError)
	_, err = s.ToggleLike(ctx, "seed-amherst-college")
	require.ErrorIs(t, err, ErrSyncFailed)

	fresh := NewService(store)
	_, err = fresh.Login(ctx, Profile{ID: "me"})
	require.NoError(t, err)

	for _, r := range s.Routes() {
		remote, err := fresh.Route(r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.IsLiked, remote.IsLiked, r.ID)
		assert.Equal(t, r.Likes, remote.Likes, r.ID)
	}
	local, _ := s.CurrentUser()
	remote, _ := fresh.CurrentUser()
	assert.Equal(t, local.Following, remote.Following)
	assert.Equal(t, local.LikedRoutes, remote.LikedRoutes)
	assert.Equal(t, local.Activity, remote.Activity)
	assert.Equal(t, "walk-1", fresh.Routes()[0].ID)
}
