// README: Per-user session registry. Each signed-in user owns one synchronizer mirror and
// one track recorder fed by fixes pushed from the device.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"strollpath/internal/modules/synchronizer"
	"strollpath/internal/modules/track"
	"strollpath/internal/modules/user"
)

type Session struct {
	UserID   string
	Sync     *synchronizer.Service
	Recorder *track.Recorder
	Location *track.ChannelSource
}

// SyncFactory builds an unauthenticated synchronizer for a new session.
type SyncFactory func(log *zap.Logger) *synchronizer.Service

type Registry struct {
	newSync SyncFactory
	log     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(newSync SyncFactory, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{newSync: newSync, log: log, sessions: map[string]*Session{}}
}

// Login opens the caller's session, or refreshes its mirror from the remote store if one exists.
func (r *Registry) Login(ctx context.Context, p synchronizer.Profile) (*Session, user.User, error) {
	r.mu.Lock()
	s, ok := r.sessions[p.ID]
	if !ok {
		log := r.log.With(zap.String("user_id", p.ID))
		source := track.NewChannelSource()
		s = &Session{
			UserID:   p.ID,
			Sync:     r.newSync(log),
			Recorder: track.NewRecorder(source, track.WithLogger(log)),
			Location: source,
		}
	}
	r.mu.Unlock()

	me, err := s.Sync.Login(ctx, p)
	if err != nil {
		return nil, user.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[p.ID]; ok && existing != s {
		// A concurrent login registered first.
		return existing, me, nil
	}
	r.sessions[p.ID] = s
	return s, me, nil
}

// Get returns the open session of uid.
func (r *Registry) Get(uid string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[uid]
	if !ok {
		return nil, synchronizer.ErrNotLoggedIn
	}
	return s, nil
}

// Logout stops the recorder of uid and forgets the session.
func (r *Registry) Logout(uid string) {
	r.mu.Lock()
	s, ok := r.sessions[uid]
	delete(r.sessions, uid)
	r.mu.Unlock()
	if ok {
		s.Recorder.Stop()
	}
}

// Close stops every recorder.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = map[string]*Session{}
	r.mu.Unlock()
	for _, s := range sessions {
		s.Recorder.Stop()
	}
}
