package track

import (
	"context"
	"sync"
)

const fixBuffer = 256

// ChannelSource is a LocationSource fed by pushed fixes, e.g. a device posting
// its GPS samples over HTTP. At most one watch is active; a new Watch call
// cancels the previous one.
type ChannelSource struct {
	mu     sync.Mutex
	active *channelWatch
}

func NewChannelSource() *ChannelSource {
	return &ChannelSource{}
}

func (s *ChannelSource) Watch(ctx context.Context, _ WatchOptions) (Watch, error) {
	w := &channelWatch{
		fixes: make(chan Fix, fixBuffer),
		errs:  make(chan error, 1),
		done:  make(chan struct{}),
	}

	s.mu.Lock()
	prev := s.active
	s.active = w
	s.mu.Unlock()
	if prev != nil {
		prev.Cancel()
	}

	go func() {
		select {
		case <-ctx.Done():
			w.Cancel()
		case <-w.done:
		}
	}()
	return w, nil
}

// Push delivers fixes to the active watch in order.
func (s *ChannelSource) Push(ctx context.Context, fixes ...Fix) error {
	w := s.watch()
	if w == nil {
		return ErrNotWatching
	}
	for _, f := range fixes {
		select {
		case w.fixes <- f:
		case <-w.done:
			return ErrNotWatching
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Fail reports a stream error on the active watch.
func (s *ChannelSource) Fail(err error) error {
	w := s.watch()
	if w == nil {
		return ErrNotWatching
	}
	select {
	case w.errs <- err:
	case <-w.done:
		return ErrNotWatching
	default:
		// an error is already pending; the watch is about to end
	}
	return nil
}

func (s *ChannelSource) watch() *channelWatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.cancelled() {
		return nil
	}
	return s.active
}

type channelWatch struct {
	fixes chan Fix
	errs  chan error
	done  chan struct{}
	once  sync.Once
}

func (w *channelWatch) Fixes() <-chan Fix    { return w.fixes }
func (w *channelWatch) Errors() <-chan error { return w.errs }

func (w *channelWatch) Cancel() {
	w.once.Do(func() { close(w.done) })
}

func (w *channelWatch) cancelled() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}
