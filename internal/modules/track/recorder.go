package track

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"strollpath/internal/geo"
	"strollpath/internal/types"
)

// TickerFunc starts a periodic ticker and returns its channel and a stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// session is one Recording period. Its subscriptions are cancelled exactly once.
type session struct {
	cancel context.CancelFunc
	watch  Watch
	stopTk func()
	once   sync.Once
	exited chan struct{}
}

func (s *session) halt() {
	s.once.Do(func() {
		s.cancel()
		s.watch.Cancel()
		s.stopTk()
	})
}

// Recorder turns a stream of location fixes into a distance/time/step measurement
// plus the ordered path. Ticks and fixes of a session are applied by a single
// goroutine, so every distance update reads the authoritative previous point.
type Recorder struct {
	source    LocationSource
	newTicker TickerFunc
	opts      WatchOptions
	log       *zap.Logger

	mu      sync.RWMutex
	state   Track
	current *session
}

type Option func(*Recorder)

// WithTicker replaces the one-second wall clock ticker.
func WithTicker(fn TickerFunc) Option {
	return func(r *Recorder) { r.newTicker = fn }
}

func WithWatchOptions(opts WatchOptions) Option {
	return func(r *Recorder) { r.opts = opts }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Recorder) { r.log = l }
}

// NewRecorder creates an idle recorder. A nil source makes Start fail with ErrUnsupported.
func NewRecorder(source LocationSource, opts ...Option) *Recorder {
	r := &Recorder{
		source:    source,
		newTicker: realTicker,
		opts:      DefaultWatchOptions,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start resets all accumulators and begins recording. An active session is stopped first.
func (r *Recorder) Start(ctx context.Context) error {
	if r.source == nil {
		r.mu.Lock()
		r.state.Error = UnsupportedMessage
		r.mu.Unlock()
		return ErrUnsupported
	}

	r.Stop()

	sessCtx, cancel := context.WithCancel(ctx)
	watch, err := r.source.Watch(sessCtx, r.opts)
	if err != nil {
		cancel()
		r.mu.Lock()
		r.state.Error = fmt.Sprintf("Geolocation error: %v", err)
		r.mu.Unlock()
		return fmt.Errorf("start location watch: %w", err)
	}
	ticks, stopTicker := r.newTicker(time.Second)

	s := &session{
		cancel: cancel,
		watch:  watch,
		stopTk: stopTicker,
		exited: make(chan struct{}),
	}

	r.mu.Lock()
	r.state = Track{Path: []types.Coordinate{}, Recording: true}
	r.current = s
	r.mu.Unlock()

	go r.run(sessCtx, s, ticks)
	return nil
}

// Stop cancels the timer and the location watch and leaves the accumulated values in place.
// Fixes the source delivered before Stop are applied before it returns.
// Calling Stop while idle is a no-op.
func (r *Recorder) Stop() {
	r.mu.RLock()
	s := r.current
	r.mu.RUnlock()

	if s == nil {
		return
	}
	s.halt()
	<-s.exited
	r.finish(s)
}

// finish returns the recorder to Idle if s is still the active session.
func (r *Recorder) finish(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == s {
		r.current = nil
		r.state.Recording = false
	}
}

// Snapshot returns a copy of the current track.
func (r *Recorder) Snapshot() Track {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.state
	out.Path = append([]types.Coordinate(nil), r.state.Path...)
	return out
}

// Recording reports whether a session is active.
func (r *Recorder) Recording() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current != nil
}

func (r *Recorder) run(ctx context.Context, s *session, ticks <-chan time.Time) {
	defer close(s.exited)

	fixes := s.watch.Fixes()
	errs := s.watch.Errors()
	for {
		select {
		case <-ctx.Done():
			r.drain(s, fixes)
			r.finish(s)
			return
		case _, ok := <-ticks:
			if !ok {
				ticks = nil
				continue
			}
			r.tick(s)
		case f, ok := <-fixes:
			if !ok {
				fixes = nil
				continue
			}
			r.accept(s, f)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			r.drain(s, fixes)
			r.fail(s, err)
			return
		}
	}
}

func (r *Recorder) tick(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != s {
		return
	}
	r.state.ElapsedSeconds++
}

func (r *Recorder) accept(s *session, f Fix) {
	c := f.Coordinate()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != s {
		return
	}
	if n := len(r.state.Path); n > 0 {
		r.state.DistanceMiles += geo.HaversineMiles(r.state.Path[n-1], c)
		r.state.Steps = geo.StepsForMiles(r.state.DistanceMiles)
	}
	r.state.Path = append(r.state.Path, c)
}

// drain applies fixes that were already queued when the session ended.
func (r *Recorder) drain(s *session, fixes <-chan Fix) {
	if fixes == nil {
		return
	}
	for {
		select {
		case f, ok := <-fixes:
			if !ok {
				return
			}
			r.accept(s, f)
		default:
			return
		}
	}
}

// fail records the stream error and returns the recorder to Idle. The partial
// track stays readable.
func (r *Recorder) fail(s *session, err error) {
	r.mu.Lock()
	if r.current != s {
		r.mu.Unlock()
		return
	}
	r.current = nil
	r.state.Recording = false
	r.state.Error = fmt.Sprintf("Geolocation error: %v", err)
	points := len(r.state.Path)
	s.halt()
	r.mu.Unlock()

	r.log.Warn("location stream failed, recording stopped",
		zap.Error(err), zap.Int("points", points))
}
