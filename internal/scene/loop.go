package scene

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/sirupsen/logrus"
)

const inboxSize = 64

// Loop drives one scene at a fixed frame rate on a single goroutine.
type Loop struct {
	scene    Scene
	interval time.Duration
	onFrame  func(Scene)
	log      *logrus.Entry

	mu      sync.Mutex
	inbox   chan func(Scene)
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool

	frames atomic.Uint64
	last   atomic.Int64
}

// NewLoop creates a stopped loop. Non-positive fps defaults to 60.
func NewLoop(s Scene, fps int, log *logrus.Entry) *Loop {
	if fps <= 0 {
		fps = 60
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Loop{
		scene:    s,
		interval: time.Second / time.Duration(fps),
		log:      log.WithField("scene", s.Name()),
		inbox:    make(chan func(Scene), inboxSize),
		done:     make(chan struct{}),
	}
}

// OnFrame registers a callback run on the loop goroutine after every frame.
// It must be set before Start.
func (l *Loop) OnFrame(fn func(Scene)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		l.onFrame = fn
	}
}

// Start launches the loop goroutine. It reports false when the loop was
// already started or has been stopped, so repeated mounts never register a
// second callback.
func (l *Loop) Start(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.stopped {
		return false
	}
	l.started = true

	ctx, l.cancel = context.WithCancel(ctx)
	go l.run(ctx)
	l.log.Debug("loop started")
	return true
}

func (l *Loop) run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer func() {
		ticker.Stop()
		// Posts are rejected once the goroutine is gone.
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()
		l.scene.Release()
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.inbox:
			fn(l.scene)
		case <-ticker.C:
			start := time.Now()
			Frame(l.scene)
			l.last.Store(int64(time.Since(start)))
			l.frames.Add(1)
			if l.onFrame != nil {
				l.onFrame(l.scene)
			}
		}
	}
}

// Post queues fn to run on the loop goroutine before the next frame. It
// returns false once the loop is stopped or when the inbox is full.
func (l *Loop) Post(fn func(Scene)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false
	}
	select {
	case l.inbox <- fn:
		return true
	default:
		l.log.Warn("event dropped: inbox full")
		return false
	}
}

// Stop cancels the loop and blocks until its goroutine has exited and the
// scene surface is released. Stopping twice is harmless.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.stopped = true
	started := l.started
	cancel := l.cancel
	l.mu.Unlock()

	if started {
		cancel()
		<-l.done
	} else {
		l.scene.Release()
		close(l.done)
	}
	// Events queued after the last frame are detached, not run.
	close(l.inbox)
	l.log.WithField("frames", l.frames.Load()).Debug("loop stopped")
}

// Done is closed once the loop has fully stopped.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Frames returns the number of frames rendered so far.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// LastFrame is how long the most recent step and render took.
func (l *Loop) LastFrame() time.Duration { return time.Duration(l.last.Load()) }

// Scene returns the driven scene. Access it only through Post while running.
func (l *Loop) Scene() Scene { return l.scene }

// Resize posts a viewport change.
func (l *Loop) Resize(vp dynamo.Viewport) bool {
	return l.Post(func(s Scene) {
		if err := s.Resize(vp); err != nil {
			l.log.WithError(err).Debug("resize")
		}
	})
}

// SetRunning posts a motion flag change.
func (l *Loop) SetRunning(running bool) bool {
	return l.Post(func(s Scene) { s.SetRunning(running) })
}

// Pointer posts fn when the scene accepts pointer input. Scenes without
// pointer input report false without posting.
func (l *Loop) Pointer(fn func(PointerHandler)) bool {
	if _, ok := l.scene.(PointerHandler); !ok {
		return false
	}
	return l.Post(func(s Scene) { fn(s.(PointerHandler)) })
}
