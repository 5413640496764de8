package scene

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/sirupsen/logrus"
)

// Host mounts scenes by key and forwards host-level signals to them.
type Host struct {
	ctx     context.Context
	fps     int
	log     *logrus.Entry
	mu      sync.Mutex
	loops   map[string]*Loop
	running bool
}

func NewHost(ctx context.Context, fps int, log *logrus.Entry) *Host {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Host{
		ctx:     ctx,
		fps:     fps,
		log:     log,
		loops:   make(map[string]*Loop),
		running: true,
	}
}

// Mount sizes s to vp and starts its loop under key. Mounting a key that is
// already mounted returns the existing loop and leaves s untouched.
func (h *Host) Mount(key string, s Scene, vp dynamo.Viewport, onFrame func(Scene)) (*Loop, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if l, ok := h.loops[key]; ok {
		h.log.WithField("key", key).Debug("already mounted")
		return l, false
	}

	if err := s.Resize(vp); err != nil {
		h.log.WithError(err).WithField("key", key).Warn("mount without surface")
	}
	s.SetRunning(h.running)

	l := NewLoop(s, h.fps, h.log)
	l.OnFrame(onFrame)
	l.Start(h.ctx)
	h.loops[key] = l
	return l, true
}

// Get returns the loop mounted under key.
func (h *Host) Get(key string) (*Loop, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.loops[key]
	return l, ok
}

// Keys returns the mounted keys in sorted order.
func (h *Host) Keys() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := make([]string, 0, len(h.loops))
	for k := range h.loops {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Unmount stops the loop under key and releases its scene.
func (h *Host) Unmount(key string) bool {
	h.mu.Lock()
	l, ok := h.loops[key]
	delete(h.loops, key)
	h.mu.Unlock()

	if !ok {
		return false
	}
	l.Stop()
	return true
}

// UnmountAll stops every mounted loop.
func (h *Host) UnmountAll() {
	h.mu.Lock()
	loops := h.loops
	h.loops = make(map[string]*Loop)
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, l := range loops {
		wg.Add(1)
		go func(l *Loop) {
			defer wg.Done()
			l.Stop()
		}(l)
	}
	wg.Wait()
}

// SetRunning forwards the motion flag to every mounted scene and to scenes
// mounted later.
func (h *Host) SetRunning(running bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = running
	for _, l := range h.loops {
		l.SetRunning(running)
	}
}

func (h *Host) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Resize posts a viewport change to the scene under key.
func (h *Host) Resize(key string, vp dynamo.Viewport) error {
	l, ok := h.Get(key)
	if !ok {
		return dynamo.ErrUnknownScene
	}
	if !l.Resize(vp) {
		return dynamo.ErrLoopStopped
	}
	return nil
}

// Pointer dispatches pointer input to the scene under key.
func (h *Host) Pointer(key string, fn func(PointerHandler)) error {
	l, ok := h.Get(key)
	if !ok {
		return dynamo.ErrUnknownScene
	}
	if _, ok := l.Scene().(PointerHandler); !ok {
		return fmt.Errorf("%q: %w", key, dynamo.ErrNoPointer)
	}
	if !l.Pointer(fn) {
		return dynamo.ErrLoopStopped
	}
	return nil
}
