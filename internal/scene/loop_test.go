package scene_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/scene"
)

type tracer struct {
	scene.Base
	steps    atomic.Int64
	renders  atomic.Int64
	order    []string
	orderMu  sync.Mutex
	pointers atomic.Int64
}

func newTracer() *tracer {
	return &tracer{Base: scene.NewBase("tracer", nil)}
}

func (p *tracer) Resize(vp dynamo.Viewport) error { return p.Allocate(vp) }

func (p *tracer) Step() {
	if p.Running() {
		p.steps.Add(1)
	}
	p.record("step")
}

func (p *tracer) Render() {
	if p.Ready() {
		p.Surface().Clear()
	}
	p.renders.Add(1)
	p.record("render")
}

func (p *tracer) record(s string) {
	p.orderMu.Lock()
	defer p.orderMu.Unlock()
	if len(p.order) < 16 {
		p.order = append(p.order, s)
	}
}

func (p *tracer) PointerDown(x, y float64)        { p.pointers.Add(1) }
func (p *tracer) PointerMove(x, y float64)        {}
func (p *tracer) PointerUp()                      {}
func (p *tracer) Wheel(x, y, deltaY float64) bool { return true }

// still is a scene without pointer input.
type still struct{ scene.Base }

func newStill() *still { return &still{Base: scene.NewBase("still", nil)} }

func (s *still) Resize(vp dynamo.Viewport) error { return s.Allocate(vp) }
func (s *still) Step()                           {}
func (s *still) Render()                         {}

var vp = dynamo.NewViewport(32, 24, 1)

func ask[T any](l *scene.Loop, fn func(scene.Scene) T) T {
	ch := make(chan T, 1)
	if !l.Post(func(s scene.Scene) { ch <- fn(s) }) {
		var zero T
		return zero
	}
	return <-ch
}

func running(l *scene.Loop) func() bool {
	return func() bool { return ask(l, scene.Scene.Running) }
}

var _ = Describe("Loop", func() {
	var (
		p    *tracer
		loop *scene.Loop
	)

	BeforeEach(func() {
		p = newTracer()
		Expect(p.Resize(vp)).To(Succeed())
		loop = scene.NewLoop(p, 240, nil)
	})

	AfterEach(func() {
		loop.Stop()
	})

	It("renders frames once started", func() {
		Expect(loop.Start(context.Background())).To(BeTrue())
		Eventually(loop.Frames, time.Second).Should(BeNumerically(">=", 3))
		Expect(loop.LastFrame()).To(BeNumerically(">", 0))
	})

	It("steps before it renders", func() {
		loop.Start(context.Background())
		Eventually(loop.Frames, time.Second).Should(BeNumerically(">=", 2))
		loop.Stop()
		Expect(p.order[:4]).To(Equal([]string{"step", "render", "step", "render"}))
	})

	It("ignores a second start", func() {
		Expect(loop.Start(context.Background())).To(BeTrue())
		Expect(loop.Start(context.Background())).To(BeFalse())
	})

	It("releases the surface on stop", func() {
		loop.Start(context.Background())
		Eventually(loop.Frames, time.Second).Should(BeNumerically(">=", 1))
		loop.Stop()
		Expect(p.Surface()).To(BeNil())
		Eventually(loop.Done()).Should(BeClosed())
	})

	It("stops rendering after stop", func() {
		loop.Start(context.Background())
		Eventually(loop.Frames, time.Second).Should(BeNumerically(">=", 1))
		loop.Stop()
		n := p.renders.Load()
		Consistently(p.renders.Load, 50*time.Millisecond).Should(Equal(n))
	})

	It("rejects posts after stop", func() {
		loop.Start(context.Background())
		loop.Stop()
		Expect(loop.Post(func(scene.Scene) {})).To(BeFalse())
		Expect(loop.SetRunning(false)).To(BeFalse())
	})

	It("stops cleanly without being started", func() {
		loop.Stop()
		Expect(loop.Start(context.Background())).To(BeFalse())
		Eventually(loop.Done()).Should(BeClosed())
	})

	It("ends when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		loop.Start(ctx)
		cancel()
		Eventually(loop.Done(), time.Second).Should(BeClosed())
	})

	It("rejects posts after its context ends", func() {
		ctx, cancel := context.WithCancel(context.Background())
		loop.Start(ctx)
		cancel()
		Eventually(loop.Done(), time.Second).Should(BeClosed())

		ran := make(chan struct{})
		Expect(loop.Post(func(scene.Scene) { close(ran) })).To(BeFalse())
		Expect(loop.Resize(vp)).To(BeFalse())
		Consistently(ran, 50*time.Millisecond).ShouldNot(BeClosed())
	})

	It("freezes steps but keeps rendering when paused", func() {
		loop.Start(context.Background())
		Expect(loop.SetRunning(false)).To(BeTrue())
		Eventually(running(loop), time.Second).Should(BeFalse())
		steps := p.steps.Load()
		renders := p.renders.Load()
		Eventually(p.renders.Load, time.Second).Should(BeNumerically(">", renders+2))
		Expect(p.steps.Load()).To(Equal(steps))
	})

	It("applies posted resizes on the loop goroutine", func() {
		loop.Start(context.Background())
		Expect(loop.Resize(dynamo.NewViewport(64, 48, 2))).To(BeTrue())
		Eventually(func() int {
			return ask(loop, func(s scene.Scene) int { return s.Surface().Image().Bounds().Dx() })
		}, time.Second).Should(Equal(128))
	})
})

var _ = Describe("Host", func() {
	var host *scene.Host

	BeforeEach(func() {
		host = scene.NewHost(context.Background(), 240, nil)
	})

	AfterEach(func() {
		host.UnmountAll()
	})

	It("does not register a second loop for the same key", func() {
		a, b := newTracer(), newTracer()
		first, mounted := host.Mount("hero", a, vp, nil)
		Expect(mounted).To(BeTrue())
		second, mounted := host.Mount("hero", b, vp, nil)
		Expect(mounted).To(BeFalse())
		Expect(second).To(BeIdenticalTo(first))
		Expect(host.Keys()).To(Equal([]string{"hero"}))
		Expect(b.Surface()).To(BeNil())
	})

	It("invokes the frame hook", func() {
		var hooked atomic.Int64
		host.Mount("hero", newTracer(), vp, func(scene.Scene) { hooked.Add(1) })
		Eventually(hooked.Load, time.Second).Should(BeNumerically(">=", 2))
	})

	It("forwards the motion flag to new and existing scenes", func() {
		la, _ := host.Mount("a", newTracer(), vp, nil)
		host.SetRunning(false)
		Eventually(running(la), time.Second).Should(BeFalse())

		b := newTracer()
		host.Mount("b", b, vp, nil)
		Expect(b.Running()).To(BeFalse())
	})

	It("dispatches pointer input", func() {
		p := newTracer()
		host.Mount("hero", p, vp, nil)
		Expect(host.Pointer("hero", func(h scene.PointerHandler) { h.PointerDown(1, 1) })).To(Succeed())
		Eventually(p.pointers.Load, time.Second).Should(Equal(int64(1)))
	})

	It("reports scenes without pointer input", func() {
		host.Mount("still", newStill(), vp, nil)
		err := host.Pointer("still", func(scene.PointerHandler) {})
		Expect(err).To(MatchError(dynamo.ErrNoPointer))
		Expect(err).NotTo(MatchError(dynamo.ErrLoopStopped))
	})

	It("reports loops whose context ended", func() {
		ctx, cancel := context.WithCancel(context.Background())
		h := scene.NewHost(ctx, 240, nil)
		defer h.UnmountAll()
		l, _ := h.Mount("hero", newTracer(), vp, nil)
		cancel()
		Eventually(l.Done(), time.Second).Should(BeClosed())
		Expect(h.Resize("hero", vp)).To(MatchError(dynamo.ErrLoopStopped))
		Expect(h.Pointer("hero", func(scene.PointerHandler) {})).To(MatchError(dynamo.ErrLoopStopped))
	})

	It("reports unknown keys", func() {
		Expect(host.Resize("missing", vp)).To(MatchError(dynamo.ErrUnknownScene))
		Expect(host.Unmount("missing")).To(BeFalse())
	})

	It("releases everything on unmount", func() {
		a, b := newTracer(), newTracer()
		host.Mount("a", a, vp, nil)
		host.Mount("b", b, vp, nil)
		Expect(host.Unmount("a")).To(BeTrue())
		Expect(a.Surface()).To(BeNil())
		host.UnmountAll()
		Expect(b.Surface()).To(BeNil())
		Expect(host.Keys()).To(BeEmpty())
	})
})
