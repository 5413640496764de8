package flowfield

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/integrators"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/surface"
	"github.com/sirupsen/logrus"
)

const Name = "flowfield"

type Options struct {
	Count      int
	Dt         float64
	Speed      float64
	TimeScale  float64
	Margin     float64
	MinLife    float64
	LifeJitter float64
	Integrator string
	Seed       int64

	TrailAlpha  float64
	StreamCols  int
	StreamRows  int
	StreamSteps int
	StreamStep  float64
	StreamAlpha float64
	// ParticleBlend is "lighter" or "over".
	ParticleBlend string
	BurstCount    int
	BurstRadius   float64
}

func DefaultOptions() Options {
	return Options{
		Count:         300,
		Dt:            0.85,
		Speed:         3,
		TimeScale:     0.006,
		Margin:        20,
		MinLife:       120,
		LifeJitter:    200,
		Integrator:    "midpoint",
		Seed:          1,
		TrailAlpha:    0.06,
		StreamCols:    10,
		StreamRows:    8,
		StreamSteps:   16,
		StreamStep:    6,
		StreamAlpha:   0.35,
		ParticleBlend: "lighter",
		BurstCount:    24,
		BurstRadius:   18,
	}
}

type Particle struct {
	Pos  dynamo.Vec2
	Life int
}

var (
	paper = surface.RGB255(255, 255, 255, 1)
	ink   = surface.RGB255(0, 0, 0, 1)

	blob = surface.NewGradient(
		surface.Stop{Offset: 0, Color: ink.WithAlpha(0.55)},
		surface.Stop{Offset: 0.7, Color: ink.WithAlpha(0.25)},
		surface.Stop{Offset: 1, Color: ink.WithAlpha(0)},
	)
)

// Swarm is the particle scene.
type Swarm struct {
	scene.Base
	opts    Options
	integ   integrators.Integrator
	rng     *rand.Rand
	field   Field
	parts   []Particle
	tick    int
	painted bool
	blend   surface.Op
}

func New(opts Options, log *logrus.Entry) (*Swarm, error) {
	integ, ok := integrators.ByName(opts.Integrator)
	if !ok {
		return nil, fmt.Errorf("flowfield: integrator %q: %w", opts.Integrator, dynamo.ErrInvalidConfig)
	}
	if opts.Margin < 0 || math.IsNaN(opts.Margin) {
		return nil, fmt.Errorf("flowfield: margin %v: %w", opts.Margin, dynamo.ErrInvalidConfig)
	}
	if opts.Count < 0 {
		opts.Count = 0
	}
	blend := surface.Lighter
	if opts.ParticleBlend == "over" {
		blend = surface.SourceOver
	}
	return &Swarm{
		Base:  scene.NewBase(Name, log),
		opts:  opts,
		integ: integ,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		parts: make([]Particle, opts.Count),
		blend: blend,
	}, nil
}

// Particles returns a copy of the pool.
func (s *Swarm) Particles() []Particle {
	return append([]Particle(nil), s.parts...)
}

// Tick returns the number of integrated frames.
func (s *Swarm) Tick() int { return s.tick }

func (s *Swarm) Resize(vp dynamo.Viewport) error {
	s.field = Field{W: vp.Width, H: vp.Height}
	s.painted = false
	for i := range s.parts {
		s.respawn(&s.parts[i])
	}
	return s.Allocate(vp)
}

func (s *Swarm) respawn(p *Particle) {
	p.Pos = dynamo.Vec2{X: s.rng.Float64() * s.field.W, Y: s.rng.Float64() * s.field.H}
	p.Life = int(s.opts.MinLife + s.rng.Float64()*s.opts.LifeJitter)
}

// Step integrates every particle one frame. Nothing advances while paused.
func (s *Swarm) Step() {
	if !s.Running() {
		return
	}
	s.tick++
	f := integrators.Scaled(s.field, s.opts.Speed)
	t := float64(s.tick) * s.opts.TimeScale
	for i := range s.parts {
		p := &s.parts[i]
		p.Pos = s.integ.Step(f, p.Pos, t, s.opts.Dt)
		p.Life--
		if p.Life <= 0 || !p.Pos.IsValid() || !p.Pos.In(s.field.W, s.field.H, s.opts.Margin) {
			s.respawn(p)
		}
	}
}

// Streamlines traces the ribbon grid at the current field time.
func (s *Swarm) Streamlines() [][]dynamo.Vec2 {
	cols, rows := s.opts.StreamCols, s.opts.StreamRows
	if cols <= 0 || rows <= 0 || s.field.W <= 0 || s.field.H <= 0 {
		return nil
	}
	t := float64(s.tick) * s.opts.TimeScale
	cw, rh := s.field.W/float64(cols), s.field.H/float64(rows)
	lines := make([][]dynamo.Vec2, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			start := dynamo.Vec2{X: (float64(c) + 0.5) * cw, Y: (float64(r) + 0.5) * rh}
			lines = append(lines, Streamline(s.field, start, t, s.opts.StreamSteps, s.opts.StreamStep))
		}
	}
	return lines
}

// Render fades the previous frame toward paper instead of clearing, so
// particles leave trails.
func (s *Swarm) Render() {
	if !s.Ready() {
		return
	}
	surf := s.Surface()
	if !s.painted {
		surf.Fill(paper, surface.Copy)
		s.painted = true
	} else {
		surf.Fill(paper.WithAlpha(s.opts.TrailAlpha), surface.SourceOver)
	}

	// Ribbons carry the alpha twice: once as layer opacity, once in the ink.
	ribbon := ink.WithAlpha(s.opts.StreamAlpha * s.opts.StreamAlpha)
	for _, line := range s.Streamlines() {
		surf.StrokePolyline(line, ribbon, surface.SourceOver)
	}

	for _, p := range s.parts {
		surf.FillRadial(p.Pos.X, p.Pos.Y, 2, 1.4, blob, s.blend)
	}
}

// PointerDown respawns a small burst of particles around the pointer.
func (s *Swarm) PointerDown(x, y float64) {
	if len(s.parts) == 0 {
		return
	}
	n := min(s.opts.BurstCount, len(s.parts))
	for i := 0; i < n; i++ {
		p := &s.parts[s.rng.Intn(len(s.parts))]
		ang := s.rng.Float64() * 2 * math.Pi
		r := s.rng.Float64() * s.opts.BurstRadius
		p.Pos = dynamo.Vec2{X: x + math.Cos(ang)*r, Y: y + math.Sin(ang)*r}
		p.Life = int(s.opts.MinLife + s.rng.Float64()*s.opts.LifeJitter)
	}
}

func (s *Swarm) PointerMove(x, y float64) {}
func (s *Swarm) PointerUp()               {}

// Wheel leaves scrolling to the host.
func (s *Swarm) Wheel(x, y, deltaY float64) bool { return false }

func (s *Swarm) Release() {
	s.painted = false
	s.Base.Release()
}

var (
	_ scene.Scene          = (*Swarm)(nil)
	_ scene.PointerHandler = (*Swarm)(nil)
)
