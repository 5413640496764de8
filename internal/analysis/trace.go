package analysis

import "github.com/san-kum/genviz/internal/scene"

// Trace records one mean-luminance sample per observed frame. Frames without
// a surface are skipped.
type Trace struct {
	samples []float64
	limit   int
}

// NewTrace keeps at most limit samples, dropping the oldest. Zero keeps all.
func NewTrace(limit int) *Trace {
	return &Trace{limit: limit}
}

func (t *Trace) OnFrame(s scene.Scene, _ int) {
	surf := s.Surface()
	img := surf.Image()
	if img == nil {
		return
	}
	t.samples = append(t.samples, surf.Luminance(img.Rect))
	if t.limit > 0 && len(t.samples) > t.limit {
		t.samples = t.samples[len(t.samples)-t.limit:]
	}
}

func (t *Trace) Samples() []float64 { return append([]float64(nil), t.samples...) }

func (t *Trace) Reset() { t.samples = t.samples[:0] }
