package metrics

import (
	"time"

	"github.com/san-kum/genviz/internal/scene"
)

// Budget is the fraction of frames that finished within the frame budget.
type Budget struct {
	name       string
	budget     time.Duration
	violations int
	samples    int
}

func NewBudget(fps int) *Budget {
	if fps <= 0 {
		fps = 60
	}
	return &Budget{
		name:   "on_budget",
		budget: time.Second / time.Duration(fps),
	}
}

func (b *Budget) Name() string {
	return b.name
}

func (b *Budget) Observe(_ scene.Scene, elapsed time.Duration) {
	b.samples++
	if elapsed > b.budget {
		b.violations++
	}
}

func (b *Budget) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Budget) Reset() {
	b.violations = 0
	b.samples = 0
}
