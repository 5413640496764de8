package aura

import (
	"testing"

	"github.com/san-kum/genviz/internal/dynamo"
)

func TestMotesStayNormalized(t *testing.T) {
	a := New(DefaultOptions(), nil)
	if err := a.Resize(dynamo.NewViewport(240, 160, 2)); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5000; i++ {
		a.Step()
	}
	for _, m := range a.Motes() {
		if m.Pos.X < 0 || m.Pos.X > 1 || m.Pos.Y < 0 || m.Pos.Y > 1 {
			t.Fatalf("mote escaped: %+v", m.Pos)
		}
	}
}

func TestPausedHoldsMotes(t *testing.T) {
	a := New(DefaultOptions(), nil)
	if err := a.Resize(dynamo.NewViewport(100, 100, 1)); err != nil {
		t.Fatal(err)
	}
	a.SetRunning(false)
	before := a.Motes()
	a.Step()
	a.Render()
	for i, m := range a.Motes() {
		if m != before[i] {
			t.Fatalf("mote %d moved", i)
		}
	}
	if a.Surface().Luminance(a.Surface().Image().Rect) <= 0 {
		t.Error("empty render")
	}
}

func TestRanges(t *testing.T) {
	for _, m := range New(Options{Count: 200, Seed: 1}, nil).Motes() {
		if m.Radius < 1 || m.Radius > 3.2 || m.Speed < 0.4 || m.Speed > 1.6 || m.Hue < 0 || m.Hue > 359 {
			t.Fatalf("mote out of range: %+v", m)
		}
	}
}
