package optim

import (
	"errors"
	"testing"

	"github.com/san-kum/genviz/internal/config"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in   string
		name string
		want []float64
	}{
		{"fractal.max_iter=100:300:3", "fractal.max_iter", []float64{100, 200, 300}},
		{"aura.count=5, 10,20", "aura.count", []float64{5, 10, 20}},
		{"seed=7", "seed", []float64{7}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, values, err := ParseAxis(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if name != tt.name || len(values) != len(tt.want) {
				t.Fatalf("got %s %v", name, values)
			}
			for i := range values {
				if values[i] != tt.want[i] {
					t.Errorf("values = %v, want %v", values, tt.want)
				}
			}
		})
	}
}

func TestParseAxisErrors(t *testing.T) {
	for _, in := range []string{"fractal.max_iter", "=1", "fractal.max_iter=1:2:0", "fractal.max_iter=a,b"} {
		if _, _, err := ParseAxis(in); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
	if _, _, err := ParseAxis("nope=1"); !errors.Is(err, config.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
