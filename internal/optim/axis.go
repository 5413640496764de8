package optim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/genviz/internal/config"
	"github.com/san-kum/genviz/internal/dynamo"
)

// ParseAxis reads one search axis as "name=lo:hi:n" or "name=v1,v2,...".
// The name must be a config tunable.
func ParseAxis(s string) (string, []float64, error) {
	name, rhs, ok := strings.Cut(s, "=")
	if !ok || name == "" || rhs == "" {
		return "", nil, fmt.Errorf("axis %q: want name=lo:hi:n or name=v1,v2: %w", s, dynamo.ErrInvalidConfig)
	}
	if _, known := config.Tunables[name]; !known {
		return "", nil, fmt.Errorf("%q: %w", name, config.ErrUnknownParam)
	}

	if parts := strings.Split(rhs, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return "", nil, fmt.Errorf("axis %q: bad range: %w", s, dynamo.ErrInvalidConfig)
		}
		return name, Linspace(lo, hi, n), nil
	}

	var values []float64
	for _, f := range strings.Split(rhs, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("axis %q: %w", s, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}
