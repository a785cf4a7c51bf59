package mandel

import (
	"fmt"
	"math"
)

// IterationParams bound the escape-time iteration of a render.
type IterationParams struct {
	MaxIteration        int     // iteration budget, > 0
	EscapeRadiusSquared float64 // |z|² beyond which a point has escaped, > 0
}

// DefaultParams are 256 iterations with escape radius 2.
var DefaultParams = IterationParams{
	MaxIteration:        256,
	EscapeRadiusSquared: 4,
}

func (p IterationParams) Validate() error {
	if p.MaxIteration <= 0 {
		return fmt.Errorf("%w: max iteration %d", ErrInvalidArgument, p.MaxIteration)
	}
	if !(p.EscapeRadiusSquared > 0) || math.IsInf(p.EscapeRadiusSquared, 0) {
		return fmt.Errorf("%w: escape radius squared %g", ErrInvalidArgument, p.EscapeRadiusSquared)
	}
	return nil
}

// Evaluate iterates z = z² + c for c = re + im·i and returns the smooth
// escape count. A point that never escapes within maxIteration steps
// returns exactly float64(maxIteration).
//
// The loop carries squared state: x = Re(z)², y = Im(z)² and
// w = (Re(z)+Im(z))², so Im(z²) = w - x - y and each step costs three
// real multiplications.
//
// The fractional part is taken from x² + y² (fourth powers of the
// components), which is what the coloring is tuned for. Far from the set
// the result can be negative.
func Evaluate(re, im float64, maxIteration int, escapeRadiusSquared float64) float64 {
	var x, y, w float64

	iteration := 0
	for x+y <= escapeRadiusSquared && iteration < maxIteration {
		zr := x - y + re
		zi := w - x - y + im
		x = zr * zr
		y = zi * zi
		w = (zr + zi) * (zr + zi)
		iteration++
	}

	if iteration >= maxIteration {
		return float64(maxIteration)
	}
	return float64(iteration) + 1 - math.Log(math.Log2(x*x+y*y))
}

// Escaped reports whether a value returned by Evaluate belongs to a point
// outside the set.
func Escaped(smooth float64, maxIteration int) bool {
	return math.Floor(smooth) < float64(maxIteration)
}
