package mandel

import (
	"fmt"
	"math"
	"strings"
)

// Region within the complex plane that is mapped onto the pixel grid.
// X runs along the real axis, Y along the imaginary axis.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// DefaultRegion shows the whole set.
var DefaultRegion = Region{
	Xmin: -2,
	Xmax: 2,
	Ymin: -2,
	Ymax: 2,
}

func (r Region) String() string {
	return fmt.Sprintf("[%g, %g]x[%g, %g]i", r.Xmin, r.Xmax, r.Ymin, r.Ymax)
}

// Validate reports ErrInvalidArgument for non-finite or zero-area regions.
func (r Region) Validate() error {
	for _, v := range [...]float64{r.Xmin, r.Xmax, r.Ymin, r.Ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: region %s has non-finite bound", ErrInvalidArgument, r)
		}
	}
	if !(r.Xmin < r.Xmax) || !(r.Ymin < r.Ymax) {
		return fmt.Errorf("%w: region %s has zero or negative area", ErrInvalidArgument, r)
	}
	return nil
}

// ToComplex maps pixel (px, py) of a w×h grid onto the region.
// Pixel (0,0) maps to (Xmin, Ymin) and (w,h) to (Xmax, Ymax).
// Bounds of px and py are not checked.
func (r Region) ToComplex(px, py, w, h int) (re, im float64) {
	re = r.Xmin + (r.Xmax-r.Xmin)*float64(px)/float64(w)
	im = r.Ymin + (r.Ymax-r.Ymin)*float64(py)/float64(h)
	return re, im
}

// ZoomAt returns a region centered on the point under pixel (px, py)
// whose width and height are divided by factor.
// factor > 1 zooms in, 0 < factor < 1 zooms out.
// The receiver is left untouched.
func (r Region) ZoomAt(px, py, w, h int, factor float64) (Region, error) {
	if w <= 0 || h <= 0 {
		return r, fmt.Errorf("%w: resolution %dx%d", ErrInvalidArgument, w, h)
	}
	if !(factor > 0) || math.IsInf(factor, 0) {
		return r, fmt.Errorf("%w: zoom factor %g", ErrInvalidArgument, factor)
	}
	if err := r.Validate(); err != nil {
		return r, err
	}

	cr, ci := r.ToComplex(px, py, w, h)
	halfW := (r.Xmax - r.Xmin) / 2.0 / factor
	halfH := (r.Ymax - r.Ymin) / 2.0 / factor

	zoomed := Region{
		Xmin: cr - halfW,
		Xmax: cr + halfW,
		Ymin: ci - halfH,
		Ymax: ci + halfH,
	}

	// float64 runs out of precision somewhere past 1e-15 of width
	if err := zoomed.Validate(); err != nil {
		return r, fmt.Errorf("zoom %g at (%d,%d): %w", factor, px, py, err)
	}
	return zoomed, nil
}

// Landmark is a named, well known region of the set.
type Landmark struct {
	Name   string
	Region Region
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: 0.25,
		Xmax: 0.35,
		Ymin: -0.05,
		Ymax: 0.05,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.0920,
		Xmax: -0.0860,
		Ymin: 0.6530,
		Ymax: 0.6590,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot on the needle – self-similar copy on the real axis
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7700,
		Xmax: -1.7400,
		Ymin: -0.0150,
		Ymax: 0.0150,
	}
)

var landmarks = []Landmark{
	{"seahorse", SeahorseValley},
	{"elephant", ElephantValley},
	{"spiral", SpiralMinibrot},
	{"triple", TripleSpiral},
	{"dragon", ValleyOfTheDragon},
	{"minibrot", MinibrotInMiniSpiral},
}

// Landmarks returns the known landmarks in a stable order.
func Landmarks() []Landmark {
	out := make([]Landmark, len(landmarks))
	copy(out, landmarks)
	return out
}

// LandmarkByName looks up a landmark, ignoring case.
func LandmarkByName(name string) (Region, error) {
	for _, l := range landmarks {
		if strings.EqualFold(l.Name, name) {
			return l.Region, nil
		}
	}
	return Region{}, fmt.Errorf("%w: unknown landmark %q", ErrInvalidArgument, name)
}
