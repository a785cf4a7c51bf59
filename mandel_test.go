package mandel

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestRegionToComplexCorners(t *testing.T) {
	regions := []Region{
		DefaultRegion,
		SeahorseValley,
		{Xmin: -0.5, Xmax: 3, Ymin: 10, Ymax: 10.25},
	}
	sizes := [][2]int{{1, 1}, {64, 64}, {480, 270}, {7, 1000}}

	for _, r := range regions {
		for _, sz := range sizes {
			w, h := sz[0], sz[1]
			re, im := r.ToComplex(0, 0, w, h)
			if re != r.Xmin || im != r.Ymin {
				t.Errorf("%v %dx%d: ToComplex(0,0) = (%g,%g), want (%g,%g)", r, w, h, re, im, r.Xmin, r.Ymin)
			}
			re, im = r.ToComplex(w, h, w, h)
			if !near(re, r.Xmax) || !near(im, r.Ymax) {
				t.Errorf("%v %dx%d: ToComplex(w,h) = (%g,%g), want (%g,%g)", r, w, h, re, im, r.Xmax, r.Ymax)
			}
		}
	}
}

func TestRegionToComplexCenter(t *testing.T) {
	re, im := DefaultRegion.ToComplex(32, 32, 64, 64)
	if re != 0 || im != 0 {
		t.Errorf("center = (%g,%g), want (0,0)", re, im)
	}
}

func TestZoomAt(t *testing.T) {
	const w, h = 480, 360
	r := Region{Xmin: -2, Xmax: 1, Ymin: -1.5, Ymax: 1.5}

	tests := []struct {
		name   string
		px, py int
		factor float64
	}{
		{"recenter only", 100, 50, 1},
		{"zoom in", 240, 180, 3},
		{"zoom out", 10, 300, 1.0 / 3.0},
		{"zoom in at corner", 0, 0, 3},
		{"deep zoom", 479, 359, 1e6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ZoomAt(tt.px, tt.py, w, h, tt.factor)
			if err != nil {
				t.Fatalf("ZoomAt: %v", err)
			}
			cr, ci := r.ToComplex(tt.px, tt.py, w, h)
			if !near((got.Xmin+got.Xmax)/2, cr) || !near((got.Ymin+got.Ymax)/2, ci) {
				t.Errorf("center = (%g,%g), want (%g,%g)",
					(got.Xmin+got.Xmax)/2, (got.Ymin+got.Ymax)/2, cr, ci)
			}
			wantW := (r.Xmax - r.Xmin) / tt.factor
			wantH := (r.Ymax - r.Ymin) / tt.factor
			if gotW := got.Xmax - got.Xmin; math.Abs(gotW-wantW) > 1e-9*wantW {
				t.Errorf("width = %g, want %g", gotW, wantW)
			}
			if gotH := got.Ymax - got.Ymin; math.Abs(gotH-wantH) > 1e-9*wantH {
				t.Errorf("height = %g, want %g", gotH, wantH)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("result invalid: %v", err)
			}
		})
	}
}

func TestZoomAtFactorOneKeepsSize(t *testing.T) {
	got, err := DefaultRegion.ZoomAt(16, 48, 64, 64, 1)
	if err != nil {
		t.Fatalf("ZoomAt: %v", err)
	}
	want := Region{Xmin: -3, Xmax: 1, Ymin: -1, Ymax: 3}
	if got != want {
		t.Errorf("ZoomAt = %v, want %v", got, want)
	}
}

func TestZoomAtInvalid(t *testing.T) {
	tests := []struct {
		name   string
		r      Region
		w, h   int
		factor float64
	}{
		{"zero factor", DefaultRegion, 10, 10, 0},
		{"negative factor", DefaultRegion, 10, 10, -3},
		{"NaN factor", DefaultRegion, 10, 10, math.NaN()},
		{"infinite factor", DefaultRegion, 10, 10, math.Inf(1)},
		{"zero width", DefaultRegion, 0, 10, 3},
		{"negative height", DefaultRegion, 10, -1, 3},
		{"flat region", Region{Xmin: 1, Xmax: 1, Ymin: 0, Ymax: 1}, 10, 10, 3},
		{"inverted region", Region{Xmin: 0, Xmax: 1, Ymin: 1, Ymax: 0}, 10, 10, 3},
		{"infinite region", Region{Xmin: math.Inf(-1), Xmax: 1, Ymin: 0, Ymax: 1}, 10, 10, 3},
		{"NaN region", Region{Xmin: 0, Xmax: 1, Ymin: math.NaN(), Ymax: 1}, 10, 10, 3},
		{"precision exhausted", Region{Xmin: 1, Xmax: 1 + 1e-15, Ymin: 1, Ymax: 1 + 1e-15}, 10, 10, 1e10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.r.ZoomAt(5, 5, tt.w, tt.h, tt.factor)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
			if got != tt.r && !(math.IsNaN(tt.r.Ymin)) {
				t.Errorf("ZoomAt returned %v, want receiver %v unchanged", got, tt.r)
			}
		})
	}
}

func TestLandmarks(t *testing.T) {
	ls := Landmarks()
	if len(ls) == 0 {
		t.Fatal("no landmarks")
	}
	seen := make(map[string]bool)
	for _, l := range ls {
		if seen[l.Name] {
			t.Errorf("duplicate landmark %q", l.Name)
		}
		seen[l.Name] = true
		if err := l.Region.Validate(); err != nil {
			t.Errorf("landmark %q: %v", l.Name, err)
		}
		r, err := LandmarkByName(l.Name)
		if err != nil || r != l.Region {
			t.Errorf("LandmarkByName(%q) = %v, %v", l.Name, r, err)
		}
	}

	if r, err := LandmarkByName("SeaHorse"); err != nil || r != SeahorseValley {
		t.Errorf("LandmarkByName is case sensitive: %v, %v", r, err)
	}
	if _, err := LandmarkByName("atlantis"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown landmark err = %v, want ErrInvalidArgument", err)
	}

	// callers cannot modify the package list
	ls[0].Name = "changed"
	if Landmarks()[0].Name == "changed" {
		t.Error("Landmarks returned the internal slice")
	}
}
