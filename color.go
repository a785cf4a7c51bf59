package mandel

import (
	"image/color"
	"math"
)

var opaqueBlack = color.RGBA{A: 0xff}

// HSVToRGBA converts hue in degrees [0,360], saturation [0,1] and value
// [0,1] into an opaque color. Any input outside its range yields opaque
// black.
//
// The first sector is open at 0°: a hue of exactly 0 is handled by the
// magenta-red sector, like 360. Both give pure red for s=v=1.
func HSVToRGBA(hue, sat, val float64) color.RGBA {
	if !(hue >= 0 && hue <= 360) || !(sat >= 0 && sat <= 1) || !(val >= 0 && val <= 1) {
		return opaqueBlack
	}

	hi := 255 * val
	lo := hi * (1 - sat)
	z := (hi - lo) * (1 - math.Abs(math.Mod(hue/60, 2)-1))

	var r, g, b float64
	switch {
	case hue > 0 && hue < 60:
		r, g, b = hi, z+lo, lo
	case hue >= 60 && hue < 120:
		r, g, b = z+lo, hi, lo
	case hue >= 120 && hue < 180:
		r, g, b = lo, hi, z+lo
	case hue >= 180 && hue < 240:
		r, g, b = lo, z+lo, hi
	case hue >= 240 && hue < 300:
		r, g, b = z+lo, lo, hi
	default:
		r, g, b = hi, lo, z+lo
	}

	return color.RGBA{
		R: uint8(math.Round(r)),
		G: uint8(math.Round(g)),
		B: uint8(math.Round(b)),
		A: 0xff,
	}
}

// PixelColor colors a smooth escape count: hue follows escape speed at
// full saturation, interior points are black.
func PixelColor(smooth float64, maxIteration int) color.RGBA {
	hue := 360 * (smooth / float64(maxIteration))
	val := 0.0
	if Escaped(smooth, maxIteration) {
		val = 1
	}
	return HSVToRGBA(hue, 1, val)
}
