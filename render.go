package mandel

import (
	"fmt"
	"image"
	"image/draw"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTileSize is the edge of the square tiles a frame is split into.
	DefaultTileSize = 64

	// MaxFramePixels caps w*h of a single frame (256 MiB of RGBA).
	MaxFramePixels = 1 << 26
)

// Renderer renders frames by splitting them into tiles and rendering the
// tiles concurrently. The zero value is ready to use.
type Renderer struct {
	// Workers bounds the number of tiles rendered at once.
	// Zero or less means GOMAXPROCS.
	Workers int

	// TileSize is the tile edge in pixels. Zero or less means DefaultTileSize.
	TileSize int

	// Tiles renders the individual tiles. Nil paints them in place, the
	// same as LocalTileRenderer but without the copy.
	Tiles TileRenderer
}

// RenderFrame renders r onto a w×h image using the zero Renderer.
func RenderFrame(r Region, w, h int, p IterationParams) (*image.RGBA, error) {
	return Renderer{}.RenderFrame(r, w, h, p)
}

// RenderFrame renders region r onto a fresh w×h image. Pixel (x,y) sits at
// Pix[4*(w*y+x)]. The call blocks until every pixel is written, and equal
// arguments always produce identical pixels regardless of Workers and
// TileSize.
func (rd Renderer) RenderFrame(r Region, w, h int, p IterationParams) (*image.RGBA, error) {
	if err := checkResolution(w, h); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	workers := rd.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	tileSize := rd.TileSize
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	tiles := splitRectNoClip(img.Bounds(), tileSize, tileSize)

	var g errgroup.Group
	g.SetLimit(workers)
	for _, tile := range tiles {
		g.Go(func() error {
			if rd.Tiles == nil {
				paintTile(img, tile, r, w, h, p)
				return nil
			}
			t, err := rd.Tiles.RenderTile(r, tile, w, h, p)
			if err != nil {
				return fmt.Errorf("tile %s: %w", tile, err)
			}
			return drawTile(img, &t, tile)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Logger().Debug("frame rendered",
		"region", r.String(),
		"size", fmt.Sprintf("%dx%d", w, h),
		"tiles", len(tiles),
		"workers", workers,
		"took", time.Since(start),
	)
	return img, nil
}

func checkResolution(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxFramePixels/h {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidArgument, w, h)
	}
	return nil
}

// drawTile copies a rendered tile into its place in img.
func drawTile(img *image.RGBA, t *image.RGBA, tile image.Rectangle) error {
	if t.Rect != tile || len(t.Pix) < 4*tile.Dx()*tile.Dy() {
		return fmt.Errorf("tile %s: got image of %s with %d bytes", tile, t.Rect, len(t.Pix))
	}
	draw.Draw(img, tile, t, tile.Min, draw.Src)
	return nil
}

// LocalTileRenderer renders tiles on this machine.
type LocalTileRenderer struct {
	// OnTile, if set, is called before each tile is rendered.
	OnTile func(tile image.Rectangle)
}

var _ TileRenderer = LocalTileRenderer{}

// RenderTile renders the tile part of a w×h frame of r. The tile must be a
// non-empty part of the frame.
func (lr LocalTileRenderer) RenderTile(r Region, tile image.Rectangle, w, h int, p IterationParams) (image.RGBA, error) {
	if err := checkResolution(w, h); err != nil {
		return image.RGBA{}, err
	}
	if err := r.Validate(); err != nil {
		return image.RGBA{}, err
	}
	if err := p.Validate(); err != nil {
		return image.RGBA{}, err
	}
	if tile.Empty() || !tile.In(image.Rect(0, 0, w, h)) {
		return image.RGBA{}, fmt.Errorf("%w: tile %s outside %dx%d frame", ErrInvalidArgument, tile, w, h)
	}

	if lr.OnTile != nil {
		lr.OnTile(tile)
	}

	// image has frame coordinates (tile.Min .. tile.Max)
	img := image.NewRGBA(tile)
	paintTile(img, tile, r, w, h, p)
	return *img, nil
}

// paintTile writes every pixel of tile into img. Tiles never overlap, so
// concurrent calls on distinct tiles touch disjoint bytes of img.Pix.
func paintTile(img *image.RGBA, tile image.Rectangle, r Region, w, h int, p IterationParams) {
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		off := img.PixOffset(tile.Min.X, py)
		for px := tile.Min.X; px < tile.Max.X; px++ {
			re, im := r.ToComplex(px, py, w, h)
			smooth := Evaluate(re, im, p.MaxIteration, p.EscapeRadiusSquared)
			c := PixelColor(smooth, p.MaxIteration)

			pix := img.Pix[off : off+4 : off+4]
			pix[0] = c.R
			pix[1] = c.G
			pix[2] = c.B
			pix[3] = c.A
			off += 4
		}
	}
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := tileH
		if oy+th > h {
			th = h - oy
		}

		for ox := 0; ox < w; ox += tileW {
			tw := tileW
			if ox+tw > w {
				tw = w - ox
			}

			tiles = append(tiles, image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			))
		}
	}

	return tiles
}
