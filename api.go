package mandel

import (
	"image"
)

//go:generate go run github.com/marben/irpc/cmd/irpc $GOFILE

// Frame is a rendered image together with the region it shows.
type Frame struct {
	Region Region
	Image  image.RGBA
}

// Button identifies the pointer button of a click.
type Button uint8

const (
	Primary   Button = iota // zoom in
	Secondary               // zoom out
)

// Zoom factors applied by Click.
const (
	ZoomInFactor  = 3.0
	ZoomOutFactor = 1.0 / 3.0
)

func (b Button) factor() (float64, bool) {
	switch b {
	case Primary:
		return ZoomInFactor, true
	case Secondary:
		return ZoomOutFactor, true
	}
	return 0, false
}

// Viewer is an interactive view of the set. Every call that changes the
// view returns the freshly rendered frame. Implemented by Session, served
// to clients by NewViewerIrpcService.
type Viewer interface {
	Dimensions() (w, h int, err error)
	// Region is the currently shown region. Cheap enough to poll.
	Region() (Region, error)
	Current() (Frame, error)
	Zoom(px, py int, factor float64) (Frame, error)
	Click(px, py int, b Button) (Frame, error)
	Reset() (Frame, error)
	Goto(landmark string) (Frame, error)
}

// TileRenderer renders the tile part of a w×h frame showing region r.
// The returned image has Rect == tile.
// Every connected client offers one, so the server can hand tiles out to them.
type TileRenderer interface {
	RenderTile(r Region, tile image.Rectangle, w, h int, p IterationParams) (image.RGBA, error)
}
