package main

import (
	"image"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	mandel "github.com/marben/mandelzoom"
)

// tilePool hands tiles out to the connected clients in turn.
// With no client connected, or once every client failed, tiles are rendered
// by local.
type tilePool struct {
	local mandel.TileRenderer

	workers []*tileWorker
	next    int
	m       sync.Mutex
}

type tileWorker struct {
	name     string
	renderer mandel.TileRenderer
	tiles    atomic.Int64
}

var _ mandel.TileRenderer = (*tilePool)(nil)

func newTilePool(local mandel.TileRenderer) *tilePool {
	return &tilePool{local: local}
}

func (tp *tilePool) addRenderer(name string, r mandel.TileRenderer) {
	tp.m.Lock()
	tp.workers = append(tp.workers, &tileWorker{name: name, renderer: r})
	n := len(tp.workers)
	tp.m.Unlock()

	slog.Info("worker joined", "worker", name, "workers", n)
}

func (tp *tilePool) removeRenderer(w *tileWorker) {
	tp.m.Lock()
	tp.workers = slices.DeleteFunc(tp.workers, func(o *tileWorker) bool { return o == w })
	n := len(tp.workers)
	tp.m.Unlock()

	slog.Info("worker left", "worker", w.name, "tiles", w.tiles.Load(), "workers", n)
}

func (tp *tilePool) workersCount() int {
	tp.m.Lock()
	defer tp.m.Unlock()
	return len(tp.workers)
}

// pick returns the next worker in turn, nil if there is none.
func (tp *tilePool) pick() *tileWorker {
	tp.m.Lock()
	defer tp.m.Unlock()

	if len(tp.workers) == 0 {
		return nil
	}
	tp.next %= len(tp.workers)
	w := tp.workers[tp.next]
	tp.next++
	return w
}

// RenderTile renders the tile on the next worker. A worker that fails or
// answers with a wrong image is dropped and the tile goes to the next one.
// Can be called from multiple goroutines in parallel.
func (tp *tilePool) RenderTile(r mandel.Region, tile image.Rectangle, w, h int, p mandel.IterationParams) (image.RGBA, error) {
	for {
		wk := tp.pick()
		if wk == nil {
			return tp.local.RenderTile(r, tile, w, h, p)
		}

		img, err := wk.renderer.RenderTile(r, tile, w, h, p)
		if err == nil && img.Rect == tile && len(img.Pix) >= 4*tile.Dx()*tile.Dy() {
			wk.tiles.Add(1)
			return img, nil
		}
		slog.Warn("render of tile failed", "tile", tile.String(), "worker", wk.name, "err", err)
		tp.removeRenderer(wk)
	}
}
