// Command viewer is a desktop window onto the Mandelbrot set.
//
// Left click zooms in three times around the clicked point, right click
// zooms out. R resets the view and the digit keys jump to landmarks.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	mandel "github.com/marben/mandelzoom"
)

var landmarkKeys = []ebiten.Key{
	ebiten.KeyDigit1,
	ebiten.KeyDigit2,
	ebiten.KeyDigit3,
	ebiten.KeyDigit4,
	ebiten.KeyDigit5,
	ebiten.KeyDigit6,
	ebiten.KeyDigit7,
	ebiten.KeyDigit8,
	ebiten.KeyDigit9,
}

// Game implements ebiten.Game on top of a mandel.Session. Every input is
// handled synchronously: the next frame is rendered inside Update, so input
// is not processed while a frame is being computed.
type Game struct {
	session   *mandel.Session
	landmarks []mandel.Landmark
	w, h      int

	offscreen *ebiten.Image
	region    mandel.Region
	status    string
	hud       bool
}

func NewGame(s *mandel.Session) (*Game, error) {
	w, h, _ := s.Dimensions()
	g := &Game{
		session:   s,
		landmarks: mandel.Landmarks(),
		w:         w,
		h:         h,
		offscreen: ebiten.NewImage(w, h),
		hud:       true,
	}
	f, err := s.Current()
	if err != nil {
		return nil, err
	}
	g.show(f, nil)
	return g, nil
}

func (g *Game) show(f mandel.Frame, err error) {
	if err != nil {
		// keep the frame on screen, only report
		g.status = err.Error()
		slog.Warn("request rejected", "err", err)
		return
	}
	g.offscreen.WritePixels(f.Image.Pix)
	g.region = f.Region
	g.status = ""
}

// Update handles input.
func (g *Game) Update() error {
	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < g.w && y < g.h

	switch {
	case inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.show(g.session.Click(x, y, mandel.Primary))
	case inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		g.show(g.session.Click(x, y, mandel.Secondary))
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.show(g.session.Reset())
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.hud = !g.hud
	}

	for i, k := range landmarkKeys {
		if i < len(g.landmarks) && inpututil.IsKeyJustPressed(k) {
			g.show(g.session.Goto(g.landmarks[i].Name))
		}
	}
	return nil
}

// Draw renders the current frame.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.offscreen, nil)
	if !g.hud {
		return
	}
	msg := fmt.Sprintf("%s\nFPS: %0.1f", g.region, ebiten.ActualFPS())
	if g.status != "" {
		msg += "\n" + g.status
	}
	ebitenutil.DebugPrint(screen, msg)
}

// Layout keeps the logical screen at the session resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}

func main() {
	var (
		cfg     mandel.SessionConfig
		scale   = flag.Int("scale", 1, "window scale factor")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.IntVar(&cfg.Width, "width", 480, "frame width in pixels")
	flag.IntVar(&cfg.Height, "height", 480, "frame height in pixels")
	flag.IntVar(&cfg.Params.MaxIteration, "iter", mandel.DefaultParams.MaxIteration, "maximum iterations per pixel")
	flag.Float64Var(&cfg.Params.EscapeRadiusSquared, "radius2", mandel.DefaultParams.EscapeRadiusSquared, "squared escape radius")
	flag.IntVar(&cfg.Renderer.Workers, "workers", 0, "render goroutines (0: GOMAXPROCS)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	mandel.SetLogger(logger)

	session, err := mandel.NewSession(cfg)
	if err != nil {
		log.Fatalf("new session: %v", err)
	}
	game, err := NewGame(session)
	if err != nil {
		log.Fatalf("new game: %v", err)
	}

	ebiten.SetWindowSize(cfg.Width*max(*scale, 1), cfg.Height*max(*scale, 1))
	ebiten.SetWindowTitle("Mandelbrot")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
