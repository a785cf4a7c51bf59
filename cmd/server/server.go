// Command server serves one interactive Mandelbrot view over TCP and
// websocket. Every client sees and steers the same view, and every client
// that offers a tile renderer helps render its frames.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/marben/irpc"
	mandel "github.com/marben/mandelzoom"
)

type config struct {
	tcpAddr   string
	httpAddr  string
	staticDir string
	session   mandel.SessionConfig
	verbose   bool
}

func parseFlags(args []string) (config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var (
		cfg     config
		landmk  string
		workers int
	)
	fs.StringVar(&cfg.tcpAddr, "tcp", ":8081", "tcp listen address")
	fs.StringVar(&cfg.httpAddr, "http", ":8080", "http listen address (static files and /ws)")
	fs.StringVar(&cfg.staticDir, "static", "./static", "directory served at /")
	fs.IntVar(&cfg.session.Width, "width", 480, "frame width in pixels")
	fs.IntVar(&cfg.session.Height, "height", 480, "frame height in pixels")
	fs.IntVar(&cfg.session.Params.MaxIteration, "iter", mandel.DefaultParams.MaxIteration, "maximum iterations per pixel")
	fs.Float64Var(&cfg.session.Params.EscapeRadiusSquared, "radius2", mandel.DefaultParams.EscapeRadiusSquared, "squared escape radius")
	fs.StringVar(&landmk, "start", "", "landmark to start at (default: whole set)")
	fs.IntVar(&workers, "workers", 0, "tiles rendered at once (0: GOMAXPROCS)")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.session.Start = mandel.DefaultRegion
	if landmk != "" {
		r, err := mandel.LandmarkByName(landmk)
		if err != nil {
			return cfg, err
		}
		cfg.session.Start = r
	}
	cfg.session.Renderer.Workers = workers
	return cfg, nil
}

// main is the entry point for the Mandelbrot server.
func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("flags: %v", err)
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	mandel.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run(ctx context.Context, cfg config) error {
	// clients that connect lend their cpu to the rendering
	pool := newTilePool(mandel.LocalTileRenderer{})
	cfg.session.Renderer.Tiles = pool

	session, err := mandel.NewSession(cfg.session)
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	irpcServer := newIrpcServer(session, pool)

	// TCP
	tcpListener, err := net.Listen("tcp", cfg.tcpAddr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}
	slog.Info("tcp listening", "addr", tcpListener.Addr().String())

	// WEBSOCKET
	websocketListener, httpServer := webServer(ctx, cfg.httpAddr, cfg.staticDir)

	errCh := make(chan error, 3)

	// httpServer provides index.html, main.wasm along with websocket endpoint
	go func() {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("httpServer: %w", err)
		}
	}()

	// irpcServer can serve multiple listeners. In this case both tcp and websocket
	go func() { errCh <- serve(irpcServer, tcpListener) }()
	go func() { errCh <- serve(irpcServer, websocketListener) }()

	slog.Info("mb server waiting for tcp and websocket connections")
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	tcpListener.Close()
	websocketListener.Close()
	httpServer.Close()
	return err
}

// newIrpcServer serves v to every client. Clients offering a
// mandel.TileRenderer are added to pool as workers.
func newIrpcServer(v mandel.Viewer, pool *tilePool) *irpc.Server {
	irpcServer := irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		go func() {
			remote := fmt.Sprint(ep.RemoteAddr())
			slog.Info("got connection", "remote", remote)

			renderer, err := mandel.NewTileRendererIrpcClient(ep)
			if err != nil {
				slog.Info("client renders no tiles", "remote", remote, "err", err)
				return
			}
			pool.addRenderer(remote, renderer)
		}()
	}))

	// all connections share one view
	irpcServer.AddService(mandel.NewViewerIrpcService(v))
	return irpcServer
}

// serve runs s on l until l is closed.
func serve(s *irpc.Server, l net.Listener) error {
	if err := s.Serve(l); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("serve %s: %w", l.Addr(), err)
	}
	return nil
}
