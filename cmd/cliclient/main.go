// cliclient renders a Mandelbrot view and saves it as a PNG file.
// By default the frame is requested from a running server, which may use
// this process to render tiles meanwhile; with -local it is rendered
// in-process. A list of clicks can be replayed to zoom before
// saving.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/marben/irpc"
	mandel "github.com/marben/mandelzoom"
)

// click is one replayed pointer event, written as "x,y" (zoom in) or
// "x,y,r" (zoom out).
type click struct {
	x, y   int
	button mandel.Button
}

func parseClicks(s string) ([]click, error) {
	if s == "" {
		return nil, nil
	}
	var clicks []click
	for _, part := range strings.Split(s, ";") {
		fields := strings.Split(strings.TrimSpace(part), ",")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("click %q: want x,y[,l|r]", part)
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("click %q: x: %w", part, err)
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("click %q: y: %w", part, err)
		}
		c := click{x: x, y: y, button: mandel.Primary}
		if len(fields) == 3 {
			switch strings.ToLower(fields[2]) {
			case "l", "left":
			case "r", "right":
				c.button = mandel.Secondary
			default:
				return nil, fmt.Errorf("click %q: unknown button %q", part, fields[2])
			}
		}
		clicks = append(clicks, c)
	}
	return clicks, nil
}

type options struct {
	addr     string
	local    bool
	session  mandel.SessionConfig
	landmark string
	clicks   []click
	output   string
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("cliclient", flag.ContinueOnError)
	var (
		opts   options
		clicks string
	)
	fs.StringVar(&opts.addr, "addr", ":8081", "server tcp address")
	fs.BoolVar(&opts.local, "local", false, "render in-process instead of asking the server")
	fs.IntVar(&opts.session.Width, "width", 480, "frame width for -local")
	fs.IntVar(&opts.session.Height, "height", 480, "frame height for -local")
	fs.IntVar(&opts.session.Params.MaxIteration, "iter", mandel.DefaultParams.MaxIteration, "maximum iterations for -local")
	fs.Float64Var(&opts.session.Params.EscapeRadiusSquared, "radius2", mandel.DefaultParams.EscapeRadiusSquared, "squared escape radius for -local")
	fs.StringVar(&opts.landmark, "goto", "", "start from a landmark")
	fs.StringVar(&clicks, "clicks", "", `clicks to replay, e.g. "240,120;100,100,r"`)
	fs.StringVar(&opts.output, "o", "mandel.png", "output PNG file")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	var err error
	opts.clicks, err = parseClicks(clicks)
	return opts, err
}

// main is the entry point for the CLI client.
func main() {
	log.Printf("Starting CLI client...")
	mandel.SetLogger(slog.Default())

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run obtains a viewer, replays the clicks and saves the final frame.
func run(opts options) error {
	var viewer mandel.Viewer
	if opts.local {
		s, err := mandel.NewSession(opts.session)
		if err != nil {
			return fmt.Errorf("new session: %w", err)
		}
		viewer = s
	} else {
		log.Printf("Connecting to Mandelbrot server on %s...", opts.addr)
		tcpConn, err := net.Dial("tcp", opts.addr)
		if err != nil {
			return fmt.Errorf("failed to connect to server: %w", err)
		}
		defer tcpConn.Close()

		// the server may use our cpu to render tiles while we are connected
		renderer := mandel.LocalTileRenderer{OnTile: func(tile image.Rectangle) { log.Printf("Rendering tile: %s", tile) }}
		ep := irpc.NewEndpoint(tcpConn, irpc.WithEndpointServices(mandel.NewTileRendererIrpcService(renderer)))

		client, err := mandel.NewViewerIrpcClient(ep)
		if err != nil {
			return fmt.Errorf("failed to create Viewer client: %w", err)
		}
		viewer = client
	}

	frame, err := explore(viewer, opts.landmark, opts.clicks)
	if err != nil {
		return err
	}

	log.Printf("Saving %s to %q...", frame.Region, opts.output)
	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, &frame.Image); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	log.Printf("Rendered image saved to %q", opts.output)
	return nil
}

func explore(v mandel.Viewer, landmark string, clicks []click) (mandel.Frame, error) {
	frame, err := v.Current()
	if err != nil {
		return frame, fmt.Errorf("current frame: %w", err)
	}
	if landmark != "" {
		if frame, err = v.Goto(landmark); err != nil {
			return frame, fmt.Errorf("goto %q: %w", landmark, err)
		}
	}
	for _, c := range clicks {
		if frame, err = v.Click(c.x, c.y, c.button); err != nil {
			return frame, fmt.Errorf("click at (%d,%d): %w", c.x, c.y, err)
		}
	}
	return frame, nil
}
