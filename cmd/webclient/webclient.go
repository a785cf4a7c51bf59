//go:build js && wasm

// webclient.go is a WASM web client for the Mandelbrot zoom server.
// It connects to the server over websocket, shows the shared view on a
// canvas, turns canvas clicks into zoom requests and renders tiles for the
// server.

package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"
	"syscall/js"
	"time"

	"github.com/coder/websocket"
	"github.com/marben/irpc"
	mandel "github.com/marben/mandelzoom"
)

// main is the entry point for the WASM web client.
func main() {
	logScreenf("Starting WASM web client...")

	// Step 1: Determine server address for WebSocket connection
	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + host + "/ws"

	// Step 2: Connect to server via WebSocket
	logScreenf("Connecting to Mandelbrot server at %s...", websocketUrl)
	ctx := context.Background()
	conn, _, err := websocket.Dial(ctx, websocketUrl, nil)
	if err != nil {
		logFatalf("websocket.Dial: %v", err)
	}
	// whole frames arrive in one message
	conn.SetReadLimit(1 << 24)
	logScreenf("WebSocket connected.")

	// Step 3: Set up IRPC endpoint and renderer service
	var tiles atomic.Int32
	renderer := mandel.LocalTileRenderer{OnTile: func(image.Rectangle) {
		hudSetTiles(tiles.Add(1))
	}}
	endpoint := irpc.NewEndpoint(
		websocket.NetConn(ctx, conn, websocket.MessageBinary),
		irpc.WithEndpointServices(mandel.NewTileRendererIrpcService(renderer)),
	)

	// Step 4: Create Viewer client for server communication
	client, err := mandel.NewViewerIrpcClient(endpoint)
	if err != nil {
		logFatalf("Failed to create Viewer client: %v", err)
	}

	// Step 5: Initialize canvas with full image dimensions
	width, height, err := client.Dimensions()
	if err != nil {
		logFatalf("Failed to get Dimensions: %v", err)
	}
	initCanvas(width, height, "#3a3a6e")
	logScreenf("Canvas initialized to dimensions %dx%d", width, height)

	// Step 6: Show the current frame, hook up input and follow the view
	show(client.Current)
	bindInput(client)
	if err := followLoop(client); err != nil {
		logFatalf("followLoop: %v", err)
	}
}

// shown is the region on the canvas.
var shown struct {
	sync.Mutex
	region mandel.Region
}

// followLoop polls the server for the shared region and downloads the frame
// whenever somebody else moved the view.
func followLoop(v mandel.Viewer) error {
	for {
		r, err := v.Region()
		if err != nil {
			return fmt.Errorf("Region: %w", err)
		}

		shown.Lock()
		moved := r != shown.region
		shown.Unlock()
		if moved {
			show(v.Current)
		}

		// polling keeps the server simple, there are no pushed updates
		time.Sleep(250 * time.Millisecond)
	}
}

// bindInput maps left clicks to zoom in, right clicks to zoom out and the
// landmark selector to Goto.
func bindInput(v mandel.Viewer) {
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", "myCanvas")

	// JS callbacks must not block, the round trip runs on its own goroutine
	onClick := func(b mandel.Button) js.Func {
		return js.FuncOf(func(this js.Value, args []js.Value) any {
			ev := args[0]
			ev.Call("preventDefault")
			x, y := ev.Get("offsetX").Int(), ev.Get("offsetY").Int()
			go show(func() (mandel.Frame, error) { return v.Click(x, y, b) })
			return nil
		})
	}
	canvas.Call("addEventListener", "click", onClick(mandel.Primary))
	canvas.Call("addEventListener", "contextmenu", onClick(mandel.Secondary))

	reset := doc.Call("getElementById", "reset")
	if !reset.IsNull() {
		reset.Call("addEventListener", "click", js.FuncOf(func(js.Value, []js.Value) any {
			go show(v.Reset)
			return nil
		}))
	}

	sel := doc.Call("getElementById", "landmark")
	if !sel.IsNull() {
		for _, l := range mandel.Landmarks() {
			opt := doc.Call("createElement", "option")
			opt.Set("value", l.Name)
			opt.Set("textContent", l.Name)
			sel.Call("appendChild", opt)
		}
		sel.Call("addEventListener", "change", js.FuncOf(func(this js.Value, _ []js.Value) any {
			name := this.Get("value").String()
			go show(func() (mandel.Frame, error) { return v.Goto(name) })
			return nil
		}))
	}
}

// show runs one viewer request and draws its frame.
func show(req func() (mandel.Frame, error)) {
	start := time.Now()
	frame, err := req()
	if err != nil {
		logScreenf("request failed: %v", err)
		return
	}
	shown.Lock()
	shown.region = frame.Region
	shown.Unlock()

	displayImage(&frame.Image)
	hudSetRegion(frame.Region)
	hudSetTook(time.Since(start))
}

// logScreenf appends a formatted message to the log element in the DOM,
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}

// hudSetRegion updates the HUD with the shown region.
func hudSetRegion(r mandel.Region) {
	js.Global().Get("document").Call("getElementById", "region").Set("textContent", r.String())
}

// hudSetTiles updates the HUD with the number of tiles this page rendered.
func hudSetTiles(n int32) {
	js.Global().Get("document").Call("getElementById", "tiles").Set("textContent", n)
}

// hudSetTook updates the HUD with the duration of the last request.
func hudSetTook(d time.Duration) {
	js.Global().Get("document").Call("getElementById", "took").Set("textContent", d.Round(time.Millisecond).String())
}
