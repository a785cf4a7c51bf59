//go:build js && wasm

package main

import (
	"image"
	"syscall/js"
)

func canvasContext() js.Value {
	canvas := js.Global().Get("document").Call("getElementById", "myCanvas")
	return canvas.Call("getContext", "2d")
}

// displayImage puts img on the canvas at its own bounds.
func displayImage(img *image.RGBA) {
	// ImageData wants a Uint8ClampedArray of exactly w*h*4 bytes
	b := img.Bounds()
	pix := js.Global().Get("Uint8ClampedArray").New(4 * b.Dx() * b.Dy())
	js.CopyBytesToJS(pix, img.Pix[:4*b.Dx()*b.Dy()])

	data := js.Global().Get("ImageData").New(pix, b.Dx(), b.Dy())
	canvasContext().Call("putImageData", data, b.Min.X, b.Min.Y)
}

// initCanvas sizes the canvas and fills it with color until the first frame
// arrives.
func initCanvas(width, height int, color string) {
	ctx := canvasContext()
	canvas := ctx.Get("canvas")
	canvas.Set("width", width)
	canvas.Set("height", height)

	ctx.Set("fillStyle", color)
	ctx.Call("fillRect", 0, 0, width, height)
}
