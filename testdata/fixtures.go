// Package testdata builds synthetic camera frames for tests that drive the
// frame loop without a device.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Frame size used by the generators.
const (
	Width  = 640
	Height = 480
)

// StillFrames returns n identical black frames. The caller must close them.
func StillFrames(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(Height, Width, gocv.MatTypeCV8UC3)
		frames[i] = &m
	}
	return frames
}

// MovingFrames returns n frames with a white square that jumps across the
// image, so consecutive frames always differ. The caller must close them.
func MovingFrames(n int) []*gocv.Mat {
	frames := StillFrames(n)
	const side = 160
	for i, m := range frames {
		x := (i * side) % (Width - side)
		rect := image.Rect(x, 100, x+side, 100+side)
		gocv.Rectangle(m, rect, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	}
	return frames
}

// CloseAll releases every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
