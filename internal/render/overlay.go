// Package render draws recognition results onto video frames and shows them.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// CaptionPrefix is prepended to the smoothed label in the overlay.
const CaptionPrefix = "Gesture: "

// Style controls how hands and captions are drawn.
type Style struct {
	LandmarkColor       color.RGBA
	LandmarkRadius      int
	LandmarkThickness   int
	ConnectionColor     color.RGBA
	ConnectionThickness int

	TextColor     color.RGBA
	TextOrigin    image.Point
	TextScale     float64
	TextThickness int
}

// DefaultStyle returns a dark green skeleton with purple bones and a green caption
// in the top-left corner.
func DefaultStyle() Style {
	return Style{
		LandmarkColor:       color.RGBA{R: 46, G: 104, B: 45, A: 255},
		LandmarkRadius:      4,
		LandmarkThickness:   2,
		ConnectionColor:     color.RGBA{R: 50, G: 4, B: 50, A: 255},
		ConnectionThickness: 2,

		TextColor:     color.RGBA{G: 255, A: 255},
		TextOrigin:    image.Pt(10, 30),
		TextScale:     1,
		TextThickness: 2,
	}
}

// Overlay draws hand skeletons and the gesture caption.
type Overlay struct {
	style Style
}

// NewOverlay creates an Overlay with the given style.
func NewOverlay(style Style) *Overlay {
	return &Overlay{style: style}
}

// Caption returns the overlay text for a label.
func Caption(label gesture.Label) string {
	return CaptionPrefix + string(label)
}

// DrawHand draws the skeleton of one hand: bones first, then joints on top.
func (o *Overlay) DrawHand(img *gocv.Mat, hand *detector.HandLandmarks) {
	if img == nil || img.Empty() || hand == nil {
		return
	}

	w, h := img.Cols(), img.Rows()
	pts := make([]image.Point, detector.NumLandmarks)
	for i := range pts {
		x, y := hand.Pixel(i, w, h)
		pts[i] = image.Pt(x, y)
	}

	for _, c := range detector.HandConnections {
		gocv.Line(img, pts[c[0]], pts[c[1]], o.style.ConnectionColor, o.style.ConnectionThickness)
	}
	for _, p := range pts {
		gocv.Circle(img, p, o.style.LandmarkRadius, o.style.LandmarkColor, o.style.LandmarkThickness)
	}
}

// DrawLabel writes the caption for label onto img.
func (o *Overlay) DrawLabel(img *gocv.Mat, label gesture.Label) {
	if img == nil || img.Empty() {
		return
	}
	gocv.PutText(img, Caption(label), o.style.TextOrigin, gocv.FontHersheySimplex,
		o.style.TextScale, o.style.TextColor, o.style.TextThickness)
}

// Draw renders every hand and the caption.
func (o *Overlay) Draw(img *gocv.Mat, hands []detector.HandLandmarks, label gesture.Label) {
	for i := range hands {
		o.DrawHand(img, &hands[i])
	}
	o.DrawLabel(img, label)
}
