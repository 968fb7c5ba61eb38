package render

import "gocv.io/x/gocv"

// DefaultWindowTitle is the title of the preview window.
const DefaultWindowTitle = "Hand Gesture Recognition"

// Display shows annotated frames and reports key presses.
type Display interface {
	Show(img *gocv.Mat)
	// PollKey waits briefly for a key press and returns its code, or -1.
	PollKey() int
	Close() error
}

// Window is a Display backed by an OpenCV HighGUI window.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	if title == "" {
		title = DefaultWindowTitle
	}
	return &Window{window: gocv.NewWindow(title)}
}

// Show displays img.
func (w *Window) Show(img *gocv.Mat) {
	if img == nil || img.Empty() {
		return
	}
	w.window.IMShow(*img)
}

// PollKey waits one millisecond for a key press.
func (w *Window) PollKey() int {
	return w.window.WaitKey(1)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}

// Headless is a Display that shows nothing and never reports a key.
type Headless struct{}

func (Headless) Show(*gocv.Mat) {}
func (Headless) PollKey() int   { return -1 }
func (Headless) Close() error   { return nil }

// IsExitKey reports whether a PollKey result is the exit key.
func IsExitKey(key int, exit rune) bool {
	return key >= 0 && rune(key&0xFF) == exit
}
