package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Motion detection constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
	// DefaultMotionHold keeps the gate open after the last motion so a hand
	// held still in a static pose is still classified.
	DefaultMotionHold = 2 * time.Second
)

// MotionDetector detects motion between consecutive video frames
// using frame differencing with Gaussian blur for noise reduction.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a new MotionDetector with the given threshold.
// The threshold is the percentage of pixels that must change to detect motion.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares a frame with the previous one and reports whether more than
// threshold percent of pixels changed, along with the percentage itself.
// The first frame only establishes the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changePercent := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0

	blurred.CopyTo(&m.prevGray)

	return changePercent > m.threshold, changePercent
}

// Reset clears the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases resources used by the motion detector.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// MotionGate decides whether a frame is worth sending to the hand detector.
// It opens on motion and stays open for the hold duration afterwards.
// A gate with a threshold of zero or less is always open.
type MotionGate struct {
	detector *MotionDetector
	hold     time.Duration
	last     time.Time
	now      func() time.Time
}

// NewMotionGate creates a gate over a MotionDetector with the given threshold.
func NewMotionGate(threshold float64, hold time.Duration) *MotionGate {
	g := &MotionGate{
		hold: hold,
		now:  time.Now,
	}
	if threshold > 0 {
		g.detector = NewMotionDetector(threshold)
	}
	return g
}

// Enabled reports whether the gate ever filters frames.
func (g *MotionGate) Enabled() bool {
	return g.detector != nil
}

// Open reports whether frame should be processed.
func (g *MotionGate) Open(frame *gocv.Mat) bool {
	if g.detector == nil {
		return true
	}

	moved, _ := g.detector.Detect(frame)
	if moved {
		g.last = g.now()
		return true
	}
	return !g.last.IsZero() && g.now().Sub(g.last) <= g.hold
}

// Close releases the underlying detector.
func (g *MotionGate) Close() {
	if g.detector != nil {
		g.detector.Close()
	}
}
