package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	calls    int
	err      error
	closed   bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
	m.sequence = nil
}

// SetSequence makes successive Detect calls return successive entries.
// Once the sequence is exhausted Detect reports no hands.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = frames
	m.hands = nil
	m.calls = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	if m.sequence != nil {
		i := m.calls
		m.calls++
		if i >= len(m.sequence) {
			return nil, nil
		}
		return m.sequence[i], nil
	}

	m.calls++
	return m.hands, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Finger poses used by the fixtures. Coordinates are normalized with Y growing
// downwards, for a right hand held palm-forward in the middle of the frame.

func setThumbExtendedUp(l *HandLandmarks) {
	l.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	l.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65}
	l.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50}
	l.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35}
}

func setThumbExtendedSide(l *HandLandmarks) {
	l.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	l.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	l.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	l.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}
}

func setThumbTucked(l *HandLandmarks) {
	l.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	l.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.68}
	l.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.62}
	l.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.66}
}

// setFingerCurled folds a finger so the tip comes back toward the palm.
func setFingerCurled(l *HandLandmarks, mcp int, x, y float64) {
	l.Points[mcp] = Point3D{X: x, Y: y, Z: -0.02}
	l.Points[mcp+1] = Point3D{X: x, Y: y - 0.02, Z: -0.05}
	l.Points[mcp+2] = Point3D{X: x - 0.03, Y: y, Z: -0.04}
	l.Points[mcp+3] = Point3D{X: x - 0.05, Y: y + 0.02, Z: -0.02}
}

func setIndexExtended(l *HandLandmarks) {
	l.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	l.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55}
	l.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45}
	l.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}
}

func setMiddleExtended(l *HandLandmarks) {
	l.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	l.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52}
	l.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40}
	l.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28}
}

func setRingExtended(l *HandLandmarks) {
	l.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	l.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55}
	l.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45}
	l.Points[RingTip] = Point3D{X: 0.42, Y: 0.35}
}

func setPinkyExtended(l *HandLandmarks) {
	l.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70}
	l.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60}
	l.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50}
	l.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42}
}

func newFixture() HandLandmarks {
	l := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
	l.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}
	return l
}

// ThumbsUpLandmarks returns a preset hand with the thumb extended upward
// and the other four fingers curled.
func ThumbsUpLandmarks() HandLandmarks {
	l := newFixture()
	setThumbExtendedUp(&l)
	setFingerCurled(&l, IndexMCP, 0.55, 0.70)
	setFingerCurled(&l, MiddleMCP, 0.50, 0.68)
	setFingerCurled(&l, RingMCP, 0.45, 0.70)
	setFingerCurled(&l, PinkyMCP, 0.40, 0.72)
	return l
}

// FistLandmarks returns a preset hand with every finger curled and the thumb tucked.
func FistLandmarks() HandLandmarks {
	l := newFixture()
	setThumbTucked(&l)
	setFingerCurled(&l, IndexMCP, 0.55, 0.70)
	setFingerCurled(&l, MiddleMCP, 0.50, 0.68)
	setFingerCurled(&l, RingMCP, 0.45, 0.70)
	setFingerCurled(&l, PinkyMCP, 0.40, 0.72)
	return l
}

// PeaceSignLandmarks returns a preset hand with index and middle extended,
// ring and pinky curled and the thumb tucked.
func PeaceSignLandmarks() HandLandmarks {
	l := newFixture()
	setThumbTucked(&l)
	setIndexExtended(&l)
	setMiddleExtended(&l)
	setFingerCurled(&l, RingMCP, 0.45, 0.70)
	setFingerCurled(&l, PinkyMCP, 0.40, 0.72)
	return l
}

// OpenPalmLandmarks returns a preset hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	l := newFixture()
	setThumbExtendedSide(&l)
	setIndexExtended(&l)
	setMiddleExtended(&l)
	setRingExtended(&l)
	setPinkyExtended(&l)
	return l
}
