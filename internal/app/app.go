// Package app runs the mudra recognition loop: capture, detect, classify,
// smooth, render.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/store"
)

// DefaultExitKey stops the loop when pressed in the preview window.
const DefaultExitKey = 'q'

// FrameSink receives JPEG-encoded annotated frames.
type FrameSink interface {
	// Active reports whether anyone is consuming frames. The loop skips
	// encoding while it is false.
	Active() bool
	Publish(jpeg []byte)
}

// Config holds configuration options for the application.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	// Display defaults to render.Headless.
	Display render.Display
	// Overlay defaults to render.DefaultStyle.
	Overlay *render.Overlay
	// Store records sessions and label changes when set.
	Store *store.Store
	// Frames receives annotated frames when set.
	Frames FrameSink

	CameraID        int
	SmoothingWindow int
	// ResetAfterMisses clears the smoothing window after this many
	// consecutive frames without a hand. Zero never clears it.
	ResetAfterMisses int
	// MotionThresh enables the motion gate when positive.
	MotionThresh float64
	MotionHold   time.Duration
	ExitKey      rune
}

// Snapshot is the result of the most recent frame.
type Snapshot struct {
	Label     gesture.Label `json:"label"`
	Hands     int           `json:"hands"`
	Frame     uint64        `json:"frame"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Listener is called from the loop goroutine whenever the smoothed label changes.
// It must not block.
type Listener func(Snapshot)

// App is the recognition loop and the state it owns.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	display  render.Display
	overlay  *render.Overlay
	gate     *capture.MotionGate
	smoother *gesture.Smoother
	misses   int
	session  *store.Session

	mu        sync.RWMutex
	enabled   bool
	snapshot  Snapshot
	listeners []Listener
}

// New creates an App. Camera and Detector are required.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if config.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if config.Display == nil {
		config.Display = render.Headless{}
	}
	if config.Overlay == nil {
		config.Overlay = render.NewOverlay(render.DefaultStyle())
	}
	if config.ExitKey == 0 {
		config.ExitKey = DefaultExitKey
	}
	if config.MotionHold <= 0 {
		config.MotionHold = capture.DefaultMotionHold
	}

	a := &App{
		config:   config,
		camera:   config.Camera,
		detector: config.Detector,
		display:  config.Display,
		overlay:  config.Overlay,
		gate:     capture.NewMotionGate(config.MotionThresh, config.MotionHold),
		smoother: gesture.NewSmoother(config.SmoothingWindow),
		enabled:  true,
	}
	return a, nil
}

// SetEnabled pauses or resumes recognition. A paused loop keeps reading and
// displaying frames but pushes nothing into the smoothing window.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled != enabled {
		log.Printf("Recognition enabled: %v", enabled)
	}
	a.enabled = enabled
}

// IsEnabled returns whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Snapshot returns the result of the most recent frame.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// OnChange registers a listener for smoothed label changes.
func (a *App) OnChange(l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, l)
}

// SessionID returns the history session of the current run, or "" when
// history is disabled.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return ""
	}
	return a.session.ID
}

// ProcessHands classifies each hand in detection order, pushes the labels
// into the smoothing window, and returns the smoothed label.
//
// A frame without hands pushes nothing, so the previous label persists unless
// ResetAfterMisses consecutive empty frames have been seen.
func (a *App) ProcessHands(hands []detector.HandLandmarks) gesture.Label {
	if len(hands) == 0 {
		a.misses++
		if n := a.config.ResetAfterMisses; n > 0 && a.misses >= n && a.smoother.Len() > 0 {
			a.smoother.Reset()
			log.Printf("No hand for %d frames, cleared gesture history", a.misses)
		}
		return a.smoother.Current()
	}

	a.misses = 0
	for i := range hands {
		label, err := gesture.ClassifyHand(&hands[i])
		if err != nil {
			log.Printf("Hand %d classified as %s: %v", i, label, err)
		}
		a.smoother.Push(label)
	}
	return a.smoother.Current()
}

// startSession opens a history session. Failures disable history for this run.
func (a *App) startSession() {
	if a.config.Store == nil {
		return
	}
	sess, err := a.config.Store.Sessions().Start(a.config.CameraID)
	if err != nil {
		log.Printf("Failed to start history session: %v", err)
		return
	}
	a.mu.Lock()
	a.session = sess
	a.mu.Unlock()
	log.Printf("History session %s started", sess.ID)
}

func (a *App) endSession() {
	a.mu.Lock()
	sess := a.session
	a.mu.Unlock()
	if sess == nil {
		return
	}
	if err := a.config.Store.Sessions().End(sess.ID); err != nil {
		log.Printf("Failed to end history session: %v", err)
	}
}

// record stores a label change in the history.
func (a *App) record(snap Snapshot) {
	a.mu.RLock()
	sess := a.session
	a.mu.RUnlock()
	if sess == nil {
		return
	}
	if _, err := a.config.Store.Events().Record(sess.ID, snap.Label, snap.Hands); err != nil {
		log.Printf("Failed to record gesture event: %v", err)
	}
}

// release closes everything the loop owns.
func (a *App) release() {
	if err := a.display.Close(); err != nil {
		log.Printf("Error closing display: %v", err)
	}
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.gate.Close()
	if err := a.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
	a.endSession()
}
