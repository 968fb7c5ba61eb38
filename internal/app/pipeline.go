package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/render"
)

// Run is the frame loop. Each iteration:
// 1. Read a frame; a failed read ends the loop
// 2. Skip detection when paused or when the motion gate is closed
// 3. Detect hands; a detector error counts as no hands
// 4. Classify and smooth
// 5. Publish the snapshot and notify listeners on label change
// 6. Draw, show, stream
// 7. Stop on the exit key or when ctx is done
//
// Run returns an error only when the camera cannot be opened. Everything the
// loop owns is released before it returns.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		a.release()
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.release()

	a.startSession()
	log.Println("Recognition loop started")

	for {
		select {
		case <-ctx.Done():
			log.Println("Recognition loop stopped")
			return nil
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			return nil
		}

		stop := a.step(frame)
		frame.Close()
		if stop {
			log.Println("Exit key pressed")
			return nil
		}
	}
}

// step processes one frame and reports whether the exit key was pressed.
func (a *App) step(frame *gocv.Mat) bool {
	hands := a.detect(frame)

	var label gesture.Label
	if a.IsEnabled() {
		label = a.ProcessHands(hands)
	} else {
		label = a.smoother.Current()
	}

	a.publish(label, len(hands))

	a.overlay.Draw(frame, hands, label)
	a.display.Show(frame)
	a.stream(frame)

	return render.IsExitKey(a.display.PollKey(), a.config.ExitKey)
}

// detect runs the hand detector unless recognition is paused or the frame is still.
func (a *App) detect(frame *gocv.Mat) []detector.HandLandmarks {
	if !a.IsEnabled() || !a.gate.Open(frame) {
		return nil
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return nil
	}
	return hands
}

// publish stores the frame result and fans out label changes.
func (a *App) publish(label gesture.Label, hands int) {
	a.mu.Lock()
	changed := a.snapshot.Label != label
	a.snapshot = Snapshot{
		Label:     label,
		Hands:     hands,
		Frame:     a.snapshot.Frame + 1,
		UpdatedAt: time.Now(),
	}
	snap := a.snapshot
	var listeners []Listener
	if changed {
		listeners = append(listeners, a.listeners...)
	}
	a.mu.Unlock()

	if !changed {
		return
	}

	log.Printf("Gesture: %s", label)
	a.record(snap)
	for _, l := range listeners {
		l(snap)
	}
}

// stream encodes the annotated frame for the frame sink.
func (a *App) stream(frame *gocv.Mat) {
	if a.config.Frames == nil || !a.config.Frames.Active() {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		return
	}
	jpeg := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	a.config.Frames.Publish(jpeg)
}
