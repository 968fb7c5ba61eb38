package gesture

import (
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// Label is the name of a recognized gesture.
type Label string

const (
	ThumbsUp  Label = "Thumbs Up"
	Fist      Label = "Fist"
	PeaceSign Label = "Peace Sign"
	OpenPalm  Label = "Open Palm"
	Unknown   Label = "Unknown Gesture"
	// NoHand is reported before any hand has been classified.
	NoHand Label = "No Hand"
)

// Labels lists every label in a fixed order.
var Labels = []Label{ThumbsUp, Fist, PeaceSign, OpenPalm, Unknown, NoHand}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

func (l Label) String() string {
	return string(l)
}

// Finger identifies one of the five fingers.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	numFingers
)

var fingerNames = [numFingers]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < 0 || f >= numFingers {
		return fmt.Sprintf("finger(%d)", int(f))
	}
	return fingerNames[f]
}

// Joint is the landmark triple whose angle at B measures a finger's bend.
type Joint struct {
	A, B, C int
}

// FingerJoints maps each finger to the landmarks defining its bend angle.
var FingerJoints = [numFingers]Joint{
	Thumb:  {detector.ThumbMCP, detector.ThumbIP, detector.ThumbTip},
	Index:  {detector.IndexMCP, detector.IndexPIP, detector.IndexTip},
	Middle: {detector.MiddleMCP, detector.MiddlePIP, detector.MiddleTip},
	Ring:   {detector.RingMCP, detector.RingPIP, detector.RingTip},
	Pinky:  {detector.PinkyMCP, detector.PinkyPIP, detector.PinkyTip},
}

// Extension thresholds in degrees. A finger is extended when its joint
// angle is strictly greater than its threshold.
const (
	ThumbExtendedAngle  = 150.0
	FingerExtendedAngle = 160.0
	// FistCurledAngle is the bound every non-thumb finger must stay under for a fist.
	FistCurledAngle = 150.0
)

// FingerAngles holds the joint angle of each finger, in degrees.
type FingerAngles struct {
	Thumb, Index, Middle, Ring, Pinky float64
}

// Get returns the angle for finger f.
func (a FingerAngles) Get(f Finger) float64 {
	switch f {
	case Thumb:
		return a.Thumb
	case Index:
		return a.Index
	case Middle:
		return a.Middle
	case Ring:
		return a.Ring
	case Pinky:
		return a.Pinky
	}
	return 0
}

func (a *FingerAngles) set(f Finger, v float64) {
	switch f {
	case Thumb:
		a.Thumb = v
	case Index:
		a.Index = v
	case Middle:
		a.Middle = v
	case Ring:
		a.Ring = v
	case Pinky:
		a.Pinky = v
	}
}

// Extended reports whether finger f counts as extended.
func (a FingerAngles) Extended(f Finger) bool {
	if f == Thumb {
		return a.Thumb > ThumbExtendedAngle
	}
	return a.Get(f) > FingerExtendedAngle
}

// MeasureFingers computes the joint angle of every finger.
// The error wraps ErrDegenerateAngle and names the first finger whose angle is undefined.
func MeasureFingers(hand *detector.HandLandmarks) (FingerAngles, error) {
	var angles FingerAngles
	if hand == nil {
		return angles, fmt.Errorf("nil hand")
	}

	for f := Thumb; f < numFingers; f++ {
		j := FingerJoints[f]
		deg, err := Angle(hand.Points[j.A], hand.Points[j.B], hand.Points[j.C])
		if err != nil {
			return angles, fmt.Errorf("%s: %w", f, err)
		}
		angles.set(f, deg)
	}

	return angles, nil
}

// ClassifyAngles applies the gesture rules to a set of finger angles.
// Rules are checked in priority order and the first match wins:
//
//  1. Thumbs Up: thumb extended, no other finger extended.
//  2. Fist: index, middle, ring and pinky under FistCurledAngle, thumb not extended.
//  3. Peace Sign: index and middle extended, ring and pinky not extended.
//  4. Open Palm: all five extended.
//
// Anything else is Unknown.
func ClassifyAngles(a FingerAngles) Label {
	thumb := a.Extended(Thumb)
	index := a.Extended(Index)
	middle := a.Extended(Middle)
	ring := a.Extended(Ring)
	pinky := a.Extended(Pinky)

	switch {
	case thumb && !index && !middle && !ring && !pinky:
		return ThumbsUp
	case a.Index < FistCurledAngle && a.Middle < FistCurledAngle &&
		a.Ring < FistCurledAngle && a.Pinky < FistCurledAngle && !thumb:
		return Fist
	case index && middle && !ring && !pinky:
		return PeaceSign
	case thumb && index && middle && ring && pinky:
		return OpenPalm
	}
	return Unknown
}

// Classify labels a single hand. A hand whose finger angles cannot be
// measured is Unknown.
func Classify(hand *detector.HandLandmarks) Label {
	label, _ := ClassifyHand(hand)
	return label
}

// ClassifyHand is Classify that also returns the measurement error, if any,
// so callers can log why a hand came out Unknown.
func ClassifyHand(hand *detector.HandLandmarks) (Label, error) {
	angles, err := MeasureFingers(hand)
	if err != nil {
		return Unknown, err
	}
	return ClassifyAngles(angles), nil
}
