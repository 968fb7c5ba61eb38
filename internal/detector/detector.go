package detector

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks
	// in detection order. Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the detection settings used by the recognizer:
// two hands, 0.7 detection and 0.7 tracking confidence.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.7,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.MaxHands < 1 {
		return fmt.Errorf("max hands must be at least 1, got %d", c.MaxHands)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min detection confidence must be between 0 and 1, got %f", c.MinConfidence)
	}
	if c.MinTrackingConf < 0 || c.MinTrackingConf > 1 {
		return fmt.Errorf("min tracking confidence must be between 0 and 1, got %f", c.MinTrackingConf)
	}
	return nil
}

// args renders the configuration as command-line flags for the landmark service.
func (c Config) args() []string {
	return []string{
		"--max-hands", fmt.Sprintf("%d", c.MaxHands),
		"--min-detection-confidence", fmt.Sprintf("%g", c.MinConfidence),
		"--min-tracking-confidence", fmt.Sprintf("%g", c.MinTrackingConf),
	}
}
