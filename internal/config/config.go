// Package config holds runtime settings for mudra.
//
// Settings start from Default, are overlaid from a .env file and MUDRA_*
// environment variables by Load, and are finally overridden by command-line
// flags in cmd/mudra.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// ErrInvalid is wrapped by every validation and parse error.
var ErrInvalid = errors.New("invalid config")

// Environment variable names.
const (
	EnvCamera       = "MUDRA_CAMERA"
	EnvMaxHands     = "MUDRA_MAX_HANDS"
	EnvMinDetection = "MUDRA_MIN_DETECTION"
	EnvMinTracking  = "MUDRA_MIN_TRACKING"
	EnvSmoothing    = "MUDRA_SMOOTHING"
	EnvResetAfter   = "MUDRA_RESET_AFTER"
	EnvMotion       = "MUDRA_MOTION"
	EnvHeadless     = "MUDRA_HEADLESS"
	EnvAddr         = "MUDRA_ADDR"
	EnvDB           = "MUDRA_DB"
	EnvExitKey      = "MUDRA_EXIT_KEY"
)

// Config is the full set of runtime settings.
type Config struct {
	Camera       int
	MaxHands     int
	MinDetection float64
	MinTracking  float64
	Smoothing    int
	// ResetAfter clears the smoothing window after this many consecutive
	// frames without a hand. Zero keeps the last label indefinitely.
	ResetAfter int
	// Motion is the percentage of changed pixels needed to run detection.
	// Zero disables the motion gate.
	Motion   float64
	Headless bool
	Tray     bool
	// Addr is the HTTP listen address. Empty disables the server.
	Addr string
	// DBPath is the SQLite history file. Empty disables history.
	DBPath  string
	ExitKey string
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	det := detector.DefaultConfig()
	return &Config{
		Camera:       0,
		MaxHands:     det.MaxHands,
		MinDetection: det.MinConfidence,
		MinTracking:  det.MinTrackingConf,
		Smoothing:    gesture.DefaultWindow,
		ResetAfter:   0,
		Motion:       0,
		Addr:         "",
		DBPath:       DefaultDBPath(),
		ExitKey:      "q",
	}
}

// DefaultDBPath returns ~/.mudra/mudra.db, or mudra.db when there is no home directory.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mudra.db"
	}
	return filepath.Join(home, ".mudra", "mudra.db")
}

// Load returns Default overlaid with the given .env files (".env" when none
// are named) and the MUDRA_* environment. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)
	return FromEnv(os.LookupEnv)
}

// FromEnv returns Default overlaid with the values lookup reports.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	e := envReader{lookup: lookup}

	e.intVar(EnvCamera, &cfg.Camera)
	e.intVar(EnvMaxHands, &cfg.MaxHands)
	e.floatVar(EnvMinDetection, &cfg.MinDetection)
	e.floatVar(EnvMinTracking, &cfg.MinTracking)
	e.intVar(EnvSmoothing, &cfg.Smoothing)
	e.intVar(EnvResetAfter, &cfg.ResetAfter)
	e.floatVar(EnvMotion, &cfg.Motion)
	e.boolVar(EnvHeadless, &cfg.Headless)
	e.stringVar(EnvAddr, &cfg.Addr)
	e.stringVar(EnvDB, &cfg.DBPath)
	e.stringVar(EnvExitKey, &cfg.ExitKey)

	if len(e.errs) > 0 {
		return nil, errors.Join(e.errs...)
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Camera < 0 {
		add("camera index must be >= 0, got %d", c.Camera)
	}
	if err := c.Detector().Validate(); err != nil {
		add("%v", err)
	}
	if c.Smoothing < 1 {
		add("smoothing window must be >= 1, got %d", c.Smoothing)
	}
	if c.ResetAfter < 0 {
		add("reset-after must be >= 0, got %d", c.ResetAfter)
	}
	if c.Motion < 0 || c.Motion > 100 {
		add("motion threshold must be within [0, 100], got %g", c.Motion)
	}
	if utf8.RuneCountInString(c.ExitKey) != 1 {
		add("exit key must be a single character, got %q", c.ExitKey)
	}

	return errors.Join(errs...)
}

// HeadlessMode reports whether the preview window is suppressed.
// The tray runs on the main thread, so it always implies headless.
func (c *Config) HeadlessMode() bool {
	return c.Headless || c.Tray
}

// ExitRune returns the exit key, or 'q' when it is unset.
func (c *Config) ExitRune() rune {
	r, _ := utf8.DecodeRuneInString(c.ExitKey)
	if r == utf8.RuneError {
		return 'q'
	}
	return r
}

// Detector returns the landmark detector settings.
func (c *Config) Detector() detector.Config {
	return detector.Config{
		MaxHands:        c.MaxHands,
		MinConfidence:   c.MinDetection,
		MinTrackingConf: c.MinTracking,
	}
}

// Capture returns the camera settings.
func (c *Config) Capture() capture.Config {
	cc := capture.DefaultConfig()
	cc.DeviceID = c.Camera
	return cc
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e *envReader) fail(key, v string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, err))
}

func (e *envReader) intVar(key string, dst *int) {
	v, ok := e.get(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) floatVar(key string, dst *float64) {
	v, ok := e.get(key)
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = f
}

func (e *envReader) boolVar(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = b
}

// stringVar sets dst even to the empty string, which disables optional features.
func (e *envReader) stringVar(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}
