// Package tray provides a system tray interface for mudra.
package tray

import (
	"log"
	"os/exec"
	"runtime"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/render"
)

const (
	titleRunning = "● Recognizing"
	titlePaused  = "○ Paused"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onQuit   func()
	liveURL  string
	enabled  bool
	gesture  gesture.Label
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuGesture *systray.MenuItem
}

// New creates a new Tray instance with recognition enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
		gesture: gesture.NoHand,
	}
}

// OnToggle sets the callback function to be called when recognition is paused or resumed.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// SetLiveURL enables the "Open Live View" item, which opens url in a browser.
func (t *Tray) SetLiveURL(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.liveURL = url
}

// Run starts the system tray application.
// This function blocks until Quit is called and must run on the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Hand Gesture Recognition")

	t.mu.Lock()
	t.menuGesture = systray.AddMenuItem(render.Caption(t.gesture), "Current gesture")
	t.menuGesture.Disable()
	systray.AddSeparator()

	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume gesture recognition")
	liveURL := t.liveURL
	t.mu.Unlock()

	menuLive := systray.AddMenuItem("Open Live View", "Open the annotated stream in a browser")
	if liveURL == "" {
		menuLive.Disable()
	}
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuLive.ClickedCh:
				t.handleOpenLive()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return titleRunning
	}
	return titlePaused
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpenLive() {
	t.mu.RLock()
	url := t.liveURL
	t.mu.RUnlock()

	if url == "" {
		return
	}
	if err := openBrowser(url); err != nil {
		log.Printf("Failed to open %s: %v", url, err)
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetGesture updates the gesture shown in the menu.
func (t *Tray) SetGesture(label gesture.Label) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gesture = label
	if t.menuGesture != nil {
		t.menuGesture.SetTitle(render.Caption(label))
	}
}

// Gesture returns the gesture currently shown.
func (t *Tray) Gesture() gesture.Label {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.gesture
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
