package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := newRootCmd(cfg)
	rootCmd.AddCommand(newHistoryCmd(cfg))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the recognition command. Flag defaults come from cfg, so
// flags override .env and MUDRA_* values.
func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mudra",
		Short: "Mudra - real-time webcam hand gesture recognition",
		Long: `Mudra reads frames from a webcam, detects hand landmarks with MediaPipe,
classifies each hand as Thumbs Up, Fist, Peace Sign or Open Palm from its
finger joint angles, smooths the result over recent frames, and shows it
on the live video.

Press the exit key (default q) in the preview window to quit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Camera, "camera", cfg.Camera, "Camera device index")
	f.IntVar(&cfg.MaxHands, "max-hands", cfg.MaxHands, "Maximum number of hands to detect")
	f.Float64Var(&cfg.MinDetection, "min-detection", cfg.MinDetection, "Minimum hand detection confidence (0-1)")
	f.Float64Var(&cfg.MinTracking, "min-tracking", cfg.MinTracking, "Minimum hand tracking confidence (0-1)")
	f.IntVar(&cfg.Smoothing, "smoothing", cfg.Smoothing, "Number of recent labels the displayed gesture is voted from")
	f.IntVar(&cfg.ResetAfter, "reset-after", cfg.ResetAfter, "Clear gesture history after this many frames without a hand (0 keeps the last gesture)")
	f.Float64Var(&cfg.Motion, "motion", cfg.Motion, "Percent of changed pixels needed to run detection (0 disables the motion gate)")
	f.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Run without a preview window")
	f.BoolVar(&cfg.Tray, "tray", cfg.Tray, "Show a system tray menu (implies --headless)")
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address for the live API, e.g. :8080 (empty disables)")
	f.StringVar(&cfg.ExitKey, "exit-key", cfg.ExitKey, "Key that closes the preview window")
	cmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite history database (empty disables history)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mp, err := detector.NewMediaPipeDetector(cfg.Detector())
	if err != nil {
		return fmt.Errorf("hand detector unavailable: %w", err)
	}
	log.Println("Using MediaPipe hand detection")

	var st *store.Store
	if cfg.DBPath != "" {
		st, err = store.New(cfg.DBPath)
		if err != nil {
			mp.Close()
			return fmt.Errorf("open history: %w", err)
		}
		defer st.Close()
	}

	var display render.Display = render.Headless{}
	if !cfg.HeadlessMode() {
		display = render.NewWindow(render.DefaultWindowTitle)
	}

	var frames *server.FrameHub
	var hub *server.Hub
	if cfg.Addr != "" {
		frames = server.NewFrameHub()
		hub = server.NewHub()
	}

	appCfg := app.Config{
		Camera:           capture.NewCamera(cfg.Capture()),
		Detector:         mp,
		Display:          display,
		Store:            st,
		CameraID:         cfg.Camera,
		SmoothingWindow:  cfg.Smoothing,
		ResetAfterMisses: cfg.ResetAfter,
		MotionThresh:     cfg.Motion,
		ExitKey:          cfg.ExitRune(),
	}
	if frames != nil {
		appCfg.Frames = frames
	}

	a, err := app.New(appCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if cfg.Addr != "" {
		a.OnChange(hub.Broadcast)
		srv := server.New(server.Config{
			Store:     st,
			Snapshots: a,
			Frames:    frames,
			Hub:       hub,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
				log.Printf("HTTP server error: %v", err)
			}
		}()
	}

	if cfg.Tray {
		err = runWithTray(ctx, cancel, cfg, a)
	} else {
		err = a.Run(ctx)
	}

	cancel()
	wg.Wait()
	return err
}

// runWithTray runs the loop in the background and the tray on the calling
// goroutine, which the tray toolkit requires to be the main one.
func runWithTray(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, a *app.App) error {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnQuit(cancel)
	if cfg.Addr != "" {
		t.SetLiveURL(liveURL(cfg.Addr))
	}
	a.OnChange(func(s app.Snapshot) { t.SetGesture(s.Label) })

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		t.Quit()
	}()

	t.Run()
	cancel()
	return <-errCh
}

// liveURL turns a listen address into a browsable stream URL.
func liveURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/api/stream"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/stream"
}
