package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"ghost-overlay/src/clipboard"
	"ghost-overlay/src/config"
	"ghost-overlay/src/gui"
	"ghost-overlay/src/hotkey"
	"ghost-overlay/src/logutil"
	"ghost-overlay/src/notification"
	"ghost-overlay/src/overlay"
	"ghost-overlay/src/runtimeinit"
	"ghost-overlay/src/screenshot"
	"ghost-overlay/src/singleinstance"
	"ghost-overlay/src/tray"
	"ghost-overlay/src/worker"
)

const appID = "io.github.ghost-overlay"

type mainOptions struct {
	apiKeyPath string
	envPath    string
}

func main() {
	opts := &mainOptions{}
	if err := newRootCmd(opts).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ghost-overlay",
		Short:         "Floating Gemini screen analysis overlay",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*opts)
		},
	}
	cmd.Flags().StringVar(&opts.apiKeyPath, "api-key-path", "", "Path to API key file (highest precedence)")
	cmd.Flags().StringVar(&opts.envPath, "env", "", "Path to .env file")
	return cmd
}

func run(opts mainOptions) error {
	// Must precede any window creation.
	enableDPIAwareness()

	cfg, client, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			APIKeyPathOverride: opts.apiKeyPath,
			EnvPathOverride:    opts.envPath,
		},
		SetupLogging: logutil.Setup,
	})
	if err != nil {
		return err
	}

	inst, handedOff := claimInstance(cfg.SingleInstancePort)
	if handedOff {
		return nil
	}
	if inst != nil {
		defer inst.Release()
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable, Copy disabled: %v", err)
	}
	logDisplays()

	a := app.NewWithID(appID)
	a.SetIcon(tray.Icon)
	style := gui.DefaultStyle(cfg.Opacity)
	ov := gui.New(a, style)

	bounds, boundsErr := screenshot.GetDisplayBounds()
	pos := initialPosition(cfg, style, bounds, boundsErr)

	pool := worker.New(1)
	defer closePool(pool, 2*time.Second)

	ctrl := overlay.NewController(overlay.Options{
		View:     ov,
		Mover:    ov,
		Capturer: screenshot.NewAdapter(ov, time.Duration(cfg.HideDelayMS)*time.Millisecond),
		Analyzer: client,
		Runner:   pool,
		Post:     fyne.Do,
		Quit:     a.Quit,
		Position: pos,
	})
	ov.Bind(ctrl)

	showOverlay := func() {
		ov.Window().Show()
		ov.Window().RequestFocus()
	}
	if inst != nil {
		inst.SetOnShow(func() { fyne.Do(showOverlay) })
	}

	tray.Install(a, tray.Config{
		Title:     gui.Title,
		OnAnalyze: ctrl.OnAnalyzeRequested,
		OnShow:    showOverlay,
	})

	if cfg.Hotkey != "" {
		if err := hotkey.Listen(cfg.Hotkey, func() { fyne.Do(ctrl.OnAnalyzeRequested) }); err != nil {
			log.Printf("Hotkey disabled: %v", err)
		} else {
			defer hotkey.Stop()
		}
	} else {
		log.Printf("Hotkey disabled by configuration")
	}

	a.Lifecycle().SetOnStarted(func() {
		ov.Activate(pos, cfg.Stealth)
		if !client.Ready() {
			notification.Send(a, gui.Title, fmt.Sprintf("Gemini client not initialized. Set %s or %s.",
				config.APIKeyEnvVar, config.APIKeyPathEnvVar))
		}
	})

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Printf("Signal received, quitting")
		fyne.Do(a.Quit)
	}()

	log.Printf("Ghost overlay started at (%d,%d), model %s, hotkey %q", pos.X, pos.Y, cfg.Model, cfg.Hotkey)
	ov.Window().Show()
	a.Run()
	log.Printf("Ghost overlay exited")
	return nil
}

// claimInstance takes the single-instance port or brings the running overlay
// forward. A port held by another program leaves inst nil and the overlay
// starts anyway.
func claimInstance(port int) (inst *singleinstance.Instance, handedOff bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return singleinstance.Claim(ctx, port)
}

// closePool waits for an in-flight run to finish. A run blocked on the UI
// loop that already stopped is abandoned after timeout.
func closePool(pool *worker.Pool, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		pool.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		log.Printf("Worker still busy at exit, abandoning it")
	}
}

// initialPosition keeps the configured origin on the primary display.
func initialPosition(cfg *config.Config, style gui.Style, bounds image.Rectangle, boundsErr error) overlay.Point {
	x, y := cfg.WindowX, cfg.WindowY
	if boundsErr != nil {
		log.Printf("Display bounds unavailable, using configured position: %v", boundsErr)
		return overlay.Point{X: x, Y: y}
	}
	x, y = screenshot.ClampToDisplay(bounds, x, y, int(style.Width), int(style.Height))
	return overlay.Point{X: x, Y: y}
}

func logDisplays() {
	bounds, err := screenshot.GetDisplayBounds()
	if err != nil {
		log.Printf("MONITOR: %v", err)
		return
	}
	log.Printf("MONITOR: Primary display - x:%d y:%d w:%d h:%d",
		bounds.Min.X, bounds.Min.Y, bounds.Dx(), bounds.Dy())
}
