package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"screen-region-reader/src/config"
	"screen-region-reader/src/gui"
	"screen-region-reader/src/hotkey"
	"screen-region-reader/src/logutil"
	"screen-region-reader/src/ocr"
	"screen-region-reader/src/overlay"
	"screen-region-reader/src/reader"
	"screen-region-reader/src/runtimeinit"
	"screen-region-reader/src/screenshot"
	"screen-region-reader/src/session"
	"screen-region-reader/src/tray"
)

const appID = "io.github.screen-region-reader"

func main() {
	os.Exit(run())
}

func run() int {
	// DPI awareness must be set before any window exists or metrics are queried.
	enableDPIAwareness()

	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{SetupLogging: logutil.Setup})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	logMonitorConfiguration()

	tess, err := ocr.NewTesseract(cfg.OCRLanguage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize OCR: %v\n", err)
		return 1
	}
	defer tess.Close()

	speech, err := runtimeinit.NewSpeechEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer speech.Close()

	a := app.NewWithID(appID)
	t := tray.New(a, tray.Config{Hotkey: cfg.Hotkey})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	opts := session.Options{
		SelectRegion: gui.NewRegionSelector(a).Select,
		NewNarrator: func() (session.Narrator, error) {
			return runtimeinit.NewNarrator(cfg, speech)
		},
		NewLoop: func(region screenshot.Region, speaker reader.Speaker) session.Loop {
			return reader.New(region, reader.Options{
				Capture:   screenshot.Capture,
				Recognize: tess.Recognize,
				Speaker:   speaker,
				Targets:   runtimeinit.Targets(cfg),
				Interval:  runtimeinit.PollInterval(cfg),
			})
		},
		ShowControls: func(region screenshot.Region, c *overlay.Controls) func() {
			return showControls(a, region, c)
		},
		StopTriggers: stopTriggers(cfg, t),
	}

	exitCode := 0
	sessionDone := make(chan struct{})
	go func() {
		defer close(sessionDone)
		defer fyne.Do(a.Quit)

		err := session.Execute(ctx, opts)
		switch {
		case err == nil:
		case errors.Is(err, session.ErrSelectionCancelled):
			log.Printf("Selection cancelled, exiting")
		case ctx.Err() != nil:
			log.Printf("Shutting down: %v", err)
		default:
			log.Printf("Session failed: %v", err)
			fmt.Fprintf(os.Stderr, "%v\n", err)
			exitCode = 1
		}
	}()

	a.Run()

	// The tray Quit item ends the app first; the session then stops on ctx.
	cancel()
	<-sessionDone
	return exitCode
}

// showControls opens the control window without blocking the caller. The
// returned func closes it once it exists.
func showControls(a fyne.App, region screenshot.Region, c *overlay.Controls) func() {
	shown := make(chan fyne.Window, 1)
	fyne.Do(func() { shown <- gui.ShowControlWindow(a, region, c) })
	return func() {
		fyne.Do(func() {
			select {
			case w := <-shown:
				w.Close()
			default:
			}
		})
	}
}

func stopTriggers(cfg *config.Config, t *tray.Tray) []session.StopTrigger {
	var triggers []session.StopTrigger
	if cfg.Hotkey != "" {
		triggers = append(triggers, func(stop func()) (func(), error) {
			return hotkey.Listen(cfg.Hotkey, stop)
		})
	}
	if t != nil {
		triggers = append(triggers, func(stop func()) (func(), error) {
			fyne.Do(func() { t.SetOnStop(stop) })
			return func() { fyne.Do(func() { t.SetOnStop(nil) }) }, nil
		})
	}
	return triggers
}
