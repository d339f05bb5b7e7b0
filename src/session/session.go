package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"screen-region-reader/src/overlay"
	"screen-region-reader/src/reader"
	"screen-region-reader/src/screenshot"
)

var ErrSelectionCancelled = errors.New("selection cancelled")

type RegionSelectorFunc func(ctx context.Context) (screenshot.Region, bool, error)

// Narrator is what the session needs from the speech facade: the controls
// mutate it and the loop speaks through it.
type Narrator interface {
	overlay.Voicer
	reader.Speaker
}

// Loop is the background reader for one region.
type Loop interface {
	Start()
	Stop()
	Wait()
}

// StopTrigger binds an external stop source (hotkey, tray item) to stop.
// The returned release func unbinds it.
type StopTrigger func(stop func()) (release func(), err error)

type Options struct {
	SelectRegion RegionSelectorFunc
	NewNarrator  func() (Narrator, error)
	NewLoop      func(region screenshot.Region, speaker reader.Speaker) Loop
	// ShowControls opens the control surface and returns a func that closes it.
	ShowControls func(region screenshot.Region, c *overlay.Controls) (closeWindow func())
	StopTriggers []StopTrigger
}

// Execute runs one reading session: select a region, build the narrator,
// start the loop, then hand control to the user until Close or ctx ends.
// A cancelled or zero-area selection returns ErrSelectionCancelled without
// building anything else.
func Execute(ctx context.Context, opts Options) error {
	if opts.SelectRegion == nil {
		return errors.New("SelectRegion is required")
	}
	if opts.NewNarrator == nil {
		return errors.New("NewNarrator is required")
	}
	if opts.NewLoop == nil {
		return errors.New("NewLoop is required")
	}

	region, cancelled, err := opts.SelectRegion(ctx)
	if err != nil {
		return fmt.Errorf("region selection failed: %w", err)
	}
	if cancelled || region.Empty() {
		log.Printf("Session: no region selected")
		return ErrSelectionCancelled
	}

	n, err := opts.NewNarrator()
	if err != nil {
		return fmt.Errorf("failed to initialize speech: %w", err)
	}

	loop := opts.NewLoop(region, n)
	loop.Start()

	closed := make(chan struct{})
	controls := overlay.NewControls(n, loop, func() { close(closed) })

	var closeWindow func()
	if opts.ShowControls != nil {
		closeWindow = opts.ShowControls(region, controls)
	}

	var releases []func()
	for _, trigger := range opts.StopTriggers {
		release, err := trigger(controls.Close)
		if err != nil {
			log.Printf("Session: stop trigger unavailable: %v", err)
			continue
		}
		if release != nil {
			releases = append(releases, release)
		}
	}

	select {
	case <-closed:
	case <-ctx.Done():
		log.Printf("Session: context ended: %v", ctx.Err())
		controls.Close()
	}

	for _, release := range releases {
		release()
	}
	if closeWindow != nil {
		closeWindow()
	}
	loop.Wait()
	log.Printf("Session: finished reading region %s", region)
	return nil
}
