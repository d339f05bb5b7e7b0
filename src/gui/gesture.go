package gui

import (
	"image"

	"screen-region-reader/src/screenshot"
)

type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
	GestureFinalized
)

func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GestureFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Gesture tracks one press-drag-release selection. Transitions only move
// forward, and events that do not fit the current state are ignored.
// It is not safe for concurrent use; the UI thread owns it.
type Gesture struct {
	state   GestureState
	anchor  image.Point
	current image.Point
	region  screenshot.Region
}

func (g *Gesture) State() GestureState { return g.state }

// Press records the anchor corner. Accepted only while idle.
func (g *Gesture) Press(p image.Point) bool {
	if g.state != GestureIdle {
		return false
	}
	g.anchor, g.current = p, p
	g.state = GestureDragging
	return true
}

// Drag moves the free corner of the live rectangle. Accepted only while dragging.
func (g *Gesture) Drag(p image.Point) bool {
	if g.state != GestureDragging {
		return false
	}
	g.current = p
	return true
}

// Release finalizes the rectangle spanned by the anchor and p.
// A release without a prior press is ignored.
func (g *Gesture) Release(p image.Point) bool {
	if g.state != GestureDragging {
		return false
	}
	g.current = p
	g.region = screenshot.RegionFromPoints(g.anchor, p)
	g.state = GestureFinalized
	return true
}

// Abort finalizes without a region. It has no effect once finalized.
func (g *Gesture) Abort() bool {
	if g.state == GestureFinalized {
		return false
	}
	g.region = screenshot.Region{}
	g.state = GestureFinalized
	return true
}

// Feedback returns the live rectangle while dragging.
func (g *Gesture) Feedback() (screenshot.Region, bool) {
	if g.state != GestureDragging {
		return screenshot.Region{}, false
	}
	return screenshot.RegionFromPoints(g.anchor, g.current), true
}

// Result returns the finalized region. A zero-area rectangle counts as no region.
func (g *Gesture) Result() (screenshot.Region, bool) {
	if g.state != GestureFinalized || g.region.Empty() {
		return screenshot.Region{}, false
	}
	return g.region, true
}
