package gui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screen-region-reader/src/overlay"
	"screen-region-reader/src/screenshot"
)

var (
	shadeColor     = color.NRGBA{A: 96}
	selectionColor = color.NRGBA{R: 255, A: 255}
)

const selectionStroke = 2

type selectionResult struct {
	region screenshot.Region
	ok     bool
}

// RegionSelector shows a frozen image of the primary display and lets the user
// drag out a rectangle on it.
type RegionSelector struct {
	app     fyne.App
	display int
	capture func(display int) (*image.RGBA, image.Rectangle, error)
}

func NewRegionSelector(a fyne.App) *RegionSelector {
	return &RegionSelector{app: a, capture: screenshot.CaptureDisplay}
}

var _ overlay.Selector = (*RegionSelector)(nil)

// Select blocks until the user releases the mouse, presses Escape, or ctx ends.
// It must not be called from the fyne main goroutine.
func (s *RegionSelector) Select(ctx context.Context) (screenshot.Region, bool, error) {
	log.Printf("Starting interactive region selection...")

	shot, bounds, err := s.capture(s.display)
	if err != nil {
		return screenshot.Region{}, false, fmt.Errorf("failed to capture screen for selection: %w", err)
	}

	results := make(chan selectionResult, 1)
	surface := newSelectionSurface(shot, bounds, func(r selectionResult) { results <- r })
	fyne.Do(func() { surface.open(s.app) })

	select {
	case r := <-results:
		if !r.ok {
			log.Printf("No valid region selected")
			return screenshot.Region{}, true, nil
		}
		log.Printf("Region selected: %s", r.region)
		return r.region, false, nil
	case <-ctx.Done():
		fyne.Do(surface.abort)
		return screenshot.Region{}, false, ctx.Err()
	}
}

// selectionSurface is the full-screen widget that turns pointer events into a Gesture.
// All fields are owned by the fyne main goroutine.
type selectionSurface struct {
	widget.BaseWidget

	bounds  image.Rectangle
	gesture Gesture
	start   fyne.Position
	last    fyne.Position

	background *canvas.Image
	outline    *canvas.Rectangle
	window     fyne.Window
	finished   bool
	onFinish   func(selectionResult)
}

func newSelectionSurface(shot image.Image, bounds image.Rectangle, onFinish func(selectionResult)) *selectionSurface {
	s := &selectionSurface{bounds: bounds, onFinish: onFinish}
	s.background = canvas.NewImageFromImage(shot)
	s.background.FillMode = canvas.ImageFillStretch
	s.outline = canvas.NewRectangle(color.Transparent)
	s.outline.StrokeColor = selectionColor
	s.outline.StrokeWidth = selectionStroke
	s.outline.Hide()
	s.ExtendBaseWidget(s)
	return s
}

func (s *selectionSurface) open(a fyne.App) {
	var w fyne.Window
	if drv, ok := a.Driver().(desktop.Driver); ok {
		w = drv.CreateSplashWindow()
	} else {
		w = a.NewWindow("Select a region")
	}
	s.window = w
	w.SetPadded(false)
	w.SetContent(s)
	w.SetFullScreen(true)
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			log.Printf("Selection aborted with Escape")
			s.abort()
		}
	})
	w.SetOnClosed(s.abort)
	w.Show()
	w.RequestFocus()
}

func (s *selectionSurface) CreateRenderer() fyne.WidgetRenderer {
	shade := canvas.NewRectangle(shadeColor)
	return widget.NewSimpleRenderer(container.NewStack(
		s.background,
		shade,
		container.NewWithoutLayout(s.outline),
	))
}

func (s *selectionSurface) Cursor() desktop.Cursor { return desktop.CrosshairCursor }

func (s *selectionSurface) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		s.abort()
		return
	}
	if s.gesture.Press(s.toScreen(ev.Position)) {
		s.start, s.last = ev.Position, ev.Position
		s.updateOutline()
	}
}

func (s *selectionSurface) Dragged(ev *fyne.DragEvent) {
	if s.gesture.Drag(s.toScreen(ev.Position)) {
		s.last = ev.Position
		s.updateOutline()
	}
}

func (s *selectionSurface) DragEnd() {
	if s.gesture.Release(s.toScreen(s.last)) {
		s.finish()
	}
}

func (s *selectionSurface) MouseUp(ev *desktop.MouseEvent) {
	if s.gesture.Release(s.toScreen(ev.Position)) {
		s.finish()
	}
}

func (s *selectionSurface) updateOutline() {
	minX, minY := min(s.start.X, s.last.X), min(s.start.Y, s.last.Y)
	maxX, maxY := max(s.start.X, s.last.X), max(s.start.Y, s.last.Y)
	s.outline.Move(fyne.NewPos(minX, minY))
	s.outline.Resize(fyne.NewSize(maxX-minX, maxY-minY))
	s.outline.Show()
	s.outline.Refresh()
}

func (s *selectionSurface) toScreen(p fyne.Position) image.Point {
	return toScreen(p, s.Size(), s.bounds)
}

// toScreen maps a position on a surface of the given size, stretched over
// bounds, to physical screen pixels.
func toScreen(p fyne.Position, size fyne.Size, bounds image.Rectangle) image.Point {
	if size.Width <= 0 || size.Height <= 0 {
		return bounds.Min
	}
	sx := float64(bounds.Dx()) / float64(size.Width)
	sy := float64(bounds.Dy()) / float64(size.Height)
	x := int(math.Round(float64(p.X) * sx))
	y := int(math.Round(float64(p.Y) * sy))
	x = min(max(x, 0), bounds.Dx())
	y = min(max(y, 0), bounds.Dy())
	return bounds.Min.Add(image.Pt(x, y))
}

func (s *selectionSurface) abort() {
	s.gesture.Abort()
	s.finish()
}

func (s *selectionSurface) finish() {
	if s.finished {
		return
	}
	s.finished = true
	region, ok := s.gesture.Result()
	if s.window != nil {
		s.window.Close()
	}
	s.onFinish(selectionResult{region: region, ok: ok})
}
