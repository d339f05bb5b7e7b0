package screenshot

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Region represents a screen region to capture, in physical pixels.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the region has no area. An empty region is treated
// the same as no selection at all.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Bounds returns the region as an image rectangle.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// RegionFromPoints normalizes two corners into a region. Coordinates of the
// top-left corner are the minimum of both points; size is the absolute difference.
func RegionFromPoints(a, b image.Point) Region {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// CaptureFunc grabs one frame of a region. Capture is the production implementation.
type CaptureFunc func(region Region) (image.Image, error)

// Capture captures a specific region of the screen.
func Capture(region Region) (image.Image, error) {
	if region.Empty() {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", region.Width, region.Height)
	}

	img, err := screenshot.CaptureRect(region.Bounds())
	if err != nil {
		return nil, fmt.Errorf("failed to capture region %s: %w", region, err)
	}
	return img, nil
}

// CaptureDisplay captures one whole display and returns the image together
// with the display's position on the virtual screen.
func CaptureDisplay(index int) (*image.RGBA, image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	if index < 0 || index >= n {
		return nil, image.Rectangle{}, fmt.Errorf("display %d out of range (%d active)", index, n)
	}
	bounds := screenshot.GetDisplayBounds(index)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to capture display %d: %w", index, err)
	}
	return img, bounds, nil
}
