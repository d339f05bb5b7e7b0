package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// renderText draws text with basicfont and scales it up so Tesseract has enough pixels.
func renderText(text string, scale int) image.Image {
	width := len(text)*7 + 40
	height := 40
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(20), Y: fixed.I(25)},
	}
	d.DrawString(text)

	return imaging.Resize(img, width*scale, height*scale, imaging.NearestNeighbor)
}

func TestTesseractRecognize(t *testing.T) {
	engine, err := NewTesseract("eng")
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer engine.Close()

	img := Binarize(renderText("HELLO", 4), DefaultThreshold)
	text, err := engine.Recognize(img)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if !strings.Contains(strings.ToUpper(text), "HELLO") {
		t.Logf("Recognized %q (bitmap font may be misread)", text)
	}

	// The same client must be reusable across ticks.
	if _, err := engine.Recognize(img); err != nil {
		t.Fatalf("Second Recognize failed: %v", err)
	}
}

func TestTesseractRecognizeBlank(t *testing.T) {
	engine, err := NewTesseract("eng")
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer engine.Close()

	blank := image.NewGray(image.Rect(0, 0, 120, 40))
	draw.Draw(blank, blank.Bounds(), image.White, image.Point{}, draw.Src)
	text, err := engine.Recognize(blank)
	if err != nil {
		t.Logf("Blank image produced error (tesseract version dependent): %v", err)
		return
	}
	if strings.TrimSpace(text) != "" {
		t.Logf("Expected no text for a blank image, got %q", text)
	}
}
