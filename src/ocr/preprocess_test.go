package ocr

import (
	"image"
	"image/color"
	"testing"
)

func TestBinarizeThresholdBoundary(t *testing.T) {
	tests := []struct {
		name  string
		level uint8
		want  uint8
	}{
		{"black", 0, 0},
		{"just below", 149, 0},
		{"at threshold", 150, 255},
		{"white", 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 2, 2))
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					img.Set(x, y, color.RGBA{R: tt.level, G: tt.level, B: tt.level, A: 255})
				}
			}
			out := Binarize(img, DefaultThreshold)
			for _, v := range out.Pix {
				if v != tt.want {
					t.Fatalf("Binarize(level=%d) pixel = %d, expected %d", tt.level, v, tt.want)
				}
			}
		})
	}
}

func TestBinarizeUsesLuma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	// Pure green is bright (luma ~150), pure blue is dark (luma ~29).
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})

	out := Binarize(img, DefaultThreshold)
	if out.GrayAt(0, 0).Y != 255 {
		t.Errorf("Expected green pixel to become white, got %d", out.GrayAt(0, 0).Y)
	}
	if out.GrayAt(1, 0).Y != 0 {
		t.Errorf("Expected blue pixel to become black, got %d", out.GrayAt(1, 0).Y)
	}
}

func TestBinarizeKeepsDimensions(t *testing.T) {
	// Screen captures carry their screen offset in Bounds().Min.
	img := image.NewRGBA(image.Rect(10, 10, 110, 60))
	out := Binarize(img, DefaultThreshold)
	if b := out.Bounds(); b.Min != (image.Point{}) || b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("Expected 100x50 image at origin, got %v", b)
	}
}
