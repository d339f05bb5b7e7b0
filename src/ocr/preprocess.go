package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultThreshold is the global binarization cut-off on the 0-255 intensity
// scale. It favors dark text on light backgrounds.
const DefaultThreshold uint8 = 150

// Binarize converts img to single-channel intensity and applies a fixed global
// threshold: intensities at or above threshold become 255, everything else 0.
// The result always starts at the origin.
func Binarize(img image.Image, threshold uint8) *image.Gray {
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x := range dst {
			// imaging.Grayscale writes the luma into R, G and B alike.
			if src[x*4] >= threshold {
				dst[x] = 0xff
			}
		}
	}
	return out
}
