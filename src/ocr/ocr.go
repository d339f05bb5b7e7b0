package ocr

import (
	"bytes"
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Engine extracts text from an image. Implementations are called from a single
// goroutine and keep no state between calls beyond their own setup.
type Engine interface {
	Recognize(img image.Image) (string, error)
	Close() error
}

// Tesseract is an Engine backed by a single reusable gosseract client.
type Tesseract struct {
	client   *gosseract.Client
	language string
}

// NewTesseract creates a Tesseract engine for the given language profile (e.g. "eng").
func NewTesseract(language string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set language %q: %w", language, err)
	}
	log.Printf("OCR: tesseract %s, language=%s", client.Version(), language)
	return &Tesseract{client: client, language: language}, nil
}

// Recognize runs OCR over img and returns the raw recognized text.
func (t *Tesseract) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// Close releases the underlying Tesseract client.
func (t *Tesseract) Close() error {
	return t.client.Close()
}
