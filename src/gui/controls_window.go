package gui

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"screen-region-reader/src/narrator"
	"screen-region-reader/src/overlay"
	"screen-region-reader/src/screenshot"
)

const (
	minFrameWidth  = 240
	minFrameHeight = 40
)

// ShowControlWindow opens the reading window for region: a red frame the size
// of the captured area above a bar with the speed and voice controls.
// Closing the window routes through c.Close. Must run on the fyne main goroutine.
func ShowControlWindow(a fyne.App, region screenshot.Region, c *overlay.Controls) fyne.Window {
	w := a.NewWindow(fmt.Sprintf("Reading %s", region))

	frame := canvas.NewRectangle(color.Transparent)
	frame.StrokeColor = selectionColor
	frame.StrokeWidth = selectionStroke

	bar := newControlBar(c)
	w.SetContent(container.NewBorder(nil, bar.box, nil, nil, frame))
	w.SetCloseIntercept(c.Close)

	scale := w.Canvas().Scale()
	if scale <= 0 {
		scale = 1
	}
	width := max(float32(region.Width)/scale, minFrameWidth)
	height := max(float32(region.Height)/scale, minFrameHeight)
	w.Resize(fyne.NewSize(width, height+bar.box.MinSize().Height))
	w.Show()

	log.Printf("Control window shown for region %s", region)
	return w
}

type controlBar struct {
	box     *fyne.Container
	rate    *widget.Label
	down    *widget.Button
	up      *widget.Button
	voices  *widget.Select
	closeIt *widget.Button
}

func newControlBar(c *overlay.Controls) *controlBar {
	b := &controlBar{rate: widget.NewLabel(rateText(c.Rate()))}
	b.down = widget.NewButton("-", func() { b.rate.SetText(rateText(c.SpeedDown())) })
	b.up = widget.NewButton("+", func() { b.rate.SetText(rateText(c.SpeedUp())) })

	b.voices = widget.NewSelect(voiceNames(c.Voices()), nil)
	if v, ok := c.ActiveVoice(); ok {
		b.voices.SetSelected(v.Name)
	}
	b.voices.OnChanged = func(name string) {
		if c.SelectVoice(name) {
			return
		}
		if v, ok := c.ActiveVoice(); ok && v.Name != name {
			b.voices.SetSelected(v.Name)
		}
	}

	b.closeIt = widget.NewButton("X", c.Close)
	b.box = container.NewHBox(b.down, b.up, b.rate, layout.NewSpacer(), b.voices, b.closeIt)
	return b
}

func rateText(rate int) string {
	return fmt.Sprintf("Speed %+d", rate)
}

func voiceNames(voices []narrator.Voice) []string {
	names := make([]string, 0, len(voices))
	for _, v := range voices {
		names = append(names, v.Name)
	}
	return names
}
