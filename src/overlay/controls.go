package overlay

import (
	"log"
	"sync"

	"screen-region-reader/src/narrator"
)

// Voicer is the part of the narrator the controls mutate.
type Voicer interface {
	Rate() int
	AdjustRate(delta int) (int, error)
	Voices() []narrator.Voice
	VoiceByName(name string) (narrator.Voice, bool)
	ActiveVoice() (narrator.Voice, bool)
	SetVoice(v narrator.Voice) error
}

// Stopper ends the background reader.
type Stopper interface {
	Stop()
}

// Controls holds the actions behind the reading window's buttons. Every method
// is safe to call from UI callbacks while the reader keeps running.
type Controls struct {
	narrator Voicer
	loop     Stopper
	onClose  func()

	closeOnce sync.Once
}

func NewControls(n Voicer, loop Stopper, onClose func()) *Controls {
	return &Controls{narrator: n, loop: loop, onClose: onClose}
}

// SpeedDown lowers the speech rate by one step and returns the rate now in effect.
func (c *Controls) SpeedDown() int { return c.adjust(-1) }

// SpeedUp raises the speech rate by one step and returns the rate now in effect.
func (c *Controls) SpeedUp() int { return c.adjust(1) }

func (c *Controls) adjust(delta int) int {
	rate, err := c.narrator.AdjustRate(delta)
	if err != nil {
		log.Printf("Controls: rate change failed: %v", err)
		return c.narrator.Rate()
	}
	log.Printf("Controls: speech rate %d", rate)
	return rate
}

// SelectVoice switches to the catalog voice with the given display name.
// Unknown names, and engine failures, leave the previous voice active.
func (c *Controls) SelectVoice(name string) bool {
	v, ok := c.narrator.VoiceByName(name)
	if !ok {
		log.Printf("Controls: unknown voice %q", name)
		return false
	}
	if err := c.narrator.SetVoice(v); err != nil {
		log.Printf("Controls: voice change failed: %v", err)
		return false
	}
	return true
}

// Close stops the reader and then tears the window down. Only the first call acts.
func (c *Controls) Close() {
	c.closeOnce.Do(func() {
		log.Printf("Controls: close requested")
		if c.loop != nil {
			c.loop.Stop()
		}
		if c.onClose != nil {
			c.onClose()
		}
	})
}

func (c *Controls) Voices() []narrator.Voice { return c.narrator.Voices() }

func (c *Controls) ActiveVoice() (narrator.Voice, bool) { return c.narrator.ActiveVoice() }

func (c *Controls) Rate() int { return c.narrator.Rate() }
