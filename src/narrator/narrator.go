package narrator

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

const (
	MinRate = -10
	MaxRate = 10
)

var ErrNoVoices = errors.New("speech engine reports no voices")

// Voice is one entry of the voice catalog. Name is what the user sees,
// ID is the engine handle used to select it.
type Voice struct {
	Name     string
	ID       string
	Language string
}

// Engine is a speech synthesizer with a mutable rate and voice.
// Speak blocks until the utterance has been played.
type Engine interface {
	Voices() ([]Voice, error)
	Rate() int
	SetRate(rate int) error
	SetVoice(v Voice) error
	Speak(text string) error
}

// Narrator is the stateful facade over an Engine shared by the control
// surface and the capture loop. Rate and voice changes are serialized;
// Speak does not take the lock, so controls stay responsive while talking.
type Narrator struct {
	mu        sync.Mutex
	engine    Engine
	voices    []Voice
	active    Voice
	hasActive bool
}

// New builds a Narrator and snapshots the engine's voice catalog.
func New(engine Engine) (*Narrator, error) {
	voices, err := engine.Voices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate voices: %w", err)
	}
	if len(voices) == 0 {
		return nil, ErrNoVoices
	}
	return &Narrator{engine: engine, voices: voices}, nil
}

// ClampRate limits r to [MinRate, MaxRate].
func ClampRate(r int) int {
	if r < MinRate {
		return MinRate
	}
	if r > MaxRate {
		return MaxRate
	}
	return r
}

// Rate returns the engine's current rate.
func (n *Narrator) Rate() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.Rate()
}

// SetRate clamps r into range, forwards it and returns the rate now in effect.
func (n *Narrator) SetRate(r int) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.setRateLocked(ClampRate(r))
}

// AdjustRate moves the rate by delta as one atomic step. At the bounds it is a no-op.
func (n *Narrator) AdjustRate(delta int) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	current := n.engine.Rate()
	next := ClampRate(current + delta)
	if next == current {
		return current, nil
	}
	return n.setRateLocked(next)
}

func (n *Narrator) setRateLocked(r int) (int, error) {
	if err := n.engine.SetRate(r); err != nil {
		return n.engine.Rate(), fmt.Errorf("failed to set rate %d: %w", r, err)
	}
	return n.engine.Rate(), nil
}

// Voices returns the catalog captured at construction time.
func (n *Narrator) Voices() []Voice {
	out := make([]Voice, len(n.voices))
	copy(out, n.voices)
	return out
}

// VoiceByName resolves a display name in the cached catalog.
func (n *Narrator) VoiceByName(name string) (Voice, bool) {
	for _, v := range n.voices {
		if v.Name == name {
			return v, true
		}
	}
	return Voice{}, false
}

// PreferredVoice picks the first voice whose name contains hint (case-insensitive),
// falling back to the first voice in the catalog.
func (n *Narrator) PreferredVoice(hint string) Voice {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint != "" {
		for _, v := range n.voices {
			if strings.Contains(strings.ToLower(v.Name), hint) {
				return v
			}
		}
	}
	return n.voices[0]
}

// ActiveVoice returns the voice last pushed with SetVoice.
func (n *Narrator) ActiveVoice() (Voice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active, n.hasActive
}

// SetVoice switches the synthesis voice for subsequent utterances.
// Selecting the active voice again does not touch the engine.
func (n *Narrator) SetVoice(v Voice) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.hasActive && n.active == v {
		return nil
	}
	if err := n.engine.SetVoice(v); err != nil {
		return fmt.Errorf("failed to set voice %q: %w", v.Name, err)
	}
	n.active = v
	n.hasActive = true
	log.Printf("Narrator: voice set to %s", v.Name)
	return nil
}

// Speak blocks until the engine has finished the utterance.
func (n *Narrator) Speak(text string) error {
	return n.engine.Speak(text)
}
