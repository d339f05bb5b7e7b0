package runtimeinit

import (
	"fmt"
	"log"
	"time"

	"screen-region-reader/src/clipboard"
	"screen-region-reader/src/config"
	"screen-region-reader/src/narrator"
	"screen-region-reader/src/reader"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
}

// Bootstrap loads configuration and sets up logging.
func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}

	if cfg.CopyToClipboard {
		if err := clipboard.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	}

	log.Printf("OCR language: %s, poll interval: %dms", cfg.OCRLanguage, cfg.PollIntervalMs)
	return cfg, nil
}

// NewSpeechEngine builds the espeak engine. With malgo playback selected, a
// failure to open the audio backend falls back to espeak's own output.
func NewSpeechEngine(cfg *config.Config) (*narrator.Espeak, error) {
	return newSpeechEngine(cfg, func() (narrator.Player, error) { return narrator.NewMalgoPlayer() })
}

func newSpeechEngine(cfg *config.Config, newPlayer func() (narrator.Player, error)) (*narrator.Espeak, error) {
	var player narrator.Player
	if cfg.SpeechPlayback == config.PlaybackMalgo {
		p, err := newPlayer()
		if err != nil {
			log.Printf("Audio playback unavailable, letting espeak play directly: %v", err)
		} else {
			player = p
		}
	}

	engine, err := narrator.NewEspeak(cfg.EspeakBinary, player)
	if err != nil {
		if player != nil {
			_ = player.Close()
		}
		return nil, fmt.Errorf("failed to initialize speech engine: %w", err)
	}
	return engine, nil
}

// NewNarrator wraps engine and applies the configured rate and voice.
func NewNarrator(cfg *config.Config, engine narrator.Engine) (*narrator.Narrator, error) {
	n, err := narrator.New(engine)
	if err != nil {
		return nil, err
	}
	if _, err := n.SetRate(cfg.SpeechRate); err != nil {
		return nil, err
	}
	voice := n.PreferredVoice(cfg.PreferredVoice)
	if err := n.SetVoice(voice); err != nil {
		return nil, err
	}
	log.Printf("Narrator ready: %d voices, rate %d, voice %s", len(n.Voices()), n.Rate(), voice.Name)
	return n, nil
}

// Targets returns the utterance sinks enabled in cfg.
func Targets(cfg *config.Config) []reader.Target {
	var targets []reader.Target
	if cfg.EchoToStdout {
		targets = append(targets, reader.StdoutTarget{})
	}
	if cfg.CopyToClipboard {
		targets = append(targets, clipboard.Target{})
	}
	return targets
}

// PollInterval converts the configured interval for the reader.
func PollInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.PollIntervalMs) * time.Millisecond
}
