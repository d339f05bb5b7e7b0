package reader

import (
	"image"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"screen-region-reader/src/logutil"
	"screen-region-reader/src/ocr"
	"screen-region-reader/src/screenshot"
)

const DefaultInterval = time.Second

// State of a Loop. The only transition is Running -> Stopped.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Speaker voices one utterance and blocks until it is done.
type Speaker interface {
	Speak(text string) error
}

// RecognizeFunc extracts text from a binarized frame.
type RecognizeFunc func(img image.Image) (string, error)

// Target receives every utterance after it has been spoken.
type Target interface {
	OnUtterance(text string) error
}

type Options struct {
	Capture   screenshot.CaptureFunc
	Recognize RecognizeFunc
	Speaker   Speaker
	Targets   []Target
	// Interval is the pause after each tick. Zero means DefaultInterval.
	Interval time.Duration
	// Threshold is the binarization cut-off. Zero means ocr.DefaultThreshold.
	Threshold uint8
}

// Loop samples one fixed screen region on a single background goroutine and
// speaks text that is new since the last spoken reading.
type Loop struct {
	region    screenshot.Region
	opts      Options
	interval  time.Duration
	threshold uint8

	state    atomic.Int32
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}

	// lastText is only touched by the loop goroutine.
	lastText string
}

// New creates a stopped loop for region. Call Start to begin reading.
func New(region screenshot.Region, opts Options) *Loop {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = ocr.DefaultThreshold
	}
	return &Loop{
		region:    region,
		opts:      opts,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Region returns the captured rectangle. It never changes after New.
func (l *Loop) Region() screenshot.Region { return l.region }

// State reports the current lifecycle state.
func (l *Loop) State() State { return State(l.state.Load()) }

// Start hands the loop to a background goroutine. Only the first call has an
// effect, and a loop that was stopped before starting never runs.
func (l *Loop) Start() {
	if !l.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return
	}
	log.Printf("Reader: starting on region %s every %s", l.region, l.interval)
	go l.run()
}

// Stop requests the loop to end. An utterance already being spoken is allowed
// to finish; no tick starts afterwards. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		prev := State(l.state.Swap(int32(StateStopped)))
		close(l.stopCh)
		if prev == StateIdle {
			close(l.done)
		}
		log.Printf("Reader: stop requested")
	})
}

// Done is closed once the background goroutine has exited.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Wait blocks until the loop has fully stopped.
func (l *Loop) Wait() { <-l.done }

func (l *Loop) run() {
	defer close(l.done)
	defer log.Printf("Reader: stopped")

	for l.State() == StateRunning {
		l.tick()

		timer := time.NewTimer(l.interval)
		select {
		case <-timer.C:
		case <-l.stopCh:
			timer.Stop()
			return
		}
	}
}

// tick runs one capture -> binarize -> recognize -> compare -> maybe-speak cycle.
// It reports whether an utterance was spoken.
func (l *Loop) tick() (spoken bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Reader: PANIC in tick, skipping: %v", r)
			spoken = false
		}
	}()

	frame, err := l.opts.Capture(l.region)
	if err != nil {
		log.Printf("Reader: capture failed, skipping tick: %v", err)
		return false
	}

	raw, err := l.opts.Recognize(ocr.Binarize(frame, l.threshold))
	if err != nil {
		log.Printf("Reader: OCR failed, skipping tick: %v", err)
		return false
	}

	text := strings.TrimSpace(raw)
	if text == "" || text == l.lastText {
		return false
	}

	log.Printf("Reader: new text (%d chars): %q", len(text), logutil.Sanitize(text))
	if err := l.opts.Speaker.Speak(text); err != nil {
		log.Printf("Reader: speech failed, will retry on next change check: %v", err)
		return false
	}
	l.lastText = text

	for _, t := range l.opts.Targets {
		if err := t.OnUtterance(text); err != nil {
			log.Printf("Reader: target %T failed: %v", t, err)
		}
	}
	return true
}
