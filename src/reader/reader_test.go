package reader

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"screen-region-reader/src/screenshot"
)

// script feeds one recognized text per tick. A nil entry simulates a capture failure.
type script struct {
	mu       sync.Mutex
	readings []*string
	pos      int
	captures int
	ocrCalls int
	lastImg  image.Image
}

func str(s string) *string { return &s }

func (s *script) capture(region screenshot.Region) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures++
	if s.pos < len(s.readings) && s.readings[s.pos] == nil {
		s.pos++
		return nil, errors.New("region off-screen")
	}
	img := image.NewRGBA(image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height))
	img.Set(region.X, region.Y, color.White)
	return img, nil
}

func (s *script) recognize(img image.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ocrCalls++
	s.lastImg = img
	if s.pos >= len(s.readings) {
		return "", nil
	}
	text := *s.readings[s.pos]
	s.pos++
	return text, nil
}

type recordingSpeaker struct {
	mu     sync.Mutex
	spoken []string
	err    error
}

func (r *recordingSpeaker) Speak(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.spoken = append(r.spoken, text)
	return nil
}

func (r *recordingSpeaker) Spoken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.spoken...)
}

func newScriptedLoop(s *script, sp Speaker, targets ...Target) *Loop {
	return New(screenshot.Region{X: 10, Y: 10, Width: 100, Height: 50}, Options{
		Capture:   s.capture,
		Recognize: s.recognize,
		Speaker:   sp,
		Targets:   targets,
		Interval:  time.Millisecond,
	})
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTickSpeaksOnlyChangedText(t *testing.T) {
	s := &script{readings: []*string{str("HELLO"), str(""), str("HELLO"), str("WORLD")}}
	sp := &recordingSpeaker{}
	l := newScriptedLoop(s, sp)

	want := []bool{true, false, false, true}
	for i, w := range want {
		if got := l.tick(); got != w {
			t.Errorf("tick %d: spoken=%v, expected %v", i+1, got, w)
		}
	}
	if got := sp.Spoken(); !equal(got, []string{"HELLO", "WORLD"}) {
		t.Errorf("Expected [HELLO WORLD], got %v", got)
	}
	if l.lastText != "WORLD" {
		t.Errorf("Expected lastText WORLD, got %q", l.lastText)
	}
}

func TestTickTrimsWhitespace(t *testing.T) {
	s := &script{readings: []*string{str("  HELLO\n"), str("HELLO"), str("\n\t ")}}
	sp := &recordingSpeaker{}
	l := newScriptedLoop(s, sp)

	l.tick()
	l.tick()
	l.tick()
	if got := sp.Spoken(); !equal(got, []string{"HELLO"}) {
		t.Errorf("Expected a single HELLO, got %v", got)
	}
}

func TestTickBinarizesFrame(t *testing.T) {
	s := &script{readings: []*string{str("X")}}
	l := newScriptedLoop(s, &recordingSpeaker{})
	l.tick()

	gray, ok := s.lastImg.(*image.Gray)
	if !ok {
		t.Fatalf("Expected OCR input to be *image.Gray, got %T", s.lastImg)
	}
	if b := gray.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("Expected 100x50 binarized frame, got %v", b)
	}
	for _, v := range gray.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("Expected binary pixels only, found %d", v)
		}
	}
	if gray.GrayAt(0, 0).Y != 255 {
		t.Error("Expected the white pixel to survive binarization")
	}
}

func TestTickToleratesCaptureFailure(t *testing.T) {
	s := &script{readings: []*string{str("ONE"), nil, str("TWO"), str("THREE"), str("FOUR")}}
	sp := &recordingSpeaker{}
	l := newScriptedLoop(s, sp)

	for i := 0; i < 5; i++ {
		l.tick()
	}
	if got := sp.Spoken(); !equal(got, []string{"ONE", "TWO", "THREE", "FOUR"}) {
		t.Errorf("Expected every reading but the failed tick, got %v", got)
	}
	if s.ocrCalls != 4 {
		t.Errorf("Expected OCR to be skipped on the failed tick, got %d calls", s.ocrCalls)
	}
}

func TestTickRecoversFromPanic(t *testing.T) {
	sp := &recordingSpeaker{}
	l := New(screenshot.Region{Width: 10, Height: 10}, Options{
		Capture:   func(screenshot.Region) (image.Image, error) { panic("display gone") },
		Recognize: func(image.Image) (string, error) { return "X", nil },
		Speaker:   sp,
	})
	if l.tick() {
		t.Error("Expected a panicking tick to speak nothing")
	}
}

func TestTickIgnoresOCRErrors(t *testing.T) {
	sp := &recordingSpeaker{}
	l := New(screenshot.Region{Width: 10, Height: 10}, Options{
		Capture:   func(r screenshot.Region) (image.Image, error) { return image.NewRGBA(r.Bounds()), nil },
		Recognize: func(image.Image) (string, error) { return "partial", errors.New("tesseract hiccup") },
		Speaker:   sp,
	})
	l.tick()
	if len(sp.Spoken()) != 0 {
		t.Errorf("Expected no speech on OCR error, got %v", sp.Spoken())
	}
}

func TestTickSpeechFailureRetries(t *testing.T) {
	s := &script{readings: []*string{str("HELLO"), str("HELLO")}}
	sp := &recordingSpeaker{err: errors.New("audio device busy")}
	l := newScriptedLoop(s, sp)

	if l.tick() {
		t.Fatal("Expected failed speech to report nothing spoken")
	}
	if l.lastText != "" {
		t.Fatalf("Expected lastText untouched after speech failure, got %q", l.lastText)
	}

	sp.mu.Lock()
	sp.err = nil
	sp.mu.Unlock()
	if !l.tick() {
		t.Error("Expected the same text to be spoken once speech recovers")
	}
}

type failingTarget struct{ calls int }

func (f *failingTarget) OnUtterance(string) error {
	f.calls++
	return errors.New("clipboard unavailable")
}

func TestTargetsReceiveUtterances(t *testing.T) {
	s := &script{readings: []*string{str("HELLO"), str("HELLO"), str("WORLD")}}
	var out bytes.Buffer
	bad := &failingTarget{}
	l := newScriptedLoop(s, &recordingSpeaker{}, bad, StdoutTarget{Writer: &out})

	l.tick()
	l.tick()
	l.tick()
	if out.String() != "Reading: HELLO\nReading: WORLD\n" {
		t.Errorf("Unexpected echo output %q", out.String())
	}
	if bad.calls != 2 {
		t.Errorf("Expected failing target to be called twice, got %d", bad.calls)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	s := &script{readings: []*string{str("HELLO")}}
	sp := &recordingSpeaker{}
	l := newScriptedLoop(s, sp)

	if l.State() != StateIdle {
		t.Fatalf("Expected idle before Start, got %s", l.State())
	}
	l.Start()
	l.Start()
	if l.State() != StateRunning {
		t.Fatalf("Expected running after Start, got %s", l.State())
	}

	deadline := time.After(2 * time.Second)
	for len(sp.Spoken()) == 0 {
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for first utterance")
		case <-time.After(time.Millisecond):
		}
	}

	l.Stop()
	l.Stop()
	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Loop did not stop")
	}
	if l.State() != StateStopped {
		t.Errorf("Expected stopped, got %s", l.State())
	}

	s.mu.Lock()
	calls := s.captures
	s.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.captures != calls {
		t.Errorf("Expected no ticks after stop, captures went %d -> %d", calls, s.captures)
	}
}

func TestStopBeforeStart(t *testing.T) {
	s := &script{}
	l := newScriptedLoop(s, &recordingSpeaker{})
	l.Stop()
	l.Start()

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("Expected Done to be closed for a loop stopped before start")
	}
	if s.captures != 0 {
		t.Errorf("Expected no capture, got %d", s.captures)
	}
}

// blockingSpeaker holds the first utterance until released.
type blockingSpeaker struct {
	started  chan struct{}
	release  chan struct{}
	finished chan string
}

func (b *blockingSpeaker) Speak(text string) error {
	close(b.started)
	<-b.release
	b.finished <- text
	return nil
}

func TestStopDoesNotTruncateSpeech(t *testing.T) {
	s := &script{readings: []*string{str("HELLO"), str("WORLD"), str("AGAIN")}}
	sp := &blockingSpeaker{
		started:  make(chan struct{}),
		release:  make(chan struct{}),
		finished: make(chan string, 1),
	}
	l := newScriptedLoop(s, sp)
	l.Start()

	select {
	case <-sp.started:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for speech to begin")
	}

	l.Stop()
	select {
	case <-l.Done():
		t.Fatal("Loop exited while speech was still in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(sp.release)
	if got := <-sp.finished; got != "HELLO" {
		t.Errorf("Expected HELLO to complete, got %q", got)
	}
	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Loop did not exit after in-flight speech")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ocrCalls != 1 {
		t.Errorf("Expected exactly one tick, got %d OCR calls", s.ocrCalls)
	}
}
