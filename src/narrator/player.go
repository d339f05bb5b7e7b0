package narrator

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

// drainDelay lets the final device period reach the speakers before teardown.
const drainDelay = 150 * time.Millisecond

// Player plays PCM audio and returns once playback has finished.
type Player interface {
	Play(pcm PCM) error
	Close() error
}

// MalgoPlayer plays PCM through the default output device using malgo.
type MalgoPlayer struct {
	mu  sync.Mutex
	ctx *malgo.AllocatedContext
}

// NewMalgoPlayer initializes the audio backend once for the process lifetime.
func NewMalgoPlayer() (*MalgoPlayer, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	return &MalgoPlayer{ctx: ctx}, nil
}

// Play opens a playback device sized to pcm and blocks until every sample was consumed.
func (p *MalgoPlayer) Play(pcm PCM) error {
	if pcm.BitsPerSample != 16 {
		return fmt.Errorf("unsupported sample width %d bits", pcm.BitsPerSample)
	}
	if len(pcm.Data) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx == nil {
		return fmt.Errorf("player is closed")
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = uint32(pcm.Channels)
	cfg.SampleRate = pcm.SampleRate
	cfg.Alsa.NoMMap = 1

	reader := bytes.NewReader(pcm.Data)
	done := make(chan struct{})
	var once sync.Once

	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, framecount uint32) {
			n, _ := io.ReadFull(reader, pOutputSample)
			if n < len(pOutputSample) {
				clear(pOutputSample[n:])
				once.Do(func() { close(done) })
			}
		},
	}

	device, err := malgo.InitDevice(p.ctx.Context, cfg, callbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}
	<-done
	time.Sleep(drainDelay)
	_ = device.Stop()
	return nil
}

// Close releases the malgo context.
func (p *MalgoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx == nil {
		return nil
	}
	err := p.ctx.Uninit()
	p.ctx.Free()
	p.ctx = nil
	return err
}
