package narrator

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// PCM is interleaved little-endian audio ready for playback.
type PCM struct {
	Data          []byte
	SampleRate    uint32
	Channels      uint16
	BitsPerSample uint16
}

var ErrNotWAV = errors.New("not a RIFF/WAVE stream")

// ParseWAV extracts PCM samples from a WAV stream. espeak cannot seek back into
// a pipe to patch the header, so an oversized or zero data length means
// "everything that follows".
func ParseWAV(b []byte) (PCM, error) {
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return PCM{}, ErrNotWAV
	}

	var pcm PCM
	haveFmt := false
	for i := 12; i+8 <= len(b); {
		id := string(b[i : i+4])
		size := int64(binary.LittleEndian.Uint32(b[i+4 : i+8]))
		body := i + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(b) {
				return PCM{}, fmt.Errorf("truncated fmt chunk")
			}
			if format := binary.LittleEndian.Uint16(b[body:]); format != 1 {
				return PCM{}, fmt.Errorf("unsupported WAV format %d", format)
			}
			pcm.Channels = binary.LittleEndian.Uint16(b[body+2:])
			pcm.SampleRate = binary.LittleEndian.Uint32(b[body+4:])
			pcm.BitsPerSample = binary.LittleEndian.Uint16(b[body+14:])
			haveFmt = true
		case "data":
			if !haveFmt {
				return PCM{}, fmt.Errorf("data chunk before fmt chunk")
			}
			end := int64(len(b))
			if size > 0 && int64(body)+size < end {
				end = int64(body) + size
			}
			pcm.Data = b[body:end]
			return pcm, nil
		}

		next := int64(body) + size + size%2
		if next > int64(len(b)) {
			break
		}
		i = int(next)
	}
	return PCM{}, fmt.Errorf("no data chunk")
}
