package render

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"tiaforge/capture"
)

// Config sizes the preview render.
type Config struct {
	// SampleRate is also the synthesis clock: one voice step per sample.
	SampleRate int
	// FrameRate is the playback rate the durations were folded at.
	FrameRate int
}

// DefaultConfig renders at the TIA audio clock, 60 frames per second.
func DefaultConfig() Config {
	return Config{SampleRate: 31440, FrameRate: 60}
}

// WAV renders up to two channels of intervals to a mono 16-bit PCM WAV
// file and returns the file bytes.
func WAV(channels [][]capture.Interval, cfg Config) ([]byte, error) {
	if len(channels) == 0 || len(channels) > 2 {
		return nil, fmt.Errorf("render: want 1 or 2 channels, got %d", len(channels))
	}
	clocksPerFrame := cfg.SampleRate / cfg.FrameRate

	totalFrames := 0
	for _, intervals := range channels {
		frames := 0
		for _, n := range intervals {
			frames += n.Duration
		}
		if frames > totalFrames {
			totalFrames = frames
		}
	}

	samples := make([]int, totalFrames*clocksPerFrame)
	for _, intervals := range channels {
		v := newVoice()
		pos := 0
		for _, n := range intervals {
			v.set(n.State.Registers[0], n.State.Registers[1], n.State.Registers[2])
			for i := 0; i < n.Duration*clocksPerFrame && pos < len(samples); i++ {
				samples[pos] += v.clock()
				pos++
			}
		}
	}
	// two voices at full volume sum to 30; center and scale to 16 bits
	for i, s := range samples {
		samples[i] = (s - 15) * 1092
	}

	var out seekBuffer
	enc := wav.NewEncoder(&out, cfg.SampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: cfg.SampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return out.data, nil
}

// seekBuffer is the in-memory WriteSeeker the WAV encoder needs to patch
// its header sizes.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.data) {
		grown := make([]byte, need)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(b.pos) + offset
	case io.SeekEnd:
		next = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("seek: bad whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("seek: negative position")
	}
	b.pos = int(next)
	return next, nil
}
