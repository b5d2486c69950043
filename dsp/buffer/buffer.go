// Package buffer holds decoded PCM audio referenced by Buffer-typed
// properties. Data is stored interleaved, the way decoders deliver it.
package buffer

import "fmt"

// Buffer is an immutable-length block of interleaved PCM frames tagged
// with the sample rate it was decoded at.
type Buffer struct {
	sampleRate float64
	channels   int
	data       []float64
}

// New returns a buffer wrapping the interleaved data. len(data) must be a
// multiple of channels.
func New(sampleRate float64, channels int, data []float64) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("buffer: sample rate must be > 0: %f", sampleRate)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("buffer: channels must be > 0: %d", channels)
	}

	if len(data)%channels != 0 {
		return nil, fmt.Errorf("buffer: data length %d not a multiple of %d channels", len(data), channels)
	}

	return &Buffer{sampleRate: sampleRate, channels: channels, data: data}, nil
}

// SampleRate returns the source sample rate in Hz.
func (b *Buffer) SampleRate() float64 { return b.sampleRate }

// Channels returns the channel count.
func (b *Buffer) Channels() int { return b.channels }

// Frames returns the frame count.
func (b *Buffer) Frames() int { return len(b.data) / b.channels }

// Sample returns channel ch of frame i, or zero outside the buffer.
func (b *Buffer) Sample(i, ch int) float64 {
	if i < 0 || i >= b.Frames() || ch < 0 || ch >= b.channels {
		return 0
	}

	return b.data[i*b.channels+ch]
}

// Interleaved returns the backing interleaved data. Callers must not
// modify it; properties share one buffer between many nodes.
func (b *Buffer) Interleaved() []float64 { return b.data }

// CopyChannel writes channel ch into dst starting at frame offset and
// returns the number of samples copied.
func (b *Buffer) CopyChannel(dst []float64, ch, offset int) int {
	if ch < 0 || ch >= b.channels {
		return 0
	}

	n := 0
	for i := offset; i < b.Frames() && n < len(dst); i++ {
		dst[n] = b.data[i*b.channels+ch]
		n++
	}

	return n
}
