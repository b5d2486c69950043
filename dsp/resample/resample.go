// Package resample provides a streaming sample-rate converter with a
// linear write/read pipeline: the caller feeds interleaved frames at the
// input rate with Read and drains interleaved frames at the output rate
// with Write.
package resample

import (
	"fmt"
	"math"
)

// Stream converts interleaved multi-channel audio between two sample
// rates using linear interpolation. It never produces a frame it has not
// yet received both neighbors for, so Write returns short counts until
// more input arrives.
type Stream struct {
	channels int
	step     float64 // input frames consumed per output frame

	pending []float64 // queued interleaved input frames
	last    []float64 // the frame preceding pending[0]
	primed  bool
	pos     float64 // fractional position between last and pending[0]
}

// NewStream returns a converter from inRate to outRate for the given
// interleaved channel count.
func NewStream(channels int, inRate, outRate float64) (*Stream, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("resample: channels must be > 0: %d", channels)
	}

	if inRate <= 0 || math.IsNaN(inRate) || math.IsInf(inRate, 0) {
		return nil, fmt.Errorf("resample: input rate must be > 0: %f", inRate)
	}

	if outRate <= 0 || math.IsNaN(outRate) || math.IsInf(outRate, 0) {
		return nil, fmt.Errorf("resample: output rate must be > 0: %f", outRate)
	}

	return &Stream{
		channels: channels,
		step:     inRate / outRate,
		last:     make([]float64, channels),
	}, nil
}

// Channels returns the interleaved channel count.
func (s *Stream) Channels() int { return s.channels }

// Read queues interleaved input frames. len(src) must be a multiple of
// the channel count.
func (s *Stream) Read(src []float64) error {
	if len(src)%s.channels != 0 {
		return fmt.Errorf("resample: input length %d not a multiple of %d channels", len(src), s.channels)
	}

	s.pending = append(s.pending, src...)

	return nil
}

// Write produces up to frames interleaved output frames into dst and
// returns the number written. dst must hold frames*channels values.
func (s *Stream) Write(dst []float64, frames int) int {
	written := 0

	for written < frames {
		if !s.primed {
			if len(s.pending) < s.channels {
				break
			}

			copy(s.last, s.pending[:s.channels])
			s.pending = s.pending[s.channels:]
			s.primed = true
		}
		// Consume whole input frames the position has passed.
		for s.pos >= 1 && len(s.pending) >= s.channels {
			s.pos -= 1

			copy(s.last, s.pending[:s.channels])
			s.pending = s.pending[s.channels:]
		}

		if s.pos >= 1 || len(s.pending) < s.channels {
			break
		}

		next := s.pending[:s.channels]
		for c := 0; c < s.channels; c++ {
			dst[written*s.channels+c] = s.last[c] + (next[c]-s.last[c])*s.pos
		}

		written++
		s.pos += s.step
	}

	return written
}

// Reset drops all queued input and returns the stream to its initial state.
func (s *Stream) Reset() {
	s.pending = s.pending[:0]
	s.primed = false
	s.pos = 0

	for i := range s.last {
		s.last[i] = 0
	}
}
