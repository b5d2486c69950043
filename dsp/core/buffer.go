package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}

// Interleave packs planar channel buffers into dst frame by frame.
// dst must hold frames*len(channels) values; short channels read as zero.
func Interleave(dst []float64, channels [][]float64, frames int) {
	n := len(channels)
	for i := 0; i < frames; i++ {
		for j := 0; j < n; j++ {
			v := 0.0
			if i < len(channels[j]) {
				v = channels[j][i]
			}
			dst[i*n+j] = v
		}
	}
}

// Deinterleave unpacks interleaved frames in src into planar channel buffers.
func Deinterleave(channels [][]float64, src []float64, frames int) {
	n := len(channels)
	for i := 0; i < frames; i++ {
		for j := 0; j < n; j++ {
			if i < len(channels[j]) {
				channels[j][i] = src[i*n+j]
			}
		}
	}
}
