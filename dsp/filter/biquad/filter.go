package biquad

// Type selects a cookbook filter response.
type Type int

const (
	TypeIdentity Type = iota
	TypeLowpass
	TypeHighpass
	TypeBandpass
	TypeNotch
	TypePeak
	TypeLowShelf
	TypeHighShelf
	TypeAllpass
)

// Filter is a runtime-reconfigurable biquad bound to a sample rate.
// Configure recomputes coefficients without touching the delay registers,
// so the response can be swept per sample.
type Filter struct {
	Section

	sampleRate float64
	typ        Type
}

// NewFilter returns an identity filter for the given sample rate.
func NewFilter(sampleRate float64) *Filter {
	f := &Filter{sampleRate: sampleRate}
	f.Coefficients = Identity()

	return f
}

// Configure recomputes the coefficients for the given response.
// gainDB is ignored by types without a gain parameter.
func (f *Filter) Configure(typ Type, freq, gainDB, q float64) {
	f.typ = typ

	switch typ {
	case TypeLowpass:
		f.Coefficients = Lowpass(freq, q, f.sampleRate)
	case TypeHighpass:
		f.Coefficients = Highpass(freq, q, f.sampleRate)
	case TypeBandpass:
		f.Coefficients = Bandpass(freq, q, f.sampleRate)
	case TypeNotch:
		f.Coefficients = Notch(freq, q, f.sampleRate)
	case TypePeak:
		f.Coefficients = Peak(freq, gainDB, q, f.sampleRate)
	case TypeLowShelf:
		f.Coefficients = LowShelf(freq, gainDB, q, f.sampleRate)
	case TypeHighShelf:
		f.Coefficients = HighShelf(freq, gainDB, q, f.sampleRate)
	case TypeAllpass:
		f.Coefficients = Allpass(freq, q, f.sampleRate)
	default:
		f.Coefficients = Identity()
	}
}

// Tick filters one sample.
func (f *Filter) Tick(x float64) float64 {
	return f.ProcessSample(x)
}

// ClearHistories zeroes the delay registers.
func (f *Filter) ClearHistories() {
	f.Section.Reset()
}

// Type returns the last configured response type.
func (f *Filter) Type() Type { return f.typ }

// SampleRate returns the bound sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }
