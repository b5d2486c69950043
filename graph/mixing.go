package graph

// Channel interpretation of a node's inputs.
type ChannelInterpretation int

const (
	// InterpretationDiscrete adds channels index-wise, truncating extra
	// source channels and leaving extra destination channels silent.
	InterpretationDiscrete ChannelInterpretation = iota
	// InterpretationSpeakers routes through the standard mixing matrices
	// where one is defined for the channel-count pair.
	InterpretationSpeakers
)

// Speaker orders: mono; stereo L R; 5.1 FL FR C LFE BL BR;
// 7.1 FL FR C LFE BL BR SL SR.
//
// Matrices are row-major with one row per source channel and one column
// per destination channel. They are read-only process-wide tables.
var (
	mixingMatrix1To2 = []float64{
		0.7071, 0.7071,
	}
	mixingMatrix1To6 = []float64{
		0, 0, 1, 0, 0, 0,
	}
	mixingMatrix1To8 = []float64{
		0, 0, 1, 0, 0, 0, 0, 0,
	}

	mixingMatrix2To1 = []float64{
		0.5,
		0.5,
	}
	mixingMatrix2To6 = []float64{
		1, 0, 0, 0, 0, 0,
		0, 1, 0, 0, 0, 0,
	}
	mixingMatrix2To8 = []float64{
		1, 0, 0, 0, 0, 0, 0, 0,
		0, 1, 0, 0, 0, 0, 0, 0,
	}

	mixingMatrix6To1 = []float64{
		0.5,
		0.5,
		0.7071,
		0,
		0.3536,
		0.3536,
	}
	mixingMatrix6To2 = []float64{
		1, 0,
		0, 1,
		0.7071, 0.7071,
		0, 0,
		0.7071, 0,
		0, 0.7071,
	}
	mixingMatrix6To8 = []float64{
		1, 0, 0, 0, 0, 0, 0, 0,
		0, 1, 0, 0, 0, 0, 0, 0,
		0, 0, 1, 0, 0, 0, 0, 0,
		0, 0, 0, 1, 0, 0, 0, 0,
		0, 0, 0, 0, 1, 0, 0, 0,
		0, 0, 0, 0, 0, 1, 0, 0,
	}

	mixingMatrix8To1 = []float64{
		0.5,
		0.5,
		0.7071,
		0,
		0.3536,
		0.3536,
		0.3536,
		0.3536,
	}
	mixingMatrix8To2 = []float64{
		1, 0,
		0, 1,
		0.7071, 0.7071,
		0, 0,
		0.7071, 0,
		0, 0.7071,
		0.7071, 0,
		0, 0.7071,
	}
	mixingMatrix8To6 = []float64{
		1, 0, 0, 0, 0, 0,
		0, 1, 0, 0, 0, 0,
		0, 0, 1, 0, 0, 0,
		0, 0, 0, 1, 0, 0,
		0, 0, 0, 0, 1, 0,
		0, 0, 0, 0, 0, 1,
		0, 0, 0, 0, 0.7071, 0,
		0, 0, 0, 0, 0, 0.7071,
	}
)

var mixingMatrices = map[[2]int][]float64{
	{1, 2}: mixingMatrix1To2,
	{1, 6}: mixingMatrix1To6,
	{1, 8}: mixingMatrix1To8,
	{2, 1}: mixingMatrix2To1,
	{2, 6}: mixingMatrix2To6,
	{2, 8}: mixingMatrix2To8,
	{6, 1}: mixingMatrix6To1,
	{6, 2}: mixingMatrix6To2,
	{6, 8}: mixingMatrix6To8,
	{8, 1}: mixingMatrix8To1,
	{8, 2}: mixingMatrix8To2,
	{8, 6}: mixingMatrix8To6,
}

// mixingMatrix returns the src-to-dst channel matrix, if one is defined.
func mixingMatrix(src, dst int) ([]float64, bool) {
	m, ok := mixingMatrices[[2]int{src, dst}]
	return m, ok
}
