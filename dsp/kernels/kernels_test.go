package kernels

import "testing"

func TestAccumulate(t *testing.T) {
	dst := []float64{1, 2, 3}
	Accumulate(dst, []float64{1, 1, 1})

	want := []float64{2, 3, 4}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, dst[i], want[i])
		}
	}
}

func TestAccumulateScaled(t *testing.T) {
	dst := []float64{1, 1, 1}
	AccumulateScaled(dst, []float64{1, 2, 3}, 0.5)

	want := []float64{1.5, 2, 2.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, dst[i], want[i])
		}
	}
}

func TestScaleAndOffset(t *testing.T) {
	buf := []float64{1, 2}
	Scale(buf, 2)
	Offset(buf, 1)

	if buf[0] != 3 || buf[1] != 5 {
		t.Fatalf("got %v want [3 5]", buf)
	}
}

func TestScaleTo(t *testing.T) {
	dst := make([]float64, 2)
	ScaleTo(dst, []float64{3, 4}, 0.5)

	if dst[0] != 1.5 || dst[1] != 2 {
		t.Fatalf("got %v want [1.5 2]", dst)
	}
}

func TestMultiply(t *testing.T) {
	buf := []float64{2, 3}
	Multiply(buf, []float64{4, 5})

	if buf[0] != 8 || buf[1] != 15 {
		t.Fatalf("got %v want [8 15]", buf)
	}
}

func TestMultiplyTo(t *testing.T) {
	dst := make([]float64, 2)
	MultiplyTo(dst, []float64{2, 3}, []float64{4, 5})

	if dst[0] != 8 || dst[1] != 15 {
		t.Fatalf("got %v want [8 15]", dst)
	}
}

func BenchmarkAccumulateScaled(b *testing.B) {
	dst := make([]float64, 1024)
	src := make([]float64, 1024)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		AccumulateScaled(dst, src, 0.5)
	}
}
