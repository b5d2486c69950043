package fdn

import (
	"fmt"
	"math"
)

// Hadamard returns the row-major normalized Hadamard matrix of size n,
// built by the Sylvester construction. Entries are ±1/sqrt(n), so the
// matrix is orthonormal and preserves frame energy. n must be a power
// of two.
func Hadamard(n int) ([]float64, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("hadamard order must be a power of two: %d", n)
	}

	m := make([]float64, n*n)
	m[0] = 1

	for size := 1; size < n; size *= 2 {
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				v := m[i*n+j]
				m[i*n+j+size] = v
				m[(i+size)*n+j] = v
				m[(i+size)*n+j+size] = -v
			}
		}
	}

	scale := 1 / math.Sqrt(float64(n))
	for i := range m {
		m[i] *= scale
	}

	return m, nil
}
