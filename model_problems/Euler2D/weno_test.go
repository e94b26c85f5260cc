package Euler2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeno5(t *testing.T) {
	{ // Constant state is reproduced
		assert.InDelta(t, 2.5, Weno5(2.5, 2.5, 2.5, 2.5, 2.5), 1.e-14)
	}
	{ // Cell averages of u=x on unit cells centered at -2..2, face at x=1/2
		assert.InDelta(t, 0.5, Weno5(-2, -1, 0, 1, 2), 1.e-14)
		// Reversed order is the right biased value at the face between 0 and -1
		assert.InDelta(t, -0.5, Weno5(2, 1, 0, -1, -2), 1.e-14)
	}
	{ // Cell averages of u=x^2 are k^2 + 1/12, every candidate is exact
		avg := func(k float64) float64 { return k*k + 1./12. }
		assert.InDelta(t, 0.25, Weno5(avg(-2), avg(-1), avg(0), avg(1), avg(2)), 1.e-12)
		assert.InDelta(t, 2.25, Weno5(avg(-1), avg(0), avg(1), avg(2), avg(3)), 1.e-12)
	}
	{ // A jump right of the face is not felt by the left biased value
		u := Weno5(0, 0, 0, 1, 1)
		assert.InDelta(t, 0, u, 1.e-9)
		u = Weno5(1, 1, 1, 0, 0)
		assert.InDelta(t, 1, u, 1.e-9)
	}
	{ // Odd symmetry
		s := [5]float64{0.3, -1.2, 4.5, 2.2, -0.7}
		assert.InDelta(t, -Weno5(s[0], s[1], s[2], s[3], s[4]),
			Weno5(-s[0], -s[1], -s[2], -s[3], -s[4]), 1.e-14)
	}
}
