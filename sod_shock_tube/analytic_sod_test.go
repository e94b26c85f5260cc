package sod_shock_tube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSOD(t *testing.T) {
	{ // Star region of the classic shock tube
		s := NewSOD(0.5)
		assert.InDelta(t, 0.30313, s.PPost, 1.e-5)
		assert.InDelta(t, 0.92745, s.VPost, 1.e-5)
		assert.InDelta(t, 0.42632, s.RhoMiddle, 1.e-5)
		assert.InDelta(t, 0.26557, s.RhoPost, 1.e-5)
		assert.InDelta(t, 1.75216, s.VShock, 1.e-5)
		assert.InDelta(t, 0., s.sodFunc(s.PPost), 1.e-12)
	}
	{ // Wave positions
		_, _, _, x4 := NewSOD(0.5).Positions(0.1)
		assert.True(t, math.Abs(x4-0.6752) < 0.0001)
		_, _, _, x4 = NewSOD(0.5).Positions(0.2)
		assert.True(t, math.Abs(x4-0.8504) < 0.0001)
	}
	{ // Profile corners
		var (
			s              = NewSOD(0.5)
			x1, x2, x3, x4 = s.Positions(0.2)
			tol            = 1.e-8
			X              = []float64{0, x1 - tol, x1 + tol, x2 - tol, x2 + tol, x3 - tol, x3 + tol, x4 - tol, x4 + tol, 1}
			Rho, P, U, E   = make([]float64, 10), make([]float64, 10), make([]float64, 10), make([]float64, 10)
		)
		for i, x := range X {
			Rho[i], U[i], P[i] = s.Get(0.2, x)
			E[i] = P[i] / (0.4 * Rho[i])
		}
		assert.Equal(t, 1., Rho[0])
		assert.Equal(t, 0.125, Rho[9])
		assert.Equal(t, 1., P[0])
		assert.Equal(t, 0.1, P[9])
		assert.Equal(t, 0., U[0])
		assert.InDelta(t, 0.42632, Rho[5], 1.e-5) // Left of the contact
		assert.InDelta(t, 0.26557, Rho[6], 1.e-5) // Right of the contact
		assert.InDelta(t, 0.92745, U[7], 1.e-5)   // Behind the shock
		assert.InDelta(t, 2.5, E[0], 1.e-12)
		// Monotone density through the fan
		for i := 1; i < 5; i++ {
			assert.True(t, Rho[i] <= Rho[i-1])
		}
	}
	{ // Rarefaction connects continuously to the uniform regions
		s := NewSOD(0.5)
		x1, x2, _, _ := s.Positions(0.2)
		rhoA, uA, pA := s.Get(0.2, x1+1.e-12)
		assert.InDelta(t, 1., rhoA, 1.e-9)
		assert.InDelta(t, 0., uA, 1.e-9)
		assert.InDelta(t, 1., pA, 1.e-9)
		rhoB, uB, pB := s.Get(0.2, x2-1.e-12)
		assert.InDelta(t, s.RhoMiddle, rhoB, 1.e-9)
		assert.InDelta(t, s.VPost, uB, 1.e-9)
		assert.InDelta(t, s.PPost, pB, 1.e-9)
	}
	{ // Initial state and conserved form
		s := NewSOD(0.5)
		rho, rhoU, rhoV, E := s.GetStateC(0, 0.25, 7)
		assert.Equal(t, [3]float64{1, 0, 0}, [3]float64{rho, rhoU, rhoV})
		assert.InDelta(t, 2.5, E, 1.e-14)
		rho, _, _, E = s.GetStateC(0, 0.75, 7)
		assert.Equal(t, 0.125, rho)
		assert.InDelta(t, 0.25, E, 1.e-14)
	}
}
