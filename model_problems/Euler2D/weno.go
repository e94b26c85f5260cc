package Euler2D

const (
	wenoEps = 1.e-6
	gamma1  = 1. / 10.
	gamma2  = 3. / 5.
	gamma3  = 3. / 10.
)

/*
Weno5 returns the fifth order WENO value at the face between u0 and up1 from
the five cell values um2..up2, biased toward the left. The value biased toward
the right is obtained by passing the stencil in reverse order.
*/
func Weno5(um2, um1, u0, up1, up2 float64) (u float64) {
	var (
		beta1 = (13./12.)*(um2-2.*um1+u0)*(um2-2.*um1+u0) +
			0.25*(um2-4.*um1+3.*u0)*(um2-4.*um1+3.*u0)
		beta2 = (13./12.)*(um1-2.*u0+up1)*(um1-2.*u0+up1) +
			0.25*(um1-up1)*(um1-up1)
		beta3 = (13./12.)*(u0-2.*up1+up2)*(u0-2.*up1+up2) +
			0.25*(3.*u0-4.*up1+up2)*(3.*u0-4.*up1+up2)
		w1 = gamma1 / ((wenoEps + beta1) * (wenoEps + beta1))
		w2 = gamma2 / ((wenoEps + beta2) * (wenoEps + beta2))
		w3 = gamma3 / ((wenoEps + beta3) * (wenoEps + beta3))
		// Third order candidates on each sub-stencil
		u1 = (1./3.)*um2 - (7./6.)*um1 + (11./6.)*u0
		u2 = -(1./6.)*um1 + (5./6.)*u0 + (1./3.)*up1
		u3 = (1./3.)*u0 + (5./6.)*up1 - (1./6.)*up2
	)
	u = (w1*u1 + w2*u2 + w3*u3) / (w1 + w2 + w3)
	return
}
