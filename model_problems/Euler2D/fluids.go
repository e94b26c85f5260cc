package Euler2D

import (
	"math"

	"github.com/notargets/fdweno/FD2D"
)

type FlowFunction uint8

func (pm FlowFunction) String() string {
	strings := []string{
		"Density",
		"XMomentum",
		"YMomentum",
		"Energy",
		"Mach",
		"Static Pressure",
		"Dynamic Pressure",
		"Pressure Coefficient",
		"Sound Speed",
		"Velocity",
		"XVelocity",
		"YVelocity",
		"Enthalpy",
	}
	return strings[int(pm)]
}

const (
	Density FlowFunction = iota
	XMomentum
	YMomentum
	Energy
	Mach                // 4
	StaticPressure      // 5
	DynamicPressure     // 6
	PressureCoefficient // 7
	SoundSpeed          // 8
	Velocity            // 9
	XVelocity           // 10
	YVelocity           // 11
	Enthalpy            // 12
)

/*
FreeStream carries the gas model (ratio of specific heats) together with the
reference state used for freestream initialization and pressure coefficients.
The reference state is non-dimensionalized so that rho=1 and c=1.
*/
type FreeStream struct {
	Gamma             float64
	Qinf              [4]float64
	Pinf, QQinf, Cinf float64
	Minf, Alpha       float64
}

func NewFreeStream(Minf, Gamma, Alpha float64) (fs *FreeStream) {
	var (
		ooggm1 = 1. / (Gamma * (Gamma - 1.))
		uinf   = Minf * math.Cos(Alpha*math.Pi/180.)
		vinf   = Minf * math.Sin(Alpha*math.Pi/180.)
	)
	fs = &FreeStream{
		Gamma: Gamma,
		Qinf:  [4]float64{1, uinf, vinf, ooggm1 + 0.5*Minf*Minf},
		Minf:  Minf,
		Alpha: Alpha,
	}
	fs.Pinf = fs.GetFlowFunctionQQ(fs.Qinf, StaticPressure)
	fs.QQinf = fs.GetFlowFunctionQQ(fs.Qinf, DynamicPressure)
	fs.Cinf = fs.GetFlowFunctionQQ(fs.Qinf, SoundSpeed)
	return
}

// ToPrimitive converts (rho, rhoU, rhoV, E) to (rho, u, v, p), without validation
func (fs *FreeStream) ToPrimitive(Q [4]float64) (P [4]float64) {
	var (
		rho = Q[0]
		u   = Q[1] / rho
		v   = Q[2] / rho
	)
	P = [4]float64{rho, u, v, (fs.Gamma - 1.) * (Q[3] - 0.5*rho*(u*u+v*v))}
	return
}

// ToConserved is the inverse of ToPrimitive
func (fs *FreeStream) ToConserved(P [4]float64) (Q [4]float64) {
	var (
		rho, u, v, p = P[0], P[1], P[2], P[3]
	)
	Q = [4]float64{rho, rho * u, rho * v, p/(fs.Gamma-1.) + 0.5*rho*(u*u+v*v)}
	return
}

func (fs *FreeStream) GetFlowFunction(Q FD2D.Field, ind int, pf FlowFunction) (f float64) {
	return fs.GetFlowFunctionBase(Q[0][ind], Q[1][ind], Q[2][ind], Q[3][ind], pf)
}

func (fs *FreeStream) GetFlowFunctionQQ(Q [4]float64, pf FlowFunction) (f float64) {
	return fs.GetFlowFunctionBase(Q[0], Q[1], Q[2], Q[3], pf)
}

func (fs *FreeStream) GetFlowFunctionBase(rho, rhoU, rhoV, E float64, pf FlowFunction) (f float64) {
	var (
		Gamma = fs.Gamma
		GM1   = Gamma - 1.
		oorho = 1. / rho
		q, p  float64
	)
	// Calculate q if needed
	switch pf {
	case StaticPressure, PressureCoefficient, SoundSpeed, Enthalpy, Mach:
		q = 0.5 * (rhoU*rhoU + rhoV*rhoV) * oorho
	}
	// Calculate p if needed
	switch pf {
	case PressureCoefficient, SoundSpeed, Enthalpy, Mach:
		p = GM1 * (E - q)
	}

	switch pf {
	case Density:
		f = rho
	case XMomentum:
		f = rhoU
	case YMomentum:
		f = rhoV
	case Energy:
		f = E
	case StaticPressure:
		f = GM1 * (E - q)
	case DynamicPressure:
		f = 0.5 * (rhoU*rhoU + rhoV*rhoV) * oorho
	case PressureCoefficient:
		f = -(p - fs.Pinf) / fs.QQinf
	case SoundSpeed:
		f = math.Sqrt(math.Abs(Gamma * p * oorho))
	case Velocity:
		f = math.Sqrt(rhoU*rhoU+rhoV*rhoV) * oorho
	case XVelocity:
		f = rhoU * oorho
	case YVelocity:
		f = rhoV * oorho
	case Mach:
		C := math.Sqrt(math.Abs(Gamma * p * oorho))
		U := math.Sqrt(rhoU*rhoU+rhoV*rhoV) * oorho
		f = U / C
	case Enthalpy:
		f = (E + p) / rho
	}
	return
}
