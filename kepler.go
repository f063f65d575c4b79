package sgp4

import (
	"fmt"
	"math"
	"time"
)

const (
	// small is the threshold below which eccentricities, inclinations and norms are null.
	small = 1e-8
	// undefined marks orbital elements which are not defined for the orbit type.
	undefined = 999999.1
	// infinite is the semi-major axis of parabolic orbits.
	infinite = 999999.9
	// GMEarth is the gravitational parameter of the Earth in m^3/s^2 (EGM-96).
	GMEarth = 398600.4415e9
)

// OrbitType classifies an orbit for the element conversions.
type OrbitType uint8

const (
	// EllipticalInclined orbits have every element defined.
	EllipticalInclined OrbitType = iota + 1
	// CircularEquatorial orbits use the true longitude.
	CircularEquatorial
	// CircularInclined orbits use the argument of latitude.
	CircularInclined
	// EllipticalEquatorial orbits use the longitude of periapsis.
	EllipticalEquatorial
)

func (t OrbitType) String() string {
	switch t {
	case EllipticalInclined:
		return "ei"
	case CircularEquatorial:
		return "ce"
	case CircularInclined:
		return "ci"
	case EllipticalEquatorial:
		return "ee"
	}
	return "undefined"
}

func (t OrbitType) elliptical() bool {
	return t == EllipticalInclined || t == EllipticalEquatorial
}

// ClassicalElements are the classical orbital elements of a state vector.
// Angles are in radians; elements which do not apply to Type are set to 999999.1.
type ClassicalElements struct {
	Type    OrbitType
	P       float64 // semi-latus rectum
	A       float64 // semi-major axis
	Ecc     float64
	Incl    float64
	RAAN    float64
	ArgP    float64
	Nu      float64 // true anomaly
	M       float64 // mean anomaly
	ArgLat  float64 // argument of latitude (circular inclined)
	TrueLon float64 // true longitude (circular equatorial)
	LonPer  float64 // longitude of periapsis (elliptical equatorial)
}

// RV2COE returns the classical elements of the position and velocity for the
// gravitational parameter mu (units must be consistent, e.g. km and km^3/s^2).
func RV2COE(r, v []float64, mu float64) ClassicalElements {
	c := ClassicalElements{M: undefined}
	magr := Norm(r)
	magv := Norm(v)
	hbar := Cross(r, v)
	magh := Norm(hbar)
	if magh <= small {
		return ClassicalElements{P: undefined, A: undefined, Ecc: undefined, Incl: undefined,
			RAAN: undefined, ArgP: undefined, Nu: undefined, M: undefined, ArgLat: undefined,
			TrueLon: undefined, LonPer: undefined}
	}
	nbar := []float64{-hbar[1], hbar[0], 0}
	magn := Norm(nbar)
	c1 := magv*magv - mu/magr
	rdotv := Dot(r, v)
	ebar := make([]float64, 3)
	for i := range ebar {
		ebar[i] = (c1*r[i] - rdotv*v[i]) / mu
	}
	c.Ecc = Norm(ebar)

	sme := magv*magv*0.5 - mu/magr
	if math.Abs(sme) > small {
		c.A = -mu / (2 * sme)
	} else {
		c.A = infinite
	}
	c.P = magh * magh / mu
	c.Incl = math.Acos(hbar[2] / magh)

	equatorial := c.Incl < small || math.Abs(c.Incl-math.Pi) < small
	c.Type = EllipticalInclined
	if c.Ecc < small {
		if equatorial {
			c.Type = CircularEquatorial
		} else {
			c.Type = CircularInclined
		}
	} else if equatorial {
		c.Type = EllipticalEquatorial
	}

	if magn > small {
		c.RAAN = math.Acos(clampUnit(nbar[0] / magn))
		if nbar[1] < 0 {
			c.RAAN = twoPi - c.RAAN
		}
	} else {
		c.RAAN = undefined
	}

	c.ArgP = undefined
	if c.Type == EllipticalInclined {
		c.ArgP = Angle(nbar, ebar)
		if ebar[2] < 0 {
			c.ArgP = twoPi - c.ArgP
		}
	}

	c.Nu = undefined
	if c.Type.elliptical() {
		c.Nu = Angle(ebar, r)
		if rdotv < 0 {
			c.Nu = twoPi - c.Nu
		}
	}

	c.ArgLat = undefined
	if c.Type == CircularInclined {
		c.ArgLat = Angle(nbar, r)
		if r[2] < 0 {
			c.ArgLat = twoPi - c.ArgLat
		}
		c.M = c.ArgLat
	}

	c.LonPer = undefined
	if c.Ecc > small && c.Type == EllipticalEquatorial {
		c.LonPer = math.Acos(clampUnit(ebar[0] / c.Ecc))
		if ebar[1] < 0 {
			c.LonPer = twoPi - c.LonPer
		}
		if c.Incl > math.Pi/2 {
			c.LonPer = twoPi - c.LonPer
		}
	}

	c.TrueLon = undefined
	if magr > small && c.Type == CircularEquatorial {
		c.TrueLon = math.Acos(clampUnit(r[0] / magr))
		if r[1] < 0 {
			c.TrueLon = twoPi - c.TrueLon
		}
		if c.Incl > math.Pi/2 {
			c.TrueLon = twoPi - c.TrueLon
		}
		c.M = c.TrueLon
	}

	if c.Type.elliptical() {
		_, c.M = NewtonNu(c.Ecc, c.Nu)
	}
	return c
}

func clampUnit(x float64) float64 {
	if math.Abs(x) > 1 {
		return sign(x)
	}
	return x
}

// NewtonNu returns the eccentric (or hyperbolic, or parabolic) anomaly and the
// mean anomaly from the true anomaly nu. Unsupported cases return 999999.9.
func NewtonNu(ecc, nu float64) (e0, m float64) {
	e0, m = infinite, infinite
	switch {
	case math.Abs(ecc) < small:
		// Circular
		m, e0 = nu, nu
	case ecc < 1-small:
		sinNu, cosNu := math.Sincos(nu)
		sine := math.Sqrt(1-ecc*ecc) * sinNu / (1 + ecc*cosNu)
		cose := (ecc + cosNu) / (1 + ecc*cosNu)
		e0 = math.Atan2(sine, cose)
		m = e0 - ecc*math.Sin(e0)
	case ecc > 1+small:
		if math.Abs(nu)+0.00001 < math.Pi-math.Acos(1/ecc) {
			sine := math.Sqrt(ecc*ecc-1) * math.Sin(nu) / (1 + ecc*math.Cos(nu))
			e0 = math.Asinh(sine)
			m = ecc*math.Sinh(e0) - e0
		}
	case math.Abs(nu) < 168*deg2rad:
		// Parabolic
		e0 = math.Tan(nu * 0.5)
		m = e0 + e0*e0*e0/3
	}
	if ecc < 1 {
		m = math.Mod(m, twoPi)
		if m < 0 {
			m += twoPi
		}
		e0 = math.Mod(e0, twoPi)
	}
	return
}

// EccAnom solves Kepler's equation for the eccentric anomaly of the mean anomaly M.
// The returned flag is false when the iteration did not converge, in which case
// the last iterate is returned.
func EccAnom(M, e float64) (float64, bool) {
	const (
		maxit = 15
		eps   = 100 * epsMach
	)
	M = modulo(M, twoPi)
	E := math.Pi
	if e < 0.8 {
		E = M
	}
	for i := 1; ; i++ {
		f := E - e*math.Sin(E) - M
		E -= f / (1 - e*math.Cos(E))
		if math.Abs(f) <= eps {
			return E, true
		}
		if i == maxit {
			Logger("kepler").Log("level", "warning", "message", "convergence problems in EccAnom", "M", M, "e", e)
			return E, false
		}
	}
}

// KeplerianElements are the osculating elements of a two-body orbit.
type KeplerianElements struct {
	A, E, I, RAAN, ArgP, M float64
}

// SemiParameter returns the semi-latus rectum.
func (k KeplerianElements) SemiParameter() float64 {
	return k.A * (1 - k.E*k.E)
}

// Apoapsis returns the apoapsis radius.
func (k KeplerianElements) Apoapsis() float64 {
	return k.A * (1 + k.E)
}

// Periapsis returns the periapsis radius.
func (k KeplerianElements) Periapsis() float64 {
	return k.A * (1 - k.E)
}

// Period returns the period of this orbit for the gravitational parameter GM (in m^3/s^2 with A in m).
func (k KeplerianElements) Period(GM float64) time.Duration {
	return time.Duration(twoPi * math.Sqrt(k.A*k.A*k.A/GM) * float64(time.Second))
}

func (k KeplerianElements) String() string {
	return fmt.Sprintf("a=%.3f e=%.6f i=%.4f Ω=%.4f ω=%.4f M=%.4f", k.A, k.E, k.I*rad2deg, k.RAAN*rad2deg, k.ArgP*rad2deg, k.M*rad2deg)
}

// KeplerState returns the position and velocity dt seconds after the elements k.
func KeplerState(GM float64, k KeplerianElements, dt float64) (r, v []float64) {
	M := k.M
	if dt != 0 {
		n := math.Sqrt(GM / (k.A * k.A * k.A))
		M += n * dt
	}
	E, _ := EccAnom(M, k.E)
	sinE, cosE := math.Sincos(E)
	fac := math.Sqrt((1 - k.E) * (1 + k.E))
	R := k.A * (1 - k.E*cosE)
	V := math.Sqrt(GM*k.A) / R
	r = PQW2ECI(k.I, k.ArgP, k.RAAN, []float64{k.A * (cosE - k.E), k.A * fac * sinE, 0})
	v = PQW2ECI(k.I, k.ArgP, k.RAAN, []float64{-V * sinE, V * fac * cosE, 0})
	return
}

// OsculatingElements returns the osculating Keplerian elements of the state.
func OsculatingElements(GM float64, r, v []float64) KeplerianElements {
	h := Cross(r, v)
	H := Norm(h)
	var k KeplerianElements
	k.RAAN = math.Mod(math.Atan2(h[0], -h[1]), twoPi)
	k.I = math.Atan2(math.Sqrt(h[0]*h[0]+h[1]*h[1]), h[2])
	u := math.Atan2(r[2]*H, -r[0]*h[1]+r[1]*h[0])
	R := Norm(r)
	k.A = 1 / (2/R - Dot(v, v)/GM)
	eCosE := 1 - R/k.A
	eSinE := Dot(r, v) / math.Sqrt(GM*k.A)
	e2 := eCosE*eCosE + eSinE*eSinE
	k.E = math.Sqrt(e2)
	E := math.Atan2(eSinE, eCosE)
	k.M = math.Mod(E-eSinE, twoPi)
	nu := math.Atan2(math.Sqrt(1-e2)*eSinE, eCosE-e2)
	k.ArgP = math.Mod(u-nu, twoPi)
	return k
}

// OrbitalPeriod returns the two-body period in seconds of the state.
func OrbitalPeriod(GM float64, r, v []float64) float64 {
	a := 1 / (2/Norm(r) - Dot(v, v)/GM)
	return twoPi * math.Sqrt(a*a*a/GM)
}
