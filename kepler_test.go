package sgp4

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestRV2COE(t *testing.T) {
	// Vallado, example 2-5.
	R := []float64{6524.834, 6862.875, 6448.296}
	V := []float64{4.901327, 5.533756, -1.976341}
	c := RV2COE(R, V, 398600.4418)
	if c.Type != EllipticalInclined || c.Type.String() != "ei" {
		t.Fatalf("orbit type %s", c.Type)
	}
	if !floats.EqualWithinAbs(c.A, 36127.343, 1e-2) || !floats.EqualWithinAbs(c.P, 11067.790, 1e-2) || !floats.EqualWithinAbs(c.Ecc, 0.832853, 1e-6) {
		t.Fatalf("a=%f p=%f e=%f", c.A, c.P, c.Ecc)
	}
	for _, tc := range []struct {
		name     string
		got, exp float64
	}{
		{"i", c.Incl, 87.869126},
		{"Ω", c.RAAN, 227.898260},
		{"ω", c.ArgP, 53.384931},
		{"ν", c.Nu, 92.335157},
	} {
		if !floats.EqualWithinAbs(tc.got*rad2deg, tc.exp, 1e-4) {
			t.Fatalf("%s=%f != %f", tc.name, tc.got*rad2deg, tc.exp)
		}
	}
	_, m := NewtonNu(c.Ecc, c.Nu)
	if m != c.M {
		t.Fatalf("mean anomaly %f != %f", c.M, m)
	}
	for _, undef := range []float64{c.ArgLat, c.TrueLon, c.LonPer} {
		if undef != undefined {
			t.Fatal("special elements must be undefined for an elliptical inclined orbit")
		}
	}
}

func TestRV2COESpecialOrbits(t *testing.T) {
	const mu = 398600.8
	vc := math.Sqrt(mu / 7000)
	r := []float64{7000, 0, 0}

	c := RV2COE(r, []float64{0, vc, 0}, mu)
	if c.Type != CircularEquatorial || c.TrueLon != 0 || c.M != 0 || c.RAAN != undefined || c.ArgP != undefined {
		t.Fatalf("circular equatorial: %+v", c)
	}
	c = RV2COE(r, []float64{0, vc * math.Cos(0.5), vc * math.Sin(0.5)}, mu)
	if c.Type != CircularInclined || !floats.EqualWithinAbs(c.Incl, 0.5, 1e-12) || !floats.EqualWithinAbs(c.RAAN, 0, 1e-12) || !floats.EqualWithinAbs(c.ArgLat, 0, 1e-7) {
		t.Fatalf("circular inclined: %+v", c)
	}
	c = RV2COE(r, []float64{0, 1.1 * vc, 0}, mu)
	if c.Type != EllipticalEquatorial || !floats.EqualWithinAbs(c.Ecc, 0.21, 1e-12) || !floats.EqualWithinAbs(c.LonPer, 0, 1e-7) || !floats.EqualWithinAbs(c.Nu, 0, 1e-7) {
		t.Fatalf("elliptical equatorial: %+v", c)
	}
	c = RV2COE(r, []float64{1, 0, 0}, mu)
	if c.P != undefined || c.Ecc != undefined || c.Type.String() != "undefined" {
		t.Fatalf("rectilinear motion: %+v", c)
	}
}

func TestEccAnom(t *testing.T) {
	for _, e := range []float64{0, 0.001, 0.1, 0.5, 0.8, 0.95, 0.99} {
		for M := -math.Pi; M <= 3*math.Pi; M += 0.1 {
			E, ok := EccAnom(M, e)
			if !ok {
				t.Fatalf("no convergence for M=%f e=%f", M, e)
			}
			if !floats.EqualWithinAbs(E-e*math.Sin(E), modulo(M, twoPi), 1e-12) {
				t.Fatalf("E=%f does not solve Kepler's equation for M=%f e=%f", E, M, e)
			}
		}
	}
}

func TestNewtonNu(t *testing.T) {
	if e0, m := NewtonNu(0, 1.2); e0 != 1.2 || m != 1.2 {
		t.Fatal("circular orbits have equal anomalies")
	}
	for _, e := range []float64{0.01, 0.3, 0.7, 0.9} {
		for nu := 0.0; nu < twoPi; nu += 0.25 {
			e0, m := NewtonNu(e, nu)
			if m < 0 || m >= twoPi {
				t.Fatalf("mean anomaly %f out of [0, 2π)", m)
			}
			E, _ := EccAnom(m, e)
			if ok, err := anglesEqual(E, e0, 1e-10); !ok {
				t.Fatalf("e=%f ν=%f: %s", e, nu, err)
			}
		}
	}
	// Hyperbolic
	e0, m := NewtonNu(1.5, 0.5)
	if !floats.EqualWithinAbs(m, 1.5*math.Sinh(e0)-e0, 1e-15) || e0 <= 0 {
		t.Fatalf("hyperbolic anomalies %f %f", e0, m)
	}
	if e0, m := NewtonNu(1.5, 3); e0 != infinite || m != infinite {
		t.Fatal("true anomaly beyond the asymptote must be infinite")
	}
	// Parabolic
	if e0, m := NewtonNu(1, 1); !floats.EqualWithinAbs(e0, math.Tan(0.5), 1e-15) || !floats.EqualWithinAbs(m, e0+e0*e0*e0/3, 1e-15) {
		t.Fatalf("parabolic anomalies %f %f", e0, m)
	}
}

func TestKeplerState(t *testing.T) {
	k := KeplerianElements{A: 7000e3, E: 0.1, I: 0.5, RAAN: 1, ArgP: 2, M: 0.3}
	r, v := KeplerState(GMEarth, k, 0)
	if !floats.EqualWithinAbs(Norm(r), k.A*(1-k.E*math.Cos(mustEccAnom(k.M, k.E))), 1e-5) {
		t.Fatalf("|r|=%f", Norm(r))
	}
	osc := OsculatingElements(GMEarth, r, v)
	if !floats.EqualWithinRel(osc.A, k.A, 1e-12) || !floats.EqualWithinAbs(osc.E, k.E, 1e-12) {
		t.Fatalf("osculating elements %s != %s", osc, k)
	}
	for _, pair := range [][2]float64{{osc.I, k.I}, {osc.RAAN, k.RAAN}, {osc.ArgP, k.ArgP}, {osc.M, k.M}} {
		if ok, err := anglesEqual(pair[0], pair[1], 1e-10); !ok {
			t.Fatalf("osculating elements %s != %s: %s", osc, k, err)
		}
	}
	coe := RV2COE(r, v, GMEarth)
	if !floats.EqualWithinRel(coe.A, k.A, 1e-12) || !floats.EqualWithinAbs(coe.Incl, k.I, 1e-12) {
		t.Fatalf("classical elements %+v", coe)
	}
	if ok, err := anglesEqual(coe.M, k.M, 1e-10); !ok {
		t.Fatalf("classical mean anomaly: %s", err)
	}

	period := OrbitalPeriod(GMEarth, r, v)
	if !floats.EqualWithinAbs(period, twoPi*math.Sqrt(k.A*k.A*k.A/GMEarth), 1e-6) {
		t.Fatalf("period %f s", period)
	}
	if d := k.Period(GMEarth) - time.Duration(period*float64(time.Second)); d > time.Microsecond || d < -time.Microsecond {
		t.Fatalf("period %s", k.Period(GMEarth))
	}
	r1, v1 := KeplerState(GMEarth, k, period)
	if !vectorsEqual(r1, r, 1e-3) || !vectorsEqual(v1, v, 1e-6) {
		t.Fatal("two-body orbit is not periodic")
	}
	r2, _ := KeplerState(GMEarth, k, period/2)
	if vectorsEqual(r2, r, 1e3) {
		t.Fatal("the state did not move in half an orbit")
	}
	if !floats.EqualWithinAbs(k.Periapsis(), 6300e3, 1e-6) || !floats.EqualWithinAbs(k.Apoapsis(), 7700e3, 1e-6) || !floats.EqualWithinAbs(k.SemiParameter(), 6930e3, 1e-6) {
		t.Fatal("invalid apsides")
	}
}

func mustEccAnom(M, e float64) float64 {
	E, _ := EccAnom(M, e)
	return E
}
