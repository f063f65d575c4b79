package sgp4

import (
	"math"
	"strings"
	"testing"

	"github.com/gonum/floats"
)

func TestTEMEToJ2000(t *testing.T) {
	// Vallado, example 3-15: 2004-04-06 07:51:28.386 UTC.
	mjd := CalcMJD(2004, 4, 6, 7, 51, 28.386009)
	rTEME := []float64{5094.18016210, 6127.64465950, 6380.34453270}
	rJ2000 := TEMEToJ2000(mjd, rTEME)
	if !vectorsEqual(rJ2000, []float64{5102.5096, 6123.01152, 6378.1363}, 0.02) {
		t.Fatalf("r_J2000 = %+v", rJ2000)
	}
	if !vectorsEqual(J2000ToTEME(mjd, rJ2000), rTEME, 1e-8) {
		t.Fatal("TEME/J2000 round trip failed")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	frames := []Frame{TEME, J2000, MOD, TOD}
	for _, mjd := range testMJDs {
		st := StateVector{Frame: TEME, JD: mjd + JDMinusMJD, R: []float64{-6045, -3490, 2500}, V: []float64{-3.457, 6.618, 2.533}}
		for _, f1 := range frames {
			for _, f2 := range frames {
				via := st.In(f1).In(f2).In(TEME)
				if !vectorsEqual(via.R, st.R, 1e-8) || !vectorsEqual(via.V, st.V, 1e-11) {
					t.Fatalf("TEME -> %s -> %s -> TEME failed at %f", f1, f2, mjd)
				}
				if via.JD != st.JD || via.Frame != TEME {
					t.Fatal("conversion changed the date or frame")
				}
			}
			if n := Norm(st.In(f1).R); !floats.EqualWithinAbs(n, Norm(st.R), 1e-8) {
				t.Fatalf("conversion to %s changed the norm", f1)
			}
		}
		// The four frames differ by at most precession since J2000 and nutation.
		d := Norm(Sub(st.In(J2000).R, st.R))
		if d > Norm(st.R)*math.Abs(julianCenturies(mjd))*0.03+1 {
			t.Fatalf("TEME and J2000 differ by %f km at %f", d, mjd)
		}
	}
}

func TestPointConversions(t *testing.T) {
	r := []float64{7000e3, -1200e3, 300e3}
	for _, mjd := range testMJDs {
		if !vectorsEqual(J2000ToMOD(mjd, r), EquinoxFromJ2000(mjd, r), 1e-6) {
			t.Fatalf("J2000ToMOD and EquinoxFromJ2000 differ at %f", mjd)
		}
		if !vectorsEqual(EquinoxToJ2000(mjd, EquinoxFromJ2000(mjd, r)), r, 1e-5) {
			t.Fatalf("equinox round trip failed at %f", mjd)
		}
		if !vectorsEqual(EquinoxChange(mjd, r, mjd), r, 0) {
			t.Fatalf("equinox change to the same date moved the vector at %f", mjd)
		}
		st := StateVector{Frame: J2000, JD: mjd + JDMinusMJD, R: r, V: r}
		if !vectorsEqual(J2000ToTOD(mjd, r), st.In(TOD).R, 1e-6) || !vectorsEqual(J2000ToTEME(mjd, r), st.In(TEME).R, 1e-6) {
			t.Fatalf("point conversions differ from StateVector.In at %f", mjd)
		}
		if st.MJD() != mjd {
			t.Fatalf("MJD() = %f != %f", st.MJD(), mjd)
		}
	}
}

func TestFrameStrings(t *testing.T) {
	for _, f := range []Frame{TEME, J2000, MOD, TOD} {
		got, err := FrameFromString(f.String())
		if err != nil || got != f {
			t.Fatalf("FrameFromString(%s) = %s, %v", f, got, err)
		}
	}
	if _, err := FrameFromString("ICRF"); err == nil {
		t.Fatal("unknown frame accepted")
	}
	assertPanic(t, func() { _ = Frame(0).String() })

	st := StateVector{Frame: TEME, JD: JDJ2000, R: []float64{1, 2, 3}, V: []float64{4, 5, 6}}
	r, v := st.Meters()
	if !vectorsEqual(r, []float64{1e3, 2e3, 3e3}, 0) || !vectorsEqual(v, []float64{4e3, 5e3, 6e3}, 0) {
		t.Fatal("Meters() did not scale the state")
	}
	if s := st.String(); !strings.HasPrefix(s, "TEME@") {
		t.Fatalf("unexpected state string %s", s)
	}
}
