package sgp4

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/pkg/errors"
)

const (
	tle08195L1 = "1 08195U 75081A   06176.33215444  .00000099  00000-0  11873-3 0   813"
	tle08195L2 = "2 08195  64.1586 279.0717 6877146 264.7651  20.2257  2.00491383225656"
	tle28626L1 = "1 28626U 05008A   06176.46683397 -.00000205  00000-0  10000-3 0  2190"
	tle28626L2 = "2 28626   0.0019 286.9433 0000335  13.7918  55.6504  1.00270176  4891"
	tle28872L1 = "1 28872U 05037B   05333.02012661  .25992681  00000-0  24476-3 0  1534"
	tle28872L2 = "2 28872  96.4736 157.9986 0303955 244.0492 110.6523 16.46015938 10708"
)

func mustSatellite(t *testing.T, name, l1, l2 string) *Satellite {
	sat, err := NewSatelliteFromLines(name, l1, l2, WGS72, OpsModeImproved)
	if err != nil {
		t.Fatalf("could not initialize %s: %s", name, err)
	}
	return sat
}

func TestSGP4Vanguard(t *testing.T) {
	sat := mustSatellite(t, "00005", tle00005L1, tle00005L2)
	if sat.Method() != MethodNearEarth {
		t.Fatalf("00005 should use %s, got %s", MethodNearEarth, sat.Method())
	}
	for _, tc := range []struct {
		tsince float64
		r, v   []float64
	}{
		{0, []float64{7022.46529266, -1400.08296755, 0.03995155}, []float64{1.893841015, 6.405893759, 4.534807250}},
		{360, []float64{-7154.03120202, -3783.17682504, -3536.19412294}, []float64{4.741887409, -4.151817765, -2.093935425}},
		{720, []float64{-7134.59340119, 6531.68641334, 3260.27186483}, []float64{-4.113793027, -2.911922039, -0.376327731}},
		{1080, []float64{5568.53901181, 4492.06992591, 3863.87641983}, []float64{-4.209106476, 5.159719888, 2.744852980}},
		{1440, []float64{-938.55923943, -6268.18748831, -4294.02924751}, []float64{7.536105209, -0.427127707, 0.989878080}},
	} {
		st, err := sat.Propagate(tc.tsince)
		if err != nil {
			t.Fatalf("t=%f: %s", tc.tsince, err)
		}
		if !vectorsEqual(st.R, tc.r, 1e-3) {
			t.Fatalf("t=%f: r=%+v\nexp=%+v", tc.tsince, st.R, tc.r)
		}
		if !vectorsEqual(st.V, tc.v, 1e-5) {
			t.Fatalf("t=%f: v=%+v\nexp=%+v", tc.tsince, st.V, tc.v)
		}
		if st.Frame != TEME || !floats.EqualWithinAbs(st.JD, sat.EpochJD()+tc.tsince/minutesPerDay, 1e-12) {
			t.Fatalf("t=%f: unexpected frame or date %s", tc.tsince, st)
		}
		if sat.Error() != ErrNone {
			t.Fatalf("t=%f: error code %s", tc.tsince, sat.Error())
		}
	}
}

// The osculating mean anomaly must advance monotonically at the J2 secular rate,
// up to the drag terms and the short periodics.
func TestSGP4SecularDrift(t *testing.T) {
	sat := mustSatellite(t, "00005", tle00005L1, tle00005L2)
	ne := sat.ne
	if floats.EqualWithinAbs(ne.mdot*2880, sat.no*2880, 0.02) {
		t.Fatalf("secular rate %e too close to the mean motion %e to test it", ne.mdot, sat.no)
	}
	mu := sat.Constants().Mu
	var prev, advance float64
	for tsince := 0.0; tsince <= 2880; tsince += 10 {
		st, err := sat.Propagate(tsince)
		if err != nil {
			t.Fatalf("t=%f: %s", tsince, err)
		}
		m := RV2COE(st.R, st.V, mu).M
		if tsince > 0 {
			step := m - prev
			if step < 0 {
				step += twoPi
			}
			if step <= 0 || step > math.Pi {
				t.Fatalf("t=%f: mean anomaly step of %f rad", tsince, step)
			}
			advance += step
		}
		prev = m
		t2 := tsince * tsince
		templ := ne.t2cof*t2 + ne.t3cof*t2*tsince + t2*t2*(ne.t4cof+tsince*ne.t5cof)
		if exp := ne.mdot*tsince + sat.no*templ; !floats.EqualWithinAbs(advance, exp, 1e-2) {
			t.Fatalf("t=%f: mean anomaly advanced by %f rad instead of %f", tsince, advance, exp)
		}
	}
}

func TestSGP4CrossCheck(t *testing.T) {
	for _, lines := range [][2]string{{tleISSL1, tleISSL2}, {tleSLL1, tleSLL2}} {
		sat := mustSatellite(t, "", lines[0], lines[1])
		ref := satellite.TLEToSat(lines[0], lines[1], satellite.GravityWGS72)
		epoch := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
		if d := sat.Epoch().Sub(epoch); d > time.Millisecond || d < -time.Millisecond {
			t.Fatalf("unexpected epoch %s", sat.Epoch())
		}
		for dt := time.Duration(0); dt <= 24*time.Hour; dt += 37 * time.Minute {
			when := epoch.Add(dt)
			st, err := sat.PropagateTime(when)
			if err != nil {
				t.Fatalf("%05d at %s: %s", sat.TLE().SatNum, when, err)
			}
			pos, vel := satellite.Propagate(ref, when.Year(), int(when.Month()), when.Day(), when.Hour(), when.Minute(), when.Second())
			// Julian dates are only good to about 40 µs.
			if !vectorsEqual(st.R, []float64{pos.X, pos.Y, pos.Z}, 1e-3) {
				t.Fatalf("%05d at %s: r=%+v != %+v", sat.TLE().SatNum, when, st.R, pos)
			}
			if !vectorsEqual(st.V, []float64{vel.X, vel.Y, vel.Z}, 1e-6) {
				t.Fatalf("%05d at %s: v=%+v != %+v", sat.TLE().SatNum, when, st.V, vel)
			}
		}
	}
}

func TestSatelliteAccessors(t *testing.T) {
	sat := mustSatellite(t, "ISS (ZARYA)", tleISSL1, tleISSL2)
	if sat.Name() != "ISS (ZARYA)" || sat.TLE().SatNum != 25544 {
		t.Fatal("name or element set not kept")
	}
	if sat.Gravity() != WGS72 || sat.OpsMode() != OpsModeImproved || sat.Constants().RadiusEarthKm != 6378.135 {
		t.Fatal("gravity model or mode not kept")
	}
	if sat.Suborbital() {
		t.Fatal("the ISS is not suborbital")
	}
	if p := sat.Period(); !floats.EqualWithinAbs(p, minutesPerDay/15.5, 0.2) {
		t.Fatalf("period %f min", p)
	}
	if !floats.EqualWithinAbs(sat.MeanMotion(), twoPi/sat.Period(), 1e-15) {
		t.Fatal("mean motion and period disagree")
	}
	if a := sat.SemiMajorAxis(); !floats.EqualWithinAbs(a, 6796, 10) {
		t.Fatalf("semi-major axis %f km", a)
	}
	apogee, perigee := sat.Altitudes()
	if apogee < perigee || !floats.EqualWithinAbs(apogee, 418, 15) || !floats.EqualWithinAbs(perigee, 418, 15) {
		t.Fatalf("apogee %f km perigee %f km", apogee, perigee)
	}

	st0, _ := sat.Propagate(0)
	st1, err := sat.PropagateJD(sat.EpochJD())
	if err != nil || !vectorsEqual(st0.R, st1.R, 0) {
		t.Fatal("PropagateJD at epoch differs from Propagate(0)")
	}
	// The propagation is a function of the date only.
	st2, _ := sat.Propagate(-90)
	st3, _ := sat.Propagate(0)
	if !vectorsEqual(st0.R, st3.R, 0) || !vectorsEqual(st0.V, st3.V, 0) || vectorsEqual(st0.R, st2.R, 1) {
		t.Fatal("propagation depends on the previous calls")
	}

	var zero Satellite
	if _, err := zero.Propagate(0); err == nil {
		t.Fatal("an uninitialized satellite was propagated")
	}
}

func TestNewSatelliteErrors(t *testing.T) {
	if _, err := NewSatelliteFromLines("bad", tleISSL2, tleISSL1, WGS72, OpsModeImproved); err == nil {
		t.Fatal("swapped lines were accepted")
	}

	tle, err := ParseTLE("hyperbolic", tleISSL1, tleISSL2)
	if err != nil {
		t.Fatal(err)
	}
	tle.Eccentricity = -0.5
	sat, err := NewSatellite(tle, WGS72, OpsModeImproved)
	if sat != nil || err == nil {
		t.Fatal("invalid mean elements were accepted")
	}
	perr, ok := errors.Cause(err).(*PropagationError)
	if !ok || perr.Code != ErrMeanElements || !perr.Code.Fatal() || perr.Value != -0.5 {
		t.Fatalf("unexpected error %v", err)
	}

	// Perigee below the surface, at perigee at epoch.
	tle, _ = ParseTLE("decayed", tleISSL1, tleISSL2)
	tle.Eccentricity = 0.1
	sat, err = NewSatellite(tle, WGS72, OpsModeImproved)
	if sat == nil || err == nil {
		t.Fatalf("a satellite decayed at epoch must be returned with its error: %v", err)
	}
	if !sat.Suborbital() || sat.Error() != ErrDecayed || sat.Error().Fatal() {
		t.Fatalf("unexpected state for a decayed satellite: %s", sat.Error())
	}
	st, err := sat.Propagate(0)
	if err == nil || st.R == nil || Norm(st.R) >= sat.Constants().RadiusEarthKm {
		t.Fatal("decayed propagation must return the computed state and an error")
	}
}

func TestSGP4Decay(t *testing.T) {
	sat := mustSatellite(t, "28872", tle28872L1, tle28872L2)
	for tsince := 0.0; tsince <= 1440; tsince++ {
		st, err := sat.Propagate(tsince)
		if err == nil {
			continue
		}
		if tsince == 0 {
			t.Fatalf("28872 failed at epoch: %s", err)
		}
		perr, ok := err.(*PropagationError)
		if !ok || perr.Code != ErrDecayed || perr.Tsince != tsince {
			t.Fatalf("unexpected error at %f min: %v", tsince, err)
		}
		if perr.Value >= 1 || !floats.EqualWithinAbs(Norm(st.R)/sat.Constants().RadiusEarthKm, perr.Value, 1e-12) {
			t.Fatalf("decayed with a radius of %f Earth radii", perr.Value)
		}
		return
	}
	t.Fatal("28872 never decayed")
}

type referenceState struct {
	tsince float64
	r, v   []float64
}

func TestSDP4(t *testing.T) {
	for _, tc := range []struct {
		name, l1, l2 string
		irez         resonance
		states       []referenceState
	}{
		{"MOLNIYA 2-14", tle08195L1, tle08195L2, resonanceHalfDay, []referenceState{
			{0, []float64{2349.89483350, -14785.93811562, 0.02119378}, []float64{2.721488096, -3.256811655, 4.498416672}},
			{120, []float64{15223.91713658, -17852.95881713, 25280.39558224}, []float64{1.079041732, 0.875187372, 2.485682813}},
			{1440, []float64{2890.80638268, -15446.43952300, 948.77010176}, []float64{2.654407490, -2.909344895, 4.486437362}},
		}},
		{"XM-3", tle28626L1, tle28626L2, resonanceSynchronous, []referenceState{
			{0, []float64{42080.71852213, -2646.86387436, 0.81851294}, []float64{0.193105177, 3.068688251, 0.000438449}},
			{120, []float64{37740.00085593, 18802.76872802, 3.45512584}, []float64{-1.371035206, 2.752105932, 0.000336883}},
			{1440, []float64{42119.96263499, -1925.77567263, -0.19827433}, []float64{0.140521206, 3.071541613, 0.000179561}},
		}},
	} {
		sat := mustSatellite(t, tc.name, tc.l1, tc.l2)
		if sat.Method() != MethodDeepSpace || sat.ds == nil {
			t.Fatalf("%s should use %s", tc.name, MethodDeepSpace)
		}
		if sat.ds.terms.irez != tc.irez {
			t.Fatalf("%s resonance is %s instead of %s", tc.name, sat.ds.terms.irez, tc.irez)
		}
		for _, exp := range tc.states {
			st, err := sat.Propagate(exp.tsince)
			if err != nil {
				t.Fatalf("%s at %f min: %s", tc.name, exp.tsince, err)
			}
			if !vectorsEqual(st.R, exp.r, 1e-3) {
				t.Fatalf("%s at %f min: r=%+v\nexp=%+v", tc.name, exp.tsince, st.R, exp.r)
			}
			if !vectorsEqual(st.V, exp.v, 1e-5) {
				t.Fatalf("%s at %f min: v=%+v\nexp=%+v", tc.name, exp.tsince, st.V, exp.v)
			}
		}
		apogee, perigee := sat.Altitudes()
		re := sat.Constants().RadiusEarthKm
		for tsince := 0.0; tsince <= 2880; tsince += 120 {
			st, err := sat.Propagate(tsince)
			if err != nil {
				t.Fatalf("%s at %f min: %s", tc.name, tsince, err)
			}
			if r := Norm(st.R); r < perigee+re-500 || r > apogee+re+500 {
				t.Fatalf("%s at %f min: r=%f km out of [%f, %f]", tc.name, tsince, r, perigee+re, apogee+re)
			}
		}
	}
	geo := mustSatellite(t, "XM-3", tle28626L1, tle28626L2)
	for tsince := 0.0; tsince <= 1440; tsince += 60 {
		st, _ := geo.Propagate(tsince)
		if r := Norm(st.R); !floats.EqualWithinAbs(r, 42164, 100) || math.Abs(st.R[2]) > 100 {
			t.Fatalf("geostationary satellite at %+v", st.R)
		}
	}
}

// The resonance integrator keeps state between calls: the results must not
// depend on the order of the calls.
func TestSDP4Determinism(t *testing.T) {
	steps := []float64{0, 300, 720, 1000, 1440, 2500, 4320}
	forward := mustSatellite(t, "08195", tle08195L1, tle08195L2)
	var exp []StateVector
	for _, tsince := range steps {
		st, err := forward.Propagate(tsince)
		if err != nil {
			t.Fatal(err)
		}
		exp = append(exp, st)
	}
	backward := mustSatellite(t, "08195", tle08195L1, tle08195L2)
	for i := len(steps) - 1; i >= 0; i-- {
		st, _ := backward.Propagate(steps[i])
		if !vectorsEqual(st.R, exp[i].R, 1e-7) || !vectorsEqual(st.V, exp[i].V, 1e-10) {
			t.Fatalf("reverse order differs at %f min", steps[i])
		}
	}
	for i, tsince := range steps {
		single := mustSatellite(t, "08195", tle08195L1, tle08195L2)
		st, _ := single.Propagate(tsince)
		if !vectorsEqual(st.R, exp[i].R, 1e-7) || !vectorsEqual(st.V, exp[i].V, 1e-10) {
			t.Fatalf("single call differs at %f min", tsince)
		}
	}
	// Before the epoch as well.
	st, _ := forward.Propagate(-1440)
	fresh := mustSatellite(t, "08195", tle08195L1, tle08195L2)
	exp0, _ := fresh.Propagate(-1440)
	if !vectorsEqual(st.R, exp0.R, 1e-7) {
		t.Fatal("propagation before epoch depends on the previous calls")
	}
}

func TestOsculatingVanguard(t *testing.T) {
	sat := mustSatellite(t, "00005", tle00005L1, tle00005L2)
	st, _ := sat.Propagate(0)
	coe := RV2COE(st.R, st.V, sat.Constants().Mu)
	if coe.Type != EllipticalInclined {
		t.Fatalf("orbit type %s", coe.Type)
	}
	if !floats.EqualWithinAbs(coe.Ecc, 0.1859667, 0.01) || !floats.EqualWithinAbs(coe.Incl*rad2deg, 34.2682, 0.1) {
		t.Fatalf("osculating elements too far from the mean elements: e=%f i=%f", coe.Ecc, coe.Incl*rad2deg)
	}
	if !floats.EqualWithinAbs(coe.A, sat.SemiMajorAxis(), 20) {
		t.Fatalf("osculating semi-major axis %f km, mean %f km", coe.A, sat.SemiMajorAxis())
	}
}

func TestModelStrings(t *testing.T) {
	for _, g := range []GravityModel{WGS72Old, WGS72, WGS84} {
		if got, err := GravityModelFromString(g.String()); err != nil || got != g {
			t.Fatalf("gravity model %s does not round trip", g)
		}
	}
	for _, o := range []OpsMode{OpsModeAFSPC, OpsModeImproved} {
		if got, err := OpsModeFromString(o.String()); err != nil || got != o {
			t.Fatalf("ops mode %s does not round trip", o)
		}
	}
	if _, err := GravityModelFromString("egm2008"); err == nil {
		t.Fatal("unknown gravity model accepted")
	}
	assertPanic(t, func() { GravityModel(0).Constants() })
	if ErrDecayed.String() != "satellite decayed" || ErrorCode(42).String() != "error code 42" {
		t.Fatal("unexpected error code strings")
	}
	if MethodDeepSpace.String() != "deep-space" || resonanceHalfDay.String() != "half-day" {
		t.Fatal("unexpected method strings")
	}
}

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 1e-6, 0.001, 0.1, 0.3, 0.5, 0.7, 0.9, 0.95, 0.99} {
		for ω := 0.0; ω < twoPi; ω += math.Pi / 4 {
			axnl, aynl := e*math.Cos(ω), e*math.Sin(ω)
			for m := -math.Pi; m <= math.Pi; m += math.Pi / 180 {
				u := math.Mod(m+ω, twoPi)
				eo1, sineo1, coseo1 := solveKepler(u, axnl, aynl)
				if res := u - (eo1 - axnl*math.Sin(eo1) + aynl*math.Cos(eo1)); math.Abs(res) > 1e-10 {
					t.Fatalf("e=%f ω=%f M=%f: residual %e", e, ω, m, res)
				}
				if !floats.EqualWithinAbs(sineo1, math.Sin(eo1), 1e-9) || !floats.EqualWithinAbs(coseo1, math.Cos(eo1), 1e-9) {
					t.Fatalf("e=%f ω=%f M=%f: sin/cos of %f are stale", e, ω, m, eo1)
				}
			}
		}
	}
	// Near e = 1 the iteration cap is reached before convergence for tiny mean anomalies.
	u, axnl := 1e-5, 0.99999
	eo1, _, _ := solveKepler(u, axnl, 0)
	if res := math.Abs(u - (eo1 - axnl*math.Sin(eo1))); res < 1e-10 || res > 1e-5 {
		t.Fatalf("e=%f M=%e: residual %e", axnl, u, res)
	}
}
