package sgp4

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
)

// Frame is an Earth centered inertial reference frame.
type Frame uint8

const (
	// TEME is the true equator, mean equinox of date frame in which SGP4 works.
	TEME Frame = iota + 1
	// J2000 is the mean equator and equinox of J2000.0.
	J2000
	// MOD is the mean equator and equinox of date.
	MOD
	// TOD is the true equator and equinox of date.
	TOD
)

const (
	// temeNutationTerms is the nutation truncation used for TEME (close to what STK uses).
	temeNutationTerms = 24
	// todNutationTerms is the nutation truncation used for TOD.
	todNutationTerms = 40
)

func (f Frame) String() string {
	switch f {
	case TEME:
		return "TEME"
	case J2000:
		return "J2000"
	case MOD:
		return "MOD"
	case TOD:
		return "TOD"
	default:
		panic(fmt.Errorf("unknown frame %d", f))
	}
}

// FrameFromString returns the frame named s.
func FrameFromString(s string) (Frame, error) {
	for _, f := range []Frame{TEME, J2000, MOD, TOD} {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown frame `%s`", s)
}

// toJ2000 returns the matrix rotating vectors from frame f to J2000 at the provided modified Julian date.
func (f Frame) toJ2000(mjd float64) *mat64.Dense {
	ttt := julianCenturies(mjd)
	switch f {
	case J2000:
		return Identity33()
	case TEME:
		return MxM33(Precess(ttt, IAU80), TrueMean(ttt, temeNutationTerms, 2, NutationFull))
	case MOD:
		return Precess(ttt, IAU80)
	case TOD:
		return MxM33(Precess(ttt, IAU80), NutationIAU80(ttt, 0, 0, todNutationTerms))
	default:
		panic(fmt.Errorf("unknown frame %d", f))
	}
}

// RotationMatrix returns the matrix transforming vectors from frame `from` to frame `to` at the given modified Julian date.
func RotationMatrix(from, to Frame, mjd float64) *mat64.Dense {
	if from == to {
		return Identity33()
	}
	return MxM33(T33(to.toJ2000(mjd)), from.toJ2000(mjd))
}

// TEMEToJ2000 rotates a TEME vector to J2000.
func TEMEToJ2000(mjd float64, r []float64) []float64 {
	return MxV33(TEME.toJ2000(mjd), r)
}

// J2000ToTEME rotates a J2000 vector to TEME.
func J2000ToTEME(mjd float64, r []float64) []float64 {
	return MxV33(T33(TEME.toJ2000(mjd)), r)
}

// J2000ToMOD rotates a J2000 vector to the mean equator and equinox of date.
func J2000ToMOD(mjd float64, r []float64) []float64 {
	return MxV33(T33(MOD.toJ2000(mjd)), r)
}

// J2000ToTOD rotates a J2000 vector to the true equator and equinox of date.
func J2000ToTOD(mjd float64, r []float64) []float64 {
	return MxV33(T33(TOD.toJ2000(mjd)), r)
}

// EquinoxChange precesses an equatorial vector from the mean equinox at mjdCurrent to the mean equinox at mjdNew.
func EquinoxChange(mjdCurrent float64, r []float64, mjdNew float64) []float64 {
	return MxV33(PrecessionMatrixMJD(mjdCurrent, mjdNew), r)
}

// EquinoxFromJ2000 precesses a J2000 vector to the mean equinox of mjdNew.
func EquinoxFromJ2000(mjdNew float64, r []float64) []float64 {
	return EquinoxChange(MJDJ2000, r, mjdNew)
}

// EquinoxToJ2000 precesses a vector from the mean equinox of mjdCurrent to J2000.
func EquinoxToJ2000(mjdCurrent float64, r []float64) []float64 {
	return EquinoxChange(mjdCurrent, r, MJDJ2000)
}

// StateVector is a position (km) and velocity (km/s) in a given frame at a UTC Julian date.
type StateVector struct {
	Frame Frame
	JD    float64
	R, V  []float64
}

// MJD returns the modified Julian date of this state.
func (s StateVector) MJD() float64 {
	return s.JD - JDMinusMJD
}

// In returns this state expressed in the provided frame.
func (s StateVector) In(f Frame) StateVector {
	if f == s.Frame || s.R == nil {
		return StateVector{f, s.JD, s.R, s.V}
	}
	m := RotationMatrix(s.Frame, f, s.MJD())
	return StateVector{f, s.JD, MxV33(m, s.R), MxV33(m, s.V)}
}

// Meters returns the position in m and velocity in m/s.
func (s StateVector) Meters() (r, v []float64) {
	return Scale(s.R, 1e3), Scale(s.V, 1e3)
}

func (s StateVector) String() string {
	return fmt.Sprintf("%s@%.8f r=%+.8f km v=%+.8f km/s", s.Frame, s.JD, s.R, s.V)
}
