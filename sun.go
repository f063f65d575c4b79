package sgp4

import (
	"fmt"
	"math"
)

// obliquityJ2000 is the obliquity of the J2000 ecliptic in radians.
const obliquityJ2000 = 23.43929111 * deg2rad

// SunPositionLowTT returns the geocentric position of the Sun in meters in
// J2000 from a low precision analytical series, at the provided TT modified Julian date.
func SunPositionLowTT(mjdTT float64) []float64 {
	T := (mjdTT - MJDJ2000) / 36525
	M := twoPi * frac(0.9931267+99.9973583*T)
	L := twoPi * frac(0.7859444+M/twoPi+(6892*math.Sin(M)+72*math.Sin(2*M))/1296e3)
	r := 149.619e9 - 2.499e9*math.Cos(M) - 0.021e9*math.Cos(2*M)
	sL, cL := math.Sincos(L)
	return MxV33(R1(-obliquityJ2000), []float64{r * cL, r * sL, 0})
}

// SunPositionLowUT is SunPositionLowTT for a UT modified Julian date.
func SunPositionLowUT(mjd float64) []float64 {
	return SunPositionLowTT(mjd + DeltaT(mjd))
}

// Sun is the position of the Sun at a given date.
type Sun struct {
	MJD       float64
	J2000     []float64 // meters
	TEME      []float64 // meters
	SubSolar  []float64 // geodetic latitude, longitude (radians) and altitude (meters)
	AntiSolar []float64 // center of the dark side, as SubSolar
}

// NewSun returns the position of the Sun at the provided UT modified Julian date.
func NewSun(mjd float64) Sun {
	s := Sun{MJD: mjd, J2000: SunPositionLowUT(mjd)}
	s.TEME = J2000ToTEME(mjd, s.J2000)
	s.SubSolar = GeodeticLLA(s.TEME, mjd)
	s.AntiSolar = GeodeticLLA(Scale(s.TEME, -1), mjd)
	return s
}

func (s Sun) String() string {
	return fmt.Sprintf("Sun@%.6f sub-solar=(%.4f,%.4f)", s.MJD, s.SubSolar[0]*rad2deg, s.SubSolar[1]*rad2deg)
}

// Illumination returns 1 when the position r is lit by the Sun at rSun and 0
// when it is in the shadow of the Earth, using a cylindrical shadow model.
// Both vectors are in meters.
func Illumination(r, rSun []float64) float64 {
	eSun := Unit(rSun)
	s := Dot(r, eSun)
	if s > 0 || Norm(Sub(r, Scale(eSun, s))) > REarth {
		return 1
	}
	return 0
}
