package sgp4

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/unit"
)

const (
	// REarth is the equatorial radius of the Earth in meters (WGS-84).
	REarth = 6378.137e3
	// FEarth is the flattening of the Earth (WGS-84).
	FEarth = 1 / 298.257223563
	// geodeticMaxIter caps the height iteration, which converges in a handful of steps.
	geodeticMaxIter = 50
)

// wgs84 is the reference ellipsoid of the geodetic conversions, with the
// radius in km as meeus expects.
var wgs84 = globe.Ellipsoid{Er: REarth / 1e3, Fl: FEarth}

// GeodeticLLA converts an inertial position in meters at the provided modified
// Julian date (UTC) to geodetic latitude and longitude (radians) and altitude
// (meters). The longitude is in (-π, π].
// A null or non finite vector cannot be converted: it is logged and [0, 0, -REarth] is returned.
func GeodeticLLA(r []float64, mjd float64) []float64 {
	return geodeticLLA(r, mjd-MJDJ2000)
}

func geodeticLLA(r []float64, d float64) []float64 {
	const (
		eps = 1e3 * epsMach
		e2  = FEarth * (2 - FEarth)
	)
	epsRequ := eps * REarth
	if norm := Norm(r); norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		Logger("geodetic").Log("level", "warning", "message", "cannot convert a null or non finite vector to geodetic coordinates", "r", fmt.Sprint(r))
		return []float64{0, 0, -REarth}
	}
	X, Y, Z := r[0], r[1], r[2]
	rho2 := X*X + Y*Y

	var ZdZ, Nh, N float64
	dZ := e2 * Z
	for i := 0; i < geodeticMaxIter; i++ {
		ZdZ = Z + dZ
		Nh = math.Sqrt(rho2 + ZdZ*ZdZ)
		sinφ := ZdZ / Nh
		N = REarth / math.Sqrt(1-e2*sinφ*sinφ)
		dZnew := N * e2 * sinφ
		if math.Abs(dZ-dZnew) < epsRequ {
			break
		}
		dZ = dZnew
	}

	lla := make([]float64, 3)
	lla[0] = math.Atan2(ZdZ, math.Sqrt(rho2))
	lla[1] = math.Atan2(Y, X) - earthRotationDeg(d)*deg2rad
	lla[1] -= math.Floor(lla[1]/twoPi) * twoPi
	if lla[1] > math.Pi {
		lla[1] -= twoPi
	}
	lla[2] = Nh - N
	return lla
}

// earthRotationDeg returns the rotation angle of the Earth in degrees d days after J2000.
func earthRotationDeg(d float64) float64 {
	T := d / 36525
	return math.Mod(280.46061837+360.98564736629*d+0.000387933*T*T-T*T*T/38710000, 360)
}

// GeodeticToTEME is the inverse of GeodeticLLA: it returns the inertial position
// in meters of the geodetic latitude and longitude (radians) and altitude (meters).
func GeodeticToTEME(lla []float64, mjd float64) []float64 {
	ρsφ, ρcφ := wgs84.ParallaxConstants(unit.Angle(lla[0]), lla[2])
	λ := lla[1] + earthRotationDeg(mjd-MJDJ2000)*deg2rad
	sλ, cλ := math.Sincos(λ)
	return []float64{REarth * ρcφ * cλ, REarth * ρcφ * sλ, REarth * ρsφ}
}
