package sgp4

import (
	"fmt"
	"math"
)

// DefaultMinElevation is the usual elevation mask of a ground station, in degrees.
const DefaultMinElevation = 10.0

var compassPoints = [...]string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}

// GroundStation is an observer on the surface of the Earth.
type GroundStation struct {
	Name         string
	LatΦ, Longθ  float64 // geodetic latitude and longitude, in degrees
	Altitude     float64 // meters
	MinElevation float64 // elevation mask in degrees
	sinΦ, cosΦ   float64
	siteC, siteS float64 // ellipsoid factors of the site vector
}

// NewGroundStation returns a new ground station. Angles in degrees, altitude in meters.
func NewGroundStation(name string, latΦ, longθ, altitude, minElevation float64) GroundStation {
	s := GroundStation{Name: name, LatΦ: latΦ, Longθ: longθ, Altitude: altitude, MinElevation: minElevation}
	s.sinΦ, s.cosΦ = math.Sincos(latΦ * deg2rad)
	s.siteC = 1 / math.Sqrt(1+FEarth*(FEarth-2)*s.sinΦ*s.sinΦ)
	s.siteS = (1 - FEarth) * (1 - FEarth) * s.siteC
	return s
}

// LocalSiderealTime returns the local mean sidereal time of the station in degrees.
func (s GroundStation) LocalSiderealTime(jd float64) float64 {
	return modulo(GMST(jd-JDMinusMJD)*rad2deg+s.Longθ, 360)
}

// ECIPosition returns the inertial (TEME) position of the station in meters
// at the provided Julian date. The altitude of the station is not accounted for.
func (s GroundStation) ECIPosition(jd float64) []float64 {
	sθ, cθ := math.Sincos(s.LocalSiderealTime(jd) * deg2rad)
	return []float64{
		REarth * s.siteC * s.cosΦ * cθ,
		REarth * s.siteC * s.cosΦ * sθ,
		REarth * s.siteS * s.sinΦ,
	}
}

// SEZ returns the topocentric south, east, zenith components of the inertial
// position (meters) at the provided Julian date.
func (s GroundStation) SEZ(jd float64, eci []float64) []float64 {
	ρ := Sub(eci, s.ECIPosition(jd))
	rSEZ := MxV33(R3(s.LocalSiderealTime(jd)*deg2rad), ρ)
	return MxV33(R2(math.Pi/2-s.LatΦ*deg2rad), rSEZ)
}

// AER returns the azimuth (degrees clockwise from north, in [0, 360)), the
// elevation (degrees) and the range (meters) of the inertial position in meters.
func (s GroundStation) AER(jd float64, eci []float64) (az, el, ρ float64) {
	rSEZ := s.SEZ(jd, eci)
	ρ = Norm(rSEZ)
	el = math.Asin(rSEZ[2]/ρ) * rad2deg
	az = math.Atan2(-rSEZ[0], rSEZ[1]) * rad2deg
	switch {
	case az <= 0:
		az = math.Abs(az) + 90
	case az <= 90:
		az = 90 - az
	default:
		az = 450 - az
	}
	return
}

// Visible returns whether the inertial position (meters) is above the elevation mask.
func (s GroundStation) Visible(jd float64, eci []float64) bool {
	_, el, _ := s.AER(jd, eci)
	return el >= s.MinElevation
}

func (s GroundStation) String() string {
	return fmt.Sprintf("%s (%f,%f); alt = %f m; el = %f deg", s.Name, s.LatΦ, s.Longθ, s.Altitude, s.MinElevation)
}

// Degrees2CompassPoints returns the 16-point compass direction of an angle in degrees.
func Degrees2CompassPoints(deg float64) string {
	deg = modulo(deg, 360)
	return compassPoints[int(math.Floor((deg+11.25)/22.5))%len(compassPoints)]
}
