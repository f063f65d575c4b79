package sgp4

import (
	"fmt"
	"math"
	"strings"
)

// GravityModel selects the set of Earth constants used by the propagator.
type GravityModel uint8

const (
	// WGS72Old are the low precision constants of Spacetrack Report #3.
	WGS72Old GravityModel = iota + 1
	// WGS72 is the usual choice for TLEs.
	WGS72
	// WGS84 constants.
	WGS84
)

// GravityConstants are the constants of a GravityModel.
type GravityConstants struct {
	Tumin         float64 // minutes in one time unit
	Mu            float64 // km^3/s^2
	RadiusEarthKm float64
	Xke           float64 // reciprocal of Tumin
	J2, J3, J4    float64
	J3oJ2         float64
}

var gravityConstants = map[GravityModel]GravityConstants{
	WGS72Old: newGravityConstants(398600.79964, 6378.135, 0.0743669161, 0.001082616, -0.00000253881, -0.00000165597),
	WGS72:    newGravityConstants(398600.8, 6378.135, 0, 0.001082616, -0.00000253881, -0.00000165597),
	WGS84:    newGravityConstants(398600.5, 6378.137, 0, 0.00108262998905, -0.00000253215306, -0.00000161098761),
}

// newGravityConstants derives xke from mu and the radius unless it is provided.
func newGravityConstants(mu, re, xke, j2, j3, j4 float64) GravityConstants {
	if xke == 0 {
		xke = 60 / math.Sqrt(re*re*re/mu)
	}
	return GravityConstants{Tumin: 1 / xke, Mu: mu, RadiusEarthKm: re, Xke: xke, J2: j2, J3: j3, J4: j4, J3oJ2: j3 / j2}
}

// Constants returns the constants of this model.
func (g GravityModel) Constants() GravityConstants {
	c, ok := gravityConstants[g]
	if !ok {
		panic(fmt.Errorf("unknown gravity model %d", g))
	}
	return c
}

func (g GravityModel) String() string {
	switch g {
	case WGS72Old:
		return "wgs72old"
	case WGS72:
		return "wgs72"
	case WGS84:
		return "wgs84"
	default:
		panic(fmt.Errorf("unknown gravity model %d", g))
	}
}

// GravityModelFromString returns the gravity model named s (case insensitive).
func GravityModelFromString(s string) (GravityModel, error) {
	switch strings.ToLower(s) {
	case "wgs72old":
		return WGS72Old, nil
	case "wgs72":
		return WGS72, nil
	case "wgs84":
		return WGS84, nil
	}
	return 0, fmt.Errorf("unknown gravity model `%s`", s)
}

// OpsMode selects how the sidereal time at epoch is computed.
type OpsMode uint8

const (
	// OpsModeAFSPC reproduces the legacy AFSPC code ('a').
	OpsModeAFSPC OpsMode = iota + 1
	// OpsModeImproved uses the IAU-82 sidereal time ('i').
	OpsModeImproved
)

func (o OpsMode) String() string {
	switch o {
	case OpsModeAFSPC:
		return "a"
	case OpsModeImproved:
		return "i"
	default:
		panic(fmt.Errorf("unknown operation mode %d", o))
	}
}

// OpsModeFromString accepts "a"/"afspc" and "i"/"improved".
func OpsModeFromString(s string) (OpsMode, error) {
	switch strings.ToLower(s) {
	case "a", "afspc":
		return OpsModeAFSPC, nil
	case "i", "improved":
		return OpsModeImproved, nil
	}
	return 0, fmt.Errorf("unknown operation mode `%s`", s)
}
