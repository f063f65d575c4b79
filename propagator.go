package sgp4

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/julian"
)

// Satellite is a satellite ready to be propagated with SGP4 or SDP4.
// Deep space satellites carry the resonance integrator state, which Propagate
// updates: a Satellite must only be used by one goroutine at a time.
type Satellite struct {
	name    string
	tle     TLE
	grav    GravityModel
	gc      GravityConstants
	opsMode OpsMode
	method  Method
	errCode ErrorCode

	epochJD    float64 // Julian date (UTC) of the elements
	epoch      float64 // days since 0 Jan 1950 0h
	suborbital bool
	isimp      bool
	gsto       float64

	// Mean elements at epoch, in radians and radians per minute.
	bstar, ecco, argpo, inclo, mo, no, nodeo float64
	ndot, nddot                              float64
	a, alta, altp                            float64 // Earth radii

	ne nearEarth
	ds *deepSpace
}

// NewSatelliteFromLines parses the two lines and initializes the propagator.
func NewSatelliteFromLines(name, line1, line2 string, grav GravityModel, mode OpsMode) (*Satellite, error) {
	tle, err := ParseTLE(name, line1, line2)
	if err != nil {
		return nil, err
	}
	return NewSatellite(tle, grav, mode)
}

// NewSatellite initializes the propagator from the element set and propagates
// it to its epoch. Fatal errors at epoch return a nil Satellite. A satellite
// already decayed at epoch is returned along with its *PropagationError.
func NewSatellite(tle TLE, grav GravityModel, mode OpsMode) (*Satellite, error) {
	sat := &Satellite{
		name:    tle.Name,
		tle:     tle,
		grav:    grav,
		gc:      grav.Constants(),
		opsMode: mode,
		epochJD: tle.EpochJD,
		epoch:   tle.EpochJD - jd1950,
		no:      tle.MeanMotion / xpdotp,
		bstar:   tle.BStar,
		ecco:    tle.Eccentricity,
		inclo:   tle.Inclination * deg2rad,
		nodeo:   tle.RAAN * deg2rad,
		argpo:   tle.ArgPerigee * deg2rad,
		mo:      tle.MeanAnomaly * deg2rad,
		ndot:    tle.NDot / (xpdotp * minutesPerDay),
		nddot:   tle.NDDot / (xpdotp * minutesPerDay * minutesPerDay),
	}
	sat.a = math.Pow(sat.no*sat.gc.Tumin, -x2o3)
	sat.alta = sat.a*(1+sat.ecco) - 1
	sat.altp = sat.a*(1-sat.ecco) - 1

	sat.init()
	if sat.suborbital {
		Logger("sgp4").Log("level", "info", "message", "suborbital at epoch", "satnum", tle.SatNum, "perigee", sat.altp)
	}
	if _, err := sat.Propagate(0); err != nil {
		if sat.errCode.Fatal() {
			return nil, errors.Wrapf(err, "initializing %s (%05d)", tle.Name, tle.SatNum)
		}
		return sat, err
	}
	return sat, nil
}

// Propagate returns the TEME state tsince minutes after the epoch of the elements.
// Fatal errors return a zero StateVector. ErrDecayed returns the computed state
// along with the error.
func (sat *Satellite) Propagate(tsince float64) (StateVector, error) {
	if sat.method == MethodUninitialized {
		return StateVector{}, errors.New("sgp4: satellite not initialized")
	}
	r, v, code, value := sat.sgp4(tsince)
	sat.errCode = code
	if code == ErrNone {
		return StateVector{Frame: TEME, JD: sat.epochJD + tsince/minutesPerDay, R: r, V: v}, nil
	}
	err := &PropagationError{Code: code, Tsince: tsince, Value: value}
	if code.Fatal() {
		return StateVector{}, err
	}
	return StateVector{Frame: TEME, JD: sat.epochJD + tsince/minutesPerDay, R: r, V: v}, err
}

// PropagateJD propagates to the provided Julian date (UTC).
func (sat *Satellite) PropagateJD(jd float64) (StateVector, error) {
	return sat.Propagate((jd - sat.epochJD) * minutesPerDay)
}

// PropagateTime propagates to the provided time.
func (sat *Satellite) PropagateTime(t time.Time) (StateVector, error) {
	return sat.PropagateJD(julian.TimeToJD(t.UTC()))
}

// Name returns the name of the satellite.
func (sat *Satellite) Name() string { return sat.name }

// TLE returns the element set this satellite was initialized from.
func (sat *Satellite) TLE() TLE { return sat.tle }

// EpochJD returns the Julian date of the element set.
func (sat *Satellite) EpochJD() float64 { return sat.epochJD }

// Epoch returns the epoch of the element set.
func (sat *Satellite) Epoch() time.Time { return JDToTime(sat.epochJD) }

// Method returns the propagation theory in use.
func (sat *Satellite) Method() Method { return sat.method }

// Gravity returns the gravity model in use.
func (sat *Satellite) Gravity() GravityModel { return sat.grav }

// OpsMode returns the operation mode in use.
func (sat *Satellite) OpsMode() OpsMode { return sat.opsMode }

// Error returns the error code of the last propagation.
func (sat *Satellite) Error() ErrorCode { return sat.errCode }

// Suborbital returns whether the perigee of the elements is below the surface.
// This never prevents propagation.
func (sat *Satellite) Suborbital() bool { return sat.suborbital }

// MeanMotion returns the un-Kozai mean motion in rad/min.
func (sat *Satellite) MeanMotion() float64 { return sat.no }

// Period returns the mean orbital period in minutes.
func (sat *Satellite) Period() float64 { return twoPi / sat.no }

// SemiMajorAxis returns the mean semi-major axis in km.
func (sat *Satellite) SemiMajorAxis() float64 { return sat.a * sat.gc.RadiusEarthKm }

// Altitudes returns the apogee and perigee altitudes in km.
func (sat *Satellite) Altitudes() (apogee, perigee float64) {
	return sat.alta * sat.gc.RadiusEarthKm, sat.altp * sat.gc.RadiusEarthKm
}

// Constants returns the gravity constants of this satellite.
func (sat *Satellite) Constants() GravityConstants { return sat.gc }
