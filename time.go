package sgp4

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// MJDJ2000 is the modified Julian date of J2000.0.
	MJDJ2000 = 51544.5
	// JDMinusMJD is the offset between Julian and modified Julian dates.
	JDMinusMJD = 2400000.5
	// JDJ2000 is the Julian date of J2000.0.
	JDJ2000 = 2451545.0
	// jd1950 is the reference of the SGP4 epoch (0 Jan 1950 0h).
	jd1950 = 2433281.5
	// minutesPerDay is self explanatory.
	minutesPerDay = 1440.0
)

// CalcMJD returns the modified Julian date of the given calendar date and time.
// Dates on or before 1582-10-04 are interpreted in the Julian calendar.
func CalcMJD(year, month, day, hour, min int, sec float64) float64 {
	if month <= 2 {
		month += 12
		year--
	}
	var b int
	if 10000*year+100*month+day <= 15821004 {
		b = -2 + ((year+4716)/4 - 1179)
	} else {
		b = year/400 - year/100 + year/4
	}
	mjdMidnight := 365*year - 679004 + b + int(30.6001*float64(month+1)) + day
	fracOfDay := (float64(hour) + float64(min)/60 + sec/3600) / 24
	return float64(mjdMidnight) + fracOfDay
}

// TimeToMJD returns the modified Julian date of t.
func TimeToMJD(t time.Time) float64 {
	return julian.TimeToJD(t.UTC()) - JDMinusMJD
}

// JDToTime converts a Julian date to a UTC time, rounded to the millisecond.
func JDToTime(jd float64) time.Time {
	return julian.JDToTime(jd).UTC().Round(time.Millisecond)
}

// JDToCalendar returns the Gregorian calendar date of the Julian date, the day
// carrying the fraction of the day.
func JDToCalendar(jd float64) (year, month int, day float64) {
	return julian.JDToCalendar(jd)
}

// DeltaT returns TT-UT in days for the provided modified Julian date, using
// piecewise polynomial fits over the historical record.
func DeltaT(mjd float64) float64 {
	mjd -= 50000
	epoch := 2000 + (mjd-1545)/365.25
	var d float64
	switch {
	case 1987 <= epoch && epoch <= 2015:
		t := epoch - 2002
		d = 9.2*t/15 + 65
		d /= 86400
	case 1900 <= epoch && epoch < 1987:
		t := (epoch - 1900) / 100
		d = horner(t, -0.000020, 0.000297, 0.025184, -0.181133, 0.553040, -0.861938, 0.677066, -0.212591)
	case 1800 <= epoch && epoch < 1900:
		t := (epoch - 1900) / 100
		d = horner(t, -0.000009, 0.003844, 0.083563, 0.865736, 4.867575, 15.845535, 31.332267, 38.291999, 28.316289, 11.636204, 2.043794)
	case 948 <= epoch && epoch <= 1600:
		t := (epoch - 1850) / 100
		d = 22.5 * t * t
		d /= 86400
	case epoch < 948:
		t := (epoch - 948) / 100
		d = 46.5*t*t - 405*t + 1830
		d /= 86400
	default:
		t := epoch - 1810
		d = 0.00325*t*t - 15
		d /= 86400
	}
	return d
}

// horner evaluates the polynomial with coefficients in increasing power order.
func horner(x float64, c ...float64) (y float64) {
	for i := len(c) - 1; i >= 0; i-- {
		y = y*x + c[i]
	}
	return
}

// JDay returns the Julian date of the provided UT date. Only valid for years 1900 through 2100.
func JDay(year, mon, day, hr, minute int, sec float64) float64 {
	y, m := float64(year), float64(mon)
	return 367*y -
		math.Floor((7*(y+math.Floor((m+9)/12)))*0.25) +
		math.Floor(275*m/9) +
		float64(day) + 1721013.5 +
		((sec/60+float64(minute))/60+float64(hr))/24
}

// Days2MDHMS converts the fractional day of year of the provided year to month, day, hour, minute, second.
func Days2MDHMS(year int, days float64) (mon, day, hr, minute int, sec float64) {
	lmonth := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	dayofyr := int(math.Floor(days))
	// Two digit years make the Gregorian century rules moot.
	if year%4 == 0 {
		lmonth[1] = 29
	}
	i := 1
	inttemp := 0
	for dayofyr > inttemp+lmonth[i-1] && i < 12 {
		inttemp += lmonth[i-1]
		i++
	}
	mon = i
	day = dayofyr - inttemp
	temp := (days - float64(dayofyr)) * 24
	hr = int(math.Floor(temp))
	temp = (temp - float64(hr)) * 60
	minute = int(math.Floor(temp))
	sec = (temp - float64(minute)) * 60
	return
}

// InvJDay converts a Julian date back to its calendar date and time.
func InvJDay(jd float64) (year, mon, day, hr, minute int, sec float64) {
	temp := jd - 2415019.5
	tu := temp / 365.25
	year = 1900 + int(math.Floor(tu))
	leapyrs := int(math.Floor(float64(year-1901) * 0.25))
	// Nudge by 8.64e-7 sec to get even outputs.
	days := temp - (float64(year-1900)*365+float64(leapyrs)) + 0.00000000001
	if days < 1 {
		year--
		leapyrs = int(math.Floor(float64(year-1901) * 0.25))
		days = temp - (float64(year-1900)*365 + float64(leapyrs))
	}
	mon, day, hr, minute, sec = Days2MDHMS(year, days)
	sec -= 0.00000086400
	return
}

// GSTime returns the Greenwich sidereal time (IAU-82) in radians, in [0, 2π), for the UT1 Julian date.
func GSTime(jdut1 float64) float64 {
	tut1 := (jdut1 - JDJ2000) / 36525
	temp := -6.2e-6*tut1*tut1*tut1 + 0.093104*tut1*tut1 +
		(876600.0*3600+8640184.812866)*tut1 + 67310.54841 // sec
	temp = math.Mod(temp*deg2rad/240, twoPi) // 360/86400 = 1/240
	if temp < 0 {
		temp += twoPi
	}
	return temp
}

// gstoAFSPC returns the sidereal time at epoch (days since 1950) as computed by
// the legacy AFSPC code, based on a 1970 reference.
func gstoAFSPC(epoch float64) float64 {
	const (
		c1     = 1.72027916940703639e-2
		thgr70 = 1.7321343856509374
		fk5r   = 5.07551419432269442e-15
	)
	ts70 := epoch - 7305
	ds70 := math.Floor(ts70 + 1e-8)
	tfrac := ts70 - ds70
	c1p2p := c1 + twoPi
	gsto := math.Mod(thgr70+c1*ds70+c1p2p*tfrac+ts70*ts70*fk5r, twoPi)
	if gsto < 0 {
		gsto += twoPi
	}
	return gsto
}
