package sgp4

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/soniakeys/meeus/v3/julian"
)

var testDates = []time.Time{
	time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
	time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC),
	time.Date(2006, 6, 25, 19, 46, 43, 0, time.UTC),
	time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
	time.Date(2026, 2, 6, 4, 1, 0, 0, time.UTC),
}

func TestCalcMJD(t *testing.T) {
	if mjd := CalcMJD(2000, 1, 1, 12, 0, 0); mjd != MJDJ2000 {
		t.Fatalf("J2000 MJD = %f", mjd)
	}
	// Last day of the Julian calendar and first day of the Gregorian one.
	if mjd := CalcMJD(1582, 10, 4, 0, 0, 0); mjd != -100841 {
		t.Fatalf("1582-10-04 MJD = %f", mjd)
	}
	if mjd := CalcMJD(1582, 10, 15, 0, 0, 0); mjd != -100840 {
		t.Fatalf("1582-10-15 MJD = %f", mjd)
	}
	for _, dt := range testDates {
		day := float64(dt.Day()) + (float64(dt.Hour())+(float64(dt.Minute())+float64(dt.Second())/60)/60)/24
		exp := julian.CalendarGregorianToJD(dt.Year(), int(dt.Month()), day) - JDMinusMJD
		got := CalcMJD(dt.Year(), int(dt.Month()), dt.Day(), dt.Hour(), dt.Minute(), float64(dt.Second()))
		if !floats.EqualWithinAbs(got, exp, 1e-8) {
			t.Fatalf("CalcMJD(%s) = %f != %f", dt, got, exp)
		}
		if !floats.EqualWithinAbs(TimeToMJD(dt), exp, 1e-8) {
			t.Fatalf("TimeToMJD(%s) = %f != %f", dt, TimeToMJD(dt), exp)
		}
	}
}

func TestJDay(t *testing.T) {
	if jd := JDay(2000, 1, 1, 12, 0, 0); jd != JDJ2000 {
		t.Fatalf("J2000 JD = %f", jd)
	}
	for _, dt := range testDates {
		exp := satellite.JDay(dt.Year(), int(dt.Month()), dt.Day(), dt.Hour(), dt.Minute(), dt.Second())
		got := JDay(dt.Year(), int(dt.Month()), dt.Day(), dt.Hour(), dt.Minute(), float64(dt.Second()))
		if !floats.EqualWithinAbs(got, exp, 1e-9) {
			t.Fatalf("JDay(%s) = %f != %f", dt, got, exp)
		}
		if !floats.EqualWithinAbs(got, julian.TimeToJD(dt), 1e-8) {
			t.Fatalf("JDay(%s) = %f != meeus %f", dt, got, julian.TimeToJD(dt))
		}
		if back := JDToTime(got); !back.Equal(dt) {
			t.Fatalf("JDToTime(%f) = %s != %s", got, back, dt)
		}
		y, m, d := JDToCalendar(got)
		if y != dt.Year() || m != int(dt.Month()) || int(d) != dt.Day() {
			t.Fatalf("JDToCalendar(%f) = %d-%d-%f", got, y, m, d)
		}
	}
}

func TestDays2MDHMS(t *testing.T) {
	for _, tc := range []struct {
		year                int
		days                float64
		mon, day, hr, minut int
		sec                 float64
	}{
		{2000, 60.5, 2, 29, 12, 0, 0},
		{2001, 60.5, 3, 1, 12, 0, 0},
		{2006, 1, 1, 1, 0, 0, 0},
		{2006, 365.75, 12, 31, 18, 0, 0},
		{2000, 179.78495062, 6, 27, 18, 50, 19.733568},
	} {
		mon, day, hr, minute, sec := Days2MDHMS(tc.year, tc.days)
		if mon != tc.mon || day != tc.day || hr != tc.hr || minute != tc.minut || !floats.EqualWithinAbs(sec, tc.sec, 1e-4) {
			t.Fatalf("Days2MDHMS(%d, %f) = %d/%d %d:%d:%f", tc.year, tc.days, mon, day, hr, minute, sec)
		}
	}
}

func TestInvJDay(t *testing.T) {
	for _, dt := range testDates {
		sec := float64(dt.Second()) + 0.25
		jd := JDay(dt.Year(), int(dt.Month()), dt.Day(), dt.Hour(), dt.Minute(), sec)
		year, mon, day, hr, minute, s := InvJDay(jd)
		if year != dt.Year() || mon != int(dt.Month()) || day != dt.Day() || hr != dt.Hour() || minute != dt.Minute() {
			t.Fatalf("InvJDay(%f) = %d-%d-%d %d:%d", jd, year, mon, day, hr, minute)
		}
		if !floats.EqualWithinAbs(s, sec, 1e-4) {
			t.Fatalf("InvJDay(%f) seconds = %f != %f", jd, s, sec)
		}
	}
}

func TestGSTime(t *testing.T) {
	// 280.46061837 degrees at J2000.
	if g := GSTime(JDJ2000); !floats.EqualWithinAbs(g, 280.46061837*deg2rad, 1e-10) {
		t.Fatalf("GSTime(J2000) = %f", g)
	}
	for _, dt := range testDates {
		exp := satellite.GSTimeFromDate(dt.Year(), int(dt.Month()), dt.Day(), dt.Hour(), dt.Minute(), dt.Second())
		jd := JDay(dt.Year(), int(dt.Month()), dt.Day(), dt.Hour(), dt.Minute(), float64(dt.Second()))
		got := GSTime(jd)
		if ok, err := anglesEqual(got, exp, 1e-10); !ok {
			t.Fatalf("GSTime(%s) = %f != %f: %s", dt, got, exp, err)
		}
		if got < 0 || got >= twoPi {
			t.Fatalf("GSTime(%s) = %f out of [0, 2π)", dt, got)
		}
		// Both sidereal time formulations must agree.
		if ok, err := anglesEqual(got, GMST(jd-JDMinusMJD), 1e-9); !ok {
			t.Fatalf("GSTime and GMST differ at %s: %s", dt, err)
		}
		if ok, err := anglesEqual(got, gstoAFSPC(jd-jd1950), 1e-9); !ok {
			t.Fatalf("GSTime and the AFSPC sidereal time differ at %s: %s", dt, err)
		}
	}
}

func TestDeltaT(t *testing.T) {
	// 63.77 seconds around J2000.
	if dt := DeltaT(MJDJ2000) * 86400; !floats.EqualWithinAbs(dt, 63.77, 0.01) {
		t.Fatalf("ΔT(J2000) = %f s", dt)
	}
	// 1900-1987 polynomial, about 30 s in 1960.
	if dt := DeltaT(CalcMJD(1960, 1, 1, 0, 0, 0)) * 86400; !floats.EqualWithinAbs(dt, 33, 3) {
		t.Fatalf("ΔT(1960) = %f s", dt)
	}
	for mjd := -100000.0; mjd < 80000; mjd += 5000 {
		if d := DeltaT(mjd); math.IsNaN(d) || math.Abs(d) > 1 {
			t.Fatalf("ΔT(%f) = %f days", mjd, d)
		}
	}
}
