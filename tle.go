package sgp4

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// line1MinLen is the shortest line 1 which holds every required field (up to the B* exponent).
	line1MinLen = 61
	// line2MinLen is the shortest line 2 which holds every required field (up to the mean motion).
	line2MinLen = 63
	// tleYearPivot splits two digit years between 1957 and 2056.
	tleYearPivot = 57
	// tleMissing is stored in optional fields which could not be decoded.
	tleMissing = -1
)

// TLE is a NORAD two-line element set, as found in the text. Angles are in
// degrees, the mean motion in revolutions per day. Use NewSatellite to
// convert it into propagator units.
type TLE struct {
	Name           string
	Line1, Line2   string
	SatNum         int
	Classification string
	IntlDesignator string
	EpochYear      int     // two digit year, as in the TLE
	EpochDays      float64 // fractional day of year
	Year           int     // four digit year (1957 through 2056)
	EpochJD        float64 // Julian date (UTC) of the epoch
	NDot           float64 // first derivative of the mean motion divided by two, rev/day²
	NDDot          float64 // second derivative of the mean motion divided by six, rev/day³
	BStar          float64 // drag term, 1/Earth radii
	EphType        int
	ElNum          int
	Inclination    float64
	RAAN           float64
	Eccentricity   float64
	ArgPerigee     float64
	MeanAnomaly    float64
	MeanMotion     float64
	RevNum         int
}

// ParseTLE decodes a two-line element set. Any failure to read a required field
// returns a *TLEError; unreadable optional fields are logged and set to -1.
func ParseTLE(name, line1, line2 string) (TLE, error) {
	line1 = strings.TrimRight(line1, " \r\n")
	line2 = strings.TrimRight(line2, " \r\n")
	tle := TLE{Name: strings.TrimSpace(name), Line1: line1, Line2: line2}
	if err := tle.readLine1(line1); err != nil {
		return TLE{}, err
	}
	if err := tle.readLine2(line2); err != nil {
		return TLE{}, err
	}
	if tle.EpochYear < tleYearPivot {
		tle.Year = tle.EpochYear + 2000
	} else {
		tle.Year = tle.EpochYear + 1900
	}
	mon, day, hr, minute, sec := Days2MDHMS(tle.Year, tle.EpochDays)
	tle.EpochJD = JDay(tle.Year, mon, day, hr, minute, sec)
	return tle, nil
}

func (tle *TLE) readLine1(line string) error {
	if !strings.HasPrefix(line, "1 ") {
		return &TLEError{Line: 1, Err: errors.New("not a valid first line")}
	}
	line = padLine(line, line1MinLen)
	var err error
	if tle.SatNum, err = tleInt(line, 2, 7); err != nil {
		return &TLEError{1, "catalog number", err}
	}
	tle.Classification = line[7:8]
	tle.IntlDesignator = strings.TrimSpace(line[9:17])
	if tle.EpochYear, err = tleInt(line, 18, 20); err != nil {
		return &TLEError{1, "epoch year", err}
	}
	if tle.EpochDays, err = tleFloat(line, 20, 32); err != nil {
		return &TLEError{1, "epoch day", err}
	}
	if tle.NDot, err = tleFloat(line, 33, 43); err != nil {
		return &TLEError{1, "ndot", err}
	}
	if strings.TrimSpace(line[44:52]) == "" {
		tle.NDDot = 0
	} else if tle.NDDot, err = tleExponential(line, 44, 50, 52); err != nil {
		return &TLEError{1, "nddot", err}
	}
	if tle.BStar, err = tleExponential(line, 53, 59, 61); err != nil {
		return &TLEError{1, "bstar", err}
	}

	// Optional fields.
	if tle.EphType, err = tleInt(line, 62, 63); err != nil {
		tle.EphType = tleMissing
		Logger("tle").Log("level", "warning", "message", "could not read ephemeris type", "satnum", tle.SatNum, "err", err)
	}
	if tle.ElNum, err = tleInt(line, 64, 68); err != nil {
		tle.ElNum = tleMissing
		Logger("tle").Log("level", "warning", "message", "could not read element number", "satnum", tle.SatNum, "err", err)
	}
	checkTLESum(1, line, tle.SatNum)
	return nil
}

func (tle *TLE) readLine2(line string) error {
	if !strings.HasPrefix(line, "2 ") {
		return &TLEError{Line: 2, Err: errors.New("not a valid second line")}
	}
	line = padLine(line, line2MinLen)
	satnum, err := tleInt(line, 2, 7)
	if err != nil {
		return &TLEError{2, "catalog number", err}
	}
	if satnum != tle.SatNum {
		Logger("tle").Log("level", "warning", "message", "catalog number differs between lines", "line1", tle.SatNum, "line2", satnum, "name", tle.Name)
	}
	if tle.Inclination, err = tleFloat(line, 8, 17); err != nil {
		return &TLEError{2, "inclination", err}
	}
	if tle.RAAN, err = tleFloat(line, 17, 26); err != nil {
		return &TLEError{2, "raan", err}
	}
	if tle.Eccentricity, err = tleFloat(line, 26, 34); err != nil {
		return &TLEError{2, "eccentricity", err}
	}
	tle.Eccentricity /= 1e7
	if tle.ArgPerigee, err = tleFloat(line, 34, 43); err != nil {
		return &TLEError{2, "argument of perigee", err}
	}
	if tle.MeanAnomaly, err = tleFloat(line, 43, 52); err != nil {
		return &TLEError{2, "mean anomaly", err}
	}
	if tle.MeanMotion, err = tleFloat(line, 52, 63); err != nil {
		return &TLEError{2, "mean motion", err}
	}
	if tle.RevNum, err = tleInt(line, 63, 68); err != nil {
		tle.RevNum = tleMissing
		Logger("tle").Log("level", "warning", "message", "could not read revolution number", "satnum", tle.SatNum, "err", err)
	}
	checkTLESum(2, line, tle.SatNum)
	return nil
}

// padLine returns an error friendly copy of line: short lines are padded with
// spaces so that slicing never panics and missing fields fail to parse instead.
func padLine(line string, n int) string {
	if len(line) >= 69 {
		return line
	}
	if len(line) < n {
		Logger("tle").Log("level", "notice", "message", "short TLE line", "length", len(line))
	}
	return line + strings.Repeat(" ", 69-len(line))
}

// tleField returns the trimmed column range [from, to) of line, without any leading plus sign.
func tleField(line string, from, to int) string {
	s := strings.TrimSpace(line[from:to])
	return strings.TrimPrefix(s, "+")
}

// tleNumber checks that a field only holds the characters of a decimal number.
func tleNumber(s string, from, to int) error {
	if s == "" {
		return errors.Errorf("empty field in columns %d-%d", from+1, to)
	}
	if i := strings.IndexFunc(s, func(r rune) bool { return !strings.ContainsRune("0123456789+-.eE", r) }); i >= 0 {
		return errors.Errorf("invalid character %q in columns %d-%d", s[i], from+1, to)
	}
	return nil
}

func tleFloat(line string, from, to int) (float64, error) {
	s := tleField(line, from, to)
	if err := tleNumber(s, from, to); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "columns %d-%d", from+1, to)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("non finite value in columns %d-%d", from+1, to)
	}
	return v, nil
}

func tleInt(line string, from, to int) (int, error) {
	s := tleField(line, from, to)
	if err := tleNumber(s, from, to); err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "columns %d-%d", from+1, to)
	}
	return v, nil
}

// tleExponential reads the implied decimal point notation of TLEs: "-11606-4" is -0.11606e-4.
func tleExponential(line string, from, exp, to int) (float64, error) {
	mantissa, err := tleFloat(line, from, exp)
	if err != nil {
		return 0, err
	}
	e, err := tleInt(line, exp, to)
	if err != nil {
		return 0, errors.Wrap(err, "exponent")
	}
	return mantissa / 1e5 * math.Pow(10, float64(e)), nil
}

// TLEChecksum returns the modulo 10 checksum of the first 68 columns of a TLE line:
// the sum of all digits where each minus sign counts as one.
func TLEChecksum(line string) int {
	if len(line) > 68 {
		line = line[:68]
	}
	sum := 0
	for _, c := range line {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

// checkTLESum logs a warning when the checksum in column 69 does not match the line.
func checkTLESum(lineNo int, line string, satnum int) {
	if len(line) < 69 || line[68] < '0' || line[68] > '9' {
		return
	}
	if exp, got := TLEChecksum(line), int(line[68]-'0'); exp != got {
		Logger("tle").Log("level", "warning", "message", "checksum mismatch", "line", lineNo, "satnum", satnum, "expected", exp, "got", got)
	}
}

// ReadTLEs reads all the element sets of r. Both the two-line format and the
// three-line format (a name line before each pair) are accepted. Blank lines are skipped.
func ReadTLEs(r io.Reader) ([]TLE, error) {
	var (
		tles  []TLE
		name  string
		line1 string
		lnum  int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lnum++
		line := strings.TrimRight(scanner.Text(), " \r")
		switch {
		case strings.TrimSpace(line) == "":
			continue
		case strings.HasPrefix(line, "1 ") && line1 == "":
			line1 = line
		case strings.HasPrefix(line, "2 ") && line1 != "":
			tle, err := ParseTLE(name, line1, line)
			if err != nil {
				tleParsedTotal.WithLabelValues("error").Inc()
				return tles, errors.Wrapf(err, "element set ending on line %d", lnum)
			}
			tleParsedTotal.WithLabelValues("ok").Inc()
			tles = append(tles, tle)
			name, line1 = "", ""
		case line1 == "":
			name = strings.TrimPrefix(strings.TrimSpace(line), "0 ")
		default:
			return tles, errors.Errorf("line %d: expected the second line of %q", lnum, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return tles, errors.Wrap(err, "reading element sets")
	}
	if line1 != "" {
		return tles, errors.Errorf("incomplete element set %q at end of input", name)
	}
	return tles, nil
}
