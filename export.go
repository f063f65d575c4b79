package sgp4

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var ephemerisHeader = []string{"jd", "utc", "name", "satnum", "frame", "x", "y", "z", "vx", "vy", "vz"}

var geodeticHeader = []string{"lat", "lon", "alt"}

// ExportConfig configures the exporting of an ephemeris.
type ExportConfig struct {
	Filename  string
	AsCSV     bool
	Timestamp bool
	Geodetic  bool // also export the geodetic latitude, longitude (degrees) and altitude (km)
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

// createEphemerisFile returns a file which requires a defer close statement!
func createEphemerisFile(conf ExportConfig) (*os.File, error) {
	filename := conf.Filename
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("ephemeris-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("ephemeris-%s.csv", filename)
	}
	f, err := os.Create(filepath.Join(Config().OutputDir, filename))
	if err != nil {
		return nil, errors.Wrap(err, "creating ephemeris file")
	}
	return f, nil
}

// StreamEphemeris writes the points of the channel to a CSV file in the
// configured output directory until the channel is closed, and returns the
// path of that file. The channel is always drained, even after a write error.
func StreamEphemeris(conf ExportConfig, points <-chan EphemerisPoint) (string, error) {
	if conf.IsUseless() {
		for range points {
		}
		return "", nil
	}
	f, err := createEphemerisFile(conf)
	if err != nil {
		for range points {
		}
		return "", err
	}
	defer f.Close()
	_, err = WriteEphemeris(f, conf, points)
	for range points {
	}
	return f.Name(), err
}

// WriteEphemeris writes the points of the channel as CSV records until the
// channel is closed or a write fails, and returns the number of records written.
// Positions are in km and velocities in km/s.
func WriteEphemeris(w io.Writer, conf ExportConfig, points <-chan EphemerisPoint) (int, error) {
	if _, err := fmt.Fprintf(w, `# Creation date (UTC): %s
# Records are <jd> <utc> <name> <satnum> <frame> <x> <y> <z> <vx> <vy> <vz>
#   Position in km
#   Velocity in km/sec
`, time.Now().UTC()); err != nil {
		return 0, errors.Wrap(err, "writing ephemeris header")
	}
	cw := csv.NewWriter(w)
	hdr := ephemerisHeader
	if conf.Geodetic {
		hdr = append(append([]string{}, hdr...), geodeticHeader...)
	}
	if err := cw.Write(hdr); err != nil {
		return 0, errors.Wrap(err, "writing ephemeris header")
	}
	n := 0
	for pt := range points {
		if pt.Err != nil && pt.State.R == nil {
			continue
		}
		if err := cw.Write(ephemerisRecord(pt, conf.Geodetic)); err != nil {
			return n, errors.Wrapf(err, "writing record %d", n)
		}
		n++
	}
	cw.Flush()
	return n, errors.Wrap(cw.Error(), "flushing ephemeris")
}

func ephemerisRecord(pt EphemerisPoint, geodetic bool) []string {
	st := pt.State
	rec := []string{
		strconv.FormatFloat(st.JD, 'f', 8, 64),
		JDToTime(st.JD).Format("2006-01-02T15:04:05.000"),
		pt.Name,
		strconv.Itoa(pt.SatNum),
		st.Frame.String(),
	}
	for _, v := range [][]float64{st.R, st.V} {
		for _, c := range v {
			rec = append(rec, strconv.FormatFloat(c, 'f', 8, 64))
		}
	}
	if geodetic {
		r, _ := st.In(TEME).Meters()
		lla := GeodeticLLA(r, st.MJD())
		rec = append(rec,
			strconv.FormatFloat(lla[0]*rad2deg, 'f', 6, 64),
			strconv.FormatFloat(lla[1]*rad2deg, 'f', 6, 64),
			strconv.FormatFloat(lla[2]/1e3, 'f', 6, 64))
	}
	return rec
}

// ReadEphemeris reads back the records written by WriteEphemeris. The geodetic
// columns, if any, are ignored.
func ReadEphemeris(r io.Reader) ([]EphemerisPoint, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	var points []EphemerisPoint
	for line := 0; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return points, nil
		}
		if err != nil {
			return points, errors.Wrap(err, "reading ephemeris")
		}
		if line == 0 {
			continue
		}
		if len(record) < len(ephemerisHeader) {
			return points, errors.Errorf("record %d: expected %d fields, got %d", line, len(ephemerisHeader), len(record))
		}
		pt, err := parseEphemerisRecord(record)
		if err != nil {
			return points, errors.Wrapf(err, "record %d", line)
		}
		points = append(points, pt)
	}
}

func parseEphemerisRecord(record []string) (EphemerisPoint, error) {
	var pt EphemerisPoint
	var vals [7]float64
	for i, idx := range []int{0, 5, 6, 7, 8, 9, 10} {
		v, err := strconv.ParseFloat(record[idx], 64)
		if err != nil {
			return pt, errors.Wrapf(err, "column %s", ephemerisHeader[idx])
		}
		vals[i] = v
	}
	frame, err := FrameFromString(record[4])
	if err != nil {
		return pt, err
	}
	satnum, err := strconv.Atoi(record[3])
	if err != nil {
		return pt, errors.Wrap(err, "column satnum")
	}
	pt.Name, pt.SatNum = record[2], satnum
	pt.State = StateVector{Frame: frame, JD: vals[0], R: vals[1:4:4], V: vals[4:7:7]}
	return pt, nil
}
