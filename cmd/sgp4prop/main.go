package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	sgp4 "github.com/mcidasv/mcidasv-sub014"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

// This code reads a scenario file, propagates every element set of the TLE file and exports the ephemeris.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "propagation scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}
	conf := sgp4.Config()

	// Metrics
	if conf.MetricsListen != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", sgp4.MetricsHandler())
			if err := http.ListenAndServe(conf.MetricsListen, mux); err != nil {
				log.Printf("[WARNING] metrics server stopped: %s", err)
			}
		}()
	}

	// Element sets
	tleFile := viper.GetString("tle.file")
	f, err := os.Open(tleFile)
	if err != nil {
		log.Fatalf("could not open `%s`: %s", tleFile, err)
	}
	tles, err := sgp4.ReadTLEs(f)
	f.Close()
	if err != nil {
		log.Fatalf("could not read `%s`: %s", tleFile, err)
	}
	grav, opsMode := conf.Gravity, conf.OpsMode
	if viper.IsSet("tle.gravity") {
		if grav, err = sgp4.GravityModelFromString(viper.GetString("tle.gravity")); err != nil {
			log.Fatal(err)
		}
	}
	if viper.IsSet("tle.opsmode") {
		if opsMode, err = sgp4.OpsModeFromString(viper.GetString("tle.opsmode")); err != nil {
			log.Fatal(err)
		}
	}
	sats := make([]*sgp4.Satellite, 0, len(tles))
	for _, tle := range tles {
		sat, err := sgp4.NewSatellite(tle, grav, opsMode)
		if sat == nil {
			log.Printf("[WARNING] skipping %s (%05d): %s", tle.Name, tle.SatNum, err)
			continue
		}
		if err != nil {
			log.Printf("[WARNING] %s (%05d): %s", tle.Name, tle.SatNum, err)
		}
		sats = append(sats, sat)
	}
	if len(sats) == 0 {
		log.Fatal("no satellite to propagate")
	}
	if verbose {
		log.Printf("[conf] %d satellites with %s in %s mode", len(sats), grav, opsMode)
	}

	// Propagation times
	startJD, ok := confReadJDEorTime("propagation.start")
	if !ok {
		startJD = sats[0].EpochJD()
	}
	endJD, ok := confReadJDEorTime("propagation.end")
	if !ok {
		endJD = startJD + 1
	}
	step := viper.GetDuration("propagation.step")
	if step == 0 {
		step = time.Minute
	}
	frame := sgp4.TEME
	if viper.IsSet("propagation.frame") {
		if frame, err = sgp4.FrameFromString(viper.GetString("propagation.frame")); err != nil {
			log.Fatal(err)
		}
	}
	jds := sgp4.TimeGrid(startJD, endJD, step)
	if verbose {
		log.Printf("[conf] %d steps of %s from %s in %s", len(jds), step, sgp4.JDToTime(startJD), frame)
	}

	// Export
	export := sgp4.ExportConfig{
		Filename:  viper.GetString("export.filename"),
		AsCSV:     viper.GetBool("export.csv"),
		Timestamp: viper.GetBool("export.timestamp"),
		Geodetic:  viper.GetBool("export.geodetic"),
	}
	if export.Filename == "" {
		export.Filename = scenario
	}

	// Optional ground station
	var station *sgp4.GroundStation
	if viper.IsSet("station.name") {
		minEl := sgp4.DefaultMinElevation
		if viper.IsSet("station.elevation") {
			minEl = viper.GetFloat64("station.elevation")
		}
		st := sgp4.NewGroundStation(viper.GetString("station.name"), viper.GetFloat64("station.lat"),
			viper.GetFloat64("station.lon"), viper.GetFloat64("station.alt"), minEl)
		station = &st
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points := make(chan sgp4.EphemerisPoint, 64)
	toFile := make(chan sgp4.EphemerisPoint, 64)
	type exportResult struct {
		path string
		err  error
	}
	exported := make(chan exportResult)
	go func() {
		path, err := sgp4.StreamEphemeris(export, toFile)
		exported <- exportResult{path, err}
	}()
	visible := make(map[string]int)
	go func() {
		defer close(toFile)
		for pt := range points {
			if station != nil && pt.State.R != nil {
				r, _ := pt.State.In(sgp4.TEME).Meters()
				if station.Visible(pt.State.JD, r) {
					visible[pt.Name]++
				}
			}
			toFile <- pt
		}
	}()

	stats, err := sgp4.NewBatchPropagator(conf.Workers, frame).Stream(ctx, sats, jds, points)
	res := <-exported
	if err != nil {
		log.Printf("[WARNING] propagation interrupted: %s", err)
	}
	if res.err != nil {
		log.Fatalf("could not export: %s", res.err)
	}
	log.Printf("propagated %d satellites, %d points (%d errors) in %s", stats.Satellites, stats.Points, stats.Errors, stats.Duration)
	if res.path != "" {
		log.Printf("ephemeris written to %s", res.path)
	}
	if station != nil {
		for _, sat := range sats {
			log.Printf("%s: %s visible for %d of %d steps", station.Name, sat.Name(), visible[sat.Name()], len(jds))
		}
	}
}

// confReadJDEorTime reads a Julian date or a time from the key, and returns false if the key is unset.
func confReadJDEorTime(key string) (float64, bool) {
	if !viper.IsSet(key) {
		return 0, false
	}
	if jde := viper.GetFloat64(key); jde != 0 {
		return jde, true
	}
	return julian.TimeToJD(viper.GetTime(key).UTC()), true
}
