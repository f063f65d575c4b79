package sgp4

import (
	"context"
	"sync"
	"time"
)

// EphemerisPoint is the state of one satellite at one date.
// Err is set when the propagation failed: fatal errors leave State.R nil.
type EphemerisPoint struct {
	Name   string
	SatNum int
	State  StateVector
	Err    error
}

// BatchStats summarizes a batch propagation.
type BatchStats struct {
	Satellites int
	Points     int
	Errors     int
	Duration   time.Duration
}

// BatchPropagator propagates many satellites in parallel. Each satellite is
// handled by a single worker for the whole batch, which keeps the deep space
// integrator of a Satellite confined to one goroutine.
type BatchPropagator struct {
	workers int
	frame   Frame
}

// NewBatchPropagator returns a propagator running the provided number of workers
// and reporting states in the provided frame. A non positive number of workers
// uses the configured value.
func NewBatchPropagator(workers int, frame Frame) *BatchPropagator {
	if workers < 1 {
		workers = Config().Workers
	}
	return &BatchPropagator{workers: workers, frame: frame}
}

// Stream propagates every satellite to every Julian date (UTC) and sends the
// points on out, which is closed on return. The points of one satellite are sent
// in the order of jds. A satellite listed more than once is propagated once.
// Stream returns early when ctx is done.
func (b *BatchPropagator) Stream(ctx context.Context, sats []*Satellite, jds []float64, out chan<- EphemerisPoint) (BatchStats, error) {
	defer close(out)
	start := time.Now()
	sats = distinctSatellites(sats)
	stats := BatchStats{Satellites: len(sats)}
	if len(sats) == 0 || len(jds) == 0 {
		return stats, ctx.Err()
	}

	jobs := make(chan *Satellite, b.workers*2)
	results := make(chan EphemerisPoint, b.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sat := range jobs {
				for _, jd := range jds {
					select {
					case results <- b.propagate(sat, jd):
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, sat := range sats {
			select {
			case jobs <- sat:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	logger := Logger("batch")
	for pt := range results {
		stats.Points++
		if pt.Err != nil {
			stats.Errors++
			logger.Log("level", "warning", "message", "propagation failed", "satnum", pt.SatNum, "jd", pt.State.JD, "err", pt.Err)
		}
		select {
		case out <- pt:
		case <-ctx.Done():
		}
	}

	stats.Duration = time.Since(start)
	status := "ok"
	if ctx.Err() != nil {
		status = "canceled"
	}
	batchDurationSeconds.WithLabelValues(status).Observe(stats.Duration.Seconds())
	return stats, ctx.Err()
}

// distinctSatellites drops nil and repeated satellites: a Satellite must only
// ever be propagated by one worker.
func distinctSatellites(sats []*Satellite) []*Satellite {
	seen := make(map[*Satellite]bool, len(sats))
	distinct := make([]*Satellite, 0, len(sats))
	for _, sat := range sats {
		if sat == nil || seen[sat] {
			continue
		}
		seen[sat] = true
		distinct = append(distinct, sat)
	}
	if len(distinct) != len(sats) {
		Logger("batch").Log("level", "notice", "message", "ignoring nil or repeated satellites", "count", len(sats)-len(distinct))
	}
	return distinct
}

// Run is Stream collecting all the points.
func (b *BatchPropagator) Run(ctx context.Context, sats []*Satellite, jds []float64) ([]EphemerisPoint, BatchStats, error) {
	out := make(chan EphemerisPoint, b.workers*2)
	done := make(chan []EphemerisPoint)
	go func() {
		points := make([]EphemerisPoint, 0, len(sats)*len(jds))
		for pt := range out {
			points = append(points, pt)
		}
		done <- points
	}()
	stats, err := b.Stream(ctx, sats, jds, out)
	return <-done, stats, err
}

func (b *BatchPropagator) propagate(sat *Satellite, jd float64) EphemerisPoint {
	pt := EphemerisPoint{Name: sat.Name(), SatNum: sat.TLE().SatNum}
	st, err := sat.PropagateJD(jd)
	if st.R == nil {
		st.JD, st.Frame = jd, b.frame
	} else if b.frame != st.Frame {
		st = st.In(b.frame)
	}
	pt.State, pt.Err = st, err
	result := ErrNone
	if err != nil {
		result = sat.Error()
	}
	propagationsTotal.WithLabelValues(sat.Method().String(), result.String()).Inc()
	return pt
}

// TimeGrid returns the Julian dates from start to stop (inclusive) every step.
func TimeGrid(start, stop float64, step time.Duration) []float64 {
	if step <= 0 || stop < start {
		return []float64{start}
	}
	stepDays := step.Hours() / 24
	n := int((stop-start)/stepDays+1e-9) + 1
	jds := make([]float64, n)
	for i := range jds {
		jds[i] = start + float64(i)*stepDays
	}
	return jds
}
