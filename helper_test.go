package sgp4

import (
	"fmt"
	"math"
	"os"
	"testing"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

func TestMain(m *testing.M) {
	SetLogger(kitlog.NewNopLogger())
	os.Exit(m.Run())
}

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

// vectorsEqual returns whether both vectors are equal within the absolute tolerance.
func vectorsEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

//anglesEqual returns whether two angles in radians are equal.
func anglesEqual(a, b, tol float64) (bool, error) {
	diff := modulo(a-b, twoPi)
	if diff < tol || twoPi-diff < tol {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", math.Min(diff, twoPi-diff)*rad2deg)
}
