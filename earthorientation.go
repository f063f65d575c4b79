package sgp4

import (
	"fmt"
	"math"
	"sort"

	"github.com/gonum/matrix/mat64"
)

// PrecessionTheory selects the precession model used by Precess.
type PrecessionTheory uint8

const (
	// IAU80 is the IAU-76/FK5 closed form precession.
	IAU80 PrecessionTheory = iota + 1
	// IAU96 uses the same precession angles as IAU80.
	IAU96
	// IAU2000A is the IAU-2000 four angle precession.
	IAU2000A
	// IAU2000B uses the same precession angles as IAU2000A.
	IAU2000B
)

func (t PrecessionTheory) String() string {
	switch t {
	case IAU80:
		return "IAU80"
	case IAU96:
		return "IAU96"
	case IAU2000A:
		return "IAU2000A"
	case IAU2000B:
		return "IAU2000B"
	default:
		panic(fmt.Errorf("unknown precession theory %d", t))
	}
}

// NutationOption selects how the TEME nutation matrix is built in TrueMean.
type NutationOption uint8

const (
	// NutationFull is the complete nutation matrix.
	NutationFull NutationOption = iota + 1
	// NutationNoCross drops the two Δψ cross terms of the nutation matrix.
	NutationNoCross
	// NutationSmallAngle is the small angle approximation of the nutation matrix.
	NutationSmallAngle
)

// NutationTermsAll is the number of terms of the IAU 1980 nutation series.
const NutationTermsAll = 106

// nutationOrder lists the rows of nutationCoeffs by decreasing longitude amplitude.
var nutationOrder [NutationTermsAll]int

func init() {
	idx := make([]int, NutationTermsAll)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(nutationCoeffs[idx[a]][5]) > math.Abs(nutationCoeffs[idx[b]][5])
	})
	copy(nutationOrder[:], idx)
}

// julianCenturies returns the Julian centuries elapsed since J2000 for a modified Julian date.
func julianCenturies(mjd float64) float64 {
	return (mjd - MJDJ2000) / 36525
}

// MeanObliquity returns the mean obliquity of the ecliptic in radians (IAU-80).
func MeanObliquity(mjdTT float64) float64 {
	T := julianCenturies(mjdTT)
	return deg2rad * (23.43929111 - (46.8150+(0.00059-0.001813*T)*T)*T/3600)
}

// NutationAngles returns the nutation in longitude and obliquity (radians) using the
// IAU 1980 series truncated to the largest `terms` terms. The conventional values are
// 4, 40 and 106; anything outside [1, 106] uses the full series.
func NutationAngles(mjdTT float64, terms int) (dpsi, deps float64) {
	const rev = 360 * 3600.0 // arcsec per revolution
	T := julianCenturies(mjdTT)
	T2 := T * T
	T3 := T2 * T

	l := modulo(485866.733+(1325*rev+715922.633)*T+31.310*T2+0.064*T3, rev)
	lp := modulo(1287099.804+(99*rev+1292581.224)*T-0.577*T2-0.012*T3, rev)
	F := modulo(335778.877+(1342*rev+295263.137)*T-13.257*T2+0.011*T3, rev)
	D := modulo(1072261.307+(1236*rev+1105601.328)*T-6.891*T2+0.019*T3, rev)
	Ω := modulo(450160.280-(5*rev+482890.539)*T+7.455*T2+0.008*T3, rev)

	term := func(c [9]float64) {
		arg := (c[0]*l + c[1]*lp + c[2]*F + c[3]*D + c[4]*Ω) / arcs
		dpsi += (c[5] + c[6]*T) * math.Sin(arg)
		deps += (c[7] + c[8]*T) * math.Cos(arg)
	}
	if terms < 1 || terms >= NutationTermsAll {
		for _, c := range nutationCoeffs {
			term(c)
		}
	} else {
		for _, row := range nutationOrder[:terms] {
			term(nutationCoeffs[row])
		}
	}
	dpsi = 1e-5 * dpsi / arcs
	deps = 1e-5 * deps / arcs
	return
}

// PrecessionMatrix returns the IAU-76 precession matrix transforming equatorial
// coordinates from the mean equinox at T1 to the mean equinox at T2 (Julian
// centuries since J2000).
func PrecessionMatrix(T1, T2 float64) *mat64.Dense {
	dT := T2 - T1
	ζ := ((2306.2181 + (1.39656-0.000139*T1)*T1) +
		((0.30188-0.000344*T1)+0.017998*dT)*dT) * dT / arcs
	z := ζ + ((0.79280+0.000411*T1)+0.000205*dT)*dT*dT/arcs
	θ := ((2004.3109 - (0.85330+0.000217*T1)*T1) -
		((0.42665+0.000217*T1)+0.041833*dT)*dT) * dT / arcs
	return MxM33(R3(-z), R2(θ), R3(-ζ))
}

// PrecessionMatrixMJD is PrecessionMatrix with both equinoxes given as modified Julian dates.
func PrecessionMatrixMJD(mjd1, mjd2 float64) *mat64.Dense {
	return PrecessionMatrix(julianCenturies(mjd1), julianCenturies(mjd2))
}

// NutationMatrix returns the full series nutation matrix from mean to true equator and equinox of date.
func NutationMatrix(mjdTT float64) *mat64.Dense {
	ε := MeanObliquity(mjdTT)
	dpsi, deps := NutationAngles(mjdTT, NutationTermsAll)
	return MxM33(R1(-ε-deps), R3(-dpsi), R1(ε))
}

// EquationOfEquinoxes returns the equation of the equinoxes in radians.
func EquationOfEquinoxes(mjdTT float64) float64 {
	dpsi, _ := NutationAngles(mjdTT, NutationTermsAll)
	return dpsi * math.Cos(MeanObliquity(mjdTT))
}

// GMST returns the Greenwich mean sidereal time in radians in [0, 2π).
func GMST(mjdUT1 float64) float64 {
	const secs = 86400.0
	mjd0 := math.Floor(mjdUT1)
	ut1 := secs * (mjdUT1 - mjd0)
	T0 := julianCenturies(mjd0)
	T := julianCenturies(mjdUT1)
	gmst := 24110.54841 + 8640184.812866*T0 + 1.002737909350795*ut1 +
		(0.093104-6.2e-6*T)*T*T
	return twoPi * frac(gmst/secs)
}

// GAST returns the Greenwich apparent sidereal time in radians in [0, 2π).
func GAST(mjdUT1 float64) float64 {
	return modulo(GMST(mjdUT1)+EquationOfEquinoxes(mjdUT1), twoPi)
}

// GHAMatrix returns the Greenwich hour angle matrix (true of date to Earth fixed).
func GHAMatrix(mjdUT1 float64) *mat64.Dense {
	return R3(GAST(mjdUT1))
}

// Precess returns the precession matrix from the mean equator of date to J2000
// (i.e. r_j2000 = P * r_mod) for the Julian centuries of TT since J2000.
func Precess(ttt float64, theory PrecessionTheory) *mat64.Dense {
	convrt := math.Pi / (180 * 3600)
	var oblo, ψa, wa, χa, ζ, θ, z float64
	switch theory {
	case IAU80, IAU96:
		oblo = 84381.448
		ψa = ((-0.001147*ttt-1.07259)*ttt + 5038.7784) * ttt
		wa = ((-0.007726*ttt+0.05127)*ttt)*ttt + oblo
		χa = ((-0.001125*ttt-2.38064)*ttt + 10.5526) * ttt
		ζ = ((0.017998*ttt+0.30188)*ttt + 2306.2181) * ttt
		θ = ((-0.041833*ttt-0.42665)*ttt + 2004.3109) * ttt
		z = ((0.018203*ttt+1.09468)*ttt + 2306.2181) * ttt
	case IAU2000A, IAU2000B:
		oblo = 84381.406
		ψa = ((((-0.0000000951*ttt+0.000132851)*ttt-0.00114045)*ttt-1.0790069)*ttt + 5038.481507) * ttt
		wa = ((((0.0000003337*ttt-0.000000467)*ttt-0.00772503)*ttt+0.0512623)*ttt-0.025754)*ttt + oblo
		χa = ((((-0.0000000560*ttt+0.000170663)*ttt-0.00121197)*ttt-2.3814292)*ttt + 10.556403) * ttt
		ζ = ((((-0.0000003173*ttt-0.000005971)*ttt+0.01801828)*ttt+0.2988499)*ttt+2306.083227)*ttt + 2.650545
		θ = ((((-0.0000001274*ttt-0.000007089)*ttt-0.04182264)*ttt-0.4294934)*ttt + 2004.191903) * ttt
		z = ((((0.0000002904*ttt-0.000028596)*ttt+0.01826837)*ttt+1.0927348)*ttt+2306.077181)*ttt - 2.650545
	default:
		panic(fmt.Errorf("unknown precession theory %d", theory))
	}
	ψa *= convrt
	wa *= convrt
	oblo *= convrt
	χa *= convrt
	ζ *= convrt
	θ *= convrt
	z *= convrt

	if theory == IAU2000A || theory == IAU2000B {
		return MxM33(R1(-oblo), R3(ψa), R1(wa), R3(-χa))
	}
	sζ, cζ := math.Sincos(ζ)
	sθ, cθ := math.Sincos(θ)
	sz, cz := math.Sincos(z)
	return mat64.NewDense(3, 3, []float64{
		cζ*cθ*cz - sζ*sz, cζ*cθ*sz + sζ*cz, cζ * sθ,
		-sζ*cθ*cz - cζ*sz, -sζ*cθ*sz + cζ*cz, -sζ * sθ,
		-sθ * cz, -sθ * sz, cθ,
	})
}

// iau80Nutation holds the fundamental quantities of the IAU 1980 nutation theory for a given date.
type iau80Nutation struct {
	meanε, Δψ, Δε, Ω float64 // radians
}

// nutationIAU80 sums the `order` largest terms of the IAU 1980 series (Vallado's
// sorted nut80 table) for the Julian centuries of TT since J2000.
func nutationIAU80(ttt float64, order int) iau80Nutation {
	if order < 1 || order > NutationTermsAll {
		order = NutationTermsAll
	}
	meanε := ((0.001813*ttt-0.00059)*ttt-46.8150)*ttt + 84381.448
	meanε = math.Mod(meanε/3600, 360) * deg2rad

	l := ((0.064*ttt+31.310)*ttt+1717915922.6330)*ttt/3600 + 134.96298139
	l1 := ((-0.012*ttt-0.577)*ttt+129596581.2240)*ttt/3600 + 357.52772333
	f := ((0.011*ttt-13.257)*ttt+1739527263.1370)*ttt/3600 + 93.27191028
	d := ((0.019*ttt-6.891)*ttt+1602961601.3280)*ttt/3600 + 297.85036306
	Ω := ((0.008*ttt+7.455)*ttt-6962890.5390)*ttt/3600 + 125.04452222

	l = math.Mod(l, 360) * deg2rad
	l1 = math.Mod(l1, 360) * deg2rad
	f = math.Mod(f, 360) * deg2rad
	d = math.Mod(d, 360) * deg2rad
	Ω = math.Mod(Ω, 360) * deg2rad

	var Δψ, Δε float64
	for _, c := range iau80Coeffs[:order] {
		arg := c[0]*l + c[1]*l1 + c[2]*f + c[3]*d + c[4]*Ω
		// Coefficients are in 0.0001 arcsec, the sums in degrees.
		Δψ += (c[5] + c[6]*ttt) * 1e-4 / 3600 * math.Sin(arg)
		Δε += (c[7] + c[8]*ttt) * 1e-4 / 3600 * math.Cos(arg)
	}
	return iau80Nutation{
		meanε: meanε,
		Δψ:    math.Mod(Δψ, 360) * deg2rad,
		Δε:    math.Mod(Δε, 360) * deg2rad,
		Ω:     Ω,
	}
}

// matrix returns the nutation matrix from the true equator to the mean equator
// of date for the nutation angles augmented by the provided corrections.
func (n iau80Nutation) matrix(ddψ, ddε float64, opt NutationOption) *mat64.Dense {
	Δψ := n.Δψ + ddψ
	trueε := n.meanε + n.Δε + ddε
	sψ, cψ := math.Sincos(Δψ)
	sε, cε := math.Sincos(n.meanε)
	sεt, cεt := math.Sincos(trueε)
	nut := mat64.NewDense(3, 3, []float64{
		cψ, cεt * sψ, sεt * sψ,
		-cε * sψ, cεt*cε*cψ + sεt*sε, sεt*cε*cψ - sε*cεt,
		-sε * sψ, cεt*sε*cψ - sεt*cε, sεt*sε*cψ + cεt*cε,
	})
	if opt == NutationNoCross {
		nut.Set(0, 1, 0)
		nut.Set(1, 0, 0)
	}
	return nut
}

// NutationIAU80 returns the nutation matrix (true of date to mean of date, i.e.
// r_mod = N * r_tod) using the `order` largest terms and the provided corrections
// to the nutation angles (radians).
func NutationIAU80(ttt, ddψ, ddε float64, order int) *mat64.Dense {
	return nutationIAU80(ttt, order).matrix(ddψ, ddε, NutationFull)
}

// TrueMean returns the matrix from the TEME frame to the mean equator and equinox
// of date (r_mod = M * r_teme), approximating nutation with the `order` largest
// terms. The two kinematic terms of the equation of the equinoxes are included
// after 1997 when eqeterms is positive.
func TrueMean(ttt float64, order, eqeterms int, opt NutationOption) *mat64.Dense {
	n := nutationIAU80(ttt, order)
	if opt == NutationSmallAngle {
		sε := math.Sin(n.meanε)
		return mat64.NewDense(3, 3, []float64{
			1, 0, n.Δψ * sε,
			0, 1, n.Δε,
			-n.Δψ * sε, -n.Δε, 1,
		})
	}
	jdttt := ttt*36525 + JDJ2000
	eqe := n.Δψ * math.Cos(n.meanε)
	if jdttt > 2450449.5 && eqeterms > 0 {
		eqe += 0.00264*math.Pi/(3600*180)*math.Sin(n.Ω) +
			0.000063*math.Pi/(3600*180)*math.Sin(2*n.Ω)
	}
	se, ce := math.Sincos(eqe)
	st := mat64.NewDense(3, 3, []float64{ce, -se, 0, se, ce, 0, 0, 0, 1})
	return MxM33(st, n.matrix(0, 0, opt))
}
