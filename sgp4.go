package sgp4

import "math"

const (
	x2o3 = 2.0 / 3.0
	// xpdotp converts revolutions per day to radians per minute.
	xpdotp = minutesPerDay / twoPi
	// temp4 replaces 1+cos(i) near 180 degrees of inclination.
	temp4 = 1.5e-12
)

// Method is the propagation theory selected at initialization.
type Method uint8

const (
	// MethodUninitialized is the zero value of a Satellite.
	MethodUninitialized Method = iota
	// MethodNearEarth is SGP4, for periods below 225 minutes.
	MethodNearEarth
	// MethodDeepSpace is SDP4, which adds the lunar-solar and resonance terms.
	MethodDeepSpace
)

func (m Method) String() string {
	switch m {
	case MethodUninitialized:
		return "uninitialized"
	case MethodNearEarth:
		return "near-earth"
	case MethodDeepSpace:
		return "deep-space"
	}
	return "unknown"
}

// nearEarth are the near earth secular and drag coefficients, computed once at epoch.
type nearEarth struct {
	aycof, con41, x1mth2, x7thm1, xlcof float64
	cc1, cc4, cc5                       float64
	d2, d3, d4                          float64
	delmo, eta, omgcof, sinmao, xmcof   float64
	t2cof, t3cof, t4cof, t5cof          float64
	mdot, argpdot, nodedot, nodecf      float64
}

// deepSpace is only set for deep space satellites. The integrator is the only
// state changed by propagation.
type deepSpace struct {
	ls    lunarSolar
	terms deepSpaceTerms
	ig    integrator
}

// epochQuantities are the auxiliary epoch quantities of initl.
type epochQuantities struct {
	ainv, ao, con41, con42, cosio, cosio2 float64
	eccsq, omeosq, posq, rp, rteosq, sinio float64
	no, gsto                               float64
}

// initl recovers the un-Kozai mean motion and computes the epoch quantities.
// epoch is in days since 0 Jan 1950 0h UTC.
func initl(gc GravityConstants, ecco, epoch, inclo, noKozai float64, mode OpsMode) epochQuantities {
	var q epochQuantities
	q.eccsq = ecco * ecco
	q.omeosq = 1 - q.eccsq
	q.rteosq = math.Sqrt(q.omeosq)
	q.cosio = math.Cos(inclo)
	q.cosio2 = q.cosio * q.cosio

	// Un-Kozai the mean motion.
	ak := math.Pow(gc.Xke/noKozai, x2o3)
	d1 := 0.75 * gc.J2 * (3*q.cosio2 - 1) / (q.rteosq * q.omeosq)
	del := d1 / (ak * ak)
	adel := ak * (1 - del*del - del*(1.0/3+134*del*del/81))
	del = d1 / (adel * adel)
	q.no = noKozai / (1 + del)

	q.ao = math.Pow(gc.Xke/q.no, x2o3)
	q.sinio = math.Sin(inclo)
	po := q.ao * q.omeosq
	q.con42 = 1 - 5*q.cosio2
	q.con41 = -q.con42 - q.cosio2 - q.cosio2
	q.ainv = 1 / q.ao
	q.posq = po * po
	q.rp = q.ao * (1 - ecco)

	if mode == OpsModeAFSPC {
		q.gsto = gstoAFSPC(epoch)
	} else {
		q.gsto = GSTime(epoch + jd1950)
	}
	return q
}

// init computes the propagator constants of sat from its mean elements, which
// must already be in radians and radians per minute.
func (sat *Satellite) init() {
	gc := sat.gc
	ss := 78/gc.RadiusEarthKm + 1
	qzms2t := math.Pow((120-78)/gc.RadiusEarthKm, 4)

	q := initl(gc, sat.ecco, sat.epoch, sat.inclo, sat.no, sat.opsMode)
	sat.no = q.no
	sat.gsto = q.gsto
	sat.method = MethodNearEarth
	sat.suborbital = q.rp < 1
	ne := &sat.ne
	ne.con41 = q.con41

	if q.omeosq < 0 && sat.no < 0 {
		return
	}

	sat.isimp = q.rp < 220/gc.RadiusEarthKm+1

	// For perigees below 156 km, s and qoms2t are altered.
	sfour := ss
	qzms24 := qzms2t
	perige := (q.rp - 1) * gc.RadiusEarthKm
	if perige < 156 {
		sfour = perige - 78
		if perige < 98 {
			sfour = 20
		}
		qzms24 = math.Pow((120-sfour)/gc.RadiusEarthKm, 4)
		sfour = sfour/gc.RadiusEarthKm + 1
	}
	pinvsq := 1 / q.posq

	tsi := 1 / (q.ao - sfour)
	ne.eta = q.ao * sat.ecco * tsi
	etasq := ne.eta * ne.eta
	eeta := sat.ecco * ne.eta
	psisq := math.Abs(1 - etasq)
	coef := qzms24 * math.Pow(tsi, 4)
	coef1 := coef / math.Pow(psisq, 3.5)
	cc2 := coef1 * sat.no * (q.ao*(1+1.5*etasq+eeta*(4+etasq)) +
		0.375*gc.J2*tsi/psisq*ne.con41*(8+3*etasq*(8+etasq)))
	ne.cc1 = sat.bstar * cc2
	cc3 := 0.0
	if sat.ecco > 1e-4 {
		cc3 = -2 * coef * tsi * gc.J3oJ2 * sat.no * q.sinio / sat.ecco
	}
	ne.x1mth2 = 1 - q.cosio2
	ne.cc4 = 2 * sat.no * coef1 * q.ao * q.omeosq *
		(ne.eta*(2+0.5*etasq) + sat.ecco*(0.5+2*etasq) -
			gc.J2*tsi/(q.ao*psisq)*(-3*ne.con41*(1-2*eeta+etasq*(1.5-0.5*eeta))+
				0.75*ne.x1mth2*(2*etasq-eeta*(1+etasq))*math.Cos(2*sat.argpo)))
	ne.cc5 = 2 * coef1 * q.ao * q.omeosq * (1 + 2.75*(etasq+eeta) + eeta*etasq)

	cosio4 := q.cosio2 * q.cosio2
	temp1 := 1.5 * gc.J2 * pinvsq * sat.no
	temp2 := 0.5 * temp1 * gc.J2 * pinvsq
	temp3 := -0.46875 * gc.J4 * pinvsq * pinvsq * sat.no
	ne.mdot = sat.no + 0.5*temp1*q.rteosq*ne.con41 + 0.0625*temp2*q.rteosq*(13-78*q.cosio2+137*cosio4)
	ne.argpdot = -0.5*temp1*q.con42 + 0.0625*temp2*(7-114*q.cosio2+395*cosio4) +
		temp3*(3-36*q.cosio2+49*cosio4)
	xhdot1 := -temp1 * q.cosio
	ne.nodedot = xhdot1 + (0.5*temp2*(4-19*q.cosio2)+2*temp3*(3-7*q.cosio2))*q.cosio
	xpidot := ne.argpdot + ne.nodedot
	ne.omgcof = sat.bstar * cc3 * math.Cos(sat.argpo)
	if sat.ecco > 1e-4 {
		ne.xmcof = -x2o3 * coef * sat.bstar / eeta
	}
	ne.nodecf = 3.5 * q.omeosq * xhdot1 * ne.cc1
	ne.t2cof = 1.5 * ne.cc1
	ne.xlcof, ne.aycof = j3Coefficients(gc.J3oJ2, q.sinio, q.cosio)
	ne.delmo = math.Pow(1+ne.eta*math.Cos(sat.mo), 3)
	ne.sinmao = math.Sin(sat.mo)
	ne.x7thm1 = 7*q.cosio2 - 1

	if twoPi/sat.no >= 225 {
		sat.initDeepSpace(q, xpidot)
	}

	if !sat.isimp {
		cc1sq := ne.cc1 * ne.cc1
		ne.d2 = 4 * q.ao * tsi * cc1sq
		temp := ne.d2 * tsi * ne.cc1 / 3
		ne.d3 = (17*q.ao + sfour) * temp
		ne.d4 = 0.5 * temp * q.ao * tsi * (221*q.ao + 31*sfour) * ne.cc1
		ne.t3cof = ne.d2 + 2*cc1sq
		ne.t4cof = 0.25 * (3*ne.d3 + ne.cc1*(12*ne.d2+10*cc1sq))
		ne.t5cof = 0.2 * (3*ne.d4 + 12*ne.cc1*ne.d3 + 6*ne.d2*ne.d2 + 15*cc1sq*(2*ne.d2+cc1sq))
	}
}

// initDeepSpace sets up the lunar-solar and resonance terms.
func (sat *Satellite) initDeepSpace(q epochQuantities, xpidot float64) {
	sat.method = MethodDeepSpace
	sat.isimp = true
	const tc = 0.0
	inclm := sat.inclo
	c := dscom(sat.epoch, sat.ecco, sat.argpo, tc, sat.inclo, sat.nodeo, sat.no)

	el := dpper(c.ls, 0, true, dpperResult{ep: sat.ecco, inclp: sat.inclo, nodep: sat.nodeo, argpp: sat.argpo, mp: sat.mo}, sat.opsMode)
	sat.ecco, sat.inclo, sat.nodeo, sat.argpo, sat.mo = el.ep, el.inclp, el.nodep, el.argpp, el.mp

	terms, ig, _ := dsinit(sat.gc.Xke, c, dsinitInput{
		argpo: sat.argpo, t: 0, tc: tc, gsto: sat.gsto, mo: sat.mo, mdot: sat.ne.mdot,
		no: sat.no, nodeo: sat.nodeo, nodedot: sat.ne.nodedot, xpidot: xpidot,
		ecco: sat.ecco, eccsq: q.eccsq,
		em: c.em, inclm: inclm, nm: c.nm,
	})
	sat.ds = &deepSpace{ls: c.ls, terms: terms, ig: ig}
}

// j3Coefficients returns the long period J3 coefficients of the mean longitude and of aynl.
func j3Coefficients(j3oj2, sini, cosi float64) (xlcof, aycof float64) {
	if math.Abs(cosi+1) > 1.5e-12 {
		xlcof = -0.25 * j3oj2 * sini * (3 + 5*cosi) / (1 + cosi)
	} else {
		xlcof = -0.25 * j3oj2 * sini * (3 + 5*cosi) / temp4
	}
	aycof = -0.5 * j3oj2 * sini
	return
}

// sgp4 computes the TEME position (km) and velocity (km/s) tsince minutes from epoch.
// The error code is ErrNone, ErrDecayed (with valid vectors) or a fatal code
// along with the offending value.
func (sat *Satellite) sgp4(tsince float64) (r, v []float64, code ErrorCode, value float64) {
	gc := sat.gc
	ne := sat.ne
	vkmpersec := gc.RadiusEarthKm * gc.Xke / 60
	t := tsince

	// Secular gravity and atmospheric drag.
	xmdf := sat.mo + ne.mdot*t
	argpdf := sat.argpo + ne.argpdot*t
	nodedf := sat.nodeo + ne.nodedot*t
	argpm := argpdf
	mm := xmdf
	t2 := t * t
	nodem := nodedf + ne.nodecf*t2
	tempa := 1 - ne.cc1*t
	tempe := sat.bstar * ne.cc4 * t
	templ := ne.t2cof * t2

	if !sat.isimp {
		delomg := ne.omgcof * t
		delm := ne.xmcof * (math.Pow(1+ne.eta*math.Cos(xmdf), 3) - ne.delmo)
		temp := delomg + delm
		mm = xmdf + temp
		argpm = argpdf - temp
		t3 := t2 * t
		t4 := t3 * t
		tempa = tempa - ne.d2*t2 - ne.d3*t3 - ne.d4*t4
		tempe += sat.bstar * ne.cc5 * (math.Sin(mm) - ne.sinmao)
		templ += ne.t3cof*t3 + t4*(ne.t4cof+t*ne.t5cof)
	}

	nm := sat.no
	em := sat.ecco
	inclm := sat.inclo
	if sat.method == MethodDeepSpace {
		out := dspace(sat.ds.terms, sat.ds.ig, sat.argpo, ne.argpdot, t, t, sat.gsto, sat.no,
			dsinitResult{em: em, argpm: argpm, inclm: inclm, mm: mm, nodem: nodem, nm: nm})
		sat.ds.ig = out.ig
		em, argpm, inclm, mm, nodem, nm = out.em, out.argpm, out.inclm, out.mm, out.nodem, out.nm
	}

	if nm <= 0 {
		return nil, nil, ErrMeanMotion, nm
	}
	am := math.Pow(gc.Xke/nm, x2o3) * tempa * tempa
	nm = gc.Xke / math.Pow(am, 1.5)
	em -= tempe

	if em >= 1 || em < -0.001 {
		return nil, nil, ErrMeanElements, em
	}
	if em < 1e-6 {
		em = 1e-6
	}
	mm += sat.no * templ
	xlm := mm + argpm + nodem
	nodem = math.Mod(nodem, twoPi)
	argpm = math.Mod(argpm, twoPi)
	xlm = math.Mod(xlm, twoPi)
	mm = math.Mod(xlm-argpm-nodem, twoPi)

	// Lunar-solar periodics.
	sinim := math.Sin(inclm)
	cosim := math.Cos(inclm)
	ep, xincp, argpp, nodep, mp := em, inclm, argpm, nodem, mm
	sinip, cosip := sinim, cosim
	aycof, xlcof := ne.aycof, ne.xlcof
	con41, x1mth2, x7thm1 := ne.con41, ne.x1mth2, ne.x7thm1
	if sat.method == MethodDeepSpace {
		el := dpper(sat.ds.ls, t, false, dpperResult{ep: ep, inclp: xincp, nodep: nodep, argpp: argpp, mp: mp}, sat.opsMode)
		ep, xincp, nodep, argpp, mp = el.ep, el.inclp, el.nodep, el.argpp, el.mp
		if xincp < 0 {
			xincp = -xincp
			nodep += math.Pi
			argpp -= math.Pi
		}
		if ep < 0 || ep > 1 {
			return nil, nil, ErrPerturbedEccentricity, ep
		}
		sinip = math.Sin(xincp)
		cosip = math.Cos(xincp)
		xlcof, aycof = j3Coefficients(gc.J3oJ2, sinip, cosip)
	}

	// Long period periodics.
	axnl := ep * math.Cos(argpp)
	temp := 1 / (am * (1 - ep*ep))
	aynl := ep*math.Sin(argpp) + temp*aycof
	xl := mp + argpp + nodep + temp*xlcof*axnl

	// Kepler's equation.
	u := math.Mod(xl-nodep, twoPi)
	_, sineo1, coseo1 := solveKepler(u, axnl, aynl)

	// Short period preliminary quantities.
	ecose := axnl*coseo1 + aynl*sineo1
	esine := axnl*sineo1 - aynl*coseo1
	el2 := axnl*axnl + aynl*aynl
	pl := am * (1 - el2)
	if pl < 0 {
		return nil, nil, ErrSemiLatusRectum, pl
	}
	rl := am * (1 - ecose)
	rdotl := math.Sqrt(am) * esine / rl
	rvdotl := math.Sqrt(pl) / rl
	betal := math.Sqrt(1 - el2)
	temp = esine / (1 + betal)
	sinu := am / rl * (sineo1 - aynl - axnl*temp)
	cosu := am / rl * (coseo1 - axnl + aynl*temp)
	su := math.Atan2(sinu, cosu)
	sin2u := (cosu + cosu) * sinu
	cos2u := 1 - 2*sinu*sinu
	temp = 1 / pl
	temp1 := 0.5 * gc.J2 * temp
	temp2 := temp1 * temp

	if sat.method == MethodDeepSpace {
		cosisq := cosip * cosip
		con41 = 3*cosisq - 1
		x1mth2 = 1 - cosisq
		x7thm1 = 7*cosisq - 1
	}

	// Short period periodics.
	mrt := rl*(1-1.5*temp2*betal*con41) + 0.5*temp1*x1mth2*cos2u
	su -= 0.25 * temp2 * x7thm1 * sin2u
	xnode := nodep + 1.5*temp2*cosip*sin2u
	xinc := xincp + 1.5*temp2*cosip*sinip*cos2u
	mvt := rdotl - nm*temp1*x1mth2*sin2u/gc.Xke
	rvdot := rvdotl + nm*temp1*(x1mth2*cos2u+1.5*con41)/gc.Xke

	// Orientation vectors.
	sinsu, cossu := math.Sin(su), math.Cos(su)
	snod, cnod := math.Sin(xnode), math.Cos(xnode)
	sini, cosi := math.Sin(xinc), math.Cos(xinc)
	xmx := -snod * cosi
	xmy := cnod * cosi
	ux := xmx*sinsu + cnod*cossu
	uy := xmy*sinsu + snod*cossu
	uz := sini * sinsu
	vx := xmx*cossu - cnod*sinsu
	vy := xmy*cossu - snod*sinsu
	vz := sini * cossu

	r = []float64{mrt * ux * gc.RadiusEarthKm, mrt * uy * gc.RadiusEarthKm, mrt * uz * gc.RadiusEarthKm}
	v = []float64{(mvt*ux + rvdot*vx) * vkmpersec, (mvt*uy + rvdot*vy) * vkmpersec, (mvt*uz + rvdot*vz) * vkmpersec}

	if mrt < 1 {
		return r, v, ErrDecayed, mrt
	}
	return r, v, ErrNone, 0
}

// solveKepler solves the modified Kepler equation u = E - axnl·sin(E) + aynl·cos(E)
// for E with at most 10 Newton steps, each clamped to ±0.95 rad. The sine and
// cosine returned are those of the last estimate before the final step, as
// the short periodics expect. Below e = 0.9999 the residual is at machine
// precision; closer to 1 the iteration cap can be hit for tiny mean anomalies.
func solveKepler(u, axnl, aynl float64) (eo1, sineo1, coseo1 float64) {
	eo1 = u
	tem5 := 9999.9
	for ktr := 1; math.Abs(tem5) >= 1e-12 && ktr <= 10; ktr++ {
		sineo1 = math.Sin(eo1)
		coseo1 = math.Cos(eo1)
		tem5 = 1 - coseo1*axnl - sineo1*aynl
		tem5 = (u - aynl*coseo1 + axnl*sineo1 - eo1) / tem5
		if math.Abs(tem5) >= 0.95 {
			if tem5 > 0 {
				tem5 = 0.95
			} else {
				tem5 = -0.95
			}
		}
		eo1 += tem5
	}
	return eo1, sineo1, coseo1
}
