package sgp4

import "math"

// Lunar and solar constants of the deep space theory.
const (
	zns    = 1.19459e-5
	zes    = 0.01675
	znl    = 1.5835218e-4
	zel    = 0.05490
	c1ss   = 2.9864797e-6
	c1l    = 4.7968065e-7
	zsinis = 0.39785416
	zcosis = 0.91744867
	zcosgs = 0.1945905
	zsings = -0.98088458
	// rptim is the Earth rotation rate in rad/min (7.29211514668855e-5 rad/s).
	rptim = 4.37526908801129966e-3
)

// resonance classifies deep space orbits with respect to the geopotential.
type resonance uint8

const (
	resonanceNone resonance = iota
	// resonanceSynchronous is the one day resonance (geosynchronous orbits).
	resonanceSynchronous
	// resonanceHalfDay is the twelve hour resonance of eccentric orbits (Molniya).
	resonanceHalfDay
)

func (r resonance) String() string {
	switch r {
	case resonanceNone:
		return "none"
	case resonanceSynchronous:
		return "synchronous"
	case resonanceHalfDay:
		return "half-day"
	}
	return "unknown"
}

// lunarSolar are the amplitudes of the long period lunar and solar perturbations.
type lunarSolar struct {
	e3, ee2, se2, se3          float64
	sgh2, sgh3, sgh4, sh2, sh3 float64
	si2, si3, sl2, sl3, sl4    float64
	xgh2, xgh3, xgh4, xh2, xh3 float64
	xi2, xi3, xl2, xl3, xl4    float64
	zmol, zmos                 float64
}

// dscomResult holds the terms shared between the deep space initialization steps.
type dscomResult struct {
	snodm, cnodm, sinim, cosim, sinomm, cosomm float64
	day, em, emsq, gam, rtemsq, nm             float64
	// solar (ss, sz) and lunar (s, z) terms
	s1, s2, s3, s4, s5, s6, s7        float64
	ss1, ss2, ss3, ss4, ss5, ss6, ss7 float64
	z1, z2, z3                        float64
	z11, z12, z13                     float64
	z21, z22, z23                     float64
	z31, z32, z33                     float64
	sz1, sz2, sz3                     float64
	sz11, sz12, sz13                  float64
	sz21, sz22, sz23                  float64
	sz31, sz32, sz33                  float64
	ls                                lunarSolar
}

// dscom computes the lunar and solar terms at the epoch (days since 1950).
func dscom(epoch, ep, argpp, tc, inclp, nodep, np float64) dscomResult {
	var o dscomResult
	o.nm = np
	o.em = ep
	o.snodm = math.Sin(nodep)
	o.cnodm = math.Cos(nodep)
	o.sinomm = math.Sin(argpp)
	o.cosomm = math.Cos(argpp)
	o.sinim = math.Sin(inclp)
	o.cosim = math.Cos(inclp)
	o.emsq = o.em * o.em
	betasq := 1 - o.emsq
	o.rtemsq = math.Sqrt(betasq)

	// Initialize lunar solar terms.
	o.day = epoch + 18261.5 + tc/1440
	xnodce := math.Mod(4.5236020-9.2422029e-4*o.day, twoPi)
	stem := math.Sin(xnodce)
	ctem := math.Cos(xnodce)
	zcosil := 0.91375164 - 0.03568096*ctem
	zsinil := math.Sqrt(1 - zcosil*zcosil)
	zsinhl := 0.089683511 * stem / zsinil
	zcoshl := math.Sqrt(1 - zsinhl*zsinhl)
	o.gam = 5.8351514 + 0.0019443680*o.day
	zx := 0.39785416 * stem / zsinil
	zy := zcoshl*ctem + 0.91744867*zsinhl*stem
	zx = math.Atan2(zx, zy)
	zx = o.gam + zx - xnodce
	zcosgl := math.Cos(zx)
	zsingl := math.Sin(zx)

	// Solar terms first, then lunar.
	zcosg, zsing := zcosgs, zsings
	zcosi, zsini := zcosis, zsinis
	zcosh, zsinh := o.cnodm, o.snodm
	cc := c1ss
	xnoi := 1 / o.nm
	for lsflg := 1; lsflg <= 2; lsflg++ {
		a1 := zcosg*zcosh + zsing*zcosi*zsinh
		a3 := -zsing*zcosh + zcosg*zcosi*zsinh
		a7 := -zcosg*zsinh + zsing*zcosi*zcosh
		a8 := zsing * zsini
		a9 := zsing*zsinh + zcosg*zcosi*zcosh
		a10 := zcosg * zsini
		a2 := o.cosim*a7 + o.sinim*a8
		a4 := o.cosim*a9 + o.sinim*a10
		a5 := -o.sinim*a7 + o.cosim*a8
		a6 := -o.sinim*a9 + o.cosim*a10

		x1 := a1*o.cosomm + a2*o.sinomm
		x2 := a3*o.cosomm + a4*o.sinomm
		x3 := -a1*o.sinomm + a2*o.cosomm
		x4 := -a3*o.sinomm + a4*o.cosomm
		x5 := a5 * o.sinomm
		x6 := a6 * o.sinomm
		x7 := a5 * o.cosomm
		x8 := a6 * o.cosomm

		o.z31 = 12*x1*x1 - 3*x3*x3
		o.z32 = 24*x1*x2 - 6*x3*x4
		o.z33 = 12*x2*x2 - 3*x4*x4
		o.z1 = 3*(a1*a1+a2*a2) + o.z31*o.emsq
		o.z2 = 6*(a1*a3+a2*a4) + o.z32*o.emsq
		o.z3 = 3*(a3*a3+a4*a4) + o.z33*o.emsq
		o.z11 = -6*a1*a5 + o.emsq*(-24*x1*x7-6*x3*x5)
		o.z12 = -6*(a1*a6+a3*a5) + o.emsq*(-24*(x2*x7+x1*x8)-6*(x3*x6+x4*x5))
		o.z13 = -6*a3*a6 + o.emsq*(-24*x2*x8-6*x4*x6)
		o.z21 = 6*a2*a5 + o.emsq*(24*x1*x5-6*x3*x7)
		o.z22 = 6*(a4*a5+a2*a6) + o.emsq*(24*(x2*x5+x1*x6)-6*(x4*x7+x3*x8))
		o.z23 = 6*a4*a6 + o.emsq*(24*x2*x6-6*x4*x8)
		o.z1 = o.z1 + o.z1 + betasq*o.z31
		o.z2 = o.z2 + o.z2 + betasq*o.z32
		o.z3 = o.z3 + o.z3 + betasq*o.z33
		o.s3 = cc * xnoi
		o.s2 = -0.5 * o.s3 / o.rtemsq
		o.s4 = o.s3 * o.rtemsq
		o.s1 = -15 * o.em * o.s4
		o.s5 = x1*x3 + x2*x4
		o.s6 = x2*x3 + x1*x4
		o.s7 = x2*x4 - x1*x3

		if lsflg == 1 {
			o.ss1, o.ss2, o.ss3, o.ss4, o.ss5, o.ss6, o.ss7 = o.s1, o.s2, o.s3, o.s4, o.s5, o.s6, o.s7
			o.sz1, o.sz2, o.sz3 = o.z1, o.z2, o.z3
			o.sz11, o.sz12, o.sz13 = o.z11, o.z12, o.z13
			o.sz21, o.sz22, o.sz23 = o.z21, o.z22, o.z23
			o.sz31, o.sz32, o.sz33 = o.z31, o.z32, o.z33
			zcosg, zsing = zcosgl, zsingl
			zcosi, zsini = zcosil, zsinil
			zcosh = zcoshl*o.cnodm + zsinhl*o.snodm
			zsinh = o.snodm*zcoshl - o.cnodm*zsinhl
			cc = c1l
		}
	}

	ls := &o.ls
	ls.zmol = math.Mod(4.7199672+0.22997150*o.day-o.gam, twoPi)
	ls.zmos = math.Mod(6.2565837+0.017201977*o.day, twoPi)

	// Solar amplitudes.
	ls.se2 = 2 * o.ss1 * o.ss6
	ls.se3 = 2 * o.ss1 * o.ss7
	ls.si2 = 2 * o.ss2 * o.sz12
	ls.si3 = 2 * o.ss2 * (o.sz13 - o.sz11)
	ls.sl2 = -2 * o.ss3 * o.sz2
	ls.sl3 = -2 * o.ss3 * (o.sz3 - o.sz1)
	ls.sl4 = -2 * o.ss3 * (-21 - 9*o.emsq) * zes
	ls.sgh2 = 2 * o.ss4 * o.sz32
	ls.sgh3 = 2 * o.ss4 * (o.sz33 - o.sz31)
	ls.sgh4 = -18 * o.ss4 * zes
	ls.sh2 = -2 * o.ss2 * o.sz22
	ls.sh3 = -2 * o.ss2 * (o.sz23 - o.sz21)

	// Lunar amplitudes.
	ls.ee2 = 2 * o.s1 * o.s6
	ls.e3 = 2 * o.s1 * o.s7
	ls.xi2 = 2 * o.s2 * o.z12
	ls.xi3 = 2 * o.s2 * (o.z13 - o.z11)
	ls.xl2 = -2 * o.s3 * o.z2
	ls.xl3 = -2 * o.s3 * (o.z3 - o.z1)
	ls.xl4 = -2 * o.s3 * (-21 - 9*o.emsq) * zel
	ls.xgh2 = 2 * o.s4 * o.z32
	ls.xgh3 = 2 * o.s4 * (o.z33 - o.z31)
	ls.xgh4 = -18 * o.s4 * zel
	ls.xh2 = -2 * o.s2 * o.z22
	ls.xh3 = -2 * o.s2 * (o.z23 - o.z21)
	return o
}

// dpperResult are the elements after the long period periodics.
type dpperResult struct {
	ep, inclp, nodep, argpp, mp float64
}

// dpper applies the lunar-solar long period periodics to the elements in el at
// t minutes since epoch. At initialization (atEpoch) the elements are returned
// unchanged, as the periodics are relative to their epoch values which are zero.
func dpper(ls lunarSolar, t float64, atEpoch bool, el dpperResult, mode OpsMode) dpperResult {
	// Solar terms.
	zm := ls.zmos + zns*t
	if atEpoch {
		zm = ls.zmos
	}
	zf := zm + 2*zes*math.Sin(zm)
	sinzf := math.Sin(zf)
	f2 := 0.5*sinzf*sinzf - 0.25
	f3 := -0.5 * sinzf * math.Cos(zf)
	ses := ls.se2*f2 + ls.se3*f3
	sis := ls.si2*f2 + ls.si3*f3
	sls := ls.sl2*f2 + ls.sl3*f3 + ls.sl4*sinzf
	sghs := ls.sgh2*f2 + ls.sgh3*f3 + ls.sgh4*sinzf
	shs := ls.sh2*f2 + ls.sh3*f3

	// Lunar terms.
	zm = ls.zmol + znl*t
	if atEpoch {
		zm = ls.zmol
	}
	zf = zm + 2*zel*math.Sin(zm)
	sinzf = math.Sin(zf)
	f2 = 0.5*sinzf*sinzf - 0.25
	f3 = -0.5 * sinzf * math.Cos(zf)
	sel := ls.ee2*f2 + ls.e3*f3
	sil := ls.xi2*f2 + ls.xi3*f3
	sll := ls.xl2*f2 + ls.xl3*f3 + ls.xl4*sinzf
	sghl := ls.xgh2*f2 + ls.xgh3*f3 + ls.xgh4*sinzf
	shll := ls.xh2*f2 + ls.xh3*f3

	if atEpoch {
		return el
	}

	pe := ses + sel
	pinc := sis + sil
	pl := sls + sll
	pgh := sghs + sghl
	ph := shs + shll

	el.inclp += pinc
	el.ep += pe
	sinip := math.Sin(el.inclp)
	cosip := math.Cos(el.inclp)

	if el.inclp >= 0.2 {
		// Apply the periodics directly.
		ph /= sinip
		pgh -= cosip * ph
		el.argpp += pgh
		el.nodep += ph
		el.mp += pl
		return el
	}

	// Lyddane modification for low inclinations.
	sinop := math.Sin(el.nodep)
	cosop := math.Cos(el.nodep)
	alfdp := sinip * sinop
	betdp := sinip * cosop
	dalf := ph*cosop + pinc*cosip*sinop
	dbet := -ph*sinop + pinc*cosip*cosop
	alfdp += dalf
	betdp += dbet
	el.nodep = math.Mod(el.nodep, twoPi)
	if el.nodep < 0 && mode == OpsModeAFSPC {
		el.nodep += twoPi
	}
	xls := el.mp + el.argpp + cosip*el.nodep
	dls := pl + pgh - pinc*el.nodep*sinip
	xls += dls
	xnoh := el.nodep
	el.nodep = math.Atan2(alfdp, betdp)
	if el.nodep < 0 && mode == OpsModeAFSPC {
		el.nodep += twoPi
	}
	if math.Abs(xnoh-el.nodep) > math.Pi {
		if el.nodep < xnoh {
			el.nodep += twoPi
		} else {
			el.nodep -= twoPi
		}
	}
	el.mp += pl
	el.argpp = xls - el.mp - cosip*el.nodep
	return el
}

// deepSpaceTerms are the secular rates and resonance coefficients of a deep space orbit.
type deepSpaceTerms struct {
	irez                           resonance
	dedt, didt, dmdt, dnodt, domdt float64
	d2201, d2211, d3210, d3222     float64
	d4410, d4422, d5220, d5232     float64
	d5421, d5433                   float64
	del1, del2, del3               float64
	xfact, xlamo                   float64
}

// integrator is the state of the resonance integration: the mean longitude xli
// and mean motion xni reached after atime minutes.
type integrator struct {
	atime, xli, xni float64
}

// dsinitInput are the epoch quantities needed to set up the deep space terms.
type dsinitInput struct {
	argpo, t, tc, gsto, mo, mdot, no, nodeo, nodedot, xpidot float64
	ecco, eccsq                                              float64
	em, argpm, inclm, mm, nm, nodem                          float64
}

// dsinitResult are the elements after the deep space initialization.
type dsinitResult struct {
	em, argpm, inclm, mm, nm, nodem, dndt float64
}

// dsinit computes the deep space secular rates and, for resonant orbits, the
// resonance coefficients and the initial integrator state.
func dsinit(xke float64, c dscomResult, in dsinitInput) (deepSpaceTerms, integrator, dsinitResult) {
	const (
		q22    = 1.7891679e-6
		q31    = 2.1460748e-6
		q33    = 2.2123015e-7
		root22 = 1.7891679e-6
		root44 = 7.3636953e-9
		root54 = 2.1765803e-9
		root32 = 3.7393792e-7
		root52 = 1.1428639e-7
		x2o3   = 2.0 / 3.0
	)
	var (
		d   deepSpaceTerms
		ig  integrator
		out = dsinitResult{em: in.em, argpm: in.argpm, inclm: in.inclm, mm: in.mm, nm: in.nm, nodem: in.nodem}
	)
	cosim, sinim, emsq := c.cosim, c.sinim, c.emsq

	// Resonance flags.
	if out.nm < 0.0052359877 && out.nm > 0.0034906585 {
		d.irez = resonanceSynchronous
	}
	if out.nm >= 8.26e-3 && out.nm <= 9.24e-3 && out.em >= 0.5 {
		d.irez = resonanceHalfDay
	}

	// Solar terms.
	ses := c.ss1 * zns * c.ss5
	sis := c.ss2 * zns * (c.sz11 + c.sz13)
	sls := -zns * c.ss3 * (c.sz1 + c.sz3 - 14 - 6*emsq)
	sghs := c.ss4 * zns * (c.sz31 + c.sz33 - 6)
	shs := -zns * c.ss2 * (c.sz21 + c.sz23)
	if out.inclm < 5.2359877e-2 || out.inclm > math.Pi-5.2359877e-2 {
		shs = 0
	}
	if sinim != 0 {
		shs /= sinim
	}
	sgs := sghs - cosim*shs

	// Lunar terms.
	d.dedt = ses + c.s1*znl*c.s5
	d.didt = sis + c.s2*znl*(c.z11+c.z13)
	d.dmdt = sls - znl*c.s3*(c.z1+c.z3-14-6*emsq)
	sghl := c.s4 * znl * (c.z31 + c.z33 - 6)
	shll := -znl * c.s2 * (c.z21 + c.z23)
	if out.inclm < 5.2359877e-2 || out.inclm > math.Pi-5.2359877e-2 {
		shll = 0
	}
	d.domdt = sgs + sghl
	d.dnodt = shs
	if sinim != 0 {
		d.domdt -= cosim / sinim * shll
		d.dnodt += shll / sinim
	}

	// Deep space secular effects at t.
	theta := math.Mod(in.gsto+in.tc*rptim, twoPi)
	out.em += d.dedt * in.t
	out.inclm += d.didt * in.t
	out.argpm += d.domdt * in.t
	out.nodem += d.dnodt * in.t
	out.mm += d.dmdt * in.t

	if d.irez == resonanceNone {
		return d, ig, out
	}

	aonv := math.Pow(out.nm/xke, x2o3)
	switch d.irez {
	case resonanceHalfDay:
		cosisq := cosim * cosim
		em := in.ecco
		emsq := in.eccsq
		eoc := em * emsq
		g201 := -0.306 - (em-0.64)*0.440
		var g211, g310, g322, g410, g422, g520, g521, g532, g533 float64
		if em <= 0.65 {
			g211 = 3.616 - 13.2470*em + 16.2900*emsq
			g310 = -19.302 + 117.3900*em - 228.4190*emsq + 156.5910*eoc
			g322 = -18.9068 + 109.7927*em - 214.6334*emsq + 146.5816*eoc
			g410 = -41.122 + 242.6940*em - 471.0940*emsq + 313.9530*eoc
			g422 = -146.407 + 841.8800*em - 1629.014*emsq + 1083.4350*eoc
			g520 = -532.114 + 3017.977*em - 5740.032*emsq + 3708.2760*eoc
		} else {
			g211 = -72.099 + 331.819*em - 508.738*emsq + 266.724*eoc
			g310 = -346.844 + 1582.851*em - 2415.925*emsq + 1246.113*eoc
			g322 = -342.585 + 1554.908*em - 2366.899*emsq + 1215.972*eoc
			g410 = -1052.797 + 4758.686*em - 7193.992*emsq + 3651.957*eoc
			g422 = -3581.690 + 16178.110*em - 24462.770*emsq + 12422.520*eoc
			if em > 0.715 {
				g520 = -5149.66 + 29936.92*em - 54087.36*emsq + 31324.56*eoc
			} else {
				g520 = 1464.74 - 4664.75*em + 3763.64*emsq
			}
		}
		if em < 0.7 {
			g533 = -919.22770 + 4988.6100*em - 9064.7700*emsq + 5542.21*eoc
			g521 = -822.71072 + 4568.6173*em - 8491.4146*emsq + 5337.524*eoc
			g532 = -853.66600 + 4690.2500*em - 8624.7700*emsq + 5341.4*eoc
		} else {
			g533 = -37995.780 + 161616.52*em - 229838.20*emsq + 109377.94*eoc
			g521 = -51752.104 + 218913.95*em - 309468.16*emsq + 146349.42*eoc
			g532 = -40023.880 + 170470.89*em - 242699.48*emsq + 115605.82*eoc
		}

		sini2 := sinim * sinim
		f220 := 0.75 * (1 + 2*cosim + cosisq)
		f221 := 1.5 * sini2
		f321 := 1.875 * sinim * (1 - 2*cosim - 3*cosisq)
		f322 := -1.875 * sinim * (1 + 2*cosim - 3*cosisq)
		f441 := 35 * sini2 * f220
		f442 := 39.3750 * sini2 * sini2
		f522 := 9.84375 * sinim * (sini2*(1-2*cosim-5*cosisq) +
			0.33333333*(-2+4*cosim+6*cosisq))
		f523 := sinim * (4.92187512*sini2*(-2-4*cosim+10*cosisq) +
			6.56250012*(1+2*cosim-3*cosisq))
		f542 := 29.53125 * sinim * (2 - 8*cosim + cosisq*(-12+8*cosim+10*cosisq))
		f543 := 29.53125 * sinim * (-2 - 8*cosim + cosisq*(12+8*cosim-10*cosisq))

		xno2 := out.nm * out.nm
		ainv2 := aonv * aonv
		temp1 := 3 * xno2 * ainv2
		temp := temp1 * root22
		d.d2201 = temp * f220 * g201
		d.d2211 = temp * f221 * g211
		temp1 *= aonv
		temp = temp1 * root32
		d.d3210 = temp * f321 * g310
		d.d3222 = temp * f322 * g322
		temp1 *= aonv
		temp = 2 * temp1 * root44
		d.d4410 = temp * f441 * g410
		d.d4422 = temp * f442 * g422
		temp1 *= aonv
		temp = temp1 * root52
		d.d5220 = temp * f522 * g520
		d.d5232 = temp * f523 * g532
		temp = 2 * temp1 * root54
		d.d5421 = temp * f542 * g521
		d.d5433 = temp * f543 * g533
		d.xlamo = math.Mod(in.mo+in.nodeo+in.nodeo-theta-theta, twoPi)
		d.xfact = in.mdot + d.dmdt + 2*(in.nodedot+d.dnodt-rptim) - in.no

	case resonanceSynchronous:
		g200 := 1 + emsq*(-2.5+0.8125*emsq)
		g310 := 1 + 2*emsq
		g300 := 1 + emsq*(-6+6.60937*emsq)
		f220 := 0.75 * (1 + cosim) * (1 + cosim)
		f311 := 0.9375*sinim*sinim*(1+3*cosim) - 0.75*(1+cosim)
		f330 := 1 + cosim
		f330 = 1.875 * f330 * f330 * f330
		d.del1 = 3 * out.nm * out.nm * aonv * aonv
		d.del2 = 2 * d.del1 * f220 * g200 * q22
		d.del3 = 3 * d.del1 * f330 * g300 * q33 * aonv
		d.del1 = d.del1 * f311 * g310 * q31 * aonv
		d.xlamo = math.Mod(in.mo+in.nodeo+in.argpo-theta, twoPi)
		d.xfact = in.mdot + in.xpidot - rptim + d.dmdt + d.domdt + d.dnodt - in.no
	}

	// Initialize the integrator at epoch.
	ig = integrator{atime: 0, xli: d.xlamo, xni: in.no}
	out.nm = in.no + out.dndt
	return d, ig, out
}

// dspaceResult are the elements after the deep space secular and resonance effects.
type dspaceResult struct {
	em, argpm, inclm, mm, nodem, dndt, nm float64
	ig                                    integrator
}

// dspace applies the deep space secular effects and, for resonant orbits, integrates
// the resonance from the integrator state ig to t minutes since epoch.
// The integrator restarts from epoch when t is on the other side of the epoch, or
// closer to the epoch, than the integrator state.
func dspace(d deepSpaceTerms, ig integrator, argpo, argpdot, t, tc, gsto, no float64, el dsinitResult) dspaceResult {
	const (
		fasx2 = 0.13130908
		fasx4 = 2.8843198
		fasx6 = 0.37448087
		g22   = 5.7686396
		g32   = 0.95240898
		g44   = 1.8014998
		g52   = 1.0508330
		g54   = 4.4108898
		stepp = 720.0
		stepn = -720.0
		step2 = 259200.0
	)
	out := dspaceResult{em: el.em, argpm: el.argpm, inclm: el.inclm, mm: el.mm, nodem: el.nodem, nm: el.nm}

	theta := math.Mod(gsto+tc*rptim, twoPi)
	out.em += d.dedt * t
	out.inclm += d.didt * t
	out.argpm += d.domdt * t
	out.nodem += d.dnodt * t
	out.mm += d.dmdt * t

	if d.irez == resonanceNone {
		out.ig = ig
		return out
	}

	if ig.atime == 0 || t*ig.atime <= 0 || math.Abs(t) < math.Abs(ig.atime) {
		ig = integrator{atime: 0, xni: no, xli: d.xlamo}
	}
	delt := stepn
	if t > 0 {
		delt = stepp
	}

	var xndt, xnddt, xldot, ft float64
	for {
		if d.irez != resonanceHalfDay {
			xndt = d.del1*math.Sin(ig.xli-fasx2) + d.del2*math.Sin(2*(ig.xli-fasx4)) +
				d.del3*math.Sin(3*(ig.xli-fasx6))
			xldot = ig.xni + d.xfact
			xnddt = d.del1*math.Cos(ig.xli-fasx2) +
				2*d.del2*math.Cos(2*(ig.xli-fasx4)) +
				3*d.del3*math.Cos(3*(ig.xli-fasx6))
			xnddt *= xldot
		} else {
			xomi := argpo + argpdot*ig.atime
			x2omi := xomi + xomi
			x2li := ig.xli + ig.xli
			xndt = d.d2201*math.Sin(x2omi+ig.xli-g22) + d.d2211*math.Sin(ig.xli-g22) +
				d.d3210*math.Sin(xomi+ig.xli-g32) + d.d3222*math.Sin(-xomi+ig.xli-g32) +
				d.d4410*math.Sin(x2omi+x2li-g44) + d.d4422*math.Sin(x2li-g44) +
				d.d5220*math.Sin(xomi+ig.xli-g52) + d.d5232*math.Sin(-xomi+ig.xli-g52) +
				d.d5421*math.Sin(xomi+x2li-g54) + d.d5433*math.Sin(-xomi+x2li-g54)
			xldot = ig.xni + d.xfact
			xnddt = d.d2201*math.Cos(x2omi+ig.xli-g22) + d.d2211*math.Cos(ig.xli-g22) +
				d.d3210*math.Cos(xomi+ig.xli-g32) + d.d3222*math.Cos(-xomi+ig.xli-g32) +
				d.d5220*math.Cos(xomi+ig.xli-g52) + d.d5232*math.Cos(-xomi+ig.xli-g52) +
				2*(d.d4410*math.Cos(x2omi+x2li-g44)+
					d.d4422*math.Cos(x2li-g44)+d.d5421*math.Cos(xomi+x2li-g54)+
					d.d5433*math.Cos(-xomi+x2li-g54))
			xnddt *= xldot
		}

		if math.Abs(t-ig.atime) < stepp {
			ft = t - ig.atime
			break
		}
		ig.xli += xldot*delt + xndt*step2
		ig.xni += xndt*delt + xnddt*step2
		ig.atime += delt
	}

	out.nm = ig.xni + xndt*ft + xnddt*ft*ft*0.5
	xl := ig.xli + xldot*ft + xndt*ft*ft*0.5
	if d.irez != resonanceSynchronous {
		out.mm = xl - 2*out.nodem + 2*theta
	} else {
		out.mm = xl - out.nodem - out.argpm + theta
	}
	out.dndt = out.nm - no
	out.nm = no + out.dndt
	out.ig = ig
	return out
}
