package sgp4

// nutationCoeffs is the IAU 1980 nutation series: multipliers of l, l', F, D, Ω
// followed by dψ, dψ/T, dε, dε/T in units of 1e-5 arcsec.
var nutationCoeffs = [106][9]float64{
	{0, 0, 0, 0, 1, -1719960, -1742, 920250, 89},
	{0, 0, 0, 0, 2, 20620, 2, -8950, 5},
	{-2, 0, 2, 0, 1, 460, 0, -240, 0},
	{2, 0, -2, 0, 0, 110, 0, 0, 0},
	{-2, 0, 2, 0, 2, -30, 0, 10, 0},
	{1, -1, 0, -1, 0, -30, 0, 0, 0},
	{0, -2, 2, -2, 1, -20, 0, 10, 0},
	{2, 0, -2, 0, 1, 10, 0, 0, 0},
	{0, 0, 2, -2, 2, -131870, -16, 57360, -31},
	{0, 1, 0, 0, 0, 14260, -34, 540, -1},
	{0, 1, 2, -2, 2, -5170, 12, 2240, -6},
	{0, -1, 2, -2, 2, 2170, -5, -950, 3},
	{0, 0, 2, -2, 1, 1290, 1, -700, 0},
	{2, 0, 0, -2, 0, 480, 0, 10, 0},
	{0, 0, 2, -2, 0, -220, 0, 0, 0},
	{0, 2, 0, 0, 0, 170, -1, 0, 0},
	{0, 1, 0, 0, 1, -150, 0, 90, 0},
	{0, 2, 2, -2, 2, -160, 1, 70, 0},
	{0, -1, 0, 0, 1, -120, 0, 60, 0},
	{-2, 0, 0, 2, 1, -60, 0, 30, 0},
	{0, -1, 2, -2, 1, -50, 0, 30, 0},
	{2, 0, 0, -2, 1, 40, 0, -20, 0},
	{0, 1, 2, -2, 1, 40, 0, -20, 0},
	{1, 0, 0, -1, 0, -40, 0, 0, 0},
	{2, 1, 0, -2, 0, 10, 0, 0, 0},
	{0, 0, -2, 2, 1, 10, 0, 0, 0},
	{0, 1, -2, 2, 0, -10, 0, 0, 0},
	{0, 1, 0, 0, 2, 10, 0, 0, 0},
	{-1, 0, 0, 1, 1, 10, 0, 0, 0},
	{0, 1, 2, -2, 0, -10, 0, 0, 0},
	{0, 0, 2, 0, 2, -22740, -2, 9770, -5},
	{1, 0, 0, 0, 0, 7120, 1, -70, 0},
	{0, 0, 2, 0, 1, -3860, -4, 2000, 0},
	{1, 0, 2, 0, 2, -3010, 0, 1290, -1},
	{1, 0, 0, -2, 0, -1580, 0, -10, 0},
	{-1, 0, 2, 0, 2, 1230, 0, -530, 0},
	{0, 0, 0, 2, 0, 630, 0, -20, 0},
	{1, 0, 0, 0, 1, 630, 1, -330, 0},
	{-1, 0, 0, 0, 1, -580, -1, 320, 0},
	{-1, 0, 2, 2, 2, -590, 0, 260, 0},
	{1, 0, 2, 0, 1, -510, 0, 270, 0},
	{0, 0, 2, 2, 2, -380, 0, 160, 0},
	{2, 0, 0, 0, 0, 290, 0, -10, 0},
	{1, 0, 2, -2, 2, 290, 0, -120, 0},
	{2, 0, 2, 0, 2, -310, 0, 130, 0},
	{0, 0, 2, 0, 0, 260, 0, -10, 0},
	{-1, 0, 2, 0, 1, 210, 0, -100, 0},
	{-1, 0, 0, 2, 1, 160, 0, -80, 0},
	{1, 0, 0, -2, 1, -130, 0, 70, 0},
	{-1, 0, 2, 2, 1, -100, 0, 50, 0},
	{1, 1, 0, -2, 0, -70, 0, 0, 0},
	{0, 1, 2, 0, 2, 70, 0, -30, 0},
	{0, -1, 2, 0, 2, -70, 0, 30, 0},
	{1, 0, 2, 2, 2, -80, 0, 30, 0},
	{1, 0, 0, 2, 0, 60, 0, 0, 0},
	{2, 0, 2, -2, 2, 60, 0, -30, 0},
	{0, 0, 0, 2, 1, -60, 0, 30, 0},
	{0, 0, 2, 2, 1, -70, 0, 30, 0},
	{1, 0, 2, -2, 1, 60, 0, -30, 0},
	{0, 0, 0, -2, 1, -50, 0, 30, 0},
	{1, -1, 0, 0, 0, 50, 0, 0, 0},
	{2, 0, 2, 0, 1, -50, 0, 30, 0},
	{0, 1, 0, -2, 0, -40, 0, 0, 0},
	{1, 0, -2, 0, 0, 40, 0, 0, 0},
	{0, 0, 0, 1, 0, -40, 0, 0, 0},
	{1, 1, 0, 0, 0, -30, 0, 0, 0},
	{1, 0, 2, 0, 0, 30, 0, 0, 0},
	{1, -1, 2, 0, 2, -30, 0, 10, 0},
	{-1, -1, 2, 2, 2, -30, 0, 10, 0},
	{-2, 0, 0, 0, 1, -20, 0, 10, 0},
	{3, 0, 2, 0, 2, -30, 0, 10, 0},
	{0, -1, 2, 2, 2, -30, 0, 10, 0},
	{1, 1, 2, 0, 2, 20, 0, -10, 0},
	{-1, 0, 2, -2, 1, -20, 0, 10, 0},
	{2, 0, 0, 0, 1, 20, 0, -10, 0},
	{1, 0, 0, 0, 2, -20, 0, 10, 0},
	{3, 0, 0, 0, 0, 20, 0, 0, 0},
	{0, 0, 2, 1, 2, 20, 0, -10, 0},
	{-1, 0, 0, 0, 2, 10, 0, -10, 0},
	{1, 0, 0, -4, 0, -10, 0, 0, 0},
	{-2, 0, 2, 2, 2, 10, 0, -10, 0},
	{-1, 0, 2, 4, 2, -20, 0, 10, 0},
	{2, 0, 0, -4, 0, -10, 0, 0, 0},
	{1, 1, 2, -2, 2, 10, 0, -10, 0},
	{1, 0, 2, 2, 1, -10, 0, 10, 0},
	{-2, 0, 2, 4, 2, -10, 0, 10, 0},
	{-1, 0, 4, 0, 2, 10, 0, 0, 0},
	{1, -1, 0, -2, 0, 10, 0, 0, 0},
	{2, 0, 2, -2, 1, 10, 0, -10, 0},
	{2, 0, 2, 2, 2, -10, 0, 0, 0},
	{1, 0, 0, 2, 1, -10, 0, 0, 0},
	{0, 0, 4, -2, 2, 10, 0, 0, 0},
	{3, 0, 2, -2, 2, 10, 0, 0, 0},
	{1, 0, 2, -2, 0, -10, 0, 0, 0},
	{0, 1, 2, 0, 1, 10, 0, 0, 0},
	{-1, -1, 0, 2, 1, 10, 0, 0, 0},
	{0, 0, -2, 0, 1, -10, 0, 0, 0},
	{0, 0, 2, -1, 2, -10, 0, 0, 0},
	{0, 1, 0, 2, 0, -10, 0, 0, 0},
	{1, 0, -2, -2, 0, -10, 0, 0, 0},
	{0, -1, 2, 0, 1, -10, 0, 0, 0},
	{1, 1, 0, -2, 1, -10, 0, 0, 0},
	{1, 0, -2, 2, 0, -10, 0, 0, 0},
	{2, 0, 0, 2, 0, 10, 0, 0, 0},
	{0, 0, 2, 4, 2, -10, 0, 0, 0},
	{0, 1, 0, 1, 0, 10, 0, 0, 0},
}

// iau80Coeffs is the same series sorted by decreasing amplitude: multipliers of
// l, l', F, D, Ω followed by dψ, dψ/T, dε, dε/T in units of 0.0001 arcsec.
var iau80Coeffs = [106][9]float64{
	{0, 0, 0, 0, 1, -171996, -174.2, 92025, 8.9},
	{0, 0, 2, -2, 2, -13187, -1.6, 5736, -3.1},
	{0, 0, 2, 0, 2, -2274, -0.2, 977, -0.5},
	{0, 0, 0, 0, 2, 2062, 0.2, -895, 0.5},
	{0, 1, 0, 0, 0, 1426, -3.4, 54, -0.1},
	{1, 0, 0, 0, 0, 712, 0.1, -7, 0},
	{0, 1, 2, -2, 2, -517, 1.2, 224, -0.6},
	{0, 0, 2, 0, 1, -386, -0.4, 200, 0},
	{1, 0, 2, 0, 2, -301, 0, 129, -0.1},
	{0, -1, 2, -2, 2, 217, -0.5, -95, 0.3},
	{1, 0, 0, -2, 0, -158, 0, -1, 0},
	{0, 0, 2, -2, 1, 129, 0.1, -70, 0},
	{-1, 0, 2, 0, 2, 123, 0, -53, 0},
	{1, 0, 0, 0, 1, 63, 0.1, -33, 0},
	{0, 0, 0, 2, 0, 63, 0, -2, 0},
	{-1, 0, 2, 2, 2, -59, 0, 26, 0},
	{-1, 0, 0, 0, 1, -58, -0.1, 32, 0},
	{1, 0, 2, 0, 1, -51, 0, 27, 0},
	{2, 0, 0, -2, 0, 48, 0, 1, 0},
	{-2, 0, 2, 0, 1, 46, 0, -24, 0},
	{0, 0, 2, 2, 2, -38, 0, 16, 0},
	{2, 0, 2, 0, 2, -31, 0, 13, 0},
	{2, 0, 0, 0, 0, 29, 0, -1, 0},
	{1, 0, 2, -2, 2, 29, 0, -12, 0},
	{0, 0, 2, 0, 0, 26, 0, -1, 0},
	{0, 0, 2, -2, 0, -22, 0, 0, 0},
	{-1, 0, 2, 0, 1, 21, 0, -10, 0},
	{0, 2, 0, 0, 0, 17, -0.1, 0, 0},
	{0, 2, 2, -2, 2, -16, 0.1, 7, 0},
	{-1, 0, 0, 2, 1, 16, 0, -8, 0},
	{0, 1, 0, 0, 1, -15, 0, 9, 0},
	{1, 0, 0, -2, 1, -13, 0, 7, 0},
	{0, -1, 0, 0, 1, -12, 0, 6, 0},
	{2, 0, -2, 0, 0, 11, 0, 0, 0},
	{-1, 0, 2, 2, 1, -10, 0, 5, 0},
	{1, 0, 2, 2, 2, -8, 0, 3, 0},
	{0, -1, 2, 0, 2, -7, 0, 3, 0},
	{0, 0, 2, 2, 1, -7, 0, 3, 0},
	{1, 1, 0, -2, 0, -7, 0, 0, 0},
	{0, 1, 2, 0, 2, 7, 0, -3, 0},
	{-2, 0, 0, 2, 1, -6, 0, 3, 0},
	{0, 0, 0, 2, 1, -6, 0, 3, 0},
	{2, 0, 2, -2, 2, 6, 0, -3, 0},
	{1, 0, 0, 2, 0, 6, 0, 0, 0},
	{1, 0, 2, -2, 1, 6, 0, -3, 0},
	{0, 0, 0, -2, 1, -5, 0, 3, 0},
	{0, -1, 2, -2, 1, -5, 0, 3, 0},
	{2, 0, 2, 0, 1, -5, 0, 3, 0},
	{1, -1, 0, 0, 0, 5, 0, 0, 0},
	{1, 0, 0, -1, 0, -4, 0, 0, 0},
	{0, 0, 0, 1, 0, -4, 0, 0, 0},
	{0, 1, 0, -2, 0, -4, 0, 0, 0},
	{1, 0, -2, 0, 0, 4, 0, 0, 0},
	{2, 0, 0, -2, 1, 4, 0, -2, 0},
	{0, 1, 2, -2, 1, 4, 0, -2, 0},
	{1, 1, 0, 0, 0, -3, 0, 0, 0},
	{1, -1, 0, -1, 0, -3, 0, 0, 0},
	{-1, -1, 2, 2, 2, -3, 0, 1, 0},
	{0, -1, 2, 2, 2, -3, 0, 1, 0},
	{1, -1, 2, 0, 2, -3, 0, 1, 0},
	{3, 0, 2, 0, 2, -3, 0, 1, 0},
	{-2, 0, 2, 0, 2, -3, 0, 1, 0},
	{1, 0, 2, 0, 0, 3, 0, 0, 0},
	{-1, 0, 2, 4, 2, -2, 0, 1, 0},
	{1, 0, 0, 0, 2, -2, 0, 1, 0},
	{-1, 0, 2, -2, 1, -2, 0, 1, 0},
	{0, -2, 2, -2, 1, -2, 0, 1, 0},
	{-2, 0, 0, 0, 1, -2, 0, 1, 0},
	{2, 0, 0, 0, 1, 2, 0, -1, 0},
	{3, 0, 0, 0, 0, 2, 0, 0, 0},
	{1, 1, 2, 0, 2, 2, 0, -1, 0},
	{0, 0, 2, 1, 2, 2, 0, -1, 0},
	{1, 0, 0, 2, 1, -1, 0, 0, 0},
	{1, 0, 2, 2, 1, -1, 0, 1, 0},
	{1, 1, 0, -2, 1, -1, 0, 0, 0},
	{0, 1, 0, 2, 0, -1, 0, 0, 0},
	{0, 1, 2, -2, 0, -1, 0, 0, 0},
	{0, 1, -2, 2, 0, -1, 0, 0, 0},
	{1, 0, -2, 2, 0, -1, 0, 0, 0},
	{1, 0, -2, -2, 0, -1, 0, 0, 0},
	{1, 0, 2, -2, 0, -1, 0, 0, 0},
	{1, 0, 0, -4, 0, -1, 0, 0, 0},
	{2, 0, 0, -4, 0, -1, 0, 0, 0},
	{0, 0, 2, 4, 2, -1, 0, 0, 0},
	{0, 0, 2, -1, 2, -1, 0, 0, 0},
	{-2, 0, 2, 4, 2, -1, 0, 1, 0},
	{2, 0, 2, 2, 2, -1, 0, 0, 0},
	{0, -1, 2, 0, 1, -1, 0, 0, 0},
	{0, 0, -2, 0, 1, -1, 0, 0, 0},
	{0, 0, 4, -2, 2, 1, 0, 0, 0},
	{0, 1, 0, 0, 2, 1, 0, 0, 0},
	{1, 1, 2, -2, 2, 1, 0, -1, 0},
	{3, 0, 2, -2, 2, 1, 0, 0, 0},
	{-2, 0, 2, 2, 2, 1, 0, -1, 0},
	{-1, 0, 0, 0, 2, 1, 0, -1, 0},
	{0, 0, -2, 2, 1, 1, 0, 0, 0},
	{0, 1, 2, 0, 1, 1, 0, 0, 0},
	{-1, 0, 4, 0, 2, 1, 0, 0, 0},
	{2, 1, 0, -2, 0, 1, 0, 0, 0},
	{2, 0, 0, 2, 0, 1, 0, 0, 0},
	{2, 0, 2, -2, 1, 1, 0, -1, 0},
	{2, 0, -2, 0, 1, 1, 0, 0, 0},
	{1, -1, 0, -2, 0, 1, 0, 0, 0},
	{-1, 0, 0, 1, 1, 1, 0, 0, 0},
	{-1, -1, 0, 2, 1, 1, 0, 0, 0},
	{0, 1, 0, 1, 0, 1, 0, 0, 0},
}
