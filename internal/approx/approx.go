// Package approx provides the numeric approximations used by the activation
// and loss catalogs.
package approx

import (
	"math"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
)

// logTerms is the number of odd terms of the atanh series summed by Log.
// After range reduction |s| <= 0.1716, so the first omitted term is below 1e-16.
const logTerms = 10

// Exp approximates e^x with its 4th-order Taylor polynomial around zero:
//
//	1 + x + x²/2 + x³/6 + x⁴/24
//
// The absolute error stays below 1e-2 on [-1, 1]. Outside that interval the
// polynomial diverges from e^x; in particular it grows again for large
// negative x instead of tending to zero. The polynomial has no real roots,
// so its value is always positive (minimum ≈ 0.27 near x = -1.6).
func Exp(x float64) float64 {
	x2 := x * x
	return 1 + x + x2/2 + x2*x/6 + x2*x2/24
}

// Log returns the natural logarithm of x.
//
// x is reduced to m·2^e with m in [√½, √2), and ln m is evaluated with the
// series 2·atanh(s), s = (m-1)/(m+1). The absolute error is below 1e-12 for
// every positive finite x. Non-positive and NaN arguments are a NumericError.
func Log(x float64) (float64, error) {
	switch {
	case math.IsNaN(x):
		return 0, nnerr.Numeric("log", "NaN argument")
	case x <= 0:
		return 0, nnerr.Numeric("log", "non-positive argument %g", x)
	case math.IsInf(x, 1):
		return math.Inf(1), nil
	}

	m, e := math.Frexp(x)
	if m < math.Sqrt2/2 {
		m *= 2
		e--
	}

	s := (m - 1) / (m + 1)
	s2 := s * s
	term := s
	var sum float64
	for k := 0; k < logTerms; k++ {
		sum += term / float64(2*k+1)
		term *= s2
	}

	return float64(e)*math.Ln2 + 2*sum, nil
}
