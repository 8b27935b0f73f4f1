// Package field implements the modular arithmetic and twisted-Edwards
// curve formulas that back the Baby Jubjub point operations used
// throughout the shuffle/deal protocol. The formulas here are written to
// match the circuit's arithmetic bit-exactly, since the shuffle witness
// and the Groth16 circuit must agree on every intermediate value.
package field

import (
	"fmt"
	"math/big"
)

// Q is the Baby Jubjub base field prime (also the BN254 scalar field).
var Q, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

// A and D are the twisted-Edwards curve coefficients:
// A*x^2 + y^2 = 1 + D*x^2*y^2 (mod Q).
var (
	A = big.NewInt(168700)
	D = big.NewInt(168696)
)

// ErrNotOnCurve is returned when a point fails the curve equation check.
var ErrNotOnCurve = fmt.Errorf("point is not on the Baby Jubjub curve")

// ErrInvalidScalar is returned when a scalar is outside the accepted range.
var ErrInvalidScalar = fmt.Errorf("scalar is out of range for the curve's scalar field")

// SubMod computes (a - b) mod m. The result is in [0, m) even when a < b,
// since big.Int.Mod is Euclidean.
func SubMod(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	r.Mod(r, m)
	return r
}

// Inverse returns a^-1 mod Q via Fermat's little theorem (a^(Q-2) mod Q).
// a must be non-zero mod Q.
func Inverse(a *big.Int) *big.Int {
	exp := new(big.Int).Sub(Q, big.NewInt(2))
	return new(big.Int).Exp(a, exp, Q)
}

// OnCurve checks the twisted-Edwards equation A*x^2 + y^2 = 1 + D*x^2*y^2 (mod Q).
func OnCurve(x, y *big.Int) bool {
	x2 := new(big.Int).Mul(x, x)
	x2.Mod(x2, Q)
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, Q)

	lhs := new(big.Int).Mul(A, x2)
	lhs.Add(lhs, y2)
	lhs.Mod(lhs, Q)

	rhs := new(big.Int).Mul(D, x2)
	rhs.Mul(rhs, y2)
	rhs.Add(rhs, big.NewInt(1))
	rhs.Mod(rhs, Q)

	return lhs.Cmp(rhs) == 0
}

// AddAffine adds two affine twisted-Edwards points and returns the affine
// sum, applying the unified addition formula directly (no projective
// coordinates) so callers can check every intermediate against the circuit.
//
//	x3 = (x1*y2 + y1*x2) / (1 + D*x1*x2*y1*y2)
//	y3 = (y1*y2 - A*x1*x2) / (1 - D*x1*x2*y1*y2)
//
// AddAffine assumes neither input is the sentinel identity (0, 0); callers
// (point_add) special-case that value before reaching here, since it is not
// itself a point on the curve — it is the starting accumulator for folds
// like Σ player_pk_i.
func AddAffine(x1, y1, x2, y2 *big.Int) (x3, y3 *big.Int) {
	x1y2 := new(big.Int).Mul(x1, y2)
	y1x2 := new(big.Int).Mul(y1, x2)
	x1x2 := new(big.Int).Mul(x1, x2)
	y1y2 := new(big.Int).Mul(y1, y2)

	dx1x2y1y2 := new(big.Int).Mul(D, x1x2)
	dx1x2y1y2.Mul(dx1x2y1y2, y1y2)
	dx1x2y1y2.Mod(dx1x2y1y2, Q)

	num3x := new(big.Int).Add(x1y2, y1x2)
	num3x.Mod(num3x, Q)
	den3x := new(big.Int).Add(big.NewInt(1), dx1x2y1y2)
	den3x.Mod(den3x, Q)
	x3 = new(big.Int).Mul(num3x, Inverse(den3x))
	x3.Mod(x3, Q)

	num3y := SubMod(new(big.Int).Mod(y1y2, Q), new(big.Int).Mul(A, x1x2), Q)
	den3y := SubMod(big.NewInt(1), dx1x2y1y2, Q)
	y3 = new(big.Int).Mul(num3y, Inverse(den3y))
	y3.Mod(y3, Q)

	return x3, y3
}

// YFromX recovers a y coordinate of a point given its x coordinate,
// solving y = sqrt((1 - A*x^2) / (1 - D*x^2)) mod Q. Which of the two roots
// is returned is not normalized; deck.ECXToDelta picks the low one.
// Returns an error if x does not correspond to a point on the curve.
func YFromX(x *big.Int) (*big.Int, error) {
	x2 := new(big.Int).Mul(x, x)
	x2.Mod(x2, Q)

	num := SubMod(big.NewInt(1), new(big.Int).Mul(A, x2), Q)
	den := SubMod(big.NewInt(1), new(big.Int).Mul(D, x2), Q)
	if den.Sign() == 0 {
		return nil, ErrNotOnCurve
	}
	radicand := new(big.Int).Mul(num, Inverse(den))
	radicand.Mod(radicand, Q)

	y := new(big.Int).ModSqrt(radicand, Q)
	if y == nil {
		return nil, ErrNotOnCurve
	}
	return y, nil
}

// CheckScalar validates that s is a well-formed scalar for point
// multiplication, i.e. 0 <= s < order.
func CheckScalar(s, order *big.Int) error {
	if s == nil || s.Sign() < 0 || s.Cmp(order) >= 0 {
		return ErrInvalidScalar
	}
	return nil
}
