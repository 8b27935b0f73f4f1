// Package ecc defines the curve-agnostic Point interface used by the
// ElGamal codec, the shuffle/deal witness builders, and the game state
// machine. A concrete implementation (crypto/ecc/bjj) wraps the Baby
// Jubjub twisted-Edwards curve; the interface lets the rest of the module
// stay oblivious to which curve library backs a point.
package ecc

import "math/big"

// Point is a group element of a prime-order (sub)group of an elliptic
// curve. All mutating methods store their result in the receiver, mirroring
// the in-place style gnark/iden3 curve libraries use to avoid needless
// allocation inside tight double-and-add loops.
type Point interface {
	// New returns a fresh identity-element point on the same curve.
	New() Point

	// Order returns the order of the curve subgroup.
	Order() *big.Int

	// Add sets the receiver to a + b.
	Add(a, b Point)

	// ScalarMult sets the receiver to scalar * a.
	ScalarMult(a Point, scalar *big.Int)

	// ScalarBaseMult sets the receiver to scalar * G, G the curve generator.
	ScalarBaseMult(scalar *big.Int)

	// Neg sets the receiver to -a.
	Neg(a Point)

	// Set copies a into the receiver.
	Set(a Point)

	// SetZero sets the receiver to the identity element.
	SetZero()

	// SetGenerator sets the receiver to the curve's fixed base point.
	SetGenerator()

	// SetPoint sets (and returns) a point with the given affine coordinates.
	// The caller is responsible for having checked OnCurve first if the
	// coordinates are untrusted.
	SetPoint(x, y *big.Int) Point

	// Equal reports whether the receiver and a represent the same point.
	Equal(a Point) bool

	// Point returns the affine (x, y) coordinates.
	Point() (x, y *big.Int)

	// Marshal returns a compressed byte encoding of the point.
	Marshal() []byte

	// Unmarshal decompresses buf into the receiver.
	Unmarshal(buf []byte) error

	// Type identifies the concrete curve implementation, e.g. "bjj".
	Type() string
}

// OnCurve reports whether (x, y) satisfies the curve equation of the given
// point's curve. It does so by attempting to construct a point at (x, y)
// and checking that Marshal/Unmarshal round-trips agree — concrete curve
// packages are expected to provide a cheaper direct check via their own
// exported OnCurve function; this is the generic fallback used by code that
// only has a Point value, not a concrete type.
func OnCurve(p Point, x, y *big.Int) bool {
	candidate := p.New().SetPoint(x, y)
	decoded := p.New()
	if err := decoded.Unmarshal(candidate.Marshal()); err != nil {
		return false
	}
	return decoded.Equal(candidate)
}
