// Package keys implements per-player ElGamal key generation and the
// left-fold aggregation that produces a game's shared public key once its
// player set is fixed.
package keys

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/crypto/field"
)

// ErrInvalidPublicKey is returned when a submitted public key fails the
// on-curve check during aggregation.
var ErrInvalidPublicKey = fmt.Errorf("keys: invalid public key")

// KeyPair is a player's ElGamal encryption key pair.
type KeyPair struct {
	PublicKey  ecc.Point
	PrivateKey *big.Int
}

// Generate produces a fresh key pair on the given curve: a uniformly random
// scalar in [1, order) and its corresponding public point d*G.
func Generate(curve ecc.Point) (*KeyPair, error) {
	order := curve.Order()
	d, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, fmt.Errorf("keys: generate private scalar: %w", err)
	}
	if d.Sign() == 0 {
		d = big.NewInt(1)
	}
	pub := curve.New()
	pub.SetGenerator()
	pub.ScalarMult(pub, d)
	return &KeyPair{PublicKey: pub, PrivateKey: d}, nil
}

// Aggregate left-folds a set of per-player public keys into the game's
// shared aggregated public key via repeated point_add, rejecting any key
// that is not on the curve.
func Aggregate(curve ecc.Point, pks []ecc.Point) (ecc.Point, error) {
	if len(pks) == 0 {
		return nil, fmt.Errorf("keys: aggregate: empty key set")
	}
	agg := curve.New()
	agg.SetZero()
	for i, pk := range pks {
		x, y := pk.Point()
		if !field.OnCurve(x, y) {
			return nil, fmt.Errorf("%w: player %d", ErrInvalidPublicKey, i)
		}
		agg.Add(agg, pk)
	}
	return agg, nil
}
