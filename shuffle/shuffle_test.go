package shuffle

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mentalpoker/shuffle-core/crypto/ecc/bjj"
	"github.com/mentalpoker/shuffle-core/deck"
	"github.com/mentalpoker/shuffle-core/keys"
)

func TestValidatePermutation(t *testing.T) {
	c := qt.New(t)

	c.Assert(ValidatePermutation([]int{0, 1, 2, 3}, 4), qt.IsNil)
	c.Assert(ValidatePermutation([]int{0, 1, 2}, 4), qt.ErrorMatches, "shuffle: invalid permutation.*")
	c.Assert(ValidatePermutation([]int{0, 0, 2, 3}, 4), qt.Equals, ErrInvalidPermutation)
	c.Assert(ValidatePermutation([]int{0, 1, 2, 4}, 4), qt.Equals, ErrInvalidPermutation)
}

func TestBuildProducesValidDeckAndSignals(t *testing.T) {
	c := qt.New(t)

	curve := bjj.New()
	kp, err := keys.Generate(curve)
	c.Assert(err, qt.IsNil)

	const n = 4
	u, err := deck.InitialDeck(n)
	c.Assert(err, qt.IsNil)

	perm := []int{2, 0, 3, 1}
	r := make([]*big.Int, n)
	for i := range r {
		r[i] = big.NewInt(int64(1000 + i))
	}

	v, witness, signals, err := Build(curve, kp.PublicKey, big.NewInt(42), u, perm, r)
	c.Assert(err, qt.IsNil)
	c.Assert(v.N(), qt.Equals, n)
	c.Assert(witness.A, qt.DeepEquals, perm)

	flat := signals.Flatten()
	c.Assert(len(flat), qt.Equals, 7+4*n)
	c.Assert(signals.Nonce.Int64(), qt.Equals, int64(42))
}

func TestBuildRejectsMismatchedRandomnessLength(t *testing.T) {
	c := qt.New(t)

	curve := bjj.New()
	kp, err := keys.Generate(curve)
	c.Assert(err, qt.IsNil)

	u, err := deck.InitialDeck(4)
	c.Assert(err, qt.IsNil)

	_, _, _, err = Build(curve, kp.PublicKey, big.NewInt(1), u, []int{0, 1, 2, 3}, []*big.Int{big.NewInt(1)})
	c.Assert(err, qt.ErrorMatches, "shuffle: randomness vector length.*")
}
