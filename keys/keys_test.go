package keys

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/crypto/ecc/bjj"
)

func TestGenerateProducesOnCurvePoint(t *testing.T) {
	c := qt.New(t)

	kp, err := Generate(bjj.New())
	c.Assert(err, qt.IsNil)
	c.Assert(kp.PrivateKey.Sign() > 0, qt.IsTrue)

	x, y := kp.PublicKey.Point()
	c.Assert(bjj.OnCurve(x, y), qt.IsTrue)
}

func TestAggregateMatchesScalarSum(t *testing.T) {
	c := qt.New(t)

	curve := bjj.New()

	kp1, err := Generate(curve)
	c.Assert(err, qt.IsNil)
	kp2, err := Generate(curve)
	c.Assert(err, qt.IsNil)
	kp3, err := Generate(curve)
	c.Assert(err, qt.IsNil)

	agg, err := Aggregate(curve, []ecc.Point{kp1.PublicKey, kp2.PublicKey, kp3.PublicKey})
	c.Assert(err, qt.IsNil)

	sum := new(big.Int).Add(kp1.PrivateKey, kp2.PrivateKey)
	sum.Add(sum, kp3.PrivateKey)
	want := curve.New()
	want.SetGenerator()
	want.ScalarMult(want, sum)

	c.Assert(agg.Equal(want), qt.IsTrue)
}

func TestAggregateRejectsOffCurvePoint(t *testing.T) {
	c := qt.New(t)

	curve := bjj.New()
	bogus := curve.New().SetPoint(big.NewInt(7), big.NewInt(11))

	_, err := Aggregate(curve, []ecc.Point{bogus})
	c.Assert(err, qt.ErrorMatches, "keys: invalid public key: player 0")
}
