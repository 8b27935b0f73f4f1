package deal

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/crypto/ecc/bjj"
	"github.com/mentalpoker/shuffle-core/deck"
	"github.com/mentalpoker/shuffle-core/keys"
)

func TestDealRoundTrip(t *testing.T) {
	c := qt.New(t)

	curve := bjj.New()
	const n = 3
	const cardSlot = 1

	players := make([]*keys.KeyPair, n)
	for i := range players {
		kp, err := keys.Generate(curve)
		c.Assert(err, qt.IsNil)
		players[i] = kp
	}
	pks := make([]ecc.Point, n)
	for i, p := range players {
		pks[i] = p.PublicKey
	}
	aggPk, err := keys.Aggregate(curve, pks)
	c.Assert(err, qt.IsNil)

	table, err := deck.InitialDeck(4)
	c.Assert(err, qt.IsNil)

	// Encrypt the initial deck's card at cardSlot under the aggregated key,
	// mimicking the state a freshly shuffled deck would be in.
	g := curve.New()
	g.SetGenerator()
	r := big.NewInt(777)
	c0 := curve.New()
	c0.ScalarMult(g, r)
	rPk := curve.New()
	rPk.ScalarMult(aggPk, r)
	m := curve.New().SetPoint(table.X1[cardSlot], mustCardY(c, table, cardSlot))
	c1 := curve.New()
	c1.Add(m, rPk)

	// Every non-recipient player submits a share against c0; the last
	// player is the recipient and recovers the card locally by adding
	// their own share to the others.
	var nonRecipientShares []ecc.Point
	for i := 0; i < n-1; i++ {
		w := BuildShare(curve, c0, players[i].PrivateKey)
		share := curve.New().SetPoint(w.ShareX, w.ShareY)
		nonRecipientShares = append(nonRecipientShares, share)
	}
	own := BuildShare(curve, c0, players[n-1].PrivateKey)
	allShares := append(nonRecipientShares, curve.New().SetPoint(own.ShareX, own.ShareY))
	recovered := RecoverCard(curve, c1, allShares)

	idx, err := ResolveCard(table, recovered)
	c.Assert(err, qt.IsNil)
	c.Assert(idx, qt.Equals, cardSlot)
}

func TestBuildCompressedShareMatchesUncompressedPath(t *testing.T) {
	c := qt.New(t)

	curve := bjj.New()
	kp, err := keys.Generate(curve)
	c.Assert(err, qt.IsNil)

	table, err := deck.InitialDeck(4)
	c.Assert(err, qt.IsNil)

	const slot = 0
	cw, err := BuildCompressedShare(curve, table, slot, kp.PrivateKey, kp.PublicKey)
	c.Assert(err, qt.IsNil)

	c0 := curve.New().SetPoint(cw.X0, cw.Y0)
	uw := BuildShare(curve, c0, kp.PrivateKey)

	c.Assert(cw.ShareX.Cmp(uw.ShareX), qt.Equals, 0)
	c.Assert(cw.ShareY.Cmp(uw.ShareY), qt.Equals, 0)
}

func mustCardY(c *qt.C, table *deck.CompressedDeck, slot int) *big.Int {
	delta0, err := deck.ECXToDelta(table.X0[slot])
	c.Assert(err, qt.IsNil)
	delta1, err := deck.ECXToDelta(table.X1[slot])
	c.Assert(err, qt.IsNil)
	_, y1, err := deck.DecompressCard(table, slot, delta0, delta1)
	c.Assert(err, qt.IsNil)
	return y1
}
