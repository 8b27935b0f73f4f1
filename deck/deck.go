// Package deck implements the ElGamal codec described by the protocol's
// deck-compression scheme: cards are curve points, stored compressed as an
// x-coordinate plus a single sign bit so a deck of N cards costs roughly
// half the storage of raw (x, y) pairs.
package deck

import (
	"fmt"
	"math/big"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/crypto/field"
)

// ErrIllFormedDelta is returned when a claimed delta exceeds (Q-1)/2 or does
// not correspond to an on-curve y for the given x.
var ErrIllFormedDelta = fmt.Errorf("deck: ill-formed delta")

// ErrIllFormedSelector is returned when a selector bit cannot be reconciled
// against the decompressed delta.
var ErrIllFormedSelector = fmt.Errorf("deck: ill-formed selector")

// ErrCardNotFound is returned by Search when a recovered point does not
// match any slot of the initial deck table.
var ErrCardNotFound = fmt.Errorf("deck: card not found in initial deck table")

// halfQ is (Q-1)/2, the threshold that splits the two y roots of a given x
// into a canonical "low" delta and its negation.
var halfQ = new(big.Int).Rsh(new(big.Int).Sub(field.Q, big.NewInt(1)), 1)

// CompressedDeck is the on-store representation of a shuffled/dealt deck:
// per-slot x-coordinates plus two N-bit selector vectors that recover each
// slot's y sign. Selector0 carries X0's sign bits, Selector1 carries X1's,
// bit i corresponding to slot i.
type CompressedDeck struct {
	X0        []*big.Int
	X1        []*big.Int
	Selector0 *big.Int
	Selector1 *big.Int
}

// N reports the number of card slots in the deck.
func (d *CompressedDeck) N() int { return len(d.X0) }

// selectorBit reads bit i of a selector bitvector.
func selectorBit(selector *big.Int, i int) uint {
	return selector.Bit(i)
}

// setSelectorBit returns a new bitvector with bit i of selector set to v.
func setSelectorBit(selector *big.Int, i int, v uint) *big.Int {
	r := new(big.Int).Set(selector)
	if v == 1 {
		r.SetBit(r, i, 1)
	} else {
		r.SetBit(r, i, 0)
	}
	return r
}

// DecompressEC recovers y from x and a claimed canonical delta plus a
// selector bit: delta must be the "low" root (delta <= (Q-1)/2) and
// (x, delta) must lie on the curve. The returned y is delta when sel==1,
// Q-delta otherwise.
func DecompressEC(x, delta *big.Int, sel uint) (*big.Int, error) {
	if delta.Cmp(halfQ) > 0 {
		return nil, ErrIllFormedDelta
	}
	if !field.OnCurve(x, delta) {
		return nil, ErrIllFormedDelta
	}
	if sel != 0 && sel != 1 {
		return nil, ErrIllFormedSelector
	}
	if sel == 1 {
		return new(big.Int).Set(delta), nil
	}
	return field.SubMod(field.Q, delta, field.Q), nil
}

// DecompressCard decompresses slot i of a compressed deck into its two
// curve points, using deltaPair for the (X0, X1) canonical y roots.
func DecompressCard(d *CompressedDeck, i int, delta0, delta1 *big.Int) (y0, y1 *big.Int, err error) {
	flag0 := selectorBit(d.Selector0, i)
	flag1 := selectorBit(d.Selector1, i)
	y0, err = DecompressEC(d.X0[i], delta0, flag0)
	if err != nil {
		return nil, nil, fmt.Errorf("slot %d X0: %w", i, err)
	}
	y1, err = DecompressEC(d.X1[i], delta1, flag1)
	if err != nil {
		return nil, nil, fmt.Errorf("slot %d X1: %w", i, err)
	}
	return y0, y1, nil
}

// ECXToDelta recovers the canonical (low-root) y for a given x, i.e. the
// value a client must supply as delta the first time a card is dealt.
func ECXToDelta(x *big.Int) (*big.Int, error) {
	y, err := field.YFromX(x)
	if err != nil {
		return nil, ErrIllFormedDelta
	}
	if y.Cmp(halfQ) > 0 {
		y = field.SubMod(field.Q, y, field.Q)
	}
	return y, nil
}

// signBit returns 1 if y is the canonical ("low") root, 0 otherwise —
// the inverse operation of DecompressEC's sel parameter.
func signBit(y *big.Int) uint {
	if y.Cmp(halfQ) <= 0 {
		return 1
	}
	return 0
}

// Compress packs a full (X0, Y0, X1, Y1) deck into its compressed form.
func Compress(x0, y0, x1, y1 []*big.Int) (*CompressedDeck, error) {
	n := len(x0)
	if len(y0) != n || len(x1) != n || len(y1) != n {
		return nil, fmt.Errorf("deck: mismatched slot counts")
	}
	sel0 := big.NewInt(0)
	sel1 := big.NewInt(0)
	for i := 0; i < n; i++ {
		sel0 = setSelectorBit(sel0, i, signBit(y0[i]))
		sel1 = setSelectorBit(sel1, i, signBit(y1[i]))
	}
	return &CompressedDeck{
		X0:        x0,
		X1:        x1,
		Selector0: sel0,
		Selector1: sel1,
	}, nil
}

// CardPoint materializes a slot's (X0, Y0) and (X1, Y1) curve points using
// the supplied curve implementation.
func CardPoint(curve ecc.Point, x, y *big.Int) ecc.Point {
	return curve.SetPoint(x, y)
}

// Search maps a recovered (x, y) curve point back to its slot index in the
// initial deck table, as required by the deal flow's final recipient step.
func Search(table *CompressedDeck, x, y *big.Int) (int, error) {
	for i := 0; i < table.N(); i++ {
		if table.X1[i].Cmp(x) == 0 {
			flag1 := selectorBit(table.Selector1, i)
			delta, err := ECXToDelta(x)
			if err != nil {
				continue
			}
			want, err := DecompressEC(x, delta, flag1)
			if err != nil {
				continue
			}
			if want.Cmp(y) == 0 {
				return i, nil
			}
		}
	}
	return -1, ErrCardNotFound
}
