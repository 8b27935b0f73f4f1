// Package deal builds the witnesses for per-card decryption: the
// compressed-path witness used by the first player to decrypt a given
// card, the uncompressed-path witness used by every subsequent decryptor,
// and the recipient-side recovery that turns accumulated shares back into
// a card index.
package deal

import (
	"fmt"
	"math/big"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/deck"
)

// ErrDoubleDeal is returned when a player's bit is already set in a card's
// decryption record.
var ErrDoubleDeal = fmt.Errorf("deal: player already submitted a share for this card")

// CompressedWitness is the witness for the first player to decrypt card i:
// the deck still holds only compressed (X0, X1, Selector0, Selector1)
// data, so the circuit must decompress both y-coordinates itself.
type CompressedWitness struct {
	X0, Y0     *big.Int
	X1, Y1     *big.Int
	Delta0     *big.Int
	Delta1     *big.Int
	ShareX     *big.Int
	ShareY     *big.Int
	PlayerSkPk ecc.Point // player's public key, included for the share = sk*c0 relation
}

// PrepareDecryptData decompresses slot i of the deck, returning the (X0,
// Y0, X1, Y1) card-point coordinates and the canonical deltas the circuit
// re-verifies decompression against. This is prepare_decrypt_data.
func PrepareDecryptData(d *deck.CompressedDeck, i int) (x0, y0, x1, y1, delta0, delta1 *big.Int, err error) {
	delta0, err = deck.ECXToDelta(d.X0[i])
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("deal: prepare slot %d: %w", i, err)
	}
	delta1, err = deck.ECXToDelta(d.X1[i])
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("deal: prepare slot %d: %w", i, err)
	}
	y0, y1, err = deck.DecompressCard(d, i, delta0, delta1)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("deal: prepare slot %d: %w", i, err)
	}
	return d.X0[i], y0, d.X1[i], y1, delta0, delta1, nil
}

// BuildCompressedShare produces the witness for the first decryptor of
// card i: it decompresses the compressed deck entry, computes the
// player's share = sk·c0, and returns the share point plus the deltas the
// verifier re-checks decompression against.
func BuildCompressedShare(curve ecc.Point, d *deck.CompressedDeck, i int, sk *big.Int, pk ecc.Point) (*CompressedWitness, error) {
	x0, y0, x1, y1, delta0, delta1, err := PrepareDecryptData(d, i)
	if err != nil {
		return nil, err
	}
	c0 := curve.New().SetPoint(x0, y0)
	share := curve.New()
	share.ScalarMult(c0, sk)
	shareX, shareY := share.Point()

	return &CompressedWitness{
		X0: x0, Y0: y0,
		X1: x1, Y1: y1,
		Delta0: delta0, Delta1: delta1,
		ShareX: shareX, ShareY: shareY,
		PlayerSkPk: pk,
	}, nil
}

// UncompressedWitness is the witness for subsequent decryptors of a card
// whose deck entry has already been recompressed with explicit Y0, Y1 by
// an earlier share submission.
type UncompressedWitness struct {
	X0, Y0 *big.Int
	X1, Y1 *big.Int
	ShareX *big.Int
	ShareY *big.Int
}

// BuildShare produces the witness for a non-first decryptor: given the
// card's explicit c0 point, prove share = sk·c0.
func BuildShare(curve ecc.Point, c0 ecc.Point, sk *big.Int) *UncompressedWitness {
	x0, y0 := c0.Point()
	share := curve.New()
	share.ScalarMult(c0, sk)
	shareX, shareY := share.Point()
	return &UncompressedWitness{
		X0: x0, Y0: y0,
		ShareX: shareX, ShareY: shareY,
	}
}

// RecoverCard computes the recipient's final step: subtracting every
// given share from c1 to recover the card's encoded plaintext point,
// M = c1 - Σ shares. shares must hold every player's share, the
// recipient's own included, since c1 is encrypted under the aggregated key.
func RecoverCard(curve ecc.Point, c1 ecc.Point, shares []ecc.Point) ecc.Point {
	m := curve.New()
	m.Set(c1)
	for _, s := range shares {
		neg := curve.New()
		neg.Neg(s)
		m.Add(m, neg)
	}
	return m
}

// ResolveCard recovers the card's slot index by searching the initial deck
// table for the recovered plaintext point's (x, y) coordinates.
func ResolveCard(table *deck.CompressedDeck, m ecc.Point) (int, error) {
	x, y := m.Point()
	return deck.Search(table, x, y)
}
