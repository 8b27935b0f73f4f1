// Package shuffle builds the witness and public-signals layout for a
// shuffle turn: permuting and re-randomizing an ElGamal-encrypted deck so
// the resulting ciphertexts are unlinkable to their inputs while decrypting
// to the same underlying cards, and packaging the data the Groth16 circuit
// needs to prove the transformation was done correctly.
package shuffle

import (
	"fmt"
	"math/big"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/deck"
)

// ErrInvalidPermutation is returned when A is not a permutation of [0, N).
var ErrInvalidPermutation = fmt.Errorf("shuffle: invalid permutation")

// Witness holds every value the prover needs to produce a shuffle proof.
// Field names mirror the circuit's input signal names so the mapping from
// struct to witness assignment is mechanical.
type Witness struct {
	PkAggX, PkAggY *big.Int
	A              []int
	R              []*big.Int
	UX0, UX1       []*big.Int
	UDelta0        []*big.Int
	UDelta1        []*big.Int
	SU0, SU1       *big.Int
	VX0, VX1       []*big.Int
	VDelta0        []*big.Int
	VDelta1        []*big.Int
	SV0, SV1       *big.Int
}

// PublicSignals is the flattened public-input vector a verifier checks a
// shuffle proof against, laid out exactly as:
//
//	[0..3)      : nonce, pk_agg.x, pk_agg.y
//	[3..3+N)    : UX0
//	[3+N..3+2N) : UX1
//	[3+2N..3+3N): VX0
//	[3+3N..3+4N): VX1
//	[3+4N..5+4N): s_u.{0,1}
//	[5+4N..7+4N): s_v.{0,1}
type PublicSignals struct {
	Nonce          *big.Int
	PkAggX, PkAggY *big.Int
	UX0, UX1       []*big.Int
	VX0, VX1       []*big.Int
	SU0, SU1       *big.Int
	SV0, SV1       *big.Int
}

// Flatten returns the public signals as a single ordered slice, matching
// the circuit's public-input vector layout bit-exactly.
func (s *PublicSignals) Flatten() []*big.Int {
	out := make([]*big.Int, 0, 7+4*len(s.UX0))
	out = append(out, s.Nonce, s.PkAggX, s.PkAggY)
	out = append(out, s.UX0...)
	out = append(out, s.UX1...)
	out = append(out, s.VX0...)
	out = append(out, s.VX1...)
	out = append(out, s.SU0, s.SU1)
	out = append(out, s.SV0, s.SV1)
	return out
}

// ValidatePermutation checks that A contains exactly the integers
// [0, n) each exactly once.
func ValidatePermutation(a []int, n int) error {
	if len(a) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidPermutation, len(a), n)
	}
	seen := make([]bool, n)
	for _, v := range a {
		if v < 0 || v >= n || seen[v] {
			return ErrInvalidPermutation
		}
		seen[v] = true
	}
	return nil
}

// Build permutes and re-randomizes the input deck U under permutation A and
// randomness R, producing the output deck V, the full witness, and the
// public signals a prover/verifier pair operate on. curve.New() is used
// to allocate every intermediate point so the implementation stays
// oblivious to which concrete ecc.Point backs it.
func Build(curve ecc.Point, pkAgg ecc.Point, nonce *big.Int, u *deck.CompressedDeck, a []int, r []*big.Int) (*deck.CompressedDeck, *Witness, *PublicSignals, error) {
	n := u.N()
	if err := ValidatePermutation(a, n); err != nil {
		return nil, nil, nil, err
	}
	if len(r) != n {
		return nil, nil, nil, fmt.Errorf("shuffle: randomness vector length %d, want %d", len(r), n)
	}

	uDelta0 := make([]*big.Int, n)
	uDelta1 := make([]*big.Int, n)
	uY0 := make([]*big.Int, n)
	uY1 := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		d0, err := deck.ECXToDelta(u.X0[i])
		if err != nil {
			return nil, nil, nil, fmt.Errorf("shuffle: preprocess slot %d: %w", i, err)
		}
		d1, err := deck.ECXToDelta(u.X1[i])
		if err != nil {
			return nil, nil, nil, fmt.Errorf("shuffle: preprocess slot %d: %w", i, err)
		}
		y0, y1, err := deck.DecompressCard(u, i, d0, d1)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("shuffle: decompress slot %d: %w", i, err)
		}
		uDelta0[i], uDelta1[i] = d0, d1
		uY0[i], uY1[i] = y0, y1
	}

	vX0 := make([]*big.Int, n)
	vX1 := make([]*big.Int, n)
	vY0 := make([]*big.Int, n)
	vY1 := make([]*big.Int, n)

	g := curve.New()
	g.SetGenerator()

	for j := 0; j < n; j++ {
		i := a[j]
		rj := r[j]

		uC0 := curve.New().SetPoint(u.X0[i], uY0[i])
		uC1 := curve.New().SetPoint(u.X1[i], uY1[i])

		rG := curve.New()
		rG.ScalarMult(g, rj)
		vC0 := curve.New()
		vC0.Add(uC0, rG)

		rPk := curve.New()
		rPk.ScalarMult(pkAgg, rj)
		vC1 := curve.New()
		vC1.Add(uC1, rPk)

		x0, y0 := vC0.Point()
		x1, y1 := vC1.Point()
		vX0[j], vY0[j] = x0, y0
		vX1[j], vY1[j] = x1, y1
	}

	v, err := deck.Compress(vX0, vY0, vX1, vY1)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("shuffle: recompress: %w", err)
	}

	vDelta0 := make([]*big.Int, n)
	vDelta1 := make([]*big.Int, n)
	for j := 0; j < n; j++ {
		vDelta0[j], err = deck.ECXToDelta(vX0[j])
		if err != nil {
			return nil, nil, nil, fmt.Errorf("shuffle: recompress delta slot %d: %w", j, err)
		}
		vDelta1[j], err = deck.ECXToDelta(vX1[j])
		if err != nil {
			return nil, nil, nil, fmt.Errorf("shuffle: recompress delta slot %d: %w", j, err)
		}
	}

	pkX, pkY := pkAgg.Point()

	witness := &Witness{
		PkAggX: pkX, PkAggY: pkY,
		A: a, R: r,
		UX0: u.X0, UX1: u.X1,
		UDelta0: uDelta0, UDelta1: uDelta1,
		SU0: u.Selector0, SU1: u.Selector1,
		VX0: vX0, VX1: vX1,
		VDelta0: vDelta0, VDelta1: vDelta1,
		SV0: v.Selector0, SV1: v.Selector1,
	}
	signals := &PublicSignals{
		Nonce:  nonce,
		PkAggX: pkX, PkAggY: pkY,
		UX0: u.X0, UX1: u.X1,
		VX0: vX0, VX1: vX1,
		SU0: u.Selector0, SU1: u.Selector1,
		SV0: v.Selector0, SV1: v.Selector1,
	}

	return v, witness, signals, nil
}
