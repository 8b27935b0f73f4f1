// Package prover wraps the Groth16 proof system (gnark/gnark-crypto) behind
// the narrow Prove/Verify boundary the rest of this module treats as a
// trusted external collaborator: the shuffle and deal witness builders
// hand it a constraint system, a proving key, and an assignment, and get
// back an opaque wire-format proof; the game state machine hands it a
// verifying key, a proof, and public signals, and gets back a boolean.
package prover

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"github.com/mentalpoker/shuffle-core/log"
	"github.com/mentalpoker/shuffle-core/types"
)

// ErrProofFailed is returned by the game state machine's operations when
// Verify rejects a proof; Verify itself reports a rejection as (false, nil).
var ErrProofFailed = fmt.Errorf("prover: proof verification failed")

// CircuitKind names which of the module's two circuits an Artifacts bundle
// or proof belongs to.
type CircuitKind string

const (
	CircuitShuffle CircuitKind = "shuffle"
	CircuitDeal    CircuitKind = "deal"
)

// Proof is the wire format a Groth16 proof is packed into: (a in G1, b in
// G2, c in G1) flattened to 8 field-element scalars, matching the
// state-machine's on-store proof encoding.
type Proof struct {
	AX, AY         *big.Int
	BX0, BX1       *big.Int
	BY0, BY1       *big.Int
	CX, CY         *big.Int
}

// Flatten returns the proof as the ordered [a.x, a.y, b.x0, b.x1, b.y0,
// b.y1, c.x, c.y] scalar vector.
func (p *Proof) Flatten() []*big.Int {
	return []*big.Int{p.AX, p.AY, p.BX0, p.BX1, p.BY0, p.BY1, p.CX, p.CY}
}

// Artifacts bundles the compiled circuit and its proving/verifying keys
// for one circuit kind. Populating these from downloaded proving artifacts
// is explicitly out of scope for this module; callers construct an
// Artifacts value however their deployment sources keys from.
type Artifacts struct {
	ConstraintSystem constraint.ConstraintSystem
	ProvingKey       groth16.ProvingKey
	VerifyingKey     groth16.VerifyingKey
}

// Prover is the trusted prove/verify collaborator boundary. Implementations
// are not expected to validate the semantic correctness of a witness —
// that is the circuit's job — only to run the proof system.
type Prover interface {
	Prove(kind CircuitKind, assignment frontend.Circuit) (*Proof, error)
	Verify(kind CircuitKind, proof *Proof, publicSignals []*big.Int) (bool, error)
}

// Groth16Prover is the production Prover backed by gnark's groth16 backend.
type Groth16Prover struct {
	curve     ecc.ID
	artifacts map[CircuitKind]Artifacts
	proveFn   types.ProverFunc
}

// NewGroth16Prover builds a Prover over the given curve and per-circuit
// artifacts. Every CircuitKind the caller intends to Prove or Verify must
// have an entry in artifacts. Proving runs through DefaultProver; use
// WithProverFunc to swap in an accelerated backend.
func NewGroth16Prover(curve ecc.ID, artifacts map[CircuitKind]Artifacts) *Groth16Prover {
	return &Groth16Prover{curve: curve, artifacts: artifacts, proveFn: DefaultProver}
}

// WithProverFunc overrides the proving backend, e.g. to route proof
// generation through a GPU-accelerated or remote prover.
func (p *Groth16Prover) WithProverFunc(fn types.ProverFunc) *Groth16Prover {
	p.proveFn = fn
	return p
}

// Prove runs the configured ProverFunc for the named circuit against
// assignment, returning the proof packed into this module's wire format.
func (p *Groth16Prover) Prove(kind CircuitKind, assignment frontend.Circuit) (*Proof, error) {
	art, ok := p.artifacts[kind]
	if !ok {
		return nil, fmt.Errorf("prover: no artifacts registered for circuit %q", kind)
	}

	log.Debugw("proving circuit", "circuit", string(kind))
	proof, err := p.proveFn(p.curve, art.ConstraintSystem, art.ProvingKey, assignment)
	if err != nil {
		return nil, fmt.Errorf("prover: groth16 prove: %w", err)
	}

	return packProof(proof)
}

// Verify runs groth16.Verify for the named circuit.
func (p *Groth16Prover) Verify(kind CircuitKind, proof *Proof, publicSignals []*big.Int) (bool, error) {
	art, ok := p.artifacts[kind]
	if !ok {
		return false, fmt.Errorf("prover: no artifacts registered for circuit %q", kind)
	}

	gProof, err := unpackProof(proof)
	if err != nil {
		return false, fmt.Errorf("prover: unpack proof: %w", err)
	}

	pubWitness, err := publicWitnessFromSignals(p.curve, publicSignals)
	if err != nil {
		return false, fmt.Errorf("prover: build public witness: %w", err)
	}

	if err := groth16.Verify(gProof, art.VerifyingKey, pubWitness); err != nil {
		log.Debugw("proof rejected", "circuit", string(kind), "err", err.Error())
		return false, nil
	}
	return true, nil
}

// packProof flattens a bn254 groth16 proof into this module's 8-scalar
// wire format.
func packProof(proof groth16.Proof) (*Proof, error) {
	g, ok := proof.(*groth16bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("prover: unexpected proof type %T", proof)
	}
	return &Proof{
		AX:  g.Ar.X.BigInt(new(big.Int)),
		AY:  g.Ar.Y.BigInt(new(big.Int)),
		BX0: g.Bs.X.A0.BigInt(new(big.Int)),
		BX1: g.Bs.X.A1.BigInt(new(big.Int)),
		BY0: g.Bs.Y.A0.BigInt(new(big.Int)),
		BY1: g.Bs.Y.A1.BigInt(new(big.Int)),
		CX:  g.Krs.X.BigInt(new(big.Int)),
		CY:  g.Krs.Y.BigInt(new(big.Int)),
	}, nil
}

// unpackProof reconstructs a bn254 groth16 proof from its wire format.
func unpackProof(p *Proof) (groth16.Proof, error) {
	g := new(groth16bn254.Proof)
	g.Ar.X.SetBigInt(p.AX)
	g.Ar.Y.SetBigInt(p.AY)
	g.Bs.X.A0.SetBigInt(p.BX0)
	g.Bs.X.A1.SetBigInt(p.BX1)
	g.Bs.Y.A0.SetBigInt(p.BY0)
	g.Bs.Y.A1.SetBigInt(p.BY1)
	g.Krs.X.SetBigInt(p.CX)
	g.Krs.Y.SetBigInt(p.CY)
	return g, nil
}

// publicSignalsAssignment is a bare frontend.Circuit used only to shape a
// public-only witness from a flat scalar vector; it carries no constraints
// of its own — constraint checking belongs to the real circuit definition
// this module's proving/verifying keys were generated against.
type publicSignalsAssignment struct {
	Signals []frontend.Variable `gnark:",public"`
}

func (c *publicSignalsAssignment) Define(_ frontend.API) error { return nil }

func publicWitnessFromSignals(curve ecc.ID, signals []*big.Int) (witness.Witness, error) {
	vars := make([]frontend.Variable, len(signals))
	for i, s := range signals {
		vars[i] = s
	}
	return frontend.NewWitness(&publicSignalsAssignment{Signals: vars}, curve.ScalarField(), frontend.PublicOnly())
}
