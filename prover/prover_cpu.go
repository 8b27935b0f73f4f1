package prover

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"github.com/mentalpoker/shuffle-core/types"
)

// DefaultProver is the CPU-backed types.ProverFunc Groth16Prover uses when
// its caller doesn't supply one explicitly.
var DefaultProver types.ProverFunc = CPUProver

// CPUProver builds a full witness from assignment and calls groth16.Prove
// directly; no acceleration, no external process.
func CPUProver(
	curve ecc.ID,
	ccs constraint.ConstraintSystem,
	pk groth16.ProvingKey,
	assignment frontend.Circuit,
	opts ...backend.ProverOption,
) (groth16.Proof, error) {
	w, err := frontend.NewWitness(assignment, curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("prover: build witness: %w", err)
	}
	return groth16.Prove(ccs, pk, w, opts...)
}
