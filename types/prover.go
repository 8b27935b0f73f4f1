package types

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
)

// ProverFunc is the signature of a pluggable Groth16 proving backend: given
// a compiled circuit, a proving key, and an assignment, produce a proof.
// prover.Groth16Prover defaults to the CPU implementation but accepts any
// ProverFunc, so a deployment can swap in a GPU-accelerated one without
// touching the Prove/Verify call sites.
type ProverFunc func(
	curve ecc.ID,
	ccs constraint.ConstraintSystem,
	pk groth16.ProvingKey,
	assignment frontend.Circuit,
	opts ...backend.ProverOption,
) (groth16.Proof, error)
