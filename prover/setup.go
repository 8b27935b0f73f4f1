package prover

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
)

// Setup runs the trusted Groth16 setup for a compiled circuit, producing
// its proving and verifying keys.
func Setup(ccs constraint.ConstraintSystem) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	return groth16.Setup(ccs)
}

// NewProvingKey instantiates an empty proving key for the given curve, e.g.
// to Deserialize a key read from disk into.
func NewProvingKey(curve ecc.ID) groth16.ProvingKey {
	return groth16.NewProvingKey(curve)
}
