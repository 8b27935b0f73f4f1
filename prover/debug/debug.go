// Package debug provides a types.ProverFunc that checks a circuit solves
// before running the real proof, for use in tests against whatever concrete
// shuffle/deal circuit a deployment compiles.
package debug

import (
	"fmt"
	"testing"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"

	"github.com/mentalpoker/shuffle-core/types"
)

// NewDebugProver returns a types.ProverFunc that first runs the circuit
// solver against assignment using placeholder as the circuit shape, failing
// t immediately if the witness doesn't satisfy the constraint system, before
// falling through to a normal groth16.Prove. placeholder must be the same
// concrete type as every assignment this ProverFunc is later called with.
func NewDebugProver(t *testing.T, placeholder frontend.Circuit) types.ProverFunc {
	return func(
		curve ecc.ID,
		ccs constraint.ConstraintSystem,
		pk groth16.ProvingKey,
		assignment frontend.Circuit,
		opts ...backend.ProverOption,
	) (groth16.Proof, error) {
		assert := test.NewAssert(t)
		start := time.Now()
		assert.SolvingSucceeded(placeholder, assignment,
			test.WithCurves(curve),
			test.WithBackends(backend.GROTH16),
			test.WithProverOpts(opts...),
		)
		t.Logf("debug prover: solving succeeded for %T, took %s", assignment, time.Since(start))

		witness, err := frontend.NewWitness(assignment, curve.ScalarField())
		if err != nil {
			return nil, fmt.Errorf("debug prover: build witness: %w", err)
		}
		return groth16.Prove(ccs, pk, witness, opts...)
	}
}
