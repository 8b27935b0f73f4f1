package prover

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// MockProver is a Prover that never touches gnark: Prove returns the same
// fixed placeholder proof whatever the assignment, and Verify accepts any
// non-nil proof. It exists for exercising the shuffle/deal/game
// state machine in tests without compiled circuits or real proving keys,
// mirroring the role NewDebugProver plays for circuit-level tests.
type MockProver struct {
	// VerifyResult, if non-nil, overrides Verify's return value — useful
	// for exercising the ProofFailed path without a real verifier.
	VerifyResult *bool
}

// Prove returns a fixed, non-nil proof. Its contents carry no cryptographic
// meaning; callers exercising only state-machine logic should treat it as
// opaque.
func (m *MockProver) Prove(kind CircuitKind, assignment frontend.Circuit) (*Proof, error) {
	one := big.NewInt(1)
	return &Proof{
		AX: one, AY: one,
		BX0: one, BX1: one,
		BY0: one, BY1: one,
		CX: one, CY: one,
	}, nil
}

// Verify accepts any non-nil proof unless VerifyResult overrides it.
func (m *MockProver) Verify(kind CircuitKind, proof *Proof, publicSignals []*big.Int) (bool, error) {
	if m.VerifyResult != nil {
		return *m.VerifyResult, nil
	}
	return proof != nil, nil
}
