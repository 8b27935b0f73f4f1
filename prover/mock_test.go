package prover

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestMockProverProvesAndVerifies(t *testing.T) {
	c := qt.New(t)

	m := &MockProver{}
	proof, err := m.Prove(CircuitShuffle, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(proof, qt.Not(qt.IsNil))
	c.Assert(len(proof.Flatten()), qt.Equals, 8)

	ok, err := m.Verify(CircuitShuffle, proof, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
}

func TestMockProverVerifyOverride(t *testing.T) {
	c := qt.New(t)

	rejected := false
	m := &MockProver{VerifyResult: &rejected}
	ok, err := m.Verify(CircuitDeal, &Proof{}, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
}
