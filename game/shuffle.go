package game

import (
	"fmt"
	"math/big"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/deck"
	"github.com/mentalpoker/shuffle-core/prover"
	"github.com/mentalpoker/shuffle-core/shuffle"
)

// Shuffle applies one player's shuffle turn: it verifies the submitted
// Groth16 proof against the current deck and the claimed new deck, then (on
// success) replaces the deck and advances turn. On verifier rejection the
// game moves to GameError and the deck is left untouched.
func (g *Game) Shuffle(
	playerIdx int,
	nonce *big.Int,
	proof *prover.Proof,
	vx0, vx1 []*big.Int,
	sv0, sv1 *big.Int,
	prv prover.Prover,
) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateShuffle {
		return fmt.Errorf("%w: shuffle from %s", ErrInvalidState, g.State)
	}
	if playerIdx != g.Turn {
		return ErrNotYourTurn
	}
	if len(vx0) != g.NumCards || len(vx1) != g.NumCards {
		return fmt.Errorf("game: shuffle deck length mismatch")
	}

	pkX, pkY := g.AggregatedPk.Point()
	signals := &shuffle.PublicSignals{
		Nonce:  nonce,
		PkAggX: pkX, PkAggY: pkY,
		UX0: g.Deck.X0, UX1: g.Deck.X1,
		VX0: vx0, VX1: vx1,
		SU0: g.Deck.Selector0, SU1: g.Deck.Selector1,
		SV0: sv0, SV1: sv1,
	}

	ok, err := prv.Verify(prover.CircuitShuffle, proof, signals.Flatten())
	if err != nil {
		return fmt.Errorf("game: shuffle verify: %w", err)
	}
	if !ok {
		g.State = StateGameError
		return prover.ErrProofFailed
	}

	g.Deck = &deck.CompressedDeck{X0: vx0, X1: vx1, Selector0: sv0, Selector1: sv1}
	g.emit(Event{Kind: EventDeckUpdated, PlayerIdx: playerIdx, State: g.State})

	if g.Turn == g.NumPlayers-1 {
		g.Turn = 0
		g.State = StateDeal
		g.initDealBookkeeping()
	} else {
		g.Turn++
	}
	g.emit(Event{Kind: EventPlayerTurn, PlayerIdx: g.Turn, State: g.State})

	return nil
}

// initDealBookkeeping sets up the default deal batch (every card slot) the
// first time the game enters Deal, since no external operation configures
// cardsToDeal explicitly.
func (g *Game) initDealBookkeeping() {
	if g.CardsToDeal != 0 {
		return
	}
	var mask uint64
	for i := 0; i < g.NumCards; i++ {
		mask |= 1 << uint(i)
		recipient := g.recipientOf(i)
		g.Deals[i] = &CardDeal{
			Recipient: recipient,
			Required:  requiredMask(g.NumPlayers, recipient),
			Shares:    make(map[int]ecc.Point),
		}
	}
	g.CardsToDeal = mask
}
