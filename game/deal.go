package game

import (
	"fmt"
	"math/big"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/deal"
	"github.com/mentalpoker/shuffle-core/deck"
	"github.com/mentalpoker/shuffle-core/prover"
)

// Deal records one non-recipient player's decryption share for card
// cardIdx. The recipient of a card never submits a share for it (they
// recover it locally once the other N-1 shares land). The first submission
// for a card slot decompresses it (the "compressed path"); deal.PrepareDecryptData
// derives the deltas itself from the deck's (X0, X1), so later submissions
// reuse the cached Y0, Y1 ("uncompressed path") without recomputing them.
func (g *Game) Deal(
	playerIdx, cardIdx int,
	proof *prover.Proof,
	shareX, shareY *big.Int,
	prv prover.Prover,
) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateDeal {
		// A resubmitted share is reported as a double deal even when the
		// card's last share already moved the game on to Open.
		if cd, ok := g.Deals[cardIdx]; ok && playerIdx >= 0 && playerIdx < g.NumPlayers &&
			cd.Record&(uint64(1)<<uint(playerIdx)) != 0 {
			return deal.ErrDoubleDeal
		}
		return fmt.Errorf("%w: deal from %s", ErrInvalidState, g.State)
	}
	if cardIdx < 0 || cardIdx >= g.NumCards {
		return ErrUnknownCard
	}
	if playerIdx < 0 || playerIdx >= g.NumPlayers {
		return ErrUnknownPlayer
	}

	cd, ok := g.Deals[cardIdx]
	if !ok {
		return ErrUnknownCard
	}
	bit := uint64(1) << uint(playerIdx)
	if cd.Record&bit != 0 {
		return deal.ErrDoubleDeal
	}
	if playerIdx == cd.Recipient {
		return ErrNotYourTurn
	}

	x0, y0, x1, y1, err := g.cardPoint(cardIdx, cd)
	if err != nil {
		return err
	}

	ok2, err := prv.Verify(prover.CircuitDeal, proof, []*big.Int{x0, y0, shareX, shareY})
	if err != nil {
		return fmt.Errorf("game: deal verify: %w", err)
	}
	if !ok2 {
		g.State = StateGameError
		return prover.ErrProofFailed
	}

	cd.Shares[playerIdx] = g.Curve.New().SetPoint(shareX, shareY)
	cd.Record |= bit
	if !cd.Opened {
		cd.Opened = true
		cd.Y0, cd.Y1 = y0, y1
	}

	g.emit(Event{Kind: EventCardDealt, PlayerIdx: playerIdx, CardIdx: cardIdx, State: g.State})

	if g.allCardsQuorate() {
		g.State = StateOpen
	}
	return nil
}

// cardPoint returns card slot cardIdx's current (X0, Y0, X1, Y1), opening
// its compressed representation the first time a share is submitted.
func (g *Game) cardPoint(cardIdx int, cd *CardDeal) (x0, y0, x1, y1 *big.Int, err error) {
	if cd.Opened {
		return g.Deck.X0[cardIdx], cd.Y0, g.Deck.X1[cardIdx], cd.Y1, nil
	}
	x0, y0, x1, y1, _, _, err = deal.PrepareDecryptData(g.Deck, cardIdx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w", deck.ErrIllFormedDelta)
	}
	return x0, y0, x1, y1, nil
}

func (g *Game) allCardsQuorate() bool {
	for i := 0; i < g.NumCards; i++ {
		if g.CardsToDeal&(1<<uint(i)) == 0 {
			continue
		}
		cd, ok := g.Deals[i]
		if !ok || !cd.quorumReached() {
			return false
		}
	}
	return true
}

// Open is the recipient's final reveal step for card cardIdx: they supply
// their own decryption share (share = sk_recipient·c0, proved the same way
// as every other player's) so the full N-of-N plaintext can be recovered
// and resolved to a slot index via the initial deck table.
func (g *Game) Open(cardIdx int, proof *prover.Proof, shareX, shareY *big.Int, prv prover.Prover) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateOpen {
		return fmt.Errorf("%w: open from %s", ErrInvalidState, g.State)
	}
	cd, ok := g.Deals[cardIdx]
	if !ok {
		return ErrUnknownCard
	}
	if cd.Resolved {
		return nil
	}

	ok2, err := prv.Verify(prover.CircuitDeal, proof, []*big.Int{g.Deck.X0[cardIdx], cd.Y0, shareX, shareY})
	if err != nil {
		return fmt.Errorf("game: open verify: %w", err)
	}
	if !ok2 {
		g.State = StateGameError
		return prover.ErrProofFailed
	}

	c1 := g.Curve.New().SetPoint(g.Deck.X1[cardIdx], cd.Y1)
	shares := make([]ecc.Point, 0, len(cd.Shares)+1)
	for _, s := range cd.Shares {
		shares = append(shares, s)
	}
	shares = append(shares, g.Curve.New().SetPoint(shareX, shareY))

	m := deal.RecoverCard(g.Curve, c1, shares)
	idx, err := deal.ResolveCard(g.InitialDeck, m)
	if err != nil {
		return fmt.Errorf("game: resolve card: %w", err)
	}

	cd.Resolved = true
	cd.CardIndex = idx
	g.emit(Event{Kind: EventCardDealt, PlayerIdx: cd.Recipient, CardIdx: cardIdx, State: g.State})

	return nil
}

// Search returns the resolved slot index for cardIdx, or
// ErrCardNotFullyDecrypted if it has not yet been revealed via Open.
func (g *Game) Search(cardIdx int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cd, ok := g.Deals[cardIdx]
	if !ok || !cd.Resolved {
		return SearchInvalid, ErrCardNotFullyDecrypted
	}
	return cd.CardIndex, nil
}

// Close transitions a fully open game to Complete. This mirrors the
// settlement layer's external close signal; the state machine itself never
// infers completion from resolution progress.
func (g *Game) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateOpen {
		return fmt.Errorf("%w: close from %s", ErrInvalidState, g.State)
	}
	g.State = StateComplete
	return nil
}
