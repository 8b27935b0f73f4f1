// Package client is the per-player orchestrator: it polls the shared store
// for a game's current state, and whenever it's this player's turn, builds
// the right witness, turns it into a circuit assignment, proves it, and
// submits the result back into the game state machine.
package client

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark/frontend"
	"github.com/google/uuid"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/deal"
	"github.com/mentalpoker/shuffle-core/game"
	"github.com/mentalpoker/shuffle-core/keys"
	"github.com/mentalpoker/shuffle-core/log"
	"github.com/mentalpoker/shuffle-core/prover"
	"github.com/mentalpoker/shuffle-core/shuffle"
	"github.com/mentalpoker/shuffle-core/store"
)

// AssignmentBuilder turns a shuffle.Witness or a deal witness
// (deal.CompressedWitness / deal.UncompressedWitness) into the
// frontend.Circuit assignment the Prover expects. Producing this mapping
// is the concrete circuit's job, which this module treats as an external
// concern; Client only needs something satisfying this signature.
type AssignmentBuilder func(kind prover.CircuitKind, witness any) (frontend.Circuit, error)

// Player is one participant's orchestrator for a single game.
type Player struct {
	PlayerIdx int
	GameID    uint64
	KeyPair   *keys.KeyPair
	Curve     ecc.Point

	Store      *store.Store
	Prover     prover.Prover
	Assignment AssignmentBuilder

	PollInterval time.Duration
	MaxBackoff   time.Duration

	// sessionID correlates every log line a single Run call emits, since
	// one process may run several Players (one per local game) concurrently.
	sessionID uuid.UUID
}

// New returns a Player orchestrator. PollInterval and MaxBackoff default to
// 5s and 60s when left zero; callers that want these (and the curve, store
// backend, and logger) sourced from a config.Config should use
// NewFromConfig instead.
func New(playerIdx int, gameID uint64, kp *keys.KeyPair, curve ecc.Point, s *store.Store, p prover.Prover, ab AssignmentBuilder) *Player {
	return &Player{
		PlayerIdx: playerIdx, GameID: gameID, KeyPair: kp, Curve: curve,
		Store: s, Prover: p, Assignment: ab,
		PollInterval: 5 * time.Second, MaxBackoff: 60 * time.Second,
		sessionID: uuid.New(),
	}
}

// Run polls the store until ctx is cancelled, acting on this player's turn
// whenever the loaded game calls for it. Consecutive poll errors back off
// exponentially, capped at MaxBackoff, and reset on the next success.
func (p *Player) Run(ctx context.Context) error {
	interval := p.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	maxBackoff := p.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 60 * time.Second
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	consecutiveErrors := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			acted, err := p.poll()
			wait := interval
			if err != nil {
				consecutiveErrors++
				wait = backoff(interval, consecutiveErrors, maxBackoff)
				log.Warnw("client poll failed",
					"session", p.sessionID, "player", p.PlayerIdx, "game", p.GameID,
					"consecutiveErrors", consecutiveErrors, "err", err.Error())
			} else {
				consecutiveErrors = 0
				if acted {
					log.Infow("client acted on turn",
						"session", p.sessionID, "player", p.PlayerIdx, "game", p.GameID)
				}
			}
			timer.Reset(wait)
		}
	}
}

func backoff(interval time.Duration, attempts int, max time.Duration) time.Duration {
	d := interval
	for i := 0; i < attempts && d < max; i++ {
		d *= 2
	}
	if d > max {
		d = max
	}
	return d
}

// poll loads the current game, acts if it's this player's turn, and
// reports whether an action was taken.
func (p *Player) poll() (bool, error) {
	g, err := p.Store.Load(p.GameID)
	if err != nil {
		return false, fmt.Errorf("client: load game %d: %w", p.GameID, err)
	}

	switch g.State {
	case game.StateShuffle:
		if g.Turn != p.PlayerIdx {
			return false, nil
		}
		if err := p.submitShuffle(g); err != nil {
			return false, err
		}
		return true, nil

	case game.StateDeal:
		return p.submitDeals(g)

	case game.StateOpen:
		return p.submitOpens(g)

	default:
		return false, nil
	}
}

// submitShuffle builds a fresh permutation and randomness vector, proves
// the resulting deck transformation, and submits it as this player's
// shuffle turn.
func (p *Player) submitShuffle(g *game.Game) error {
	deck := g.QueryDeck()
	n := deck.N()

	perm, err := randomPermutation(n)
	if err != nil {
		return fmt.Errorf("client: random permutation: %w", err)
	}
	r, err := randomScalars(n, p.Curve.Order())
	if err != nil {
		return fmt.Errorf("client: random scalars: %w", err)
	}
	nonce, err := rand.Int(rand.Reader, p.Curve.Order())
	if err != nil {
		return fmt.Errorf("client: nonce: %w", err)
	}

	v, witness, signals, err := shuffle.Build(p.Curve, g.QueryAggregatedPk(), nonce, deck, perm, r)
	if err != nil {
		return fmt.Errorf("client: build shuffle witness: %w", err)
	}

	assignment, err := p.Assignment(prover.CircuitShuffle, witness)
	if err != nil {
		return fmt.Errorf("client: build shuffle assignment: %w", err)
	}
	proof, err := p.Prover.Prove(prover.CircuitShuffle, assignment)
	if err != nil {
		return fmt.Errorf("client: prove shuffle: %w", err)
	}

	if err := g.Shuffle(p.PlayerIdx, nonce, proof, v.X0, v.X1, signals.SV0, signals.SV1, p.Prover); err != nil {
		return fmt.Errorf("client: submit shuffle: %w", err)
	}
	return p.Store.Save(g)
}

// submitDeals submits a share for every card this player is required for
// but hasn't yet submitted to.
func (p *Player) submitDeals(g *game.Game) (bool, error) {
	acted := false
	for cardIdx := 0; cardIdx < g.NumCards; cardIdx++ {
		cd, ok := g.Deals[cardIdx]
		if !ok || cd.Recipient == p.PlayerIdx {
			continue
		}
		bit := uint64(1) << uint(p.PlayerIdx)
		if cd.Required&bit == 0 || cd.Record&bit != 0 {
			continue
		}

		var witness *deal.CompressedWitness
		var err error
		if !cd.Opened {
			witness, err = deal.BuildCompressedShare(p.Curve, g.QueryDeck(), cardIdx, p.KeyPair.PrivateKey, p.KeyPair.PublicKey)
			if err != nil {
				return acted, fmt.Errorf("client: build compressed share card %d: %w", cardIdx, err)
			}
		} else {
			c0 := p.Curve.New().SetPoint(g.QueryDeck().X0[cardIdx], cd.Y0)
			uw := deal.BuildShare(p.Curve, c0, p.KeyPair.PrivateKey)
			witness = &deal.CompressedWitness{X0: uw.X0, Y0: uw.Y0, ShareX: uw.ShareX, ShareY: uw.ShareY}
		}

		assignment, err := p.Assignment(prover.CircuitDeal, witness)
		if err != nil {
			return acted, fmt.Errorf("client: build deal assignment card %d: %w", cardIdx, err)
		}
		proof, err := p.Prover.Prove(prover.CircuitDeal, assignment)
		if err != nil {
			return acted, fmt.Errorf("client: prove deal card %d: %w", cardIdx, err)
		}

		if err := g.Deal(p.PlayerIdx, cardIdx, proof, witness.ShareX, witness.ShareY, p.Prover); err != nil {
			return acted, fmt.Errorf("client: submit deal card %d: %w", cardIdx, err)
		}
		acted = true
	}
	if acted {
		return true, p.Store.Save(g)
	}
	return false, nil
}

// submitOpens submits this player's own final share for every card they
// are the recipient of and that hasn't yet been resolved.
func (p *Player) submitOpens(g *game.Game) (bool, error) {
	acted := false
	for cardIdx := 0; cardIdx < g.NumCards; cardIdx++ {
		cd, ok := g.Deals[cardIdx]
		if !ok || cd.Recipient != p.PlayerIdx || cd.Resolved {
			continue
		}

		c0 := p.Curve.New().SetPoint(g.QueryDeck().X0[cardIdx], cd.Y0)
		w := deal.BuildShare(p.Curve, c0, p.KeyPair.PrivateKey)

		assignment, err := p.Assignment(prover.CircuitDeal, w)
		if err != nil {
			return acted, fmt.Errorf("client: build open assignment card %d: %w", cardIdx, err)
		}
		proof, err := p.Prover.Prove(prover.CircuitDeal, assignment)
		if err != nil {
			return acted, fmt.Errorf("client: prove open card %d: %w", cardIdx, err)
		}

		if err := g.Open(cardIdx, proof, w.ShareX, w.ShareY, p.Prover); err != nil {
			return acted, fmt.Errorf("client: submit open card %d: %w", cardIdx, err)
		}
		acted = true
	}
	if acted {
		return true, p.Store.Save(g)
	}
	return false, nil
}

func randomPermutation(n int) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, err
		}
		j := int(jBig.Int64())
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

func randomScalars(n int, order *big.Int) ([]*big.Int, error) {
	out := make([]*big.Int, n)
	for i := range out {
		s, err := rand.Int(rand.Reader, order)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
