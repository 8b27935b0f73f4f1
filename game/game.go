package game

import (
	"fmt"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/deck"
	"github.com/mentalpoker/shuffle-core/keys"
	"github.com/mentalpoker/shuffle-core/log"
)

// CreateGame allocates a new game in the Created state. gameID must be
// non-zero; it is assigned externally (e.g. by the orchestrator) and is
// never generated here.
func CreateGame(curve ecc.Point, gameID uint64, numPlayers, numCards int) (*Game, error) {
	if gameID == 0 {
		return nil, fmt.Errorf("game: gameId must be non-zero")
	}
	if numPlayers <= 0 {
		return nil, fmt.Errorf("game: numPlayers must be positive")
	}
	if numCards <= 0 {
		return nil, fmt.Errorf("game: numCards must be positive")
	}

	g := &Game{
		ID:         gameID,
		State:      StateCreated,
		NumPlayers: numPlayers,
		NumCards:   numCards,
		Curve:      curve,
		Deals:      make(map[int]*CardDeal),
	}
	log.Infow("game created", "gameId", gameID, "numPlayers", numPlayers, "numCards", numCards)
	return g, nil
}

// BeginRegistration transitions a freshly created game into Registration,
// mirroring the setGameSettings step of the state diagram.
func (g *Game) BeginRegistration() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateCreated {
		return fmt.Errorf("%w: BeginRegistration from %s", ErrInvalidState, g.State)
	}
	g.State = StateRegistration
	return nil
}

// Register adds a player to the roster. Registering the N-th player closes
// the roster: aggregatedPk and the initial deck materialize, and the game
// moves to Shuffle.
func (g *Game) Register(addr string, pk ecc.Point) (playerIdx int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateRegistration {
		return 0, fmt.Errorf("%w: register from %s", ErrInvalidState, g.State)
	}
	if len(g.Players) >= g.NumPlayers {
		return 0, ErrGameFull
	}

	x, y := pk.Point()
	if !ecc.OnCurve(g.Curve, x, y) {
		return 0, ErrInvalidPublicKey
	}

	g.Players = append(g.Players, Player{Addr: addr, PK: pk})
	playerIdx = len(g.Players) - 1
	g.emit(Event{Kind: EventRegister, PlayerIdx: playerIdx, State: g.State})

	if len(g.Players) < g.NumPlayers {
		return playerIdx, nil
	}

	pks := make([]ecc.Point, len(g.Players))
	for i, p := range g.Players {
		pks[i] = p.PK
	}
	agg, err := keys.Aggregate(g.Curve, pks)
	if err != nil {
		g.State = StateGameError
		return 0, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	initial, err := deck.InitialDeck(g.NumCards)
	if err != nil {
		g.State = StateGameError
		return 0, fmt.Errorf("game: init deck: %w", err)
	}

	g.AggregatedPk = agg
	g.InitialDeck = initial
	g.Deck = initial
	g.Turn = 0
	g.State = StateShuffle
	g.emit(Event{Kind: EventPlayerTurn, PlayerIdx: g.Turn, State: g.State})

	return playerIdx, nil
}

// QueryAggregatedPk returns the game's aggregated public key, or nil before
// Registration completes.
func (g *Game) QueryAggregatedPk() ecc.Point {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.AggregatedPk
}

// QueryDeck returns a snapshot of the current compressed deck. Callers must
// not mutate the returned value.
func (g *Game) QueryDeck() *deck.CompressedDeck {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Deck
}

// SetCardsToDeal restricts which card slots gate the Deal -> Open
// transition. It must be called while in Deal state; every bit must name a
// slot already tracked in Deals (true for any slot in [0, numCards), since
// bookkeeping for the whole deck is created when Shuffle completes).
func (g *Game) SetCardsToDeal(mask uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateDeal {
		return fmt.Errorf("%w: setCardsToDeal from %s", ErrInvalidState, g.State)
	}
	for i := 0; i < g.NumCards; i++ {
		if mask&(1<<uint(i)) != 0 {
			if _, ok := g.Deals[i]; !ok {
				return ErrUnknownCard
			}
		}
	}
	g.CardsToDeal = mask
	return nil
}
