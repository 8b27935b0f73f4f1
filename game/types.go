package game

import (
	"math/big"
	"sync"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/deck"
)

// State is one of the game's lifecycle states.
type State string

const (
	StateUncreated    State = "uncreated"
	StateCreated      State = "created"
	StateRegistration State = "registration"
	StateShuffle      State = "shuffle"
	StateDeal         State = "deal"
	StateOpen         State = "open"
	StateGameError    State = "game_error"
	StateComplete     State = "complete"
)

// Player is a registered participant: their address and ElGamal public key.
type Player struct {
	Addr string
	PK   ecc.Point
}

// CardDeal tracks one card slot's decryption progress. Recipient is
// assigned deterministically (round-robin over the player roster) since no
// external operation configures it explicitly. Required excludes the
// recipient's own bit: the recipient never submits a share for their own
// card.
type CardDeal struct {
	Recipient int
	Required  uint64
	Record    uint64
	Shares    map[int]ecc.Point
	Opened    bool
	Y0, Y1    *big.Int
	Resolved  bool
	CardIndex int
}

// quorumReached reports whether every required player has submitted.
func (c *CardDeal) quorumReached() bool {
	return c.Record&c.Required == c.Required
}

// Event is one of the state machine's emitted notifications.
type Event struct {
	Kind      string
	GameID    uint64
	PlayerIdx int
	CardIdx   int
	State     State
}

const (
	EventRegister    = "Register"
	EventPlayerTurn  = "PlayerTurn"
	EventDeckUpdated = "DeckUpdated"
	EventCardDealt   = "CardDealt"
)

// Game is the per-game state machine: deck, player roster, and per-card
// decryption records, mutated only through its exported operations.
type Game struct {
	mu sync.Mutex

	ID         uint64
	State      State
	NumPlayers int
	NumCards   int
	Turn       int

	Players      []Player
	AggregatedPk ecc.Point

	Deck        *deck.CompressedDeck
	InitialDeck *deck.CompressedDeck

	// CardsToDeal is the bitmap of card slots included in the current deal
	// batch; Open fires once every required card in this mask reaches
	// quorum.
	CardsToDeal uint64
	Deals       map[int]*CardDeal

	Curve ecc.Point

	listeners   map[string]func(Event)
	listenersMu sync.Mutex
}

// AddListener registers fn to be called, synchronously and in emission
// order, for every event the game produces. id lets callers remove a
// specific listener later.
func (g *Game) AddListener(id string, fn func(Event)) {
	g.listenersMu.Lock()
	defer g.listenersMu.Unlock()
	if g.listeners == nil {
		g.listeners = make(map[string]func(Event))
	}
	g.listeners[id] = fn
}

// RemoveListener unregisters a listener previously added with AddListener.
func (g *Game) RemoveListener(id string) {
	g.listenersMu.Lock()
	defer g.listenersMu.Unlock()
	delete(g.listeners, id)
}

func (g *Game) emit(ev Event) {
	ev.GameID = g.ID
	g.listenersMu.Lock()
	fns := make([]func(Event), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.listenersMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// recipientOf returns the deterministic round-robin recipient for card i.
func (g *Game) recipientOf(cardIdx int) int {
	return cardIdx % g.NumPlayers
}

// requiredMask returns the bitmap of every player index except recipient.
func requiredMask(numPlayers, recipient int) uint64 {
	var mask uint64
	for i := 0; i < numPlayers; i++ {
		if i != recipient {
			mask |= 1 << uint(i)
		}
	}
	return mask
}
