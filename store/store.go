// Package store persists game.Game snapshots into a db.Database, keyed by
// game ID. It is the authenticated shared store every player's client
// polls for turn state: the state machine in game/ is pure and in-memory,
// store/ is what makes a game's state durable and visible across
// processes.
package store

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/db"
	"github.com/mentalpoker/shuffle-core/deck"
	"github.com/mentalpoker/shuffle-core/game"
	"github.com/mentalpoker/shuffle-core/types"
)

// ErrGameNotFound is returned by Load when no snapshot exists for the
// given game ID.
var ErrGameNotFound = fmt.Errorf("store: game not found")

const gameKeyPrefix = "game/"

func gameKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", gameKeyPrefix, id))
}

// Store wraps a db.Database to persist game.Game values CBOR-encoded.
// curve is a prototype point used only to Unmarshal a loaded game's points
// back into concrete ecc.Point values; Store never needs to know more
// about the curve than that.
type Store struct {
	db    db.Database
	curve ecc.Point
}

// New returns a Store backed by database, reconstructing points for
// curve's concrete type on Load.
func New(database db.Database, curve ecc.Point) *Store {
	return &Store{db: database, curve: curve}
}

// Save writes g's current state, overwriting any prior snapshot for the
// same game ID.
func (s *Store) Save(g *game.Game) error {
	snap := fromGame(g)
	data, err := cbor.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: marshal game %d: %w", g.ID, err)
	}
	tx := s.db.WriteTx()
	if err := tx.Set(gameKey(g.ID), data); err != nil {
		return err
	}
	return tx.Commit()
}

// Load reconstructs the game with the given ID, or ErrGameNotFound.
func (s *Store) Load(id uint64) (*game.Game, error) {
	data, err := s.db.Get(gameKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	var snap gameSnapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("store: unmarshal game %d: %w", id, err)
	}
	return snap.toGame(s.curve)
}

// Delete removes a game's snapshot. Re-Deleting an already-deleted game is
// not an error.
func (s *Store) Delete(id uint64) error {
	tx := s.db.WriteTx()
	if err := tx.Delete(gameKey(id)); err != nil {
		return err
	}
	return tx.Commit()
}

// pointSnapshot is the CBOR-friendly mirror of an ecc.Point: the curve
// implementation's own compressed encoding, tagged with Type so Load can
// catch a curve mismatch instead of silently decoding garbage.
type pointSnapshot struct {
	Type string
	Data []byte
}

func marshalPoint(p ecc.Point) *pointSnapshot {
	if p == nil {
		return nil
	}
	return &pointSnapshot{Type: p.Type(), Data: p.Marshal()}
}

func (s *pointSnapshot) toPoint(curve ecc.Point) (ecc.Point, error) {
	if s == nil {
		return nil, nil
	}
	if s.Type != curve.Type() {
		return nil, fmt.Errorf("store: point curve mismatch: snapshot is %q, store curve is %q", s.Type, curve.Type())
	}
	p := curve.New()
	if err := p.Unmarshal(s.Data); err != nil {
		return nil, fmt.Errorf("store: unmarshal point: %w", err)
	}
	return p, nil
}

func bigsToTypes(xs []*big.Int) []*types.BigInt {
	out := make([]*types.BigInt, len(xs))
	for i, x := range xs {
		out[i] = (*types.BigInt)(x)
	}
	return out
}

func typesToBigs(xs []*types.BigInt) []*big.Int {
	out := make([]*big.Int, len(xs))
	for i, x := range xs {
		out[i] = x.MathBigInt()
	}
	return out
}

type deckSnapshot struct {
	X0, X1               []*types.BigInt
	Selector0, Selector1 *types.BigInt
}

func deckToSnapshot(d *deck.CompressedDeck) *deckSnapshot {
	if d == nil {
		return nil
	}
	return &deckSnapshot{
		X0: bigsToTypes(d.X0), X1: bigsToTypes(d.X1),
		Selector0: (*types.BigInt)(d.Selector0), Selector1: (*types.BigInt)(d.Selector1),
	}
}

func (s *deckSnapshot) toDeck() *deck.CompressedDeck {
	if s == nil {
		return nil
	}
	return &deck.CompressedDeck{
		X0: typesToBigs(s.X0), X1: typesToBigs(s.X1),
		Selector0: s.Selector0.MathBigInt(), Selector1: s.Selector1.MathBigInt(),
	}
}

type playerSnapshot struct {
	Addr string
	PK   *pointSnapshot
}

type cardDealSnapshot struct {
	Recipient int
	Required  uint64
	Record    uint64
	Shares    map[int]*pointSnapshot
	Opened    bool
	Y0, Y1    *types.BigInt
	Resolved  bool
	CardIndex int
}

type gameSnapshot struct {
	ID           uint64
	State        game.State
	NumPlayers   int
	NumCards     int
	Turn         int
	Players      []playerSnapshot
	AggregatedPk *pointSnapshot
	Deck         *deckSnapshot
	InitialDeck  *deckSnapshot
	CardsToDeal  uint64
	Deals        map[int]*cardDealSnapshot
}

func fromGame(g *game.Game) *gameSnapshot {
	players := make([]playerSnapshot, len(g.Players))
	for i, p := range g.Players {
		players[i] = playerSnapshot{Addr: p.Addr, PK: marshalPoint(p.PK)}
	}

	deals := make(map[int]*cardDealSnapshot, len(g.Deals))
	for i, cd := range g.Deals {
		shares := make(map[int]*pointSnapshot, len(cd.Shares))
		for p, sh := range cd.Shares {
			shares[p] = marshalPoint(sh)
		}
		deals[i] = &cardDealSnapshot{
			Recipient: cd.Recipient, Required: cd.Required, Record: cd.Record,
			Shares: shares, Opened: cd.Opened,
			Y0: (*types.BigInt)(cd.Y0), Y1: (*types.BigInt)(cd.Y1),
			Resolved: cd.Resolved, CardIndex: cd.CardIndex,
		}
	}

	return &gameSnapshot{
		ID: g.ID, State: g.State,
		NumPlayers: g.NumPlayers, NumCards: g.NumCards, Turn: g.Turn,
		Players:      players,
		AggregatedPk: marshalPoint(g.AggregatedPk),
		Deck:         deckToSnapshot(g.Deck),
		InitialDeck:  deckToSnapshot(g.InitialDeck),
		CardsToDeal:  g.CardsToDeal,
		Deals:        deals,
	}
}

func (s *gameSnapshot) toGame(curve ecc.Point) (*game.Game, error) {
	players := make([]game.Player, len(s.Players))
	for i, p := range s.Players {
		pk, err := p.PK.toPoint(curve)
		if err != nil {
			return nil, fmt.Errorf("store: player %d: %w", i, err)
		}
		players[i] = game.Player{Addr: p.Addr, PK: pk}
	}

	aggPk, err := s.AggregatedPk.toPoint(curve)
	if err != nil {
		return nil, fmt.Errorf("store: aggregated pk: %w", err)
	}

	deals := make(map[int]*game.CardDeal, len(s.Deals))
	for i, cd := range s.Deals {
		shares := make(map[int]ecc.Point, len(cd.Shares))
		for p, sh := range cd.Shares {
			pt, err := sh.toPoint(curve)
			if err != nil {
				return nil, fmt.Errorf("store: card %d share %d: %w", i, p, err)
			}
			shares[p] = pt
		}
		deals[i] = &game.CardDeal{
			Recipient: cd.Recipient, Required: cd.Required, Record: cd.Record,
			Shares: shares, Opened: cd.Opened,
			Y0: cd.Y0.MathBigInt(), Y1: cd.Y1.MathBigInt(),
			Resolved: cd.Resolved, CardIndex: cd.CardIndex,
		}
	}

	return &game.Game{
		ID: s.ID, State: s.State,
		NumPlayers: s.NumPlayers, NumCards: s.NumCards, Turn: s.Turn,
		Players:      players,
		AggregatedPk: aggPk,
		Deck:         s.Deck.toDeck(),
		InitialDeck:  s.InitialDeck.toDeck(),
		CardsToDeal:  s.CardsToDeal,
		Deals:        deals,
		Curve:        curve,
	}, nil
}
