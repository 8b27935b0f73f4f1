package deck

import (
	"math/big"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mentalpoker/shuffle-core/crypto/field"
)

// initialSeed is the fixed starting point walked by InitialDeck to find N
// distinct on-curve x-coordinates. It has no significance beyond being a
// fixed, reproducible constant every game built by this module agrees on.
var initialSeed = big.NewInt(1)

// initialDeckCache memoizes InitialDeck by n: the table it builds is a pure
// function of n, so repeated CreateGame calls for the same deck size (the
// common case: almost every game uses the default 52) don't repeat the
// on-curve candidate walk. Bounded the same way the teacher bounds its own
// artifact cache, since n is caller-supplied and otherwise unbounded.
var initialDeckCache *lru.Cache[int, *CompressedDeck]

func init() {
	c, err := lru.New[int, *CompressedDeck](64)
	if err != nil {
		panic(err)
	}
	initialDeckCache = c
}

// selector0_52 and selector1_52 are the literal bit-exact selector
// constants for a 52-card deck. Real deployments must source these (and
// the matching X1 table) from the proving-key generation tooling so they
// stay synchronized with pre-generated circuits; this module reproduces
// them verbatim and derives selectors for any other N from its own
// deterministically generated table.
const (
	selector0_52 = uint64(4503599627370495)
	selector1_52 = uint64(3075935501959818)
)

// InitialDeck builds the fixed initial deck table for an n-card game. Every
// slot's X0 is zero (the identity-encoded "no encryption yet" x-coordinate);
// X1 is drawn from a deterministic walk over candidate x-coordinates,
// advancing until n distinct on-curve values are found; the walk is the
// same for every n. For n=52, Selector0/Selector1 are set to the literal
// 52-card constants above. For other n, every bit of both selectors is 1,
// i.e. each slot decompresses to the low root of its x.
func InitialDeck(n int) (*CompressedDeck, error) {
	if cached, ok := initialDeckCache.Get(n); ok {
		return cloneDeck(cached), nil
	}

	x0 := make([]*big.Int, n)
	x1 := make([]*big.Int, n)

	candidate := new(big.Int).Set(initialSeed)
	found := 0
	for found < n {
		if _, err := field.YFromX(candidate); err == nil {
			x0[found] = big.NewInt(0)
			x1[found] = new(big.Int).Set(candidate)
			found++
		}
		candidate = new(big.Int).Add(candidate, big.NewInt(1))
	}

	if n == 52 {
		d := &CompressedDeck{
			X0:        x0,
			X1:        x1,
			Selector0: new(big.Int).SetUint64(selector0_52),
			Selector1: new(big.Int).SetUint64(selector1_52),
		}
		initialDeckCache.Add(n, d)
		return cloneDeck(d), nil
	}

	sel0 := big.NewInt(0)
	sel1 := big.NewInt(0)
	for i := 0; i < n; i++ {
		// X0 is always zero, whose canonical y is 1 (the low root), so
		// Selector0's bit is fixed at 1 for every slot of the initial deck.
		sel0 = setSelectorBit(sel0, i, 1)
		y1, err := ECXToDelta(x1[i])
		if err != nil {
			return nil, err
		}
		sel1 = setSelectorBit(sel1, i, signBit(y1))
	}

	d := &CompressedDeck{
		X0:        x0,
		X1:        x1,
		Selector0: sel0,
		Selector1: sel1,
	}
	initialDeckCache.Add(n, d)
	return cloneDeck(d), nil
}

// cloneDeck deep-copies d so a cache hit can't hand out big.Int values a
// caller might later mutate in place, and so two callers of InitialDeck
// never alias the same slice.
func cloneDeck(d *CompressedDeck) *CompressedDeck {
	x0 := make([]*big.Int, len(d.X0))
	x1 := make([]*big.Int, len(d.X1))
	for i := range d.X0 {
		x0[i] = new(big.Int).Set(d.X0[i])
	}
	for i := range d.X1 {
		x1[i] = new(big.Int).Set(d.X1[i])
	}
	return &CompressedDeck{
		X0:        x0,
		X1:        x1,
		Selector0: new(big.Int).Set(d.Selector0),
		Selector1: new(big.Int).Set(d.Selector1),
	}
}
