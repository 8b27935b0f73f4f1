package game

import "fmt"

// ErrInvalidState is returned when an operation is called in a state it
// does not apply to.
var ErrInvalidState = fmt.Errorf("game: invalid state for this operation")

// ErrNotYourTurn is returned when the caller is not the expected player
// for the current turn.
var ErrNotYourTurn = fmt.Errorf("game: not your turn")

// ErrInvalidPublicKey is returned when a registered public key is not on
// the curve.
var ErrInvalidPublicKey = fmt.Errorf("game: invalid public key")

// ErrCardNotFullyDecrypted is returned by Search on a card that has not
// yet been resolved by its recipient's Open, even once its record bitmap
// has reached quorum.
var ErrCardNotFullyDecrypted = fmt.Errorf("game: card not fully decrypted")

// ErrUnknownCard is returned when an operation references a card index
// outside [0, numCards).
var ErrUnknownCard = fmt.Errorf("game: unknown card index")

// ErrUnknownPlayer is returned when an operation references a player index
// outside [0, numPlayers).
var ErrUnknownPlayer = fmt.Errorf("game: unknown player index")

// ErrGameFull is returned when register is called after the player roster
// is already complete.
var ErrGameFull = fmt.Errorf("game: player roster already complete")

// SearchInvalid is the sentinel index returned by Search's wire-level
// counterpart for an unresolved card (see spec's search -> 0..N-1 | INVALID).
const SearchInvalid = 999999
