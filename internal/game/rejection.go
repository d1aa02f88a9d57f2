package game

import "errors"

// RejectionKind classifies why a candidate action was refused. Rejections
// are first-class return values, never errors: the engine guarantees a
// rejected action has not mutated any state.
type RejectionKind string

const (
	RejectNone                  RejectionKind = ""
	RejectWrongPhase            RejectionKind = "WRONG_PHASE"
	RejectWrongTiming           RejectionKind = "WRONG_TIMING"
	RejectNotActivePlayer       RejectionKind = "NOT_ACTIVE_PLAYER"
	RejectNotPriorityHolder     RejectionKind = "NOT_PRIORITY_HOLDER"
	RejectLandLimitExceeded     RejectionKind = "LAND_LIMIT_EXCEEDED"
	RejectInsufficientMana      RejectionKind = "INSUFFICIENT_MANA"
	RejectInvalidSource         RejectionKind = "INVALID_SOURCE"
	RejectInvalidTarget         RejectionKind = "INVALID_TARGET"
	RejectInvalidZoneTransition RejectionKind = "INVALID_ZONE_TRANSITION"
	RejectIllegalBlock          RejectionKind = "ILLEGAL_BLOCK_ASSIGNMENT"
	RejectAlreadyDeclared       RejectionKind = "ALREADY_DECLARED"
	RejectGameOver              RejectionKind = "GAME_OVER"
	RejectUnknownAction         RejectionKind = "UNKNOWN_ACTION"
)

// ErrGameCorrupted marks an internal invariant violation (for example a card
// instance missing from its recorded zone). State is presumed corrupted; the
// game instance is aborted rather than repaired.
var ErrGameCorrupted = errors.New("game state corrupted")

// ErrGameNotFound is returned when the referenced game does not exist.
var ErrGameNotFound = errors.New("game not found")

// ErrUnknownPlayer is returned when the referenced player is not seated in
// the game.
var ErrUnknownPlayer = errors.New("unknown player")
