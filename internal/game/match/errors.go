package match

import "errors"

// Precondition violations on player-facing operations. None of these leave the
// match mutated; callers retry with valid input.
var (
	ErrGameOver            = errors.New("match: game is over")
	ErrNoCardSelected      = errors.New("match: select a play card")
	ErrNoDefenseCall       = errors.New("match: choose a defense call")
	ErrUnknownCard         = errors.New("match: card is not in the current hand")
	ErrInvalidDefenseCall  = errors.New("match: defense call is not callable")
	ErrInvalidDie          = errors.New("match: die value must be 1-6")
	ErrInvalidPattern      = errors.New("match: unknown pattern")
	ErrCashOutNeedsStreak  = errors.New("match: cash out requires momentum of at least 1")
	ErrAudibleUsed         = errors.New("match: audible already used this drive")
	ErrCancelUnavailable   = errors.New("match: turnover cancel unavailable")
	ErrNotFourthDown       = errors.New("match: field goal only on 4th down")
	ErrOutOfFieldGoalRange = errors.New("match: not in field goal range")
	ErrInvalidKickRoll     = errors.New("match: kick roll must be 1-6")
	ErrNothingToUndo       = errors.New("match: nothing to undo")
)

// Setup validation errors.
var (
	ErrInvalidTeamSplit     = errors.New("match: invalid team sizes for selected player count")
	ErrInvalidReceivingTeam = errors.New("match: receiving team must be A or B")
	ErrInvalidClockSettings = errors.New("match: quarter length, quarter count, and pace must be positive")
)
