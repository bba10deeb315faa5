// Package match owns the persistent state of one game: teams, score, clock,
// deck piles, the current drive and hand, and every player-facing operation
// that advances them.
package match

import (
	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/rules"
)

// TeamID identifies one of the two sides.
type TeamID string

const (
	TeamA TeamID = "A"
	TeamB TeamID = "B"
)

// Valid reports whether t is one of the two team ids.
func (t TeamID) Valid() bool { return t == TeamA || t == TeamB }

// Opponent returns the other team.
func (t TeamID) Opponent() TeamID {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Player is one participant, assigned to a team at setup.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID TeamID `json:"teamId"`
}

// Team holds one side's score and roster bookkeeping.
type Team struct {
	Score int `json:"score"`
	// PlayerIDs is the roster (1 or 2 players).
	PlayerIDs []string `json:"playerIds"`
	// ActiveOffenseIndex round-robins which player calls offense next.
	ActiveOffenseIndex int `json:"activeOffenseIndex"`
	// NextDriveMomentumBonus is a banked momentum point (0 or 1) earned on
	// defense, consumed at the start of this team's next possession.
	NextDriveMomentumBonus int `json:"nextDriveMomentumBonus"`
}

const (
	// maxMomentum is the ceiling of the drive momentum streak meter.
	maxMomentum = 3
	// maxPressure is the ceiling of the defensive pressure meter.
	maxPressure = 2

	startingBallPos = 20
	firstDownYards  = 10
	downsPerSeries  = 4
	handSize        = 3

	touchdownPoints = 7
	fieldGoalPoints = 3

	cashOutYards = 4

	overtimeLengthSeconds = 180
)

// DriveState is the per-possession mutable state; discarded on every change
// of possession.
type DriveState struct {
	// BallPos is the yard line from the offense's own goal (20 = own 20,
	// 100 = opponent goal line).
	BallPos      int `json:"ballPos"`
	Down         int `json:"down"`
	YardsToFirst int `json:"yardsToFirst"`
	// Pressure is the 0-2 defensive pressure meter.
	Pressure int `json:"pressure"`
	// Momentum is the 0-3 success streak meter.
	Momentum int `json:"momentum"`
	// AudibleUsed is set once the offense burns its per-drive hand redraw.
	AudibleUsed bool `json:"audibleUsed"`
	// TurnoverCancelUsed/Token gate the one-shot per-drive turnover cancel.
	TurnoverCancelUsed  bool `json:"turnoverCancelUsed"`
	TurnoverCancelToken bool `json:"turnoverCancelToken"`
	// ActivePlayerID is the player calling offense this possession.
	ActivePlayerID string `json:"activePlayerId"`
	// TurnoverRisk is the 0-2 HUD meter mirroring turnover eligibility.
	TurnoverRisk int `json:"turnoverRisk"`
	// CashOutSelected commits the next resolution to the guaranteed-gain path.
	CashOutSelected bool `json:"cashOutSelected"`
}

func freshDrive() DriveState {
	return DriveState{
		BallPos:      startingBallPos,
		Down:         1,
		YardsToFirst: firstDownYards,
	}
}

// Hand is the per-down state: three drawn cards plus the offense's and
// defense's calls and the rolled dice.
type Hand struct {
	CardIDs []int `json:"cardIds"`
	// SelectedCardID is 0 until the offense locks a card.
	SelectedCardID int               `json:"selectedCardId"`
	DefenseCall    rules.DefenseCall `json:"defenseCall"`
	Dice           [5]int            `json:"dice"`
	// ChosenPattern is the pattern the offense attests to; empty means the
	// resolver detects from the dice.
	ChosenPattern deck.Pattern `json:"chosenPattern,omitempty"`
}

func freshHand() Hand {
	return Hand{
		DefenseCall: rules.CallNone,
		Dice:        [5]int{1, 1, 1, 1, 1},
	}
}

// ClockState is the simulated game clock.
//
// Invariant: SecondsRemaining is never negative; hitting 0 always runs the
// quarter/overtime/game-over transition synchronously.
type ClockState struct {
	Quarter              int  `json:"quarter"`
	QuartersTotal        int  `json:"quartersTotal"`
	QuarterLengthSeconds int  `json:"quarterLengthSeconds"`
	SecondsRemaining     int  `json:"secondsRemaining"`
	Running              bool `json:"running"`
	// PaceMultiplier scales every play's time cost.
	PaceMultiplier        float64 `json:"paceMultiplier"`
	IsOvertime            bool    `json:"isOvertime"`
	OvertimeNumber        int     `json:"overtimeNumber"`
	OvertimeLengthSeconds int     `json:"overtimeLengthSeconds"`
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
