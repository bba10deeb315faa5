package rules

import (
	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/dice"
)

// bigGainThreshold is the yardage at which a play counts as a big gain,
// feeding both momentum and pressure.
const bigGainThreshold = 8

// DriveContext is the slice of drive state the resolver reads. The resolver
// never mutates drive state; it reports deltas for the state machine to apply.
type DriveContext struct {
	Momentum     int
	Pressure     int
	TurnoverRisk int
}

// Outcome is the fully-specified result of resolving one play.
type Outcome struct {
	// Yards is the final yardage including momentum and highlight bonuses.
	Yards int
	// Touchdown is true when the settled payout was the touchdown sentinel;
	// Yards stays 0 in that case.
	Touchdown bool
	// Success is true when a target pattern was hit.
	Success bool
	// GainedMomentum is the momentum delta earned by card bonuses and big gains.
	GainedMomentum int
	// Turnover is true when the offense lost the ball on this play.
	Turnover     bool
	TurnoverType TurnoverType
	// PressureDelta is the defensive pressure gained this snap (base 1).
	PressureDelta int
	// ChosenPattern is the pattern the play settled on; empty on a miss.
	ChosenPattern deck.Pattern
	// MatchedPatterns is every pattern the dice satisfied (or the single
	// attested pattern when one was supplied).
	MatchedPatterns []deck.Pattern
	// TurnoverRiskDelta is reserved for the HUD risk meter; always 0 today.
	TurnoverRiskDelta int
	// Highlight marks a highlight play: best target hit plus a 6 on the
	// follow-up die. HighlightYards is already included in Yards.
	Highlight      bool
	HighlightYards int
	// Playmaker marks a bonus defensive turnover from a correct call.
	Playmaker bool
}

// Resolve computes the full outcome of one play. It is deterministic given
// the dice except for the highlight and playmaker follow-up dice rolled from
// src.
//
// The chosen pattern may be supplied by the interactive path (the offense
// attests to a pattern); pass deck.Pattern("") to detect from the dice. An
// attested pattern the adjusted card has no payout for resolves as a miss.
//
// Precondition: every die in [1, 6]; src non-nil. CallNone is legal and means
// no adjustment and no playmaker chance.
// Postcondition: Always returns a complete Outcome; never errors.
func Resolve(card deck.PlayCard, call DefenseCall, snap [5]int, drive DriveContext, chosen deck.Pattern, src dice.Source) Outcome {
	adjusted := AdjustForDefense(card, call)

	var matched []deck.Pattern
	var settled deck.Pattern
	if chosen != "" {
		settled = chosen
		matched = []deck.Pattern{chosen}
	} else {
		matched = DetectPatterns(snap)
		best := 0
		for _, p := range matched {
			if !containsPattern(adjusted.Targets, p) {
				continue
			}
			if rank := adjusted.TargetRank(p); settled == "" || rank > best {
				settled, best = p, rank
			}
		}
	}

	out := Outcome{
		ChosenPattern:   settled,
		MatchedPatterns: matched,
		PressureDelta:   1, // base cost of every snap
	}

	payout, hit := adjusted.Outcomes[settled]
	if settled != "" && hit {
		out.Success = true
		if payout.Touchdown {
			out.Touchdown = true
		} else {
			out.Yards = payout.Yards
		}
		if card.Bonus.Fires(settled) {
			out.GainedMomentum += card.Bonus.Amount
		}
	} else {
		out.ChosenPattern = ""
		out.Yards = card.FailYards
	}

	ones, sixes := 0, 0
	for _, d := range snap {
		if d == 1 {
			ones++
		}
		if d == 6 {
			sixes++
		}
	}

	// Yardage bonuses never apply to touchdowns: the payout is already maximal
	// and Yards stays 0 on a score.
	if out.Success && !out.Touchdown {
		// Momentum nudges modest gains only; big plays earn it on their own.
		if drive.Momentum >= 1 && out.Yards <= 10 {
			out.Yards++
		}
		if out.ChosenPattern == adjusted.BestTarget() && dice.RollDie(src) == 6 {
			out.Highlight = true
			if card.Type == deck.Deep || card.Type == deck.Trick {
				out.HighlightYards = 8
			} else {
				out.HighlightYards = 6
			}
			out.Yards += out.HighlightYards
		}
	}

	if out.Yards >= bigGainThreshold {
		out.GainedMomentum++
		out.PressureDelta++
	}
	if call == CallStack && card.Type == deck.Run {
		out.PressureDelta++
	}

	// Turnovers only threaten an offense that is already hot.
	if drive.Momentum >= 1 {
		if (card.Type == deck.Short || card.Type == deck.Deep) && !out.Success && ones >= 2 {
			out.Turnover = true
			out.TurnoverType = TurnoverInterception
		}
		if (card.Type == deck.Run || card.Type == deck.Trick) && out.Success && out.Yards >= bigGainThreshold && sixes >= 2 {
			out.Turnover = true
			out.TurnoverType = TurnoverFumbleLost
		}
	}

	// Playmaker: a correct defensive call against a failed play earns a
	// one-in-six shot at a bonus takeaway.
	if !out.Success && !out.Turnover && call.Counters(card.Type) {
		if dice.RollDie(src) == 6 {
			out.Playmaker = true
			out.Turnover = true
			if card.Type == deck.Run || card.Type == deck.Trick {
				out.TurnoverType = TurnoverFumbleLost
			} else {
				out.TurnoverType = TurnoverInterception
			}
		}
	}

	return out
}

func containsPattern(list []deck.Pattern, p deck.Pattern) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}
