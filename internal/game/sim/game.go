package sim

import (
	"math"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/dice"
	"github.com/cory-johannsen/drivecontrol/internal/game/rules"
)

// gameState is the simulator's flat per-game state. It mirrors the live
// state machine's drive bookkeeping without teams, hands, or one-shot abilities.
type gameState struct {
	scoreA, scoreB int
	possessionA    bool

	ballPos      int
	down         int
	yardsToFirst int
	pressure     int
	momentum     int
	turnoverRisk int

	quarter          int
	secondsRemaining int
	isOvertime       bool
	gameOver         bool
}

// TypeStats accumulates counters for one play type.
type TypeStats struct {
	Plays   int `json:"plays"`
	Success int `json:"success"`
	Yards   int `json:"yards"`
	TD      int `json:"td"`
	INT     int `json:"int"`
	Fumbles int `json:"fum"`
}

func (t *TypeStats) add(o *TypeStats) {
	t.Plays += o.Plays
	t.Success += o.Success
	t.Yards += o.Yards
	t.TD += o.TD
	t.INT += o.INT
	t.Fumbles += o.Fumbles
}

// Score is a final A/B score line.
type Score struct {
	A int `json:"A"`
	B int `json:"B"`
}

// GameResult holds one simulated game's counters.
type GameResult struct {
	FinalScore   Score                        `json:"finalScore"`
	Plays        int                          `json:"plays"`
	TDs          int                          `json:"tds"`
	INTs         int                          `json:"ints"`
	Fumbles      int                          `json:"fumbles"`
	Turnovers    int                          `json:"turnovers"`
	SuccessPlays int                          `json:"successPlays"`
	Yards        int                          `json:"yards"`
	ByPlayType   map[deck.PlayType]*TypeStats `json:"byPlayType"`
	Cards        map[int]*TypeStats           `json:"cards"`
}

var allCalls = []rules.DefenseCall{rules.CallStack, rules.CallTight, rules.CallDeep}

type rollResult struct {
	outcome rules.Outcome
	dice    [5]int
}

// rollScore ranks an outcome for best-of comparison; a touchdown beats any
// yardage.
func rollScore(o rules.Outcome) int {
	if o.Touchdown {
		return 999
	}
	return o.Yards
}

// simulateRollForCard tries three rolls (initial plus two rerolls) and keeps
// the best outcome for the card.
func simulateRollForCard(card deck.PlayCard, call rules.DefenseCall, src dice.Source, drive rules.DriveContext) rollResult {
	var best rollResult
	for i := 0; i < 3; i++ {
		snap := dice.RollSnap(src)
		outcome := rules.Resolve(card, call, snap, drive, "", src)
		if i == 0 || rollScore(outcome) > rollScore(best.outcome) {
			best = rollResult{outcome: outcome, dice: snap}
		}
	}
	return best
}

func chooseOffenseCard(hand []deck.PlayCard, call rules.DefenseCall, strategy OffenseStrategy, src dice.Source) deck.PlayCard {
	pick := func(cards []deck.PlayCard) deck.PlayCard {
		return cards[src.Intn(len(cards))]
	}
	switch strategy {
	case RandomCard:
		return pick(hand)
	case SafeBias:
		var safe []deck.PlayCard
		for _, c := range hand {
			if c.Type == deck.Run || c.Type == deck.Short {
				safe = append(safe, c)
			}
		}
		if len(safe) > 0 {
			return pick(safe)
		}
	case DeepBias:
		var deeps []deck.PlayCard
		for _, c := range hand {
			if c.Type == deck.Deep {
				deeps = append(deeps, c)
			}
		}
		if len(deeps) > 0 {
			return pick(deeps)
		}
	}
	// greedyEV, and the fallback when a bias finds nothing to prefer.
	best := hand[0]
	bestScore := math.MinInt
	for _, card := range hand {
		roll := simulateRollForCard(card, call, src, rules.DriveContext{})
		if score := rollScore(roll.outcome); score > bestScore {
			best, bestScore = card, score
		}
	}
	return best
}

func defenseChoice(card deck.PlayCard, strategy DefenseStrategy, src dice.Source, preGuess rules.DefenseCall) rules.DefenseCall {
	switch strategy {
	case RandomCall:
		return allCalls[src.Intn(len(allCalls))]
	case Guessy:
		if preGuess != rules.CallNone {
			return preGuess
		}
		return allCalls[src.Intn(len(allCalls))]
	}
	return rules.CounterFor(card.Type)
}

func (s *gameState) advanceClock(t deck.PlayType, success bool, pace float64, quartersTotal, quarterLength int) {
	cost := int(math.Ceil(float64(baseTimeCost(t, success)) * pace))
	s.secondsRemaining -= cost
	if s.secondsRemaining > 0 {
		return
	}
	s.secondsRemaining = 0
	switch {
	case !s.isOvertime && s.quarter < quartersTotal:
		s.quarter++
		s.secondsRemaining = quarterLength
	case !s.isOvertime:
		if s.scoreA == s.scoreB {
			s.isOvertime = true
			s.secondsRemaining = 180
		} else {
			s.gameOver = true
		}
	default:
		// Single sudden-death overtime.
		s.gameOver = true
	}
}

func baseTimeCost(t deck.PlayType, success bool) int {
	switch t {
	case deck.Run:
		return 30
	case deck.Short:
		if success {
			return 25
		}
		return 10
	case deck.Deep:
		if success {
			return 27
		}
		return 10
	case deck.Trick:
		if success {
			return 32
		}
		return 14
	default:
		return 25
	}
}

// restartDrive resets field position for a fresh possession after a score or
// turnover.
func (s *gameState) restartDrive(swapPossession bool) {
	if swapPossession {
		s.possessionA = !s.possessionA
	}
	s.ballPos = 20
	s.down = 1
	s.yardsToFirst = 10
	s.pressure = 0
}

// simulateGame plays one full game and returns its counters.
func simulateGame(cat *deck.Catalog, opts Options, src dice.Source) *GameResult {
	piles := deck.NewShuffledPiles(cat, src)

	state := &gameState{
		possessionA:      true,
		ballPos:          20,
		down:             1,
		yardsToFirst:     10,
		quarter:          1,
		secondsRemaining: opts.QuarterLengthSeconds,
	}

	result := &GameResult{
		ByPlayType: map[deck.PlayType]*TypeStats{
			deck.Run: {}, deck.Short: {}, deck.Deep: {}, deck.Trick: {},
		},
		Cards: make(map[int]*TypeStats, cat.Size()),
	}
	for _, c := range cat.Cards() {
		result.Cards[c.ID] = &TypeStats{}
	}

	for !state.gameOver {
		handIDs, err := piles.Draw(3, src)
		if err != nil {
			panic(err) // unreachable: the piles always hold the off-hand catalog
		}
		hand := make([]deck.PlayCard, 0, len(handIDs))
		for _, id := range handIDs {
			card, _ := cat.ByID(id)
			hand = append(hand, card)
		}

		// Guessy defenses commit before seeing the card; the offense's greedy
		// evaluation is allowed to read that same pre-guess.
		preGuess := rules.CallNone
		if opts.DefenseStrategy == Guessy {
			preGuess = allCalls[src.Intn(len(allCalls))]
		}
		chosen := chooseOffenseCard(hand, preGuess, opts.OffenseStrategy, src)
		call := defenseChoice(chosen, opts.DefenseStrategy, src, preGuess)

		best := simulateRollForCard(chosen, call, src, rules.DriveContext{
			Momentum:     state.momentum,
			Pressure:     state.pressure,
			TurnoverRisk: state.turnoverRisk,
		})
		outcome := best.outcome

		// Streak first, then the momentum yard bonus rides the updated meter.
		if outcome.Turnover || !outcome.Success {
			state.momentum = 0
			state.turnoverRisk = 0
		} else {
			state.momentum = min(3, state.momentum+1)
		}
		if outcome.Success && state.momentum > 0 {
			outcome.Yards += min(3, state.momentum)
		}
		state.turnoverRisk = min(2, state.turnoverRisk+outcome.TurnoverRiskDelta)

		result.Plays++
		result.Yards += outcome.Yards
		typeStats := result.ByPlayType[chosen.Type]
		typeStats.Plays++
		typeStats.Yards += outcome.Yards
		cardStats := result.Cards[chosen.ID]
		cardStats.Plays++

		if outcome.Success {
			result.SuccessPlays++
			typeStats.Success++
			cardStats.Success++
			cardStats.Yards += outcome.Yards
		} else if outcome.Yards > 0 {
			// Failed-but-positive plays still count toward per-card averages.
			cardStats.Yards += outcome.Yards
		}

		if outcome.Turnover {
			result.Turnovers++
			switch outcome.TurnoverType {
			case rules.TurnoverInterception:
				result.INTs++
				typeStats.INT++
				cardStats.INT++
			case rules.TurnoverFumbleLost:
				result.Fumbles++
				typeStats.Fumbles++
				cardStats.Fumbles++
			}
		}
		if outcome.Touchdown {
			result.TDs++
			typeStats.TD++
			cardStats.TD++
		}

		state.advanceClock(chosen.Type, outcome.Success || outcome.Touchdown,
			opts.PaceMultiplier, opts.QuartersTotal, opts.QuarterLengthSeconds)
		state.pressure = min(2, state.pressure+1)
		if state.gameOver {
			break
		}

		state.ballPos += outcome.Yards
		state.yardsToFirst -= outcome.Yards
		if outcome.Touchdown || state.ballPos >= 100 {
			// A drive that walks the ball past the goal line scores like a
			// touchdown payout.
			result.TDs++
			typeStats.TD++
			cardStats.TD++
			if state.possessionA {
				state.scoreA += 7
			} else {
				state.scoreB += 7
			}
			piles.Discard(handIDs...)
			state.restartDrive(true)
			continue
		}

		if outcome.Turnover {
			piles.Discard(handIDs...)
			state.restartDrive(true)
			continue
		}

		if state.yardsToFirst <= 0 {
			state.down = 1
			state.yardsToFirst = 10
			state.pressure = 0
		} else {
			state.down++
		}

		if state.down > 4 {
			piles.Discard(handIDs...)
			state.restartDrive(true)
		} else {
			piles.Discard(handIDs...)
		}
	}

	result.FinalScore = Score{A: state.scoreA, B: state.scoreB}
	return result
}
