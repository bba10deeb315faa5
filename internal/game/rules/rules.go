// Package rules implements the deterministic play-resolution engine: dice
// pattern detection, defensive adjustments, and the outcome resolver.
package rules

import (
	"sort"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
)

// Version identifies the tuned rule set; it is stamped into simulation reports
// so balance runs stay comparable across rule changes.
const Version = "dev-sim-1"

// DefenseCall is the defensive play call for a down.
type DefenseCall string

const (
	// CallStack stacks the box; strong against RUN plays.
	CallStack DefenseCall = "STACK"
	// CallTight plays tight coverage; prunes a SHORT card's easiest target.
	CallTight DefenseCall = "TIGHT"
	// CallDeep drops a deep shell; downgrades a DEEP card's Yahtzee touchdown.
	CallDeep DefenseCall = "DEEP"
	// CallNone is the unset state; valid only before a call is made, never at
	// resolution time.
	CallNone DefenseCall = "NONE"
)

// Callable reports whether c is a real call the defense can make.
func (c DefenseCall) Callable() bool {
	return c == CallStack || c == CallTight || c == CallDeep
}

// Counters reports whether the call is the canonical counter for the play type
// (STACK vs RUN, TIGHT vs SHORT, DEEP vs DEEP).
func (c DefenseCall) Counters(t deck.PlayType) bool {
	switch c {
	case CallStack:
		return t == deck.Run
	case CallTight:
		return t == deck.Short
	case CallDeep:
		return t == deck.Deep
	default:
		return false
	}
}

// CounterFor returns the canonical defensive counter for a play type.
// TRICK plays have no dedicated counter; STACK is returned for them.
func CounterFor(t deck.PlayType) DefenseCall {
	switch t {
	case deck.Run:
		return CallStack
	case deck.Short:
		return CallTight
	case deck.Deep:
		return CallDeep
	default:
		return CallStack
	}
}

// TurnoverType classifies how the offense lost the ball.
type TurnoverType string

const (
	TurnoverNone         TurnoverType = ""
	TurnoverInterception TurnoverType = "INTERCEPTION"
	TurnoverFumbleLost   TurnoverType = "FUMBLE_LOST"
	TurnoverDowns        TurnoverType = "DOWNS"
	// TurnoverCancelled marks a turnover voided by a spent cancel token; the
	// offense keeps the ball.
	TurnoverCancelled TurnoverType = "CANCELLED"
)

// DetectPatterns returns every pattern satisfied by the five dice. Patterns
// are not mutually exclusive: a Yahtzee also reports four- and three-of-a-kind.
//
// Precondition: every die is in [1, 6].
// Postcondition: Returns a possibly empty slice in fixed report order with no
// duplicates.
func DetectPatterns(dice [5]int) []deck.Pattern {
	var counts [7]int
	for _, d := range dice {
		counts[d]++
	}

	hasN := func(n int) bool {
		for v := 1; v <= 6; v++ {
			if counts[v] >= n {
				return true
			}
		}
		return false
	}

	var matches []deck.Pattern
	if hasN(5) {
		matches = append(matches, deck.Yahtzee)
	}
	if hasN(4) {
		matches = append(matches, deck.FourKind)
	}
	hasTriple, hasPairExact := false, false
	pairs := 0
	for v := 1; v <= 6; v++ {
		if counts[v] == 3 {
			hasTriple = true
		}
		if counts[v] == 2 {
			hasPairExact = true
		}
		if counts[v] >= 2 {
			pairs++
		}
	}
	if hasTriple && hasPairExact {
		matches = append(matches, deck.FullHouse)
	}
	if hasN(3) {
		matches = append(matches, deck.ThreeKind)
	}
	if pairs >= 2 {
		matches = append(matches, deck.TwoPair)
	}

	distinct := 0
	for v := 1; v <= 6; v++ {
		if counts[v] > 0 {
			distinct++
		}
	}
	if distinct == 5 && (counts[1] == 0 || counts[6] == 0) {
		matches = append(matches, deck.LargeStraight)
	}

	sequences := [][4]int{{1, 2, 3, 4}, {2, 3, 4, 5}, {3, 4, 5, 6}}
	for _, seq := range sequences {
		found := true
		for _, v := range seq {
			if counts[v] == 0 {
				found = false
				break
			}
		}
		if found {
			matches = append(matches, deck.SmallStraight)
			break
		}
	}

	return matches
}

// AdjustForDefense returns a copy of the card with the defensive call applied.
// Only two adjustments exist: TIGHT prunes a SHORT card's lowest-payout target,
// and DEEP downgrades a DEEP card's Yahtzee touchdown to a fixed 12 yards.
//
// Postcondition: card is unmodified; the returned card is an independent copy.
func AdjustForDefense(card deck.PlayCard, call DefenseCall) deck.PlayCard {
	adjusted := card.Clone()
	if call == CallTight && card.Type == deck.Short {
		adjusted.Targets = removeWorstTarget(card)
	}
	if call == CallDeep && card.Type == deck.Deep {
		if payout, ok := adjusted.Outcomes[deck.Yahtzee]; ok && payout.Touchdown {
			adjusted.Outcomes[deck.Yahtzee] = deck.Payout{Yards: 12}
		}
	}
	return adjusted
}

// removeWorstTarget drops the lowest-payout target, breaking payout ties by
// list order. A touchdown payout ranks highest and is never removed this way.
func removeWorstTarget(card deck.PlayCard) []deck.Pattern {
	sorted := make([]deck.Pattern, len(card.Targets))
	copy(sorted, card.Targets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return card.TargetRank(sorted[i]) < card.TargetRank(sorted[j])
	})
	return sorted[1:]
}
