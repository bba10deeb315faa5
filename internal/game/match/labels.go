package match

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
)

// Ordinal renders a down number ("1st", "2nd", "3rd", "4th").
func Ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// FormatDownDistance renders the classic "3rd & 7" string.
func FormatDownDistance(d DriveState) string {
	return fmt.Sprintf("%s & %d", Ordinal(d.Down), d.YardsToFirst)
}

// FormatField renders the ball spot from the offense's perspective
// ("Own 20", "Opp 35"). Midfield reads as "Opp 50".
func FormatField(ballPos int) string {
	if ballPos >= 50 {
		return fmt.Sprintf("Opp %d", 100-ballPos)
	}
	return fmt.Sprintf("Own %d", ballPos)
}

// FormatClock renders remaining seconds as "M:SS".
func FormatClock(seconds int) string {
	s := max(0, seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// FormatQuarter renders the period indicator ("Q2", "OT1").
func FormatQuarter(c ClockState) string {
	if c.IsOvertime {
		return fmt.Sprintf("OT%d", max(1, c.OvertimeNumber))
	}
	return fmt.Sprintf("Q%d", c.Quarter)
}

var patternLabels = map[deck.Pattern]string{
	deck.Yahtzee:       "Yahtzee",
	deck.FourKind:      "Four of a Kind",
	deck.ThreeKind:     "Three of a Kind",
	deck.FullHouse:     "Full House",
	deck.TwoPair:       "Two Pair",
	deck.SmallStraight: "Small Straight",
	deck.LargeStraight: "Large Straight",
}

// PatternLabel renders a pattern for display ("FULL_HOUSE" reads as
// "Full House"). Unknown keys are title-cased word by word.
func PatternLabel(p deck.Pattern) string {
	if label, ok := patternLabels[p]; ok {
		return label
	}
	words := strings.Split(strings.ToLower(string(p)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
