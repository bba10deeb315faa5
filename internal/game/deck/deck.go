// Package deck defines the immutable play-card catalog and the draw/discard
// piles a match plays from.
package deck

import "fmt"

// Pattern is a poker-style dice pattern a play card can target.
type Pattern string

const (
	TwoPair       Pattern = "TWO_PAIR"
	ThreeKind     Pattern = "THREE_KIND"
	FourKind      Pattern = "FOUR_KIND"
	FullHouse     Pattern = "FULL_HOUSE"
	SmallStraight Pattern = "SMALL_STRAIGHT"
	LargeStraight Pattern = "LARGE_STRAIGHT"
	Yahtzee       Pattern = "YAHTZEE"
)

// AllPatterns lists every pattern in detection-report order.
var AllPatterns = []Pattern{
	Yahtzee, FourKind, FullHouse, ThreeKind, TwoPair, LargeStraight, SmallStraight,
}

// Valid reports whether p is one of the seven known patterns.
func (p Pattern) Valid() bool {
	for _, known := range AllPatterns {
		if p == known {
			return true
		}
	}
	return false
}

// PlayType is the offensive play category of a card.
type PlayType string

const (
	Run   PlayType = "RUN"
	Short PlayType = "SHORT"
	Deep  PlayType = "DEEP"
	Trick PlayType = "TRICK"
)

// AllPlayTypes lists the four play categories.
var AllPlayTypes = []PlayType{Run, Short, Deep, Trick}

// Valid reports whether t is one of the four play types.
func (t PlayType) Valid() bool {
	return t == Run || t == Short || t == Deep || t == Trick
}

// touchdownRank is the comparison value of a touchdown payout. It outranks
// every numeric yardage a card can carry.
const touchdownRank = 999

// Payout is the tagged yards-or-touchdown result a target pattern pays.
//
// Invariant: Touchdown and a non-zero Yards are mutually exclusive.
type Payout struct {
	Yards     int
	Touchdown bool
}

// Rank returns the payout's comparison value; touchdowns outrank all yardage.
func (p Payout) Rank() int {
	if p.Touchdown {
		return touchdownRank
	}
	return p.Yards
}

// BonusTriggerAnySuccess marks a momentum bonus that fires on any successful
// resolution, not just a specific pattern.
const BonusTriggerAnySuccess = "ANY_SUCCESS"

// Bonus is an optional momentum reward attached to a card.
type Bonus struct {
	// Trigger is either BonusTriggerAnySuccess or a specific Pattern string.
	Trigger string `yaml:"trigger"`
	// Amount is the momentum points granted when the trigger fires.
	Amount int `yaml:"amount"`
}

// Fires reports whether the bonus triggers for the settled pattern.
func (b *Bonus) Fires(settled Pattern) bool {
	if b == nil {
		return false
	}
	return b.Trigger == BonusTriggerAnySuccess || b.Trigger == string(settled)
}

// PlayCard is one immutable entry in the catalog.
//
// Invariant: Targets holds exactly 3 distinct patterns in ascending intent
// order (last is the card's best target); Outcomes has a payout for each.
type PlayCard struct {
	ID        int
	Name      string
	Type      PlayType
	Targets   []Pattern
	Outcomes  map[Pattern]Payout
	FailYards int
	Bonus     *Bonus
	// RiskTag is informational flavor only; no rules logic reads it.
	RiskTag string
}

// Clone returns a deep copy of the card so adjustments never alias catalog data.
//
// Postcondition: Mutating the returned card's Targets or Outcomes leaves the
// receiver unchanged.
func (c PlayCard) Clone() PlayCard {
	out := c
	out.Targets = make([]Pattern, len(c.Targets))
	copy(out.Targets, c.Targets)
	out.Outcomes = make(map[Pattern]Payout, len(c.Outcomes))
	for k, v := range c.Outcomes {
		out.Outcomes[k] = v
	}
	if c.Bonus != nil {
		b := *c.Bonus
		out.Bonus = &b
	}
	return out
}

// TargetRank returns the payout rank for the given target pattern, or 0 when
// the card has no payout for it.
func (c PlayCard) TargetRank(p Pattern) int {
	payout, ok := c.Outcomes[p]
	if !ok {
		return 0
	}
	return payout.Rank()
}

// BestTarget returns the card's highest-intent target (last in the list).
//
// Precondition: the card came from a validated catalog (len(Targets) > 0).
func (c PlayCard) BestTarget() Pattern {
	return c.Targets[len(c.Targets)-1]
}

func (c PlayCard) validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("card %q: id must be positive, got %d", c.Name, c.ID)
	}
	if c.Name == "" {
		return fmt.Errorf("card %d: name must not be empty", c.ID)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("card %d: unknown play type %q", c.ID, c.Type)
	}
	if len(c.Targets) != 3 {
		return fmt.Errorf("card %d: must have exactly 3 targets, got %d", c.ID, len(c.Targets))
	}
	seen := make(map[Pattern]bool, len(c.Targets))
	for _, t := range c.Targets {
		if !t.Valid() {
			return fmt.Errorf("card %d: unknown target pattern %q", c.ID, t)
		}
		if seen[t] {
			return fmt.Errorf("card %d: duplicate target pattern %q", c.ID, t)
		}
		seen[t] = true
		if _, ok := c.Outcomes[t]; !ok {
			return fmt.Errorf("card %d: missing outcome for target %q", c.ID, t)
		}
	}
	if len(c.Outcomes) != len(c.Targets) {
		return fmt.Errorf("card %d: outcomes must cover targets exactly, got %d entries", c.ID, len(c.Outcomes))
	}
	if c.FailYards < 0 {
		return fmt.Errorf("card %d: fail_yards must not be negative, got %d", c.ID, c.FailYards)
	}
	if c.Bonus != nil {
		if c.Bonus.Amount < 1 {
			return fmt.Errorf("card %d: bonus amount must be >= 1, got %d", c.ID, c.Bonus.Amount)
		}
		if c.Bonus.Trigger != BonusTriggerAnySuccess && !Pattern(c.Bonus.Trigger).Valid() {
			return fmt.Errorf("card %d: unknown bonus trigger %q", c.ID, c.Bonus.Trigger)
		}
	}
	return nil
}
