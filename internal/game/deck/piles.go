package deck

import (
	"fmt"

	"github.com/cory-johannsen/drivecontrol/internal/game/dice"
)

// Piles tracks which catalog cards sit in the draw pile and which sit in the
// discard pile. Cards held in a hand belong to neither pile.
//
// Invariant: draw and discard never share an id and never hold duplicates;
// together with any outstanding hand they partition the full catalog.
type Piles struct {
	draw    []int
	discard []int
}

// NewShuffledPiles creates piles with the whole catalog shuffled into the
// draw pile.
//
// Precondition: cat and src must be non-nil.
// Postcondition: The draw pile holds every catalog id exactly once; the
// discard pile is empty.
func NewShuffledPiles(cat *Catalog, src dice.Source) *Piles {
	ids := cat.IDs()
	dice.Shuffle(ids, src)
	return &Piles{draw: ids}
}

// RestorePiles rebuilds piles from snapshot data, without validation against
// a catalog (the caller owns the partition invariant across hand + piles).
func RestorePiles(draw, discard []int) *Piles {
	p := &Piles{
		draw:    make([]int, len(draw)),
		discard: make([]int, len(discard)),
	}
	copy(p.draw, draw)
	copy(p.discard, discard)
	return p
}

// Draw removes and returns n card ids from the draw pile. When the draw pile
// empties mid-draw, the discard pile is shuffled back in, so callers never see
// an exhausted deck.
//
// Precondition: n <= total cards across both piles; src must be non-nil.
// Postcondition: Returns exactly n ids, each removed from the piles.
func (p *Piles) Draw(n int, src dice.Source) ([]int, error) {
	out := make([]int, 0, n)
	for len(out) < n {
		if len(p.draw) == 0 {
			if len(p.discard) == 0 {
				return nil, fmt.Errorf("drawing %d cards: only %d available", n, len(out))
			}
			p.draw = p.discard
			p.discard = nil
			dice.Shuffle(p.draw, src)
		}
		last := len(p.draw) - 1
		out = append(out, p.draw[last])
		p.draw = p.draw[:last]
	}
	return out, nil
}

// Discard places the given card ids onto the discard pile.
func (p *Piles) Discard(ids ...int) {
	p.discard = append(p.discard, ids...)
}

// DrawIDs returns a copy of the draw pile (top of pile last).
func (p *Piles) DrawIDs() []int {
	out := make([]int, len(p.draw))
	copy(out, p.draw)
	return out
}

// DiscardIDs returns a copy of the discard pile.
func (p *Piles) DiscardIDs() []int {
	out := make([]int, len(p.discard))
	copy(out, p.discard)
	return out
}

// Count returns the total number of cards across both piles.
func (p *Piles) Count() int { return len(p.draw) + len(p.discard) }
