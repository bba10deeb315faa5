// Package dice provides the randomness abstraction and snap-roll helpers
// for the drivecontrol rules engine.
package dice

// SnapSize is the number of dice rolled for one play resolution.
const SnapSize = 5

// Sides is the number of faces on every die in the game.
const Sides = 6

// Source is the randomness provider for dice rolls.
//
// Live-play sources must be safe for concurrent use; simulation sources
// may be single-goroutine only (see NewSeededSource).
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollDie rolls a single d6 using src.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a value in [1, 6].
func RollDie(src Source) int {
	return src.Intn(Sides) + 1
}

// RollSnap rolls the five dice for one play.
//
// Precondition: src must be non-nil.
// Postcondition: Every element of the result is in [1, 6].
func RollSnap(src Source) [SnapSize]int {
	var snap [SnapSize]int
	for i := range snap {
		snap[i] = RollDie(src)
	}
	return snap
}

// Shuffle performs an in-place Fisher-Yates shuffle of ids using src.
//
// Precondition: src must be non-nil.
// Postcondition: ids holds the same elements in permuted order.
func Shuffle(ids []int, src Source) {
	for i := len(ids) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
