package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every snap roll is auditable.
// Rolls are logged at debug level with the individual die values.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Snap rolls the five play dice and logs the result.
//
// Postcondition: Every element of the result is in [1, 6]; the roll is logged.
func (r *Roller) Snap() [SnapSize]int {
	snap := RollSnap(r.src)
	r.logger.Debug("snap roll", zap.Ints("dice", snap[:]))
	return snap
}

// Die rolls a single d6 and logs the result. Used for kick attempts.
//
// Postcondition: Returns a value in [1, 6]; the roll is logged.
func (r *Roller) Die() int {
	v := RollDie(r.src)
	r.logger.Debug("die roll", zap.Int("value", v))
	return v
}

// Source returns the underlying randomness source for callers that need to
// pass it to the resolver directly.
func (r *Roller) Source() Source { return r.src }
