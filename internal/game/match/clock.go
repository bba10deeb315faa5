package match

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
)

// baseTimeCost is the unscaled clock cost of a play in seconds. Failed passing
// and trick plays stop the clock early.
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
		return 30
	}
}

// advanceClock subtracts the play's time cost (scaled by pace, rounded up)
// and runs the quarter transition when the clock hits zero. A paused clock
// costs nothing.
func (m *Match) advanceClock(t deck.PlayType, success bool) {
	if !m.clock.Running {
		return
	}
	cost := int(math.Ceil(float64(baseTimeCost(t, success)) * m.clock.PaceMultiplier))
	m.clock.SecondsRemaining -= cost
	if m.clock.SecondsRemaining <= 0 {
		m.clock.SecondsRemaining = 0
		m.handleQuarterEnd()
	}
}

// handleQuarterEnd runs the regulation/overtime/game-over transition for an
// expired clock. Overtime is a single sudden-death period; an expired overtime
// ends the game even when still tied.
func (m *Match) handleQuarterEnd() {
	if m.gameOver {
		return
	}
	if !m.clock.IsOvertime {
		if m.clock.Quarter < m.clock.QuartersTotal {
			m.clock.Quarter++
			m.clock.SecondsRemaining = m.clock.QuarterLengthSeconds
			m.logger.Info("quarter ended", zap.Int("quarter", m.clock.Quarter))
			return
		}
		if m.teams[TeamA].Score == m.teams[TeamB].Score {
			m.startOvertime()
		} else {
			m.gameOver = true
			m.logger.Info("game over at end of regulation")
		}
		return
	}
	m.gameOver = true
	m.logger.Info("game over at end of overtime")
}

func (m *Match) startOvertime() {
	m.clock.IsOvertime = true
	m.clock.OvertimeNumber++
	m.clock.SecondsRemaining = m.clock.OvertimeLengthSeconds
	m.clock.Quarter = m.clock.QuartersTotal + m.clock.OvertimeNumber
	m.logger.Info("overtime started", zap.Int("overtime", m.clock.OvertimeNumber))
}

// PauseClock stops game time; plays still resolve but cost nothing.
func (m *Match) PauseClock() { m.clock.Running = false }

// ResumeClock restarts game time.
func (m *Match) ResumeClock() { m.clock.Running = true }

// ForceEndQuarter zeroes the clock and runs the same transition as natural
// expiry.
func (m *Match) ForceEndQuarter() {
	m.clock.SecondsRemaining = 0
	m.handleQuarterEnd()
}
