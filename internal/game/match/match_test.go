package match_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/dice"
	"github.com/cory-johannsen/drivecontrol/internal/game/match"
	"github.com/cory-johannsen/drivecontrol/internal/game/rules"
)

func catalog(t testing.TB) *deck.Catalog {
	t.Helper()
	cat, err := deck.DefaultCatalog()
	require.NoError(t, err)
	return cat
}

func defaultSetup() match.Setup {
	return match.Setup{
		Players: []match.PlayerSetup{
			{Name: "Alice", TeamID: match.TeamA},
			{Name: "Bob", TeamID: match.TeamB},
		},
		ReceivingTeamID:      match.TeamA,
		QuarterLengthSeconds: 360,
		QuartersTotal:        4,
		RunningClock:         true,
		PaceMultiplier:       1,
	}
}

func newTestMatch(t testing.TB, seed uint64) *match.Match {
	t.Helper()
	roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
	m, err := match.New(catalog(t), defaultSetup(), roller, nil)
	require.NoError(t, err)
	return m
}

// fixture rebuilds a fresh match with the snapshot mutated by mutate, letting
// tests pin exact hands, dice, and drive state.
func fixture(t testing.TB, mutate func(s *match.Snapshot)) *match.Match {
	t.Helper()
	cat := catalog(t)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop())
	m, err := match.New(cat, defaultSetup(), roller, nil)
	require.NoError(t, err)
	s := m.Snapshot()
	if mutate != nil {
		mutate(&s)
	}
	return match.Restore(cat, s, roller, nil)
}

// setHand forces the current hand to the given card ids, keeping the pile
// partition intact.
func setHand(s *match.Snapshot, ids ...int) {
	s.Hand.CardIDs = ids
	s.DiscardPileIDs = nil
	s.DrawPileIDs = nil
	for id := 1; id <= deck.CatalogSize; id++ {
		inHand := false
		for _, h := range ids {
			if h == id {
				inHand = true
			}
		}
		if !inHand {
			s.DrawPileIDs = append(s.DrawPileIDs, id)
		}
	}
}

// TestSetup_Validate covers the legal and illegal team formats.
func TestSetup_Validate(t *testing.T) {
	players := func(a, b int) []match.PlayerSetup {
		var out []match.PlayerSetup
		for i := 0; i < a; i++ {
			out = append(out, match.PlayerSetup{Name: "A", TeamID: match.TeamA})
		}
		for i := 0; i < b; i++ {
			out = append(out, match.PlayerSetup{Name: "B", TeamID: match.TeamB})
		}
		return out
	}

	tests := []struct {
		name    string
		a, b    int
		wantErr error
	}{
		{"1v1", 1, 1, nil},
		{"2v1", 2, 1, nil},
		{"1v2", 1, 2, nil},
		{"2v2", 2, 2, nil},
		{"solo", 1, 0, match.ErrInvalidTeamSplit},
		{"2v0", 2, 0, match.ErrInvalidTeamSplit},
		{"3v0", 3, 0, match.ErrInvalidTeamSplit},
		{"3v1", 3, 1, match.ErrInvalidTeamSplit},
		{"3v2", 3, 2, match.ErrInvalidTeamSplit},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := defaultSetup()
			s.Players = players(tc.a, tc.b)
			err := s.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}

	t.Run("bad receiving team", func(t *testing.T) {
		s := defaultSetup()
		s.ReceivingTeamID = "C"
		assert.ErrorIs(t, s.Validate(), match.ErrInvalidReceivingTeam)
	})
	t.Run("bad clock settings", func(t *testing.T) {
		s := defaultSetup()
		s.QuarterLengthSeconds = 0
		assert.ErrorIs(t, s.Validate(), match.ErrInvalidClockSettings)
	})
}

// TestNew_StartsOpeningPossession verifies construction draws the first hand
// and hands the ball to the receiving team at their own 20.
func TestNew_StartsOpeningPossession(t *testing.T) {
	m := newTestMatch(t, 1)

	drive := m.Drive()
	assert.Equal(t, 20, drive.BallPos)
	assert.Equal(t, 1, drive.Down)
	assert.Equal(t, 10, drive.YardsToFirst)
	assert.Equal(t, match.TeamA, m.PossessionTeamID())
	assert.Equal(t, match.TeamB, m.DefenseTeamID())
	assert.Len(t, m.Hand().CardIDs, 3)
	assert.Equal(t, "Alice", m.ActivePlayerName())

	draw, discard := m.DeckCounts()
	assert.Equal(t, deck.CatalogSize-3, draw+discard)
}

// TestNew_SoloAdvantage verifies the lone player in a 3-player format starts
// each possession with bonus momentum.
func TestNew_SoloAdvantage(t *testing.T) {
	setup := defaultSetup()
	setup.Players = []match.PlayerSetup{
		{Name: "Alice", TeamID: match.TeamA},
		{Name: "Ann", TeamID: match.TeamA},
		{Name: "Bob", TeamID: match.TeamB},
	}
	setup.ReceivingTeamID = match.TeamB
	setup.SoloAdvantage = true

	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop())
	m, err := match.New(catalog(t), setup, roller, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Drive().Momentum, "solo offense starts hot")
}

// TestResolvePlay_Preconditions verifies missing calls error out without
// mutating any state.
func TestResolvePlay_Preconditions(t *testing.T) {
	m := newTestMatch(t, 2)
	before := m.Snapshot()

	_, err := m.ResolvePlay()
	assert.ErrorIs(t, err, match.ErrNoCardSelected)
	assert.Equal(t, before, m.Snapshot(), "failed precondition must not mutate state")

	require.NoError(t, m.SelectCard(m.Hand().CardIDs[0]))
	before = m.Snapshot()
	_, err = m.ResolvePlay()
	assert.ErrorIs(t, err, match.ErrNoDefenseCall)
	assert.Equal(t, before, m.Snapshot(), "failed precondition must not mutate state")
}

// TestResolvePlay_AfterGameOver verifies the terminal state rejects further
// plays and kicks.
func TestResolvePlay_AfterGameOver(t *testing.T) {
	m := newTestMatch(t, 3)
	// Regulation expires tied, then sudden death expires.
	for i := 0; i < 5; i++ {
		m.ForceEndQuarter()
	}
	require.True(t, m.GameOver())

	require.NoError(t, m.SelectCard(m.Hand().CardIDs[0]))
	require.NoError(t, m.SetDefenseCall(rules.CallStack))
	_, err := m.ResolvePlay()
	assert.ErrorIs(t, err, match.ErrGameOver)
	_, err = m.AttemptFieldGoal(4)
	assert.ErrorIs(t, err, match.ErrGameOver)
}

// TestResolvePlay_Touchdown runs the Goal Line Push Yahtzee and verifies
// scoring, possession change, and that being scored on banks no bonus.
func TestResolvePlay_Touchdown(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		setHand(s, 5, 1, 12)
		s.Hand.SelectedCardID = 5
		s.Hand.DefenseCall = rules.CallStack
		s.Hand.Dice = [5]int{6, 6, 6, 6, 6}
	})

	res, err := m.ResolvePlay()
	require.NoError(t, err)

	assert.True(t, res.Touchdown)
	assert.Equal(t, "Touchdown!", res.Message)
	assert.Equal(t, "Goal Line Push", res.PlayName)
	require.NotNil(t, res.Outcome)
	assert.Equal(t, 0, res.Outcome.Yards)
	assert.Equal(t, 7, m.Score(match.TeamA))
	assert.Equal(t, match.TeamB, m.PossessionTeamID(), "kickoff after the score")
	assert.Equal(t, 20, m.Drive().BallPos)
	assert.Equal(t, 0, m.Team(match.TeamB).NextDriveMomentumBonus,
		"being scored on banks nothing")
	assert.Equal(t, 360-30, m.Clock().SecondsRemaining, "RUN costs 30 seconds")
}

// TestResolvePlay_MissAdvancesDown verifies the fixed scenario: a miss from a
// fresh drive pays fail yards, burns a down, and builds pressure.
func TestResolvePlay_MissAdvancesDown(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		setHand(s, 13, 1, 22)
		s.Hand.SelectedCardID = 13 // Hitch Route, fail_yards 1
		s.Hand.DefenseCall = rules.CallDeep
		s.Hand.Dice = [5]int{2, 3, 4, 5, 1} // straights only; Hitch misses
	})

	res, err := m.ResolvePlay()
	require.NoError(t, err)

	assert.False(t, res.Outcome.Success)
	assert.False(t, res.FirstDown)
	drive := m.Drive()
	assert.Equal(t, 2, drive.Down)
	assert.Equal(t, 21, drive.BallPos)
	assert.Equal(t, 9, drive.YardsToFirst)
	assert.Equal(t, 0, drive.Momentum)
	assert.Equal(t, 1, drive.Pressure)
	assert.Len(t, m.Hand().CardIDs, 3, "next down's hand is drawn")
}

// TestResolvePlay_FirstDown verifies a chain-moving gain resets the series
// and clears pressure.
func TestResolvePlay_FirstDown(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		setHand(s, 22, 1, 12)
		s.Hand.SelectedCardID = 22 // Deep Post, LARGE_STRAIGHT pays 13
		s.Hand.DefenseCall = rules.CallStack
		s.Hand.Dice = [5]int{1, 2, 3, 4, 5}
		s.Drive.Pressure = 2
	})

	res, err := m.ResolvePlay()
	require.NoError(t, err)

	assert.True(t, res.FirstDown)
	drive := m.Drive()
	assert.Equal(t, 1, drive.Down)
	assert.Equal(t, 10, drive.YardsToFirst)
	assert.Equal(t, 33, drive.BallPos)
	assert.Equal(t, 0, drive.Pressure, "first down clears pressure")
	assert.Equal(t, 2, drive.Momentum, "big gain plus streak")
}

// TestResolvePlay_Interception verifies a hot offense throwing into two ones
// loses the ball, and that the forcing team's banked bonus is consumed (and
// then zeroed) by its own fresh possession.
func TestResolvePlay_Interception(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		setHand(s, 13, 1, 22)
		s.Hand.SelectedCardID = 13
		s.Hand.DefenseCall = rules.CallDeep
		s.Hand.Dice = [5]int{1, 1, 2, 3, 5}
		s.Drive.Momentum = 1
	})

	res, err := m.ResolvePlay()
	require.NoError(t, err)

	assert.True(t, res.Turnover)
	assert.Equal(t, rules.TurnoverInterception, res.TurnoverType)
	assert.Equal(t, "Interception!", res.Message)
	assert.Equal(t, 21, res.TurnoverSpot, "fail yards applied before the spot is recorded")
	assert.Equal(t, match.TeamB, m.PossessionTeamID())
	assert.Equal(t, 20, m.Drive().BallPos)
	assert.Equal(t, 0, m.Team(match.TeamB).NextDriveMomentumBonus,
		"banked bonus is consumed by the takeaway possession")
	assert.Equal(t, 0, m.Drive().Momentum)
}

// TestResolvePlay_TurnoverOnDowns verifies a failed 4th down hands the ball
// over and banks a bonus for the stop.
func TestResolvePlay_TurnoverOnDowns(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		setHand(s, 13, 1, 22)
		s.Hand.SelectedCardID = 13
		s.Hand.DefenseCall = rules.CallDeep
		s.Hand.Dice = [5]int{2, 3, 4, 6, 6} // no pattern; miss
		s.Drive.Down = 4
	})

	res, err := m.ResolvePlay()
	require.NoError(t, err)

	assert.True(t, res.Turnover)
	assert.Equal(t, rules.TurnoverDowns, res.TurnoverType)
	assert.Equal(t, "Turnover on downs.", res.Message)
	assert.Equal(t, match.TeamB, m.PossessionTeamID())
	assert.Equal(t, 1, m.Drive().Down)
}

// TestResolvePlay_CashOut verifies the guaranteed-gain branch trades the
// streak for four yards.
func TestResolvePlay_CashOut(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		setHand(s, 1, 12, 22)
		s.Hand.SelectedCardID = 1
		s.Hand.DefenseCall = rules.CallStack
		s.Drive.Momentum = 2
	})
	require.NoError(t, m.SelectCashOut())

	res, err := m.ResolvePlay()
	require.NoError(t, err)

	assert.Equal(t, "Cashed out for +4 yards.", res.Message)
	assert.Equal(t, 4, res.Outcome.Yards)
	drive := m.Drive()
	assert.Equal(t, 24, drive.BallPos)
	assert.Equal(t, 2, drive.Down)
	assert.Equal(t, 6, drive.YardsToFirst)
	assert.Equal(t, 0, drive.Momentum, "cashing out spends the whole streak")
	assert.Equal(t, 1, drive.Pressure)
}

// TestSelectCashOut_RequiresMomentum verifies the cash-out gate.
func TestSelectCashOut_RequiresMomentum(t *testing.T) {
	m := newTestMatch(t, 4)
	assert.ErrorIs(t, m.SelectCashOut(), match.ErrCashOutNeedsStreak)
}

// TestArmTurnoverCancel verifies the one-shot token costs momentum, cancels a
// turnover, and cannot be re-armed.
func TestArmTurnoverCancel(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		setHand(s, 13, 1, 22)
		s.Hand.SelectedCardID = 13
		s.Hand.DefenseCall = rules.CallDeep
		s.Hand.Dice = [5]int{1, 1, 2, 3, 5} // interception bait
		s.Drive.Momentum = 2
	})

	require.NoError(t, m.ArmTurnoverCancel())
	assert.Equal(t, 1, m.Drive().Momentum, "arming costs one momentum")
	assert.ErrorIs(t, m.ArmTurnoverCancel(), match.ErrCancelUnavailable)

	res, err := m.ResolvePlay()
	require.NoError(t, err)

	assert.False(t, res.Turnover, "the armed token voids the takeaway")
	assert.Equal(t, rules.TurnoverCancelled, res.Outcome.TurnoverType)
	assert.Equal(t, match.TeamA, m.PossessionTeamID(), "offense keeps the ball")
	assert.False(t, m.Drive().TurnoverCancelToken, "token is spent")
}

// TestAudible verifies the once-per-drive redraw.
func TestAudible(t *testing.T) {
	m := newTestMatch(t, 5)
	before := m.Hand().CardIDs

	require.NoError(t, m.Audible())
	after := m.Hand().CardIDs
	assert.Len(t, after, 3)
	assert.NotEqual(t, before, after, "audible redraws the hand")
	assert.ErrorIs(t, m.Audible(), match.ErrAudibleUsed)

	draw, discard := m.DeckCounts()
	assert.Equal(t, deck.CatalogSize-3, draw+discard, "piles plus hand still cover the catalog")
}

// TestUndo verifies the one-deep history restores the pre-play state and
// cannot be replayed.
func TestUndo(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		setHand(s, 13, 1, 22)
		s.Hand.SelectedCardID = 13
		s.Hand.DefenseCall = rules.CallDeep
		s.Hand.Dice = [5]int{2, 3, 4, 5, 1}
	})
	before := m.Snapshot()
	before.History = nil

	_, err := m.ResolvePlay()
	require.NoError(t, err)
	require.NoError(t, m.Undo())

	restored := m.Snapshot()
	restored.History = nil
	assert.Equal(t, before, restored, "undo must restore the pre-play state")
	assert.ErrorIs(t, m.Undo(), match.ErrNothingToUndo)
}

// TestAttemptFieldGoal_Scenario verifies the fixed kick: distance 30 needs a
// 3, momentum 2 boosts the 2 into a make.
func TestAttemptFieldGoal_Scenario(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		s.Drive.Down = 4
		s.Drive.BallPos = 70
		s.Drive.Momentum = 2
	})

	res, err := m.AttemptFieldGoal(2)
	require.NoError(t, err)

	assert.True(t, res.FieldGoal)
	assert.True(t, res.FieldGoalMade)
	assert.Equal(t, 70, res.TurnoverSpot)
	assert.Equal(t, 3, m.Score(match.TeamA))
	assert.Equal(t, match.TeamB, m.PossessionTeamID())
	assert.Equal(t, 0, m.Drive().Momentum)
	assert.Equal(t, 360-20, m.Clock().SecondsRemaining, "a made kick costs 20 seconds")
}

// TestAttemptFieldGoal_Preconditions covers the down, range, and roll gates.
func TestAttemptFieldGoal_Preconditions(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		s.Drive.Down = 3
		s.Drive.BallPos = 70
	})
	_, err := m.AttemptFieldGoal(4)
	assert.ErrorIs(t, err, match.ErrNotFourthDown)

	m = fixture(t, func(s *match.Snapshot) {
		s.Drive.Down = 4
		s.Drive.BallPos = 50
	})
	_, err = m.AttemptFieldGoal(4)
	assert.ErrorIs(t, err, match.ErrOutOfFieldGoalRange)

	m = fixture(t, func(s *match.Snapshot) {
		s.Drive.Down = 4
		s.Drive.BallPos = 70
	})
	_, err = m.AttemptFieldGoal(7)
	assert.ErrorIs(t, err, match.ErrInvalidKickRoll)
}

// TestClock_QuarterAndOvertime verifies the regulation, overtime, and
// game-over transitions of a tied game.
func TestClock_QuarterAndOvertime(t *testing.T) {
	m := newTestMatch(t, 6)

	for q := 2; q <= 4; q++ {
		m.ForceEndQuarter()
		assert.Equal(t, q, m.Clock().Quarter)
		assert.Equal(t, 360, m.Clock().SecondsRemaining)
	}

	m.ForceEndQuarter()
	clock := m.Clock()
	assert.True(t, clock.IsOvertime, "tied regulation goes to overtime")
	assert.Equal(t, 5, clock.Quarter)
	assert.Equal(t, 180, clock.SecondsRemaining)
	assert.False(t, m.GameOver())

	m.ForceEndQuarter()
	assert.True(t, m.GameOver(), "a single sudden-death period only")
}

// TestClock_Paused verifies plays cost nothing while the clock is stopped.
func TestClock_Paused(t *testing.T) {
	m := fixture(t, func(s *match.Snapshot) {
		setHand(s, 13, 1, 22)
		s.Hand.SelectedCardID = 13
		s.Hand.DefenseCall = rules.CallDeep
		s.Hand.Dice = [5]int{2, 3, 4, 5, 1}
	})
	m.PauseClock()

	_, err := m.ResolvePlay()
	require.NoError(t, err)
	assert.Equal(t, 360, m.Clock().SecondsRemaining)

	m.ResumeClock()
	assert.True(t, m.Clock().Running)
}

// TestSnapshot_RoundTrip verifies a snapshot survives JSON serialization
// without loss.
func TestSnapshot_RoundTrip(t *testing.T) {
	m := newTestMatch(t, 7)
	require.NoError(t, m.SelectCard(m.Hand().CardIDs[1]))
	require.NoError(t, m.SetDefenseCall(rules.CallTight))

	snap := m.Snapshot()
	payload, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded match.Snapshot
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, snap, decoded)

	restored := match.Restore(catalog(t),
		decoded, dice.NewLoggedRoller(dice.NewSeededSource(7), zap.NewNop()), nil)
	assert.Equal(t, snap, restored.Snapshot())
}

// TestMatch_RandomPlaythrough uses property-based testing to verify the
// standing invariants over whole games: meters stay clamped, the deck
// partition holds, and every game terminates.
func TestMatch_RandomPlaythrough(t *testing.T) {
	cat := catalog(t)
	calls := []rules.DefenseCall{rules.CallStack, rules.CallTight, rules.CallDeep}

	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
		setup := defaultSetup()
		setup.QuarterLengthSeconds = 90
		setup.QuartersTotal = 2
		m, err := match.New(cat, setup, roller, nil)
		require.NoError(rt, err)

		for plays := 0; !m.GameOver(); plays++ {
			require.Less(rt, plays, 500, "games must terminate")

			hand := m.Hand().CardIDs
			require.NoError(rt, m.SelectCard(hand[rapid.IntRange(0, 2).Draw(rt, "card")]))
			require.NoError(rt, m.SetDefenseCall(calls[rapid.IntRange(0, 2).Draw(rt, "call")]))
			m.RollDice()

			_, err := m.ResolvePlay()
			require.NoError(rt, err)

			drive := m.Drive()
			assert.GreaterOrEqual(rt, drive.Momentum, 0)
			assert.LessOrEqual(rt, drive.Momentum, 3)
			assert.GreaterOrEqual(rt, drive.TurnoverRisk, 0)
			assert.LessOrEqual(rt, drive.TurnoverRisk, 2)
			assert.GreaterOrEqual(rt, drive.Pressure, 0)
			assert.LessOrEqual(rt, drive.Pressure, 2)
			assert.GreaterOrEqual(rt, m.Clock().SecondsRemaining, 0)

			draw, discard := m.DeckCounts()
			held := len(m.Hand().CardIDs)
			assert.Equal(rt, deck.CatalogSize, draw+discard+held,
				"piles plus hand must always cover the catalog")
		}
	})
}
