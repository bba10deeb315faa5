package match

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/dice"
	"github.com/cory-johannsen/drivecontrol/internal/game/rules"
)

// PlayerSetup names one participant and their side.
type PlayerSetup struct {
	Name   string
	TeamID TeamID
}

// Setup configures a new match.
type Setup struct {
	Players         []PlayerSetup
	TeamNames       map[TeamID]string
	ReceivingTeamID TeamID
	// SoloAdvantage grants a lone player facing a pair +1 starting momentum
	// each possession (3-player format only).
	SoloAdvantage        bool
	QuarterLengthSeconds int
	QuartersTotal        int
	RunningClock         bool
	PaceMultiplier       float64
}

// Validate checks team composition and clock settings.
//
// Legal formats: 1v1, 2v1, 1v2, 2v2. Anything else fails.
func (s Setup) Validate() error {
	count := len(s.Players)
	a, b := 0, 0
	for _, p := range s.Players {
		switch p.TeamID {
		case TeamA:
			a++
		case TeamB:
			b++
		}
	}
	switch {
	case count < 2 || count > 4,
		a+b != count,
		count == 2 && (a != 1 || b != 1),
		count == 3 && !(a == 2 && b == 1 || a == 1 && b == 2),
		count == 4 && (a != 2 || b != 2):
		return ErrInvalidTeamSplit
	}
	if !s.ReceivingTeamID.Valid() {
		return ErrInvalidReceivingTeam
	}
	if s.QuarterLengthSeconds <= 0 || s.QuartersTotal <= 0 || s.PaceMultiplier <= 0 {
		return ErrInvalidClockSettings
	}
	return nil
}

// Match is the authoritative state of one game. It is not safe for concurrent
// use; exactly one caller mutates it at a time.
type Match struct {
	catalog *deck.Catalog
	roller  *dice.Roller
	logger  *zap.Logger

	players   []Player
	teams     map[TeamID]*Team
	teamNames map[TeamID]string

	possessionTeamID TeamID
	defenseTeamID    TeamID
	receivingTeamID  TeamID
	soloAdvantage    bool

	clock ClockState
	drive DriveState
	piles *deck.Piles
	hand  Hand

	// history holds at most one snapshot, pushed at the top of every
	// ResolvePlay call.
	history  []Snapshot
	gameOver bool
}

// New creates a match and starts the opening possession for the receiving
// team.
//
// Precondition: cat and roller must be non-nil.
// Postcondition: On success the first down's hand is drawn and the match is
// ready for calls; on error nothing is allocated.
func New(cat *deck.Catalog, setup Setup, roller *dice.Roller, logger *zap.Logger) (*Match, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Match{
		catalog:   cat,
		roller:    roller,
		logger:    logger,
		teams:     map[TeamID]*Team{TeamA: {}, TeamB: {}},
		teamNames: map[TeamID]string{TeamA: "Team A", TeamB: "Team B"},

		possessionTeamID: setup.ReceivingTeamID,
		defenseTeamID:    setup.ReceivingTeamID.Opponent(),
		receivingTeamID:  setup.ReceivingTeamID,
		soloAdvantage:    setup.SoloAdvantage,

		clock: ClockState{
			Quarter:               1,
			QuartersTotal:         setup.QuartersTotal,
			QuarterLengthSeconds:  setup.QuarterLengthSeconds,
			SecondsRemaining:      setup.QuarterLengthSeconds,
			Running:               setup.RunningClock,
			PaceMultiplier:        setup.PaceMultiplier,
			OvertimeLengthSeconds: overtimeLengthSeconds,
		},
		piles: deck.NewShuffledPiles(cat, roller.Source()),
		hand:  freshHand(),
	}

	for _, p := range setup.Players {
		player := Player{ID: uuid.NewString(), Name: p.Name, TeamID: p.TeamID}
		m.players = append(m.players, player)
		team := m.teams[p.TeamID]
		team.PlayerIDs = append(team.PlayerIDs, player.ID)
	}
	for id, name := range setup.TeamNames {
		if name != "" {
			m.teamNames[id] = name
		}
	}

	m.startPossession()
	m.logger.Info("match started",
		zap.Int("players", len(m.players)),
		zap.String("receiving_team", string(m.receivingTeamID)))
	return m, nil
}

// startPossession resets the drive, rotates the acting offense player, and
// applies start-of-possession momentum bonuses.
func (m *Match) startPossession() {
	m.drive = freshDrive()
	offense := m.teams[m.possessionTeamID]
	m.drive.ActivePlayerID = m.pickActivePlayer(m.possessionTeamID)

	if m.soloAdvantage && len(m.players) == 3 && len(offense.PlayerIDs) == 1 {
		m.drive.Momentum = clamp(m.drive.Momentum+1, 0, maxMomentum)
	}
	if offense.NextDriveMomentumBonus > 0 {
		m.drive.Momentum = clamp(m.drive.Momentum+1, 0, maxMomentum)
		offense.NextDriveMomentumBonus--
	}
	m.startDown()
}

func (m *Match) pickActivePlayer(teamID TeamID) string {
	team := m.teams[teamID]
	if len(team.PlayerIDs) == 0 {
		return ""
	}
	idx := team.ActiveOffenseIndex % len(team.PlayerIDs)
	team.ActiveOffenseIndex = (team.ActiveOffenseIndex + 1) % len(team.PlayerIDs)
	return team.PlayerIDs[idx]
}

// startDown draws a fresh 3-card hand and resets the per-down calls. The draw
// can always be satisfied: the hand was discarded back to the piles first.
func (m *Match) startDown() {
	ids, err := m.piles.Draw(handSize, m.roller.Source())
	if err != nil {
		// Unreachable with a full catalog; the piles reshuffle internally.
		panic(err)
	}
	m.hand = freshHand()
	m.hand.CardIDs = ids
	m.drive.CashOutSelected = false
}

func (m *Match) discardHand() {
	if len(m.hand.CardIDs) > 0 {
		m.piles.Discard(m.hand.CardIDs...)
	}
	m.hand.CardIDs = nil
}

// SelectCard locks one of the hand's cards as the offense's call.
func (m *Match) SelectCard(cardID int) error {
	for _, id := range m.hand.CardIDs {
		if id == cardID {
			m.hand.SelectedCardID = cardID
			return nil
		}
	}
	return ErrUnknownCard
}

// SetDefenseCall locks the defense's call for the down.
func (m *Match) SetDefenseCall(call rules.DefenseCall) error {
	if !call.Callable() {
		return ErrInvalidDefenseCall
	}
	m.hand.DefenseCall = call
	return nil
}

// SetDie records one physically rolled die.
func (m *Match) SetDie(index, value int) error {
	if index < 0 || index >= dice.SnapSize {
		return ErrInvalidDie
	}
	if value < 1 || value > dice.Sides {
		return ErrInvalidDie
	}
	m.hand.Dice[index] = value
	return nil
}

// RollDice rolls the full snap in-engine instead of entering physical dice.
func (m *Match) RollDice() [5]int {
	m.hand.Dice = m.roller.Snap()
	return m.hand.Dice
}

// SetChosenPattern attests to a pattern; pass the empty pattern to clear the
// attestation and let the resolver detect from the dice.
func (m *Match) SetChosenPattern(p deck.Pattern) error {
	if p != "" && !p.Valid() {
		return ErrInvalidPattern
	}
	m.hand.ChosenPattern = p
	return nil
}

// SelectCashOut commits the next resolution to the guaranteed-gain branch.
// Requires momentum of at least 1.
func (m *Match) SelectCashOut() error {
	if m.drive.Momentum < 1 {
		return ErrCashOutNeedsStreak
	}
	m.drive.CashOutSelected = true
	return nil
}

// ArmTurnoverCancel spends one momentum to arm the drive's one-shot turnover
// cancel token. Usable once per drive.
func (m *Match) ArmTurnoverCancel() error {
	if m.drive.TurnoverCancelUsed || m.drive.Momentum <= 0 {
		return ErrCancelUnavailable
	}
	m.drive.Momentum--
	m.drive.TurnoverCancelToken = true
	m.drive.TurnoverCancelUsed = true
	return nil
}

// Audible discards the current hand and redraws 3 fresh cards. Usable once per
// drive; costs no clock time.
func (m *Match) Audible() error {
	if m.drive.AudibleUsed {
		return ErrAudibleUsed
	}
	m.drive.AudibleUsed = true
	m.discardHand()
	m.startDown()
	return nil
}

// ResolvePlay resolves the current down: the cash-out branch when armed,
// otherwise the full dice resolution, then applies every side effect to the
// match (yardage, downs, scoring, possession, clock).
//
// Precondition: game not over, a card selected, a defense call made; violated
// preconditions return an error with no state mutated.
// Postcondition: A snapshot for Undo was pushed; the match is ready for the
// next down (or the game is over).
func (m *Match) ResolvePlay() (*PlayResult, error) {
	if m.gameOver {
		return nil, ErrGameOver
	}
	if m.hand.SelectedCardID == 0 {
		return nil, ErrNoCardSelected
	}
	if !m.hand.DefenseCall.Callable() {
		return nil, ErrNoDefenseCall
	}
	card, ok := m.catalog.ByID(m.hand.SelectedCardID)
	if !ok {
		return nil, ErrUnknownCard
	}

	prevQuarter := m.clock.Quarter
	m.pushHistory()

	if m.drive.CashOutSelected && m.drive.Momentum >= 1 {
		return m.resolveCashOut(card, prevQuarter), nil
	}

	outcome := rules.Resolve(card, m.hand.DefenseCall, m.hand.Dice, rules.DriveContext{
		Momentum:     m.drive.Momentum,
		Pressure:     m.drive.Pressure,
		TurnoverRisk: m.drive.TurnoverRisk,
	}, m.hand.ChosenPattern, m.roller.Source())

	// The risk meter is informational; it pegs when a turnover fires.
	if outcome.Turnover {
		m.drive.TurnoverRisk = 2
	}
	if outcome.Turnover && m.drive.TurnoverCancelToken {
		outcome.Turnover = false
		outcome.TurnoverType = rules.TurnoverCancelled
		m.drive.TurnoverCancelToken = false
	}

	m.logger.Debug("play resolved",
		zap.Int("card_id", card.ID),
		zap.String("defense_call", string(m.hand.DefenseCall)),
		zap.Int("yards", outcome.Yards),
		zap.Bool("success", outcome.Success),
		zap.Bool("touchdown", outcome.Touchdown),
		zap.String("turnover_type", string(outcome.TurnoverType)))

	if outcome.Touchdown {
		return m.resolveTouchdown(card, &outcome, prevQuarter), nil
	}

	m.drive.BallPos += outcome.Yards
	m.drive.YardsToFirst -= outcome.Yards
	m.drive.Momentum = clamp(m.drive.Momentum+outcome.GainedMomentum, 0, maxMomentum)
	m.drive.Pressure = clamp(m.drive.Pressure+outcome.PressureDelta, 0, maxPressure)
	m.drive.TurnoverRisk = clamp(m.drive.TurnoverRisk+outcome.TurnoverRiskDelta, 0, 3)
	// Streak rule: any failed or turned-over play kills the meters outright; a
	// clean success extends the streak on top of resolver-granted gains.
	if outcome.Turnover || !outcome.Success {
		m.drive.Momentum = 0
		m.drive.TurnoverRisk = 0
	} else {
		m.drive.Momentum = clamp(m.drive.Momentum+1, 0, maxMomentum)
	}

	if outcome.Turnover {
		return m.resolveTurnover(card, &outcome, prevQuarter), nil
	}

	firstDown := false
	if m.drive.YardsToFirst <= 0 {
		m.handleFirstDown()
		m.drive.TurnoverRisk = 0
		firstDown = true
	} else {
		m.drive.Down++
	}

	if m.drive.Down > downsPerSeries {
		return m.resolveTurnoverOnDowns(card, &outcome, prevQuarter), nil
	}

	m.advanceClock(card.Type, outcome.Success)
	if m.clock.SecondsRemaining == 0 && m.gameOver {
		return &PlayResult{Message: "End of game.", Outcome: &outcome, GameOver: true}, nil
	}
	bigPlay := outcome.Highlight || abs(outcome.Yards) >= 15

	m.discardHand()
	m.startDown()
	return &PlayResult{
		Message:        "Next down.",
		Outcome:        &outcome,
		FirstDown:      firstDown,
		BigPlay:        bigPlay,
		BallPos:        m.drive.BallPos,
		Down:           m.drive.Down,
		YardsToFirst:   m.drive.YardsToFirst,
		QuarterEnded:   m.clock.Quarter != prevQuarter,
		GameOver:       m.gameOver,
		PlayID:         card.ID,
		PlayName:       card.Name,
		Highlight:      outcome.Highlight,
		HighlightYards: outcome.HighlightYards,
	}, nil
}

// resolveCashOut banks a guaranteed 4-yard gain at the cost of the whole
// momentum streak, then runs the standard down bookkeeping.
func (m *Match) resolveCashOut(card deck.PlayCard, prevQuarter int) *PlayResult {
	outcome := &rules.Outcome{Yards: cashOutYards, Success: true}
	m.advanceClock(card.Type, true)
	m.drive.BallPos += cashOutYards
	m.drive.YardsToFirst -= cashOutYards
	m.drive.Momentum = 0
	m.drive.TurnoverRisk = 0
	m.drive.Pressure = clamp(m.drive.Pressure+1, 0, maxPressure)
	if m.drive.YardsToFirst <= 0 {
		m.handleFirstDown()
		m.drive.TurnoverRisk = 0
		m.drive.Momentum = 0
	} else {
		m.drive.Down++
	}
	if m.drive.Down > downsPerSeries {
		m.markDefenseBonus(rules.TurnoverDowns)
		m.discardHand()
		m.changePossession()
		m.startPossession()
		return &PlayResult{
			Message:      "Turnover on downs.",
			Outcome:      outcome,
			Turnover:     true,
			TurnoverType: rules.TurnoverDowns,
			TurnoverSpot: m.drive.BallPos,
			QuarterEnded: m.clock.Quarter != prevQuarter,
			GameOver:     m.gameOver,
			PlayID:       card.ID,
			PlayName:     card.Name,
		}
	}
	m.discardHand()
	m.startDown()
	return &PlayResult{
		Message:      "Cashed out for +4 yards.",
		Outcome:      outcome,
		BallPos:      m.drive.BallPos,
		QuarterEnded: m.clock.Quarter != prevQuarter,
		GameOver:     m.gameOver,
		PlayID:       card.ID,
		PlayName:     card.Name,
	}
}

func (m *Match) resolveTouchdown(card deck.PlayCard, outcome *rules.Outcome, prevQuarter int) *PlayResult {
	m.advanceClock(card.Type, outcome.Success)
	m.teams[m.possessionTeamID].Score += touchdownPoints
	// No defensive bonus is banked for being scored on.
	m.discardHand()
	if m.gameOver {
		return &PlayResult{
			Message:      "Touchdown!",
			Outcome:      outcome,
			Touchdown:    true,
			PlayName:     card.Name,
			BallPos:      m.drive.BallPos,
			QuarterEnded: m.clock.Quarter != prevQuarter,
			GameOver:     true,
			PlayID:       card.ID,
		}
	}
	if m.clock.IsOvertime && m.clock.OvertimeNumber > 0 {
		// Sudden death.
		m.gameOver = true
	} else {
		m.changePossession()
		m.startPossession()
	}
	return &PlayResult{
		Message:      "Touchdown!",
		Outcome:      outcome,
		Touchdown:    true,
		PlayName:     card.Name,
		BallPos:      m.drive.BallPos,
		QuarterEnded: m.clock.Quarter != prevQuarter,
		GameOver:     m.gameOver,
		PlayID:       card.ID,
	}
}

func (m *Match) resolveTurnover(card deck.PlayCard, outcome *rules.Outcome, prevQuarter int) *PlayResult {
	spot := m.drive.BallPos
	m.advanceClock(card.Type, outcome.Success)
	if m.gameOver {
		return &PlayResult{Message: "End of game.", Outcome: outcome, GameOver: true}
	}
	m.markDefenseBonus(outcome.TurnoverType)
	m.discardHand()
	if !m.gameOver {
		m.changePossession()
		m.startPossession()
	}
	m.drive.TurnoverRisk = 0
	m.drive.Momentum = 0

	message := "Fumble lost!"
	if outcome.TurnoverType == rules.TurnoverInterception {
		message = "Interception!"
	}
	return &PlayResult{
		Message:      message,
		Outcome:      outcome,
		Turnover:     true,
		TurnoverType: outcome.TurnoverType,
		TurnoverSpot: spot,
		QuarterEnded: m.clock.Quarter != prevQuarter,
		GameOver:     m.gameOver,
		PlayID:       card.ID,
		PlayName:     card.Name,
		Playmaker:    outcome.Playmaker,
	}
}

func (m *Match) resolveTurnoverOnDowns(card deck.PlayCard, outcome *rules.Outcome, prevQuarter int) *PlayResult {
	m.advanceClock(card.Type, outcome.Success)
	if m.gameOver {
		return &PlayResult{Message: "End of game.", Outcome: outcome, GameOver: true}
	}
	m.markDefenseBonus(rules.TurnoverDowns)
	m.discardHand()
	if !m.gameOver {
		m.changePossession()
		m.startPossession()
	}
	return &PlayResult{
		Message:      "Turnover on downs.",
		Outcome:      outcome,
		Turnover:     true,
		TurnoverType: rules.TurnoverDowns,
		TurnoverSpot: m.drive.BallPos,
		QuarterEnded: m.clock.Quarter != prevQuarter,
		GameOver:     m.gameOver,
		PlayID:       card.ID,
		PlayName:     card.Name,
	}
}

// AttemptFieldGoal resolves a kick. Legal only on 4th down at or inside the
// opponent's 35 (ballPos >= 65); kickRoll is the physical d6.
//
// A momentum streak of 2+ boosts the roll by one, capped at 6. Either way the
// kicking team surrenders possession.
func (m *Match) AttemptFieldGoal(kickRoll int) (*PlayResult, error) {
	if m.gameOver {
		return nil, ErrGameOver
	}
	if m.drive.Down != downsPerSeries {
		return nil, ErrNotFourthDown
	}
	if m.drive.BallPos < 65 {
		return nil, ErrOutOfFieldGoalRange
	}
	if kickRoll < 1 || kickRoll > dice.Sides {
		return nil, ErrInvalidKickRoll
	}

	prevQuarter := m.clock.Quarter
	spot := m.drive.BallPos
	distance := 100 - m.drive.BallPos
	needed := 6
	switch {
	case distance <= 20:
		needed = 2
	case distance <= 30:
		needed = 3
	case distance <= 40:
		needed = 4
	case distance <= 50:
		needed = 5
	}

	roll := kickRoll
	if m.drive.Momentum >= 2 {
		roll = min(dice.Sides, roll+1)
	}
	made := roll >= needed

	cost := 15
	message := "Field goal is NO GOOD. Turnover on spot."
	if made {
		cost = 20
		m.teams[m.possessionTeamID].Score += fieldGoalPoints
		message = "Field goal is GOOD! +3 points."
	}
	m.clock.SecondsRemaining = max(0, m.clock.SecondsRemaining-cost)
	if m.clock.SecondsRemaining == 0 {
		m.handleQuarterEnd()
	}

	m.discardHand()
	if !m.gameOver {
		m.changePossession()
		m.startPossession()
	}
	m.drive.Momentum = 0
	m.drive.TurnoverRisk = 0

	m.logger.Debug("field goal attempted",
		zap.Int("spot", spot),
		zap.Int("needed", needed),
		zap.Int("roll", roll),
		zap.Bool("made", made))
	return &PlayResult{
		Message:       message,
		FieldGoal:     true,
		FieldGoalMade: made,
		TurnoverSpot:  spot,
		QuarterEnded:  m.clock.Quarter != prevQuarter,
		GameOver:      m.gameOver,
	}, nil
}

func (m *Match) handleFirstDown() {
	m.drive.Down = 1
	m.drive.YardsToFirst = firstDownYards
	m.drive.Pressure = 0
}

func (m *Match) changePossession() {
	m.possessionTeamID, m.defenseTeamID = m.defenseTeamID, m.possessionTeamID
}

// markDefenseBonus banks a momentum point (capped at 1) for the team about to
// play defense, i.e. the team that forced the turnover. Must run before the
// possession swap. Touchdowns bank nothing.
func (m *Match) markDefenseBonus(cause rules.TurnoverType) {
	defense := m.teams[m.defenseTeamID]
	defense.NextDriveMomentumBonus = min(1, defense.NextDriveMomentumBonus+1)
	m.logger.Debug("defensive bonus banked",
		zap.String("team", string(m.defenseTeamID)),
		zap.String("cause", string(cause)))
}

// Undo restores the snapshot pushed by the most recent ResolvePlay. Depth one;
// a second Undo in a row fails.
func (m *Match) Undo() error {
	if len(m.history) == 0 {
		return ErrNothingToUndo
	}
	snap := m.history[len(m.history)-1]
	m.restore(snap)
	m.history = nil
	return nil
}

func (m *Match) pushHistory() {
	snap := m.snapshotCore()
	m.history = []Snapshot{snap}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
