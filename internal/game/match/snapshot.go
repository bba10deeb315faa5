package match

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/dice"
)

// Snapshot is the full serializable state of a match, used both for the
// one-deep undo history and for persistence.
type Snapshot struct {
	Players          []Player          `json:"players"`
	Teams            map[TeamID]Team   `json:"teams"`
	TeamNames        map[TeamID]string `json:"teamNames"`
	PossessionTeamID TeamID            `json:"possessionTeamId"`
	DefenseTeamID    TeamID            `json:"currentDefenseTeamId"`
	ReceivingTeamID  TeamID            `json:"receivingTeamId"`
	SoloAdvantage    bool              `json:"soloAdvantage"`
	Clock            ClockState        `json:"clock"`
	Drive            DriveState        `json:"currentDrive"`
	DrawPileIDs      []int             `json:"drawPileIds"`
	DiscardPileIDs   []int             `json:"discardPileIds"`
	Hand             Hand              `json:"currentHand"`
	GameOver         bool              `json:"gameOver"`
	// History carries the undo snapshot through persistence; entries never
	// nest further (their own History is empty).
	History []Snapshot `json:"history,omitempty"`
}

// snapshotCore captures everything except the undo history.
func (m *Match) snapshotCore() Snapshot {
	s := Snapshot{
		Players:          make([]Player, len(m.players)),
		Teams:            make(map[TeamID]Team, len(m.teams)),
		TeamNames:        make(map[TeamID]string, len(m.teamNames)),
		PossessionTeamID: m.possessionTeamID,
		DefenseTeamID:    m.defenseTeamID,
		ReceivingTeamID:  m.receivingTeamID,
		SoloAdvantage:    m.soloAdvantage,
		Clock:            m.clock,
		Drive:            m.drive,
		DrawPileIDs:      m.piles.DrawIDs(),
		DiscardPileIDs:   m.piles.DiscardIDs(),
		Hand:             m.hand,
		GameOver:         m.gameOver,
	}
	copy(s.Players, m.players)
	for id, team := range m.teams {
		t := *team
		t.PlayerIDs = append([]string(nil), team.PlayerIDs...)
		s.Teams[id] = t
	}
	for id, name := range m.teamNames {
		s.TeamNames[id] = name
	}
	s.Hand.CardIDs = append([]int(nil), m.hand.CardIDs...)
	return s
}

// Snapshot captures the complete match state, including the undo history, for
// persistence.
func (m *Match) Snapshot() Snapshot {
	s := m.snapshotCore()
	s.History = append([]Snapshot(nil), m.history...)
	return s
}

// restore overwrites the live state with s, leaving the undo history alone.
func (m *Match) restore(s Snapshot) {
	m.players = append([]Player(nil), s.Players...)
	m.teams = make(map[TeamID]*Team, len(s.Teams))
	for id, team := range s.Teams {
		t := team
		t.PlayerIDs = append([]string(nil), team.PlayerIDs...)
		m.teams[id] = &t
	}
	m.teamNames = make(map[TeamID]string, len(s.TeamNames))
	for id, name := range s.TeamNames {
		m.teamNames[id] = name
	}
	m.possessionTeamID = s.PossessionTeamID
	m.defenseTeamID = s.DefenseTeamID
	m.receivingTeamID = s.ReceivingTeamID
	m.soloAdvantage = s.SoloAdvantage
	m.clock = s.Clock
	m.drive = s.Drive
	m.piles = deck.RestorePiles(s.DrawPileIDs, s.DiscardPileIDs)
	m.hand = s.Hand
	m.hand.CardIDs = append([]int(nil), s.Hand.CardIDs...)
	m.gameOver = s.GameOver
}

// Restore rebuilds a match from a persisted snapshot.
//
// Precondition: cat and roller must be non-nil; s must come from Snapshot.
func Restore(cat *deck.Catalog, s Snapshot, roller *dice.Roller, logger *zap.Logger) *Match {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Match{catalog: cat, roller: roller, logger: logger}
	m.restore(s)
	m.history = append([]Snapshot(nil), s.History...)
	return m
}
