package match

// Read-only views of live state. Slices and maps are copied so callers cannot
// mutate the match through them.

// Drive returns the current drive state.
func (m *Match) Drive() DriveState { return m.drive }

// Hand returns the current hand, including calls made so far.
func (m *Match) Hand() Hand {
	h := m.hand
	h.CardIDs = append([]int(nil), m.hand.CardIDs...)
	return h
}

// Clock returns the clock state.
func (m *Match) Clock() ClockState { return m.clock }

// GameOver reports whether the match has ended.
func (m *Match) GameOver() bool { return m.gameOver }

// PossessionTeamID returns the team currently on offense.
func (m *Match) PossessionTeamID() TeamID { return m.possessionTeamID }

// DefenseTeamID returns the team currently on defense.
func (m *Match) DefenseTeamID() TeamID { return m.defenseTeamID }

// Team returns a copy of one team's record.
func (m *Match) Team(id TeamID) Team {
	t := *m.teams[id]
	t.PlayerIDs = append([]string(nil), t.PlayerIDs...)
	return t
}

// Score returns one team's score.
func (m *Match) Score(id TeamID) int { return m.teams[id].Score }

// TeamName returns a team's display name.
func (m *Match) TeamName(id TeamID) string { return m.teamNames[id] }

// Players returns a copy of the roster.
func (m *Match) Players() []Player {
	return append([]Player(nil), m.players...)
}

// ActivePlayerName returns the name of the player calling offense this
// possession, or "" when unknown.
func (m *Match) ActivePlayerName() string {
	for _, p := range m.players {
		if p.ID == m.drive.ActivePlayerID {
			return p.Name
		}
	}
	return ""
}

// DeckCounts returns the draw and discard pile sizes.
func (m *Match) DeckCounts() (draw, discard int) {
	return len(m.piles.DrawIDs()), len(m.piles.DiscardIDs())
}
