package match

import "github.com/cory-johannsen/drivecontrol/internal/game/rules"

// PlayResult describes what one resolved play (or field goal attempt) did to
// the match, for the caller to render. It is a report, not live state.
type PlayResult struct {
	Message string `json:"message"`
	// Outcome is the resolver's record; synthesized for cash-outs, nil for
	// field goals.
	Outcome *rules.Outcome `json:"outcome,omitempty"`

	Touchdown    bool               `json:"touchdown,omitempty"`
	Turnover     bool               `json:"turnover,omitempty"`
	TurnoverType rules.TurnoverType `json:"turnoverType,omitempty"`
	// TurnoverSpot is the yard line the ball changed hands at.
	TurnoverSpot int  `json:"turnoverSpot,omitempty"`
	FirstDown    bool `json:"firstDown,omitempty"`
	// BigPlay flags a highlight or any swing of 15+ yards.
	BigPlay bool `json:"bigPlay,omitempty"`

	BallPos      int `json:"ballPos,omitempty"`
	Down         int `json:"down,omitempty"`
	YardsToFirst int `json:"yardsToFirst,omitempty"`

	QuarterEnded bool `json:"quarterEnded,omitempty"`
	GameOver     bool `json:"gameOver,omitempty"`

	PlayID   int    `json:"playId,omitempty"`
	PlayName string `json:"playName,omitempty"`

	Highlight      bool `json:"highlight,omitempty"`
	HighlightYards int  `json:"highlightYards,omitempty"`
	Playmaker      bool `json:"playmaker,omitempty"`

	FieldGoal     bool `json:"fieldGoal,omitempty"`
	FieldGoalMade bool `json:"fieldGoalMade,omitempty"`
}

// Successful reports whether the play should be celebrated: a touchdown, or a
// clean successful snap that kept the ball.
func (r *PlayResult) Successful() bool {
	if r.Touchdown {
		return true
	}
	return r.Outcome != nil && r.Outcome.Success && !r.Turnover && !r.FieldGoal
}
