package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabletop-rl/warhex/internal/game/core"
)

// addUnitAt registers a standard test unit and places it on the board
func addUnitAt(t *testing.T, gs *GameState, id, player int, h core.Hex) *core.Unit {
	t.Helper()
	u := &core.Unit{
		ID:          id,
		Player:      player,
		Type:        "infantry",
		HP:          3,
		MaxHP:       3,
		Movement:    3,
		OC:          1,
		Points:      50,
		ShotsLeft:   map[string]int{"rifle": 1},
		AttacksLeft: map[string]int{"blade": 1},
	}
	require.NoError(t, gs.AddUnit(u))
	require.NoError(t, gs.PlaceUnit(id, h))
	return u
}

// stickyObjective builds a sticky control objective scoring from turn 1
// at the command phase
func stickyObjective(id string, hexes ...core.Hex) core.Objective {
	return core.Objective{
		ID:    id,
		Hexes: hexes,
		Scoring: core.ScoringConfig{
			Method: core.ControlSticky,
			Rules: []core.ScoringRule{
				{Condition: core.CondControlAtLeastOne, Points: 5},
			},
			MaxPointsPerTurn: 5,
			StartTurn:        1,
			DefaultPhase:     "command",
		},
	}
}

// killUnit zeroes a unit's HP and clears it from the board
func killUnit(t *testing.T, gs *GameState, id int) {
	t.Helper()
	died, err := gs.ApplyDamage(id, gs.Units[id].HP)
	require.NoError(t, err)
	require.True(t, died)
}
