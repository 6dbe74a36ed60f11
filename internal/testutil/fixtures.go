package testutil

import (
	"github.com/tabletop-rl/warhex/internal/game/core"
)

// TestUnit creates a basic infantry unit for tests
func TestUnit(id, player int) core.Unit {
	return core.Unit{
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
}

// TestUnitAt creates a basic unit already positioned at the given hex.
// The position still has to be registered through the state's PlaceUnit.
func TestUnitAt(id, player, col, row int) core.Unit {
	u := TestUnit(id, player)
	u.Position = core.NewHex(col, row)
	return u
}

// TestObjective creates a single-hex sticky objective scoring from turn 1
func TestObjective(id string, h core.Hex) core.Objective {
	return core.Objective{
		ID:    id,
		Hexes: []core.Hex{h},
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

// SplitZones builds two deployment zones: player 1 on the top rows,
// player 2 on the bottom rows
func SplitZones(width, height, depth int) map[int][]core.Hex {
	zones := map[int][]core.Hex{}
	for row := 0; row < depth; row++ {
		for col := 0; col < width; col++ {
			zones[core.Player1] = append(zones[core.Player1], core.NewHex(col, row))
			zones[core.Player2] = append(zones[core.Player2], core.NewHex(col, height-1-row))
		}
	}
	return zones
}
