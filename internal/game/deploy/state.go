// Package deploy selects deployment hexes for units entering the board.
// It owns the deployment-phase aggregate (queues, hex pools) and the
// heuristic planner that turns a discrete deployment intent into one
// concrete legal hex.
package deploy

import (
	"fmt"

	"github.com/tabletop-rl/warhex/internal/game/core"
)

// State is the deployment-phase aggregate. It exists from scenario start
// until deployment completes, at which point the engine drops it.
type State struct {
	// CurrentDeployer is the player placing the next unit
	CurrentDeployer int

	// Queues holds each player's remaining deployable unit ids, in
	// deployment order
	Queues map[int][]int

	// HexPools holds each player's legal deployment hexes
	HexPools map[int][]core.Hex

	// Deployed records unit ids already placed
	Deployed map[int]bool

	// Complete flips once both queues are empty
	Complete bool
}

// NewState creates a deployment state with player 1 deploying first
func NewState(queues map[int][]core.Unit) *State {
	s := &State{
		CurrentDeployer: core.Player1,
		Queues:          make(map[int][]int),
		HexPools:        make(map[int][]core.Hex),
		Deployed:        make(map[int]bool),
	}
	for player, units := range queues {
		ids := make([]int, len(units))
		for i, u := range units {
			ids[i] = u.ID
		}
		s.Queues[player] = ids
	}
	return s
}

// NextUnit returns the front of the current deployer's queue
func (s *State) NextUnit() (int, bool) {
	queue := s.Queues[s.CurrentDeployer]
	if len(queue) == 0 {
		return 0, false
	}
	return queue[0], true
}

// MarkDeployed pops the unit from its queue, records it as deployed, and
// passes the baton to the opponent if they still have units to place
func (s *State) MarkDeployed(unitID int) error {
	queue := s.Queues[s.CurrentDeployer]
	if len(queue) == 0 || queue[0] != unitID {
		return fmt.Errorf("unit %d is not at the front of player %d's deployment queue",
			unitID, s.CurrentDeployer)
	}

	s.Queues[s.CurrentDeployer] = queue[1:]
	s.Deployed[unitID] = true

	opponent := core.Opponent(s.CurrentDeployer)
	if len(s.Queues[opponent]) > 0 {
		s.CurrentDeployer = opponent
	}

	if len(s.Queues[core.Player1]) == 0 && len(s.Queues[core.Player2]) == 0 {
		s.Complete = true
	}
	return nil
}

// RemoveHex takes a hex out of a player's pool once a unit occupies it
func (s *State) RemoveHex(player int, h core.Hex) {
	pool := s.HexPools[player]
	for i, ph := range pool {
		if ph.Equal(h) {
			s.HexPools[player] = append(pool[:i], pool[i+1:]...)
			return
		}
	}
}

// PoolFor returns a player's legal-hex pool; an empty pool while that
// player still has units queued is a fatal invariant violation, checked
// by the planner at selection time
func (s *State) PoolFor(player int) []core.Hex {
	return s.HexPools[player]
}
