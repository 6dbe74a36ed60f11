package game

import (
	"fmt"
	"sort"

	"github.com/tabletop-rl/warhex/internal/game/core"
	"github.com/tabletop-rl/warhex/internal/game/phase"
)

// PoolKey names an activation pool inside a GameState. A lookup of a key
// that the current phase requires but that was never built is a fatal
// configuration error, never an empty pool.
type PoolKey string

const (
	PoolMove           PoolKey = "move"
	PoolShootRaw       PoolKey = "shoot_raw"
	PoolCharge         PoolKey = "charge"
	PoolFightCharging  PoolKey = "fight_charging"
	PoolFightActive    PoolKey = "fight_active"
	PoolFightNonActive PoolKey = "fight_non_active"
)

// ScoreKey identifies one scoring opportunity. A key already present in
// the scored set must never be re-applied.
type ScoreKey struct {
	ObjectiveID string
	Turn        int
	Player      int
}

// GameState is the complete mutable state of one episode. It is owned by
// exactly one Engine and never shared across episode instances; training
// throughput comes from running many independent GameStates in parallel
// processes, not from sharing one.
type GameState struct {
	Turn          int
	Phase         phase.Phase
	FightStep     phase.FightStep
	CurrentPlayer int

	BoardWidth  int
	BoardHeight int
	Walls       map[core.Hex]bool

	// Units is the unit table; entries are never deleted, dead units are
	// only dropped from the position caches
	Units map[int]*core.Unit
	// UnitOrder fixes deterministic iteration over the unit table
	UnitOrder []int

	// Positions is the position cache, the single source of truth for
	// where living units stand. It must be kept consistent with
	// Unit.Position on every mutation.
	Positions map[int]core.Hex
	// Occupancy is the reverse index of Positions
	Occupancy map[core.Hex]int

	// UnitsCache is the side-band id -> owning player map used to
	// re-validate pool entries for ownership consistency
	UnitsCache map[int]int

	// Pools holds the per-phase activation pools built by phase entry hooks
	Pools map[PoolKey][]int
	// ChargedThisTurn tracks units that completed a charge this round and
	// therefore fight first
	ChargedThisTurn map[int]bool

	Objectives []core.Objective
	// Controllers is the persistent objective-controller map
	// (objective id -> NoPlayer | Player1 | Player2), lazily initialized
	Controllers map[string]int
	// ScoredKeys records applied scoring checkpoints for idempotency
	ScoredKeys map[ScoreKey]struct{}

	VictoryPoints map[int]int

	TurnLimitReached bool
}

// NewGameState creates an empty state for a width x height board
func NewGameState(width, height int) *GameState {
	return &GameState{
		Turn:            0,
		Phase:           phase.PhaseDeployment,
		FightStep:       phase.StepNone,
		CurrentPlayer:   core.Player1,
		BoardWidth:      width,
		BoardHeight:     height,
		Walls:           make(map[core.Hex]bool),
		Units:           make(map[int]*core.Unit),
		Positions:       make(map[int]core.Hex),
		Occupancy:       make(map[core.Hex]int),
		UnitsCache:      make(map[int]int),
		Pools:           make(map[PoolKey][]int),
		ChargedThisTurn: make(map[int]bool),
		Controllers:     make(map[string]int),
		ScoredKeys:      make(map[ScoreKey]struct{}),
		VictoryPoints:   map[int]int{core.Player1: 0, core.Player2: 0},
	}
}

// AddUnit registers a unit in the unit table and the side-band caches.
// Units start off-board; PlaceUnit puts them into the position cache.
func (gs *GameState) AddUnit(u *core.Unit) error {
	if u.Player != core.Player1 && u.Player != core.Player2 {
		return core.ErrInvalidPlayer
	}
	if _, exists := gs.Units[u.ID]; exists {
		return fmt.Errorf("unit %d already registered", u.ID)
	}
	gs.Units[u.ID] = u
	gs.UnitOrder = append(gs.UnitOrder, u.ID)
	gs.UnitsCache[u.ID] = u.Player
	return nil
}

// Unit returns the unit with the given id
func (gs *GameState) Unit(id int) (*core.Unit, error) {
	u, ok := gs.Units[id]
	if !ok {
		return nil, fmt.Errorf("unit %d: %w", id, core.ErrUnitNotFound)
	}
	return u, nil
}

// PlaceUnit puts a unit on the board, keeping Unit.Position, the position
// cache and the occupancy index consistent in one step
func (gs *GameState) PlaceUnit(id int, dest core.Hex) error {
	u, err := gs.Unit(id)
	if err != nil {
		return err
	}
	if !u.IsAlive() {
		return fmt.Errorf("unit %d: %w", id, core.ErrUnitDead)
	}
	if !dest.IsValid(gs.BoardWidth, gs.BoardHeight) {
		return fmt.Errorf("dest %s: %w", dest, core.ErrInvalidHex)
	}
	if gs.Walls[dest] {
		return fmt.Errorf("dest %s is a wall: %w", dest, core.ErrInvalidHex)
	}
	if occupant, taken := gs.Occupancy[dest]; taken && occupant != id {
		return fmt.Errorf("dest %s held by unit %d: %w", dest, occupant, core.ErrHexOccupied)
	}

	if prev, onBoard := gs.Positions[id]; onBoard {
		delete(gs.Occupancy, prev)
	}
	u.Position = dest
	gs.Positions[id] = dest
	gs.Occupancy[dest] = id
	return nil
}

// RemoveFromBoard drops a unit from the position caches. The unit table
// entry stays so its id remains valid for logging.
func (gs *GameState) RemoveFromBoard(id int) {
	if pos, onBoard := gs.Positions[id]; onBoard {
		delete(gs.Occupancy, pos)
		delete(gs.Positions, id)
	}
}

// ApplyDamage reduces a unit's HP and drops it from the position caches
// when it dies. Returns true if the unit died.
func (gs *GameState) ApplyDamage(id, damage int) (bool, error) {
	u, err := gs.Unit(id)
	if err != nil {
		return false, err
	}
	if !u.IsAlive() {
		return false, nil
	}
	u.HP -= damage
	if u.HP <= 0 {
		u.HP = 0
		gs.RemoveFromBoard(id)
		return true, nil
	}
	return false, nil
}

// RequirePool returns the pool for the given key or a fatal configuration
// error when the key was never built
func (gs *GameState) RequirePool(key PoolKey) ([]int, error) {
	pool, ok := gs.Pools[key]
	if !ok {
		return nil, core.MissingField(string(key),
			fmt.Sprintf("activation pool for phase %s turn %d", gs.Phase, gs.Turn))
	}
	return pool, nil
}

// RemoveFromPool removes a unit id from one pool, preserving order
func (gs *GameState) RemoveFromPool(key PoolKey, unitID int) {
	pool, ok := gs.Pools[key]
	if !ok {
		return
	}
	for i, id := range pool {
		if id == unitID {
			gs.Pools[key] = append(pool[:i], pool[i+1:]...)
			return
		}
	}
}

// LivingUnits returns the ids of living units for a player, in unit order
func (gs *GameState) LivingUnits(player int) []int {
	ids := make([]int, 0, len(gs.UnitOrder))
	for _, id := range gs.UnitOrder {
		u := gs.Units[id]
		if u.Player == player && u.IsAlive() {
			ids = append(ids, id)
		}
	}
	return ids
}

// ArmyValue sums the point values of a player's living units. Feeds the
// victory tie-breaker.
func (gs *GameState) ArmyValue(player int) int {
	total := 0
	for _, id := range gs.LivingUnits(player) {
		total += gs.Units[id].Points
	}
	return total
}

// ObjectiveControl sums each player's OC contributions over the hexes of
// one objective, counting living on-board units only
func (gs *GameState) ObjectiveControl(obj *core.Objective) (p1, p2 int) {
	for id, pos := range gs.Positions {
		u := gs.Units[id]
		if !u.IsAlive() || !obj.Contains(pos) {
			continue
		}
		switch u.Player {
		case core.Player1:
			p1 += u.OC
		case core.Player2:
			p2 += u.OC
		}
	}
	return p1, p2
}

// UnitsWithin returns living enemy unit ids within the given hex range of
// a position, sorted by distance then id for determinism
func (gs *GameState) UnitsWithin(from core.Hex, player int, dist int, enemies bool) []int {
	type cand struct {
		id   int
		dist int
	}
	var found []cand
	for id, pos := range gs.Positions {
		u := gs.Units[id]
		if !u.IsAlive() {
			continue
		}
		if enemies && u.Player == player {
			continue
		}
		if !enemies && u.Player != player {
			continue
		}
		d := from.DistanceTo(pos)
		if d <= dist {
			found = append(found, cand{id: id, dist: d})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].id < found[j].id
	})
	ids := make([]int, len(found))
	for i, c := range found {
		ids[i] = c.id
	}
	return ids
}
