package deploy

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tabletop-rl/warhex/internal/game/core"
)

// Intent is one of the five discretely-selectable deployment strategies
type Intent int

const (
	// IntentAggressiveFront pushes units forward toward the enemy
	IntentAggressiveFront Intent = iota
	// IntentObjectivePressure deploys toward the nearest objective
	IntentObjectivePressure
	// IntentSafeCohesion minimizes exposure and keeps the army together
	IntentSafeCohesion
	// IntentLeftFlank weights the left board edge
	IntentLeftFlank
	// IntentRightFlank weights the right board edge
	IntentRightFlank

	// NumIntents is the size of the intent slot region in the action space
	NumIntents = 5
)

// String returns the string representation of an Intent
func (i Intent) String() string {
	switch i {
	case IntentAggressiveFront:
		return "aggressive_front"
	case IntentObjectivePressure:
		return "objective_pressure"
	case IntentSafeCohesion:
		return "safe_cohesion"
	case IntentLeftFlank:
		return "left_flank"
	case IntentRightFlank:
		return "right_flank"
	default:
		return fmt.Sprintf("Unknown(%d)", int(i))
	}
}

// PlacedUnit is a deployed unit's id and position as the planner sees it
type PlacedUnit struct {
	ID  int
	Pos core.Hex
}

// ScoreContext is the read-only slice of game state the planner scores
// against. The engine assembles it per selection.
type ScoreContext struct {
	Player      int
	BoardWidth  int
	BoardHeight int

	// EnemyUnits and AllyUnits are the already-deployed units per side
	EnemyUnits []PlacedUnit
	AllyUnits  []PlacedUnit

	ObjectiveHexes []core.Hex

	// EnemyPool is the enemy's remaining deployment hex pool; a small
	// deterministic anchor subset of it proxies exposure before any enemy
	// unit is actually placed
	EnemyPool []core.Hex

	LOS LineOfSight
}

// farAway is the sentinel distance when a feature has no reference point
const farAway = 1 << 30

// anchorCount is how many enemy-pool hexes feed the potential-exposure proxy
const anchorCount = 3

// features are the per-candidate-hex scoring inputs
type features struct {
	enemyDist         int
	objDist           int
	allyDist          int
	losExposure       int
	potentialExposure int
	sameColPenalty    int
	progress          int
	centerDist        int
}

// Planner selects one concrete legal hex for the unit being deployed.
// Selection is fully deterministic: identical state and intent always
// yield the same hex.
type Planner struct {
	logger zerolog.Logger
	cache  exposureCache
}

// NewPlanner creates a new deployment planner
func NewPlanner(logger zerolog.Logger) *Planner {
	return &Planner{
		logger: logger.With().Str("component", "deployment_planner").Logger(),
	}
}

// SelectHex picks the best hex from the deployer's pool for the given
// intent. An empty pool while a unit must still deploy is a fatal
// invariant violation.
func (p *Planner) SelectHex(intent Intent, dep *State, sctx ScoreContext) (core.Hex, error) {
	pool := dep.PoolFor(sctx.Player)
	if len(pool) == 0 {
		return core.Hex{}, fmt.Errorf("player %d: %w", sctx.Player, core.ErrEmptyHexPool)
	}

	rebuilt := p.cache.sync(pool, sctx)
	if rebuilt {
		p.logger.Debug().
			Int("player", sctx.Player).
			Int("pool_size", len(pool)).
			Msg("Exposure cache rebuilt")
	}

	center := core.BoardCenter(sctx.BoardWidth, sctx.BoardHeight)
	anchors := anchorSubset(sctx.EnemyPool)

	best := pool[0]
	bestKey := p.intentKey(intent, best, sctx, center, anchors)
	for _, h := range pool[1:] {
		key := p.intentKey(intent, h, sctx, center, anchors)
		if lessKey(key, bestKey) {
			best = h
			bestKey = key
		}
	}
	return best, nil
}

// computeFeatures builds the feature vector for one candidate hex
func (p *Planner) computeFeatures(h core.Hex, sctx ScoreContext, center core.Hex, anchors []core.Hex) features {
	f := features{
		enemyDist:  farAway,
		objDist:    farAway,
		allyDist:   farAway,
		centerDist: h.DistanceTo(center),
	}

	for _, e := range sctx.EnemyUnits {
		if d := h.DistanceTo(e.Pos); d < f.enemyDist {
			f.enemyDist = d
		}
	}
	for _, oh := range sctx.ObjectiveHexes {
		if d := h.DistanceTo(oh); d < f.objDist {
			f.objDist = d
		}
	}
	for _, a := range sctx.AllyUnits {
		if d := h.DistanceTo(a.Pos); d < f.allyDist {
			f.allyDist = d
		}
		if a.Pos.Col == h.Col {
			f.sameColPenalty++
		}
	}

	f.losExposure = p.cache.exposure(h)

	for _, anchor := range anchors {
		if sctx.LOS.HasLOS(anchor, h) {
			f.potentialExposure++
		}
	}

	// Board progress: player 1 deploys on low rows and advances upward,
	// player 2 the reverse
	if sctx.Player == core.Player1 {
		f.progress = h.Row
	} else {
		f.progress = sctx.BoardHeight - 1 - h.Row
	}

	return f
}

// intentKey builds the strict lexicographic ordering key for a hex under
// an intent. Lower keys win; the trailing centerDist/col/row terms make
// every ordering total and deterministic.
func (p *Planner) intentKey(intent Intent, h core.Hex, sctx ScoreContext, center core.Hex, anchors []core.Hex) []int {
	f := p.computeFeatures(h, sctx, center, anchors)
	exposure := f.losExposure + f.potentialExposure

	switch intent {
	case IntentAggressiveFront:
		return []int{-f.progress, f.enemyDist, exposure, f.centerDist, h.Col, h.Row}
	case IntentObjectivePressure:
		return []int{f.objDist, -f.progress, exposure, f.centerDist, h.Col, h.Row}
	case IntentSafeCohesion:
		return []int{exposure, f.allyDist, f.sameColPenalty, -f.enemyDist, f.centerDist, h.Col, h.Row}
	case IntentLeftFlank:
		return []int{h.Col, exposure, f.enemyDist, f.centerDist, h.Row}
	case IntentRightFlank:
		return []int{-h.Col, exposure, f.enemyDist, f.centerDist, h.Row}
	default:
		return []int{f.centerDist, h.Col, h.Row}
	}
}

// lessKey compares two ordering keys lexicographically
func lessKey(a, b []int) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// anchorSubset picks the deterministic anchor hexes from the enemy's
// remaining pool: the first anchorCount hexes in row-then-column order
func anchorSubset(enemyPool []core.Hex) []core.Hex {
	if len(enemyPool) == 0 {
		return nil
	}

	sorted := make([]core.Hex, len(enemyPool))
	copy(sorted, enemyPool)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	if len(sorted) > anchorCount {
		sorted = sorted[:anchorCount]
	}
	return sorted
}
