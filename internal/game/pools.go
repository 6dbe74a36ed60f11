package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tabletop-rl/warhex/internal/game/deploy"
	"github.com/tabletop-rl/warhex/internal/game/phase"
)

// PoolManager produces the ordered list of unit ids eligible to act in the
// current phase. Pools are built once per phase entry and can go stale as
// units die mid-phase, so every query filters for liveness as a
// defense-in-depth step.
type PoolManager struct {
	logger zerolog.Logger
}

// NewPoolManager creates a new pool manager
func NewPoolManager(logger zerolog.Logger) *PoolManager {
	return &PoolManager{
		logger: logger.With().Str("component", "pool_manager").Logger(),
	}
}

// EligibleUnits returns the unit ids that may act right now. The
// deployment state is consulted only during the deployment phase and may
// be nil afterwards.
func (pm *PoolManager) EligibleUnits(gs *GameState, dep *deploy.State) ([]int, error) {
	switch gs.Phase {
	case phase.PhaseDeployment:
		return pm.deploymentFront(dep)

	case phase.PhaseCommand, phase.PhaseEnded:
		// No unit activations in these phases
		return nil, nil

	case phase.PhaseMove:
		pool, err := gs.RequirePool(PoolMove)
		if err != nil {
			return nil, err
		}
		return pm.filterLiving(gs, pool), nil

	case phase.PhaseShoot:
		return pm.shootEligible(gs)

	case phase.PhaseCharge:
		pool, err := gs.RequirePool(PoolCharge)
		if err != nil {
			return nil, err
		}
		return pm.filterLiving(gs, pool), nil

	case phase.PhaseFight:
		return pm.fightEligible(gs)

	default:
		return nil, fmt.Errorf("no pool rule for phase %s", gs.Phase)
	}
}

// deploymentFront returns the front of the current deployer's queue
func (pm *PoolManager) deploymentFront(dep *deploy.State) ([]int, error) {
	if dep == nil {
		return nil, fmt.Errorf("deployment phase with no deployment state")
	}
	if dep.Complete {
		return nil, nil
	}
	unitID, ok := dep.NextUnit()
	if !ok {
		return nil, nil
	}
	return []int{unitID}, nil
}

// shootEligible filters the raw shoot pool. The raw pool may contain both
// sides' pending activations; the eligible pool keeps only living units of
// the current player, cross-checked against the side-band units cache.
func (pm *PoolManager) shootEligible(gs *GameState) ([]int, error) {
	raw, err := gs.RequirePool(PoolShootRaw)
	if err != nil {
		return nil, err
	}

	eligible := make([]int, 0, len(raw))
	for _, id := range raw {
		u, ok := gs.Units[id]
		if !ok {
			return nil, fmt.Errorf("shoot pool references unit %d absent from unit table", id)
		}
		if !u.IsAlive() || u.Player != gs.CurrentPlayer {
			continue
		}
		cachedPlayer, ok := gs.UnitsCache[id]
		if !ok || cachedPlayer != u.Player {
			return nil, fmt.Errorf("units cache disagrees on owner of unit %d (cache=%d unit=%d)",
				id, cachedPlayer, u.Player)
		}
		eligible = append(eligible, id)
	}
	return eligible, nil
}

// fightEligible dispatches to the fight sub-pool matching the current
// step. An ambiguous step yields the union of all three sub-pools.
func (pm *PoolManager) fightEligible(gs *GameState) ([]int, error) {
	charging, err := gs.RequirePool(PoolFightCharging)
	if err != nil {
		return nil, err
	}
	active, err := gs.RequirePool(PoolFightActive)
	if err != nil {
		return nil, err
	}
	nonActive, err := gs.RequirePool(PoolFightNonActive)
	if err != nil {
		return nil, err
	}

	switch gs.FightStep {
	case phase.StepCharging:
		return pm.filterLiving(gs, charging), nil
	case phase.StepAlternatingActive, phase.StepCleanupActive:
		return pm.filterLiving(gs, active), nil
	case phase.StepAlternatingNonActive, phase.StepCleanupNonActive:
		return pm.filterLiving(gs, nonActive), nil
	default:
		pm.logger.Warn().
			Str("fight_step", gs.FightStep.String()).
			Msg("Ambiguous fight step, falling back to union of sub-pools")
		return pm.filterLiving(gs, unionOrdered(charging, active, nonActive)), nil
	}
}

// filterLiving drops dead units from a pool without reordering it
func (pm *PoolManager) filterLiving(gs *GameState, pool []int) []int {
	filtered := make([]int, 0, len(pool))
	for _, id := range pool {
		u, ok := gs.Units[id]
		if !ok {
			// A pool entry with no unit table row is a broken invariant;
			// it is surfaced by the eligibility paths that can detect it
			// and skipped here
			pm.logger.Error().Int("unit_id", id).Msg("Pool references unknown unit")
			continue
		}
		if u.IsAlive() {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// unionOrdered concatenates pools, dropping duplicates while preserving
// first-seen order
func unionOrdered(pools ...[]int) []int {
	seen := make(map[int]bool)
	var union []int
	for _, pool := range pools {
		for _, id := range pool {
			if !seen[id] {
				seen[id] = true
				union = append(union, id)
			}
		}
	}
	return union
}
