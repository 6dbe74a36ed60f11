package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tabletop-rl/warhex/internal/game/action"
	"github.com/tabletop-rl/warhex/internal/game/core"
	"github.com/tabletop-rl/warhex/internal/game/deploy"
	"github.com/tabletop-rl/warhex/internal/game/phase"
)

// Codec builds legality masks over the fixed action space and decodes
// validated indices into semantic commands. All methods are pure reads of
// the state snapshot they are given.
type Codec struct {
	logger      zerolog.Logger
	shootRange  int
	chargeRange int
	// advanceBonus is the flat movement bonus an advance grants; the dice
	// roll behind it is a collaborator concern
	advanceBonus int

	// selectDeployHex resolves a deployment intent to a concrete hex; the
	// engine wires it to the planner
	selectDeployHex func(intent deploy.Intent, unitID int) (core.Hex, error)
}

// NewCodec creates a codec with the given engagement ranges
func NewCodec(logger zerolog.Logger, shootRange, chargeRange, advanceBonus int) *Codec {
	return &Codec{
		logger:       logger.With().Str("component", "action_codec").Logger(),
		shootRange:   shootRange,
		chargeRange:  chargeRange,
		advanceBonus: advanceBonus,
	}
}

// BuildMask constructs the legality mask for the current phase and
// eligible-unit list. A true bit guarantees that decoding that index
// cannot produce a domain error. With no eligible units the fight phase
// yields an all-false mask, forcing termination of the sub-phase; every
// other phase keeps the wait bit set for a graceful phase advance.
func (c *Codec) BuildMask(gs *GameState, dep *deploy.State, eligible []int) action.Mask {
	mask := action.NewMask()

	if gs.Phase == phase.PhaseEnded {
		return mask
	}

	if len(eligible) == 0 {
		if gs.Phase != phase.PhaseFight {
			mask[action.SlotWait] = true
		}
		return mask
	}

	unitID := eligible[0]

	switch gs.Phase {
	case phase.PhaseDeployment:
		if dep != nil && len(dep.PoolFor(dep.CurrentDeployer)) > 0 {
			for i := 0; i < deploy.NumIntents; i++ {
				mask[action.SlotTargetBase+i] = true
			}
		} else {
			mask[action.SlotWait] = true
		}

	case phase.PhaseMove:
		for i := 0; i < action.NumHeuristicSlots; i++ {
			mask[action.SlotHeuristicBase+i] = true
		}
		mask[action.SlotAdvance] = true
		mask[action.SlotWait] = true

	case phase.PhaseShoot:
		for i := range c.targetCandidates(gs, unitID) {
			mask[action.SlotTargetBase+i] = true
		}
		mask[action.SlotWait] = true

	case phase.PhaseCharge:
		candidates := c.targetCandidates(gs, unitID)
		for i := range candidates {
			mask[action.SlotTargetBase+i] = true
		}
		if len(candidates) > 0 {
			mask[action.SlotCharge] = true
		}
		mask[action.SlotWait] = true

	case phase.PhaseFight:
		candidates := c.targetCandidates(gs, unitID)
		if len(candidates) > 0 {
			mask[action.SlotFight] = true
			for i := range candidates {
				mask[action.SlotTargetBase+i] = true
			}
		}
		// No wait bit: fight has no wait action. An engaged unit fights;
		// a unit without adjacent enemies leaves the sub-phase empty-masked.

	case phase.PhaseCommand:
		mask[action.SlotWait] = true
	}

	return mask
}

// BuildMaskForUnit builds a mask as if the given unit were the active
// one. It never reorders any pool.
func (c *Codec) BuildMaskForUnit(gs *GameState, dep *deploy.State, eligible []int, unitID int) (action.Mask, error) {
	for _, id := range eligible {
		if id == unitID {
			return c.BuildMask(gs, dep, []int{unitID}), nil
		}
	}
	return nil, fmt.Errorf("unit %d is not eligible in phase %s", unitID, gs.Phase)
}

// Decode maps a validated action index to a semantic command. It never
// mutates state. A target-slot index beyond the current candidate list
// decodes to an explicit penalty wait, never an out-of-bounds read; a
// masked-legal index that downstream semantics cannot resolve decodes to
// an invalid command that still ends the activation.
func (c *Codec) Decode(gs *GameState, dep *deploy.State, actionInt int, mask action.Mask, eligible []int) *action.Command {
	if len(eligible) == 0 {
		cmd := action.NewCommand(action.CmdAdvancePhase)
		cmd.Reason = fmt.Sprintf("no eligible units in %s phase", gs.Phase)
		return cmd
	}

	unitID := eligible[0]

	switch gs.Phase {
	case phase.PhaseDeployment:
		return c.decodeDeployment(actionInt, unitID)
	case phase.PhaseMove:
		return c.decodeMove(gs, actionInt, unitID)
	case phase.PhaseShoot:
		return c.decodeShoot(gs, actionInt, unitID)
	case phase.PhaseCharge:
		return c.decodeCharge(gs, actionInt, unitID)
	case phase.PhaseFight:
		return c.decodeFight(gs, actionInt, unitID)
	default:
		cmd := action.NewCommand(action.CmdInvalid)
		cmd.UnitID = unitID
		cmd.Reason = fmt.Sprintf("no decode rule for phase %s", gs.Phase)
		cmd.EndActivationRequired = true
		return cmd
	}
}

func (c *Codec) decodeDeployment(actionInt, unitID int) *action.Command {
	if actionInt == action.SlotWait {
		cmd := action.NewCommand(action.CmdWait)
		cmd.UnitID = unitID
		return cmd
	}

	intentIdx := actionInt - action.SlotTargetBase
	if intentIdx < 0 || intentIdx >= deploy.NumIntents {
		return c.penaltyWait(unitID, fmt.Sprintf("index %d is not a deployment intent", actionInt))
	}

	if c.selectDeployHex == nil {
		cmd := action.NewCommand(action.CmdInvalid)
		cmd.UnitID = unitID
		cmd.Reason = "no deployment planner wired"
		cmd.EndActivationRequired = true
		return cmd
	}

	dest, err := c.selectDeployHex(deploy.Intent(intentIdx), unitID)
	if err != nil {
		c.logger.Error().Err(err).Int("unit_id", unitID).Msg("Deployment intent could not resolve a hex")
		cmd := action.NewCommand(action.CmdInvalid)
		cmd.UnitID = unitID
		cmd.Reason = err.Error()
		cmd.EndActivationRequired = true
		return cmd
	}

	cmd := action.NewCommand(action.CmdDeployUnit)
	cmd.UnitID = unitID
	cmd.Intent = intentIdx
	cmd.DestCol = dest.Col
	cmd.DestRow = dest.Row
	return cmd
}

func (c *Codec) decodeMove(gs *GameState, actionInt, unitID int) *action.Command {
	if actionInt == action.SlotWait {
		cmd := action.NewCommand(action.CmdWait)
		cmd.UnitID = unitID
		return cmd
	}

	unit := gs.Units[unitID]

	if actionInt == action.SlotAdvance {
		dest := c.moveDestination(gs, unit, action.HeuristicTowardEnemy, unit.Movement+c.advanceBonus)
		cmd := action.NewCommand(action.CmdAdvance)
		cmd.UnitID = unitID
		cmd.Heuristic = action.HeuristicTowardEnemy
		cmd.DestCol = dest.Col
		cmd.DestRow = dest.Row
		return cmd
	}

	heuristic := actionInt - action.SlotHeuristicBase
	if heuristic < 0 || heuristic >= action.NumHeuristicSlots {
		return c.penaltyWait(unitID, fmt.Sprintf("index %d is not a movement heuristic", actionInt))
	}

	dest := c.moveDestination(gs, unit, heuristic, unit.Movement)
	cmd := action.NewCommand(action.CmdMove)
	cmd.UnitID = unitID
	cmd.Heuristic = heuristic
	cmd.DestCol = dest.Col
	cmd.DestRow = dest.Row
	return cmd
}

func (c *Codec) decodeShoot(gs *GameState, actionInt, unitID int) *action.Command {
	if actionInt == action.SlotWait {
		cmd := action.NewCommand(action.CmdWait)
		cmd.UnitID = unitID
		return cmd
	}

	candidates := c.targetCandidates(gs, unitID)
	idx := actionInt - action.SlotTargetBase
	if idx < 0 || idx >= len(candidates) {
		return c.penaltyWait(unitID, fmt.Sprintf("target slot %d beyond %d candidates", idx, len(candidates)))
	}

	cmd := action.NewCommand(action.CmdShoot)
	cmd.UnitID = unitID
	cmd.TargetID = candidates[idx]
	return cmd
}

func (c *Codec) decodeCharge(gs *GameState, actionInt, unitID int) *action.Command {
	if actionInt == action.SlotWait {
		cmd := action.NewCommand(action.CmdWait)
		cmd.UnitID = unitID
		return cmd
	}

	candidates := c.targetCandidates(gs, unitID)

	var targetID int
	if actionInt == action.SlotCharge {
		if len(candidates) == 0 {
			cmd := action.NewCommand(action.CmdInvalid)
			cmd.UnitID = unitID
			cmd.Reason = "charge declared with no candidates in range"
			cmd.EndActivationRequired = true
			return cmd
		}
		targetID = candidates[0]
	} else {
		idx := actionInt - action.SlotTargetBase
		if idx < 0 || idx >= len(candidates) {
			return c.penaltyWait(unitID, fmt.Sprintf("target slot %d beyond %d candidates", idx, len(candidates)))
		}
		targetID = candidates[idx]
	}

	dest, ok := c.chargeDestination(gs, unitID, targetID)
	if !ok {
		cmd := action.NewCommand(action.CmdInvalid)
		cmd.UnitID = unitID
		cmd.TargetID = targetID
		cmd.Reason = fmt.Sprintf("no free hex adjacent to target %d", targetID)
		cmd.EndActivationRequired = true
		return cmd
	}

	cmd := action.NewCommand(action.CmdCharge)
	cmd.UnitID = unitID
	cmd.TargetID = targetID
	cmd.DestCol = dest.Col
	cmd.DestRow = dest.Row
	return cmd
}

func (c *Codec) decodeFight(gs *GameState, actionInt, unitID int) *action.Command {
	candidates := c.targetCandidates(gs, unitID)

	var targetID int
	switch {
	case actionInt == action.SlotFight:
		if len(candidates) == 0 {
			cmd := action.NewCommand(action.CmdInvalid)
			cmd.UnitID = unitID
			cmd.Reason = "fight with no engaged enemy"
			cmd.EndActivationRequired = true
			return cmd
		}
		targetID = candidates[0]
	default:
		idx := actionInt - action.SlotTargetBase
		if idx < 0 || idx >= len(candidates) {
			return c.penaltyWait(unitID, fmt.Sprintf("target slot %d beyond %d candidates", idx, len(candidates)))
		}
		targetID = candidates[idx]
	}

	cmd := action.NewCommand(action.CmdFight)
	cmd.UnitID = unitID
	cmd.TargetID = targetID
	return cmd
}

// penaltyWait is the explicit response to a formally legal index that
// referenced nothing: a wait carrying the invalid-action penalty marker
func (c *Codec) penaltyWait(unitID int, reason string) *action.Command {
	cmd := action.NewCommand(action.CmdWait)
	cmd.UnitID = unitID
	cmd.Reason = reason
	cmd.InvalidActionPenalty = true
	return cmd
}

// targetCandidates returns the ordered candidate target ids for the
// active unit in the current phase, capped to the target slot count
func (c *Codec) targetCandidates(gs *GameState, unitID int) []int {
	pos, onBoard := gs.Positions[unitID]
	if !onBoard {
		return nil
	}
	unit := gs.Units[unitID]

	var reach int
	switch gs.Phase {
	case phase.PhaseShoot:
		reach = c.shootRange
	case phase.PhaseCharge:
		reach = c.chargeRange
	case phase.PhaseFight:
		reach = 1
	default:
		return nil
	}

	candidates := gs.UnitsWithin(pos, unit.Player, reach, true)
	if len(candidates) > action.NumTargetSlots {
		candidates = candidates[:action.NumTargetSlots]
	}
	return candidates
}

// moveDestination picks the hex a movement heuristic resolves to:
// the reachable free hex optimizing the heuristic's goal, ties broken by
// distance to board center then column then row
func (c *Codec) moveDestination(gs *GameState, unit *core.Unit, heuristic, allowance int) core.Hex {
	from := unit.Position

	if heuristic == action.HeuristicHold {
		return from
	}

	var goal core.Hex
	hasGoal := false
	switch heuristic {
	case action.HeuristicTowardEnemy, action.HeuristicRetreat:
		enemies := gs.UnitsWithin(from, unit.Player, gs.BoardWidth+gs.BoardHeight, true)
		if len(enemies) > 0 {
			goal = gs.Positions[enemies[0]]
			hasGoal = true
		}
	case action.HeuristicTowardObjective:
		bestDist := -1
		for i := range gs.Objectives {
			for _, oh := range gs.Objectives[i].Hexes {
				if d := from.DistanceTo(oh); bestDist < 0 || d < bestDist {
					bestDist = d
					goal = oh
					hasGoal = true
				}
			}
		}
	}
	if !hasGoal {
		return from
	}

	center := core.BoardCenter(gs.BoardWidth, gs.BoardHeight)
	best := from
	bestKey := []int{goalScore(heuristic, from, goal), from.DistanceTo(center), from.Col, from.Row}

	// Enumerate the reachable disk; movement allowances are small
	for dRow := -allowance; dRow <= allowance; dRow++ {
		for dCol := -allowance; dCol <= allowance; dCol++ {
			h := core.Hex{Col: from.Col + dCol, Row: from.Row + dRow}
			if !h.IsValid(gs.BoardWidth, gs.BoardHeight) || gs.Walls[h] {
				continue
			}
			if from.DistanceTo(h) > allowance {
				continue
			}
			if occupant, taken := gs.Occupancy[h]; taken && occupant != unit.ID {
				continue
			}
			key := []int{goalScore(heuristic, h, goal), h.DistanceTo(center), h.Col, h.Row}
			if lessIntKey(key, bestKey) {
				best = h
				bestKey = key
			}
		}
	}
	return best
}

func goalScore(heuristic int, h, goal core.Hex) int {
	d := h.DistanceTo(goal)
	if heuristic == action.HeuristicRetreat {
		return -d
	}
	return d
}

// chargeDestination finds the closest free hex adjacent to the target
func (c *Codec) chargeDestination(gs *GameState, unitID, targetID int) (core.Hex, bool) {
	from, onBoard := gs.Positions[unitID]
	if !onBoard {
		return core.Hex{}, false
	}
	targetPos, onBoard := gs.Positions[targetID]
	if !onBoard {
		return core.Hex{}, false
	}

	center := core.BoardCenter(gs.BoardWidth, gs.BoardHeight)
	var best core.Hex
	var bestKey []int
	found := false

	for _, h := range targetPos.ValidNeighbors(gs.BoardWidth, gs.BoardHeight) {
		if gs.Walls[h] {
			continue
		}
		if occupant, taken := gs.Occupancy[h]; taken && occupant != unitID {
			continue
		}
		if from.DistanceTo(h) > c.chargeRange {
			continue
		}
		key := []int{from.DistanceTo(h), h.DistanceTo(center), h.Col, h.Row}
		if !found || lessIntKey(key, bestKey) {
			best = h
			bestKey = key
			found = true
		}
	}
	return best, found
}

// lessIntKey compares two ordering keys lexicographically
func lessIntKey(a, b []int) bool {
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
