package game

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rl/warhex/internal/game/action"
	"github.com/tabletop-rl/warhex/internal/game/core"
	"github.com/tabletop-rl/warhex/internal/game/deploy"
	"github.com/tabletop-rl/warhex/internal/game/phase"
)

func newTestCodec() *Codec {
	return NewCodec(zerolog.Nop(), 6, 3, 2)
}

func TestBuildMaskEndedPhaseAllFalse(t *testing.T) {
	gs := NewGameState(8, 8)
	gs.Phase = phase.PhaseEnded

	mask := newTestCodec().BuildMask(gs, nil, []int{1})
	assert.False(t, mask.Any())
}

func TestBuildMaskNoEligibleUnits(t *testing.T) {
	gs := NewGameState(8, 8)
	codec := newTestCodec()

	gs.Phase = phase.PhaseMove
	mask := codec.BuildMask(gs, nil, nil)
	assert.Equal(t, []int{action.SlotWait}, mask.ValidIndices())

	// Fight has no wait action; an empty pool yields an empty mask
	gs.Phase = phase.PhaseFight
	mask = codec.BuildMask(gs, nil, nil)
	assert.False(t, mask.Any())
}

func TestBuildMaskDeployment(t *testing.T) {
	gs := NewGameState(8, 8)
	gs.Phase = phase.PhaseDeployment
	dep := deploy.NewState(map[int][]core.Unit{
		core.Player1: {{ID: 1, Player: core.Player1}},
	})
	dep.HexPools[core.Player1] = []core.Hex{core.NewHex(0, 0), core.NewHex(1, 0)}

	mask := newTestCodec().BuildMask(gs, dep, []int{1})
	want := []int{
		action.SlotTargetBase,
		action.SlotTargetBase + 1,
		action.SlotTargetBase + 2,
		action.SlotTargetBase + 3,
		action.SlotTargetBase + 4,
	}
	assert.Equal(t, want, mask.ValidIndices())

	// An exhausted pool leaves only wait
	dep.HexPools[core.Player1] = nil
	mask = newTestCodec().BuildMask(gs, dep, []int{1})
	assert.Equal(t, []int{action.SlotWait}, mask.ValidIndices())
}

func TestBuildMaskMove(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	gs.Phase = phase.PhaseMove

	mask := newTestCodec().BuildMask(gs, nil, []int{1})
	want := []int{
		action.SlotHeuristicBase,
		action.SlotHeuristicBase + 1,
		action.SlotHeuristicBase + 2,
		action.SlotHeuristicBase + 3,
		action.SlotWait,
		action.SlotAdvance,
	}
	assert.Equal(t, want, mask.ValidIndices())
}

func TestBuildMaskShoot(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(2, 0))
	addUnitAt(t, gs, 3, core.Player2, core.NewHex(5, 0))
	addUnitAt(t, gs, 4, core.Player2, core.NewHex(7, 7))
	gs.Phase = phase.PhaseShoot

	// Unit 4 sits beyond the six-hex shoot range
	mask := newTestCodec().BuildMask(gs, nil, []int{1})
	want := []int{action.SlotTargetBase, action.SlotTargetBase + 1, action.SlotWait}
	assert.Equal(t, want, mask.ValidIndices())
}

func TestBuildMaskCharge(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(2, 0))
	gs.Phase = phase.PhaseCharge

	mask := newTestCodec().BuildMask(gs, nil, []int{1})
	want := []int{action.SlotTargetBase, action.SlotCharge, action.SlotWait}
	assert.Equal(t, want, mask.ValidIndices())

	// Out of charge range: declaring a charge must be masked out
	require.NoError(t, gs.PlaceUnit(2, core.NewHex(6, 0)))
	mask = newTestCodec().BuildMask(gs, nil, []int{1})
	assert.Equal(t, []int{action.SlotWait}, mask.ValidIndices())
}

func TestBuildMaskFight(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(4, 4))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(4, 5))
	gs.Phase = phase.PhaseFight

	mask := newTestCodec().BuildMask(gs, nil, []int{1})
	want := []int{action.SlotTargetBase, action.SlotFight}
	assert.Equal(t, want, mask.ValidIndices())
	assert.False(t, mask[action.SlotWait], "fight has no wait action")

	// Unengaged fighter gets an all-false mask
	require.NoError(t, gs.PlaceUnit(2, core.NewHex(0, 0)))
	mask = newTestCodec().BuildMask(gs, nil, []int{1})
	assert.False(t, mask.Any())
}

func TestBuildMaskForUnitRequiresEligibility(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	addUnitAt(t, gs, 2, core.Player1, core.NewHex(1, 0))
	gs.Phase = phase.PhaseMove
	codec := newTestCodec()

	mask, err := codec.BuildMaskForUnit(gs, nil, []int{1, 2}, 2)
	require.NoError(t, err)
	assert.True(t, mask[action.SlotWait])

	_, err = codec.BuildMaskForUnit(gs, nil, []int{1, 2}, 9)
	assert.Error(t, err)
}

func TestDecodeNoEligibleUnitsAdvancesPhase(t *testing.T) {
	gs := NewGameState(8, 8)
	gs.Phase = phase.PhaseMove

	cmd := newTestCodec().Decode(gs, nil, action.SlotWait, action.NewMask(), nil)
	assert.Equal(t, action.CmdAdvancePhase, cmd.Action)
}

func TestDecodeDeployment(t *testing.T) {
	gs := NewGameState(8, 8)
	gs.Phase = phase.PhaseDeployment
	codec := newTestCodec()

	var gotIntent deploy.Intent
	codec.selectDeployHex = func(intent deploy.Intent, unitID int) (core.Hex, error) {
		gotIntent = intent
		return core.NewHex(3, 1), nil
	}

	cmd := codec.Decode(gs, nil, action.SlotTargetBase+2, action.NewMask(), []int{7})
	assert.Equal(t, action.CmdDeployUnit, cmd.Action)
	assert.Equal(t, 7, cmd.UnitID)
	assert.Equal(t, 2, cmd.Intent)
	assert.Equal(t, deploy.Intent(2), gotIntent)
	assert.Equal(t, 3, cmd.DestCol)
	assert.Equal(t, 1, cmd.DestRow)
}

func TestDecodeDeploymentPlannerFailure(t *testing.T) {
	gs := NewGameState(8, 8)
	gs.Phase = phase.PhaseDeployment
	codec := newTestCodec()
	codec.selectDeployHex = func(deploy.Intent, int) (core.Hex, error) {
		return core.Hex{}, fmt.Errorf("no legal hex")
	}

	cmd := codec.Decode(gs, nil, action.SlotTargetBase, action.NewMask(), []int{7})
	assert.Equal(t, action.CmdInvalid, cmd.Action)
	assert.True(t, cmd.EndActivationRequired)
}

func TestDecodeMoveHoldStaysPut(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(2, 2))
	gs.Phase = phase.PhaseMove

	cmd := newTestCodec().Decode(gs, nil,
		action.SlotHeuristicBase+action.HeuristicHold, action.NewMask(), []int{1})
	assert.Equal(t, action.CmdMove, cmd.Action)
	assert.Equal(t, 2, cmd.DestCol)
	assert.Equal(t, 2, cmd.DestRow)
}

func TestDecodeMoveTowardEnemyClosesDistance(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(6, 0))
	gs.Phase = phase.PhaseMove

	cmd := newTestCodec().Decode(gs, nil,
		action.SlotHeuristicBase+action.HeuristicTowardEnemy, action.NewMask(), []int{1})
	require.Equal(t, action.CmdMove, cmd.Action)

	enemyPos := gs.Positions[2]
	before := core.NewHex(0, 0).DistanceTo(enemyPos)
	after := core.NewHex(cmd.DestCol, cmd.DestRow).DistanceTo(enemyPos)
	assert.Less(t, after, before)
	assert.LessOrEqual(t, core.NewHex(0, 0).DistanceTo(core.NewHex(cmd.DestCol, cmd.DestRow)),
		gs.Units[1].Movement)
}

func TestDecodeMoveRetreatOpensDistance(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(1, 0))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(2, 0))
	gs.Phase = phase.PhaseMove

	cmd := newTestCodec().Decode(gs, nil,
		action.SlotHeuristicBase+action.HeuristicRetreat, action.NewMask(), []int{1})
	require.Equal(t, action.CmdMove, cmd.Action)

	enemyPos := gs.Positions[2]
	after := core.NewHex(cmd.DestCol, cmd.DestRow).DistanceTo(enemyPos)
	assert.Greater(t, after, core.NewHex(1, 0).DistanceTo(enemyPos))
}

func TestDecodeMoveTowardObjective(t *testing.T) {
	gs := NewGameState(8, 8)
	gs.Objectives = []core.Objective{stickyObjective("hill", core.NewHex(4, 4))}
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	gs.Phase = phase.PhaseMove

	cmd := newTestCodec().Decode(gs, nil,
		action.SlotHeuristicBase+action.HeuristicTowardObjective, action.NewMask(), []int{1})
	require.Equal(t, action.CmdMove, cmd.Action)

	after := core.NewHex(cmd.DestCol, cmd.DestRow).DistanceTo(core.NewHex(4, 4))
	assert.Less(t, after, core.NewHex(0, 0).DistanceTo(core.NewHex(4, 4)))
}

func TestDecodeAdvanceOutreachesMove(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(7, 0))
	gs.Phase = phase.PhaseMove
	codec := newTestCodec()

	moveCmd := codec.Decode(gs, nil,
		action.SlotHeuristicBase+action.HeuristicTowardEnemy, action.NewMask(), []int{1})
	advCmd := codec.Decode(gs, nil, action.SlotAdvance, action.NewMask(), []int{1})
	require.Equal(t, action.CmdAdvance, advCmd.Action)

	enemyPos := gs.Positions[2]
	moveDist := core.NewHex(moveCmd.DestCol, moveCmd.DestRow).DistanceTo(enemyPos)
	advDist := core.NewHex(advCmd.DestCol, advCmd.DestRow).DistanceTo(enemyPos)
	assert.Less(t, advDist, moveDist, "advance bonus must extend the reachable disk")
}

func TestDecodeShootPicksTargetSlot(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(2, 0))
	addUnitAt(t, gs, 3, core.Player2, core.NewHex(4, 0))
	gs.Phase = phase.PhaseShoot

	// Candidates are ordered by distance then id
	cmd := newTestCodec().Decode(gs, nil, action.SlotTargetBase, action.NewMask(), []int{1})
	require.Equal(t, action.CmdShoot, cmd.Action)
	assert.Equal(t, 2, cmd.TargetID)

	cmd = newTestCodec().Decode(gs, nil, action.SlotTargetBase+1, action.NewMask(), []int{1})
	assert.Equal(t, 3, cmd.TargetID)
}

func TestDecodeTargetSlotBeyondCandidatesIsPenaltyWait(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(2, 0))
	gs.Phase = phase.PhaseShoot

	cmd := newTestCodec().Decode(gs, nil, action.SlotTargetBase+3, action.NewMask(), []int{1})
	assert.Equal(t, action.CmdWait, cmd.Action)
	assert.True(t, cmd.InvalidActionPenalty)
}

func TestDecodeChargeDeclaration(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(0, 0))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(2, 0))
	gs.Phase = phase.PhaseCharge

	cmd := newTestCodec().Decode(gs, nil, action.SlotCharge, action.NewMask(), []int{1})
	require.Equal(t, action.CmdCharge, cmd.Action)
	assert.Equal(t, 2, cmd.TargetID)

	dest := core.NewHex(cmd.DestCol, cmd.DestRow)
	assert.True(t, dest.IsAdjacentTo(gs.Positions[2]), "charge must end adjacent to the target")
	assert.LessOrEqual(t, core.NewHex(0, 0).DistanceTo(dest), 3)
}

func TestDecodeChargeBlockedTarget(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(4, 2))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(4, 4))
	gs.Phase = phase.PhaseCharge

	// Wall off every hex around the target
	for _, h := range core.NewHex(4, 4).ValidNeighbors(8, 8) {
		gs.Walls[h] = true
	}

	cmd := newTestCodec().Decode(gs, nil, action.SlotCharge, action.NewMask(), []int{1})
	assert.Equal(t, action.CmdInvalid, cmd.Action)
	assert.True(t, cmd.EndActivationRequired)
}

func TestDecodeFight(t *testing.T) {
	gs := NewGameState(8, 8)
	addUnitAt(t, gs, 1, core.Player1, core.NewHex(4, 4))
	addUnitAt(t, gs, 2, core.Player2, core.NewHex(4, 5))
	gs.Phase = phase.PhaseFight

	cmd := newTestCodec().Decode(gs, nil, action.SlotFight, action.NewMask(), []int{1})
	require.Equal(t, action.CmdFight, cmd.Action)
	assert.Equal(t, 2, cmd.TargetID)

	cmd = newTestCodec().Decode(gs, nil, action.SlotTargetBase, action.NewMask(), []int{1})
	assert.Equal(t, 2, cmd.TargetID)
}

// Every bit the mask allows must decode to a command that is neither
// invalid nor penalized, for each targeting phase.
func TestMaskSoundness(t *testing.T) {
	for _, p := range []phase.Phase{phase.PhaseShoot, phase.PhaseCharge, phase.PhaseFight} {
		t.Run(p.String(), func(t *testing.T) {
			gs := NewGameState(8, 8)
			addUnitAt(t, gs, 1, core.Player1, core.NewHex(4, 4))
			addUnitAt(t, gs, 2, core.Player2, core.NewHex(4, 5))
			addUnitAt(t, gs, 3, core.Player2, core.NewHex(5, 4))
			gs.Phase = p

			codec := newTestCodec()
			mask := codec.BuildMask(gs, nil, []int{1})
			require.True(t, mask.Any())

			for _, idx := range mask.ValidIndices() {
				cmd := codec.Decode(gs, nil, idx, mask, []int{1})
				assert.NotEqual(t, action.CmdInvalid, cmd.Action, "index %d", idx)
				assert.False(t, cmd.InvalidActionPenalty, "index %d", idx)
			}
		})
	}
}
