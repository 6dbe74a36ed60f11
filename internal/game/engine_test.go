package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rl/warhex/internal/game/action"
	"github.com/tabletop-rl/warhex/internal/game/core"
	"github.com/tabletop-rl/warhex/internal/game/events"
	"github.com/tabletop-rl/warhex/internal/game/phase"
	"github.com/tabletop-rl/warhex/internal/testutil"
)

// holdScenario is a two-unit stand-off: fixed deployment drops the first
// player onto the only objective and engagement ranges keep the sides
// apart, so a wait-through episode scores on every one of its turns.
func holdScenario() ScenarioConfig {
	return ScenarioConfig{
		BoardWidth:     6,
		BoardHeight:    6,
		MaxTurns:       2,
		ShootRange:     2,
		ChargeRange:    2,
		AdvanceBonus:   2,
		DeploymentType: DeployFixed,
		FixedPositions: map[int]core.Hex{
			1: core.NewHex(2, 1),
			2: core.NewHex(2, 4),
		},
		DeployZones: testutil.SplitZones(6, 6, 2),
		Units: []core.Unit{
			testutil.TestUnit(1, core.Player1),
			testutil.TestUnit(2, core.Player2),
		},
		Objectives: []core.Objective{testutil.TestObjective("hill", core.NewHex(2, 1))},
	}
}

// driveEpisode steps the engine with the given index policy until the
// episode terminates, returning every decoded command
func driveEpisode(t *testing.T, e *Engine, pick func(p phase.Phase, mask action.Mask) int) []*action.Command {
	t.Helper()

	var cmds []*action.Command
	for steps := 0; !e.IsOver(); steps++ {
		require.Less(t, steps, 200, "episode did not terminate")

		mask, _, err := e.GetActionMaskAndEligibleUnits()
		require.NoError(t, err)

		raw := 0
		if mask.Any() {
			raw = pick(e.CurrentPhase(), mask)
		}
		cmd, err := e.Step(raw)
		require.NoError(t, err)
		cmds = append(cmds, cmd)
	}
	return cmds
}

// waitThrough holds position whenever the mask allows it
func waitThrough(p phase.Phase, mask action.Mask) int {
	if mask[action.SlotWait] {
		return action.SlotWait
	}
	return mask.ValidIndices()[0]
}

func firstValid(p phase.Phase, mask action.Mask) int {
	return mask.ValidIndices()[0]
}

func TestEngineWaitThroughEpisode(t *testing.T) {
	e, err := NewEngine(holdScenario(), testutil.NewTestRNG(1), testutil.NopLogger())
	require.NoError(t, err)
	require.Equal(t, phase.PhaseDeployment, e.CurrentPhase())

	var deployed []int
	var turnsStarted []int
	e.EventBus().SubscribeFunc(events.TypeUnitDeployed, func(ev events.Event) {
		deployed = append(deployed, ev.(*events.UnitDeployedEvent).UnitID)
	})
	e.EventBus().SubscribeFunc(events.TypeTurnStarted, func(ev events.Event) {
		turnsStarted = append(turnsStarted, ev.(*events.TurnStartedEvent).Turn)
	})

	driveEpisode(t, e, waitThrough)

	assert.Equal(t, []int{1, 2}, deployed, "deployment alternates starting with player 1")
	assert.Equal(t, []int{1, 2}, turnsStarted)

	gs := e.State()
	assert.Equal(t, core.NewHex(2, 1), gs.Positions[1])
	assert.Equal(t, core.NewHex(2, 4), gs.Positions[2])

	// The first player held the objective at both of its command
	// checkpoints; the second never reached it
	assert.Equal(t, 10, gs.VictoryPoints[core.Player1])
	assert.Zero(t, gs.VictoryPoints[core.Player2])

	require.True(t, e.IsOver())
	winner, method := e.Resolve()
	assert.Equal(t, core.Player1, winner)
	assert.Equal(t, MethodObjectives, method)
	assert.Equal(t, winner, e.Winner())
}

func TestEngineEpisodeEndedEvent(t *testing.T) {
	e, err := NewEngine(holdScenario(), testutil.NewTestRNG(1), testutil.NopLogger())
	require.NoError(t, err)

	var ended []*events.EpisodeEndedEvent
	e.EventBus().SubscribeFunc(events.TypeEpisodeEnded, func(ev events.Event) {
		ended = append(ended, ev.(*events.EpisodeEndedEvent))
	})

	driveEpisode(t, e, waitThrough)

	require.Len(t, ended, 1)
	assert.Equal(t, core.Player1, ended[0].Winner)
	assert.Equal(t, MethodObjectives, ended[0].Method)
}

func TestEngineStepAfterEndReturnsEpisodeOver(t *testing.T) {
	e, err := NewEngine(holdScenario(), testutil.NewTestRNG(1), testutil.NopLogger())
	require.NoError(t, err)

	driveEpisode(t, e, waitThrough)

	_, err = e.Step(action.SlotWait)
	assert.ErrorIs(t, err, core.ErrEpisodeOver)
}

func TestEngineForceTurnLimit(t *testing.T) {
	e, err := NewEngine(holdScenario(), testutil.NewTestRNG(1), testutil.NopLogger())
	require.NoError(t, err)

	// Deploy both units, then cut the episode short
	_, err = e.Step(action.SlotTargetBase)
	require.NoError(t, err)
	_, err = e.Step(action.SlotTargetBase)
	require.NoError(t, err)
	require.False(t, e.IsOver())

	e.ForceTurnLimit()
	cmd, err := e.Step(action.SlotWait)
	require.NoError(t, err)
	assert.Equal(t, action.CmdAdvancePhase, cmd.Action)
	assert.True(t, e.IsOver())
}

func TestEngineRejectsMaskedOutAction(t *testing.T) {
	e, err := NewEngine(holdScenario(), testutil.NewTestRNG(1), testutil.NopLogger())
	require.NoError(t, err)

	var rejected []*events.ActionRejectedEvent
	e.EventBus().SubscribeFunc(events.TypeActionRejected, func(ev events.Event) {
		rejected = append(rejected, ev.(*events.ActionRejectedEvent))
	})

	// Wait is not a legal deployment action while hexes remain
	_, err = e.Step(action.SlotWait)
	require.Error(t, err)
	actionErr := action.AsError(err)
	require.NotNil(t, actionErr)
	assert.Equal(t, action.CodeMaskedOut, actionErr.Code)
	require.Len(t, rejected, 1)

	// The rejection consumed nothing; a legal index still deploys
	cmd, err := e.Step(action.SlotTargetBase)
	require.NoError(t, err)
	assert.Equal(t, action.CmdDeployUnit, cmd.Action)
}

type lethalResolver struct{}

func (lethalResolver) ResolveShoot(attacker, target *core.Unit) int { return 10 }
func (lethalResolver) ResolveFight(attacker, target *core.Unit) int { return 10 }

// chargePreferring declares charges and fights when available, holding
// position otherwise
func chargePreferring(p phase.Phase, mask action.Mask) int {
	switch {
	case mask[action.SlotCharge]:
		return action.SlotCharge
	case mask[action.SlotFight]:
		return action.SlotFight
	case mask[action.SlotWait]:
		return action.SlotWait
	}
	return mask.ValidIndices()[0]
}

func TestEngineResolvesBlockedFightActivation(t *testing.T) {
	cfg := ScenarioConfig{
		BoardWidth:     6,
		BoardHeight:    6,
		MaxTurns:       2,
		ShootRange:     2,
		ChargeRange:    3,
		AdvanceBonus:   2,
		DeploymentType: DeployFixed,
		FixedPositions: map[int]core.Hex{
			1: core.NewHex(2, 3),
			2: core.NewHex(4, 3),
			3: core.NewHex(3, 5),
		},
		DeployZones: map[int][]core.Hex{
			core.Player1: {core.NewHex(2, 3), core.NewHex(4, 3)},
			core.Player2: {core.NewHex(3, 5)},
		},
		Units: []core.Unit{
			testutil.TestUnit(1, core.Player1),
			testutil.TestUnit(2, core.Player1),
			testutil.TestUnit(3, core.Player2),
		},
	}

	e, err := NewEngine(cfg, testutil.NewTestRNG(1), testutil.NopLogger())
	require.NoError(t, err)
	e.SetCombatResolver(lethalResolver{})

	cmds := driveEpisode(t, e, chargePreferring)

	// Both units charged the lone enemy; the first fight activation
	// killed it, leaving the second charger without a legal action
	var blocked *action.Command
	for _, cmd := range cmds {
		if cmd.Action == action.CmdWait && cmd.Reason == "no legal action for activation" {
			blocked = cmd
		}
	}
	require.NotNil(t, blocked, "second charger should have been auto-resolved")
	assert.Equal(t, 2, blocked.UnitID)

	assert.Empty(t, e.State().LivingUnits(core.Player2))
	winner, method := e.Resolve()
	assert.Equal(t, core.Player1, winner)
	assert.Equal(t, MethodValueTiebreak, method)
}

func TestEngineDeterministicUnderSeed(t *testing.T) {
	build := func() *Engine {
		cfg := holdScenario()
		cfg.DeploymentType = DeployRandom
		e, err := NewEngine(cfg, testutil.NewTestRNG(42), testutil.NopLogger())
		require.NoError(t, err)
		return e
	}

	a := build()
	b := build()
	cmdsA := driveEpisode(t, a, firstValid)
	cmdsB := driveEpisode(t, b, firstValid)

	require.Equal(t, len(cmdsA), len(cmdsB))
	for i := range cmdsA {
		assert.Equal(t, cmdsA[i].Action, cmdsB[i].Action, "step %d", i)
		assert.Equal(t, cmdsA[i].UnitID, cmdsB[i].UnitID, "step %d", i)
		assert.Equal(t, cmdsA[i].DestCol, cmdsB[i].DestCol, "step %d", i)
		assert.Equal(t, cmdsA[i].DestRow, cmdsB[i].DestRow, "step %d", i)
	}

	assert.Equal(t, a.State().VictoryPoints, b.State().VictoryPoints)
	assert.Equal(t, a.State().Positions, b.State().Positions)
	assert.Equal(t, a.Winner(), b.Winner())
}

func TestEngineScoredDeploymentEpisode(t *testing.T) {
	cfg := holdScenario()
	cfg.DeploymentType = DeployScored

	e, err := NewEngine(cfg, testutil.NewTestRNG(1), testutil.NopLogger())
	require.NoError(t, err)

	cmds := driveEpisode(t, e, waitThrough)

	deployCmds := 0
	for _, cmd := range cmds {
		if cmd.Action == action.CmdDeployUnit {
			deployCmds++
		}
	}
	assert.Equal(t, 2, deployCmds)

	// Intent 0 is the aggressive push: each side deploys on the front
	// row of its two-row home band
	gs := e.State()
	assert.Equal(t, 1, gs.Positions[1].Row)
	assert.Equal(t, 4, gs.Positions[2].Row)
	assert.True(t, e.IsOver())
}
