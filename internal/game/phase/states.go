package phase

import "fmt"

// enterWithBookkeeper runs the shared entry contract: pools and per-phase
// bookkeeping reset exactly once, here, through the engine's hook.
func enterWithBookkeeper(p Phase, ctx *Context) error {
	if ctx.Bookkeeper == nil {
		return nil
	}
	if err := ctx.Bookkeeper.EnterPhase(p, ctx); err != nil {
		return fmt.Errorf("enter hook for %s: %w", p, err)
	}
	return nil
}

func exitWithBookkeeper(p Phase, ctx *Context) error {
	if ctx.Bookkeeper == nil {
		return nil
	}
	if err := ctx.Bookkeeper.ExitPhase(p, ctx); err != nil {
		return fmt.Errorf("exit hook for %s: %w", p, err)
	}
	return nil
}

// DeploymentState represents alternating unit placement before round one
type DeploymentState struct{}

func NewDeploymentState() State {
	return &DeploymentState{}
}

func (s *DeploymentState) Phase() Phase {
	return PhaseDeployment
}

func (s *DeploymentState) Enter(ctx *Context) error {
	ctx.Logger.Info().Msg("Deployment started")
	return enterWithBookkeeper(PhaseDeployment, ctx)
}

func (s *DeploymentState) Exit(ctx *Context) error {
	ctx.Logger.Info().Msg("Deployment complete")
	return exitWithBookkeeper(PhaseDeployment, ctx)
}

func (s *DeploymentState) Validate(ctx *Context) error {
	return nil
}

// CommandState starts a battle round; objective scoring checkpoints run here
type CommandState struct{}

func NewCommandState() State {
	return &CommandState{}
}

func (s *CommandState) Phase() Phase {
	return PhaseCommand
}

func (s *CommandState) Enter(ctx *Context) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Entering command phase")
	return enterWithBookkeeper(PhaseCommand, ctx)
}

func (s *CommandState) Exit(ctx *Context) error {
	return exitWithBookkeeper(PhaseCommand, ctx)
}

func (s *CommandState) Validate(ctx *Context) error {
	return nil
}

// MoveState represents movement activations
type MoveState struct{}

func NewMoveState() State {
	return &MoveState{}
}

func (s *MoveState) Phase() Phase {
	return PhaseMove
}

func (s *MoveState) Enter(ctx *Context) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Entering move phase")
	return enterWithBookkeeper(PhaseMove, ctx)
}

func (s *MoveState) Exit(ctx *Context) error {
	return exitWithBookkeeper(PhaseMove, ctx)
}

func (s *MoveState) Validate(ctx *Context) error {
	return nil
}

// ShootState represents ranged attack activations
type ShootState struct{}

func NewShootState() State {
	return &ShootState{}
}

func (s *ShootState) Phase() Phase {
	return PhaseShoot
}

func (s *ShootState) Enter(ctx *Context) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Entering shoot phase")
	return enterWithBookkeeper(PhaseShoot, ctx)
}

func (s *ShootState) Exit(ctx *Context) error {
	return exitWithBookkeeper(PhaseShoot, ctx)
}

func (s *ShootState) Validate(ctx *Context) error {
	return nil
}

// ChargeState represents charge declarations
type ChargeState struct{}

func NewChargeState() State {
	return &ChargeState{}
}

func (s *ChargeState) Phase() Phase {
	return PhaseCharge
}

func (s *ChargeState) Enter(ctx *Context) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Entering charge phase")
	return enterWithBookkeeper(PhaseCharge, ctx)
}

func (s *ChargeState) Exit(ctx *Context) error {
	return exitWithBookkeeper(PhaseCharge, ctx)
}

func (s *ChargeState) Validate(ctx *Context) error {
	return nil
}

// FightState represents melee activations with internal sub-steps
type FightState struct{}

func NewFightState() State {
	return &FightState{}
}

func (s *FightState) Phase() Phase {
	return PhaseFight
}

func (s *FightState) Enter(ctx *Context) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Entering fight phase")
	ctx.Step = StepCharging
	return enterWithBookkeeper(PhaseFight, ctx)
}

func (s *FightState) Exit(ctx *Context) error {
	ctx.Step = StepNone
	return exitWithBookkeeper(PhaseFight, ctx)
}

func (s *FightState) Validate(ctx *Context) error {
	return nil
}

// EndedState is terminal: the turn limit was reached or a side eliminated
type EndedState struct{}

func NewEndedState() State {
	return &EndedState{}
}

func (s *EndedState) Phase() Phase {
	return PhaseEnded
}

func (s *EndedState) Enter(ctx *Context) error {
	ctx.Logger.Info().
		Int("turn", ctx.Turn).
		Int("winner", ctx.Winner).
		Msg("Episode ended")
	return enterWithBookkeeper(PhaseEnded, ctx)
}

func (s *EndedState) Exit(ctx *Context) error {
	return nil
}

func (s *EndedState) Validate(ctx *Context) error {
	return nil
}
