package phase

import "fmt"

// Phase represents the current phase of a battle round
type Phase int

const (
	// PhaseDeployment - Alternating unit placement before the first round
	PhaseDeployment Phase = iota

	// PhaseCommand - Round start bookkeeping and objective scoring
	PhaseCommand

	// PhaseMove - Movement activations
	PhaseMove

	// PhaseShoot - Ranged attack activations
	PhaseShoot

	// PhaseCharge - Charge declarations and moves
	PhaseCharge

	// PhaseFight - Melee activations, with internal fight steps
	PhaseFight

	// PhaseEnded - Terminal state, victory resolved
	PhaseEnded
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseDeployment:
		return "deployment"
	case PhaseCommand:
		return "command"
	case PhaseMove:
		return "move"
	case PhaseShoot:
		return "shoot"
	case PhaseCharge:
		return "charge"
	case PhaseFight:
		return "fight"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p Phase) IsTerminal() bool {
	return p == PhaseEnded
}

// CanReceiveActions returns true if activations are processed in this phase
func (p Phase) CanReceiveActions() bool {
	return p != PhaseEnded
}

// AllowedTransitions returns the valid phases this phase can transition to.
// Every non-terminal phase may also transition to PhaseEnded: an enclosing
// process can force the turn-limit flag at any point and the machine must
// honor it.
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseDeployment:
		return []Phase{PhaseCommand, PhaseEnded}
	case PhaseCommand:
		return []Phase{PhaseMove, PhaseEnded}
	case PhaseMove:
		return []Phase{PhaseShoot, PhaseEnded}
	case PhaseShoot:
		return []Phase{PhaseCharge, PhaseEnded}
	case PhaseCharge:
		return []Phase{PhaseFight, PhaseEnded}
	case PhaseFight:
		return []Phase{PhaseCommand, PhaseEnded}
	default:
		return []Phase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range p.AllowedTransitions() {
		if next == target {
			return true
		}
	}
	return false
}

// Next returns the phase that follows this one in normal round order
func (p Phase) Next() Phase {
	switch p {
	case PhaseDeployment:
		return PhaseCommand
	case PhaseCommand:
		return PhaseMove
	case PhaseMove:
		return PhaseShoot
	case PhaseShoot:
		return PhaseCharge
	case PhaseCharge:
		return PhaseFight
	case PhaseFight:
		return PhaseCommand
	default:
		return PhaseEnded
	}
}

// Parse converts a config string to a Phase
func Parse(s string) (Phase, error) {
	switch s {
	case "deployment":
		return PhaseDeployment, nil
	case "command":
		return PhaseCommand, nil
	case "move":
		return PhaseMove, nil
	case "shoot":
		return PhaseShoot, nil
	case "charge":
		return PhaseCharge, nil
	case "fight":
		return PhaseFight, nil
	case "ended":
		return PhaseEnded, nil
	default:
		return PhaseEnded, fmt.Errorf("unknown phase %q", s)
	}
}

// FightStep represents the internal sub-state of the fight phase
type FightStep int

const (
	// StepNone - Not in the fight phase
	StepNone FightStep = iota

	// StepCharging - Units that charged this round fight first
	StepCharging

	// StepAlternatingActive - Active player picks a unit to fight
	StepAlternatingActive

	// StepAlternatingNonActive - Non-active player picks a unit to fight
	StepAlternatingNonActive

	// StepCleanupActive - Remaining active-player units fight
	StepCleanupActive

	// StepCleanupNonActive - Remaining non-active-player units fight
	StepCleanupNonActive
)

// String returns the string representation of a FightStep
func (s FightStep) String() string {
	switch s {
	case StepNone:
		return "none"
	case StepCharging:
		return "charging"
	case StepAlternatingActive:
		return "alternating_active"
	case StepAlternatingNonActive:
		return "alternating_non_active"
	case StepCleanupActive:
		return "cleanup_active"
	case StepCleanupNonActive:
		return "cleanup_non_active"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// CanTransitionTo checks whether a fight-step change is legal. Charging
// leads into the alternating steps, which swap back and forth until one
// side runs dry and the cleanup steps drain the rest.
func (s FightStep) CanTransitionTo(target FightStep) bool {
	switch s {
	case StepCharging:
		return target == StepAlternatingActive || target == StepAlternatingNonActive ||
			target == StepCleanupActive || target == StepCleanupNonActive
	case StepAlternatingActive:
		return target == StepAlternatingNonActive || target == StepCleanupActive || target == StepCleanupNonActive
	case StepAlternatingNonActive:
		return target == StepAlternatingActive || target == StepCleanupActive || target == StepCleanupNonActive
	case StepCleanupActive:
		return target == StepCleanupNonActive || target == StepNone
	case StepCleanupNonActive:
		return target == StepCleanupActive || target == StepNone
	case StepNone:
		return target == StepCharging
	default:
		return false
	}
}
