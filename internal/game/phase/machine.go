package phase

import (
	"fmt"
	"time"

	"github.com/tabletop-rl/warhex/internal/game/events"
)

// State represents a phase with lifecycle callbacks
type State interface {
	// Phase returns the Phase this state represents
	Phase() Phase

	// Enter is called when transitioning into this state
	Enter(ctx *Context) error

	// Exit is called when transitioning out of this state
	Exit(ctx *Context) error

	// Validate checks if the state is valid given the context
	Validate(ctx *Context) error
}

// Transition represents a phase transition in the history
type Transition struct {
	From      Phase
	To        Phase
	Timestamp time.Time
	Reason    string
}

// Machine manages phase transitions and history. It is confined to its
// owning episode: all calls happen on one goroutine, per the engine's
// one-writer resource model.
type Machine struct {
	currentPhase   Phase
	states         map[Phase]State
	context        *Context
	history        []Transition
	maxHistorySize int
	eventBus       *events.EventBus
}

// NewMachine creates a new phase machine starting in the deployment phase
func NewMachine(ctx *Context, eventBus *events.EventBus) *Machine {
	m := &Machine{
		currentPhase:   PhaseDeployment,
		states:         make(map[Phase]State),
		context:        ctx,
		history:        make([]Transition, 0, 64),
		maxHistorySize: 1000,
		eventBus:       eventBus,
	}

	m.registerDefaultStates()

	return m
}

// registerDefaultStates registers the built-in phase implementations
func (m *Machine) registerDefaultStates() {
	m.RegisterState(NewDeploymentState())
	m.RegisterState(NewCommandState())
	m.RegisterState(NewMoveState())
	m.RegisterState(NewShootState())
	m.RegisterState(NewChargeState())
	m.RegisterState(NewFightState())
	m.RegisterState(NewEndedState())
}

// RegisterState registers a phase implementation
func (m *Machine) RegisterState(state State) {
	m.states[state.Phase()] = state
}

// Current returns the current phase
func (m *Machine) Current() Phase {
	return m.currentPhase
}

// Context returns the phase context
func (m *Machine) Context() *Context {
	return m.context
}

// Start runs the entry hook of the initial phase. Called once per episode
// before any action is processed.
func (m *Machine) Start() error {
	state, ok := m.states[m.currentPhase]
	if !ok {
		return fmt.Errorf("no state implementation for phase %s", m.currentPhase)
	}
	if err := state.Validate(m.context); err != nil {
		return fmt.Errorf("initial state validation failed: %w", err)
	}
	return state.Enter(m.context)
}

// TransitionTo attempts to transition to the target phase
func (m *Machine) TransitionTo(target Phase, reason string) error {
	if !m.currentPhase.CanTransitionTo(target) {
		return fmt.Errorf("invalid transition from %s to %s", m.currentPhase, target)
	}

	currentState, hasCurrentState := m.states[m.currentPhase]
	targetState, hasTargetState := m.states[target]

	if !hasTargetState {
		return fmt.Errorf("no state implementation for phase %s", target)
	}

	if err := targetState.Validate(m.context); err != nil {
		return fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(m.context); err != nil {
			m.context.Logger.Error().
				Err(err).
				Str("from_phase", m.currentPhase.String()).
				Str("to_phase", target.String()).
				Msg("Error exiting phase")
			// Continue with the transition despite exit errors
		}
	}

	m.addToHistory(Transition{
		From:      m.currentPhase,
		To:        target,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	previous := m.currentPhase
	m.currentPhase = target

	if err := targetState.Enter(m.context); err != nil {
		// Rollback on enter failure
		m.currentPhase = previous
		return fmt.Errorf("failed to enter phase %s: %w", target, err)
	}

	if m.eventBus != nil {
		m.eventBus.Publish(events.NewPhaseTransitionEvent(
			m.context.EpisodeID,
			previous.String(),
			target.String(),
			reason,
		))
	}

	m.context.Logger.Info().
		Str("from_phase", previous.String()).
		Str("to_phase", target.String()).
		Str("reason", reason).
		Msg("Phase transition completed")

	return nil
}

// AdvanceFightStep moves the fight phase to the given sub-state
func (m *Machine) AdvanceFightStep(target FightStep, reason string) error {
	if m.currentPhase != PhaseFight {
		return fmt.Errorf("fight step change outside fight phase (in %s)", m.currentPhase)
	}
	if !m.context.Step.CanTransitionTo(target) {
		return fmt.Errorf("invalid fight step transition from %s to %s", m.context.Step, target)
	}

	previous := m.context.Step
	m.context.Step = target

	m.context.Logger.Debug().
		Str("from_step", previous.String()).
		Str("to_step", target.String()).
		Str("reason", reason).
		Msg("Fight step advanced")

	return nil
}

// addToHistory adds a transition to the history, maintaining max size
func (m *Machine) addToHistory(transition Transition) {
	m.history = append(m.history, transition)

	if len(m.history) > m.maxHistorySize {
		m.history = m.history[len(m.history)-m.maxHistorySize:]
	}
}

// History returns a copy of the transition history
func (m *Machine) History() []Transition {
	history := make([]Transition, len(m.history))
	copy(history, m.history)
	return history
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (m *Machine) CanTransitionTo(target Phase) bool {
	return m.currentPhase.CanTransitionTo(target)
}
