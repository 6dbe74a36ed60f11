package events

import "time"

// Event type constants
const (
	TypeEpisodeStarted  = "episode.started"
	TypeEpisodeEnded    = "episode.ended"
	TypeTurnStarted     = "turn.started"
	TypePhaseTransition = "phase.transition"
	TypeUnitDeployed    = "unit.deployed"
	TypeUnitActivated   = "unit.activated"
	TypeActionRejected  = "action.rejected"
	TypeObjectiveScored = "objective.scored"
	TypeUnitDestroyed   = "unit.destroyed"
)

// EpisodeStartedEvent is published when a new episode begins
type EpisodeStartedEvent struct {
	BaseEvent
	NumUnits    int
	BoardWidth  int
	BoardHeight int
}

// NewEpisodeStartedEvent creates a new EpisodeStartedEvent
func NewEpisodeStartedEvent(episodeID string, numUnits, width, height int) *EpisodeStartedEvent {
	return &EpisodeStartedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeEpisodeStarted,
			Time:      time.Now(),
			Episode:   episodeID,
		},
		NumUnits:    numUnits,
		BoardWidth:  width,
		BoardHeight: height,
	}
}

// EpisodeEndedEvent is published when the episode terminates
type EpisodeEndedEvent struct {
	BaseEvent
	Winner    int
	Method    string
	FinalTurn int
}

// NewEpisodeEndedEvent creates a new EpisodeEndedEvent
func NewEpisodeEndedEvent(episodeID string, winner int, method string, finalTurn int) *EpisodeEndedEvent {
	return &EpisodeEndedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeEpisodeEnded,
			Time:      time.Now(),
			Episode:   episodeID,
		},
		Winner:    winner,
		Method:    method,
		FinalTurn: finalTurn,
	}
}

// TurnStartedEvent is published at the beginning of each battle round
type TurnStartedEvent struct {
	BaseEvent
	Turn int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(episodeID string, turn int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeTurnStarted,
			Time:      time.Now(),
			Episode:   episodeID,
		},
		Turn: turn,
	}
}

// PhaseTransitionEvent is published on every phase machine transition
type PhaseTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewPhaseTransitionEvent creates a new PhaseTransitionEvent
func NewPhaseTransitionEvent(episodeID, from, to, reason string) *PhaseTransitionEvent {
	return &PhaseTransitionEvent{
		BaseEvent: BaseEvent{
			EventType: TypePhaseTransition,
			Time:      time.Now(),
			Episode:   episodeID,
		},
		FromPhase: from,
		ToPhase:   to,
		Reason:    reason,
	}
}

// UnitDeployedEvent is published when a unit is placed on the board
type UnitDeployedEvent struct {
	BaseEvent
	UnitID  int
	Player  int
	DestCol int
	DestRow int
}

// NewUnitDeployedEvent creates a new UnitDeployedEvent
func NewUnitDeployedEvent(episodeID string, unitID, player, destCol, destRow int) *UnitDeployedEvent {
	return &UnitDeployedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeUnitDeployed,
			Time:      time.Now(),
			Episode:   episodeID,
		},
		UnitID:  unitID,
		Player:  player,
		DestCol: destCol,
		DestRow: destRow,
	}
}

// UnitActivatedEvent is published when a decoded command consumes a unit's activation
type UnitActivatedEvent struct {
	BaseEvent
	UnitID int
	Player int
	Phase  string
	Action string
}

// NewUnitActivatedEvent creates a new UnitActivatedEvent
func NewUnitActivatedEvent(episodeID string, unitID, player int, phaseName, action string) *UnitActivatedEvent {
	return &UnitActivatedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeUnitActivated,
			Time:      time.Now(),
			Episode:   episodeID,
		},
		UnitID: unitID,
		Player: player,
		Phase:  phaseName,
		Action: action,
	}
}

// ActionRejectedEvent is published when a raw action fails normalization
// or mask validation
type ActionRejectedEvent struct {
	BaseEvent
	Player    int
	Phase     string
	ErrorCode string
}

// NewActionRejectedEvent creates a new ActionRejectedEvent
func NewActionRejectedEvent(episodeID string, player int, phaseName, errorCode string) *ActionRejectedEvent {
	return &ActionRejectedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeActionRejected,
			Time:      time.Now(),
			Episode:   episodeID,
		},
		Player:    player,
		Phase:     phaseName,
		ErrorCode: errorCode,
	}
}

// ObjectiveScoredEvent is published when a scoring checkpoint awards points
type ObjectiveScoredEvent struct {
	BaseEvent
	ObjectiveID string
	Player      int
	Turn        int
	Points      int
}

// NewObjectiveScoredEvent creates a new ObjectiveScoredEvent
func NewObjectiveScoredEvent(episodeID, objectiveID string, player, turn, points int) *ObjectiveScoredEvent {
	return &ObjectiveScoredEvent{
		BaseEvent: BaseEvent{
			EventType: TypeObjectiveScored,
			Time:      time.Now(),
			Episode:   episodeID,
		},
		ObjectiveID: objectiveID,
		Player:      player,
		Turn:        turn,
		Points:      points,
	}
}

// UnitDestroyedEvent is published when a unit's HP reaches zero
type UnitDestroyedEvent struct {
	BaseEvent
	UnitID int
	Player int
	Turn   int
}

// NewUnitDestroyedEvent creates a new UnitDestroyedEvent
func NewUnitDestroyedEvent(episodeID string, unitID, player, turn int) *UnitDestroyedEvent {
	return &UnitDestroyedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeUnitDestroyed,
			Time:      time.Now(),
			Episode:   episodeID,
		},
		UnitID: unitID,
		Player: player,
		Turn:   turn,
	}
}
