package subscribers

import (
	"github.com/rs/zerolog"

	"github.com/tabletop-rl/warhex/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // nil means log all event types
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (empty means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("episode_id", event.EpisodeID()).
		Time("event_time", event.Timestamp())

	switch e := event.(type) {
	case *events.PhaseTransitionEvent:
		logEvent = logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	case *events.TurnStartedEvent:
		logEvent = logEvent.Int("turn", e.Turn)
	case *events.UnitDeployedEvent:
		logEvent = logEvent.
			Int("unit_id", e.UnitID).
			Int("player", e.Player).
			Int("dest_col", e.DestCol).
			Int("dest_row", e.DestRow)
	case *events.UnitActivatedEvent:
		logEvent = logEvent.
			Int("unit_id", e.UnitID).
			Int("player", e.Player).
			Str("phase", e.Phase).
			Str("action", e.Action)
	case *events.ActionRejectedEvent:
		logEvent = logEvent.
			Int("player", e.Player).
			Str("phase", e.Phase).
			Str("error_code", e.ErrorCode)
	case *events.ObjectiveScoredEvent:
		logEvent = logEvent.
			Str("objective_id", e.ObjectiveID).
			Int("player", e.Player).
			Int("turn", e.Turn).
			Int("points", e.Points)
	case *events.UnitDestroyedEvent:
		logEvent = logEvent.
			Int("unit_id", e.UnitID).
			Int("player", e.Player).
			Int("turn", e.Turn)
	case *events.EpisodeEndedEvent:
		logEvent = logEvent.
			Int("winner", e.Winner).
			Str("method", e.Method).
			Int("final_turn", e.FinalTurn)
	}

	logEvent.Msg("Game event")
}
