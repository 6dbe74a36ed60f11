package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tabletop-rl/warhex/internal/game/core"
	"github.com/tabletop-rl/warhex/internal/game/events"
	"github.com/tabletop-rl/warhex/internal/game/phase"
)

// ObjectiveTracker maintains the persistent objective-controller map and
// awards victory points at deterministic scoring checkpoints.
type ObjectiveTracker struct {
	logger    zerolog.Logger
	episodeID string
	bus       *events.EventBus
}

// NewObjectiveTracker creates a new objective tracker
func NewObjectiveTracker(episodeID string, logger zerolog.Logger, bus *events.EventBus) *ObjectiveTracker {
	return &ObjectiveTracker{
		logger:    logger.With().Str("component", "objective_tracker").Logger(),
		episodeID: episodeID,
		bus:       bus,
	}
}

// UpdateControl recomputes every objective's controller from the current
// OC sums. The player with the strictly greater sum takes control; on a
// tie the sticky method keeps the previous controller while the occupy
// method reverts the objective to uncontested.
func (t *ObjectiveTracker) UpdateControl(gs *GameState) {
	for i := range gs.Objectives {
		obj := &gs.Objectives[i]

		// Lazily initialize to uncontested on first sight
		previous, seen := gs.Controllers[obj.ID]
		if !seen {
			previous = core.NoPlayer
			gs.Controllers[obj.ID] = previous
		}

		p1, p2 := gs.ObjectiveControl(obj)

		var controller int
		switch {
		case p1 > p2:
			controller = core.Player1
		case p2 > p1:
			controller = core.Player2
		default:
			if obj.Scoring.Method == core.ControlSticky {
				controller = previous
			} else {
				controller = core.NoPlayer
			}
		}

		if controller != previous {
			t.logger.Debug().
				Str("objective_id", obj.ID).
				Int("previous", previous).
				Int("controller", controller).
				Int("oc_p1", p1).
				Int("oc_p2", p2).
				Msg("Objective controller changed")
		}
		gs.Controllers[obj.ID] = controller
	}
}

// checkpointPhase resolves which phase hosts a player's scoring checkpoint
// on the given turn. On the final turn the second player's checkpoint is
// shifted to a later phase so both sides get an equal number of scoring
// opportunities.
func (t *ObjectiveTracker) checkpointPhase(obj *core.Objective, turn, player, maxTurns int) (phase.Phase, error) {
	name := obj.Scoring.DefaultPhase
	if name == "" {
		return phase.PhaseEnded, core.MissingField("timing.default_phase",
			fmt.Sprintf("objective %s", obj.ID))
	}
	if maxTurns > 0 && turn >= maxTurns && player == core.Player2 {
		if obj.Scoring.FinalTurnSecondPlayerPhase != "" {
			name = obj.Scoring.FinalTurnSecondPlayerPhase
		}
	}
	return phase.Parse(name)
}

// ScoreCheckpoint evaluates all objectives for the given player at the
// given phase of the current turn. Each (objective, turn, player) key is
// applied at most once; a repeated call is a no-op. Returns the points
// awarded by this call.
func (t *ObjectiveTracker) ScoreCheckpoint(gs *GameState, p phase.Phase, player, maxTurns int) (int, error) {
	t.UpdateControl(gs)

	totalAwarded := 0
	for i := range gs.Objectives {
		obj := &gs.Objectives[i]

		if gs.Turn < obj.Scoring.StartTurn {
			continue
		}

		checkPhase, err := t.checkpointPhase(obj, gs.Turn, player, maxTurns)
		if err != nil {
			return totalAwarded, err
		}
		if checkPhase != p {
			continue
		}

		key := ScoreKey{ObjectiveID: obj.ID, Turn: gs.Turn, Player: player}
		if _, done := gs.ScoredKeys[key]; done {
			continue
		}

		points, err := t.evaluateRules(gs, obj, player)
		if err != nil {
			return totalAwarded, err
		}
		gs.ScoredKeys[key] = struct{}{}

		if points == 0 {
			continue
		}

		gs.VictoryPoints[player] += points
		totalAwarded += points

		t.logger.Info().
			Str("objective_id", obj.ID).
			Int("player", player).
			Int("turn", gs.Turn).
			Int("points", points).
			Msg("Objective scored")

		if t.bus != nil {
			t.bus.Publish(events.NewObjectiveScoredEvent(t.episodeID, obj.ID, player, gs.Turn, points))
		}
	}
	return totalAwarded, nil
}

// evaluateRules sums the point values of satisfied conditions, clipped to
// the objective's per-turn cap. An unrecognized condition name is a fatal
// configuration error.
func (t *ObjectiveTracker) evaluateRules(gs *GameState, obj *core.Objective, player int) (int, error) {
	own, opp := gs.ObjectiveControl(obj)
	if player == core.Player2 {
		own, opp = opp, own
	}

	points := 0
	for _, rule := range obj.Scoring.Rules {
		switch rule.Condition {
		case core.CondControlAtLeastOne:
			if own >= 1 {
				points += rule.Points
			}
		case core.CondControlAtLeastTwo:
			if own >= 2 {
				points += rule.Points
			}
		case core.CondControlMoreThanOpponent:
			if own > opp {
				points += rule.Points
			}
		default:
			return 0, fmt.Errorf("objective %s: unknown scoring condition %q", obj.ID, rule.Condition)
		}
	}

	if obj.Scoring.MaxPointsPerTurn > 0 && points > obj.Scoring.MaxPointsPerTurn {
		points = obj.Scoring.MaxPointsPerTurn
	}
	return points, nil
}
