package game

import (
	"github.com/rs/zerolog"

	"github.com/tabletop-rl/warhex/internal/game/core"
)

// Victory resolution methods reported for telemetry
const (
	MethodObjectives    = "objectives"
	MethodValueTiebreak = "value_tiebreaker"
	MethodDraw          = "draw"
)

// DrawWinner is the winner value reported for a drawn episode
const DrawWinner = -1

// VictoryResolver determines the outcome of a finished episode. The
// episode ends only when the turn-limit flag is set; a flag forced by an
// enclosing process is treated identically to one reached organically.
// Elimination detection is a collaborator's job that feeds the same flag.
type VictoryResolver struct {
	logger zerolog.Logger
}

// NewVictoryResolver creates a new victory resolver
func NewVictoryResolver(logger zerolog.Logger) *VictoryResolver {
	return &VictoryResolver{
		logger: logger.With().Str("component", "victory_resolver").Logger(),
	}
}

// IsOver reports whether the episode has ended
func (r *VictoryResolver) IsOver(gs *GameState) bool {
	return gs.TurnLimitReached
}

// Resolve returns the winner and the method that decided it. Winner is
// the player with strictly more victory points; on a tie, the player
// with the greater remaining army value; failing that, a draw.
func (r *VictoryResolver) Resolve(gs *GameState) (int, string) {
	if !gs.TurnLimitReached {
		return DrawWinner, MethodDraw
	}

	vp1 := gs.VictoryPoints[core.Player1]
	vp2 := gs.VictoryPoints[core.Player2]

	if vp1 != vp2 {
		winner := core.Player1
		if vp2 > vp1 {
			winner = core.Player2
		}
		r.logger.Info().
			Int("winner", winner).
			Int("vp_p1", vp1).
			Int("vp_p2", vp2).
			Str("method", MethodObjectives).
			Msg("Winner determined")
		return winner, MethodObjectives
	}

	value1 := gs.ArmyValue(core.Player1)
	value2 := gs.ArmyValue(core.Player2)

	if value1 != value2 {
		winner := core.Player1
		if value2 > value1 {
			winner = core.Player2
		}
		r.logger.Info().
			Int("winner", winner).
			Int("army_value_p1", value1).
			Int("army_value_p2", value2).
			Str("method", MethodValueTiebreak).
			Msg("Winner determined by value tie-breaker")
		return winner, MethodValueTiebreak
	}

	r.logger.Info().
		Int("vp", vp1).
		Int("army_value", value1).
		Msg("Episode drawn")
	return DrawWinner, MethodDraw
}

// Winner returns only the winning player. It must always agree with
// Resolve for identical inputs.
func (r *VictoryResolver) Winner(gs *GameState) int {
	winner, _ := r.Resolve(gs)
	return winner
}
