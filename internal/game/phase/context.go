package phase

import (
	"github.com/rs/zerolog"
)

// Bookkeeper is implemented by the engine. Phase entry hooks are the only
// place allowed to reset per-phase bookkeeping (activation pools, acted
// sets, activation-order trackers), and they do it through this interface.
type Bookkeeper interface {
	// EnterPhase builds the phase's activation pools and resets bookkeeping
	EnterPhase(p Phase, ctx *Context) error
	// ExitPhase tears down any per-phase state before the next phase begins
	ExitPhase(p Phase, ctx *Context) error
}

// Context provides episode-level information to phase states
type Context struct {
	// EpisodeID uniquely identifies this episode
	EpisodeID string

	// Logger for phase-specific logging
	Logger zerolog.Logger

	// Turn is the current battle round, starting at 1 after deployment
	Turn int

	// CurrentPlayer is the player whose activations are being processed
	CurrentPlayer int

	// Step is the fight-phase sub-state; StepNone outside the fight phase
	Step FightStep

	// MaxTurns is the configured turn limit
	MaxTurns int

	// Winner is the resolved winner once the episode ends (-1 for a draw)
	Winner int

	// Bookkeeper receives the phase enter/exit hooks
	Bookkeeper Bookkeeper
}

// NewContext creates a new phase context
func NewContext(episodeID string, maxTurns int, logger zerolog.Logger) *Context {
	return &Context{
		EpisodeID: episodeID,
		MaxTurns:  maxTurns,
		Logger:    logger.With().Str("episode_id", episodeID).Logger(),
		Step:      StepNone,
		Winner:    -1,
	}
}

// IsFinalTurn reports whether the current turn is the configured last one
func (c *Context) IsFinalTurn() bool {
	return c.MaxTurns > 0 && c.Turn >= c.MaxTurns
}
