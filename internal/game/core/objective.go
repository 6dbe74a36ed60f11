package core

import "fmt"

// ControlMethod determines how ties in objective-control sums are resolved
type ControlMethod int

const (
	// ControlSticky keeps the previous controller on a tie
	ControlSticky ControlMethod = iota
	// ControlOccupy reverts to uncontested on a tie
	ControlOccupy
)

// String returns the string representation of a ControlMethod
func (m ControlMethod) String() string {
	switch m {
	case ControlSticky:
		return "sticky"
	case ControlOccupy:
		return "occupy"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseControlMethod converts a config string to a ControlMethod
func ParseControlMethod(s string) (ControlMethod, error) {
	switch s {
	case "sticky":
		return ControlSticky, nil
	case "occupy":
		return ControlOccupy, nil
	default:
		return ControlSticky, fmt.Errorf("unknown control method %q", s)
	}
}

// Scoring condition names recognized by the objective tracker.
// Any other name in loaded config is a fatal configuration error.
const (
	CondControlAtLeastOne      = "control_at_least_one"
	CondControlAtLeastTwo      = "control_at_least_two"
	CondControlMoreThanOpponent = "control_more_than_opponent"
)

// ScoringRule maps a named control condition to a point value
type ScoringRule struct {
	Condition string
	Points    int
}

// ScoringConfig describes when and how an objective awards victory points.
// Phases are carried as names; the tracker resolves them against the phase
// enum at first use.
type ScoringConfig struct {
	Method ControlMethod
	Rules  []ScoringRule
	// MaxPointsPerTurn clips the sum of satisfied rules per checkpoint
	MaxPointsPerTurn int
	// StartTurn is the earliest turn the objective scores
	StartTurn int
	// DefaultPhase names the phase whose checkpoint evaluates scoring
	DefaultPhase string
	// FinalTurnSecondPlayerPhase shifts the second player's checkpoint on
	// the last turn so both sides get equal scoring opportunities
	FinalTurnSecondPlayerPhase string
}

// Objective is an immutable set of hexes contested for victory points
type Objective struct {
	ID      string
	Hexes   []Hex
	Scoring ScoringConfig
}

// Contains reports whether the given hex belongs to this objective
func (o *Objective) Contains(h Hex) bool {
	for _, oh := range o.Hexes {
		if oh.Equal(h) {
			return true
		}
	}
	return false
}
