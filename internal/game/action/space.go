// Package action defines the fixed discrete action space shared by every
// phase of the turn engine, the boolean legality mask over it, and the
// strict normalization applied to raw integer actions before decoding.
package action

// SpaceSize is the number of discrete action slots. Every mask and every
// normalized action index lives in [0, SpaceSize).
const SpaceSize = 13

// Slot layout. The meaning of an index is phase-dependent; the constants
// below name the fixed regions of the space.
const (
	// SlotHeuristicBase..SlotHeuristicBase+NumHeuristicSlots-1 select a
	// movement heuristic during the move phase
	SlotHeuristicBase = 0
	NumHeuristicSlots = 4

	// SlotTargetBase..SlotTargetBase+NumTargetSlots-1 select one of up to
	// five candidate targets or hexes (shoot/charge/fight targets,
	// deployment intents)
	SlotTargetBase = 4
	NumTargetSlots = 5

	// SlotCharge declares a charge against the nearest reachable enemy
	SlotCharge = 9

	// SlotFight resolves the active unit's melee attacks
	SlotFight = 10

	// SlotWait skips the current activation; also the graceful
	// phase-advance action when no eligible units remain
	SlotWait = 11

	// SlotAdvance makes an advance move instead of a normal move
	SlotAdvance = 12
)

// Movement heuristic indices within the heuristic slot region
const (
	HeuristicTowardEnemy = iota
	HeuristicTowardObjective
	HeuristicRetreat
	HeuristicHold
)

// Mask is a fixed-length boolean legality vector over the action space.
// Invariant: a true entry is a guarantee that decoding that index cannot
// produce a domain error.
type Mask []bool

// NewMask returns an all-false mask of the standard size
func NewMask() Mask {
	return make(Mask, SpaceSize)
}

// ValidIndices returns the indices currently set in the mask, in order
func (m Mask) ValidIndices() []int {
	valid := make([]int, 0, len(m))
	for i, ok := range m {
		if ok {
			valid = append(valid, i)
		}
	}
	return valid
}

// Any reports whether at least one index is legal
func (m Mask) Any() bool {
	for _, ok := range m {
		if ok {
			return true
		}
	}
	return false
}
