package core

// Player identifiers. NoPlayer marks uncontested objectives and draws.
const (
	NoPlayer = 0
	Player1  = 1
	Player2  = 2
)

// Opponent returns the other player's ID
func Opponent(player int) int {
	if player == Player1 {
		return Player2
	}
	return Player1
}

// Unit represents a single unit on the board.
// A unit is never removed from the unit table: HP <= 0 marks it dead and
// drops it from the position cache, but its ID stays valid for logging.
type Unit struct {
	ID       int
	Player   int
	Type     string
	Position Hex
	HP       int
	MaxHP    int
	Movement int
	// Per-weapon attack budgets, keyed by weapon name. Reset by the
	// shoot/fight phase entry hooks.
	ShotsLeft   map[string]int
	AttacksLeft map[string]int
	// Rule tags attached at scenario load (e.g. "infantry", "fly")
	Tags []string
	// Points is the army value of the unit, used by the victory tie-breaker
	Points int
	// OC is the objective-control contribution while the unit occupies
	// an objective hex
	OC int
}

// IsAlive reports whether the unit still participates in the game
func (u *Unit) IsAlive() bool {
	return u.HP > 0
}

// HasTag checks whether the unit carries the given rule tag
func (u *Unit) HasTag(tag string) bool {
	for _, t := range u.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
