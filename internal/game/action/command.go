package action

import "fmt"

// CommandType discriminates decoded semantic commands
type CommandType string

const (
	CmdDeployUnit   CommandType = "deploy_unit"
	CmdMove         CommandType = "move"
	CmdShoot        CommandType = "shoot"
	CmdAdvance      CommandType = "advance"
	CmdCharge       CommandType = "charge"
	CmdFight        CommandType = "fight"
	CmdWait         CommandType = "wait"
	CmdInvalid      CommandType = "invalid"
	CmdAdvancePhase CommandType = "advance_phase"
)

// Command is the decoded, handler-ready form of a validated action index.
// The populated field set depends on Action.
type Command struct {
	Action CommandType

	// UnitID is the acting unit; -1 when no unit is involved
	UnitID int

	// DestCol/DestRow carry the destination hex for deploy/move/charge
	DestCol int
	DestRow int

	// TargetID is the target unit for shoot/charge/fight; -1 if none
	TargetID int

	// Heuristic is the selected movement heuristic for move commands
	Heuristic int

	// Intent is the selected deployment intent for deploy commands
	Intent int

	// Reason documents why a wait/invalid/advance_phase was produced
	Reason string

	// EndActivationRequired tells the caller to finish the activation
	// cycle even though the command could not be resolved. Only set on
	// invalid commands: the mask said yes, downstream semantics said no,
	// and the turn bookkeeping must stay consistent anyway.
	EndActivationRequired bool

	// InvalidActionPenalty marks a wait produced from a formally legal
	// index that referenced a nonexistent candidate slot. Reward shaping
	// reads this to penalize without crashing the episode.
	InvalidActionPenalty bool
}

// NewCommand creates a command with the no-unit/no-target sentinels set
func NewCommand(t CommandType) *Command {
	return &Command{Action: t, UnitID: -1, TargetID: -1}
}

// String returns a compact representation for logging
func (c *Command) String() string {
	switch c.Action {
	case CmdDeployUnit:
		return fmt.Sprintf("%s{unit=%d dest=(%d,%d)}", c.Action, c.UnitID, c.DestCol, c.DestRow)
	case CmdMove, CmdAdvance:
		return fmt.Sprintf("%s{unit=%d dest=(%d,%d) heuristic=%d}", c.Action, c.UnitID, c.DestCol, c.DestRow, c.Heuristic)
	case CmdShoot, CmdCharge, CmdFight:
		return fmt.Sprintf("%s{unit=%d target=%d}", c.Action, c.UnitID, c.TargetID)
	case CmdInvalid, CmdAdvancePhase:
		return fmt.Sprintf("%s{reason=%q}", c.Action, c.Reason)
	default:
		return fmt.Sprintf("%s{unit=%d}", c.Action, c.UnitID)
	}
}
