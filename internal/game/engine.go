package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tabletop-rl/warhex/internal/game/action"
	"github.com/tabletop-rl/warhex/internal/game/core"
	"github.com/tabletop-rl/warhex/internal/game/deploy"
	"github.com/tabletop-rl/warhex/internal/game/events"
	"github.com/tabletop-rl/warhex/internal/game/phase"
)

// Deployment placement modes
const (
	DeployScored = "scored"
	DeployFixed  = "fixed"
	DeployRandom = "random"
)

// maxSettleIterations bounds the auto-advance loop; the phase graph is
// finite so a longer chain means a broken invariant
const maxSettleIterations = 64

// ScenarioConfig describes one episode's scenario
type ScenarioConfig struct {
	BoardWidth  int
	BoardHeight int
	MaxTurns    int

	ShootRange   int
	ChargeRange  int
	AdvanceBonus int

	Walls []core.Hex

	// DeploymentType selects how deploy commands resolve their hex:
	// scored (planner intents), fixed (explicit coordinates), or random
	// (engine-drawn from the zone pool)
	DeploymentType string
	// FixedPositions maps unit id to its coordinate for fixed deployment
	FixedPositions map[int]core.Hex
	// DeployZones holds each player's legal deployment hexes
	DeployZones map[int][]core.Hex

	Units      []core.Unit
	Objectives []core.Objective
}

// Validate checks the scenario for fatal configuration errors
func (c *ScenarioConfig) Validate() error {
	if c.BoardWidth <= 0 || c.BoardHeight <= 0 {
		return fmt.Errorf("board dimensions must be positive, got %dx%d", c.BoardWidth, c.BoardHeight)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be positive, got %d", c.MaxTurns)
	}
	switch c.DeploymentType {
	case DeployScored, DeployFixed, DeployRandom:
	case "":
		return core.MissingField("deployment_type", "scenario config")
	default:
		return fmt.Errorf("unknown deployment type %q", c.DeploymentType)
	}
	if len(c.DeployZones) == 0 {
		return core.MissingField("deploy_zones", "scenario config")
	}
	for i := range c.Objectives {
		obj := &c.Objectives[i]
		if obj.Scoring.DefaultPhase == "" {
			return core.MissingField("timing.default_phase", fmt.Sprintf("objective %s", obj.ID))
		}
		if _, err := phase.Parse(obj.Scoring.DefaultPhase); err != nil {
			return fmt.Errorf("objective %s: %w", obj.ID, err)
		}
	}
	return nil
}

// CombatResolver applies attack results. Dice pools and damage tables are
// collaborator territory; the engine only needs the resulting damage.
type CombatResolver interface {
	ResolveShoot(attacker, target *core.Unit) int
	ResolveFight(attacker, target *core.Unit) int
}

// fixedDamageResolver is the deterministic default: every resolved attack
// deals one damage
type fixedDamageResolver struct{}

func (fixedDamageResolver) ResolveShoot(attacker, target *core.Unit) int { return 1 }
func (fixedDamageResolver) ResolveFight(attacker, target *core.Unit) int { return 1 }

// Engine orchestrates one episode: it owns the game state, the phase
// machine and every core component, and exposes the mask/decode contract
// to the driving caller. One engine, one goroutine, no sharing.
type Engine struct {
	id      string
	cfg     ScenarioConfig
	gs      *GameState
	dep     *deploy.State
	machine *phase.Machine
	pools   *PoolManager
	codec   *Codec
	planner *deploy.Planner
	tracker *ObjectiveTracker
	resolver *VictoryResolver
	combat  CombatResolver
	bus     *events.EventBus
	logger  zerolog.Logger
	rng     *rand.Rand
	los     deploy.LineOfSight
}

// NewEngine creates an engine for the given scenario and starts the
// deployment phase
func NewEngine(cfg ScenarioConfig, rng *rand.Rand, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario config: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	id := uuid.NewString()
	logger = logger.With().Str("episode_id", id).Logger()

	gs := NewGameState(cfg.BoardWidth, cfg.BoardHeight)
	for _, w := range cfg.Walls {
		gs.Walls[w] = true
	}
	gs.Objectives = cfg.Objectives

	queues := map[int][]core.Unit{core.Player1: nil, core.Player2: nil}
	for i := range cfg.Units {
		u := cfg.Units[i]
		if err := gs.AddUnit(&u); err != nil {
			return nil, err
		}
		queues[u.Player] = append(queues[u.Player], u)
	}

	dep := deploy.NewState(queues)
	for player, zone := range cfg.DeployZones {
		pool := make([]core.Hex, 0, len(zone))
		for _, h := range zone {
			if !h.IsValid(cfg.BoardWidth, cfg.BoardHeight) {
				return nil, fmt.Errorf("deploy zone hex %s: %w", h, core.ErrInvalidHex)
			}
			if gs.Walls[h] {
				continue
			}
			pool = append(pool, h)
		}
		dep.HexPools[player] = pool
	}

	bus := events.NewEventBus()

	e := &Engine{
		id:       id,
		cfg:      cfg,
		gs:       gs,
		dep:      dep,
		pools:    NewPoolManager(logger),
		planner:  deploy.NewPlanner(logger),
		tracker:  NewObjectiveTracker(id, logger, bus),
		resolver: NewVictoryResolver(logger),
		combat:   fixedDamageResolver{},
		bus:      bus,
		logger:   logger,
		rng:      rng,
		los:      deploy.WallLOS{Walls: gs.Walls},
	}

	e.codec = NewCodec(logger, cfg.ShootRange, cfg.ChargeRange, cfg.AdvanceBonus)
	e.codec.selectDeployHex = e.resolveDeployHex

	ctx := phase.NewContext(id, cfg.MaxTurns, logger)
	ctx.Bookkeeper = e
	e.machine = phase.NewMachine(ctx, bus)

	if err := e.machine.Start(); err != nil {
		return nil, err
	}

	bus.Publish(events.NewEpisodeStartedEvent(id, len(cfg.Units), cfg.BoardWidth, cfg.BoardHeight))
	return e, nil
}

// ID returns the episode id
func (e *Engine) ID() string { return e.id }

// State returns the engine's game state snapshot
func (e *Engine) State() *GameState { return e.gs }

// EventBus returns the episode's event bus for subscribers
func (e *Engine) EventBus() *events.EventBus { return e.bus }

// CurrentPhase returns the machine's current phase
func (e *Engine) CurrentPhase() phase.Phase { return e.machine.Current() }

// SetCombatResolver swaps in a collaborator-provided combat resolver
func (e *Engine) SetCombatResolver(r CombatResolver) {
	if r != nil {
		e.combat = r
	}
}

// IsOver reports whether the episode has ended
func (e *Engine) IsOver() bool { return e.gs.Phase.IsTerminal() }

// Resolve returns the winner and deciding method for a finished episode
func (e *Engine) Resolve() (int, string) { return e.resolver.Resolve(e.gs) }

// Winner returns only the winner of a finished episode
func (e *Engine) Winner() int { return e.resolver.Winner(e.gs) }

// ForceTurnLimit lets an enclosing process terminate the episode; the
// resolver treats the forced flag identically to an organic turn limit
func (e *Engine) ForceTurnLimit() {
	e.gs.TurnLimitReached = true
}

// GetActionMaskAndEligibleUnits returns the current legality mask and the
// ordered eligible-unit list
func (e *Engine) GetActionMaskAndEligibleUnits() (action.Mask, []int, error) {
	eligible, err := e.pools.EligibleUnits(e.gs, e.dep)
	if err != nil {
		return nil, nil, err
	}
	return e.codec.BuildMask(e.gs, e.dep, eligible), eligible, nil
}

// GetActionMaskForUnit returns the mask with the given unit treated as
// active. No pool is reordered.
func (e *Engine) GetActionMaskForUnit(unitID int) (action.Mask, error) {
	eligible, err := e.pools.EligibleUnits(e.gs, e.dep)
	if err != nil {
		return nil, err
	}
	return e.codec.BuildMaskForUnit(e.gs, e.dep, eligible, unitID)
}

// Step normalizes, validates and decodes one raw action, applies the
// resulting command, and settles any phase auto-advances. Returns the
// decoded command.
func (e *Engine) Step(raw any) (*action.Command, error) {
	if e.gs.Phase.IsTerminal() {
		return nil, core.ErrEpisodeOver
	}

	if e.gs.TurnLimitReached {
		cmd := action.NewCommand(action.CmdAdvancePhase)
		cmd.Reason = "turn limit reached"
		if err := e.endEpisode(cmd.Reason); err != nil {
			return cmd, err
		}
		return cmd, nil
	}

	eligible, err := e.pools.EligibleUnits(e.gs, e.dep)
	if err != nil {
		return nil, err
	}
	mask := e.codec.BuildMask(e.gs, e.dep, eligible)

	// An all-false mask means no index can validate; the blocked
	// activation ends without an action and settling resumes
	if !mask.Any() && len(eligible) > 0 {
		cmd := action.NewCommand(action.CmdWait)
		cmd.UnitID = eligible[0]
		cmd.Reason = "no legal action for activation"
		e.endActivation(cmd)
		if e.gs.Phase == phase.PhaseFight {
			e.afterFightActivation()
		}
		if err := e.settle(); err != nil {
			return cmd, err
		}
		return cmd, nil
	}

	idx, err := action.Normalize(raw, e.gs.Phase, "engine", action.SpaceSize)
	if err != nil {
		e.publishRejected(err)
		return nil, err
	}

	actingUnit := -1
	if len(eligible) > 0 {
		actingUnit = eligible[0]
	}
	if err := action.ValidateAgainstMask(idx, mask, e.gs.Phase, "engine", actingUnit); err != nil {
		e.publishRejected(err)
		return nil, err
	}

	cmd := e.codec.Decode(e.gs, e.dep, idx, mask, eligible)
	if err := e.apply(cmd); err != nil {
		return cmd, err
	}
	if err := e.settle(); err != nil {
		return cmd, err
	}
	return cmd, nil
}

func (e *Engine) publishRejected(err error) {
	code := "unknown"
	if actionErr := action.AsError(err); actionErr != nil {
		code = string(actionErr.Code)
	}
	e.bus.Publish(events.NewActionRejectedEvent(e.id, e.gs.CurrentPlayer, e.gs.Phase.String(), code))
}

// apply mutates state according to one decoded command
func (e *Engine) apply(cmd *action.Command) error {
	switch cmd.Action {
	case action.CmdDeployUnit:
		return e.applyDeploy(cmd)

	case action.CmdMove, action.CmdAdvance:
		dest := core.Hex{Col: cmd.DestCol, Row: cmd.DestRow}
		if err := e.gs.PlaceUnit(cmd.UnitID, dest); err != nil {
			return err
		}
		e.endActivation(cmd)
		return nil

	case action.CmdShoot:
		attacker := e.gs.Units[cmd.UnitID]
		target := e.gs.Units[cmd.TargetID]
		damage := e.combat.ResolveShoot(attacker, target)
		spendBudget(attacker.ShotsLeft)
		if err := e.applyDamage(cmd.TargetID, damage); err != nil {
			return err
		}
		e.endActivation(cmd)
		return nil

	case action.CmdCharge:
		dest := core.Hex{Col: cmd.DestCol, Row: cmd.DestRow}
		if err := e.gs.PlaceUnit(cmd.UnitID, dest); err != nil {
			return err
		}
		e.gs.ChargedThisTurn[cmd.UnitID] = true
		e.endActivation(cmd)
		return nil

	case action.CmdFight:
		attacker := e.gs.Units[cmd.UnitID]
		target := e.gs.Units[cmd.TargetID]
		damage := e.combat.ResolveFight(attacker, target)
		spendBudget(attacker.AttacksLeft)
		if err := e.applyDamage(cmd.TargetID, damage); err != nil {
			return err
		}
		e.endActivation(cmd)
		e.afterFightActivation()
		return nil

	case action.CmdWait:
		if e.gs.Phase == phase.PhaseDeployment {
			// A wait during deployment means the hex pool ran dry while a
			// unit still had to deploy; that is a broken invariant
			return fmt.Errorf("player %d must deploy but: %w", e.gs.CurrentPlayer, core.ErrEmptyHexPool)
		}
		if cmd.InvalidActionPenalty {
			e.logger.Warn().
				Int("unit_id", cmd.UnitID).
				Str("reason", cmd.Reason).
				Msg("Penalized wait for unresolvable action")
		}
		if cmd.UnitID >= 0 {
			e.endActivation(cmd)
			if e.gs.Phase == phase.PhaseFight {
				e.afterFightActivation()
			}
		}
		return nil

	case action.CmdInvalid:
		// Deliberate escape hatch: the mask said yes, semantics said no.
		// End the activation so turn bookkeeping stays consistent.
		e.logger.Warn().
			Int("unit_id", cmd.UnitID).
			Str("reason", cmd.Reason).
			Msg("Invalid command, ending activation")
		if cmd.UnitID >= 0 {
			e.endActivation(cmd)
		}
		return nil

	case action.CmdAdvancePhase:
		return e.advancePhase(cmd.Reason)

	default:
		return fmt.Errorf("no apply rule for command %s", cmd.Action)
	}
}

func (e *Engine) applyDeploy(cmd *action.Command) error {
	dest := core.Hex{Col: cmd.DestCol, Row: cmd.DestRow}
	if err := e.gs.PlaceUnit(cmd.UnitID, dest); err != nil {
		return err
	}
	player := e.gs.Units[cmd.UnitID].Player
	e.dep.RemoveHex(player, dest)
	if err := e.dep.MarkDeployed(cmd.UnitID); err != nil {
		return err
	}
	e.bus.Publish(events.NewUnitDeployedEvent(e.id, cmd.UnitID, player, dest.Col, dest.Row))
	return nil
}

func (e *Engine) applyDamage(targetID, damage int) error {
	died, err := e.gs.ApplyDamage(targetID, damage)
	if err != nil {
		return err
	}
	if died {
		target := e.gs.Units[targetID]
		e.bus.Publish(events.NewUnitDestroyedEvent(e.id, targetID, target.Player, e.gs.Turn))
	}
	return nil
}

// endActivation removes the acting unit from the current phase's pool and
// publishes the activation event
func (e *Engine) endActivation(cmd *action.Command) {
	switch e.gs.Phase {
	case phase.PhaseMove:
		e.gs.RemoveFromPool(PoolMove, cmd.UnitID)
	case phase.PhaseShoot:
		e.gs.RemoveFromPool(PoolShootRaw, cmd.UnitID)
	case phase.PhaseCharge:
		e.gs.RemoveFromPool(PoolCharge, cmd.UnitID)
	case phase.PhaseFight:
		e.gs.RemoveFromPool(PoolFightCharging, cmd.UnitID)
		e.gs.RemoveFromPool(PoolFightActive, cmd.UnitID)
		e.gs.RemoveFromPool(PoolFightNonActive, cmd.UnitID)
	}

	if u, ok := e.gs.Units[cmd.UnitID]; ok {
		e.bus.Publish(events.NewUnitActivatedEvent(
			e.id, cmd.UnitID, u.Player, e.gs.Phase.String(), string(cmd.Action)))
	}
}

// afterFightActivation flips the alternating fight step when the other
// side still has units waiting to fight
func (e *Engine) afterFightActivation() {
	switch e.gs.FightStep {
	case phase.StepAlternatingActive:
		if e.poolHasLiving(PoolFightNonActive) {
			e.setFightStep(phase.StepAlternatingNonActive, "alternation")
		}
	case phase.StepAlternatingNonActive:
		if e.poolHasLiving(PoolFightActive) {
			e.setFightStep(phase.StepAlternatingActive, "alternation")
		}
	}
}

func (e *Engine) poolHasLiving(key PoolKey) bool {
	pool, ok := e.gs.Pools[key]
	if !ok {
		return false
	}
	for _, id := range pool {
		if u, ok := e.gs.Units[id]; ok && u.IsAlive() {
			return true
		}
	}
	return false
}

func (e *Engine) setFightStep(step phase.FightStep, reason string) {
	if err := e.machine.AdvanceFightStep(step, reason); err != nil {
		e.logger.Error().Err(err).Msg("Fight step transition rejected")
		return
	}
	e.gs.FightStep = e.machine.Context().Step
}

// settle auto-advances phases and fight steps while no unit is eligible,
// and terminates the episode once the turn-limit flag is up
func (e *Engine) settle() error {
	for i := 0; i < maxSettleIterations; i++ {
		if e.gs.Phase.IsTerminal() {
			return nil
		}
		if e.gs.TurnLimitReached {
			return e.endEpisode("turn limit reached")
		}

		eligible, err := e.pools.EligibleUnits(e.gs, e.dep)
		if err != nil {
			return err
		}
		if len(eligible) > 0 {
			return nil
		}

		if e.gs.Phase == phase.PhaseFight && e.advanceEmptyFightStep() {
			continue
		}
		if err := e.advancePhase("activation pool empty"); err != nil {
			return err
		}
	}
	return fmt.Errorf("phase settling did not converge after %d iterations", maxSettleIterations)
}

// advanceEmptyFightStep walks the fight steps forward when the current
// sub-pool is drained. Returns false once the whole phase is done.
func (e *Engine) advanceEmptyFightStep() bool {
	var next phase.FightStep
	switch e.gs.FightStep {
	case phase.StepCharging:
		next = phase.StepAlternatingActive
	case phase.StepAlternatingActive:
		next = phase.StepAlternatingNonActive
	case phase.StepAlternatingNonActive:
		next = phase.StepCleanupActive
	case phase.StepCleanupActive:
		next = phase.StepCleanupNonActive
	default:
		return false
	}
	e.setFightStep(next, "sub-pool empty")
	return e.gs.FightStep == next
}

// advancePhase moves the machine to the next phase, rotating player and
// turn at the fight boundary
func (e *Engine) advancePhase(reason string) error {
	current := e.gs.Phase

	if current == phase.PhaseDeployment {
		e.gs.Turn = 1
		e.gs.CurrentPlayer = core.Player1
		// The deployment aggregate is done; drop it
		e.dep = nil
	}

	if current == phase.PhaseFight {
		if e.gs.CurrentPlayer == core.Player1 {
			e.gs.CurrentPlayer = core.Player2
		} else {
			e.gs.CurrentPlayer = core.Player1
			e.gs.Turn++
		}
		if e.gs.Turn > e.cfg.MaxTurns {
			e.gs.TurnLimitReached = true
			return e.endEpisode("turn limit reached")
		}
	}

	e.machine.Context().Turn = e.gs.Turn
	e.machine.Context().CurrentPlayer = e.gs.CurrentPlayer

	return e.machine.TransitionTo(current.Next(), reason)
}

// endEpisode resolves victory and moves the machine to the terminal phase
func (e *Engine) endEpisode(reason string) error {
	winner, method := e.resolver.Resolve(e.gs)
	e.machine.Context().Winner = winner
	if err := e.machine.TransitionTo(phase.PhaseEnded, reason); err != nil {
		return err
	}
	e.bus.Publish(events.NewEpisodeEndedEvent(e.id, winner, method, e.gs.Turn))
	return nil
}

// EnterPhase is the phase machine's bookkeeping hook. It is the only
// place that builds activation pools and resets per-phase trackers.
func (e *Engine) EnterPhase(p phase.Phase, ctx *phase.Context) error {
	e.gs.Phase = p
	e.gs.FightStep = ctx.Step

	switch p {
	case phase.PhaseDeployment:
		// Pools come from the deployment aggregate

	case phase.PhaseCommand:
		if e.gs.CurrentPlayer == core.Player1 {
			e.bus.Publish(events.NewTurnStartedEvent(e.id, e.gs.Turn))
		}

	case phase.PhaseMove:
		e.gs.Pools[PoolMove] = e.gs.LivingUnits(e.gs.CurrentPlayer)

	case phase.PhaseShoot:
		// Raw pool carries both sides' pending activations; the eligible
		// view filters by ownership
		raw := append(e.gs.LivingUnits(e.gs.CurrentPlayer), e.gs.LivingUnits(core.Opponent(e.gs.CurrentPlayer))...)
		e.gs.Pools[PoolShootRaw] = raw
		for _, id := range raw {
			resetBudget(e.gs.Units[id].ShotsLeft)
		}

	case phase.PhaseCharge:
		e.gs.Pools[PoolCharge] = e.gs.LivingUnits(e.gs.CurrentPlayer)
		e.gs.ChargedThisTurn = make(map[int]bool)

	case phase.PhaseFight:
		e.buildFightPools()
		for _, id := range e.gs.LivingUnits(e.gs.CurrentPlayer) {
			resetBudget(e.gs.Units[id].AttacksLeft)
		}
		for _, id := range e.gs.LivingUnits(core.Opponent(e.gs.CurrentPlayer)) {
			resetBudget(e.gs.Units[id].AttacksLeft)
		}
	}

	// Control flips and scoring checkpoints are evaluated on every phase
	// entry; the tracker decides which (objective, turn, player) keys this
	// phase hosts
	if p != phase.PhaseDeployment && !p.IsTerminal() {
		e.tracker.UpdateControl(e.gs)
		if _, err := e.tracker.ScoreCheckpoint(e.gs, p, e.gs.CurrentPlayer, e.cfg.MaxTurns); err != nil {
			return err
		}
	}

	return nil
}

// ExitPhase drops the pools a phase owned so the next visit rebuilds them
func (e *Engine) ExitPhase(p phase.Phase, ctx *phase.Context) error {
	switch p {
	case phase.PhaseMove:
		delete(e.gs.Pools, PoolMove)
	case phase.PhaseShoot:
		delete(e.gs.Pools, PoolShootRaw)
	case phase.PhaseCharge:
		delete(e.gs.Pools, PoolCharge)
	case phase.PhaseFight:
		delete(e.gs.Pools, PoolFightCharging)
		delete(e.gs.Pools, PoolFightActive)
		delete(e.gs.Pools, PoolFightNonActive)
	}
	return nil
}

// buildFightPools constructs the three fight sub-pools: chargers first,
// then each side's engaged units
func (e *Engine) buildFightPools() {
	var charging []int
	for _, id := range e.gs.UnitOrder {
		if e.gs.ChargedThisTurn[id] && e.gs.Units[id].IsAlive() {
			charging = append(charging, id)
		}
	}

	engaged := func(player int, exclude map[int]bool) []int {
		var pool []int
		for _, id := range e.gs.LivingUnits(player) {
			if exclude[id] {
				continue
			}
			pos, onBoard := e.gs.Positions[id]
			if !onBoard {
				continue
			}
			if len(e.gs.UnitsWithin(pos, player, 1, true)) > 0 {
				pool = append(pool, id)
			}
		}
		return pool
	}

	e.gs.Pools[PoolFightCharging] = charging
	e.gs.Pools[PoolFightActive] = engaged(e.gs.CurrentPlayer, e.gs.ChargedThisTurn)
	e.gs.Pools[PoolFightNonActive] = engaged(core.Opponent(e.gs.CurrentPlayer), nil)
}

// resolveDeployHex turns a deployment intent into a concrete hex per the
// scenario's deployment type
func (e *Engine) resolveDeployHex(intent deploy.Intent, unitID int) (core.Hex, error) {
	player := e.gs.Units[unitID].Player

	switch e.cfg.DeploymentType {
	case DeployFixed:
		dest, ok := e.cfg.FixedPositions[unitID]
		if !ok {
			return core.Hex{}, core.MissingField("fixed_positions",
				fmt.Sprintf("unit %d has no fixed deployment coordinate", unitID))
		}
		if !e.inDeployPool(player, dest) {
			return core.Hex{}, fmt.Errorf("fixed coordinate %s for unit %d outside player %d's zone",
				dest, unitID, player)
		}
		return dest, nil

	case DeployRandom:
		pool := e.dep.PoolFor(player)
		if len(pool) == 0 {
			return core.Hex{}, fmt.Errorf("player %d: %w", player, core.ErrEmptyHexPool)
		}
		return pool[e.rng.Intn(len(pool))], nil

	default:
		return e.planner.SelectHex(intent, e.dep, e.scoreContext(player))
	}
}

func (e *Engine) inDeployPool(player int, h core.Hex) bool {
	for _, ph := range e.dep.PoolFor(player) {
		if ph.Equal(h) {
			return true
		}
	}
	return false
}

// scoreContext assembles the planner's read-only view for one selection
func (e *Engine) scoreContext(player int) deploy.ScoreContext {
	opponent := core.Opponent(player)

	placed := func(p int) []deploy.PlacedUnit {
		var units []deploy.PlacedUnit
		for _, id := range e.gs.UnitOrder {
			u := e.gs.Units[id]
			if u.Player != p || !u.IsAlive() {
				continue
			}
			if pos, onBoard := e.gs.Positions[id]; onBoard {
				units = append(units, deploy.PlacedUnit{ID: id, Pos: pos})
			}
		}
		return units
	}

	var objectiveHexes []core.Hex
	for i := range e.gs.Objectives {
		objectiveHexes = append(objectiveHexes, e.gs.Objectives[i].Hexes...)
	}

	return deploy.ScoreContext{
		Player:         player,
		BoardWidth:     e.gs.BoardWidth,
		BoardHeight:    e.gs.BoardHeight,
		EnemyUnits:     placed(opponent),
		AllyUnits:      placed(player),
		ObjectiveHexes: objectiveHexes,
		EnemyPool:      e.dep.PoolFor(opponent),
		LOS:            e.los,
	}
}

// spendBudget decrements every weapon's remaining budget by one, to a
// floor of zero
func spendBudget(budget map[string]int) {
	for weapon, left := range budget {
		if left > 0 {
			budget[weapon] = left - 1
		}
	}
}

// resetBudget restores every weapon's budget to one activation's worth
func resetBudget(budget map[string]int) {
	for weapon := range budget {
		budget[weapon] = 1
	}
}
