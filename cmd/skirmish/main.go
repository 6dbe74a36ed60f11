package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tabletop-rl/warhex/internal/config"
	"github.com/tabletop-rl/warhex/internal/game"
	"github.com/tabletop-rl/warhex/internal/game/core"
	"github.com/tabletop-rl/warhex/internal/game/events/subscribers"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	seed := flag.Int64("seed", 0, "rng seed (0 means time-based)")
	unitsPerSide := flag.Int("units", 3, "units per player")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	setupLogging(cfg.Logging)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Info().Int64("seed", *seed).Msg("Starting skirmish")
	rng := rand.New(rand.NewSource(*seed))

	scenario, err := buildScenario(cfg, *unitsPerSide)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build scenario")
	}

	engine, err := game.NewEngine(scenario, rng, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create engine")
	}
	engine.EventBus().Subscribe(
		subscribers.NewLoggerSubscriber("skirmish", log.Logger, zerolog.InfoLevel))

	if err := runEpisode(engine, rng); err != nil {
		log.Fatal().Err(err).Msg("Episode failed")
	}

	winner, method := engine.Resolve()
	gs := engine.State()
	log.Info().
		Int("winner", winner).
		Str("method", method).
		Int("final_turn", gs.Turn).
		Int("p1_points", gs.VictoryPoints[core.Player1]).
		Int("p2_points", gs.VictoryPoints[core.Player2]).
		Msg("Skirmish finished")
}

func setupLogging(lc config.LoggingConfig) {
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if lc.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// buildScenario maps the loaded config onto a scenario with a small
// symmetric roster
func buildScenario(cfg *config.Config, unitsPerSide int) (game.ScenarioConfig, error) {
	scenario := game.ScenarioConfig{
		BoardWidth:     cfg.Board.Width,
		BoardHeight:    cfg.Board.Height,
		MaxTurns:       cfg.Engine.MaxTurns,
		ShootRange:     cfg.Engine.ShootRange,
		ChargeRange:    cfg.Engine.ChargeRange,
		AdvanceBonus:   cfg.Engine.AdvanceBonus,
		DeploymentType: cfg.Deployment.Type,
	}

	for _, w := range cfg.Board.Walls {
		scenario.Walls = append(scenario.Walls, core.NewHex(w[0], w[1]))
	}

	id := 1
	for _, player := range []int{core.Player1, core.Player2} {
		for i := 0; i < unitsPerSide; i++ {
			scenario.Units = append(scenario.Units, core.Unit{
				ID:          id,
				Player:      player,
				Type:        "infantry",
				HP:          3,
				MaxHP:       3,
				Movement:    3,
				OC:          1,
				Points:      50,
				ShotsLeft:   map[string]int{"rifle": 1},
				AttacksLeft: map[string]int{"blade": 1},
			})
			id++
		}
	}

	scenario.DeployZones = deployZones(cfg)
	scenario.FixedPositions = map[int]core.Hex{}
	for unitID, pos := range cfg.Deployment.FixedPositions {
		var parsed int
		if _, err := fmt.Sscanf(unitID, "%d", &parsed); err != nil {
			return scenario, fmt.Errorf("deployment.fixed_positions key %q: %w", unitID, err)
		}
		scenario.FixedPositions[parsed] = core.NewHex(pos[0], pos[1])
	}

	for _, oc := range cfg.Objectives.Primary {
		obj, err := buildObjective(oc)
		if err != nil {
			return scenario, err
		}
		scenario.Objectives = append(scenario.Objectives, obj)
	}
	if len(scenario.Objectives) == 0 {
		// Keep the demo interesting: one sticky marker in the middle
		center := core.BoardCenter(cfg.Board.Width, cfg.Board.Height)
		scenario.Objectives = append(scenario.Objectives, core.Objective{
			ID:    "center",
			Hexes: []core.Hex{center},
			Scoring: core.ScoringConfig{
				Method: core.ControlSticky,
				Rules: []core.ScoringRule{
					{Condition: core.CondControlAtLeastOne, Points: 5},
				},
				MaxPointsPerTurn: 5,
				StartTurn:        2,
				DefaultPhase:     "command",
			},
		})
	}

	return scenario, nil
}

// deployZones returns the configured zones, or two three-row home bands
// when none are configured
func deployZones(cfg *config.Config) map[int][]core.Hex {
	zones := map[int][]core.Hex{}
	if len(cfg.Deployment.Zones) > 0 {
		for key, hexes := range cfg.Deployment.Zones {
			player := core.Player1
			if key == "2" {
				player = core.Player2
			}
			for _, h := range hexes {
				zones[player] = append(zones[player], core.NewHex(h[0], h[1]))
			}
		}
		return zones
	}

	depth := 3
	if depth > cfg.Board.Height/2 {
		depth = cfg.Board.Height / 2
	}
	for row := 0; row < depth; row++ {
		for col := 0; col < cfg.Board.Width; col++ {
			zones[core.Player1] = append(zones[core.Player1], core.NewHex(col, row))
			zones[core.Player2] = append(zones[core.Player2], core.NewHex(col, cfg.Board.Height-1-row))
		}
	}
	return zones
}

func buildObjective(oc config.ObjectiveConfig) (core.Objective, error) {
	method, err := core.ParseControlMethod(oc.Control.Method)
	if err != nil {
		return core.Objective{}, fmt.Errorf("objective %s: %w", oc.ID, err)
	}

	obj := core.Objective{
		ID: oc.ID,
		Scoring: core.ScoringConfig{
			Method:                     method,
			MaxPointsPerTurn:           oc.Scoring.MaxPointsPerTurn,
			StartTurn:                  oc.Scoring.StartTurn,
			DefaultPhase:               oc.Timing.DefaultPhase,
			FinalTurnSecondPlayerPhase: oc.Timing.FinalTurnSecondPlayerPhase,
		},
	}
	for _, h := range oc.Hexes {
		obj.Hexes = append(obj.Hexes, core.NewHex(h[0], h[1]))
	}
	for _, rule := range oc.Scoring.Rules {
		obj.Scoring.Rules = append(obj.Scoring.Rules, core.ScoringRule{
			Condition: rule.Condition,
			Points:    rule.Points,
		})
	}
	return obj, nil
}

// runEpisode drives the engine with uniformly random legal actions until
// the episode ends or the turn limit flag fires
func runEpisode(engine *game.Engine, rng *rand.Rand) error {
	for step := 0; !engine.IsOver(); step++ {
		if step > 10000 {
			return fmt.Errorf("episode did not terminate after %d steps", step)
		}

		mask, eligible, err := engine.GetActionMaskAndEligibleUnits()
		if err != nil {
			return err
		}
		// An all-false mask means the engine will end the blocked
		// activation itself; any index works then
		choice := 0
		if valid := mask.ValidIndices(); len(valid) > 0 {
			choice = valid[rng.Intn(len(valid))]
		}

		cmd, err := engine.Step(choice)
		if err != nil {
			return err
		}
		log.Debug().
			Int("step", step).
			Int("eligible", len(eligible)).
			Stringer("command", cmd).
			Msg("Applied action")
	}
	return nil
}
