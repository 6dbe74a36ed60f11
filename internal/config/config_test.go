package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
engine:
  max_turns: 7
  shoot_range: 8
board:
  width: 16
  height: 10
objectives:
  primary:
    - id: "center"
      hexes: [[8, 5]]
      control:
        method: "sticky"
      scoring:
        start_turn: 2
        max_points_per_turn: 5
        rules:
          - condition: "control_at_least_one"
            points: 5
      timing:
        default_phase: "command"
        final_turn_second_player_phase: "fight"
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	// Reset global state
	cfg = nil
	v = nil

	err = Init(configFile)
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 7, c.Engine.MaxTurns)
	assert.Equal(t, 8, c.Engine.ShootRange)
	assert.Equal(t, 13, c.Engine.ActionSpaceSize)
	assert.Equal(t, 16, c.Board.Width)
	assert.Equal(t, 10, c.Board.Height)

	require.Len(t, c.Objectives.Primary, 1)
	obj := c.Objectives.Primary[0]
	assert.Equal(t, "center", obj.ID)
	assert.Equal(t, [2]int{8, 5}, obj.Hexes[0])
	assert.Equal(t, "sticky", obj.Control.Method)
	assert.Equal(t, 2, obj.Scoring.StartTurn)
	assert.Equal(t, 5, obj.Scoring.MaxPointsPerTurn)
	require.Len(t, obj.Scoring.Rules, 1)
	assert.Equal(t, "control_at_least_one", obj.Scoring.Rules[0].Condition)
	assert.Equal(t, 5, obj.Scoring.Rules[0].Points)
	assert.Equal(t, "command", obj.Timing.DefaultPhase)
	assert.Equal(t, "fight", obj.Timing.FinalTurnSecondPlayerPhase)
}

func TestInitWithDefaults(t *testing.T) {
	// Reset global state
	cfg = nil
	v = nil

	// Initialize with non-existent config (should use defaults)
	err := Init("/non/existent/path/config.yaml")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 5, c.Engine.MaxTurns)
	assert.Equal(t, 13, c.Engine.ActionSpaceSize)
	assert.Equal(t, "scored", c.Deployment.Type)
	assert.Equal(t, "console", c.Logging.Format)
}

func TestEnvironmentVariables(t *testing.T) {
	// Reset global state
	cfg = nil
	v = nil

	os.Setenv("WARHEX_ENGINE_MAX_TURNS", "9")
	os.Setenv("WARHEX_BOARD_WIDTH", "20")
	defer os.Unsetenv("WARHEX_ENGINE_MAX_TURNS")
	defer os.Unsetenv("WARHEX_BOARD_WIDTH")

	err := Init("")
	require.NoError(t, err)

	// Environment variables should override
	c := Get()
	assert.Equal(t, 9, c.Engine.MaxTurns)
	assert.Equal(t, 20, c.Board.Width)
}

func TestSet(t *testing.T) {
	// Reset global state
	cfg = nil
	v = nil

	err := Init("")
	require.NoError(t, err)

	Set("engine.charge_range", 4)
	Set("logging.level", "debug")

	c := Get()
	assert.Equal(t, 4, c.Engine.ChargeRange)
	assert.Equal(t, "debug", c.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			Engine: EngineConfig{
				MaxTurns:        5,
				ActionSpaceSize: 13,
				ShootRange:      6,
				ChargeRange:     3,
				AdvanceBonus:    2,
			},
			Board:      BoardConfig{Width: 12, Height: 12},
			Deployment: DeploymentConfig{Type: "scored"},
			Logging:    LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max turns", func(c *Config) { c.Engine.MaxTurns = 0 }},
		{"wrong action space size", func(c *Config) { c.Engine.ActionSpaceSize = 12 }},
		{"zero shoot range", func(c *Config) { c.Engine.ShootRange = 0 }},
		{"negative board width", func(c *Config) { c.Board.Width = -1 }},
		{"wall off the board", func(c *Config) { c.Board.Walls = [][2]int{{99, 0}} }},
		{"unknown deployment type", func(c *Config) { c.Deployment.Type = "clustered" }},
		{"fixed deployment without positions", func(c *Config) { c.Deployment.Type = "fixed" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"objective without id", func(c *Config) {
			c.Objectives.Primary = []ObjectiveConfig{{
				Hexes:   [][2]int{{5, 5}},
				Control: ControlConfig{Method: "sticky"},
				Scoring: ScoringConfig{StartTurn: 1},
				Timing:  TimingConfig{DefaultPhase: "command"},
			}}
		}},
		{"unknown control method", func(c *Config) {
			c.Objectives.Primary = []ObjectiveConfig{{
				ID:      "obj",
				Hexes:   [][2]int{{5, 5}},
				Control: ControlConfig{Method: "contested"},
				Scoring: ScoringConfig{StartTurn: 1},
				Timing:  TimingConfig{DefaultPhase: "command"},
			}}
		}},
		{"unknown scoring condition", func(c *Config) {
			c.Objectives.Primary = []ObjectiveConfig{{
				ID:      "obj",
				Hexes:   [][2]int{{5, 5}},
				Control: ControlConfig{Method: "sticky"},
				Scoring: ScoringConfig{
					StartTurn: 1,
					Rules:     []RuleConfig{{Condition: "hold_everything", Points: 1}},
				},
				Timing: TimingConfig{DefaultPhase: "command"},
			}}
		}},
		{"missing default phase", func(c *Config) {
			c.Objectives.Primary = []ObjectiveConfig{{
				ID:      "obj",
				Hexes:   [][2]int{{5, 5}},
				Control: ControlConfig{Method: "sticky"},
				Scoring: ScoringConfig{StartTurn: 1},
			}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, Validate(c))
		})
	}

	assert.NoError(t, Validate(base()))
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
engine:
  max_turns: 5
board:
  width: 12
`
	err := os.WriteFile(baseConfig, []byte(baseContent), 0644)
	require.NoError(t, err)

	envConfig := filepath.Join(tmpDir, "config.prod.yaml")
	envContent := `
engine:
  max_turns: 10
logging:
  level: "error"
`
	err = os.WriteFile(envConfig, []byte(envContent), 0644)
	require.NoError(t, err)

	oldWd, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldWd) }()

	// Reset global state
	cfg = nil
	v = nil

	err = Init(baseConfig)
	require.NoError(t, err)

	err = LoadEnvironmentConfig("prod")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 10, c.Engine.MaxTurns)  // Overridden
	assert.Equal(t, 12, c.Board.Width)      // Kept from base
	assert.Equal(t, "error", c.Logging.Level)
}
