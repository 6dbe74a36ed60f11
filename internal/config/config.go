package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Engine     EngineConfig     `mapstructure:"engine"`
	Board      BoardConfig      `mapstructure:"board"`
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Objectives ObjectivesConfig `mapstructure:"objectives"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// EngineConfig holds turn-engine mechanics configuration
type EngineConfig struct {
	MaxTurns        int `mapstructure:"max_turns"`
	ActionSpaceSize int `mapstructure:"action_space_size"`
	ShootRange      int `mapstructure:"shoot_range"`
	ChargeRange     int `mapstructure:"charge_range"`
	AdvanceBonus    int `mapstructure:"advance_bonus"`
}

// BoardConfig holds board geometry settings. Walls are listed as
// [col, row] pairs.
type BoardConfig struct {
	Width  int      `mapstructure:"width"`
	Height int      `mapstructure:"height"`
	Walls  [][2]int `mapstructure:"walls"`
}

// DeploymentConfig holds deployment settings. Zones map a player number
// ("1", "2") to its legal [col, row] hexes; fixed positions map a unit id
// to its coordinate when the type is fixed.
type DeploymentConfig struct {
	Type           string              `mapstructure:"type"`
	Zones          map[string][][2]int `mapstructure:"zones"`
	FixedPositions map[string][2]int   `mapstructure:"fixed_positions"`
}

// ObjectivesConfig holds the mission's objective markers
type ObjectivesConfig struct {
	Primary []ObjectiveConfig `mapstructure:"primary"`
}

// ObjectiveConfig describes one objective marker and its scoring mission
type ObjectiveConfig struct {
	ID      string        `mapstructure:"id"`
	Hexes   [][2]int      `mapstructure:"hexes"`
	Control ControlConfig `mapstructure:"control"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Timing  TimingConfig  `mapstructure:"timing"`
}

// ControlConfig selects the control method for a marker
type ControlConfig struct {
	Method string `mapstructure:"method"`
}

// ScoringConfig holds a marker's scoring mission parameters
type ScoringConfig struct {
	StartTurn        int          `mapstructure:"start_turn"`
	MaxPointsPerTurn int          `mapstructure:"max_points_per_turn"`
	Rules            []RuleConfig `mapstructure:"rules"`
}

// RuleConfig is one condition/points pair of a scoring mission
type RuleConfig struct {
	Condition string `mapstructure:"condition"`
	Points    int    `mapstructure:"points"`
}

// TimingConfig pins a marker's scoring checkpoints to phases
type TimingConfig struct {
	DefaultPhase               string `mapstructure:"default_phase"`
	FinalTurnSecondPlayerPhase string `mapstructure:"final_turn_second_player_phase"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Engine defaults
	v.SetDefault("engine.max_turns", 5)
	v.SetDefault("engine.action_space_size", 13)
	v.SetDefault("engine.shoot_range", 6)
	v.SetDefault("engine.charge_range", 3)
	v.SetDefault("engine.advance_bonus", 2)

	// Board defaults
	v.SetDefault("board.width", 12)
	v.SetDefault("board.height", 12)
	v.SetDefault("board.walls", [][2]int{})

	// Deployment defaults
	v.SetDefault("deployment.type", "scored")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/warhex")
	}

	v.SetEnvPrefix("WARHEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			// Specific file requested but not found; fall back to defaults
		} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig loads environment-specific config overlay
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return nil
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file
func WatchConfig(onChange func()) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		v.Unmarshal(cfg)
		if onChange != nil {
			onChange()
		}
	})
}

// knownConditions are the scoring conditions the tracker evaluates
var knownConditions = map[string]bool{
	"control_at_least_one":       true,
	"control_at_least_two":       true,
	"control_more_than_opponent": true,
}

// knownPhases are the phases a scoring checkpoint may be pinned to
var knownPhases = map[string]bool{
	"command": true,
	"move":    true,
	"shoot":   true,
	"charge":  true,
	"fight":   true,
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Engine.MaxTurns <= 0 {
		return fmt.Errorf("engine.max_turns must be positive")
	}
	if c.Engine.ActionSpaceSize != 13 {
		return fmt.Errorf("engine.action_space_size must be 13, got %d", c.Engine.ActionSpaceSize)
	}
	if c.Engine.ShootRange <= 0 {
		return fmt.Errorf("engine.shoot_range must be positive")
	}
	if c.Engine.ChargeRange <= 0 {
		return fmt.Errorf("engine.charge_range must be positive")
	}
	if c.Engine.AdvanceBonus < 0 {
		return fmt.Errorf("engine.advance_bonus must be non-negative")
	}

	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("board dimensions must be positive")
	}
	for _, w := range c.Board.Walls {
		if w[0] < 0 || w[0] >= c.Board.Width || w[1] < 0 || w[1] >= c.Board.Height {
			return fmt.Errorf("board.walls entry [%d, %d] outside the board", w[0], w[1])
		}
	}

	switch c.Deployment.Type {
	case "scored", "fixed", "random":
	default:
		return fmt.Errorf("deployment.type must be scored, fixed or random, got %q", c.Deployment.Type)
	}
	if c.Deployment.Type == "fixed" && len(c.Deployment.FixedPositions) == 0 {
		return fmt.Errorf("deployment.fixed_positions required for fixed deployment")
	}

	for i := range c.Objectives.Primary {
		obj := &c.Objectives.Primary[i]
		if obj.ID == "" {
			return fmt.Errorf("objectives.primary[%d].id must be set", i)
		}
		if len(obj.Hexes) == 0 {
			return fmt.Errorf("objective %s: hexes must not be empty", obj.ID)
		}
		switch obj.Control.Method {
		case "sticky", "occupy":
		default:
			return fmt.Errorf("objective %s: control.method must be sticky or occupy, got %q",
				obj.ID, obj.Control.Method)
		}
		if obj.Scoring.StartTurn < 1 {
			return fmt.Errorf("objective %s: scoring.start_turn must be at least 1", obj.ID)
		}
		if obj.Scoring.MaxPointsPerTurn < 0 {
			return fmt.Errorf("objective %s: scoring.max_points_per_turn must be non-negative", obj.ID)
		}
		for _, rule := range obj.Scoring.Rules {
			if !knownConditions[rule.Condition] {
				return fmt.Errorf("objective %s: unknown scoring condition %q", obj.ID, rule.Condition)
			}
		}
		if obj.Timing.DefaultPhase == "" {
			return fmt.Errorf("objective %s: timing.default_phase must be set", obj.ID)
		}
		if !knownPhases[obj.Timing.DefaultPhase] {
			return fmt.Errorf("objective %s: unknown timing.default_phase %q", obj.ID, obj.Timing.DefaultPhase)
		}
		if obj.Timing.FinalTurnSecondPlayerPhase != "" && !knownPhases[obj.Timing.FinalTurnSecondPlayerPhase] {
			return fmt.Errorf("objective %s: unknown timing.final_turn_second_player_phase %q",
				obj.ID, obj.Timing.FinalTurnSecondPlayerPhase)
		}
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}
